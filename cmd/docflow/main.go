package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dharsanguruparan/DocFlow/internal/config"
	"github.com/dharsanguruparan/DocFlow/internal/emit"
	"github.com/dharsanguruparan/DocFlow/internal/localstore"
	"github.com/dharsanguruparan/DocFlow/internal/logger"
	"github.com/dharsanguruparan/DocFlow/internal/quota"
	"github.com/dharsanguruparan/DocFlow/internal/remote"
	"github.com/dharsanguruparan/DocFlow/internal/signing"
	"github.com/dharsanguruparan/DocFlow/internal/state"
)

type options struct {
	configPath string
	userID     string
	token      string
	outputDir  string
	logLevel   string
	offline    bool
}

// app is what every command shares once the local store is open.
type app struct {
	cfg    *config.Config
	log    *zap.Logger
	local  *localstore.Store
	ctrl   *state.Controller
	bridge *state.ConsoleBridge
	out    io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand(os.Stdout, os.Stdin)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "docflow: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand(out io.Writer, in io.Reader) *cobra.Command {
	opts := &options{}
	a := &app{out: out}
	cmd := &cobra.Command{
		Use:   "docflow",
		Short: "Generate Ukrainian contracts and invoices",
		Long: `docflow fills contract and invoice templates from form input, keeps the history in a local
SQLite file and mirrors it to the DocFlow remote store when one is configured.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd.Context(), opts, in)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}
	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "docflow.yaml", "Config file to use")
	flags.StringVar(&opts.userID, "user", "", "Act as this user id instead of the stored one")
	flags.StringVar(&opts.token, "token", os.Getenv("DOCFLOW_TOKEN"), "Bearer token for the remote store")
	flags.StringVarP(&opts.outputDir, "output", "o", "", "Directory generated files are saved to")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flags.BoolVar(&opts.offline, "offline", false, "Do not contact the remote store")

	cmd.AddCommand(
		newTypesCmd(a),
		newContractCmd(a),
		newInvoiceCmd(a),
		newListCmd(a),
		newRegenerateCmd(a),
		newQuotaCmd(a),
		newSubscribeCmd(a),
		newTaxCmd(a),
		newAnalyticsCmd(a),
		newExportCmd(a),
		newSignCmd(a),
		newSyncCmd(a),
		newUserCmd(a),
	)
	return cmd
}

func (a *app) open(ctx context.Context, opts *options, in io.Reader) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.outputDir != "" {
		cfg.Delivery.OutputDir = opts.outputDir
	}
	log, err := logger.New(logger.Config{Level: opts.logLevel, Format: "console"})
	if err != nil {
		return err
	}
	local, err := localstore.Open(cfg.Local.Path)
	if err != nil {
		return err
	}
	a.cfg, a.log, a.local = cfg, log, local

	userID := opts.userID
	if userID == "" {
		userID, err = local.UserID(ctx, func() string { return state.LocalUserID(time.Now()) })
		if err != nil {
			return err
		}
	}

	a.bridge = state.NewConsoleBridge(a.out, in)
	ctrlOpts := state.Options{
		UserID: userID,
		Local:  local,
		Bridge: a.bridge,
		Runner: state.InlineRunner{},
		Gate:   quota.Gate{Limit: cfg.Quota.Limit, Window: cfg.Quota.Window},
		Log:    log,
	}
	if cfg.Remote.BaseURL != "" && !opts.offline {
		client := remote.NewClient(cfg.Remote)
		if opts.token != "" {
			client = client.WithToken(opts.token)
		}
		ctrlOpts.Remote = client
	}
	if cfg.Signing.Secret != "" {
		ctrlOpts.Links = signing.Links{
			Signer:  signing.NewSigner(cfg.Signing.SecretBytes),
			BaseURL: cfg.Server.PublicURL,
			TTL:     cfg.Signing.LinkTTL,
		}
	}
	notice := emit.ClipboardNotice{Notifier: a.bridge}
	if cfg.Delivery.Clipboard && !clipboard.Unsupported {
		notice.Copy = clipboard.WriteAll
	}
	ctrlOpts.Delivery = emit.NewChain(log, emit.SaveFile{Dir: cfg.Delivery.OutputDir}, notice)

	ctrl, err := state.New(ctrlOpts)
	if err != nil {
		return err
	}
	if err := ctrl.Load(ctx); err != nil {
		return err
	}
	a.ctrl = ctrl
	return nil
}

func (a *app) close() error {
	if a.log != nil {
		_ = a.log.Sync()
	}
	if a.local != nil {
		return a.local.Close()
	}
	return nil
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
