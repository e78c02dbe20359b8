package state

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/dharsanguruparan/DocFlow/internal/emit"
	"github.com/dharsanguruparan/DocFlow/internal/model"
)

// LocalStore is the durable local copy. Load returns localstore.ErrNoState
// when nothing was saved yet.
type LocalStore interface {
	Load(ctx context.Context, userID string) (*model.AppState, error)
	Save(ctx context.Context, st *model.AppState) error
}

// RemoteStore is the best-effort mirror. Every error is treated as "no data".
type RemoteStore interface {
	LoadContracts(ctx context.Context, userID string) ([]model.Contract, error)
	LoadInvoices(ctx context.Context, userID string) ([]model.Invoice, error)
	LoadDocuments(ctx context.Context, userID string) ([]model.SignRequest, error)
	SaveContract(ctx context.Context, userID string, c model.Contract) (string, error)
	SaveInvoice(ctx context.Context, userID string, inv model.Invoice) (string, error)
	SaveDocument(ctx context.Context, userID string, d model.SignRequest) (string, error)
	LoadSettings(ctx context.Context, userID string) (*model.Settings, error)
	SaveSettings(ctx context.Context, userID string, s model.Settings) (string, error)
}

// Bridge is the host application shell the user sees.
type Bridge interface {
	Alert(ctx context.Context, text string) error
	Confirm(ctx context.Context, text string) (bool, error)
	OpenLink(ctx context.Context, url string) error
}

// Runner executes fire-and-forget work.
type Runner interface {
	Go(name string, fn func(ctx context.Context) error)
}

// Delivery hands an artifact to the user; *emit.Chain implements it.
type Delivery interface {
	Deliver(ctx context.Context, a emit.Artifact) emit.Outcome
}

// InlineRunner runs work synchronously on a background context. It suits
// short-lived processes that must not exit before mirroring finishes.
type InlineRunner struct{}

func (InlineRunner) Go(_ string, fn func(ctx context.Context) error) {
	_ = fn(context.Background())
}

// ConsoleBridge is the plain-terminal bridge used when no host shell exists.
type ConsoleBridge struct {
	mu  sync.Mutex
	out io.Writer
	in  *bufio.Reader
}

// NewConsoleBridge writes to out and reads confirmations from in. A nil in
// answers every confirmation with "no".
func NewConsoleBridge(out io.Writer, in io.Reader) *ConsoleBridge {
	b := &ConsoleBridge{out: out}
	if in != nil {
		b.in = bufio.NewReader(in)
	}
	return b
}

func (b *ConsoleBridge) Alert(_ context.Context, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := fmt.Fprintln(b.out, text)
	return err
}

func (b *ConsoleBridge) Confirm(_ context.Context, text string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := fmt.Fprintf(b.out, "%s [y/N] ", text); err != nil {
		return false, err
	}
	if b.in == nil {
		fmt.Fprintln(b.out)
		return false, nil
	}
	line, err := b.in.ReadString('\n')
	if err != nil && line == "" {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "т", "так":
		return true, nil
	}
	return false, nil
}

func (b *ConsoleBridge) OpenLink(_ context.Context, url string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := fmt.Fprintf(b.out, "Відкрийте посилання: %s\n", url)
	return err
}

// LogBridge stands in for a missing host shell on the server. Messages go to
// the log and every confirmation is declined.
type LogBridge struct {
	log *zap.Logger
}

func NewLogBridge(log *zap.Logger) *LogBridge {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogBridge{log: log.Named("bridge")}
}

func (b *LogBridge) Alert(_ context.Context, text string) error {
	b.log.Info("alert", zap.String("text", text))
	return nil
}

func (b *LogBridge) Confirm(_ context.Context, text string) (bool, error) {
	b.log.Info("confirm declined", zap.String("text", text))
	return false, nil
}

func (b *LogBridge) OpenLink(_ context.Context, url string) error {
	b.log.Info("open link", zap.String("url", url))
	return nil
}
