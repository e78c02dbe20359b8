package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dharsanguruparan/DocFlow/internal/model"
	pdfutil "github.com/dharsanguruparan/DocFlow/internal/pdf"
	"github.com/dharsanguruparan/DocFlow/internal/render"
	"github.com/dharsanguruparan/DocFlow/internal/state"
)

func newQuotaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "quota",
		Short: "Show the plan and remaining documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap := a.ctrl.Snapshot()
			a.printf("Користувач: %s\nПідписка: %s\n", snap.UserID, snap.Subscription)
			if left, limited := a.ctrl.Remaining(); limited {
				a.printf("Залишилось документів: %d з %d\n", left, a.cfg.Quota.Limit)
			} else {
				a.printf("Необмежена генерація\n")
			}
			return nil
		},
	}
}

func newSubscribeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "subscribe <free|pro|business>",
		Short:     "Switch subscription plan",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(model.PlanFree), string(model.PlanPro), string(model.PlanBusiness)},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.ctrl.Subscribe(cmd.Context(), model.Plan(args[0]))
		},
	}
}

func newTaxCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tax <single|single-10|general>",
		Short: "Set the tax system used by analytics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ctrl.SetTaxSystem(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.printf("Систему оподаткування змінено: %s\n", args[0])
			return nil
		},
	}
}

func newAnalyticsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "analytics",
		Short: "Show income, tax and the yearly forecast",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := a.ctrl.Analytics()
			a.printf("Дохід цього місяця: %s\n", render.Currency(s.MonthlyIncome))
			a.printf("Податок (%.0f%%): %s\n", s.TaxRate*100, render.Currency(s.MonthlyTax))
			a.printf("Прогноз на рік: %s\n", render.Currency(s.YearForecast))
			return nil
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export invoices as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			var buf bytes.Buffer
			name, err := a.ctrl.ExportCSV(&buf)
			if err != nil {
				return err
			}
			if dir == "" {
				dir = a.cfg.Delivery.OutputDir
			}
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			a.printf("%s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Directory to write the CSV to")
	return cmd
}

func newSignCmd(a *app) *cobra.Command {
	var (
		in   state.SignInput
		file string
	)
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Create a signing link (paid plans)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file != "" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				info, data, err := pdfutil.InspectReader(f, a.cfg.Server.MaxUploadBytes)
				f.Close()
				if err != nil {
					return fmt.Errorf("%s: %w", file, err)
				}
				a.printf("%s: сторінок %d\n", filepath.Base(file), info.Pages)
				in.File = data
				if in.DocumentName == "" {
					in.DocumentName = filepath.Base(file)
				}
			}
			_, err := a.ctrl.CreateSignLink(cmd.Context(), in)
			return err
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "Signer email")
	cmd.Flags().StringVar(&in.DocumentName, "name", "", "Document name shown to the signer")
	cmd.Flags().StringVarP(&file, "file", "f", "", "PDF to attach")
	cmd.AddCommand(&cobra.Command{
		Use:   "pending",
		Short: "List requests waiting for a signature",
		RunE: func(cmd *cobra.Command, args []string) error {
			pending := a.ctrl.PendingSignatures()
			if len(pending) == 0 {
				a.printf("Немає документів на підписанні\n")
			}
			for _, r := range pending {
				a.printf("  %s  %s → %s (%s)\n", r.ID, r.DocumentName, r.Email, render.FormatDate(r.CreatedAt))
			}
			return nil
		},
	})
	return cmd
}

func newSyncCmd(a *app) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Merge records from the remote store",
		RunE: func(cmd *cobra.Command, args []string) error {
			syncer := state.NewSyncer(a.ctrl, a.cfg.Remote.SyncInterval)
			if watch {
				a.printf("Синхронізація кожні %s, Ctrl+C для виходу\n", a.cfg.Remote.SyncInterval)
				return syncer.Run(cmd.Context())
			}
			if syncer.Once(cmd.Context()) {
				a.printf("Отримано нові записи\n")
			} else {
				a.printf("Нових записів немає\n")
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep syncing until interrupted")
	return cmd
}

func newUserCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Show the user id this installation acts as",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.printf("%s\n", a.ctrl.UserID())
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set <id>",
		Short: "Pin this installation to a user id, e.g. telegram_<id>",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.local.SetUserID(cmd.Context(), args[0])
		},
	})
	return cmd
}
