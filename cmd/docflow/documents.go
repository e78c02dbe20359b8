package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dharsanguruparan/DocFlow/internal/form"
	"github.com/dharsanguruparan/DocFlow/internal/state"
	"github.com/dharsanguruparan/DocFlow/internal/templates"
)

func newTypesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List contract types",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, k := range templates.Kinds() {
				a.printf("%s %-14s %s\n", k.Icon, k.ID, k.Name)
			}
			return nil
		},
	}
}

func newContractCmd(a *app) *cobra.Command {
	var (
		kind   string
		fields map[string]string
		from   string
	)
	cmd := &cobra.Command{
		Use:   "contract",
		Short: "Generate a contract",
		Example: `  docflow contract --type services --set counterpartyName="ТОВ Ромашка" --set contractAmount=1000
  docflow contract --from rent.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			values := map[string]string{}
			if from != "" {
				data, err := os.ReadFile(from)
				if err != nil {
					return err
				}
				if err := json.Unmarshal(data, &values); err != nil {
					return fmt.Errorf("parse %s: %w", from, err)
				}
			}
			for k, v := range fields {
				values[k] = v
			}
			if kind != "" {
				values["contractType"] = kind
			}
			cf := form.Bind(values)
			var missing *form.FieldError
			if errors.As(form.Validate(cf), &missing) {
				a.printf("Увага: не заповнено %s\n", strings.Join(missing.Fields, ", "))
			}
			res, err := a.ctrl.SubmitContract(cmd.Context(), cf)
			if err != nil {
				return err
			}
			a.report(res)
			return nil
		},
	}
	cmd.Flags().StringVarP(&kind, "type", "t", "", "Contract type (see docflow types)")
	cmd.Flags().StringToStringVar(&fields, "set", nil, "Form field as inputId=value, repeatable")
	cmd.Flags().StringVar(&from, "from", "", "JSON file of inputId → value")
	return cmd
}

func newInvoiceCmd(a *app) *cobra.Command {
	var (
		f     form.InvoiceForm
		items []string
	)
	cmd := &cobra.Command{
		Use:     "invoice",
		Short:   "Generate an invoice, act or receipt",
		Example: `  docflow invoice --client "ФОП Петренко" --vat 20 --item "Консультація:2:100" --item "Звіт:1:50"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, raw := range items {
				item, err := parseItem(raw)
				if err != nil {
					return err
				}
				f.Items = append(f.Items, item)
			}
			res, err := a.ctrl.SubmitInvoice(cmd.Context(), f)
			if err != nil {
				return err
			}
			a.report(res)
			return nil
		},
	}
	cmd.Flags().StringVarP(&f.Type, "type", "t", form.DefaultInvoiceType, "invoice, act or receipt")
	cmd.Flags().StringVar(&f.ClientName, "client", "", "Client name")
	cmd.Flags().StringVar(&f.ClientTaxID, "tax-id", "", "Client tax id (ЄДРПОУ/ІПН)")
	cmd.Flags().StringVar(&f.Date, "date", "", "Invoice date, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.VATRate, "vat", "0", "VAT rate in percent")
	cmd.Flags().StringArrayVar(&items, "item", nil, "Line item as name:quantity:price, repeatable")
	return cmd
}

// parseItem splits "name:quantity:price" from the right so names may
// contain colons.
func parseItem(raw string) (form.ItemForm, error) {
	priceAt := strings.LastIndex(raw, ":")
	if priceAt < 0 {
		return form.ItemForm{}, fmt.Errorf("item %q: want name:quantity:price", raw)
	}
	qtyAt := strings.LastIndex(raw[:priceAt], ":")
	if qtyAt < 0 {
		return form.ItemForm{}, fmt.Errorf("item %q: want name:quantity:price", raw)
	}
	return form.ItemForm{
		Name:     raw[:qtyAt],
		Quantity: raw[qtyAt+1 : priceAt],
		Price:    raw[priceAt+1:],
	}, nil
}

func newListCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show recent contracts and invoices",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.printf("Договори:\n")
			a.printEntries(a.ctrl.Contracts(limit))
			a.printf("\nРахунки:\n")
			a.printEntries(a.ctrl.Invoices(limit))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", state.DefaultListSize, "How many records of each kind to show")
	return cmd
}

func newRegenerateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "regenerate <id>",
		Short: "Render a stored contract or invoice again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.ctrl.Regenerate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.report(res)
			return nil
		},
	}
}

func (a *app) printEntries(entries []state.Entry) {
	if len(entries) == 0 {
		a.printf("  (порожньо)\n")
		return
	}
	for _, e := range entries {
		a.printf("  %s  %s\n      %s\n", e.ID, e.Title, e.Detail)
	}
}

func (a *app) report(res *state.Result) {
	switch {
	case res.Outcome.Delivered:
		a.printf("%s: %s\n", res.Outcome.Strategy, res.Outcome.Location)
	default:
		a.printf("Файл %s не доставлено\n", res.Artifact.Filename)
	}
	if !res.Unlimited {
		a.printf("Залишилось документів цього місяця: %d\n", res.Remaining)
	}
}
