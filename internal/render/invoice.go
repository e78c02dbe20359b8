package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dharsanguruparan/DocFlow/internal/model"
)

var invoiceTypeNames = map[string]string{
	"invoice":         "Рахунок-фактура",
	"act":             "Акт наданих послуг",
	"invoice-foreign": "Інвойс",
	"receipt":         "Квитанція",
}

// InvoiceTypeName returns the heading for an invoice type.
func InvoiceTypeName(kind string) (string, bool) {
	name, ok := invoiceTypeNames[kind]
	return name, ok
}

// Invoice renders the fixed-column plain-text layout for inv.
func (e *Engine) Invoice(inv model.Invoice) (Document, error) {
	return RenderInvoice(inv)
}

// RenderInvoice is Invoice without an engine; invoices have no templates.
func RenderInvoice(inv model.Invoice) (Document, error) {
	typeName, ok := InvoiceTypeName(inv.Type)
	if !ok {
		return Document{}, fmt.Errorf("%w: invoice type %q", ErrUnknownType, inv.Type)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\nНомер: %s\nДата: %s\n\n", typeName, inv.Number, FormatDate(inv.Date))
	fmt.Fprintf(&b, "Клієнт: %s\n", inv.ClientName)
	if inv.ClientTaxID != "" {
		fmt.Fprintf(&b, "ІПН/ЄДРПОУ: %s\n", inv.ClientTaxID)
	}
	b.WriteString("\nПозиції:\n")
	b.WriteString(padRight("Назва", 30) + padRight("Кільк.", 10) + padRight("Ціна", 15) + padRight("Сума", 15) + "\n")
	b.WriteString(strings.Repeat("-", 70) + "\n")
	for _, item := range inv.Items {
		b.WriteString(padRight(truncate(item.Name, 28), 30))
		b.WriteString(padRight(formatNumber(item.Quantity), 10))
		b.WriteString(padRight(fmt.Sprintf("%.2f", item.Price), 15))
		b.WriteString(padRight(fmt.Sprintf("%.2f", item.Sum()), 15))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nПідсумок без ПДВ: %.2f ₴\n", inv.Subtotal)
	if inv.VATRate > 0 {
		fmt.Fprintf(&b, "ПДВ (%s%%): %.2f ₴\n", formatNumber(inv.VATRate), inv.VAT)
	}
	fmt.Fprintf(&b, "ВСЬОГО: %.2f ₴\n", inv.Total)

	return Document{
		Title:    typeName + " " + inv.Number,
		Text:     b.String(),
		Filename: fmt.Sprintf("%s_%s.docx", typeName, inv.Number),
	}, nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func padRight(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
