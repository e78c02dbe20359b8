package form

import (
	"fmt"
	"time"

	"github.com/dharsanguruparan/DocFlow/internal/model"
)

// DefaultInvoiceType is preselected when the invoice modal opens.
const DefaultInvoiceType = "invoice"

// ItemForm is one invoice line as typed by the user.
type ItemForm struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Price    string `json:"price"`
}

// InvoiceForm mirrors the invoice modal.
type InvoiceForm struct {
	Type        string     `json:"invoiceType"`
	ClientName  string     `json:"clientName"`
	ClientTaxID string     `json:"clientTaxId"`
	Date        string     `json:"invoiceDate"`
	VATRate     string     `json:"vatRate"`
	Items       []ItemForm `json:"items"`
}

// Totals computes subtotal = Σ(quantity × price), vat = subtotal × rate / 100
// and total = subtotal + vat.
func Totals(items []model.Item, vatRate float64) (subtotal, vat, total float64) {
	for _, item := range items {
		subtotal += item.Sum()
	}
	vat = subtotal * vatRate / 100
	total = subtotal + vat
	return subtotal, vat, total
}

// InvoiceNumber formats the sequential invoice number for a year, e.g.
// INV-2026-0007 for the seventh invoice.
func InvoiceNumber(year, seq int) string {
	return fmt.Sprintf("INV-%d-%04d", year, seq)
}

// ExtractInvoice builds an invoice record with computed totals.
func ExtractInvoice(f InvoiceForm, number, id string, now time.Time) model.Invoice {
	kind := f.Type
	if kind == "" {
		kind = DefaultInvoiceType
	}
	items := make([]model.Item, 0, len(f.Items))
	for _, it := range f.Items {
		items = append(items, model.Item{
			Name:     it.Name,
			Quantity: ParseAmount(it.Quantity),
			Price:    ParseAmount(it.Price),
		})
	}
	rate := ParseAmount(f.VATRate)
	subtotal, vat, total := Totals(items, rate)
	date := f.Date
	if date == "" {
		date = now.Format("2006-01-02")
	}
	return model.Invoice{
		ID:          id,
		Type:        kind,
		ClientName:  f.ClientName,
		ClientTaxID: f.ClientTaxID,
		Date:        date,
		Items:       items,
		Subtotal:    subtotal,
		VAT:         vat,
		Total:       total,
		VATRate:     rate,
		Number:      number,
		CreatedAt:   model.Timestamp(now),
	}
}
