package form

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dharsanguruparan/DocFlow/internal/model"
)

func TestTotalsExample(t *testing.T) {
	subtotal, vat, total := Totals([]model.Item{
		{Name: "a", Quantity: 2, Price: 100},
		{Name: "b", Quantity: 1, Price: 50},
	}, 20)
	assert.Equal(t, 250.0, subtotal)
	assert.Equal(t, 50.0, vat)
	assert.Equal(t, 300.0, total)
}

func TestTotalsInvariant(t *testing.T) {
	lists := [][]model.Item{
		nil,
		{},
		{{Quantity: 0.3, Price: 0.1}},
		{{Quantity: 3, Price: 19.99}, {Quantity: 1.5, Price: 7.77}},
	}
	for _, items := range lists {
		for _, rate := range []float64{0, 7, 20, 33.3} {
			subtotal, vat, total := Totals(items, rate)
			var sum float64
			for _, it := range items {
				sum += it.Quantity * it.Price
			}
			assert.Equal(t, sum, subtotal)
			assert.Equal(t, subtotal*rate/100, vat)
			assert.Equal(t, subtotal+vat, total)
		}
	}
}

func TestExtractInvoice(t *testing.T) {
	inv := ExtractInvoice(InvoiceForm{
		ClientName: "ФОП Шевченко",
		VATRate:    "20",
		Items: []ItemForm{
			{Name: "Консультація", Quantity: "2", Price: "100"},
			{Name: "Звіт", Quantity: "1", Price: "50"},
		},
	}, InvoiceNumber(2026, 1), "10", now)

	assert.Equal(t, DefaultInvoiceType, inv.Type)
	assert.Equal(t, "INV-2026-0001", inv.Number)
	assert.Equal(t, "2026-03-10", inv.Date)
	assert.Equal(t, 250.0, inv.Subtotal)
	assert.Equal(t, 50.0, inv.VAT)
	assert.Equal(t, 300.0, inv.Total)
	assert.Len(t, inv.Items, 2)
}

func TestExtractInvoiceEmptyItems(t *testing.T) {
	inv := ExtractInvoice(InvoiceForm{Type: "act", VATRate: "oops"}, "INV-2026-0002", "11", now)
	assert.Zero(t, inv.Subtotal)
	assert.Zero(t, inv.VAT)
	assert.Zero(t, inv.Total)
	assert.Zero(t, inv.VATRate)
	assert.NotNil(t, inv.Items)
}
