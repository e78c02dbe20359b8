package analytics

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharsanguruparan/DocFlow/internal/model"
)

func TestTaxRate(t *testing.T) {
	assert.Equal(t, 0.05, TaxRate(TaxSingle))
	assert.Equal(t, 0.10, TaxRate(TaxSingle10))
	assert.Equal(t, 0.20, TaxRate(TaxGeneral))
	assert.Equal(t, 0.05, TaxRate("whatever"))
	assert.True(t, ValidTaxSystem("general"))
	assert.False(t, ValidTaxSystem("flat"))
}

func TestSummarize(t *testing.T) {
	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	invoices := []model.Invoice{
		{Date: "2024-03-01", Total: 1000},
		{Date: "2024-03-20", Total: 500},
		{Date: "2024-01-10", Total: 1500},
		{Date: "2023-03-10", Total: 9999},
		{Date: "", Total: 7777},
	}
	s := Summarize(invoices, TaxGeneral, now)

	assert.Equal(t, 1500.0, s.MonthlyIncome)
	assert.InDelta(t, 300.0, s.MonthlyTax, 1e-9)
	assert.InDelta(t, 3000.0/3*12, s.YearForecast, 1e-9)
	assert.Equal(t, 1500.0, s.Months[0])
	assert.Equal(t, 1500.0, s.Months[2])
	assert.Zero(t, s.Months[1])
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, TaxSingle, time.Now())
	assert.Zero(t, s.YearForecast)
	assert.Zero(t, s.MonthlyIncome)
}

func TestExportCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, []model.Invoice{
		{Date: "2024-03-01", Type: "invoice", ClientName: "ТОВ Ромашка", Total: 300},
		{Date: "2024-03-02", Type: "act", ClientName: "Іваненко, ФОП", Total: 12.5},
	}))
	assert.Equal(t,
		"Дата,Тип,Клієнт,Сума\n2024-03-01,invoice,ТОВ Ромашка,300\n2024-03-02,act,\"Іваненко, ФОП\",12.5\n",
		buf.String())
	assert.Equal(t, "Аналітика_2024-03-01.csv", ExportFilename(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
}
