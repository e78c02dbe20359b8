// Package analytics computes the income dashboard from issued invoices.
package analytics

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dharsanguruparan/DocFlow/internal/model"
)

// Tax systems for individual entrepreneurs.
const (
	TaxSingle   = "single"
	TaxSingle10 = "single-10"
	TaxGeneral  = "general"
)

// MonthLabels are the chart's short month names.
var MonthLabels = [12]string{"Січ", "Лют", "Бер", "Кві", "Тра", "Чер", "Лип", "Сер", "Вер", "Жов", "Лис", "Гру"}

// TaxRate returns the rate for a tax system; unknown systems use the single
// tax's 5%.
func TaxRate(system string) float64 {
	switch system {
	case TaxSingle10:
		return 0.10
	case TaxGeneral:
		return 0.20
	}
	return 0.05
}

// ValidTaxSystem reports whether system is one of the known tax systems.
func ValidTaxSystem(system string) bool {
	switch system {
	case TaxSingle, TaxSingle10, TaxGeneral:
		return true
	}
	return false
}

// Summary is the dashboard for one moment in time.
type Summary struct {
	TaxSystem     string      `json:"taxSystem"`
	TaxRate       float64     `json:"taxRate"`
	MonthlyIncome float64     `json:"monthlyIncome"`
	MonthlyTax    float64     `json:"monthlyTax"`
	YearForecast  float64     `json:"yearForecast"`
	Months        [12]float64 `json:"months"`
}

// Summarize buckets invoice totals by their own date (not createdAt) within
// now's calendar year. Invoices with an unreadable date are ignored.
func Summarize(invoices []model.Invoice, system string, now time.Time) Summary {
	s := Summary{TaxSystem: system, TaxRate: TaxRate(system)}
	var yearTotal float64
	var yearCount int
	for _, inv := range invoices {
		d, ok := model.ParseTimestamp(inv.Date)
		if !ok || d.Year() != now.Year() {
			continue
		}
		s.Months[d.Month()-1] += inv.Total
		yearTotal += inv.Total
		yearCount++
	}
	s.MonthlyIncome = s.Months[now.Month()-1]
	s.MonthlyTax = s.MonthlyIncome * s.TaxRate
	if yearCount > 0 {
		s.YearForecast = yearTotal / float64(now.Month()) * 12
	}
	return s
}

// ExportCSV writes one row per invoice under the header Дата,Тип,Клієнт,Сума.
func ExportCSV(w io.Writer, invoices []model.Invoice) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Дата", "Тип", "Клієнт", "Сума"}); err != nil {
		return err
	}
	for _, inv := range invoices {
		row := []string{inv.Date, inv.Type, inv.ClientName, strconv.FormatFloat(inv.Total, 'f', -1, 64)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// ExportFilename is the name the CSV is offered under.
func ExportFilename(now time.Time) string {
	return "Аналітика_" + now.Format("2006-01-02") + ".csv"
}
