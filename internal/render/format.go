package render

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/dharsanguruparan/DocFlow/internal/model"
)

// Fallback text. Blank runs match the line lengths of the legal prose they
// sit in.
const (
	NotSpecified = "не вказано"
	None         = "немає"
	BlankLine    = "_________________"

	blankDay   = "___"
	blankMonth = "___________"
	blankYear  = "20___"
)

// Genitive month names, indexed 0–11.
var months = [12]string{
	"січня", "лютого", "березня", "квітня", "травня", "червня",
	"липня", "серпня", "вересня", "жовтня", "листопада", "грудня",
}

// MonthName returns the genitive month name for a time.Month.
func MonthName(m time.Month) string {
	return months[int(m)-1]
}

// ParseDate accepts date-input values (2006-01-02) and ISO timestamps.
func ParseDate(s string) (time.Time, bool) {
	return model.ParseTimestamp(strings.TrimSpace(s))
}

// LongDate formats t as "15 січня 2024 р.".
func LongDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d р.", t.Day(), MonthName(t.Month()), t.Year())
}

// FormatDate renders an optional date: empty input is "не вказано", input
// that does not parse is a blank line.
func FormatDate(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotSpecified
	}
	t, ok := ParseDate(s)
	if !ok {
		return BlankLine
	}
	return LongDate(t)
}

// Currency formats v in the uk-UA currency style, e.g. "1 500,00 ₴".
func Currency(v float64) string {
	p := message.NewPrinter(language.Ukrainian)
	return p.Sprint(number.Decimal(v, number.Scale(2))) + "\u00a0₴"
}

// FormatAmount renders a contract amount. Zero is indistinguishable from an
// amount that was never entered; both render as "не вказано".
func FormatAmount(v float64) string {
	if v == 0 {
		return NotSpecified
	}
	return Currency(v)
}

// DateParts splits a date into day, genitive month and year for the rent
// header. Unparseable input yields fixed-width underscore placeholders.
func DateParts(s string, now time.Time) (day, month, year string) {
	t := now
	if strings.TrimSpace(s) != "" {
		parsed, ok := ParseDate(s)
		if !ok {
			return blankDay, blankMonth, blankYear
		}
		t = parsed
	}
	return fmt.Sprint(t.Day()), MonthName(t.Month()), fmt.Sprint(t.Year())
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
