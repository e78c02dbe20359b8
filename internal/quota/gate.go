// Package quota enforces the free plan's monthly document allowance. The
// count is computed from the caller's own history; nothing here talks to the
// remote store.
package quota

import (
	"errors"
	"time"

	"github.com/dharsanguruparan/DocFlow/internal/model"
)

// ErrLimitReached is returned when the free allowance for the window is used up.
var ErrLimitReached = errors.New("monthly document limit reached")

const (
	DefaultLimit  = 3
	DefaultWindow = 30 * 24 * time.Hour
)

// Gate compares a trailing-window document count against a plan allowance.
// Contracts and invoices share one allowance.
type Gate struct {
	Limit  int
	Window time.Duration
}

// Default returns the free-plan gate: 3 documents per trailing 30 days.
func Default() Gate {
	return Gate{Limit: DefaultLimit, Window: DefaultWindow}
}

// Count returns how many records were created strictly after now-Window.
// Records with an unreadable createdAt are not counted.
func (g Gate) Count(contracts []model.Contract, invoices []model.Invoice, now time.Time) int {
	since := now.Add(-g.Window)
	n := 0
	for _, c := range contracts {
		if within(c.CreatedAt, since) {
			n++
		}
	}
	for _, inv := range invoices {
		if within(inv.CreatedAt, since) {
			n++
		}
	}
	return n
}

// Check approves or rejects one more document. Paid plans always pass.
func (g Gate) Check(plan model.Plan, contracts []model.Contract, invoices []model.Invoice, now time.Time) error {
	if plan.Paid() {
		return nil
	}
	if g.Count(contracts, invoices, now) >= g.Limit {
		return ErrLimitReached
	}
	return nil
}

// Remaining is the number shown in the quota banner. The second result is
// false for paid plans, which have no limit to show.
func (g Gate) Remaining(plan model.Plan, contracts []model.Contract, invoices []model.Invoice, now time.Time) (int, bool) {
	if plan.Paid() {
		return 0, false
	}
	left := g.Limit - g.Count(contracts, invoices, now)
	if left < 0 {
		left = 0
	}
	return left, true
}

func within(createdAt string, since time.Time) bool {
	t, ok := model.ParseTimestamp(createdAt)
	return ok && t.After(since)
}
