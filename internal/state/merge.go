package state

import (
	"context"
	"sort"
	"time"

	"github.com/dharsanguruparan/DocFlow/internal/model"
)

// MergeRemote applies remote collections with the keep-larger policy and
// persists when anything changed.
func (c *Controller) MergeRemote(ctx context.Context, contracts []model.Contract, invoices []model.Invoice) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	changed := c.mergeLocked(remoteSnapshot{contracts: contracts, invoices: invoices})
	if changed {
		c.persistLocked(ctx)
	}
	return changed
}

func (c *Controller) mergeLocked(snap remoteSnapshot) bool {
	var changed bool
	if merged, ok := keepLarger(c.st.Contracts, snap.contracts,
		func(r model.Contract) string { return r.ID },
		func(r model.Contract) string { return r.CreatedAt }); ok {
		c.st.Contracts, changed = merged, true
	}
	if merged, ok := keepLarger(c.st.Invoices, snap.invoices,
		func(r model.Invoice) string { return r.ID },
		func(r model.Invoice) string { return r.CreatedAt }); ok {
		c.st.Invoices, changed = merged, true
	}
	if merged, ok := keepLarger(c.st.Documents, snap.documents,
		func(r model.SignRequest) string { return r.ID },
		func(r model.SignRequest) string { return r.CreatedAt }); ok {
		c.st.Documents, changed = merged, true
	}
	return changed
}

// keepLarger adopts remote only when it holds strictly more records than
// local. Adoption is a union by id: local records always survive, and the
// result is ordered by creation time.
func keepLarger[T any](local, remote []T, id, created func(T) string) ([]T, bool) {
	if len(remote) <= len(local) {
		return local, false
	}
	seen := make(map[string]bool, len(local))
	out := make([]T, 0, len(remote)+len(local))
	for _, r := range local {
		seen[id(r)] = true
		out = append(out, r)
	}
	added := false
	for _, r := range remote {
		if seen[id(r)] {
			continue
		}
		seen[id(r)] = true
		out = append(out, r)
		added = true
	}
	if !added {
		return local, false
	}
	sort.SliceStable(out, func(i, j int) bool {
		return createdAt(created(out[i])).Before(createdAt(created(out[j])))
	})
	return out, true
}

func createdAt(s string) time.Time {
	t, _ := model.ParseTimestamp(s)
	return t
}
