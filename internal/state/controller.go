// Package state owns a user's app state. A Controller serializes every
// mutation, persists locally before anything else, then mirrors to the
// remote store in the background.
package state

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dharsanguruparan/DocFlow/internal/emit"
	"github.com/dharsanguruparan/DocFlow/internal/localstore"
	"github.com/dharsanguruparan/DocFlow/internal/model"
	"github.com/dharsanguruparan/DocFlow/internal/quota"
	"github.com/dharsanguruparan/DocFlow/internal/render"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrPaidOnly          = errors.New("available on paid plans only")
	ErrInvalidPlan       = errors.New("invalid subscription plan")
	ErrInvalidTaxSystem  = errors.New("invalid tax system")
	ErrLocalStoreMissing = errors.New("local store is required")
)

// SignLinker builds the URL a counterparty opens to sign a document.
type SignLinker interface {
	SignURL(id string) string
}

// Options configure a Controller. Only UserID and Local are required.
type Options struct {
	UserID   string
	Local    LocalStore
	Remote   RemoteStore
	Bridge   Bridge
	Runner   Runner
	Engine   *render.Engine
	Emitter  *emit.Emitter
	Delivery Delivery
	Gate     quota.Gate
	Links    SignLinker
	Uploads  Uploader
	Log      *zap.Logger
	Now      func() time.Time
}

// Controller owns one user's AppState.
type Controller struct {
	mu     sync.Mutex
	st     *model.AppState
	lastID int64

	userID   string
	local    LocalStore
	remote   RemoteStore
	bridge   Bridge
	runner   Runner
	engine   *render.Engine
	emitter  *emit.Emitter
	delivery Delivery
	gate     quota.Gate
	links    SignLinker
	uploads  Uploader
	log      *zap.Logger
	now      func() time.Time
}

// New builds a Controller holding a fresh state. Call Load to restore the
// saved one.
func New(opts Options) (*Controller, error) {
	if opts.Local == nil {
		return nil, ErrLocalStoreMissing
	}
	if opts.UserID == "" {
		return nil, errors.New("user id is required")
	}
	c := &Controller{
		st:       model.NewAppState(opts.UserID),
		userID:   opts.UserID,
		local:    opts.Local,
		remote:   opts.Remote,
		bridge:   opts.Bridge,
		runner:   opts.Runner,
		engine:   opts.Engine,
		emitter:  opts.Emitter,
		delivery: opts.Delivery,
		gate:     opts.Gate,
		links:    opts.Links,
		uploads:  opts.Uploads,
		log:      opts.Log,
		now:      opts.Now,
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	c.log = c.log.With(zap.String("user_id", opts.UserID))
	if c.bridge == nil {
		c.bridge = NewConsoleBridge(io.Discard, nil)
	}
	if c.runner == nil {
		c.runner = InlineRunner{}
	}
	if c.engine == nil {
		engine, err := render.NewEngine()
		if err != nil {
			return nil, fmt.Errorf("compile templates: %w", err)
		}
		c.engine = engine
	}
	if c.emitter == nil {
		c.emitter = emit.NewEmitter(c.log)
	}
	if c.gate.Limit == 0 && c.gate.Window == 0 {
		c.gate = quota.Default()
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c, nil
}

// UserID returns the id the state is namespaced under.
func (c *Controller) UserID() string { return c.userID }

// Load restores the local state, then pulls remote collections and settings
// in parallel and merges them with the keep-larger policy.
func (c *Controller) Load(ctx context.Context) error {
	st, err := c.local.Load(ctx, c.userID)
	switch {
	case errors.Is(err, localstore.ErrNoState):
		st = model.NewAppState(c.userID)
	case err != nil:
		return fmt.Errorf("load local state: %w", err)
	}
	normalize(st, c.userID)

	c.mu.Lock()
	c.st = st
	c.mu.Unlock()

	if c.remote == nil {
		return nil
	}
	snap := c.fetchRemote(ctx, true)

	c.mu.Lock()
	defer c.mu.Unlock()
	changed := c.mergeLocked(snap)
	if s := snap.settings; s != nil {
		if s.Subscription != "" && s.Subscription != c.st.Subscription {
			c.st.Subscription = s.Subscription
			changed = true
		}
		if s.TaxSystem != "" && s.TaxSystem != c.st.TaxSystem {
			c.st.TaxSystem = s.TaxSystem
			changed = true
		}
	}
	if changed {
		c.persistLocked(ctx)
	}
	return nil
}

type remoteSnapshot struct {
	contracts []model.Contract
	invoices  []model.Invoice
	documents []model.SignRequest
	settings  *model.Settings
}

// fetchRemote loads collections in parallel. Failures only leave their part
// of the snapshot empty.
func (c *Controller) fetchRemote(ctx context.Context, full bool) remoteSnapshot {
	var snap remoteSnapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := c.remote.LoadContracts(gctx, c.userID)
		if err != nil {
			c.log.Debug("remote contracts unavailable", zap.Error(err))
			return nil
		}
		snap.contracts = v
		return nil
	})
	g.Go(func() error {
		v, err := c.remote.LoadInvoices(gctx, c.userID)
		if err != nil {
			c.log.Debug("remote invoices unavailable", zap.Error(err))
			return nil
		}
		snap.invoices = v
		return nil
	})
	if full {
		g.Go(func() error {
			v, err := c.remote.LoadDocuments(gctx, c.userID)
			if err != nil {
				c.log.Debug("remote documents unavailable", zap.Error(err))
				return nil
			}
			snap.documents = v
			return nil
		})
		g.Go(func() error {
			v, err := c.remote.LoadSettings(gctx, c.userID)
			if err != nil {
				c.log.Debug("remote settings unavailable", zap.Error(err))
				return nil
			}
			snap.settings = v
			return nil
		})
	}
	_ = g.Wait()
	return snap
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() *model.AppState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st.Clone()
}

// Remaining is the free-plan quota left in the window. The second result is
// false on paid plans.
func (c *Controller) Remaining() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gate.Remaining(c.st.Subscription, c.st.Contracts, c.st.Invoices, c.now())
}

// persistLocked writes the state to the local store. A failed save is logged;
// the in-memory state stays authoritative for this process.
func (c *Controller) persistLocked(ctx context.Context) {
	if err := c.local.Save(ctx, c.st.Clone()); err != nil {
		c.log.Error("save local state", zap.Error(err))
	}
}

func (c *Controller) alert(ctx context.Context, text string) {
	if err := c.bridge.Alert(ctx, text); err != nil {
		c.log.Warn("alert failed", zap.Error(err))
	}
}

// mirror runs fn on the background runner when a remote store is set.
func (c *Controller) mirror(name string, fn func(ctx context.Context, remote RemoteStore) (string, error)) {
	if c.remote == nil {
		return
	}
	remote, log := c.remote, c.log
	c.runner.Go(name, func(ctx context.Context) error {
		objectID, err := fn(ctx, remote)
		if err != nil {
			log.Debug("remote mirror failed", zap.String("task", name), zap.Error(err))
			return err
		}
		log.Debug("remote mirror saved", zap.String("task", name), zap.String("object_id", objectID))
		return nil
	})
}

func (c *Controller) mirrorSettings(s model.Settings) {
	userID := c.userID
	c.mirror("mirror settings", func(ctx context.Context, remote RemoteStore) (string, error) {
		return remote.SaveSettings(ctx, userID, s)
	})
}

func normalize(st *model.AppState, userID string) {
	if st.UserID == "" {
		st.UserID = userID
	}
	if st.Subscription == "" {
		st.Subscription = model.PlanFree
	}
	if st.TaxSystem == "" {
		st.TaxSystem = "single"
	}
	if st.Contracts == nil {
		st.Contracts = []model.Contract{}
	}
	if st.Invoices == nil {
		st.Invoices = []model.Invoice{}
	}
	if st.Documents == nil {
		st.Documents = []model.SignRequest{}
	}
}
