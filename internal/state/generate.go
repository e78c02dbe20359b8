package state

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/dharsanguruparan/DocFlow/internal/emit"
	"github.com/dharsanguruparan/DocFlow/internal/form"
	"github.com/dharsanguruparan/DocFlow/internal/model"
	"github.com/dharsanguruparan/DocFlow/internal/render"
)

const (
	contractDoneText = "Договір успішно згенеровано!"
	invoiceDoneText  = "Рахунок успішно згенеровано!"
	unknownTypeText  = "Невідомий тип документа. Оберіть тип зі списку."
	notFoundText     = "Документ не знайдено"
	degradedText     = "Не вдалося створити DOCX, документ збережено як текстовий файл."
)

// Result describes one generated document.
type Result struct {
	Contract  *model.Contract
	Invoice   *model.Invoice
	Document  render.Document
	Artifact  emit.Artifact
	Outcome   emit.Outcome
	Remaining int
	Unlimited bool
}

func (c *Controller) limitText() string {
	return fmt.Sprintf("Ви досягли ліміту безкоштовного плану (%d документи/місяць). Оновіть підписку для необмеженої генерації.", c.gate.Limit)
}

// SubmitContract gates, records and renders a contract, then delivers it.
// A rejected or unrenderable submission leaves the state untouched.
func (c *Controller) SubmitContract(ctx context.Context, f form.ContractForm) (*Result, error) {
	c.mu.Lock()
	now := c.now()
	if err := c.gate.Check(c.st.Subscription, c.st.Contracts, c.st.Invoices, now); err != nil {
		c.mu.Unlock()
		c.alert(ctx, c.limitText())
		return nil, err
	}
	if strings.TrimSpace(f.Type) == "" {
		c.mu.Unlock()
		c.alert(ctx, unknownTypeText)
		return nil, fmt.Errorf("%w: empty contract type", render.ErrUnknownType)
	}
	rec := form.Extract(f, c.nextID(now), now)
	doc, err := c.engine.Contract(rec, now)
	if err != nil {
		c.mu.Unlock()
		c.alert(ctx, unknownTypeText)
		return nil, fmt.Errorf("render contract: %w", err)
	}
	c.st.Contracts = append(c.st.Contracts, rec)
	c.persistLocked(ctx)
	left, limited := c.gate.Remaining(c.st.Subscription, c.st.Contracts, c.st.Invoices, now)
	c.mu.Unlock()

	userID := c.userID
	c.mirror("mirror contract", func(ctx context.Context, remote RemoteStore) (string, error) {
		return remote.SaveContract(ctx, userID, rec)
	})

	res := &Result{Contract: &rec, Document: doc, Remaining: left, Unlimited: !limited}
	res.Artifact, res.Outcome = c.emit(ctx, doc)
	c.alert(ctx, contractDoneText)
	return res, nil
}

// SubmitInvoice numbers, records and renders an invoice.
func (c *Controller) SubmitInvoice(ctx context.Context, f form.InvoiceForm) (*Result, error) {
	c.mu.Lock()
	now := c.now()
	if err := c.gate.Check(c.st.Subscription, c.st.Contracts, c.st.Invoices, now); err != nil {
		c.mu.Unlock()
		c.alert(ctx, c.limitText())
		return nil, err
	}
	number := form.InvoiceNumber(now.Year(), len(c.st.Invoices)+1)
	rec := form.ExtractInvoice(f, number, c.nextID(now), now)
	doc, err := c.engine.Invoice(rec)
	if err != nil {
		c.mu.Unlock()
		c.alert(ctx, unknownTypeText)
		return nil, fmt.Errorf("render invoice: %w", err)
	}
	c.st.Invoices = append(c.st.Invoices, rec)
	c.persistLocked(ctx)
	left, limited := c.gate.Remaining(c.st.Subscription, c.st.Contracts, c.st.Invoices, now)
	c.mu.Unlock()

	userID := c.userID
	c.mirror("mirror invoice", func(ctx context.Context, remote RemoteStore) (string, error) {
		return remote.SaveInvoice(ctx, userID, rec)
	})

	res := &Result{Invoice: &rec, Document: doc, Remaining: left, Unlimited: !limited}
	res.Artifact, res.Outcome = c.emit(ctx, doc)
	c.alert(ctx, invoiceDoneText)
	return res, nil
}

// Regenerate re-renders a stored contract or invoice without creating a
// record or touching the quota.
func (c *Controller) Regenerate(ctx context.Context, id string) (*Result, error) {
	c.mu.Lock()
	now := c.now()
	var (
		res *Result
		doc render.Document
		err error
	)
	if rec, ok := findContract(c.st.Contracts, id); ok {
		doc, err = c.engine.Contract(rec, now)
		res = &Result{Contract: &rec}
	} else if rec, ok := findInvoice(c.st.Invoices, id); ok {
		doc, err = c.engine.Invoice(rec)
		res = &Result{Invoice: &rec}
	}
	left, limited := c.gate.Remaining(c.st.Subscription, c.st.Contracts, c.st.Invoices, now)
	c.mu.Unlock()

	if res == nil {
		c.alert(ctx, notFoundText)
		return nil, fmt.Errorf("regenerate %s: %w", id, ErrNotFound)
	}
	if err != nil {
		c.alert(ctx, unknownTypeText)
		return nil, fmt.Errorf("regenerate %s: %w", id, err)
	}
	res.Document, res.Remaining, res.Unlimited = doc, left, !limited
	res.Artifact, res.Outcome = c.emit(ctx, doc)
	return res, nil
}

// Render returns the artifact for a stored record without delivering it.
func (c *Controller) Render(id string) (emit.Artifact, error) {
	c.mu.Lock()
	now := c.now()
	var (
		doc   render.Document
		err   error
		found bool
	)
	if rec, ok := findContract(c.st.Contracts, id); ok {
		doc, err = c.engine.Contract(rec, now)
		found = true
	} else if rec, ok := findInvoice(c.st.Invoices, id); ok {
		doc, err = c.engine.Invoice(rec)
		found = true
	}
	c.mu.Unlock()
	if !found {
		return emit.Artifact{}, fmt.Errorf("render %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return emit.Artifact{}, fmt.Errorf("render %s: %w", id, err)
	}
	return c.emitter.Build(doc), nil
}

func (c *Controller) emit(ctx context.Context, doc render.Document) (emit.Artifact, emit.Outcome) {
	a := c.emitter.Build(doc)
	if a.Degraded && c.emitter.Builder != nil {
		c.alert(ctx, degradedText)
	}
	if c.delivery == nil {
		return a, emit.Outcome{}
	}
	out := c.delivery.Deliver(ctx, a)
	if !out.Delivered {
		c.log.Warn("document not delivered", zap.String("filename", a.Filename))
	}
	return a, out
}

func findContract(list []model.Contract, id string) (model.Contract, bool) {
	for _, r := range list {
		if r.ID == id {
			return r, true
		}
	}
	return model.Contract{}, false
}

func findInvoice(list []model.Invoice, id string) (model.Invoice, bool) {
	for _, r := range list {
		if r.ID == id {
			return r, true
		}
	}
	return model.Invoice{}, false
}
