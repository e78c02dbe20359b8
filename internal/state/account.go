package state

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/dharsanguruparan/DocFlow/internal/analytics"
	"github.com/dharsanguruparan/DocFlow/internal/form"
	"github.com/dharsanguruparan/DocFlow/internal/model"
	pdfutil "github.com/dharsanguruparan/DocFlow/internal/pdf"
	"github.com/dharsanguruparan/DocFlow/internal/render"
	"github.com/dharsanguruparan/DocFlow/internal/templates"
)

const (
	paidOnlyText      = "Підписання документів доступне тільки в платних пакетах. Оновіть підписку!"
	emailRequiredText = "Будь ласка, введіть email контрагента"
	defaultSignName   = "Документ.pdf"
	pdfContentType    = "application/pdf"

	// DefaultListSize is how many records the lists show.
	DefaultListSize = 10
)

// Uploader stores files attached to signing requests.
type Uploader interface {
	UploadSignFile(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
}

// Subscribe activates a plan and mirrors the new settings.
func (c *Controller) Subscribe(ctx context.Context, plan model.Plan) error {
	if _, ok := model.ParsePlan(string(plan)); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPlan, plan)
	}
	c.mu.Lock()
	c.st.Subscription = plan
	c.persistLocked(ctx)
	settings := model.Settings{Subscription: plan, TaxSystem: c.st.TaxSystem}
	c.mu.Unlock()

	c.mirrorSettings(settings)
	if plan.Paid() {
		c.alert(ctx, fmt.Sprintf("Поздоровляємо! Вас активовано підписку %q. Тепер у вас є доступ до генератора договорів!", strings.ToUpper(string(plan))))
	}
	return nil
}

// SetTaxSystem switches the tax system used by analytics.
func (c *Controller) SetTaxSystem(ctx context.Context, system string) error {
	if !analytics.ValidTaxSystem(system) {
		return fmt.Errorf("%w: %q", ErrInvalidTaxSystem, system)
	}
	c.mu.Lock()
	c.st.TaxSystem = system
	c.persistLocked(ctx)
	settings := model.Settings{Subscription: c.st.Subscription, TaxSystem: system}
	c.mu.Unlock()

	c.mirrorSettings(settings)
	return nil
}

// SignInput is a request to send a document for signing. File is optional
// and must be a PDF when present.
type SignInput struct {
	Email        string
	DocumentName string
	File         []byte
}

// SignLink is a recorded signing request and the URL to share.
type SignLink struct {
	Request model.SignRequest
	URL     string
}

// CreateSignLink records a pending signing request. Paid plans only.
func (c *Controller) CreateSignLink(ctx context.Context, in SignInput) (*SignLink, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		c.alert(ctx, emailRequiredText)
		return nil, &form.FieldError{Fields: []string{"signerEmail"}}
	}
	c.mu.Lock()
	paid := c.st.Subscription.Paid()
	c.mu.Unlock()
	if !paid {
		c.alert(ctx, paidOnlyText)
		return nil, ErrPaidOnly
	}

	name := strings.TrimSpace(in.DocumentName)
	if name == "" {
		name = defaultSignName
	}
	var pages int
	if len(in.File) > 0 {
		info, err := pdfutil.Inspect(in.File)
		if err != nil {
			return nil, fmt.Errorf("inspect upload: %w", err)
		}
		pages = info.Pages
	}

	c.mu.Lock()
	now := c.now()
	req := model.SignRequest{
		ID:           c.nextID(now),
		Email:        email,
		CreatedAt:    model.Timestamp(now),
		Status:       model.SignPending,
		DocumentName: name,
		Pages:        pages,
	}
	c.mu.Unlock()

	if len(in.File) > 0 && c.uploads != nil {
		key := path.Join("sign", req.ID, path.Base(name))
		if err := c.uploads.UploadSignFile(ctx, key, bytes.NewReader(in.File), int64(len(in.File)), pdfContentType); err != nil {
			c.log.Warn("upload sign file", zap.String("request_id", req.ID), zap.Error(err))
		} else {
			req.ObjectKey = key
		}
	}

	c.mu.Lock()
	c.st.Documents = append(c.st.Documents, req)
	c.persistLocked(ctx)
	c.mu.Unlock()

	userID := c.userID
	c.mirror("mirror document", func(ctx context.Context, remote RemoteStore) (string, error) {
		return remote.SaveDocument(ctx, userID, req)
	})

	url := "/sign/" + req.ID
	if c.links != nil {
		url = c.links.SignURL(req.ID)
	}
	c.alert(ctx, fmt.Sprintf("Посилання згенеровано:\n%s\n\nВідправте його контрагенту для підписання.", url))
	return &SignLink{Request: req, URL: url}, nil
}

// PendingSignatures lists requests still waiting for a signature.
func (c *Controller) PendingSignatures() []model.SignRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []model.SignRequest
	for _, d := range c.st.Documents {
		if d.Status == model.SignPending {
			out = append(out, d)
		}
	}
	return out
}

// Entry is one row of a record list.
type Entry struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Detail    string `json:"detail"`
	CreatedAt string `json:"createdAt"`
}

// Contracts returns the newest contracts first, at most limit of them.
func (c *Controller) Contracts(limit int) []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	list := c.st.Contracts
	out := make([]Entry, 0, min(max(limit, 0), len(list)))
	for i := len(list) - 1; i >= 0 && len(out) < limit; i-- {
		r := list[i]
		name := r.CounterpartyName
		if name == "" {
			name = render.NotSpecified
		}
		out = append(out, Entry{
			ID:        r.ID,
			Title:     templates.ListName(r.Type),
			Detail:    fmt.Sprintf("%s • %s • %s", name, render.FormatDate(r.CreatedAt), render.FormatAmount(r.Amount)),
			CreatedAt: r.CreatedAt,
		})
	}
	return out
}

// Invoices returns the newest invoices first, at most limit of them.
func (c *Controller) Invoices(limit int) []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	list := c.st.Invoices
	out := make([]Entry, 0, min(max(limit, 0), len(list)))
	for i := len(list) - 1; i >= 0 && len(out) < limit; i-- {
		r := list[i]
		typeName, ok := render.InvoiceTypeName(r.Type)
		if !ok {
			typeName = r.Type
		}
		out = append(out, Entry{
			ID:        r.ID,
			Title:     typeName + " " + r.Number,
			Detail:    fmt.Sprintf("%s • %s • %s", r.ClientName, render.FormatDate(r.Date), render.Currency(r.Total)),
			CreatedAt: r.CreatedAt,
		})
	}
	return out
}

// Analytics summarizes invoice income for the active tax system.
func (c *Controller) Analytics() analytics.Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return analytics.Summarize(c.st.Invoices, c.st.TaxSystem, c.now())
}

// ExportCSV writes every invoice as CSV, oldest first by date.
func (c *Controller) ExportCSV(w io.Writer) (string, error) {
	c.mu.Lock()
	invoices := c.st.Clone().Invoices
	now := c.now()
	c.mu.Unlock()
	sort.SliceStable(invoices, func(i, j int) bool { return invoices[i].Date < invoices[j].Date })
	if err := analytics.ExportCSV(w, invoices); err != nil {
		return "", fmt.Errorf("export csv: %w", err)
	}
	return analytics.ExportFilename(now), nil
}
