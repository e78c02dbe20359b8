package state

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dharsanguruparan/DocFlow/internal/emit"
	"github.com/dharsanguruparan/DocFlow/internal/form"
	"github.com/dharsanguruparan/DocFlow/internal/model"
	"github.com/dharsanguruparan/DocFlow/internal/quota"
	"github.com/dharsanguruparan/DocFlow/internal/render"
)

var fixedNow = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

type harness struct {
	c      *Controller
	local  *memLocal
	remote *fakeRemote
	bridge *recordingBridge
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{local: newMemLocal(), remote: &fakeRemote{}, bridge: &recordingBridge{}}
	c, err := New(Options{
		UserID: "user_1",
		Local:  h.local,
		Remote: h.remote,
		Bridge: h.bridge,
		Links:  staticLinks{},
		Now:    func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	require.NoError(t, c.Load(context.Background()))
	h.c = c
	return h
}

func servicesForm() form.ContractForm {
	return form.ContractForm{
		Type:             "services",
		CounterpartyName: "ТОВ Ромашка",
		StartDate:        "2024-03-01",
		Amount:           "1000",
		Subject:          "Розробка сайту",
	}
}

func TestNewRequiresLocalStore(t *testing.T) {
	_, err := New(Options{UserID: "u"})
	assert.ErrorIs(t, err, ErrLocalStoreMissing)
}

func TestSubmitContractFreePlan(t *testing.T) {
	h := newHarness(t)

	res, err := h.c.SubmitContract(context.Background(), servicesForm())
	require.NoError(t, err)

	assert.Equal(t, 2, res.Remaining)
	assert.False(t, res.Unlimited)
	assert.Equal(t, "services", res.Contract.Type)
	assert.Equal(t, emit.MIMEDocx, res.Artifact.ContentType)
	assert.NotContains(t, res.Document.Text, "{")
	assert.Equal(t, contractDoneText, h.bridge.last())

	saved := h.local.state("user_1")
	require.NotNil(t, saved)
	require.Len(t, saved.Contracts, 1)
	assert.Equal(t, res.Contract.ID, saved.Contracts[0].ID)

	require.Len(t, h.remote.savedContracts, 1)
	assert.Equal(t, res.Contract.ID, h.remote.savedContracts[0].ID)

	left, limited := h.c.Remaining()
	assert.True(t, limited)
	assert.Equal(t, 2, left)
}

func TestSubmitContractQuotaIdempotence(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	gate := quota.Default()

	for i := 1; i <= 3; i++ {
		_, err := h.c.SubmitContract(ctx, servicesForm())
		require.NoError(t, err)
		st := h.c.Snapshot()
		assert.Equal(t, i, gate.Count(st.Contracts, st.Invoices, fixedNow))
	}

	for i := 0; i < 2; i++ {
		_, err := h.c.SubmitContract(ctx, servicesForm())
		require.ErrorIs(t, err, quota.ErrLimitReached)
		_, err = h.c.SubmitInvoice(ctx, form.InvoiceForm{Type: "invoice"})
		require.ErrorIs(t, err, quota.ErrLimitReached)

		st := h.c.Snapshot()
		assert.Equal(t, 3, gate.Count(st.Contracts, st.Invoices, fixedNow))
		assert.Contains(t, h.bridge.last(), "3 документи/місяць")
	}
}

func TestSubmitContractPaidPlanUnlimited(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.c.Subscribe(ctx, model.PlanPro))

	for i := 0; i < 5; i++ {
		res, err := h.c.SubmitContract(ctx, servicesForm())
		require.NoError(t, err)
		assert.True(t, res.Unlimited)
	}
	assert.Len(t, h.c.Snapshot().Contracts, 5)
}

func TestSubmitContractEmptyTypeCreatesNothing(t *testing.T) {
	h := newHarness(t)
	f := servicesForm()
	f.Type = ""

	_, err := h.c.SubmitContract(context.Background(), f)
	require.ErrorIs(t, err, render.ErrUnknownType)
	assert.Empty(t, h.c.Snapshot().Contracts)
	assert.Empty(t, h.remote.savedContracts)
	assert.Equal(t, unknownTypeText, h.bridge.last())
}

func TestSubmitContractUnknownKindUsesServicesTemplate(t *testing.T) {
	h := newHarness(t)
	f := servicesForm()
	f.Type = "barter"

	res, err := h.c.SubmitContract(context.Background(), f)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Document.Text, "ДОГОВІР ПРО НАДАННЯ ПОСЛУГ"))
}

func TestSubmitInvoiceTotalsAndNumber(t *testing.T) {
	h := newHarness(t)

	res, err := h.c.SubmitInvoice(context.Background(), form.InvoiceForm{
		Type:       "invoice",
		ClientName: "ФОП Іваненко",
		VATRate:    "20",
		Items: []form.ItemForm{
			{Name: "Послуга", Quantity: "2", Price: "100"},
			{Name: "Доставка", Quantity: "1", Price: "50"},
		},
	})
	require.NoError(t, err)

	inv := res.Invoice
	assert.Equal(t, 250.0, inv.Subtotal)
	assert.Equal(t, 50.0, inv.VAT)
	assert.Equal(t, 300.0, inv.Total)
	assert.Equal(t, "INV-2024-0001", inv.Number)
	assert.Equal(t, invoiceDoneText, h.bridge.last())
	require.Len(t, h.remote.savedInvoices, 1)
}

func TestSubmitInvoiceUnknownType(t *testing.T) {
	h := newHarness(t)
	_, err := h.c.SubmitInvoice(context.Background(), form.InvoiceForm{Type: "cheque"})
	require.ErrorIs(t, err, render.ErrUnknownType)
	assert.Empty(t, h.c.Snapshot().Invoices)
}

func TestIDsAreUniqueWithinOneMillisecond(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.c.Subscribe(ctx, model.PlanBusiness))

	seen := map[string]bool{}
	for i := 0; i < 4; i++ {
		res, err := h.c.SubmitContract(ctx, servicesForm())
		require.NoError(t, err)
		assert.False(t, seen[res.Contract.ID], "duplicate id %s", res.Contract.ID)
		seen[res.Contract.ID] = true
	}
}

func TestRegenerate(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	first, err := h.c.SubmitContract(ctx, servicesForm())
	require.NoError(t, err)

	again, err := h.c.Regenerate(ctx, first.Contract.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Document.Text, again.Document.Text)
	assert.Len(t, h.c.Snapshot().Contracts, 1)

	_, err = h.c.Regenerate(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, notFoundText, h.bridge.last())
}

func TestRemoteFailureDoesNotRollBack(t *testing.T) {
	h := newHarness(t)
	h.remote.fail = true

	_, err := h.c.SubmitContract(context.Background(), servicesForm())
	require.NoError(t, err)
	assert.Len(t, h.c.Snapshot().Contracts, 1)
	assert.Len(t, h.local.state("user_1").Contracts, 1)
}

func TestLoadAdoptsRemoteSettingsAndLargerCollections(t *testing.T) {
	local := newMemLocal()
	st := model.NewAppState("user_1")
	st.Contracts = []model.Contract{{ID: "1", Type: "services", CreatedAt: "2024-03-01T10:00:00.000Z"}}
	require.NoError(t, local.Save(context.Background(), st))

	remote := &fakeRemote{
		settings: &model.Settings{Subscription: model.PlanPro, TaxSystem: "general"},
		contracts: []model.Contract{
			{ID: "0", Type: "sale", CreatedAt: "2024-02-01T10:00:00.000Z"},
			{ID: "2", Type: "nda", CreatedAt: "2024-03-02T10:00:00.000Z"},
		},
	}
	c, err := New(Options{UserID: "user_1", Local: local, Remote: remote, Now: func() time.Time { return fixedNow }})
	require.NoError(t, err)
	require.NoError(t, c.Load(context.Background()))

	got := c.Snapshot()
	assert.Equal(t, model.PlanPro, got.Subscription)
	assert.Equal(t, "general", got.TaxSystem)
	require.Len(t, got.Contracts, 3)
	assert.Equal(t, []string{"0", "1", "2"}, []string{got.Contracts[0].ID, got.Contracts[1].ID, got.Contracts[2].ID})
	assert.Len(t, local.state("user_1").Contracts, 3)
}

func TestLoadIgnoresRemoteFailure(t *testing.T) {
	c, err := New(Options{UserID: "user_1", Local: newMemLocal(), Remote: &fakeRemote{fail: true}})
	require.NoError(t, err)
	require.NoError(t, c.Load(context.Background()))
	assert.Equal(t, model.PlanFree, c.Snapshot().Subscription)
}

func TestSubscribe(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.c.Subscribe(ctx, model.PlanBusiness))
	assert.Equal(t, model.PlanBusiness, h.local.state("user_1").Subscription)
	assert.Contains(t, h.bridge.last(), `"BUSINESS"`)
	require.Len(t, h.remote.savedSettings, 1)
	assert.Equal(t, model.PlanBusiness, h.remote.savedSettings[0].Subscription)

	err := h.c.Subscribe(ctx, model.Plan("gold"))
	assert.ErrorIs(t, err, ErrInvalidPlan)
}

func TestSetTaxSystem(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.c.SetTaxSystem(context.Background(), "single-10"))
	assert.Equal(t, "single-10", h.c.Snapshot().TaxSystem)
	assert.Equal(t, 0.10, h.c.Analytics().TaxRate)

	assert.ErrorIs(t, h.c.SetTaxSystem(context.Background(), "flat"), ErrInvalidTaxSystem)
}

func TestCreateSignLink(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.c.CreateSignLink(ctx, SignInput{Email: "a@b.ua"})
	require.ErrorIs(t, err, ErrPaidOnly)
	assert.Equal(t, paidOnlyText, h.bridge.last())

	require.NoError(t, h.c.Subscribe(ctx, model.PlanPro))

	_, err = h.c.CreateSignLink(ctx, SignInput{Email: "  "})
	var fe *form.FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, []string{"signerEmail"}, fe.Fields)

	link, err := h.c.CreateSignLink(ctx, SignInput{Email: "a@b.ua"})
	require.NoError(t, err)
	assert.Equal(t, defaultSignName, link.Request.DocumentName)
	assert.Equal(t, model.SignPending, link.Request.Status)
	assert.Equal(t, "https://docs.example/sign/"+link.Request.ID, link.URL)
	assert.Len(t, h.c.PendingSignatures(), 1)
	require.Len(t, h.remote.savedDocuments, 1)
	assert.Contains(t, h.bridge.last(), link.URL)
}

func TestCreateSignLinkRejectsNonPDF(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.c.Subscribe(ctx, model.PlanPro))

	_, err := h.c.CreateSignLink(ctx, SignInput{Email: "a@b.ua", File: []byte("not a pdf")})
	require.Error(t, err)
	assert.Empty(t, h.c.PendingSignatures())
}

func TestContractsListNewestFirst(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.c.Subscribe(ctx, model.PlanPro))

	for _, kind := range []string{"services", "rent", "sale"} {
		f := servicesForm()
		f.Type = kind
		f.TenantName = "Петренко"
		_, err := h.c.SubmitContract(ctx, f)
		require.NoError(t, err)
	}

	list := h.c.Contracts(2)
	require.Len(t, list, 2)
	assert.Equal(t, "Договір купівлі-продажу", list[0].Title)
	assert.Equal(t, "Договір оренди", list[1].Title)
	assert.True(t, strings.HasPrefix(list[1].Detail, "Петренко • 10 березня 2024 р."))
}

func TestInvoicesList(t *testing.T) {
	h := newHarness(t)
	_, err := h.c.SubmitInvoice(context.Background(), form.InvoiceForm{
		Type:       "act",
		ClientName: "Клієнт",
		Date:       "2024-03-05",
		Items:      []form.ItemForm{{Name: "Робота", Quantity: "1", Price: "100"}},
	})
	require.NoError(t, err)

	list := h.c.Invoices(DefaultListSize)
	require.Len(t, list, 1)
	assert.Equal(t, "Акт наданих послуг INV-2024-0001", list[0].Title)
	assert.True(t, strings.HasPrefix(list[0].Detail, "Клієнт • 5 березня 2024 р. • "))
}

func TestListsWithNegativeLimit(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.c.SubmitContract(ctx, servicesForm())
	require.NoError(t, err)
	_, err = h.c.SubmitInvoice(ctx, form.InvoiceForm{
		Type:  "invoice",
		Items: []form.ItemForm{{Name: "x", Quantity: "1", Price: "10"}},
	})
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		assert.Empty(t, h.c.Contracts(-1))
		assert.Empty(t, h.c.Invoices(-5))
	})
	assert.Empty(t, h.c.Contracts(0))
}

func TestExportCSV(t *testing.T) {
	h := newHarness(t)
	_, err := h.c.SubmitInvoice(context.Background(), form.InvoiceForm{
		Type:  "invoice",
		Date:  "2024-03-05",
		Items: []form.ItemForm{{Name: "x", Quantity: "1", Price: "10"}},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	name, err := h.c.ExportCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, "Аналітика_2024-03-10.csv", name)
	assert.Equal(t, "Дата,Тип,Клієнт,Сума\n2024-03-05,invoice,,10\n", buf.String())
}

func TestRenderStoredRecord(t *testing.T) {
	h := newHarness(t)
	res, err := h.c.SubmitContract(context.Background(), servicesForm())
	require.NoError(t, err)

	a, err := h.c.Render(res.Contract.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Artifact.Filename, a.Filename)

	_, err = h.c.Render("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

type recordingDelivery struct{ got []emit.Artifact }

func (d *recordingDelivery) Deliver(_ context.Context, a emit.Artifact) emit.Outcome {
	d.got = append(d.got, a)
	return emit.Outcome{Delivered: true, Strategy: "test"}
}

func TestDeliveryReceivesArtifact(t *testing.T) {
	d := &recordingDelivery{}
	c, err := New(Options{UserID: "u", Local: newMemLocal(), Delivery: d, Now: func() time.Time { return fixedNow }})
	require.NoError(t, err)

	res, err := c.SubmitContract(context.Background(), servicesForm())
	require.NoError(t, err)
	assert.True(t, res.Outcome.Delivered)
	require.Len(t, d.got, 1)
	assert.Equal(t, res.Artifact.Filename, d.got[0].Filename)
}

func TestLogBridge(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	b := NewLogBridge(zap.New(core))
	ctx := context.Background()

	require.NoError(t, b.Alert(ctx, "Договір успішно згенеровано!"))
	ok, err := b.Confirm(ctx, "Продовжити?")
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, b.OpenLink(ctx, "https://docs.example/d/1"))

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "Договір успішно згенеровано!", entries[0].ContextMap()["text"])
	assert.Equal(t, "https://docs.example/d/1", entries[2].ContextMap()["url"])
}
