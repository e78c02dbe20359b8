package state

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/dharsanguruparan/DocFlow/internal/localstore"
	"github.com/dharsanguruparan/DocFlow/internal/model"
)

type memLocal struct {
	mu    sync.Mutex
	saved map[string]*model.AppState
	saves int
}

func newMemLocal() *memLocal {
	return &memLocal{saved: make(map[string]*model.AppState)}
}

func (m *memLocal) Load(_ context.Context, userID string) (*model.AppState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.saved[userID]
	if !ok {
		return nil, localstore.ErrNoState
	}
	return st.Clone(), nil
}

func (m *memLocal) Save(_ context.Context, st *model.AppState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved[st.UserID] = st.Clone()
	m.saves++
	return nil
}

func (m *memLocal) state(userID string) *model.AppState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saved[userID]
}

type fakeRemote struct {
	mu        sync.Mutex
	fail      bool
	contracts []model.Contract
	invoices  []model.Invoice
	documents []model.SignRequest
	settings  *model.Settings

	savedContracts []model.Contract
	savedInvoices  []model.Invoice
	savedDocuments []model.SignRequest
	savedSettings  []model.Settings
}

var errRemote = errors.New("remote down")

func (f *fakeRemote) LoadContracts(context.Context, string) ([]model.Contract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errRemote
	}
	return append([]model.Contract(nil), f.contracts...), nil
}

func (f *fakeRemote) LoadInvoices(context.Context, string) ([]model.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errRemote
	}
	return append([]model.Invoice(nil), f.invoices...), nil
}

func (f *fakeRemote) LoadDocuments(context.Context, string) ([]model.SignRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errRemote
	}
	return append([]model.SignRequest(nil), f.documents...), nil
}

func (f *fakeRemote) LoadSettings(context.Context, string) (*model.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errRemote
	}
	return f.settings, nil
}

func (f *fakeRemote) SaveContract(_ context.Context, _ string, c model.Contract) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return "", errRemote
	}
	f.savedContracts = append(f.savedContracts, c)
	return c.ID, nil
}

func (f *fakeRemote) SaveInvoice(_ context.Context, _ string, inv model.Invoice) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return "", errRemote
	}
	f.savedInvoices = append(f.savedInvoices, inv)
	return inv.ID, nil
}

func (f *fakeRemote) SaveDocument(_ context.Context, _ string, d model.SignRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return "", errRemote
	}
	f.savedDocuments = append(f.savedDocuments, d)
	return d.ID, nil
}

func (f *fakeRemote) SaveSettings(_ context.Context, userID string, s model.Settings) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return "", errRemote
	}
	f.savedSettings = append(f.savedSettings, s)
	return userID, nil
}

type recordingBridge struct {
	mu     sync.Mutex
	alerts []string
	links  []string
}

func (b *recordingBridge) Alert(_ context.Context, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.alerts = append(b.alerts, text)
	return nil
}

func (b *recordingBridge) Confirm(context.Context, string) (bool, error) { return true, nil }

func (b *recordingBridge) OpenLink(_ context.Context, url string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.links = append(b.links, url)
	return nil
}

func (b *recordingBridge) last() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.alerts) == 0 {
		return ""
	}
	return b.alerts[len(b.alerts)-1]
}

type fakeUploader struct {
	keys []string
}

func (u *fakeUploader) UploadSignFile(_ context.Context, key string, _ io.Reader, _ int64, _ string) error {
	u.keys = append(u.keys, key)
	return nil
}

type staticLinks struct{}

func (staticLinks) SignURL(id string) string { return "https://docs.example/sign/" + id }
