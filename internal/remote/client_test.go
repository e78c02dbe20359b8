package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharsanguruparan/DocFlow/internal/config"
	"github.com/dharsanguruparan/DocFlow/internal/model"
	"github.com/dharsanguruparan/DocFlow/internal/state"
)

var (
	_ state.RemoteStore = (*Client)(nil)
	_ state.RemoteStore = (*Queued)(nil)
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(config.RemoteConfig{BaseURL: srv.URL + "/", Timeout: time.Second})
}

func TestClientLoadContracts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/contracts", r.URL.Path)
		assert.Equal(t, "user_1", r.Header.Get(UserHeader))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":"1","type":"services","createdAt":"2024-03-01T00:00:00Z","amount":10}]}`))
	})

	got, err := c.LoadContracts(context.Background(), "user_1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "services", got[0].Type)
	assert.Equal(t, 10.0, got[0].Amount)
}

func TestClientSaveInvoice(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		var inv model.Invoice
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&inv))
		assert.Equal(t, "INV-2024-0001", inv.Number)
		_, _ = w.Write([]byte(`{"data":{"objectId":"obj-1"}}`))
	}).WithToken("tok")

	id, err := c.SaveInvoice(context.Background(), "user_1", model.Invoice{ID: "1", Number: "INV-2024-0001"})
	require.NoError(t, err)
	assert.Equal(t, "obj-1", id)
}

func TestClientSaveWithoutObjectID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	id, err := c.SaveContract(context.Background(), "u", model.Contract{ID: "1"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "local_"))
}

func TestClientErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	})
	_, err := c.LoadInvoices(context.Background(), "u")
	assert.ErrorIs(t, err, ErrStatus)
}

func TestClientSettingsRoundTrip(t *testing.T) {
	var stored model.Settings
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/settings", r.URL.Path)
		switch r.Method {
		case http.MethodPut:
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&stored))
			w.WriteHeader(http.StatusNoContent)
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(map[string]any{"data": stored})
		}
	})
	ctx := context.Background()

	_, err := c.SaveSettings(ctx, "u", model.Settings{Subscription: model.PlanPro, TaxSystem: "general"})
	require.NoError(t, err)
	got, err := c.LoadSettings(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, model.PlanPro, got.Subscription)
	assert.Equal(t, "general", got.TaxSystem)
}

func TestClientDisabled(t *testing.T) {
	c := NewClient(config.RemoteConfig{})
	_, err := c.LoadDocuments(context.Background(), "u")
	assert.ErrorIs(t, err, ErrDisabled)
}
