// Package remote implements the best-effort remote store: a REST client used
// by the command-line app and a queue-backed store used by the server.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/dharsanguruparan/DocFlow/internal/config"
	"github.com/dharsanguruparan/DocFlow/internal/model"
)

// UserHeader carries the user id on every request.
const UserHeader = "X-User-ID"

var (
	ErrDisabled = errors.New("remote store not configured")
	ErrStatus   = errors.New("unexpected remote status")
)

// Client talks to the /api record endpoints.
type Client struct {
	base    string
	http    *http.Client
	limiter *rate.Limiter
	token   string
}

// NewClient builds a client from config. An empty base URL yields a client
// whose every call fails with ErrDisabled.
func NewClient(cfg config.RemoteConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	return &Client{
		base:    strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, 1),
	}
}

// WithToken returns a copy that sends a bearer token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error,omitempty"`
}

type saved struct {
	ObjectID string `json:"objectId"`
}

func (c *Client) LoadContracts(ctx context.Context, userID string) ([]model.Contract, error) {
	var out []model.Contract
	return out, c.do(ctx, http.MethodGet, "/api/contracts", userID, nil, &out)
}

func (c *Client) LoadInvoices(ctx context.Context, userID string) ([]model.Invoice, error) {
	var out []model.Invoice
	return out, c.do(ctx, http.MethodGet, "/api/invoices", userID, nil, &out)
}

func (c *Client) LoadDocuments(ctx context.Context, userID string) ([]model.SignRequest, error) {
	var out []model.SignRequest
	return out, c.do(ctx, http.MethodGet, "/api/documents", userID, nil, &out)
}

func (c *Client) SaveContract(ctx context.Context, userID string, r model.Contract) (string, error) {
	return c.save(ctx, "/api/contracts", userID, r)
}

func (c *Client) SaveInvoice(ctx context.Context, userID string, r model.Invoice) (string, error) {
	return c.save(ctx, "/api/invoices", userID, r)
}

func (c *Client) SaveDocument(ctx context.Context, userID string, r model.SignRequest) (string, error) {
	return c.save(ctx, "/api/documents", userID, r)
}

func (c *Client) LoadSettings(ctx context.Context, userID string) (*model.Settings, error) {
	var out model.Settings
	if err := c.do(ctx, http.MethodGet, "/api/settings", userID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SaveSettings(ctx context.Context, userID string, s model.Settings) (string, error) {
	if err := c.do(ctx, http.MethodPut, "/api/settings", userID, s, nil); err != nil {
		return "", err
	}
	return userID, nil
}

// save posts a record. When the server returns no object id a local one is
// made up so callers always get something to log.
func (c *Client) save(ctx context.Context, path, userID string, record any) (string, error) {
	var out saved
	if err := c.do(ctx, http.MethodPost, path, userID, record, &out); err != nil {
		return "", err
	}
	if out.ObjectID == "" {
		out.ObjectID = "local_" + strconv.FormatInt(time.Now().UnixMilli(), 10)
	}
	return out.ObjectID, nil
}

func (c *Client) do(ctx context.Context, method, path, userID string, body, out any) error {
	if c.base == "" {
		return ErrDisabled
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set(UserHeader, userID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, 8<<20)).Decode(&env)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s %s: %d %s", ErrStatus, method, path, resp.StatusCode, env.Error)
	}
	if decodeErr != nil && !errors.Is(decodeErr, io.EOF) {
		return fmt.Errorf("decode %s response: %w", path, decodeErr)
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s data: %w", path, err)
	}
	return nil
}
