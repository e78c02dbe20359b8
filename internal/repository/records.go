package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dharsanguruparan/DocFlow/internal/model"
)

// ErrNotFound is returned when no row matches.
var ErrNotFound = errors.New("not found")

// Kind names a record collection.
type Kind string

const (
	KindContract Kind = "contract"
	KindInvoice  Kind = "invoice"
	KindDocument Kind = "document"
)

// ParseKind accepts the collection names used in URLs ("contracts", ...).
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "contract", "contracts":
		return KindContract, true
	case "invoice", "invoices":
		return KindInvoice, true
	case "document", "documents":
		return KindDocument, true
	}
	return "", false
}

// RecordRepository wraps all SQL used by the API and worker.
type RecordRepository struct {
	pool *pgxpool.Pool
}

// NewRecordRepository constructs a repository.
func NewRecordRepository(pool *pgxpool.Pool) *RecordRepository {
	return &RecordRepository{pool: pool}
}

// SaveRecord inserts or replaces a record.
func (r *RecordRepository) SaveRecord(ctx context.Context, userID string, kind Kind, id string, data json.RawMessage, createdAt time.Time) error {
	now := time.Now().UTC()
	if createdAt.IsZero() {
		createdAt = now
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO records (user_id, kind, id, data, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (user_id, kind, id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at
	`, userID, string(kind), id, []byte(data), createdAt, now)
	if err != nil {
		return fmt.Errorf("upsert record: %w", err)
	}
	return nil
}

// ListRecords returns the raw records of one collection, oldest first.
func (r *RecordRepository) ListRecords(ctx context.Context, userID string, kind Kind) ([]json.RawMessage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT data FROM records WHERE user_id=$1 AND kind=$2 ORDER BY created_at, id
	`, userID, string(kind))
	if err != nil {
		return nil, fmt.Errorf("select records: %w", err)
	}
	defer rows.Close()

	out := []json.RawMessage{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		out = append(out, json.RawMessage(data))
	}
	return out, rows.Err()
}

// Contracts decodes the contract collection.
func (r *RecordRepository) Contracts(ctx context.Context, userID string) ([]model.Contract, error) {
	return list[model.Contract](ctx, r, userID, KindContract)
}

// Invoices decodes the invoice collection.
func (r *RecordRepository) Invoices(ctx context.Context, userID string) ([]model.Invoice, error) {
	return list[model.Invoice](ctx, r, userID, KindInvoice)
}

// Documents decodes the signing-request collection.
func (r *RecordRepository) Documents(ctx context.Context, userID string) ([]model.SignRequest, error) {
	return list[model.SignRequest](ctx, r, userID, KindDocument)
}

func list[T any](ctx context.Context, r *RecordRepository, userID string, kind Kind) ([]T, error) {
	raw, err := r.ListRecords(ctx, userID, kind)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raw))
	for _, data := range raw {
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", kind, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// SignRequest finds a signing request by id across users.
func (r *RecordRepository) SignRequest(ctx context.Context, id string) (string, model.SignRequest, error) {
	var (
		userID string
		data   []byte
		req    model.SignRequest
	)
	row := r.pool.QueryRow(ctx, `
		SELECT user_id, data FROM records WHERE kind=$1 AND id=$2 LIMIT 1
	`, string(KindDocument), id)
	if err := row.Scan(&userID, &data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", req, ErrNotFound
		}
		return "", req, fmt.Errorf("select sign request: %w", err)
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return "", req, fmt.Errorf("decode sign request: %w", err)
	}
	return userID, req, nil
}

// UpdateSignRequest patches status and page count of a stored request.
func (r *RecordRepository) UpdateSignRequest(ctx context.Context, id string, status model.SignStatus, pages int) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE records
		SET data = data || jsonb_build_object('status', $1::text) ||
			CASE WHEN $2::int > 0 THEN jsonb_build_object('pages', $2::int) ELSE '{}'::jsonb END,
			updated_at = $3
		WHERE kind=$4 AND id=$5
	`, string(status), pages, time.Now().UTC(), string(KindDocument), id)
	if err != nil {
		return fmt.Errorf("update sign request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Settings returns the stored settings for a user.
func (r *RecordRepository) Settings(ctx context.Context, userID string) (*model.Settings, error) {
	var s model.Settings
	row := r.pool.QueryRow(ctx, `SELECT subscription, tax_system FROM settings WHERE user_id=$1`, userID)
	if err := row.Scan(&s.Subscription, &s.TaxSystem); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select settings: %w", err)
	}
	return &s, nil
}

// SaveSettings inserts or replaces a user's settings.
func (r *RecordRepository) SaveSettings(ctx context.Context, userID string, s model.Settings) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO settings (user_id, subscription, tax_system, updated_at) VALUES ($1,$2,$3,$4)
		ON CONFLICT (user_id) DO UPDATE SET subscription = EXCLUDED.subscription,
			tax_system = EXCLUDED.tax_system, updated_at = EXCLUDED.updated_at
	`, userID, string(s.Subscription), s.TaxSystem, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}
