package remote

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dharsanguruparan/DocFlow/internal/model"
	"github.com/dharsanguruparan/DocFlow/internal/queue"
	"github.com/dharsanguruparan/DocFlow/internal/repository"
)

// Reader is the read side of the record repository.
type Reader interface {
	Contracts(ctx context.Context, userID string) ([]model.Contract, error)
	Invoices(ctx context.Context, userID string) ([]model.Invoice, error)
	Documents(ctx context.Context, userID string) ([]model.SignRequest, error)
	Settings(ctx context.Context, userID string) (*model.Settings, error)
}

// Queued reads straight from Postgres and writes through the mirror queue,
// so a slow database never holds up a request.
type Queued struct {
	Records Reader
	Queue   queue.Enqueuer
}

func (q *Queued) LoadContracts(ctx context.Context, userID string) ([]model.Contract, error) {
	return q.Records.Contracts(ctx, userID)
}

func (q *Queued) LoadInvoices(ctx context.Context, userID string) ([]model.Invoice, error) {
	return q.Records.Invoices(ctx, userID)
}

func (q *Queued) LoadDocuments(ctx context.Context, userID string) ([]model.SignRequest, error) {
	return q.Records.Documents(ctx, userID)
}

func (q *Queued) LoadSettings(ctx context.Context, userID string) (*model.Settings, error) {
	return q.Records.Settings(ctx, userID)
}

func (q *Queued) SaveContract(ctx context.Context, userID string, r model.Contract) (string, error) {
	return q.enqueue(ctx, userID, repository.KindContract, r.ID, r.CreatedAt, r)
}

func (q *Queued) SaveInvoice(ctx context.Context, userID string, r model.Invoice) (string, error) {
	return q.enqueue(ctx, userID, repository.KindInvoice, r.ID, r.CreatedAt, r)
}

// SaveDocument also schedules page counting when a file was uploaded.
func (q *Queued) SaveDocument(ctx context.Context, userID string, r model.SignRequest) (string, error) {
	id, err := q.enqueue(ctx, userID, repository.KindDocument, r.ID, r.CreatedAt, r)
	if err != nil {
		return "", err
	}
	if r.ObjectKey != "" {
		if err := queue.EnqueueInspect(ctx, q.Queue, queue.InspectPayload{RequestID: r.ID, ObjectKey: r.ObjectKey}); err != nil {
			return id, fmt.Errorf("enqueue inspect: %w", err)
		}
	}
	return id, nil
}

func (q *Queued) SaveSettings(ctx context.Context, userID string, s model.Settings) (string, error) {
	err := queue.EnqueueSettings(ctx, q.Queue, queue.SettingsPayload{
		UserID:       userID,
		Subscription: string(s.Subscription),
		TaxSystem:    s.TaxSystem,
	})
	if err != nil {
		return "", fmt.Errorf("enqueue settings: %w", err)
	}
	return userID, nil
}

func (q *Queued) enqueue(ctx context.Context, userID string, kind repository.Kind, id, createdAt string, record any) (string, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", kind, err)
	}
	err = queue.EnqueueMirror(ctx, q.Queue, queue.MirrorPayload{
		UserID:    userID,
		Kind:      string(kind),
		ID:        id,
		CreatedAt: createdAt,
		Data:      data,
	})
	if err != nil {
		return "", fmt.Errorf("enqueue %s mirror: %w", kind, err)
	}
	return id, nil
}
