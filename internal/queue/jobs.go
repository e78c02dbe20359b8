package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// MirrorRecordTask copies one record into the remote store.
	MirrorRecordTask = "record:mirror"
	// MirrorSettingsTask copies a user's settings into the remote store.
	MirrorSettingsTask = "settings:mirror"
	// InspectUploadTask counts the pages of an uploaded PDF for a sign request.
	InspectUploadTask = "sign:inspect"
)

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// MirrorPayload carries the record exactly as the client stored it.
type MirrorPayload struct {
	UserID    string          `json:"user_id"`
	Kind      string          `json:"kind"`
	ID        string          `json:"id"`
	CreatedAt string          `json:"created_at"`
	Data      json.RawMessage `json:"data"`
}

// SettingsPayload mirrors model.Settings for one user.
type SettingsPayload struct {
	UserID       string `json:"user_id"`
	Subscription string `json:"subscription"`
	TaxSystem    string `json:"tax_system"`
}

// InspectPayload points the worker at an uploaded PDF.
type InspectPayload struct {
	RequestID string `json:"request_id"`
	ObjectKey string `json:"object_key"`
}

// EnqueueMirror enqueues a record mirror job.
func EnqueueMirror(ctx context.Context, client Enqueuer, payload MirrorPayload) error {
	return enqueue(ctx, client, MirrorRecordTask, payload, asynq.MaxRetry(5))
}

// EnqueueSettings enqueues a settings mirror job.
func EnqueueSettings(ctx context.Context, client Enqueuer, payload SettingsPayload) error {
	return enqueue(ctx, client, MirrorSettingsTask, payload, asynq.MaxRetry(5))
}

// EnqueueInspect enqueues a PDF inspection job.
func EnqueueInspect(ctx context.Context, client Enqueuer, payload InspectPayload) error {
	return enqueue(ctx, client, InspectUploadTask, payload, asynq.MaxRetry(3))
}

func enqueue(ctx context.Context, client Enqueuer, typename string, payload any, opts ...asynq.Option) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	task := asynq.NewTask(typename, data)
	if _, err := client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("enqueue %s task: %w", typename, err)
	}
	return nil
}
