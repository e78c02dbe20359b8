// Package worker runs the asynq handlers that mirror client records into
// Postgres and inspect uploaded PDFs.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/dharsanguruparan/DocFlow/internal/model"
	pdfutil "github.com/dharsanguruparan/DocFlow/internal/pdf"
	"github.com/dharsanguruparan/DocFlow/internal/queue"
	"github.com/dharsanguruparan/DocFlow/internal/repository"
)

// Records is the write side of the record repository.
type Records interface {
	SaveRecord(ctx context.Context, userID string, kind repository.Kind, id string, data json.RawMessage, createdAt time.Time) error
	SaveSettings(ctx context.Context, userID string, s model.Settings) error
	SignRequest(ctx context.Context, id string) (string, model.SignRequest, error)
	UpdateSignRequest(ctx context.Context, id string, status model.SignStatus, pages int) error
}

// Files fetches uploaded sign files.
type Files interface {
	DownloadSignFile(ctx context.Context, objectKey string) ([]byte, error)
}

// Processor is plugged into the asynq worker loop.
type Processor struct {
	records Records
	files   Files
	log     *zap.Logger
}

// NewProcessor constructs a worker processor.
func NewProcessor(records Records, files Files, log *zap.Logger) *Processor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Processor{records: records, files: files, log: log}
}

// Handler registers every job handler.
func (p *Processor) Handler() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.MirrorRecordTask, p.handleMirror)
	mux.HandleFunc(queue.MirrorSettingsTask, p.handleSettings)
	mux.HandleFunc(queue.InspectUploadTask, p.handleInspect)
	return mux
}

func (p *Processor) handleMirror(ctx context.Context, task *asynq.Task) error {
	var payload queue.MirrorPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %w: %w", err, asynq.SkipRetry)
	}
	kind, ok := repository.ParseKind(payload.Kind)
	if !ok || payload.UserID == "" || payload.ID == "" {
		return fmt.Errorf("mirror %q/%q: bad payload: %w", payload.Kind, payload.ID, asynq.SkipRetry)
	}
	createdAt, _ := model.ParseTimestamp(payload.CreatedAt)
	if err := p.records.SaveRecord(ctx, payload.UserID, kind, payload.ID, payload.Data, createdAt); err != nil {
		p.log.Warn("mirror failed", zap.String("kind", payload.Kind), zap.String("id", payload.ID), zap.Error(err))
		return err
	}
	p.log.Debug("record mirrored", zap.String("user_id", payload.UserID), zap.String("kind", payload.Kind), zap.String("id", payload.ID))
	return nil
}

func (p *Processor) handleSettings(ctx context.Context, task *asynq.Task) error {
	var payload queue.SettingsPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %w: %w", err, asynq.SkipRetry)
	}
	plan, ok := model.ParsePlan(payload.Subscription)
	if !ok {
		return fmt.Errorf("settings for %s: unknown plan %q: %w", payload.UserID, payload.Subscription, asynq.SkipRetry)
	}
	if err := p.records.SaveSettings(ctx, payload.UserID, model.Settings{Subscription: plan, TaxSystem: payload.TaxSystem}); err != nil {
		p.log.Warn("settings mirror failed", zap.String("user_id", payload.UserID), zap.Error(err))
		return err
	}
	return nil
}

// handleInspect records the page count of an uploaded PDF. The sign request
// row may not exist yet when the mirror job is still queued; returning the
// error lets asynq retry.
func (p *Processor) handleInspect(ctx context.Context, task *asynq.Task) error {
	var payload queue.InspectPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %w: %w", err, asynq.SkipRetry)
	}
	_, req, err := p.records.SignRequest(ctx, payload.RequestID)
	if err != nil {
		return fmt.Errorf("load sign request %s: %w", payload.RequestID, err)
	}
	data, err := p.files.DownloadSignFile(ctx, payload.ObjectKey)
	if err != nil {
		return fmt.Errorf("download %s: %w", payload.ObjectKey, err)
	}
	info, err := pdfutil.Inspect(data)
	if err != nil {
		p.log.Warn("uploaded file is not a readable pdf", zap.String("request_id", payload.RequestID), zap.Error(err))
		return fmt.Errorf("inspect %s: %w: %w", payload.ObjectKey, err, asynq.SkipRetry)
	}
	if err := p.records.UpdateSignRequest(ctx, payload.RequestID, req.Status, info.Pages); err != nil {
		return fmt.Errorf("update sign request %s: %w", payload.RequestID, err)
	}
	p.log.Info("sign upload inspected",
		zap.String("request_id", payload.RequestID),
		zap.Int("pages", info.Pages),
		zap.Bool("has_text", info.HasText))
	return nil
}
