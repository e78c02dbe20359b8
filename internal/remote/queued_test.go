package remote

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharsanguruparan/DocFlow/internal/model"
	"github.com/dharsanguruparan/DocFlow/internal/queue"
)

type captureQueue struct {
	tasks []*asynq.Task
}

func (q *captureQueue) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{ID: task.Type()}, nil
}

type stubReader struct{}

func (stubReader) Contracts(context.Context, string) ([]model.Contract, error) {
	return []model.Contract{{ID: "1"}}, nil
}
func (stubReader) Invoices(context.Context, string) ([]model.Invoice, error) { return nil, nil }
func (stubReader) Documents(context.Context, string) ([]model.SignRequest, error) {
	return nil, nil
}
func (stubReader) Settings(context.Context, string) (*model.Settings, error) {
	return &model.Settings{Subscription: model.PlanFree}, nil
}

func TestQueuedSaveContractEnqueuesMirror(t *testing.T) {
	q := &captureQueue{}
	store := &Queued{Records: stubReader{}, Queue: q}

	id, err := store.SaveContract(context.Background(), "telegram_7", model.Contract{ID: "42", Type: "nda", CreatedAt: "2024-03-01T00:00:00Z"})
	require.NoError(t, err)
	assert.Equal(t, "42", id)

	require.Len(t, q.tasks, 1)
	assert.Equal(t, queue.MirrorRecordTask, q.tasks[0].Type())
	var p queue.MirrorPayload
	require.NoError(t, json.Unmarshal(q.tasks[0].Payload(), &p))
	assert.Equal(t, "telegram_7", p.UserID)
	assert.Equal(t, "contract", p.Kind)
	assert.JSONEq(t, `{"id":"42","type":"nda","createdAt":"2024-03-01T00:00:00Z","startDate":"","endDate":"","amount":0,"additionalTerms":""}`, string(p.Data))
}

func TestQueuedSaveDocumentSchedulesInspection(t *testing.T) {
	q := &captureQueue{}
	store := &Queued{Records: stubReader{}, Queue: q}

	_, err := store.SaveDocument(context.Background(), "u", model.SignRequest{ID: "9", ObjectKey: "sign/9/a.pdf"})
	require.NoError(t, err)
	require.Len(t, q.tasks, 2)
	assert.Equal(t, queue.InspectUploadTask, q.tasks[1].Type())

	q.tasks = nil
	_, err = store.SaveDocument(context.Background(), "u", model.SignRequest{ID: "10"})
	require.NoError(t, err)
	assert.Len(t, q.tasks, 1)
}

func TestQueuedSettings(t *testing.T) {
	q := &captureQueue{}
	store := &Queued{Records: stubReader{}, Queue: q}

	s, err := store.LoadSettings(context.Background(), "u")
	require.NoError(t, err)
	assert.Equal(t, model.PlanFree, s.Subscription)

	_, err = store.SaveSettings(context.Background(), "u", model.Settings{Subscription: model.PlanPro})
	require.NoError(t, err)
	require.Len(t, q.tasks, 1)
	assert.Equal(t, queue.MirrorSettingsTask, q.tasks[0].Type())
}
