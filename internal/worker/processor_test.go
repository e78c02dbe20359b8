package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharsanguruparan/DocFlow/internal/model"
	"github.com/dharsanguruparan/DocFlow/internal/queue"
	"github.com/dharsanguruparan/DocFlow/internal/repository"
)

type savedRecord struct {
	userID    string
	kind      repository.Kind
	id        string
	data      string
	createdAt time.Time
}

type fakeRecords struct {
	records  []savedRecord
	settings map[string]model.Settings
	requests map[string]model.SignRequest
	fail     error
}

func newFakeRecords() *fakeRecords {
	return &fakeRecords{settings: map[string]model.Settings{}, requests: map[string]model.SignRequest{}}
}

func (f *fakeRecords) SaveRecord(_ context.Context, userID string, kind repository.Kind, id string, data json.RawMessage, createdAt time.Time) error {
	if f.fail != nil {
		return f.fail
	}
	f.records = append(f.records, savedRecord{userID, kind, id, string(data), createdAt})
	return nil
}

func (f *fakeRecords) SaveSettings(_ context.Context, userID string, s model.Settings) error {
	f.settings[userID] = s
	return nil
}

func (f *fakeRecords) SignRequest(_ context.Context, id string) (string, model.SignRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return "", model.SignRequest{}, repository.ErrNotFound
	}
	return "u", req, nil
}

func (f *fakeRecords) UpdateSignRequest(_ context.Context, id string, status model.SignStatus, pages int) error {
	req := f.requests[id]
	req.Status, req.Pages = status, pages
	f.requests[id] = req
	return nil
}

type fakeFiles map[string][]byte

func (f fakeFiles) DownloadSignFile(_ context.Context, key string) ([]byte, error) {
	data, ok := f[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return data, nil
}

func task(t *testing.T, typename string, payload any) *asynq.Task {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return asynq.NewTask(typename, data)
}

func twoPagePDF() []byte {
	objs := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R 4 0 R] /Count 2 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>",
	}
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, body := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return buf.Bytes()
}

func TestHandleMirror(t *testing.T) {
	records := newFakeRecords()
	p := NewProcessor(records, fakeFiles{}, nil)

	err := p.handleMirror(context.Background(), task(t, queue.MirrorRecordTask, queue.MirrorPayload{
		UserID:    "telegram_1",
		Kind:      "invoice",
		ID:        "17",
		CreatedAt: "2024-03-10T12:00:00.000Z",
		Data:      json.RawMessage(`{"id":"17"}`),
	}))
	require.NoError(t, err)
	require.Len(t, records.records, 1)
	got := records.records[0]
	assert.Equal(t, repository.KindInvoice, got.kind)
	assert.Equal(t, `{"id":"17"}`, got.data)
	assert.Equal(t, time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC), got.createdAt.UTC())
}

func TestHandleMirrorRejectsBadKind(t *testing.T) {
	p := NewProcessor(newFakeRecords(), fakeFiles{}, nil)
	err := p.handleMirror(context.Background(), task(t, queue.MirrorRecordTask, queue.MirrorPayload{UserID: "u", Kind: "memo", ID: "1"}))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleMirrorRetriesOnStoreError(t *testing.T) {
	records := newFakeRecords()
	records.fail = errors.New("db down")
	p := NewProcessor(records, fakeFiles{}, nil)
	err := p.handleMirror(context.Background(), task(t, queue.MirrorRecordTask, queue.MirrorPayload{UserID: "u", Kind: "contract", ID: "1"}))
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleSettings(t *testing.T) {
	records := newFakeRecords()
	p := NewProcessor(records, fakeFiles{}, nil)

	err := p.handleSettings(context.Background(), task(t, queue.MirrorSettingsTask, queue.SettingsPayload{UserID: "u", Subscription: "pro", TaxSystem: "general"}))
	require.NoError(t, err)
	assert.Equal(t, model.Settings{Subscription: model.PlanPro, TaxSystem: "general"}, records.settings["u"])

	err = p.handleSettings(context.Background(), task(t, queue.MirrorSettingsTask, queue.SettingsPayload{UserID: "u", Subscription: "gold"}))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleInspect(t *testing.T) {
	records := newFakeRecords()
	records.requests["9"] = model.SignRequest{ID: "9", Status: model.SignPending}
	files := fakeFiles{"sign/9/a.pdf": twoPagePDF(), "sign/9/b.pdf": []byte("nope")}
	p := NewProcessor(records, files, nil)
	ctx := context.Background()

	require.NoError(t, p.handleInspect(ctx, task(t, queue.InspectUploadTask, queue.InspectPayload{RequestID: "9", ObjectKey: "sign/9/a.pdf"})))
	assert.Equal(t, 2, records.requests["9"].Pages)
	assert.Equal(t, model.SignPending, records.requests["9"].Status)

	err := p.handleInspect(ctx, task(t, queue.InspectUploadTask, queue.InspectPayload{RequestID: "9", ObjectKey: "sign/9/b.pdf"}))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	err = p.handleInspect(ctx, task(t, queue.InspectUploadTask, queue.InspectPayload{RequestID: "missing", ObjectKey: "sign/9/a.pdf"}))
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
