package syncer_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/TeamUpswell/wgw/internal/offline"
	"github.com/TeamUpswell/wgw/internal/syncer"
	"github.com/TeamUpswell/wgw/pkg/model"
	"go.uber.org/zap"
)

type fakeStore struct {
	mu      sync.Mutex
	actions map[string]offline.Action
}

func newFakeStore() *fakeStore {
	return &fakeStore{actions: make(map[string]offline.Action)}
}

func (s *fakeStore) SaveAction(a offline.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions[a.ID] = a
	return nil
}

func (s *fakeStore) DeleteAction(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.actions, id)
	return nil
}

func (s *fakeStore) ListActions() ([]offline.Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]offline.Action, 0, len(s.actions))
	for _, a := range s.actions {
		out = append(out, a)
	}
	return out, nil
}

// fakeAPI records calls and can be told to fail or block.
type fakeAPI struct {
	mu      sync.Mutex
	calls   []string
	created []model.CreateEntryReq
	deleted []string

	deleteErr error
	aiErr     error

	started chan struct{}
	release chan struct{}
}

func (f *fakeAPI) record(name string) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
}

func (f *fakeAPI) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeAPI) CreateEntry(ctx context.Context, req model.CreateEntryReq) (model.JournalEntry, error) {
	if f.started != nil {
		f.started <- struct{}{}
		<-f.release
	}
	f.record("create")
	f.mu.Lock()
	f.created = append(f.created, req)
	f.mu.Unlock()
	return model.JournalEntry{ID: "server-id", ClientRef: req.ClientRef}, nil
}

func (f *fakeAPI) UpdateEntry(ctx context.Context, id string, req model.UpdateEntryReq) error {
	f.record("update")
	return nil
}

func (f *fakeAPI) DeleteEntry(ctx context.Context, id string) error {
	f.record("delete")
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	f.deleted = append(f.deleted, id)
	f.mu.Unlock()
	return nil
}

func (f *fakeAPI) UploadMedia(ctx context.Context, kind, entryID, path string) (string, error) {
	f.record("upload")
	return "https://media.example/" + kind + "/blob", nil
}

func (f *fakeAPI) AIFeedback(ctx context.Context, transcription, category string) (string, bool, error) {
	f.record("ai")
	if f.aiErr != nil {
		return "", false, f.aiErr
	}
	return "Wonderful to hear!", false, nil
}

func (f *fakeAPI) Transcribe(ctx context.Context, path string) (string, error) {
	f.record("transcribe")
	return "I had a great walk today", nil
}

func newEngine(t *testing.T, api *fakeAPI) (*syncer.Engine, *offline.Queue) {
	t.Helper()
	q, err := offline.NewQueue(newFakeStore())
	if err != nil {
		t.Fatalf("NewQueue failed: %v", err)
	}
	return syncer.New(q, api, zap.NewNop().Sugar()), q
}

func TestDrainReplaysCreateEntryPipeline(t *testing.T) {
	api := &fakeAPI{}
	engine, q := newEngine(t, api)

	_, err := q.Enqueue(offline.KindCreateEntry, offline.CreateEntryPayload{
		ClientRef: "local-1",
		Category:  "Health",
		AudioPath: "/tmp/memo.m4a",
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	engine.Drain(context.Background())

	if q.Len() != 0 {
		t.Fatalf("queue length after drain = %d, want 0", q.Len())
	}
	if len(api.created) != 1 {
		t.Fatalf("created %d entries, want 1", len(api.created))
	}
	created := api.created[0]
	if created.AudioURL == "" {
		t.Fatalf("audio was not uploaded before insert")
	}
	if created.Transcription != "I had a great walk today" {
		t.Fatalf("missing transcription: %+v", created)
	}
	if created.AIResponse != "Wonderful to hear!" {
		t.Fatalf("missing ai response: %+v", created)
	}

	// upload and transcription must precede the insert
	want := []string{"upload", "transcribe", "ai", "create"}
	if len(api.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", api.calls, want)
	}
	for i := range want {
		if api.calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", api.calls, want)
		}
	}
}

func TestDrainAIFailureFallsBackToTemplate(t *testing.T) {
	api := &fakeAPI{aiErr: errors.New("vendor down")}
	engine, q := newEngine(t, api)

	_, _ = q.Enqueue(offline.KindCreateEntry, offline.CreateEntryPayload{
		ClientRef:     "local-2",
		Category:      "Friends",
		Transcription: "caught up with an old friend",
	})

	engine.Drain(context.Background())

	if q.Len() != 0 {
		t.Fatalf("entry creation must survive an AI outage, queue = %d", q.Len())
	}
	if len(api.created) != 1 || api.created[0].AIResponse == "" {
		t.Fatalf("entry saved without fallback encouragement: %+v", api.created)
	}
}

func TestDrainFailureIsolationAndRetryCeiling(t *testing.T) {
	api := &fakeAPI{deleteErr: errors.New("constraint violation")}
	engine, q := newEngine(t, api)

	failingID, _ := q.Enqueue(offline.KindDeleteEntry, offline.DeleteEntryPayload{EntryID: "e-bad"})
	_, _ = q.Enqueue(offline.KindCreateEntry, offline.CreateEntryPayload{
		ClientRef:     "local-3",
		Transcription: "good day",
	})

	engine.Drain(context.Background())

	// the failing action must not abort the pass
	if len(api.created) != 1 {
		t.Fatalf("second action was not processed after first failed")
	}
	a, ok := q.Get(failingID)
	if !ok {
		t.Fatalf("failed action must stay queued")
	}
	if a.Status != offline.StatusFailed || a.RetryCount != 1 {
		t.Fatalf("after one failure: %+v", a)
	}

	// two more drains exhaust the ceiling
	engine.Drain(context.Background())
	engine.Drain(context.Background())
	a, _ = q.Get(failingID)
	if a.RetryCount != offline.MaxRetries {
		t.Fatalf("retry count = %d, want %d", a.RetryCount, offline.MaxRetries)
	}
	if got := api.callCount("delete"); got != offline.MaxRetries {
		t.Fatalf("delete attempted %d times, want %d", got, offline.MaxRetries)
	}

	// a fourth drain must skip the exhausted action entirely
	engine.Drain(context.Background())
	if got := api.callCount("delete"); got != offline.MaxRetries {
		t.Fatalf("exhausted action was retried past the ceiling (%d attempts)", got)
	}
	if _, ok := q.Get(failingID); !ok {
		t.Fatalf("exhausted action must remain queued as failed")
	}
}

func TestDrainSingleFlight(t *testing.T) {
	api := &fakeAPI{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	engine, q := newEngine(t, api)

	_, _ = q.Enqueue(offline.KindCreateEntry, offline.CreateEntryPayload{
		ClientRef:     "local-4",
		Transcription: "slept well",
	})

	done := make(chan struct{})
	go func() {
		engine.Drain(context.Background())
		close(done)
	}()

	// wait for the first drain to be mid-replay, then trigger again
	<-api.started
	if !engine.Draining() {
		t.Fatalf("engine must report draining while a pass is in flight")
	}
	engine.Drain(context.Background()) // must be a no-op
	close(api.release)
	<-done

	if got := api.callCount("create"); got != 1 {
		t.Fatalf("action processed %d times, want 1 (single-flight)", got)
	}
	if engine.LastSyncAt().IsZero() {
		t.Fatalf("last sync time not recorded")
	}
	if engine.Draining() {
		t.Fatalf("engine must return to idle after the pass")
	}
}
