package offline_test

import (
	"sync"
	"testing"

	"github.com/TeamUpswell/wgw/internal/offline"
)

// fakeStore is an in-memory Store.
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

func TestEnqueueAndRemove(t *testing.T) {
	store := newFakeStore()
	q, err := offline.NewQueue(store)
	if err != nil {
		t.Fatalf("NewQueue failed: %v", err)
	}

	id, err := q.Enqueue(offline.KindDeleteEntry, offline.DeleteEntryPayload{EntryID: "e1"})
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if q.Len() != 1 {
		t.Fatalf("queue length = %d, want 1", q.Len())
	}

	a, ok := q.Get(id)
	if !ok {
		t.Fatalf("action %s not found", id)
	}
	if a.Status != offline.StatusPending || a.RetryCount != 0 {
		t.Fatalf("new action = %+v, want pending with zero retries", a)
	}

	q.Remove(id)
	if q.Len() != 0 {
		t.Fatalf("queue length after remove = %d, want 0", q.Len())
	}
	if persisted, _ := store.ListActions(); len(persisted) != 0 {
		t.Fatalf("store still holds %d actions after remove", len(persisted))
	}
}

func TestNoDeduplication(t *testing.T) {
	q, _ := offline.NewQueue(newFakeStore())
	payload := offline.DeleteEntryPayload{EntryID: "e1"}
	if _, err := q.Enqueue(offline.KindDeleteEntry, payload); err != nil {
		t.Fatal(err)
	}
	if _, err := q.Enqueue(offline.KindDeleteEntry, payload); err != nil {
		t.Fatal(err)
	}
	if q.Len() != 2 {
		t.Fatalf("equivalent actions must both be queued, got %d", q.Len())
	}
}

func TestRetryCeiling(t *testing.T) {
	q, _ := offline.NewQueue(newFakeStore())
	id, _ := q.Enqueue(offline.KindCreateEntry, offline.CreateEntryPayload{ClientRef: "c1"})

	for i := 0; i < offline.MaxRetries; i++ {
		q.MarkSyncing(id)
		q.IncrementRetry(id)
		q.MarkFailed(id, "remote unavailable")
	}

	a, _ := q.Get(id)
	if a.RetryCount != offline.MaxRetries {
		t.Fatalf("retry count = %d, want %d", a.RetryCount, offline.MaxRetries)
	}
	if a.Status != offline.StatusFailed {
		t.Fatalf("status = %s, want failed", a.Status)
	}
	if a.LastError != "remote unavailable" {
		t.Fatalf("last error = %q", a.LastError)
	}
	// exhausted actions stay in the queue but are not pending work
	if q.PendingCount() != 0 {
		t.Fatalf("pending count = %d, want 0", q.PendingCount())
	}
	if q.Len() != 1 {
		t.Fatalf("exhausted action must remain queued")
	}
}

func TestMutationsOnUnknownIDAreNoOps(t *testing.T) {
	q, _ := offline.NewQueue(newFakeStore())
	q.MarkSyncing("missing")
	q.MarkFailed("missing", "x")
	q.IncrementRetry("missing")
	q.Remove("missing")
	if q.Len() != 0 {
		t.Fatalf("unexpected queue contents")
	}
}

func TestClearFailed(t *testing.T) {
	q, _ := offline.NewQueue(newFakeStore())
	failedID, _ := q.Enqueue(offline.KindDeleteEntry, offline.DeleteEntryPayload{EntryID: "e1"})
	pendingID, _ := q.Enqueue(offline.KindDeleteEntry, offline.DeleteEntryPayload{EntryID: "e2"})
	q.MarkFailed(failedID, "boom")

	if removed := q.ClearFailed(); removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if _, ok := q.Get(pendingID); !ok {
		t.Fatalf("pending action must survive ClearFailed")
	}
	if _, ok := q.Get(failedID); ok {
		t.Fatalf("failed action must be gone")
	}
}

func TestStuckSyncingResetOnLoad(t *testing.T) {
	store := newFakeStore()
	q, _ := offline.NewQueue(store)
	id, _ := q.Enqueue(offline.KindDeleteEntry, offline.DeleteEntryPayload{EntryID: "e1"})
	q.MarkSyncing(id)

	// simulate a restart from the same store
	q2, err := offline.NewQueue(store)
	if err != nil {
		t.Fatalf("NewQueue failed: %v", err)
	}
	a, ok := q2.Get(id)
	if !ok {
		t.Fatalf("action lost across restart")
	}
	if a.Status != offline.StatusPending {
		t.Fatalf("status after reload = %s, want pending", a.Status)
	}
}

func TestListIsFIFO(t *testing.T) {
	q, _ := offline.NewQueue(newFakeStore())
	first, _ := q.Enqueue(offline.KindDeleteEntry, offline.DeleteEntryPayload{EntryID: "e1"})
	second, _ := q.Enqueue(offline.KindDeleteEntry, offline.DeleteEntryPayload{EntryID: "e2"})

	list := q.List()
	if len(list) != 2 || list[0].ID != first || list[1].ID != second {
		t.Fatalf("list not FIFO: %+v", list)
	}
}
