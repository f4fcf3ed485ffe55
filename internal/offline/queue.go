package offline

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store persists queue mutations so the queue survives restarts.
type Store interface {
	SaveAction(a Action) error
	DeleteAction(id string) error
	ListActions() ([]Action, error)
}

// Queue is the in-memory view of the offline action queue, kept in sync with
// a Store on every mutation. All methods are safe for concurrent use; unlike
// the single-threaded mobile runtime this code is ported from, goroutines
// touch the queue from the sync engine, the network monitor, and the
// embedding app, so the mutex is load-bearing.
type Queue struct {
	mu      sync.Mutex
	actions []Action
	store   Store
}

// NewQueue loads any persisted actions. Actions stuck in Syncing from a
// previous run never finished and are reset to Pending.
func NewQueue(store Store) (*Queue, error) {
	actions, err := store.ListActions()
	if err != nil {
		return nil, fmt.Errorf("load offline queue: %w", err)
	}
	for i := range actions {
		if actions[i].Status == StatusSyncing {
			actions[i].Status = StatusPending
			if err := store.SaveAction(actions[i]); err != nil {
				return nil, fmt.Errorf("reset stuck action: %w", err)
			}
		}
	}
	sort.SliceStable(actions, func(i, j int) bool {
		return actions[i].CreatedAt.Before(actions[j].CreatedAt)
	})
	return &Queue{actions: actions, store: store}, nil
}

// Enqueue appends a new Pending action and returns its id. There is no
// deduplication: equivalent actions each replay independently and rely on
// the server's idempotency keys.
func (q *Queue) Enqueue(kind Kind, payload interface{}) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	a := Action{
		ID:        uuid.New().String(),
		Kind:      kind,
		Payload:   raw,
		CreatedAt: time.Now(),
		Status:    StatusPending,
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.store.SaveAction(a); err != nil {
		return "", fmt.Errorf("persist action: %w", err)
	}
	q.actions = append(q.actions, a)
	return a.ID, nil
}

// MarkSyncing flags an action as in flight. No-op for unknown ids.
func (q *Queue) MarkSyncing(id string) {
	q.mutate(id, func(a *Action) {
		a.Status = StatusSyncing
	})
}

// MarkFailed records a failure message. No-op for unknown ids.
func (q *Queue) MarkFailed(id, errMsg string) {
	q.mutate(id, func(a *Action) {
		a.Status = StatusFailed
		a.LastError = errMsg
	})
}

// IncrementRetry bumps the retry counter, which only ever grows. No-op for
// unknown ids.
func (q *Queue) IncrementRetry(id string) {
	q.mutate(id, func(a *Action) {
		a.RetryCount++
	})
}

// Remove deletes an action, normally after its remote replay succeeded.
// No-op for unknown ids.
func (q *Queue) Remove(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i := range q.actions {
		if q.actions[i].ID == id {
			if err := q.store.DeleteAction(id); err != nil {
				return
			}
			q.actions = append(q.actions[:i], q.actions[i+1:]...)
			return
		}
	}
}

// ClearFailed removes every Failed action; manual housekeeping, never
// triggered automatically.
func (q *Queue) ClearFailed() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	kept := q.actions[:0]
	removed := 0
	for _, a := range q.actions {
		if a.Status == StatusFailed {
			if err := q.store.DeleteAction(a.ID); err == nil {
				removed++
				continue
			}
		}
		kept = append(kept, a)
	}
	q.actions = kept
	return removed
}

// List returns a snapshot of the queue in FIFO order.
func (q *Queue) List() []Action {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Action, len(q.actions))
	copy(out, q.actions)
	return out
}

// Len returns the number of queued actions.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.actions)
}

// PendingCount returns how many actions are still eligible for a drain:
// anything not in flight and not past the retry ceiling.
func (q *Queue) PendingCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := 0
	for _, a := range q.actions {
		if a.Status != StatusSyncing && a.RetryCount < MaxRetries {
			n++
		}
	}
	return n
}

// Get returns an action by id.
func (q *Queue) Get(id string) (Action, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, a := range q.actions {
		if a.ID == id {
			return a, true
		}
	}
	return Action{}, false
}

func (q *Queue) mutate(id string, fn func(*Action)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i := range q.actions {
		if q.actions[i].ID == id {
			fn(&q.actions[i])
			_ = q.store.SaveAction(q.actions[i])
			return
		}
	}
}
