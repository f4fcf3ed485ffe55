package localdb_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/TeamUpswell/wgw/internal/client"
	"github.com/TeamUpswell/wgw/internal/localdb"
	"github.com/TeamUpswell/wgw/internal/offline"
	"github.com/TeamUpswell/wgw/pkg"
)

func openTestDB(t *testing.T) *localdb.DB {
	t.Helper()
	crypto, err := pkg.NewCrypto("0123456789abcdef0123456789abcdef")
	if err != nil {
		t.Fatalf("NewCrypto: %v", err)
	}
	db, err := localdb.Open(t.TempDir(), crypto)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestActionRoundTrip(t *testing.T) {
	db := openTestDB(t)

	first := offline.Action{
		ID:        "a1",
		Kind:      offline.KindCreateEntry,
		Payload:   json.RawMessage(`{"client_ref":"ref-1"}`),
		CreatedAt: time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
		Status:    offline.StatusPending,
	}
	second := offline.Action{
		ID:         "a2",
		Kind:       offline.KindDeleteEntry,
		Payload:    json.RawMessage(`{"entry_id":"e1"}`),
		CreatedAt:  time.Date(2026, 8, 20, 11, 0, 0, 0, time.UTC),
		Status:     offline.StatusFailed,
		RetryCount: 2,
		LastError:  "network unreachable",
	}
	// insert out of order to exercise the sort
	if err := db.SaveAction(second); err != nil {
		t.Fatalf("SaveAction: %v", err)
	}
	if err := db.SaveAction(first); err != nil {
		t.Fatalf("SaveAction: %v", err)
	}

	got, err := db.ListActions()
	if err != nil {
		t.Fatalf("ListActions: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d actions, want 2", len(got))
	}
	if got[0].ID != "a1" || got[1].ID != "a2" {
		t.Fatalf("actions out of order: %s, %s", got[0].ID, got[1].ID)
	}
	if got[1].RetryCount != 2 || got[1].Status != offline.StatusFailed || got[1].LastError != "network unreachable" {
		t.Fatalf("failure state not persisted: %+v", got[1])
	}
	if !got[0].CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("created_at = %v, want %v", got[0].CreatedAt, first.CreatedAt)
	}

	// a second save updates in place
	first.RetryCount = 1
	first.Status = offline.StatusSyncing
	if err := db.SaveAction(first); err != nil {
		t.Fatalf("SaveAction update: %v", err)
	}
	got, err = db.ListActions()
	if err != nil {
		t.Fatalf("ListActions: %v", err)
	}
	if len(got) != 2 || got[0].Status != offline.StatusSyncing {
		t.Fatalf("update not applied: %+v", got)
	}

	if err := db.DeleteAction("a1"); err != nil {
		t.Fatalf("DeleteAction: %v", err)
	}
	got, err = db.ListActions()
	if err != nil {
		t.Fatalf("ListActions: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a2" {
		t.Fatalf("delete left %+v", got)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	db := openTestDB(t)

	if _, ok, err := db.LoadSession(); err != nil || ok {
		t.Fatalf("empty store: ok=%v err=%v", ok, err)
	}

	s := client.Session{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		ExpiresAt:    1765000000,
		UserID:       "u1",
		Email:        "dev@example.com",
	}
	if err := db.SaveSession(s); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	got, ok, err := db.LoadSession()
	if err != nil || !ok {
		t.Fatalf("LoadSession: ok=%v err=%v", ok, err)
	}
	if got != s {
		t.Fatalf("session round trip: got %+v, want %+v", got, s)
	}

	// overwrite keeps a single row
	s.AccessToken = "rotated"
	if err := db.SaveSession(s); err != nil {
		t.Fatalf("SaveSession overwrite: %v", err)
	}
	got, ok, err = db.LoadSession()
	if err != nil || !ok || got.AccessToken != "rotated" {
		t.Fatalf("overwrite: got %+v ok=%v err=%v", got, ok, err)
	}

	if err := db.ClearSession(); err != nil {
		t.Fatalf("ClearSession: %v", err)
	}
	if _, ok, err := db.LoadSession(); err != nil || ok {
		t.Fatalf("after clear: ok=%v err=%v", ok, err)
	}
}
