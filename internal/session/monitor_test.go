package session_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/TeamUpswell/wgw/internal/client"
	"github.com/TeamUpswell/wgw/internal/session"
	"go.uber.org/zap"
)

type fakeAPI struct {
	mu         sync.Mutex
	session    client.Session
	renewCalls int
	renewErr   error
}

func (f *fakeAPI) Session() client.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session
}

func (f *fakeAPI) Renew(ctx context.Context) (client.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.renewCalls++
	if f.renewErr != nil {
		return client.Session{}, f.renewErr
	}
	f.session.ExpiresAt = time.Now().Add(time.Hour).Unix()
	return f.session, nil
}

func (f *fakeAPI) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.renewCalls
}

type fakeStore struct {
	mu      sync.Mutex
	saved   []client.Session
	cleared bool
}

func (f *fakeStore) SaveSession(s client.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, s)
	return nil
}

func (f *fakeStore) ClearSession() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared = true
	return nil
}

func sessionExpiringIn(d time.Duration) client.Session {
	return client.Session{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(d).Unix(),
	}
}

func testConfig() session.Config {
	return session.Config{
		Interval:    time.Minute,
		Threshold:   10 * time.Minute,
		Cooldown:    time.Hour,
		Backoff:     time.Millisecond,
		MaxAttempts: 3,
	}
}

func TestNoRefreshAboveThreshold(t *testing.T) {
	api := &fakeAPI{session: sessionExpiringIn(30 * time.Minute)}
	store := &fakeStore{}
	m := session.New(api, store, testConfig(), nil, zap.NewNop().Sugar())

	if err := m.CheckAndRefresh(context.Background()); err != nil {
		t.Fatalf("CheckAndRefresh returned %v", err)
	}
	if api.calls() != 0 {
		t.Fatalf("refresh called %d times above threshold, want 0", api.calls())
	}

	info := m.Info()
	if info.NeedsRefresh || info.IsExpired {
		t.Fatalf("unexpected info %+v", info)
	}
	if info.MinutesUntilExpiry < 29 || info.MinutesUntilExpiry > 31 {
		t.Fatalf("minutes until expiry = %f, want ~30", info.MinutesUntilExpiry)
	}
}

func TestRefreshBelowThresholdOncePerCooldown(t *testing.T) {
	api := &fakeAPI{session: sessionExpiringIn(5 * time.Minute)}
	store := &fakeStore{}
	m := session.New(api, store, testConfig(), nil, zap.NewNop().Sugar())

	if !m.Info().NeedsRefresh {
		t.Fatalf("session expiring in 5m must need refresh with 10m threshold")
	}

	// repeated triggers inside the cooldown window collapse into one call
	for i := 0; i < 5; i++ {
		if err := m.CheckAndRefresh(context.Background()); err != nil {
			t.Fatalf("CheckAndRefresh returned %v", err)
		}
	}
	if api.calls() != 1 {
		t.Fatalf("refresh called %d times within cooldown, want 1", api.calls())
	}
	store.mu.Lock()
	saved := len(store.saved)
	store.mu.Unlock()
	if saved != 1 {
		t.Fatalf("session cached %d times, want 1", saved)
	}
}

func TestRefreshRetriesWithBackoff(t *testing.T) {
	api := &fakeAPI{
		session:  sessionExpiringIn(time.Minute),
		renewErr: fmt.Errorf("temporarily unavailable"),
	}
	store := &fakeStore{}
	m := session.New(api, store, testConfig(), nil, zap.NewNop().Sugar())

	err := m.CheckAndRefresh(context.Background())
	if err == nil {
		t.Fatalf("expected error after exhausted retries")
	}
	if api.calls() != 3 {
		t.Fatalf("refresh attempted %d times, want 3", api.calls())
	}
	store.mu.Lock()
	cleared := store.cleared
	store.mu.Unlock()
	if cleared {
		t.Fatalf("transient failures must not clear auth state")
	}
}

func TestTerminatedSessionClearsAuthState(t *testing.T) {
	api := &fakeAPI{
		session:  sessionExpiringIn(time.Minute),
		renewErr: fmt.Errorf("refresh rejected: %w", client.ErrSessionNotFound),
	}
	store := &fakeStore{}
	signedOut := false
	m := session.New(api, store, testConfig(), func() { signedOut = true }, zap.NewNop().Sugar())

	err := m.CheckAndRefresh(context.Background())
	if !errors.Is(err, client.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	store.mu.Lock()
	cleared := store.cleared
	store.mu.Unlock()
	if !cleared {
		t.Fatalf("terminated session must clear the local cache")
	}
	if !signedOut {
		t.Fatalf("sign-out signal not fired")
	}
}

func TestNoSessionIsNoOp(t *testing.T) {
	api := &fakeAPI{}
	store := &fakeStore{}
	m := session.New(api, store, testConfig(), nil, zap.NewNop().Sugar())

	if err := m.CheckAndRefresh(context.Background()); err != nil {
		t.Fatalf("CheckAndRefresh returned %v", err)
	}
	if api.calls() != 0 {
		t.Fatalf("refresh called without a session")
	}
	if info := m.Info(); !info.IsExpired {
		t.Fatalf("missing session must report expired, got %+v", info)
	}
}
