// Package session keeps the cached auth session alive: it watches the access
// token's expiry and renews it ahead of time for as long as the refresh
// token is honored by the server.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/TeamUpswell/wgw/internal/client"
	"go.uber.org/zap"
)

// API is the slice of the remote client the monitor needs.
type API interface {
	Session() client.Session
	Renew(ctx context.Context) (client.Session, error)
}

// Store persists the session cache across restarts.
type Store interface {
	SaveSession(s client.Session) error
	ClearSession() error
}

type Config struct {
	// Interval between expiry checks.
	Interval time.Duration
	// Threshold is how close to expiry a token may get before a refresh.
	Threshold time.Duration
	// Cooldown is the minimum spacing between refresh attempts, so repeated
	// triggers inside one window collapse into a single refresh.
	Cooldown time.Duration
	// Backoff between retry attempts of one refresh.
	Backoff time.Duration
	// MaxAttempts per refresh before giving up.
	MaxAttempts int
}

// Info describes the current session for display purposes.
type Info struct {
	MinutesUntilExpiry float64
	IsExpired          bool
	NeedsRefresh       bool
}

type Monitor struct {
	api         API
	store       Store
	cfg         Config
	onSignedOut func()
	log         *zap.SugaredLogger

	mu          sync.Mutex
	refreshing  bool
	lastRefresh time.Time
}

// New builds a monitor. onSignedOut fires when a refresh fails with a
// terminated session, after the local auth state has been cleared.
func New(api API, store Store, cfg Config, onSignedOut func(), log *zap.SugaredLogger) *Monitor {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	return &Monitor{api: api, store: store, cfg: cfg, onSignedOut: onSignedOut, log: log}
}

// Info reports the session state against the monitor's thresholds.
func (m *Monitor) Info() Info {
	return m.infoFor(m.api.Session(), time.Now())
}

func (m *Monitor) infoFor(s client.Session, now time.Time) Info {
	if s.RefreshToken == "" {
		return Info{IsExpired: true}
	}
	until := time.Unix(s.ExpiresAt, 0).Sub(now)
	return Info{
		MinutesUntilExpiry: until.Minutes(),
		IsExpired:          until <= 0,
		NeedsRefresh:       until < m.cfg.Threshold,
	}
}

// Run checks the session on a fixed interval until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.CheckAndRefresh(ctx); err != nil {
				m.log.Warnw("session refresh failed", "err", err)
			}
		}
	}
}

// CheckAndRefresh renews the session if it is close to expiry. It is a no-op
// when no refresh is needed, when a refresh is already in flight, or within
// the cooldown window of the previous attempt. A refresh retries up to
// MaxAttempts with a fixed backoff; exhausting retries on a terminated
// session clears local auth state and signals sign-out.
func (m *Monitor) CheckAndRefresh(ctx context.Context) error {
	s := m.api.Session()
	if s.RefreshToken == "" {
		return nil
	}
	now := time.Now()
	if !m.infoFor(s, now).NeedsRefresh {
		return nil
	}

	m.mu.Lock()
	if m.refreshing || now.Sub(m.lastRefresh) < m.cfg.Cooldown {
		m.mu.Unlock()
		return nil
	}
	m.refreshing = true
	m.lastRefresh = now
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.refreshing = false
		m.mu.Unlock()
	}()

	var lastErr error
	for attempt := 1; attempt <= m.cfg.MaxAttempts; attempt++ {
		renewed, err := m.api.Renew(ctx)
		if err == nil {
			if err := m.store.SaveSession(renewed); err != nil {
				m.log.Warnw("session cache save failed", "err", err)
			}
			m.log.Infow("session refreshed", "expires_at", renewed.ExpiresAt)
			return nil
		}
		lastErr = err
		m.log.Warnw("session refresh attempt failed", "attempt", attempt, "err", err)
		if attempt < m.cfg.MaxAttempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(m.cfg.Backoff):
			}
		}
	}

	if errors.Is(lastErr, client.ErrSessionNotFound) {
		// the session is gone server-side; local auth state is meaningless
		if err := m.store.ClearSession(); err != nil {
			m.log.Warnw("session cache clear failed", "err", err)
		}
		if m.onSignedOut != nil {
			m.onSignedOut()
		}
	}
	return lastErr
}
