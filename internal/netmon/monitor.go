// Package netmon watches API reachability and kicks the sync engine when
// connectivity comes back.
package netmon

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Probe reports whether the network is currently usable.
type Probe func(ctx context.Context) bool

type Monitor struct {
	probe    Probe
	interval time.Duration
	settle   time.Duration
	onOnline func()
	log      *zap.SugaredLogger

	mu     sync.Mutex
	online bool
}

// New builds a monitor. onOnline fires after each offline→online transition,
// delayed by settle so a flapping link does not thrash the sync engine.
func New(probe Probe, interval, settle time.Duration, onOnline func(), log *zap.SugaredLogger) *Monitor {
	return &Monitor{
		probe:    probe,
		interval: interval,
		settle:   settle,
		onOnline: onOnline,
		log:      log,
	}
}

// Online reports the last observed connectivity state.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Run polls until ctx is cancelled. The first probe establishes the initial
// state; a start in the online state also fires onOnline so a queue left
// over from the previous run gets drained.
func (m *Monitor) Run(ctx context.Context) {
	m.check(ctx, true)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.check(ctx, false)
		}
	}
}

func (m *Monitor) check(ctx context.Context, initial bool) {
	usable := m.probe(ctx)

	m.mu.Lock()
	wasOnline := m.online
	m.online = usable
	m.mu.Unlock()

	if usable == wasOnline && !initial {
		return
	}
	if !usable {
		if !initial {
			m.log.Infow("network became unusable")
		}
		return
	}
	if !initial {
		m.log.Infow("network restored, settling before sync", "settle", m.settle)
	}

	// settle, then confirm the link held before draining
	go func() {
		timer := time.NewTimer(m.settle)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		if m.probe(ctx) {
			m.onOnline()
		}
	}()
}
