package netmon_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/TeamUpswell/wgw/internal/netmon"
	"go.uber.org/zap"
)

func TestOnlineTransitionTriggersDrainAfterSettle(t *testing.T) {
	var usable atomic.Bool
	var drains atomic.Int32
	probe := func(ctx context.Context) bool { return usable.Load() }

	m := netmon.New(probe, 5*time.Millisecond, time.Millisecond, func() {
		drains.Add(1)
	}, zap.NewNop().Sugar())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		m.Run(ctx)
	}()

	// starts offline: no drain
	time.Sleep(20 * time.Millisecond)
	if drains.Load() != 0 {
		t.Fatalf("drain fired while offline")
	}
	if m.Online() {
		t.Fatalf("monitor reports online while probe is failing")
	}

	// going online fires exactly one drain for the transition
	usable.Store(true)
	time.Sleep(30 * time.Millisecond)
	if got := drains.Load(); got != 1 {
		t.Fatalf("drains = %d after one transition, want 1", got)
	}
	if !m.Online() {
		t.Fatalf("monitor should report online")
	}

	// bouncing offline and back fires another
	usable.Store(false)
	time.Sleep(15 * time.Millisecond)
	usable.Store(true)
	time.Sleep(30 * time.Millisecond)
	if got := drains.Load(); got != 2 {
		t.Fatalf("drains = %d after second transition, want 2", got)
	}

	cancel()
	wg.Wait()
}

func TestFlappingLinkDoesNotDrain(t *testing.T) {
	var usable atomic.Bool
	var drains atomic.Int32

	// the settle re-probe sees the link down again
	probe := func(ctx context.Context) bool { return usable.Load() }

	m := netmon.New(probe, 5*time.Millisecond, 10*time.Millisecond, func() {
		drains.Add(1)
	}, zap.NewNop().Sugar())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	time.Sleep(12 * time.Millisecond) // establish offline
	usable.Store(true)
	time.Sleep(7 * time.Millisecond) // transition observed, settle pending
	usable.Store(false)              // link drops during settle
	time.Sleep(30 * time.Millisecond)

	if drains.Load() != 0 {
		t.Fatalf("drain fired despite link dropping during settle window")
	}
}
