package poller

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/corriander/eve-telemetrics/internal/esi"
	"github.com/corriander/eve-telemetrics/internal/market"
)

// mockUpdater records updated regions and optionally blocks.
type mockUpdater struct {
	mu      sync.Mutex
	regions []int64
	delay   time.Duration
	fail    map[int64]bool

	inFlight, maxInFlight atomic.Int32
}

func (m *mockUpdater) Update(ctx context.Context, regionID int64, typeID *int64) (market.RegionNode, error) {
	current := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)

	// Track max concurrent updates.
	for {
		old := m.maxInFlight.Load()
		if current <= old || m.maxInFlight.CompareAndSwap(old, current) {
			break
		}
	}

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	m.regions = append(m.regions, regionID)
	m.mu.Unlock()

	if m.fail[regionID] {
		return nil, errors.New("esi unavailable")
	}
	return market.RegionNode{}, nil
}

func TestPoller_PollAll(t *testing.T) {
	updater := &mockUpdater{fail: map[int64]bool{10000043: true}}

	var handled atomic.Int32
	handler := UpdateHandlerFunc(func(regionID int64, node market.RegionNode) error {
		handled.Add(1)
		return nil
	})

	cfg := Config{
		Interval:    time.Hour, // Long interval, we'll trigger manually.
		Concurrency: 10,
		Timeout:     5 * time.Second,
	}

	p := New(cfg, updater, StaticRegions{10000002, 10000043, 10000032}, handler, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p.ctx = ctx

	p.pollAll()

	if got := handled.Load(); got != 2 {
		t.Errorf("handled = %d, want 2", got)
	}
	if got := len(updater.regions); got != 3 {
		t.Errorf("updates = %d, want 3", got)
	}

	stats := p.Stats()
	if stats.Cycles != 1 || stats.Updated != 2 || stats.Failed != 1 {
		t.Errorf("Stats() = %+v", stats)
	}
	if stats.LastCycle.IsZero() {
		t.Error("LastCycle not set")
	}
}

func TestPoller_StartStop(t *testing.T) {
	updater := &mockUpdater{}

	var called atomic.Bool
	handler := UpdateHandlerFunc(func(int64, market.RegionNode) error {
		called.Store(true)
		return nil
	})

	cfg := Config{
		Interval:    100 * time.Millisecond,
		Concurrency: 10,
		Timeout:     5 * time.Second,
	}

	p := New(cfg, updater, StaticRegions{10000002}, handler, nil)

	ctx := context.Background()
	if err := p.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Wait for at least one poll.
	time.Sleep(150 * time.Millisecond)

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	if err := p.Stop(stopCtx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if !called.Load() {
		t.Error("handler was never called")
	}
}

func TestPoller_Concurrency(t *testing.T) {
	updater := &mockUpdater{delay: 50 * time.Millisecond}

	var regions StaticRegions
	for i := int64(0); i < 20; i++ {
		regions = append(regions, 10000001+i)
	}

	cfg := Config{
		Interval:    time.Hour,
		Concurrency: 5, // Limit to 5 concurrent.
		Timeout:     5 * time.Second,
	}

	p := New(cfg, updater, regions, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	p.ctx = ctx

	p.pollAll()

	if got := updater.maxInFlight.Load(); got > 5 {
		t.Errorf("maxInFlight = %d, want <= 5", got)
	}
	if got := len(updater.regions); got != 20 {
		t.Errorf("updates = %d, want 20", got)
	}
}

// fetchFunc adapts a function to market.Fetcher.
type fetchFunc func(ctx context.Context, endpoint string, params esi.Params) ([]esi.Record, error)

func (f fetchFunc) FetchRecords(ctx context.Context, endpoint string, params esi.Params) ([]esi.Record, error) {
	return f(ctx, endpoint, params)
}

func TestPoller_WithMarketCache(t *testing.T) {
	fetcher := fetchFunc(func(_ context.Context, _ string, params esi.Params) ([]esi.Record, error) {
		return []esi.Record{{
			"order_id":    int64(1),
			"system_id":   int64(30000142),
			"location_id": int64(60003760),
			"type_id":     int64(34),
			"region_id":   params["region_id"],
		}}, nil
	})
	cache := market.NewCache(fetcher, nil)

	p := New(DefaultConfig(), cache, StaticRegions{10000002}, nil, nil)
	p.ctx = context.Background()
	p.pollAll()

	if got := cache.Lookup(10000002, 30000142, 60003760, 34); len(got) != 1 {
		t.Errorf("len(Lookup) = %d, want 1", len(got))
	}
}
