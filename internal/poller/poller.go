package poller

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/corriander/eve-telemetrics/internal/market"
)

// RegionSource provides the regions to refresh.
type RegionSource interface {
	Regions() []int64
}

// StaticRegions is a fixed RegionSource.
type StaticRegions []int64

func (s StaticRegions) Regions() []int64 { return s }

// Updater refreshes one region. *market.Cache satisfies it.
type Updater interface {
	Update(ctx context.Context, regionID int64, typeID *int64) (market.RegionNode, error)
}

// UpdateHandler receives refreshed regions.
type UpdateHandler interface {
	HandleUpdate(regionID int64, node market.RegionNode) error
}

// UpdateHandlerFunc is a function adapter for UpdateHandler.
type UpdateHandlerFunc func(int64, market.RegionNode) error

func (f UpdateHandlerFunc) HandleUpdate(regionID int64, node market.RegionNode) error {
	return f(regionID, node)
}

// Config holds poller configuration.
type Config struct {
	Interval    time.Duration // Refresh interval (default: 5m, the ESI cache time)
	Concurrency int           // Max concurrent region updates (default: 4)
	Timeout     time.Duration // Per-region timeout (default: 2m)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:    5 * time.Minute,
		Concurrency: 4,
		Timeout:     2 * time.Minute,
	}
}

// Stats counts refresh outcomes since start.
type Stats struct {
	Cycles    int64
	Updated   int64
	Failed    int64
	LastCycle time.Time
}

// Poller periodically refreshes regions of the market cache.
type Poller struct {
	cfg     Config
	updater Updater
	regions RegionSource
	handler UpdateHandler
	logger  *slog.Logger

	cycles, updated, failed atomic.Int64
	lastCycle               atomic.Int64 // unix nanos

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Poller.
func New(cfg Config, updater Updater, regions RegionSource, handler UpdateHandler, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		cfg:     cfg,
		updater: updater,
		regions: regions,
		handler: handler,
		logger:  logger,
	}
}

// Start begins the polling loop.
func (p *Poller) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	p.logger.Info("market poller started",
		"interval", p.cfg.Interval,
		"concurrency", p.cfg.Concurrency,
		"regions", len(p.regions.Regions()),
	)

	return nil
}

// Stop gracefully shuts down the poller.
func (p *Poller) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("market poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns refresh counters.
func (p *Poller) Stats() Stats {
	s := Stats{
		Cycles:  p.cycles.Load(),
		Updated: p.updated.Load(),
		Failed:  p.failed.Load(),
	}
	if ns := p.lastCycle.Load(); ns != 0 {
		s.LastCycle = time.Unix(0, ns).UTC()
	}
	return s
}

// run is the main polling loop.
func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	// Poll immediately on start.
	p.pollAll()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.pollAll()
		}
	}
}

// pollAll refreshes every region concurrently.
func (p *Poller) pollAll() {
	start := time.Now()

	regions := p.regions.Regions()
	if len(regions) == 0 {
		p.logger.Debug("no regions to poll")
		return
	}

	// Semaphore for bounded concurrency.
	sem := make(chan struct{}, p.cfg.Concurrency)
	var wg sync.WaitGroup
	var updated, errors atomic.Int64

	for _, region := range regions {
		wg.Add(1)
		go func(regionID int64) {
			defer wg.Done()

			// Acquire semaphore slot.
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-p.ctx.Done():
				return
			}

			if err := p.pollRegion(regionID); err != nil {
				p.logger.Warn("failed to update region",
					"region_id", regionID,
					"err", err,
				)
				errors.Add(1)
				return
			}

			updated.Add(1)
		}(region)
	}

	wg.Wait()

	p.cycles.Add(1)
	p.updated.Add(updated.Load())
	p.failed.Add(errors.Load())
	p.lastCycle.Store(time.Now().UnixNano())

	p.logger.Info("poll cycle complete",
		"regions", len(regions),
		"updated", updated.Load(),
		"errors", errors.Load(),
		"duration", time.Since(start),
	)
}

// pollRegion updates and hands off a single region.
func (p *Poller) pollRegion(regionID int64) error {
	ctx, cancel := context.WithTimeout(p.ctx, p.cfg.Timeout)
	defer cancel()

	node, err := p.updater.Update(ctx, regionID, nil)
	if err != nil {
		return err
	}

	if p.handler != nil {
		if err := p.handler.HandleUpdate(regionID, node); err != nil {
			return err
		}
	}

	return nil
}
