package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/corriander/eve-telemetrics/internal/market"
	"github.com/corriander/eve-telemetrics/internal/order"
	"github.com/corriander/eve-telemetrics/internal/place"
	"github.com/corriander/eve-telemetrics/internal/poller"
)

func runServe(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("serve", a.out)
	port := fs.Int("port", a.cfg.Server.Port, "health server port")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	resolver, cache, err := a.resolver(ctx)
	if err != nil {
		return err
	}

	regions := a.cfg.Poller.Regions
	for _, id := range regions {
		region, err := resolver.Region(ctx, place.ID(id))
		if err != nil {
			return fmt.Errorf("poller region %d: %w", id, err)
		}
		a.logger.Info("polling region", "region_id", region.ID(), "name", region.Name())
	}

	p := poller.New(poller.Config{
		Interval:    a.cfg.Poller.Interval,
		Concurrency: a.cfg.Poller.Concurrency,
		Timeout:     a.cfg.Poller.Timeout,
	}, cache, poller.StaticRegions(regions), nil, a.logger)

	// Start health server early so we can monitor the first refresh
	healthServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", *port),
		Handler: createHealthHandler(store, cache, p, a.logger),
	}
	go func() {
		a.logger.Info("starting health server", "port", *port)
		if err := healthServer.ListenAndServe(); err != http.ErrServerClosed {
			a.logger.Error("health server error", "error", err)
		}
	}()

	if err := p.Start(ctx); err != nil {
		return fmt.Errorf("start poller: %w", err)
	}

	a.logger.Info("serving",
		"regions", len(regions),
		"health_url", fmt.Sprintf("http://localhost:%d/health", *port),
	)

	// Wait for shutdown
	<-ctx.Done()

	a.logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := p.Stop(shutdownCtx); err != nil {
		a.logger.Warn("poller did not stop cleanly", "error", err)
	}
	healthServer.Shutdown(shutdownCtx)

	a.logger.Info("stopped")
	return nil
}

type pinger interface {
	Ping(ctx context.Context) error
}

// createHealthHandler creates the HTTP handler for health checks.
func createHealthHandler(store pinger, cache *market.Cache, p *poller.Poller, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := struct {
			Status     string         `json:"status"`
			Components map[string]any `json:"components"`
		}{
			Status:     "healthy",
			Components: make(map[string]any),
		}

		// Check static data
		if err := store.Ping(ctx); err != nil {
			health.Status = "unhealthy"
			health.Components["static"] = map[string]string{
				"status": "disconnected",
				"error":  err.Error(),
			}
		} else {
			health.Components["static"] = "connected"
		}

		// Check market cache
		stats := cache.Stats()
		health.Components["market_cache"] = map[string]any{
			"regions": stats.Regions,
			"lists":   stats.Lists,
			"orders":  stats.Orders,
		}
		if stats.Regions == 0 && health.Status == "healthy" {
			health.Status = "degraded"
		}

		if p != nil {
			ps := p.Stats()
			health.Components["poller"] = map[string]any{
				"cycles":     ps.Cycles,
				"updated":    ps.Updated,
				"failed":     ps.Failed,
				"last_cycle": ps.LastCycle,
			}
		}

		// Set response
		w.Header().Set("Content-Type", "application/json")
		if health.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		if err := json.NewEncoder(w).Encode(health); err != nil {
			logger.Warn("failed to write health response", "error", err)
		}
	})

	mux.HandleFunc("/debug/regions", func(w http.ResponseWriter, r *http.Request) {
		updates := make([]market.UpdateInfo, 0)
		for _, id := range cache.Regions() {
			if info, ok := cache.LastUpdate(id); ok {
				updates = append(updates, info)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"count":   len(updates),
			"regions": updates,
		})
	})

	mux.HandleFunc("/debug/orders", func(w http.ResponseWriter, r *http.Request) {
		region, err1 := strconv.ParseInt(r.URL.Query().Get("region"), 10, 64)
		typeID, err2 := strconv.ParseInt(r.URL.Query().Get("type"), 10, 64)
		if err1 != nil || err2 != nil {
			http.Error(w, "region and type must be integers", http.StatusBadRequest)
			return
		}

		orders := cache.Subtree(region)[typeID]
		total := len(orders)

		// Limit to first 100 for debugging
		limit := 100
		if len(orders) > limit {
			orders = orders[:limit]
		}
		data := make([]order.Data, len(orders))
		for i, o := range orders {
			data[i] = o.Data
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"count":   total,
			"showing": len(data),
			"orders":  data,
		})
	})

	return mux
}
