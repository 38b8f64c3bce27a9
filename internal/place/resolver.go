package place

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/corriander/eve-telemetrics/internal/market"
	"github.com/corriander/eve-telemetrics/internal/order"
	"github.com/corriander/eve-telemetrics/internal/static"
)

// Market is the part of the market cache entities read and update.
// *market.Cache satisfies it.
type Market interface {
	Update(ctx context.Context, regionID int64, typeID *int64) (market.RegionNode, error)
	Subtree(path ...int64) map[int64][]*order.Snapshot
}

// registry holds the shared instances of one variant.
type registry[E any] struct {
	mu   sync.Mutex
	byID map[int64]E
}

// getOrCreate returns the instance for id, building it with create on
// first use. A failed create leaves no entry.
func (r *registry[E]) getOrCreate(id int64, create func() (E, error)) (E, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.byID[id]; ok {
		return e, nil
	}
	e, err := create()
	if err != nil {
		return e, err
	}
	if r.byID == nil {
		r.byID = make(map[int64]E)
	}
	r.byID[id] = e
	return e, nil
}

func (r *registry[E]) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// Resolver builds and caches entities.
type Resolver struct {
	store    static.Store
	universe *static.Universe
	market   Market
	logger   *slog.Logger

	regions  registry[*Region]
	systems  registry[*System]
	stations registry[*Station]
	items    registry[*Item]
}

// NewResolver creates a resolver over a loaded universe. Names are
// looked up in store.
func NewResolver(store static.Store, universe *static.Universe, m Market, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		store:    store,
		universe: universe,
		market:   m,
		logger:   logger,
	}
}

// Load reads the universe from store and returns a resolver over it.
func Load(ctx context.Context, store static.Store, m Market, logger *slog.Logger) (*Resolver, error) {
	u, err := store.LoadUniverse(ctx)
	if err != nil {
		return nil, fmt.Errorf("load universe: %w", err)
	}
	r := NewResolver(store, u, m, logger)
	r.logger.Info("universe loaded",
		"regions", len(u.Regions),
		"systems", len(u.Systems),
		"stations", len(u.Stations),
		"types", len(u.Types),
	)
	return r, nil
}

// Universe returns the preloaded static data.
func (r *Resolver) Universe() *static.Universe {
	return r.universe
}

func (r *Resolver) resolve(ctx context.Context, kind static.Kind, ident Ident) (int64, error) {
	if !ident.byName {
		return ident.id, nil
	}
	id, err := r.store.LookupID(ctx, kind, ident.name)
	if err != nil {
		return 0, err
	}
	r.logger.Debug("resolved name", "kind", kind, "name", ident.name, "id", id)
	return id, nil
}

// Region returns the shared Region for ident.
func (r *Resolver) Region(ctx context.Context, ident Ident) (*Region, error) {
	id, err := r.resolve(ctx, static.KindRegion, ident)
	if err != nil {
		return nil, err
	}
	return r.regions.getOrCreate(id, func() (*Region, error) {
		meta, err := r.universe.Metadata(static.KindRegion, id)
		if err != nil {
			return nil, err
		}
		return &Region{id: id, name: meta.Name, resolver: r}, nil
	})
}

// System returns the shared System for ident.
func (r *Resolver) System(ctx context.Context, ident Ident) (*System, error) {
	id, err := r.resolve(ctx, static.KindSystem, ident)
	if err != nil {
		return nil, err
	}
	return r.systems.getOrCreate(id, func() (*System, error) {
		meta, err := r.universe.Metadata(static.KindSystem, id)
		if err != nil {
			return nil, err
		}
		return &System{
			regionDescendant: regionDescendant{regionID: meta.RegionID, resolver: r},
			id:               id,
			name:             meta.Name,
		}, nil
	})
}

// Station returns the shared Station for ident.
func (r *Resolver) Station(ctx context.Context, ident Ident) (*Station, error) {
	id, err := r.resolve(ctx, static.KindStation, ident)
	if err != nil {
		return nil, err
	}
	return r.stations.getOrCreate(id, func() (*Station, error) {
		meta, err := r.universe.Metadata(static.KindStation, id)
		if err != nil {
			return nil, err
		}
		return &Station{
			regionDescendant: regionDescendant{regionID: meta.RegionID, resolver: r},
			id:               id,
			name:             meta.Name,
			systemID:         meta.SystemID,
		}, nil
	})
}

// Item returns the shared Item for ident.
func (r *Resolver) Item(ctx context.Context, ident Ident) (*Item, error) {
	id, err := r.resolve(ctx, static.KindItem, ident)
	if err != nil {
		return nil, err
	}
	return r.items.getOrCreate(id, func() (*Item, error) {
		meta, err := r.universe.Metadata(static.KindItem, id)
		if err != nil {
			return nil, err
		}
		item := &Item{id: id, name: meta.Name, resolver: r}
		if t, ok := r.universe.Types[id]; ok {
			item.volume = t.Volume
		}
		return item, nil
	})
}

// StationOf resolves the station an order is placed at.
func (r *Resolver) StationOf(ctx context.Context, o interface{ LocationID() (int64, error) }) (*Station, error) {
	id, err := o.LocationID()
	if err != nil {
		return nil, err
	}
	return r.Station(ctx, ID(id))
}

// ItemOf resolves the item an order trades.
func (r *Resolver) ItemOf(ctx context.Context, o interface{ TypeID() (int64, error) }) (*Item, error) {
	id, err := o.TypeID()
	if err != nil {
		return nil, err
	}
	return r.Item(ctx, ID(id))
}

// CacheSizes reports how many instances each variant holds.
func (r *Resolver) CacheSizes() map[static.Kind]int {
	return map[static.Kind]int{
		static.KindRegion:  r.regions.len(),
		static.KindSystem:  r.systems.len(),
		static.KindStation: r.stations.len(),
		static.KindItem:    r.items.len(),
	}
}
