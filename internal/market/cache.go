package market

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/corriander/eve-telemetrics/internal/esi"
	"github.com/corriander/eve-telemetrics/internal/order"
)

// Fetcher retrieves list endpoints. *esi.Client satisfies it.
type Fetcher interface {
	FetchRecords(ctx context.Context, endpoint string, params esi.Params) ([]esi.Record, error)
}

// Nested views of the cache.
type (
	RegionNode  map[int64]SystemNode
	SystemNode  map[int64]StationNode
	StationNode map[int64][]*order.Snapshot
)

// UpdateInfo describes the last update of a region.
type UpdateInfo struct {
	BatchID   uuid.UUID
	RegionID  int64
	TypeID    *int64
	FetchedAt time.Time
	Orders    int
	Types     int
}

// Stats summarises cache contents.
type Stats struct {
	Regions int
	Lists   int
	Orders  int
}

// Cache is the market snapshot cache. It is safe for concurrent use.
type Cache struct {
	fetcher Fetcher
	logger  *slog.Logger
	now     func() time.Time

	state *cacheState
}

// NewCache creates an empty cache filled through fetcher.
func NewCache(fetcher Fetcher, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
		state:   newState(),
	}
}

// Update fetches the region's orders, optionally for one type only,
// and replaces every type seen in the result. A type-scoped update
// replaces that type even when nothing comes back. The region subtree
// is returned.
//
// Nothing changes when the fetch fails or a record cannot be placed.
func (c *Cache) Update(ctx context.Context, regionID int64, typeID *int64) (RegionNode, error) {
	params := esi.Params{"region_id": regionID}
	if typeID != nil {
		params["type_id"] = *typeID
	}

	records, err := c.fetcher.FetchRecords(ctx, esi.EndpointMarketOrders, params)
	if err != nil {
		return nil, fmt.Errorf("fetch region %d orders: %w", regionID, err)
	}
	fetchedAt := c.now().UTC()

	seen := make(map[int64]struct{})
	if typeID != nil {
		seen[*typeID] = struct{}{}
	}
	batch := make(map[Key][]*order.Snapshot)
	for i, rec := range records {
		snap := order.NewSnapshot(order.Data(rec), fetchedAt)
		key, err := keyOf(regionID, snap)
		if err != nil {
			return nil, fmt.Errorf("region %d record %d: %w", regionID, i, err)
		}
		seen[key.Type] = struct{}{}
		batch[key] = append(batch[key], snap)
	}

	info := UpdateInfo{
		BatchID:   uuid.New(),
		RegionID:  regionID,
		TypeID:    typeID,
		FetchedAt: fetchedAt,
		Orders:    len(records),
		Types:     len(seen),
	}
	c.state.replace(regionID, seen, batch, info)

	c.logger.Info("market updated",
		"batch_id", info.BatchID,
		"region_id", regionID,
		"orders", info.Orders,
		"types", info.Types,
	)

	return c.Region(regionID), nil
}

func keyOf(regionID int64, snap *order.Snapshot) (Key, error) {
	system, err := snap.SystemID()
	if err != nil {
		return Key{}, err
	}
	station, err := snap.LocationID()
	if err != nil {
		return Key{}, err
	}
	typ, err := snap.TypeID()
	if err != nil {
		return Key{}, err
	}
	return Key{Region: regionID, System: system, Station: station, Type: typ}, nil
}

// Lookup returns the orders for one type at one station.
func (c *Cache) Lookup(region, system, station, typeID int64) []*order.Snapshot {
	return c.state.lookup(Key{Region: region, System: system, Station: station, Type: typeID})
}

// Region returns the region subtree. An unknown region yields an
// empty node.
func (c *Cache) Region(regionID int64) RegionNode {
	keys, lists := c.state.collect([]int64{regionID})

	node := make(RegionNode)
	for _, k := range keys {
		sys := node[k.System]
		if sys == nil {
			sys = make(SystemNode)
			node[k.System] = sys
		}
		st := sys[k.Station]
		if st == nil {
			st = make(StationNode)
			sys[k.Station] = st
		}
		st[k.Type] = lists[k]
	}
	return node
}

// Subtree flattens everything beneath path (region, system, station)
// into type → orders. Lists from different stations are concatenated
// in ascending system then station order.
func (c *Cache) Subtree(path ...int64) map[int64][]*order.Snapshot {
	keys, lists := c.state.collect(path)

	out := make(map[int64][]*order.Snapshot)
	for _, k := range keys {
		out[k.Type] = append(out[k.Type], lists[k]...)
	}
	return out
}

// Regions lists the regions holding data.
func (c *Cache) Regions() []int64 {
	return c.state.regions()
}

// LastUpdate returns details of the region's last update.
func (c *Cache) LastUpdate(regionID int64) (UpdateInfo, bool) {
	return c.state.lastUpdate(regionID)
}

// Stats summarises the cache.
func (c *Cache) Stats() Stats {
	return c.state.stats()
}

// Orders flattens a region node into type → orders.
func (n RegionNode) Orders() map[int64][]*order.Snapshot {
	out := make(map[int64][]*order.Snapshot)
	for _, sys := range sortedIDs(n) {
		for typ, list := range n[sys].Orders() {
			out[typ] = append(out[typ], list...)
		}
	}
	return out
}

// Orders flattens a system node into type → orders.
func (n SystemNode) Orders() map[int64][]*order.Snapshot {
	out := make(map[int64][]*order.Snapshot)
	for _, st := range sortedIDs(n) {
		for typ, list := range n[st] {
			out[typ] = append(out[typ], list...)
		}
	}
	return out
}
