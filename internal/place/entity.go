package place

import (
	"context"
	"sort"

	"github.com/corriander/eve-telemetrics/internal/market"
	"github.com/corriander/eve-telemetrics/internal/order"
	"github.com/corriander/eve-telemetrics/internal/static"
)

// Orders maps type id to order snapshots.
type Orders = map[int64][]*order.Snapshot

// Entity is the behaviour shared by every variant.
type Entity interface {
	Kind() static.Kind
	ID() int64
	Name() string
}

// Region is the unit of market updates.
type Region struct {
	id       int64
	name     string
	resolver *Resolver
}

func (g *Region) Kind() static.Kind { return static.KindRegion }
func (g *Region) ID() int64         { return g.id }
func (g *Region) Name() string      { return g.name }

// Path is the region's market cache address.
func (g *Region) Path() []int64 { return []int64{g.id} }

// UpdateMarket refreshes the region's orders, optionally for one type.
func (g *Region) UpdateMarket(ctx context.Context, typeID *int64) (market.RegionNode, error) {
	return g.resolver.market.Update(ctx, g.id, typeID)
}

// Orders flattens every order in the region by type.
func (g *Region) Orders() Orders { return g.resolver.market.Subtree(g.Path()...) }

func (g *Region) BuyOrders() Orders  { return buyOrders(g.Orders()) }
func (g *Region) SellOrders() Orders { return sellOrders(g.Orders()) }

// Systems returns the region's solar systems in id order.
func (g *Region) Systems(ctx context.Context) ([]*System, error) {
	meta, ok := g.resolver.universe.Regions[g.id]
	if !ok {
		return nil, nil
	}
	ids := make([]int64, 0, len(meta.Systems))
	for id := range meta.Systems {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	systems := make([]*System, 0, len(ids))
	for _, id := range ids {
		s, err := g.resolver.System(ctx, ID(id))
		if err != nil {
			return nil, err
		}
		systems = append(systems, s)
	}
	return systems, nil
}

// regionDescendant links a system or station to its region.
type regionDescendant struct {
	regionID int64
	resolver *Resolver
}

func (d regionDescendant) RegionID() int64 { return d.regionID }

// Region returns the parent region.
func (d regionDescendant) Region(ctx context.Context) (*Region, error) {
	return d.resolver.Region(ctx, ID(d.regionID))
}

// UpdateMarket updates the whole parent region.
func (d regionDescendant) UpdateMarket(ctx context.Context, typeID *int64) (market.RegionNode, error) {
	region, err := d.Region(ctx)
	if err != nil {
		return nil, err
	}
	return region.UpdateMarket(ctx, typeID)
}

type System struct {
	regionDescendant
	id   int64
	name string
}

func (s *System) Kind() static.Kind { return static.KindSystem }
func (s *System) ID() int64         { return s.id }
func (s *System) Name() string      { return s.name }
func (s *System) Path() []int64     { return []int64{s.regionID, s.id} }

// Orders merges the orders of every station in the system by type.
func (s *System) Orders() Orders     { return s.resolver.market.Subtree(s.Path()...) }
func (s *System) BuyOrders() Orders  { return buyOrders(s.Orders()) }
func (s *System) SellOrders() Orders { return sellOrders(s.Orders()) }

type Station struct {
	regionDescendant
	id       int64
	name     string
	systemID int64
}

func (s *Station) Kind() static.Kind { return static.KindStation }
func (s *Station) ID() int64         { return s.id }
func (s *Station) Name() string      { return s.name }
func (s *Station) SystemID() int64   { return s.systemID }
func (s *Station) Path() []int64     { return []int64{s.regionID, s.systemID, s.id} }

// System returns the station's solar system.
func (s *Station) System(ctx context.Context) (*System, error) {
	return s.resolver.System(ctx, ID(s.systemID))
}

func (s *Station) Orders() Orders     { return s.resolver.market.Subtree(s.Path()...) }
func (s *Station) BuyOrders() Orders  { return buyOrders(s.Orders()) }
func (s *Station) SellOrders() Orders { return sellOrders(s.Orders()) }

// Item is a tradeable inventory type.
type Item struct {
	id       int64
	name     string
	volume   float64
	resolver *Resolver
}

func (i *Item) Kind() static.Kind { return static.KindItem }
func (i *Item) ID() int64         { return i.id }
func (i *Item) Name() string      { return i.name }

// Volume is the packaged volume in m3.
func (i *Item) Volume() float64 { return i.volume }

// Orders returns the item's cached orders in a region.
func (i *Item) Orders(regionID int64) []*order.Snapshot {
	return i.resolver.market.Subtree(regionID)[i.id]
}

func (i *Item) BuyOrders(regionID int64) []*order.Snapshot {
	buy, _ := order.Split(i.Orders(regionID))
	return buy
}

func (i *Item) SellOrders(regionID int64) []*order.Snapshot {
	_, sell := order.Split(i.Orders(regionID))
	return sell
}

// UpdateMarket refreshes this item's orders in a region.
func (i *Item) UpdateMarket(ctx context.Context, regionID int64) ([]*order.Snapshot, error) {
	typeID := i.id
	node, err := i.resolver.market.Update(ctx, regionID, &typeID)
	if err != nil {
		return nil, err
	}
	return node.Orders()[i.id], nil
}

func buyOrders(all Orders) Orders {
	out := make(Orders)
	for typ, list := range all {
		if buy, _ := order.Split(list); len(buy) > 0 {
			out[typ] = buy
		}
	}
	return out
}

func sellOrders(all Orders) Orders {
	out := make(Orders)
	for typ, list := range all {
		if _, sell := order.Split(list); len(sell) > 0 {
			out[typ] = sell
		}
	}
	return out
}
