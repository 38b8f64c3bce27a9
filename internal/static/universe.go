package static

import (
	"context"
	"fmt"
	"sort"
)

// Store is a read-only view of the SDE.
type Store interface {
	// LookupID resolves a name to an id for kind.
	LookupID(ctx context.Context, kind Kind, name string) (int64, error)

	// LoadUniverse reads the region, system, station and type tables.
	LoadUniverse(ctx context.Context) (*Universe, error)

	// Schema maps each table to its column names in ordinal order.
	Schema(ctx context.Context) (map[string][]string, error)

	Ping(ctx context.Context) error
	Close() error
}

// NotFoundError is returned when a name or id does not resolve.
type NotFoundError struct {
	Kind Kind
	Key  any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Kind, e.Key)
}

type RegionMeta struct {
	ID      int64
	Name    string
	Systems map[int64]*SystemMeta
}

type SystemMeta struct {
	ID       int64
	Name     string
	RegionID int64
}

type StationMeta struct {
	ID       int64
	Name     string
	SystemID int64
	RegionID int64
}

type TypeMeta struct {
	ID      int64
	Name    string
	GroupID int64
	Volume  float64
}

// Meta is the kind-independent metadata of one entity. Parent ids are
// zero where they do not apply.
type Meta struct {
	Kind     Kind
	ID       int64
	Name     string
	RegionID int64
	SystemID int64
}

// Universe is the preloaded topology and item catalogue.
type Universe struct {
	Regions  map[int64]*RegionMeta
	Systems  map[int64]*SystemMeta
	Stations map[int64]*StationMeta
	Types    map[int64]*TypeMeta
}

func newUniverse(rs []regionSystemRow, sts []stationRow, tys []typeRow) *Universe {
	u := &Universe{
		Regions:  make(map[int64]*RegionMeta),
		Systems:  make(map[int64]*SystemMeta, len(rs)),
		Stations: make(map[int64]*StationMeta, len(sts)),
		Types:    make(map[int64]*TypeMeta, len(tys)),
	}

	for _, r := range rs {
		region, ok := u.Regions[r.RegionID]
		if !ok {
			region = &RegionMeta{
				ID:      r.RegionID,
				Name:    r.RegionName,
				Systems: make(map[int64]*SystemMeta),
			}
			u.Regions[r.RegionID] = region
		}
		sys := &SystemMeta{ID: r.SystemID, Name: r.SystemName, RegionID: r.RegionID}
		region.Systems[sys.ID] = sys
		u.Systems[sys.ID] = sys
	}

	for _, s := range sts {
		u.Stations[s.StationID] = &StationMeta{
			ID:       s.StationID,
			Name:     s.StationName,
			SystemID: s.SystemID,
			RegionID: s.RegionID,
		}
	}

	for _, t := range tys {
		meta := &TypeMeta{ID: t.TypeID, Name: t.TypeName, GroupID: t.GroupID}
		if t.Volume != nil {
			meta.Volume = *t.Volume
		}
		u.Types[t.TypeID] = meta
	}

	return u
}

// Metadata returns the metadata of one entity.
func (u *Universe) Metadata(kind Kind, id int64) (Meta, error) {
	switch kind {
	case KindRegion:
		if r, ok := u.Regions[id]; ok {
			return Meta{Kind: kind, ID: r.ID, Name: r.Name}, nil
		}
	case KindSystem:
		if s, ok := u.Systems[id]; ok {
			return Meta{Kind: kind, ID: s.ID, Name: s.Name, RegionID: s.RegionID}, nil
		}
	case KindStation:
		if s, ok := u.Stations[id]; ok {
			return Meta{Kind: kind, ID: s.ID, Name: s.Name, RegionID: s.RegionID, SystemID: s.SystemID}, nil
		}
	case KindItem:
		if t, ok := u.Types[id]; ok {
			return Meta{Kind: kind, ID: t.ID, Name: t.Name}, nil
		}
	default:
		return Meta{}, fmt.Errorf("unknown entity kind %q", kind)
	}
	return Meta{}, &NotFoundError{Kind: kind, Key: id}
}

// RegionIDs lists the loaded regions in ascending order.
func (u *Universe) RegionIDs() []int64 {
	ids := make([]int64, 0, len(u.Regions))
	for id := range u.Regions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Tables lists the table names of a schema in ascending order.
func Tables(schema map[string][]string) []string {
	names := make([]string, 0, len(schema))
	for name := range schema {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
