package static

import "context"

// MemoryStore serves a fixed Universe. It backs offline use and tests.
type MemoryStore struct {
	universe *Universe
}

func NewMemoryStore(u *Universe) *MemoryStore {
	return &MemoryStore{universe: u}
}

func (s *MemoryStore) LookupID(_ context.Context, kind Kind, name string) (int64, error) {
	if _, err := TableFor(kind); err != nil {
		return 0, err
	}

	u := s.universe
	switch kind {
	case KindRegion:
		for id, r := range u.Regions {
			if r.Name == name {
				return id, nil
			}
		}
	case KindSystem:
		for id, sys := range u.Systems {
			if sys.Name == name {
				return id, nil
			}
		}
	case KindStation:
		for id, st := range u.Stations {
			if st.Name == name {
				return id, nil
			}
		}
	case KindItem:
		for id, t := range u.Types {
			if t.Name == name {
				return id, nil
			}
		}
	}
	return 0, &NotFoundError{Kind: kind, Key: name}
}

func (s *MemoryStore) LoadUniverse(context.Context) (*Universe, error) {
	return s.universe, nil
}

func (s *MemoryStore) Schema(context.Context) (map[string][]string, error) {
	schema := make(map[string][]string, len(tables))
	for _, t := range tables {
		schema[t.Name] = []string{t.IDColumn, t.NameColumn}
	}
	return schema, nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }
func (s *MemoryStore) Close() error               { return nil }

// UniverseBuilder assembles a Universe by hand.
type UniverseBuilder struct {
	rs  []regionSystemRow
	sts []stationRow
	tys []typeRow
}

func (b *UniverseBuilder) System(regionID int64, regionName string, systemID int64, systemName string) *UniverseBuilder {
	b.rs = append(b.rs, regionSystemRow{RegionID: regionID, RegionName: regionName, SystemID: systemID, SystemName: systemName})
	return b
}

func (b *UniverseBuilder) Station(regionID, systemID, stationID int64, name string) *UniverseBuilder {
	b.sts = append(b.sts, stationRow{StationID: stationID, StationName: name, SystemID: systemID, RegionID: regionID})
	return b
}

func (b *UniverseBuilder) Type(typeID int64, name string) *UniverseBuilder {
	b.tys = append(b.tys, typeRow{TypeID: typeID, TypeName: name})
	return b
}

func (b *UniverseBuilder) Build() *Universe {
	return newUniverse(b.rs, b.sts, b.tys)
}
