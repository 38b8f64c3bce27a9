package market

import (
	"sort"
	"sync"

	"github.com/corriander/eve-telemetrics/internal/order"
)

// Key addresses one order list.
type Key struct {
	Region  int64
	System  int64
	Station int64
	Type    int64
}

// cacheState holds the thread-safe order lists. Lists are never
// mutated after they are stored; updates replace them wholesale.
type cacheState struct {
	mu sync.RWMutex

	lists map[Key][]*order.Snapshot

	// Keys present per region.
	byRegion map[int64]map[Key]struct{}

	// Last successful update per region.
	updates map[int64]UpdateInfo
}

func newState() *cacheState {
	return &cacheState{
		lists:    make(map[Key][]*order.Snapshot),
		byRegion: make(map[int64]map[Key]struct{}),
		updates:  make(map[int64]UpdateInfo),
	}
}

// replace swaps in batch for every type in types within region
// (write-locked).
func (s *cacheState) replace(region int64, types map[int64]struct{}, batch map[Key][]*order.Snapshot, info UpdateInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.byRegion[region]
	if index == nil {
		index = make(map[Key]struct{})
		s.byRegion[region] = index
	}

	for k := range index {
		if _, ok := types[k.Type]; ok {
			delete(s.lists, k)
			delete(index, k)
		}
	}
	for k, list := range batch {
		s.lists[k] = list
		index[k] = struct{}{}
	}
	s.updates[region] = info
}

// lookup returns a copy of one list (read-locked).
func (s *cacheState) lookup(k Key) []*order.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]*order.Snapshot(nil), s.lists[k]...)
}

// collect returns the keys below a path prefix in (system, station,
// type) order (read-locked). The caller gets copies of the lists.
func (s *cacheState) collect(path []int64) ([]Key, map[Key][]*order.Snapshot) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var candidates map[Key]struct{}
	if len(path) > 0 {
		candidates = s.byRegion[path[0]]
	} else {
		candidates = make(map[Key]struct{}, len(s.lists))
		for k := range s.lists {
			candidates[k] = struct{}{}
		}
	}

	keys := make([]Key, 0, len(candidates))
	lists := make(map[Key][]*order.Snapshot, len(candidates))
	for k := range candidates {
		if !k.under(path) {
			continue
		}
		keys = append(keys, k)
		lists[k] = append([]*order.Snapshot(nil), s.lists[k]...)
	}
	sortKeys(keys)
	return keys, lists
}

func (s *cacheState) lastUpdate(region int64) (UpdateInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.updates[region]
	return info, ok
}

func (s *cacheState) regions() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]int64, 0, len(s.byRegion))
	for r, index := range s.byRegion {
		if len(index) > 0 {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s *cacheState) stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{Lists: len(s.lists)}
	for _, index := range s.byRegion {
		if len(index) > 0 {
			st.Regions++
		}
	}
	for _, list := range s.lists {
		st.Orders += len(list)
	}
	return st
}

// under reports whether k lies beneath path (region, system, station,
// type; a shorter path matches more).
func (k Key) under(path []int64) bool {
	parts := [4]int64{k.Region, k.System, k.Station, k.Type}
	for i, p := range path {
		if i >= len(parts) || parts[i] != p {
			return false
		}
	}
	return true
}

func sortKeys(keys []Key) {
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		if a.System != b.System {
			return a.System < b.System
		}
		if a.Station != b.Station {
			return a.Station < b.Station
		}
		return a.Type < b.Type
	})
}

func sortedIDs[V any](m map[int64]V) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
