package order

import (
	"fmt"
	"sort"
	"time"
)

// Versioned is the observed history of one order, keyed by
// observation time. The latest snapshot is the one with the greatest
// key.
type Versioned struct {
	snapshots map[string]*Snapshot
	orderID   int64
	hasID     bool
}

// NewVersioned returns an empty history.
func NewVersioned() *Versioned {
	return &Versioned{snapshots: make(map[string]*Snapshot)}
}

// FromSnapshots builds a history from snapshots sharing one order id.
// Nothing is built when the ids differ.
func FromSnapshots(snaps ...*Snapshot) (*Versioned, error) {
	v := NewVersioned()
	if len(snaps) == 0 {
		return v, nil
	}

	ids := make([]int64, len(snaps))
	for i, s := range snaps {
		id, err := s.OrderID()
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	for _, id := range ids[1:] {
		if id != ids[0] {
			return nil, &AssertionError{
				Reason: fmt.Sprintf("snapshots span order ids %d and %d", ids[0], id),
			}
		}
	}

	for _, s := range snaps {
		v.snapshots[s.Key()] = s
	}
	v.orderID = ids[0]
	v.hasID = true
	return v, nil
}

// Add records obj in the history.
//
// A *Snapshot keeps its own timestamp; t may be nil or must equal it.
// Any other Source needs an explicit t. The order id must match the
// history's. A snapshot at an existing timestamp replaces the old one.
// On error the history is unchanged.
func (v *Versioned) Add(obj Source, t *time.Time) error {
	var snap *Snapshot

	switch s := obj.(type) {
	case *Snapshot:
		if t != nil && !t.Equal(s.T()) {
			return &ValidationError{
				Reason: fmt.Sprintf("timestamp %s does not match snapshot timestamp %s", TimeKey(*t), s.Key()),
			}
		}
		snap = s
	default:
		if t == nil {
			return &MissingFieldError{Field: "t"}
		}
		snap = NewSnapshot(obj, *t)
	}

	id, err := snap.OrderID()
	if err != nil {
		return err
	}
	if v.hasID && id != v.orderID {
		return &ValidationError{
			Reason: fmt.Sprintf("order id %d does not match %d", id, v.orderID),
		}
	}

	if v.snapshots == nil {
		v.snapshots = make(map[string]*Snapshot)
	}
	v.snapshots[snap.Key()] = snap
	v.orderID = id
	v.hasID = true
	return nil
}

// OrderID returns the shared order id, if any snapshot is held.
func (v *Versioned) OrderID() (int64, bool) {
	return v.orderID, v.hasID
}

func (v *Versioned) Len() int {
	return len(v.snapshots)
}

// Keys returns the snapshot keys in chronological order.
func (v *Versioned) Keys() []string {
	keys := make([]string, 0, len(v.snapshots))
	for k := range v.snapshots {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshots returns the history in chronological order.
func (v *Versioned) Snapshots() []*Snapshot {
	keys := v.Keys()
	out := make([]*Snapshot, len(keys))
	for i, k := range keys {
		out[i] = v.snapshots[k]
	}
	return out
}

// At returns the snapshot observed at t.
func (v *Versioned) At(t time.Time) (*Snapshot, bool) {
	s, ok := v.snapshots[TimeKey(t)]
	return s, ok
}

// Latest returns the most recent snapshot, or nil.
func (v *Versioned) Latest() *Snapshot {
	var (
		latestKey string
		latest    *Snapshot
	)
	for k, s := range v.snapshots {
		if latest == nil || k > latestKey {
			latestKey, latest = k, s
		}
	}
	return latest
}

// Data is the data of the latest snapshot.
func (v *Versioned) Data() Data {
	if s := v.Latest(); s != nil {
		return s.Data
	}
	return nil
}

// T is the timestamp of the latest snapshot.
func (v *Versioned) T() time.Time {
	if s := v.Latest(); s != nil {
		return s.T()
	}
	return time.Time{}
}
