package order

import "time"

// Snapshot is an order as it was observed at time T.
type Snapshot struct {
	*Simple
	t time.Time
}

// NewSnapshot captures src at t. When src is itself a Snapshot only
// its data is taken; its timestamp is not.
func NewSnapshot(src Source, t time.Time) *Snapshot {
	return &Snapshot{
		Simple: New(src.orderData()),
		t:      t,
	}
}

// T is the observation time.
func (s *Snapshot) T() time.Time {
	return s.t
}

// Key is the snapshot's position within a Versioned order.
func (s *Snapshot) Key() string {
	return TimeKey(s.t)
}
