package character

import (
	"fmt"
	"sort"
	"sync"

	"github.com/corriander/eve-telemetrics/internal/order"
)

// Tracker folds repeated observations of the character's orders into
// per-order histories.
type Tracker struct {
	mu     sync.Mutex
	orders map[int64]*order.Versioned
}

func NewTracker() *Tracker {
	return &Tracker{orders: make(map[int64]*order.Versioned)}
}

// Observe adds snapshots to their orders' histories. A snapshot without
// an order id is rejected before anything is recorded.
func (t *Tracker) Observe(snaps []*order.Snapshot) error {
	ids := make([]int64, len(snaps))
	for i, s := range snaps {
		id, err := s.OrderID()
		if err != nil {
			return fmt.Errorf("snapshot %d: %w", i, err)
		}
		ids[i] = id
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for i, s := range snaps {
		v := t.orders[ids[i]]
		if v == nil {
			v = order.NewVersioned()
			t.orders[ids[i]] = v
		}
		if err := v.Add(s, nil); err != nil {
			return fmt.Errorf("order %d: %w", ids[i], err)
		}
	}
	return nil
}

// Order returns the history of one order.
func (t *Tracker) Order(id int64) (*order.Versioned, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.orders[id]
	return v, ok
}

// OrderIDs lists tracked orders in ascending order.
func (t *Tracker) OrderIDs() []int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids := make([]int64, 0, len(t.orders))
	for id := range t.orders {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
