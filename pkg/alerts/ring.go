package alerts

import (
	"sync"

	"github.com/simshield/simshield-console/pkg/models"
)

// DefaultRingCapacity is the number of alerts kept for display
const DefaultRingCapacity = 50

// RingStore is a bounded, insertion-ordered store of the most recent alerts.
// The newest alert is first; when the store is full the oldest alert is
// evicted. Admitted alerts are never mutated.
type RingStore struct {
	mu       sync.Mutex
	capacity int
	buf      []models.Alert
	head     int // index of the most recent alert, valid when count > 0
	count    int
}

// NewRingStore creates an empty ring store with the given capacity.
// A capacity of zero or less falls back to the default.
func NewRingStore(capacity int) *RingStore {
	if capacity <= 0 {
		capacity = DefaultRingCapacity
	}
	return &RingStore{
		capacity: capacity,
		buf:      make([]models.Alert, capacity),
	}
}

// Push admits an alert at the head, evicting the oldest when over capacity. O(1).
func (r *RingStore) Push(alert models.Alert) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.head = (r.head + r.capacity - 1) % r.capacity
	r.buf[r.head] = alert
	if r.count < r.capacity {
		r.count++
	}
}

// Clear empties the store in a single operation
func (r *RingStore) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf = make([]models.Alert, r.capacity)
	r.head = 0
	r.count = 0
}

// Snapshot returns a copy of the current contents, most recent first
func (r *RingStore) Snapshot() []models.Alert {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Alert, r.count)
	for i := 0; i < r.count; i++ {
		out[i] = r.buf[(r.head+i)%r.capacity]
	}
	return out
}

// Len returns the number of alerts currently held
func (r *RingStore) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}
