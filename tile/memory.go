package tile

import "sync/atomic"

// MemoryTracker counts bytes currently in flight across concurrent tile
// workers, enforcing a hard limit via a compare-and-swap loop rather than a mutex, so TryAllocate never blocks a worker that
// will end up rejected.
type MemoryTracker struct {
	limit   int64
	current atomic.Int64
	peak    atomic.Int64
}

// NewMemoryTracker constructs a tracker bounded by limit bytes.
func NewMemoryTracker(limit int64) *MemoryTracker {
	return &MemoryTracker{limit: limit}
}

// TryAllocate reserves n bytes if doing so would not exceed the limit,
// reporting success. Updates the peak watermark on success.
func (m *MemoryTracker) TryAllocate(n int64) bool {
	for {
		cur := m.current.Load()
		next := cur + n
		if m.limit > 0 && next > m.limit {
			return false
		}
		if m.current.CompareAndSwap(cur, next) {
			m.bumpPeak(next)
			return true
		}
	}
}

// Release returns n previously allocated bytes to the pool.
func (m *MemoryTracker) Release(n int64) {
	m.current.Add(-n)
}

// Available returns the number of bytes that could still be allocated,
// or a very large number if the tracker is unbounded (limit <= 0).
func (m *MemoryTracker) Available() int64 {
	if m.limit <= 0 {
		return 1<<62 - m.current.Load()
	}
	return m.limit - m.current.Load()
}

// PeakUsage returns the highest cumulative allocation ever observed.
func (m *MemoryTracker) PeakUsage() int64 { return m.peak.Load() }

// Limit returns the configured byte limit (<=0 means unbounded).
func (m *MemoryTracker) Limit() int64 { return m.limit }

func (m *MemoryTracker) bumpPeak(n int64) {
	for {
		p := m.peak.Load()
		if n <= p {
			return
		}
		if m.peak.CompareAndSwap(p, n) {
			return
		}
	}
}
