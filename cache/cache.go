package cache

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ambarahq/ambara/value"
)

// DefaultTTL is the default entry lifetime before a probe treats an entry
// as a miss and removes it.
const DefaultTTL = time.Hour

// Entry is one cached node result.
type Entry struct {
	Outputs             map[string]value.Value
	CreatedAt           time.Time
	ComputationTime     time.Duration
	ApproximateByteSize int64
}

// Stats summarizes the cache's lifetime activity.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	TimeSaved time.Duration
}

// Cache is the engine's per-instance result cache: an LRU bounded by
// both entry count and a byte budget, with TTL-based expiry. The
// entry-count eviction order comes from github.com/hashicorp/golang-lru/v2;
// the byte budget and TTL are this package's own responsibility, since no
// pack dependency combines count+byte+TTL eviction natively.
type Cache struct {
	mu sync.Mutex

	lru      *lru.Cache[Key, *Entry]
	maxBytes int64
	curBytes int64
	ttl      time.Duration

	nodeIndex map[string]map[Key]struct{}

	stats Stats
}

// New constructs a Cache bounded by maxEntries and maxBytes, with the
// given TTL (DefaultTTL if ttl <= 0).
func New(maxEntries int, maxBytes int64, ttl time.Duration) (*Cache, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		maxBytes:  maxBytes,
		ttl:       ttl,
		nodeIndex: make(map[string]map[Key]struct{}),
	}
	l, err := lru.NewWithEvict[Key, *Entry](maxEntries, c.onEvict)
	if err != nil {
		return nil, err
	}
	c.lru = l
	return c, nil
}

// onEvict is the golang-lru eviction callback: maintains the byte budget
// counter and the node index, and counts the eviction. Called with c.mu
// already held by the triggering operation.
func (c *Cache) onEvict(key Key, entry *Entry) {
	c.curBytes -= entry.ApproximateByteSize
	if set, ok := c.nodeIndex[key.NodeID]; ok {
		delete(set, key)
		if len(set) == 0 {
			delete(c.nodeIndex, key.NodeID)
		}
	}
	c.stats.Evictions++
}

// Get probes the cache: on hit, bumps hits and returns a clone of the
// cached outputs; on absence or TTL expiry, bumps misses.
func (c *Cache) Get(key Key) (map[string]value.Value, bool) {
	outputs, _, ok := c.get(key)
	return outputs, ok
}

// GetWithComputationTime behaves like Get, additionally returning the
// hit entry's recorded computation time. A caller running many Execute
// calls against one shared Cache needs this to attribute time saved to
// its own run, since the cache's lifetime Stats() accumulates across
// every call that shares it.
func (c *Cache) GetWithComputationTime(key Key) (map[string]value.Value, time.Duration, bool) {
	return c.get(key)
}

func (c *Cache) get(key Key) (map[string]value.Value, time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.lru.Get(key)
	if !ok {
		c.stats.Misses++
		return nil, 0, false
	}
	if time.Since(entry.CreatedAt) > c.ttl {
		c.lru.Remove(key) // triggers onEvict, which decrements curBytes/index
		c.stats.Misses++
		return nil, 0, false
	}

	c.stats.Hits++
	c.stats.TimeSaved += entry.ComputationTime
	return cloneOutputs(entry.Outputs), entry.ComputationTime, true
}

// Put records a node's outputs under key, evicting LRU entries until the
// byte budget is satisfied.
func (c *Cache) Put(key Key, outputs map[string]value.Value, computationTime time.Duration) {
	size := approximateByteSize(outputs)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry := &Entry{
		Outputs:             cloneOutputs(outputs),
		CreatedAt:           time.Now(),
		ComputationTime:     computationTime,
		ApproximateByteSize: size,
	}

	if old, ok := c.lru.Peek(key); ok {
		c.curBytes -= old.ApproximateByteSize
	}
	c.lru.Add(key, entry) // may trigger onEvict for count overflow
	c.curBytes += size

	set, ok := c.nodeIndex[key.NodeID]
	if !ok {
		set = make(map[Key]struct{})
		c.nodeIndex[key.NodeID] = set
	}
	set[key] = struct{}{}

	for c.maxBytes > 0 && c.curBytes > c.maxBytes && c.lru.Len() > 0 {
		if _, _, ok := c.lru.RemoveOldest(); !ok {
			break
		}
	}
}

// Invalidate drops a single key.
func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Remove(key)
}

// InvalidateNode drops every cached key belonging to nodeID.
func (c *Cache) InvalidateNode(nodeID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	set, ok := c.nodeIndex[nodeID]
	if !ok {
		return
	}
	keys := make([]Key, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	for _, k := range keys {
		c.lru.Remove(k)
	}
}

// Clear empties the cache entirely.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
	c.curBytes = 0
	c.nodeIndex = make(map[string]map[Key]struct{})
}

// Stats returns a snapshot of lifetime cache activity.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// MemoryUsage returns the current tracked byte usage.
func (c *Cache) MemoryUsage() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.curBytes
}

func cloneOutputs(in map[string]value.Value) map[string]value.Value {
	out := make(map[string]value.Value, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func approximateByteSize(outputs map[string]value.Value) int64 {
	var total int64
	for name, v := range outputs {
		total += int64(len(name))
		total += value.ApproximateByteSize(v)
	}
	return total
}
