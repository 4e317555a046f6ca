package layout

import (
	"crypto/sha256"
	"sync"

	"github.com/vireo-tui/vireo/store"
	"github.com/vireo-tui/vireo/text"
)

// measureCacheKey is (content_hash, wrap_mode, available_width), exactly the
// key §4.C step 2 names, grounded on the teacher's runtime/layout/cache.go
// sha256-keyed LRU.
type measureCacheKey struct {
	hash  [32]byte
	wrap  store.TextWrapMode
	width int
}

type measureResult struct {
	lines  []string
	width  int
	height int
}

// measureCache memoizes text measurement across layout passes. Once it holds
// capacity entries, each new key evicts the oldest inserted key (FIFO);
// lookups do not refresh an entry's position. This stands in for the
// teacher's LRU-by-timestamp idea without tracking wall-clock time.
type measureCache struct {
	mu       sync.Mutex
	capacity int
	order    []measureCacheKey
	entries  map[measureCacheKey]measureResult
}

func newMeasureCache(capacity int) *measureCache {
	return &measureCache{
		capacity: capacity,
		entries:  make(map[measureCacheKey]measureResult),
	}
}

func contentHash(content string) [32]byte {
	return sha256.Sum256([]byte(content))
}

func (c *measureCache) get(key measureCacheKey) (measureResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.entries[key]
	return r, ok
}

func (c *measureCache) put(key measureCacheKey, r measureResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists {
		if len(c.order) >= c.capacity {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = r
}

// measureText wraps/truncates content for the given available width,
// consulting the cache first.
func (c *measureCache) measureText(content string, wrap store.TextWrapMode, availWidth int) measureResult {
	key := measureCacheKey{hash: contentHash(content), wrap: wrap, width: availWidth}
	if r, ok := c.get(key); ok {
		return r
	}
	var lines []string
	switch wrap {
	case store.TextWrapWord:
		lines = text.Wrap(content, availWidth, text.WrapWord)
	case store.TextWrapTruncate:
		lines = []string{text.Truncate(content, availWidth, "…")}
	default:
		lines = text.Wrap(content, availWidth, text.WrapNone)
	}
	maxW := 0
	for _, l := range lines {
		if w := text.Width(l); w > maxW {
			maxW = w
		}
	}
	r := measureResult{lines: lines, width: maxW, height: len(lines)}
	c.put(key, r)
	return r
}
