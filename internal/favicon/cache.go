package favicon

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/bnema/nexus/internal/domain/entity"
	"github.com/bnema/nexus/internal/logging"
	"github.com/bnema/nexus/internal/storage"
)

// retainRatio is the share of entries kept (newest first) when the
// persisted aggregate itself hits the storage quota. Cache entries are
// disposable, so the recovery policy is coarser than the one-at-a-time
// stripping used for shortcut icons.
const retainRatio = 0.8

// memCleanupInterval drives the memory tier's janitor.
const memCleanupInterval = 10 * time.Minute

// Cache is the persistent domain -> icon cache. The whole aggregate is
// serialized as one JSON blob under entity.IconCacheKey; a memory tier
// in front avoids re-reading the blob on every lookup.
//
// The backend is single-writer. All aggregate read-modify-write
// sequences go through writeMu, and concurrent aggregate loads collapse
// through a singleflight group.
type Cache struct {
	backend storage.Backend
	mem     *gocache.Cache
	loads   singleflight.Group
	writeMu sync.Mutex
	now     func() time.Time
}

// NewCache creates an icon cache over the given backend.
func NewCache(backend storage.Backend) *Cache {
	return &Cache{
		backend: backend,
		mem:     gocache.New(entity.IconCacheMaxAge, memCleanupInterval),
		now:     time.Now,
	}
}

// Stats summarizes the persisted aggregate.
type Stats struct {
	TotalEntries        int
	OldestTimestamp     int64
	NewestTimestamp     int64
	ServiceDistribution map[int]int
}

// Get returns the live cache entry for domain. Entries older than the
// TTL are reported absent and scheduled for deletion without blocking
// the read.
func (c *Cache) Get(ctx context.Context, domain string) (entity.IconCacheEntry, bool) {
	if domain == "" {
		return entity.IconCacheEntry{}, false
	}

	now := c.now()

	if v, ok := c.mem.Get(domain); ok {
		entry := v.(entity.IconCacheEntry)
		if !entry.Expired(now) {
			return entry, true
		}
		c.mem.Delete(domain)
	}

	cache := c.load(ctx)
	entry, ok := cache[domain]
	if !ok {
		return entity.IconCacheEntry{}, false
	}

	if entry.Expired(now) {
		log := logging.FromContext(ctx)
		log.Debug().
			Str("domain", domain).
			Int64("age_days", int64(entry.Age(now).Hours()/24)).
			Msg("icon cache entry expired")

		// Deletion is deferred so the read never blocks on a write-back.
		go c.deleteEntry(ctx, domain)
		return entity.IconCacheEntry{}, false
	}

	c.mem.Set(domain, entry, entity.IconCacheMaxAge-entry.Age(now))
	return entry, true
}

// Put records a proven-good provider URL for domain. When the domain is
// new and the aggregate is full, the single globally-oldest entry is
// evicted first.
func (c *Cache) Put(ctx context.Context, domain, url string, serviceIndex int) {
	if domain == "" {
		return
	}

	log := logging.FromContext(ctx)

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	cache := c.load(ctx)

	if _, exists := cache[domain]; !exists && len(cache) >= entity.IconCacheMaxEntries {
		oldestDomain := ""
		oldestTS := int64(0)
		for d, e := range cache {
			if oldestDomain == "" || e.Timestamp < oldestTS {
				oldestDomain = d
				oldestTS = e.Timestamp
			}
		}
		delete(cache, oldestDomain)
		c.mem.Delete(oldestDomain)
		log.Debug().Str("domain", oldestDomain).Msg("icon cache full, evicted oldest entry")
	}

	entry := entity.IconCacheEntry{
		URL:          url,
		ServiceIndex: serviceIndex,
		Timestamp:    c.now().UnixMilli(),
		Domain:       domain,
	}
	cache[domain] = entry

	if c.save(ctx, cache) {
		c.mem.Set(domain, entry, entity.IconCacheMaxAge)
		log.Debug().Str("domain", domain).Int("service_index", serviceIndex).Msg("cached icon")
	}
}

// SweepExpired removes every entry older than the TTL, persists once,
// and returns the number removed. Intended to run once at startup.
func (c *Cache) SweepExpired(ctx context.Context) int {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	cache := c.load(ctx)
	now := c.now()

	removed := 0
	for domain, entry := range cache {
		if entry.Expired(now) {
			delete(cache, domain)
			c.mem.Delete(domain)
			removed++
		}
	}

	if removed > 0 {
		c.save(ctx, cache)
		logging.FromContext(ctx).Debug().Int("removed", removed).Msg("swept expired icon cache entries")
	}
	return removed
}

// Clear deletes the aggregate entirely.
func (c *Cache) Clear(ctx context.Context) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mem.Flush()
	if err := c.backend.Remove(entity.IconCacheKey); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("failed to clear icon cache")
	}
}

// Stats reports aggregate statistics for diagnostics.
func (c *Cache) Stats(ctx context.Context) Stats {
	cache := c.load(ctx)

	stats := Stats{
		TotalEntries:        len(cache),
		ServiceDistribution: make(map[int]int),
	}
	for _, entry := range cache {
		if stats.OldestTimestamp == 0 || entry.Timestamp < stats.OldestTimestamp {
			stats.OldestTimestamp = entry.Timestamp
		}
		if entry.Timestamp > stats.NewestTimestamp {
			stats.NewestTimestamp = entry.Timestamp
		}
		stats.ServiceDistribution[entry.ServiceIndex]++
	}
	return stats
}

// load reads the persisted aggregate. Malformed data (wrong shape, not
// an object) is treated identically to "no cache" and never surfaces as
// an error.
func (c *Cache) load(ctx context.Context) entity.IconCache {
	v, _, _ := c.loads.Do(entity.IconCacheKey, func() (any, error) {
		log := logging.FromContext(ctx)

		raw, ok, err := c.backend.Get(entity.IconCacheKey)
		if err != nil {
			log.Warn().Err(err).Msg("failed to load icon cache, treating as empty")
			return entity.IconCache{}, nil
		}
		if !ok {
			return entity.IconCache{}, nil
		}

		var cache entity.IconCache
		if err := json.Unmarshal(raw, &cache); err != nil || cache == nil {
			log.Warn().Msg("icon cache data corrupted, resetting")
			return entity.IconCache{}, nil
		}
		return cache, nil
	})

	// Each caller gets its own copy: collapsed loads must not share a
	// map that a writer will then mutate.
	shared := v.(entity.IconCache)
	cache := make(entity.IconCache, len(shared))
	for d, e := range shared {
		cache[d] = e
	}
	return cache
}

// save persists the aggregate. On quota pressure it retains the newest
// 80% of entries (sorted by timestamp) and retries; each retry shrinks
// the aggregate, so the loop terminates.
func (c *Cache) save(ctx context.Context, cache entity.IconCache) bool {
	log := logging.FromContext(ctx)

	for {
		raw, err := json.Marshal(cache)
		if err != nil {
			log.Error().Err(err).Msg("failed to marshal icon cache")
			return false
		}

		err = c.backend.Set(entity.IconCacheKey, raw)
		if err == nil {
			return true
		}
		if !errors.Is(err, storage.ErrQuotaExceeded) {
			log.Error().Err(err).Msg("failed to save icon cache")
			return false
		}
		if len(cache) == 0 {
			log.Error().Msg("icon cache does not fit in storage even when empty")
			return false
		}

		log.Warn().Int("entries", len(cache)).Msg("storage quota exceeded, dropping oldest icon cache entries")

		entries := make([]entity.IconCacheEntry, 0, len(cache))
		for _, e := range cache {
			entries = append(entries, e)
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Timestamp < entries[j].Timestamp })

		keep := int(float64(len(entries)) * retainRatio)
		cleaned := make(entity.IconCache, keep)
		for _, e := range entries[len(entries)-keep:] {
			cleaned[e.Domain] = e
		}
		cache = cleaned
	}
}

// deleteEntry removes a single domain from the persisted aggregate.
// Used by the deferred expiry path.
func (c *Cache) deleteEntry(ctx context.Context, domain string) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	cache := c.load(ctx)
	if _, ok := cache[domain]; !ok {
		return
	}
	delete(cache, domain)
	c.mem.Delete(domain)
	c.save(ctx, cache)
}
