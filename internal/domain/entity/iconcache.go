package entity

import "time"

// Icon cache limits. Entries older than IconCacheMaxAge are logically
// absent even when still present in storage; the aggregate never holds
// more than IconCacheMaxEntries domains.
const (
	IconCacheKey        = "nexus_icon_cache"
	IconCacheMaxAge     = 7 * 24 * time.Hour
	IconCacheMaxEntries = 100
)

// IconCacheEntry records a provider URL that was proven to load for a
// domain. ServiceIndex is the position in the provider chain that
// produced the URL; it is a hint for future resolutions, not a
// guarantee.
type IconCacheEntry struct {
	URL          string `json:"url"`
	ServiceIndex int    `json:"serviceIndex"`
	Timestamp    int64  `json:"timestamp"` // epoch milliseconds
	Domain       string `json:"domain"`    // redundant, kept for debugging
}

// IconCache maps a domain to its last confirmed icon entry. Multiple
// shortcuts on the same domain share one entry.
type IconCache map[string]IconCacheEntry

// Age returns how long ago the entry was confirmed, relative to now.
func (e IconCacheEntry) Age(now time.Time) time.Duration {
	return now.Sub(time.UnixMilli(e.Timestamp))
}

// Expired reports whether the entry is older than the cache TTL.
func (e IconCacheEntry) Expired(now time.Time) bool {
	return e.Age(now) > IconCacheMaxAge
}
