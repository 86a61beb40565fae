// Package favicon implements favicon resolution for shortcuts: a
// prioritized chain of external icon providers, a persistent per-domain
// cache with TTL and capacity eviction, custom icon ingestion, and the
// session-scoped resolver that ties them together.
package favicon

import (
	"fmt"

	urlutil "github.com/bnema/nexus/internal/domain/url"
)

// Provider builds a candidate icon URL for a site. The chain is fixed
// and ordered; the index of the provider that proved to work for a
// domain is what the cache persists.
type Provider struct {
	Name  string
	Build func(domain, origin string) string
}

// Chain returns the static provider chain, indices 0..4.
func Chain() []Provider {
	return []Provider{
		{
			Name: "google",
			Build: func(domain, _ string) string {
				return fmt.Sprintf("https://www.google.com/s2/favicons?domain=%s&sz=128", domain)
			},
		},
		{
			Name: "duckduckgo",
			Build: func(domain, _ string) string {
				return fmt.Sprintf("https://icons.duckduckgo.com/ip3/%s.ico", domain)
			},
		},
		{
			Name: "iconhorse",
			Build: func(domain, _ string) string {
				return fmt.Sprintf("https://icon.horse/icon/%s", domain)
			},
		},
		{
			Name: "origin",
			Build: func(_, origin string) string {
				return origin + "/favicon.ico"
			},
		},
		{
			Name: "clearbit",
			Build: func(domain, _ string) string {
				return fmt.Sprintf("https://logo.clearbit.com/%s", domain)
			},
		},
	}
}

// CandidateURLs builds the ordered candidate list for a shortcut URL.
// Scheme-less input is coerced the same way the resolver derives the
// cache domain, so the two never disagree on whether a URL is usable.
// Invalid URLs yield an empty list, which the resolver treats as an
// immediate fallback to the placeholder glyph.
func CandidateURLs(rawURL string) []string {
	normalized := urlutil.Normalize(rawURL)
	domain := urlutil.ExtractDomain(normalized)
	origin := urlutil.Origin(normalized)
	if domain == "" || origin == "" {
		return nil
	}

	chain := Chain()
	urls := make([]string, len(chain))
	for i, p := range chain {
		urls[i] = p.Build(domain, origin)
	}
	return urls
}
