package favicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateURLs(t *testing.T) {
	urls := CandidateURLs("https://github.com/some/repo")
	require.Len(t, urls, 5)

	assert.Equal(t, "https://www.google.com/s2/favicons?domain=github.com&sz=128", urls[0])
	assert.Equal(t, "https://icons.duckduckgo.com/ip3/github.com.ico", urls[1])
	assert.Equal(t, "https://icon.horse/icon/github.com", urls[2])
	assert.Equal(t, "https://github.com/favicon.ico", urls[3])
	assert.Equal(t, "https://logo.clearbit.com/github.com", urls[4])
}

func TestCandidateURLsStripsWWWForProviders(t *testing.T) {
	urls := CandidateURLs("https://www.youtube.com/watch?v=x")
	require.Len(t, urls, 5)

	// Provider templates use the bare domain; the origin candidate keeps
	// the host as given.
	assert.Equal(t, "https://icons.duckduckgo.com/ip3/youtube.com.ico", urls[1])
	assert.Equal(t, "https://www.youtube.com/favicon.ico", urls[3])
}

func TestCandidateURLsInvalidInput(t *testing.T) {
	assert.Empty(t, CandidateURLs(""))
	assert.Empty(t, CandidateURLs("not a url at all"))
}

func TestCandidateURLsCoercesSchemelessInput(t *testing.T) {
	// A scheme-less URL must produce the same candidates (and therefore
	// the same cache domain) as its https:// form, even when it never
	// went through the shortcut store's normalization.
	coerced := CandidateURLs("example.com")
	require.Len(t, coerced, 5)
	assert.Equal(t, CandidateURLs("https://example.com"), coerced)
	assert.Equal(t, "https://example.com/favicon.ico", coerced[3])
}

func TestChainIsStable(t *testing.T) {
	chain := Chain()
	require.Len(t, chain, 5)
	assert.Equal(t, "google", chain[0].Name)
	assert.Equal(t, "duckduckgo", chain[1].Name)
	assert.Equal(t, "iconhorse", chain[2].Name)
	assert.Equal(t, "origin", chain[3].Name)
	assert.Equal(t, "clearbit", chain[4].Name)
}
