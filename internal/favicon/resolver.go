package favicon

import (
	"context"
	"encoding/base64"
	"strings"
	"sync"

	"github.com/bnema/nexus/internal/domain/entity"
	urlutil "github.com/bnema/nexus/internal/domain/url"
	"github.com/bnema/nexus/internal/logging"
)

// PlaceholderIcon is the generic link glyph rendered when every
// candidate is exhausted. Inline SVG so the terminal state never
// depends on the network.
const PlaceholderIcon = "data:image/svg+xml;base64," +
	"PHN2ZyB4bWxucz0iaHR0cDovL3d3dy53My5vcmcvMjAwMC9zdmciIHdpZHRoPSIzMiIgaGVpZ2h0PSIz" +
	"MiIgdmlld0JveD0iMCAwIDI0IDI0IiBmaWxsPSJub25lIiBzdHJva2U9ImN1cnJlbnRDb2xvciIgc3Ry" +
	"b2tlLXdpZHRoPSIyIiBzdHJva2UtbGluZWNhcD0icm91bmQiIHN0cm9rZS1saW5lam9pbj0icm91bmQi" +
	"PjxwYXRoIGQ9Ik0xMCAxM2E1IDUgMCAwIDAgNy41NC41NGwzLTNhNSA1IDAgMCAwLTcuMDctNy4wN2wt" +
	"MS43MiAxLjcxIi8+PHBhdGggZD0iTTE0IDExYTUgNSAwIDAgMC03LjU0LS41NGwtMyAzYTUgNSAwIDAg" +
	"MCA3LjA3IDcuMDdsMS43MS0xLjcxIi8+PC9zdmc+"

// Loader is the decode-primitive port the resolver walks candidates
// with. A nil error means the source rendered.
type Loader interface {
	Load(ctx context.Context, iconURL string) ([]byte, error)
}

// Kind labels where a resolution came from.
type Kind string

const (
	KindCustom      Kind = "custom"
	KindCached      Kind = "cached"
	KindProvider    Kind = "provider"
	KindPlaceholder Kind = "placeholder"
)

// Resolution is the outcome of resolving one shortcut's icon.
type Resolution struct {
	Source        string // data URI or provider URL to render
	Kind          Kind
	ProviderIndex int // meaningful for KindCached and KindProvider
}

// resolutionState is the per-shortcut, per-session retry state. It is
// never persisted and resets whenever the shortcut collection changes.
type resolutionState struct {
	attemptIndex     int
	customIconFailed bool
	cacheTried       bool
}

// Resolver walks the icon candidate order for shortcuts: custom icon
// first, then the cache hint for the domain, then the static provider
// chain, then the placeholder. Progress through the chain is remembered
// for the lifetime of the session so a failed candidate is never
// retried without a reload.
type Resolver struct {
	cache  *Cache
	loader Loader

	mu         sync.Mutex
	states     map[string]*resolutionState
	candidates map[string][]string
	setID      string
}

// NewResolver creates a resolver over the given cache and loader.
func NewResolver(cache *Cache, loader Loader) *Resolver {
	return &Resolver{
		cache:      cache,
		loader:     loader,
		states:     make(map[string]*resolutionState),
		candidates: make(map[string][]string),
	}
}

// SetShortcuts memoizes candidate lists for the current shortcut
// collection and resets all session state when the collection identity
// changes.
func (r *Resolver) SetShortcuts(shortcuts []entity.Shortcut) {
	var sb strings.Builder
	for _, sc := range shortcuts {
		sb.WriteString(sc.ID)
		sb.WriteByte('|')
		sb.WriteString(sc.URL)
		sb.WriteByte('\n')
	}
	setID := sb.String()

	r.mu.Lock()
	defer r.mu.Unlock()

	if setID == r.setID {
		return
	}
	r.setID = setID
	r.states = make(map[string]*resolutionState)
	r.candidates = make(map[string][]string, len(shortcuts))
	for _, sc := range shortcuts {
		r.candidates[sc.ID] = CandidateURLs(sc.URL)
	}
}

// Resolve produces the icon source for one shortcut, advancing the
// session state past every candidate that fails to load. On the first
// provider-chain success the (domain, url, index) triple is written
// back to the cache so future sessions skip straight to a working
// provider. Exhaustion yields the placeholder and is terminal for the
// session.
func (r *Resolver) Resolve(ctx context.Context, sc entity.Shortcut) Resolution {
	log := logging.FromContext(ctx)
	state := r.stateFor(sc.ID)

	// 1. Custom icon, unless it already failed this session.
	if sc.HasCustomIcon() && !state.customIconFailed {
		if decodesInline(sc.CustomIcon) {
			return Resolution{Source: sc.CustomIcon, Kind: KindCustom}
		}
		// Sticky: never retried again without a reload.
		state.customIconFailed = true
		log.Debug().Str("shortcut", sc.ID).Msg("custom icon failed to render, falling back to favicon chain")
	}

	candidates := r.candidatesFor(sc)
	if len(candidates) == 0 {
		return Resolution{Source: PlaceholderIcon, Kind: KindPlaceholder}
	}

	domain := urlutil.ExtractDomain(urlutil.Normalize(sc.URL))

	// 2. Cache hint ahead of the static chain. Purely an optimization:
	// a stale URL fails over to the chain below.
	if !state.cacheTried {
		state.cacheTried = true
		if entry, ok := r.cache.Get(ctx, domain); ok {
			if _, err := r.loader.Load(ctx, entry.URL); err == nil {
				return Resolution{Source: entry.URL, Kind: KindCached, ProviderIndex: entry.ServiceIndex}
			}
			log.Debug().Str("domain", domain).Str("url", entry.URL).Msg("cached icon URL no longer loads")
		}
	}

	// 3. Static provider chain from where this session left off.
	for state.attemptIndex < len(candidates) {
		idx := state.attemptIndex
		candidate := candidates[idx]

		if _, err := r.loader.Load(ctx, candidate); err == nil {
			r.cache.Put(ctx, domain, candidate, idx)
			return Resolution{Source: candidate, Kind: KindProvider, ProviderIndex: idx}
		}
		state.attemptIndex++
	}

	// 4. Terminal for the session.
	return Resolution{Source: PlaceholderIcon, Kind: KindPlaceholder}
}

func (r *Resolver) stateFor(id string) *resolutionState {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.states[id]
	if !ok {
		state = &resolutionState{}
		r.states[id] = state
	}
	return state
}

func (r *Resolver) candidatesFor(sc entity.Shortcut) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if urls, ok := r.candidates[sc.ID]; ok {
		return urls
	}
	urls := CandidateURLs(sc.URL)
	r.candidates[sc.ID] = urls
	return urls
}

// decodesInline verifies that a stored data URI still decodes as an
// image; this is the Go analogue of the custom icon's img error event.
func decodesInline(dataURI string) bool {
	payload, ok := strings.CutPrefix(dataURI, "data:")
	if !ok {
		return false
	}
	meta, encoded, ok := strings.Cut(payload, ",")
	if !ok {
		return false
	}

	var data []byte
	if strings.HasSuffix(meta, ";base64") {
		decoded, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return false
		}
		data = decoded
	} else {
		data = []byte(encoded)
	}

	return ValidateImage(data) == nil
}
