// Package shortcut owns the ordered collection of start-page shortcuts.
package shortcut

import (
	"context"
	"reflect"
	"sync"

	"github.com/bnema/nexus/internal/domain/entity"
	urlutil "github.com/bnema/nexus/internal/domain/url"
	"github.com/bnema/nexus/internal/logging"
	"github.com/bnema/nexus/internal/storage"
)

// Store is the entity layer both the favicon system and the UI operate
// over. It owns identity and uniqueness of shortcuts; every mutation is
// committed through the quota-safe store.
type Store struct {
	store *storage.QuotaSafeStore

	mu        sync.Mutex
	shortcuts []entity.Shortcut
}

// Fields carries the updatable parts of a shortcut. Nil pointers leave
// the corresponding field unchanged; a pointer to the empty string
// clears CustomIcon.
type Fields struct {
	Title      *string
	URL        *string
	CustomIcon *string
}

// NewStore loads the persisted list, seeding the defaults for
// first-time users.
func NewStore(ctx context.Context, store *storage.QuotaSafeStore) *Store {
	log := logging.FromContext(ctx)

	s := &Store{store: store}

	var saved []entity.Shortcut
	found, err := store.Load(entity.ShortcutsKey, &saved)
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("failed to load shortcuts, starting from defaults")
		s.shortcuts = entity.DefaultShortcuts()
	case !found:
		s.shortcuts = entity.DefaultShortcuts()
	default:
		s.shortcuts = saved
	}
	return s
}

// List returns a copy of the current shortcut collection.
func (s *Store) List() []entity.Shortcut {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Shortcut, len(s.shortcuts))
	copy(out, s.shortcuts)
	return out
}

// Get returns the shortcut with the given id.
func (s *Store) Get(id string) (entity.Shortcut, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sc := range s.shortcuts {
		if sc.ID == id {
			return sc, true
		}
	}
	return entity.Shortcut{}, false
}

// Add appends a new shortcut with a generated id. Scheme-less URLs are
// coerced to https://. Returns the created shortcut.
func (s *Store) Add(ctx context.Context, title, rawURL, customIcon string) entity.Shortcut {
	sc := entity.NewShortcut(title, urlutil.Normalize(rawURL))
	sc.CustomIcon = customIcon

	s.mu.Lock()
	s.shortcuts = append(s.shortcuts, sc)
	s.mu.Unlock()

	s.persist(ctx)
	return sc
}

// Update merges fields into the matching record, or no-ops when the id
// is unknown. Returns whether a record was updated.
func (s *Store) Update(ctx context.Context, id string, fields Fields) bool {
	s.mu.Lock()
	updated := false
	for i := range s.shortcuts {
		if s.shortcuts[i].ID != id {
			continue
		}
		if fields.Title != nil {
			s.shortcuts[i].Title = *fields.Title
		}
		if fields.URL != nil {
			s.shortcuts[i].URL = urlutil.Normalize(*fields.URL)
		}
		if fields.CustomIcon != nil {
			s.shortcuts[i].CustomIcon = *fields.CustomIcon
		}
		updated = true
		break
	}
	s.mu.Unlock()

	if updated {
		s.persist(ctx)
	}
	return updated
}

// Remove filters the record out. Returns whether a record was removed.
func (s *Store) Remove(ctx context.Context, id string) bool {
	s.mu.Lock()
	filtered := s.shortcuts[:0:0]
	removed := false
	for _, sc := range s.shortcuts {
		if sc.ID == id {
			removed = true
			continue
		}
		filtered = append(filtered, sc)
	}
	s.shortcuts = filtered
	s.mu.Unlock()

	if removed {
		s.persist(ctx)
	}
	return removed
}

// persist writes the collection through the quota-safe save. The save
// may have altered the payload (quota cleanup strips custom icons) or
// failed terminally after a partial cleanup, so in-memory state is
// resynchronized from what storage actually holds, compared by deep
// equality to avoid redundant churn.
func (s *Store) persist(ctx context.Context) {
	log := logging.FromContext(ctx)

	s.mu.Lock()
	snapshot := make([]entity.Shortcut, len(s.shortcuts))
	copy(snapshot, s.shortcuts)
	s.mu.Unlock()

	s.store.SaveShortcuts(ctx, entity.ShortcutsKey, snapshot)

	var persisted []entity.Shortcut
	found, err := s.store.Load(entity.ShortcutsKey, &persisted)
	if err != nil {
		log.Error().Err(err).Msg("failed to re-read shortcuts after save")
		return
	}
	if !found {
		// The save failed terminally before anything was ever
		// persisted; the in-memory state stays authoritative.
		log.Debug().Msg("no persisted shortcuts to resynchronize from")
		return
	}

	s.mu.Lock()
	if !reflect.DeepEqual(persisted, s.shortcuts) {
		s.shortcuts = persisted
		log.Warn().Msg("shortcut list resynchronized from storage after quota cleanup")
	}
	s.mu.Unlock()
}
