package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/nexus/internal/domain/entity"
	"github.com/bnema/nexus/internal/logging"
)

// notifyDelay keeps user-facing quota notifications off the code path
// that triggered the save.
const notifyDelay = 100 * time.Millisecond

// Notifier receives user-visible messages about automatic cleanups and
// terminal quota failures.
type Notifier func(message string)

// QuotaSafeStore wraps a Backend with JSON serialization and the
// quota-recovery policy for shortcut payloads: when a save does not
// fit, custom icons are stripped one at a time (oldest first, where
// "oldest" means first in slice order — id ordering approximates
// insertion time) until the save succeeds or nothing reclaimable
// remains.
type QuotaSafeStore struct {
	backend Backend
	notify  Notifier
	pending sync.WaitGroup
}

// NewQuotaSafeStore creates a store over backend. notify may be nil.
func NewQuotaSafeStore(backend Backend, notify Notifier) *QuotaSafeStore {
	if notify == nil {
		notify = func(string) {}
	}
	return &QuotaSafeStore{backend: backend, notify: notify}
}

// Backend exposes the underlying port for callers that manage their own
// quota policy (the icon cache applies an 80%-retain rule instead).
func (s *QuotaSafeStore) Backend() Backend {
	return s.backend
}

// Save serializes value as JSON and writes it under key with no
// recovery policy. Sibling payloads (notes, todos, settings) use this
// directly; a quota failure surfaces as ErrQuotaExceeded.
func (s *QuotaSafeStore) Save(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", key, err)
	}
	return s.backend.Set(key, raw)
}

// Load reads and unmarshals the payload under key into out. The second
// return is false when the key is absent. Malformed payloads are
// reported as errors; callers that treat corruption as empty (the icon
// cache) handle that themselves.
func (s *QuotaSafeStore) Load(key string, out any) (bool, error) {
	raw, ok, err := s.backend.Get(key)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return true, fmt.Errorf("unmarshal %q: %w", key, err)
	}
	return true, nil
}

// Remove deletes the payload under key.
func (s *QuotaSafeStore) Remove(key string) error {
	return s.backend.Remove(key)
}

// SaveShortcuts persists the shortcut list under key, recovering from
// quota exhaustion by stripping custom icons. Returns true when the
// list (possibly cleaned) was persisted. Each retry removes exactly one
// custom icon, so the loop is bounded by the number of icon-bearing
// entries. On terminal failure the caller must re-read storage to
// resynchronize in-memory state with whatever the partial cleanup left
// behind.
func (s *QuotaSafeStore) SaveShortcuts(ctx context.Context, key string, shortcuts []entity.Shortcut) bool {
	log := logging.FromContext(ctx)

	list := shortcuts
	for {
		raw, err := json.Marshal(list)
		if err != nil {
			log.Error().Err(err).Str("key", key).Msg("failed to marshal shortcuts")
			return false
		}

		err = s.backend.Set(key, raw)
		if err == nil {
			return true
		}
		if !errors.Is(err, ErrQuotaExceeded) {
			log.Error().Err(err).Str("key", key).Msg("failed to save shortcuts")
			return false
		}

		log.Warn().Str("key", key).Msg("storage quota exceeded, attempting to auto-clean custom icons")

		victim := -1
		for i, sc := range list {
			if sc.HasCustomIcon() {
				victim = i
				break
			}
		}
		if victim < 0 {
			// Nothing reclaimable left.
			msg := "Storage quota exceeded! Please delete some shortcuts or clear the icon cache."
			log.Warn().Msg(msg)
			s.deferNotify(msg)
			return false
		}

		cleaned := make([]entity.Shortcut, len(list))
		copy(cleaned, list)
		title := cleaned[victim].Title
		cleaned[victim].CustomIcon = ""
		list = cleaned

		msg := fmt.Sprintf(
			"Storage quota exceeded. Automatically removed custom icon for %q. The default website icon will be used instead.",
			title,
		)
		log.Warn().Str("shortcut", title).Msg("removed custom icon to reclaim quota")
		s.deferNotify(msg)
	}
}

func (s *QuotaSafeStore) deferNotify(msg string) {
	s.pending.Add(1)
	time.AfterFunc(notifyDelay, func() {
		defer s.pending.Done()
		s.notify(msg)
	})
}

// Flush blocks until every deferred notification has been delivered.
// Short-lived callers (the CLI commands) must flush before exiting or
// the notifications are lost with the process.
func (s *QuotaSafeStore) Flush() {
	s.pending.Wait()
}
