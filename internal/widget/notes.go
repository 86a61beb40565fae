// Package widget implements the start page's sibling payloads: quick
// notes, todos, settings, currency conversion and the password
// generator. They share the quota-constrained store with shortcuts and
// the icon cache.
package widget

import (
	"context"
	"time"

	"github.com/bnema/nexus/internal/domain/entity"
	"github.com/bnema/nexus/internal/logging"
	"github.com/bnema/nexus/internal/storage"
)

// Notes manages the quick-notes list, newest first, capped at
// entity.MaxNotes.
type Notes struct {
	store *storage.QuotaSafeStore
	now   func() time.Time
}

// NewNotes creates the notes widget over store.
func NewNotes(store *storage.QuotaSafeStore) *Notes {
	return &Notes{store: store, now: time.Now}
}

// List returns the persisted notes, newest first.
func (n *Notes) List(ctx context.Context) []entity.Note {
	var notes []entity.Note
	if _, err := n.store.Load(entity.NotesKey, &notes); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("failed to load notes")
		return nil
	}
	return notes
}

// Add prepends a note. Returns false when the list is full or the text
// is empty.
func (n *Notes) Add(ctx context.Context, text string) (entity.Note, bool) {
	if text == "" {
		return entity.Note{}, false
	}
	notes := n.List(ctx)
	if len(notes) >= entity.MaxNotes {
		return entity.Note{}, false
	}

	note := entity.NewNote(text, n.now().UnixMilli())
	notes = append([]entity.Note{note}, notes...)
	if err := n.store.Save(entity.NotesKey, notes); err != nil {
		logging.FromContext(ctx).Error().Err(err).Msg("failed to save notes")
		return entity.Note{}, false
	}
	return note, true
}

// Remove deletes the note with the given id.
func (n *Notes) Remove(ctx context.Context, id string) bool {
	notes := n.List(ctx)
	filtered := notes[:0:0]
	removed := false
	for _, note := range notes {
		if note.ID == id {
			removed = true
			continue
		}
		filtered = append(filtered, note)
	}
	if !removed {
		return false
	}
	if err := n.store.Save(entity.NotesKey, filtered); err != nil {
		logging.FromContext(ctx).Error().Err(err).Msg("failed to save notes")
		return false
	}
	return true
}
