package shortcut

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/nexus/internal/domain/entity"
	"github.com/bnema/nexus/internal/storage"
)

func newTestStore(backend storage.Backend) *Store {
	return NewStore(context.Background(), storage.NewQuotaSafeStore(backend, nil))
}

func TestNewStoreSeedsDefaultsOnFirstRun(t *testing.T) {
	s := newTestStore(storage.NewMemoryBackend(0))

	list := s.List()
	require.Len(t, list, 5)
	assert.Equal(t, "ChatGPT", list[0].Title)
	assert.Equal(t, "https://github.com", list[2].URL)
}

func TestNewStoreLoadsPersistedList(t *testing.T) {
	backend := storage.NewMemoryBackend(0)
	saved := []entity.Shortcut{{ID: "a", Title: "Saved", URL: "https://saved.example"}}
	raw, err := json.Marshal(saved)
	require.NoError(t, err)
	require.NoError(t, backend.Set(entity.ShortcutsKey, raw))

	s := newTestStore(backend)
	assert.Equal(t, saved, s.List())
}

func TestAddNormalizesURLAndPersists(t *testing.T) {
	backend := storage.NewMemoryBackend(0)
	s := newTestStore(backend)
	ctx := context.Background()

	sc := s.Add(ctx, "Example", "example.com", "")
	assert.NotEmpty(t, sc.ID)
	assert.Equal(t, "https://example.com", sc.URL)

	var persisted []entity.Shortcut
	raw, found, err := backend.Get(entity.ShortcutsKey)
	require.NoError(t, err)
	require.True(t, found)
	require.NoError(t, json.Unmarshal(raw, &persisted))
	assert.Equal(t, s.List(), persisted)
}

func TestUpdateMergesFields(t *testing.T) {
	s := newTestStore(storage.NewMemoryBackend(0))
	ctx := context.Background()

	sc := s.Add(ctx, "Example", "https://example.com", "data:image/png;base64,AAAA")

	title := "Renamed"
	ok := s.Update(ctx, sc.ID, Fields{Title: &title})
	require.True(t, ok)

	got, found := s.Get(sc.ID)
	require.True(t, found)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, "https://example.com", got.URL, "unset fields stay untouched")
	assert.Equal(t, "data:image/png;base64,AAAA", got.CustomIcon)

	empty := ""
	require.True(t, s.Update(ctx, sc.ID, Fields{CustomIcon: &empty}))
	got, _ = s.Get(sc.ID)
	assert.False(t, got.HasCustomIcon())
}

func TestUpdateUnknownIDIsNoOp(t *testing.T) {
	s := newTestStore(storage.NewMemoryBackend(0))

	before := s.List()
	title := "nope"
	assert.False(t, s.Update(context.Background(), "missing", Fields{Title: &title}))
	assert.Equal(t, before, s.List())
}

func TestRemoveFiltersAndPreservesOrder(t *testing.T) {
	s := newTestStore(storage.NewMemoryBackend(0))
	ctx := context.Background()

	list := s.List()
	require.Len(t, list, 5)

	require.True(t, s.Remove(ctx, list[2].ID))
	assert.False(t, s.Remove(ctx, list[2].ID), "second removal finds nothing")

	after := s.List()
	require.Len(t, after, 4)
	assert.Equal(t, list[1].ID, after[1].ID)
	assert.Equal(t, list[3].ID, after[2].ID)
}

func TestPersistKeepsStateWhenNothingEverPersisted(t *testing.T) {
	// A backend too small for any payload: every save fails terminally
	// and the re-read finds no prior snapshot to resynchronize from.
	backend := storage.NewMemoryBackend(4)
	s := NewStore(context.Background(), storage.NewQuotaSafeStore(backend, nil))
	ctx := context.Background()

	sc := s.Add(ctx, "Example", "example.com", "")

	_, found := s.Get(sc.ID)
	assert.True(t, found, "in-memory state stays authoritative")

	_, ok, err := backend.Get(entity.ShortcutsKey)
	require.NoError(t, err)
	assert.False(t, ok, "nothing was persisted")
}

func TestPersistResyncsAfterQuotaCleanup(t *testing.T) {
	// Budget sized so the list fits only once one custom icon is gone.
	icon := "data:image/png;base64," + strings.Repeat("A", 256)

	seed := []entity.Shortcut{
		{ID: "a", Title: "First", URL: "https://a.example", CustomIcon: icon},
		{ID: "b", Title: "Second", URL: "https://b.example"},
	}
	cleaned := make([]entity.Shortcut, len(seed))
	copy(cleaned, seed)
	cleaned[0].CustomIcon = ""
	budget, err := json.Marshal(cleaned)
	require.NoError(t, err)

	// Persist a list that only fits without the icon, under a budget
	// that admits exactly the cleaned form.
	backend := storage.NewMemoryBackend(int64(len(budget)))
	seedRaw, err := json.Marshal(seed)
	require.NoError(t, err)
	require.ErrorIs(t, backend.Set(entity.ShortcutsKey, seedRaw), storage.ErrQuotaExceeded)
	require.NoError(t, backend.Set(entity.ShortcutsKey, budget))

	s := NewStore(context.Background(), storage.NewQuotaSafeStore(backend, nil))
	ctx := context.Background()

	// Reattaching the icon overflows the quota; the save strips it again
	// and the store must resynchronize.
	require.True(t, s.Update(ctx, "a", Fields{CustomIcon: &icon}))

	// The quota cleanup stripped the icon; in-memory state must agree
	// with what actually persisted.
	list := s.List()
	require.Len(t, list, 2)
	assert.False(t, list[0].HasCustomIcon(), "stripped icon must be reflected in memory")
	assert.Equal(t, "First", list[0].Title)

	var persisted []entity.Shortcut
	raw, found, err := backend.Get(entity.ShortcutsKey)
	require.NoError(t, err)
	require.True(t, found)
	require.NoError(t, json.Unmarshal(raw, &persisted))
	assert.Equal(t, list, persisted)
}
