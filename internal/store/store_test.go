package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reciteapp/recite-server/internal/domain"
	"github.com/reciteapp/recite-server/internal/id"
)

func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "reading-store-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")
	s, err := New(dbPath, nil)
	require.NoError(t, err)

	cleanup := func() {
		s.Close()
		os.RemoveAll(tmpDir)
	}
	return s, cleanup
}

func favoriteChapter(chapterID int) *domain.FavoriteChapter {
	return &domain.FavoriteChapter{
		ID:        id.MustGenerate("fav"),
		ChapterID: chapterID,
		CreatedAt: time.Now().UTC(),
	}
}

func TestFavoriteChaptersAddRemove(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	added, err := s.FavoriteChapters.Add(ctx, favoriteChapter(2))
	require.NoError(t, err)
	assert.True(t, added)

	has, err := s.FavoriteChapters.Contains(ctx, ChapterKey(2))
	require.NoError(t, err)
	assert.True(t, has)

	// Adding the same chapter again is a no-op.
	added, err = s.FavoriteChapters.Add(ctx, favoriteChapter(2))
	require.NoError(t, err)
	assert.False(t, added)

	entries, err := s.FavoriteChapters.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	removed, err := s.FavoriteChapters.Remove(ctx, ChapterKey(2))
	require.NoError(t, err)
	assert.True(t, removed)

	// Removing an absent chapter is not an error.
	removed, err = s.FavoriteChapters.Remove(ctx, ChapterKey(2))
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestFavoriteChaptersToggle(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	factory := func() (*domain.FavoriteChapter, error) {
		return favoriteChapter(36), nil
	}

	present, err := s.FavoriteChapters.Toggle(ctx, ChapterKey(36), factory)
	require.NoError(t, err)
	assert.True(t, present)

	present, err = s.FavoriteChapters.Toggle(ctx, ChapterKey(36), factory)
	require.NoError(t, err)
	assert.False(t, present)

	entries, err := s.FavoriteChapters.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFavoriteChaptersConcurrentToggle(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	factory := func() (*domain.FavoriteChapter, error) {
		return favoriteChapter(18), nil
	}

	done := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := s.FavoriteChapters.Toggle(ctx, ChapterKey(18), factory)
			done <- err
		}()
	}
	require.NoError(t, <-done)
	require.NoError(t, <-done)

	// Two toggles from the same starting state must cancel out, never
	// produce a duplicate.
	entries, err := s.FavoriteChapters.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBookmarksNaturalKeyIsVerse(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	mk := func(chapter, verse int) *domain.Bookmark {
		return &domain.Bookmark{
			ID:        id.MustGenerate("bmk"),
			ChapterID: chapter,
			VerseID:   verse,
			CreatedAt: time.Now().UTC(),
		}
	}

	added, err := s.Bookmarks.Add(ctx, mk(2, 255))
	require.NoError(t, err)
	assert.True(t, added)

	// Same verse again collides; another verse in the same chapter does not.
	added, err = s.Bookmarks.Add(ctx, mk(2, 255))
	require.NoError(t, err)
	assert.False(t, added)

	added, err = s.Bookmarks.Add(ctx, mk(2, 286))
	require.NoError(t, err)
	assert.True(t, added)

	entries, err := s.Bookmarks.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestCollectionMalformedValueYieldsEmpty(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.setRaw(KeyFavoriteVerses, []byte("{not json")))

	entries, err := s.FavoriteVerses.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// The store recovers: the next write replaces the bad value.
	added, err := s.FavoriteVerses.Add(ctx, &domain.FavoriteVerse{
		ID:        id.MustGenerate("fav"),
		ChapterID: 1,
		VerseID:   1,
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.True(t, added)

	entries, err = s.FavoriteVerses.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCollectionDedupesStoredDuplicates(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	// A value written by an older build may carry duplicates; reads keep
	// the first occurrence per natural key.
	raw := []byte(`[
		{"id":"fav-a","chapter_id":2,"created_at":"2026-01-01T00:00:00Z"},
		{"id":"fav-b","chapter_id":2,"created_at":"2026-01-02T00:00:00Z"},
		{"id":"fav-c","chapter_id":3,"created_at":"2026-01-03T00:00:00Z"}
	]`)
	require.NoError(t, s.setRaw(KeyFavoriteChapters, raw))

	entries, err := s.FavoriteChapters.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "fav-a", entries[0].ID)
	assert.Equal(t, "fav-c", entries[1].ID)
}

func TestRecentChaptersBoundedAndDeduped(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	for _, ch := range []int{1, 2, 3, 4, 5, 6, 7, 8} {
		require.NoError(t, s.RecentChapters.Push(ctx, ch))
	}

	entries, err := s.RecentChapters.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{8, 7, 6, 5, 4}, entries)

	// Re-reading chapter 5 moves it to the front without growing the list.
	require.NoError(t, s.RecentChapters.Push(ctx, 5))
	entries, err = s.RecentChapters.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 8, 7, 6, 4}, entries)
}

func TestSearchHistoryDedupe(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.SearchHistory.Push(ctx, "mercy"))
	require.NoError(t, s.SearchHistory.Push(ctx, "light"))
	require.NoError(t, s.SearchHistory.Push(ctx, "mercy"))

	entries, err := s.SearchHistory.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"mercy", "light"}, entries)
}

func TestSettingsDefaultsAndUpdate(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	settings, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), settings)

	updated, err := s.UpdateSettings(ctx, func(st *domain.AppSettings) {
		st.Theme = domain.ThemeDark
		st.FontSize = 20
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, updated.Theme)
	assert.Equal(t, 20, updated.FontSize)

	// Untouched fields keep their values across a later update.
	updated, err = s.UpdateSettings(ctx, func(st *domain.AppSettings) {
		st.Reciter = "Alafasy"
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, updated.Theme)
	assert.Equal(t, "Alafasy", updated.Reciter)
}

func TestSettingsMalformedValueYieldsDefaults(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, s.setRaw(KeySettings, []byte("not-json")))

	settings, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), settings)
}

func TestSettingsOutOfRangeFieldsNormalized(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	raw := []byte(`{"language":"ar","theme":"neon","font_size":99,"reciter":"","show_translation":false,"show_transliteration":true,"audio_quality":"medium"}`)
	require.NoError(t, s.setRaw(KeySettings, raw))

	settings, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ar", settings.Language)
	assert.Equal(t, domain.ThemeSystem, settings.Theme)
	assert.Equal(t, domain.MaxFontSize, settings.FontSize)
	assert.Equal(t, domain.DefaultSettings().Reciter, settings.Reciter)
	assert.False(t, settings.ShowTranslation)
	assert.True(t, settings.ShowTransliteration)
}

func TestPreferences(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	lang, err := s.GetPreference(ctx, KeyLanguage, "en")
	require.NoError(t, err)
	assert.Equal(t, "en", lang)

	require.NoError(t, s.SetPreference(ctx, KeyLanguage, "ar"))
	lang, err = s.GetPreference(ctx, KeyLanguage, "en")
	require.NoError(t, err)
	assert.Equal(t, "ar", lang)
}

func TestClearAllExceptPreservesPreferences(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	_, err := s.FavoriteChapters.Add(ctx, favoriteChapter(2))
	require.NoError(t, err)
	require.NoError(t, s.SearchHistory.Push(ctx, "patience"))
	require.NoError(t, s.RecentChapters.Push(ctx, 2))
	require.NoError(t, s.SetPreference(ctx, KeyLanguage, "ar"))
	require.NoError(t, s.SetPreference(ctx, KeyTheme, "dark"))

	require.NoError(t, s.ClearAllExcept(ctx, KeyLanguage, KeyTheme))

	entries, err := s.FavoriteChapters.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	history, err := s.SearchHistory.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)

	lang, err := s.GetPreference(ctx, KeyLanguage, "en")
	require.NoError(t, err)
	assert.Equal(t, "ar", lang)

	theme, err := s.GetPreference(ctx, KeyTheme, "system")
	require.NoError(t, err)
	assert.Equal(t, "dark", theme)
}
