package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reciteapp/recite-server/internal/errors"
	"github.com/reciteapp/recite-server/internal/sse"
)

func setupReadingService(t *testing.T) (*ReadingService, *capturingEmitter) {
	t.Helper()
	emitter := &capturingEmitter{}
	svc := NewReadingService(setupTestStore(t), emitter, testLogger())
	return svc, emitter
}

func TestToggleFavoriteChapter(t *testing.T) {
	svc, emitter := setupReadingService(t)
	ctx := context.Background()

	present, err := svc.ToggleFavoriteChapter(ctx, 36)
	require.NoError(t, err)
	assert.True(t, present)

	is, err := svc.IsFavoriteChapter(ctx, 36)
	require.NoError(t, err)
	assert.True(t, is)

	present, err = svc.ToggleFavoriteChapter(ctx, 36)
	require.NoError(t, err)
	assert.False(t, present)

	assert.Equal(t, 2, emitter.count(sse.EventFavoritesChanged))
}

func TestToggleFavoriteChapterRejectsOutOfRange(t *testing.T) {
	svc, _ := setupReadingService(t)

	for _, id := range []int{0, -3, 115} {
		_, err := svc.ToggleFavoriteChapter(context.Background(), id)
		require.Error(t, err)

		var coded *errors.Error
		require.ErrorAs(t, err, &coded)
		assert.Equal(t, errors.CodeValidation, coded.Code)
	}
}

func TestToggleFavoriteVerse(t *testing.T) {
	svc, _ := setupReadingService(t)
	ctx := context.Background()

	present, err := svc.ToggleFavoriteVerse(ctx, 2, 255)
	require.NoError(t, err)
	assert.True(t, present)

	// Other verses of the same chapter are independent.
	is, err := svc.IsFavoriteVerse(ctx, 2, 256)
	require.NoError(t, err)
	assert.False(t, is)

	entries, err := svc.FavoriteVerses(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].ChapterID)
	assert.Equal(t, 255, entries[0].VerseID)
}

func TestAddAndRemoveBookmark(t *testing.T) {
	svc, emitter := setupReadingService(t)
	ctx := context.Background()

	added, err := svc.AddBookmark(ctx, &BookmarkRequest{ChapterID: 18, VerseID: 10, Notes: "the cave"})
	require.NoError(t, err)
	assert.True(t, added)

	// Re-bookmarking the same verse reports false without duplicating.
	added, err = svc.AddBookmark(ctx, &BookmarkRequest{ChapterID: 18, VerseID: 10})
	require.NoError(t, err)
	assert.False(t, added)

	bookmarks, err := svc.Bookmarks(ctx)
	require.NoError(t, err)
	require.Len(t, bookmarks, 1)
	assert.Equal(t, "the cave", bookmarks[0].Notes)

	removed, err := svc.RemoveBookmark(ctx, 18, 10)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.RemoveBookmark(ctx, 18, 10)
	require.NoError(t, err)
	assert.False(t, removed)

	assert.Equal(t, 2, emitter.count(sse.EventBookmarksChanged))
}

func TestAddBookmarkValidation(t *testing.T) {
	svc, _ := setupReadingService(t)

	_, err := svc.AddBookmark(context.Background(), &BookmarkRequest{ChapterID: 200, VerseID: 1})
	require.Error(t, err)

	var coded *errors.Error
	require.ErrorAs(t, err, &coded)
	assert.Equal(t, errors.CodeValidation, coded.Code)
}
