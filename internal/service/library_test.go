package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reciteapp/recite-server/internal/errors"
	"github.com/reciteapp/recite-server/internal/quran"
	"github.com/reciteapp/recite-server/internal/sse"
)

func setupLibraryService(t *testing.T) (*LibraryService, *fakeProvider, *capturingEmitter) {
	t.Helper()
	provider := newFakeProvider()
	emitter := &capturingEmitter{}
	svc := NewLibraryService(provider, setupTestStore(t), emitter, testLogger())
	return svc, provider, emitter
}

func TestListChapters(t *testing.T) {
	svc, _, _ := setupLibraryService(t)

	chapters, err := svc.ListChapters(context.Background())
	require.NoError(t, err)
	require.Len(t, chapters, 2)
	assert.Equal(t, "Al-Faatiha", chapters[0].Name)
}

func TestGetChapterRecordsHistory(t *testing.T) {
	svc, _, emitter := setupLibraryService(t)
	ctx := context.Background()

	detail, err := svc.GetChapter(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.Chapter.ID)
	require.Len(t, detail.Verses, 3)

	recents, err := svc.RecentChapters(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, recents)
	assert.Equal(t, 1, emitter.count(sse.EventHistoryChanged))
}

func TestSearchRecordsQuery(t *testing.T) {
	svc, _, emitter := setupLibraryService(t)
	ctx := context.Background()

	result, err := svc.Search(ctx, &SearchRequest{Query: "mercy"})
	require.NoError(t, err)
	require.Len(t, result.Verses, 1)
	require.Len(t, result.Chapters, 1)

	history, err := svc.SearchHistory(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"mercy"}, history)
	assert.Equal(t, 1, emitter.count(sse.EventHistoryChanged))
}

func TestSearchValidation(t *testing.T) {
	svc, _, _ := setupLibraryService(t)

	tests := []struct {
		name string
		req  *SearchRequest
	}{
		{"empty query", &SearchRequest{Query: ""}},
		{"too short", &SearchRequest{Query: "a"}},
		{"bad language", &SearchRequest{Query: "mercy", Language: "not a tag"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Search(context.Background(), tt.req)
			require.Error(t, err)

			var coded *errors.Error
			require.ErrorAs(t, err, &coded)
			assert.Equal(t, errors.CodeValidation, coded.Code)
		})
	}
}

func TestClearSearchHistory(t *testing.T) {
	svc, _, _ := setupLibraryService(t)
	ctx := context.Background()

	_, err := svc.Search(ctx, &SearchRequest{Query: "mercy"})
	require.NoError(t, err)
	require.NoError(t, svc.ClearSearchHistory(ctx))

	history, err := svc.SearchHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestProviderErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode errors.Code
	}{
		{"not found", quran.ErrNotFound, errors.CodeNotFound},
		{"invalid chapter", quran.ErrInvalidChapter, errors.CodeValidation},
		{"upstream failure", quran.ErrServer, errors.CodeUpstream},
		{"rate limited", quran.ErrRateLimited, errors.CodeUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, provider, _ := setupLibraryService(t)
			provider.err = tt.err

			_, err := svc.GetChapter(context.Background(), 1)
			require.Error(t, err)

			var coded *errors.Error
			require.ErrorAs(t, err, &coded)
			assert.Equal(t, tt.wantCode, coded.Code)
		})
	}
}
