package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/reciteapp/recite-server/internal/domain"
	"github.com/reciteapp/recite-server/internal/errors"
	"github.com/reciteapp/recite-server/internal/quran"
	"github.com/reciteapp/recite-server/internal/sse"
	"github.com/reciteapp/recite-server/internal/store"
)

// ContentProvider is the scripture provider surface the library depends on.
type ContentProvider interface {
	FetchChapters(ctx context.Context) ([]domain.Chapter, error)
	FetchChapterDetail(ctx context.Context, chapterID int) (domain.Chapter, []domain.Verse, error)
	Search(ctx context.Context, query, lang string) ([]domain.Verse, []domain.Chapter, error)
}

// LibraryService serves chapter listings, chapter detail, and search, and
// records reading history as a side effect.
type LibraryService struct {
	provider ContentProvider
	store    *store.Store
	emitter  sse.Emitter
	logger   *slog.Logger
}

// NewLibraryService creates a new library service.
func NewLibraryService(provider ContentProvider, st *store.Store, emitter sse.Emitter, logger *slog.Logger) *LibraryService {
	return &LibraryService{
		provider: provider,
		store:    st,
		emitter:  emitter,
		logger:   logger,
	}
}

// ListChapters returns metadata for all chapters.
func (s *LibraryService) ListChapters(ctx context.Context) ([]domain.Chapter, error) {
	chapters, err := s.provider.FetchChapters(ctx)
	if err != nil {
		return nil, mapProviderError("list chapters", err)
	}
	return chapters, nil
}

// ChapterDetail is one chapter with its ordered verses.
type ChapterDetail struct {
	Chapter domain.Chapter `json:"chapter"`
	Verses  []domain.Verse `json:"verses"`
}

// GetChapter returns one chapter with verses and records it as recently
// read. A history write failure is logged, never surfaced: showing the
// chapter matters more than remembering it.
func (s *LibraryService) GetChapter(ctx context.Context, chapterID int) (*ChapterDetail, error) {
	chapter, verses, err := s.provider.FetchChapterDetail(ctx, chapterID)
	if err != nil {
		return nil, mapProviderError("get chapter", err)
	}

	if err := s.store.RecentChapters.Push(ctx, chapterID); err != nil {
		s.logger.Warn("failed to record recent chapter",
			"chapter_id", chapterID, "error", err)
	} else {
		s.emitter.Emit(sse.NewEvent(sse.EventHistoryChanged,
			sse.HistoryChangedEventData{Kind: "recent-chapters"}))
	}

	return &ChapterDetail{Chapter: chapter, Verses: verses}, nil
}

// SearchRequest contains a search query.
type SearchRequest struct {
	Query    string `json:"query" validate:"required,min=2,max=200"`
	Language string `json:"language" validate:"omitempty,bcp47_language_tag"`
}

// SearchResult contains matched verses and the chapters they belong to.
type SearchResult struct {
	Verses   []domain.Verse   `json:"verses"`
	Chapters []domain.Chapter `json:"chapters"`
}

// Search runs a full-text search and records the query in the search
// history.
func (s *LibraryService) Search(ctx context.Context, req *SearchRequest) (*SearchResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, errors.Validation(err.Error())
	}

	verses, chapters, err := s.provider.Search(ctx, req.Query, req.Language)
	if err != nil {
		return nil, mapProviderError("search", err)
	}

	if err := s.store.SearchHistory.Push(ctx, req.Query); err != nil {
		s.logger.Warn("failed to record search query", "error", err)
	} else {
		s.emitter.Emit(sse.NewEvent(sse.EventHistoryChanged,
			sse.HistoryChangedEventData{Kind: "search"}))
	}

	s.logger.Debug("search completed",
		"query", req.Query, "verses", len(verses), "chapters", len(chapters))

	return &SearchResult{Verses: verses, Chapters: chapters}, nil
}

// SearchHistory returns the recent search queries, most recent first.
func (s *LibraryService) SearchHistory(ctx context.Context) ([]string, error) {
	return s.store.SearchHistory.List(ctx)
}

// ClearSearchHistory removes all recorded search queries.
func (s *LibraryService) ClearSearchHistory(ctx context.Context) error {
	if err := s.store.SearchHistory.Clear(ctx); err != nil {
		return fmt.Errorf("clear search history: %w", err)
	}
	s.emitter.Emit(sse.NewEvent(sse.EventHistoryChanged,
		sse.HistoryChangedEventData{Kind: "search"}))
	return nil
}

// RecentChapters returns recently read chapter ids, most recent first.
func (s *LibraryService) RecentChapters(ctx context.Context) ([]int, error) {
	return s.store.RecentChapters.List(ctx)
}

// mapProviderError converts provider sentinel failures to coded errors.
func mapProviderError(op string, err error) error {
	switch {
	case errors.Is(err, quran.ErrNotFound):
		return errors.NotFoundf("%s: resource not found upstream", op)
	case errors.Is(err, quran.ErrInvalidChapter):
		return errors.Validation("chapter id out of range")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return errors.Wrap(err, errors.CodeUpstream, op+" failed")
	}
}
