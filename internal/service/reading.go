package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/reciteapp/recite-server/internal/domain"
	"github.com/reciteapp/recite-server/internal/errors"
	"github.com/reciteapp/recite-server/internal/id"
	"github.com/reciteapp/recite-server/internal/sse"
	"github.com/reciteapp/recite-server/internal/store"
)

// ReadingService manages favorites and bookmarks.
type ReadingService struct {
	store   *store.Store
	emitter sse.Emitter
	logger  *slog.Logger
}

// NewReadingService creates a new reading-state service.
func NewReadingService(st *store.Store, emitter sse.Emitter, logger *slog.Logger) *ReadingService {
	return &ReadingService{
		store:   st,
		emitter: emitter,
		logger:  logger,
	}
}

func validChapterID(chapterID int) error {
	if chapterID < 1 || chapterID > domain.ChapterCount {
		return errors.Validationf("chapter id %d out of range", chapterID)
	}
	return nil
}

func validVerseRef(chapterID, verseID int) error {
	if err := validChapterID(chapterID); err != nil {
		return err
	}
	if verseID < 1 {
		return errors.Validationf("verse id %d out of range", verseID)
	}
	return nil
}

// ToggleFavoriteChapter flips the favorite state of a chapter and reports
// whether it is a favorite afterwards.
func (s *ReadingService) ToggleFavoriteChapter(ctx context.Context, chapterID int) (bool, error) {
	if err := validChapterID(chapterID); err != nil {
		return false, err
	}

	present, err := s.store.FavoriteChapters.Toggle(ctx, store.ChapterKey(chapterID),
		func() (*domain.FavoriteChapter, error) {
			entryID, err := id.Timestamped("favch")
			if err != nil {
				return nil, err
			}
			return &domain.FavoriteChapter{
				ID:        entryID,
				ChapterID: chapterID,
				CreatedAt: time.Now().UTC(),
			}, nil
		})
	if err != nil {
		return false, fmt.Errorf("toggle favorite chapter: %w", err)
	}

	s.logger.Info("favorite chapter toggled", "chapter_id", chapterID, "present", present)
	s.emitter.Emit(sse.NewEvent(sse.EventFavoritesChanged,
		sse.FavoritesChangedEventData{ChapterID: chapterID, Present: present}))
	return present, nil
}

// ToggleFavoriteVerse flips the favorite state of a verse.
func (s *ReadingService) ToggleFavoriteVerse(ctx context.Context, chapterID, verseID int) (bool, error) {
	if err := validVerseRef(chapterID, verseID); err != nil {
		return false, err
	}

	present, err := s.store.FavoriteVerses.Toggle(ctx, store.VerseKey(chapterID, verseID),
		func() (*domain.FavoriteVerse, error) {
			entryID, err := id.Timestamped("favv")
			if err != nil {
				return nil, err
			}
			return &domain.FavoriteVerse{
				ID:        entryID,
				ChapterID: chapterID,
				VerseID:   verseID,
				CreatedAt: time.Now().UTC(),
			}, nil
		})
	if err != nil {
		return false, fmt.Errorf("toggle favorite verse: %w", err)
	}

	s.emitter.Emit(sse.NewEvent(sse.EventFavoritesChanged,
		sse.FavoritesChangedEventData{ChapterID: chapterID, VerseID: verseID, Present: present}))
	return present, nil
}

// FavoriteChapters lists favorite chapters in insertion order.
func (s *ReadingService) FavoriteChapters(ctx context.Context) ([]domain.FavoriteChapter, error) {
	return s.store.FavoriteChapters.List(ctx)
}

// FavoriteVerses lists favorite verses in insertion order.
func (s *ReadingService) FavoriteVerses(ctx context.Context) ([]domain.FavoriteVerse, error) {
	return s.store.FavoriteVerses.List(ctx)
}

// IsFavoriteChapter reports whether a chapter is a favorite.
func (s *ReadingService) IsFavoriteChapter(ctx context.Context, chapterID int) (bool, error) {
	return s.store.FavoriteChapters.Contains(ctx, store.ChapterKey(chapterID))
}

// IsFavoriteVerse reports whether a verse is a favorite.
func (s *ReadingService) IsFavoriteVerse(ctx context.Context, chapterID, verseID int) (bool, error) {
	return s.store.FavoriteVerses.Contains(ctx, store.VerseKey(chapterID, verseID))
}

// BookmarkRequest contains a bookmark to add.
type BookmarkRequest struct {
	ChapterID int    `json:"chapter_id" validate:"required,min=1,max=114"`
	VerseID   int    `json:"verse_id" validate:"required,min=1"`
	Notes     string `json:"notes" validate:"max=2000"`
}

// AddBookmark records a bookmark at a verse. Bookmarking an already
// bookmarked verse is a no-op reported via the returned flag.
func (s *ReadingService) AddBookmark(ctx context.Context, req *BookmarkRequest) (bool, error) {
	if err := validate.Struct(req); err != nil {
		return false, errors.Validation(err.Error())
	}

	entryID, err := id.Timestamped("bmk")
	if err != nil {
		return false, fmt.Errorf("generate bookmark id: %w", err)
	}
	added, err := s.store.Bookmarks.Add(ctx, &domain.Bookmark{
		ID:        entryID,
		ChapterID: req.ChapterID,
		VerseID:   req.VerseID,
		Notes:     req.Notes,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return false, fmt.Errorf("add bookmark: %w", err)
	}

	if added {
		s.emitter.Emit(sse.NewEvent(sse.EventBookmarksChanged,
			sse.BookmarksChangedEventData{ChapterID: req.ChapterID, VerseID: req.VerseID, Present: true}))
	}
	return added, nil
}

// RemoveBookmark deletes the bookmark at a verse, if any.
func (s *ReadingService) RemoveBookmark(ctx context.Context, chapterID, verseID int) (bool, error) {
	if err := validVerseRef(chapterID, verseID); err != nil {
		return false, err
	}

	removed, err := s.store.Bookmarks.Remove(ctx, store.VerseKey(chapterID, verseID))
	if err != nil {
		return false, fmt.Errorf("remove bookmark: %w", err)
	}

	if removed {
		s.emitter.Emit(sse.NewEvent(sse.EventBookmarksChanged,
			sse.BookmarksChangedEventData{ChapterID: chapterID, VerseID: verseID, Present: false}))
	}
	return removed, nil
}

// Bookmarks lists bookmarks in insertion order.
func (s *ReadingService) Bookmarks(ctx context.Context) ([]domain.Bookmark, error) {
	return s.store.Bookmarks.List(ctx)
}
