package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/reciteapp/recite-server/internal/domain"
	"github.com/reciteapp/recite-server/internal/service"
)

func (s *Server) registerReadingRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "toggleFavoriteChapter",
		Method:      http.MethodPost,
		Path:        "/api/v1/favorites/chapters/{id}/toggle",
		Summary:     "Toggle favorite chapter",
		Description: "Adds or removes a chapter favorite; returns the resulting state",
		Tags:        []string{"Favorites"},
	}, s.handleToggleFavoriteChapter)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleFavoriteVerse",
		Method:      http.MethodPost,
		Path:        "/api/v1/favorites/chapters/{chapterID}/verses/{verseID}/toggle",
		Summary:     "Toggle favorite verse",
		Description: "Adds or removes a verse favorite; returns the resulting state",
		Tags:        []string{"Favorites"},
	}, s.handleToggleFavoriteVerse)

	huma.Register(s.api, huma.Operation{
		OperationID: "listFavoriteChapters",
		Method:      http.MethodGet,
		Path:        "/api/v1/favorites/chapters",
		Summary:     "List favorite chapters",
		Tags:        []string{"Favorites"},
	}, s.handleListFavoriteChapters)

	huma.Register(s.api, huma.Operation{
		OperationID: "listFavoriteVerses",
		Method:      http.MethodGet,
		Path:        "/api/v1/favorites/verses",
		Summary:     "List favorite verses",
		Tags:        []string{"Favorites"},
	}, s.handleListFavoriteVerses)

	huma.Register(s.api, huma.Operation{
		OperationID: "addBookmark",
		Method:      http.MethodPost,
		Path:        "/api/v1/bookmarks",
		Summary:     "Add bookmark",
		Description: "Bookmarks a verse; adding an existing bookmark is a no-op",
		Tags:        []string{"Bookmarks"},
	}, s.handleAddBookmark)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeBookmark",
		Method:      http.MethodDelete,
		Path:        "/api/v1/bookmarks/{chapterID}/{verseID}",
		Summary:     "Remove bookmark",
		Tags:        []string{"Bookmarks"},
	}, s.handleRemoveBookmark)

	huma.Register(s.api, huma.Operation{
		OperationID: "listBookmarks",
		Method:      http.MethodGet,
		Path:        "/api/v1/bookmarks",
		Summary:     "List bookmarks",
		Tags:        []string{"Bookmarks"},
	}, s.handleListBookmarks)
}

// === DTOs ===

type ChapterIDParam struct {
	ID int `path:"id" minimum:"1" maximum:"114" doc:"Chapter number"`
}

type VerseRefParams struct {
	ChapterID int `path:"chapterID" minimum:"1" maximum:"114" doc:"Chapter number"`
	VerseID   int `path:"verseID" minimum:"1" doc:"Verse id within the chapter"`
}

type ToggleResponse struct {
	Favorited bool `json:"favorited" doc:"Whether the item is a favorite after the toggle"`
}

type ToggleOutput struct {
	Body ToggleResponse
}

type FavoriteChaptersResponse struct {
	Chapters []domain.FavoriteChapter `json:"chapters" doc:"Favorite chapter entries"`
}

type FavoriteChaptersOutput struct {
	Body FavoriteChaptersResponse
}

type FavoriteVersesResponse struct {
	Verses []domain.FavoriteVerse `json:"verses" doc:"Favorite verse entries"`
}

type FavoriteVersesOutput struct {
	Body FavoriteVersesResponse
}

type AddBookmarkRequest struct {
	ChapterID int    `json:"chapter_id" minimum:"1" maximum:"114" doc:"Chapter number"`
	VerseID   int    `json:"verse_id" minimum:"1" doc:"Verse id within the chapter"`
	Notes     string `json:"notes,omitempty" maxLength:"2000" doc:"Optional note"`
}

type AddBookmarkInput struct {
	Body AddBookmarkRequest
}

type BookmarkChangeResponse struct {
	Changed bool `json:"changed" doc:"Whether the bookmark set actually changed"`
}

type BookmarkChangeOutput struct {
	Body BookmarkChangeResponse
}

type BookmarksResponse struct {
	Bookmarks []domain.Bookmark `json:"bookmarks" doc:"Bookmark entries"`
}

type BookmarksOutput struct {
	Body BookmarksResponse
}

// === Handlers ===

func (s *Server) handleToggleFavoriteChapter(ctx context.Context, input *ChapterIDParam) (*ToggleOutput, error) {
	favorited, err := s.services.Reading.ToggleFavoriteChapter(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &ToggleOutput{Body: ToggleResponse{Favorited: favorited}}, nil
}

func (s *Server) handleToggleFavoriteVerse(ctx context.Context, input *VerseRefParams) (*ToggleOutput, error) {
	favorited, err := s.services.Reading.ToggleFavoriteVerse(ctx, input.ChapterID, input.VerseID)
	if err != nil {
		return nil, err
	}
	return &ToggleOutput{Body: ToggleResponse{Favorited: favorited}}, nil
}

func (s *Server) handleListFavoriteChapters(ctx context.Context, _ *struct{}) (*FavoriteChaptersOutput, error) {
	chapters, err := s.services.Reading.FavoriteChapters(ctx)
	if err != nil {
		return nil, err
	}
	return &FavoriteChaptersOutput{Body: FavoriteChaptersResponse{Chapters: chapters}}, nil
}

func (s *Server) handleListFavoriteVerses(ctx context.Context, _ *struct{}) (*FavoriteVersesOutput, error) {
	verses, err := s.services.Reading.FavoriteVerses(ctx)
	if err != nil {
		return nil, err
	}
	return &FavoriteVersesOutput{Body: FavoriteVersesResponse{Verses: verses}}, nil
}

func (s *Server) handleAddBookmark(ctx context.Context, input *AddBookmarkInput) (*BookmarkChangeOutput, error) {
	added, err := s.services.Reading.AddBookmark(ctx, &service.BookmarkRequest{
		ChapterID: input.Body.ChapterID,
		VerseID:   input.Body.VerseID,
		Notes:     input.Body.Notes,
	})
	if err != nil {
		return nil, err
	}
	return &BookmarkChangeOutput{Body: BookmarkChangeResponse{Changed: added}}, nil
}

func (s *Server) handleRemoveBookmark(ctx context.Context, input *VerseRefParams) (*BookmarkChangeOutput, error) {
	removed, err := s.services.Reading.RemoveBookmark(ctx, input.ChapterID, input.VerseID)
	if err != nil {
		return nil, err
	}
	return &BookmarkChangeOutput{Body: BookmarkChangeResponse{Changed: removed}}, nil
}

func (s *Server) handleListBookmarks(ctx context.Context, _ *struct{}) (*BookmarksOutput, error) {
	bookmarks, err := s.services.Reading.Bookmarks(ctx)
	if err != nil {
		return nil, err
	}
	return &BookmarksOutput{Body: BookmarksResponse{Bookmarks: bookmarks}}, nil
}
