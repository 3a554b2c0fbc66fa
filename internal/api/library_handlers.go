package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/reciteapp/recite-server/internal/domain"
	"github.com/reciteapp/recite-server/internal/service"
)

func (s *Server) registerLibraryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listChapters",
		Method:      http.MethodGet,
		Path:        "/api/v1/chapters",
		Summary:     "List chapters",
		Description: "Returns metadata for all chapters",
		Tags:        []string{"Library"},
	}, s.handleListChapters)

	huma.Register(s.api, huma.Operation{
		OperationID: "getChapter",
		Method:      http.MethodGet,
		Path:        "/api/v1/chapters/{id}",
		Summary:     "Get chapter",
		Description: "Returns one chapter with its verses and records it as recently read",
		Tags:        []string{"Library"},
	}, s.handleGetChapter)

	huma.Register(s.api, huma.Operation{
		OperationID: "search",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search verses",
		Description: "Full-text search across verse translations",
		Tags:        []string{"Library"},
	}, s.handleSearch)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSearchHistory",
		Method:      http.MethodGet,
		Path:        "/api/v1/history/search",
		Summary:     "Get search history",
		Description: "Returns recent search queries, most recent first",
		Tags:        []string{"History"},
	}, s.handleGetSearchHistory)

	huma.Register(s.api, huma.Operation{
		OperationID: "clearSearchHistory",
		Method:      http.MethodDelete,
		Path:        "/api/v1/history/search",
		Summary:     "Clear search history",
		Description: "Removes all recorded search queries",
		Tags:        []string{"History"},
	}, s.handleClearSearchHistory)

	huma.Register(s.api, huma.Operation{
		OperationID: "getRecentChapters",
		Method:      http.MethodGet,
		Path:        "/api/v1/history/chapters",
		Summary:     "Get recent chapters",
		Description: "Returns recently read chapter ids, most recent first",
		Tags:        []string{"History"},
	}, s.handleGetRecentChapters)
}

// === DTOs ===

type ListChaptersResponse struct {
	Chapters []domain.Chapter `json:"chapters" doc:"All chapters in canonical order"`
}

type ListChaptersOutput struct {
	Body ListChaptersResponse
}

type GetChapterInput struct {
	ID int `path:"id" minimum:"1" maximum:"114" doc:"Chapter number"`
}

type GetChapterOutput struct {
	Body service.ChapterDetail
}

type SearchInput struct {
	Query    string `query:"q" minLength:"2" maxLength:"200" doc:"Search query"`
	Language string `query:"language" doc:"BCP 47 language tag"`
}

type SearchOutput struct {
	Body service.SearchResult
}

type SearchHistoryResponse struct {
	Queries []string `json:"queries" doc:"Recent queries, most recent first"`
}

type SearchHistoryOutput struct {
	Body SearchHistoryResponse
}

type RecentChaptersResponse struct {
	ChapterIDs []int `json:"chapter_ids" doc:"Recently read chapter ids, most recent first"`
}

type RecentChaptersOutput struct {
	Body RecentChaptersResponse
}

// MessageResponse is a simple success message response.
type MessageResponse struct {
	Message string `json:"message" doc:"Success message"`
}

// MessageOutput wraps a message response for huma.
type MessageOutput struct {
	Body MessageResponse
}

// === Handlers ===

func (s *Server) handleListChapters(ctx context.Context, _ *struct{}) (*ListChaptersOutput, error) {
	chapters, err := s.services.Library.ListChapters(ctx)
	if err != nil {
		return nil, err
	}
	return &ListChaptersOutput{Body: ListChaptersResponse{Chapters: chapters}}, nil
}

func (s *Server) handleGetChapter(ctx context.Context, input *GetChapterInput) (*GetChapterOutput, error) {
	detail, err := s.services.Library.GetChapter(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &GetChapterOutput{Body: *detail}, nil
}

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	result, err := s.services.Library.Search(ctx, &service.SearchRequest{
		Query:    input.Query,
		Language: input.Language,
	})
	if err != nil {
		return nil, err
	}
	return &SearchOutput{Body: *result}, nil
}

func (s *Server) handleGetSearchHistory(ctx context.Context, _ *struct{}) (*SearchHistoryOutput, error) {
	queries, err := s.services.Library.SearchHistory(ctx)
	if err != nil {
		return nil, err
	}
	return &SearchHistoryOutput{Body: SearchHistoryResponse{Queries: queries}}, nil
}

func (s *Server) handleClearSearchHistory(ctx context.Context, _ *struct{}) (*MessageOutput, error) {
	if err := s.services.Library.ClearSearchHistory(ctx); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Search history cleared"}}, nil
}

func (s *Server) handleGetRecentChapters(ctx context.Context, _ *struct{}) (*RecentChaptersOutput, error) {
	ids, err := s.services.Library.RecentChapters(ctx)
	if err != nil {
		return nil, err
	}
	return &RecentChaptersOutput{Body: RecentChaptersResponse{ChapterIDs: ids}}, nil
}
