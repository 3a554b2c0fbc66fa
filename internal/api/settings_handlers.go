package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/reciteapp/recite-server/internal/domain"
	"github.com/reciteapp/recite-server/internal/service"
)

func (s *Server) registerSettingsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getSettings",
		Method:      http.MethodGet,
		Path:        "/api/v1/settings",
		Summary:     "Get settings",
		Description: "Returns the settings record, with defaults where unset",
		Tags:        []string{"Settings"},
	}, s.handleGetSettings)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateSettings",
		Method:      http.MethodPatch,
		Path:        "/api/v1/settings",
		Summary:     "Update settings",
		Description: "Applies a partial settings update and returns the full record",
		Tags:        []string{"Settings"},
	}, s.handleUpdateSettings)

	huma.Register(s.api, huma.Operation{
		OperationID: "getLanguage",
		Method:      http.MethodGet,
		Path:        "/api/v1/settings/language",
		Summary:     "Get language preference",
		Tags:        []string{"Settings"},
	}, s.handleGetLanguage)

	huma.Register(s.api, huma.Operation{
		OperationID: "setLanguage",
		Method:      http.MethodPut,
		Path:        "/api/v1/settings/language",
		Summary:     "Set language preference",
		Tags:        []string{"Settings"},
	}, s.handleSetLanguage)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTheme",
		Method:      http.MethodGet,
		Path:        "/api/v1/settings/theme",
		Summary:     "Get theme preference",
		Tags:        []string{"Settings"},
	}, s.handleGetTheme)

	huma.Register(s.api, huma.Operation{
		OperationID: "setTheme",
		Method:      http.MethodPut,
		Path:        "/api/v1/settings/theme",
		Summary:     "Set theme preference",
		Tags:        []string{"Settings"},
	}, s.handleSetTheme)

	huma.Register(s.api, huma.Operation{
		OperationID: "clearData",
		Method:      http.MethodPost,
		Path:        "/api/v1/data/clear",
		Summary:     "Clear stored data",
		Description: "Wipes favorites, bookmarks, history, and settings; keeps language and theme",
		Tags:        []string{"Settings"},
	}, s.handleClearData)
}

// === DTOs ===

type SettingsOutput struct {
	Body domain.AppSettings
}

type UpdateSettingsInput struct {
	Body service.SettingsUpdate
}

type LanguageResponse struct {
	Language string `json:"language" doc:"BCP 47 language tag"`
}

type LanguageOutput struct {
	Body LanguageResponse
}

type SetLanguageInput struct {
	Body LanguageResponse
}

type ThemeResponse struct {
	Theme string `json:"theme" doc:"One of light, dark, system"`
}

type ThemeOutput struct {
	Body ThemeResponse
}

type SetThemeInput struct {
	Body ThemeResponse
}

// === Handlers ===

func (s *Server) handleGetSettings(ctx context.Context, _ *struct{}) (*SettingsOutput, error) {
	settings, err := s.services.Settings.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	return &SettingsOutput{Body: settings}, nil
}

func (s *Server) handleUpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*SettingsOutput, error) {
	settings, err := s.services.Settings.UpdateSettings(ctx, &input.Body)
	if err != nil {
		return nil, err
	}
	return &SettingsOutput{Body: settings}, nil
}

func (s *Server) handleGetLanguage(ctx context.Context, _ *struct{}) (*LanguageOutput, error) {
	lang, err := s.services.Settings.Language(ctx)
	if err != nil {
		return nil, err
	}
	return &LanguageOutput{Body: LanguageResponse{Language: lang}}, nil
}

func (s *Server) handleSetLanguage(ctx context.Context, input *SetLanguageInput) (*LanguageOutput, error) {
	if err := s.services.Settings.SetLanguage(ctx, input.Body.Language); err != nil {
		return nil, err
	}
	return &LanguageOutput{Body: LanguageResponse{Language: input.Body.Language}}, nil
}

func (s *Server) handleGetTheme(ctx context.Context, _ *struct{}) (*ThemeOutput, error) {
	theme, err := s.services.Settings.Theme(ctx)
	if err != nil {
		return nil, err
	}
	return &ThemeOutput{Body: ThemeResponse{Theme: theme}}, nil
}

func (s *Server) handleSetTheme(ctx context.Context, input *SetThemeInput) (*ThemeOutput, error) {
	if err := s.services.Settings.SetTheme(ctx, input.Body.Theme); err != nil {
		return nil, err
	}
	return &ThemeOutput{Body: ThemeResponse{Theme: input.Body.Theme}}, nil
}

func (s *Server) handleClearData(ctx context.Context, _ *struct{}) (*MessageOutput, error) {
	if err := s.services.Settings.ClearData(ctx); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Stored data cleared"}}, nil
}
