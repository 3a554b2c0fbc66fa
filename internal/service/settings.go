package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/reciteapp/recite-server/internal/domain"
	"github.com/reciteapp/recite-server/internal/errors"
	"github.com/reciteapp/recite-server/internal/sse"
	"github.com/reciteapp/recite-server/internal/store"
)

// SettingsService manages the per-install settings record and the
// standalone language and theme preferences.
type SettingsService struct {
	store   *store.Store
	emitter sse.Emitter
	logger  *slog.Logger
}

// NewSettingsService creates a new settings service.
func NewSettingsService(st *store.Store, emitter sse.Emitter, logger *slog.Logger) *SettingsService {
	return &SettingsService{
		store:   st,
		emitter: emitter,
		logger:  logger,
	}
}

// GetSettings returns the current settings, falling back to defaults.
func (s *SettingsService) GetSettings(ctx context.Context) (domain.AppSettings, error) {
	return s.store.GetSettings(ctx)
}

// SettingsUpdate contains fields that can be updated. Nil fields are left
// unchanged; the whole record is rewritten atomically.
type SettingsUpdate struct {
	Language            *string `json:"language" validate:"omitempty,bcp47_language_tag"`
	Theme               *string `json:"theme" validate:"omitempty,oneof=light dark system"`
	FontSize            *int    `json:"font_size" validate:"omitempty,min=12,max=24"`
	Reciter             *string `json:"reciter" validate:"omitempty,min=1,max=100"`
	ShowTranslation     *bool   `json:"show_translation"`
	ShowTransliteration *bool   `json:"show_transliteration"`
	AudioQuality        *string `json:"audio_quality" validate:"omitempty,oneof=low medium high"`
}

// UpdateSettings applies the update and returns the resulting record.
func (s *SettingsService) UpdateSettings(ctx context.Context, update *SettingsUpdate) (domain.AppSettings, error) {
	if err := validate.Struct(update); err != nil {
		return domain.AppSettings{}, errors.Validation(err.Error())
	}

	settings, err := s.store.UpdateSettings(ctx, func(st *domain.AppSettings) {
		if update.Language != nil {
			st.Language = *update.Language
		}
		if update.Theme != nil {
			st.Theme = domain.Theme(*update.Theme)
		}
		if update.FontSize != nil {
			st.FontSize = *update.FontSize
		}
		if update.Reciter != nil {
			st.Reciter = *update.Reciter
		}
		if update.ShowTranslation != nil {
			st.ShowTranslation = *update.ShowTranslation
		}
		if update.ShowTransliteration != nil {
			st.ShowTransliteration = *update.ShowTransliteration
		}
		if update.AudioQuality != nil {
			st.AudioQuality = domain.AudioQuality(*update.AudioQuality)
		}
	})
	if err != nil {
		return domain.AppSettings{}, fmt.Errorf("update settings: %w", err)
	}

	s.logger.Info("settings updated",
		"theme", settings.Theme, "font_size", settings.FontSize, "reciter", settings.Reciter)
	s.emitter.Emit(sse.NewEvent(sse.EventSettingsUpdated,
		sse.SettingsUpdatedEventData{Settings: settings}))
	return settings, nil
}

// Language returns the standalone language preference.
func (s *SettingsService) Language(ctx context.Context) (string, error) {
	return s.store.GetPreference(ctx, store.KeyLanguage, domain.DefaultSettings().Language)
}

// SetLanguage stores the standalone language preference.
func (s *SettingsService) SetLanguage(ctx context.Context, lang string) error {
	if err := validate.Var(lang, "required,bcp47_language_tag"); err != nil {
		return errors.Validationf("invalid language %q", lang)
	}
	if err := s.store.SetPreference(ctx, store.KeyLanguage, lang); err != nil {
		return fmt.Errorf("set language: %w", err)
	}
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return err
	}
	s.emitter.Emit(sse.NewEvent(sse.EventSettingsUpdated,
		sse.SettingsUpdatedEventData{Settings: settings}))
	return nil
}

// Theme returns the standalone theme preference.
func (s *SettingsService) Theme(ctx context.Context) (string, error) {
	return s.store.GetPreference(ctx, store.KeyTheme, string(domain.DefaultSettings().Theme))
}

// SetTheme stores the standalone theme preference.
func (s *SettingsService) SetTheme(ctx context.Context, theme string) error {
	if !domain.ValidTheme(domain.Theme(theme)) {
		return errors.Validationf("invalid theme %q", theme)
	}
	if err := s.store.SetPreference(ctx, store.KeyTheme, theme); err != nil {
		return fmt.Errorf("set theme: %w", err)
	}
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return err
	}
	s.emitter.Emit(sse.NewEvent(sse.EventSettingsUpdated,
		sse.SettingsUpdatedEventData{Settings: settings}))
	return nil
}

// ClearData wipes every persisted value except the language and theme
// preferences: favorites, bookmarks, history, and the settings record.
func (s *SettingsService) ClearData(ctx context.Context) error {
	if err := s.store.ClearAllExcept(ctx, store.KeyLanguage, store.KeyTheme); err != nil {
		return fmt.Errorf("clear data: %w", err)
	}

	s.logger.Info("reading state cleared")

	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return err
	}
	s.emitter.Emit(sse.NewEvent(sse.EventSettingsUpdated,
		sse.SettingsUpdatedEventData{Settings: settings}))
	s.emitter.Emit(sse.NewEvent(sse.EventFavoritesChanged, sse.FavoritesChangedEventData{}))
	s.emitter.Emit(sse.NewEvent(sse.EventBookmarksChanged, sse.BookmarksChangedEventData{}))
	s.emitter.Emit(sse.NewEvent(sse.EventHistoryChanged, sse.HistoryChangedEventData{Kind: "search"}))
	return nil
}
