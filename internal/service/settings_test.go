package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reciteapp/recite-server/internal/domain"
	"github.com/reciteapp/recite-server/internal/errors"
	"github.com/reciteapp/recite-server/internal/sse"
	"github.com/reciteapp/recite-server/internal/store"
)

func ptr[T any](v T) *T { return &v }

func setupSettingsService(t *testing.T) (*SettingsService, *store.Store, *capturingEmitter) {
	t.Helper()
	st := setupTestStore(t)
	emitter := &capturingEmitter{}
	return NewSettingsService(st, emitter, testLogger()), st, emitter
}

func TestUpdateSettingsPartial(t *testing.T) {
	svc, _, emitter := setupSettingsService(t)
	ctx := context.Background()

	settings, err := svc.UpdateSettings(ctx, &SettingsUpdate{
		Theme:    ptr("dark"),
		FontSize: ptr(20),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, settings.Theme)
	assert.Equal(t, 20, settings.FontSize)

	// Fields not in the update keep their defaults.
	assert.Equal(t, "en", settings.Language)
	assert.Equal(t, "AbdulBaset", settings.Reciter)
	assert.True(t, settings.ShowTranslation)

	assert.Equal(t, 1, emitter.count(sse.EventSettingsUpdated))
}

func TestUpdateSettingsValidation(t *testing.T) {
	svc, _, _ := setupSettingsService(t)

	tests := []struct {
		name   string
		update *SettingsUpdate
	}{
		{"bad theme", &SettingsUpdate{Theme: ptr("neon")}},
		{"font too small", &SettingsUpdate{FontSize: ptr(8)}},
		{"font too large", &SettingsUpdate{FontSize: ptr(40)}},
		{"bad quality", &SettingsUpdate{AudioQuality: ptr("lossless")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateSettings(context.Background(), tt.update)
			require.Error(t, err)

			var coded *errors.Error
			require.ErrorAs(t, err, &coded)
			assert.Equal(t, errors.CodeValidation, coded.Code)
		})
	}
}

func TestLanguageAndThemePreferences(t *testing.T) {
	svc, _, _ := setupSettingsService(t)
	ctx := context.Background()

	lang, err := svc.Language(ctx)
	require.NoError(t, err)
	assert.Equal(t, "en", lang)

	require.NoError(t, svc.SetLanguage(ctx, "ar"))
	lang, err = svc.Language(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ar", lang)

	require.NoError(t, svc.SetTheme(ctx, "dark"))
	theme, err := svc.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dark", theme)

	assert.Error(t, svc.SetTheme(ctx, "neon"))
}

func TestClearDataPreservesPreferences(t *testing.T) {
	svc, st, _ := setupSettingsService(t)
	ctx := context.Background()

	require.NoError(t, svc.SetLanguage(ctx, "ar"))
	require.NoError(t, svc.SetTheme(ctx, "dark"))
	_, err := svc.UpdateSettings(ctx, &SettingsUpdate{FontSize: ptr(22)})
	require.NoError(t, err)
	require.NoError(t, st.SearchHistory.Push(ctx, "mercy"))

	require.NoError(t, svc.ClearData(ctx))

	// Settings record is back to defaults, preferences survive.
	settings, err := svc.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), settings)

	lang, err := svc.Language(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ar", lang)

	history, err := st.SearchHistory.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)
}
