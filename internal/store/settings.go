package store

import (
	"context"
	"github.com/go-json-experiment/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/reciteapp/recite-server/internal/domain"
)

// GetSettings returns the persisted settings record merged over the
// defaults. A missing or malformed value yields the defaults; individual
// out-of-range fields are normalized back to their default.
func (s *Store) GetSettings(ctx context.Context) (domain.AppSettings, error) {
	settings := domain.DefaultSettings()
	if err := ctx.Err(); err != nil {
		return settings, err
	}

	raw, found, err := s.getRaw(KeySettings)
	if err != nil {
		return settings, fmt.Errorf("read %s: %w", KeySettings, err)
	}
	if !found {
		return settings, nil
	}

	if err := json.Unmarshal(raw, &settings); err != nil {
		if s.logger != nil {
			s.logger.Warn("discarding malformed settings value", "error", err)
		}
		return domain.DefaultSettings(), nil
	}
	return normalizeSettings(settings), nil
}

// SaveSettings replaces the whole settings record.
func (s *Store) SaveSettings(ctx context.Context, settings domain.AppSettings) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	mu := s.lock(KeySettings)
	mu.Lock()
	defer mu.Unlock()

	data, err := json.Marshal(normalizeSettings(settings))
	if err != nil {
		return fmt.Errorf("marshal %s: %w", KeySettings, err)
	}
	if err := s.setRaw(KeySettings, data); err != nil {
		return fmt.Errorf("write %s: %w", KeySettings, err)
	}
	return nil
}

// UpdateSettings applies mutate to the current record and persists the
// result as one atomic read-modify-write, so concurrent single-field
// updates never clobber each other.
func (s *Store) UpdateSettings(ctx context.Context, mutate func(*domain.AppSettings)) (domain.AppSettings, error) {
	if err := ctx.Err(); err != nil {
		return domain.AppSettings{}, err
	}

	mu := s.lock(KeySettings)
	mu.Lock()
	defer mu.Unlock()

	settings := domain.DefaultSettings()
	raw, found, err := s.getRaw(KeySettings)
	if err != nil {
		return settings, fmt.Errorf("read %s: %w", KeySettings, err)
	}
	if found {
		if err := json.Unmarshal(raw, &settings); err != nil {
			if s.logger != nil {
				s.logger.Warn("discarding malformed settings value", "error", err)
			}
			settings = domain.DefaultSettings()
		}
	}
	settings = normalizeSettings(settings)

	mutate(&settings)
	settings = normalizeSettings(settings)

	data, err := json.Marshal(settings)
	if err != nil {
		return settings, fmt.Errorf("marshal %s: %w", KeySettings, err)
	}
	if err := s.setRaw(KeySettings, data); err != nil {
		return settings, fmt.Errorf("write %s: %w", KeySettings, err)
	}
	return settings, nil
}

// normalizeSettings clamps or resets fields a stored record may carry out
// of range. Empty strings fall back to the default.
func normalizeSettings(settings domain.AppSettings) domain.AppSettings {
	defaults := domain.DefaultSettings()
	if settings.Language == "" {
		settings.Language = defaults.Language
	}
	if !domain.ValidTheme(settings.Theme) {
		settings.Theme = defaults.Theme
	}
	if settings.FontSize < domain.MinFontSize {
		settings.FontSize = domain.MinFontSize
	}
	if settings.FontSize > domain.MaxFontSize {
		settings.FontSize = domain.MaxFontSize
	}
	if settings.Reciter == "" {
		settings.Reciter = defaults.Reciter
	}
	if !domain.ValidAudioQuality(settings.AudioQuality) {
		settings.AudioQuality = defaults.AudioQuality
	}
	return settings
}

// GetPreference reads a standalone string preference (language, theme).
// Missing keys yield fallback.
func (s *Store) GetPreference(ctx context.Context, key, fallback string) (string, error) {
	if err := ctx.Err(); err != nil {
		return fallback, err
	}
	raw, found, err := s.getRaw(key)
	if err != nil {
		return fallback, fmt.Errorf("read %s: %w", key, err)
	}
	if !found || len(raw) == 0 {
		return fallback, nil
	}
	return string(raw), nil
}

// SetPreference writes a standalone string preference.
func (s *Store) SetPreference(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	mu := s.lock(key)
	mu.Lock()
	defer mu.Unlock()

	if err := s.setRaw(key, []byte(value)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// ClearAllExcept deletes every key under the app- prefix except the
// preserved ones. Used by the reset operation, which keeps the language
// and theme preferences.
func (s *Store) ClearAllExcept(ctx context.Context, preserved ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Take every namespace lock in a stable order to freeze concurrent
	// mutations for the duration of the sweep.
	for _, ns := range Namespaces {
		mu := s.locks[ns]
		mu.Lock()
		defer mu.Unlock()
	}

	keep := make(map[string]bool, len(preserved))
	for _, k := range preserved {
		keep[k] = true
	}

	prefix := []byte(KeyPrefix)
	return s.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		var doomed [][]byte
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().KeyCopy(nil)
			if keep[string(key)] {
				continue
			}
			doomed = append(doomed, key)
		}
		for _, key := range doomed {
			if err := txn.Delete(key); err != nil {
				return fmt.Errorf("delete %s: %w", key, err)
			}
		}
		return nil
	})
}
