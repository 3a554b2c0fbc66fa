package domain

// Theme is the visual theme preference.
type Theme string

// Themes.
const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// AudioQuality selects the recitation stream quality.
type AudioQuality string

// Audio qualities.
const (
	AudioQualityLow    AudioQuality = "low"
	AudioQualityMedium AudioQuality = "medium"
	AudioQualityHigh   AudioQuality = "high"
)

// Font size bounds for the reader view.
const (
	MinFontSize = 12
	MaxFontSize = 24
)

// AppSettings is the single per-install settings record.
// Fully replaced on every field edit; recreated with defaults when the
// stored value is absent or unreadable.
type AppSettings struct {
	Language            string       `json:"language"`
	Theme               Theme        `json:"theme"`
	FontSize            int          `json:"font_size"`
	Reciter             string       `json:"reciter"`
	ShowTranslation     bool         `json:"show_translation"`
	ShowTransliteration bool         `json:"show_transliteration"`
	AudioQuality        AudioQuality `json:"audio_quality"`
}

// DefaultSettings returns the settings used until the user changes anything.
func DefaultSettings() AppSettings {
	return AppSettings{
		Language:            "en",
		Theme:               ThemeSystem,
		FontSize:            16,
		Reciter:             "AbdulBaset",
		ShowTranslation:     true,
		ShowTransliteration: false,
		AudioQuality:        AudioQualityMedium,
	}
}

// ValidTheme reports whether t is one of the known theme modes.
func ValidTheme(t Theme) bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	}
	return false
}

// ValidAudioQuality reports whether q is one of the known quality levels.
func ValidAudioQuality(q AudioQuality) bool {
	switch q {
	case AudioQualityLow, AudioQualityMedium, AudioQualityHigh:
		return true
	}
	return false
}
