package domain

// RevelationPlace is one of the two fixed revelation categories of a chapter.
type RevelationPlace string

// Revelation places.
const (
	RevelationMecca  RevelationPlace = "mecca"
	RevelationMedina RevelationPlace = "medina"
)

// ChapterCount is the fixed number of chapters in the scripture.
const ChapterCount = 114

// VerseCount is the fixed number of verses across the whole scripture;
// the upper bound on the global verse id.
const VerseCount = 6236

// Chapter is a read-only chapter record sourced from the scripture provider.
// Cached only for the lifetime of a page view; never persisted.
type Chapter struct {
	ID              int             `json:"id"`
	Name            string          `json:"name"`
	NameArabic      string          `json:"name_arabic"`
	NameTranslation string          `json:"name_translation"`
	RevelationPlace RevelationPlace `json:"revelation_place"`
	TotalVerses     int             `json:"total_verses"`
}

// Verse is a single verse within a chapter. Immutable once fetched.
// VerseNumber is 1-based and ordered within its chapter; ID is unique
// across the whole scripture.
type Verse struct {
	ID          int    `json:"id"`
	VerseNumber int    `json:"verse_number"`
	Text        string `json:"text"`
	Translation string `json:"translation"`
	AudioURL    string `json:"audio_url"`

	// Set on search results only, where verses from many chapters mix.
	ChapterID   int    `json:"chapter_id,omitempty"`
	ChapterName string `json:"chapter_name,omitempty"`
}

// HasAudio reports whether the verse carries a resolvable audio locator.
func (v *Verse) HasAudio() bool {
	return v.AudioURL != ""
}
