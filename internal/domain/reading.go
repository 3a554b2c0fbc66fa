package domain

import "time"

// FavoriteChapter marks a whole chapter as favorite.
// Membership semantics: at most one entry per chapter.
type FavoriteChapter struct {
	ID        string    `json:"id"`
	ChapterID int       `json:"chapter_id"`
	CreatedAt time.Time `json:"created_at"`
}

// FavoriteVerse marks a single verse as favorite.
// At most one entry per (chapter, verse) pair.
type FavoriteVerse struct {
	ID        string    `json:"id"`
	ChapterID int       `json:"chapter_id"`
	VerseID   int       `json:"verse_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Bookmark marks a verse as a reading position.
// At most one entry per (chapter, verse) pair.
type Bookmark struct {
	ID        string    `json:"id"`
	ChapterID int       `json:"chapter_id"`
	VerseID   int       `json:"verse_id"`
	CreatedAt time.Time `json:"created_at"`
	Notes     string    `json:"notes,omitempty"`
}

// VerseKey is the natural key of a verse-level reading-state entry.
type VerseKey struct {
	ChapterID int `json:"chapter_id"`
	VerseID   int `json:"verse_id"`
}

// Key returns the natural key of a favorite verse.
func (f *FavoriteVerse) Key() VerseKey {
	return VerseKey{ChapterID: f.ChapterID, VerseID: f.VerseID}
}

// Key returns the natural key of a bookmark.
func (b *Bookmark) Key() VerseKey {
	return VerseKey{ChapterID: b.ChapterID, VerseID: b.VerseID}
}
