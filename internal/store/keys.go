package store

import "strconv"

// Persisted storage keys. Every durable value lives under the app- prefix;
// ClearAllExcept sweeps that prefix.
const (
	KeyPrefix = "app-"

	KeyFavoriteChapters = KeyPrefix + "favorite-chapters"
	KeyFavoriteVerses   = KeyPrefix + "favorite-verses"
	KeyBookmarks        = KeyPrefix + "bookmarks"
	KeySearchHistory    = KeyPrefix + "search-history"
	KeyRecentChapters   = KeyPrefix + "recent-chapters"
	KeySettings         = KeyPrefix + "settings"

	// Preference keys outside the clear-all scope.
	KeyLanguage = KeyPrefix + "language"
	KeyTheme    = KeyPrefix + "theme"

	keyCatchAll = KeyPrefix + "misc"
)

// DefaultRecentSize caps the bounded most-recent-first lists.
const DefaultRecentSize = 5

// Namespaces lists every namespace with its own mutation lock.
var Namespaces = []string{
	KeyFavoriteChapters,
	KeyFavoriteVerses,
	KeyBookmarks,
	KeySearchHistory,
	KeyRecentChapters,
	KeySettings,
	keyCatchAll,
}

// chapterKey is the natural key of a chapter-level entry.
func chapterKey(chapterID int) string {
	return strconv.Itoa(chapterID)
}

// verseKey is the natural key of a verse-level entry.
func verseKey(chapterID, verseID int) string {
	return strconv.Itoa(chapterID) + ":" + strconv.Itoa(verseID)
}

// ChapterKey exposes the chapter natural key for callers of Collection ops.
func ChapterKey(chapterID int) string {
	return chapterKey(chapterID)
}

// VerseKey exposes the verse natural key for callers of Collection ops.
func VerseKey(chapterID, verseID int) string {
	return verseKey(chapterID, verseID)
}
