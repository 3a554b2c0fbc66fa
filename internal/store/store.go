// Package store implements the durable reading-state store: favorites,
// bookmarks, search history, recent chapters, and the settings record,
// persisted as JSON values under stable string keys in Badger.
package store

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dgraph-io/badger/v4"

	"github.com/reciteapp/recite-server/internal/domain"
)

// Store wraps a Badger database instance holding all persisted reading state.
//
// Every mutation is a single read-modify-write transaction guarded by a
// per-namespace mutex, so a rapid double invocation (double-click on a
// toggle) can never interleave and produce duplicate entries.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	locks map[string]*sync.Mutex

	// Keyed collections.
	FavoriteChapters *Collection[domain.FavoriteChapter]
	FavoriteVerses   *Collection[domain.FavoriteVerse]
	Bookmarks        *Collection[domain.Bookmark]

	// Bounded most-recent-first lists.
	SearchHistory  *RecentList[string]
	RecentChapters *RecentList[int]
}

// New creates a new Store instance with the given database path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	s := &Store{
		db:     db,
		logger: logger,
		locks:  make(map[string]*sync.Mutex, len(Namespaces)),
	}
	for _, ns := range Namespaces {
		s.locks[ns] = &sync.Mutex{}
	}

	s.FavoriteChapters = newCollection(s, KeyFavoriteChapters,
		func(e *domain.FavoriteChapter) string {
			return chapterKey(e.ChapterID)
		})
	s.FavoriteVerses = newCollection(s, KeyFavoriteVerses,
		func(e *domain.FavoriteVerse) string {
			return verseKey(e.ChapterID, e.VerseID)
		})
	s.Bookmarks = newCollection(s, KeyBookmarks,
		func(e *domain.Bookmark) string {
			return verseKey(e.ChapterID, e.VerseID)
		})

	s.SearchHistory = newRecentList[string](s, KeySearchHistory, DefaultRecentSize)
	s.RecentChapters = newRecentList[int](s, KeyRecentChapters, DefaultRecentSize)

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path)
	}

	return s, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// lock returns the mutex serializing mutations of one namespace key.
func (s *Store) lock(namespace string) *sync.Mutex {
	if mu, ok := s.locks[namespace]; ok {
		return mu
	}
	// Unknown namespaces share one mutex; only preference keys land here.
	if mu, ok := s.locks[keyCatchAll]; ok {
		return mu
	}
	mu := &sync.Mutex{}
	s.locks[keyCatchAll] = mu
	return mu
}

// getRaw reads a namespace value. Missing keys yield (nil, false, nil).
func (s *Store) getRaw(namespace string) ([]byte, bool, error) {
	var out []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(namespace))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

// setRaw writes a namespace value.
func (s *Store) setRaw(namespace string, data []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(namespace), data)
	})
}

// deleteRaw removes a namespace key. Idempotent.
func (s *Store) deleteRaw(namespace string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(namespace))
	})
}
