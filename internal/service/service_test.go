package service

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/reciteapp/recite-server/internal/domain"
	"github.com/reciteapp/recite-server/internal/sse"
	"github.com/reciteapp/recite-server/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := store.New(dbPath, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// capturingEmitter records emitted events for assertions.
type capturingEmitter struct {
	mu     sync.Mutex
	events []sse.Event
}

func (c *capturingEmitter) Emit(event sse.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *capturingEmitter) typesSeen() []sse.EventType {
	c.mu.Lock()
	defer c.mu.Unlock()
	types := make([]sse.EventType, 0, len(c.events))
	for _, e := range c.events {
		types = append(types, e.Type)
	}
	return types
}

func (c *capturingEmitter) count(eventType sse.EventType) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.events {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

// fakeProvider serves canned chapters and verses.
type fakeProvider struct {
	chapters []domain.Chapter
	verses   map[int][]domain.Verse
	err      error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		chapters: []domain.Chapter{
			{ID: 1, Name: "Al-Faatiha", TotalVerses: 3, RevelationPlace: domain.RevelationMecca},
			{ID: 2, Name: "Al-Baqara", TotalVerses: 286, RevelationPlace: domain.RevelationMedina},
		},
		verses: map[int][]domain.Verse{
			1: {
				{ID: 1, VerseNumber: 1, Text: "one", AudioURL: "https://cdn.test/1.mp3"},
				{ID: 2, VerseNumber: 2, Text: "two", AudioURL: "https://cdn.test/2.mp3"},
				{ID: 3, VerseNumber: 3, Text: "three", AudioURL: "https://cdn.test/3.mp3"},
			},
		},
	}
}

func (f *fakeProvider) FetchChapters(ctx context.Context) ([]domain.Chapter, error) {
	return f.chapters, f.err
}

func (f *fakeProvider) FetchChapterDetail(ctx context.Context, chapterID int) (domain.Chapter, []domain.Verse, error) {
	if f.err != nil {
		return domain.Chapter{}, nil, f.err
	}
	for _, c := range f.chapters {
		if c.ID == chapterID {
			return c, f.verses[chapterID], nil
		}
	}
	return domain.Chapter{}, nil, f.err
}

func (f *fakeProvider) Search(ctx context.Context, query, lang string) ([]domain.Verse, []domain.Chapter, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.verses[1][:1], f.chapters[:1], nil
}

// fakePrayerProvider returns fixed timings.
type fakePrayerProvider struct {
	times domain.PrayerTimes
	err   error
}

func (f *fakePrayerProvider) FetchPrayerTimes(ctx context.Context, latitude, longitude float64, date time.Time) (domain.PrayerTimes, error) {
	return f.times, f.err
}
