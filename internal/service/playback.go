package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/reciteapp/recite-server/internal/domain"
	"github.com/reciteapp/recite-server/internal/errors"
	"github.com/reciteapp/recite-server/internal/playback"
	"github.com/reciteapp/recite-server/internal/sse"
)

// PlaybackService owns the sequencer and the open-chapter lifecycle, and
// translates sequencer side effects into SSE events.
type PlaybackService struct {
	library *LibraryService
	emitter sse.Emitter
	logger  *slog.Logger

	sequencer *playback.Sequencer

	mu          sync.RWMutex
	openChapter int
	verses      []domain.Verse
}

// NewPlaybackService creates the playback service and its sequencer over
// the given engine.
func NewPlaybackService(engine playback.Engine, library *LibraryService, emitter sse.Emitter, logger *slog.Logger) *PlaybackService {
	s := &PlaybackService{
		library: library,
		emitter: emitter,
		logger:  logger,
	}
	s.sequencer = playback.NewSequencer(engine, s, logger)
	return s
}

// OpenChapter loads a chapter's verses into the sequencer. When
// verseNumber is positive, that verse starts playing immediately.
func (s *PlaybackService) OpenChapter(ctx context.Context, chapterID, verseNumber int) (*ChapterDetail, error) {
	detail, err := s.library.GetChapter(ctx, chapterID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.openChapter = chapterID
	s.verses = detail.Verses
	s.mu.Unlock()

	s.sequencer.SetSequence(chapterID, detail.Verses)

	if verseNumber > 0 {
		if verse, ok := s.verseByNumber(verseNumber); ok {
			if err := s.sequencer.LoadVerse(verse, true); err != nil {
				return nil, err
			}
		}
	}
	return detail, nil
}

// CloseChapter tears down playback and forgets the open chapter.
func (s *PlaybackService) CloseChapter() {
	s.mu.Lock()
	s.openChapter = 0
	s.verses = nil
	s.mu.Unlock()

	s.sequencer.SetSequence(0, nil)
}

// PlayVerse starts playback at a verse of the open chapter.
func (s *PlaybackService) PlayVerse(ctx context.Context, verseNumber int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	verse, ok := s.verseByNumber(verseNumber)
	if !ok {
		return errors.NotFoundf("verse %d not in open chapter", verseNumber)
	}
	return s.sequencer.LoadVerse(verse, true)
}

// Play resumes playback.
func (s *PlaybackService) Play() error { return s.sequencer.Play() }

// Pause suspends playback.
func (s *PlaybackService) Pause() error { return s.sequencer.Pause() }

// Toggle flips between playing and paused.
func (s *PlaybackService) Toggle() error { return s.sequencer.Toggle() }

// Next advances to the following verse.
func (s *PlaybackService) Next() error { return s.sequencer.Next() }

// Previous returns to the preceding verse.
func (s *PlaybackService) Previous() error { return s.sequencer.Previous() }

// Seek repositions within the current verse.
func (s *PlaybackService) Seek(seconds float64) error { return s.sequencer.Seek(seconds) }

// SetVolume adjusts playback volume.
func (s *PlaybackService) SetVolume(v float64) error { return s.sequencer.SetVolume(v) }

// SetRepeat enables or disables single-verse repeat.
func (s *PlaybackService) SetRepeat(on bool) error { return s.sequencer.SetRepeat(on) }

// State returns the current playback snapshot.
func (s *PlaybackService) State() playback.Snapshot { return s.sequencer.Snapshot() }

// Engine event type names accepted from clients.
const (
	EngineEventMetadata = "metadata"
	EngineEventTime     = "time"
	EngineEventPlaying  = "playing"
	EngineEventPaused   = "paused"
	EngineEventEnded    = "ended"
	EngineEventError    = "error"
)

// EngineEventRequest is an audio element event reported by a client,
// stamped with the generation the element was loaded under.
type EngineEventRequest struct {
	Type       string  `json:"type" validate:"required,oneof=metadata time playing paused ended error"`
	Generation uint64  `json:"generation"`
	Duration   float64 `json:"duration" validate:"min=0"`
	Position   float64 `json:"position" validate:"min=0"`
	Message    string  `json:"message" validate:"max=500"`
}

// HandleEngineEvent feeds a reported element event into the sequencer.
func (s *PlaybackService) HandleEngineEvent(ctx context.Context, req *EngineEventRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validate.Struct(req); err != nil {
		return errors.Validation(err.Error())
	}

	switch req.Type {
	case EngineEventMetadata:
		s.sequencer.HandleMetadataReady(req.Generation, req.Duration)
	case EngineEventTime:
		s.sequencer.HandleTimeUpdate(req.Generation, req.Position)
	case EngineEventPlaying:
		s.sequencer.HandlePlaying(req.Generation)
	case EngineEventPaused:
		s.sequencer.HandlePaused(req.Generation)
	case EngineEventEnded:
		s.sequencer.HandleEnded(req.Generation)
	case EngineEventError:
		s.sequencer.HandleEngineError(req.Generation, req.Message)
	}
	return nil
}

func (s *PlaybackService) verseByNumber(verseNumber int) (domain.Verse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.verses {
		if v.VerseNumber == verseNumber {
			return v, true
		}
	}
	return domain.Verse{}, false
}

// NowPlayingChanged implements playback.Observer.
func (s *PlaybackService) NowPlayingChanged(chapterID int, verse domain.Verse, autoplay bool) {
	s.emitter.Emit(sse.NewEvent(sse.EventNowPlayingChanged, sse.NowPlayingEventData{
		ChapterID: chapterID,
		Verse:     &verse,
		Autoplay:  autoplay,
	}))
}

// StateChanged implements playback.Observer.
func (s *PlaybackService) StateChanged(snap playback.Snapshot) {
	s.emitter.Emit(sse.NewEvent(sse.EventPlaybackState, snap))
}

// SequenceComplete implements playback.Observer.
func (s *PlaybackService) SequenceComplete(chapterID int) {
	s.logger.Info("chapter playback complete", "chapter_id", chapterID)
	s.emitter.Emit(sse.NewEvent(sse.EventSequenceComplete, sse.SequenceCompleteEventData{
		CompletedAt: time.Now(),
		ChapterID:   chapterID,
	}))
}

// PlaybackFailed implements playback.Observer.
func (s *PlaybackService) PlaybackFailed(chapterID int, verse domain.Verse, message string) {
	s.logger.Warn("playback failed",
		"chapter_id", chapterID, "verse_id", verse.ID, "error", message)
	s.emitter.Emit(sse.NewEvent(sse.EventPlaybackError, sse.PlaybackErrorEventData{
		ChapterID: chapterID,
		VerseID:   verse.ID,
		Message:   message,
	}))
}
