package playback

import (
	"log/slog"
	"sync"

	"github.com/reciteapp/recite-server/internal/domain"
	"github.com/reciteapp/recite-server/internal/errors"
)

// State is the sequencer's playback state.
type State string

// Playback states.
const (
	// StateIdle means no verse is loaded.
	StateIdle State = "idle"
	// StateLoading means a source is assigned but metadata is not yet available.
	StateLoading State = "loading"
	// StatePlaying means the engine is playing the current verse.
	StatePlaying State = "playing"
	// StatePaused means playback is suspended with position retained.
	StatePaused State = "paused"
	// StateEnded means the engine reported natural end-of-track and the
	// sequencer has not yet resolved the boundary.
	StateEnded State = "ended"
)

// Snapshot is a point-in-time copy of the sequencer's state.
type Snapshot struct {
	State       State   `json:"state"`
	ChapterID   int     `json:"chapter_id"`
	VerseID     int     `json:"verse_id"`
	VerseNumber int     `json:"verse_number"`
	Locator     string  `json:"locator,omitempty"`
	Position    float64 `json:"position"`
	Duration    float64 `json:"duration"`
	Volume      float64 `json:"volume"`
	Repeat      bool    `json:"repeat"`
	IsPlaying   bool    `json:"is_playing"`
	Generation  uint64  `json:"generation"`
}

// Observer receives the sequencer's side effects. Calls are made outside
// the sequencer lock, after the triggering operation completes.
type Observer interface {
	// NowPlayingChanged fires on every successful verse load.
	NowPlayingChanged(chapterID int, verse domain.Verse, autoplay bool)
	// StateChanged fires after any transition or transport change.
	StateChanged(snap Snapshot)
	// SequenceComplete fires when the last verse ends with repeat off.
	SequenceComplete(chapterID int)
	// PlaybackFailed fires on an asynchronous engine failure.
	PlaybackFailed(chapterID int, verse domain.Verse, message string)
}

// NoopObserver ignores all sequencer side effects.
type NoopObserver struct{}

func (NoopObserver) NowPlayingChanged(int, domain.Verse, bool) {}
func (NoopObserver) StateChanged(Snapshot)                     {}
func (NoopObserver) SequenceComplete(int)                      {}
func (NoopObserver) PlaybackFailed(int, domain.Verse, string)  {}

// Sequencer presents a single logical "now playing verse" over a
// one-track-at-a-time engine. All methods are safe for concurrent use.
//
// Every load increments a generation counter; engine events stamped with an
// older generation belong to a superseded track and are discarded, so a
// rapid next/next never lets the first track's events corrupt the second's
// state.
type Sequencer struct {
	mu     sync.Mutex
	engine Engine
	obs    Observer
	logger *slog.Logger

	chapterID int
	sequence  []domain.Verse

	current      domain.Verse
	currentIndex int // index into sequence, -1 when nothing is loaded
	state        State
	gen          uint64

	position float64
	duration float64
	volume   float64
	repeat   bool

	isPlaying       bool
	pendingAutoplay bool

	// Deferred observer calls, flushed after the lock is released.
	notifications []func()
}

// NewSequencer creates a sequencer over the given engine.
func NewSequencer(engine Engine, obs Observer, logger *slog.Logger) *Sequencer {
	if obs == nil {
		obs = NoopObserver{}
	}
	return &Sequencer{
		engine:       engine,
		obs:          obs,
		logger:       logger,
		currentIndex: -1,
		state:        StateIdle,
		volume:       1,
	}
}

// SetSequence replaces the ordered verse list the sequencer advances
// through and resets playback to idle. Called when a chapter is opened or
// closed; any in-flight engine events for the old track become stale.
func (s *Sequencer) SetSequence(chapterID int, verses []domain.Verse) {
	s.mu.Lock()
	s.gen++
	s.chapterID = chapterID
	s.sequence = verses
	s.clearCurrentLocked()
	s.notifyStateLocked()
	s.flushLocked()
}

// Snapshot returns a copy of the current playback state.
func (s *Sequencer) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// LoadVerse makes verse the current track, superseding any prior one.
// A verse with an empty audio locator is a silent no-op. Loading the verse
// that is already current collapses to at most a play command.
func (s *Sequencer) LoadVerse(verse domain.Verse, autoplay bool) error {
	s.mu.Lock()
	err := s.loadLocked(verse, autoplay)
	s.flushLocked()
	return err
}

// Play starts or resumes playback. No-op when nothing is loaded.
func (s *Sequencer) Play() error {
	s.mu.Lock()
	err := s.playLocked()
	s.flushLocked()
	return err
}

// Pause suspends playback. No-op when nothing is loaded.
func (s *Sequencer) Pause() error {
	s.mu.Lock()
	err := s.pauseLocked()
	s.flushLocked()
	return err
}

// Toggle pauses when playing and plays otherwise. No-op when nothing is
// loaded.
func (s *Sequencer) Toggle() error {
	s.mu.Lock()
	var err error
	if s.isPlaying {
		err = s.pauseLocked()
	} else {
		err = s.playLocked()
	}
	s.flushLocked()
	return err
}

// Seek repositions within the current track, clamped to [0, duration].
// The position is updated optimistically before engine confirmation.
func (s *Sequencer) Seek(seconds float64) error {
	s.mu.Lock()
	defer s.flushLocked()

	if s.current.ID == 0 {
		return nil
	}
	seconds = max(seconds, 0)
	seconds = min(seconds, s.duration)
	s.position = seconds
	if err := s.engine.Seek(seconds); err != nil {
		return errors.Wrap(err, errors.CodePlayback, "seek failed")
	}
	s.notifyStateLocked()
	return nil
}

// SetVolume adjusts output volume, clamped to [0, 1].
func (s *Sequencer) SetVolume(v float64) error {
	s.mu.Lock()
	defer s.flushLocked()

	v = max(v, 0)
	v = min(v, 1)
	s.volume = v
	if err := s.engine.SetVolume(v); err != nil {
		return errors.Wrap(err, errors.CodePlayback, "set volume failed")
	}
	s.notifyStateLocked()
	return nil
}

// SetRepeat enables or disables single-verse repeat. Takes effect on the
// current and all subsequent loads without restarting playback.
func (s *Sequencer) SetRepeat(on bool) error {
	s.mu.Lock()
	defer s.flushLocked()

	s.repeat = on
	if err := s.engine.SetLoop(on); err != nil {
		return errors.Wrap(err, errors.CodePlayback, "set repeat failed")
	}
	s.notifyStateLocked()
	return nil
}

// Next loads the following verse in the sequence with autoplay. No-op at
// the last verse; there is no wraparound across chapters.
func (s *Sequencer) Next() error {
	s.mu.Lock()
	defer s.flushLocked()

	if s.currentIndex < 0 || s.currentIndex+1 >= len(s.sequence) {
		return nil
	}
	return s.loadLocked(s.sequence[s.currentIndex+1], true)
}

// Previous loads the preceding verse in the sequence with autoplay. No-op
// at the first verse.
func (s *Sequencer) Previous() error {
	s.mu.Lock()
	defer s.flushLocked()

	if s.currentIndex <= 0 {
		return nil
	}
	return s.loadLocked(s.sequence[s.currentIndex-1], true)
}

// HandleMetadataReady is the engine callback for track metadata.
func (s *Sequencer) HandleMetadataReady(gen uint64, duration float64) {
	s.mu.Lock()
	defer s.flushLocked()

	if s.stale(gen, "metadata ready") {
		return
	}
	s.duration = duration
	if s.state == StateLoading && s.pendingAutoplay {
		s.pendingAutoplay = false
		if err := s.engine.Play(); err != nil {
			s.failLocked("play after load: " + err.Error())
			return
		}
		s.isPlaying = true
		s.state = StatePlaying
	}
	s.notifyStateLocked()
}

// HandleTimeUpdate is the engine callback for playback progress.
func (s *Sequencer) HandleTimeUpdate(gen uint64, position float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		return
	}
	s.position = position
}

// HandlePlaying is the engine callback confirming playback started.
func (s *Sequencer) HandlePlaying(gen uint64) {
	s.mu.Lock()
	defer s.flushLocked()

	if s.stale(gen, "playing") {
		return
	}
	s.isPlaying = true
	s.state = StatePlaying
	s.notifyStateLocked()
}

// HandlePaused is the engine callback confirming playback paused.
func (s *Sequencer) HandlePaused(gen uint64) {
	s.mu.Lock()
	defer s.flushLocked()

	if s.stale(gen, "paused") {
		return
	}
	s.isPlaying = false
	if s.state == StatePlaying {
		s.state = StatePaused
	}
	s.notifyStateLocked()
}

// HandleEnded is the engine callback for natural end-of-track. Resolves
// the boundary: loop in place when repeat is on, auto-advance when a next
// verse exists, otherwise go idle and signal sequence completion.
func (s *Sequencer) HandleEnded(gen uint64) {
	s.mu.Lock()
	defer s.flushLocked()

	if s.stale(gen, "ended") {
		return
	}

	if s.repeat {
		// The engine loops the track itself; no state transition.
		s.position = 0
		return
	}

	s.state = StateEnded
	if next, ok := s.nextPlayableLocked(); ok {
		if err := s.loadLocked(next, true); err != nil {
			if s.logger != nil {
				s.logger.Warn("auto-advance failed", "error", err)
			}
		}
		return
	}

	chapterID := s.chapterID
	s.clearCurrentLocked()
	s.notify(func() { s.obs.SequenceComplete(chapterID) })
	s.notifyStateLocked()
}

// HandleEngineError is the engine callback for an asynchronous failure
// (network error, missing resource). Leaves the sequencer idle and
// consistent; no retry, no auto-advance.
func (s *Sequencer) HandleEngineError(gen uint64, message string) {
	s.mu.Lock()
	defer s.flushLocked()

	if s.stale(gen, "error") {
		return
	}
	s.failLocked(message)
}

func (s *Sequencer) loadLocked(verse domain.Verse, autoplay bool) error {
	if !verse.HasAudio() {
		if s.logger != nil {
			s.logger.Debug("skipping verse without audio", "verse_id", verse.ID)
		}
		return nil
	}

	// Re-loading the current verse only resolves the play request.
	if s.current.ID == verse.ID && s.state != StateIdle && s.state != StateEnded {
		if autoplay && !s.isPlaying {
			return s.playLocked()
		}
		return nil
	}

	s.gen++
	s.current = verse
	s.currentIndex = s.indexOf(verse.ID)
	s.state = StateLoading
	s.position = 0
	s.duration = 0
	s.isPlaying = false
	s.pendingAutoplay = autoplay

	if err := s.engine.Load(verse.AudioURL, s.gen); err != nil {
		s.clearCurrentLocked()
		return errors.Wrap(err, errors.CodePlayback, "load verse failed")
	}
	if err := s.engine.SetLoop(s.repeat); err != nil {
		return errors.Wrap(err, errors.CodePlayback, "set repeat failed")
	}

	chapterID := s.chapterID
	s.notify(func() { s.obs.NowPlayingChanged(chapterID, verse, autoplay) })
	s.notifyStateLocked()
	return nil
}

func (s *Sequencer) playLocked() error {
	if s.current.ID == 0 {
		return nil
	}
	if s.state == StateLoading {
		s.pendingAutoplay = true
		return nil
	}
	if err := s.engine.Play(); err != nil {
		return errors.Wrap(err, errors.CodePlayback, "play failed")
	}
	s.isPlaying = true
	s.state = StatePlaying
	s.notifyStateLocked()
	return nil
}

func (s *Sequencer) pauseLocked() error {
	if s.current.ID == 0 {
		return nil
	}
	if s.state == StateLoading {
		s.pendingAutoplay = false
		return nil
	}
	if err := s.engine.Pause(); err != nil {
		return errors.Wrap(err, errors.CodePlayback, "pause failed")
	}
	s.isPlaying = false
	if s.state == StatePlaying {
		s.state = StatePaused
	}
	s.notifyStateLocked()
	return nil
}

// failLocked records an engine failure: playback stops, state drops to
// idle, and the failure is surfaced as an event.
func (s *Sequencer) failLocked(message string) {
	failed := s.current
	chapterID := s.chapterID
	s.clearCurrentLocked()
	s.notify(func() { s.obs.PlaybackFailed(chapterID, failed, message) })
	s.notifyStateLocked()
}

// nextPlayableLocked finds the next verse in the sequence carrying audio.
func (s *Sequencer) nextPlayableLocked() (domain.Verse, bool) {
	if s.currentIndex < 0 {
		return domain.Verse{}, false
	}
	for i := s.currentIndex + 1; i < len(s.sequence); i++ {
		if s.sequence[i].HasAudio() {
			return s.sequence[i], true
		}
	}
	return domain.Verse{}, false
}

func (s *Sequencer) indexOf(verseID int) int {
	for i := range s.sequence {
		if s.sequence[i].ID == verseID {
			return i
		}
	}
	return -1
}

func (s *Sequencer) clearCurrentLocked() {
	s.current = domain.Verse{}
	s.currentIndex = -1
	s.state = StateIdle
	s.position = 0
	s.duration = 0
	s.isPlaying = false
	s.pendingAutoplay = false
}

func (s *Sequencer) snapshotLocked() Snapshot {
	return Snapshot{
		State:       s.state,
		ChapterID:   s.chapterID,
		VerseID:     s.current.ID,
		VerseNumber: s.current.VerseNumber,
		Locator:     s.current.AudioURL,
		Position:    s.position,
		Duration:    s.duration,
		Volume:      s.volume,
		Repeat:      s.repeat,
		IsPlaying:   s.isPlaying,
		Generation:  s.gen,
	}
}

// stale reports whether gen belongs to a superseded load.
func (s *Sequencer) stale(gen uint64, event string) bool {
	if gen == s.gen {
		return false
	}
	if s.logger != nil {
		s.logger.Debug("ignoring stale engine event",
			"event", event, "event_gen", gen, "current_gen", s.gen)
	}
	return true
}

func (s *Sequencer) notify(fn func()) {
	s.notifications = append(s.notifications, fn)
}

func (s *Sequencer) notifyStateLocked() {
	snap := s.snapshotLocked()
	s.notify(func() { s.obs.StateChanged(snap) })
}

// flushLocked releases the lock and runs deferred observer calls. Must be
// the last statement touching sequencer state in every public method.
func (s *Sequencer) flushLocked() {
	pending := s.notifications
	s.notifications = nil
	s.mu.Unlock()
	for _, fn := range pending {
		fn()
	}
}
