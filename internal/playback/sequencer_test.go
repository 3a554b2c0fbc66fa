package playback

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reciteapp/recite-server/internal/domain"
)

// fakeEngine records every command so tests can assert on what the
// sequencer asked for, and exposes the generation of the last load so
// tests can drive callbacks.
type fakeEngine struct {
	loads   []string
	lastGen uint64
	plays   int
	pauses  int
	seeks   []float64
	volumes []float64
	loops   []bool
}

func (f *fakeEngine) Load(locator string, gen uint64) error {
	f.loads = append(f.loads, locator)
	f.lastGen = gen
	return nil
}
func (f *fakeEngine) Play() error  { f.plays++; return nil }
func (f *fakeEngine) Pause() error { f.pauses++; return nil }
func (f *fakeEngine) Seek(seconds float64) error {
	f.seeks = append(f.seeks, seconds)
	return nil
}
func (f *fakeEngine) SetVolume(v float64) error {
	f.volumes = append(f.volumes, v)
	return nil
}
func (f *fakeEngine) SetLoop(on bool) error {
	f.loops = append(f.loops, on)
	return nil
}

// recordingObserver collects sequencer side effects.
type recordingObserver struct {
	mu         sync.Mutex
	nowPlaying []int
	completes  int
	failures   []string
	snapshots  []Snapshot
}

func (r *recordingObserver) NowPlayingChanged(_ int, verse domain.Verse, _ bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nowPlaying = append(r.nowPlaying, verse.ID)
}

func (r *recordingObserver) StateChanged(snap Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, snap)
}

func (r *recordingObserver) SequenceComplete(int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completes++
}

func (r *recordingObserver) PlaybackFailed(_ int, _ domain.Verse, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, message)
}

func testVerses() []domain.Verse {
	return []domain.Verse{
		{ID: 1, VerseNumber: 1, ChapterID: 1, AudioURL: "https://cdn.example/1/1.mp3"},
		{ID: 2, VerseNumber: 2, ChapterID: 1, AudioURL: "https://cdn.example/1/2.mp3"},
		{ID: 3, VerseNumber: 3, ChapterID: 1, AudioURL: "https://cdn.example/1/3.mp3"},
	}
}

func setupSequencer(t *testing.T) (*Sequencer, *fakeEngine, *recordingObserver) {
	t.Helper()
	engine := &fakeEngine{}
	obs := &recordingObserver{}
	seq := NewSequencer(engine, obs, nil)
	seq.SetSequence(1, testVerses())
	return seq, engine, obs
}

// startPlaying drives the load/metadata/playing handshake for the last load.
func startPlaying(t *testing.T, seq *Sequencer, engine *fakeEngine) {
	t.Helper()
	seq.HandleMetadataReady(engine.lastGen, 10)
	seq.HandlePlaying(engine.lastGen)
}

func TestLoadVerseWithAutoplay(t *testing.T) {
	seq, engine, obs := setupSequencer(t)
	verses := testVerses()

	require.NoError(t, seq.LoadVerse(verses[0], true))
	assert.Equal(t, []string{"https://cdn.example/1/1.mp3"}, engine.loads)
	assert.Equal(t, StateLoading, seq.Snapshot().State)
	assert.Equal(t, []int{1}, obs.nowPlaying)

	// Play is issued once metadata arrives.
	seq.HandleMetadataReady(engine.lastGen, 187.5)
	assert.Equal(t, 1, engine.plays)

	snap := seq.Snapshot()
	assert.Equal(t, StatePlaying, snap.State)
	assert.True(t, snap.IsPlaying)
	assert.Equal(t, 187.5, snap.Duration)
}

func TestLoadVerseWithoutAudioIsNoop(t *testing.T) {
	seq, engine, obs := setupSequencer(t)

	require.NoError(t, seq.LoadVerse(domain.Verse{ID: 9, VerseNumber: 9, ChapterID: 1}, true))
	assert.Empty(t, engine.loads)
	assert.Equal(t, StateIdle, seq.Snapshot().State)
	assert.Empty(t, obs.nowPlaying)
}

func TestLoadSameVerseIsIdempotent(t *testing.T) {
	seq, engine, _ := setupSequencer(t)
	verses := testVerses()

	require.NoError(t, seq.LoadVerse(verses[0], true))
	startPlaying(t, seq, engine)
	gen := seq.Snapshot().Generation

	// A second load of the playing verse must not tear down playback.
	require.NoError(t, seq.LoadVerse(verses[0], true))
	assert.Len(t, engine.loads, 1)
	assert.Equal(t, gen, seq.Snapshot().Generation)
	assert.Equal(t, StatePlaying, seq.Snapshot().State)
}

func TestAutoAdvanceThroughSequence(t *testing.T) {
	seq, engine, obs := setupSequencer(t)
	verses := testVerses()

	require.NoError(t, seq.LoadVerse(verses[0], true))
	startPlaying(t, seq, engine)

	seq.HandleEnded(engine.lastGen)
	assert.Equal(t, []string{
		"https://cdn.example/1/1.mp3",
		"https://cdn.example/1/2.mp3",
	}, engine.loads)
	startPlaying(t, seq, engine)

	seq.HandleEnded(engine.lastGen)
	assert.Len(t, engine.loads, 3)
	startPlaying(t, seq, engine)

	// The last verse ending with repeat off winds the sequencer down.
	seq.HandleEnded(engine.lastGen)
	snap := seq.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.False(t, snap.IsPlaying)
	assert.Zero(t, snap.VerseID)
	assert.Equal(t, 1, obs.completes)
	assert.Equal(t, []int{1, 2, 3}, obs.nowPlaying)
}

func TestRepeatLoopsWithoutAdvancing(t *testing.T) {
	seq, engine, obs := setupSequencer(t)
	verses := testVerses()

	require.NoError(t, seq.LoadVerse(verses[0], true))
	startPlaying(t, seq, engine)
	require.NoError(t, seq.SetRepeat(true))
	require.NoError(t, seq.Seek(5))

	seq.HandleEnded(engine.lastGen)

	// The engine loops the same track; no new load, no transition.
	snap := seq.Snapshot()
	assert.Len(t, engine.loads, 1)
	assert.Equal(t, StatePlaying, snap.State)
	assert.True(t, snap.IsPlaying)
	assert.Zero(t, snap.Position)
	assert.Zero(t, obs.completes)
}

func TestNextAndPreviousBoundaries(t *testing.T) {
	seq, engine, _ := setupSequencer(t)
	verses := testVerses()

	require.NoError(t, seq.LoadVerse(verses[0], true))
	startPlaying(t, seq, engine)

	// First verse: previous is a no-op, no teardown.
	require.NoError(t, seq.Previous())
	assert.Len(t, engine.loads, 1)
	assert.Equal(t, StatePlaying, seq.Snapshot().State)

	require.NoError(t, seq.Next())
	assert.Len(t, engine.loads, 2)
	startPlaying(t, seq, engine)
	require.NoError(t, seq.Next())
	assert.Len(t, engine.loads, 3)
	startPlaying(t, seq, engine)

	// Last verse: next is a no-op, no wraparound.
	require.NoError(t, seq.Next())
	assert.Len(t, engine.loads, 3)
	assert.Equal(t, 3, seq.Snapshot().VerseID)
}

func TestTransportNoopsWhenIdle(t *testing.T) {
	seq, engine, _ := setupSequencer(t)

	require.NoError(t, seq.Play())
	require.NoError(t, seq.Pause())
	require.NoError(t, seq.Toggle())
	require.NoError(t, seq.Seek(10))
	assert.Zero(t, engine.plays)
	assert.Zero(t, engine.pauses)
	assert.Empty(t, engine.seeks)
	assert.Equal(t, StateIdle, seq.Snapshot().State)
}

func TestPauseAndToggle(t *testing.T) {
	seq, engine, _ := setupSequencer(t)
	verses := testVerses()

	require.NoError(t, seq.LoadVerse(verses[0], true))
	startPlaying(t, seq, engine)

	require.NoError(t, seq.Pause())
	snap := seq.Snapshot()
	assert.Equal(t, StatePaused, snap.State)
	assert.False(t, snap.IsPlaying)
	assert.Equal(t, 1, engine.pauses)

	require.NoError(t, seq.Toggle())
	snap = seq.Snapshot()
	assert.Equal(t, StatePlaying, snap.State)
	assert.True(t, snap.IsPlaying)
}

func TestSeekClamps(t *testing.T) {
	seq, engine, _ := setupSequencer(t)
	verses := testVerses()

	require.NoError(t, seq.LoadVerse(verses[0], true))
	seq.HandleMetadataReady(engine.lastGen, 60)

	require.NoError(t, seq.Seek(-5))
	require.NoError(t, seq.Seek(30))
	require.NoError(t, seq.Seek(999))
	assert.Equal(t, []float64{0, 30, 60}, engine.seeks)
	assert.Equal(t, float64(60), seq.Snapshot().Position)
}

func TestSetVolumeClamps(t *testing.T) {
	seq, engine, _ := setupSequencer(t)

	require.NoError(t, seq.SetVolume(-0.5))
	require.NoError(t, seq.SetVolume(0.4))
	require.NoError(t, seq.SetVolume(2))
	assert.Equal(t, []float64{0, 0.4, 1}, engine.volumes)
	assert.Equal(t, float64(1), seq.Snapshot().Volume)
}

func TestStaleGenerationEventsIgnored(t *testing.T) {
	seq, engine, obs := setupSequencer(t)
	verses := testVerses()

	require.NoError(t, seq.LoadVerse(verses[0], true))
	staleGen := engine.lastGen
	startPlaying(t, seq, engine)

	// Navigate away; the first track's events are now stale.
	require.NoError(t, seq.Next())
	require.NotEqual(t, staleGen, engine.lastGen)

	seq.HandleEnded(staleGen)
	assert.Len(t, engine.loads, 2, "stale ended must not auto-advance")

	seq.HandleEngineError(staleGen, "decode failed")
	assert.Empty(t, obs.failures)
	assert.Equal(t, StateLoading, seq.Snapshot().State)
}

func TestEngineErrorGoesIdleWithoutAdvancing(t *testing.T) {
	seq, engine, obs := setupSequencer(t)
	verses := testVerses()

	require.NoError(t, seq.LoadVerse(verses[0], true))
	startPlaying(t, seq, engine)

	seq.HandleEngineError(engine.lastGen, "404 fetching audio")

	snap := seq.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.False(t, snap.IsPlaying)
	assert.Len(t, engine.loads, 1, "errors never trigger auto-advance")
	assert.Equal(t, []string{"404 fetching audio"}, obs.failures)
	assert.Zero(t, obs.completes)
}

func TestSetSequenceResetsAndInvalidates(t *testing.T) {
	seq, engine, obs := setupSequencer(t)
	verses := testVerses()

	require.NoError(t, seq.LoadVerse(verses[1], true))
	oldGen := engine.lastGen
	startPlaying(t, seq, engine)

	seq.SetSequence(2, nil)
	assert.Equal(t, StateIdle, seq.Snapshot().State)

	// Events from the closed chapter's track are stale.
	seq.HandleEnded(oldGen)
	assert.Len(t, engine.loads, 1)
	assert.Zero(t, obs.completes)
}
