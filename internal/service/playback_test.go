package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reciteapp/recite-server/internal/errors"
	"github.com/reciteapp/recite-server/internal/playback"
	"github.com/reciteapp/recite-server/internal/sse"
)

// stubEngine records engine calls made by the sequencer.
type stubEngine struct {
	loads   []string
	lastGen uint64
	plays   int
	pauses  int
}

func (e *stubEngine) Load(locator string, gen uint64) error {
	e.loads = append(e.loads, locator)
	e.lastGen = gen
	return nil
}

func (e *stubEngine) Play() error                { e.plays++; return nil }
func (e *stubEngine) Pause() error               { e.pauses++; return nil }
func (e *stubEngine) Seek(seconds float64) error { return nil }
func (e *stubEngine) SetVolume(v float64) error  { return nil }
func (e *stubEngine) SetLoop(on bool) error      { return nil }

func setupPlaybackService(t *testing.T) (*PlaybackService, *stubEngine, *capturingEmitter) {
	t.Helper()
	engine := &stubEngine{}
	emitter := &capturingEmitter{}
	library := NewLibraryService(newFakeProvider(), setupTestStore(t), emitter, testLogger())
	return NewPlaybackService(engine, library, emitter, testLogger()), engine, emitter
}

func TestOpenChapterWithoutVerse(t *testing.T) {
	svc, engine, _ := setupPlaybackService(t)

	detail, err := svc.OpenChapter(context.Background(), 1, 0)
	require.NoError(t, err)
	require.Len(t, detail.Verses, 3)

	// No verse requested, nothing loads.
	assert.Empty(t, engine.loads)
	assert.Equal(t, playback.StateIdle, svc.State().State)
}

func TestOpenChapterAtVerse(t *testing.T) {
	svc, engine, emitter := setupPlaybackService(t)

	_, err := svc.OpenChapter(context.Background(), 1, 2)
	require.NoError(t, err)

	require.Equal(t, []string{"https://cdn.test/2.mp3"}, engine.loads)
	assert.Equal(t, playback.StateLoading, svc.State().State)
	assert.Equal(t, 1, emitter.count(sse.EventNowPlayingChanged))

	// Metadata arrives, autoplay kicks in.
	require.NoError(t, svc.HandleEngineEvent(context.Background(), &EngineEventRequest{
		Type:       EngineEventMetadata,
		Generation: engine.lastGen,
		Duration:   12,
	}))
	assert.Equal(t, 1, engine.plays)
	assert.Equal(t, playback.StatePlaying, svc.State().State)
}

func TestPlayVerseOutsideOpenChapter(t *testing.T) {
	svc, _, _ := setupPlaybackService(t)

	_, err := svc.OpenChapter(context.Background(), 1, 0)
	require.NoError(t, err)

	err = svc.PlayVerse(context.Background(), 99)
	require.Error(t, err)

	var coded *errors.Error
	require.ErrorAs(t, err, &coded)
	assert.Equal(t, errors.CodeNotFound, coded.Code)
}

func TestHandleEngineEventDispatch(t *testing.T) {
	svc, engine, emitter := setupPlaybackService(t)
	ctx := context.Background()

	_, err := svc.OpenChapter(ctx, 1, 1)
	require.NoError(t, err)
	gen := engine.lastGen

	require.NoError(t, svc.HandleEngineEvent(ctx, &EngineEventRequest{
		Type: EngineEventMetadata, Generation: gen, Duration: 10,
	}))
	require.NoError(t, svc.HandleEngineEvent(ctx, &EngineEventRequest{
		Type: EngineEventTime, Generation: gen, Position: 4.5,
	}))
	assert.InDelta(t, 4.5, svc.State().Position, 0.001)

	require.NoError(t, svc.HandleEngineEvent(ctx, &EngineEventRequest{
		Type: EngineEventEnded, Generation: gen,
	}))
	// Auto-advance loaded the next verse.
	require.Len(t, engine.loads, 2)
	assert.Equal(t, "https://cdn.test/2.mp3", engine.loads[1])
	assert.Equal(t, 2, emitter.count(sse.EventNowPlayingChanged))
}

func TestHandleEngineEventStaleGeneration(t *testing.T) {
	svc, engine, _ := setupPlaybackService(t)
	ctx := context.Background()

	_, err := svc.OpenChapter(ctx, 1, 1)
	require.NoError(t, err)
	stale := engine.lastGen

	// Switching verses supersedes the first load.
	require.NoError(t, svc.PlayVerse(ctx, 3))
	require.NoError(t, svc.HandleEngineEvent(ctx, &EngineEventRequest{
		Type: EngineEventEnded, Generation: stale,
	}))

	// The stale ended event must not advance anything.
	require.Len(t, engine.loads, 2)
	assert.Equal(t, playback.StateLoading, svc.State().State)
}

func TestHandleEngineEventValidation(t *testing.T) {
	svc, _, _ := setupPlaybackService(t)

	err := svc.HandleEngineEvent(context.Background(), &EngineEventRequest{Type: "explode"})
	require.Error(t, err)

	var coded *errors.Error
	require.ErrorAs(t, err, &coded)
	assert.Equal(t, errors.CodeValidation, coded.Code)
}

func TestEngineErrorPublishesPlaybackError(t *testing.T) {
	svc, engine, emitter := setupPlaybackService(t)
	ctx := context.Background()

	_, err := svc.OpenChapter(ctx, 1, 1)
	require.NoError(t, err)

	require.NoError(t, svc.HandleEngineEvent(ctx, &EngineEventRequest{
		Type: EngineEventError, Generation: engine.lastGen, Message: "decode failed",
	}))

	assert.Equal(t, 1, emitter.count(sse.EventPlaybackError))
	assert.Equal(t, playback.StateIdle, svc.State().State)
}

func TestCloseChapterResetsState(t *testing.T) {
	svc, _, _ := setupPlaybackService(t)
	ctx := context.Background()

	_, err := svc.OpenChapter(ctx, 1, 1)
	require.NoError(t, err)

	svc.CloseChapter()

	assert.Equal(t, playback.StateIdle, svc.State().State)
	assert.Error(t, svc.PlayVerse(ctx, 1))
}
