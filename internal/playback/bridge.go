package playback

import (
	"github.com/reciteapp/recite-server/internal/sse"
)

// Engine command names carried in engine.command events.
const (
	CommandLoad      = "load"
	CommandPlay      = "play"
	CommandPause     = "pause"
	CommandSeek      = "seek"
	CommandSetVolume = "set_volume"
	CommandSetLoop   = "set_loop"
)

// BridgeEngine drives the audio element running in the connected client.
// Each command is published as an engine.command SSE event; the client
// executes it against its audio element and reports element events back
// over HTTP, stamped with the generation of the load they belong to.
type BridgeEngine struct {
	emitter sse.Emitter

	// Last load generation, echoed on transport commands so the client can
	// discard commands for a track it no longer has loaded.
	gen uint64
}

// NewBridgeEngine creates a BridgeEngine publishing to emitter.
func NewBridgeEngine(emitter sse.Emitter) *BridgeEngine {
	return &BridgeEngine{emitter: emitter}
}

// Load implements Engine.
func (b *BridgeEngine) Load(locator string, gen uint64) error {
	b.gen = gen
	b.publish(sse.EngineCommandEventData{
		Command:    CommandLoad,
		Locator:    locator,
		Generation: gen,
	})
	return nil
}

// Play implements Engine.
func (b *BridgeEngine) Play() error {
	b.publish(sse.EngineCommandEventData{
		Command:    CommandPlay,
		Generation: b.gen,
	})
	return nil
}

// Pause implements Engine.
func (b *BridgeEngine) Pause() error {
	b.publish(sse.EngineCommandEventData{
		Command:    CommandPause,
		Generation: b.gen,
	})
	return nil
}

// Seek implements Engine.
func (b *BridgeEngine) Seek(seconds float64) error {
	b.publish(sse.EngineCommandEventData{
		Command:    CommandSeek,
		Generation: b.gen,
		Seconds:    seconds,
	})
	return nil
}

// SetVolume implements Engine.
func (b *BridgeEngine) SetVolume(v float64) error {
	b.publish(sse.EngineCommandEventData{
		Command:    CommandSetVolume,
		Generation: b.gen,
		Volume:     v,
	})
	return nil
}

// SetLoop implements Engine.
func (b *BridgeEngine) SetLoop(on bool) error {
	b.publish(sse.EngineCommandEventData{
		Command:    CommandSetLoop,
		Generation: b.gen,
		Loop:       on,
	})
	return nil
}

func (b *BridgeEngine) publish(data sse.EngineCommandEventData) {
	b.emitter.Emit(sse.NewEvent(sse.EventEngineCommand, data))
}
