// Package playback implements the verse playback sequencer: a single
// "now playing verse" state machine over a one-track-at-a-time audio engine,
// encoding the rules for what happens at track boundaries.
package playback

// Engine is the one-track audio engine the sequencer drives. Each Load is
// stamped with a generation; the engine must tag every event it reports
// back with the generation of the load that produced it, so events from a
// superseded track can be discarded.
//
// Engines report asynchronously through the sequencer's Handle* methods.
type Engine interface {
	// Load assigns a new audio source. Any prior track is discarded.
	Load(locator string, gen uint64) error
	// Play starts or resumes playback of the loaded track.
	Play() error
	// Pause suspends playback, keeping the position.
	Pause() error
	// Seek repositions within the loaded track.
	Seek(seconds float64) error
	// SetVolume adjusts output volume, 0 to 1.
	SetVolume(v float64) error
	// SetLoop makes the engine restart the current track on natural end
	// instead of reporting it.
	SetLoop(on bool) error
}
