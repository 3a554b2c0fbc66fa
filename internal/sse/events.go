// Package sse implements Server-Sent Events for pushing playback and
// reading-state changes to connected reader clients.
package sse

import (
	"time"

	"github.com/reciteapp/recite-server/internal/domain"
)

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventNowPlayingChanged fires on every successful verse load; the view
	// layer uses it to scroll to and highlight the verse.
	EventNowPlayingChanged EventType = "now_playing.changed"
	// EventPlaybackState carries the full playback snapshot after any
	// transition (play, pause, seek, volume, repeat).
	EventPlaybackState EventType = "playback.state"
	// EventPlaybackError reports an asynchronous engine failure.
	EventPlaybackError EventType = "playback.error"
	// EventSequenceComplete fires when the last verse of a chapter ends
	// with repeat disabled.
	EventSequenceComplete EventType = "sequence.complete"

	// EventEngineCommand instructs the client-side audio element. The
	// generation in the payload must be echoed back on element events.
	EventEngineCommand EventType = "engine.command"

	// EventFavoritesChanged fires when a favorite chapter or verse is
	// toggled.
	EventFavoritesChanged EventType = "favorites.changed"
	// EventBookmarksChanged fires when a bookmark is added or removed.
	EventBookmarksChanged EventType = "bookmarks.changed"
	// EventHistoryChanged fires when the search history or recent chapter
	// list changes.
	EventHistoryChanged EventType = "history.changed"
	// EventSettingsUpdated fires after any settings or preference write.
	EventSettingsUpdated EventType = "settings.updated"

	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
// The Data field contains the event payload as a JSON object for direct deserialization.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`
}

// Emitter queues events for delivery to connected clients. Services hold
// this interface rather than the Manager so tests can pass a no-op.
type Emitter interface {
	Emit(event Event)
}

// NoopEmitter discards all events.
type NoopEmitter struct{}

// NewNoopEmitter returns an Emitter that drops everything.
func NewNoopEmitter() *NoopEmitter { return &NoopEmitter{} }

// Emit implements Emitter.
func (*NoopEmitter) Emit(Event) {}

// NewEvent builds an event stamped with the current time.
func NewEvent(eventType EventType, data any) Event {
	return Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

// NowPlayingEventData is the data payload for now-playing events.
type NowPlayingEventData struct {
	ChapterID int           `json:"chapter_id"`
	Verse     *domain.Verse `json:"verse"`
	Autoplay  bool          `json:"autoplay"`
}

// PlaybackErrorEventData is the data payload for playback error events.
type PlaybackErrorEventData struct {
	ChapterID int    `json:"chapter_id"`
	VerseID   int    `json:"verse_id"`
	Message   string `json:"message"`
}

// SequenceCompleteEventData is the data payload for sequence completion.
type SequenceCompleteEventData struct {
	CompletedAt time.Time `json:"completed_at"`
	ChapterID   int       `json:"chapter_id"`
}

// EngineCommandEventData is the data payload for audio element commands.
// Seconds, Volume and Loop are meaningful only for their respective commands.
type EngineCommandEventData struct {
	Command    string  `json:"command"`
	Locator    string  `json:"locator,omitempty"`
	Generation uint64  `json:"generation"`
	Seconds    float64 `json:"seconds,omitempty"`
	Volume     float64 `json:"volume,omitempty"`
	Loop       bool    `json:"loop,omitempty"`
}

// FavoritesChangedEventData is the data payload for favorite toggles.
// VerseID is zero for chapter-level favorites.
type FavoritesChangedEventData struct {
	ChapterID int  `json:"chapter_id"`
	VerseID   int  `json:"verse_id,omitempty"`
	Present   bool `json:"present"`
}

// BookmarksChangedEventData is the data payload for bookmark changes.
type BookmarksChangedEventData struct {
	ChapterID int  `json:"chapter_id"`
	VerseID   int  `json:"verse_id"`
	Present   bool `json:"present"`
}

// HistoryChangedEventData is the data payload for history updates.
// Kind is "search" or "recent-chapters".
type HistoryChangedEventData struct {
	Kind string `json:"kind"`
}

// SettingsUpdatedEventData is the data payload for settings events.
type SettingsUpdatedEventData struct {
	Settings domain.AppSettings `json:"settings"`
}

// HeartbeatEventData is the data payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	return NewEvent(EventHeartbeat, HeartbeatEventData{ServerTime: time.Now()})
}
