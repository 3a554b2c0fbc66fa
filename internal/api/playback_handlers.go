package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/reciteapp/recite-server/internal/playback"
	"github.com/reciteapp/recite-server/internal/service"
)

func (s *Server) registerPlaybackRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "openChapterPlayback",
		Method:      http.MethodPost,
		Path:        "/api/v1/playback/open",
		Summary:     "Open chapter for playback",
		Description: "Loads a chapter's verses into the sequencer, optionally starting at a verse",
		Tags:        []string{"Playback"},
	}, s.handleOpenChapter)

	huma.Register(s.api, huma.Operation{
		OperationID: "closeChapterPlayback",
		Method:      http.MethodPost,
		Path:        "/api/v1/playback/close",
		Summary:     "Close chapter playback",
		Tags:        []string{"Playback"},
	}, s.handleCloseChapter)

	huma.Register(s.api, huma.Operation{
		OperationID: "playVerse",
		Method:      http.MethodPost,
		Path:        "/api/v1/playback/verses/{number}/play",
		Summary:     "Play a verse",
		Description: "Starts playback at a verse of the open chapter",
		Tags:        []string{"Playback"},
	}, s.handlePlayVerse)

	huma.Register(s.api, huma.Operation{
		OperationID: "play",
		Method:      http.MethodPost,
		Path:        "/api/v1/playback/play",
		Summary:     "Resume playback",
		Tags:        []string{"Playback"},
	}, s.handlePlay)

	huma.Register(s.api, huma.Operation{
		OperationID: "pause",
		Method:      http.MethodPost,
		Path:        "/api/v1/playback/pause",
		Summary:     "Pause playback",
		Tags:        []string{"Playback"},
	}, s.handlePause)

	huma.Register(s.api, huma.Operation{
		OperationID: "togglePlayback",
		Method:      http.MethodPost,
		Path:        "/api/v1/playback/toggle",
		Summary:     "Toggle play/pause",
		Tags:        []string{"Playback"},
	}, s.handleTogglePlayback)

	huma.Register(s.api, huma.Operation{
		OperationID: "nextVerse",
		Method:      http.MethodPost,
		Path:        "/api/v1/playback/next",
		Summary:     "Advance to next verse",
		Tags:        []string{"Playback"},
	}, s.handleNext)

	huma.Register(s.api, huma.Operation{
		OperationID: "previousVerse",
		Method:      http.MethodPost,
		Path:        "/api/v1/playback/previous",
		Summary:     "Return to previous verse",
		Tags:        []string{"Playback"},
	}, s.handlePrevious)

	huma.Register(s.api, huma.Operation{
		OperationID: "seek",
		Method:      http.MethodPost,
		Path:        "/api/v1/playback/seek",
		Summary:     "Seek within current verse",
		Tags:        []string{"Playback"},
	}, s.handleSeek)

	huma.Register(s.api, huma.Operation{
		OperationID: "setVolume",
		Method:      http.MethodPost,
		Path:        "/api/v1/playback/volume",
		Summary:     "Set playback volume",
		Tags:        []string{"Playback"},
	}, s.handleSetVolume)

	huma.Register(s.api, huma.Operation{
		OperationID: "setRepeat",
		Method:      http.MethodPost,
		Path:        "/api/v1/playback/repeat",
		Summary:     "Set single-verse repeat",
		Tags:        []string{"Playback"},
	}, s.handleSetRepeat)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPlaybackState",
		Method:      http.MethodGet,
		Path:        "/api/v1/playback/state",
		Summary:     "Get playback state",
		Tags:        []string{"Playback"},
	}, s.handleGetPlaybackState)

	huma.Register(s.api, huma.Operation{
		OperationID: "reportEngineEvent",
		Method:      http.MethodPost,
		Path:        "/api/v1/playback/engine-events",
		Summary:     "Report engine event",
		Description: "Feeds an audio element event from a client into the sequencer",
		Tags:        []string{"Playback"},
	}, s.handleReportEngineEvent)
}

// === DTOs ===

type OpenChapterRequest struct {
	ChapterID   int `json:"chapter_id" minimum:"1" maximum:"114" doc:"Chapter number"`
	VerseNumber int `json:"verse_number,omitempty" minimum:"0" doc:"Verse to start playing, 0 for none"`
}

type OpenChapterInput struct {
	Body OpenChapterRequest
}

type OpenChapterOutput struct {
	Body service.ChapterDetail
}

type PlayVerseInput struct {
	Number int `path:"number" minimum:"1" doc:"Verse number within the open chapter"`
}

type SeekRequest struct {
	Seconds float64 `json:"seconds" minimum:"0" doc:"Target position in seconds"`
}

type SeekInput struct {
	Body SeekRequest
}

type VolumeRequest struct {
	Volume float64 `json:"volume" minimum:"0" maximum:"1" doc:"Volume in [0, 1]"`
}

type VolumeInput struct {
	Body VolumeRequest
}

type RepeatRequest struct {
	Enabled bool `json:"enabled" doc:"Whether to loop the current verse"`
}

type RepeatInput struct {
	Body RepeatRequest
}

type PlaybackStateOutput struct {
	Body playback.Snapshot
}

type EngineEventInput struct {
	Body service.EngineEventRequest
}

// === Handlers ===

func (s *Server) handleOpenChapter(ctx context.Context, input *OpenChapterInput) (*OpenChapterOutput, error) {
	detail, err := s.services.Playback.OpenChapter(ctx, input.Body.ChapterID, input.Body.VerseNumber)
	if err != nil {
		return nil, err
	}
	return &OpenChapterOutput{Body: *detail}, nil
}

func (s *Server) handleCloseChapter(_ context.Context, _ *struct{}) (*MessageOutput, error) {
	s.services.Playback.CloseChapter()
	return &MessageOutput{Body: MessageResponse{Message: "Playback closed"}}, nil
}

func (s *Server) handlePlayVerse(ctx context.Context, input *PlayVerseInput) (*PlaybackStateOutput, error) {
	if err := s.services.Playback.PlayVerse(ctx, input.Number); err != nil {
		return nil, err
	}
	return s.playbackState()
}

func (s *Server) handlePlay(_ context.Context, _ *struct{}) (*PlaybackStateOutput, error) {
	if err := s.services.Playback.Play(); err != nil {
		return nil, err
	}
	return s.playbackState()
}

func (s *Server) handlePause(_ context.Context, _ *struct{}) (*PlaybackStateOutput, error) {
	if err := s.services.Playback.Pause(); err != nil {
		return nil, err
	}
	return s.playbackState()
}

func (s *Server) handleTogglePlayback(_ context.Context, _ *struct{}) (*PlaybackStateOutput, error) {
	if err := s.services.Playback.Toggle(); err != nil {
		return nil, err
	}
	return s.playbackState()
}

func (s *Server) handleNext(_ context.Context, _ *struct{}) (*PlaybackStateOutput, error) {
	if err := s.services.Playback.Next(); err != nil {
		return nil, err
	}
	return s.playbackState()
}

func (s *Server) handlePrevious(_ context.Context, _ *struct{}) (*PlaybackStateOutput, error) {
	if err := s.services.Playback.Previous(); err != nil {
		return nil, err
	}
	return s.playbackState()
}

func (s *Server) handleSeek(_ context.Context, input *SeekInput) (*PlaybackStateOutput, error) {
	if err := s.services.Playback.Seek(input.Body.Seconds); err != nil {
		return nil, err
	}
	return s.playbackState()
}

func (s *Server) handleSetVolume(_ context.Context, input *VolumeInput) (*PlaybackStateOutput, error) {
	if err := s.services.Playback.SetVolume(input.Body.Volume); err != nil {
		return nil, err
	}
	return s.playbackState()
}

func (s *Server) handleSetRepeat(_ context.Context, input *RepeatInput) (*PlaybackStateOutput, error) {
	if err := s.services.Playback.SetRepeat(input.Body.Enabled); err != nil {
		return nil, err
	}
	return s.playbackState()
}

func (s *Server) handleGetPlaybackState(_ context.Context, _ *struct{}) (*PlaybackStateOutput, error) {
	return s.playbackState()
}

func (s *Server) handleReportEngineEvent(ctx context.Context, input *EngineEventInput) (*PlaybackStateOutput, error) {
	if err := s.services.Playback.HandleEngineEvent(ctx, &input.Body); err != nil {
		return nil, err
	}
	return s.playbackState()
}

func (s *Server) playbackState() (*PlaybackStateOutput, error) {
	return &PlaybackStateOutput{Body: s.services.Playback.State()}, nil
}
