package api

import (
	"github.com/reciteapp/recite-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Library  *service.LibraryService
	Reading  *service.ReadingService
	Settings *service.SettingsService
	Playback *service.PlaybackService
	Prayer   *service.PrayerService
}
