package providers

import (
	"github.com/samber/do/v2"

	"github.com/reciteapp/recite-server/internal/logger"
	"github.com/reciteapp/recite-server/internal/playback"
	"github.com/reciteapp/recite-server/internal/prayer"
	"github.com/reciteapp/recite-server/internal/quran"
	"github.com/reciteapp/recite-server/internal/service"
)

// ProvideLibraryService provides the chapter listing and search service.
func ProvideLibraryService(i do.Injector) (*service.LibraryService, error) {
	client := do.MustInvoke[*quran.Client](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewLibraryService(client, storeHandle.Store, sseHandle.Manager, log.Logger), nil
}

// ProvideReadingService provides the favorites and bookmarks service.
func ProvideReadingService(i do.Injector) (*service.ReadingService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewReadingService(storeHandle.Store, sseHandle.Manager, log.Logger), nil
}

// ProvideSettingsService provides the settings and preferences service.
func ProvideSettingsService(i do.Injector) (*service.SettingsService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSettingsService(storeHandle.Store, sseHandle.Manager, log.Logger), nil
}

// ProvidePlaybackService provides the playback sequencer service wired to
// the SSE bridge engine.
func ProvidePlaybackService(i do.Injector) (*service.PlaybackService, error) {
	library := do.MustInvoke[*service.LibraryService](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	engine := playback.NewBridgeEngine(sseHandle.Manager)
	return service.NewPlaybackService(engine, library, sseHandle.Manager, log.Logger), nil
}

// ProvidePrayerService provides the prayer times and qibla service.
func ProvidePrayerService(i do.Injector) (*service.PrayerService, error) {
	client := do.MustInvoke[*prayer.Client](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPrayerService(client, log.Logger), nil
}
