// Package di provides dependency injection configuration for the Recite server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/reciteapp/recite-server/internal/config"
	"github.com/reciteapp/recite-server/internal/di/providers"
	"github.com/reciteapp/recite-server/internal/logger"
	"github.com/reciteapp/recite-server/internal/prayer"
	"github.com/reciteapp/recite-server/internal/quran"
	"github.com/reciteapp/recite-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)

	// Storage and events
	do.Provide(injector, providers.ProvideSSEManager)
	do.Provide(injector, providers.ProvideStore)

	// Provider clients
	do.Provide(injector, providers.ProvideQuranClient)
	do.Provide(injector, providers.ProvidePrayerClient)

	// Business services
	do.Provide(injector, providers.ProvideLibraryService)
	do.Provide(injector, providers.ProvideReadingService)
	do.Provide(injector, providers.ProvideSettingsService)
	do.Provide(injector, providers.ProvidePlaybackService)
	do.Provide(injector, providers.ProvidePrayerService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap eagerly initializes all services in dependency order.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*quran.Client](injector)
	_ = do.MustInvoke[*prayer.Client](injector)
	_ = do.MustInvoke[*service.LibraryService](injector)
	_ = do.MustInvoke[*service.ReadingService](injector)
	_ = do.MustInvoke[*service.SettingsService](injector)
	_ = do.MustInvoke[*service.PlaybackService](injector)
	_ = do.MustInvoke[*service.PrayerService](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
