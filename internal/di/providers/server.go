package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/reciteapp/recite-server/internal/api"
	"github.com/reciteapp/recite-server/internal/config"
	"github.com/reciteapp/recite-server/internal/logger"
	"github.com/reciteapp/recite-server/internal/quran"
	"github.com/reciteapp/recite-server/internal/service"
	"github.com/reciteapp/recite-server/internal/sse"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	quranClient := do.MustInvoke[*quran.Client](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Library:  do.MustInvoke[*service.LibraryService](i),
		Reading:  do.MustInvoke[*service.ReadingService](i),
		Settings: do.MustInvoke[*service.SettingsService](i),
		Playback: do.MustInvoke[*service.PlaybackService](i),
		Prayer:   do.MustInvoke[*service.PrayerService](i),
	}

	sseHandler := sse.NewHandler(sseHandle.Manager, log.Logger)
	handler := api.NewServer(storeHandle.Store, services, sseHandler, sseHandle.Manager, quranClient, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
