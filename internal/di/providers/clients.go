package providers

import (
	"github.com/samber/do/v2"

	"github.com/reciteapp/recite-server/internal/config"
	"github.com/reciteapp/recite-server/internal/logger"
	"github.com/reciteapp/recite-server/internal/prayer"
	"github.com/reciteapp/recite-server/internal/quran"
)

// ProvideQuranClient provides the scripture provider client.
func ProvideQuranClient(i do.Injector) (*quran.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := quran.New(quran.Config{
		BaseURL:            cfg.Provider.BaseURL,
		AudioBaseURL:       cfg.Provider.AudioBaseURL,
		TextEdition:        cfg.Provider.TextEdition,
		TranslationEdition: cfg.Provider.TranslationEdition,
		Reciter:            cfg.Provider.Reciter,
		Style:              cfg.Provider.Style,
	}, log.Logger)

	return client, nil
}

// ProvidePrayerClient provides the prayer-times provider client.
func ProvidePrayerClient(i do.Injector) (*prayer.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return prayer.NewClient(cfg.Prayer.BaseURL, log.Logger), nil
}
