package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/reciteapp/recite-server/internal/domain"
	"github.com/reciteapp/recite-server/internal/errors"
	"github.com/reciteapp/recite-server/internal/prayer"
)

// PrayerProvider is the prayer-times provider surface.
type PrayerProvider interface {
	FetchPrayerTimes(ctx context.Context, latitude, longitude float64, date time.Time) (domain.PrayerTimes, error)
}

// PrayerService serves daily prayer times, the next-prayer window, and the
// qibla bearing.
type PrayerService struct {
	provider PrayerProvider
	logger   *slog.Logger

	// now is replaceable in tests.
	now func() time.Time
}

// NewPrayerService creates a new prayer service.
func NewPrayerService(provider PrayerProvider, logger *slog.Logger) *PrayerService {
	return &PrayerService{
		provider: provider,
		logger:   logger,
		now:      time.Now,
	}
}

// LocationRequest is a coordinate pair.
type LocationRequest struct {
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

// PrayerTimesResult is the daily prayer schedule with the derived
// next-prayer window and qibla bearing.
type PrayerTimesResult struct {
	Times          domain.PrayerTimes `json:"times"`
	NextPrayer     domain.Prayer      `json:"next_prayer"`
	TimeUntilNext  string             `json:"time_until_next"`
	QiblaDirection float64            `json:"qibla_direction"`
}

// GetPrayerTimes fetches today's prayer times for a location.
func (s *PrayerService) GetPrayerTimes(ctx context.Context, req *LocationRequest) (*PrayerTimesResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, errors.Validation(err.Error())
	}

	now := s.now()
	times, err := s.provider.FetchPrayerTimes(ctx, req.Latitude, req.Longitude, now)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUpstream, "fetch prayer times failed")
	}

	next, err := prayer.NextPrayer(times, now)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUpstream, "resolve next prayer failed")
	}
	until, err := prayer.TimeUntil(next, now)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUpstream, "resolve next prayer failed")
	}

	return &PrayerTimesResult{
		Times:          times,
		NextPrayer:     next,
		TimeUntilNext:  until.String(),
		QiblaDirection: prayer.QiblaBearing(req.Latitude, req.Longitude),
	}, nil
}

// Qibla returns the compass bearing to the Kaaba for a location.
func (s *PrayerService) Qibla(req *LocationRequest) (float64, error) {
	if err := validate.Struct(req); err != nil {
		return 0, errors.Validation(err.Error())
	}
	return prayer.QiblaBearing(req.Latitude, req.Longitude), nil
}
