package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reciteapp/recite-server/internal/domain"
	"github.com/reciteapp/recite-server/internal/errors"
)

func fixedClock(hour, minute int) func() time.Time {
	return func() time.Time {
		return time.Date(2026, time.August, 31, hour, minute, 0, 0, time.UTC)
	}
}

func setupPrayerService(t *testing.T) (*PrayerService, *fakePrayerProvider) {
	t.Helper()
	provider := &fakePrayerProvider{
		times: domain.PrayerTimes{
			Fajr:    "05:12",
			Sunrise: "06:31",
			Dhuhr:   "12:58",
			Asr:     "16:28",
			Maghrib: "19:24",
			Isha:    "20:43",
			Date:    "31 Aug 2026",
		},
	}
	svc := NewPrayerService(provider, testLogger())
	return svc, provider
}

func TestGetPrayerTimes(t *testing.T) {
	svc, _ := setupPrayerService(t)
	svc.now = fixedClock(14, 0)

	// New York.
	result, err := svc.GetPrayerTimes(context.Background(), &LocationRequest{
		Latitude:  40.7128,
		Longitude: -74.0060,
	})
	require.NoError(t, err)

	assert.Equal(t, "Asr", result.NextPrayer.Name)
	assert.Equal(t, "16:28", result.NextPrayer.Time)
	assert.Equal(t, "2h28m0s", result.TimeUntilNext)
	assert.InDelta(t, 58.48, result.QiblaDirection, 0.01)
}

func TestGetPrayerTimesWrapsPastIsha(t *testing.T) {
	svc, _ := setupPrayerService(t)
	svc.now = fixedClock(22, 0)

	result, err := svc.GetPrayerTimes(context.Background(), &LocationRequest{})
	require.NoError(t, err)

	// Past Isha the next prayer is tomorrow's Fajr.
	assert.Equal(t, "Fajr", result.NextPrayer.Name)
	assert.Equal(t, "7h12m0s", result.TimeUntilNext)
}

func TestGetPrayerTimesRejectsBadCoordinates(t *testing.T) {
	svc, _ := setupPrayerService(t)

	tests := []struct {
		name string
		req  *LocationRequest
	}{
		{"latitude too high", &LocationRequest{Latitude: 91}},
		{"latitude too low", &LocationRequest{Latitude: -91}},
		{"longitude too high", &LocationRequest{Longitude: 181}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetPrayerTimes(context.Background(), tt.req)
			require.Error(t, err)

			var coded *errors.Error
			require.ErrorAs(t, err, &coded)
			assert.Equal(t, errors.CodeValidation, coded.Code)
		})
	}
}

func TestGetPrayerTimesUpstreamFailure(t *testing.T) {
	svc, provider := setupPrayerService(t)
	provider.err = assert.AnError

	_, err := svc.GetPrayerTimes(context.Background(), &LocationRequest{})
	require.Error(t, err)

	var coded *errors.Error
	require.ErrorAs(t, err, &coded)
	assert.Equal(t, errors.CodeUpstream, coded.Code)
}

func TestQibla(t *testing.T) {
	svc, _ := setupPrayerService(t)

	bearing, err := svc.Qibla(&LocationRequest{Latitude: 51.5074, Longitude: -0.1278})
	require.NoError(t, err)
	assert.InDelta(t, 118.99, bearing, 0.01)

	_, err = svc.Qibla(&LocationRequest{Latitude: 200})
	assert.Error(t, err)
}
