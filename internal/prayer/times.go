package prayer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/reciteapp/recite-server/internal/domain"
)

const minutesPerDay = 24 * 60

// NextPrayer returns the first prayer of the day strictly after now,
// wrapping to the first prayer (for tomorrow) once the day's prayers have
// all passed. Only local wall-clock time of now is considered.
func NextPrayer(times domain.PrayerTimes, now time.Time) (domain.Prayer, error) {
	current := now.Hour()*60 + now.Minute()

	prayers := times.Prayers()
	for _, p := range prayers {
		m, err := minutesSinceMidnight(p.Time)
		if err != nil {
			return domain.Prayer{}, err
		}
		if m > current {
			return p, nil
		}
	}
	if len(prayers) == 0 {
		return domain.Prayer{}, fmt.Errorf("no prayer times available")
	}
	return prayers[0], nil
}

// TimeUntil returns the wall-clock duration from now until the prayer,
// rolling over to tomorrow when the prayer time has already passed today.
func TimeUntil(p domain.Prayer, now time.Time) (time.Duration, error) {
	target, err := minutesSinceMidnight(p.Time)
	if err != nil {
		return 0, err
	}
	current := now.Hour()*60 + now.Minute()

	diff := target - current
	if diff < 0 {
		diff += minutesPerDay
	}
	return time.Duration(diff) * time.Minute, nil
}

// minutesSinceMidnight parses a provider "HH:MM" timing. Timings may carry
// a timezone suffix like "05:02 (EET)"; everything after the first space
// is ignored.
func minutesSinceMidnight(clock string) (int, error) {
	clock, _, _ = strings.Cut(clock, " ")
	hh, mm, ok := strings.Cut(clock, ":")
	if !ok {
		return 0, fmt.Errorf("malformed prayer time %q", clock)
	}
	hours, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("malformed prayer time %q: %w", clock, err)
	}
	minutes, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("malformed prayer time %q: %w", clock, err)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("prayer time %q out of range", clock)
	}
	return hours*60 + minutes, nil
}
