package prayer

import (
	"context"
	"github.com/go-json-experiment/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/reciteapp/recite-server/internal/domain"
	"github.com/reciteapp/recite-server/internal/ratelimit"
)

const (
	// DefaultBaseURL is the prayer-times provider root.
	DefaultBaseURL = "https://api.aladhan.com/v1"

	// defaultMethod selects the ISNA calculation method, matching the
	// provider's method=2.
	defaultMethod = 2

	defaultRPS     = 2.0
	defaultBurst   = 4
	defaultTimeout = 30 * time.Second
)

// Provider errors.
var (
	ErrUnavailable = fmt.Errorf("prayer: provider unavailable")
)

// Client fetches daily prayer times.
type Client struct {
	http    *http.Client
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger
	baseURL string
	method  int
}

// NewClient creates a prayer-times client. An empty baseURL selects the
// public provider.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter: ratelimit.New(defaultRPS, defaultBurst),
		logger:  logger,
		baseURL: baseURL,
		method:  defaultMethod,
	}
}

type timingsResponse struct {
	Code   int         `json:"code"`
	Status string      `json:"status"`
	Data   timingsData `json:"data"`
}

type timingsData struct {
	Timings rawTimings `json:"timings"`
	Date    rawDate    `json:"date"`
}

type rawTimings struct {
	Fajr    string `json:"Fajr"`
	Sunrise string `json:"Sunrise"`
	Dhuhr   string `json:"Dhuhr"`
	Asr     string `json:"Asr"`
	Maghrib string `json:"Maghrib"`
	Isha    string `json:"Isha"`
}

type rawDate struct {
	Readable string `json:"readable"`
}

// FetchPrayerTimes returns the prayer times for a location and date.
func (c *Client) FetchPrayerTimes(ctx context.Context, latitude, longitude float64, date time.Time) (domain.PrayerTimes, error) {
	// The provider expects DD-MM-YYYY.
	day := fmt.Sprintf("%d-%d-%d", date.Day(), int(date.Month()), date.Year())

	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))
	query.Set("method", strconv.Itoa(c.method))

	target := c.baseURL + "/timings/" + day + "?" + query.Encode()

	u, err := url.Parse(target)
	if err != nil {
		return domain.PrayerTimes{}, fmt.Errorf("parse url: %w", err)
	}
	if err := c.limiter.Wait(ctx, u.Host); err != nil {
		return domain.PrayerTimes{}, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return domain.PrayerTimes{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Recite/1.0")

	if c.logger != nil {
		c.logger.Debug("prayer times request",
			"date", day, "latitude", latitude, "longitude", longitude)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.PrayerTimes{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.PrayerTimes{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.PrayerTimes{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var parsed timingsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return domain.PrayerTimes{}, fmt.Errorf("parse timings: %w", err)
	}

	t := parsed.Data.Timings
	return domain.PrayerTimes{
		Fajr:    t.Fajr,
		Sunrise: t.Sunrise,
		Dhuhr:   t.Dhuhr,
		Asr:     t.Asr,
		Maghrib: t.Maghrib,
		Isha:    t.Isha,
		Date:    parsed.Data.Date.Readable,
	}, nil
}
