// Package quran implements the content provider client: a rate-limited
// HTTP client for chapter listings, verse text with translation, and
// full-text search, with recitation audio locators built per verse.
package quran

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
	// Rate limit: 4 requests per second to the provider, burst of 8.
	// Search fans out to nothing, but a chapter open issues two calls.
	defaultRPS   = 4.0
	defaultBurst = 8

	defaultTimeout = 30 * time.Second

	// DefaultBaseURL is the provider's public API root.
	DefaultBaseURL = "https://api.alquran.cloud/v1"
	// DefaultAudioBaseURL is the recitation CDN root.
	DefaultAudioBaseURL = "https://verses.quran.com/"

	// Editions: recitation text plus its English translation.
	DefaultTextEdition        = "ar.alafasy"
	DefaultTranslationEdition = "en.asad"
	// DefaultReciter and DefaultStyle select the CDN audio path.
	DefaultReciter = "AbdulBaset"
	DefaultStyle   = "Mujawwad"
)

// Config carries provider endpoints and edition choices.
// Zero fields fall back to the package defaults.
type Config struct {
	BaseURL            string
	AudioBaseURL       string
	TextEdition        string
	TranslationEdition string
	Reciter            string
	Style              string
}

// Client is a rate-limited scripture provider client.
type Client struct {
	http    *http.Client
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger
	cfg     Config
}

// New creates a provider client.
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.AudioBaseURL == "" {
		cfg.AudioBaseURL = DefaultAudioBaseURL
	}
	if cfg.TextEdition == "" {
		cfg.TextEdition = DefaultTextEdition
	}
	if cfg.TranslationEdition == "" {
		cfg.TranslationEdition = DefaultTranslationEdition
	}
	if cfg.Reciter == "" {
		cfg.Reciter = DefaultReciter
	}
	if cfg.Style == "" {
		cfg.Style = DefaultStyle
	}
	return &Client{
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter: ratelimit.New(defaultRPS, defaultBurst),
		logger:  logger,
		cfg:     cfg,
	}
}

// FetchChapters returns metadata for all chapters.
func (c *Client) FetchChapters(ctx context.Context) ([]domain.Chapter, error) {
	body, err := c.doRequest(ctx, "/surah")
	if err != nil {
		return nil, err
	}

	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse chapter list: %w", err)
	}

	chapters := make([]domain.Chapter, 0, len(resp.Data))
	for i := range resp.Data {
		chapters = append(chapters, resp.Data[i].toChapter())
	}
	return chapters, nil
}

// FetchChapterDetail returns a chapter's metadata and its ordered verses.
// Text and translation editions are fetched separately and zipped by
// position; each verse gets a recitation audio locator built from its
// scripture-wide id.
func (c *Client) FetchChapterDetail(ctx context.Context, chapterID int) (domain.Chapter, []domain.Verse, error) {
	if chapterID < 1 || chapterID > domain.ChapterCount {
		return domain.Chapter{}, nil, ErrInvalidChapter
	}

	text, err := c.fetchEdition(ctx, chapterID, c.cfg.TextEdition)
	if err != nil {
		return domain.Chapter{}, nil, err
	}
	translation, err := c.fetchEdition(ctx, chapterID, c.cfg.TranslationEdition)
	if err != nil {
		return domain.Chapter{}, nil, err
	}

	chapter := text.RawChapter.toChapter()
	verses := make([]domain.Verse, 0, len(text.Ayahs))
	for i, ayah := range text.Ayahs {
		verse := domain.Verse{
			ID:          ayah.Number,
			VerseNumber: ayah.NumberInSurah,
			Text:        ayah.Text,
			AudioURL:    c.AudioURL(ayah.Number),
		}
		if i < len(translation.Ayahs) {
			verse.Translation = translation.Ayahs[i].Text
		}
		verses = append(verses, verse)
	}
	return chapter, verses, nil
}

// Search runs a full-text search over the given translation language and
// returns matching verses plus the distinct chapters they belong to.
func (c *Client) Search(ctx context.Context, query, lang string) ([]domain.Verse, []domain.Chapter, error) {
	if lang == "" {
		lang = "en"
	}
	path := "/search/" + url.PathEscape(query) + "/all/" + url.PathEscape(lang)
	body, err := c.doRequest(ctx, path)
	if err != nil {
		return nil, nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, nil, fmt.Errorf("parse search response: %w", err)
	}

	verses := make([]domain.Verse, 0, len(resp.Data.Matches))
	var chapters []domain.Chapter
	seen := make(map[int]bool)
	for _, m := range resp.Data.Matches {
		verses = append(verses, domain.Verse{
			ID:          m.Number,
			VerseNumber: m.NumberInSurah,
			Text:        m.Text,
			Translation: m.Text,
			AudioURL:    c.AudioURL(m.Number),
			ChapterID:   m.Surah.Number,
			ChapterName: m.Surah.EnglishName,
		})
		if !seen[m.Surah.Number] {
			seen[m.Surah.Number] = true
			chapters = append(chapters, m.Surah.toChapter())
		}
	}
	return verses, chapters, nil
}

// AudioURL builds the recitation locator for a scripture-wide verse id.
func (c *Client) AudioURL(verseID int) string {
	return c.cfg.AudioBaseURL + c.cfg.Reciter + "/" + c.cfg.Style + "/mp3/" +
		strconv.Itoa(verseID) + ".mp3"
}

func (c *Client) fetchEdition(ctx context.Context, chapterID int, edition string) (*rawChapterDetail, error) {
	path := "/surah/" + strconv.Itoa(chapterID) + "/" + url.PathEscape(edition)
	body, err := c.doRequest(ctx, path)
	if err != nil {
		return nil, err
	}

	var resp chapterResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse chapter %d (%s): %w", chapterID, edition, err)
	}
	return &resp.Data, nil
}

// doRequest executes a GET against the provider with rate limiting.
func (c *Client) doRequest(ctx context.Context, path string) ([]byte, error) {
	target := c.cfg.BaseURL + path

	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if err := c.limiter.Wait(ctx, u.Host); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Recite/1.0")

	if c.logger != nil {
		c.logger.Debug("provider request", "path", path)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case http.StatusBadRequest:
		return nil, ErrBadRequest
	default:
		if resp.StatusCode >= 500 {
			return nil, ErrServer
		}
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
}
