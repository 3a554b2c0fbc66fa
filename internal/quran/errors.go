package quran

import "errors"

// Sentinel errors for provider failures.
var (
	ErrNotFound       = errors.New("quran: not found")
	ErrRateLimited    = errors.New("quran: rate limited by provider")
	ErrBadRequest     = errors.New("quran: bad request")
	ErrServer         = errors.New("quran: provider error")
	ErrInvalidChapter = errors.New("quran: chapter id out of range")
)
