package id

import (
	"fmt"
	"strconv"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Generate creates a prefixed unique ID using NanoID
// Format: prefix-nanoid (e.g., "fav-V1StGXR8_Z5jdHi6B-myT")
//
// NanoIDs are URL-friendly, compact (21 characters vs UUID's 36),
// and use a larger alphabet for better entropy per character.
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
// Use this only when you're certain the system entropy is available,
// or when failure should crash the program (e.g., during initialization).
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// Timestamped creates a prefixed ID with a leading millisecond timestamp,
// so IDs for the same prefix sort in creation order.
// Format: prefix-unixms-nanoid (e.g., "bm-1735689600000-V1StGXR8").
//
// A short 8-character NanoID suffix disambiguates IDs generated within the
// same millisecond (a rapid double-toggle, for instance).
func Timestamped(prefix string) (string, error) {
	suffix, err := gonanoid.New(8)
	if err != nil {
		return "", fmt.Errorf("generate nanoid suffix: %w", err)
	}
	ms := strconv.FormatInt(time.Now().UnixMilli(), 10)
	return prefix + "-" + ms + "-" + suffix, nil
}
