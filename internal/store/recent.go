package store

import (
	"context"
	"github.com/go-json-experiment/json"
	"fmt"
)

// RecentList is a bounded most-recent-first list stored as one JSON array.
// Pushing an existing value moves it to the front instead of duplicating it.
// Used for the search history and recently read chapters.
type RecentList[T comparable] struct {
	store     *Store
	namespace string
	limit     int
}

func newRecentList[T comparable](s *Store, namespace string, limit int) *RecentList[T] {
	return &RecentList[T]{store: s, namespace: namespace, limit: limit}
}

func (r *RecentList[T]) decode(raw []byte) []T {
	if len(raw) == 0 {
		return nil
	}
	var entries []T
	if err := json.Unmarshal(raw, &entries); err != nil {
		if r.store.logger != nil {
			r.store.logger.Warn("discarding malformed recent list value",
				"namespace", r.namespace, "error", err)
		}
		return nil
	}
	// Drop duplicates, keeping the most recent occurrence.
	seen := make(map[T]bool, len(entries))
	out := entries[:0]
	for _, e := range entries {
		if seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	if len(out) > r.limit {
		out = out[:r.limit]
	}
	return out
}

func (r *RecentList[T]) read() ([]T, error) {
	raw, _, err := r.store.getRaw(r.namespace)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.namespace, err)
	}
	return r.decode(raw), nil
}

func (r *RecentList[T]) write(entries []T) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", r.namespace, err)
	}
	if err := r.store.setRaw(r.namespace, data); err != nil {
		return fmt.Errorf("write %s: %w", r.namespace, err)
	}
	return nil
}

// List returns the entries, most recent first.
func (r *RecentList[T]) List(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.read()
}

// Push records value as the most recent entry, removing any earlier
// occurrence and trimming the list to its limit.
func (r *RecentList[T]) Push(ctx context.Context, value T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	mu := r.store.lock(r.namespace)
	mu.Lock()
	defer mu.Unlock()

	entries, err := r.read()
	if err != nil {
		return err
	}

	next := make([]T, 0, len(entries)+1)
	next = append(next, value)
	for _, e := range entries {
		if e == value {
			continue
		}
		next = append(next, e)
	}
	if len(next) > r.limit {
		next = next[:r.limit]
	}
	return r.write(next)
}

// Clear empties the list.
func (r *RecentList[T]) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	mu := r.store.lock(r.namespace)
	mu.Lock()
	defer mu.Unlock()

	return r.store.deleteRaw(r.namespace)
}
