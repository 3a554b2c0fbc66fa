package store

import (
	"context"
	"github.com/go-json-experiment/json"
	"fmt"
)

// Collection provides the generic operations shared by the keyed
// reading-state collections (favorite chapters, favorite verses, bookmarks).
//
// The whole collection is stored as one JSON array under its namespace key.
// A value that fails to parse is treated as "no data", never as an error.
// The natural-key invariant holds after every mutation: no two entries share
// a natural key, and duplicates found on read are dropped (first wins).
type Collection[T any] struct {
	store      *Store
	namespace  string
	naturalKey func(*T) string
}

// newCollection creates a Collection bound to a namespace key.
func newCollection[T any](s *Store, namespace string, naturalKey func(*T) string) *Collection[T] {
	return &Collection[T]{
		store:      s,
		namespace:  namespace,
		naturalKey: naturalKey,
	}
}

// decode parses the stored value, recovering to an empty slice on malformed
// data and de-duplicating defensively by natural key.
func (c *Collection[T]) decode(raw []byte) []T {
	if len(raw) == 0 {
		return nil
	}
	var entries []T
	if err := json.Unmarshal(raw, &entries); err != nil {
		if c.store.logger != nil {
			c.store.logger.Warn("discarding malformed collection value",
				"namespace", c.namespace, "error", err)
		}
		return nil
	}
	return c.dedupe(entries)
}

// dedupe keeps the first entry per natural key.
func (c *Collection[T]) dedupe(entries []T) []T {
	seen := make(map[string]bool, len(entries))
	out := entries[:0]
	for i := range entries {
		k := c.naturalKey(&entries[i])
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, entries[i])
	}
	return out
}

// read loads the current entries without taking the namespace lock.
func (c *Collection[T]) read() ([]T, error) {
	raw, _, err := c.store.getRaw(c.namespace)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.namespace, err)
	}
	return c.decode(raw), nil
}

// write replaces the stored entries.
func (c *Collection[T]) write(entries []T) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", c.namespace, err)
	}
	if err := c.store.setRaw(c.namespace, data); err != nil {
		return fmt.Errorf("write %s: %w", c.namespace, err)
	}
	return nil
}

// List returns the stored entries in insertion order.
// An absent or unreadable value yields an empty list.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.read()
}

// Contains reports whether an entry with the given natural key exists.
func (c *Collection[T]) Contains(ctx context.Context, naturalKey string) (bool, error) {
	entries, err := c.List(ctx)
	if err != nil {
		return false, err
	}
	for i := range entries {
		if c.naturalKey(&entries[i]) == naturalKey {
			return true, nil
		}
	}
	return false, nil
}

// Add appends entry unless its natural key is already present, in which
// case it is a no-op. Reports whether the entry was added.
func (c *Collection[T]) Add(ctx context.Context, entry *T) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	mu := c.store.lock(c.namespace)
	mu.Lock()
	defer mu.Unlock()

	entries, err := c.read()
	if err != nil {
		return false, err
	}

	key := c.naturalKey(entry)
	for i := range entries {
		if c.naturalKey(&entries[i]) == key {
			return false, nil
		}
	}

	entries = append(entries, *entry)
	if err := c.write(entries); err != nil {
		return false, err
	}
	return true, nil
}

// Remove deletes every entry matching the natural key.
// Reports whether anything was removed; absence is not an error.
func (c *Collection[T]) Remove(ctx context.Context, naturalKey string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	mu := c.store.lock(c.namespace)
	mu.Lock()
	defer mu.Unlock()

	entries, err := c.read()
	if err != nil {
		return false, err
	}

	kept := entries[:0]
	removed := false
	for i := range entries {
		if c.naturalKey(&entries[i]) == naturalKey {
			removed = true
			continue
		}
		kept = append(kept, entries[i])
	}
	if !removed {
		return false, nil
	}
	return true, c.write(kept)
}

// Toggle removes the entry with the given natural key if present, or adds a
// new entry built by factory if absent. The whole operation runs under the
// namespace lock, so two rapid toggles can never both add.
// Returns whether the key is present after the toggle.
func (c *Collection[T]) Toggle(ctx context.Context, naturalKey string, factory func() (*T, error)) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	mu := c.store.lock(c.namespace)
	mu.Lock()
	defer mu.Unlock()

	entries, err := c.read()
	if err != nil {
		return false, err
	}

	kept := entries[:0]
	removed := false
	for i := range entries {
		if c.naturalKey(&entries[i]) == naturalKey {
			removed = true
			continue
		}
		kept = append(kept, entries[i])
	}
	if removed {
		return false, c.write(kept)
	}

	entry, err := factory()
	if err != nil {
		return false, fmt.Errorf("build %s entry: %w", c.namespace, err)
	}
	kept = append(kept, *entry)
	if err := c.write(kept); err != nil {
		return false, err
	}
	return true, nil
}

// Clear empties the collection.
func (c *Collection[T]) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	mu := c.store.lock(c.namespace)
	mu.Lock()
	defer mu.Unlock()

	return c.store.deleteRaw(c.namespace)
}
