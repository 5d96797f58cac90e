package storage

import (
	"context"
	"errors"
	"sort"
	"time"
)

// Errors returned by stores.
var (
	// ErrNotFound is returned when no plugin is stored under a key.
	ErrNotFound = errors.New("plugin not found")

	// ErrInvalidName is returned when a name sanitizes to an empty key.
	ErrInvalidName = errors.New("invalid plugin name")

	// ErrFull is returned by Save when the collection is at its limit.
	ErrFull = errors.New("collection is full")

	// ErrClosed is returned when using a closed store.
	ErrClosed = errors.New("store is closed")
)

// DefaultLimit is the number of plugins a collection holds by default.
const DefaultLimit = 20

// Entry describes one stored plugin.
type Entry struct {
	// Key is the sanitized storage key.
	Key string

	// Name is the display name given at save time.
	Name string

	Description string
	CreatedAt   time.Time
	UsageCount  int
}

// Store is one collection of plugin sources.
type Store interface {
	// Fetch returns the source stored under key.
	Fetch(ctx context.Context, key string) (string, error)

	// RecordUsage increments the usage counter of key.
	RecordUsage(ctx context.Context, key string) error

	// List returns all entries, newest first.
	List(ctx context.Context) ([]Entry, error)

	// Delete removes the plugin stored under key.
	Delete(ctx context.Context, key string) error

	// Save stores source under a key derived from name and returns the key.
	Save(ctx context.Context, name, source, description string) (string, error)
}

// SortEntries orders entries newest first, breaking ties by key.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.Key < b.Key
	})
}
