package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/gamemaker/internal/logging"
)

const (
	// MetadataFile is the name of the metadata document in a collection
	// directory.
	MetadataFile = "metadata.json"

	// SourceExt is the extension of stored plugin sources.
	SourceExt = ".lua"
)

// Metadata record fields.
const (
	fieldName        = "name"
	fieldDescription = "description"
	fieldCreated     = "created"
	fieldPlayed      = "played"
)

// FileStore is a Store backed by a directory holding one source file per
// plugin and a metadata.json document keyed by plugin key.
//
// The metadata document is cached in memory. Watch marks the cache stale
// when the document changes on disk so the next operation re-reads it.
type FileStore struct {
	mu     sync.Mutex
	dir    string
	meta   []byte
	limit  int
	now    func() time.Time
	logger *logging.Logger

	stale   atomic.Bool
	watcher *fsnotify.Watcher
	closed  bool
}

// FileOption configures a FileStore.
type FileOption func(*FileStore)

// WithLimit sets the maximum number of stored plugins. Zero or less means
// no limit.
func WithLimit(n int) FileOption {
	return func(s *FileStore) { s.limit = n }
}

// WithLogger sets the store logger.
func WithLogger(l *logging.Logger) FileOption {
	return func(s *FileStore) { s.logger = logging.OrNull(l).WithComponent("storage") }
}

// WithNow sets the clock used for creation times.
func WithNow(now func() time.Time) FileOption {
	return func(s *FileStore) { s.now = now }
}

// OpenFileStore opens the collection in dir, creating the directory if
// needed. A missing or unreadable metadata document starts empty.
func OpenFileStore(dir string, opts ...FileOption) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("storage directory is required")
	}
	s := &FileStore{
		dir:    filepath.Clean(dir),
		limit:  DefaultLimit,
		now:    time.Now,
		logger: logging.NullLogger,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	s.reload()
	s.logger.Info("storage opened at %s: %d entries", s.dir, s.countLocked())
	return s, nil
}

// Dir returns the collection directory.
func (s *FileStore) Dir() string { return s.dir }

// Stale reports whether the metadata changed on disk since it was read.
func (s *FileStore) Stale() bool { return s.stale.Load() }

// Fetch implements Store.
func (s *FileStore) Fetch(ctx context.Context, key string) (string, error) {
	if err := s.begin(ctx); err != nil {
		return "", err
	}
	defer s.mu.Unlock()

	if !ValidKey(key) {
		return "", fmt.Errorf("fetch %q: %w", key, ErrNotFound)
	}
	data, err := os.ReadFile(s.sourcePath(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("fetch %q: %w", key, ErrNotFound)
		}
		return "", fmt.Errorf("fetch %q: %w", key, err)
	}
	s.logger.Debug("fetched %s: %d bytes", key, len(data))
	return string(data), nil
}

// RecordUsage implements Store.
func (s *FileStore) RecordUsage(ctx context.Context, key string) error {
	if err := s.begin(ctx); err != nil {
		return err
	}
	defer s.mu.Unlock()

	if !ValidKey(key) || !gjson.GetBytes(s.meta, key).Exists() {
		return fmt.Errorf("record usage %q: %w", key, ErrNotFound)
	}
	played := s.field(key, fieldPlayed)
	next := played.Int() + 1
	meta, err := sjson.SetBytes(s.meta, key+"."+fieldPlayed, next)
	if err != nil {
		return fmt.Errorf("record usage %q: %w", key, err)
	}
	if err := s.writeMeta(meta); err != nil {
		return err
	}
	s.logger.Debug("usage of %s: %d -> %d", key, played.Int(), next)
	return nil
}

// List implements Store.
func (s *FileStore) List(ctx context.Context) ([]Entry, error) {
	if err := s.begin(ctx); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	var entries []Entry
	gjson.ParseBytes(s.meta).ForEach(func(k, v gjson.Result) bool {
		if !v.IsObject() {
			return true
		}
		key := k.String()
		name := v.Get(fieldName).String()
		if name == "" {
			name = key
		}
		entries = append(entries, Entry{
			Key:         key,
			Name:        name,
			Description: v.Get(fieldDescription).String(),
			CreatedAt:   fromSeconds(v.Get(fieldCreated).Float()),
			UsageCount:  int(v.Get(fieldPlayed).Int()),
		})
		return true
	})
	SortEntries(entries)
	return entries, nil
}

// Delete implements Store.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := s.begin(ctx); err != nil {
		return err
	}
	defer s.mu.Unlock()

	if !ValidKey(key) {
		return fmt.Errorf("delete %q: %w", key, ErrNotFound)
	}
	inMeta := gjson.GetBytes(s.meta, key).Exists()
	err := os.Remove(s.sourcePath(key))
	switch {
	case errors.Is(err, fs.ErrNotExist) && !inMeta:
		return fmt.Errorf("delete %q: %w", key, ErrNotFound)
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("delete %q: %w", key, err)
	}

	if inMeta {
		meta, err := sjson.DeleteBytes(s.meta, key)
		if err != nil {
			return fmt.Errorf("delete %q: %w", key, err)
		}
		if err := s.writeMeta(meta); err != nil {
			return err
		}
	}
	s.logger.Info("deleted %s", key)
	return nil
}

// Save implements Store.
func (s *FileStore) Save(ctx context.Context, name, source, description string) (string, error) {
	if err := s.begin(ctx); err != nil {
		return "", err
	}
	defer s.mu.Unlock()

	base := Sanitize(name)
	if base == "" {
		return "", fmt.Errorf("save %q: %w", name, ErrInvalidName)
	}
	if s.limit > 0 && s.countLocked() >= s.limit {
		return "", fmt.Errorf("save %q: %w (%d entries)", name, ErrFull, s.limit)
	}
	key := UniqueKey(base, s.taken)

	if err := writeFileAtomic(s.sourcePath(key), []byte(source)); err != nil {
		return "", fmt.Errorf("save %q: %w", name, err)
	}
	meta, err := sjson.SetBytes(s.meta, key, map[string]any{
		fieldName:        name,
		fieldDescription: description,
		fieldCreated:     toSeconds(s.now()),
		fieldPlayed:      0,
	})
	if err != nil {
		return "", fmt.Errorf("save %q: %w", name, err)
	}
	if err := s.writeMeta(meta); err != nil {
		return "", err
	}
	s.logger.Info("saved %q as %s: %d bytes", name, key, len(source))
	return key, nil
}

// Watch marks the metadata cache stale whenever the collection directory
// changes, until ctx is done or the store is closed.
func (s *FileStore) Watch(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.watcher != nil {
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(s.dir); err != nil {
		_ = w.Close()
		return fmt.Errorf("watch %s: %w", s.dir, err)
	}
	s.watcher = w

	go s.watchLoop(ctx, w)
	return nil
}

func (s *FileStore) watchLoop(ctx context.Context, w *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) == MetadataFile && !ev.Has(fsnotify.Chmod) {
				s.stale.Store(true)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.logger.Warn("watcher error: %v", err)
		}
	}
}

// Close stops the watcher. Further operations return ErrClosed.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

// begin locks the store for one operation and refreshes stale metadata.
// On success the caller must unlock.
func (s *FileStore) begin(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.stale.Swap(false) {
		s.logger.Debug("metadata changed on disk, reloading")
		s.reload()
	}
	return nil
}

// reload reads the metadata document. Invalid documents are discarded.
func (s *FileStore) reload() {
	s.meta = []byte("{}")
	data, err := os.ReadFile(s.metaPath())
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("read metadata: %v", err)
		}
		return
	}
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		s.logger.Warn("ignoring malformed %s", s.metaPath())
		return
	}
	s.meta = data
}

// writeMeta persists meta and makes it the cached document.
func (s *FileStore) writeMeta(meta []byte) error {
	if err := writeFileAtomic(s.metaPath(), pretty.Pretty(meta)); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	s.meta = meta
	return nil
}

func (s *FileStore) field(key, name string) gjson.Result {
	return gjson.GetBytes(s.meta, key+"."+name)
}

func (s *FileStore) countLocked() int {
	n := 0
	gjson.ParseBytes(s.meta).ForEach(func(_, v gjson.Result) bool {
		if v.IsObject() {
			n++
		}
		return true
	})
	return n
}

func (s *FileStore) taken(key string) bool {
	if gjson.GetBytes(s.meta, key).Exists() {
		return true
	}
	_, err := os.Stat(s.sourcePath(key))
	return err == nil
}

func (s *FileStore) sourcePath(key string) string {
	return filepath.Join(s.dir, key+SourceExt)
}

func (s *FileStore) metaPath() string {
	return filepath.Join(s.dir, MetadataFile)
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it into place.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return err
	}
	if err := os.Rename(name, path); err != nil {
		_ = os.Remove(name)
		return err
	}
	return nil
}

func toSeconds(t time.Time) float64 {
	return float64(t.UnixMilli()) / 1000
}

func fromSeconds(sec float64) time.Time {
	if sec <= 0 || math.IsNaN(sec) || math.IsInf(sec, 0) {
		return time.Time{}
	}
	return time.UnixMilli(int64(math.Round(sec * 1000)))
}

var _ Store = (*FileStore)(nil)
