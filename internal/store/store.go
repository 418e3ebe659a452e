// Package store is the durable string key/value layer every context shares.
//
// A Store handle belongs to one context (a running process, a terminal tab).
// Writes are last-write-wins per key; there are no multi-key transactions.
// Each handle can Watch for changes made through other handles on the same
// medium; a handle never sees its own writes on its Watch channel.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/abhisek/mathquest/internal/logging"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store closed")

// Store is the persistent key/value contract.
type Store interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Clear removes every key.
	Clear(ctx context.Context) error

	// Origin identifies this handle in change notifications.
	Origin() string

	// Watch streams changes written by other handles until ctx is done.
	// The channel is closed when watching stops.
	Watch(ctx context.Context) (<-chan Change, error)

	// Close releases the handle.
	Close() error
}

// Change describes one write made by another context.
type Change struct {
	// Key is the changed key. Empty when the whole store was cleared or
	// the watcher fell behind and must re-read every key.
	Key string

	// Origin is the writer's handle id. Empty on a resync.
	Origin string

	// Revision orders changes on the medium. Zero when the backend does not
	// track revisions.
	Revision int64
}

// Cleared reports whether every key must be re-read, after a full-store
// clear or a resync.
func (c Change) Cleared() bool {
	return c.Key == ""
}

// Resync reports whether the change stands in for notifications the
// watcher could not buffer.
func (c Change) Resync() bool {
	return c.Key == "" && c.Origin == ""
}

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config selects and configures a backend.
type Config struct {
	Backend string

	// Path is the SQLite database file.
	Path string

	// RedisAddr, RedisPassword, RedisDB and RedisPrefix configure the redis
	// backend. Keys are stored as RedisPrefix + key.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	// PollInterval is how often the SQLite watcher re-reads the change log
	// when no file event arrives. Default: 1s.
	PollInterval time.Duration
}

// Open builds the configured backend. The memory backend gets a private
// medium; use NewMedium to share one between handles.
func Open(ctx context.Context, cfg Config, log *logging.Logger) (Store, error) {
	switch cfg.Backend {
	case "", BackendSQLite:
		path := cfg.Path
		if path == "" {
			p, err := DefaultDBPath()
			if err != nil {
				return nil, fmt.Errorf("resolve DB path: %w", err)
			}
			path = p
		} else if err := EnsureDir(path); err != nil {
			return nil, fmt.Errorf("create DB dir: %w", err)
		}
		return OpenSQLite(path, WithLogger(log), WithPollInterval(cfg.PollInterval))
	case BackendRedis:
		return OpenRedis(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		}, log)
	case BackendMemory:
		return NewMedium().Open(), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %q", cfg.Backend)
	}
}

// DefaultDBPath resolves the database file path in priority order:
// 1. MATHQUEST_DB environment variable
// 2. $XDG_DATA_HOME/mathquest/mathquest.db
// 3. ~/.local/share/mathquest/mathquest.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("MATHQUEST_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "mathquest", "mathquest.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
