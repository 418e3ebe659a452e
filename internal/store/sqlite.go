package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/mathquest/internal/logging"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

const (
	tableKV      = "kv"
	tableChanges = "kv_changes"

	// changeLogKeep bounds the kv_changes tail. Watchers that fall further
	// behind than this simply miss intermediate revisions of a key, which is
	// harmless because every notification triggers a full re-read.
	changeLogKeep = 500
	pruneEvery    = 100
)

// SQLiteStore implements Store on a SQLite file. Every write appends to a
// change log with a global AUTOINCREMENT revision, which is what other
// processes watch.
type SQLiteStore struct {
	db     *sql.DB
	drv    *entsql.Driver
	path   string
	origin string
	poll   time.Duration
	log    *logging.Logger

	mu     sync.Mutex
	closed bool
}

// Option configures a SQLiteStore.
type Option func(*SQLiteStore)

// WithLogger sets the logger used by the watcher.
func WithLogger(l *logging.Logger) Option {
	return func(s *SQLiteStore) {
		if l != nil {
			s.log = l
		}
	}
}

// WithPollInterval sets the change-log poll interval. Zero keeps the default.
func WithPollInterval(d time.Duration) Option {
	return func(s *SQLiteStore) {
		if d > 0 {
			s.poll = d
		}
	}
}

// OpenSQLite opens (creating if needed) the database at path, applies the
// recommended pragmas and creates the tables.
func OpenSQLite(path string, opts ...Option) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Pragmas are per connection; one connection keeps them applied.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		drv:    entsql.OpenDB(dialect.SQLite, db),
		path:   path,
		origin: uuid.NewString(),
		poll:   time.Second,
		log:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "store.sqlite", "origin", s.origin)

	if err := s.migrate(context.Background()); err != nil {
		s.drv.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}
	return s, nil
}

// applyPragmas configures SQLite for several local processes sharing a file.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// schema creates the key/value table and the change log. ent's builder has
// no CREATE TABLE, so the DDL is plain SQL run through the ent driver.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS ` + tableKV + ` (
		key      TEXT PRIMARY KEY NOT NULL,
		value    TEXT NOT NULL,
		origin   TEXT NOT NULL,
		revision INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ` + tableChanges + ` (
		revision INTEGER PRIMARY KEY AUTOINCREMENT,
		key      TEXT NOT NULL,
		origin   TEXT NOT NULL
	)`,
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if err := s.drv.Exec(ctx, stmt, []any{}, nil); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Origin() string { return s.origin }

// Path returns the database file path.
func (s *SQLiteStore) Path() string { return s.path }

// DB returns the underlying *sql.DB for raw queries.
func (s *SQLiteStore) DB() *sql.DB { return s.db }

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := s.checkOpen(); err != nil {
		return "", false, err
	}
	q, args := builder().Select("value").
		From(entsql.Table(tableKV)).
		Where(entsql.EQ("key", key)).
		Query()

	rows := &entsql.Rows{}
	if err := s.drv.Query(ctx, q, args, rows); err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return "", false, rows.Err()
	}
	var value string
	if err := rows.Scan(&value); err != nil {
		return "", false, fmt.Errorf("scan %q: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if key == "" {
		return fmt.Errorf("set: empty key")
	}
	return s.inTx(ctx, func(tx dialect.Tx) error {
		rev, err := s.appendChange(ctx, tx, key)
		if err != nil {
			return err
		}
		q, args := builder().Insert(tableKV).
			Columns("key", "value", "origin", "revision").
			Values(key, value, s.origin, rev).
			OnConflict(entsql.ConflictColumns("key"), entsql.ResolveWithNewValues()).
			Query()
		if err := tx.Exec(ctx, q, args, nil); err != nil {
			return fmt.Errorf("upsert %q: %w", key, err)
		}
		if rev%pruneEvery == 0 {
			return s.prune(ctx, tx, rev)
		}
		return nil
	})
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	return s.inTx(ctx, func(tx dialect.Tx) error {
		q, args := builder().Delete(tableKV).Query()
		if err := tx.Exec(ctx, q, args, nil); err != nil {
			return fmt.Errorf("clear: %w", err)
		}
		rev, err := s.appendChange(ctx, tx, "")
		if err != nil {
			return err
		}
		return s.prune(ctx, tx, rev)
	})
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.drv.Close()
}

func (s *SQLiteStore) checkOpen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

// appendChange records a write in the change log and returns its revision.
func (s *SQLiteStore) appendChange(ctx context.Context, tx dialect.Tx, key string) (int64, error) {
	q, args := builder().Insert(tableChanges).
		Columns("key", "origin").
		Values(key, s.origin).
		Query()
	var res sql.Result
	if err := tx.Exec(ctx, q, args, &res); err != nil {
		return 0, fmt.Errorf("append change: %w", err)
	}
	rev, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("change revision: %w", err)
	}
	return rev, nil
}

// prune deletes change-log rows older than the retained tail.
func (s *SQLiteStore) prune(ctx context.Context, tx dialect.Tx, latest int64) error {
	q, args := builder().Delete(tableChanges).
		Where(entsql.LTE("revision", latest-changeLogKeep)).
		Query()
	if err := tx.Exec(ctx, q, args, nil); err != nil {
		return fmt.Errorf("prune changes: %w", err)
	}
	return nil
}

func (s *SQLiteStore) inTx(ctx context.Context, fn func(tx dialect.Tx) error) error {
	tx, err := s.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// latestRevision returns the newest change-log revision, or 0 if empty.
func (s *SQLiteStore) latestRevision(ctx context.Context) (int64, error) {
	q, args := builder().Select(entsql.Max("revision")).
		From(entsql.Table(tableChanges)).
		Query()

	rows := &entsql.Rows{}
	if err := s.drv.Query(ctx, q, args, rows); err != nil {
		return 0, fmt.Errorf("latest revision: %w", err)
	}
	defer rows.Close()

	var rev sql.NullInt64
	if rows.Next() {
		if err := rows.Scan(&rev); err != nil {
			return 0, fmt.Errorf("scan latest revision: %w", err)
		}
	}
	return rev.Int64, rows.Err()
}

// changesSince returns change-log rows after rev, oldest first.
func (s *SQLiteStore) changesSince(ctx context.Context, rev int64) ([]Change, error) {
	q, args := builder().Select("revision", "key", "origin").
		From(entsql.Table(tableChanges)).
		Where(entsql.GT("revision", rev)).
		OrderBy("revision").
		Query()

	rows := &entsql.Rows{}
	if err := s.drv.Query(ctx, q, args, rows); err != nil {
		return nil, fmt.Errorf("query changes: %w", err)
	}
	defer rows.Close()

	var out []Change
	for rows.Next() {
		var c Change
		if err := rows.Scan(&c.Revision, &c.Key, &c.Origin); err != nil {
			return nil, fmt.Errorf("scan change: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
