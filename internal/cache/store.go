// Package cache stores compilation results in SQLite, keyed by a digest of
// the source and the options that shape the output.
package cache

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/noodle-lang/noodlec/internal/compiler"
)

//go:embed schema.sql
var schemaSQL string

// Entry describes one cached result.
type Entry struct {
	ID         string    `json:"id" yaml:"id"`
	Key        string    `json:"key" yaml:"key"`
	Filename   string    `json:"file" yaml:"file"`
	Size       int       `json:"size" yaml:"size"`
	RawSize    int       `json:"raw_size" yaml:"raw_size"`
	Hits       int       `json:"hits" yaml:"hits"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
	AccessedAt time.Time `json:"accessed_at" yaml:"accessed_at"`
}

// Store is a SQLite backed compilation cache.
type Store struct {
	db     *sql.DB
	path   string
	codec  *codec
	logger *slog.Logger
}

// NewStore creates a new cache store instance.
// The logger is optional; nil discards.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{logger: logger}
}

// Open opens a connection to the SQLite database.
// Use ":memory:" for an in-memory database.
func (s *Store) Open(path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// Every connection to ":memory:" is its own database.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	c, err := newCodec()
	if err != nil {
		db.Close()
		return err
	}

	s.db = db
	s.path = path
	s.codec = c
	s.logger.Debug("opened cache", slog.String("path", path))
	return nil
}

// Close closes the SQLite database connection.
func (s *Store) Close() error {
	if s.codec != nil {
		s.codec.close()
		s.codec = nil
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InitSchema initializes the database schema.
func (s *Store) InitSchema() error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// generateID creates a new UUID.
func generateID() string {
	return uuid.New().String()
}

// Get returns the cached result for key. The boolean is false on a miss.
func (s *Store) Get(key string) (*compiler.Result, bool, error) {
	if s.db == nil {
		return nil, false, fmt.Errorf("database not opened")
	}

	var payload []byte
	err := s.db.QueryRow(`SELECT payload FROM entries WHERE key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cache entry: %w", err)
	}

	res, err := s.codec.decode(payload)
	if err != nil {
		return nil, false, fmt.Errorf("failed to decode cache entry %s: %w", key, err)
	}

	if _, err := s.db.Exec(
		`UPDATE entries SET hits = hits + 1, accessed_at = ? WHERE key = ?`,
		time.Now().UTC().UnixNano(), key,
	); err != nil {
		return nil, false, fmt.Errorf("failed to record cache hit: %w", err)
	}

	return res, true, nil
}

// Put stores res under key, replacing any previous entry.
func (s *Store) Put(key, filename string, res *compiler.Result) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	payload, rawSize, err := s.codec.encode(res)
	if err != nil {
		return err
	}

	now := time.Now().UTC().UnixNano()
	_, err = s.db.Exec(
		`INSERT INTO entries (id, key, filename, payload, raw_size, hits, created_at, accessed_at)
		 VALUES (?, ?, ?, ?, ?, 0, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
		   filename = excluded.filename,
		   payload = excluded.payload,
		   raw_size = excluded.raw_size,
		   accessed_at = excluded.accessed_at`,
		generateID(), key, filename, payload, rawSize, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}

	s.logger.Debug("cached result",
		slog.String("file", filename),
		slog.Int("raw_size", rawSize),
		slog.Int("size", len(payload)),
	)
	return nil
}

// Compile returns the cached result for source and opts, compiling and
// storing it on a miss. The boolean reports a hit.
func (s *Store) Compile(source, filename string, opts compiler.Options) (*compiler.Result, bool, error) {
	key := Key(source, opts)

	res, ok, err := s.Get(key)
	if err != nil {
		return nil, false, err
	}
	if ok {
		res.Filename = filename
		s.logger.Debug("cache hit", slog.String("file", filename))
		return res, true, nil
	}

	res = compiler.Compile(source, filename, opts)
	if err := s.Put(key, filename, res); err != nil {
		return nil, false, err
	}
	return res, false, nil
}

// List returns all entries, most recently used first.
func (s *Store) List() ([]Entry, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(
		`SELECT id, key, filename, length(payload), raw_size, hits, created_at, accessed_at
		 FROM entries ORDER BY accessed_at DESC, filename`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list cache entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created, accessed int64
		if err := rows.Scan(&e.ID, &e.Key, &e.Filename, &e.Size, &e.RawSize, &e.Hits, &created, &accessed); err != nil {
			return nil, fmt.Errorf("failed to scan cache entry: %w", err)
		}
		e.CreatedAt = time.Unix(0, created).UTC()
		e.AccessedAt = time.Unix(0, accessed).UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list cache entries: %w", err)
	}
	return entries, nil
}

// Purge deletes every entry and returns how many were removed.
func (s *Store) Purge() (int64, error) {
	if s.db == nil {
		return 0, fmt.Errorf("database not opened")
	}

	result, err := s.db.Exec(`DELETE FROM entries`)
	if err != nil {
		return 0, fmt.Errorf("failed to purge cache: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged entries: %w", err)
	}
	return n, nil
}
