// ABOUTME: Store lifecycle for the coach SQLite database.
// ABOUTME: Owns the single handle, applies pragmas and schema, guards every repository call.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

const (
	tableUsers    = "users"
	tableNotes    = "trainer_notes"
	tableClients  = "clients"
	tableWorkouts = "workouts"
	tableSessions = "workout_sessions"
	tableGoals    = "goals"
)

// clearOrder deletes children before parents.
var clearOrder = []string{tableSessions, tableGoals, tableWorkouts, tableClients, tableNotes, tableUsers}

// Store owns the database handle and exposes one repository per entity.
type Store struct {
	mu    sync.RWMutex
	db    *sqlx.DB
	ready bool

	path  string
	log   zerolog.Logger
	now   func() string
	newID func() string
	open  func(dsn string) (*sql.DB, error)

	Users    *UserRepository
	Notes    *NoteRepository
	Clients  *ClientRepository
	Workouts *WorkoutRepository
	Sessions *SessionRepository
	Goals    *GoalRepository
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for lifecycle events.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

// WithClock replaces the time source used for created/updated timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = func() string { return Timestamp(now()) }
	}
}

// WithIDGenerator replaces the id source used when a caller supplies no id.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		s.newID = newID
	}
}

func withOpener(open func(dsn string) (*sql.DB, error)) Option {
	return func(s *Store) {
		s.open = open
	}
}

// New creates an unopened store for the database at path.
// Call Initialize before using any repository.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:  path,
		log:   zerolog.Nop(),
		now:   Now,
		newID: NewID,
		open: func(dsn string) (*sql.DB, error) {
			return sql.Open("sqlite", dsn)
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.Users = &UserRepository{s: s}
	s.Notes = &NoteRepository{s: s}
	s.Clients = &ClientRepository{s: s}
	s.Workouts = &WorkoutRepository{s: s}
	s.Sessions = &SessionRepository{s: s}
	s.Goals = &GoalRepository{s: s}
	return s
}

// DataDir returns the default data directory following the XDG base directory layout.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "coach")
}

// DefaultDBPath returns the default database path following the XDG base directory layout.
func DefaultDBPath() string {
	return filepath.Join(DataDir(), "coach.db")
}

// Path returns the database path.
func (s *Store) Path() string {
	return s.path
}

// IsReady reports whether Initialize has completed.
func (s *Store) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Initialize opens the database, enables foreign keys and applies the schema.
// It is a no-op on a ready store. On failure the store stays unopened and
// Initialize may be called again.
func (s *Store) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready {
		return nil
	}

	if !isMemory(s.path) {
		if err := os.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
	}

	raw, err := s.open(s.dsn())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	// One connection: a single logical writer, and per-connection pragmas stay put.
	raw.SetMaxOpenConns(1)
	db := sqlx.NewDb(raw, "sqlite")

	if err := configurePragmas(db); err != nil {
		_ = db.Close()
		return fmt.Errorf("configure pragmas: %w", err)
	}

	if err := applySchema(raw); err != nil {
		_ = db.Close()
		return fmt.Errorf("initialize schema: %w", err)
	}

	if !isMemory(s.path) {
		if err := os.Chmod(s.path, 0600); err != nil && !os.IsNotExist(err) {
			_ = db.Close()
			return fmt.Errorf("set database permissions: %w", err)
		}
	}

	s.db = db
	s.ready = true
	s.log.Info().Str("path", s.path).Msg("store ready")
	return nil
}

// Close releases the handle. Closing an unopened store is a no-op.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ready = false
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	s.log.Debug().Str("path", s.path).Msg("store closed")
	return nil
}

// ClearAllData deletes every row in one transaction, children first.
func (s *Store) ClearAllData() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return ErrNotInitialized
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("clear all data: %w", err)
	}
	for _, table := range clearOrder {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("clear all data: %w", err)
	}

	s.log.Info().Msg("all data cleared")
	return nil
}

// run executes fn against the open handle. Repository calls share the read
// lock so lifecycle transitions never overlap them.
func (s *Store) run(fn func(db *sqlx.DB) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.ready {
		return ErrNotInitialized
	}
	return fn(s.db)
}

// stamp fills a missing id and sets both timestamps to one reading of the clock.
func (s *Store) stamp(id, createdAt, updatedAt *string) {
	if *id == "" {
		*id = s.newID()
	}
	now := s.now()
	*createdAt = now
	*updatedAt = now
}

func (s *Store) dsn() string {
	return s.path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func isMemory(path string) bool {
	return path == ":memory:" || strings.HasPrefix(path, "file::memory:")
}

// configurePragmas turns on foreign keys before anything else and verifies
// the setting took.
func configurePragmas(db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	var enabled int
	if err := db.Get(&enabled, "PRAGMA foreign_keys"); err != nil {
		return fmt.Errorf("read foreign_keys: %w", err)
	}
	if enabled != 1 {
		return errors.New("foreign keys could not be enabled")
	}
	return nil
}
