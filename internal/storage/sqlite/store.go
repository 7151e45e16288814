package sqlite

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitsnap/internal/logger"
	"github.com/julianstephens/habitsnap/internal/migration"
	"github.com/julianstephens/habitsnap/internal/models"
	"github.com/julianstephens/habitsnap/internal/storage"
	"github.com/julianstephens/habitsnap/migrations"
)

var (
	_ storage.Provider = (*Store)(nil)
	_ storage.Migrator = (*Store)(nil)
)

type Store struct {
	path string

	mu sync.Mutex
	db *sql.DB
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

// Init creates the database file if needed, applies pending migrations and
// writes default settings. It is idempotent and safe to call concurrently.
func (s *Store) Init() error {
	if err := s.openAndMigrate(); err != nil {
		return err
	}

	// Initialize default settings if not present or incomplete
	settings, err := s.GetSettings()
	if err != nil || settings.Theme == "" {
		if err := s.SaveSettings(models.DefaultSettings()); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	return nil
}

func (s *Store) openAndMigrate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
			return storage.Unavailable(fmt.Errorf("failed to create config directory: %w", err))
		}
		db, err := s.open()
		if err != nil {
			return err
		}
		s.db = db
	}

	if err := runMigrations(s.db); err != nil {
		return storage.Unavailable(fmt.Errorf("failed to run migrations: %w", err))
	}
	return nil
}

func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return storage.Unavailable(fmt.Errorf("storage not initialized, run 'habitsnap init' first"))
	}

	db, err := s.open()
	if err != nil {
		return err
	}

	if err := validateSchemaVersion(db); err != nil {
		db.Close()
		return storage.Unavailable(err)
	}
	s.db = db

	return nil
}

func (s *Store) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, storage.Unavailable(fmt.Errorf("failed to open database: %w", err))
	}
	// A single connection serializes writers and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, storage.Unavailable(fmt.Errorf("failed to open database: %w", err))
	}
	return db, nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

// conn returns the open handle or ErrStorageUnavailable.
func (s *Store) conn() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, storage.Unavailable(fmt.Errorf("store is not open"))
	}
	return s.db, nil
}

func newRunner(db *sql.DB) (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(db, subFS, migration.DriverSQLite)
}

func runMigrations(db *sql.DB) error {
	runner, err := newRunner(db)
	if err != nil {
		return err
	}

	_, err = runner.ApplyMigrations(func(msg string) {
		logger.Info(msg)
	})
	return err
}

func validateSchemaVersion(db *sql.DB) error {
	runner, err := newRunner(db)
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying database connection.
// Returns nil if the database has not been initialized or loaded.
func (s *Store) GetDB() *sql.DB {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db
}

func (s *Store) SchemaVersion() (int, int, error) {
	db, err := s.conn()
	if err != nil {
		return 0, 0, err
	}
	runner, err := newRunner(db)
	if err != nil {
		return 0, 0, err
	}
	current, err := runner.GetCurrentVersion()
	if err != nil {
		return 0, 0, storage.Failure("schema version", err)
	}
	latest, err := runner.GetLatestVersion()
	if err != nil {
		return 0, 0, err
	}
	return current, latest, nil
}

func (s *Store) Migrate(logFn func(string)) (int, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}
	runner, err := newRunner(db)
	if err != nil {
		return 0, err
	}
	return runner.ApplyMigrations(logFn)
}
