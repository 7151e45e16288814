package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"time"

	pq "github.com/lib/pq"

	"github.com/julianstephens/habitsnap/internal/constants"
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

// uniqueViolation is the SQLSTATE for a unique constraint violation.
const uniqueViolation = "23505"

type Store struct {
	connStr string

	mu sync.Mutex
	db *sql.DB
}

func New(connStr string) *Store {
	return &Store{
		connStr: withSearchPath(connStr),
	}
}

func (s *Store) Init() error {
	if err := s.openAndMigrate(); err != nil {
		return err
	}

	// Initialize default settings if not present
	if _, err := s.GetSettings(); err != nil {
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
		db, err := s.open()
		if err != nil {
			return err
		}
		// Schema must exist before the search_path can resolve tables
		if _, err := db.Exec("CREATE SCHEMA IF NOT EXISTS " + constants.AppName); err != nil {
			db.Close()
			return storage.Unavailable(fmt.Errorf("failed to create schema: %w", err))
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
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return nil, storage.Unavailable(fmt.Errorf("failed to open database: %w", err))
	}

	// Configure connection pool parameters to avoid connection exhaustion
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		if strings.Contains(err.Error(), "SSL is not enabled on the server") && !hasSSLMode(s.connStr) {
			return nil, storage.Unavailable(fmt.Errorf("failed to connect to database: %w (hint: try adding ?sslmode=disable to your connection string)", err))
		}
		return nil, storage.Unavailable(fmt.Errorf("failed to connect to database: %w", err))
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

func (s *Store) conn() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, storage.Unavailable(fmt.Errorf("store is not open"))
	}
	return s.db, nil
}

func newRunner(db *sql.DB) (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		return nil, fmt.Errorf("failed to access postgres migrations: %w", err)
	}
	return migration.NewRunner(db, subFS, migration.DriverPostgres)
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

// isUniqueViolation reports whether err is a PostgreSQL unique constraint error.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}

func (s *Store) GetConfigPath() string {
	// Return a non-sensitive identifier instead of the full connection string
	return "postgresql"
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
