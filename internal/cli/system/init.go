package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/habitsnap/internal/cli"
	"github.com/julianstephens/habitsnap/internal/storage"
	"github.com/julianstephens/habitsnap/internal/storage/postgres"
	"github.com/julianstephens/habitsnap/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization. A backup is taken first."`
	Seed   bool   `help:"Add the starter habits when the database has none."`
	Source string `help:"Source database path or connection string to copy settings, habits and photos from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	// If force flag is provided, delete existing database
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	// Initialize destination store
	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized habitsnap storage at: %s\n", ctx.Store.GetConfigPath())

	// If source is provided, migrate data
	if c.Source != "" {
		ctx.Printf("Copying data from: %s\n", c.Source)
		if err := c.migrateData(ctx, c.Source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Println("Copy completed successfully!")
	}

	if c.Seed {
		svc, err := ctx.Service()
		if err != nil {
			return err
		}
		n, err := svc.SeedDefaults()
		if err != nil {
			return err
		}
		if n == 0 {
			ctx.Println("Habits already exist; starter habits not added.")
		} else {
			ctx.Printf("Added %d starter habits.\n", n)
		}
	}

	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return fmt.Errorf("--force only supports SQLite databases")
	}

	dbPath := ctx.Store.GetConfigPath()
	// Don't delete if it's the source (user error protection)
	if c.Source != "" {
		// Normalize paths to absolute for accurate comparison
		absDbPath, err := filepath.Abs(dbPath)
		if err == nil {
			dbPath = absDbPath
		}
		absSource, err := filepath.Abs(c.Source)
		if err == nil && absSource == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		ctx.PerformAutomaticBackup()
		// Database exists, close it first to prevent file locking issues
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
		ctx.Printf("Deleted existing database at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		// Some other error occurred while checking the database; surface it to the user
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}

func openSource(source string) (storage.Provider, error) {
	if postgres.IsConnString(source) {
		// Validate source connection string for embedded credentials
		if valid, err := postgres.ValidateConnString(source); !valid {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("PostgreSQL source connection string contains embedded credentials. Use environment variables or .pgpass instead")
			}
			return nil, err
		}
		return postgres.New(source), nil
	}
	// Default to SQLite for file paths
	return sqlite.NewStore(source), nil
}

func (c *InitCmd) migrateData(ctx *cli.Context, source string) error {
	sourceStore, err := openSource(source)
	if err != nil {
		return err
	}

	// Load the source store
	if err := sourceStore.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer sourceStore.Close()

	// Migrate Settings
	ctx.Println("  Copying settings...")
	settings, err := sourceStore.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	// Migrate Habits
	ctx.Println("  Copying habits...")
	habits, err := sourceStore.GetAllHabits()
	if err != nil {
		return fmt.Errorf("failed to get habits from source: %w", err)
	}
	for _, habit := range habits {
		if err := ctx.Store.PutHabit(habit); err != nil {
			return fmt.Errorf("failed to copy habit %s: %w", habit.ID, err)
		}
	}
	ctx.Printf("    Copied %d habits\n", len(habits))

	// Migrate Photos; ids are reassigned by the destination
	ctx.Println("  Copying photos...")
	photos, err := sourceStore.GetAllPhotos()
	if err != nil {
		return fmt.Errorf("failed to get photos from source: %w", err)
	}
	for _, photo := range photos {
		if _, err := ctx.Store.AddPhoto(photo); err != nil {
			return fmt.Errorf("failed to copy photo %d: %w", photo.ID, err)
		}
	}
	ctx.Printf("    Copied %d photos\n", len(photos))

	return nil
}
