package system

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitsnap/internal/backup"
	"github.com/julianstephens/habitsnap/internal/cli"
	"github.com/julianstephens/habitsnap/internal/storage"
	"github.com/julianstephens/habitsnap/internal/storage/sqlite"
	"github.com/julianstephens/habitsnap/internal/utils"
	"github.com/julianstephens/habitsnap/internal/validation"
)

type DoctorCmd struct{}

// errWarning marks a check that passed with something worth noticing.
type errWarning struct{ msg string }

func (w errWarning) Error() string { return w.msg }

type healthCheck struct {
	name string
	// needsDB checks are skipped when the database is not reachable.
	needsDB bool
	run     func(ctx *cli.Context) error
}

func (c *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	checks := []healthCheck{
		{name: "Database reachable", run: checkDBReachable},
		{name: "Schema version", needsDB: true, run: checkSchemaVersion},
		{name: "Migrations complete", needsDB: true, run: checkMigrationsComplete},
		{name: "Settings", needsDB: true, run: checkSettings},
		{name: "Backups present", needsDB: true, run: checkBackupsPresent},
		{name: "Data validation", needsDB: true, run: checkDataValidation},
		{name: "Clock/timezone", run: func(*cli.Context) error { return checkClockTimezone(time.Now()) }},
	}

	hasErrors := false
	dbOK := true
	for i, check := range checks {
		if check.needsDB && !dbOK {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", check.name)
			continue
		}

		err := check.run(ctx)
		if w, ok := err.(errWarning); ok {
			ctx.Printf("⚠ %s: WARNING\n   %s\n", check.name, w.msg)
			continue
		}
		if err != nil {
			ctx.Printf("❌ %s: FAIL\n   Error: %v\n", check.name, err)
			hasErrors = true
			if i == 0 {
				dbOK = false
			}
			continue
		}
		ctx.Printf("✓ %s: OK\n", check.name)
	}

	ctx.Println()
	if hasErrors {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	if s, ok := ctx.Store.(*sqlite.Store); ok {
		db := s.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		if err := db.Ping(); err != nil {
			return fmt.Errorf("failed to ping database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	migrator, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return errWarning{"storage backend does not report a schema version"}
	}
	current, latest, err := migrator.SchemaVersion()
	if err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d); upgrade habitsnap", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	migrator, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return errWarning{"storage backend does not report migrations"}
	}
	current, latest, err := migrator.SchemaVersion()
	if err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("%d pending migration(s); run 'habitsnap migrate'", latest-current)
	}
	return nil
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	if !utils.ValidateTimezone(settings.Timezone) {
		return fmt.Errorf("invalid timezone setting %q", settings.Timezone)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return errWarning{"backups are only taken for SQLite databases"}
	}
	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return errWarning{"no backups found; run 'habitsnap backup create'"}
	}
	return nil
}

func checkDataValidation(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	habitList, err := svc.ListHabits()
	if err != nil {
		return err
	}
	photos, err := svc.ListPhotos()
	if err != nil {
		return err
	}

	result := validation.Check(habitList, photos, svc.Today())
	if !result.HasConflicts() {
		return nil
	}

	report := result.FormatReport()
	if result.Count(validation.ConflictStreakDrift) > 0 {
		report += "   Run 'habitsnap habit repair' to fix streaks.\n"
	}
	// Drift and orphaned photos are recoverable states, not failures.
	for _, c := range result.Conflicts {
		if c.Type != validation.ConflictStreakDrift && c.Type != validation.ConflictOrphanedPhoto {
			return fmt.Errorf("%s", report)
		}
	}
	return errWarning{report}
}

func checkClockTimezone(now time.Time) error {
	if now.Year() < 2000 || now.Year() > 2100 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	if _, err := time.LoadLocation("UTC"); err != nil {
		return fmt.Errorf("timezone database unavailable: %w", err)
	}
	return nil
}
