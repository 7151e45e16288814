package system

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitsnap/internal/backup"
	"github.com/julianstephens/habitsnap/internal/cli"
	"github.com/julianstephens/habitsnap/internal/models"
	"github.com/julianstephens/habitsnap/internal/storage/sqlite"
)

func setupTestDoctorDB(t *testing.T) *cli.Context {
	t.Helper()
	ctx, _ := setupTestInitDB(t)
	if err := ctx.Store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	return ctx
}

func TestDoctorCmd_HealthyDB(t *testing.T) {
	ctx := setupTestDoctorDB(t)

	// Missing backups is a warning, not a failure
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor command failed on healthy database: %v", err)
	}
	out := output(ctx)
	if !strings.Contains(out, "⚠ Backups present: WARNING") {
		t.Errorf("expected backup warning, got:\n%s", out)
	}
	if !strings.Contains(out, "All diagnostics passed!") {
		t.Errorf("expected success summary, got:\n%s", out)
	}
}

func TestDoctorCmd_WithBackups(t *testing.T) {
	ctx := setupTestDoctorDB(t)

	if _, err := backup.NewManager(ctx.Store.GetConfigPath()).Create(); err != nil {
		t.Fatalf("failed to create backup: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor command failed with backups present: %v", err)
	}
	if !strings.Contains(output(ctx), "✓ Backups present: OK") {
		t.Errorf("expected backups OK, got:\n%s", output(ctx))
	}
}

func TestDoctorCmd_Uninitialized(t *testing.T) {
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "missing.db"))
	ctx := &cli.Context{Store: store, Out: &strings.Builder{}, TZ: "UTC"}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Fatal("doctor should fail when the database does not exist")
	}
	if !strings.Contains(output(ctx), "⊘ Schema version: SKIPPED") {
		t.Errorf("expected dependent checks to be skipped, got:\n%s", output(ctx))
	}
}

func TestDoctorCmd_BrokenSchema(t *testing.T) {
	ctx := setupTestDoctorDB(t)

	db := ctx.Store.(*sqlite.Store).GetDB()
	if _, err := db.Exec("DELETE FROM schema_version"); err != nil {
		t.Fatalf("failed to delete schema version: %v", err)
	}
	if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (999)"); err != nil {
		t.Fatalf("failed to insert corrupted schema version: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor command should fail with corrupted schema")
	}
}

func TestCheckMigrationsComplete_Incomplete(t *testing.T) {
	ctx := setupTestDoctorDB(t)

	db := ctx.Store.(*sqlite.Store).GetDB()
	if _, err := db.Exec("DELETE FROM schema_version"); err != nil {
		t.Fatalf("failed to delete schema version: %v", err)
	}
	if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (0)"); err != nil {
		t.Fatalf("failed to insert downgraded schema version: %v", err)
	}

	if err := checkMigrationsComplete(ctx); err == nil {
		t.Error("checkMigrationsComplete should fail with incomplete migrations")
	}
}

func TestCheckDataValidation(t *testing.T) {
	tests := []struct {
		name        string
		habit       models.Habit
		wantErr     bool
		wantWarning bool
	}{
		{
			name:  "clean",
			habit: models.Habit{ID: "h1", Name: "Read", Frequency: []string{"daily"}, CompletedDays: map[string]string{}},
		},
		{
			name: "streak drift is a warning",
			habit: models.Habit{ID: "h1", Name: "Read", Frequency: []string{"daily"}, Streak: 5,
				CompletedDays: map[string]string{}},
			wantErr:     true,
			wantWarning: true,
		},
		{
			name: "bad reminder time fails",
			habit: models.Habit{ID: "h1", Name: "Read", Frequency: []string{"daily"}, ReminderTime: "25:99",
				CompletedDays: map[string]string{}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := setupTestDoctorDB(t)
			if err := ctx.Store.PutHabit(tt.habit); err != nil {
				t.Fatalf("PutHabit() error = %v", err)
			}

			err := checkDataValidation(ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("checkDataValidation() error = %v, wantErr %v", err, tt.wantErr)
			}
			_, isWarning := err.(errWarning)
			if isWarning != tt.wantWarning {
				t.Errorf("warning = %v, want %v (err: %v)", isWarning, tt.wantWarning, err)
			}
		})
	}
}

func TestCheckClockTimezone(t *testing.T) {
	if err := checkClockTimezone(time.Now()); err != nil {
		t.Errorf("clock/timezone check failed: %v", err)
	}
	if err := checkClockTimezone(time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)); err == nil {
		t.Error("expected an error for a clock set to 1970")
	}
}
