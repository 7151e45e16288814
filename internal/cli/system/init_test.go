package system

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitsnap/internal/backup"
	"github.com/julianstephens/habitsnap/internal/cli"
	"github.com/julianstephens/habitsnap/internal/models"
	"github.com/julianstephens/habitsnap/internal/storage/sqlite"
)

var fixedNow = time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)

func setupTestInitDB(t *testing.T) (*cli.Context, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store := sqlite.NewStore(dbPath)

	ctx := &cli.Context{
		Store: store,
		Out:   &strings.Builder{},
		TZ:    "UTC",
		Clock: func() time.Time { return fixedNow },
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return ctx, dbPath
}

func output(ctx *cli.Context) string {
	return ctx.Out.(*strings.Builder).String()
}

func TestInitCmd_Success(t *testing.T) {
	ctx, dbPath := setupTestInitDB(t)

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Errorf("init command failed: %v", err)
	}

	// Verify database file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("database file was not created at %s", dbPath)
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}
	if settings.Theme != "dark" {
		t.Errorf("default theme = %q, want dark", settings.Theme)
	}
}

func TestInitCmd_Idempotent(t *testing.T) {
	ctx, _ := setupTestInitDB(t)

	cmd := &InitCmd{}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("first init failed: %v", err)
	}
	// Run init second time - should be idempotent
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("second init failed (should be idempotent): %v", err)
	}
}

func TestInitCmd_Seed(t *testing.T) {
	ctx, _ := setupTestInitDB(t)

	cmd := &InitCmd{Seed: true}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("init --seed failed: %v", err)
	}
	habits, err := ctx.Store.GetAllHabits()
	if err != nil {
		t.Fatalf("GetAllHabits() error = %v", err)
	}
	if len(habits) != 6 {
		t.Errorf("seeded %d habits, want 6", len(habits))
	}

	// Seeding again leaves the habits alone
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("second init --seed failed: %v", err)
	}
	if !strings.Contains(output(ctx), "starter habits not added") {
		t.Errorf("output = %q", output(ctx))
	}
}

func TestInitCmd_ForceDeletesExisting(t *testing.T) {
	ctx, dbPath := setupTestInitDB(t)

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("initial init failed: %v", err)
	}

	// Add some data to verify it gets wiped
	if err := ctx.Store.AddHabit(models.Habit{ID: "habit-1", Name: "Read", CompletedDays: map[string]string{}}); err != nil {
		t.Fatalf("AddHabit() error = %v", err)
	}

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("init with force failed: %v", err)
	}

	habits, err := ctx.Store.GetAllHabits()
	if err != nil {
		t.Fatalf("GetAllHabits() error = %v", err)
	}
	if len(habits) != 0 {
		t.Errorf("habits after force = %v, want none", habits)
	}

	// The wiped database was snapshotted first
	backups, err := backup.NewManager(dbPath).List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(backups) != 1 {
		t.Errorf("found %d backups, want 1", len(backups))
	}
}

func TestInitCmd_ForceWithNonExistentDatabase(t *testing.T) {
	ctx, dbPath := setupTestInitDB(t)

	// Verify database doesn't exist initially
	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Fatalf("database file should not exist initially")
	}

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("init with force on non-existent database failed: %v", err)
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("database file was not created")
	}
}

func TestInitCmd_Source(t *testing.T) {
	srcPath := filepath.Join(t.TempDir(), "source.db")
	src := sqlite.NewStore(srcPath)
	if err := src.Init(); err != nil {
		t.Fatalf("source Init() error = %v", err)
	}
	if err := src.AddHabit(models.Habit{ID: "habit-1", Name: "Read", Frequency: []string{"daily"}, CompletedDays: map[string]string{"2024-01-07": "completed"}, Streak: 1}); err != nil {
		t.Fatalf("AddHabit() error = %v", err)
	}
	if _, err := src.AddPhoto(models.Photo{HabitID: "habit-1", Date: "2024-01-07", DataURL: "data:image/png;base64,AAAA"}); err != nil {
		t.Fatalf("AddPhoto() error = %v", err)
	}
	settings := models.DefaultSettings()
	settings.UserName = "Ada"
	if err := src.SaveSettings(settings); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}
	src.Close()

	ctx, _ := setupTestInitDB(t)
	if err := (&InitCmd{Source: srcPath}).Run(ctx); err != nil {
		t.Fatalf("init --source failed: %v", err)
	}

	habits, err := ctx.Store.GetAllHabits()
	if err != nil || len(habits) != 1 || habits[0].CompletedDays["2024-01-07"] == "" {
		t.Errorf("copied habits = %+v, %v", habits, err)
	}
	photos, err := ctx.Store.GetAllPhotos()
	if err != nil || len(photos) != 1 {
		t.Errorf("copied photos = %d, %v", len(photos), err)
	}
	got, err := ctx.Store.GetSettings()
	if err != nil || got.UserName != "Ada" {
		t.Errorf("copied settings = %+v, %v", got, err)
	}
}

func TestInitCmd_ForceRefusesSameSource(t *testing.T) {
	ctx, dbPath := setupTestInitDB(t)
	if err := (&InitCmd{Force: true, Source: dbPath}).Run(ctx); err == nil {
		t.Error("expected an error when source and destination match")
	}
}
