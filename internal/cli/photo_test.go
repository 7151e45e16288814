package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func writeImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snap.png")
	if err := os.WriteFile(path, pngHeader, 0o644); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}
	return path
}

func TestPhotoAddCompletesHabit(t *testing.T) {
	ctx := setupTestContext(t)
	addHabit(t, ctx, HabitAddCmd{Name: "Read"})
	img := writeImage(t)
	resetOutput(ctx)

	if err := (&PhotoAddCmd{File: img, Habit: "Read", Date: "today", Note: "page 10"}).Run(ctx); err != nil {
		t.Fatalf("photo add failed: %v", err)
	}
	if out := output(ctx); !strings.Contains(out, `Completed "Read" (streak 1)`) {
		t.Errorf("output = %q", out)
	}

	resetOutput(ctx)
	if err := (&PhotoAddCmd{File: img, Habit: "Read", Date: "today"}).Run(ctx); err != nil {
		t.Fatalf("second photo add failed: %v", err)
	}
	if out := output(ctx); !strings.Contains(out, `"Read" was already done on 2024-01-08`) {
		t.Errorf("output = %q", out)
	}

	photos, err := ctx.Store.GetAllPhotos()
	if err != nil || len(photos) != 2 {
		t.Fatalf("GetAllPhotos() = %d photos, %v", len(photos), err)
	}
}

func TestPhotoAddWithoutHabit(t *testing.T) {
	ctx := setupTestContext(t)
	addHabit(t, ctx, HabitAddCmd{Name: "Read"})
	img := writeImage(t)

	if err := (&PhotoAddCmd{File: img, Date: "yesterday"}).Run(ctx); err != nil {
		t.Fatalf("photo add failed: %v", err)
	}

	photos, err := ctx.Store.GetAllPhotos()
	if err != nil || len(photos) != 1 {
		t.Fatalf("GetAllPhotos() = %v, %v", photos, err)
	}
	if photos[0].HabitID != "unknown" || photos[0].Date != "2024-01-07" {
		t.Errorf("photo = %+v", photos[0])
	}

	habits, err := ctx.Store.GetAllHabits()
	if err != nil {
		t.Fatalf("GetAllHabits() error = %v", err)
	}
	if len(habits[0].CompletedDays) != 0 {
		t.Errorf("unattributed photo completed a habit: %v", habits[0].CompletedDays)
	}
}

func TestPhotoAddRejectsNonImage(t *testing.T) {
	ctx := setupTestContext(t)
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("just text"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if err := (&PhotoAddCmd{File: path, Date: "today"}).Run(ctx); err == nil {
		t.Error("expected an error for a text file")
	}
}

func TestPhotoListRetagDeleteExport(t *testing.T) {
	ctx := setupTestContext(t)
	addHabit(t, ctx, HabitAddCmd{Name: "Read"})
	addHabit(t, ctx, HabitAddCmd{Name: "Write"})
	img := writeImage(t)
	if err := (&PhotoAddCmd{File: img, Habit: "Read", Date: "today"}).Run(ctx); err != nil {
		t.Fatalf("photo add failed: %v", err)
	}
	photos, err := ctx.Store.GetAllPhotos()
	if err != nil || len(photos) != 1 {
		t.Fatalf("GetAllPhotos() = %v, %v", photos, err)
	}
	id := photos[0].ID
	resetOutput(ctx)

	if err := (&PhotoListCmd{}).Run(ctx); err != nil {
		t.Fatalf("photo list failed: %v", err)
	}
	if out := output(ctx); !strings.Contains(out, "2024-01-08") || !strings.Contains(out, "Read") || !strings.Contains(out, "image/png") {
		t.Errorf("photo list output = %q", out)
	}

	if err := (&PhotoRetagCmd{ID: id, Habit: "Write"}).Run(ctx); err != nil {
		t.Fatalf("photo retag failed: %v", err)
	}
	resetOutput(ctx)
	if err := (&PhotoListCmd{Habit: "Write"}).Run(ctx); err != nil {
		t.Fatalf("photo list --habit failed: %v", err)
	}
	if out := output(ctx); !strings.Contains(out, "Write") {
		t.Errorf("photo list --habit output = %q", out)
	}

	out := filepath.Join(t.TempDir(), "export.png")
	if err := (&PhotoExportCmd{ID: id, Out: out}).Run(ctx); err != nil {
		t.Fatalf("photo export failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil || !bytes.Equal(data, pngHeader) {
		t.Errorf("exported bytes = %v, %v", data, err)
	}

	if err := (&PhotoDeleteCmd{ID: id}).Run(ctx); err != nil {
		t.Fatalf("photo delete failed: %v", err)
	}
	if err := (&PhotoRetagCmd{ID: id, Habit: "unknown"}).Run(ctx); err == nil {
		t.Error("expected an error retagging a deleted photo")
	}
	resetOutput(ctx)
	if err := (&PhotoListCmd{}).Run(ctx); err != nil {
		t.Fatalf("photo list failed: %v", err)
	}
	if out := output(ctx); !strings.Contains(out, "No photos found.") {
		t.Errorf("photo list output = %q", out)
	}
}

func TestPhotoListShowsDeletedHabit(t *testing.T) {
	ctx := setupTestContext(t)
	addHabit(t, ctx, HabitAddCmd{Name: "Read"})
	if err := (&PhotoAddCmd{File: writeImage(t), Habit: "Read", Date: "today"}).Run(ctx); err != nil {
		t.Fatalf("photo add failed: %v", err)
	}
	if err := (&HabitDeleteCmd{Habit: "Read"}).Run(ctx); err != nil {
		t.Fatalf("habit delete failed: %v", err)
	}
	resetOutput(ctx)

	if err := (&PhotoListCmd{}).Run(ctx); err != nil {
		t.Fatalf("photo list failed: %v", err)
	}
	if out := output(ctx); !strings.Contains(out, "(deleted habit)") {
		t.Errorf("output = %q", out)
	}
}
