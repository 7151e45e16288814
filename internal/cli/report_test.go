package cli

import (
	"strings"
	"testing"
)

func TestHeatmapCmd(t *testing.T) {
	ctx := setupTestContext(t)
	addHabit(t, ctx, HabitAddCmd{Name: "Read"})
	if err := (&HabitDoneCmd{Habit: "Read", Date: "2024-01-02"}).Run(ctx); err != nil {
		t.Fatalf("habit done failed: %v", err)
	}
	resetOutput(ctx)

	if err := (&HeatmapCmd{}).Run(ctx); err != nil {
		t.Fatalf("heatmap failed: %v", err)
	}
	if out := output(ctx); !strings.Contains(out, "January 2024") || !strings.Contains(out, "1 completions on 1 days") {
		t.Errorf("output = %q", out)
	}

	tests := []struct {
		month   string
		wantErr bool
	}{
		{"2023-12", false},
		{"2024-02", true},
		{"2024-13", true},
		{"january", true},
	}
	for _, tt := range tests {
		t.Run(tt.month, func(t *testing.T) {
			err := (&HeatmapCmd{Month: tt.month}).Run(ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("heatmap --month %s error = %v, wantErr %v", tt.month, err, tt.wantErr)
			}
		})
	}
}

func TestProgressCmd(t *testing.T) {
	ctx := setupTestContext(t)
	addHabit(t, ctx, HabitAddCmd{Name: "Read"})
	addHabit(t, ctx, HabitAddCmd{Name: "Write"})
	if err := (&HabitDoneCmd{Habit: "Read"}).Run(ctx); err != nil {
		t.Fatalf("habit done failed: %v", err)
	}
	if err := (&HabitDoneCmd{Habit: "Write", Date: "yesterday"}).Run(ctx); err != nil {
		t.Fatalf("habit done failed: %v", err)
	}
	resetOutput(ctx)

	if err := (&ProgressCmd{Days: 2}).Run(ctx); err != nil {
		t.Fatalf("progress failed: %v", err)
	}
	out := output(ctx)
	for _, want := range []string{"Today (2024-01-08): 1/2 done, 50%", "2024-01-07", "50% (1/2)", "2024-01-06"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		rate  int
		width int
		want  string
	}{
		{0, 4, "[....]"},
		{50, 4, "[##..]"},
		{100, 4, "[####]"},
	}
	for _, tt := range tests {
		if got := progressBar(tt.rate, tt.width); got != tt.want {
			t.Errorf("progressBar(%d, %d) = %q, want %q", tt.rate, tt.width, got, tt.want)
		}
	}
}

func TestDayCmd(t *testing.T) {
	ctx := setupTestContext(t)
	addHabit(t, ctx, HabitAddCmd{Name: "Read"})
	addHabit(t, ctx, HabitAddCmd{Name: "Swim", HabitFlags: HabitFlags{Days: "sat"}})
	if err := (&PhotoAddCmd{File: writeImage(t), Habit: "Read", Date: "today"}).Run(ctx); err != nil {
		t.Fatalf("photo add failed: %v", err)
	}
	if err := (&PhotoAddCmd{File: writeImage(t), Date: "today", Note: "sunset"}).Run(ctx); err != nil {
		t.Fatalf("photo add failed: %v", err)
	}
	resetOutput(ctx)

	if err := (&DayCmd{Date: "today"}).Run(ctx); err != nil {
		t.Fatalf("day failed: %v", err)
	}
	out := output(ctx)
	for _, want := range []string{"2024-01-08 (Mon)", "[x] Read  📷 1", "[-] Swim", "Other photos:", "sunset", "Completion: 100%"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if err := (&DayCmd{Date: "08/01/2024"}).Run(ctx); err == nil {
		t.Error("expected an error for a malformed date")
	}
}
