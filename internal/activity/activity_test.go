package activity

import (
	"reflect"
	"testing"
	"time"

	"github.com/julianstephens/habitsnap/internal/models"
)

func habitWithDays(id string, days ...string) models.Habit {
	completed := make(map[string]string, len(days))
	for _, d := range days {
		completed[d] = "completed"
	}
	return models.Habit{ID: id, Name: id, CompletedDays: completed}
}

func TestBuildActivityMap(t *testing.T) {
	habits := []models.Habit{
		habitWithDays("a", "2024-01-01", "2024-01-02"),
		habitWithDays("b", "2024-01-01"),
		habitWithDays("c"),
	}

	got := BuildActivityMap(habits)
	want := map[string]int{"2024-01-01": 2, "2024-01-02": 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BuildActivityMap() = %v, want %v", got, want)
	}
}

func TestBuildActivityMapDoesNotMutate(t *testing.T) {
	habits := []models.Habit{habitWithDays("a", "2024-01-01")}
	BuildActivityMap(habits)
	if len(habits[0].CompletedDays) != 1 {
		t.Error("BuildActivityMap() modified its input")
	}
}

func TestActivityLevel(t *testing.T) {
	tests := []struct {
		count int
		want  int
	}{
		{0, 0},
		{1, 1},
		{2, 2},
		{3, 3},
		{4, 3},
		{42, 3},
		{-1, 0},
	}

	for _, tt := range tests {
		if got := ActivityLevel(tt.count); got != tt.want {
			t.Errorf("ActivityLevel(%d) = %d, want %d", tt.count, got, tt.want)
		}
	}
}

func TestGroupPhotosByDatePreservesOrder(t *testing.T) {
	photos := []models.Photo{
		{ID: 5, Date: "2024-01-02"},
		{ID: 2, Date: "2024-01-01"},
		{ID: 9, Date: "2024-01-02"},
		{ID: 1, Date: "2024-01-02"},
	}

	groups := GroupPhotosByDate(photos)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}

	var ids []int64
	for _, p := range groups["2024-01-02"] {
		ids = append(ids, p.ID)
	}
	if !reflect.DeepEqual(ids, []int64{5, 9, 1}) {
		t.Errorf("group order = %v, want [5 9 1]", ids)
	}
}

func TestSortNewestFirst(t *testing.T) {
	photos := []models.Photo{
		{ID: 1, Date: "2024-01-01"},
		{ID: 3, Date: "2024-01-03"},
		{ID: 2, Date: "2024-01-03"},
	}

	sorted := SortNewestFirst(photos)
	var ids []int64
	for _, p := range sorted {
		ids = append(ids, p.ID)
	}
	if !reflect.DeepEqual(ids, []int64{3, 2, 1}) {
		t.Errorf("SortNewestFirst() order = %v, want [3 2 1]", ids)
	}
	if photos[0].ID != 1 {
		t.Error("SortNewestFirst() reordered its input")
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		part, total, want int
	}{
		{0, 0, 0},
		{2, 3, 67},
		{1, 3, 33},
		{1, 2, 50},
		{3, 3, 100},
	}

	for _, tt := range tests {
		if got := Percent(tt.part, tt.total); got != tt.want {
			t.Errorf("Percent(%d, %d) = %d, want %d", tt.part, tt.total, got, tt.want)
		}
	}
}

func TestBuildHeatmap(t *testing.T) {
	now := time.Date(2024, 9, 10, 12, 0, 0, 0, time.UTC)
	habits := []models.Habit{
		habitWithDays("a", "2024-09-01", "2024-09-02", "2024-08-31"),
		habitWithDays("b", "2024-09-01"),
		habitWithDays("c", "2024-09-01"),
		habitWithDays("d", "2024-09-01"),
	}

	hm, err := BuildHeatmap(habits, 2024, time.September, now, time.UTC)
	if err != nil {
		t.Fatalf("BuildHeatmap() error = %v", err)
	}

	if hm.LeadingBlanks != 6 {
		t.Errorf("LeadingBlanks = %d, want 6", hm.LeadingBlanks)
	}
	if len(hm.Cells) != 30 {
		t.Fatalf("len(Cells) = %d, want 30", len(hm.Cells))
	}

	first := hm.Cells[0]
	if first.DayKey != "2024-09-01" || first.Count != 4 || first.Level != 3 {
		t.Errorf("first cell = %+v, want 2024-09-01 count 4 level 3", first)
	}
	if hm.Cells[1].Level != 1 {
		t.Errorf("second cell level = %d, want 1", hm.Cells[1].Level)
	}
	if !hm.Cells[9].Today {
		t.Errorf("cell %s should be today", hm.Cells[9].DayKey)
	}
	if !hm.Cells[10].Future {
		t.Errorf("cell %s should be in the future", hm.Cells[10].DayKey)
	}
	if hm.Total != 5 || hm.ActiveDays != 2 {
		t.Errorf("Total = %d, ActiveDays = %d, want 5 and 2", hm.Total, hm.ActiveDays)
	}
}

func TestBuildHeatmapRejectsFutureMonth(t *testing.T) {
	now := time.Date(2024, 9, 10, 12, 0, 0, 0, time.UTC)
	if _, err := BuildHeatmap(nil, 2024, time.October, now, time.UTC); err == nil {
		t.Error("BuildHeatmap() expected error for a future month")
	}
	if _, err := BuildHeatmap(nil, 2024, time.Month(13), now, time.UTC); err == nil {
		t.Error("BuildHeatmap() expected error for month 13")
	}
}

func TestCompletionRates(t *testing.T) {
	// 2024-01-01 is a Monday
	monOnly := habitWithDays("mon", "2024-01-01")
	monOnly.Frequency = []string{"Mon"}
	daily := habitWithDays("daily", "2024-01-02")

	rates := CompletionRates([]models.Habit{monOnly, daily}, []string{"2024-01-01", "2024-01-02"})

	want := []DayRate{
		{DayKey: "2024-01-01", Due: 2, Completed: 1, Rate: 50},
		{DayKey: "2024-01-02", Due: 1, Completed: 1, Rate: 100},
	}
	if !reflect.DeepEqual(rates, want) {
		t.Errorf("CompletionRates() = %+v, want %+v", rates, want)
	}
}
