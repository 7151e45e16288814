// Package activity builds read-only calendar views over habits and photos.
package activity

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/julianstephens/habitsnap/internal/constants"
	"github.com/julianstephens/habitsnap/internal/models"
	"github.com/julianstephens/habitsnap/internal/utils"
)

// BuildActivityMap counts, for every day key, how many habits were completed
// on that day.
func BuildActivityMap(habits []models.Habit) map[string]int {
	counts := make(map[string]int)
	for _, h := range habits {
		for day := range h.CompletedDays {
			counts[day]++
		}
	}
	return counts
}

// ActivityLevel buckets a completion count into 0..3. Three or more
// completions share the top level.
func ActivityLevel(count int) int {
	if count <= 0 {
		return constants.ActivityLevelNone
	}
	return min(count, constants.ActivityLevelMax)
}

// GroupPhotosByDate buckets photos by day key, keeping input order within
// each bucket.
func GroupPhotosByDate(photos []models.Photo) map[string][]models.Photo {
	groups := make(map[string][]models.Photo)
	for _, p := range photos {
		groups[p.Date] = append(groups[p.Date], p)
	}
	return groups
}

// SortNewestFirst returns a copy of photos ordered by date descending, then
// by id descending so later captures on the same day come first.
func SortNewestFirst(photos []models.Photo) []models.Photo {
	sorted := append([]models.Photo(nil), photos...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date > sorted[j].Date
		}
		return sorted[i].ID > sorted[j].ID
	})
	return sorted
}

// Percent returns round(100*part/total), or 0 when total is 0.
func Percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(total)))
}

// Cell is one day of a heatmap month.
type Cell struct {
	DayKey string `json:"dayKey"`
	Count  int    `json:"count"`
	Level  int    `json:"level"`
	Today  bool   `json:"today"`
	Future bool   `json:"future"`
}

// Heatmap is a Monday-first month of activity cells.
type Heatmap struct {
	Year          int        `json:"year"`
	Month         time.Month `json:"month"`
	LeadingBlanks int        `json:"leadingBlanks"`
	Cells         []Cell     `json:"cells"`
	Total         int        `json:"total"`
	ActiveDays    int        `json:"activeDays"`
}

// BuildHeatmap lays out the activity of one month. Months after the month
// of now are rejected.
func BuildHeatmap(habits []models.Habit, year int, month time.Month, now time.Time, loc *time.Location) (Heatmap, error) {
	if month < time.January || month > time.December {
		return Heatmap{}, fmt.Errorf("invalid month %d", month)
	}
	if !utils.CanShowMonth(year, month, now, loc) {
		return Heatmap{}, fmt.Errorf("cannot show %04d-%02d: month is in the future", year, int(month))
	}

	today := utils.ToDayKey(now, loc)
	counts := BuildActivityMap(habits)
	grid := utils.BuildMonthGrid(year, month)

	hm := Heatmap{
		Year:          year,
		Month:         month,
		LeadingBlanks: grid.LeadingBlanks,
		Cells:         make([]Cell, 0, len(grid.Days)),
	}
	for _, day := range grid.Days {
		c := counts[day]
		hm.Cells = append(hm.Cells, Cell{
			DayKey: day,
			Count:  c,
			Level:  ActivityLevel(c),
			Today:  day == today,
			Future: day > today,
		})
		hm.Total += c
		if c > 0 {
			hm.ActiveDays++
		}
	}
	return hm, nil
}

// DayRate is the completion rate of the habits due on one day.
type DayRate struct {
	DayKey    string `json:"dayKey"`
	Due       int    `json:"due"`
	Completed int    `json:"completed"`
	Rate      int    `json:"rate"`
}

// CompletionRates computes a DayRate for each day key, in order.
func CompletionRates(habits []models.Habit, days []string) []DayRate {
	rates := make([]DayRate, 0, len(days))
	for _, day := range days {
		r := DayRate{DayKey: day}
		for _, h := range habits {
			if !utils.IsDue(h, day) {
				continue
			}
			r.Due++
			if _, ok := h.CompletedDays[day]; ok {
				r.Completed++
			}
		}
		r.Rate = Percent(r.Completed, r.Due)
		rates = append(rates, r)
	}
	return rates
}
