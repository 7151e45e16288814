package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitsnap/internal/activity"
	"github.com/julianstephens/habitsnap/internal/media"
	"github.com/julianstephens/habitsnap/internal/tui/components/heatmap"
	"github.com/julianstephens/habitsnap/internal/utils"
)

type HeatmapCmd struct {
	Month string `help:"Month to show (YYYY-MM). Defaults to the current month."`
}

func (c *HeatmapCmd) Run(ctx *Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}

	now := svc.Now()
	year, month := now.Year(), now.Month()
	if c.Month != "" {
		if year, month, err = utils.ParseMonth(c.Month); err != nil {
			return err
		}
	}

	data, err := svc.GetHeatmapData(year, month)
	if err != nil {
		return err
	}
	ctx.Println(heatmap.Render(data))
	return nil
}

type ProgressCmd struct {
	Days int `help:"Also show the completion rate of the previous N days." default:"7"`
}

func (c *ProgressCmd) Run(ctx *Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}

	progress, err := svc.GetTodayProgress()
	if err != nil {
		return err
	}

	ctx.Printf("Today (%s): %d/%d done, %d%%\n", progress.DayKey, progress.Completed, len(progress.Due), progress.Rate)
	ctx.Println(progressBar(progress.Rate, 30))

	if c.Days <= 0 {
		return nil
	}

	habitList, err := svc.ListHabits()
	if err != nil {
		return err
	}
	days := make([]string, 0, c.Days)
	for i := c.Days; i >= 1; i-- {
		day, err := utils.AddDays(progress.DayKey, -i)
		if err != nil {
			return err
		}
		days = append(days, day)
	}

	ctx.Printf("\nPrevious %d days:\n", c.Days)
	for _, r := range activity.CompletionRates(habitList, days) {
		if r.Due == 0 {
			ctx.Printf("  %s  nothing due\n", r.DayKey)
			continue
		}
		ctx.Printf("  %s  %s %3d%% (%d/%d)\n", r.DayKey, progressBar(r.Rate, 20), r.Rate, r.Completed, r.Due)
	}
	return nil
}

func progressBar(rate, width int) string {
	filled := rate * width / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

type DayCmd struct {
	Date string `help:"Day to show: YYYY-MM-DD, today or yesterday." default:"today"`
}

func (c *DayCmd) Run(ctx *Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}

	day, err := ResolveDay(svc, c.Date)
	if err != nil {
		return err
	}

	detail, err := svc.GetDayDetail(day)
	if err != nil {
		return err
	}

	ctx.Printf("%s (%s)\n\n", detail.DayKey, weekdayName(detail.DayKey))
	if len(detail.Habits) == 0 {
		ctx.Println("No habits.")
	}
	for _, hd := range detail.Habits {
		status := CheckMark(hd.Completed)
		if !hd.Due {
			status = "[-]"
		}
		line := fmt.Sprintf("%s %s", status, hd.Habit.Name)
		if len(hd.Photos) > 0 {
			line += fmt.Sprintf("  📷 %d", len(hd.Photos))
		}
		ctx.Println(line)
		for _, p := range hd.Photos {
			ctx.Printf("      #%d %s %s\n", p.ID, media.Describe(p.DataURL), p.Note)
		}
	}

	if len(detail.Unattributed) > 0 {
		ctx.Printf("\nOther photos:\n")
		for _, p := range detail.Unattributed {
			ctx.Printf("  #%d %s %s\n", p.ID, media.Describe(p.DataURL), p.Note)
		}
	}

	ctx.Printf("\nCompletion: %d%%\n", detail.Rate)
	return nil
}

func weekdayName(dayKey string) string {
	tag, err := utils.WeekdayTag(dayKey)
	if err != nil {
		return "?"
	}
	return tag
}
