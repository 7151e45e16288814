package system

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/habitsnap/internal/cli"
	"github.com/julianstephens/habitsnap/internal/logger"
	"github.com/julianstephens/habitsnap/internal/media"
	"github.com/julianstephens/habitsnap/internal/models"
	"github.com/julianstephens/habitsnap/internal/storage"
)

type DebugCmd struct {
	DBPath       DebugDBPathCmd       `cmd:"" help:"Show database path."`
	DumpHabit    DebugDumpHabitCmd    `cmd:"" help:"Dump habit data as JSON."`
	DumpPhoto    DebugDumpPhotoCmd    `cmd:"" help:"Dump photo data as JSON."`
	DumpDay      DebugDumpDayCmd      `cmd:"" help:"Dump the status of every habit on a day as JSON."`
	DumpSettings DebugDumpSettingsCmd `cmd:"" help:"Dump settings data as JSON."`
}

func printJSON(ctx *cli.Context, what string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", what, err)
	}
	ctx.Println(string(data))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	out := map[string]string{"path": ctx.Store.GetConfigPath()}
	if logPath := logger.Path(); logPath != "" {
		out["log"] = logPath
	}
	return printJSON(ctx, "output", out)
}

type DebugDumpHabitCmd struct {
	ID string `arg:"" help:"ID of the habit to dump."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.Store.GetHabit(cmd.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("habit not found: %s", cmd.ID)
		}
		return fmt.Errorf("failed to get habit: %w", err)
	}
	return printJSON(ctx, "habit", habit)
}

type DebugDumpPhotoCmd struct {
	ID   int64 `arg:"" help:"ID of the photo to dump."`
	Full bool  `help:"Include the full image data URL."`
}

func (cmd *DebugDumpPhotoCmd) Run(ctx *cli.Context) error {
	photo, err := ctx.Store.GetPhoto(cmd.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("photo not found: %d", cmd.ID)
		}
		return fmt.Errorf("failed to get photo: %w", err)
	}
	if !cmd.Full {
		photo = summarizePhoto(photo)
	}
	return printJSON(ctx, "photo", photo)
}

// summarizePhoto swaps the image payload for a short description.
func summarizePhoto(p models.Photo) models.Photo {
	p.DataURL = "<" + media.Describe(p.DataURL) + ">"
	return p
}

type DebugDumpDayCmd struct {
	Date string `arg:"" default:"today" help:"Day to dump (YYYY-MM-DD, today or yesterday)."`
}

func (cmd *DebugDumpDayCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	day, err := cli.ResolveDay(svc, cmd.Date)
	if err != nil {
		return err
	}
	detail, err := svc.GetDayDetail(day)
	if err != nil {
		return err
	}

	for i := range detail.Habits {
		for j := range detail.Habits[i].Photos {
			detail.Habits[i].Photos[j] = summarizePhoto(detail.Habits[i].Photos[j])
		}
	}
	for i := range detail.Unattributed {
		detail.Unattributed[i] = summarizePhoto(detail.Unattributed[i])
	}
	return printJSON(ctx, "day", detail)
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	return printJSON(ctx, "settings", settings)
}
