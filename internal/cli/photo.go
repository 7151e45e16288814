package cli

import (
	"fmt"
	"os"

	"github.com/julianstephens/habitsnap/internal/constants"
	"github.com/julianstephens/habitsnap/internal/media"
	"github.com/julianstephens/habitsnap/internal/models"
)

type PhotoCmd struct {
	Add    PhotoAddCmd    `cmd:"" help:"Attach a photo to a day, completing the habit when one is given."`
	List   PhotoListCmd   `cmd:"" help:"List photos, newest day first."`
	Delete PhotoDeleteCmd `cmd:"" help:"Delete a photo."`
	Retag  PhotoRetagCmd  `cmd:"" help:"Move a photo to another habit."`
	Export PhotoExportCmd `cmd:"" help:"Write a photo's image to a file."`
}

type PhotoAddCmd struct {
	File  string `arg:"" type:"existingfile" help:"Image file (jpeg, png, gif or webp)."`
	Habit string `help:"Habit id or name. Without it the photo is not attributed to any habit."`
	Date  string `help:"Day the photo belongs to: YYYY-MM-DD, today or yesterday." default:"today"`
	Note  string `help:"Optional note."`
}

func (c *PhotoAddCmd) Run(ctx *Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}

	day, err := ResolveDay(svc, c.Date)
	if err != nil {
		return err
	}

	habitID := ""
	if c.Habit != "" {
		h, err := ResolveHabit(svc, c.Habit)
		if err != nil {
			return err
		}
		habitID = h.ID
	}

	dataURL, err := media.ReadFile(c.File)
	if err != nil {
		return err
	}

	result, err := svc.AttachPhotoAndMaybeComplete(habitID, day, dataURL, c.Note)
	if err != nil {
		return err
	}

	ctx.Printf("Saved photo %d for %s\n", result.Photo.ID, day)
	switch {
	case result.Completed:
		ctx.Printf("Completed %q (streak %d)\n", result.Habit.Name, result.Habit.Streak)
	case result.Habit != nil:
		ctx.Printf("%q was already done on %s\n", result.Habit.Name, day)
	}
	return nil
}

type PhotoListCmd struct {
	Date  string `help:"Only photos of this day (YYYY-MM-DD, today or yesterday)."`
	Habit string `help:"Only photos of this habit (id or name, or 'unknown')."`
}

func (c *PhotoListCmd) Run(ctx *Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}

	day := ""
	if c.Date != "" {
		if day, err = ResolveDay(svc, c.Date); err != nil {
			return err
		}
	}

	habitID := ""
	switch c.Habit {
	case "":
	case constants.UnknownHabitID:
		habitID = constants.UnknownHabitID
	default:
		h, err := ResolveHabit(svc, c.Habit)
		if err != nil {
			return err
		}
		habitID = h.ID
	}

	photos, err := svc.FindPhotos(habitID, day)
	if err != nil {
		return err
	}
	if len(photos) == 0 {
		ctx.Println("No photos found.")
		return nil
	}

	names, err := habitNames(ctx)
	if err != nil {
		return err
	}

	currentDay := ""
	for _, p := range photos {
		if p.Date != currentDay {
			if currentDay != "" {
				ctx.Println()
			}
			ctx.Printf("%s\n", p.Date)
			currentDay = p.Date
		}
		line := fmt.Sprintf("  #%-5d %-20s %s", p.ID, photoOwner(p, names), media.Describe(p.DataURL))
		if p.Note != "" {
			line += "  " + p.Note
		}
		ctx.Println(line)
	}
	return nil
}

func habitNames(ctx *Context) (map[string]string, error) {
	svc, err := ctx.Service()
	if err != nil {
		return nil, err
	}
	habitList, err := svc.ListHabits()
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(habitList))
	for _, h := range habitList {
		names[h.ID] = h.Name
	}
	return names, nil
}

func photoOwner(p models.Photo, names map[string]string) string {
	if !p.IsAttributed() {
		return "(no habit)"
	}
	if name, ok := names[p.HabitID]; ok {
		return name
	}
	return "(deleted habit)"
}

type PhotoDeleteCmd struct {
	ID int64 `arg:"" help:"Photo id."`
}

func (c *PhotoDeleteCmd) Run(ctx *Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	if err := svc.DeletePhoto(c.ID); err != nil {
		return err
	}
	ctx.Printf("Deleted photo %d\n", c.ID)
	return nil
}

type PhotoRetagCmd struct {
	ID    int64  `arg:"" help:"Photo id."`
	Habit string `arg:"" help:"Habit id or name, or 'unknown' to detach."`
}

func (c *PhotoRetagCmd) Run(ctx *Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}

	habitID := constants.UnknownHabitID
	label := "no habit"
	if c.Habit != constants.UnknownHabitID {
		h, err := ResolveHabit(svc, c.Habit)
		if err != nil {
			return err
		}
		habitID = h.ID
		label = h.Name
	}

	found, err := svc.RetagPhoto(c.ID, habitID)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("photo %d not found", c.ID)
	}
	ctx.Printf("Photo %d now belongs to %s\n", c.ID, label)
	return nil
}

type PhotoExportCmd struct {
	ID  int64  `arg:"" help:"Photo id."`
	Out string `arg:"" help:"Destination file."`
}

func (c *PhotoExportCmd) Run(ctx *Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}

	photos, err := svc.ListPhotos()
	if err != nil {
		return err
	}
	for _, p := range photos {
		if p.ID != c.ID {
			continue
		}
		mime, data, err := media.DecodeDataURL(p.DataURL)
		if err != nil {
			return fmt.Errorf("photo %d: %w", c.ID, err)
		}
		if err := os.WriteFile(c.Out, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", c.Out, err)
		}
		ctx.Printf("Wrote %s (%s, %d bytes)\n", c.Out, mime, len(data))
		return nil
	}
	return fmt.Errorf("photo %d not found", c.ID)
}
