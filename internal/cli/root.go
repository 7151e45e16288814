// Package cli holds the state shared by the habitsnap commands.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/habitsnap/internal/backup"
	"github.com/julianstephens/habitsnap/internal/habits"
	"github.com/julianstephens/habitsnap/internal/logger"
	"github.com/julianstephens/habitsnap/internal/models"
	"github.com/julianstephens/habitsnap/internal/storage"
	"github.com/julianstephens/habitsnap/internal/storage/sqlite"
	"github.com/julianstephens/habitsnap/internal/utils"
)

type Context struct {
	Store storage.Provider
	// Out receives command output; nil means stdout.
	Out io.Writer
	// TZ overrides the timezone setting when non-empty.
	TZ string
	// Clock overrides time.Now.
	Clock func() time.Time

	service *habits.Service
}

func (c *Context) Writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Writer(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Writer(), args...)
}

func (c *Context) now() time.Time {
	if c.Clock != nil {
		return c.Clock()
	}
	return time.Now()
}

// Settings returns the stored settings with defaults filled in.
func (c *Context) Settings() (models.Settings, error) {
	settings, err := c.Store.GetSettings()
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	models.ApplyDefaultSettings(&settings)
	return settings, nil
}

// Location resolves --tz first and the timezone setting second.
func (c *Context) Location() (*time.Location, error) {
	tz := c.TZ
	if tz == "" {
		settings, err := c.Settings()
		if err != nil {
			return nil, err
		}
		tz = settings.Timezone
	}
	loc, err := utils.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	return loc, nil
}

// Service returns the habit service, built on first use.
func (c *Context) Service() (*habits.Service, error) {
	if c.service != nil {
		return c.service, nil
	}
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}
	c.service = habits.NewService(c.Store, habits.WithClock(c.now), habits.WithLocation(loc))
	return c.service, nil
}

// PerformAutomaticBackup snapshots SQLite stores. Failures are logged only.
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ResolveDay accepts "", "today", "yesterday" or a YYYY-MM-DD key.
func ResolveDay(svc *habits.Service, arg string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "", "today":
		return svc.Today(), nil
	case "yesterday":
		return utils.AddDays(svc.Today(), -1)
	}
	if !utils.IsDayKey(arg) {
		return "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD, today or yesterday)", arg)
	}
	return arg, nil
}

// ResolveHabit finds a habit by exact id, then by exact name.
func ResolveHabit(svc *habits.Service, ref string) (models.Habit, error) {
	h, err := svc.GetHabit(ref)
	if err == nil {
		return h, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return models.Habit{}, err
	}

	matches, err := svc.FindHabitsByName(ref)
	if err != nil {
		return models.Habit{}, err
	}
	switch len(matches) {
	case 0:
		return models.Habit{}, fmt.Errorf("habit %q: %w", ref, storage.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return models.Habit{}, fmt.Errorf("%d habits are named %q; use the id instead", len(matches), ref)
	}
}

// CheckMark renders a completion box.
func CheckMark(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}
