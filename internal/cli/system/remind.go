package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/habitsnap/internal/cli"
	"github.com/julianstephens/habitsnap/internal/constants"
	"github.com/julianstephens/habitsnap/internal/notifier"
	"github.com/julianstephens/habitsnap/internal/reminder"
)

type RemindCmd struct {
	Once    bool `help:"Run a single scan and exit."`
	DryRun  bool `help:"Print reminders that would fire instead of sending them."`
	Console bool `help:"Print reminders in this terminal instead of the tray app."`
}

func (c *RemindCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}
	svc, err := ctx.Service()
	if err != nil {
		return err
	}

	console := notifier.Console{W: ctx.Writer(), Now: svc.Now}
	var n reminder.Notifier = notifier.Fallback{Primary: notifier.New(), Secondary: console}
	if c.Console {
		n = console
	}

	sched := reminder.New(svc, n, settings.Notifications,
		reminder.WithClock(svc.Now),
		reminder.WithLocation(svc.Location()),
		reminder.WithDryRun(c.DryRun),
	)

	if c.Once {
		if !settings.Notifications.Enabled && !c.DryRun {
			ctx.Println("Notifications are disabled in settings.")
			return nil
		}
		firings, err := sched.Check(svc.Now())
		if err != nil {
			return fmt.Errorf("reminder scan failed: %w", err)
		}
		if len(firings) == 0 {
			ctx.Println("No reminders due.")
			return nil
		}
		if c.DryRun {
			for _, f := range firings {
				ctx.Printf("Would notify at %s: %s - %s\n", f.NotifyAt.Format(constants.TimeFormat), f.Title, f.Body)
			}
		}
		return nil
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sched.Arm(runCtx); err != nil {
		if errors.Is(err, reminder.ErrDisabled) {
			return fmt.Errorf("%w; run 'habitsnap settings set notifications_enabled true'", err)
		}
		return err
	}
	ctx.Printf("Watching reminders (every %s). Press Ctrl+C to stop.\n", constants.ReminderScanInterval)

	<-runCtx.Done()
	sched.Disarm()
	ctx.Println("Stopped.")
	return nil
}
