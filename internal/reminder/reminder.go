// Package reminder scans habits on an interval and sends a notification
// when a habit's reminder time, minus the configured advance, comes up.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/julianstephens/habitsnap/internal/constants"
	"github.com/julianstephens/habitsnap/internal/logger"
	"github.com/julianstephens/habitsnap/internal/models"
	"github.com/julianstephens/habitsnap/internal/utils"
)

// ErrDisabled is returned by Arm when notifications are turned off.
var ErrDisabled = errors.New("notifications are disabled")

// HabitSource lists the habits to scan. habits.Service satisfies it.
type HabitSource interface {
	ListHabits() ([]models.Habit, error)
}

// Notifier delivers one notification.
type Notifier interface {
	Notify(title, body string) error
}

// Firing is a notification sent by a scan.
type Firing struct {
	HabitID  string
	Name     string
	Title    string
	Body     string
	NotifyAt time.Time
}

type Option func(*Scheduler)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithLocation sets the timezone reminder times are interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithDryRun makes scans report firings without notifying.
func WithDryRun(dryRun bool) Option {
	return func(s *Scheduler) { s.dryRun = dryRun }
}

// Scheduler is idle until Arm and armed until Disarm or until the context
// passed to Arm is canceled.
type Scheduler struct {
	source   HabitSource
	notifier Notifier
	now      func() time.Time
	loc      *time.Location
	dryRun   bool

	mu       sync.Mutex
	settings models.NotificationSettings
	fired    map[string]time.Time
	cron     *cron.Cron
	stop     chan struct{}
}

func New(source HabitSource, notifier Notifier, settings models.NotificationSettings, opts ...Option) *Scheduler {
	s := &Scheduler{
		source:   source,
		notifier: notifier,
		now:      time.Now,
		loc:      time.Local,
		settings: settings,
		fired:    make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Armed reports whether the periodic scan is running.
func (s *Scheduler) Armed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cron != nil
}

// Arm starts the periodic scan and runs one scan immediately. Arming an
// armed scheduler is a no-op. The scan stops when ctx is canceled.
func (s *Scheduler) Arm(ctx context.Context) error {
	s.mu.Lock()
	if !s.settings.Enabled {
		s.mu.Unlock()
		return ErrDisabled
	}
	if s.cron != nil {
		s.mu.Unlock()
		return nil
	}

	c := cron.New(cron.WithLocation(s.loc))
	if _, err := c.AddFunc(constants.ReminderCronSpec, s.scan); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("schedule reminder scan: %w", err)
	}
	stop := make(chan struct{})
	s.cron = c
	s.stop = stop
	s.mu.Unlock()

	c.Start()
	logger.Debug("Reminder scheduler armed", "spec", constants.ReminderCronSpec)

	go func() {
		select {
		case <-ctx.Done():
			s.disarm(c)
		case <-stop:
		}
	}()

	s.scan()
	return nil
}

// Disarm stops the periodic scan and waits for a running scan to finish.
func (s *Scheduler) Disarm() {
	s.disarm(nil)
}

// disarm stops the current cron. When only is set, nothing happens unless
// it is still the current cron, so an earlier arm's context cannot stop a
// later arm.
func (s *Scheduler) disarm(only *cron.Cron) {
	s.mu.Lock()
	c := s.cron
	if c == nil || (only != nil && c != only) {
		s.mu.Unlock()
		return
	}
	s.cron = nil
	close(s.stop)
	s.stop = nil
	s.mu.Unlock()

	<-c.Stop().Done()
	logger.Debug("Reminder scheduler disarmed")
}

// UpdateSettings replaces the notification settings. Disabling
// notifications disarms the scheduler.
func (s *Scheduler) UpdateSettings(settings models.NotificationSettings) {
	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()

	if !settings.Enabled {
		s.Disarm()
	}
}

func (s *Scheduler) scan() {
	if _, err := s.Check(s.now()); err != nil {
		logger.Warn("Reminder scan failed", "error", err)
	}
}

// Check fires every reminder whose notify window contains now and returns
// what it fired. Delivery failures are logged and do not stop the scan.
func (s *Scheduler) Check(now time.Time) ([]Firing, error) {
	habits, err := s.source.ListHabits()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	settings := s.settings
	due := s.collect(habits, now.In(s.loc), settings)
	s.mu.Unlock()

	if s.dryRun {
		return due, nil
	}
	for _, f := range due {
		if err := s.notifier.Notify(f.Title, f.Body); err != nil {
			logger.Warn("Failed to deliver reminder", "habit", f.HabitID, "error", err)
		}
	}
	return due, nil
}

// collect picks the habits to fire and records their slots. Callers hold mu.
func (s *Scheduler) collect(habits []models.Habit, now time.Time, settings models.NotificationSettings) []Firing {
	s.prune(now)

	today := utils.ToDayKey(now, s.loc)
	// A reminder just after midnight with an advance can notify the day before
	tomorrow, err := utils.AddDays(today, 1)
	if err != nil {
		return nil
	}
	advance := time.Duration(settings.AdvanceMinutes) * time.Minute

	var firings []Firing
	for _, h := range habits {
		if h.ReminderTime == "" {
			continue
		}
		for _, day := range []string{today, tomorrow} {
			if !utils.IsDue(h, day) {
				continue
			}
			at, err := utils.CombineDateAndTime(day, h.ReminderTime, s.loc)
			if err != nil {
				logger.Debug("Skipping habit with invalid reminder time", "habit", h.ID, "time", h.ReminderTime)
				break
			}
			notifyAt := at.Add(-advance)
			if now.Before(notifyAt) || !now.Before(notifyAt.Add(constants.ReminderWindow)) {
				continue
			}

			key := slotKey(h, settings.AdvanceMinutes)
			if last, ok := s.fired[key]; ok && now.Sub(last) <= constants.ReminderWindow {
				continue
			}
			s.fired[key] = now

			title, body := message(h, settings)
			firings = append(firings, Firing{HabitID: h.ID, Name: h.Name, Title: title, Body: body, NotifyAt: notifyAt})
		}
	}
	return firings
}

// prune drops slots that can no longer suppress a firing.
func (s *Scheduler) prune(now time.Time) {
	for key, last := range s.fired {
		if now.Sub(last) > 2*constants.ReminderWindow {
			delete(s.fired, key)
		}
	}
}

// slotKey changes when the habit's reminder time or the advance changes, so
// either edit gets a fresh slot.
func slotKey(h models.Habit, advanceMinutes int) string {
	return fmt.Sprintf("%s-%s-%d", h.ID, h.ReminderTime, advanceMinutes)
}

func message(h models.Habit, settings models.NotificationSettings) (string, string) {
	title := "Habit Reminder"
	body := fmt.Sprintf("Time for %s!", h.Name)
	if settings.AdvanceMinutes > 0 {
		body = fmt.Sprintf("%s at %s (in %d min)", h.Name, h.ReminderTime, settings.AdvanceMinutes)
	}

	switch settings.UIStyle {
	case constants.UIStyleVibrant:
		title = "✨ " + title + " ✨"
		body = "🚀 " + body + " 💪"
	case constants.UIStyleMinimal:
		title = h.Name
		body = h.ReminderTime
	}
	return title, body
}
