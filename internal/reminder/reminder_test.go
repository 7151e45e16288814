package reminder

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/habitsnap/internal/models"
)

type fakeSource struct {
	habits []models.Habit
	err    error
}

func (f *fakeSource) ListHabits() ([]models.Habit, error) {
	return f.habits, f.err
}

type fakeNotifier struct {
	mu    sync.Mutex
	sent  []string
	calls chan struct{}
	err   error
}

func (f *fakeNotifier) Notify(title, body string) error {
	f.mu.Lock()
	f.sent = append(f.sent, title+"|"+body)
	f.mu.Unlock()
	if f.calls != nil {
		f.calls <- struct{}{}
	}
	return f.err
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

var enabled = models.NotificationSettings{Enabled: true, UIStyle: "default"}

func at(hour, min, sec int) time.Time {
	// 2024-01-08 is a Monday
	return time.Date(2024, 1, 8, hour, min, sec, 0, time.UTC)
}

func newScheduler(habits []models.Habit, n Notifier, settings models.NotificationSettings) *Scheduler {
	return New(&fakeSource{habits: habits}, n, settings, WithLocation(time.UTC))
}

func TestCheckFiresWithinWindow(t *testing.T) {
	habits := []models.Habit{{ID: "h1", Name: "Read", ReminderTime: "09:00"}}

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"before", at(8, 59, 59), 0},
		{"at start", at(9, 0, 0), 1},
		{"inside", at(9, 0, 59), 1},
		{"window closed", at(9, 1, 0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &fakeNotifier{}
			s := newScheduler(habits, n, enabled)
			got, err := s.Check(tt.now)
			if err != nil {
				t.Fatalf("Check() error = %v", err)
			}
			if len(got) != tt.want || n.count() != tt.want {
				t.Errorf("Check() fired %d (notified %d), want %d", len(got), n.count(), tt.want)
			}
		})
	}
}

func TestCheckDeduplicatesSlot(t *testing.T) {
	n := &fakeNotifier{}
	s := newScheduler([]models.Habit{{ID: "h1", Name: "Read", ReminderTime: "09:00"}}, n, enabled)

	s.Check(at(9, 0, 0))
	s.Check(at(9, 0, 30))
	if n.count() != 1 {
		t.Errorf("notified %d times, want 1", n.count())
	}
}

func TestCheckNewSlotAfterEdit(t *testing.T) {
	src := &fakeSource{habits: []models.Habit{{ID: "h1", Name: "Read", ReminderTime: "09:00"}}}
	n := &fakeNotifier{}
	s := New(src, n, enabled, WithLocation(time.UTC))

	s.Check(at(9, 0, 0))

	// Changing the advance creates a new slot whose window contains now
	s.UpdateSettings(models.NotificationSettings{Enabled: true, AdvanceMinutes: 1})
	s.Check(at(8, 59, 10))
	if n.count() != 2 {
		t.Errorf("notified %d times, want 2", n.count())
	}

	// So does editing the reminder time
	src.habits = []models.Habit{{ID: "h1", Name: "Read", ReminderTime: "09:01"}}
	s.UpdateSettings(enabled)
	s.Check(at(9, 1, 5))
	if n.count() != 3 {
		t.Errorf("notified %d times, want 3", n.count())
	}
}

func TestCheckAdvanceMinutes(t *testing.T) {
	n := &fakeNotifier{}
	settings := models.NotificationSettings{Enabled: true, AdvanceMinutes: 15}
	s := newScheduler([]models.Habit{{ID: "h1", Name: "Read", ReminderTime: "09:00"}}, n, settings)

	if got, _ := s.Check(at(9, 0, 0)); len(got) != 0 {
		t.Error("fired at the reminder time despite the advance")
	}
	got, _ := s.Check(at(8, 45, 10))
	if len(got) != 1 {
		t.Fatalf("Check() fired %d, want 1", len(got))
	}
	if got[0].Body != "Read at 09:00 (in 15 min)" {
		t.Errorf("Body = %q", got[0].Body)
	}
}

func TestCheckReminderCrossingMidnight(t *testing.T) {
	n := &fakeNotifier{}
	settings := models.NotificationSettings{Enabled: true, AdvanceMinutes: 10}
	// Only due on Tuesday, notify at Monday 23:55
	s := newScheduler([]models.Habit{{ID: "h1", Name: "Run", ReminderTime: "00:05", Frequency: []string{"Tue"}}}, n, settings)

	got, _ := s.Check(at(23, 55, 0))
	if len(got) != 1 {
		t.Errorf("Check() fired %d, want 1", len(got))
	}
}

func TestCheckSkipsHabitsNotDue(t *testing.T) {
	habits := []models.Habit{
		{ID: "tue", Name: "Tue only", ReminderTime: "09:00", Frequency: []string{"Tue"}},
		{ID: "later", Name: "Not started", ReminderTime: "09:00", StartDate: "2024-02-01"},
		{ID: "none", Name: "No reminder"},
		{ID: "bad", Name: "Bad time", ReminderTime: "9am"},
	}
	n := &fakeNotifier{}
	s := newScheduler(habits, n, enabled)

	if got, _ := s.Check(at(9, 0, 0)); len(got) != 0 {
		t.Errorf("Check() fired %v, want none", got)
	}
}

func TestCheckSwallowsDeliveryErrors(t *testing.T) {
	habits := []models.Habit{
		{ID: "a", Name: "A", ReminderTime: "09:00"},
		{ID: "b", Name: "B", ReminderTime: "09:00"},
	}
	n := &fakeNotifier{err: errors.New("tray not running")}
	s := newScheduler(habits, n, enabled)

	got, err := s.Check(at(9, 0, 0))
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if len(got) != 2 || n.count() != 2 {
		t.Errorf("fired %d, notified %d; want 2 and 2", len(got), n.count())
	}
}

func TestCheckSourceError(t *testing.T) {
	s := New(&fakeSource{err: errors.New("db locked")}, &fakeNotifier{}, enabled)
	if _, err := s.Check(at(9, 0, 0)); err == nil {
		t.Error("Check() expected error")
	}
}

func TestCheckDryRun(t *testing.T) {
	n := &fakeNotifier{}
	s := New(&fakeSource{habits: []models.Habit{{ID: "h1", Name: "Read", ReminderTime: "09:00"}}}, n, enabled,
		WithLocation(time.UTC), WithDryRun(true))

	got, _ := s.Check(at(9, 0, 0))
	if len(got) != 1 || n.count() != 0 {
		t.Errorf("dry run fired %d, notified %d; want 1 and 0", len(got), n.count())
	}
}

func TestMessageStyles(t *testing.T) {
	h := models.Habit{Name: "Read", ReminderTime: "09:00"}

	tests := []struct {
		style     string
		wantTitle string
		wantBody  string
	}{
		{"default", "Habit Reminder", "Time for Read!"},
		{"vibrant", "✨ Habit Reminder ✨", "🚀 Time for Read! 💪"},
		{"minimal", "Read", "09:00"},
	}

	for _, tt := range tests {
		t.Run(tt.style, func(t *testing.T) {
			title, body := message(h, models.NotificationSettings{UIStyle: tt.style})
			if title != tt.wantTitle || body != tt.wantBody {
				t.Errorf("message() = %q, %q; want %q, %q", title, body, tt.wantTitle, tt.wantBody)
			}
		})
	}
}

func TestPruneDropsOldSlots(t *testing.T) {
	n := &fakeNotifier{}
	s := newScheduler([]models.Habit{{ID: "h1", Name: "Read", ReminderTime: "09:00"}}, n, enabled)

	s.Check(at(9, 0, 0))
	s.Check(at(9, 5, 0))
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.fired) != 0 {
		t.Errorf("fired map has %d entries, want 0", len(s.fired))
	}
}

func TestArmDisarm(t *testing.T) {
	n := &fakeNotifier{calls: make(chan struct{}, 4)}
	s := New(&fakeSource{habits: []models.Habit{{ID: "h1", Name: "Read", ReminderTime: "09:00"}}}, n, enabled,
		WithLocation(time.UTC), WithClock(func() time.Time { return at(9, 0, 0) }))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Arm(ctx); err != nil {
		t.Fatalf("Arm() error = %v", err)
	}
	if !s.Armed() {
		t.Fatal("Armed() = false after Arm")
	}
	select {
	case <-n.calls:
	case <-time.After(time.Second):
		t.Fatal("Arm() did not scan immediately")
	}
	if err := s.Arm(ctx); err != nil {
		t.Errorf("second Arm() error = %v", err)
	}

	s.Disarm()
	if s.Armed() {
		t.Error("Armed() = true after Disarm")
	}
	s.Disarm()
}

func TestArmStopsOnCancel(t *testing.T) {
	s := newScheduler(nil, &fakeNotifier{}, enabled)
	ctx, cancel := context.WithCancel(context.Background())

	if err := s.Arm(ctx); err != nil {
		t.Fatalf("Arm() error = %v", err)
	}
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for s.Armed() {
		if time.Now().After(deadline) {
			t.Fatal("scheduler still armed after cancel")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestRearmIgnoresEarlierContext(t *testing.T) {
	s := newScheduler(nil, &fakeNotifier{}, enabled)
	ctxA, cancelA := context.WithCancel(context.Background())
	ctxB, cancelB := context.WithCancel(context.Background())
	defer cancelB()

	if err := s.Arm(ctxA); err != nil {
		t.Fatalf("Arm(ctxA) error = %v", err)
	}
	s.Disarm()
	if err := s.Arm(ctxB); err != nil {
		t.Fatalf("Arm(ctxB) error = %v", err)
	}
	cancelA()
	time.Sleep(50 * time.Millisecond)

	if !s.Armed() {
		t.Fatal("canceling the first context disarmed the second arm")
	}
	s.Disarm()
}

func TestArmDisarmCyclesReleaseGoroutines(t *testing.T) {
	s := newScheduler(nil, &fakeNotifier{}, enabled)
	before := runtime.NumGoroutine()

	for range 50 {
		if err := s.Arm(context.Background()); err != nil {
			t.Fatalf("Arm() error = %v", err)
		}
		s.Disarm()
	}

	deadline := time.Now().Add(2 * time.Second)
	for runtime.NumGoroutine() > before+5 {
		if time.Now().After(deadline) {
			t.Fatalf("goroutines grew from %d to %d over 50 arm cycles", before, runtime.NumGoroutine())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestArmDisabled(t *testing.T) {
	s := newScheduler(nil, &fakeNotifier{}, models.NotificationSettings{})
	if err := s.Arm(context.Background()); !errors.Is(err, ErrDisabled) {
		t.Errorf("Arm() error = %v, want ErrDisabled", err)
	}
}

func TestUpdateSettingsDisableDisarms(t *testing.T) {
	s := newScheduler(nil, &fakeNotifier{}, enabled)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Arm(ctx); err != nil {
		t.Fatalf("Arm() error = %v", err)
	}
	s.UpdateSettings(models.NotificationSettings{Enabled: false})
	if s.Armed() {
		t.Error("Armed() = true after disabling notifications")
	}
}
