package habits

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitsnap/internal/activity"
	"github.com/julianstephens/habitsnap/internal/constants"
	"github.com/julianstephens/habitsnap/internal/logger"
	"github.com/julianstephens/habitsnap/internal/models"
	"github.com/julianstephens/habitsnap/internal/storage"
	"github.com/julianstephens/habitsnap/internal/utils"
)

// Service is the habit and photo API used by the CLI, the TUI and the
// reminder scheduler. Mutations of the same habit are serialized, and every
// returned habit reflects what was persisted.
type Service struct {
	store storage.Provider
	now   func() time.Time
	loc   *time.Location
	newID func() string
	locks keyedMutex
}

type Option func(*Service)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the timezone used to compute day keys.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithIDGenerator replaces the UUID generator used by CreateHabit.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

func NewService(store storage.Provider, opts ...Option) *Service {
	s := &Service{
		store: store,
		now:   time.Now,
		loc:   time.Local,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the current day key in the service timezone.
func (s *Service) Today() string {
	return utils.ToDayKey(s.now(), s.loc)
}

// Now returns the service clock's current time in the service timezone.
func (s *Service) Now() time.Time {
	return s.now().In(s.loc)
}

func (s *Service) Location() *time.Location {
	return s.loc
}

func (s *Service) ListHabits() ([]models.Habit, error) {
	habits, err := s.store.GetAllHabits()
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	return habits, nil
}

func (s *Service) GetHabit(id string) (models.Habit, error) {
	h, err := s.store.GetHabit(id)
	if err != nil {
		return models.Habit{}, fmt.Errorf("get habit: %w", err)
	}
	return h, nil
}

// FindHabitsByName returns the habits whose name matches exactly.
func (s *Service) FindHabitsByName(name string) ([]models.Habit, error) {
	habits, err := s.store.FindHabitsByIndex(storage.IndexHabitName, name)
	if err != nil {
		return nil, fmt.Errorf("find habits: %w", err)
	}
	return habits, nil
}

// prepare normalizes user-editable fields and validates the result.
func prepare(h models.Habit) (models.Habit, error) {
	h.Name = strings.TrimSpace(h.Name)
	freq, err := utils.NormalizeFrequency(h.Frequency)
	if err != nil {
		return models.Habit{}, err
	}
	h.Frequency = freq
	if h.CompletedDays == nil {
		h.CompletedDays = map[string]string{}
	}
	if err := h.Validate(); err != nil {
		return models.Habit{}, err
	}
	return h, nil
}

// CreateHabit stores a new habit under a freshly generated id. Any id on
// the input is ignored.
func (s *Service) CreateHabit(habit models.Habit) (models.Habit, error) {
	h, err := prepare(habit)
	if err != nil {
		return models.Habit{}, fmt.Errorf("create habit: %w", err)
	}
	h.ID = s.newID()
	h.CreatedAt = s.now().UTC().Truncate(time.Second)

	if err := s.store.AddHabit(h); err != nil {
		return models.Habit{}, fmt.Errorf("create habit: %w", err)
	}
	logger.Debug("Created habit", "id", h.ID, "name", h.Name)
	return h, nil
}

// SaveHabit writes an edited habit. A nil CompletedDays keeps the stored
// completion history and streak, which is how edit forms save. The creation
// time is always kept. Saving an unknown id inserts it.
func (s *Service) SaveHabit(habit models.Habit) (models.Habit, error) {
	if habit.ID == "" {
		return models.Habit{}, fmt.Errorf("save habit: id cannot be empty")
	}
	unlock := s.locks.Lock(habit.ID)
	defer unlock()

	keepHistory := habit.CompletedDays == nil

	existing, err := s.store.GetHabit(habit.ID)
	switch {
	case err == nil:
		if keepHistory {
			habit.CompletedDays = existing.CompletedDays
			habit.Streak = existing.Streak
		}
		habit.CreatedAt = existing.CreatedAt
	case errors.Is(err, storage.ErrNotFound):
		if habit.CreatedAt.IsZero() {
			habit.CreatedAt = s.now().UTC().Truncate(time.Second)
		}
	default:
		return models.Habit{}, fmt.Errorf("save habit: %w", err)
	}

	h, err := prepare(habit)
	if err != nil {
		return models.Habit{}, fmt.Errorf("save habit: %w", err)
	}
	if err := s.store.PutHabit(h); err != nil {
		return models.Habit{}, fmt.Errorf("save habit: %w", err)
	}
	return h, nil
}

// DeleteHabit removes a habit. Its photos are kept and still point at the
// deleted id. Deleting an unknown id is a no-op.
func (s *Service) DeleteHabit(id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	if err := s.store.DeleteHabit(id); err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}
	return nil
}

// ToggleHabitToday flips today's completion of the habit.
func (s *Service) ToggleHabitToday(id string) (models.Habit, error) {
	return s.ToggleHabitOn(id, s.Today())
}

// ToggleHabitOn flips the completion of the habit on dayKey. On a storage
// failure the stored habit is returned unchanged along with the error.
func (s *Service) ToggleHabitOn(id, dayKey string) (models.Habit, error) {
	if err := s.checkDay(dayKey); err != nil {
		return models.Habit{}, fmt.Errorf("toggle habit: %w", err)
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	current, err := s.store.GetHabit(id)
	if err != nil {
		return models.Habit{}, fmt.Errorf("toggle habit: %w", err)
	}
	if err := checkStarted(current, dayKey); err != nil {
		return current, fmt.Errorf("toggle habit: %w", err)
	}

	updated := ToggleCompletion(current, dayKey)
	if err := s.store.PutHabit(updated); err != nil {
		return current, fmt.Errorf("toggle habit: %w", err)
	}

	s.warnOnDrift(updated)
	return updated, nil
}

// checkDay rejects malformed and future day keys.
func (s *Service) checkDay(dayKey string) error {
	if !utils.IsDayKey(dayKey) {
		return fmt.Errorf("invalid day key %q (expected YYYY-MM-DD)", dayKey)
	}
	if dayKey > s.Today() {
		return fmt.Errorf("%s is in the future", dayKey)
	}
	return nil
}

// checkStarted rejects days before the habit's start date.
func checkStarted(h models.Habit, dayKey string) error {
	if h.StartDate != "" && dayKey < h.StartDate {
		return fmt.Errorf("%s is before %q started on %s", dayKey, h.Name, h.StartDate)
	}
	return nil
}

func (s *Service) warnOnDrift(h models.Habit) {
	if want := RecomputeStreak(h, s.Today()); want != h.Streak {
		logger.Warn("Cached streak differs from completion history",
			"habit", h.ID, "cached", h.Streak, "recomputed", want)
	}
}

// PhotoResult describes what AttachPhotoAndMaybeComplete stored.
type PhotoResult struct {
	Photo models.Photo
	// Habit is the habit after the call, nil for unattributed photos or a
	// habit id that no longer exists.
	Habit *models.Habit
	// Completed is true when the photo marked the day completed.
	Completed bool
}

// AttachPhotoAndMaybeComplete stores a photo for dayKey and, when it belongs
// to an existing habit not yet completed that day, completes the habit.
// An empty habitID stores the photo as unattributed.
func (s *Service) AttachPhotoAndMaybeComplete(habitID, dayKey, dataURL, note string) (PhotoResult, error) {
	if err := s.checkDay(dayKey); err != nil {
		return PhotoResult{}, fmt.Errorf("attach photo: %w", err)
	}
	if dataURL == "" {
		return PhotoResult{}, fmt.Errorf("attach photo: empty image payload")
	}
	if habitID == "" {
		habitID = constants.UnknownHabitID
	}

	photo := models.Photo{
		HabitID:   habitID,
		Date:      dayKey,
		DataURL:   dataURL,
		Note:      note,
		CreatedAt: s.now().UTC().Truncate(time.Second),
	}
	if !photo.IsAttributed() {
		id, err := s.store.AddPhoto(photo)
		if err != nil {
			return PhotoResult{}, fmt.Errorf("attach photo: %w", err)
		}
		photo.ID = id
		return PhotoResult{Photo: photo}, nil
	}

	unlock := s.locks.Lock(habitID)
	defer unlock()

	current, err := s.store.GetHabit(habitID)
	known := err == nil
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return PhotoResult{}, fmt.Errorf("attach photo: %w", err)
	default:
		if err := checkStarted(current, dayKey); err != nil {
			return PhotoResult{Habit: &current}, fmt.Errorf("attach photo: %w", err)
		}
	}

	id, err := s.store.AddPhoto(photo)
	if err != nil {
		return PhotoResult{}, fmt.Errorf("attach photo: %w", err)
	}
	photo.ID = id
	result := PhotoResult{Photo: photo}

	if !known {
		logger.Warn("Photo attached to unknown habit", "habit", habitID, "photo", id)
		return result, nil
	}

	updated, changed := RecordPhotoCompletion(current, dayKey, constants.CompletedMarker)
	if !changed {
		result.Habit = &current
		return result, nil
	}
	if err := s.store.PutHabit(updated); err != nil {
		// The photo must not outlive a failed completion.
		if delErr := s.store.DeletePhoto(id); delErr != nil {
			logger.Error("Failed to remove photo after habit update failed", "photo", id, "error", delErr)
		}
		return PhotoResult{Habit: &current}, fmt.Errorf("attach photo: %w", err)
	}

	s.warnOnDrift(updated)
	result.Habit = &updated
	result.Completed = true
	return result, nil
}

// ListPhotos returns every photo, newest day first.
func (s *Service) ListPhotos() ([]models.Photo, error) {
	photos, err := s.store.GetAllPhotos()
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	return activity.SortNewestFirst(photos), nil
}

// FindPhotos filters photos by habit and/or day. Empty arguments match all.
func (s *Service) FindPhotos(habitID, dayKey string) ([]models.Photo, error) {
	var (
		photos []models.Photo
		err    error
	)
	switch {
	case dayKey != "":
		photos, err = s.store.FindPhotosByIndex(storage.IndexPhotoDate, dayKey)
	case habitID != "":
		photos, err = s.store.FindPhotosByIndex(storage.IndexPhotoHabitID, habitID)
	default:
		photos, err = s.store.GetAllPhotos()
	}
	if err != nil {
		return nil, fmt.Errorf("find photos: %w", err)
	}

	if dayKey != "" && habitID != "" {
		filtered := photos[:0]
		for _, p := range photos {
			if p.HabitID == habitID {
				filtered = append(filtered, p)
			}
		}
		photos = filtered
	}
	return activity.SortNewestFirst(photos), nil
}

// DeletePhoto removes a photo. Deleting an unknown id is a no-op.
func (s *Service) DeletePhoto(id int64) error {
	if err := s.store.DeletePhoto(id); err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}
	return nil
}

// RetagPhoto moves a photo to another habit, or to no habit when habitID is
// empty. It reports false when the photo does not exist. Retagging never
// changes habit completion.
func (s *Service) RetagPhoto(id int64, habitID string) (bool, error) {
	if habitID == "" {
		habitID = constants.UnknownHabitID
	}

	photo, err := s.store.GetPhoto(id)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("retag photo: %w", err)
	}

	photo.HabitID = habitID
	if err := s.store.PutPhoto(photo); err != nil {
		return false, fmt.Errorf("retag photo: %w", err)
	}
	return true, nil
}

// GetHeatmapData builds the activity heatmap for one month. Future months
// are rejected.
func (s *Service) GetHeatmapData(year int, month time.Month) (activity.Heatmap, error) {
	habits, err := s.store.GetAllHabits()
	if err != nil {
		return activity.Heatmap{}, fmt.Errorf("heatmap: %w", err)
	}
	return activity.BuildHeatmap(habits, year, month, s.now(), s.loc)
}

// Progress summarizes the habits due today.
type Progress struct {
	DayKey    string         `json:"dayKey"`
	Due       []models.Habit `json:"due"`
	Completed int            `json:"completed"`
	Rate      int            `json:"rate"`
}

func (s *Service) GetTodayProgress() (Progress, error) {
	today := s.Today()
	due, err := s.dueOn(today)
	if err != nil {
		return Progress{}, fmt.Errorf("today progress: %w", err)
	}
	return Progress{
		DayKey:    today,
		Due:       due,
		Completed: CountCompleted(due, today),
		Rate:      ComputeCompletionRate(due, today),
	}, nil
}

// GetDueHabits returns the habits due on the calendar day of now.
func (s *Service) GetDueHabits(now time.Time) ([]models.Habit, error) {
	due, err := s.dueOn(utils.ToDayKey(now, s.loc))
	if err != nil {
		return nil, fmt.Errorf("due habits: %w", err)
	}
	return due, nil
}

func (s *Service) dueOn(dayKey string) ([]models.Habit, error) {
	habits, err := s.store.GetAllHabits()
	if err != nil {
		return nil, err
	}
	return FilterDue(habits, dayKey), nil
}

// HabitDay is one habit's status on a given day.
type HabitDay struct {
	Habit     models.Habit   `json:"habit"`
	Due       bool           `json:"due"`
	Completed bool           `json:"completed"`
	Photos    []models.Photo `json:"photos"`
}

// DayDetail is every habit's status plus the photos taken on one day.
type DayDetail struct {
	DayKey       string         `json:"dayKey"`
	Habits       []HabitDay     `json:"habits"`
	Unattributed []models.Photo `json:"unattributed"`
	Rate         int            `json:"rate"`
}

func (s *Service) GetDayDetail(dayKey string) (DayDetail, error) {
	if !utils.IsDayKey(dayKey) {
		return DayDetail{}, fmt.Errorf("day detail: invalid day key %q", dayKey)
	}

	habits, err := s.store.GetAllHabits()
	if err != nil {
		return DayDetail{}, fmt.Errorf("day detail: %w", err)
	}
	photos, err := s.store.FindPhotosByIndex(storage.IndexPhotoDate, dayKey)
	if err != nil {
		return DayDetail{}, fmt.Errorf("day detail: %w", err)
	}
	photos = activity.SortNewestFirst(photos)

	byHabit := make(map[string][]models.Photo)
	known := make(map[string]bool, len(habits))
	for _, h := range habits {
		known[h.ID] = true
	}

	detail := DayDetail{DayKey: dayKey}
	for _, p := range photos {
		if known[p.HabitID] {
			byHabit[p.HabitID] = append(byHabit[p.HabitID], p)
		} else {
			detail.Unattributed = append(detail.Unattributed, p)
		}
	}

	for _, h := range habits {
		detail.Habits = append(detail.Habits, HabitDay{
			Habit:     h,
			Due:       utils.IsDue(h, dayKey),
			Completed: IsCompleted(h, dayKey),
			Photos:    byHabit[h.ID],
		})
	}
	detail.Rate = ComputeCompletionRate(FilterDue(habits, dayKey), dayKey)
	return detail, nil
}

// StreakRepair records a cached streak replaced by the recomputed value.
type StreakRepair struct {
	HabitID string
	Name    string
	Before  int
	After   int
}

// RepairStreaks recomputes every habit's streak and stores the ones that
// drifted. With dryRun nothing is written.
func (s *Service) RepairStreaks(dryRun bool) ([]StreakRepair, error) {
	habits, err := s.store.GetAllHabits()
	if err != nil {
		return nil, fmt.Errorf("repair streaks: %w", err)
	}

	today := s.Today()
	var repairs []StreakRepair
	for _, h := range habits {
		want := RecomputeStreak(h, today)
		if want == h.Streak {
			continue
		}
		repairs = append(repairs, StreakRepair{HabitID: h.ID, Name: h.Name, Before: h.Streak, After: want})
		if dryRun {
			continue
		}
		if err := s.repairOne(h.ID, today); err != nil {
			return repairs, fmt.Errorf("repair streaks: %w", err)
		}
	}
	return repairs, nil
}

func (s *Service) repairOne(id, today string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	// Re-read under the lock so a concurrent toggle is not overwritten
	h, err := s.store.GetHabit(id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	h.Streak = RecomputeStreak(h, today)
	return s.store.PutHabit(h)
}
