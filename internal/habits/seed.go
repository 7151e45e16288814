package habits

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitsnap/internal/constants"
	"github.com/julianstephens/habitsnap/internal/logger"
	"github.com/julianstephens/habitsnap/internal/models"
	"github.com/julianstephens/habitsnap/internal/storage"
)

// DefaultHabits are the starter habits offered on first run. Their ids are
// fixed so seeding twice never creates duplicates.
func DefaultHabits() []models.Habit {
	daily := []string{constants.FrequencyDaily}
	return []models.Habit{
		{ID: "seed-gym", Name: "Morning workout", Icon: "💪", Color: "#f43f5e", ReminderTime: "08:00", Frequency: daily},
		{ID: "seed-reading", Name: "Read 10 pages", Icon: "📚", Color: "#8b5cf6", ReminderTime: "09:00", Frequency: daily},
		{ID: "seed-english", Name: "Study English", Icon: "📚", Color: "#8b5cf6", ReminderTime: "10:00", Frequency: daily},
		{ID: "seed-chinese", Name: "Study Chinese", Icon: "📚", Color: "#8b5cf6", ReminderTime: "11:00", Frequency: daily},
		{ID: "seed-coding", Name: "Coding", Icon: "💻", Color: "#8b5cf6", ReminderTime: "14:00", Frequency: daily},
		{ID: "seed-water", Name: "Drink 2L of water", Icon: "💧", Color: "#0ea5e9", ReminderTime: "20:00", Frequency: daily},
	}
}

// SeedDefaults inserts DefaultHabits when the store has no habits. It
// returns how many were inserted. Ids that already exist are skipped.
func (s *Service) SeedDefaults() (int, error) {
	existing, err := s.store.GetAllHabits()
	if err != nil {
		return 0, fmt.Errorf("seed habits: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	added := 0
	for _, h := range DefaultHabits() {
		h.CompletedDays = map[string]string{}
		h.CreatedAt = s.now().UTC().Truncate(time.Second)
		err := s.store.AddHabit(h)
		if errors.Is(err, storage.ErrDuplicateKey) {
			logger.Warn("Skipping seed habit with duplicate id", "id", h.ID)
			continue
		}
		if err != nil {
			return added, fmt.Errorf("seed habits: %w", err)
		}
		added++
	}
	return added, nil
}
