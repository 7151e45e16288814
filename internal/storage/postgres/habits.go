package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitsnap/internal/models"
	"github.com/julianstephens/habitsnap/internal/storage"
)

const habitColumns = `id, name, icon, color, streak, completed_days, frequency, reminder_time, start_date, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanHabit(row rowScanner) (models.Habit, error) {
	var h models.Habit
	var completedDays, frequency []byte

	err := row.Scan(&h.ID, &h.Name, &h.Icon, &h.Color, &h.Streak,
		&completedDays, &frequency, &h.ReminderTime, &h.StartDate, &h.CreatedAt)
	if err != nil {
		return models.Habit{}, err
	}

	if h.CompletedDays, err = storage.DecodeCompletedDays(completedDays); err != nil {
		return models.Habit{}, err
	}
	if h.Frequency, err = storage.DecodeFrequency(frequency); err != nil {
		return models.Habit{}, err
	}
	h.CreatedAt = h.CreatedAt.UTC()

	return h, nil
}

func habitArgs(h models.Habit) ([]interface{}, error) {
	if h.ID == "" {
		return nil, fmt.Errorf("habit id cannot be empty")
	}
	completedDays, err := storage.EncodeCompletedDays(h.CompletedDays)
	if err != nil {
		return nil, err
	}
	frequency, err := storage.EncodeFrequency(h.Frequency)
	if err != nil {
		return nil, err
	}
	createdAt := h.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return []interface{}{
		h.ID, h.Name, h.Icon, h.Color, h.Streak,
		completedDays, frequency, h.ReminderTime, h.StartDate,
		createdAt.UTC(),
	}, nil
}

func (s *Store) AddHabit(habit models.Habit) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	args, err := habitArgs(habit)
	if err != nil {
		return err
	}

	res, err := db.Exec(`
		INSERT INTO habits (`+habitColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING`, args...)
	if isUniqueViolation(err) {
		return fmt.Errorf("habit %s: %w", habit.ID, storage.ErrDuplicateKey)
	}
	if err != nil {
		return storage.Failure("add habit", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storage.Failure("add habit", err)
	}
	if n == 0 {
		return fmt.Errorf("habit %s: %w", habit.ID, storage.ErrDuplicateKey)
	}
	return nil
}

func (s *Store) PutHabit(habit models.Habit) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	args, err := habitArgs(habit)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO habits (`+habitColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			icon = EXCLUDED.icon,
			color = EXCLUDED.color,
			streak = EXCLUDED.streak,
			completed_days = EXCLUDED.completed_days,
			frequency = EXCLUDED.frequency,
			reminder_time = EXCLUDED.reminder_time,
			start_date = EXCLUDED.start_date`, args...)
	if err != nil {
		return storage.Failure("put habit", err)
	}
	return nil
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	db, err := s.conn()
	if err != nil {
		return models.Habit{}, err
	}

	h, err := scanHabit(db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return models.Habit{}, storage.Failure("get habit", err)
	}
	return h, nil
}

func (s *Store) GetAllHabits() ([]models.Habit, error) {
	return s.queryHabits("get all habits", `SELECT `+habitColumns+` FROM habits ORDER BY seq`)
}

func (s *Store) FindHabitsByIndex(index, value string) ([]models.Habit, error) {
	switch index {
	case storage.IndexHabitName:
		return s.queryHabits("find habits", `SELECT `+habitColumns+` FROM habits WHERE name = $1 ORDER BY seq`, value)
	default:
		return nil, storage.UnknownIndex("habits", index)
	}
}

func (s *Store) queryHabits(op, query string, args ...interface{}) ([]models.Habit, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, storage.Failure(op, err)
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, storage.Failure(op, err)
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Failure(op, err)
	}
	return habits, nil
}

func (s *Store) DeleteHabit(id string) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	if _, err := db.Exec("DELETE FROM habits WHERE id = $1", id); err != nil {
		return storage.Failure("delete habit", err)
	}
	return nil
}
