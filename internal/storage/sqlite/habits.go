package sqlite

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
	var completedDays, frequency, createdAt string

	err := row.Scan(&h.ID, &h.Name, &h.Icon, &h.Color, &h.Streak,
		&completedDays, &frequency, &h.ReminderTime, &h.StartDate, &createdAt)
	if err != nil {
		return models.Habit{}, err
	}

	if h.CompletedDays, err = storage.DecodeCompletedDays([]byte(completedDays)); err != nil {
		return models.Habit{}, err
	}
	if h.Frequency, err = storage.DecodeFrequency([]byte(frequency)); err != nil {
		return models.Habit{}, err
	}
	h.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return h, nil
}

// habitArgs returns the column values in habitColumns order.
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
		createdAt.UTC().Format(time.RFC3339),
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
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`, args...)
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

	// created_at is kept from the first insert
	_, err = db.Exec(`
		INSERT INTO habits (`+habitColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			icon = excluded.icon,
			color = excluded.color,
			streak = excluded.streak,
			completed_days = excluded.completed_days,
			frequency = excluded.frequency,
			reminder_time = excluded.reminder_time,
			start_date = excluded.start_date`, args...)
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

	h, err := scanHabit(db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return models.Habit{}, storage.Failure("get habit", err)
	}
	return h, nil
}

func (s *Store) GetAllHabits() ([]models.Habit, error) {
	return s.queryHabits("get all habits", `SELECT `+habitColumns+` FROM habits ORDER BY rowid`)
}

func (s *Store) FindHabitsByIndex(index, value string) ([]models.Habit, error) {
	switch index {
	case storage.IndexHabitName:
		return s.queryHabits("find habits", `SELECT `+habitColumns+` FROM habits WHERE name = ? ORDER BY rowid`, value)
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
	if _, err := db.Exec("DELETE FROM habits WHERE id = ?", id); err != nil {
		return storage.Failure("delete habit", err)
	}
	return nil
}
