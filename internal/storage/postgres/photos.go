package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitsnap/internal/models"
	"github.com/julianstephens/habitsnap/internal/storage"
)

const photoColumns = `id, habit_id, date, data_url, note, created_at`

func scanPhoto(row rowScanner) (models.Photo, error) {
	var p models.Photo
	if err := row.Scan(&p.ID, &p.HabitID, &p.Date, &p.DataURL, &p.Note, &p.CreatedAt); err != nil {
		return models.Photo{}, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	return p, nil
}

func photoCreatedAt(p models.Photo) time.Time {
	if p.CreatedAt.IsZero() {
		return time.Now().UTC()
	}
	return p.CreatedAt.UTC()
}

func (s *Store) AddPhoto(photo models.Photo) (int64, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}

	var id int64
	err = db.QueryRow(`
		INSERT INTO photos (habit_id, date, data_url, note, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		photo.HabitID, photo.Date, photo.DataURL, photo.Note, photoCreatedAt(photo)).Scan(&id)
	if err != nil {
		return 0, storage.Failure("add photo", err)
	}
	return id, nil
}

func (s *Store) PutPhoto(photo models.Photo) error {
	if photo.ID <= 0 {
		return fmt.Errorf("photo id must be positive, got %d", photo.ID)
	}
	db, err := s.conn()
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return storage.Failure("put photo", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO photos (`+photoColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			habit_id = EXCLUDED.habit_id,
			date = EXCLUDED.date,
			data_url = EXCLUDED.data_url,
			note = EXCLUDED.note`,
		photo.ID, photo.HabitID, photo.Date, photo.DataURL, photo.Note, photoCreatedAt(photo))
	if err != nil {
		return storage.Failure("put photo", err)
	}

	// An explicit id bypasses the sequence; move it past the largest id so
	// later inserts never collide.
	_, err = tx.Exec(`SELECT setval(pg_get_serial_sequence('photos', 'id'), GREATEST((SELECT MAX(id) FROM photos), 1))`)
	if err != nil {
		return storage.Failure("put photo", err)
	}

	if err := tx.Commit(); err != nil {
		return storage.Failure("put photo", err)
	}
	return nil
}

func (s *Store) GetPhoto(id int64) (models.Photo, error) {
	db, err := s.conn()
	if err != nil {
		return models.Photo{}, err
	}

	p, err := scanPhoto(db.QueryRow(`SELECT `+photoColumns+` FROM photos WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Photo{}, fmt.Errorf("photo %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return models.Photo{}, storage.Failure("get photo", err)
	}
	return p, nil
}

func (s *Store) GetAllPhotos() ([]models.Photo, error) {
	return s.queryPhotos("get all photos", `SELECT `+photoColumns+` FROM photos ORDER BY id`)
}

func (s *Store) FindPhotosByIndex(index, value string) ([]models.Photo, error) {
	switch index {
	case storage.IndexPhotoHabitID:
		return s.queryPhotos("find photos", `SELECT `+photoColumns+` FROM photos WHERE habit_id = $1 ORDER BY id`, value)
	case storage.IndexPhotoDate:
		return s.queryPhotos("find photos", `SELECT `+photoColumns+` FROM photos WHERE date = $1 ORDER BY id`, value)
	default:
		return nil, storage.UnknownIndex("photos", index)
	}
}

func (s *Store) queryPhotos(op, query string, args ...interface{}) ([]models.Photo, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, storage.Failure(op, err)
	}
	defer rows.Close()

	photos := []models.Photo{}
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, storage.Failure(op, err)
		}
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Failure(op, err)
	}
	return photos, nil
}

func (s *Store) DeletePhoto(id int64) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	if _, err := db.Exec("DELETE FROM photos WHERE id = $1", id); err != nil {
		return storage.Failure("delete photo", err)
	}
	return nil
}
