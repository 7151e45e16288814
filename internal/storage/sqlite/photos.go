package sqlite

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
	var createdAt string

	if err := row.Scan(&p.ID, &p.HabitID, &p.Date, &p.DataURL, &p.Note, &createdAt); err != nil {
		return models.Photo{}, err
	}

	var err error
	p.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.Photo{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return p, nil
}

func photoCreatedAt(p models.Photo) string {
	if p.CreatedAt.IsZero() {
		return time.Now().UTC().Format(time.RFC3339)
	}
	return p.CreatedAt.UTC().Format(time.RFC3339)
}

func (s *Store) AddPhoto(photo models.Photo) (int64, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}

	res, err := db.Exec(`
		INSERT INTO photos (habit_id, date, data_url, note, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		photo.HabitID, photo.Date, photo.DataURL, photo.Note, photoCreatedAt(photo))
	if err != nil {
		return 0, storage.Failure("add photo", err)
	}

	id, err := res.LastInsertId()
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

	_, err = db.Exec(`
		INSERT INTO photos (`+photoColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			habit_id = excluded.habit_id,
			date = excluded.date,
			data_url = excluded.data_url,
			note = excluded.note`,
		photo.ID, photo.HabitID, photo.Date, photo.DataURL, photo.Note, photoCreatedAt(photo))
	if err != nil {
		return storage.Failure("put photo", err)
	}
	return nil
}

func (s *Store) GetPhoto(id int64) (models.Photo, error) {
	db, err := s.conn()
	if err != nil {
		return models.Photo{}, err
	}

	p, err := scanPhoto(db.QueryRow(`SELECT `+photoColumns+` FROM photos WHERE id = ?`, id))
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
		return s.queryPhotos("find photos", `SELECT `+photoColumns+` FROM photos WHERE habit_id = ? ORDER BY id`, value)
	case storage.IndexPhotoDate:
		return s.queryPhotos("find photos", `SELECT `+photoColumns+` FROM photos WHERE date = ? ORDER BY id`, value)
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
	if _, err := db.Exec("DELETE FROM photos WHERE id = ?", id); err != nil {
		return storage.Failure("delete photo", err)
	}
	return nil
}
