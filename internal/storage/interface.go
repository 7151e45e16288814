package storage

import "github.com/julianstephens/habitsnap/internal/models"

// Secondary index names accepted by the Find*ByIndex methods.
const (
	IndexHabitName    = "name"
	IndexPhotoHabitID = "habitId"
	IndexPhotoDate    = "date"
)

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Habits
	// AddHabit inserts a new habit and fails with ErrDuplicateKey if the id is taken.
	AddHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	GetAllHabits() ([]models.Habit, error)
	// PutHabit inserts or replaces the habit with the same id.
	PutHabit(models.Habit) error
	// DeleteHabit removes a habit. Deleting an absent id is not an error.
	DeleteHabit(id string) error
	FindHabitsByIndex(index, value string) ([]models.Habit, error)

	// Photos
	// AddPhoto inserts a photo, ignoring photo.ID, and returns the assigned id.
	AddPhoto(models.Photo) (int64, error)
	GetPhoto(id int64) (models.Photo, error)
	GetAllPhotos() ([]models.Photo, error)
	PutPhoto(models.Photo) error
	DeletePhoto(id int64) error
	FindPhotosByIndex(index, value string) ([]models.Photo, error)

	// Utils
	GetConfigPath() string
}

// Migrator is implemented by stores with a versioned schema.
type Migrator interface {
	// SchemaVersion returns the applied and the newest known schema version.
	SchemaVersion() (current, latest int, err error)
	// Migrate applies pending migrations and returns how many ran.
	Migrate(logFn func(string)) (int, error)
}
