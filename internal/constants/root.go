package constants

import "time"

// SessionState represents the current view of the TUI application
type SessionState int

// Frequency tag values stored in Habit.Frequency
const (
	FrequencyDaily = "daily"
)

const (
	AppName            = "habitsnap"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/habitsnap/habitsnap.db"
	ConfigEnvVar       = "HABITSNAP_DB_CONNECTION"
	KeyringConfigValue = "keyring"
	Version            = "v0.1.0"

	// CompletedMarker is the value stored in Habit.CompletedDays for a completed day.
	CompletedMarker = "completed"

	// UnknownHabitID tags a photo that is not attributed to any habit.
	UnknownHabitID = "unknown"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitsnap-"
	BackupFileSuffix = ".db"

	// Reminder constants
	ReminderScanInterval = 30 * time.Second
	ReminderWindow       = time.Minute
	ReminderCronSpec     = "@every 30s"

	// Notify constants
	NotifierLockfileName   = "habitsnap-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.habitsnap"
	TrayExecutablePrefix   = "habitsnap-tray"

	// Activity levels used by the heatmap
	ActivityLevelNone = 0
	ActivityLevelMax  = 3
)

// Session States
const (
	StateToday SessionState = iota
	StateHeatmap
	StateAddHabit
	StateConfirmDelete
)
