package constants

const (
	// DateFormat is the canonical day-key format (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// MonthFormat is used for month arguments (YYYY-MM)
	MonthFormat = "2006-01"

	// TimeFormat is the reminder time format (HH:MM)
	TimeFormat = "15:04"
)

// Weekday tags stored in Habit.Frequency
const (
	TagMon = "Mon"
	TagTue = "Tue"
	TagWed = "Wed"
	TagThu = "Thu"
	TagFri = "Fri"
	TagSat = "Sat"
	TagSun = "Sun"
)
