package constants

const (
	// General Settings
	SettingUserName = "user_name"
	SettingTheme    = "theme"
	SettingTimezone = "timezone"

	// Notification Settings
	SettingNotificationsEnabled = "notifications_enabled"
	SettingNotifyAdvanceMin     = "notify_advance_min"
	SettingNotifyUIStyle        = "notify_ui_style"

	// Themes
	ThemeDark  = "dark"
	ThemeLight = "light"

	// Notification UI styles
	UIStyleDefault = "default"
	UIStyleVibrant = "vibrant"
	UIStyleMinimal = "minimal"

	// Default Settings Values
	DefaultUserName             = "friend"
	DefaultTheme                = ThemeDark
	DefaultTimezone             = "Local" // Use system local timezone by default
	DefaultNotificationsEnabled = false
	DefaultNotifyAdvanceMin     = 0
	DefaultNotifyUIStyle        = UIStyleDefault
)
