package models

// NotificationSettings controls habit reminders
type NotificationSettings struct {
	Enabled        bool   `json:"enabled"`
	AdvanceMinutes int    `json:"advance_minutes"` // notify this many minutes before the reminder time
	UIStyle        string `json:"ui_style"`        // default, vibrant or minimal
}

// Settings represents application-wide settings
type Settings struct {
	UserName      string               `json:"user_name"`
	Theme         string               `json:"theme"`    // dark or light
	Timezone      string               `json:"timezone"` // IANA timezone name or "Local" for system timezone
	Notifications NotificationSettings `json:"notifications"`
}
