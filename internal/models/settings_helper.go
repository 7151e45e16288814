package models

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/habitsnap/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingUserName:
			settings.UserName = value
		case constants.SettingTheme:
			settings.Theme = value
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingNotificationsEnabled:
			settings.Notifications.Enabled = value == "true"
		case constants.SettingNotifyAdvanceMin:
			n, err := strconv.Atoi(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing %s: %w", constants.SettingNotifyAdvanceMin, err)
			}
			settings.Notifications.AdvanceMinutes = n
		case constants.SettingNotifyUIStyle:
			settings.Notifications.UIStyle = value
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingUserName:             settings.UserName,
		constants.SettingTheme:                settings.Theme,
		constants.SettingTimezone:             settings.Timezone,
		constants.SettingNotificationsEnabled: strconv.FormatBool(settings.Notifications.Enabled),
		constants.SettingNotifyAdvanceMin:     strconv.Itoa(settings.Notifications.AdvanceMinutes),
		constants.SettingNotifyUIStyle:        settings.Notifications.UIStyle,
	}
}

// DefaultSettings returns the settings written by a fresh init.
func DefaultSettings() Settings {
	return Settings{
		UserName: constants.DefaultUserName,
		Theme:    constants.DefaultTheme,
		Timezone: constants.DefaultTimezone,
		Notifications: NotificationSettings{
			Enabled:        constants.DefaultNotificationsEnabled,
			AdvanceMinutes: constants.DefaultNotifyAdvanceMin,
			UIStyle:        constants.DefaultNotifyUIStyle,
		},
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.UserName == "" {
		settings.UserName = constants.DefaultUserName
	}
	if settings.Theme == "" {
		settings.Theme = constants.DefaultTheme
	}
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	if settings.Notifications.UIStyle == "" {
		settings.Notifications.UIStyle = constants.DefaultNotifyUIStyle
	}
}

// Validate checks settings values that the reminder scheduler and UI rely on.
func (s *Settings) Validate() error {
	switch s.Theme {
	case constants.ThemeDark, constants.ThemeLight:
	default:
		return fmt.Errorf("invalid theme %q (expected %s or %s)", s.Theme, constants.ThemeDark, constants.ThemeLight)
	}

	switch s.Notifications.UIStyle {
	case constants.UIStyleDefault, constants.UIStyleVibrant, constants.UIStyleMinimal:
	default:
		return fmt.Errorf("invalid notification style %q", s.Notifications.UIStyle)
	}

	if s.Notifications.AdvanceMinutes < 0 {
		return fmt.Errorf("advance minutes cannot be negative")
	}

	return nil
}
