package settings

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/julianstephens/habitsnap/internal/cli"
	"github.com/julianstephens/habitsnap/internal/constants"
	"github.com/julianstephens/habitsnap/internal/models"
	"github.com/julianstephens/habitsnap/internal/utils"
)

type SettingsCmd struct {
	Show SettingsShowCmd `cmd:"" default:"1" help:"Show current settings."`
	Set  SettingsSetCmd  `cmd:"" help:"Change one setting."`
}

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}

	ctx.Println("Current Settings:")
	ctx.Printf("  User Name:             %s\n", settings.UserName)
	ctx.Printf("  Theme:                 %s\n", settings.Theme)
	ctx.Printf("  Timezone:              %s\n", settings.Timezone)
	ctx.Println("\nNotification Settings:")
	ctx.Printf("  Notifications Enabled: %v\n", settings.Notifications.Enabled)
	ctx.Printf("  Advance Notice:        %d min\n", settings.Notifications.AdvanceMinutes)
	ctx.Printf("  Style:                 %s\n", settings.Notifications.UIStyle)
	ctx.Printf("\nKeys: %s\n", strings.Join(Keys(), ", "))
	return nil
}

type SettingsSetCmd struct {
	Key   string `arg:"" help:"Setting key (see 'settings show')."`
	Value string `arg:"" help:"New value."`
}

// Keys returns the setting keys accepted by 'settings set'.
func Keys() []string {
	keys := make([]string, 0, 6)
	for k := range models.SettingsToMap(models.DefaultSettings()) {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (c *SettingsSetCmd) Run(ctx *cli.Context) error {
	current, err := ctx.Settings()
	if err != nil {
		return err
	}

	data := models.SettingsToMap(current)
	if _, ok := data[c.Key]; !ok {
		return fmt.Errorf("unknown setting %q (valid keys: %s)", c.Key, strings.Join(Keys(), ", "))
	}

	value := strings.TrimSpace(c.Value)
	switch c.Key {
	case constants.SettingNotificationsEnabled:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false", c.Key)
		}
		value = strconv.FormatBool(b)
	case constants.SettingTimezone:
		if !utils.ValidateTimezone(value) {
			return fmt.Errorf("unknown timezone %q (use an IANA name such as Europe/Berlin, or Local)", value)
		}
	}
	data[c.Key] = value

	updated, err := models.MapToSettings(data)
	if err != nil {
		return err
	}
	if err := updated.Validate(); err != nil {
		return err
	}

	if err := ctx.Store.SaveSettings(updated); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.Printf("Set %s = %s\n", c.Key, value)
	return nil
}
