package config

import (
	"errors"
	"fmt"
	"os"
	"os/user"

	"github.com/spf13/viper"

	"github.com/amvora/amvora/internal/models"
)

// viperKeys defines the mapping between config keys and their Viper
// counterparts.
const (
	keySessionDuration      = "session.duration"
	keySessionCmd           = "session.cmd"
	keyCompanionStyle       = "companion.style"
	keyRotateInterval       = "companion.rotate_interval"
	keyAcceptCooldown       = "companion.accept_cooldown"
	keyDeclineCooldown      = "companion.decline_cooldown"
	keyNotificationsEnabled = "notifications.enabled"
	keyUser                 = "user"
	keyDarkTheme            = "dark_theme"
)

// WithViperConfig returns an Option that loads configuration from Viper,
// writing a default config file on first run.
func WithViperConfig(configPath string) Option {
	return func(c *Config) error {
		v := viper.New()

		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		setViperDefaults(v)

		err := v.ReadInConfig()
		if err == nil {
			return loadViperConfig(v, c)
		}

		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("reading config file failed: %w", err)
		}

		if err := v.WriteConfig(); err != nil {
			return fmt.Errorf("writing default config failed: %w", err)
		}

		return loadViperConfig(v, c)
	}
}

func setViperDefaults(v *viper.Viper) {
	v.SetDefault(keySessionDuration, models.DefaultSessionMinutes)
	v.SetDefault(keySessionCmd, "")
	v.SetDefault(keyCompanionStyle, string(models.StyleEncouraging))
	v.SetDefault(keyRotateInterval, "15s")
	v.SetDefault(keyAcceptCooldown, "2m")
	v.SetDefault(keyDeclineCooldown, "1m")
	v.SetDefault(keyNotificationsEnabled, true)
	v.SetDefault(keyUser, defaultUser())
	v.SetDefault(keyDarkTheme, true)
}

// loadViperConfig loads configuration from Viper into the Config struct.
func loadViperConfig(v *viper.Viper, c *Config) error {
	c.Session.DurationMinutes = v.GetInt(keySessionDuration)
	c.Session.Cmd = v.GetString(keySessionCmd)

	c.Companion.Style = models.CommunicationStyle(v.GetString(keyCompanionStyle))
	c.Companion.RotateInterval = v.GetDuration(keyRotateInterval)
	c.Companion.AcceptCooldown = v.GetDuration(keyAcceptCooldown)
	c.Companion.DeclineCooldown = v.GetDuration(keyDeclineCooldown)

	c.Notification.Enabled = v.GetBool(keyNotificationsEnabled)

	c.System.ConfigPath = ConfigFilePath()
	c.System.DBPath = DBFilePath()
	c.System.LogPath = LogFilePath()
	c.System.User = v.GetString(keyUser)
	c.System.DarkTheme = v.GetBool(keyDarkTheme)

	if c.Session.DurationMinutes <= 0 {
		c.Session.DurationMinutes = models.DefaultSessionMinutes
	}

	return nil
}

// defaultUser scopes the local datastore to the OS user so that shared
// machines do not mix histories.
func defaultUser() string {
	u, err := user.Current()
	if err != nil || u.Username == "" {
		return "local"
	}

	return u.Username
}
