// Package config is responsible for application-wide settings.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/pterm/pterm"

	"github.com/amvora/amvora/internal/models"
)

type (
	// Config holds all configuration settings.
	Config struct {
		Session      SessionConfig
		Companion    CompanionConfig
		Notification NotificationConfig
		System       SystemConfig
	}

	// SessionConfig holds focus-session settings.
	SessionConfig struct {
		DurationMinutes int
		Cmd             string
	}

	// CompanionConfig holds companion cadence and tone settings.
	CompanionConfig struct {
		Style           models.CommunicationStyle
		RotateInterval  time.Duration
		AcceptCooldown  time.Duration
		DeclineCooldown time.Duration
	}

	// NotificationConfig holds desktop notification settings.
	NotificationConfig struct {
		Enabled bool
	}

	// SystemConfig holds system-related settings.
	SystemConfig struct {
		ConfigPath string
		DBPath     string
		LogPath    string
		User       string
		DarkTheme  bool
	}

	// Option is a function that modifies Config.
	Option func(*Config) error
)

const Version = "v0.3.1"

var (
	configDir      = "amvora"
	configFileName = "config.yml"
	dbFileName     = "amvora.db"
	logFileName    = "amvora.log"
	dbFilePath     string
	configFilePath string
	logFilePath    string
)

var (
	Stdin  io.Reader = os.Stdin
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

func Dir() string {
	return configDir
}

func DBFilePath() string {
	return dbFilePath
}

func LogFilePath() string {
	return logFilePath
}

func ConfigFilePath() string {
	return configFilePath
}

// InitializePaths resolves the config, database, and log file locations.
// The AMVORA_ENV variable switches to a suffixed set of files so that
// development data stays separate.
func InitializePaths() {
	env := strings.TrimSpace(os.Getenv("AMVORA_ENV"))
	if env != "" {
		configFileName = fmt.Sprintf("config_%s.yml", env)
		dbFileName = fmt.Sprintf("amvora_%s.db", env)
		logFileName = fmt.Sprintf("amvora_%s.log", env)
	}

	var err error

	relPath := filepath.Join(configDir, configFileName)

	configFilePath, err = xdg.ConfigFile(relPath)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	dataDir, err := xdg.DataFile(configDir)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	dbFilePath = filepath.Join(dataDir, dbFileName)

	logFilePath = filepath.Join(dataDir, "log", logFileName)
}

// New creates a new Config with default values and applies options.
func New(opts ...Option) (*Config, error) {
	cfg := &Config{}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("config option error: %w", err)
		}
	}

	return cfg, nil
}
