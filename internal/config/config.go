package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"timereport/internal/logger"
)

type Config struct {
	Calendar CalendarConfig `mapstructure:"calendar"`
	Report   ReportConfig   `mapstructure:"report"`
	Storage  StorageConfig  `mapstructure:"storage"`
}

type CalendarConfig struct {
	// Source is the ICS feed to read events from. Either an http(s) URL
	// or a local file path.
	Source string `mapstructure:"source"`
	// OwnerEmail identifies the calendar owner among the event attendees.
	// It is used to resolve the viewer's response status (accepted,
	// declined, tentative, organizer).
	OwnerEmail   string `mapstructure:"owner_email"`
	FetchTimeout string `mapstructure:"fetch_timeout"`
}

type ReportConfig struct {
	Timezone string `mapstructure:"timezone"` // IANA zone name, empty means local time
	Week     string `mapstructure:"week"`     // default week selection: current, previous or auto
	Cron     string `mapstructure:"cron"`     // daemon schedule (cron expression with seconds)
	Interval string `mapstructure:"interval"` // daemon schedule fallback (fixed interval)
}

type StorageConfig struct {
	DBPath  string    `mapstructure:"db_path"`
	LogPath string    `mapstructure:"log_path"`
	Log     LogConfig `mapstructure:"log"`
}

type LogConfig struct {
	Level        string `mapstructure:"level"`         // "debug", "info", "warn", "error"
	RotationTime string `mapstructure:"rotation_time"` // Time-based rotation interval (e.g., "1h", "24h")
	MaxSize      int    `mapstructure:"max_size"`      // Maximum size in megabytes before rotation
	MaxBackups   int    `mapstructure:"max_backups"`   // Maximum number of old log files to retain
	MaxAge       int    `mapstructure:"max_age"`       // Maximum number of days to retain old log files
	Compress     bool   `mapstructure:"compress"`      // Whether to compress rotated log files
}

// Validate checks the report configuration for values that would only
// fail much later in the pipeline.
func (c *ReportConfig) Validate() error {
	switch c.Week {
	case "current", "previous", "auto":
	default:
		return fmt.Errorf("week must be 'current', 'previous' or 'auto', got '%s'", c.Week)
	}

	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("invalid timezone '%s': %w", c.Timezone, err)
		}
	}

	return nil
}

// Location resolves the configured report timezone, falling back to the
// system local zone.
func (c *ReportConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func (c *CalendarConfig) GetFetchTimeout() (time.Duration, error) {
	if c.FetchTimeout == "" {
		return 15 * time.Second, nil
	}
	return time.ParseDuration(c.FetchTimeout)
}

func (c *StorageConfig) EnsureDBPath() error {
	dir := filepath.Dir(c.DBPath)
	if dir != "." && dir != "" {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

func Load(configPath string) (*Config, error) {
	viper.SetConfigType("yaml")

	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.SetConfigName("config")

		// Get executable directory for default config location
		execPath, err := os.Executable()
		if err == nil {
			execDir := filepath.Dir(execPath)
			viper.AddConfigPath(filepath.Join(execDir, "config"))
			viper.AddConfigPath(execDir)
		}

		// Also check current working directory (for development)
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")

		// Check user home directory (for user-specific config)
		if homeDir, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(homeDir, ".timereport"))
		}
	}

	viper.SetDefault("calendar.fetch_timeout", "15s")
	viper.SetDefault("report.timezone", "")
	viper.SetDefault("report.week", "auto")
	viper.SetDefault("report.cron", "")
	viper.SetDefault("report.interval", "")
	viper.SetDefault("storage.db_path", "./data/db/timereport.db")
	viper.SetDefault("storage.log_path", "")
	viper.SetDefault("storage.log.level", "info")
	viper.SetDefault("storage.log.rotation_time", "24h")
	viper.SetDefault("storage.log.max_size", 100)
	viper.SetDefault("storage.log.max_backups", 3)
	viper.SetDefault("storage.log.max_age", 28)
	viper.SetDefault("storage.log.compress", true)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Calendar.Source == "" {
		cfg.Calendar.Source = os.Getenv("TIMEREPORT_CALENDAR_SOURCE")
	}
	if cfg.Calendar.OwnerEmail == "" {
		cfg.Calendar.OwnerEmail = os.Getenv("TIMEREPORT_OWNER_EMAIL")
	}

	if err := cfg.Report.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report configuration: %w", err)
	}

	if err := normalizePaths(&cfg); err != nil {
		return nil, fmt.Errorf("failed to normalize paths: %w", err)
	}

	return &cfg, nil
}

func normalizePaths(cfg *Config) error {
	// Use executable directory as base for relative paths, fallback to working directory
	baseDir, err := getBaseDirectory()
	if err != nil {
		baseDir, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get base directory: %w", err)
		}
	}

	if cfg.Storage.DBPath != "" && !filepath.IsAbs(cfg.Storage.DBPath) {
		cfg.Storage.DBPath = filepath.Join(baseDir, cfg.Storage.DBPath)
	}

	if cfg.Storage.LogPath == "" {
		cfg.Storage.LogPath = filepath.Join(baseDir, "timereport.log")
	} else if !filepath.IsAbs(cfg.Storage.LogPath) {
		cfg.Storage.LogPath = filepath.Join(baseDir, cfg.Storage.LogPath)
	}

	// If LogPath is a directory, append default filename
	if cfg.Storage.LogPath != "" {
		info, err := os.Stat(cfg.Storage.LogPath)
		if err == nil && info.IsDir() {
			cfg.Storage.LogPath = filepath.Join(cfg.Storage.LogPath, "timereport.log")
		} else if err != nil && os.IsNotExist(err) {
			if filepath.Ext(cfg.Storage.LogPath) == "" {
				cfg.Storage.LogPath = filepath.Join(cfg.Storage.LogPath, "timereport.log")
			}
		}
	}

	if cfg.Storage.Log.Level == "" {
		cfg.Storage.Log.Level = "info"
	}

	// Initialize logger after config is loaded
	if err := initLogger(&cfg.Storage); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	return nil
}

// getBaseDirectory returns the base directory for resolving relative paths.
// It tries the executable directory, falling back to the working directory.
// If the executable lives in bin/, it walks up to find the project root.
func getBaseDirectory() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return os.Getwd()
	}

	realPath, err := filepath.EvalSymlinks(execPath)
	if err != nil {
		realPath = execPath
	}

	execDir := filepath.Dir(realPath)
	execDirName := filepath.Base(execDir)

	if execDirName == "bin" {
		// Project root is identified by presence of config/ directory
		currentDir := execDir
		for {
			parentDir := filepath.Dir(currentDir)
			if parentDir == currentDir {
				break
			}

			configDirPath := filepath.Join(currentDir, "config")
			if info, err := os.Stat(configDirPath); err == nil && info.IsDir() {
				return currentDir, nil
			}

			currentDir = parentDir
		}
	}

	return execDir, nil
}

func initLogger(storage *StorageConfig) error {
	return logger.Init(logger.LogConfig{
		Level:        storage.Log.Level,
		FilePath:     storage.LogPath,
		RotationTime: storage.Log.RotationTime,
		MaxSize:      storage.Log.MaxSize,
		MaxBackups:   storage.Log.MaxBackups,
		MaxAge:       storage.Log.MaxAge,
		Compress:     storage.Log.Compress,
	})
}
