// Package config resolves runtime settings from the environment, an optional
// .env file and the XDG config directory.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// AppName is the application directory name.
	AppName = "taskdash"

	// DefaultAPIURL is where the task backend listens in development.
	DefaultAPIURL = "http://localhost:8080"

	// DBFile is the SQLite file holding the session.
	DBFile = "taskdash.db"

	// EnvFile is read from the working directory and the config dir.
	EnvFile = ".env"

	// LogFile receives debug logs when TASKDASH_DEBUG is set.
	LogFile = "debug.log"
)

type RuntimeConfig struct {
	APIURL               string
	Dir                  string
	DBPath               string
	HTTPTimeout          time.Duration
	Debug                bool
	DesktopNotifications bool
	RefreshInterval      time.Duration
}

func DefaultRuntimeConfig() RuntimeConfig {
	dir := DefaultConfigDir()
	return RuntimeConfig{
		APIURL:               DefaultAPIURL,
		Dir:                  dir,
		DBPath:               filepath.Join(dir, DBFile),
		HTTPTimeout:          0,
		Debug:                false,
		DesktopNotifications: false,
		RefreshInterval:      time.Minute,
	}
}

// Load reads .env files (existing variables win) and then applies the
// environment on top of the defaults.
func Load() (RuntimeConfig, error) {
	base := DefaultRuntimeConfig()
	if dir := strings.TrimSpace(os.Getenv("TASKDASH_CONFIG_DIR")); dir != "" {
		base.Dir = dir
		base.DBPath = filepath.Join(dir, DBFile)
	}
	for _, path := range []string{EnvFile, filepath.Join(base.Dir, EnvFile)} {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return RuntimeConfig{}, err
		}
	}
	return RuntimeConfigFromEnv(base), nil
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v := strings.TrimSpace(os.Getenv("TASKDASH_API_URL")); v != "" {
		cfg.APIURL = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(os.Getenv("TASKDASH_CONFIG_DIR")); v != "" {
		if cfg.DBPath == filepath.Join(cfg.Dir, DBFile) {
			cfg.DBPath = filepath.Join(v, DBFile)
		}
		cfg.Dir = v
	}
	if v := strings.TrimSpace(os.Getenv("TASKDASH_DB_PATH")); v != "" {
		cfg.DBPath = v
	}
	if v, ok := getEnvInt("TASKDASH_HTTP_TIMEOUT_SECONDS"); ok && v >= 0 {
		cfg.HTTPTimeout = time.Duration(v) * time.Second
	}
	if v, ok := getEnvBool("TASKDASH_DEBUG"); ok {
		cfg.Debug = v
	}
	if v, ok := getEnvBool("TASKDASH_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvInt("TASKDASH_REFRESH_SECONDS"); ok && v > 0 {
		cfg.RefreshInterval = time.Duration(v) * time.Second
	}
	return cfg
}

// LogPath is where debug logs go.
func (c RuntimeConfig) LogPath() string {
	return filepath.Join(c.Dir, LogFile)
}

// EnsureDir creates the config directory with mode 0700.
func (c RuntimeConfig) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0o700)
}

// DefaultConfigDir uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
