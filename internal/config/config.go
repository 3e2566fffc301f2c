// Package config resolves the configuration directory, the task file and
// the optional config.toml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"

	"taskflow/internal/logging"
)

const (
	// AppName is the application directory name.
	AppName = "taskflow"

	// ConfigFile is the optional settings file inside the config directory.
	ConfigFile = "config.toml"

	// TasksFile is the default task file name.
	TasksFile = "tarefas.json"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"

	// DefaultGoogleList is the Google Tasks list that push writes to.
	DefaultGoogleList = "taskflow"

	// DefaultExportFormat is used by export when neither flag nor config set one.
	DefaultExportFormat = "json"
)

// Environment overrides.
const (
	EnvTasksFile = "TASKFLOW_FILE"
	EnvLogLevel  = "TASKFLOW_LOG_LEVEL"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// TasksPath is the task file.
	TasksPath string

	// LogLevel is the minimum level logged to stderr.
	LogLevel string

	// ExportFormat is the default format of the export command.
	ExportFormat string

	// GoogleList is the Google Tasks list used by push.
	GoogleList string

	// Warnings collects non-fatal problems found while loading.
	Warnings []string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Logger is set by the dispatcher once flags are parsed.
	Logger *log.Logger
}

// fileConfig is the shape of config.toml after env overrides.
type fileConfig struct {
	TasksFile    string `toml:"tasks_file"`
	LogLevel     string `toml:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
	ExportFormat string `toml:"export_format" validate:"omitempty,oneof=json csv pdf"`
	Google       struct {
		List string `toml:"list"`
	} `toml:"google"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// New creates a Config for the given config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/taskflow or $HOME/.config/taskflow.
// Settings come from defaults, then config.toml, then the environment.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	dir = expandPath(dir)

	var fc fileConfig
	cfg := &Config{Dir: dir}
	if err := cfg.loadFile(&fc); err != nil {
		return nil, err
	}
	loadEnv(&fc)

	if err := validate.Struct(&fc); err != nil {
		return nil, describeValidation(err)
	}

	cfg.TasksPath = filepath.Join(dir, TasksFile)
	if fc.TasksFile != "" {
		cfg.TasksPath = fc.TasksFile
	}
	cfg.LogLevel = valueOr(fc.LogLevel, logging.DefaultLevel)
	cfg.ExportFormat = valueOr(fc.ExportFormat, DefaultExportFormat)
	cfg.GoogleList = valueOr(strings.TrimSpace(fc.Google.List), DefaultGoogleList)
	return cfg, nil
}

// loadFile decodes config.toml if present. A relative tasks_file is
// resolved against the config directory.
func (c *Config) loadFile(fc *fileConfig) error {
	path := c.ConfigPath()
	md, err := toml.DecodeFile(path, fc)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading config file %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		c.Warnings = append(c.Warnings, fmt.Sprintf("unknown key in %s: %s", path, key.String()))
	}
	if fc.TasksFile != "" {
		fc.TasksFile = expandPath(fc.TasksFile)
		if !filepath.IsAbs(fc.TasksFile) {
			fc.TasksFile = filepath.Join(c.Dir, fc.TasksFile)
		}
	}
	return nil
}

func loadEnv(fc *fileConfig) {
	if v := os.Getenv(EnvTasksFile); v != "" {
		fc.TasksFile = expandPath(v)
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		fc.LogLevel = strings.ToLower(strings.TrimSpace(v))
	}
}

func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: invalid value %q (want one of: %s)", fe.Field(), fe.Value(), fe.Param()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SetTasksPath overrides the task file (the --file flag).
func (c *Config) SetTasksPath(path string) {
	if path != "" {
		c.TasksPath = expandPath(path)
	}
}

// Log returns the configured logger, or one that discards.
func (c *Config) Log() *log.Logger {
	if c.Logger == nil {
		return logging.Discard()
	}
	return c.Logger
}

// ConfigPath returns the path of config.toml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory with mode 0700 if it doesn't exist.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
