// Package config resolves where the library keeps its data and how the CLI
// logs and formats output.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// FileEnv names the environment variable that points at a YAML config file.
const FileEnv = "LIBRARY_CONFIG"

// Config defines the app configuration.
type Config struct {
	DataFile  string `yaml:"data_file" env:"LIBRARY_DATA_FILE"`
	BackupDir string `yaml:"backup_dir" env:"LIBRARY_BACKUP_DIR"`
	Log       struct {
		Level  string `yaml:"level" env:"LIBRARY_LOG_LEVEL"`
		Format string `yaml:"format" env:"LIBRARY_LOG_FORMAT"`
	} `yaml:"log"`
	Locale string `yaml:"locale" env:"LIBRARY_LOCALE"`
}

// Default is the configuration used when nothing overrides it.
func Default() Config {
	var c Config
	c.DataFile = "library_data.json"
	c.BackupDir = "backup"
	c.Log.Level = "info"
	c.Log.Format = "text"
	c.Locale = "en"
	return c
}

// LoadEnvFiles reads .env style files into the process environment. Missing
// files are skipped and variables already set are never overridden.
func LoadEnvFiles(paths ...string) {
	for _, p := range paths {
		_ = godotenv.Load(p)
	}
}

// Load layers the defaults, the YAML file at path (or $LIBRARY_CONFIG when
// path is empty) and the environment, then validates the result. Command
// line flags are applied by the caller afterwards.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(FileEnv)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects empty paths and unknown log settings or locales.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.DataFile) == "" {
		errs = append(errs, errors.New("data file path is empty"))
	}
	if strings.TrimSpace(c.BackupDir) == "" {
		errs = append(errs, errors.New("backup dir is empty"))
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log format must be text or json, got %q", c.Log.Format))
	}
	if _, err := c.Language(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// LogLevel parses the configured level name.
func (c Config) LogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	return lvl, nil
}

// Language parses the configured locale as a BCP 47 tag.
func (c Config) Language() (language.Tag, error) {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English, fmt.Errorf("invalid locale %q: %w", c.Locale, err)
	}
	return tag, nil
}
