package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/amirbrooks/sid/internal/store"
)

const (
	EnvDataFile   = "SID_DATA_FILE"
	EnvLogLevel   = "SID_LOG_LEVEL"
	EnvLogFile    = "SID_LOG_FILE"
	EnvRejectPast = "SID_REJECT_PAST_DATES"
	EnvConfig     = "SID_CONFIG"
)

type Config struct {
	DataFile        string `yaml:"data_file" toml:"data_file" validate:"required"`
	RejectPastDates bool   `yaml:"reject_past_dates" toml:"reject_past_dates"`
	LogLevel        string `yaml:"log_level" toml:"log_level" validate:"oneof=debug info warn error"`
	// LogFile receives diagnostics; empty means stderr.
	LogFile    string `yaml:"log_file" toml:"log_file"`
	FrameWidth int    `yaml:"frame_width" toml:"frame_width" validate:"min=20,max=200"`
}

func Default() Config {
	return Config{
		DataFile:   store.DefaultPath,
		LogLevel:   "warn",
		FrameWidth: 60,
	}
}

// Load reads path (YAML or TOML by extension) over the defaults, then applies
// environment overrides. An empty path or a missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	path = strings.TrimSpace(path)
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := decode(path, b, &cfg); err != nil {
				return Config{}, fmt.Errorf("config %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(path string, b []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(b, cfg)
	case ".toml":
		return toml.Unmarshal(b, cfg)
	default:
		return fmt.Errorf("unsupported config format %q (use .yaml, .yml or .toml)", filepath.Ext(path))
	}
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv(EnvDataFile); v != "" {
		cfg.DataFile = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv(EnvRejectPast); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRejectPast, err)
		}
		cfg.RejectPastDates = b
	}
	return nil
}

// Normalize trims values and folds level aliases. Load calls it; callers that
// change fields afterwards should call it again before Validate.
func (c *Config) Normalize() {
	c.DataFile = strings.TrimSpace(c.DataFile)
	c.LogFile = strings.TrimSpace(c.LogFile)
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "warning" {
		c.LogLevel = "warn"
	}
	if c.LogLevel == "" {
		c.LogLevel = Default().LogLevel
	}
	if c.FrameWidth == 0 {
		c.FrameWidth = Default().FrameWidth
	}
}

func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
