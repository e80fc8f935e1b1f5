package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/physiotrack/internal/exercise"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Environment string `toml:"-"`

	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	MetricsPort int    `toml:"metrics_port"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// sessions
	MaxSessions        int           `toml:"max_sessions"`
	SummaryCacheSizeMB int           `toml:"summary_cache_size_mb"`
	SummaryCacheTTL    time.Duration `toml:"summary_cache_ttl"`
	AllowedOrigins     []string      `toml:"allowed_origins"`

	Engine Engine `toml:"engine"`
}

// Engine holds the timing defaults applied to every exercise that leaves them unset.
type Engine struct {
	BufferInterval       time.Duration `toml:"buffer_interval"`
	SetCompletedInterval time.Duration `toml:"set_completed_interval"`
	GiveUpAfter          time.Duration `toml:"give_up_after"`
	StartCountdown       time.Duration `toml:"start_countdown"`
	TickInterval         time.Duration `toml:"tick_interval"`
	CalibrationFrames    int           `toml:"calibration_frames"`
	ConfidenceThreshold  float64       `toml:"confidence_threshold"`
}

// Timing converts the engine table, falling back to the built in defaults.
func (e Engine) Timing() exercise.Timing {
	t := exercise.Config{
		Timing: exercise.Timing{
			BufferInterval:       e.BufferInterval,
			SetCompletedInterval: e.SetCompletedInterval,
			GiveUpAfter:          e.GiveUpAfter,
			StartCountdown:       e.StartCountdown,
			TickInterval:         e.TickInterval,
			CalibrationFrames:    e.CalibrationFrames,
			ConfidenceThreshold:  e.ConfidenceThreshold,
		},
	}
	t.ApplyDefaults(exercise.DefaultTiming())
	return t.Timing
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	cfg.Environment = strings.ToLower(env)
	return cfg, nil
}

// Load reads the section for env from the TOML file at path, applies
// environment overrides and validates the result.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}
	return fromToml(&t, env)
}

// Parse is Load for an in memory document.
func Parse(env, doc string) (*Config, error) {
	var t Toml
	if _, err := toml.Decode(doc, &t); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return fromToml(&t, env)
}

func fromToml(t *Toml, env string) (*Config, error) {
	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if port := os.Getenv("PHYSIOTRACK_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("%w: PHYSIOTRACK_PORT: %w", ErrInvalidConfig, err)
		}
		c.Port = p
	}
	if level := os.Getenv("PHYSIOTRACK_LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.MaxSessions == 0 {
		c.MaxSessions = 64
	}
	if c.SummaryCacheSizeMB == 0 {
		c.SummaryCacheSizeMB = 16
	}
	if c.SummaryCacheTTL == 0 {
		c.SummaryCacheTTL = 24 * time.Hour
	}
}

func (c *Config) Validate() error {
	var errs error
	if c.Port <= 0 || c.Port > 65535 {
		errs = multierr.Append(errs, fmt.Errorf("port out of range: %d", c.Port))
	}
	if c.MetricsPort < 0 || c.MetricsPort > 65535 {
		errs = multierr.Append(errs, fmt.Errorf("metrics_port out of range: %d", c.MetricsPort))
	}
	if c.MetricsPort != 0 && c.MetricsPort == c.Port {
		errs = multierr.Append(errs, errors.New("metrics_port must differ from port"))
	}
	if c.MaxSessions < 0 {
		errs = multierr.Append(errs, fmt.Errorf("max_sessions must not be negative: %d", c.MaxSessions))
	}
	if c.SummaryCacheTTL < time.Second {
		errs = multierr.Append(errs, fmt.Errorf("summary_cache_ttl too short: %s", c.SummaryCacheTTL))
	}

	e := c.Engine
	for name, d := range map[string]time.Duration{
		"buffer_interval":        e.BufferInterval,
		"set_completed_interval": e.SetCompletedInterval,
		"give_up_after":          e.GiveUpAfter,
		"start_countdown":        e.StartCountdown,
		"tick_interval":          e.TickInterval,
	} {
		if d < 0 {
			errs = multierr.Append(errs, fmt.Errorf("engine.%s must not be negative: %s", name, d))
		}
	}
	if e.CalibrationFrames < 0 {
		errs = multierr.Append(errs, fmt.Errorf("engine.calibration_frames must not be negative: %d", e.CalibrationFrames))
	}
	if e.ConfidenceThreshold < 0 || e.ConfidenceThreshold >= 1 {
		errs = multierr.Append(errs, fmt.Errorf("engine.confidence_threshold must be in [0, 1): %v", e.ConfidenceThreshold))
	}

	if errs != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errs)
	}
	return nil
}

func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
