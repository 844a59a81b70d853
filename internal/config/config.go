// Package config loads port-congestion settings from defaults, an optional
// YAML file and PORTCONGESTION_* environment variables, in that order.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ngmaloney/port-congestion/internal/congestion"
	"github.com/ngmaloney/port-congestion/internal/database"
	"github.com/ngmaloney/port-congestion/internal/logging"
)

// Config is the full application configuration
type Config struct {
	Voyages     VoyagesConfig     `koanf:"voyages"`
	WaitingTime WaitingTimeConfig `koanf:"waiting_time"`
	Pipeline    PipelineConfig    `koanf:"pipeline"`
	Database    DatabaseConfig    `koanf:"database"`
	Log         LogConfig         `koanf:"log"`
}

// VoyagesConfig configures the voyage source. A non-empty File replaces the API.
type VoyagesConfig struct {
	BaseURL string        `koanf:"base_url" validate:"omitempty,url"`
	Token   string        `koanf:"token"`
	Timeout time.Duration `koanf:"timeout" validate:"gte=0"`
	File    string        `koanf:"file"`
}

// WaitingTimeConfig configures the waiting time API and its circuit breaker
type WaitingTimeConfig struct {
	BaseURL            string        `koanf:"base_url" validate:"required,url"`
	Token              string        `koanf:"token"`
	Timeout            time.Duration `koanf:"timeout" validate:"gte=0"`
	BreakerMaxFailures uint32        `koanf:"breaker_max_failures" validate:"gte=1"`
	BreakerTimeout     time.Duration `koanf:"breaker_timeout" validate:"gte=0"`
}

// PipelineConfig holds the congestion thresholds
type PipelineConfig struct {
	StopMergeWindow      time.Duration `koanf:"stop_merge_window" validate:"gt=0"`
	VoyageLookbackMonths int           `koanf:"voyage_lookback_months" validate:"gte=0,lte=24"`
}

// DatabaseConfig locates the SQLite database
type DatabaseConfig struct {
	Path string `koanf:"path" validate:"required"`
}

// LogConfig configures zerolog output
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

func defaultConfig() *Config {
	opts := congestion.DefaultOptions()
	return &Config{
		Voyages: VoyagesConfig{
			BaseURL: "https://beta.api.oceanbolt.com/v3",
			Timeout: 30 * time.Second,
		},
		WaitingTime: WaitingTimeConfig{
			BaseURL:            "https://beta.api.oceanbolt.com/v3",
			Timeout:            30 * time.Second,
			BreakerMaxFailures: 3,
			BreakerTimeout:     time.Minute,
		},
		Pipeline: PipelineConfig{
			StopMergeWindow:      opts.StopMergeWindow,
			VoyageLookbackMonths: opts.VoyageLookbackMonths,
		},
		Database: DatabaseConfig{
			Path: database.DBPath(),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every section against its validate tags
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// CongestionOptions returns the pipeline thresholds
func (c *Config) CongestionOptions() congestion.Options {
	return congestion.Options{
		StopMergeWindow:      c.Pipeline.StopMergeWindow,
		VoyageLookbackMonths: c.Pipeline.VoyageLookbackMonths,
	}
}

// LoggingConfig returns the logger settings
func (c *Config) LoggingConfig() logging.Config {
	return logging.Config{
		Level:  c.Log.Level,
		Format: c.Log.Format,
	}
}
