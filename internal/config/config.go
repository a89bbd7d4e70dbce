// Package config loads plate-reader settings from defaults, an optional
// YAML file and PLATE_READER_* environment variables, in increasing
// priority.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/ironsheep/plate-reader/internal/deskew"
	"github.com/ironsheep/plate-reader/internal/detection"
	"github.com/ironsheep/plate-reader/internal/segment"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "PLATE_READER"

// OCR mirrors ocr.Config so that loading settings does not link the
// Tesseract engine; convert with ocr.Config(cfg.OCR). Default must match
// ocr.DefaultConfig, which the ocr tests check.
type OCR struct {
	Language       string `mapstructure:"language" json:"language"`
	Whitelist      string `mapstructure:"whitelist" json:"whitelist"`
	TessdataPrefix string `mapstructure:"tessdata_prefix" json:"tessdata_prefix"`
	MinHeight      int    `mapstructure:"min_height" json:"min_height"`
}

// Config is the complete application configuration.
type Config struct {
	LogLevel string `mapstructure:"log_level" json:"log_level"`

	// DebugDir receives visualization PNGs; empty disables them.
	DebugDir string `mapstructure:"debug_dir" json:"debug_dir"`

	// Parallel runs the detectors of one image concurrently.
	Parallel bool `mapstructure:"parallel" json:"parallel"`

	// Detectors lists the strategies to run, in order.
	Detectors []string `mapstructure:"detectors" json:"detectors"`

	Detection detection.Config `mapstructure:",squash"`
	Deskew    deskew.Config    `mapstructure:"deskew" json:"deskew"`
	Segment   segment.Config   `mapstructure:"segment" json:"segment"`
	OCR       OCR              `mapstructure:"ocr" json:"ocr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:  "info",
		Detectors: detection.Names(),
		Detection: detection.DefaultConfig(),
		Deskew:    deskew.DefaultConfig(),
		Segment:   segment.DefaultConfig(),
		OCR: OCR{
			Language:  "eng",
			Whitelist: "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789",
			MinHeight: 40,
		},
	}
}

// Load layers the YAML file at path (skipped when empty) and the
// environment over Default, then validates the result.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range []string{"log_level", "debug_dir", "parallel"} {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg := Default()
	if v.IsSet("detectors") {
		// Decoding into a populated slice overwrites by index and keeps the tail.
		cfg.Detectors = nil
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values no algorithm can run with.
func (c Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if len(c.Detectors) == 0 {
		return fmt.Errorf("no detectors configured")
	}
	if _, err := detection.NewSet(c.Detectors, c.Detection); err != nil {
		return err
	}
	if _, err := deskew.New(c.Deskew); err != nil {
		return err
	}
	if c.Detection.Plate.Filter.MinAspect > c.Detection.Plate.Filter.MaxAspect {
		return fmt.Errorf("plate min_aspect %v exceeds max_aspect %v",
			c.Detection.Plate.Filter.MinAspect, c.Detection.Plate.Filter.MaxAspect)
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
