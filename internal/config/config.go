package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gifmill/internal/mediatypes"

	"gopkg.in/yaml.v3"
)

// Defaults for optional configuration keys.
const (
	DefaultStabilityWindow  = 5   // seconds between size checks
	DefaultReadinessTimeout = 300 // seconds to wait for a file to settle
	DefaultListenAddr       = ":8080"
	DefaultJournalPath      = "gifmill.db"
	DefaultFFmpegBinary     = "ffmpeg"
	DefaultFFprobeBinary    = "ffprobe"
)

// Config holds all application configuration. It is immutable after Load;
// nothing mutates it at runtime.
type Config struct {
	// RootPaths are the directories scanned for video files. Required.
	RootPaths []string `yaml:"root_paths"`
	// ScheduleInterval is the polling interval in minutes. Required.
	ScheduleInterval int `yaml:"schedule_interval"`
	// DitherOptions lists the dither algorithms to render, one GIF each.
	// Required, non-empty, no duplicates.
	DitherOptions []mediatypes.Dither `yaml:"dither_options"`
	// Width scales output GIFs to this width, preserving aspect ratio.
	// Zero means keep the source dimensions.
	Width int `yaml:"width"`
	// FPS sets the output frame rate. Zero means keep the source rate.
	FPS int `yaml:"fps"`
	// MaxConcurrent bounds how many files convert in parallel.
	// Zero sizes the pool from the available CPUs.
	MaxConcurrent int `yaml:"max_concurrent"`
	// StabilityWindow is the seconds between file-size checks while waiting
	// for a file to finish being written. Zero disables the readiness gate.
	StabilityWindow int `yaml:"stability_window"`
	// ReadinessTimeout is the seconds to wait for a file to become stable
	// before skipping it for the cycle.
	ReadinessTimeout int `yaml:"readiness_timeout"`
	// ListenAddr is the bind address of the health/metrics HTTP server.
	ListenAddr string `yaml:"listen_addr"`
	// JournalPath is the SQLite conversion journal location.
	JournalPath string `yaml:"journal_path"`
	// FFmpegBinary and FFprobeBinary name the external tools, either bare
	// (resolved via PATH) or as absolute paths.
	FFmpegBinary  string `yaml:"ffmpeg_binary"`
	FFprobeBinary string `yaml:"ffprobe_binary"`
}

// Default returns a Config pre-populated with defaults for every optional
// key. Required keys are left at their zero values so Validate can catch
// their absence.
func Default() *Config {
	return &Config{
		StabilityWindow:  DefaultStabilityWindow,
		ReadinessTimeout: DefaultReadinessTimeout,
		ListenAddr:       DefaultListenAddr,
		JournalPath:      DefaultJournalPath,
		FFmpegBinary:     DefaultFFmpegBinary,
		FFprobeBinary:    DefaultFFprobeBinary,
	}
}

// Load reads, parses, and validates the YAML configuration at path.
// Defaults are applied before decoding, so explicit zero values in the file
// survive (notably stability_window: 0 to disable the readiness gate).
// Unknown keys are rejected. Root paths are made absolute.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening config file: %w", err)
	}
	defer f.Close()

	cfg := Default()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}

	for i, root := range cfg.RootPaths {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("resolving root path %q: %w", root, err)
		}
		cfg.RootPaths[i] = abs
	}

	return cfg, nil
}

// Validate checks required keys and value ranges, and normalizes dither
// names to their canonical lowercase form.
func (c *Config) Validate() error {
	if len(c.RootPaths) == 0 {
		return errors.New("root_paths must list at least one directory")
	}
	for _, root := range c.RootPaths {
		if root == "" {
			return errors.New("root_paths entries must not be empty")
		}
	}

	if c.ScheduleInterval <= 0 {
		return errors.New("schedule_interval must be a positive number of minutes")
	}

	if len(c.DitherOptions) == 0 {
		return errors.New("dither_options must list at least one algorithm")
	}
	seen := make(map[mediatypes.Dither]bool, len(c.DitherOptions))
	for i, d := range c.DitherOptions {
		parsed, err := mediatypes.ParseDither(string(d))
		if err != nil {
			return err
		}
		if seen[parsed] {
			return fmt.Errorf("duplicate dither option %q", parsed)
		}
		seen[parsed] = true
		c.DitherOptions[i] = parsed
	}

	if c.Width < 0 {
		return errors.New("width must be a positive integer")
	}
	if c.FPS < 0 {
		return errors.New("fps must be a positive integer")
	}
	if c.MaxConcurrent < 0 {
		return errors.New("max_concurrent must not be negative")
	}
	if c.StabilityWindow < 0 {
		return errors.New("stability_window must not be negative")
	}
	if c.ReadinessTimeout < 0 {
		return errors.New("readiness_timeout must not be negative")
	}
	if c.ListenAddr == "" {
		return errors.New("listen_addr must not be empty")
	}
	if c.JournalPath == "" {
		return errors.New("journal_path must not be empty")
	}
	if c.FFmpegBinary == "" {
		return errors.New("ffmpeg_binary must not be empty")
	}
	if c.FFprobeBinary == "" {
		return errors.New("ffprobe_binary must not be empty")
	}

	return nil
}

// Interval returns the polling interval as a duration.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.ScheduleInterval) * time.Minute
}

// StabilityInterval returns the readiness-gate check interval. Zero means
// the gate is disabled.
func (c *Config) StabilityInterval() time.Duration {
	return time.Duration(c.StabilityWindow) * time.Second
}

// StabilityTimeout returns how long to wait for a file to become stable.
func (c *Config) StabilityTimeout() time.Duration {
	return time.Duration(c.ReadinessTimeout) * time.Second
}
