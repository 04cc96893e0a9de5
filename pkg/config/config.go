// Package config loads the optional xilem.yaml runtime configuration.
package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/xilem/pkg/errors"
	"github.com/go-drift/xilem/pkg/graphics"
	"github.com/go-drift/xilem/pkg/logging"
)

// FileName is the configuration file looked up by LoadOptional.
const FileName = "xilem.yaml"

// CurrentVersion is the configuration schema version this package reads.
const CurrentVersion = "v1.0.0"

// Config represents xilem.yaml.
type Config struct {
	Version string        `yaml:"version,omitempty"`
	Window  WindowConfig  `yaml:"window"`
	Runtime RuntimeConfig `yaml:"runtime"`
	Log     LogConfig     `yaml:"log"`
	Debug   DebugConfig   `yaml:"debug"`
}

// WindowConfig describes the initial window.
type WindowConfig struct {
	Title     string  `yaml:"title,omitempty"`
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	MinWidth  float64 `yaml:"min_width,omitempty"`
	MinHeight float64 `yaml:"min_height,omitempty"`
}

// RuntimeConfig sizes the runtime's background machinery.
type RuntimeConfig struct {
	// Workers is the number of background worker goroutines.
	Workers int `yaml:"workers"`
	// QueueSize bounds the pending background tasks.
	QueueSize int `yaml:"queue_size"`
	// FrameInterval paces cycles while animations are running.
	FrameInterval time.Duration `yaml:"frame_interval"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// DebugConfig enables debugging surfaces.
type DebugConfig struct {
	// InspectAddr, when set, is the address the tree inspector listens on.
	InspectAddr string `yaml:"inspect_addr,omitempty"`
}

// Defaults returns the configuration used when no file is present.
func Defaults() Config {
	return Config{
		Version: CurrentVersion,
		Window:  WindowConfig{Title: "xilem", Width: 800, Height: 600},
		Runtime: RuntimeConfig{Workers: 4, QueueSize: 64, FrameInterval: 16 * time.Millisecond},
		Log:     LogConfig{Level: "info", Format: string(logging.FormatAuto)},
	}
}

// LoadOptional reads xilem.yaml from dir if present, and returns the
// defaults otherwise.
func LoadOptional(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if stderrors.Is(err, os.ErrNotExist) {
		d := Defaults()
		return &d, nil
	}
	return cfg, err
}

// Load reads and validates the configuration file at path. Keys absent from
// the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// Parse decodes and validates a YAML document. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Defaults()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return nil, &errors.Error{Op: "config.Parse", Kind: errors.KindConfig, Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var problems []error
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Errorf(format, args...))
	}

	if c.Version != "" {
		v := c.Version
		if !strings.HasPrefix(v, "v") {
			v = "v" + v
		}
		switch {
		case !semver.IsValid(v):
			add("version %q is not a semantic version", c.Version)
		case semver.Major(v) != semver.Major(CurrentVersion):
			add("version %s is not supported (want %s.x)", c.Version, semver.Major(CurrentVersion))
		}
	}

	w := c.Window
	if w.Width < 0 || w.Height < 0 || w.MinWidth < 0 || w.MinHeight < 0 {
		add("window sizes must not be negative")
	}
	if w.MinWidth > w.Width || w.MinHeight > w.Height {
		add("window minimum size %gx%g exceeds size %gx%g", w.MinWidth, w.MinHeight, w.Width, w.Height)
	}

	if c.Runtime.Workers <= 0 {
		add("runtime.workers must be positive, got %d", c.Runtime.Workers)
	}
	if c.Runtime.QueueSize <= 0 {
		add("runtime.queue_size must be positive, got %d", c.Runtime.QueueSize)
	}
	if c.Runtime.FrameInterval <= 0 {
		add("runtime.frame_interval must be positive, got %s", c.Runtime.FrameInterval)
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		add("log.level: %v", err)
	}
	switch logging.Format(c.Log.Format) {
	case "", logging.FormatAuto, logging.FormatText, logging.FormatJSON:
	default:
		add("log.format %q is not one of auto, text, json", c.Log.Format)
	}

	if len(problems) == 0 {
		return nil
	}
	return &errors.Error{Op: "config.Validate", Kind: errors.KindConfig, Err: errors.Join(problems...)}
}

// WindowSize returns the configured window size.
func (c *Config) WindowSize() graphics.Size {
	return graphics.Size{Width: c.Window.Width, Height: c.Window.Height}
}

// MinWindowSize returns the configured minimum window size.
func (c *Config) MinWindowSize() graphics.Size {
	return graphics.Size{Width: c.Window.MinWidth, Height: c.Window.MinHeight}
}

// LoggerOptions returns the options for logging.New.
func (c *Config) LoggerOptions() logging.Options {
	return logging.Options{Level: c.Log.Level, Format: logging.Format(c.Log.Format)}
}
