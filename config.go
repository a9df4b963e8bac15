package largeview

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"os"
)

// Config holds runtime configuration for the viewer. Fields may be loaded
// from a JSON file and overridden by command-line flags.
type Config struct {
	// Window
	Title     string `json:"title"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Resizable bool   `json:"resizable"`

	// Decoding
	PixelFormat string `json:"pixel_format"`
	SampleSize  int    `json:"sample_size"`
	AsyncDecode bool   `json:"async_decode"`

	// Viewport and gestures
	ClampInitial     bool    `json:"clamp_initial"`
	DragDeadZone     float64 `json:"drag_dead_zone"`
	MinFlingVelocity float64 `json:"min_fling_velocity"`
	LongPressDelay   float64 `json:"long_press_delay"`
	KeyPanStep       int     `json:"key_pan_step"`
	ScrollDuration   float32 `json:"scroll_duration"`

	// Background is the RGB fill behind images smaller than the window.
	Background [3]uint8 `json:"background"`

	ScreenshotDir string `json:"screenshot_dir"`
	Debug         bool   `json:"debug"`
	LogLevel      string `json:"log_level"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Title:            "largeview",
		Width:            1024,
		Height:           768,
		Resizable:        true,
		PixelFormat:      "rgb565",
		SampleSize:       1,
		AsyncDecode:      true,
		ClampInitial:     false,
		DragDeadZone:     defaultDragDeadZone,
		MinFlingVelocity: defaultMinFlingVelocity,
		LongPressDelay:   defaultLongPressDelay,
		KeyPanStep:       64,
		ScrollDuration:   0.35,
		Background:       [3]uint8{30, 30, 30},
		ScreenshotDir:    "screenshots",
		Debug:            false,
		LogLevel:         "info",
	}
}

// Validate clamps numeric values to safe ranges and resets unknown names to
// their defaults. It returns an error describing every reset name.
func (c *Config) Validate() error {
	def := DefaultConfig()
	if c.Title == "" {
		c.Title = def.Title
	}
	if c.Width <= 0 {
		c.Width = def.Width
	}
	if c.Height <= 0 {
		c.Height = def.Height
	}
	if c.SampleSize < 1 {
		c.SampleSize = 1
	}
	if c.DragDeadZone < 0 {
		c.DragDeadZone = def.DragDeadZone
	}
	if c.MinFlingVelocity <= 0 {
		c.MinFlingVelocity = def.MinFlingVelocity
	}
	if c.KeyPanStep <= 0 {
		c.KeyPanStep = def.KeyPanStep
	}
	if c.ScrollDuration < 0 {
		c.ScrollDuration = def.ScrollDuration
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = def.ScreenshotDir
	}

	var errs []error
	if _, err := ParsePixelFormat(c.PixelFormat); err != nil {
		errs = append(errs, err)
		c.PixelFormat = def.PixelFormat
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
		c.LogLevel = def.LogLevel
	}
	return errors.Join(errs...)
}

// Load reads configuration from the JSON file at path. If the file does not
// exist it returns DefaultConfig(). On a read or JSON error it returns the
// defaults together with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to path as indented JSON.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// RunConfig returns the window settings for Run.
func (c *Config) RunConfig() RunConfig {
	return RunConfig{
		Title:     c.Title,
		Width:     c.Width,
		Height:    c.Height,
		Resizable: c.Resizable,
	}
}

// SourceOptions returns the RegionSource options for this config. An
// unknown pixel format falls back to RGB565.
func (c *Config) SourceOptions(logger *slog.Logger) *SourceOptions {
	pf, _ := ParsePixelFormat(c.PixelFormat)
	return &SourceOptions{Format: pf, Logger: logger}
}

func (c *Config) background() color.RGBA {
	return color.RGBA{R: c.Background[0], G: c.Background[1], B: c.Background[2], A: 0xff}
}
