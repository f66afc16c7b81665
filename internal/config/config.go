package config

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/danmaidesenling/imageProcessor/internal/compositor"
)

// Defaults applied by Resolve.
const (
	DefaultBackground = "#438EDB"
	DefaultMaskBlur   = 2.0
	DefaultFinalBlur  = 0.5
	DefaultFormat     = "png"
	DefaultMaskSuffix = "_mask"
	DefaultLogLevel   = "info"
)

// Config holds paths and compositing settings.
type Config struct {
	// Paths
	InputDir  string `json:"input_dir"`
	OutputDir string `json:"output_dir"`

	// Compositing
	Background string `json:"background"`
	// MaskBlur and FinalBlur are Gaussian sigmas in pixels. Nil means default,
	// zero disables the pass.
	MaskBlur     *float64 `json:"mask_blur,omitempty"`
	FinalBlur    *float64 `json:"final_blur,omitempty"`
	ResampleMask *bool    `json:"resample_mask,omitempty"`
	MaskSuffix   string   `json:"mask_suffix"`
	MaskAlpha    bool     `json:"mask_alpha"`

	// Output
	Size    string `json:"size"`
	Format  string `json:"format"`
	Workers int    `json:"workers"`

	// Logging
	LogLevel string `json:"log_level"`
	LogDev   bool   `json:"log_dev"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
// Zero values leave the config untouched.
type Flags struct {
	InputDir   string
	OutputDir  string
	Background string
	Size       string
	Format     string
	Workers    int
	LogLevel   string
	MaskAlpha  bool
	MaskSuffix string
	LogDev     bool

	// Nil means the flag was not given; 0 is a valid blur that disables it.
	MaskBlur     *float64
	FinalBlur    *float64
	ResampleMask *bool
}

// Resolve applies flag overrides and fills empty fields with defaults.
func (c *Config) Resolve(flags Flags) {
	if flags.InputDir != "" {
		c.InputDir = flags.InputDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Background != "" {
		c.Background = flags.Background
	}
	if flags.Size != "" {
		c.Size = flags.Size
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
	if flags.MaskAlpha {
		c.MaskAlpha = true
	}
	if flags.MaskSuffix != "" {
		c.MaskSuffix = flags.MaskSuffix
	}
	if flags.LogDev {
		c.LogDev = true
	}
	if flags.MaskBlur != nil {
		v := *flags.MaskBlur
		c.MaskBlur = &v
	}
	if flags.FinalBlur != nil {
		v := *flags.FinalBlur
		c.FinalBlur = &v
	}
	if flags.ResampleMask != nil {
		v := *flags.ResampleMask
		c.ResampleMask = &v
	}

	if c.Background == "" {
		c.Background = DefaultBackground
	}
	if c.MaskBlur == nil {
		v := DefaultMaskBlur
		c.MaskBlur = &v
	}
	if c.FinalBlur == nil {
		v := DefaultFinalBlur
		c.FinalBlur = &v
	}
	if c.ResampleMask == nil {
		v := true
		c.ResampleMask = &v
	}
	if c.MaskSuffix == "" {
		c.MaskSuffix = DefaultMaskSuffix
	}
	if c.Format == "" {
		c.Format = DefaultFormat
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.OutputDir == "" && c.InputDir != "" {
		c.OutputDir = c.InputDir + "-out"
	}
}

// CompositorOptions converts the resolved settings for the compositor.
func (c *Config) CompositorOptions() compositor.Options {
	opts := compositor.DefaultOptions()
	if c.MaskBlur != nil {
		opts.MaskBlur = *c.MaskBlur
	}
	if c.FinalBlur != nil {
		opts.FinalBlur = *c.FinalBlur
	}
	if c.ResampleMask != nil {
		opts.ResampleMask = *c.ResampleMask
	}
	if c.Workers > 0 {
		opts.Workers = c.Workers
	}
	return opts
}
