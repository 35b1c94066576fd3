// Package config holds runtime configuration: defaults, environment
// overrides, CLI flag parsing, and validation.
package config

import (
	"errors"
	"path/filepath"
	"strings"
)

// --- Enum types for validated string fields ---

// EncoderMode selects the encoding backend.
type EncoderMode string

const (
	ModeAuto   EncoderMode = "auto"   // Probe ffmpeg and pick the best available (default).
	ModeNvidia EncoderMode = "nvidia" // Force NVIDIA NVENC (h264_nvenc).
	ModeAMD    EncoderMode = "amd"    // Force AMD AMF (h264_amf).
	ModeIntel  EncoderMode = "intel"  // Force Intel QuickSync (h264_qsv).
	ModeCPU    EncoderMode = "cpu"    // Software encoding via libx264.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// overridden by [ApplyEnv] and then [ParseFlags], and finally passed (by
// pointer) to packages that need it. Fields are grouped by concern with
// inline documentation of defaults.
type Config struct {
	// Paths (set from positional args or MP4CONV_* env vars).
	InputDir  string // Default: ".".
	OutputDir string // Default: "<input>/converted".

	// Encoder settings.
	Mode    EncoderMode // Default: "auto".
	Quality int         // Default: 23. CQ/QP/CRF value for the active encoder.

	// Behavior flags.
	DryRun       bool
	SkipExisting bool // Default: true. Cleared by --force.
	Jobs         int  // Default: 1 (strictly sequential).

	// Display and logging.
	Verbose       bool
	ShowProgress  bool      // Default: true. Live progress line during encodes.
	ShowFileStats bool      // Default: true. Resolution/duration line per file.
	ColorMode     ColorMode // Default: "auto".
	LogFile       string    // Optional log file path.
	AnalyzeOnly   bool      // Probe inputs, print the plan table, exit.
	CheckOnly     bool      // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with all defaults. Used as the base before
// [ApplyEnv] and [ParseFlags] apply overrides.
func DefaultConfig() Config {
	return Config{
		Mode:          ModeAuto,
		Quality:       23,
		DryRun:        false,
		SkipExisting:  true,
		Jobs:          1,
		Verbose:       false,
		ShowProgress:  true,
		ShowFileStats: true,
		ColorMode:     ColorAuto,
		AnalyzeOnly:   false,
		CheckOnly:     false,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// ApplyPathDefaults fills in InputDir and OutputDir when neither positional
// args nor env vars set them. The output directory defaults to a "converted"
// subdirectory of the input so a bare invocation works in place.
func (c *Config) ApplyPathDefaults() {
	if c.InputDir == "" {
		c.InputDir = "."
	}
	c.InputDir = NormalizeDirArg(c.InputDir)
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(c.InputDir, "converted")
	}
	c.OutputDir = NormalizeDirArg(c.OutputDir)
}

// Validate checks that enum and numeric fields hold valid values. When not
// in CheckOnly mode, it also requires that input and output directory paths
// are non-empty.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeAuto, ModeNvidia, ModeAMD, ModeIntel, ModeCPU:
		// valid
	default:
		return errors.New("invalid mode (use 'auto', 'nvidia', 'amd', 'intel' or 'cpu')")
	}

	if c.Quality < 0 || c.Quality > 51 {
		return errors.New("invalid quality (use a value between 0 and 51)")
	}

	if c.Jobs < 1 {
		return errors.New("invalid jobs count (use a value >= 1)")
	}

	if c.CheckOnly {
		return nil
	}
	if c.InputDir == "" || c.OutputDir == "" {
		return errors.New("input and output directories must not be empty")
	}
	return nil
}

// ValidatePaths ensures the resolved output directory is not the same as the
// resolved input directory. Discovery is non-recursive, so an output
// directory nested inside the input (the default layout) is fine; writing
// converted files next to their sources is not, because a second run would
// pick them up as inputs. Both arguments must be absolute, symlink-resolved
// paths.
func (c *Config) ValidatePaths(inputAbs, outputAbs string) error {
	if outputAbs == inputAbs {
		return errors.New("output directory must not be the input directory itself")
	}
	return nil
}
