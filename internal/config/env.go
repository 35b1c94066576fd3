package config

// Environment overrides. A .env file in the working directory is loaded
// first (missing file is fine), then MP4CONV_* variables are applied on top
// of the defaults. CLI flags parsed afterwards win over both.

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// ApplyEnv loads .env (when present) and applies MP4CONV_* overrides to cfg.
// Call between [DefaultConfig] and [ParseFlags].
func ApplyEnv(cfg *Config) error {
	_ = godotenv.Load() // absent .env is fine; real env vars still apply

	if v := os.Getenv("MP4CONV_INPUT_DIR"); v != "" {
		cfg.InputDir = NormalizeDirArg(v)
	}
	if v := os.Getenv("MP4CONV_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = NormalizeDirArg(v)
	}
	if v := os.Getenv("MP4CONV_MODE"); v != "" {
		m, err := parseEncoderMode(v)
		if err != nil {
			return fmt.Errorf("MP4CONV_MODE: %w", err)
		}
		cfg.Mode = m
	}
	if v := os.Getenv("MP4CONV_QUALITY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MP4CONV_QUALITY must be a whole number (got %q)", v)
		}
		cfg.Quality = n
	}
	if v := os.Getenv("MP4CONV_JOBS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MP4CONV_JOBS must be a whole number (got %q)", v)
		}
		cfg.Jobs = n
	}
	if v := os.Getenv("MP4CONV_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	return nil
}
