// Command mp4conv is the CLI entrypoint for the MP4 1080p batch converter.
//
// It parses flags, validates configuration and paths, and either runs
// system diagnostics (--check), an analysis preview (--analyze), or the
// conversion pipeline.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/Henkdetenk12345/mp4-1080p-converter/internal/check"
	"github.com/Henkdetenk12345/mp4-1080p-converter/internal/config"
	"github.com/Henkdetenk12345/mp4-1080p-converter/internal/display"
	"github.com/Henkdetenk12345/mp4-1080p-converter/internal/encoder"
	"github.com/Henkdetenk12345/mp4-1080p-converter/internal/logging"
	"github.com/Henkdetenk12345/mp4-1080p-converter/internal/pipeline"
)

// version and commit are injected at build time via -ldflags. When built
// with plain "go build" these retain their defaults.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap. The logger does not exist yet, so errors go
	// directly to stderr via fmt. Precedence is defaults, then MP4CONV_*
	// environment overrides, then flags and positional args.
	cfg := config.DefaultConfig()
	if err := config.ApplyEnv(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "mp4conv: %v\n", err)
		return 1
	}
	if err := config.ParseFlags(&cfg, version); err != nil {
		fmt.Fprintf(os.Stderr, "mp4conv: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "mp4conv: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mp4conv: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available; all output goes through log from here on.
	display.PrintBanner()

	// Phase 3: Signal handling. Cancelling the run context kills the
	// current ffmpeg child, removes its work file, and stops the loop with
	// the summary still printed.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, stopping...")
		cancel()
	}()

	if cfg.CheckOnly {
		if !check.RunCheck(ctx, &cfg, log) {
			return 1
		}
		return 0
	}

	// Resolve and validate paths: input must exist, output is created if
	// needed, and output must not be the input directory itself.
	inputAbs, err := absPath(cfg.InputDir)
	if err != nil {
		log.Error("Input not found: %s", cfg.InputDir)
		return 1
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		log.Error("Cannot create output directory: %s", cfg.OutputDir)
		return 1
	}
	outputAbs, err := absPath(cfg.OutputDir)
	if err != nil {
		log.Error("Cannot resolve output path: %s", cfg.OutputDir)
		return 1
	}
	if err := cfg.ValidatePaths(inputAbs, outputAbs); err != nil {
		log.Error("%v", err)
		log.Error("Pass a different output directory, e.g. %s", filepath.Join(cfg.InputDir, "converted"))
		return 1
	}

	// Fail fast when ffmpeg or ffprobe is missing. Everything past this
	// point degrades per file instead of aborting the run.
	if err := check.CheckTools(); err != nil {
		log.Error("%v", err)
		return 1
	}

	if cfg.AnalyzeOnly {
		pipeline.Analyze(ctx, &cfg, log)
		return 0
	}

	// Phase 4: Encoder selection, once per run. A forced mode falls back
	// to software with a warning when the hardware encoder is not listed.
	enc, err := encoder.Select(ctx, cfg.Mode)
	if err != nil {
		log.Error("%v", err)
		return 1
	}
	if cfg.Mode != config.ModeAuto && enc.Mode != cfg.Mode {
		log.Warn("Requested encoder %q not available, using %s", cfg.Mode, enc)
	}

	log.Info("=== mp4conv v%s (%s) ===", version, commit)

	// Phase 5: Run the pipeline (discover -> probe -> plan -> convert).
	stats := pipeline.Run(ctx, &cfg, log, enc)

	// Per-file failures are already reported in the summary and do not
	// fail the process; an interrupted batch does.
	if stats.Interrupted {
		return 1
	}
	return 0
}

// absPath returns the absolute, symlink-resolved path for safe comparison
// of the input and output directories.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
