package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Henkdetenk12345/mp4-1080p-converter/internal/config"
	"github.com/Henkdetenk12345/mp4-1080p-converter/internal/display"
	"github.com/Henkdetenk12345/mp4-1080p-converter/internal/encoder"
	"github.com/Henkdetenk12345/mp4-1080p-converter/internal/ffmpeg"
	"github.com/Henkdetenk12345/mp4-1080p-converter/internal/logging"
	"github.com/Henkdetenk12345/mp4-1080p-converter/internal/naming"
	"github.com/Henkdetenk12345/mp4-1080p-converter/internal/planner"
	"github.com/Henkdetenk12345/mp4-1080p-converter/internal/probe"
)

// minFileSize rejects obviously truncated inputs before ffprobe even runs.
const minFileSize = 1000

// Run is the top-level batch entry point. It discovers files, processes
// each one with the already-selected encoder, and returns aggregate stats.
// Interruption stops the batch between files (and kills the in-flight
// encode), but the summary is still printed.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger, enc encoder.Choice) RunStats {
	var stats RunStats

	files, err := Discover(cfg.InputDir)
	if err != nil {
		log.Error("File discovery failed: %v", err)
		return stats
	}
	if len(files) == 0 {
		log.Warn("No MP4 files found in %s", cfg.InputDir)
		return stats
	}

	stats.Total = len(files)
	logBatchHeader(cfg, log, enc, &stats)

	t := &tally{stats: &stats}
	if cfg.Jobs > 1 {
		runParallel(ctx, cfg, log, enc, files, t)
	} else {
		runSequential(ctx, cfg, log, enc, files, t)
	}

	if ctx.Err() != nil {
		stats.Interrupted = true
	}
	logSummary(cfg, log, &stats)
	return stats
}

func runSequential(ctx context.Context, cfg *config.Config, log *logging.Logger, enc encoder.Choice, files []string, t *tally) {
	for i, path := range files {
		if ctx.Err() != nil {
			break
		}
		processFile(ctx, cfg, log, enc, path, i+1, len(files), t)
	}
}

// runParallel fans the per-file work out over cfg.Jobs workers. The
// buffered channel is the admission ticket: a slot is taken before the
// goroutine starts and released when it finishes, so at most Jobs encodes
// run at once. Cancellation stops admitting new files; in-flight encodes
// are killed through their context.
func runParallel(ctx context.Context, cfg *config.Config, log *logging.Logger, enc encoder.Choice, files []string, t *tally) {
	var wg sync.WaitGroup
	slots := make(chan struct{}, cfg.Jobs)

admit:
	for i, path := range files {
		select {
		case slots <- struct{}{}:
		case <-ctx.Done():
			break admit
		}

		wg.Add(1)
		go func(n int, path string) {
			defer wg.Done()
			defer func() { <-slots }()
			processFile(ctx, cfg, log, enc, path, n, len(files), t)
		}(i+1, path)
	}
	wg.Wait()
}

// processFile pushes one file through the per-file pipeline and records
// exactly one tally outcome.
func processFile(ctx context.Context, cfg *config.Config, log *logging.Logger, enc encoder.Choice, path string, n, total int, t *tally) {
	basename := filepath.Base(path)
	log.Info("[%d/%d] %s", n, total, basename)

	// --- Skip-existing (checked before probing; a probe costs a process) ---
	outputPath := naming.OutputPath(cfg.OutputDir, path)
	if cfg.SkipExisting {
		if _, err := os.Stat(outputPath); err == nil {
			log.Skip("  Output exists, skipping: %s", filepath.Base(outputPath))
			t.skipped()
			return
		}
	}

	// --- Validate ---
	fi, err := os.Stat(path)
	if err != nil {
		log.Error("  Cannot read file: %v", err)
		t.failed()
		return
	}
	if fi.Size() < minFileSize {
		log.Error("  File too small, possibly truncated (%s)", display.FormatBytes(fi.Size()))
		t.failed()
		return
	}

	// --- Probe ---
	info, err := probe.Probe(ctx, path)
	if err != nil {
		log.Error("  Probe failed: %v", err)
		t.failed()
		return
	}
	if cfg.ShowFileStats {
		logFileStats(log, info)
	}

	// --- Plan ---
	plan := planner.BuildPlan(info)
	if plan.Action == planner.ActionSkip {
		log.Skip("  Already %dx%d, no conversion needed", planner.TargetWidth, planner.TargetHeight)
		t.skipped()
		return
	}
	log.Info("  Plan: %s", plan.Summary())

	// --- Dry-run ---
	if cfg.DryRun {
		log.Success("  [DRY] Would convert -> %s", filepath.Base(outputPath))
		t.converted(0, 0)
		return
	}

	// --- Convert ---
	start := time.Now()
	req := &ffmpeg.Request{
		InputPath:  path,
		OutputPath: outputPath,
		Info:       info,
		Plan:       plan,
	}
	res := ffmpeg.Execute(ctx, cfg, enc, req)
	if res.Err != nil {
		if ctx.Err() != nil {
			log.Warn("  Interrupted, partial output removed")
		} else {
			log.Error("  Conversion failed: %s", ffmpeg.LastDiagnostic(res.Stderr))
			logStderrTail(cfg, log, res.Stderr)
		}
		t.failed()
		return
	}

	var outSize int64
	if outInfo, err := os.Stat(outputPath); err == nil {
		outSize = outInfo.Size()
	}
	t.converted(fi.Size(), outSize)
	log.Success("  Done in %.1fs (%s -> %s)",
		time.Since(start).Seconds(),
		display.FormatBytes(fi.Size()),
		display.FormatBytes(outSize))
}

// --- Logging helpers ---

func logBatchHeader(cfg *config.Config, log *logging.Logger, enc encoder.Choice, stats *RunStats) {
	log.Info("Found %d MP4 file(s) in %s", stats.Total, cfg.InputDir)
	log.Info("Output directory: %s", cfg.OutputDir)
	log.Info("Encoder: %s, quality %d", enc, cfg.Quality)
	if cfg.Jobs > 1 {
		log.Info("Parallel jobs: %d", cfg.Jobs)
	}
	if !cfg.SkipExisting {
		log.Info("Overwrite: existing outputs will be redone")
	}
	if cfg.DryRun {
		log.Warn("Dry run: no files will be written")
	}
	fmt.Println()
}

// logFileStats prints the one-line source summary under the file header.
func logFileStats(log *logging.Logger, info *probe.MediaInfo) {
	codec := info.VideoCodec
	if codec == "" {
		codec = "unknown"
	}
	line := fmt.Sprintf("  %s | %s | %s", info.Resolution(), display.FormatDuration(info.Duration), codec)
	if info.BitRate > 0 {
		line += " | " + display.FormatBitrateLabel(info.BitRate/1000)
	}
	log.Info("%s", line)
}

// logStderrTail dumps the captured diagnostic tail when verbose. The
// one-line reason is always logged by the caller; the full tail is opt-in.
func logStderrTail(cfg *config.Config, log *logging.Logger, stderr string) {
	if !cfg.Verbose || stderr == "" {
		return
	}
	log.Error("  Last ffmpeg output:")
	for _, l := range strings.Split(strings.TrimSpace(stderr), "\n") {
		log.Error("    %s", l)
	}
}

func logSummary(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	fmt.Println()
	log.Info("==============================")
	if stats.Interrupted {
		log.Warn("Interrupted: %d of %d file(s) reached a result", stats.Processed(), stats.Total)
	}
	log.Info("Done: %d converted, %d skipped, %d failed", stats.Converted, stats.Skipped, stats.Failed)

	if cfg.DryRun || stats.Converted == 0 {
		return
	}

	// Upscaling to 1080p usually grows files, so this is reported as a
	// delta rather than the flattering "space saved".
	delta := stats.TotalOutputBytes - stats.TotalInputBytes
	log.Info("Output size: %s total (%s vs input)",
		display.FormatBytes(stats.TotalOutputBytes),
		display.FormatBytesWithSign(delta))
}
