// Package check verifies the external tool environment: the hard
// requirement that ffmpeg and ffprobe are runnable, and the informational
// --check diagnostics that test-encode every encoder backend.
package check

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/Henkdetenk12345/mp4-1080p-converter/internal/config"
	"github.com/Henkdetenk12345/mp4-1080p-converter/internal/encoder"
)

// Sentinel errors returned by CheckTools. A missing tool is the only error
// that aborts a run before any file is touched; every other problem
// degrades to the software encoder or a per-file failure.
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg not found on PATH")
	ErrFfprobeNotFound = errors.New("ffprobe not found on PATH")
)

// Logger is the minimal logging interface needed by RunCheck. Defined here
// rather than importing the logging package so check stays testable with a
// mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// CheckTools verifies that ffmpeg and ffprobe are on PATH.
func CheckTools() error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return ErrFfmpegNotFound
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return ErrFfprobeNotFound
	}
	return nil
}

// RunCheck runs the --check flow: tool versions, the H.264 encoder listing,
// and a short synthetic encode per backend. It reports false when a tool is
// missing or no backend passed its test encode.
func RunCheck(ctx context.Context, cfg *config.Config, log Logger) bool {
	log.Info("=== System check ===")

	ok := checkVersion(ctx, log, "ffmpeg")
	ok = checkVersion(ctx, log, "ffprobe") && ok
	if !ok {
		return false
	}

	listH264Encoders(ctx, log)
	return testEncoders(ctx, cfg, log)
}

// checkVersion verifies the tool is on PATH and logs its version line.
func checkVersion(ctx context.Context, log Logger, tool string) bool {
	if _, err := exec.LookPath(tool); err != nil {
		log.Error("%s not found on PATH", tool)
		return false
	}
	out, err := exec.CommandContext(ctx, tool, "-version").Output()
	if err != nil {
		log.Warn("%s found but -version failed: %v", tool, err)
		return false
	}
	firstLine := string(out)
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Success("%s", strings.TrimSpace(firstLine))
	return true
}

// listH264Encoders prints the H.264 entries from ffmpeg's encoder listing.
func listH264Encoders(ctx context.Context, log Logger) {
	log.Info("H.264 encoders:")
	out, err := exec.CommandContext(ctx, "ffmpeg", "-hide_banner", "-encoders").Output()
	if err != nil {
		log.Warn("Could not list encoders: %v", err)
		return
	}
	for _, line := range strings.Split(string(out), "\n") {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "h264") || strings.Contains(lower, "h.264") {
			log.Info("  %s", strings.TrimSpace(line))
		}
	}
}

// testEncoders runs a short synthetic encode per backend and reports which
// ones actually work. Appearing in the listing does not guarantee a usable
// device, so the test encode is the definitive availability answer.
func testEncoders(ctx context.Context, cfg *config.Config, log Logger) bool {
	anyWorks := false
	for _, c := range encoder.Candidates() {
		args := testEncodeArgs(c.Name)
		log.Debug(cfg.Verbose, "ffmpeg %s", strings.Join(args, " "))

		switch {
		case runSilent(ctx, "ffmpeg", args...):
			log.Success("%s works", c)
			anyWorks = true
		case c.Hardware:
			log.Warn("%s not usable", c)
		default:
			log.Error("%s test encode failed", c)
		}
	}
	return anyWorks
}

// testEncodeArgs builds a minimal synthetic encode for one backend.
func testEncodeArgs(encoderName string) []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "testsrc=duration=1:size=320x240:rate=1",
		"-c:v", encoderName,
		"-f", "null", "-",
	}
}

// runSilent runs a command and reports whether it exited zero. All output
// is discarded.
func runSilent(ctx context.Context, name string, args ...string) bool {
	return exec.CommandContext(ctx, name, args...).Run() == nil
}
