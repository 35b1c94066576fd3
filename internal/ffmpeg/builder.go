package ffmpeg

import (
	"fmt"

	"github.com/Henkdetenk12345/mp4-1080p-converter/internal/config"
	"github.com/Henkdetenk12345/mp4-1080p-converter/internal/encoder"
	"github.com/Henkdetenk12345/mp4-1080p-converter/internal/planner"
	"github.com/Henkdetenk12345/mp4-1080p-converter/internal/probe"
)

// Request describes one file conversion: where it comes from, where it
// should land, and what the probe and planner decided about it.
type Request struct {
	InputPath  string
	OutputPath string // final destination; the encode itself targets a work path
	Info       *probe.MediaInfo
	Plan       *planner.Plan
}

// Build constructs the complete ffmpeg argument slice for one conversion.
// outPath is the actual write target, normally the work path rather than
// req.OutputPath.
//
// The video stream is mapped by the exact index the probe picked, so
// embedded cover art can never be selected as the conversion source. Audio
// is stream-copied wholesale and data streams are dropped.
func Build(cfg *config.Config, enc encoder.Choice, req *Request, outPath string) []string {
	args := make([]string, 0, 32)

	// --- Preamble ---
	args = append(args, "ffmpeg", "-hide_banner", "-nostdin", "-y")

	// Loglevel: info when verbose, otherwise error. Verbose also gets
	// ffmpeg's own stats line; otherwise that line is suppressed because
	// the progress stream below replaces it.
	if cfg.Verbose {
		args = append(args, "-loglevel", "info", "-stats", "-stats_period", "1")
	} else {
		args = append(args, "-loglevel", "error", "-nostats")
	}

	// Machine-readable progress on stdout.
	args = append(args, "-progress", "pipe:1")

	// --- Input ---
	args = append(args, "-i", req.InputPath)

	// --- Video filter chain (before maps) ---
	args = append(args, "-vf", req.Plan.Filter())

	// --- Stream maps ---
	args = append(args,
		"-map", fmt.Sprintf("0:%d", req.Info.VideoIndex),
		"-map", "0:a?",
		"-dn",
	)

	// --- Video codec ---
	args = append(args, "-c:v", enc.Name)
	args = append(args, enc.QualityArgs(cfg.Quality)...)

	// --- Audio passthrough ---
	args = append(args, "-c:a", "copy")

	// --- Container opts ---
	args = append(args, "-movflags", "+faststart")

	// --- Output ---
	args = append(args, outPath)

	return args
}
