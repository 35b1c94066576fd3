// Package encoder probes ffmpeg for available H.264 encoders and picks the
// backend for a run. Selection reads `ffmpeg -encoders` exactly once; the
// hardware candidates are tried in a fixed priority order and libx264 is the
// always-available software fallback.
package encoder

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/Henkdetenk12345/mp4-1080p-converter/internal/config"
)

// Choice identifies one selectable H.264 encoder backend.
type Choice struct {
	Name     string             // ffmpeg encoder id, e.g. "h264_nvenc"
	Label    string             // vendor label for logs
	Mode     config.EncoderMode // the --mode value that forces this backend
	Hardware bool
}

// String returns the log form, e.g. "NVIDIA NVENC (h264_nvenc)".
func (c Choice) String() string {
	return c.Label + " (" + c.Name + ")"
}

// candidates in selection priority order. The last entry is the software
// fallback and is selectable without consulting the listing.
var candidates = []Choice{
	{Name: "h264_nvenc", Label: "NVIDIA NVENC", Mode: config.ModeNvidia, Hardware: true},
	{Name: "h264_amf", Label: "AMD AMF", Mode: config.ModeAMD, Hardware: true},
	{Name: "h264_qsv", Label: "Intel QuickSync", Mode: config.ModeIntel, Hardware: true},
	{Name: "libx264", Label: "CPU (libx264)", Mode: config.ModeCPU, Hardware: false},
}

// Candidates returns the selection table in priority order.
func Candidates() []Choice {
	out := make([]Choice, len(candidates))
	copy(out, candidates)
	return out
}

// Select picks the encoder for this run. In auto mode the first listed
// hardware candidate wins; a forced hardware mode that ffmpeg does not list
// falls back to libx264 rather than failing, because a missing GPU should
// never stop a batch. The only error case is ffmpeg itself being unrunnable.
//
// Callers that forced a mode can compare the returned Choice.Mode against
// the requested one to detect the fallback.
func Select(ctx context.Context, mode config.EncoderMode) (Choice, error) {
	listing, err := listEncoders(ctx)
	if err != nil {
		return Choice{}, err
	}
	return selectFrom(listing, mode), nil
}

// selectFrom applies the mode and priority rules to a captured encoder
// listing. Split from Select so tests don't need an ffmpeg binary.
func selectFrom(listing string, mode config.EncoderMode) Choice {
	if mode != config.ModeAuto {
		for _, c := range candidates {
			if c.Mode != mode {
				continue
			}
			if !c.Hardware || strings.Contains(listing, c.Name) {
				return c
			}
			break
		}
		return software()
	}

	for _, c := range candidates {
		if !c.Hardware || strings.Contains(listing, c.Name) {
			return c
		}
	}
	return software()
}

// software returns the libx264 fallback entry.
func software() Choice {
	return candidates[len(candidates)-1]
}

// listEncoders runs ffmpeg once and returns the raw encoder listing.
func listEncoders(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "ffmpeg", "-hide_banner", "-encoders").Output()
	if err != nil {
		return "", fmt.Errorf("ffmpeg -encoders: %w", err)
	}
	return string(out), nil
}
