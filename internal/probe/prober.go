package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Sentinel errors for files ffprobe can read but the converter cannot use.
var (
	ErrNoVideoStream = errors.New("no video stream found")
	ErrBadDimensions = errors.New("video stream has no usable dimensions")
)

// Probe runs a single ffprobe JSON call against path and returns the parsed
// result. Probe failures are per-file errors; the caller decides whether to
// continue the batch.
func Probe(ctx context.Context, path string) (*MediaInfo, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe %q: %w", path, err)
	}

	return ParseJSON(out)
}

// ParseJSON converts raw ffprobe JSON output into a MediaInfo.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (*MediaInfo, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	return buildInfo(&raw)
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Duration string `json:"duration"`
	Size     string `json:"size"`
	BitRate  string `json:"bit_rate"`
}

type ffprobeStream struct {
	Index        int            `json:"index"`
	CodecName    string         `json:"codec_name"`
	CodecType    string         `json:"codec_type"`
	Width        int            `json:"width"`
	Height       int            `json:"height"`
	BitRate      string         `json:"bit_rate"`
	AvgFrameRate string         `json:"avg_frame_rate"`
	Disposition  map[string]int `json:"disposition"`
}

// --- Conversion from wire types to the domain type ---

// buildInfo picks the first video stream that is not an attached picture
// (cover art shows up as a video stream with disposition attached_pic).
func buildInfo(raw *ffprobeOutput) (*MediaInfo, error) {
	var video *ffprobeStream
	for i := range raw.Streams {
		s := &raw.Streams[i]
		if s.CodecType != "video" || s.Disposition["attached_pic"] == 1 {
			continue
		}
		video = s
		break
	}
	if video == nil {
		return nil, ErrNoVideoStream
	}
	if video.Width <= 0 || video.Height <= 0 {
		return nil, fmt.Errorf("%w (%dx%d)", ErrBadDimensions, video.Width, video.Height)
	}

	info := &MediaInfo{
		Width:        video.Width,
		Height:       video.Height,
		Duration:     parseFloat(raw.Format.Duration),
		VideoCodec:   video.CodecName,
		VideoIndex:   video.Index,
		BitRate:      parseInt64(video.BitRate),
		SizeBytes:    parseInt64(raw.Format.Size),
		AvgFrameRate: video.AvgFrameRate,
	}
	if info.BitRate == 0 {
		info.BitRate = parseInt64(raw.Format.BitRate)
	}
	return info, nil
}

// --- Numeric parsing helpers (ffprobe returns numbers as strings) ---

func parseInt64(s string) int64 {
	s = strings.TrimSpace(s)
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
