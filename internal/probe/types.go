package probe

import "strconv"

// MediaInfo is the parsed result of a single ffprobe call: the properties
// the planner needs (dimensions, duration) plus a few display extras from
// the first real video stream and the container format section. Read-only
// after creation.
type MediaInfo struct {
	Width        int
	Height       int
	Duration     float64 // seconds, from the format section
	VideoCodec   string
	VideoIndex   int   // absolute stream index, for -map
	BitRate      int64 // bits/sec; stream value, format-level fallback
	SizeBytes    int64
	AvgFrameRate string // raw ffprobe fraction, e.g. "30000/1001"
}

// Resolution returns "WxH", or "unknown" when dimensions are missing.
func (m *MediaInfo) Resolution() string {
	if m.Width <= 0 || m.Height <= 0 {
		return "unknown"
	}
	return strconv.Itoa(m.Width) + "x" + strconv.Itoa(m.Height)
}
