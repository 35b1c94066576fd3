package ffmpeg

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Progress is a snapshot of an in-flight conversion, assembled from the
// key=value blocks ffmpeg writes to -progress pipe:1.
type Progress struct {
	Frame     int64
	FPS       float64
	Bitrate   string // as reported, e.g. "5184.3kbits/s"
	TotalSize int64
	OutTimeUs int64   // output timestamp in microseconds
	Speed     float64 // encode speed multiplier, 0 while unknown
	End       bool    // set once ffmpeg reports progress=end
}

// Seconds returns the output timestamp in seconds.
func (p Progress) Seconds() float64 {
	return float64(p.OutTimeUs) / 1e6
}

// Percent converts the output timestamp into a completion percentage
// against the source duration in seconds. Container durations are
// approximate, so the result is clamped to 0-100; an unknown duration or
// timestamp yields 0.
func (p Progress) Percent(duration float64) float64 {
	if duration <= 0 || p.OutTimeUs <= 0 {
		return 0
	}
	pct := p.Seconds() / duration * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// ETA estimates the remaining wall time from the encode speed multiplier.
// ok is false while duration or speed is unknown.
func (p Progress) ETA(duration float64) (eta time.Duration, ok bool) {
	if duration <= 0 || p.Speed <= 0 {
		return 0, false
	}
	remaining := duration - p.Seconds()
	if remaining < 0 {
		remaining = 0
	}
	return time.Duration(remaining / p.Speed * float64(time.Second)), true
}

// progressParser folds the key=value stream from -progress pipe:1 into
// [Progress] snapshots. ffmpeg re-emits every key in each block and
// terminates the block with a progress= marker line; values therefore
// accumulate across lines and Feed reports a completed snapshot exactly on
// the marker.
type progressParser struct {
	cur Progress
}

// Feed consumes one line of -progress output. ok is true when the line
// completed a block and the returned snapshot should be consumed.
func (pp *progressParser) Feed(line string) (snap Progress, ok bool) {
	key, value, found := strings.Cut(strings.TrimSpace(line), "=")
	if !found {
		return Progress{}, false
	}
	value = strings.TrimSpace(value)

	switch key {
	case "progress":
		pp.cur.End = value == "end"
		return pp.cur, true
	case "frame":
		if n, err := strconv.ParseInt(value, 10, 64); err == nil && n >= 0 {
			pp.cur.Frame = n
		}
	case "fps":
		if f, err := strconv.ParseFloat(value, 64); err == nil && f >= 0 {
			pp.cur.FPS = f
		}
	case "bitrate":
		if value != "" && value != "N/A" {
			pp.cur.Bitrate = value
		}
	case "total_size":
		if n, err := strconv.ParseInt(value, 10, 64); err == nil && n >= 0 {
			pp.cur.TotalSize = n
		}
	case "out_time_us":
		if n, err := strconv.ParseInt(value, 10, 64); err == nil && n >= 0 {
			pp.cur.OutTimeUs = n
		}
	case "out_time_ms":
		// Despite the name, ffmpeg emits this key in microseconds as well
		// (same value as out_time_us).
		if n, err := strconv.ParseInt(value, 10, 64); err == nil && n >= 0 {
			pp.cur.OutTimeUs = n
		}
	case "out_time":
		if us := parseOutTime(value); us >= 0 {
			pp.cur.OutTimeUs = us
		}
	case "speed":
		// "N/A" during startup; the previous value is kept so the ETA
		// stays usable between valid samples.
		if f, err := strconv.ParseFloat(strings.TrimSuffix(value, "x"), 64); err == nil && f >= 0 {
			pp.cur.Speed = f
		}
	}
	return Progress{}, false
}

// parseOutTime parses ffmpeg's HH:MM:SS.fraction timestamps into
// microseconds. Returns -1 for values that do not parse, including the
// "N/A" ffmpeg emits before the first frame.
func parseOutTime(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "N/A" {
		return -1
	}
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return -1
	}
	hours, err1 := strconv.ParseInt(parts[0], 10, 64)
	mins, err2 := strconv.ParseInt(parts[1], 10, 64)
	if err1 != nil || err2 != nil || hours < 0 {
		return -1
	}

	secPart, fracPart, _ := strings.Cut(parts[2], ".")
	secs, err := strconv.ParseInt(secPart, 10, 64)
	if err != nil {
		return -1
	}

	var micros int64
	if fracPart != "" {
		// Pad or truncate the fraction to microsecond precision; stats
		// lines carry centiseconds, the progress stream full microseconds.
		for len(fracPart) < 6 {
			fracPart += "0"
		}
		micros, err = strconv.ParseInt(fracPart[:6], 10, 64)
		if err != nil {
			return -1
		}
	}
	return hours*3600_000_000 + mins*60_000_000 + secs*1_000_000 + micros
}

// Classic stats lines ("frame= 512 fps=120 ... time=00:00:41.73 ...
// speed=4.05x") appear on stderr when -stats is active. They carry a subset
// of the progress stream's fields in a single line.
var (
	reStatsTime  = regexp.MustCompile(`time=\s*(\d+:\d{2}:\d{2}\.\d+)`)
	reStatsFPS   = regexp.MustCompile(`fps=\s*([\d.]+)`)
	reStatsSpeed = regexp.MustCompile(`speed=\s*([\d.]+)x`)
)

// parseStatsLine extracts progress fields from a classic stats line. ok is
// false for anything that is not a stats line, such as ordinary log output.
func parseStatsLine(line string) (snap Progress, ok bool) {
	if !strings.Contains(line, "frame=") {
		return Progress{}, false
	}
	m := reStatsTime.FindStringSubmatch(line)
	if m == nil {
		return Progress{}, false
	}
	us := parseOutTime(m[1])
	if us < 0 {
		return Progress{}, false
	}

	snap = Progress{OutTimeUs: us}
	if fm := reStatsFPS.FindStringSubmatch(line); fm != nil {
		snap.FPS, _ = strconv.ParseFloat(fm[1], 64)
	}
	if sm := reStatsSpeed.FindStringSubmatch(line); sm != nil {
		snap.Speed, _ = strconv.ParseFloat(sm[1], 64)
	}
	return snap, true
}
