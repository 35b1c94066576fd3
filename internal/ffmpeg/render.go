package ffmpeg

import (
	"fmt"
	"io"
	"strings"

	"github.com/Henkdetenk12345/mp4-1080p-converter/internal/display"
)

// progressRenderer maintains the single in-place progress line shown during
// sequential TTY runs. Redraws are throttled to whole-percent steps so the
// terminal is not hammered at the progress stream's native rate.
//
// Not safe for concurrent use on its own; [liveProgress] serializes calls.
type progressRenderer struct {
	w        io.Writer
	duration float64 // source duration in seconds
	lastPct  float64
	lastLen  int
	started  bool
}

func newProgressRenderer(w io.Writer, duration float64) *progressRenderer {
	return &progressRenderer{w: w, duration: duration}
}

// update redraws the line when progress advanced at least one percent since
// the previous draw, and always on the end-of-stream snapshot.
func (r *progressRenderer) update(pr Progress) {
	pct := pr.Percent(r.duration)
	if r.started && pct-r.lastPct < 1 && !pr.End {
		return
	}
	r.started = true
	r.lastPct = pct

	var b strings.Builder
	fmt.Fprintf(&b, "  %5.1f%%", pct)
	if pr.FPS > 0 {
		fmt.Fprintf(&b, " | %.0f fps", pr.FPS)
	}
	if pr.Speed > 0 {
		fmt.Fprintf(&b, " | %.1fx", pr.Speed)
	}
	if eta, ok := pr.ETA(r.duration); ok && !pr.End {
		fmt.Fprintf(&b, " | ETA %s", display.FormatETA(eta))
	}
	r.draw(b.String())
}

// draw overwrites the current line, padding with spaces when the new line
// is shorter than the previous one.
func (r *progressRenderer) draw(line string) {
	pad := r.lastLen - len(line)
	if pad < 0 {
		pad = 0
	}
	fmt.Fprintf(r.w, "\r%s%s", line, strings.Repeat(" ", pad))
	r.lastLen = len(line)
}

// finish clears the progress line so the next log line starts on a clean
// row. A renderer that never drew anything writes nothing.
func (r *progressRenderer) finish() {
	if !r.started {
		return
	}
	fmt.Fprintf(r.w, "\r%s\r", strings.Repeat(" ", r.lastLen))
	r.lastLen = 0
}
