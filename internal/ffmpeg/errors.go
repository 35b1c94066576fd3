package ffmpeg

import (
	"strings"
	"sync"
)

const (
	// tailLines bounds how much stderr is kept per file. ffmpeg can be
	// extremely chatty on malformed inputs; only the tail matters for
	// failure reporting.
	tailLines = 40

	// maxDiagnosticLen caps the single-line failure reason so one log
	// entry stays one line.
	maxDiagnosticLen = 200
)

// tailBuffer keeps the last tailLines non-empty lines written to it.
// Safe for concurrent use.
type tailBuffer struct {
	mu    sync.Mutex
	lines []string
}

func (t *tailBuffer) add(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines = append(t.lines, line)
	if len(t.lines) > tailLines {
		t.lines = t.lines[len(t.lines)-tailLines:]
	}
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.Join(t.lines, "\n")
}

// LastDiagnostic extracts the most useful single line from a stderr tail
// for the per-file failure log. ffmpeg prints the actionable error last;
// blank lines and stats leftovers are skipped, and overlong lines keep
// their end, where ffmpeg puts the specific reason.
func LastDiagnostic(stderr string) string {
	lines := strings.Split(stderr, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" || strings.HasPrefix(line, "frame=") {
			continue
		}
		if len(line) > maxDiagnosticLen {
			line = line[len(line)-maxDiagnosticLen:]
		}
		return line
	}
	return "no diagnostic output"
}
