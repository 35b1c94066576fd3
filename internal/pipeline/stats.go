package pipeline

import "sync"

// RunStats tracks the batch tally and byte totals across a run.
type RunStats struct {
	Total            int // files discovered
	Converted        int
	Skipped          int
	Failed           int
	TotalInputBytes  int64 // converted files only
	TotalOutputBytes int64
	Interrupted      bool
}

// Processed returns how many files reached a terminal state.
func (s *RunStats) Processed() int {
	return s.Converted + s.Skipped + s.Failed
}

// tally serializes RunStats updates so parallel workers can share one
// struct. Sequential runs pay only an uncontended lock.
type tally struct {
	mu    sync.Mutex
	stats *RunStats
}

func (t *tally) converted(inBytes, outBytes int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats.Converted++
	t.stats.TotalInputBytes += inBytes
	t.stats.TotalOutputBytes += outBytes
}

func (t *tally) skipped() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats.Skipped++
}

func (t *tally) failed() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats.Failed++
}
