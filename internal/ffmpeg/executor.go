package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/Henkdetenk12345/mp4-1080p-converter/internal/config"
	"github.com/Henkdetenk12345/mp4-1080p-converter/internal/encoder"
	"github.com/Henkdetenk12345/mp4-1080p-converter/internal/naming"
	"github.com/Henkdetenk12345/mp4-1080p-converter/internal/term"
)

// maxScanBuffer is the ceiling for a single scanned line. ffmpeg metadata
// dumps can exceed bufio's 64 KiB default.
const maxScanBuffer = 1024 * 1024

// Result holds the outcome of a single ffmpeg invocation. Stderr carries a
// bounded tail of the diagnostic output for failure reporting.
type Result struct {
	Stderr string
	Err    error
}

// liveProgress merges progress snapshots from the progress stream and from
// classic stats lines, and drives the optional renderer. Both pipe scanners
// feed it from their own goroutines.
type liveProgress struct {
	mu     sync.Mutex
	cur    Progress
	render *progressRenderer // nil when no live line is wanted
}

func (lp *liveProgress) apply(pr Progress) {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	if pr.OutTimeUs < lp.cur.OutTimeUs && !pr.End {
		// Stale relative to the other stream.
		return
	}
	lp.cur = pr
	if lp.render != nil {
		lp.render.update(pr)
	}
}

// Execute runs the conversion described by req. The encode writes to a work
// path next to the final output and is renamed into place only after ffmpeg
// exits cleanly, so an interrupted run never leaves a partial file behind
// under the real name.
//
// Stdout carries the machine-readable progress stream; stderr is collected
// into the diagnostic tail and, in verbose mode, forwarded to the terminal
// as it arrives. A live progress line is rendered for sequential TTY runs
// only, because parallel jobs would fight over the same terminal row.
func Execute(ctx context.Context, cfg *config.Config, enc encoder.Choice, req *Request) Result {
	work := naming.NewWorkPath(req.OutputPath)
	args := Build(cfg, enc, req, work.Work)

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Result{Err: fmt.Errorf("stdout pipe: %w", err)}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return Result{Err: fmt.Errorf("stderr pipe: %w", err)}
	}

	lp := &liveProgress{}
	if cfg.ShowProgress && !cfg.Verbose && cfg.Jobs == 1 && term.IsTerminal(os.Stdout) {
		lp.render = newProgressRenderer(os.Stdout, req.Info.Duration)
	}
	tail := &tailBuffer{}

	if err := cmd.Start(); err != nil {
		return Result{Err: fmt.Errorf("start ffmpeg: %w", err)}
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		scanProgress(stdout, lp)
	}()
	go func() {
		defer wg.Done()
		scanDiagnostics(stderr, cfg.Verbose, lp, tail)
	}()

	// Wait must not run until both pipes are drained.
	wg.Wait()
	waitErr := cmd.Wait()

	if lp.render != nil {
		lp.render.finish()
	}

	if waitErr != nil {
		work.Discard()
		if ctx.Err() != nil {
			return Result{Stderr: tail.String(), Err: ctx.Err()}
		}
		return Result{Stderr: tail.String(), Err: waitErr}
	}

	if err := work.Commit(); err != nil {
		work.Discard()
		return Result{Stderr: tail.String(), Err: err}
	}
	return Result{Stderr: tail.String()}
}

// scanProgress drains the -progress stream, feeding completed blocks to lp.
func scanProgress(r io.Reader, lp *liveProgress) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxScanBuffer)

	var parser progressParser
	for sc.Scan() {
		if pr, ok := parser.Feed(sc.Text()); ok {
			lp.apply(pr)
		}
	}
}

// scanDiagnostics drains stderr into the bounded tail. Classic stats lines
// double as a progress source and stay out of the tail; in verbose mode
// every line is also forwarded to the terminal.
func scanDiagnostics(r io.Reader, verbose bool, lp *liveProgress, tail *tailBuffer) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxScanBuffer)
	sc.Split(scanCRLines)

	for sc.Scan() {
		line := sc.Text()
		if verbose {
			fmt.Fprintln(os.Stderr, line)
		}
		if pr, ok := parseStatsLine(line); ok {
			lp.apply(pr)
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		tail.add(line)
	}
}

// scanCRLines is a bufio.SplitFunc that treats the bare \r ffmpeg uses for
// in-place stats updates as a line terminator alongside \n. Without it, a
// whole encode's worth of stats updates would arrive as one giant token.
func scanCRLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		adv := i + 1
		if data[i] == '\r' {
			if adv == len(data) && !atEOF {
				// Can't yet tell whether a \n follows; wait for more data.
				return 0, nil, nil
			}
			if adv < len(data) && data[adv] == '\n' {
				adv++
			}
		}
		return adv, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
