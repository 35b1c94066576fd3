package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Henkdetenk12345/mp4-1080p-converter/internal/config"
	"github.com/Henkdetenk12345/mp4-1080p-converter/internal/display"
	"github.com/Henkdetenk12345/mp4-1080p-converter/internal/logging"
	"github.com/Henkdetenk12345/mp4-1080p-converter/internal/planner"
	"github.com/Henkdetenk12345/mp4-1080p-converter/internal/probe"
	"github.com/Henkdetenk12345/mp4-1080p-converter/internal/term"
)

// fileRow holds the probed per-file data for the analysis table.
type fileRow struct {
	Name     string
	Source   string
	Duration string
	Plan     string
	Skip     bool
}

// Analyze probes every discovered file and prints the planned geometry as a
// table without converting anything. Probe failures are reported and
// excluded from the table.
func Analyze(ctx context.Context, cfg *config.Config, log *logging.Logger) {
	files, err := Discover(cfg.InputDir)
	if err != nil {
		log.Error("File discovery failed: %v", err)
		return
	}
	if len(files) == 0 {
		log.Warn("No MP4 files found in %s", cfg.InputDir)
		return
	}

	total := len(files)
	log.Info("Analyzing %d file(s) in %s ...", total, cfg.InputDir)
	fmt.Println()

	isTTY := term.IsTerminal(os.Stdout)
	var rows []fileRow
	var unreadable int

	for i, path := range files {
		if ctx.Err() != nil {
			if isTTY {
				clearProbeProgress()
			}
			log.Warn("Interrupted")
			return
		}

		printProbeProgress(isTTY, i+1, total, unreadable, filepath.Base(path))

		info, err := probe.Probe(ctx, path)
		if err != nil {
			unreadable++
			if isTTY {
				clearProbeProgress()
			}
			log.Warn("Skip (probe failed): %s", filepath.Base(path))
			continue
		}

		plan := planner.BuildPlan(info)
		rows = append(rows, fileRow{
			Name:     filepath.Base(path),
			Source:   info.Resolution(),
			Duration: display.FormatDuration(info.Duration),
			Plan:     plan.Summary(),
			Skip:     plan.Action == planner.ActionSkip,
		})
	}

	if isTTY {
		clearProbeProgress()
	}
	if len(rows) == 0 {
		log.Warn("No files could be probed")
		return
	}

	printAnalysisTable(rows)

	toConvert := 0
	for _, r := range rows {
		if !r.Skip {
			toConvert++
		}
	}
	log.Info("Analyzed %d file(s)", len(rows))
	log.Info("  %d to convert, %d already %dx%d",
		toConvert, len(rows)-toConvert, planner.TargetWidth, planner.TargetHeight)
	if unreadable > 0 {
		log.Warn("  %d unreadable (probe failed)", unreadable)
	}
}

func printAnalysisTable(rows []fileRow) {
	nameW := len("File")
	srcW := len("Source")
	durW := len("Duration")
	planW := len("Plan")

	for _, r := range rows {
		if len(r.Name) > nameW {
			nameW = len(r.Name)
		}
		if len(r.Source) > srcW {
			srcW = len(r.Source)
		}
		if len(r.Duration) > durW {
			durW = len(r.Duration)
		}
		if len(r.Plan) > planW {
			planW = len(r.Plan)
		}
	}
	if nameW > 50 {
		nameW = 50
	}

	header := fmt.Sprintf("  %-*s  %-*s  %*s  %-*s",
		nameW, "File",
		srcW, "Source",
		durW, "Duration",
		planW, "Plan",
	)
	fmt.Println(header)
	fmt.Println("  " + strings.Repeat("─", len(header)-2))

	for _, r := range rows {
		name := r.Name
		if len(name) > nameW {
			name = name[:nameW-1] + "…"
		}

		fmt.Printf("  %-*s  %-*s  %*s  %s\n",
			nameW, name,
			srcW, r.Source,
			durW, r.Duration,
			colorPlanCell(r.Plan, planW, r.Skip),
		)
	}
	fmt.Println()
}

// colorPlanCell pads the plain text first, then wraps it in ANSI color, so
// %-*s alignment never counts escape bytes as visible width.
func colorPlanCell(s string, width int, skip bool) string {
	padded := fmt.Sprintf("%-*s", width, s)
	if skip {
		return term.Cyan + padded + term.NC
	}
	return padded
}

// printProbeProgress shows a live probe counter. On a TTY it writes an
// inline \r-overwritten line; otherwise it is a no-op (the skip warnings
// already provide enough breadcrumbs in piped output).
func printProbeProgress(isTTY bool, current, total, unreadable int, name string) {
	if !isTTY {
		return
	}
	pct := current * 100 / total
	status := fmt.Sprintf("  Probing [%d/%d] %d%% ", current, total, pct)
	if unreadable > 0 {
		status += fmt.Sprintf("(%d unreadable) ", unreadable)
	}

	const maxName = 40
	if len(name) > maxName {
		name = name[:maxName-1] + "…"
	}
	status += name

	// Pad to 80 chars to overwrite previous longer lines, then \r.
	if len(status) < 80 {
		status += strings.Repeat(" ", 80-len(status))
	}
	fmt.Fprintf(os.Stdout, "\r%s", status)
}

// clearProbeProgress erases the inline progress line on a TTY.
func clearProbeProgress() {
	fmt.Fprintf(os.Stdout, "\r%s\r", strings.Repeat(" ", 80))
}
