package pipeline

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Henkdetenk12345/mp4-1080p-converter/internal/config"
	"github.com/Henkdetenk12345/mp4-1080p-converter/internal/encoder"
	"github.com/Henkdetenk12345/mp4-1080p-converter/internal/logging"
)

// --- Discover tests ---

func TestDiscover_FiltersToMP4(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "holiday.mp4")
	touch(t, dir, "CLIP001.MP4")
	touch(t, dir, "movie.mkv")
	touch(t, dir, "notes.txt")
	touch(t, dir, "anime.avi")

	files, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	want := []string{"CLIP001.MP4", "holiday.mp4"}
	got := basenames(files)
	if !sliceEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDiscover_NonRecursive(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "top.mp4")
	os.MkdirAll(filepath.Join(dir, "converted"), 0o755)
	touch(t, filepath.Join(dir, "converted"), "converted_top.mp4")
	os.MkdirAll(filepath.Join(dir, "nested"), 0o755)
	touch(t, filepath.Join(dir, "nested"), "deep.mp4")

	files, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "top.mp4" {
		t.Errorf("got %v, want only top.mp4 (subdirectories must not be walked)", basenames(files))
	}
}

func TestDiscover_SkipsHiddenFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "visible.mp4")
	touch(t, dir, ".converted_visible.1a2b3c4d.tmp.mp4")
	touch(t, dir, ".hidden.mp4")

	files, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "visible.mp4" {
		t.Errorf("got %v, want only visible.mp4", basenames(files))
	}
}

func TestDiscover_CaseFoldDedup(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "Clip.mp4")
	touch(t, dir, "CLIP.MP4")

	files, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	// On a case-sensitive filesystem both files exist and one is dropped;
	// on a case-insensitive one only a single file was ever created.
	if len(files) != 1 {
		t.Errorf("got %d files %v, want 1 after case-fold de-dup", len(files), basenames(files))
	}
}

func TestDiscover_SortedAndEmpty(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.mp4")
	touch(t, dir, "a.mp4")
	touch(t, dir, "c.mp4")

	files, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	for i := 1; i < len(files); i++ {
		if files[i] < files[i-1] {
			t.Errorf("not sorted: %q before %q", files[i-1], files[i])
		}
	}

	empty := t.TempDir()
	files, err = Discover(empty)
	if err != nil {
		t.Fatalf("Discover empty: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("got %d files in empty dir, want 0", len(files))
	}
}

func TestDiscover_MissingDir(t *testing.T) {
	if _, err := Discover(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing directory")
	}
}

// --- Stats tests ---

func TestRunStats_Processed(t *testing.T) {
	s := RunStats{Converted: 3, Skipped: 2, Failed: 1}
	if got := s.Processed(); got != 6 {
		t.Errorf("Processed: got %d, want 6", got)
	}
}

func TestTally_ConcurrentUpdates(t *testing.T) {
	var stats RunStats
	tl := &tally{stats: &stats}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func() { defer wg.Done(); tl.converted(100, 60) }()
		go func() { defer wg.Done(); tl.skipped() }()
		go func() { defer wg.Done(); tl.failed() }()
	}
	wg.Wait()

	if stats.Converted != 50 || stats.Skipped != 50 || stats.Failed != 50 {
		t.Errorf("counters: got %d/%d/%d, want 50/50/50", stats.Converted, stats.Skipped, stats.Failed)
	}
	if stats.TotalInputBytes != 5000 || stats.TotalOutputBytes != 3000 {
		t.Errorf("bytes: got %d/%d, want 5000/3000", stats.TotalInputBytes, stats.TotalOutputBytes)
	}
}

// --- Runner tests (no external tools needed) ---

func testSetup(t *testing.T) (config.Config, *logging.Logger) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.InputDir = t.TempDir()
	cfg.OutputDir = t.TempDir()
	cfg.ColorMode = config.ColorNever

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	t.Cleanup(func() { log.Close() })
	return cfg, log
}

func softwareEncoder() encoder.Choice {
	return encoder.Choice{Name: "libx264", Label: "CPU (libx264)", Mode: config.ModeCPU}
}

func TestRun_SkipExistingShortCircuits(t *testing.T) {
	cfg, log := testSetup(t)

	// Outputs already exist, so the runner must not even probe the inputs.
	// That keeps this test independent of ffprobe being installed.
	touch(t, cfg.InputDir, "a.mp4")
	touch(t, cfg.InputDir, "b.mp4")
	touch(t, cfg.OutputDir, "converted_a.mp4")
	touch(t, cfg.OutputDir, "converted_b.mp4")

	stats := Run(context.Background(), &cfg, log, softwareEncoder())

	if stats.Total != 2 || stats.Skipped != 2 || stats.Failed != 0 || stats.Converted != 0 {
		t.Errorf("got Total=%d Converted=%d Skipped=%d Failed=%d, want 2/0/2/0",
			stats.Total, stats.Converted, stats.Skipped, stats.Failed)
	}
}

func TestRun_TinyFileFailsValidation(t *testing.T) {
	cfg, log := testSetup(t)
	touch(t, cfg.InputDir, "stub.mp4") // zero bytes, below the size floor

	stats := Run(context.Background(), &cfg, log, softwareEncoder())

	if stats.Total != 1 || stats.Failed != 1 {
		t.Errorf("got Total=%d Failed=%d, want 1/1", stats.Total, stats.Failed)
	}
}

func TestRun_EmptyInputDir(t *testing.T) {
	cfg, log := testSetup(t)

	stats := Run(context.Background(), &cfg, log, softwareEncoder())

	if stats.Total != 0 || stats.Processed() != 0 {
		t.Errorf("got Total=%d Processed=%d, want 0/0", stats.Total, stats.Processed())
	}
}

// --- Dry-run integration test ---

func TestDryRunPipeline(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not available")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not available")
	}

	cfg, log := testSetup(t)
	cfg.DryRun = true

	// One 720p file that needs conversion and one already at the target.
	genTestFile(t, filepath.Join(cfg.InputDir, "small.mp4"), "1280x720")
	genTestFile(t, filepath.Join(cfg.InputDir, "target.mp4"), "1920x1080")
	touch(t, cfg.InputDir, "notes.txt")

	stats := Run(context.Background(), &cfg, log, softwareEncoder())

	t.Logf("Total=%d Converted=%d Skipped=%d Failed=%d",
		stats.Total, stats.Converted, stats.Skipped, stats.Failed)

	if stats.Total != 2 {
		t.Errorf("Total: got %d, want 2", stats.Total)
	}
	if stats.Converted != 1 {
		t.Errorf("Converted: got %d, want 1 (dry-run counts as converted)", stats.Converted)
	}
	if stats.Skipped != 1 {
		t.Errorf("Skipped: got %d, want 1 (already 1920x1080)", stats.Skipped)
	}
	if stats.Failed != 0 {
		t.Errorf("Failed: got %d, want 0", stats.Failed)
	}

	// Dry-run must not create any output.
	entries, err := os.ReadDir(cfg.OutputDir)
	if err != nil {
		t.Fatalf("ReadDir output: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("output dir not empty after dry run: %d entries", len(entries))
	}
}

// One of each outcome in a single batch: a convertible file, a file already
// at the target, and an unprobeable one. The batch must reach the end with
// the full tally regardless of the failure in the middle.
func TestBatchMixedOutcomes(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not available")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not available")
	}

	cfg, log := testSetup(t)
	cfg.DryRun = true

	genTestFile(t, filepath.Join(cfg.InputDir, "a_small.mp4"), "1280x720")
	genTestFile(t, filepath.Join(cfg.InputDir, "b_target.mp4"), "1920x1080")
	// Big enough to pass size validation, but not a media file.
	garbage := make([]byte, 4096)
	if err := os.WriteFile(filepath.Join(cfg.InputDir, "c_corrupt.mp4"), garbage, 0o644); err != nil {
		t.Fatal(err)
	}

	stats := Run(context.Background(), &cfg, log, softwareEncoder())

	if stats.Total != 3 {
		t.Errorf("Total: got %d, want 3", stats.Total)
	}
	if stats.Converted != 1 || stats.Skipped != 1 || stats.Failed != 1 {
		t.Errorf("tally: got %d/%d/%d, want converted=1 skipped=1 failed=1",
			stats.Converted, stats.Skipped, stats.Failed)
	}
	if stats.Interrupted {
		t.Error("batch with per-file failures must not read as interrupted")
	}
}

// --- Helpers ---

func touch(t *testing.T, dir, name string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte{}, 0o644); err != nil {
		t.Fatalf("touch %s: %v", path, err)
	}
}

func genTestFile(t *testing.T, path, size string) {
	t.Helper()
	gen := exec.Command("ffmpeg",
		"-f", "lavfi", "-i", "testsrc=duration=1:size="+size+":rate=24",
		"-f", "lavfi", "-i", "sine=frequency=440:duration=1:sample_rate=48000",
		"-c:v", "libx264", "-pix_fmt", "yuv420p",
		"-c:a", "aac", "-ac", "2",
		"-y", path,
	)
	gen.Stderr = os.Stderr
	if err := gen.Run(); err != nil {
		t.Fatalf("generate %s: %v", path, err)
	}
}

func basenames(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}

func sliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
