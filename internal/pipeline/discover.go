package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Discover lists the MP4 files directly inside inputDir, sorted for a
// deterministic processing order. The listing is deliberately non-recursive:
// the default converted/ output directory lives inside the input, and a
// recursive walk would feed this run's outputs into the next one.
//
// Extension matching is case-insensitive, names that differ only by case
// are reported once (doubles otherwise show up on case-insensitive
// filesystems), and hidden files, including stale work files from a crashed
// run, are never inputs.
func Discover(inputDir string) ([]string, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}

	seen := make(map[string]bool)
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if !strings.EqualFold(filepath.Ext(name), ".mp4") {
			continue
		}
		folded := strings.ToLower(name)
		if seen[folded] {
			continue
		}
		seen[folded] = true
		files = append(files, filepath.Join(inputDir, name))
	}

	sort.Strings(files)
	return files, nil
}
