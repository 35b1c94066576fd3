package naming

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// WorkPath pairs a final output path with the temporary path an encode
// actually writes to. The work file lives in the same directory as the
// final path so Commit is a same-filesystem rename, keeps the .mp4
// extension so ffmpeg picks the right muxer, and is dot-prefixed so a
// crashed run never leaves something that looks like finished output.
type WorkPath struct {
	Final string
	Work  string
}

// NewWorkPath derives a uniquely suffixed work path for finalPath. The
// random suffix keeps parallel jobs writing into the same directory from
// colliding.
func NewWorkPath(finalPath string) WorkPath {
	dir := filepath.Dir(finalPath)
	base := filepath.Base(finalPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return WorkPath{
		Final: finalPath,
		Work:  filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp.mp4", stem, uuid.NewString()[:8])),
	}
}

// Commit renames the work file over the final path.
func (w WorkPath) Commit() error {
	if err := os.Rename(w.Work, w.Final); err != nil {
		return fmt.Errorf("finalize %q: %w", w.Final, err)
	}
	return nil
}

// Discard removes the work file. Errors are ignored: the file may never
// have been created if ffmpeg failed before opening its output.
func (w WorkPath) Discard() {
	_ = os.Remove(w.Work)
}
