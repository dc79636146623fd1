package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"gocv.io/x/gocv"
)

// ArtifactWriter persists intermediate buffers for inspection in debug mode.
// Implementations may fail; the pipeline logs and ignores write failures.
type ArtifactWriter interface {
	Save(name string, img gocv.Mat) error
}

// DirWriter writes artifacts as PNG files into a directory.
type DirWriter struct {
	Dir string
}

// NewDirWriter creates a directory-backed artifact writer.
func NewDirWriter(dir string) *DirWriter {
	return &DirWriter{Dir: dir}
}

// Save writes the image as <dir>/<name>.png.
func (w *DirWriter) Save(name string, img gocv.Mat) error {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return fmt.Errorf("create debug dir: %w", err)
	}
	path := filepath.Join(w.Dir, name+".png")
	if ok := gocv.IMWrite(path, img); !ok {
		return fmt.Errorf("write %s failed", path)
	}
	return nil
}
