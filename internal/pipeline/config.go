package pipeline

import (
	"time"

	"sudoku-extractor/internal/classify"
	"sudoku-extractor/internal/grid"
	"sudoku-extractor/internal/imaging"
)

// Config carries every tunable of a pipeline invocation. It is an explicit
// value threaded through the call, not ambient state, so detection runs are
// deterministic and testable in isolation.
type Config struct {
	Imaging  imaging.Params
	Grid     grid.Params
	Classify classify.Params

	// Timeout bounds the processing of one image, zero means no limit.
	Timeout time.Duration

	// Debug persists intermediate buffers into DebugDir.
	Debug    bool
	DebugDir string
}

// DefaultConfig returns the default pipeline configuration.
func DefaultConfig() Config {
	return Config{
		Imaging:  imaging.DefaultParams(),
		Grid:     grid.DefaultParams(),
		Classify: classify.DefaultParams(),
		Timeout:  60 * time.Second,
		DebugDir: "debug",
	}
}

// WithTimeout returns a copy with a custom whole-image timeout.
func (c Config) WithTimeout(d time.Duration) Config {
	c.Timeout = d
	return c
}

// WithWorkers returns a copy with a custom classification worker bound.
func (c Config) WithWorkers(n int) Config {
	c.Classify = c.Classify.WithWorkers(n)
	return c
}

// WithDebug returns a copy with debug artifact dumps enabled into dir.
func (c Config) WithDebug(dir string) Config {
	c.Debug = true
	if dir != "" {
		c.DebugDir = dir
	}
	return c
}
