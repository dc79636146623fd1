// Package pipeline wires the grid extraction stages into a single per-image
// invocation: load/normalize, locate, rectify, split, classify, assemble.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"sudoku-extractor/internal/classify"
	"sudoku-extractor/internal/grid"
	"sudoku-extractor/internal/imaging"

	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"
)

// Result is the outcome of processing one image.
type Result struct {
	Grid      classify.SudokuGrid
	Boundary  grid.Boundary
	Source    string
	Extracted time.Time
	Elapsed   time.Duration
}

// Pipeline processes images into sudoku grids. It is safe for sequential
// reuse across images; the Recognizer it holds must be safe for concurrent
// use, since cell classifications fan out.
type Pipeline struct {
	cfg       Config
	rec       classify.Recognizer
	artifacts ArtifactWriter
}

// New creates a pipeline with the given recognizer and configuration.
func New(rec classify.Recognizer, cfg Config) *Pipeline {
	p := &Pipeline{cfg: cfg, rec: rec}
	if cfg.Debug {
		p.artifacts = NewDirWriter(cfg.DebugDir)
	}
	return p
}

// Process runs the full pipeline on a single image file. The geometry
// stages run strictly in sequence; the 81 cell classifications run
// concurrently bounded by the configured worker limit. Image-level failures
// are reported as one of the typed errors carrying the offending path;
// per-cell recognition problems only raise the grid's ambiguity count.
func (p *Pipeline) Process(ctx context.Context, path string) (*Result, error) {
	start := time.Now()

	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	norm, err := imaging.Load(path, p.cfg.Imaging)
	if err != nil {
		return nil, &UnreadableImageError{Path: path, Err: err}
	}
	defer norm.Close()
	p.saveArtifact("normalized", norm.Binary)

	boundary, err := grid.Locate(norm.Binary, p.cfg.Grid)
	if err != nil {
		return nil, &GridNotFoundError{Path: path, Err: err}
	}
	log.Debug().
		Str("image", path).
		Float64("area", boundary.Area).
		Float64("score", boundary.Score).
		Msg("grid boundary located")

	rectified, err := grid.Rectify(norm.Binary, boundary, p.cfg.Grid)
	if err != nil {
		return nil, &RectificationError{Path: path, Err: err}
	}
	defer rectified.Close()
	p.saveArtifact("rectified", rectified.Mat)

	cells, err := grid.Split(rectified, p.cfg.Grid)
	if err != nil {
		return nil, fmt.Errorf("split %s: %w", path, err)
	}
	defer grid.CloseCells(cells)
	if p.artifacts != nil {
		for i := range cells {
			p.saveArtifact(fmt.Sprintf("cell_%d_%d", cells[i].Row, cells[i].Col), cells[i].Mat)
		}
	}

	results, err := classify.ClassifyAll(ctx, cells, p.rec, p.cfg.Classify)
	if err != nil {
		return nil, fmt.Errorf("classify %s: %w", path, err)
	}

	sudoku := classify.Assemble(results)
	elapsed := time.Since(start)

	log.Info().
		Str("image", path).
		Int("ambiguous", sudoku.AmbiguousCount()).
		Dur("elapsed", elapsed).
		Msg("image processed")

	return &Result{
		Grid:      sudoku,
		Boundary:  *boundary,
		Source:    path,
		Extracted: start,
		Elapsed:   elapsed,
	}, nil
}

// saveArtifact persists an intermediate buffer in debug mode. Failures are
// logged and ignored, inspection output never fails a run.
func (p *Pipeline) saveArtifact(name string, img gocv.Mat) {
	if p.artifacts == nil {
		return
	}
	if err := p.artifacts.Save(name, img); err != nil {
		log.Warn().Err(err).Str("artifact", name).Msg("debug artifact not written")
	}
}
