// Command sudoku-extractor reads puzzle photos or scans, extracts the 9x9
// digit grid from each, and writes the results to an Excel workbook.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"sudoku-extractor/internal/classify"
	"sudoku-extractor/internal/export"
	"sudoku-extractor/internal/ocr"
	"sudoku-extractor/internal/pipeline"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

func main() {
	input := flag.String("input", "", "Image file, or a directory with -batch")
	output := flag.String("o", ".", "Output directory for per-image workbooks")
	combined := flag.String("combined", "", "Write all grids into a single workbook at this path instead")
	batch := flag.Bool("batch", false, "Process every supported image in the input directory")
	debug := flag.Bool("debug", false, "Dump intermediate images into the debug directory")
	debugDir := flag.String("debug-dir", "debug", "Directory for -debug dumps")
	workers := flag.Int("workers", 4, "Concurrent cell classifications per image")
	timeout := flag.Duration("timeout", 60*time.Second, "Per-image processing timeout")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	if *input == "" {
		fmt.Println("Usage: sudoku-extractor -input <image|dir> [-batch] [-o outdir] [-combined grids.xlsx] [-workers 4] [-timeout 60s] [-debug]")
		os.Exit(1)
	}

	paths, err := collectInputs(*input, *batch)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot read input")
	}
	if len(paths) == 0 {
		log.Fatal().Str("input", *input).Msg("no supported images found")
	}

	engine, err := ocr.NewEngine()
	if err != nil {
		log.Fatal().Err(err).Msg("cannot start OCR engine")
	}
	defer engine.Close()

	cfg := pipeline.DefaultConfig().
		WithWorkers(*workers).
		WithTimeout(*timeout)
	if *debug {
		cfg = cfg.WithDebug(*debugDir)
	}
	proc := pipeline.New(engine, cfg)

	var results []*pipeline.Result
	var failed int
	for _, path := range paths {
		res, err := proc.Process(context.Background(), path)
		if err != nil {
			log.Error().Err(err).Str("image", path).Msg("extraction failed")
			failed++
			continue
		}
		fmt.Printf("%s (ambiguous: %d)\n%s\n", path, res.Grid.AmbiguousCount(), res.Grid)
		results = append(results, res)
	}

	if len(results) > 0 {
		if *combined != "" {
			if err := export.WriteWorkbook(*combined, results); err != nil {
				log.Fatal().Err(err).Str("output", *combined).Msg("cannot write workbook")
			}
			log.Info().Str("output", *combined).Int("grids", len(results)).Msg("combined workbook written")
		} else {
			for _, res := range results {
				out := workbookPath(*output, res.Source)
				if err := export.Write(out, res); err != nil {
					log.Error().Err(err).Str("output", out).Msg("cannot write workbook")
					failed++
					continue
				}
				log.Info().Str("output", out).Msg("workbook written")
			}
		}
	}

	log.Info().
		Int("processed", len(results)).
		Int("failed", failed).
		Msg("done")
	if len(results) == 0 {
		os.Exit(1)
	}
}

// workbookPath names the per-image output workbook after the source stem.
func workbookPath(outDir, source string) string {
	stem := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return filepath.Join(outDir, stem+"_sudoku.xlsx")
}

// collectInputs resolves the input flag into the list of images to process,
// sorted for a stable batch order.
func collectInputs(input string, batch bool) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return []string{input}, nil
	}
	if !batch {
		return nil, fmt.Errorf("%s is a directory, use -batch to process it", input)
	}

	entries, err := os.ReadDir(input)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			paths = append(paths, filepath.Join(input, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

var _ classify.Recognizer = (*ocr.Engine)(nil)
