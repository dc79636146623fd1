// Package ocr provides the digit recognition collaborator backed by
// Tesseract. The pipeline consumes it as a black box: image in, label and
// confidence out.
package ocr

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// DigitChars is the character set for sudoku digit recognition. Zero is
// excluded: a printed puzzle never contains one and allowing it only feeds
// 0/8 confusion.
const DigitChars = "123456789"

// Engine recognizes single digits using Tesseract.
//
// A gosseract client is not safe for concurrent use, so Engine serializes
// calls internally; the classification worker pool can share one Engine.
type Engine struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// NewEngine creates a digit recognition engine.
func NewEngine() (*Engine, error) {
	client := gosseract.NewClient()

	if err := client.SetLanguage("eng"); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}

	// Single isolated glyph per image.
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_CHAR); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}

	if err := client.SetWhitelist(DigitChars); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set digit whitelist: %w", err)
	}

	// Dictionary-based correction only hurts isolated digits.
	_ = client.SetVariable("load_system_dawg", "false")
	_ = client.SetVariable("load_freq_dawg", "false")
	_ = client.SetVariable("classify_bln_numeric_mode", "1")

	return &Engine{client: client}, nil
}

// Close releases OCR resources.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client != nil {
		err := e.client.Close()
		e.client = nil
		return err
	}
	return nil
}

// Recognize runs Tesseract on a PNG-encoded cell image and returns the best
// single-character label with its confidence normalized to [0,1]. No
// confident detection returns an empty label with nil error.
func (e *Engine) Recognize(ctx context.Context, png []byte) (string, float64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.client == nil {
		return "", 0, fmt.Errorf("engine is closed")
	}

	if err := e.client.SetImageFromBytes(png); err != nil {
		return "", 0, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := e.client.GetBoundingBoxes(gosseract.RIL_SYMBOL)
	if err != nil {
		return "", 0, fmt.Errorf("OCR failed: %w", err)
	}

	var bestLabel string
	var bestConfidence float64
	for _, box := range boxes {
		label := strings.TrimSpace(box.Word)
		if label == "" {
			continue
		}
		if box.Confidence > bestConfidence {
			bestLabel = label
			bestConfidence = box.Confidence
		}
	}

	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	// Tesseract reports confidence 0-100.
	return bestLabel, bestConfidence / 100, nil
}
