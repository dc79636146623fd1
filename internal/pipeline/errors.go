package pipeline

import "fmt"

// UnreadableImageError reports an image that could not be decoded or is too
// small to resolve grid lines. Non-recoverable for that image.
type UnreadableImageError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *UnreadableImageError) Error() string {
	return fmt.Sprintf("unreadable image %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *UnreadableImageError) Unwrap() error { return e.Err }

// GridNotFoundError reports that no quadrilateral qualified as a puzzle
// boundary, typically a bad photo. Non-recoverable for that image.
type GridNotFoundError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *GridNotFoundError) Error() string {
	return fmt.Sprintf("no grid found in %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *GridNotFoundError) Unwrap() error { return e.Err }

// RectificationError reports degenerate boundary geometry that admits no
// projective transform. Non-recoverable for that image.
type RectificationError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *RectificationError) Error() string {
	return fmt.Sprintf("cannot rectify %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *RectificationError) Unwrap() error { return e.Err }
