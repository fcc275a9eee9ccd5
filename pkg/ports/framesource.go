// Package ports defines interfaces for external dependencies.
package ports

import (
	"context"
	"errors"
	"image"
)

var (
	// ErrOpen is returned when a video stream cannot be opened.
	// Fatal to that stream; the application refuses to start comparison.
	ErrOpen = errors.New("framesource: cannot open stream")

	// ErrDecode is returned when a single frame fetch fails.
	// Recovered locally by freezing on the last good composite.
	ErrDecode = errors.New("framesource: decode failed")

	// ErrFFmpegNotFound is returned when no usable ffmpeg installation
	// can be located.
	ErrFFmpegNotFound = errors.New("framesource: ffmpeg not found")
)

// VideoStream describes an opened video file. Immutable once opened.
type VideoStream struct {
	ID         string
	Path       string
	Name       string // base filename, used for on-frame labels
	FrameCount int
	Width      int
	Height     int
	FrameRate  float64
}

// FrameSource provides random access to decoded video frames.
// Implementations may be slow and may fail per frame; callers bound
// fetches with the context.
type FrameSource interface {
	// Open probes a video file and returns its stream description.
	Open(path string) (*VideoStream, error)

	// GetFrame decodes the frame at the given index. The index must be
	// within [0, FrameCount-1]; out-of-range fetches fail with ErrDecode.
	GetFrame(ctx context.Context, stream *VideoStream, index int) (image.Image, error)

	// Close releases resources held for the stream.
	Close(stream *VideoStream)
}
