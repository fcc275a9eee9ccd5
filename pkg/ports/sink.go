package ports

import (
	"image"
)

// DebugSink abstracts debug output for intermediate results.
// It allows saving frames and metadata produced along the render path.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveStreamInfoJSON saves the probed stream metadata as JSON.
	SaveStreamInfoJSON(data []byte) error

	// SaveSourceFrame saves a decoded source frame for one side.
	SaveSourceFrame(side string, index int, img image.Image) error

	// SaveCompositeFrame saves a composited output frame.
	SaveCompositeFrame(masterIndex int, img image.Image) error
}
