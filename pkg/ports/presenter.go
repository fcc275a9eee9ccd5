package ports

import (
	"errors"
	"image"
)

// ErrExport is returned when a snapshot cannot be written. Reported to
// the user; playback state is unaffected.
var ErrExport = errors.New("presenter: snapshot export failed")

// CompositeFrame is one blended output frame plus the pair of source
// indices used to build it. The indices are kept for snapshot provenance
// and for re-rendering on mode change without re-decoding.
type CompositeFrame struct {
	Image  image.Image
	IndexA int
	IndexB int
}

// Presenter receives composited frames and transient notices.
type Presenter interface {
	// Display shows a composited frame. Called from the render loop;
	// implementations must not block it for long.
	Display(frame CompositeFrame)

	// Notify surfaces a non-fatal notice to the user, e.g. a skipped
	// frame after a decode failure.
	Notify(message string)
}
