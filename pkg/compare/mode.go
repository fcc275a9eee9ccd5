// Package compare implements the frame comparison core: offset
// resolution, compositing modes and the playback state machine.
package compare

// Mode identifies a comparison mode.
type Mode int

const (
	// ModeSideBySide splits the canvas vertically; left columns come
	// from stream A, right columns from stream B.
	ModeSideBySide Mode = iota
	// ModeOverlay blends A and B with a configurable opacity.
	ModeOverlay
	// ModeDifference shows the per-channel absolute difference.
	ModeDifference
	// ModeToggle shows either A or B, selected by a flag.
	ModeToggle
)

// String returns the mode name as used in config and the control protocol.
func (m Mode) String() string {
	switch m {
	case ModeSideBySide:
		return "side-by-side"
	case ModeOverlay:
		return "overlay"
	case ModeDifference:
		return "difference"
	case ModeToggle:
		return "toggle"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode name. Unknown names fall back to side-by-side.
func ParseMode(s string) Mode {
	switch s {
	case "overlay":
		return ModeOverlay
	case "difference", "diff":
		return ModeDifference
	case "toggle":
		return ModeToggle
	default:
		return ModeSideBySide
	}
}

// Params carries the mode-specific blend parameters. Only the field for
// the active mode matters; the others hold their last values so switching
// modes back and forth keeps the previous adjustment.
type Params struct {
	// Split is the side-by-side split position as a fraction of the
	// canvas width, in [0, 1].
	Split float64
	// Opacity is the overlay weight for stream B, in [0, 1].
	Opacity float64
	// ShowA selects stream A in toggle mode.
	ShowA bool
}

// DefaultParams returns the initial blend parameters.
func DefaultParams() Params {
	return Params{
		Split:   0.5,
		Opacity: 0.5,
		ShowA:   true,
	}
}

// clamp01 clamps v into [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
