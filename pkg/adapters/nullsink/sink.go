// Package nullsink provides a debug sink that discards all output.
package nullsink

import (
	"image"

	"github.com/user/vidcomp/pkg/ports"
)

// Sink discards all debug output.
type Sink struct{}

// New creates a new null Sink.
func New() *Sink {
	return &Sink{}
}

// Enabled returns false; callers can skip preparing debug artifacts.
func (s *Sink) Enabled() bool {
	return false
}

// SaveStreamInfoJSON does nothing.
func (s *Sink) SaveStreamInfoJSON(data []byte) error {
	return nil
}

// SaveSourceFrame does nothing.
func (s *Sink) SaveSourceFrame(side string, index int, img image.Image) error {
	return nil
}

// SaveCompositeFrame does nothing.
func (s *Sink) SaveCompositeFrame(masterIndex int, img image.Image) error {
	return nil
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
