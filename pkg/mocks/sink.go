package mocks

import (
	"fmt"
	"image"
	"sync"

	"github.com/user/vidcomp/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	StreamInfoJSON  []byte
	SourceFrames    map[string]image.Image
	CompositeFrames map[int]image.Image
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled:         enabled,
		SourceFrames:    make(map[string]image.Image),
		CompositeFrames: make(map[int]image.Image),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveStreamInfoJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StreamInfoJSON = data
	return nil
}

func (m *DebugSink) SaveSourceFrame(side string, index int, img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourceFrames[sourceKey(side, index)] = img
	return nil
}

func (m *DebugSink) SaveCompositeFrame(masterIndex int, img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CompositeFrames[masterIndex] = img
	return nil
}

func sourceKey(side string, index int) string {
	return fmt.Sprintf("%s-%d", side, index)
}

var _ ports.DebugSink = (*DebugSink)(nil)
