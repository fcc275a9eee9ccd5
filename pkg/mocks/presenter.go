package mocks

import (
	"sync"

	"github.com/user/vidcomp/pkg/ports"
)

// Presenter is a mock implementation of ports.Presenter. It records
// every displayed frame and notice; recording is safe for concurrent
// use because Display is called from the render loop goroutine.
type Presenter struct {
	DisplayFunc func(frame ports.CompositeFrame)
	NotifyFunc  func(message string)

	mu      sync.Mutex
	frames  []ports.CompositeFrame
	notices []string
}

func (m *Presenter) Display(frame ports.CompositeFrame) {
	m.mu.Lock()
	m.frames = append(m.frames, frame)
	m.mu.Unlock()
	if m.DisplayFunc != nil {
		m.DisplayFunc(frame)
	}
}

func (m *Presenter) Notify(message string) {
	m.mu.Lock()
	m.notices = append(m.notices, message)
	m.mu.Unlock()
	if m.NotifyFunc != nil {
		m.NotifyFunc(message)
	}
}

// Frames returns a copy of all displayed frames so far.
func (m *Presenter) Frames() []ports.CompositeFrame {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ports.CompositeFrame, len(m.frames))
	copy(out, m.frames)
	return out
}

// LastFrame returns the most recently displayed frame, or false when
// nothing has been displayed yet.
func (m *Presenter) LastFrame() (ports.CompositeFrame, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.frames) == 0 {
		return ports.CompositeFrame{}, false
	}
	return m.frames[len(m.frames)-1], true
}

// Notices returns a copy of all notices so far.
func (m *Presenter) Notices() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.notices))
	copy(out, m.notices)
	return out
}

var _ ports.Presenter = (*Presenter)(nil)
