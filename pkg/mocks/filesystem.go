package mocks

import (
	"fmt"
	"sync"

	"github.com/user/vidcomp/pkg/ports"
)

// FileSystem is a mock implementation of ports.FileSystem. By default
// it stores files in memory.
type FileSystem struct {
	ReadFileFunc  func(path string) ([]byte, error)
	WriteFileFunc func(path string, data []byte) error
	MkdirAllFunc  func(path string) error

	mu    sync.Mutex
	files map[string][]byte
}

func (m *FileSystem) ReadFile(path string) ([]byte, error) {
	if m.ReadFileFunc != nil {
		return m.ReadFileFunc(path)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	return data, nil
}

func (m *FileSystem) WriteFile(path string, data []byte) error {
	if m.WriteFileFunc != nil {
		return m.WriteFileFunc(path, data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.files == nil {
		m.files = make(map[string][]byte)
	}
	m.files[path] = append([]byte(nil), data...)
	return nil
}

func (m *FileSystem) MkdirAll(path string) error {
	if m.MkdirAllFunc != nil {
		return m.MkdirAllFunc(path)
	}
	return nil
}

// Written returns the stored contents for path, or false when the
// default in-memory store has no such file.
func (m *FileSystem) Written(path string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	return data, ok
}

var _ ports.FileSystem = (*FileSystem)(nil)
