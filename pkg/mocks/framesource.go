// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"
	"image"

	"github.com/user/vidcomp/pkg/ports"
)

// FrameSource is a mock implementation of ports.FrameSource.
type FrameSource struct {
	OpenFunc     func(path string) (*ports.VideoStream, error)
	GetFrameFunc func(ctx context.Context, stream *ports.VideoStream, index int) (image.Image, error)
	CloseFunc    func(stream *ports.VideoStream)
}

func (m *FrameSource) Open(path string) (*ports.VideoStream, error) {
	if m.OpenFunc != nil {
		return m.OpenFunc(path)
	}
	return &ports.VideoStream{ID: "mock", Path: path, Name: path, FrameCount: 1, Width: 2, Height: 2, FrameRate: 30}, nil
}

func (m *FrameSource) GetFrame(ctx context.Context, stream *ports.VideoStream, index int) (image.Image, error) {
	if m.GetFrameFunc != nil {
		return m.GetFrameFunc(ctx, stream, index)
	}
	return image.NewRGBA(image.Rect(0, 0, stream.Width, stream.Height)), nil
}

func (m *FrameSource) Close(stream *ports.VideoStream) {
	if m.CloseFunc != nil {
		m.CloseFunc(stream)
	}
}

var _ ports.FrameSource = (*FrameSource)(nil)
