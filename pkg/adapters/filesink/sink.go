// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/user/vidcomp/pkg/ports"
)

// Sink saves debug output to files.
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer
}

// New creates a new Sink writing under baseDir.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveStreamInfoJSON saves the probed stream metadata as JSON.
func (s *Sink) SaveStreamInfoJSON(data []byte) error {
	path := filepath.Join(s.baseDir, "streams.json")
	return s.fs.WriteFile(path, data)
}

// SaveSourceFrame saves a decoded source frame for one side ("a" or "b").
func (s *Sink) SaveSourceFrame(side string, index int, img image.Image) error {
	dir := filepath.Join(s.baseDir, "frames", side)
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	data, err := s.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode source frame: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("frame-%05d.png", index))
	return s.fs.WriteFile(path, data)
}

// SaveCompositeFrame saves a composited output frame.
func (s *Sink) SaveCompositeFrame(masterIndex int, img image.Image) error {
	dir := filepath.Join(s.baseDir, "frames", "composite")
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	data, err := s.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode composite frame: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("frame-%05d.png", masterIndex))
	return s.fs.WriteFile(path, data)
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
