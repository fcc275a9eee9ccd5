// Package ffmpegsource provides a frame source backed by an external
// ffmpeg/ffprobe installation. Frames are fetched one at a time by
// seeking with -ss and decoding a single PNG over a pipe.
package ffmpegsource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/user/vidcomp/pkg/adapters/mp4probe"
	"github.com/user/vidcomp/pkg/ports"
)

// Options configures the frame source.
type Options struct {
	// FFmpegPath and FFprobePath override executable discovery.
	FFmpegPath  string
	FFprobePath string
}

// Source implements ports.FrameSource using ffmpeg.
type Source struct {
	opts     Options
	renderer ports.Renderer
	logger   ports.Logger

	mu          sync.Mutex
	ffmpegPath  string
	ffprobePath string
	nextID      int
}

// New creates a frame source. Executables are located lazily on first use.
func New(renderer ports.Renderer, logger ports.Logger, opts Options) *Source {
	return &Source{
		opts:     opts,
		renderer: renderer,
		logger:   logger.WithComponent("ffmpeg"),
	}
}

// Open probes a video file and returns its stream description. When
// ffprobe is unavailable, MP4 files fall back to container-level probing.
func (s *Source) Open(path string) (*ports.VideoStream, error) {
	ffprobePath, probeErr := s.ffprobe()

	var width, height, frameCount int
	var frameRate float64
	var err error

	if probeErr == nil {
		width, height, frameCount, frameRate, err = probeFile(ffprobePath, path)
		if err != nil {
			return nil, err
		}
	} else {
		if !isMP4(path) {
			return nil, fmt.Errorf("%w: %v", ports.ErrOpen, probeErr)
		}
		s.logger.Warn("ffprobe not found, probing MP4 container directly")
		info, mp4Err := mp4probe.ProbeFile(path)
		if mp4Err != nil {
			return nil, fmt.Errorf("%w: %v", ports.ErrOpen, mp4Err)
		}
		width, height, frameCount, frameRate = info.Width, info.Height, info.FrameCount, info.FrameRate
		if frameRate <= 0 {
			frameRate = 30.0
		}
	}

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.mu.Unlock()

	stream := &ports.VideoStream{
		ID:         strconv.Itoa(id),
		Path:       path,
		Name:       filepath.Base(path),
		FrameCount: frameCount,
		Width:      width,
		Height:     height,
		FrameRate:  frameRate,
	}

	s.logger.Debug("Opened %s: %dx%d, %d frames at %.3f fps",
		stream.Name, width, height, frameCount, frameRate)
	return stream, nil
}

// GetFrame decodes the frame at index by seeking to index/rate and
// reading a single PNG from ffmpeg's stdout. The context bounds the
// fetch; cancellation kills the ffmpeg process.
func (s *Source) GetFrame(ctx context.Context, stream *ports.VideoStream, index int) (image.Image, error) {
	ffmpegPath, err := s.ffmpeg()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrDecode, err)
	}

	if index < 0 || (stream.FrameCount > 0 && index >= stream.FrameCount) {
		return nil, fmt.Errorf("%w: frame %d out of range [0, %d)", ports.ErrDecode, index, stream.FrameCount)
	}

	rate := stream.FrameRate
	if rate <= 0 {
		rate = 30.0
	}
	timeOffset := float64(index) / rate

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, ffmpegPath,
		"-ss", strconv.FormatFloat(timeOffset, 'f', 6, 64),
		"-i", stream.Path,
		"-frames:v", "1",
		"-f", "image2",
		"-vcodec", "png",
		"pipe:1",
	)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: frame %d: %v", ports.ErrDecode, index, ctxErr)
		}
		return nil, fmt.Errorf("%w: frame %d: %v", ports.ErrDecode, index, err)
	}

	img, err := s.renderer.DecodeImage(stdout.Bytes(), ports.FormatPNG)
	if err != nil {
		return nil, fmt.Errorf("%w: frame %d: %v", ports.ErrDecode, index, err)
	}
	return img, nil
}

// Close releases resources for the stream. The ffmpeg source holds no
// per-stream state; each fetch is an independent process.
func (s *Source) Close(stream *ports.VideoStream) {}

func (s *Source) ffmpeg() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ffmpegPath != "" {
		return s.ffmpegPath, nil
	}
	path, err := findExecutable("ffmpeg", s.opts.FFmpegPath)
	if err != nil {
		return "", err
	}
	s.ffmpegPath = path
	return path, nil
}

func (s *Source) ffprobe() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ffprobePath != "" {
		return s.ffprobePath, nil
	}
	path, err := findExecutable("ffprobe", s.opts.FFprobePath)
	if err != nil {
		return "", err
	}
	s.ffprobePath = path
	return path, nil
}

func isMP4(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4", ".m4v", ".mov":
		return true
	}
	return false
}

var _ ports.FrameSource = (*Source)(nil)

// CheckInstalled verifies ffmpeg is runnable and returns a descriptive
// error otherwise. Called once at startup.
func CheckInstalled(opts Options) error {
	path, err := findExecutable("ffmpeg", opts.FFmpegPath)
	if err != nil {
		return err
	}
	if err := exec.Command(path, "-version").Run(); err != nil {
		return errors.Join(ports.ErrFFmpegNotFound, err)
	}
	return nil
}
