package ffmpegsource

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"github.com/user/vidcomp/pkg/ports"
)

// probeOutput mirrors the relevant parts of ffprobe's JSON output.
type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

type probeStream struct {
	CodecType    string `json:"codec_type"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	AvgFrameRate string `json:"avg_frame_rate"`
	RFrameRate   string `json:"r_frame_rate"`
	NbFrames     string `json:"nb_frames"`
	Duration     string `json:"duration"`
}

type probeFormat struct {
	Duration string `json:"duration"`
}

// probeFile runs ffprobe against path and extracts the first video
// stream's metadata.
func probeFile(ffprobePath, path string) (width, height, frameCount int, frameRate float64, err error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.Command(ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-show_format",
		path,
	)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return 0, 0, 0, 0, fmt.Errorf("%w: ffprobe %s: %v", ports.ErrOpen, path, err)
	}

	var out probeOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		return 0, 0, 0, 0, fmt.Errorf("%w: parse ffprobe output: %v", ports.ErrOpen, err)
	}

	stream, err := firstVideoStream(out)
	if err != nil {
		return 0, 0, 0, 0, err
	}

	frameRate = parseFrameRate(stream.AvgFrameRate)
	if frameRate <= 0 {
		frameRate = parseFrameRate(stream.RFrameRate)
	}

	frameCount = parseFrameCount(stream, out.Format, frameRate)
	return stream.Width, stream.Height, frameCount, frameRate, nil
}

func firstVideoStream(out probeOutput) (probeStream, error) {
	for _, s := range out.Streams {
		if s.CodecType == "video" {
			if s.Width <= 0 || s.Height <= 0 {
				return probeStream{}, fmt.Errorf("%w: video stream has no dimensions", ports.ErrOpen)
			}
			return s, nil
		}
	}
	return probeStream{}, fmt.Errorf("%w: no video stream found", ports.ErrOpen)
}

// parseFrameRate parses an ffprobe rate string, either rational ("30/1")
// or decimal ("29.97"). Unparseable input falls back to 30 fps.
func parseFrameRate(rate string) float64 {
	if rate == "" {
		return 30.0
	}
	if num, den, ok := strings.Cut(rate, "/"); ok {
		n, errN := strconv.ParseFloat(num, 64)
		d, errD := strconv.ParseFloat(den, 64)
		if errN != nil || errD != nil || d == 0 {
			return 30.0
		}
		return n / d
	}
	f, err := strconv.ParseFloat(rate, 64)
	if err != nil || f <= 0 {
		return 30.0
	}
	return f
}

// parseFrameCount prefers the container's frame count and falls back to
// duration times rate. Zero means the duration is unknown.
func parseFrameCount(stream probeStream, format probeFormat, frameRate float64) int {
	if n, err := strconv.Atoi(stream.NbFrames); err == nil && n > 0 {
		return n
	}
	duration := stream.Duration
	if duration == "" {
		duration = format.Duration
	}
	d, err := strconv.ParseFloat(duration, 64)
	if err != nil || d <= 0 {
		return 0
	}
	return int(math.Round(d * frameRate))
}
