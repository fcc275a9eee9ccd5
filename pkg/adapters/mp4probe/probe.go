// Package mp4probe extracts video stream metadata directly from MP4
// container boxes. It serves as a probe fallback when ffprobe is not
// installed; frame decoding still requires ffmpeg.
package mp4probe

import (
	"fmt"
	"io"
	"os"

	"github.com/Eyevinn/mp4ff/mp4"
)

// Info describes the first video track of an MP4 file.
type Info struct {
	Width      int
	Height     int
	FrameCount int
	FrameRate  float64
}

// ProbeFile reads stream metadata from the MP4 file at path.
func ProbeFile(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return ProbeReader(f)
}

// ProbeReader reads stream metadata from an io.ReadSeeker positioned at
// the start of an MP4 file.
func ProbeReader(reader io.ReadSeeker) (Info, error) {
	mp4File, err := mp4.DecodeFile(reader)
	if err != nil {
		return Info{}, fmt.Errorf("decode mp4: %w", err)
	}

	moov := mp4File.Moov
	if moov == nil && mp4File.Init != nil {
		moov = mp4File.Init.Moov
	}
	if moov == nil {
		return Info{}, fmt.Errorf("no moov box found")
	}

	for _, trak := range moov.Traks {
		info, ok := videoTrackInfo(trak)
		if ok {
			return info, nil
		}
	}

	return Info{}, fmt.Errorf("no video track found")
}

func videoTrackInfo(trak *mp4.TrakBox) (Info, bool) {
	if trak.Mdia == nil || trak.Mdia.Hdlr == nil || trak.Mdia.Hdlr.HandlerType != "vide" {
		return Info{}, false
	}
	if trak.Tkhd == nil || trak.Mdia.Mdhd == nil {
		return Info{}, false
	}

	info := Info{
		// Track header dimensions are 16.16 fixed point.
		Width:  int(trak.Tkhd.Width >> 16),
		Height: int(trak.Tkhd.Height >> 16),
	}

	if stbl := sampleTable(trak); stbl != nil && stbl.Stsz != nil {
		info.FrameCount = int(stbl.Stsz.SampleNumber)
	}

	mdhd := trak.Mdia.Mdhd
	if mdhd.Duration > 0 && mdhd.Timescale > 0 && info.FrameCount > 0 {
		seconds := float64(mdhd.Duration) / float64(mdhd.Timescale)
		info.FrameRate = float64(info.FrameCount) / seconds
	}

	if info.Width <= 0 || info.Height <= 0 {
		return Info{}, false
	}
	return info, true
}

func sampleTable(trak *mp4.TrakBox) *mp4.StblBox {
	if trak.Mdia.Minf == nil {
		return nil
	}
	return trak.Mdia.Minf.Stbl
}
