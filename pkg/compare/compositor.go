package compare

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/user/vidcomp/pkg/ports"
)

// Theme defines the colors used for frame decoration.
type Theme struct {
	SeparatorColor color.Color
	LabelColor     color.Color
	ShadowColor    color.Color
	Background     color.Color
}

// DefaultTheme returns the default decoration colors.
func DefaultTheme() Theme {
	return Theme{
		SeparatorColor: color.RGBA{R: 0, G: 255, B: 0, A: 255},
		LabelColor:     color.White,
		ShadowColor:    color.Black,
		Background:     color.Black,
	}
}

// Options configures a Compositor.
type Options struct {
	// TargetWidth/TargetHeight force the canvas size. Zero means the
	// per-axis maximum of the two input frames.
	TargetWidth  int
	TargetHeight int

	// ShowLabels draws LabelA/LabelB in the top corners.
	ShowLabels bool
	LabelA     string
	LabelB     string

	Theme Theme
}

// Compositor blends two source frames into one output frame under the
// active comparison mode.
type Compositor struct {
	renderer ports.Renderer
	opts     Options
}

// NewCompositor creates a Compositor using the given renderer for
// resampling and decoration.
func NewCompositor(renderer ports.Renderer, opts Options) *Compositor {
	if opts.Theme == (Theme{}) {
		opts.Theme = DefaultTheme()
	}
	return &Compositor{renderer: renderer, opts: opts}
}

// SetLabels derives the corner labels from the opened stream pair.
// No-op when labels are disabled.
func (c *Compositor) SetLabels(a, b *ports.VideoStream) {
	if !c.opts.ShowLabels {
		return
	}
	if a != nil {
		c.opts.LabelA = a.Name
	}
	if b != nil {
		c.opts.LabelB = b.Name
	}
}

// Compose blends frameA and frameB according to mode and params.
// Inputs with differing dimensions are resampled to a shared canvas size
// first. Absent inputs fail with ports.ErrDecode; Compose never panics on
// bad input.
func (c *Compositor) Compose(frameA, frameB image.Image, mode Mode, params Params) (image.Image, error) {
	if frameA == nil || frameB == nil {
		return nil, fmt.Errorf("compose: missing input frame: %w", ports.ErrDecode)
	}

	width, height := c.canvasSize(frameA, frameB)
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("compose: empty input frame: %w", ports.ErrDecode)
	}

	a := c.toCanvasRGBA(frameA, width, height)
	b := c.toCanvasRGBA(frameB, width, height)

	var out *image.RGBA
	splitX := 0
	switch mode {
	case ModeSideBySide:
		splitX = int(math.Round(clamp01(params.Split) * float64(width)))
		out = blendSplit(a, b, splitX)
	case ModeOverlay:
		out = blendOverlay(a, b, clamp01(params.Opacity))
	case ModeDifference:
		out = blendDifference(a, b)
	case ModeToggle:
		if params.ShowA {
			out = a
		} else {
			out = b
		}
	default:
		return nil, fmt.Errorf("compose: unknown mode %d", mode)
	}

	needsSeparator := mode == ModeSideBySide
	if !needsSeparator && !c.opts.ShowLabels {
		return out, nil
	}

	// Decoration pass through the renderer canvas.
	canvas := c.renderer.CreateCanvas(width, height, c.opts.Theme.Background)
	canvas.DrawImage(out, 0, 0)
	if needsSeparator {
		canvas.DrawLine(splitX, 0, splitX, height, c.opts.Theme.SeparatorColor, 2)
	}
	if c.opts.ShowLabels {
		c.drawLabels(canvas, width)
	}
	return canvas.ToImage(), nil
}

// canvasSize returns the shared canvas dimensions for a frame pair.
func (c *Compositor) canvasSize(frameA, frameB image.Image) (int, int) {
	width := c.opts.TargetWidth
	height := c.opts.TargetHeight
	if width <= 0 {
		width = frameA.Bounds().Dx()
		if w := frameB.Bounds().Dx(); w > width {
			width = w
		}
	}
	if height <= 0 {
		height = frameA.Bounds().Dy()
		if h := frameB.Bounds().Dy(); h > height {
			height = h
		}
	}
	return width, height
}

// toCanvasRGBA resamples img to the canvas size if needed and normalizes
// it to an RGBA image with bounds starting at (0,0). The stride check
// rules out sub-images, whose rows are padded; the blend loops index Pix
// flat and require stride == width*4.
func (c *Compositor) toCanvasRGBA(img image.Image, width, height int) *image.RGBA {
	bounds := img.Bounds()
	if bounds.Dx() != width || bounds.Dy() != height {
		img = c.renderer.ResizeImage(img, width, height)
		bounds = img.Bounds()
	}
	if rgba, ok := img.(*image.RGBA); ok && bounds.Min == (image.Point{}) && rgba.Stride == width*4 {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return dst
}

func (c *Compositor) drawLabels(canvas ports.Canvas, width int) {
	shadow := ports.TextStyle{FontSize: 14, Color: c.opts.Theme.ShadowColor, Align: ports.AlignLeft}
	style := ports.TextStyle{FontSize: 14, Color: c.opts.Theme.LabelColor, Align: ports.AlignLeft}

	if c.opts.LabelA != "" {
		canvas.DrawText(c.opts.LabelA, 11, 21, shadow)
		canvas.DrawText(c.opts.LabelA, 10, 20, style)
	}
	if c.opts.LabelB != "" {
		right := ports.TextStyle{FontSize: 14, Color: c.opts.Theme.LabelColor, Align: ports.AlignRight}
		rightShadow := ports.TextStyle{FontSize: 14, Color: c.opts.Theme.ShadowColor, Align: ports.AlignRight}
		canvas.DrawText(c.opts.LabelB, width-9, 21, rightShadow)
		canvas.DrawText(c.opts.LabelB, width-10, 20, right)
	}
}

// blendSplit takes columns [0, splitX) from a and [splitX, width) from b.
func blendSplit(a, b *image.RGBA, splitX int) *image.RGBA {
	bounds := a.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if splitX < 0 {
		splitX = 0
	}
	if splitX > width {
		splitX = width
	}
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		row := y * out.Stride
		split := row + splitX*4
		copy(out.Pix[row:split], a.Pix[y*a.Stride:y*a.Stride+splitX*4])
		copy(out.Pix[split:row+width*4], b.Pix[y*b.Stride+splitX*4:y*b.Stride+width*4])
	}
	return out
}

// blendOverlay computes out = a*(1-opacity) + b*opacity per channel.
// opacity 0 reproduces a exactly and opacity 1 reproduces b exactly.
func blendOverlay(a, b *image.RGBA, opacity float64) *image.RGBA {
	bounds := a.Bounds()
	out := image.NewRGBA(bounds)
	k := uint32(math.Round(opacity * 256))
	for i := range out.Pix {
		av := uint32(a.Pix[i])
		bv := uint32(b.Pix[i])
		out.Pix[i] = uint8((av*(256-k) + bv*k + 128) >> 8)
	}
	opaque(out)
	return out
}

// blendDifference computes the per-channel absolute difference.
// Commutative, and all-zero exactly when a == b pixel for pixel.
func blendDifference(a, b *image.RGBA) *image.RGBA {
	bounds := a.Bounds()
	out := image.NewRGBA(bounds)
	for i := range out.Pix {
		av, bv := a.Pix[i], b.Pix[i]
		if av >= bv {
			out.Pix[i] = av - bv
		} else {
			out.Pix[i] = bv - av
		}
	}
	opaque(out)
	return out
}

// opaque forces full alpha; video frames carry no transparency.
func opaque(img *image.RGBA) {
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xFF
	}
}
