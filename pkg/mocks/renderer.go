package mocks

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/user/vidcomp/pkg/ports"
)

// Renderer is a mock implementation of ports.Renderer. The default
// behaviors are real enough for compositor tests: CreateCanvas returns
// a pixel-accurate RGBA canvas and ResizeImage does nearest-neighbor
// sampling.
type Renderer struct {
	CreateCanvasFunc func(width, height int, bg color.Color) ports.Canvas
	DecodeImageFunc  func(data []byte, format ports.ImageFormat) (image.Image, error)
	EncodeImageFunc  func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error)
	ResizeImageFunc  func(img image.Image, width, height int) image.Image
}

func (m *Renderer) CreateCanvas(width, height int, bg color.Color) ports.Canvas {
	if m.CreateCanvasFunc != nil {
		return m.CreateCanvasFunc(width, height, bg)
	}
	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(rgba, rgba.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	return &Canvas{img: rgba}
}

func (m *Renderer) DecodeImage(data []byte, format ports.ImageFormat) (image.Image, error) {
	if m.DecodeImageFunc != nil {
		return m.DecodeImageFunc(data, format)
	}
	return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
}

func (m *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	if m.EncodeImageFunc != nil {
		return m.EncodeImageFunc(img, format, quality)
	}
	return []byte("mock-image-data"), nil
}

func (m *Renderer) ResizeImage(img image.Image, width, height int) image.Image {
	if m.ResizeImageFunc != nil {
		return m.ResizeImageFunc(img, width, height)
	}
	src := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		sy := src.Min.Y + y*src.Dy()/height
		for x := 0; x < width; x++ {
			sx := src.Min.X + x*src.Dx()/width
			dst.Set(x, y, img.At(sx, sy))
		}
	}
	return dst
}

var _ ports.Renderer = (*Renderer)(nil)

// Canvas is a mock implementation of ports.Canvas backed by an RGBA
// image. Image and rect drawing are pixel-accurate; text drawing only
// records calls.
type Canvas struct {
	img       *image.RGBA
	TextCalls []TextCall
	LineCalls []LineCall
}

// TextCall records one DrawText invocation.
type TextCall struct {
	Text  string
	X, Y  int
	Style ports.TextStyle
}

// LineCall records one DrawLine invocation.
type LineCall struct {
	X1, Y1, X2, Y2 int
	Color          color.Color
	Width          float64
}

func (c *Canvas) DrawImage(img image.Image, x, y int) {
	b := img.Bounds()
	r := image.Rect(x, y, x+b.Dx(), y+b.Dy())
	draw.Draw(c.img, r, img, b.Min, draw.Over)
}

func (c *Canvas) DrawRect(x, y, w, h int, col color.Color) {
	draw.Draw(c.img, image.Rect(x, y, x+w, y+h), image.NewUniform(col), image.Point{}, draw.Src)
}

func (c *Canvas) DrawLine(x1, y1, x2, y2 int, col color.Color, width float64) {
	c.LineCalls = append(c.LineCalls, LineCall{x1, y1, x2, y2, col, width})
	// Vertical and horizontal lines are drawn for real so separator
	// placement can be asserted on pixels.
	w := int(width)
	if w < 1 {
		w = 1
	}
	if x1 == x2 {
		c.DrawRect(x1-w/2, y1, w, y2-y1+1, col)
	} else if y1 == y2 {
		c.DrawRect(x1, y1-w/2, x2-x1+1, w, col)
	}
}

func (c *Canvas) DrawText(text string, x, y int, style ports.TextStyle) {
	c.TextCalls = append(c.TextCalls, TextCall{Text: text, X: x, Y: y, Style: style})
}

func (c *Canvas) MeasureText(text string, style ports.TextStyle) (float64, float64) {
	return float64(len(text)) * style.FontSize * 0.6, style.FontSize
}

func (c *Canvas) ToImage() image.Image {
	return c.img
}

var _ ports.Canvas = (*Canvas)(nil)
