package compare

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/user/vidcomp/pkg/mocks"
	"github.com/user/vidcomp/pkg/ports"
)

func solidFrame(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func pixelAt(t *testing.T, img image.Image, x, y int) color.RGBA {
	t.Helper()
	r, g, b, a := img.At(x, y).RGBA()
	return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}

func newTestCompositor(opts Options) *Compositor {
	return NewCompositor(&mocks.Renderer{}, opts)
}

func TestCompose_NilInput(t *testing.T) {
	c := newTestCompositor(Options{})
	frame := solidFrame(4, 4, color.RGBA{255, 0, 0, 255})

	if _, err := c.Compose(nil, frame, ModeSideBySide, DefaultParams()); !errors.Is(err, ports.ErrDecode) {
		t.Errorf("expected ErrDecode for nil frame A, got %v", err)
	}
	if _, err := c.Compose(frame, nil, ModeSideBySide, DefaultParams()); !errors.Is(err, ports.ErrDecode) {
		t.Errorf("expected ErrDecode for nil frame B, got %v", err)
	}
}

func TestCompose_SideBySideSplit(t *testing.T) {
	c := newTestCompositor(Options{})
	red := color.RGBA{255, 0, 0, 255}
	blue := color.RGBA{0, 0, 255, 255}
	a := solidFrame(200, 100, red)
	b := solidFrame(200, 100, blue)

	params := DefaultParams()
	params.Split = 0.5
	out, err := c.Compose(a, b, ModeSideBySide, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Bounds().Dx() != 200 || out.Bounds().Dy() != 100 {
		t.Fatalf("expected 200x100 output, got %v", out.Bounds())
	}

	// Left half comes from A.
	if got := pixelAt(t, out, 50, 50); got != red {
		t.Errorf("expected red at (50,50), got %v", got)
	}
	if got := pixelAt(t, out, 98, 50); got != red {
		t.Errorf("expected red at (98,50), got %v", got)
	}
	// Right half comes from B.
	if got := pixelAt(t, out, 150, 50); got != blue {
		t.Errorf("expected blue at (150,50), got %v", got)
	}
	if got := pixelAt(t, out, 102, 50); got != blue {
		t.Errorf("expected blue at (102,50), got %v", got)
	}
}

func TestCompose_SideBySideSeparator(t *testing.T) {
	c := newTestCompositor(Options{})
	a := solidFrame(200, 100, color.RGBA{255, 0, 0, 255})
	b := solidFrame(200, 100, color.RGBA{0, 0, 255, 255})

	out, err := c.Compose(a, b, ModeSideBySide, DefaultParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The separator sits on the split column in the theme color.
	green := color.RGBA{0, 255, 0, 255}
	if got := pixelAt(t, out, 100, 50); got != green {
		t.Errorf("expected green separator at (100,50), got %v", got)
	}
}

func TestCompose_SplitExtremes(t *testing.T) {
	c := newTestCompositor(Options{})
	red := color.RGBA{255, 0, 0, 255}
	blue := color.RGBA{0, 0, 255, 255}
	a := solidFrame(100, 50, red)
	b := solidFrame(100, 50, blue)

	params := DefaultParams()
	params.Split = 0.0
	out, err := c.Compose(a, b, ModeSideBySide, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := pixelAt(t, out, 50, 25); got != blue {
		t.Errorf("split 0: expected all B, got %v", got)
	}

	params.Split = 1.0
	out, err = c.Compose(a, b, ModeSideBySide, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := pixelAt(t, out, 50, 25); got != red {
		t.Errorf("split 1: expected all A, got %v", got)
	}
}

func TestCompose_OverlayEndpoints(t *testing.T) {
	c := newTestCompositor(Options{})
	red := color.RGBA{200, 40, 10, 255}
	blue := color.RGBA{30, 60, 250, 255}
	a := solidFrame(8, 8, red)
	b := solidFrame(8, 8, blue)

	params := DefaultParams()

	// Opacity 0 reproduces A exactly.
	params.Opacity = 0.0
	out, err := c.Compose(a, b, ModeOverlay, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := pixelAt(t, out, 4, 4); got != red {
		t.Errorf("opacity 0: expected %v, got %v", red, got)
	}

	// Opacity 1 reproduces B exactly.
	params.Opacity = 1.0
	out, err = c.Compose(a, b, ModeOverlay, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := pixelAt(t, out, 4, 4); got != blue {
		t.Errorf("opacity 1: expected %v, got %v", blue, got)
	}
}

func TestCompose_SubImageStride(t *testing.T) {
	c := newTestCompositor(Options{})
	red := color.RGBA{255, 0, 0, 255}
	green := color.RGBA{0, 255, 0, 255}
	blue := color.RGBA{0, 0, 255, 255}

	// An origin sub-image keeps its parent's wider stride, so its rows
	// carry padding. A blend must see only the left red half, never the
	// green columns beyond it.
	parent := image.NewRGBA(image.Rect(0, 0, 16, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			if x < 8 {
				parent.SetRGBA(x, y, red)
			} else {
				parent.SetRGBA(x, y, green)
			}
		}
	}
	a := parent.SubImage(image.Rect(0, 0, 8, 8)).(*image.RGBA)
	b := solidFrame(8, 8, blue)

	params := DefaultParams()
	params.Opacity = 0.0
	out, err := c.Compose(a, b, ModeOverlay, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if got := pixelAt(t, out, x, y); got != red {
				t.Fatalf("pixel (%d,%d): expected %v, got %v", x, y, red, got)
			}
		}
	}

	// The difference against an identical copy must be uniformly black.
	aCopy := solidFrame(8, 8, red)
	out, err = c.Compose(a, aCopy, ModeDifference, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	black := color.RGBA{0, 0, 0, 255}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if got := pixelAt(t, out, x, y); got != black {
				t.Fatalf("diff pixel (%d,%d): expected black, got %v", x, y, got)
			}
		}
	}
}

func TestCompose_OverlayMidpoint(t *testing.T) {
	c := newTestCompositor(Options{})
	a := solidFrame(4, 4, color.RGBA{100, 100, 100, 255})
	b := solidFrame(4, 4, color.RGBA{200, 200, 200, 255})

	params := DefaultParams()
	params.Opacity = 0.5
	out, err := c.Compose(a, b, ModeOverlay, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := pixelAt(t, out, 2, 2)
	if got.R != 150 || got.G != 150 || got.B != 150 {
		t.Errorf("expected 150-gray midpoint, got %v", got)
	}
	if got.A != 255 {
		t.Errorf("expected opaque output, got alpha %d", got.A)
	}
}

func TestCompose_DifferenceProperties(t *testing.T) {
	c := newTestCompositor(Options{})
	a := solidFrame(4, 4, color.RGBA{200, 50, 100, 255})
	b := solidFrame(4, 4, color.RGBA{50, 80, 100, 255})

	// Identical inputs yield an all-zero (black) difference.
	out, err := c.Compose(a, a, ModeDifference, DefaultParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := pixelAt(t, out, 1, 1)
	if got.R != 0 || got.G != 0 || got.B != 0 {
		t.Errorf("self-difference should be black, got %v", got)
	}

	// Difference is commutative.
	ab, err := c.Compose(a, b, ModeDifference, DefaultParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ba, err := c.Compose(b, a, ModeDifference, DefaultParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pab := pixelAt(t, ab, 2, 2)
	pba := pixelAt(t, ba, 2, 2)
	if pab != pba {
		t.Errorf("difference not commutative: %v vs %v", pab, pba)
	}
	if pab.R != 150 || pab.G != 30 || pab.B != 0 {
		t.Errorf("expected per-channel difference (150,30,0), got %v", pab)
	}
}

func TestCompose_Toggle(t *testing.T) {
	c := newTestCompositor(Options{})
	red := color.RGBA{255, 0, 0, 255}
	blue := color.RGBA{0, 0, 255, 255}
	a := solidFrame(4, 4, red)
	b := solidFrame(4, 4, blue)

	params := DefaultParams()
	params.ShowA = true
	out, err := c.Compose(a, b, ModeToggle, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := pixelAt(t, out, 2, 2); got != red {
		t.Errorf("ShowA: expected red, got %v", got)
	}

	params.ShowA = false
	out, err = c.Compose(a, b, ModeToggle, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := pixelAt(t, out, 2, 2); got != blue {
		t.Errorf("!ShowA: expected blue, got %v", got)
	}
}

func TestCompose_MismatchedSizesResample(t *testing.T) {
	resizes := 0
	renderer := &mocks.Renderer{}
	fallback := &mocks.Renderer{}
	renderer.ResizeImageFunc = func(img image.Image, width, height int) image.Image {
		resizes++
		return fallback.ResizeImage(img, width, height)
	}

	c := NewCompositor(renderer, Options{})
	a := solidFrame(100, 50, color.RGBA{255, 0, 0, 255})
	b := solidFrame(50, 100, color.RGBA{0, 0, 255, 255})

	out, err := c.Compose(a, b, ModeToggle, DefaultParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Canvas takes the per-axis maximum; both inputs get resampled.
	if out.Bounds().Dx() != 100 || out.Bounds().Dy() != 100 {
		t.Errorf("expected 100x100 canvas, got %v", out.Bounds())
	}
	if resizes != 2 {
		t.Errorf("expected both inputs resampled, got %d resizes", resizes)
	}
}

func TestCompose_TargetSizeOverride(t *testing.T) {
	c := newTestCompositor(Options{TargetWidth: 64, TargetHeight: 32})
	a := solidFrame(100, 50, color.RGBA{255, 0, 0, 255})
	b := solidFrame(200, 100, color.RGBA{0, 0, 255, 255})

	out, err := c.Compose(a, b, ModeOverlay, DefaultParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Bounds().Dx() != 64 || out.Bounds().Dy() != 32 {
		t.Errorf("expected 64x32 canvas, got %v", out.Bounds())
	}
}

func TestCompose_LabelsDrawn(t *testing.T) {
	var canvas *mocks.Canvas
	renderer := &mocks.Renderer{
		CreateCanvasFunc: func(width, height int, bg color.Color) ports.Canvas {
			base := &mocks.Renderer{}
			canvas = base.CreateCanvas(width, height, bg).(*mocks.Canvas)
			return canvas
		},
	}
	c := NewCompositor(renderer, Options{ShowLabels: true})
	c.SetLabels(
		&ports.VideoStream{Name: "before.mp4"},
		&ports.VideoStream{Name: "after.mp4"},
	)

	a := solidFrame(100, 50, color.RGBA{255, 0, 0, 255})
	b := solidFrame(100, 50, color.RGBA{0, 0, 255, 255})
	if _, err := c.Compose(a, b, ModeOverlay, DefaultParams()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if canvas == nil {
		t.Fatal("expected decoration canvas to be created")
	}
	// Each label draws twice: shadow then face.
	if len(canvas.TextCalls) != 4 {
		t.Fatalf("expected 4 text draws, got %d", len(canvas.TextCalls))
	}
	if canvas.TextCalls[1].Text != "before.mp4" {
		t.Errorf("expected label A 'before.mp4', got %q", canvas.TextCalls[1].Text)
	}
	if canvas.TextCalls[3].Text != "after.mp4" {
		t.Errorf("expected label B 'after.mp4', got %q", canvas.TextCalls[3].Text)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"side-by-side", ModeSideBySide},
		{"overlay", ModeOverlay},
		{"difference", ModeDifference},
		{"diff", ModeDifference},
		{"toggle", ModeToggle},
		{"bogus", ModeSideBySide},
		{"", ModeSideBySide},
	}
	for _, tt := range tests {
		if got := ParseMode(tt.in); got != tt.want {
			t.Errorf("ParseMode(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
