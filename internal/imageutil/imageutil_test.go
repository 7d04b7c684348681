package imageutil

import (
	"errors"
	"image"
	"image/color"
	"math/rand"
	"testing"
)

func newGradientGray(t *testing.T, w, h int) *image.Gray {
	t.Helper()
	g := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.SetGray(x, y, color.Gray{Y: uint8((x + y) % 256)})
		}
	}
	return g
}

func TestNormalize(t *testing.T) {
	vals := []float64{10, 20, 30}
	if err := Normalize(vals, 0, 255); err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	want := []float64{0, 127.5, 255}
	for i := range vals {
		if vals[i] != want[i] {
			t.Fatalf("vals[%d] = %v, want %v", i, vals[i], want[i])
		}
	}
}

func TestNormalizeFlatInput(t *testing.T) {
	vals := []float64{5, 5, 5}
	err := Normalize(vals, 0, 255)
	if !errors.Is(err, ErrFlatImage) {
		t.Fatalf("expected ErrFlatImage, got %v", err)
	}
	for _, v := range vals {
		if v != 5 {
			t.Fatalf("flat input was modified: %v", vals)
		}
	}
}

func TestClamp8(t *testing.T) {
	tests := []struct {
		in   float64
		want uint8
	}{
		{-10, 0},
		{0, 0},
		{127.4, 127},
		{127.6, 128},
		{255, 255},
		{300, 255},
	}
	for _, tc := range tests {
		if got := Clamp8(tc.in); got != tc.want {
			t.Fatalf("Clamp8(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestToNRGBAForcesOpaqueAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 40})
	out := ToNRGBA(src)
	c := out.NRGBAAt(0, 0)
	if c.A != 255 {
		t.Fatalf("alpha = %d, want 255", c.A)
	}
	if c.R != 10 || c.G != 20 || c.B != 30 {
		t.Fatalf("color channels changed: %+v", c)
	}
}

func TestToGrayPreservesEqualChannels(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 77, G: 77, B: 77, A: 255})
	if got := ToGray(src).GrayAt(0, 0).Y; got != 77 {
		t.Fatalf("gray value = %d, want 77", got)
	}
}

func TestInvert(t *testing.T) {
	g := newGradientGray(t, 4, 4)
	inv := Invert(g)
	for i := range g.Pix {
		if inv.Pix[i] != 255-g.Pix[i] {
			t.Fatalf("pixel %d: %d + %d != 255", i, inv.Pix[i], g.Pix[i])
		}
	}
}

func TestGrayFloatsRoundTrip(t *testing.T) {
	g := newGradientGray(t, 5, 3)
	back := GrayFromFloats(5, 3, GrayFloats(g))
	for i := range g.Pix {
		if back.Pix[i] != g.Pix[i] {
			t.Fatalf("pixel %d: got %d want %d", i, back.Pix[i], g.Pix[i])
		}
	}
}

func TestResizeGray(t *testing.T) {
	g := newGradientGray(t, 10, 10)
	out := ResizeGray(g, 25, 7)
	if out.Bounds().Dx() != 25 || out.Bounds().Dy() != 7 {
		t.Fatalf("resized bounds = %v", out.Bounds())
	}
	if same := ResizeGray(g, 10, 10); same != g {
		t.Fatal("same-size resize should return the input")
	}
}

func TestCropGray(t *testing.T) {
	g := newGradientGray(t, 10, 10)
	out := CropGray(g, image.Rect(2, 3, 7, 9))
	if out.Bounds().Dx() != 5 || out.Bounds().Dy() != 6 {
		t.Fatalf("crop bounds = %v", out.Bounds())
	}
	if got, want := out.GrayAt(0, 0).Y, g.GrayAt(2, 3).Y; got != want {
		t.Fatalf("crop origin pixel = %d, want %d", got, want)
	}
}

func TestRotateQuarter(t *testing.T) {
	g := newGradientGray(t, 8, 4)

	for turns, wantW := range map[int]int{0: 8, 1: 4, 2: 8, 3: 4} {
		out := RotateQuarter(g, turns)
		if out.Bounds().Dx() != wantW {
			t.Fatalf("turns=%d: width = %d, want %d", turns, out.Bounds().Dx(), wantW)
		}
		if !IsGray(out) {
			t.Fatalf("turns=%d: rotation changed the channel layout", turns)
		}
	}
}

func TestRandomQuarterTurnPreservesPixelCount(t *testing.T) {
	g := newGradientGray(t, 6, 9)
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 8; i++ {
		out := RandomQuarterTurn(g, rng)
		b := out.Bounds()
		if b.Dx()*b.Dy() != 54 {
			t.Fatalf("pixel count changed: %v", b)
		}
	}
}

func TestAverageIntensity(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range g.Pix {
		g.Pix[i] = 100
	}
	if got := AverageIntensity(g); got != 100 {
		t.Fatalf("average = %v, want 100", got)
	}
}

func TestGaussianBlurGraySmooths(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 9, 9))
	g.SetGray(4, 4, color.Gray{Y: 255})
	out := GaussianBlurGray(g, 5)
	if out.Bounds() != g.Bounds() {
		t.Fatalf("blur changed bounds: %v", out.Bounds())
	}
	if out.GrayAt(4, 4).Y >= 255 {
		t.Fatal("center pixel not smoothed")
	}
	if out.GrayAt(3, 4).Y == 0 {
		t.Fatal("energy did not spread to neighbors")
	}
}

func TestMedianGrayRemovesImpulse(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 9, 9))
	g.SetGray(4, 4, color.Gray{Y: 255})
	out := MedianGray(g, 3)
	if out.GrayAt(4, 4).Y != 0 {
		t.Fatalf("impulse survived median filter: %d", out.GrayAt(4, 4).Y)
	}
}
