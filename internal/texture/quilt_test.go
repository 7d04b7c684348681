package texture

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/MeKo-Tech/papertexture/internal/imageutil"
)

func TestQuiltOutputSize(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 100, 100))
	for i := range src.Pix {
		src.Pix[i] = 128
	}

	g := newTestGenerator(t, 3)
	out, err := g.Quilt(src, 20, 3, 3, StretchContrast{})
	if err != nil {
		t.Fatalf("Quilt returned error: %v", err)
	}

	// overlap = 20/5 = 4, so 3*20 - 2*4 = 52 per axis.
	checkBounds(t, out, 52, 52)
	if !imageutil.IsGray(out) {
		t.Fatal("gray input produced a color quilt")
	}
}

func TestQuiltColorInputStaysColor(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	src := image.NewNRGBA(image.Rect(0, 0, 80, 80))
	for y := 0; y < 80; y++ {
		for x := 0; x < 80; x++ {
			v := uint8(100 + rng.Intn(80))
			src.SetNRGBA(x, y, color.NRGBA{R: v, G: v / 2, B: 255 - v, A: 255})
		}
	}

	g := newTestGenerator(t, 4)
	out, err := g.Quilt(src, 25, 2, 2, nil)
	if err != nil {
		t.Fatalf("Quilt returned error: %v", err)
	}
	checkBounds(t, out, 45, 45)
	if imageutil.IsGray(out) {
		t.Fatal("color input collapsed to gray")
	}
}

func TestQuiltRejectsBadParameters(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 30, 30))
	g := newTestGenerator(t, 1)

	if _, err := g.Quilt(src, 0, 2, 2, nil); err == nil {
		t.Fatal("expected error for zero patch size")
	}
	if _, err := g.Quilt(src, 10, 0, 2, nil); err == nil {
		t.Fatal("expected error for zero patch count")
	}
	if _, err := g.Quilt(src, 30, 2, 2, nil); err == nil {
		t.Fatal("expected error for patch size exceeding source")
	}
}

func TestStretchContrastSpansFullRange(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 8, 8))
	for i := range src.Pix {
		src.Pix[i] = uint8(100 + i)
	}

	out := imageutil.ToGray(StretchContrast{}.Enhance(src))
	minV, maxV := uint8(255), uint8(0)
	for _, v := range out.Pix {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	if minV != 0 || maxV != 255 {
		t.Fatalf("stretched range = [%d,%d], want [0,255]", minV, maxV)
	}
}
