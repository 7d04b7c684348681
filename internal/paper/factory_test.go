package paper

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/MeKo-Tech/papertexture/internal/compose"
	"github.com/MeKo-Tech/papertexture/internal/texture"
)

func newTestFactory(t *testing.T, cfg Config) *Factory {
	t.Helper()
	if cfg.Generator == nil {
		cfg.Generator = texture.New(texture.Config{Seed: 42, Parallel: true, Workers: 4})
	}
	f, err := New(cfg)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return f
}

func noiseLibraryTexture(t *testing.T, seed int64, w, h int) image.Image {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(120 + rng.Intn(100))
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

func TestPaperProceduralSize(t *testing.T) {
	f := newTestFactory(t, Config{
		EnableColor: Bool(false),
		Blend:       Bool(false),
	})

	const w, h = 120, 120
	tex, err := f.Paper(w, h)
	if err != nil {
		t.Fatalf("Paper returned error: %v", err)
	}

	// Up to two sides may be trimmed by a twentieth each.
	b := tex.Bounds()
	if b.Dx() > w || b.Dy() > h {
		t.Fatalf("paper %dx%d exceeds request %dx%d", b.Dx(), b.Dy(), w, h)
	}
	if b.Dx() < w-2*(w/20) || b.Dy() < h-2*(h/20) {
		t.Fatalf("paper %dx%d trimmed too far", b.Dx(), b.Dy())
	}
}

func TestPaperDeterministicForSeed(t *testing.T) {
	build := func() image.Image {
		gen := texture.New(texture.Config{Seed: 9, Parallel: true, Workers: 4})
		f := newTestFactory(t, Config{
			Generator:   gen,
			EnableColor: RandomBool(),
			Blend:       RandomBool(),
			BlendMode:   RandomBlend(),
		})
		tex, err := f.Paper(90, 90)
		if err != nil {
			t.Fatalf("Paper returned error: %v", err)
		}
		return tex
	}

	a, b := build(), build()
	ab, bb := a.Bounds(), b.Bounds()
	if ab.Dx() != bb.Dx() || ab.Dy() != bb.Dy() {
		t.Fatalf("sizes differ: %v vs %v", ab, bb)
	}
	for y := 0; y < ab.Dy(); y++ {
		for x := 0; x < ab.Dx(); x++ {
			if a.At(x, y) != b.At(x, y) {
				t.Fatalf("pixel (%d,%d) differs between identical seeds", x, y)
			}
		}
	}
}

func TestPaperGrayWhenColorDisabled(t *testing.T) {
	f := newTestFactory(t, Config{
		EnableColor: Bool(false),
		Blend:       Bool(false),
	})
	tex, err := f.Paper(80, 80)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := tex.(*image.Gray); !ok {
		t.Fatalf("expected single-channel paper, got %T", tex)
	}
}

func TestPaperColorWhenEnabled(t *testing.T) {
	f := newTestFactory(t, Config{
		EnableColor: Bool(true),
		Blend:       Bool(false),
	})
	tex, err := f.Paper(80, 80)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := tex.(*image.Gray); ok {
		t.Fatal("expected three-channel paper with color enabled")
	}
}

func TestPaperBlendFixedMode(t *testing.T) {
	f := newTestFactory(t, Config{
		EnableColor: Bool(false),
		Blend:       Bool(true),
		BlendMode:   BlendWith(compose.ModeMultiply),
	})
	tex, err := f.Paper(100, 100)
	if err != nil {
		t.Fatalf("blended Paper returned error: %v", err)
	}
	b := tex.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		t.Fatal("blended paper is empty")
	}
}

func TestPaperRetrievalMatchesTargetSize(t *testing.T) {
	lib := &Library{}
	lib.Add("noise.png", noiseLibraryTexture(t, 5, 300, 300))

	f := newTestFactory(t, Config{
		Library:     lib,
		EnableColor: Bool(false),
		Blend:       Bool(false),
	})
	tex, err := f.Paper(100, 100)
	if err != nil {
		t.Fatalf("Paper returned error: %v", err)
	}
	b := tex.Bounds()
	if b.Dx() != 100 || b.Dy() != 100 {
		t.Fatalf("retrieved paper = %dx%d, want 100x100", b.Dx(), b.Dy())
	}
}

func TestPaperQuiltEnabled(t *testing.T) {
	f := newTestFactory(t, Config{
		EnableColor:  Bool(false),
		Blend:        Bool(false),
		Quilt:        Bool(true),
		QuiltSizeMin: 25,
		QuiltSizeMax: 40,
	})
	tex, err := f.Paper(150, 150)
	if err != nil {
		t.Fatalf("quilted Paper returned error: %v", err)
	}
	if tex.Bounds().Dx() == 0 {
		t.Fatal("quilted paper is empty")
	}
}

func TestLargestInteriorMaskFillsForegroundRegion(t *testing.T) {
	edge := image.NewGray(image.Rect(0, 0, 100, 100))
	for y := 10; y < 90; y++ {
		for x := 10; x < 90; x++ {
			edge.SetGray(x, y, color.Gray{Y: 255})
		}
	}

	mask := largestInteriorMask(edge, 100, 100)
	if mask.GrayAt(50, 50).Y != 255 {
		t.Fatal("interior of the dominant region not filled")
	}
	if mask.GrayAt(2, 2).Y != 0 {
		t.Fatal("mask leaked outside the dominant region")
	}
}

func TestLargestInteriorMaskIgnoresHoles(t *testing.T) {
	// A bright frame with a dark interior: the hole encloses enough area but
	// is not a texture region, so the mask must stay empty.
	edge := image.NewGray(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			if x < 10 || x >= 90 || y < 10 || y >= 90 {
				edge.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	mask := largestInteriorMask(edge, 100, 100)
	for i, v := range mask.Pix {
		if v != 0 {
			t.Fatalf("mask not empty at pixel %d", i)
		}
	}
}

func TestPaperRejectsBadSize(t *testing.T) {
	f := newTestFactory(t, Config{})
	if _, err := f.Paper(0, 100); err == nil {
		t.Fatal("expected error for zero width")
	}
}

func TestNewRequiresGenerator(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error for missing generator")
	}
}

func TestApplyPassesExtrasThrough(t *testing.T) {
	f := newTestFactory(t, Config{
		EnableColor: Bool(false),
		Blend:       Bool(false),
	})
	extras := &Extras{
		Mask:          image.NewGray(image.Rect(0, 0, 4, 4)),
		Keypoints:     []image.Point{{X: 1, Y: 2}},
		BoundingBoxes: []image.Rectangle{image.Rect(0, 0, 3, 3)},
	}

	target := image.NewGray(image.Rect(0, 0, 64, 64))
	tex, got, err := f.Apply(target, extras)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if tex == nil {
		t.Fatal("Apply returned nil texture")
	}
	if got != extras {
		t.Fatal("extras were not passed through unchanged")
	}
}
