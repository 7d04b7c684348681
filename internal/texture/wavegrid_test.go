package texture

import (
	"image"
	"math/rand"
	"testing"
)

func newNoiseGray(t *testing.T, seed int64, w, h int) *image.Gray {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	g := image.NewGray(image.Rect(0, 0, w, h))
	for i := range g.Pix {
		g.Pix[i] = uint8(rng.Intn(200))
	}
	return g
}

func TestRemoveFrequencySpansFullRange(t *testing.T) {
	src := newNoiseGray(t, 21, 60, 60)
	out, err := RemoveFrequency(src, 10)
	if err != nil {
		t.Fatalf("RemoveFrequency returned error: %v", err)
	}
	checkBounds(t, out, 60, 60)

	var hasMin, hasMax bool
	for _, v := range out.Pix {
		if v == 0 {
			hasMin = true
		}
		if v == 255 {
			hasMax = true
		}
	}
	if !hasMin || !hasMax {
		t.Fatalf("output not normalized: hasMin=%v hasMax=%v", hasMin, hasMax)
	}
}

func TestRemoveFrequencyIgnoresConstantOffset(t *testing.T) {
	src := newNoiseGray(t, 8, 40, 40)
	shifted := image.NewGray(src.Bounds())
	for i, v := range src.Pix {
		shifted.Pix[i] = v + 50
	}

	a, err := RemoveFrequency(src, 5)
	if err != nil {
		t.Fatal(err)
	}
	b, err := RemoveFrequency(shifted, 5)
	if err != nil {
		t.Fatal(err)
	}

	// The offset lives entirely in the suppressed low-frequency band, so
	// both outputs agree up to quantization.
	for i := range a.Pix {
		d := int(a.Pix[i]) - int(b.Pix[i])
		if d < -1 || d > 1 {
			t.Fatalf("pixel %d differs by %d", i, d)
		}
	}
}

func TestRemoveFrequencyDeterministic(t *testing.T) {
	src := newNoiseGray(t, 13, 32, 32)
	a, err := RemoveFrequency(src, 8)
	if err != nil {
		t.Fatal(err)
	}
	b, err := RemoveFrequency(src, 8)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("pixel %d differs between identical calls", i)
		}
	}
}

func TestRemoveFrequencyFlatInput(t *testing.T) {
	flat := image.NewGray(image.Rect(0, 0, 16, 16))
	for i := range flat.Pix {
		flat.Pix[i] = 77
	}
	if _, err := RemoveFrequency(flat, 4); err == nil {
		t.Fatal("expected error for constant input")
	}
}

func TestRangeDraw(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	r := Range{0.25, 0.75}
	for i := 0; i < 100; i++ {
		if v := r.draw(rng); v < 0.25 || v >= 0.75 {
			t.Fatalf("draw out of range: %v", v)
		}
	}
	ir := IntRange{3, 9}
	for i := 0; i < 100; i++ {
		if v := ir.draw(rng); v < 3 || v > 9 {
			t.Fatalf("int draw out of range: %d", v)
		}
	}
}
