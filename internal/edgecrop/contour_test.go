package edgecrop

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func maskWithSquare(t *testing.T, size, x0, y0, side int) *image.Gray {
	t.Helper()
	g := image.NewGray(image.Rect(0, 0, size, size))
	for y := y0; y < y0+side; y++ {
		for x := x0; x < x0+side; x++ {
			g.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	return g
}

func TestFindContoursSquare(t *testing.T) {
	mask := maskWithSquare(t, 40, 10, 10, 15)
	contours := findContours(mask)
	if len(contours) != 1 {
		t.Fatalf("got %d contours, want 1", len(contours))
	}

	c := contours[0]
	if c.Inner {
		t.Fatal("outer contour flagged as inner")
	}
	// Boundary through pixel centers encloses (side-1)^2.
	if want := float64(14 * 14); math.Abs(c.Area-want) > 1 {
		t.Fatalf("area = %v, want %v", c.Area, want)
	}
	if c.Bounds != image.Rect(10, 10, 25, 25) {
		t.Fatalf("bounds = %v", c.Bounds)
	}
}

func TestFindContoursHole(t *testing.T) {
	mask := maskWithSquare(t, 40, 5, 5, 30)
	// carve a hole
	for y := 15; y < 25; y++ {
		for x := 15; x < 25; x++ {
			mask.SetGray(x, y, color.Gray{Y: 0})
		}
	}

	contours := findContours(mask)
	var inner int
	for _, c := range contours {
		if c.Inner {
			inner++
		}
	}
	if inner != 1 {
		t.Fatalf("got %d hole contours, want 1", inner)
	}
}

func TestContourFill(t *testing.T) {
	mask := maskWithSquare(t, 30, 8, 8, 10)
	contours := findContours(mask)
	if len(contours) != 1 {
		t.Fatalf("got %d contours, want 1", len(contours))
	}

	fill := contours[0].Fill(30, 30)
	if fill.GrayAt(12, 12).Y != 255 {
		t.Fatal("interior pixel not filled")
	}
	if fill.GrayAt(2, 2).Y != 0 {
		t.Fatal("exterior pixel filled")
	}
}

func TestMinAreaRectAxisAligned(t *testing.T) {
	ring := orb.Ring{{5, 5}, {20, 5}, {20, 15}, {5, 15}, {5, 5}}
	rect := minAreaRect(ring)

	var minX, minY, maxX, maxY = math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)
	for _, p := range rect {
		minX = math.Min(minX, p[0])
		minY = math.Min(minY, p[1])
		maxX = math.Max(maxX, p[0])
		maxY = math.Max(maxY, p[1])
	}
	const eps = 1e-9
	if math.Abs(minX-5) > eps || math.Abs(minY-5) > eps ||
		math.Abs(maxX-20) > eps || math.Abs(maxY-15) > eps {
		t.Fatalf("rect = %v", rect)
	}
}

func TestMinAreaRectRotatedSquare(t *testing.T) {
	// Diamond with corners on the axes: the minimum rectangle is the
	// diamond itself, area 2*r^2.
	ring := orb.Ring{{10, 0}, {20, 10}, {10, 20}, {0, 10}, {10, 0}}
	rect := minAreaRect(ring)

	side := math.Hypot(rect[1][0]-rect[0][0], rect[1][1]-rect[0][1])
	other := math.Hypot(rect[2][0]-rect[1][0], rect[2][1]-rect[1][1])
	if math.Abs(side*other-200) > 1e-6 {
		t.Fatalf("rect area = %v, want 200", side*other)
	}
}

func TestOtsuThresholdBimodal(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 10, 10))
	for i := range g.Pix {
		if i%2 == 0 {
			g.Pix[i] = 40
		} else {
			g.Pix[i] = 210
		}
	}
	thr := otsuThreshold(g)
	if thr < 40 || thr >= 210 {
		t.Fatalf("threshold = %d, want within (40,210)", thr)
	}
}
