package edgecrop

import (
	"image"
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Contour is a closed boundary traced around a connected region of a binary
// mask, either a foreground blob or a hole inside one.
type Contour struct {
	Ring   orb.Ring
	Area   float64
	Inner  bool
	Bounds image.Rectangle
	pixels []image.Point
}

// Fill renders the contour's enclosed region into a w×h mask.
func (c Contour) Fill(w, h int) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for _, p := range c.pixels {
		if p.X >= 0 && p.X < w && p.Y >= 0 && p.Y < h {
			dst.Pix[p.Y*dst.Stride+p.X] = 255
		}
	}
	return dst
}

// findContours extracts the outer boundary of every 8-connected foreground
// component and the boundary of every enclosed background hole.
func findContours(mask *image.Gray) []Contour {
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	fg := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			fg[y*w+x] = mask.GrayAt(b.Min.X+x, b.Min.Y+y).Y > 0
		}
	}

	var contours []Contour
	for _, comp := range components(fg, w, h, true) {
		contours = append(contours, makeContour(fg, w, h, comp, false))
	}

	// Background components that never touch the image border are holes.
	bg := make([]bool, len(fg))
	for i, v := range fg {
		bg[i] = !v
	}
	for _, comp := range components(bg, w, h, false) {
		if touchesBorder(comp, w, h) {
			continue
		}
		contours = append(contours, makeContour(bg, w, h, comp, true))
	}
	return contours
}

func makeContour(set []bool, w, h int, comp []image.Point, inner bool) Contour {
	ring := traceBoundary(set, w, h, comp[0])
	area := math.Abs(planar.Area(ring))
	return Contour{
		Ring:   ring,
		Area:   area,
		Inner:  inner,
		Bounds: pointsBounds(comp),
		pixels: comp,
	}
}

// components labels connected regions of set and returns one pixel list per
// region. Foreground uses 8-connectivity, background 4-connectivity, the
// usual complementary pairing that keeps blobs and holes consistent.
func components(set []bool, w, h int, eightConn bool) [][]image.Point {
	seen := make([]bool, len(set))
	var out [][]image.Point

	neighbors := [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	if eightConn {
		neighbors = append(neighbors, [2]int{1, 1}, [2]int{1, -1}, [2]int{-1, 1}, [2]int{-1, -1})
	}

	for start := 0; start < len(set); start++ {
		if !set[start] || seen[start] {
			continue
		}
		var comp []image.Point
		queue := []int{start}
		seen[start] = true
		for len(queue) > 0 {
			idx := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			px, py := idx%w, idx/w
			comp = append(comp, image.Point{X: px, Y: py})
			for _, d := range neighbors {
				nx, ny := px+d[0], py+d[1]
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				n := ny*w + nx
				if set[n] && !seen[n] {
					seen[n] = true
					queue = append(queue, n)
				}
			}
		}
		out = append(out, comp)
	}
	return out
}

// traceBoundary walks the outer boundary of the component containing start
// using Moore-neighbor tracing. start must be the component's first pixel in
// row-major order, which guarantees its west neighbor is outside the set.
func traceBoundary(set []bool, w, h int, start image.Point) orb.Ring {
	at := func(x, y int) bool {
		return x >= 0 && x < w && y >= 0 && y < h && set[y*w+x]
	}
	// Clockwise Moore neighborhood starting west.
	dirs := [8][2]int{{-1, 0}, {-1, -1}, {0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}}

	ring := orb.Ring{{float64(start.X), float64(start.Y)}}
	cur := start
	backtrack := 0 // index of the direction pointing at the last empty cell
	limit := 4 * (w*h + 4)
	for steps := 0; steps < limit; steps++ {
		found := false
		for i := 1; i <= 8; i++ {
			di := (backtrack + i) % 8
			nx, ny := cur.X+dirs[di][0], cur.Y+dirs[di][1]
			if at(nx, ny) {
				cur = image.Point{X: nx, Y: ny}
				// Resume scanning from the cell just before the one we
				// entered from.
				backtrack = (di + 5) % 8
				found = true
				break
			}
		}
		if !found {
			// Isolated pixel.
			break
		}
		if cur == start {
			break
		}
		ring = append(ring, orb.Point{float64(cur.X), float64(cur.Y)})
	}
	ring = append(ring, ring[0])
	return ring
}

func touchesBorder(comp []image.Point, w, h int) bool {
	for _, p := range comp {
		if p.X == 0 || p.Y == 0 || p.X == w-1 || p.Y == h-1 {
			return true
		}
	}
	return false
}

func pointsBounds(pts []image.Point) image.Rectangle {
	r := image.Rectangle{Min: pts[0], Max: pts[0].Add(image.Point{1, 1})}
	for _, p := range pts[1:] {
		if p.X < r.Min.X {
			r.Min.X = p.X
		}
		if p.Y < r.Min.Y {
			r.Min.Y = p.Y
		}
		if p.X+1 > r.Max.X {
			r.Max.X = p.X + 1
		}
		if p.Y+1 > r.Max.Y {
			r.Max.Y = p.Y + 1
		}
	}
	return r
}

// minAreaRect returns the four corners of the minimum-area rotated rectangle
// enclosing the ring, via convex hull and rotating calipers.
func minAreaRect(ring orb.Ring) [4]orb.Point {
	hull := convexHull(ring)
	if len(hull) == 1 {
		return [4]orb.Point{hull[0], hull[0], hull[0], hull[0]}
	}
	if len(hull) == 2 {
		return [4]orb.Point{hull[0], hull[1], hull[1], hull[0]}
	}

	best := math.Inf(1)
	var bestRect [4]orb.Point
	for i := 0; i < len(hull); i++ {
		p0 := hull[i]
		p1 := hull[(i+1)%len(hull)]
		theta := math.Atan2(p1[1]-p0[1], p1[0]-p0[0])
		cos, sin := math.Cos(-theta), math.Sin(-theta)

		minX, minY := math.Inf(1), math.Inf(1)
		maxX, maxY := math.Inf(-1), math.Inf(-1)
		for _, p := range hull {
			rx := p[0]*cos - p[1]*sin
			ry := p[0]*sin + p[1]*cos
			minX = math.Min(minX, rx)
			minY = math.Min(minY, ry)
			maxX = math.Max(maxX, rx)
			maxY = math.Max(maxY, ry)
		}
		area := (maxX - minX) * (maxY - minY)
		if area < best {
			best = area
			corners := [4][2]float64{
				{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY},
			}
			// Rotate back into image space.
			rcos, rsin := math.Cos(theta), math.Sin(theta)
			for k, c := range corners {
				bestRect[k] = orb.Point{
					c[0]*rcos - c[1]*rsin,
					c[0]*rsin + c[1]*rcos,
				}
			}
		}
	}
	return bestRect
}

// convexHull computes the convex hull of the ring's points via the monotone
// chain algorithm, counter-clockwise without the repeated last point.
func convexHull(ring orb.Ring) []orb.Point {
	pts := make([]orb.Point, len(ring))
	copy(pts, ring)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i][0] != pts[j][0] {
			return pts[i][0] < pts[j][0]
		}
		return pts[i][1] < pts[j][1]
	})
	// Deduplicate.
	uniq := pts[:0]
	for i, p := range pts {
		if i == 0 || p != pts[i-1] {
			uniq = append(uniq, p)
		}
	}
	pts = uniq
	if len(pts) <= 2 {
		return pts
	}

	cross := func(o, a, b orb.Point) float64 {
		return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
	}

	var lower []orb.Point
	for _, p := range pts {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	var upper []orb.Point
	for i := len(pts) - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}
	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}
