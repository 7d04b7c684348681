// Package edgecrop finds the largest well-formed rectangular interior of a
// candidate texture image and crops to it, discarding degenerate borders.
package edgecrop

import (
	"image"
	"image/color"
	"sort"

	"github.com/MeKo-Tech/papertexture/internal/imageutil"
)

var white = color.Gray{Y: 255}

// minAreaFraction is the share of the image a contour must enclose to be
// considered a valid interior region.
const minAreaFraction = 0.65

// Crop returns the texture cropped to its dominant interior region, or the
// input unchanged when no contour encloses enough of the image. It never
// fails: every degenerate case falls back to the uncropped input.
func Crop(texture image.Image) image.Image {
	b := texture.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < 20 || h < 20 {
		return texture
	}

	gray := imageutil.ToGray(texture)
	blurred := imageutil.GaussianBlurGray(gray, 5)
	binary := binarize(gray, otsuThreshold(gray))

	// Normalize polarity so the valid interior is always foreground: when
	// the border band is brighter than the center, complement the mask.
	if borderAverage(binary, 10) > centerAverage(blurred, 10) {
		binary = imageutil.Invert(binary)
	}

	binary = erode(binary, 9)

	contours := findContours(binary)
	if len(contours) == 0 {
		return texture
	}
	sort.Slice(contours, func(i, j int) bool { return contours[i].Area > contours[j].Area })

	minArea := float64(w) * float64(h) * minAreaFraction
	var accepted *Contour
	for i := range contours {
		if contours[i].Area < minArea {
			break
		}
		accepted = &contours[i]
	}
	if accepted == nil {
		return texture
	}

	rect := minAreaRect(accepted.Ring)
	xs := []float64{rect[0][0], rect[1][0], rect[2][0], rect[3][0]}
	ys := []float64{rect[0][1], rect[1][1], rect[2][1], rect[3][1]}
	sort.Float64s(xs)
	sort.Float64s(ys)

	// The two inner corner coordinates per axis give an axis-aligned crop
	// that sits inside the rotated rectangle.
	crop := image.Rect(int(xs[1]), int(ys[1]), int(xs[2]), int(ys[2])).
		Intersect(image.Rect(0, 0, w, h))
	if crop.Dx() <= 0 || crop.Dy() <= 0 {
		return texture
	}
	return imageutil.Crop(texture, crop.Add(b.Min))
}

// Contours exposes the traced contours of an already-binary mask; the paper
// factory uses it to mask broken-edge textures.
func Contours(mask *image.Gray) []Contour {
	return findContours(mask)
}

// Binarize thresholds a grayscale image with Otsu's method.
func Binarize(g *image.Gray) *image.Gray {
	return binarize(g, otsuThreshold(g))
}

// borderAverage is the mean intensity of a band pixels wide strip along all
// four image edges.
func borderAverage(g *image.Gray, band int) float64 {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	side := func(r image.Rectangle) float64 {
		var sum float64
		n := 0
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				sum += float64(g.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
				n++
			}
		}
		if n == 0 {
			return 0
		}
		return sum / float64(n)
	}
	left := side(image.Rect(0, 0, band, h))
	right := side(image.Rect(w-band, 0, w, h))
	top := side(image.Rect(0, 0, w, band))
	bottom := side(image.Rect(0, h-band, w, h))
	return (left + right + top + bottom) / 4
}

// centerAverage is the mean intensity of the central 2*half square.
func centerAverage(g *image.Gray, half int) float64 {
	b := g.Bounds()
	cx, cy := b.Dx()/2, b.Dy()/2
	var sum float64
	n := 0
	for y := cy - half; y < cy+half; y++ {
		for x := cx - half; x < cx+half; x++ {
			sum += float64(g.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
			n++
		}
	}
	return sum / float64(n)
}

// erode applies one pass of binary erosion with a ksize×ksize all-ones
// structuring element. Pixels outside the image count as foreground, so the
// border does not erode inward on its own.
func erode(g *image.Gray, ksize int) *image.Gray {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	r := ksize / 2
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			keep := true
			for dy := -r; dy <= r && keep; dy++ {
				for dx := -r; dx <= r; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					if g.GrayAt(b.Min.X+nx, b.Min.Y+ny).Y == 0 {
						keep = false
						break
					}
				}
			}
			if keep {
				dst.SetGray(x, y, white)
			}
		}
	}
	return dst
}
