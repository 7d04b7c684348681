// Package paper replaces a document's background with a paper texture, either
// retrieved from a texture library or synthesized procedurally. It wires the
// texture generators, edge cropping, canvas fitting, compositing and
// colorization into the full acquisition pipeline.
package paper

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/MeKo-Tech/papertexture/internal/canvas"
	"github.com/MeKo-Tech/papertexture/internal/colorize"
	"github.com/MeKo-Tech/papertexture/internal/compose"
	"github.com/MeKo-Tech/papertexture/internal/edgecrop"
	"github.com/MeKo-Tech/papertexture/internal/imageutil"
	"github.com/MeKo-Tech/papertexture/internal/texture"
)

// targetIntensity is the average brightness a finished paper is raised to
// when the texture comes out darker.
const targetIntensity = 200

// Extras carries auxiliary annotations through Apply unchanged.
type Extras struct {
	Mask          image.Image
	Keypoints     []image.Point
	BoundingBoxes []image.Rectangle
}

// Config configures a Factory. Generator is required; everything else has a
// usable zero value (empty library, random color and blend flags resolved per
// invocation, quilting off).
type Config struct {
	Generator *texture.Generator
	Library   *Library

	EnableColor BoolOption
	Blend       BoolOption
	BlendMode   ModeOption

	Quilt         BoolOption
	QuiltSizeMin  int
	QuiltSizeMax  int

	Logger *slog.Logger
}

// Factory produces paper textures sized to a target image.
type Factory struct {
	gen         *texture.Generator
	lib         *Library
	enableColor BoolOption
	blendFlag   BoolOption
	blendMode   ModeOption
	quilt       BoolOption
	quiltMin    int
	quiltMax    int
	logger      *slog.Logger
}

// New creates a paper factory.
func New(cfg Config) (*Factory, error) {
	if cfg.Generator == nil {
		return nil, fmt.Errorf("paper: generator is required")
	}
	lib := cfg.Library
	if lib == nil {
		lib = &Library{}
	}
	mode := cfg.BlendMode
	if !mode.random && mode.mode == "" {
		mode = BlendWith(compose.ModeInkToPaper)
	}
	quiltMin, quiltMax := cfg.QuiltSizeMin, cfg.QuiltSizeMax
	if quiltMin <= 0 {
		quiltMin = 25
	}
	if quiltMax < quiltMin {
		quiltMax = 40
	}
	return &Factory{
		gen:         cfg.Generator,
		lib:         lib,
		enableColor: cfg.EnableColor,
		blendFlag:   cfg.Blend,
		blendMode:   mode,
		quilt:       cfg.Quilt,
		quiltMin:    quiltMin,
		quiltMax:    quiltMax,
		logger:      cfg.Logger,
	}, nil
}

// Apply produces a paper texture matching target's dimensions. Auxiliary
// annotations pass through untouched.
func (f *Factory) Apply(target image.Image, extras *Extras) (image.Image, *Extras, error) {
	b := target.Bounds()
	tex, err := f.Paper(b.Dx(), b.Dy())
	if err != nil {
		return nil, nil, err
	}
	return tex, extras, nil
}

// Paper builds one finished paper texture of the given size: acquisition,
// optional second-texture blend, colorize or gray collapse, and brightness
// normalization. The result can be smaller than the requested size when the
// procedural path trims texture edges.
func (f *Factory) Paper(width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("paper: size must be positive, got %dx%d", width, height)
	}
	rng := f.gen.Rand()

	tex, err := f.acquire(width, height)
	if err != nil {
		return nil, err
	}

	if f.blendFlag.resolve(rng) {
		b := tex.Bounds()
		second, err := f.acquire(b.Dx(), b.Dy())
		if err != nil {
			return nil, err
		}
		second = imageutil.Resize(second, b.Dx(), b.Dy())
		mode := f.blendMode.resolve(rng)
		f.logf("blending textures", "mode", string(mode))
		tex, err = compose.Compose(second, tex, mode, 1)
		if err != nil {
			return nil, err
		}
	}

	if f.enableColor.resolve(rng) {
		if g, ok := tex.(*image.Gray); ok {
			hue := 10 + rng.Intn(236)
			sat := 60 + rng.Intn(136)
			tex, err = colorize.Colorize(g, hue-10, hue+10, sat-10, sat+10, rng)
			if err != nil {
				return nil, err
			}
		}
	} else if !imageutil.IsGray(tex) {
		tex = imageutil.ToGray(tex)
	}

	intensity := imageutil.AverageIntensity(tex)
	if intensity > 0 && intensity < targetIntensity {
		ratio := (targetIntensity - intensity) / intensity
		tex, err = colorize.Brighten(tex, 1+ratio/2, 1+ratio, rng)
		if err != nil {
			return nil, err
		}
	}
	return tex, nil
}

// acquire picks the texture source: library retrieval when any textures are
// loaded, procedural synthesis otherwise.
func (f *Factory) acquire(width, height int) (image.Image, error) {
	if f.lib.Len() > 0 {
		return f.retrieve(width, height)
	}
	return f.synthesize(width, height)
}

// retrieve picks a random library texture, rotates it by a random quarter
// turn, crops degenerate borders, then fits the result to the target size.
func (f *Factory) retrieve(width, height int) (image.Image, error) {
	rng := f.gen.Rand()
	i := rng.Intn(f.lib.Len())
	f.logf("retrieved library texture", "file", f.lib.Name(i))

	tex := imageutil.RandomQuarterTurn(f.lib.texture(i), rng)
	tex = edgecrop.Crop(tex)

	b := tex.Bounds()
	if b.Dx() > width && b.Dy() > height {
		return canvas.RandomCrop(tex, width, height, rng), nil
	}
	fitted, err := canvas.Fit(tex, width, height, rng)
	if err != nil {
		return nil, err
	}
	return canvas.CropExact(fitted, width, height), nil
}

// synthesize builds a procedural paper: one base texture combined with one
// edge texture, then up to two trimmed sides.
func (f *Factory) synthesize(width, height int) (image.Image, error) {
	rng := f.gen.Rand()

	baseKind := texture.BaseKinds[rng.Intn(len(texture.BaseKinds))]
	img, err := f.gen.Generate(baseKind, width, height)
	if err != nil {
		return nil, err
	}
	base := imageutil.ToGray(img)
	f.logf("synthesized base texture", "kind", string(baseKind))

	if f.quilt.resolve(rng) {
		base, err = f.quiltTexture(base, width, height)
		if err != nil {
			return nil, err
		}
	}

	edgeKind := texture.EdgeKinds[rng.Intn(len(texture.EdgeKinds))]
	eimg, err := f.gen.Generate(edgeKind, width, height)
	if err != nil {
		return nil, err
	}
	edge := imageutil.ToGray(eimg)
	f.logf("synthesized edge texture", "kind", string(edgeKind))

	if edgeKind == texture.KindCurvyEdge {
		base = multiplyScaled(base, edge)
	} else {
		mask := largestInteriorMask(edge, width, height)
		for i := range base.Pix {
			if mask.Pix[i] == 0 || edge.Pix[i] == 0 {
				base.Pix[i] = 0
			}
		}
	}

	return f.cropSides(base, width, height), nil
}

// quiltTexture re-stitches the base texture from tonally matched patches and
// resizes back to the requested dimensions.
func (f *Factory) quiltTexture(base *image.Gray, width, height int) (*image.Gray, error) {
	rng := f.gen.Rand()
	patchSize := f.quiltMin + rng.Intn(f.quiltMax-f.quiltMin+1)
	countW := width / patchSize
	countH := height / patchSize
	if countW < 1 || countH < 1 {
		return base, nil
	}
	quilted, err := f.gen.Quilt(base, patchSize, countW, countH, texture.StretchContrast{})
	if err != nil {
		return nil, err
	}
	return imageutil.ResizeGray(imageutil.ToGray(quilted), width, height), nil
}

// largestInteriorMask finds the dominant contour that sits fully inside the
// image and returns its filled region. Without such a contour the mask stays
// empty and the caller zeroes the whole texture.
func largestInteriorMask(edge *image.Gray, width, height int) *image.Gray {
	binary := edgecrop.Binarize(edge)
	minArea := float64(width) * float64(height) * 0.6
	for _, c := range edgecrop.Contours(binary) {
		if c.Inner {
			continue
		}
		if c.Area > minArea && c.Bounds.Dx() != width && c.Bounds.Dy() != height {
			return c.Fill(width, height)
		}
	}
	return image.NewGray(image.Rect(0, 0, width, height))
}

// multiplyScaled blends an edge mask into a base texture as a per-pixel
// normalized product.
func multiplyScaled(base, edge *image.Gray) *image.Gray {
	out := image.NewGray(base.Bounds())
	for i := range base.Pix {
		out.Pix[i] = uint8((int(base.Pix[i])*int(edge.Pix[i]) + 127) / 255)
	}
	return out
}

// cropSides trims a twentieth of the texture off up to two distinct sides,
// each trim gated by a coin flip.
func (f *Factory) cropSides(g *image.Gray, width, height int) *image.Gray {
	rng := f.gen.Rand()
	if rng.Intn(2) == 0 {
		return g
	}
	cropX, cropY := width/20, height/20
	sides := []int{0, 1, 2, 3}
	first := rng.Intn(len(sides))
	g = cropSide(g, sides[first], cropX, cropY)
	if rng.Intn(2) == 1 {
		sides = append(sides[:first], sides[first+1:]...)
		g = cropSide(g, sides[rng.Intn(len(sides))], cropX, cropY)
	}
	return g
}

func cropSide(g *image.Gray, side, cropX, cropY int) *image.Gray {
	b := g.Bounds()
	r := b
	switch side {
	case 0:
		r.Min.Y += cropY
	case 1:
		r.Max.Y -= cropY
	case 2:
		r.Min.X += cropX
	case 3:
		r.Max.X -= cropX
	}
	if r.Dx() <= 0 || r.Dy() <= 0 {
		return g
	}
	return imageutil.CropGray(g, r)
}

func (f *Factory) logf(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Debug(msg, args...)
	}
}
