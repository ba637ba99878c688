package terrain

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"os"
	"runtime"

	// Standard library raster decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	// Extended raster decoders.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/owlpinetech/flatsphere"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/globecover/pkg/cover"
	"github.com/matzehuels/globecover/pkg/errors"
)

// PolarIceLatitude is the absolute latitude, in degrees, below which white
// texture pixels are reported as beige.
const PolarIceLatitude = 60.0

// chunkSize is the number of points classified per worker task.
const chunkSize = 4096

// Sample is a classified point in degrees.
type Sample struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Color string  `json:"color"`
}

// Classifier maps geographic positions to terrain colour names.
// It is safe for concurrent use once constructed.
type Classifier struct {
	img     image.Image
	rect    image.Rectangle
	proj    flatsphere.Equirectangular
	xMin    float64
	yMin    float64
	xSpan   float64
	ySpan   float64
	palette []Swatch
	exact   map[rgb]string
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithPalette replaces [DefaultPalette].
func WithPalette(p []Swatch) Option {
	return func(c *Classifier) { c.palette = p }
}

// New creates a classifier over an equirectangular texture.
func New(img image.Image, opts ...Option) (*Classifier, error) {
	if img == nil {
		return nil, errors.New(errors.ErrCodeInvalidRaster, "texture is nil")
	}
	rect := img.Bounds()
	if rect.Dx() <= 0 || rect.Dy() <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidRaster, "texture is empty (%dx%d)", rect.Dx(), rect.Dy())
	}

	proj := flatsphere.NewEquirectangular(0)
	bounds := proj.PlanarBounds()
	c := &Classifier{
		img:     img,
		rect:    rect,
		proj:    proj,
		xMin:    bounds.XMin,
		yMin:    bounds.YMin,
		xSpan:   bounds.Width(),
		ySpan:   bounds.Height(),
		palette: DefaultPalette,
	}
	for _, opt := range opts {
		opt(c)
	}
	if len(c.palette) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "palette is empty")
	}

	c.exact = make(map[rgb]string, len(c.palette))
	for _, s := range c.palette {
		if _, dup := c.exact[key(s.RGB)]; !dup {
			c.exact[key(s.RGB)] = s.Name
		}
	}
	return c, nil
}

// Decode reads a texture in any registered image format.
func Decode(r io.Reader, opts ...Option) (*Classifier, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRaster, err, "decode texture")
	}
	return New(img, opts...)
}

// Load opens and decodes the texture at path.
func Load(path string, opts ...Option) (*Classifier, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "texture %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f, opts...)
}

// Size returns the texture dimensions in pixels.
func (c *Classifier) Size() (width, height int) {
	return c.rect.Dx(), c.rect.Dy()
}

// Pixel returns the texture coordinates, relative to the image origin, that
// hold the given latitude and longitude (degrees). Longitudes wrap; latitudes
// are clamped to the first and last pixel rows.
func (c *Classifier) Pixel(lat, lon float64) (x, y int) {
	w, h := c.Size()
	px, py := c.proj.Project(lat*math.Pi/180, lon*math.Pi/180)

	fx := (px - c.xMin) / c.xSpan * float64(w)
	fy := (1 - (py-c.yMin)/c.ySpan) * float64(h)

	x = int(fx) % w
	if x < 0 {
		x += w
	}
	y = min(max(int(fy), 0), h-1)
	return x, y
}

// Lookup returns the palette name of the texture pixel at lat/lon, without
// the polar ice rule.
func (c *Classifier) Lookup(lat, lon float64) string {
	x, y := c.Pixel(lat, lon)
	px := color.NRGBAModel.Convert(c.img.At(c.rect.Min.X+x, c.rect.Min.Y+y)).(color.NRGBA)
	if name, ok := c.exact[key(px)]; ok {
		return name
	}
	return nearest(c.palette, px)
}

// Classify returns the terrain colour at lat/lon in degrees.
func (c *Classifier) Classify(lat, lon float64) string {
	name := c.Lookup(lat, lon)
	if name == White && math.Abs(lat) < PolarIceLatitude {
		return Beige
	}
	return name
}

// ClassifyAll classifies every position, preserving order. Work is split
// across GOMAXPROCS workers and stops early when ctx is cancelled.
func (c *Classifier) ClassifyAll(ctx context.Context, pts []cover.LatLon) ([]Sample, error) {
	out := make([]Sample, len(pts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for lo := 0; lo < len(pts); lo += chunkSize {
		lo := lo
		hi := min(lo+chunkSize, len(pts))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := lo; i < hi; i++ {
				p := pts[i]
				out[i] = Sample{Lat: p.Lat, Lon: p.Lon, Color: c.Classify(p.Lat, p.Lon)}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
