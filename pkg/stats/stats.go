// Package stats measures how evenly a covering spreads over the sphere.
//
// The sphere is cut into equal-area HEALPix pixels and the covering points
// are counted per pixel. For a uniform covering every pixel holds about the
// same number of points, so the spread of those counts is a direct measure
// of uniformity.
package stats

import (
	"math"

	"github.com/owlpinetech/healpix"

	"github.com/matzehuels/globecover/pkg/cover"
	"github.com/matzehuels/globecover/pkg/errors"
)

// MaxOrder bounds the pixelization depth; order 10 has 12,582,912 pixels.
const MaxOrder = 10

// Report summarizes per-pixel point counts.
type Report struct {
	Order  int `json:"order"`
	Pixels int `json:"pixels"`
	Points int `json:"points"`

	// Empty is the number of pixels with no point.
	Empty int `json:"empty"`

	Min    int     `json:"min"`
	Max    int     `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`

	// Ratio is Max/Min, or +Inf when some pixel is empty.
	Ratio float64 `json:"ratio"`
}

// Uniform reports whether every pixel is hit and the fullest pixel holds at
// most tolerance times the emptiest.
func (r Report) Uniform(tolerance float64) bool {
	return r.Empty == 0 && r.Ratio <= tolerance
}

// Uniformity bins points into HEALPix pixels of the given order using the
// nested scheme. Azimuths in (−π, 0) are shifted into [0, 2π) first, the
// longitude range healpix expects.
func Uniformity(points []cover.Point, order int) (Report, error) {
	if order < 0 || order > MaxOrder {
		return Report{}, errors.New(errors.ErrCodeInvalidParameter, "healpix order must be in [0, %d], got %d", MaxOrder, order)
	}

	o := healpix.HealpixOrder(order)
	counts := make([]int, o.Pixels())
	for _, p := range points {
		lon := p.Azimuth
		if lon < 0 {
			lon += 2 * math.Pi
		}
		id := healpix.NewLatLonCoordinate(p.Elevation, lon).PixelId(o, healpix.NestScheme)
		counts[id]++
	}
	return summarize(order, len(points), counts), nil
}

// SuggestOrder returns the deepest order that still leaves about eight
// points per pixel, so pixel counts are not dominated by sampling noise.
func SuggestOrder(points int) int {
	const perPixel = 8
	order := 0
	for order < MaxOrder && healpix.HealpixOrder(order+1).Pixels()*perPixel <= points {
		order++
	}
	return order
}

func summarize(order, points int, counts []int) Report {
	r := Report{
		Order:  order,
		Pixels: len(counts),
		Points: points,
		Min:    math.MaxInt,
	}
	for _, c := range counts {
		if c == 0 {
			r.Empty++
		}
		r.Min = min(r.Min, c)
		r.Max = max(r.Max, c)
	}
	r.Mean = float64(points) / float64(len(counts))

	var ss float64
	for _, c := range counts {
		d := float64(c) - r.Mean
		ss += d * d
	}
	r.StdDev = math.Sqrt(ss / float64(len(counts)))

	if r.Min == 0 {
		r.Ratio = math.Inf(1)
	} else {
		r.Ratio = float64(r.Max) / float64(r.Min)
	}
	return r
}
