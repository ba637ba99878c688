package cover

import "math"

const (
	// DefaultEquatorialCount is the reference configuration.
	DefaultEquatorialCount = 500

	// MinPointsPerRung keeps every rung a proper polygon and its azimuthal
	// step finite, however close to a pole it sits.
	MinPointsPerRung = 3

	halfPi = math.Pi / 2
	twoPi  = 2 * math.Pi
)

// Decorrelation constants for the rung start offsets. They are variables so
// that the offsets derived from them use float64 arithmetic, not exact
// constant folding, and reproduce the reference output bit for bit.
var (
	densityDivisor = 7.777777
	rotationTurns  = 333.4444
)

// Point is a location on the unit sphere in radians.
// Azimuth lies in (−π, π]; Elevation lies in [−π/2, π/2], positive north.
type Point struct {
	Azimuth   float64 `json:"azimuth"`
	Elevation float64 `json:"elevation"`
}

// North and South are the two pole points closing every covering.
// Azimuth is undefined at a pole and conventionally 0.
var (
	North = Point{Azimuth: 0, Elevation: halfPi}
	South = Point{Azimuth: 0, Elevation: -halfPi}
)

// AzimuthDegrees returns the azimuth converted to degrees.
func (p Point) AzimuthDegrees() float64 { return p.Azimuth * 180 / math.Pi }

// ElevationDegrees returns the elevation converted to degrees.
func (p Point) ElevationDegrees() float64 { return p.Elevation * 180 / math.Pi }

// IsPole reports whether p is one of the poles.
func (p Point) IsPole() bool { return math.Abs(p.Elevation) == halfPi }

// Generate returns the covering for the given equatorial point count.
//
// Points are ordered rung by rung from the equator outwards; each northern
// point of rung r > 0 is immediately followed by its southern mirror. The
// north and south poles come last. For equatorialCount ≤ 2 the result is
// just the two poles.
//
// Generate is pure: equal inputs give bit-identical outputs, and it is safe
// for concurrent use.
func Generate(equatorialCount int) ([]Point, error) {
	rungs, err := Plan(equatorialCount)
	if err != nil {
		return nil, err
	}

	pts := make([]Point, 0, total(rungs))
	for _, r := range rungs {
		pts = r.emit(pts)
	}
	return append(pts, North, South), nil
}

// Total returns the number of points [Generate] would produce:
// 2 + n(0) + 2·Σ n(r) for r in 1..R−1.
func Total(equatorialCount int) (int, error) {
	rungs, err := Plan(equatorialCount)
	if err != nil {
		return 0, err
	}
	return total(rungs), nil
}

func total(rungs []Rung) int {
	n := 2
	for _, r := range rungs {
		if r.Index == 0 {
			n += r.Count
		} else {
			n += 2 * r.Count
		}
	}
	return n
}

// emit appends the rung's points, and their southern mirrors above the
// equator, to dst.
func (r Rung) emit(dst []Point) []Point {
	for i := 0; i < r.Count; i++ {
		sig := Normalize(float64(r.Step*float64(i)) + r.Start)
		dst = append(dst, Point{Azimuth: sig, Elevation: r.Elevation})
		if r.Index > 0 {
			dst = append(dst, Point{Azimuth: mirror(sig), Elevation: -r.Elevation})
		}
	}
	return dst
}

// Normalize maps a finite angle into (−π, π]. Non-finite input yields NaN.
func Normalize(angle float64) float64 {
	a := floorMod(angle, twoPi)
	if a > math.Pi {
		a -= twoPi
	}
	return a
}

// floorMod returns x mod m with the sign of m (m > 0).
func floorMod(x, m float64) float64 {
	r := math.Mod(x, m)
	if r == 0 {
		return 0
	}
	if r < 0 {
		r += m
	}
	return r
}

// mirror negates an azimuth that is already in (−π, π]. Only −π needs
// folding back; going through floorMod would perturb the low bits.
func mirror(sig float64) float64 {
	m := -sig
	if m <= -math.Pi {
		m += twoPi
	}
	return m
}

// LatLon is a geographic position in degrees, latitude first.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// LatLon returns p in degrees with elevation as latitude and azimuth as
// longitude. No rounding is applied.
func (p Point) LatLon() LatLon {
	return LatLon{Lat: p.ElevationDegrees(), Lon: p.AzimuthDegrees()}
}
