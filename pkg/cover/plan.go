package cover

import (
	"math"

	"github.com/matzehuels/globecover/pkg/errors"
)

// Rung is one latitude band of the covering, excluding the poles.
type Rung struct {
	Index     int     `json:"index"`     // 0 is the equator
	Elevation float64 `json:"elevation"` // radians, northern side
	Count     int     `json:"count"`     // points on the northern side
	Step      float64 `json:"step"`      // azimuthal spacing, 2π/Count
	Start     float64 `json:"start"`     // azimuth of the first point, in (−π, π]
}

// RungCount returns R = max(round(N/2) − 1, 0), the number of rungs for an
// equatorial count N. Halves round to even.
func RungCount(equatorialCount int) int {
	r := int(math.RoundToEven(float64(equatorialCount)/2)) - 1
	if r < 0 {
		return 0
	}
	return r
}

// PointsOnRung returns the number of points on rung r for an equatorial
// count N, or 0 if r is not a rung of that covering.
func PointsOnRung(equatorialCount, r int) int {
	rungs := RungCount(equatorialCount)
	if equatorialCount <= 0 || r < 0 || r >= rungs {
		return 0
	}
	return pointsOn(equatorialCount, elevationStep(rungs), r)
}

// Plan returns the rung schedule for an equatorial count: elevation, point
// count, spacing and starting azimuth of each rung, equator first.
//
// Starting azimuths are folded forward: rung r+1 starts where rung r started,
// shifted by the alternating half step, the density-drop turn and the
// quantized rotation.
func Plan(equatorialCount int) ([]Rung, error) {
	if err := errors.ValidateEquatorialCount(equatorialCount); err != nil {
		return nil, err
	}

	n := RungCount(equatorialCount)
	if n == 0 {
		return nil, nil
	}

	psiStep := elevationStep(n)
	rotation := rotationTurns * 2 * math.Pi / float64(n)

	rungs := make([]Rung, 0, n)
	start := 0.0
	for r := 0; r < n; r++ {
		count := pointsOn(equatorialCount, psiStep, r)
		rung := Rung{
			Index:     r,
			Elevation: psiStep * float64(r),
			Count:     count,
			Step:      2 * (math.Pi / float64(count)),
			Start:     start,
		}
		rungs = append(rungs, rung)
		start = rung.next(pointsOn(equatorialCount, psiStep, r+1), rotation)
	}
	return rungs, nil
}

// next returns the starting azimuth of the following rung, given that
// rung's point count.
func (r Rung) next(nextCount int, rotation float64) float64 {
	halfStep := math.Pi / float64(r.Count)
	if r.Index%2 == 1 {
		halfStep = -halfStep
	}

	raw := r.Start + halfStep
	if nextCount < r.Count {
		raw += twoPi / densityDivisor
	}
	raw += float64(r.Step * math.RoundToEven(rotation/r.Step))
	return Normalize(raw)
}

func elevationStep(rungs int) float64 {
	return halfPi / float64(rungs+1)
}

func pointsOn(equatorialCount int, psiStep float64, r int) int {
	psi := psiStep * float64(r)
	n := int(math.RoundToEven(float64(math.Cos(psi) * float64(equatorialCount))))
	return max(MinPointsPerRung, n)
}
