// Package cover computes a near-uniform, deterministic covering of the unit
// sphere by points.
//
// # Overview
//
// The covering is built from latitude bands ("rungs") climbing from the
// equator towards the poles. Rung 0 is the equator; rung r sits at elevation
// r·(π/2)/(R+1) where R = max(round(N/2)−1, 0) and N is the target number of
// points along the equator. Each rung carries max(3, round(cos(ψ)·N)) points,
// evenly spaced in azimuth. Every rung above the equator is mirrored into the
// southern hemisphere, and the two poles are appended last.
//
// # Anti-alignment
//
// Starting every rung at azimuth 0 would leave visible meridian "stripes"
// through the rendered globe. Each rung's starting azimuth is instead carried
// forward from the previous rung plus three offsets: an alternating half step,
// a fixed 2π/7.777777 turn whenever the next rung is sparser, and a rotation
// of 333.4444·2π/R rounded to a whole number of the rung's own steps. The two
// constants are empirical and must be kept bit-for-bit: downstream artifacts
// are diffed against earlier runs.
//
// Mirrored points negate the azimuth as well as the elevation. This is not the
// geometric reflection through the equatorial plane, and it is kept that way
// for output parity.
//
// # Usage
//
//	pts, err := cover.Generate(500)
//	if err != nil {
//	    return err
//	}
//	for _, p := range pts {
//	    fmt.Println(p.ElevationDegrees(), p.AzimuthDegrees())
//	}
//
// [Plan] exposes the rung schedule without emitting points, and [Total]
// predicts the output length.
package cover
