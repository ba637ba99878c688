package io

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/globecover/pkg/cover"
)

// Degrees converts a point to degrees rounded to 4 decimals.
func Degrees(p cover.Point) cover.LatLon {
	ll := p.LatLon()
	return cover.LatLon{Lat: round4(ll.Lat), Lon: round4(ll.Lon)}
}

// FormatDegrees converts an angle in radians to the cover CSV text form.
func FormatDegrees(rad float64) string {
	return formatFloat(round4(rad * 180 / math.Pi))
}

// round4 rounds half to even on the exact decimal expansion of v.
func round4(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 4, 64), 64)
	return r
}

// formatFloat writes v in shortest round-trip form with a fractional part.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
