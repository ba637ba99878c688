package globe

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/matzehuels/globecover/pkg/errors"
	"github.com/matzehuels/globecover/pkg/terrain"
)

// Oblateness is Earth's flattening, applied as an equatorial bulge.
const Oblateness = 0.00336413942215

// Colour names used beyond the terrain palette.
const (
	Red    = "red"
	Black  = "black"
	Gold   = "gold"
	Silver = "silver"
)

// Color is one entry of the colour enumeration.
type Color struct {
	Index int
	Name  string
	RGB   string // "r,g,b"
}

// MarshalJSON encodes the colour as [index, name, rgb].
func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{c.Index, c.Name, c.RGB})
}

// Colors is the colour enumeration shared with the viewer.
var Colors = []Color{
	{0, terrain.White, "230,239,245"},
	{1, terrain.Blue, "131,212,245"},
	{2, terrain.Beige, "189,173,158"},
	{3, terrain.Turquoise, "94,255,222"},
	{4, terrain.Green, "52,144,24"},
	{5, Red, "143,27,27"},
	{6, Black, "7,1,24"},
	{7, Gold, "224,190,130"},
	{8, Silver, "192,192,192"},
}

// ColorIndex returns the enumeration index of a colour name.
func ColorIndex(name string) (int, bool) {
	for _, c := range Colors {
		if c.Name == name {
			return c.Index, true
		}
	}
	return 0, false
}

// Group identifies a class of points in the payload.
type Group int

const (
	GroupTerrain   Group = 1 // land and sea samples
	GroupLatitudes Group = 2 // reference latitudes and poles
	GroupSpots     Group = 3 // named places
)

// GroupInfo is one entry of the group enumeration.
type GroupInfo struct {
	ID   Group
	Name string
}

// MarshalJSON encodes the group as [id, name].
func (g GroupInfo) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{int(g.ID), g.Name})
}

// Groups is the group enumeration shared with the viewer.
var Groups = []GroupInfo{
	{GroupTerrain, "earth_terrain"},
	{GroupLatitudes, "earth_latitudes"},
	{GroupSpots, "special_spots"},
}

// Latitude is a reference parallel drawn on the globe.
type Latitude struct {
	Degrees float64
	Color   string
}

// ReferenceLatitudes are drawn south to north.
var ReferenceLatitudes = []Latitude{
	{-66.6, terrain.White}, // antarctic circle
	{-23.4, Gold},          // tropic of capricorn
	{0, Red},               // equator
	{23.4, Gold},           // tropic of cancer
	{66.6, terrain.White},  // arctic circle
}

// XYZ is a Cartesian position on the spheroid.
type XYZ struct {
	X, Y, Z float64
}

// Point is one payload point.
type Point struct {
	Group Group
	XYZ
	Color int
}

// MarshalJSON encodes the point as [group, x, y, z, color].
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{int(p.Group), p.X, p.Y, p.Z, p.Color})
}

// Payload is the complete viewer input.
type Payload struct {
	Colors []Color
	Groups []GroupInfo
	Points []Point
}

// MarshalJSON encodes the payload as [colors, groups, points].
func (p *Payload) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{p.Colors, p.Groups, p.Points})
}

// Count returns the number of points in group g.
func (p *Payload) Count(g Group) int {
	n := 0
	for _, pt := range p.Points {
		if pt.Group == g {
			n++
		}
	}
	return n
}

// pi is a variable so degree conversion rounds like a runtime float64
// division instead of an exact constant.
var pi = math.Pi

// Project maps a latitude and longitude in degrees onto the oblate spheroid.
func Project(lat, lon float64) XYZ {
	east := lon * (pi / 180)
	north := lat * (pi / 180)

	z := math.Sin(north)
	bulge := 1.0 + float64(Oblateness*(1.0-math.Abs(z)))
	radius := float64(math.Cos(north) * bulge)

	return XYZ{
		X: round7(float64(math.Cos(east) * radius)),
		Y: round7(float64(math.Sin(east) * radius)),
		Z: round7(z),
	}
}

func round7(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 7, 64), 64)
	return r
}

// Build assembles the payload: terrain samples first, then the north and
// south poles, then 36 points on each reference latitude at 5°, 15°, … 355°.
func Build(samples []terrain.Sample) (*Payload, error) {
	out := &Payload{
		Colors: Colors,
		Groups: Groups,
		Points: make([]Point, 0, len(samples)+2+36*len(ReferenceLatitudes)),
	}

	for i, s := range samples {
		idx, ok := ColorIndex(s.Color)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "sample %d: unknown colour %q", i, s.Color)
		}
		out.Points = append(out.Points, Point{Group: GroupTerrain, XYZ: Project(s.Lat, s.Lon), Color: idx})
	}

	gold, _ := ColorIndex(Gold)
	white, _ := ColorIndex(terrain.White)
	out.Points = append(out.Points,
		Point{Group: GroupLatitudes, XYZ: XYZ{0, 0, 1}, Color: gold},
		Point{Group: GroupLatitudes, XYZ: XYZ{0, 0, -1}, Color: white},
	)

	for _, l := range ReferenceLatitudes {
		idx, _ := ColorIndex(l.Color)
		for deg := 5; deg < 360; deg += 10 {
			out.Points = append(out.Points, Point{Group: GroupLatitudes, XYZ: Project(l.Degrees, float64(deg)), Color: idx})
		}
	}
	return out, nil
}

// PointCount returns the payload size [Build] produces for n samples.
func PointCount(samples int) int {
	return samples + 2 + 36*len(ReferenceLatitudes)
}
