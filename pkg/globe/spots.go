package globe

import "fmt"

// Place is a named location read from the places table.
type Place struct {
	Name string
	Lat  float64
	Lon  float64
	Note string
}

// Spot is a projected place with its display strings.
type Spot struct {
	Group     Group   `json:"group"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
	Color     int     `json:"color"`
	Place     string  `json:"place"`
	Latitude  string  `json:"latitude"`
	Longitude string  `json:"longitude"`
	Note      string  `json:"note"`
	JumpLat   float64 `json:"jump_lat"`
	JumpLon   float64 `json:"jump_lon"`
}

// Spots projects places into silver group-3 markers.
func Spots(places []Place) []Spot {
	silver, _ := ColorIndex(Silver)
	out := make([]Spot, 0, len(places))
	for _, p := range places {
		pos := Project(p.Lat, p.Lon)
		out = append(out, Spot{
			Group:     GroupSpots,
			X:         pos.X,
			Y:         pos.Y,
			Z:         pos.Z,
			Color:     silver,
			Place:     p.Name,
			Latitude:  hemisphere(p.Lat, "N", "S"),
			Longitude: hemisphere(p.Lon, "E", "W"),
			Note:      p.Note,
			JumpLat:   p.Lat,
			JumpLon:   p.Lon,
		})
	}
	return out
}

// hemisphere formats an angle as "12.3° N"; zero counts as positive.
func hemisphere(deg float64, pos, neg string) string {
	dir := pos
	if deg < 0 {
		dir = neg
		deg = -deg
	}
	return fmt.Sprintf("%.1f° %s", deg, dir)
}
