package terrain

import "image/color"

// Terrain colour names produced by a [Classifier].
const (
	White     = "white"
	Blue      = "blue"
	Turquoise = "turquoise"
	Green     = "green"
	Beige     = "beige"
)

// Swatch is one palette entry: the exact texture colour and its name.
type Swatch struct {
	RGB  color.NRGBA
	Name string
}

// DefaultPalette lists the texture colours in match priority order.
// Nearest-colour ties resolve to the earlier entry.
var DefaultPalette = []Swatch{
	{RGB: color.NRGBA{R: 254, G: 254, B: 254, A: 255}, Name: White},
	{RGB: color.NRGBA{R: 0, G: 102, B: 204, A: 255}, Name: Blue},
	{RGB: color.NRGBA{R: 64, G: 224, B: 208, A: 255}, Name: Turquoise},
	{RGB: color.NRGBA{R: 34, G: 139, B: 34, A: 255}, Name: Green},
	{RGB: color.NRGBA{R: 210, G: 180, B: 140, A: 255}, Name: Beige},
}

type rgb [3]uint8

func key(c color.NRGBA) rgb { return rgb{c.R, c.G, c.B} }

// nearest returns the palette name closest to c. Alpha is ignored.
func nearest(palette []Swatch, c color.NRGBA) string {
	best, bestDist := "", -1
	for _, s := range palette {
		dr := int(c.R) - int(s.RGB.R)
		dg := int(c.G) - int(s.RGB.G)
		db := int(c.B) - int(s.RGB.B)
		d := dr*dr + dg*dg + db*db
		if bestDist < 0 || d < bestDist {
			best, bestDist = s.Name, d
		}
	}
	return best
}
