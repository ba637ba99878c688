package cache

import "fmt"

// schemaVersion is mixed into every key; bump it when an artifact's
// serialized form changes.
const schemaVersion = 1

// Keyer derives cache keys for pipeline artifacts.
type Keyer interface {
	// CoverKey names the cover CSV for an equatorial count.
	CoverKey(equatorialCount int) string

	// TerrainKey names the terrain CSV for a covering classified against a
	// texture, identified by the hash of its bytes.
	TerrainKey(equatorialCount int, textureHash string) string

	// GlobeKey names the viewer payload built from a terrain CSV.
	GlobeKey(terrainHash string) string
}

// DefaultKeyer produces "kind:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// CoverKey implements [Keyer].
func (DefaultKeyer) CoverKey(equatorialCount int) string {
	return fmt.Sprintf("cover:v%d:%d", schemaVersion, equatorialCount)
}

// TerrainKey implements [Keyer].
func (DefaultKeyer) TerrainKey(equatorialCount int, textureHash string) string {
	return hashKey("terrain", schemaVersion, equatorialCount, textureHash)
}

// GlobeKey implements [Keyer].
func (DefaultKeyer) GlobeKey(terrainHash string) string {
	return hashKey("globe", schemaVersion, terrainHash)
}

var _ Keyer = DefaultKeyer{}
