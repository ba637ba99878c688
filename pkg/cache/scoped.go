package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one Redis without colliding, for example "staging:" and "prod:".
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// CoverKey generates a prefixed key for cover caching.
func (k *ScopedKeyer) CoverKey(equatorialCount int) string {
	return k.prefix + k.inner.CoverKey(equatorialCount)
}

// TerrainKey generates a prefixed key for terrain caching.
func (k *ScopedKeyer) TerrainKey(equatorialCount int, textureHash string) string {
	return k.prefix + k.inner.TerrainKey(equatorialCount, textureHash)
}

// GlobeKey generates a prefixed key for payload caching.
func (k *ScopedKeyer) GlobeKey(terrainHash string) string {
	return k.prefix + k.inner.GlobeKey(terrainHash)
}
