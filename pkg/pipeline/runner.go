package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/globecover/pkg/cache"
	"github.com/matzehuels/globecover/pkg/errors"
	"github.com/matzehuels/globecover/pkg/globe"
	gio "github.com/matzehuels/globecover/pkg/io"
	"github.com/matzehuels/globecover/pkg/observability"
	"github.com/matzehuels/globecover/pkg/terrain"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so caching behaves the same everywhere.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the per-stage cache lifetimes when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete cover → classify → build pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{RunID: uuid.NewString()}
	logger := opts.Logger.With("run", result.RunID[:8])

	// Stage 1: Cover
	start := time.Now()
	cov, hit, err := r.CoverWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Cover = cov
	result.Stats.Points = len(cov.Points)
	result.Stats.CoverTime = time.Since(start)
	result.CacheInfo.CoverHit = hit

	logger.Info("generated covering",
		"equatorial_count", opts.EquatorialCount,
		"points", result.Stats.Points,
		"cached", hit,
		"duration", result.Stats.CoverTime)

	// Stage 2: Classify
	start = time.Now()
	ter, hit, err := r.ClassifyWithCacheInfo(ctx, cov, opts)
	if err != nil {
		return nil, err
	}
	result.Terrain = ter
	result.Stats.Samples = len(ter.Samples)
	result.Stats.ClassifyTime = time.Since(start)
	result.CacheInfo.ClassifyHit = hit

	logger.Info("classified terrain",
		"texture", opts.textureLabel(),
		"samples", result.Stats.Samples,
		"cached", hit,
		"duration", result.Stats.ClassifyTime)

	// Stage 3: Build
	start = time.Now()
	glb, hit, err := r.BuildWithCacheInfo(ctx, ter, opts)
	if err != nil {
		return nil, err
	}
	result.Globe = glb
	result.Stats.GlobePoints = glb.Points
	result.Stats.Spots = glb.SpotCount
	result.Stats.BuildTime = time.Since(start)
	result.CacheInfo.BuildHit = hit

	logger.Info("built globe",
		"points", glb.Points,
		"spots", glb.SpotCount,
		"cached", hit,
		"duration", result.Stats.BuildTime)

	return result, nil
}

// CoverWithCacheInfo generates the covering with caching and returns cache
// hit info.
func (r *Runner) CoverWithCacheInfo(ctx context.Context, opts Options) (out *CoverOutput, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForCover(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnCoverStart(ctx, opts.EquatorialCount)
	start := time.Now()
	defer func() {
		n := 0
		if out != nil {
			n = len(out.Points)
		}
		hooks.OnCoverComplete(ctx, opts.EquatorialCount, n, time.Since(start), err)
	}()

	key := r.Keyer.CoverKey(opts.EquatorialCount)
	if data, ok := r.lookup(ctx, "cover", key, opts); ok {
		if cached, err := decodeCover(opts.EquatorialCount, data); err == nil {
			return cached, true, nil
		}
		opts.Logger.Warn("discarding unreadable cached covering", "key", key)
	}

	out, err = GenerateCover(opts)
	if err != nil {
		return nil, false, err
	}
	r.store(ctx, "cover", key, out.CSV, cache.TTLCover, opts)
	return out, false, nil
}

// Cover is a convenience wrapper that calls CoverWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Cover(ctx context.Context, opts Options) (*CoverOutput, error) {
	out, _, err := r.CoverWithCacheInfo(ctx, opts)
	return out, err
}

// ClassifyWithCacheInfo classifies a covering against the texture with
// caching and returns cache hit info. The texture is only decoded on a miss.
func (r *Runner) ClassifyWithCacheInfo(ctx context.Context, cov *CoverOutput, opts Options) (out *TerrainOutput, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForClassify(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnClassifyStart(ctx, opts.textureLabel(), len(cov.Points))
	start := time.Now()
	defer func() {
		n := 0
		if out != nil {
			n = len(out.Samples)
		}
		hooks.OnClassifyComplete(ctx, opts.textureLabel(), n, time.Since(start), err)
	}()

	textureHash := opts.TextureHash
	if textureHash == "" {
		if textureHash, err = cache.HashFile(opts.Texture); err != nil {
			return nil, false, errors.Wrap(errors.ErrCodeFileNotFound, err, "texture %s", opts.Texture)
		}
	}

	key := r.Keyer.TerrainKey(cov.EquatorialCount, textureHash)
	if data, ok := r.lookup(ctx, "terrain", key, opts); ok {
		if cached, err := decodeTerrain(data); err == nil {
			cached.Hash = cache.Hash(data)
			return cached, true, nil
		}
		opts.Logger.Warn("discarding unreadable cached terrain", "key", key)
	}

	classifier := opts.Classifier
	if classifier == nil {
		opts.Logger.Debug("loading texture", "path", opts.Texture)
		if classifier, err = terrain.Load(opts.Texture); err != nil {
			return nil, false, err
		}
	}

	out, err = ClassifyPoints(ctx, classifier, cov.Points)
	if err != nil {
		return nil, false, err
	}
	out.Hash = cache.Hash(out.CSV)
	r.store(ctx, "terrain", key, out.CSV, cache.TTLTerrain, opts)
	return out, false, nil
}

// Classify is a convenience wrapper that calls ClassifyWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Classify(ctx context.Context, cov *CoverOutput, opts Options) (*TerrainOutput, error) {
	out, _, err := r.ClassifyWithCacheInfo(ctx, cov, opts)
	return out, err
}

// BuildWithCacheInfo builds the viewer payload with caching and returns
// cache hit info. Place markers are rebuilt on every call.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, ter *TerrainOutput, opts Options) (out *GlobeOutput, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForBuild(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, len(ter.Samples))
	start := time.Now()
	defer func() {
		n := 0
		if out != nil {
			n = out.Points
		}
		hooks.OnBuildComplete(ctx, n, time.Since(start), err)
	}()

	var places []globe.Place
	if opts.Spots != "" {
		if places, err = gio.ImportPlacesCSV(opts.Spots); err != nil {
			return nil, false, err
		}
		if places == nil {
			places = []globe.Place{}
		}
	}

	terrainHash := ter.Hash
	if terrainHash == "" {
		terrainHash = cache.Hash(ter.CSV)
	}
	key := r.Keyer.GlobeKey(terrainHash)

	if data, ok := r.lookup(ctx, "globe", key, opts); ok {
		out = &GlobeOutput{Payload: data, Points: globe.PointCount(len(ter.Samples))}
		if places != nil {
			if out.Spots, err = buildSpots(places); err != nil {
				return nil, false, err
			}
			out.SpotCount = len(places)
		}
		return out, true, nil
	}

	out, err = BuildGlobe(ter.Samples, places)
	if err != nil {
		return nil, false, err
	}
	r.store(ctx, "globe", key, out.Payload, cache.TTLGlobe, opts)
	return out, false, nil
}

// Build is a convenience wrapper that calls BuildWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Build(ctx context.Context, ter *TerrainOutput, opts Options) (*GlobeOutput, error) {
	out, _, err := r.BuildWithCacheInfo(ctx, ter, opts)
	return out, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// lookup reads key unless a refresh was requested. Backend errors are
// logged and treated as misses.
func (r *Runner) lookup(ctx context.Context, kind, key string, opts Options) ([]byte, bool) {
	if opts.Refresh {
		return nil, false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		opts.Logger.Warn("cache read failed", "kind", kind, "err", err)
		return nil, false
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, kind)
		opts.Logger.Debug("cache hit", "kind", kind, "key", key)
		return data, true
	}
	observability.Cache().OnCacheMiss(ctx, kind)
	return nil, false
}

func (r *Runner) store(ctx context.Context, kind, key string, data []byte, ttl time.Duration, opts Options) {
	if r.TTL > 0 {
		ttl = r.TTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		opts.Logger.Warn("cache write failed", "kind", kind, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, kind, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
