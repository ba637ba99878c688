// Package pipeline runs the globecover stages shared by the CLI and the HTTP
// server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Cover: generate the sphere covering and its CSV
//  2. Classify: sample a texture at every covering point
//  3. Build: project the samples into the viewer payload
//
// Each stage can be run independently or as part of the complete pipeline,
// and each caches its serialized artifact.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    EquatorialCount: 500,
//	    Texture:         "texture.png",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("globe.json", result.Globe.Payload, 0644)
//
// Run individual stages:
//
//	cov, err := runner.Cover(ctx, opts)
//	ter, err := runner.Classify(ctx, cov, opts)
//	glb, err := runner.Build(ctx, ter, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/globecover/pkg/cover"
	"github.com/matzehuels/globecover/pkg/errors"
	"github.com/matzehuels/globecover/pkg/terrain"
)

// DefaultEquatorialCount is the covering size used when none is given.
const DefaultEquatorialCount = cover.DefaultEquatorialCount

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Cover options
	EquatorialCount int `json:"equatorial_count,omitempty"`

	// Classify options
	Texture string `json:"texture,omitempty"` // path to the equirectangular texture

	// Build options
	Spots string `json:"spots,omitempty"` // optional places CSV

	// Refresh skips cache reads; results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// Classifier overrides loading Texture. TextureHash must then identify
	// the raster it was built from.
	Classifier  *terrain.Classifier `json:"-"`
	TextureHash string              `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this execution in logs and API responses.
	RunID string

	Cover   *CoverOutput
	Terrain *TerrainOutput
	Globe   *GlobeOutput

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Points       int
	Samples      int
	GlobePoints  int
	Spots        int
	CoverTime    time.Duration
	ClassifyTime time.Duration
	BuildTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	CoverHit    bool
	ClassifyHit bool
	BuildHit    bool
}

// ValidateAndSetDefaults checks required fields and applies defaults for
// the full pipeline. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForCover(); err != nil {
		return err
	}
	if err := o.ValidateForClassify(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForCover applies the cover defaults and validates the count.
func (o *Options) ValidateForCover() error {
	if o.EquatorialCount == 0 {
		o.EquatorialCount = DefaultEquatorialCount
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return errors.ValidateEquatorialCount(o.EquatorialCount)
}

// ValidateForClassify checks that a texture source is available.
func (o *Options) ValidateForClassify() error {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Classifier != nil {
		if o.TextureHash == "" {
			return errors.New(errors.ErrCodeInvalidInput, "texture hash is required with a preloaded classifier")
		}
		return nil
	}
	if o.Texture == "" {
		return errors.New(errors.ErrCodeInvalidInput, "texture is required")
	}
	return errors.ValidatePath(o.Texture)
}

// ValidateForBuild checks the optional places path.
func (o *Options) ValidateForBuild() error {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Spots != "" {
		return errors.ValidatePath(o.Spots)
	}
	return nil
}

// textureLabel names the texture in logs and hooks.
func (o *Options) textureLabel() string {
	if o.Texture != "" {
		return o.Texture
	}
	return "preloaded"
}
