// Package pkg provides the core libraries for Globecover.
//
// # Overview
//
// Globecover covers the sphere with a deterministic, near-uniform set of
// points, colours each point from an equirectangular terrain texture and
// projects the result onto a slightly oblate globe for a 3D viewer. The pkg
// directory is organized into three areas:
//
//  1. Domain logic: [cover], [terrain], [globe], [stats]
//  2. Orchestration and storage: [pipeline], [cache], [io]
//  3. Serving: [server], with [observability] hooks and [errors] codes
//
// # Architecture
//
// The data flow through Globecover:
//
//	equatorial count N
//	         ↓
//	    [cover] package (rung schedule + covering points)
//	         ↓
//	    [terrain] package (texture lookup + palette snapping)
//	         ↓
//	    [globe] package (oblate projection + reference markers)
//	         ↓
//	    cover CSV, terrain CSV, payload JSON, spots JSON
//
// # Quick Start
//
// Generate a covering, classify it and build the viewer payload:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/globecover/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, err := runner.Execute(context.Background(), pipeline.Options{
//	    EquatorialCount: 500,
//	    Texture:         "input/texture.png",
//	})
//	// res.Globe.Payload holds [colors, groups, points] JSON.
//
// # Main Packages
//
// [cover] - The covering generator. [cover.Plan] returns the rung schedule,
// [cover.Generate] the points in emission order, [cover.Total] their count.
// Output is bit-reproducible for a given N.
//
// [terrain] - Classifies latitude/longitude positions against a Plate Carrée
// texture, snapping unknown colours to the nearest palette entry.
//
// [globe] - Colour and group enumerations, the oblate projection and the
// payload layout the viewer consumes. Also turns a places table into spots.
//
// [stats] - HEALPix pixel counts measuring how uniform a covering is.
//
// [io] - CSV and JSON codecs for every artifact.
//
// [pipeline] - The cover → classify → build pipeline with per-stage caching,
// shared by the CLI and the HTTP API.
//
// [cache] - File, Redis and null artifact caches plus the keyer deriving
// content-addressed keys.
//
// [server] - The HTTP API on chi.
//
// [cover]: https://pkg.go.dev/github.com/matzehuels/globecover/pkg/cover
// [cover.Plan]: https://pkg.go.dev/github.com/matzehuels/globecover/pkg/cover#Plan
// [cover.Generate]: https://pkg.go.dev/github.com/matzehuels/globecover/pkg/cover#Generate
// [cover.Total]: https://pkg.go.dev/github.com/matzehuels/globecover/pkg/cover#Total
// [terrain]: https://pkg.go.dev/github.com/matzehuels/globecover/pkg/terrain
// [globe]: https://pkg.go.dev/github.com/matzehuels/globecover/pkg/globe
// [stats]: https://pkg.go.dev/github.com/matzehuels/globecover/pkg/stats
// [io]: https://pkg.go.dev/github.com/matzehuels/globecover/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/globecover/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/globecover/pkg/cache
// [server]: https://pkg.go.dev/github.com/matzehuels/globecover/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/globecover/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/globecover/pkg/errors
package pkg
