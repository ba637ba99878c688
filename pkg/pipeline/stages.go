package pipeline

import (
	"bytes"
	"context"

	"github.com/matzehuels/globecover/pkg/cover"
	"github.com/matzehuels/globecover/pkg/globe"
	gio "github.com/matzehuels/globecover/pkg/io"
	"github.com/matzehuels/globecover/pkg/terrain"
)

// CoverOutput is the cover stage artifact.
type CoverOutput struct {
	EquatorialCount int

	// Points are the covering in rounded degrees, as written to CSV.
	Points []cover.LatLon

	// CSV is the serialized cover file.
	CSV []byte
}

// TerrainOutput is the classify stage artifact.
type TerrainOutput struct {
	Samples []terrain.Sample
	CSV     []byte

	// Hash identifies CSV for downstream cache keys.
	Hash string
}

// GlobeOutput is the build stage artifact.
type GlobeOutput struct {
	Payload []byte // compact JSON, see globe.Payload
	Points  int

	Spots     []byte // indented JSON, nil without a places file
	SpotCount int
}

// GenerateCover runs the cover stage without caching.
func GenerateCover(opts Options) (*CoverOutput, error) {
	pts, err := cover.Generate(opts.EquatorialCount)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := gio.WriteCoverCSV(&buf, pts); err != nil {
		return nil, err
	}

	out := &CoverOutput{
		EquatorialCount: opts.EquatorialCount,
		Points:          make([]cover.LatLon, len(pts)),
		CSV:             buf.Bytes(),
	}
	for i, p := range pts {
		out.Points[i] = gio.Degrees(p)
	}
	return out, nil
}

// decodeCover restores a cached cover CSV.
func decodeCover(n int, data []byte) (*CoverOutput, error) {
	pts, err := gio.ReadCoverCSV(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &CoverOutput{EquatorialCount: n, Points: pts, CSV: data}, nil
}

// ClassifyPoints runs the classify stage without caching.
func ClassifyPoints(ctx context.Context, c *terrain.Classifier, pts []cover.LatLon) (*TerrainOutput, error) {
	samples, err := c.ClassifyAll(ctx, pts)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := gio.WriteTerrainCSV(&buf, samples); err != nil {
		return nil, err
	}
	return &TerrainOutput{Samples: samples, CSV: buf.Bytes()}, nil
}

func decodeTerrain(data []byte) (*TerrainOutput, error) {
	samples, err := gio.ReadTerrainCSV(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &TerrainOutput{Samples: samples, CSV: data}, nil
}

// BuildGlobe runs the build stage without caching. places may be nil.
func BuildGlobe(samples []terrain.Sample, places []globe.Place) (*GlobeOutput, error) {
	payload, err := globe.Build(samples)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := gio.WritePayload(&buf, payload); err != nil {
		return nil, err
	}
	out := &GlobeOutput{Payload: buf.Bytes(), Points: len(payload.Points)}

	if places != nil {
		spots, err := buildSpots(places)
		if err != nil {
			return nil, err
		}
		out.Spots = spots
		out.SpotCount = len(places)
	}
	return out, nil
}

func buildSpots(places []globe.Place) ([]byte, error) {
	var buf bytes.Buffer
	if err := gio.WriteSpots(&buf, globe.Spots(places)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
