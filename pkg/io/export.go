package io

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/globecover/pkg/cover"
	"github.com/matzehuels/globecover/pkg/errors"
	"github.com/matzehuels/globecover/pkg/globe"
	"github.com/matzehuels/globecover/pkg/terrain"
)

// WriteCoverCSV writes points as elevation,azimuth records in degrees.
func WriteCoverCSV(w io.Writer, pts []cover.Point) error {
	cw := csv.NewWriter(w)
	for _, p := range pts {
		if err := cw.Write([]string{FormatDegrees(p.Elevation), FormatDegrees(p.Azimuth)}); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write cover record")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "flush cover csv")
	}
	return nil
}

// ExportCoverCSV writes the cover CSV to a file at path.
func ExportCoverCSV(path string, pts []cover.Point) error {
	return exportFile(path, func(w io.Writer) error { return WriteCoverCSV(w, pts) })
}

// WriteTerrainCSV writes samples under a lat,lon,color header.
func WriteTerrainCSV(w io.Writer, samples []terrain.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(terrainHeader); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write terrain header")
	}
	for _, s := range samples {
		if err := cw.Write([]string{formatFloat(s.Lat), formatFloat(s.Lon), s.Color}); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write terrain record")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "flush terrain csv")
	}
	return nil
}

// ExportTerrainCSV writes the terrain CSV to a file at path.
func ExportTerrainCSV(path string, samples []terrain.Sample) error {
	return exportFile(path, func(w io.Writer) error { return WriteTerrainCSV(w, samples) })
}

// WritePayload writes the compact viewer payload followed by a newline.
func WritePayload(w io.Writer, p *globe.Payload) error {
	if err := json.NewEncoder(w).Encode(p); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode payload")
	}
	return nil
}

// ExportPayload writes the viewer payload to a file at path.
func ExportPayload(path string, p *globe.Payload) error {
	return exportFile(path, func(w io.Writer) error { return WritePayload(w, p) })
}

// WriteSpots writes place markers as indented JSON.
func WriteSpots(w io.Writer, spots []globe.Spot) error {
	if spots == nil {
		spots = []globe.Spot{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(spots); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode spots")
	}
	return nil
}

// ExportSpots writes place markers to a file at path.
func ExportSpots(path string, spots []globe.Spot) error {
	return exportFile(path, func(w io.Writer) error { return WriteSpots(w, spots) })
}

func exportFile(path string, write func(io.Writer) error) (err error) {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrap(errors.ErrCodeInternal, cerr, "close %s", path)
		}
	}()
	return write(f)
}
