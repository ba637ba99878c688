package io

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/globecover/pkg/cover"
	"github.com/matzehuels/globecover/pkg/errors"
	"github.com/matzehuels/globecover/pkg/globe"
	"github.com/matzehuels/globecover/pkg/terrain"
)

var terrainHeader = []string{"lat", "lon", "color"}

// Places CSV column names.
const (
	ColumnPlace     = "Place Name"
	ColumnLatitude  = "Latitude"
	ColumnLongitude = "Longitude"
	ColumnNote      = "Note"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// ReadCoverCSV decodes elevation,azimuth records in degrees.
//
// Blank lines are skipped. A record with other than two fields or with a
// non-numeric value is an INVALID_FORMAT error naming the line.
func ReadCoverCSV(r io.Reader) ([]cover.LatLon, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2

	var out []cover.LatLon
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read cover csv")
		}
		line, _ := cr.FieldPos(0)
		lat, err := parseFloat(rec[0])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d: latitude", line)
		}
		lon, err := parseFloat(rec[1])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d: longitude", line)
		}
		out = append(out, cover.LatLon{Lat: lat, Lon: lon})
	}
}

// ImportCoverCSV reads a cover CSV file at path.
func ImportCoverCSV(path string) ([]cover.LatLon, error) {
	var out []cover.LatLon
	err := importFile(path, func(r io.Reader) (err error) {
		out, err = ReadCoverCSV(r)
		return err
	})
	return out, err
}

// ReadTerrainCSV decodes a terrain CSV. The lat,lon,color header is required.
func ReadTerrainCSV(r io.Reader) ([]terrain.Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(terrainHeader)

	head, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "terrain csv is empty")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read terrain header")
	}
	for i, h := range terrainHeader {
		if strings.TrimSpace(head[i]) != h {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "terrain header %q, want %q", strings.Join(head, ","), strings.Join(terrainHeader, ","))
		}
	}

	var out []terrain.Sample
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read terrain csv")
		}
		line, _ := cr.FieldPos(0)
		lat, err := parseFloat(rec[0])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d: lat", line)
		}
		lon, err := parseFloat(rec[1])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d: lon", line)
		}
		out = append(out, terrain.Sample{Lat: lat, Lon: lon, Color: strings.TrimSpace(rec[2])})
	}
}

// ImportTerrainCSV reads a terrain CSV file at path.
func ImportTerrainCSV(path string) ([]terrain.Sample, error) {
	var out []terrain.Sample
	err := importFile(path, func(r io.Reader) (err error) {
		out, err = ReadTerrainCSV(r)
		return err
	})
	return out, err
}

// ReadPlacesCSV decodes the places table. Columns are located by header
// name; surrounding whitespace in names and values is ignored, and the Note
// column is optional.
func ReadPlacesCSV(r io.Reader) ([]globe.Place, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(bom)); err == nil && bytes.Equal(head, bom) {
		br.Discard(len(bom))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1

	head, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read places header")
	}
	cols := map[string]int{}
	for i, h := range head {
		cols[strings.TrimSpace(h)] = i
	}
	for _, required := range []string{ColumnPlace, ColumnLatitude, ColumnLongitude} {
		if _, ok := cols[required]; !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "places csv: missing column %q", required)
		}
	}
	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var out []globe.Place
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read places csv")
		}
		line, _ := cr.FieldPos(0)
		lat, err := parseFloat(field(rec, ColumnLatitude))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d: %s", line, ColumnLatitude)
		}
		lon, err := parseFloat(field(rec, ColumnLongitude))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d: %s", line, ColumnLongitude)
		}
		out = append(out, globe.Place{
			Name: field(rec, ColumnPlace),
			Lat:  lat,
			Lon:  lon,
			Note: field(rec, ColumnNote),
		})
	}
}

// ImportPlacesCSV reads a places CSV file at path.
func ImportPlacesCSV(path string) ([]globe.Place, error) {
	var out []globe.Place
	err := importFile(path, func(r io.Reader) (err error) {
		out, err = ReadPlacesCSV(r)
		return err
	})
	return out, err
}

func importFile(path string, read func(io.Reader) error) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	return read(f)
}
