// Package io reads and writes the files exchanged between globecover stages.
//
// # Cover CSV
//
// One record per covering point, elevation then azimuth in degrees, rounded
// to 4 decimals, no header, LF line endings:
//
//	0.0,0.0
//	0.0,0.72
//	22.5,113.7857
//	-22.5,-113.7857
//	...
//	90.0,0.0
//	-90.0,0.0
//
// Numbers are written in their shortest round-trip form with at least one
// fractional digit; a negative zero keeps its sign ("-0.0"). Use
// [WriteCoverCSV] or [ExportCoverCSV] to write and [ReadCoverCSV] or
// [ImportCoverCSV] to read.
//
// # Terrain CSV
//
// The covering with a terrain colour per point, under a "lat,lon,color"
// header. See [WriteTerrainCSV] and [ReadTerrainCSV].
//
// # Places CSV
//
// Named locations with columns "Place Name", "Latitude", "Longitude" and
// "Note", matched by header name. A leading UTF-8 byte order mark is
// tolerated. See [ReadPlacesCSV].
//
// # JSON
//
// [WritePayload] writes the compact viewer payload and [WriteSpots] the
// indented place markers.
//
// Readers never close the io.Reader they are given.
package io
