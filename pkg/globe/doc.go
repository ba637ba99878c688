// Package globe turns classified sphere samples into the Cartesian payload
// consumed by the browser globe viewer.
//
// Every position is projected onto an oblate spheroid whose equatorial
// radius is 1 + [Oblateness] and whose polar radius is 1; the bulge is
// interpolated linearly in |z|. Coordinates are rounded to 7 decimals.
//
// A [Payload] has three parts, serialized as a JSON array:
//
//	[
//	  [[0, "white", "230,239,245"], ...],      // colour enumeration
//	  [[1, "earth_terrain"], ...],              // group enumeration
//	  [[1, 0.9983355, 0.0577, 0.0, 4], ...]     // points: group, x, y, z, colour
//	]
//
// Group 1 holds terrain samples, group 2 the poles and five reference
// latitudes (polar circles, tropics, equator), group 3 named places, which are
// written separately as [Spot] records.
package globe
