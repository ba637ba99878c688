// Package terrain classifies sphere points by sampling an equirectangular
// world texture.
//
// The texture is a Plate Carrée (EPSG:4326) raster painted with a small
// palette: white ice, blue deep water, turquoise shallow water, green
// vegetation and beige desert. A [Classifier] maps a latitude/longitude in
// degrees to a pixel, reads its colour and returns the palette name. Pixels
// that do not match a palette colour exactly (anti-aliased coastlines, lossy
// formats) fall back to the nearest palette entry by squared RGB distance.
//
// White pixels more than 60° from either pole are reported as beige: at those
// latitudes the texture's white marks salt flats and bright sand, not ice.
//
// PNG, JPEG and GIF textures are decoded by the standard library; BMP, TIFF
// and WebP decoders are registered from golang.org/x/image.
package terrain
