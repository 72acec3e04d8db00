// Package mediatypes provides shared type definitions for video-to-GIF
// conversion across the gifmill application.
//
// This package exists as a dependency-free foundation that can be imported by
// other packages without creating import cycles. It contains primitive types,
// constants, and pure utility functions with no dependencies beyond the
// standard library.
//
// # Dither Algorithms
//
// The Dither enum names the palette dithering algorithms understood by the
// transcoding tool's paletteuse filter. The set is closed: configuration
// strings are checked against it at load time via ParseDither, so an
// unrecognized name is rejected before any conversion starts:
//
//	d, err := mediatypes.ParseDither("floyd_steinberg")
//	if err != nil {
//	    // configuration error
//	}
//
// # Video Detection
//
// Use IsVideo to decide whether a discovered file is eligible for
// conversion, or consult the VideoExtensions map directly:
//
//	if mediatypes.IsVideo(path) {
//	    // queue for conversion
//	}
package mediatypes
