package mediatypes

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Dither identifies a palette dithering algorithm by the name the
// transcoding tool's paletteuse filter accepts.
type Dither string

const (
	// DitherBayer is ordered Bayer-matrix dithering.
	DitherBayer Dither = "bayer"
	// DitherHeckbert is Paul Heckbert's simple error diffusion.
	DitherHeckbert Dither = "heckbert"
	// DitherFloydSteinberg is Floyd-Steinberg error diffusion.
	DitherFloydSteinberg Dither = "floyd_steinberg"
	// DitherSierra2 is two-row Sierra error diffusion.
	DitherSierra2 Dither = "sierra2"
	// DitherSierra2_4a is the lightweight "filter lite" Sierra variant.
	DitherSierra2_4a Dither = "sierra2_4a"
	// DitherSierra3 is three-row Sierra error diffusion.
	DitherSierra3 Dither = "sierra3"
	// DitherBurkes is Burkes error diffusion.
	DitherBurkes Dither = "burkes"
	// DitherAtkinson is Atkinson error diffusion.
	DitherAtkinson Dither = "atkinson"
	// DitherNone disables dithering entirely.
	DitherNone Dither = "none"
)

// ditherSet is the closed set of recognized dither names.
var ditherSet = map[Dither]bool{
	DitherBayer:          true,
	DitherHeckbert:       true,
	DitherFloydSteinberg: true,
	DitherSierra2:        true,
	DitherSierra2_4a:     true,
	DitherSierra3:        true,
	DitherBurkes:         true,
	DitherAtkinson:       true,
	DitherNone:           true,
}

// Valid reports whether d is a recognized dither algorithm.
func (d Dither) Valid() bool {
	return ditherSet[d]
}

// String returns the filter argument name for the dither.
func (d Dither) String() string {
	return string(d)
}

// ParseDither converts a configuration string into a Dither, rejecting
// anything outside the recognized set. Matching is case-insensitive.
func ParseDither(s string) (Dither, error) {
	d := Dither(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("unrecognized dither option %q (valid: %s)", s, strings.Join(DitherNames(), ", "))
	}
	return d, nil
}

// Dithers returns all recognized dither algorithms in a stable order.
func Dithers() []Dither {
	out := make([]Dither, 0, len(ditherSet))
	for d := range ditherSet {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// DitherNames returns the recognized dither names as plain strings, sorted.
func DitherNames() []string {
	dithers := Dithers()
	names := make([]string, len(dithers))
	for i, d := range dithers {
		names[i] = string(d)
	}
	return names
}

// VideoExtensions maps file extensions to whether they are video formats
// eligible for GIF conversion.
var VideoExtensions = map[string]bool{
	".mp4": true,
	".avi": true,
	".mkv": true,
	".mov": true,
}

// IsVideo reports whether the path names a supported video file, based on
// its extension (case-insensitive).
func IsVideo(path string) bool {
	return VideoExtensions[strings.ToLower(filepath.Ext(path))]
}
