package transcoder

import (
	"fmt"
	"path/filepath"
	"strings"

	"gifmill/internal/mediatypes"
)

// OutputPath derives the deterministic GIF path for a (video, dither)
// pair: the video extension is replaced by ".<dither>.gif", keeping the
// output beside its source. Outputs for different dithers of the same
// source therefore never collide, and neither do same-named videos under
// different roots.
func OutputPath(path string, d mediatypes.Dither) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + string(d) + ".gif"
}

// buildPaletteArgs assembles the first pass: generate a 256-color palette
// for the whole clip. The scale filter is present only when a width is
// configured, so ffmpeg otherwise keeps the source dimensions.
func buildPaletteArgs(input, palette string, width int) []string {
	vf := "palettegen=stats_mode=diff"
	if width > 0 {
		vf = fmt.Sprintf("scale=%d:-1:flags=lanczos,%s", width, vf)
	}

	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-i", input,
		"-vf", vf,
		"-y", palette,
	}
}

// buildRenderArgs assembles the second pass: map the clip through the
// generated palette with the requested dither. Frame-rate and scale
// filters are included only when configured; bayer additionally pins
// bayer_scale=3, matching the strongest pattern the pipeline renders.
func buildRenderArgs(input, palette, output string, d mediatypes.Dither, width, fps int) []string {
	use := "paletteuse=dither=" + string(d)
	if d == mediatypes.DitherBayer {
		use += ":bayer_scale=3"
	}
	use += ":diff_mode=rectangle"

	var pre []string
	if fps > 0 {
		pre = append(pre, fmt.Sprintf("fps=%d", fps))
	}
	if width > 0 {
		pre = append(pre, fmt.Sprintf("scale=%d:-1:flags=lanczos", width))
	}

	var graph string
	if len(pre) > 0 {
		graph = strings.Join(pre, ",") + "[x];[x][1:v]" + use
	} else {
		graph = "[0:v][1:v]" + use
	}

	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-i", input,
		"-i", palette,
		"-filter_complex", graph,
		"-y", output,
	}
}
