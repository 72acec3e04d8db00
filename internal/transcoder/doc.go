// Package transcoder shells out to ffmpeg and ffprobe for video-to-GIF
// conversion.
//
// It supports:
//   - Probing videos for stream information before conversion
//   - Two-pass GIF rendering: a palette generation pass followed by a
//     paletteuse render pass with the configured dither algorithm
//   - Optional width scaling and frame-rate filters
//   - Killing in-flight subprocesses on shutdown
//
// Conversion requires ffmpeg and ffprobe to be installed and resolvable,
// either on PATH or through configured absolute paths. Output paths are
// deterministic per (video, dither) pair and existing outputs are
// overwritten, so re-running a conversion is idempotent.
package transcoder
