// Package main provides the makegif command, a one-shot CLI for the
// gifmill conversion pipeline.
//
// makegif converts named video files to GIF using the same configuration
// and ffmpeg invocations as the gifmill daemon, without the daemon's
// polling loop, journal, or HTTP surface.
//
// # Usage
//
//	makegif [--config config.yaml] [-delete] FILE...
//
// Each file is probed and then rendered once per configured dither
// algorithm, sequentially. Results print per variant. With -delete, the
// source file is removed only after every variant succeeded, matching
// the daemon's cleanup rule.
//
// # Exit Codes
//
//   - 0: every variant of every file succeeded
//   - 1: configuration error, or at least one conversion failed
//   - 2: usage error (no files named)
package main
