// Package converter runs the scan-convert-cleanup cycle at the core of
// the daemon.
//
// Each cycle walks the configured root paths for video files, converts
// every file it finds to one GIF per configured dither algorithm, and
// deletes a source file only when all of its variants rendered
// successfully. A file with any failed or skipped variant is retained
// and picked up again on the next cycle.
//
// The cycle moves through four phases: idle, scanning, converting, and
// cleanup. Conversions run on a bounded worker pool where each worker
// owns one source file at a time; the variants of a file render
// sequentially, so a file's fate is always decided from a complete set
// of outcomes.
//
// Cycles are triggered three ways:
//   - Initial cycle: runs immediately on Start
//   - Scheduled cycle: fires on the configured interval; a tick that
//     arrives while a cycle is still running is skipped
//   - Manual trigger: on-demand via the API
//
// Stop cancels in-flight conversions. Interrupted files keep their
// sources and are reprocessed from scratch on the next start.
package converter
