// Package config loads and validates the gifmill YAML configuration.
//
// The file is decoded strictly: unknown keys are an error, as are missing
// required keys (root_paths, schedule_interval, dither_options), so typos
// fail the process at startup rather than silently converting nothing.
// Optional keys receive defaults before decoding; see Default for the
// values. The resulting Config is treated as read-only for the life of the
// process.
package config
