// Package scanner discovers video files eligible for GIF conversion.
//
// Each polling cycle asks the scanner for the full candidate list: a
// recursive walk of every configured root, filtered to the supported video
// extensions, sorted for deterministic processing order. Scan errors are
// never fatal: a missing root or unreadable subtree is logged and skipped
// for the cycle, and will be visited again on the next one.
package scanner
