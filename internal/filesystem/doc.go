// Package filesystem provides helpers for safely picking up files that may
// still be in the middle of being written.
//
// Videos typically land in a watched directory through a copy, download, or
// network transfer that takes a while. Converting such a file half-way
// through produces a truncated GIF and then deletes a source that was never
// fully processed. WaitStable gates on two signals borrowed from the
// original batch converter: the file size must be unchanged between two
// consecutive checks, and the file must be openable read-write (a writer
// still holding it typically blocks that).
package filesystem
