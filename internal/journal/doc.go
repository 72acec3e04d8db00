// Package journal persists conversion history in SQLite.
//
// Every finished conversion task and every completed polling cycle becomes
// a row, giving operators an answer to "what happened to my files" that
// survives restarts. The journal is strictly observational: the conversion
// loop never consults it to decide what to do next (retry behavior comes
// from what is still on disk), and a failed journal write is logged and
// dropped rather than failing the task it was recording.
//
// The database is opened in WAL mode with a busy timeout, mirroring the
// settings that keep concurrent writers from tripping over each other.
package journal
