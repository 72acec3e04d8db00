// Package logging provides leveled logging for the gifmill daemon.
//
// The level is resolved once from the environment: DEBUG=1 (or true/yes/on)
// forces debug logging, otherwise LOG_LEVEL selects one of debug, info,
// warn, or error, defaulting to info. All functions are safe for concurrent
// use; messages go to the standard logger with a level prefix.
package logging
