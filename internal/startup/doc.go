// Package startup handles application initialization and startup/shutdown
// logging.
//
// Configuration itself lives in the config package (loaded from YAML); this
// package provides the lifecycle scaffolding around it: the banner, system
// information, directory preparation, external tool detection, and the
// consistent section-style log output used from launch to shutdown.
//
// # Directory Setup
//
// [PrepareDirectories] validates the runtime directories:
//   - Journal directory: Required, created if missing, must be writable
//   - Root paths: Checked but never created (a missing root is picked up
//     by a later scan once it appears)
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo]:
//   - Version: Application version
//   - Commit: Git commit hash
//   - BuildTime: Build timestamp
//   - GoVersion: Go compiler version
//
// # Lifecycle Logging
//
// The package provides structured logging functions for consistent output:
//   - [LogConfigLoaded]: Effective configuration after validation
//   - [LogJournalInit]: Journal initialization timing
//   - [LogTranscoderInit]: ffmpeg and ffprobe availability
//   - [LogConverterInit]: Converter configuration and interval
//   - [LogHTTPRoutes]: Registered HTTP routes (debug level)
//   - [LogServerStarted]: Server endpoints and startup duration
//   - [LogShutdownInitiated]: Graceful shutdown start
//   - [LogShutdownComplete]: Shutdown completion
//
// # Example Usage
//
//	cfg, err := config.Load(configPath)
//	if err != nil {
//	    startup.LogFatal("Configuration error: %v", err)
//	}
//	startup.LogConfigLoaded(configPath, cfg)
//
//	if err := startup.PrepareDirectories(cfg); err != nil {
//	    startup.LogFatal("Directory error: %v", err)
//	}
//
//	// Initialize components...
//	startup.LogJournalInit(journalInitDuration)
//	startup.LogConverterInit(cfg.Interval())
//
//	// Start server...
//	startup.LogServerStarted(startup.ServerConfig{
//	    ListenAddr:      cfg.ListenAddr,
//	    StartupDuration: time.Since(startTime),
//	})
//
//	// On shutdown...
//	startup.LogShutdownInitiated("SIGTERM")
//	// ... cleanup ...
//	startup.LogShutdownComplete()
package startup
