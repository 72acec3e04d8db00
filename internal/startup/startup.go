package startup

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"gifmill/internal/config"
	"gifmill/internal/logging"
	"gifmill/internal/mediatypes"

	"github.com/gorilla/mux"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// LogStartup prints the banner and system information.
func LogStartup() {
	printBanner()
	logSystemInfo()
}

// LogConfigLoaded prints the effective configuration after validation.
func LogConfigLoaded(path string, cfg *config.Config) {
	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Config file:        %s", path)
	logging.Info("  root_paths:         %s", strings.Join(cfg.RootPaths, ", "))
	logging.Info("  schedule_interval:  %dm", cfg.ScheduleInterval)
	logging.Info("  dither_options:     %s", ditherList(cfg.DitherOptions))
	logging.Info("  width:              %s", zeroMeans(cfg.Width, "source"))
	logging.Info("  fps:                %s", zeroMeans(cfg.FPS, "source"))
	logging.Info("  max_concurrent:     %s", zeroMeans(cfg.MaxConcurrent, "auto"))
	logging.Info("  stability_window:   %ds", cfg.StabilityWindow)
	logging.Info("  readiness_timeout:  %ds", cfg.ReadinessTimeout)
	logging.Info("  listen_addr:        %s", cfg.ListenAddr)
	logging.Info("  journal_path:       %s", cfg.JournalPath)
	logging.Info("  ffmpeg_binary:      %s", cfg.FFmpegBinary)
	logging.Info("  ffprobe_binary:     %s", cfg.FFprobeBinary)
	logging.Info("  LOG_LEVEL:          %s", logging.GetLevel())
}

// PrepareDirectories ensures the journal directory exists and is writable,
// and reports on the configured roots. A bad journal directory is fatal;
// a missing root is not, since it may appear before the next scan.
func PrepareDirectories(cfg *config.Config) error {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DIRECTORY SETUP")
	logging.Info("------------------------------------------------------------")

	journalDir := filepath.Dir(cfg.JournalPath)
	if err := ensureDirectory(journalDir, "journal"); err != nil {
		return fmt.Errorf("journal directory error: %w", err)
	}

	logging.Debug("  Testing journal directory write access...")
	if err := testWriteAccess(journalDir); err != nil {
		return fmt.Errorf("journal directory is not writable: %w", err)
	}
	logging.Info("  [OK] Journal directory is writable")

	for _, root := range cfg.RootPaths {
		info, err := os.Stat(root)
		switch {
		case os.IsNotExist(err):
			logging.Warn("  Root does not exist: %s (scans skip it until it appears)", root)
		case err != nil:
			logging.Warn("  Root %s: %v", root, err)
		case !info.IsDir():
			logging.Warn("  Root is not a directory: %s", root)
		default:
			logging.Debug("  [OK] Root: %s", root)
		}
	}

	return nil
}

// LogJournalInit logs journal initialization
func LogJournalInit(duration time.Duration) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("JOURNAL INITIALIZATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  [OK] Journal initialized in %v", duration)
}

// LogTranscoderInit logs transcoder initialization and checks the ffmpeg tools
func LogTranscoderInit(ffmpegBin, ffprobeBin string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("TRANSCODER INITIALIZATION")
	logging.Info("------------------------------------------------------------")

	for _, bin := range []string{ffmpegBin, ffprobeBin} {
		if err := CheckTool(bin); err != nil {
			logging.Warn("  %s check failed: %v", bin, err)
			logging.Warn("  Conversions will fail until it is available")
		} else {
			logging.Info("  [OK] %s is available", bin)
		}
	}
}

// CheckTool verifies that a binary resolves on PATH and responds to
// -version. Failure is reported, not fatal; the tool may be installed
// while the daemon runs.
func CheckTool(bin string) error {
	path, err := exec.LookPath(bin)
	if err != nil {
		return fmt.Errorf("%s not found in PATH", bin)
	}
	logging.Debug("  %s path: %s", bin, path)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	output, err := exec.CommandContext(ctx, bin, "-version").Output()
	if err != nil {
		return fmt.Errorf("failed to get %s version: %w", bin, err)
	}

	lines := strings.Split(string(output), "\n")
	if len(lines) > 0 {
		logging.Debug("  %s version: %s", bin, strings.TrimSpace(lines[0]))
	}

	return nil
}

// LogConverterInit logs converter initialization
func LogConverterInit(interval time.Duration) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("CONVERTER INITIALIZATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Cycle interval: %v", interval)
	logging.Info("  Starting converter...")
}

// LogConverterStarted logs successful converter start
func LogConverterStarted() {
	logging.Info("  [OK] Converter started")
}

// GetRoutes extracts all registered routes from a mux.Router
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return err
		}

		methods, err := route.GetMethods()
		if err != nil {
			// Route might not have methods specified (e.g., promhttp handler)
			methods = []string{"*"}
		}

		name := route.GetName()

		for _, method := range methods {
			routes = append(routes, RouteInfo{
				Method: method,
				Path:   pathTemplate,
				Name:   name,
			})
		}

		return nil
	})

	return routes, err
}

// LogHTTPRoutes logs all registered HTTP routes dynamically
func LogHTTPRoutes(router *mux.Router, logHealthChecks bool) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("HTTP SERVER SETUP")
	logging.Info("------------------------------------------------------------")

	if logging.IsDebugEnabled() {
		routes, err := GetRoutes(router)
		if err != nil {
			logging.Warn("error walking routes: %v", err)
		}

		logging.Debug("  Registered routes (%d total):", len(routes))
		logging.Debug("")

		// Group routes by prefix for cleaner output
		groups := make(map[string][]RouteInfo)
		for _, route := range routes {
			prefix := getRouteGroup(route.Path)
			groups[prefix] = append(groups[prefix], route)
		}

		// Sort group keys
		groupKeys := make([]string, 0, len(groups))
		for k := range groups {
			groupKeys = append(groupKeys, k)
		}
		sort.Strings(groupKeys)

		// Print routes by group
		for _, group := range groupKeys {
			groupRoutes := groups[group]
			if group != "" {
				logging.Debug("  [%s]", group)
			} else {
				logging.Debug("  [root]")
			}

			for _, route := range groupRoutes {
				methodPadded := fmt.Sprintf("%-6s", route.Method)
				logging.Debug("    %s %s", methodPadded, route.Path)
			}
			logging.Debug("")
		}
	}

	logging.Info("  HTTP logging enabled")
	if logHealthChecks {
		logging.Info("    Health check logging: ON")
	} else {
		logging.Info("    Health check logging: OFF (set LOG_HEALTH_CHECKS=true to enable)")
	}
}

// getRouteGroup extracts a group name from a route path
func getRouteGroup(path string) string {
	// Remove leading slash
	path = strings.TrimPrefix(path, "/")

	// Get first segment
	parts := strings.SplitN(path, "/", 2)
	if len(parts) == 0 {
		return ""
	}

	first := parts[0]

	// Special handling for API routes
	if first == "api" && len(parts) > 1 {
		subParts := strings.SplitN(parts[1], "/", 2)
		return "api/" + subParts[0]
	}

	return first
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	ListenAddr      string
	StartupDuration time.Duration
}

// LogServerStarted logs successful server start with all endpoint information
func LogServerStarted(config ServerConfig) {
	display := config.ListenAddr
	if strings.HasPrefix(display, ":") {
		display = "localhost" + display
	}

	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SERVER STARTED")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Startup time:    %v", config.StartupDuration)
	logging.Info("")
	logging.Info("  Endpoints:")
	logging.Info("    Health:        http://%s/health", display)
	logging.Info("    Stats:         http://%s/api/stats", display)
	logging.Info("    Metrics:       http://%s/metrics", display)
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop the daemon")
	logging.Info("------------------------------------------------------------")
	logging.Info("")
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (received %s)", signal)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

// Helper functions

func printBanner() {
	banner := `
------------------------------------------------------------
         _ ____          _ ____
  ____ _(_) __/___ ___  (_) / /
 / __ '/ / /_/ __ '__ \/ / / /
/ /_/ / / __/ / / / / / / / /
\__, /_/_/ /_/ /_/ /_/_/_/_/
/____/
------------------------------------------------------------`
	fmt.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		logging.Info("  (Container CPU limit detected)")
	}

	if logging.IsDebugEnabled() {
		logging.Debug("  Goroutines:      %d", runtime.NumGoroutine())

		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}

		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}

	logging.Info("")
}

func ditherList(dithers []mediatypes.Dither) string {
	names := make([]string, len(dithers))
	for i, d := range dithers {
		names[i] = string(d)
	}
	return strings.Join(names, ", ")
}

func zeroMeans(v int, meaning string) string {
	if v == 0 {
		return meaning
	}
	return strconv.Itoa(v)
}

func ensureDirectory(path, name string) error {
	logging.Debug("  Checking %s directory: %s", name, path)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		logging.Debug("    Directory does not exist, creating...")
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		logging.Debug("    [OK] Created directory: %s", path)
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}

	logging.Debug("    [OK] Directory exists")
	return nil
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove write test file %s: %v", testFile, err)
		// Don't return error since write access was confirmed
	}
	return nil
}
