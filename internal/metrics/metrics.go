package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gifmill_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gifmill_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gifmill_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Cycle metrics
var (
	CyclesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gifmill_cycles_total",
			Help: "Total number of completed polling cycles",
		},
	)

	CycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gifmill_cycle_duration_seconds",
			Help:    "Polling cycle duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600},
		},
	)

	CycleLastTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gifmill_cycle_last_timestamp",
			Help: "Unix timestamp of the last completed cycle",
		},
	)

	CycleLastDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gifmill_cycle_last_duration_seconds",
			Help: "Duration of the last completed cycle in seconds",
		},
	)

	ConverterRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gifmill_converter_running",
			Help: "Whether a conversion cycle is currently running (1 = running, 0 = idle)",
		},
	)

	FilesDiscovered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gifmill_files_discovered_total",
			Help: "Total number of video files discovered by scans",
		},
	)
)

// Conversion metrics
var (
	ConversionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gifmill_conversions_total",
			Help: "Total number of GIF conversions",
		},
		[]string{"dither", "status"},
	)

	ConversionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gifmill_conversion_duration_seconds",
			Help:    "GIF conversion duration in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"dither"},
	)

	SourceDeletesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gifmill_source_deletes_total",
			Help: "Total number of source file deletions after conversion",
		},
		[]string{"status"},
	)
)

// Scanner metrics
var (
	ScanErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gifmill_scan_errors_total",
			Help: "Total number of errors encountered while scanning root paths",
		},
	)

	FilesSkippedNotReady = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gifmill_files_skipped_not_ready_total",
			Help: "Total number of files skipped because they were still being written",
		},
	)

	ProbeErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gifmill_probe_errors_total",
			Help: "Total number of ffprobe failures",
		},
	)
)

// Journal metrics
var (
	JournalWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gifmill_journal_writes_total",
			Help: "Total number of journal write attempts",
		},
		[]string{"status"},
	)

	JournalDBSizeBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gifmill_journal_db_size_bytes",
			Help: "Size of journal SQLite files in bytes",
		},
		[]string{"file"}, // "main", "wal", "shm"
	)

	JournalConversions = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gifmill_journal_conversions",
			Help: "Total conversions recorded in the journal by status",
		},
		[]string{"status"},
	)

	JournalCyclesRecorded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gifmill_journal_cycles_recorded",
			Help: "Total cycles recorded in the journal",
		},
	)
)

// Runtime metrics
var (
	GoMemAllocBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gifmill_go_mem_alloc_bytes",
			Help: "Current heap allocation in bytes",
		},
	)

	GoMemSysBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gifmill_go_mem_sys_bytes",
			Help: "Total memory obtained from the OS in bytes",
		},
	)

	GoGoroutines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gifmill_go_goroutines",
			Help: "Current number of goroutines",
		},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gifmill_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
