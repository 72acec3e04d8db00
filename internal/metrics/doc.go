// Package metrics provides Prometheus instrumentation for the gifmill daemon.
//
// This package defines and exposes various metrics that can be scraped by
// Prometheus to monitor the health, performance, and behavior of the daemon.
// All metrics are prefixed with "gifmill_" to avoid naming collisions with
// other applications.
//
// # Metric Categories
//
// ## HTTP Metrics
//
// Track requests to the operational endpoints:
//   - HTTPRequestsTotal: Counter of total requests by method, path, and status
//   - HTTPRequestDuration: Histogram of request duration by method and path
//   - HTTPRequestsInFlight: Gauge of currently processing requests
//
// ## Cycle Metrics
//
// Track the polling loop:
//   - CyclesTotal: Counter of completed cycles
//   - CycleDuration: Histogram of cycle duration
//   - CycleLastTimestamp: Gauge of last cycle completion time
//   - CycleLastDuration: Gauge of last cycle duration
//   - ConverterRunning: Gauge indicating if a cycle is active
//   - FilesDiscovered: Counter of video files found by scans
//
// ## Conversion Metrics
//
// Track individual GIF conversions:
//   - ConversionsTotal: Counter by dither algorithm and status
//   - ConversionDuration: Histogram of conversion time by dither algorithm
//   - SourceDeletesTotal: Counter of source deletions by status
//
// ## Scanner Metrics
//
// Track filesystem traversal:
//   - ScanErrorsTotal: Counter of scan errors (unreadable roots or entries)
//   - FilesSkippedNotReady: Counter of files deferred because they were
//     still being written
//   - ProbeErrorsTotal: Counter of ffprobe failures
//
// ## Journal Metrics
//
// Track the conversion history database:
//   - JournalWritesTotal: Counter of journal writes by status
//   - JournalDBSizeBytes: Gauge of database file sizes (main, WAL, SHM)
//   - JournalConversions: Gauge of recorded conversions by status
//   - JournalCyclesRecorded: Gauge of recorded cycles
//
// # Usage
//
// Metrics are automatically registered with the default Prometheus registry
// using promauto. To expose them, mount the promhttp.Handler() on your
// metrics endpoint:
//
//	import "github.com/prometheus/client_golang/prometheus/promhttp"
//
//	mux.Handle("/metrics", promhttp.Handler())
//
// # Collector
//
// The package provides a [Collector] type that periodically gathers
// statistics from a [StatsProvider], measures the journal database files,
// and samples Go runtime memory:
//
//	collector := metrics.NewCollector(statsProvider, journalPath, time.Minute)
//	collector.Start()
//	defer collector.Stop()
//
// # Prometheus Queries
//
// Example PromQL queries for common use cases:
//
// Conversion failure rate by dither algorithm:
//
//	sum(rate(gifmill_conversions_total{status="error"}[1h])) by (dither) /
//	sum(rate(gifmill_conversions_total[1h])) by (dither)
//
// P95 conversion time:
//
//	histogram_quantile(0.95, sum(rate(gifmill_conversion_duration_seconds_bucket[1h])) by (le))
//
// Time since the last completed cycle (staleness alert):
//
//	time() - gifmill_cycle_last_timestamp
package metrics
