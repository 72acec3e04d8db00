package metrics

import (
	"os"
	"runtime"
	"time"

	"gifmill/internal/logging"
)

// StatsProvider interface for collecting journal statistics
type StatsProvider interface {
	GetStats() Stats
}

// Stats holds aggregate conversion history
type Stats struct {
	ConversionsSucceeded int64
	ConversionsFailed    int64
	CyclesRecorded       int64
}

// Collector periodically collects and updates metrics
type Collector struct {
	statsProvider StatsProvider
	dbPath        string
	interval      time.Duration
	stopChan      chan struct{}
}

// NewCollector creates a new metrics collector. dbPath points at the
// journal database so its file sizes can be tracked.
func NewCollector(provider StatsProvider, dbPath string, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		dbPath:        dbPath,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the metrics collection
func (c *Collector) Stop() {
	close(c.stopChan)
}

func (c *Collector) collectLoop() {
	// Collect immediately on start
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	if c.statsProvider != nil {
		stats := c.statsProvider.GetStats()

		JournalConversions.WithLabelValues("success").Set(float64(stats.ConversionsSucceeded))
		JournalConversions.WithLabelValues("error").Set(float64(stats.ConversionsFailed))
		JournalCyclesRecorded.Set(float64(stats.CyclesRecorded))

		logging.Debug("Metrics collected: succeeded=%d, failed=%d, cycles=%d",
			stats.ConversionsSucceeded, stats.ConversionsFailed, stats.CyclesRecorded)
	}

	c.collectDBSizes()
	collectRuntime()
}

// collectDBSizes updates the size gauges for the journal database files.
// A missing file (e.g. no WAL checkpoint yet) reports zero.
func (c *Collector) collectDBSizes() {
	if c.dbPath == "" {
		return
	}

	files := map[string]string{
		"main": c.dbPath,
		"wal":  c.dbPath + "-wal",
		"shm":  c.dbPath + "-shm",
	}

	for label, path := range files {
		var size int64
		if info, err := os.Stat(path); err == nil {
			size = info.Size()
		}
		JournalDBSizeBytes.WithLabelValues(label).Set(float64(size))
	}
}

func collectRuntime() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	GoMemAllocBytes.Set(float64(m.Alloc))
	GoMemSysBytes.Set(float64(m.Sys))
	GoGoroutines.Set(float64(runtime.NumGoroutine()))
}
