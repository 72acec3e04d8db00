package converter

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"gifmill/internal/config"
	"gifmill/internal/journal"
	"gifmill/internal/logging"
	"gifmill/internal/mediatypes"
	"gifmill/internal/metrics"
	"gifmill/internal/scanner"
	"gifmill/internal/transcoder"
	"gifmill/internal/workers"
)

// Upper bound for the worker pool when max_concurrent is not configured.
// Each worker drives one ffmpeg process, which saturates a core on its
// own, so more workers than CPUs only adds contention.
const defaultWorkerLimit = 4

// Phase identifies the current stage of a conversion cycle.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseScanning   Phase = "scanning"
	PhaseConverting Phase = "converting"
	PhaseCleanup    Phase = "cleanup"
)

// Invoker probes and converts video files. *transcoder.Transcoder
// implements it.
type Invoker interface {
	Probe(ctx context.Context, filePath string) (*transcoder.VideoInfo, error)
	Convert(ctx context.Context, filePath string, dither mediatypes.Dither) (string, error)
}

// Recorder persists conversion history. A nil Recorder disables
// journaling without affecting the cycle.
type Recorder interface {
	RecordConversion(ctx context.Context, rec journal.ConversionRecord) error
	RecordCycle(ctx context.Context, sum journal.CycleSummary) error
}

// Converter manages the periodic conversion of video files to GIFs.
type Converter struct {
	cfg         *config.Config
	scanner     *scanner.Scanner
	invoker     Invoker
	recorder    Recorder
	workerCount int

	ctx      context.Context
	cancel   context.CancelFunc
	stopChan chan struct{}
	stopOnce sync.Once

	cycleMu            sync.Mutex
	isConverting       bool
	phase              Phase
	firstCycleComplete bool
	lastCycleTime      time.Time
	lastCycleFailures  int64
	startTime          time.Time

	// Cumulative counters across cycles
	cycleCount      atomic.Int64
	filesDiscovered atomic.Int64
	filesConverted  atomic.Int64
	filesFailed     atomic.Int64
	sourcesDeleted  atomic.Int64
}

// New creates a new Converter instance.
func New(cfg *config.Config, inv Invoker, rec Recorder) *Converter {
	workerCount := cfg.MaxConcurrent
	if workerCount <= 0 {
		workerCount = workers.ForCPU(defaultWorkerLimit)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Converter{
		cfg:         cfg,
		scanner:     scanner.New(cfg.RootPaths),
		invoker:     inv,
		recorder:    rec,
		workerCount: workerCount,
		ctx:         ctx,
		cancel:      cancel,
		stopChan:    make(chan struct{}),
		phase:       PhaseIdle,
		startTime:   time.Now(),
	}
}

// Start begins the conversion loop. The first cycle runs immediately;
// subsequent cycles fire on the configured interval.
func (c *Converter) Start() {
	go c.run()
}

// Stop halts the polling loop and cancels in-flight conversions.
// Interrupted sources are retained and reprocessed on the next start.
func (c *Converter) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopChan)
		c.cancel()
	})
}

func (c *Converter) run() {
	logging.Info("Starting conversion loop: %d workers, interval %s", c.workerCount, c.cfg.Interval())

	c.RunCycle()

	ticker := time.NewTicker(c.cfg.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logging.Debug("Scheduled conversion cycle triggered")
			c.RunCycle()
		case <-c.stopChan:
			return
		}
	}
}

// RunCycle executes one scan-convert-cleanup pass. A cycle already in
// progress makes this a no-op, so a tick that fires mid-cycle is
// dropped rather than queued.
func (c *Converter) RunCycle() {
	if !c.tryStartCycle() {
		logging.Info("Conversion cycle already in progress, skipping...")
		return
	}
	defer c.finishCycle()

	metrics.ConverterRunning.Set(1)
	defer metrics.ConverterRunning.Set(0)

	startTime := time.Now()
	cycle := c.cycleCount.Add(1)
	logging.Info("Starting conversion cycle %d...", cycle)

	c.setPhase(PhaseScanning)
	files := c.scanner.Scan(c.ctx)
	c.filesDiscovered.Add(int64(len(files)))
	metrics.FilesDiscovered.Add(float64(len(files)))

	var results []ProcessingResult
	if len(files) == 0 {
		logging.Info("No video files found")
	} else {
		logging.Info("Found %d video files to convert", len(files))
		c.setPhase(PhaseConverting)
		results = c.convertAll(cycle, files)
	}

	c.setPhase(PhaseCleanup)
	deleted := c.cleanup(results)

	c.finalizeCycle(cycle, startTime, len(files), results, deleted)
}

// TriggerCycle starts a conversion cycle in the background.
func (c *Converter) TriggerCycle() {
	go c.RunCycle()
}

// tryStartCycle attempts to start a cycle, returns false if one is
// already in progress.
func (c *Converter) tryStartCycle() bool {
	c.cycleMu.Lock()
	defer c.cycleMu.Unlock()

	if c.isConverting {
		return false
	}
	c.isConverting = true
	return true
}

// finishCycle marks the cycle as complete.
func (c *Converter) finishCycle() {
	c.cycleMu.Lock()
	defer c.cycleMu.Unlock()

	c.isConverting = false
	c.firstCycleComplete = true
	c.phase = PhaseIdle
}

func (c *Converter) setPhase(p Phase) {
	c.cycleMu.Lock()
	c.phase = p
	c.cycleMu.Unlock()
}

// finalizeCycle updates counters, metrics, and the journal after a cycle.
func (c *Converter) finalizeCycle(cycle int64, startTime time.Time, discovered int, results []ProcessingResult, deleted int) {
	duration := time.Since(startTime)

	converted, failed := 0, 0
	for _, res := range results {
		if res.AllSucceeded() {
			converted++
		} else {
			failed++
		}
	}

	c.filesConverted.Add(int64(converted))
	c.filesFailed.Add(int64(failed))
	c.sourcesDeleted.Add(int64(deleted))

	now := time.Now()
	c.cycleMu.Lock()
	c.lastCycleTime = now
	c.lastCycleFailures = int64(failed)
	c.cycleMu.Unlock()

	metrics.CyclesTotal.Inc()
	metrics.CycleDuration.Observe(duration.Seconds())
	metrics.CycleLastTimestamp.Set(float64(now.Unix()))
	metrics.CycleLastDuration.Set(duration.Seconds())

	if c.recorder != nil {
		sum := journal.CycleSummary{
			Cycle:           cycle,
			StartedAt:       startTime,
			FinishedAt:      now,
			FilesDiscovered: discovered,
			FilesConverted:  converted,
			FilesFailed:     failed,
			SourcesDeleted:  deleted,
		}
		// Background context so the summary still lands during shutdown.
		if err := c.recorder.RecordCycle(context.Background(), sum); err != nil {
			logging.Warn("Journal write failed: %v", err)
		}
	}

	logging.Info("Cycle %d complete: %d discovered, %d converted, %d failed, %d deleted in %v",
		cycle, discovered, converted, failed, deleted, duration.Round(time.Millisecond))
}

// IsConverting returns whether a cycle is currently in progress.
func (c *Converter) IsConverting() bool {
	c.cycleMu.Lock()
	defer c.cycleMu.Unlock()
	return c.isConverting
}

// IsReady returns true once the first cycle has completed.
func (c *Converter) IsReady() bool {
	c.cycleMu.Lock()
	defer c.cycleMu.Unlock()
	return c.firstCycleComplete
}

// HealthStatus contains health check information.
type HealthStatus struct {
	Ready             bool      `json:"ready"`
	Converting        bool      `json:"converting"`
	Phase             Phase     `json:"phase"`
	StartTime         time.Time `json:"startTime"`
	Uptime            string    `json:"uptime"`
	LastCycle         time.Time `json:"lastCycle,omitempty"`
	CyclesCompleted   int64     `json:"cyclesCompleted"`
	FilesDiscovered   int64     `json:"filesDiscovered"`
	FilesConverted    int64     `json:"filesConverted"`
	FilesFailed       int64     `json:"filesFailed"`
	SourcesDeleted    int64     `json:"sourcesDeleted"`
	LastCycleFailures int64     `json:"lastCycleFailures"`
}

// GetHealthStatus returns detailed health information.
func (c *Converter) GetHealthStatus() HealthStatus {
	c.cycleMu.Lock()
	defer c.cycleMu.Unlock()

	return HealthStatus{
		Ready:             c.firstCycleComplete,
		Converting:        c.isConverting,
		Phase:             c.phase,
		StartTime:         c.startTime,
		Uptime:            time.Since(c.startTime).String(),
		LastCycle:         c.lastCycleTime,
		CyclesCompleted:   c.cycleCount.Load(),
		FilesDiscovered:   c.filesDiscovered.Load(),
		FilesConverted:    c.filesConverted.Load(),
		FilesFailed:       c.filesFailed.Load(),
		SourcesDeleted:    c.sourcesDeleted.Load(),
		LastCycleFailures: c.lastCycleFailures,
	}
}
