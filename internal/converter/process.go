package converter

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"gifmill/internal/filesystem"
	"gifmill/internal/journal"
	"gifmill/internal/logging"
	"gifmill/internal/mediatypes"
	"gifmill/internal/metrics"
)

// TaskOutcome is the result of rendering one dither variant.
type TaskOutcome struct {
	Dither     mediatypes.Dither `json:"dither"`
	OutputPath string            `json:"outputPath"`
	Duration   time.Duration     `json:"duration"`
	Err        error             `json:"-"`
}

// ProcessingResult aggregates the variant outcomes for one source file.
// Err is set when the file never reached conversion (vanished, not
// ready, or unprobeable).
type ProcessingResult struct {
	Path     string
	Outcomes []TaskOutcome
	Err      error
}

// AllSucceeded reports whether every variant of the file rendered.
// Only a fully successful file may have its source deleted.
func (r ProcessingResult) AllSucceeded() bool {
	if r.Err != nil || len(r.Outcomes) == 0 {
		return false
	}
	for _, o := range r.Outcomes {
		if o.Err != nil {
			return false
		}
	}
	return true
}

// convertAll fans the discovered files out over the worker pool and
// collects one result per file. Workers pull whole files; the variants
// of a file render sequentially inside processFile.
func (c *Converter) convertAll(cycle int64, files []string) []ProcessingResult {
	jobs := make(chan string)
	resultsCh := make(chan ProcessingResult, len(files))

	workerCount := c.workerCount
	if workerCount > len(files) {
		workerCount = len(files)
	}

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				resultsCh <- c.processFile(cycle, path)
			}
		}()
	}

queue:
	for _, path := range files {
		select {
		case jobs <- path:
		case <-c.ctx.Done():
			break queue
		}
	}
	close(jobs)

	wg.Wait()
	close(resultsCh)

	results := make([]ProcessingResult, 0, len(files))
	for res := range resultsCh {
		results = append(results, res)
	}
	return results
}

// processFile converts one source file to every configured dither
// variant. Any pre-conversion failure skips the file for this cycle;
// it stays on disk and is rediscovered next cycle.
func (c *Converter) processFile(cycle int64, path string) ProcessingResult {
	result := ProcessingResult{Path: path}

	// The file may have been consumed or removed since the scan.
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			logging.Warn("Skipping %s: removed since scan", path)
		} else {
			logging.Warn("Skipping %s: %v", path, err)
		}
		result.Err = err
		return result
	}

	if err := filesystem.WaitStable(c.ctx, path, c.cfg.StabilityInterval(), c.cfg.StabilityTimeout()); err != nil {
		if errors.Is(err, filesystem.ErrNotReady) {
			metrics.FilesSkippedNotReady.Inc()
		}
		logging.Warn("Skipping %s: %v", path, err)
		result.Err = err
		return result
	}

	info, err := c.invoker.Probe(c.ctx, path)
	if err != nil {
		metrics.ProbeErrorsTotal.Inc()
		logging.Error("Probe failed for %s: %v", path, err)
		result.Err = err
		return result
	}
	logging.Debug("Probed %s: codec=%s %dx%d %.1fs @ %.2f fps",
		path, info.Codec, info.Width, info.Height, info.Duration, info.FrameRate)

	for _, dither := range c.cfg.DitherOptions {
		result.Outcomes = append(result.Outcomes, c.convertVariant(cycle, path, dither))
	}
	return result
}

// convertVariant renders one dither variant and records its outcome.
func (c *Converter) convertVariant(cycle int64, path string, dither mediatypes.Dither) TaskOutcome {
	start := time.Now()
	outputPath, err := c.invoker.Convert(c.ctx, path, dither)
	duration := time.Since(start)

	status := journal.StatusSuccess
	if err != nil {
		status = journal.StatusError
		metrics.ConversionsTotal.WithLabelValues(string(dither), "error").Inc()
		logging.Error("Conversion failed for %s (%s): %v", path, dither, err)
	} else {
		metrics.ConversionsTotal.WithLabelValues(string(dither), "success").Inc()
		metrics.ConversionDuration.WithLabelValues(string(dither)).Observe(duration.Seconds())
		logging.Info("Converted %s -> %s in %v", path, outputPath, duration.Round(time.Millisecond))
	}

	c.record(journal.ConversionRecord{
		Cycle:      cycle,
		SourcePath: path,
		Dither:     dither,
		OutputPath: outputPath,
		Status:     status,
		Error:      errString(err),
		Duration:   duration,
	})

	return TaskOutcome{
		Dither:     dither,
		OutputPath: outputPath,
		Duration:   duration,
		Err:        err,
	}
}

// record writes a conversion record to the journal. Failed writes are
// logged and dropped; the journal never blocks the cycle.
func (c *Converter) record(rec journal.ConversionRecord) {
	if c.recorder == nil {
		return
	}
	// Background context so shutdown-time records still land.
	if err := c.recorder.RecordConversion(context.Background(), rec); err != nil {
		logging.Warn("Journal write failed: %v", err)
	}
}

// cleanup deletes every source file whose variants all rendered.
// A source that vanished on its own is fine; anything else that blocks
// deletion is logged and retried next cycle after reconversion.
func (c *Converter) cleanup(results []ProcessingResult) int {
	deleted := 0
	for _, res := range results {
		if !res.AllSucceeded() {
			continue
		}

		err := os.Remove(res.Path)
		switch {
		case err == nil:
			metrics.SourceDeletesTotal.WithLabelValues("success").Inc()
			deleted++
			logging.Info("Deleted source %s", res.Path)
		case os.IsNotExist(err):
			logging.Warn("Source already removed: %s", res.Path)
		default:
			metrics.SourceDeletesTotal.WithLabelValues("error").Inc()
			logging.Error("Failed to delete source %s: %v", res.Path, err)
		}
	}
	return deleted
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
