package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"gifmill/internal/logging"
	"gifmill/internal/mediatypes"
	"gifmill/internal/metrics"
)

// Default timeout for journal operations
const defaultTimeout = 5 * time.Second

// Conversion outcome statuses as stored in the journal.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ConversionRecord is one finished conversion task.
type ConversionRecord struct {
	Cycle      int64             `json:"cycle"`
	SourcePath string            `json:"sourcePath"`
	Dither     mediatypes.Dither `json:"dither"`
	OutputPath string            `json:"outputPath"`
	Status     string            `json:"status"`
	Error      string            `json:"error,omitempty"`
	Duration   time.Duration     `json:"duration"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// CycleSummary is one completed polling cycle.
type CycleSummary struct {
	Cycle           int64     `json:"cycle"`
	StartedAt       time.Time `json:"startedAt"`
	FinishedAt      time.Time `json:"finishedAt"`
	FilesDiscovered int       `json:"filesDiscovered"`
	FilesConverted  int       `json:"filesConverted"`
	FilesFailed     int       `json:"filesFailed"`
	SourcesDeleted  int       `json:"sourcesDeleted"`
}

// Stats aggregates the journal for the stats endpoint and the metrics
// collector.
type Stats struct {
	Conversions    int64         `json:"conversions"`
	Succeeded      int64         `json:"succeeded"`
	Failed         int64         `json:"failed"`
	CyclesRecorded int64         `json:"cyclesRecorded"`
	LastCycle      *CycleSummary `json:"lastCycle,omitempty"`
}

// Journal manages the SQLite conversion history.
type Journal struct {
	db   *sql.DB
	path string
}

// New opens (creating if necessary) the journal database at path. The
// parent directory must already exist and be writable.
func New(ctx context.Context, path string) (*Journal, error) {
	// busy_timeout helps prevent "database is locked" errors
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=10000&_temp_store=MEMORY&_busy_timeout=5000", path)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close journal after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to journal: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	j := &Journal{db: db, path: path}

	if err := j.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close journal after initialization failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize journal schema: %w", err)
	}

	logging.Info("Journal initialized at %s", path)
	return j, nil
}

func (j *Journal) initialize(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS conversions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		cycle INTEGER NOT NULL,
		source_path TEXT NOT NULL,
		dither TEXT NOT NULL,
		output_path TEXT NOT NULL,
		status TEXT NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		duration_ms INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	);

	CREATE INDEX IF NOT EXISTS idx_conversions_source_path ON conversions(source_path);
	CREATE INDEX IF NOT EXISTS idx_conversions_status ON conversions(status);
	CREATE INDEX IF NOT EXISTS idx_conversions_cycle ON conversions(cycle);

	CREATE TABLE IF NOT EXISTS cycles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		cycle INTEGER NOT NULL,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		files_discovered INTEGER NOT NULL DEFAULT 0,
		files_converted INTEGER NOT NULL DEFAULT 0,
		files_failed INTEGER NOT NULL DEFAULT 0,
		sources_deleted INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_cycles_cycle ON cycles(cycle);
	`

	initCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := j.db.ExecContext(initCtx, schema)
	return err
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Path returns the journal database file location.
func (j *Journal) Path() string {
	return j.path
}

// RecordConversion stores one finished conversion task.
func (j *Journal) RecordConversion(ctx context.Context, rec ConversionRecord) error {
	writeCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := j.db.ExecContext(writeCtx,
		`INSERT INTO conversions (cycle, source_path, dither, output_path, status, error, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Cycle, rec.SourcePath, string(rec.Dither), rec.OutputPath, rec.Status, rec.Error,
		rec.Duration.Milliseconds(),
	)
	if err != nil {
		metrics.JournalWritesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("recording conversion of %s: %w", rec.SourcePath, err)
	}
	metrics.JournalWritesTotal.WithLabelValues("success").Inc()
	return nil
}

// RecordCycle stores the summary of one completed polling cycle.
func (j *Journal) RecordCycle(ctx context.Context, sum CycleSummary) error {
	writeCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := j.db.ExecContext(writeCtx,
		`INSERT INTO cycles (cycle, started_at, finished_at, files_discovered, files_converted, files_failed, sources_deleted)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sum.Cycle, sum.StartedAt.Unix(), sum.FinishedAt.Unix(),
		sum.FilesDiscovered, sum.FilesConverted, sum.FilesFailed, sum.SourcesDeleted,
	)
	if err != nil {
		metrics.JournalWritesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("recording cycle %d: %w", sum.Cycle, err)
	}
	metrics.JournalWritesTotal.WithLabelValues("success").Inc()
	return nil
}

// Stats aggregates conversion and cycle history.
func (j *Journal) Stats(ctx context.Context) (*Stats, error) {
	queryCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	stats := &Stats{}

	err := j.db.QueryRowContext(queryCtx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0)
		 FROM conversions`, StatusSuccess, StatusError,
	).Scan(&stats.Conversions, &stats.Succeeded, &stats.Failed)
	if err != nil {
		return nil, fmt.Errorf("aggregating conversions: %w", err)
	}

	err = j.db.QueryRowContext(queryCtx, `SELECT COUNT(*) FROM cycles`).Scan(&stats.CyclesRecorded)
	if err != nil {
		return nil, fmt.Errorf("counting cycles: %w", err)
	}

	var (
		sum                 CycleSummary
		startedAt, finished int64
	)
	err = j.db.QueryRowContext(queryCtx,
		`SELECT cycle, started_at, finished_at, files_discovered, files_converted, files_failed, sources_deleted
		 FROM cycles ORDER BY id DESC LIMIT 1`,
	).Scan(&sum.Cycle, &startedAt, &finished, &sum.FilesDiscovered, &sum.FilesConverted, &sum.FilesFailed, &sum.SourcesDeleted)
	switch {
	case err == sql.ErrNoRows:
		// No cycles yet; leave LastCycle nil.
	case err != nil:
		return nil, fmt.Errorf("loading last cycle: %w", err)
	default:
		sum.StartedAt = time.Unix(startedAt, 0)
		sum.FinishedAt = time.Unix(finished, 0)
		stats.LastCycle = &sum
	}

	return stats, nil
}

// RecentFailures returns the most recent failed conversions, newest first.
func (j *Journal) RecentFailures(ctx context.Context, limit int) ([]ConversionRecord, error) {
	queryCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := j.db.QueryContext(queryCtx,
		`SELECT cycle, source_path, dither, output_path, status, error, duration_ms, created_at
		 FROM conversions WHERE status = ? ORDER BY id DESC LIMIT ?`,
		StatusError, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying recent failures: %w", err)
	}
	defer rows.Close()

	var records []ConversionRecord
	for rows.Next() {
		var (
			rec        ConversionRecord
			dither     string
			durationMS int64
			createdAt  int64
		)
		if err := rows.Scan(&rec.Cycle, &rec.SourcePath, &dither, &rec.OutputPath, &rec.Status, &rec.Error, &durationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning failure row: %w", err)
		}
		rec.Dither = mediatypes.Dither(dither)
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		rec.CreatedAt = time.Unix(createdAt, 0)
		records = append(records, rec)
	}
	return records, rows.Err()
}
