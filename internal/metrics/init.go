package metrics

import "gifmill/internal/mediatypes"

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	statuses := []string{"success", "error"}

	// --- Conversion outcomes (per dither × status) ---
	for _, d := range mediatypes.Dithers() {
		for _, status := range statuses {
			ConversionsTotal.WithLabelValues(string(d), status)
		}
		ConversionDuration.WithLabelValues(string(d))
	}

	// --- Source deletion outcomes ---
	for _, status := range statuses {
		SourceDeletesTotal.WithLabelValues(status)
	}

	// --- Journal writes and aggregates ---
	for _, status := range statuses {
		JournalWritesTotal.WithLabelValues(status)
		JournalConversions.WithLabelValues(status)
	}

	// --- Journal storage files ---
	for _, file := range []string{"main", "wal", "shm"} {
		JournalDBSizeBytes.WithLabelValues(file)
	}
}
