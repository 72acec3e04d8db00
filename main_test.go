package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"gifmill/internal/config"
	"gifmill/internal/converter"
	"gifmill/internal/handlers"
	"gifmill/internal/journal"
	"gifmill/internal/mediatypes"
	"gifmill/internal/metrics"
)

// fakeConverterStatus satisfies handlers.ConverterStatus for router tests.
type fakeConverterStatus struct {
	ready     bool
	triggered int
}

func (f *fakeConverterStatus) GetHealthStatus() converter.HealthStatus {
	return converter.HealthStatus{Ready: f.ready, Phase: converter.PhaseIdle}
}
func (f *fakeConverterStatus) IsReady() bool      { return f.ready }
func (f *fakeConverterStatus) IsConverting() bool { return false }
func (f *fakeConverterStatus) TriggerCycle()      { f.triggered++ }

func TestJournalStatsAdapter(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	jr, err := journal.New(ctx, filepath.Join(t.TempDir(), "gifmill.db"))
	if err != nil {
		t.Fatalf("Failed to create journal: %v", err)
	}
	defer jr.Close()

	records := []journal.ConversionRecord{
		{Cycle: 1, SourcePath: "/v/a.mp4", Dither: mediatypes.DitherBayer, Status: journal.StatusSuccess, Duration: time.Second},
		{Cycle: 1, SourcePath: "/v/b.mp4", Dither: mediatypes.DitherBayer, Status: journal.StatusSuccess, Duration: time.Second},
		{Cycle: 1, SourcePath: "/v/c.mp4", Dither: mediatypes.DitherBayer, Status: journal.StatusError, Error: "boom"},
	}
	for _, rec := range records {
		if err := jr.RecordConversion(ctx, rec); err != nil {
			t.Fatalf("Failed to record conversion: %v", err)
		}
	}
	if err := jr.RecordCycle(ctx, journal.CycleSummary{Cycle: 1, StartedAt: time.Now(), FinishedAt: time.Now()}); err != nil {
		t.Fatalf("Failed to record cycle: %v", err)
	}

	stats := journalStats{jr}.GetStats()

	if stats.ConversionsSucceeded != 2 {
		t.Errorf("ConversionsSucceeded = %d, want 2", stats.ConversionsSucceeded)
	}
	if stats.ConversionsFailed != 1 {
		t.Errorf("ConversionsFailed = %d, want 1", stats.ConversionsFailed)
	}
	if stats.CyclesRecorded != 1 {
		t.Errorf("CyclesRecorded = %d, want 1", stats.CyclesRecorded)
	}
}

func TestJournalStatsAdapterClosedJournal(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	jr, err := journal.New(context.Background(), filepath.Join(t.TempDir(), "gifmill.db"))
	if err != nil {
		t.Fatalf("Failed to create journal: %v", err)
	}
	jr.Close()

	// A broken journal degrades to zero stats rather than panicking
	stats := journalStats{jr}.GetStats()
	if stats != (metrics.Stats{}) {
		t.Errorf("Expected zero stats from a closed journal, got %+v", stats)
	}
}

func TestSetupRouter(t *testing.T) {
	conv := &fakeConverterStatus{ready: true}
	h := handlers.New(conv, nil, config.Default())
	router := setupRouter(h)

	tests := []struct {
		name     string
		method   string
		path     string
		wantCode int
	}{
		{"health", http.MethodGet, "/health", http.StatusOK},
		{"healthz alias", http.MethodGet, "/healthz", http.StatusOK},
		{"liveness", http.MethodGet, "/livez", http.StatusOK},
		{"liveness HEAD", http.MethodHead, "/livez", http.StatusOK},
		{"readiness", http.MethodGet, "/readyz", http.StatusOK},
		{"version", http.MethodGet, "/version", http.StatusOK},
		{"stats", http.MethodGet, "/api/stats", http.StatusOK},
		{"trigger convert", http.MethodPost, "/api/convert", http.StatusOK},
		{"convert rejects GET", http.MethodGet, "/api/convert", http.StatusMethodNotAllowed},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK},
		{"unknown route", http.MethodGet, "/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, http.NoBody)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Errorf("%s %s = %d, want %d", tt.method, tt.path, w.Code, tt.wantCode)
			}
		})
	}

	if conv.triggered != 1 {
		t.Errorf("Expected 1 triggered cycle, got %d", conv.triggered)
	}
}

func TestSetupRouterNotReady(t *testing.T) {
	h := handlers.New(&fakeConverterStatus{ready: false}, nil, config.Default())
	router := setupRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/readyz", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 before the first cycle, got %d", w.Code)
	}
}
