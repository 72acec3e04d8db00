package converter

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"gifmill/internal/config"
	"gifmill/internal/journal"
	"gifmill/internal/mediatypes"
	"gifmill/internal/transcoder"
)

// =============================================================================
// Stub Invoker
// =============================================================================

// stubInvoker fakes probe and conversion results. Convert writes a real
// output file so cleanup and re-scan behavior can be observed on disk.
type stubInvoker struct {
	mu           sync.Mutex
	probeErrs    map[string]error
	convertErrs  map[string]error // keyed by path + "|" + dither
	convertDelay time.Duration
	started      chan string

	probeCalls   int
	convertCalls []string
	active       int
	maxActive    int
}

func newStubInvoker() *stubInvoker {
	return &stubInvoker{
		probeErrs:   make(map[string]error),
		convertErrs: make(map[string]error),
	}
}

func (s *stubInvoker) Probe(_ context.Context, filePath string) (*transcoder.VideoInfo, error) {
	s.mu.Lock()
	s.probeCalls++
	err := s.probeErrs[filePath]
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return &transcoder.VideoInfo{Codec: "h264", Width: 1920, Height: 1080, Duration: 12.5, FrameRate: 29.97}, nil
}

func (s *stubInvoker) Convert(ctx context.Context, filePath string, dither mediatypes.Dither) (string, error) {
	key := filePath + "|" + string(dither)

	s.mu.Lock()
	s.convertCalls = append(s.convertCalls, key)
	s.active++
	if s.active > s.maxActive {
		s.maxActive = s.active
	}
	err := s.convertErrs[key]
	delay := s.convertDelay
	started := s.started
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.active--
		s.mu.Unlock()
	}()

	if started != nil {
		select {
		case started <- filePath:
		default:
		}
	}

	if delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}

	if err != nil {
		return "", err
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	out := transcoder.OutputPath(filePath, dither)
	if werr := os.WriteFile(out, []byte("GIF89a"), 0o644); werr != nil {
		return "", werr
	}
	return out, nil
}

func (s *stubInvoker) maxConcurrent() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxActive
}

func (s *stubInvoker) calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.convertCalls...)
}

func (s *stubInvoker) probeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.probeCalls
}

// =============================================================================
// Stub Recorder
// =============================================================================

type stubRecorder struct {
	mu          sync.Mutex
	conversions []journal.ConversionRecord
	cycles      []journal.CycleSummary
	failWrites  bool
}

func (r *stubRecorder) RecordConversion(_ context.Context, rec journal.ConversionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWrites {
		return errors.New("journal closed")
	}
	r.conversions = append(r.conversions, rec)
	return nil
}

func (r *stubRecorder) RecordCycle(_ context.Context, sum journal.CycleSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWrites {
		return errors.New("journal closed")
	}
	r.cycles = append(r.cycles, sum)
	return nil
}

func (r *stubRecorder) recordedConversions() []journal.ConversionRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]journal.ConversionRecord(nil), r.conversions...)
}

func (r *stubRecorder) recordedCycles() []journal.CycleSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]journal.CycleSummary(nil), r.cycles...)
}

// =============================================================================
// Helpers
// =============================================================================

// testConfig builds a validated config with the readiness gate disabled
// so tests run fast.
func testConfig(roots []string, dithers ...mediatypes.Dither) *config.Config {
	cfg := config.Default()
	cfg.RootPaths = roots
	cfg.ScheduleInterval = 60
	cfg.DitherOptions = dithers
	cfg.StabilityWindow = 0
	cfg.MaxConcurrent = 2
	return cfg
}

// =============================================================================
// Unit Tests
// =============================================================================

func TestAllSucceeded(t *testing.T) {
	tests := []struct {
		name   string
		result ProcessingResult
		want   bool
	}{
		{
			name: "all variants succeeded",
			result: ProcessingResult{
				Path: "/v/a.mp4",
				Outcomes: []TaskOutcome{
					{Dither: mediatypes.DitherBayer},
					{Dither: mediatypes.DitherNone},
				},
			},
			want: true,
		},
		{
			name: "one variant failed",
			result: ProcessingResult{
				Path: "/v/a.mp4",
				Outcomes: []TaskOutcome{
					{Dither: mediatypes.DitherBayer},
					{Dither: mediatypes.DitherNone, Err: errors.New("ffmpeg error")},
				},
			},
			want: false,
		},
		{
			name:   "pre-conversion failure",
			result: ProcessingResult{Path: "/v/a.mp4", Err: errors.New("no video stream found")},
			want:   false,
		},
		{
			name:   "no outcomes",
			result: ProcessingResult{Path: "/v/a.mp4"},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.AllSucceeded(); got != tt.want {
				t.Errorf("AllSucceeded() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewWorkerCount(t *testing.T) {
	tests := []struct {
		name          string
		maxConcurrent int
		wantExact     int // 0 means check bounds only
	}{
		{"configured bound", 3, 3},
		{"single worker", 1, 1},
		{"derived from CPUs when unset", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig([]string{t.TempDir()}, mediatypes.DitherBayer)
			cfg.MaxConcurrent = tt.maxConcurrent

			c := New(cfg, newStubInvoker(), nil)

			if tt.wantExact > 0 {
				if c.workerCount != tt.wantExact {
					t.Errorf("workerCount = %d, want %d", c.workerCount, tt.wantExact)
				}
				return
			}

			if c.workerCount < 1 || c.workerCount > defaultWorkerLimit {
				t.Errorf("workerCount = %d, want between 1 and %d", c.workerCount, defaultWorkerLimit)
			}
		})
	}
}

func TestTryStartCycleGuard(t *testing.T) {
	cfg := testConfig([]string{t.TempDir()}, mediatypes.DitherBayer)
	c := New(cfg, newStubInvoker(), nil)

	if !c.tryStartCycle() {
		t.Fatal("first tryStartCycle should succeed")
	}
	if c.tryStartCycle() {
		t.Error("second tryStartCycle should fail while the first is running")
	}
	if !c.IsConverting() {
		t.Error("IsConverting should be true mid-cycle")
	}

	c.finishCycle()

	if c.IsConverting() {
		t.Error("IsConverting should be false after finishCycle")
	}
	if !c.IsReady() {
		t.Error("IsReady should be true after the first cycle completes")
	}
	if !c.tryStartCycle() {
		t.Error("tryStartCycle should succeed again after finishCycle")
	}
}

func TestHealthStatusInitial(t *testing.T) {
	cfg := testConfig([]string{t.TempDir()}, mediatypes.DitherBayer)
	c := New(cfg, newStubInvoker(), nil)

	status := c.GetHealthStatus()

	if status.Ready {
		t.Error("Ready should be false before the first cycle")
	}
	if status.Converting {
		t.Error("Converting should be false before any cycle")
	}
	if status.Phase != PhaseIdle {
		t.Errorf("Phase = %q, want %q", status.Phase, PhaseIdle)
	}
	if status.CyclesCompleted != 0 {
		t.Errorf("CyclesCompleted = %d, want 0", status.CyclesCompleted)
	}
	if status.StartTime.IsZero() {
		t.Error("StartTime should be set")
	}
	if status.Uptime == "" {
		t.Error("Uptime should be set")
	}
}

func TestErrString(t *testing.T) {
	if got := errString(nil); got != "" {
		t.Errorf("errString(nil) = %q, want empty", got)
	}
	if got := errString(errors.New("boom")); got != "boom" {
		t.Errorf("errString = %q, want %q", got, "boom")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	cfg := testConfig([]string{t.TempDir()}, mediatypes.DitherBayer)
	c := New(cfg, newStubInvoker(), nil)

	c.Stop()
	c.Stop() // must not panic on double close
}
