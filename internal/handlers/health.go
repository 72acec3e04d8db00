package handlers

import (
	"net/http"
	"runtime"

	"gifmill/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusStarting = "starting"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status     string `json:"status"`
	Ready      bool   `json:"ready"`
	Version    string `json:"version"`
	Uptime     string `json:"uptime"`
	Converting bool   `json:"converting"`
	Phase      string `json:"phase"`
	LastCycle  string `json:"lastCycle,omitempty"`

	// Progress info
	CyclesCompleted int64 `json:"cyclesCompleted"`
	FilesDiscovered int64 `json:"filesDiscovered"`
	FilesConverted  int64 `json:"filesConverted"`
	FilesFailed     int64 `json:"filesFailed"`
	SourcesDeleted  int64 `json:"sourcesDeleted"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck returns the health status of the service
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	healthStatus := h.conv.GetHealthStatus()

	response := HealthResponse{
		Ready:           healthStatus.Ready,
		Version:         startup.Version,
		Uptime:          healthStatus.Uptime,
		Converting:      healthStatus.Converting,
		Phase:           string(healthStatus.Phase),
		CyclesCompleted: healthStatus.CyclesCompleted,
		FilesDiscovered: healthStatus.FilesDiscovered,
		FilesConverted:  healthStatus.FilesConverted,
		FilesFailed:     healthStatus.FilesFailed,
		SourcesDeleted:  healthStatus.SourcesDeleted,
		GoVersion:       runtime.Version(),
		NumCPU:          runtime.NumCPU(),
		NumGoroutine:    runtime.NumGoroutine(),
	}

	if healthStatus.Ready {
		response.Status = statusHealthy
	} else {
		response.Status = statusStarting
	}

	if !healthStatus.LastCycle.IsZero() {
		response.LastCycle = healthStatus.LastCycle.Format("2006-01-02T15:04:05Z07:00")
	}

	// A completed cycle that left failures behind still serves traffic,
	// but the status reflects it.
	if healthStatus.Ready && healthStatus.LastCycleFailures > 0 {
		response.Status = statusDegraded
	}

	w.Header().Set("Content-Type", "application/json")

	// Return 503 only before the first cycle completes
	if !healthStatus.Ready {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	writeJSON(w, response)
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	// For HEAD requests, only send headers (no body)
	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{
			"status": "alive",
		})
	}
}

// ReadinessCheck returns 200 only when the first conversion cycle has completed
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if h.conv.IsReady() {
		w.WriteHeader(http.StatusOK)
		writeJSON(w, map[string]string{
			"status": "ready",
		})
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
		writeJSON(w, map[string]string{
			"status": "not_ready",
		})
	}
}
