package handlers

import (
	"net/http"
)

// TriggerConvert starts a conversion cycle on demand.
func (h *Handlers) TriggerConvert(w http.ResponseWriter, _ *http.Request) {
	if h.conv.IsConverting() {
		w.Header().Set("Content-Type", "application/json")
		writeJSON(w, map[string]string{
			"status":  "already_running",
			"message": "A conversion cycle is already in progress",
		})
		return
	}

	h.conv.TriggerCycle()

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]string{
		"status":  "started",
		"message": "Conversion cycle started",
	})
}
