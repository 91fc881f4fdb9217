package api

import (
	"net/http"
	"runtime"

	"github.com/dustin/go-humanize"
)

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler handles stats requests.
type StatsHandler struct {
	statsProvider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	stats := h.statsProvider.GetStats()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	stats["goroutines"] = runtime.NumGoroutine()
	stats["heapAlloc"] = humanize.Bytes(m.HeapAlloc)

	writeJSON(w, http.StatusOK, stats)
}
