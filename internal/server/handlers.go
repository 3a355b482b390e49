package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/screener/internal/screener"
)

const requestDateLayout = "2006-01-02"

// screenRequest is the optional body of POST /api/screen.
type screenRequest struct {
	AsOf string `json:"as_of,omitempty"`
}

// backtestRequest is the body of POST /api/backtest. Exactly one of the
// fields should be set.
type backtestRequest struct {
	AsOf     string `json:"as_of,omitempty"`
	Lookback string `json:"lookback,omitempty"`
}

// handleHealth reports service health with system and transport statistics.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	cpuUsage, memUsage := s.systemStats()

	response := map[string]interface{}{
		"status":         "healthy",
		"service":        "screener",
		"uptime_seconds": time.Since(s.startTime).Seconds(),
		"cpu_percent":    cpuUsage,
		"mem_percent":    memUsage,
	}
	if s.stats != nil {
		cacheStats, limiterStats := s.stats.Stats()
		response["cache"] = cacheStats
		response["rate_limiter"] = limiterStats
	}

	s.writeJSON(w, http.StatusOK, response)
}

// handleScreen runs a screen synchronously and returns the results. An
// optional as_of date replays the screen at that historical cutoff.
func (s *Server) handleScreen(w http.ResponseWriter, r *http.Request) {
	var req screenRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var record screener.RunRecord

	if req.AsOf != "" {
		asOf, err := time.Parse(requestDateLayout, req.AsOf)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "as_of must be YYYY-MM-DD")
			return
		}
		record.Results, record.Stats, err = s.screener.RunAsOf(r.Context(), asOf)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	} else {
		var err error
		record.Results, record.Stats, err = s.screener.Run(r.Context())
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	s.store.Set(record.Results, record.Stats)
	s.writeJSON(w, http.StatusOK, record)
}

// handleBacktest replays a screen at a past date and returns the portfolio.
func (s *Server) handleBacktest(w http.ResponseWriter, r *http.Request) {
	var req backtestRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch {
	case req.AsOf != "":
		asOf, err := time.Parse(requestDateLayout, req.AsOf)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "as_of must be YYYY-MM-DD")
			return
		}
		portfolio, err := s.backtester.Run(r.Context(), asOf)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.writeJSON(w, http.StatusOK, portfolio)

	case req.Lookback != "":
		portfolio, err := s.backtester.RunLookback(r.Context(), req.Lookback)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.writeJSON(w, http.StatusOK, portfolio)

	default:
		s.writeError(w, http.StatusBadRequest, "either as_of or lookback is required")
	}
}

// handleLatestRun serves the most recent completed run.
func (s *Server) handleLatestRun(w http.ResponseWriter, r *http.Request) {
	record, ok := s.store.Latest()
	if !ok {
		s.writeError(w, http.StatusNotFound, "no completed runs yet")
		return
	}
	s.writeJSON(w, http.StatusOK, record)
}

// systemStats samples CPU and memory usage. Failures degrade to zeros
// because health must never error on a metrics hiccup.
func (s *Server) systemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil || len(cpuPercent) == 0 {
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		return cpuPercent[0], 0
	}
	return cpuPercent[0], memStat.UsedPercent
}

// decodeOptionalBody decodes a JSON body when one is present.
func decodeOptionalBody(r *http.Request, out interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	return json.NewDecoder(r.Body).Decode(out)
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes a JSON error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{
		"status":  "error",
		"message": message,
	})
}
