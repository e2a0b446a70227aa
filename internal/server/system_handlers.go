package server

import (
	"net/http"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// handleStatus reports process and pipeline health: uptime, host CPU and
// memory, queue depth and event-store size. Intended for operators, not for
// load balancer liveness (use /ping for that).
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"service":       "publishtimer",
		"uptimeSeconds": int64(time.Since(s.startupTime).Seconds()),
	}

	if cpuPercent, err := cpu.Percent(0, false); err == nil && len(cpuPercent) > 0 {
		status["cpuPercent"] = cpuPercent[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		status["memoryUsedPercent"] = vm.UsedPercent
	}

	if s.queue != nil {
		if depth, err := s.queue.Depth(r.Context()); err == nil {
			status["queueDepth"] = depth
		} else {
			s.log.Warn().Err(err).Msg("Failed to read queue depth")
		}
	}
	if s.events != nil {
		if count, err := s.events.Count(r.Context()); err == nil {
			status["storedEvents"] = count
		} else {
			s.log.Warn().Err(err).Msg("Failed to count stored events")
		}
	}

	s.writeJSON(w, http.StatusOK, status)
}
