package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/crowdfire/publishtimer/internal/schedule"
)

// StatusWriteScheduleFailed is returned when the schedule was computed but
// the save-schedule API rejected the write. The body carries the upstream
// status and the computed schedule so the caller can inspect or re-queue.
const StatusWriteScheduleFailed = 512

// handlePing handles liveness checks
func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

// publishScheduleRequest is the body of PUT /api/v1.0/publishschedule.
// authUid may be a JSON string or number. The use_es/use_tw/save_on_fly
// names are accepted for compatibility with the original deployment; any
// other unknown key is rejected.
type publishScheduleRequest struct {
	AuthUID         json.RawMessage `json:"authUid"`
	UseStore        *bool           `json:"useStore"`
	UseLiveSource   *bool           `json:"useLiveSource"`
	PersistLiveData *bool           `json:"persistLiveData"`

	// Legacy option names.
	UseES     *bool `json:"use_es"`
	UseTW     *bool `json:"use_tw"`
	SaveOnFly *bool `json:"save_on_fly"`
}

// params translates the request body into pipeline parameters, applying the
// documented defaults (everything enabled) and letting the modern option
// names win over the legacy ones.
func (req *publishScheduleRequest) params(authUID string) schedule.Params {
	p := schedule.DefaultParams(authUID)
	if req.UseES != nil {
		p.UseStore = *req.UseES
	}
	if req.UseTW != nil {
		p.UseLiveSource = *req.UseTW
	}
	if req.SaveOnFly != nil {
		p.PersistLiveData = *req.SaveOnFly
	}
	if req.UseStore != nil {
		p.UseStore = *req.UseStore
	}
	if req.UseLiveSource != nil {
		p.UseLiveSource = *req.UseLiveSource
	}
	if req.PersistLiveData != nil {
		p.PersistLiveData = *req.PersistLiveData
	}
	return p
}

// handlePublishSchedule triggers the pipeline for one authUid.
func (s *Server) handlePublishSchedule(w http.ResponseWriter, r *http.Request) {
	var req publishScheduleRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.badRequest(w, "Bad Request. Refer doc", err.Error())
		return
	}

	authUID, err := decodeAuthUID(req.AuthUID)
	if err != nil {
		s.badRequest(w, "Bad Request. Refer doc", err.Error())
		return
	}

	result, err := s.service.Run(r.Context(), req.params(authUID))
	if err != nil {
		s.writePipelineError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

// enqueueRequest is the body of POST /api/v1.0/queue.
type enqueueRequest struct {
	AuthUID json.RawMessage `json:"authUid"`
}

// handleEnqueue adds an authUid to the background work queue.
func (s *Server) handleEnqueue(w http.ResponseWriter, r *http.Request) {
	var req enqueueRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.badRequest(w, "Bad Request. Refer doc", err.Error())
		return
	}

	authUID, err := decodeAuthUID(req.AuthUID)
	if err != nil {
		s.badRequest(w, "Bad Request. Refer doc", err.Error())
		return
	}
	if _, err := schedule.ParseAccountID(authUID); err != nil {
		s.badRequest(w, "Bad Request. Refer doc", err.Error())
		return
	}

	messageID, err := s.queue.Enqueue(r.Context(), authUID)
	if err != nil {
		s.internalError(w, err)
		return
	}

	s.writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"messageId": messageID,
		"authUid":   authUID,
	})
}

// decodeAuthUID accepts a JSON string or number for the authUid field.
func decodeAuthUID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", errors.New("authUid is required")
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		if asString == "" {
			return "", errors.New("authUid must not be empty")
		}
		return asString, nil
	}
	var asNumber int64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return schedule.WithSuffix(asNumber), nil
	}
	return "", errors.New("authUid must be a string or an integer")
}

// writePipelineError maps pipeline errors to boundary status codes:
// 400 for malformed input, 512 for publish failures (with the computed
// schedule in the body), 500 with a scrubbed message for everything else.
func (s *Server) writePipelineError(w http.ResponseWriter, err error) {
	var writeFailed *schedule.WriteScheduleFailedError
	if errors.As(err, &writeFailed) {
		s.writeJSON(w, StatusWriteScheduleFailed, map[string]interface{}{
			"error":            writeFailed.Error(),
			"upstreamStatus":   writeFailed.StatusCode,
			"upstreamReason":   writeFailed.Reason,
			"computedSchedule": writeFailed.Schedule,
		})
		return
	}
	if errors.Is(err, schedule.ErrInvalidAccountID) {
		s.badRequest(w, "Bad Request. Refer doc", err.Error())
		return
	}
	s.internalError(w, err)
}

func (s *Server) badRequest(w http.ResponseWriter, msg, detail string) {
	s.writeJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":   msg,
		"message": detail,
	})
}

// internalError logs full diagnostic detail and returns a scrubbed body.
func (s *Server) internalError(w http.ResponseWriter, err error) {
	s.log.Error().Err(err).Msg("Internal error")
	s.writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
		"error": "Internal Server Error",
	})
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
