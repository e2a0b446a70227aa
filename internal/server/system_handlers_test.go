package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleStatus(t *testing.T) {
	s := newTestServer(t, &stubRunner{})

	rr := doRequest(s, http.MethodGet, "/api/v1.0/status", "")

	assert.Equal(t, http.StatusOK, rr.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "publishtimer", body["service"])
	assert.Contains(t, body, "uptimeSeconds")
	assert.Equal(t, float64(0), body["queueDepth"])
}
