package healthprobe

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth_AlwaysOK(t *testing.T) {
	p := New()

	for _, ready := range []bool{false, true} {
		p.SetReady(ready)

		w := httptest.NewRecorder()
		p.Health()(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var resp Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "healthy", resp.Status)
		assert.NotEmpty(t, resp.Uptime)
	}
}

func TestReady_NotReadyInitially(t *testing.T) {
	p := New()

	w := httptest.NewRecorder()
	p.Ready()(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "not_ready", resp.Status)
	assert.NotEmpty(t, resp.Message)
}

func TestReady_StateChanges(t *testing.T) {
	p := New()
	handler := p.Ready()

	check := func(want int) {
		w := httptest.NewRecorder()
		handler(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
		assert.Equal(t, want, w.Code)
	}

	check(http.StatusServiceUnavailable)
	p.SetReady(true)
	check(http.StatusOK)
	p.SetReady(false)
	check(http.StatusServiceUnavailable)
}
