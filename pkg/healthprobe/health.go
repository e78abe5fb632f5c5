package healthprobe

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
)

// Probe provides liveness and readiness handlers for the HTTP server.
type Probe struct {
	startTime time.Time
	ready     atomic.Bool
}

// New creates a new Probe. The probe starts not ready; call SetReady once
// the rate table and storage are wired.
func New() *Probe {
	return &Probe{
		startTime: time.Now(),
	}
}

// SetReady marks the service as ready to accept calculation requests.
func (p *Probe) SetReady(ready bool) {
	p.ready.Store(ready)
}

// Response is the body returned by both probe endpoints.
type Response struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Message string `json:"message,omitempty"`
}

// Health returns an HTTP handler for liveness checks. It always returns
// 200 OK while the process is running.
func (p *Probe) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, Response{
			Status: "healthy",
			Uptime: time.Since(p.startTime).String(),
		})
	}
}

// Ready returns an HTTP handler for readiness checks. It returns 503 until
// SetReady(true) has been called.
func (p *Probe) Ready() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !p.ready.Load() {
			writeJSON(w, http.StatusServiceUnavailable, Response{
				Status:  "not_ready",
				Message: "service is starting",
			})
			return
		}

		writeJSON(w, http.StatusOK, Response{
			Status: "ready",
			Uptime: time.Since(p.startTime).String(),
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
