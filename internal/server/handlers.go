package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"runtime"
	"time"

	"github.com/0xReLogic/Janus/internal/chaos"
	"github.com/0xReLogic/Janus/internal/logging"
	"github.com/0xReLogic/Janus/internal/version"
)

// Response bodies use camelCase keys and RFC3339 UTC timestamps; failover
// harnesses parse these fields, so their names are part of the contract.

type environmentInfo struct {
	RuntimeVersion string `json:"runtimeVersion"`
	Platform       string `json:"platform"`
}

type versionResponse struct {
	Pool        string          `json:"pool"`
	ReleaseID   string          `json:"releaseId"`
	Version     string          `json:"version"`
	Status      string          `json:"status"`
	Timestamp   string          `json:"timestamp"`
	Uptime      float64         `json:"uptime"`
	Environment environmentInfo `json:"environment"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Pool      string `json:"pool"`
	Timestamp string `json:"timestamp"`
}

type chaosStartResponse struct {
	Message   string `json:"message"`
	Mode      string `json:"mode"`
	Pool      string `json:"pool"`
	Timestamp string `json:"timestamp"`
}

type chaosStopResponse struct {
	Message    string `json:"message"`
	WasEnabled bool   `json:"wasEnabled"`
	Pool       string `json:"pool"`
	Timestamp  string `json:"timestamp"`
}

type chaosStatusResponse struct {
	Enabled   bool   `json:"enabled"`
	Mode      string `json:"mode"`
	Pool      string `json:"pool"`
	Timestamp string `json:"timestamp"`
}

// errorResponse covers every failure shape: path is set on routing errors,
// timestamp on chaos-simulated failures.
type errorResponse struct {
	Error     string `json:"error"`
	Path      string `json:"path,omitempty"`
	Pool      string `json:"pool"`
	Timestamp string `json:"timestamp,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.LogError("failed to encode response", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// handleRoot lists the available routes so an operator poking at a pool
// can discover the chaos controls with one request.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service":   serviceName,
		"pool":      s.cfg.Pool,
		"releaseId": s.cfg.ReleaseID,
		"endpoints": map[string]string{
			"GET /":             "route directory",
			"GET /version":      "pool identity and build info, subject to chaos mode",
			"GET /healthz":      "liveness, never affected by chaos mode",
			"GET /chaos/status": "current chaos state",
			"POST /chaos/start": "enable fault injection (mode=error|timeout)",
			"POST /chaos/stop":  "disable fault injection",
		},
	})
}

// handleVersion reports which pool and release answered. This is the route
// a failover harness polls to see traffic shift between pools, and the only
// route the chaos gate guards.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, versionResponse{
		Pool:      s.cfg.Pool,
		ReleaseID: s.cfg.ReleaseID,
		Version:   version.Version,
		Status:    "healthy",
		Timestamp: timestamp(),
		Uptime:    time.Since(s.started).Seconds(),
		Environment: environmentInfo{
			RuntimeVersion: runtime.Version(),
			Platform:       runtime.GOOS + "/" + runtime.GOARCH,
		},
	})
}

// handleHealthz answers 200 as long as the process is serving, regardless
// of chaos state. Load balancer health checks must keep passing while the
// application misbehaves, otherwise the balancer would mask the fault the
// harness is trying to observe.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Pool:      s.cfg.Pool,
		Timestamp: timestamp(),
	})
}

// handleChaosStart enables fault injection. The mode comes from the "mode"
// query parameter, with a JSON body {"mode": ...} as fallback; the query
// parameter wins when both are present, and "error" is the default when
// neither is given.
func (s *Server) handleChaosStart(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("mode")
	if raw == "" {
		var body struct {
			Mode string `json:"mode"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error: "Invalid JSON body",
				Pool:  s.cfg.Pool,
			})
			return
		}
		raw = body.Mode
	}

	mode := chaos.ModeError
	if raw != "" {
		m, err := chaos.ParseMode(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error: `Invalid chaos mode: must be "error" or "timeout"`,
				Pool:  s.cfg.Pool,
			})
			return
		}
		mode = m
	}

	s.state.Enable(mode)
	logging.LogChaosEnabled(s.cfg.Pool, string(mode))

	writeJSON(w, http.StatusOK, chaosStartResponse{
		Message:   "Chaos mode enabled",
		Mode:      string(mode),
		Pool:      s.cfg.Pool,
		Timestamp: timestamp(),
	})
}

// handleChaosStop disables fault injection. Harness cleanup code calls this
// unconditionally, so stopping while already stopped is a success; the
// response reports whether chaos had actually been on.
func (s *Server) handleChaosStop(w http.ResponseWriter, r *http.Request) {
	wasEnabled := s.state.Disable()
	logging.LogChaosDisabled(s.cfg.Pool, wasEnabled)

	writeJSON(w, http.StatusOK, chaosStopResponse{
		Message:    "Chaos mode disabled",
		WasEnabled: wasEnabled,
		Pool:       s.cfg.Pool,
		Timestamp:  timestamp(),
	})
}

// handleChaosStatus reports the current chaos state without changing it,
// so a harness can poll instead of tracking what it last toggled.
func (s *Server) handleChaosStatus(w http.ResponseWriter, r *http.Request) {
	enabled, mode := s.state.Snapshot()
	writeJSON(w, http.StatusOK, chaosStatusResponse{
		Enabled:   enabled,
		Mode:      string(mode),
		Pool:      s.cfg.Pool,
		Timestamp: timestamp(),
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, errorResponse{
		Error: "Not found",
		Path:  r.URL.Path,
		Pool:  s.cfg.Pool,
	})
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{
		Error: "Method not allowed",
		Path:  r.URL.Path,
		Pool:  s.cfg.Pool,
	})
}
