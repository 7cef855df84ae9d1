package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/0xReLogic/Janus/internal/chaos"
	"github.com/0xReLogic/Janus/internal/logging"
)

// statusRecorder captures the status code and body size written by the
// wrapped handler so the request log can report them.
type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.size += n
	return n, err
}

// identityHeaders stamps every response with the pool and release identity
// plus a request id (the inbound X-Request-Id is echoed when present). The
// harness tells pools apart by these headers, including on 404s and
// chaos-simulated failures, so this runs ahead of every handler.
func (s *Server) identityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-App-Pool", s.cfg.Pool)
		w.Header().Set("X-Release-Id", s.cfg.ReleaseID)
		w.Header().Set("X-Request-Id", requestID)
		next.ServeHTTP(w, r)
	})
}

// logRequests emits one structured line per completed request. Timeout-mode
// hangs never complete; the chaos gate logs those itself.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logging.LogHTTPRequest(
			r.Method,
			r.URL.Path,
			w.Header().Get("X-Request-Id"),
			rec.status,
			time.Since(start).Milliseconds(),
			int64(rec.size),
		)
	})
}

// recoverPanics converts unexpected handler panics into a plain 500 that
// still carries the pool identity. http.ErrAbortHandler is re-raised
// untouched: the chaos gate panics with it to sever a connection without
// writing a response, and net/http swallows it quietly.
func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			val := recover()
			if val == nil {
				return
			}
			if val == http.ErrAbortHandler {
				panic(val)
			}
			logging.LogPanicRecovered(s.cfg.Pool, r.URL.Path, val)
			writeJSON(w, http.StatusInternalServerError, errorResponse{
				Error: "Internal server error",
				Pool:  s.cfg.Pool,
			})
		}()
		next.ServeHTTP(w, r)
	})
}

// chaosGate applies the active fault mode ahead of the wrapped handler.
// Pass-through while chaos is off. In error mode it answers with a
// simulated 500 so the harness sees an unhealthy-but-responsive pool. In
// timeout mode it never answers at all, which is how a wedged process
// looks from the outside.
func (s *Server) chaosGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		enabled, mode := s.state.Snapshot()
		if !enabled {
			next.ServeHTTP(w, r)
			return
		}

		if mode == chaos.ModeTimeout {
			s.hang(r)
			return
		}

		logging.LogChaosReject(s.cfg.Pool, r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:     "Chaos mode active: simulated failure",
			Pool:      s.cfg.Pool,
			Timestamp: timestamp(),
		})
	})
}

// hang blocks without writing a single byte, then aborts the connection so
// no response is ever produced, not even an empty 200 from the handler
// returning. Held connections pile up until the client or an intermediary
// gives up; CHAOS_MAX_HANG bounds the wait when set.
func (s *Server) hang(r *http.Request) {
	logging.LogChaosHangStart(s.cfg.Pool, r.URL.Path)
	start := time.Now()

	reason := "client_gone"
	if s.cfg.ChaosMaxHang > 0 {
		timer := time.NewTimer(s.cfg.ChaosMaxHang)
		defer timer.Stop()
		select {
		case <-r.Context().Done():
		case <-timer.C:
			reason = "max_hang"
		}
	} else {
		<-r.Context().Done()
	}

	logging.LogChaosHangRelease(s.cfg.Pool, r.URL.Path, reason, time.Since(start))
	panic(http.ErrAbortHandler)
}
