package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/0xReLogic/Janus/internal/chaos"
	"github.com/0xReLogic/Janus/internal/config"
	"github.com/0xReLogic/Janus/internal/logging"
)

const serviceName = "janus"

// Server is a deliberately small backend that advertises which deployment
// pool it belongs to and can be switched into failure modes at runtime.
// Failover harnesses point a load balancer at two of these (blue and green)
// and use the chaos endpoints to make one pool misbehave on demand.
type Server struct {
	cfg     *config.Config
	state   *chaos.State
	started time.Time
	httpSrv *http.Server
}

// New creates a Server around the given configuration and chaos state. The
// state is injected rather than created here so tests and future multi-pool
// setups can own it directly.
func New(cfg *config.Config, state *chaos.State) *Server {
	s := &Server{
		cfg:     cfg,
		state:   state,
		started: time.Now(),
	}
	s.httpSrv = &http.Server{
		Addr:    cfg.Addr(),
		Handler: s.Handler(),
		// WriteTimeout stays zero: timeout-mode hangs must be able to
		// outlive any fixed deadline. Header reads are still bounded.
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the complete middleware and routing chain. Exposed so
// tests can drive the server through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	r.Handle("/version", s.chaosGate(http.HandlerFunc(s.handleVersion))).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.HandleFunc("/chaos/start", s.handleChaosStart).Methods(http.MethodPost)
	r.HandleFunc("/chaos/stop", s.handleChaosStop).Methods(http.MethodPost)
	r.HandleFunc("/chaos/status", s.handleChaosStatus).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(s.handleNotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(s.handleMethodNotAllowed)

	// Wrap outside the router so 404 and 405 responses also carry the
	// pool identity headers and show up in the request log.
	var h http.Handler = r
	h = s.logRequests(h)
	h = s.identityHeaders(h)
	h = s.recoverPanics(h)
	return h
}

// Start begins serving on the configured address and blocks until the
// listener is closed.
func (s *Server) Start() error {
	logging.LogHTTPServerStart(s.cfg.Addr(), s.cfg.Pool, s.cfg.ReleaseID)
	return s.httpSrv.ListenAndServe()
}

// Serve accepts connections on l. Tests use it to bind an ephemeral port.
func (s *Server) Serve(l net.Listener) error {
	logging.LogHTTPServerStart(l.Addr().String(), s.cfg.Pool, s.cfg.ReleaseID)
	return s.httpSrv.Serve(l)
}

// Shutdown stops accepting new connections and waits for in-flight requests
// until ctx expires. Timeout-mode hangs never finish on their own, so a
// shutdown with hangs outstanding is expected to return ctx's error.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// Close severs every remaining connection, including deliberate hangs.
func (s *Server) Close() error {
	return s.httpSrv.Close()
}
