// Package httpapi exposes a single-process HTTP surface that triggers a
// scenario run and streams its metric records back as they're emitted —
// a thin transport in front of chain.Simulator.Run, not a distributed
// scheduler.
package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/tevinokafor/chainsim/pkg/chain"
	"github.com/tevinokafor/chainsim/pkg/chain/config"
)

// Server wires a mux.Router with CORS and a run-submission rate limiter
// around the scenario loader and simulator.
type Server struct {
	router      *mux.Router
	limiter     *rate.Limiter
	corsOrigins []string
}

// NewServer constructs a Server. requestsPerSecond/burst configure the
// token bucket guarding POST /runs, mirroring the pack's API throttle
// pattern.
func NewServer(requestsPerSecond float64, burst int, corsOrigins []string) *Server {
	s := &Server{
		router:      mux.NewRouter(),
		limiter:     rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
		corsOrigins: corsOrigins,
	}
	s.setupRoutes()
	return s
}

// Handler returns the CORS-wrapped router.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	})
	return c.Handler(s.router)
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/runs", s.handleRunScenario).Methods("POST")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// runRequest is the POST /runs body: an inline scenario plus a period
// count override (scenario.Periods is used if Periods is zero).
type runRequest struct {
	Scenario config.Scenario `json:"scenario"`
	Periods  int             `json:"periods"`
}

// handleRunScenario builds the chain from the request body and streams
// NDJSON metric records back over a chunked response as the simulator
// emits them.
func (s *Server) handleRunScenario(w http.ResponseWriter, r *http.Request) {
	if err := s.limiter.Wait(r.Context()); err != nil {
		http.Error(w, "rate limit wait aborted", http.StatusTooManyRequests)
		return
	}

	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("decode run request: %v", err), http.StatusBadRequest)
		return
	}

	periods := req.Periods
	if periods <= 0 {
		periods = req.Scenario.Periods
	}

	c, err := config.Build(&req.Scenario)
	if err != nil {
		http.Error(w, fmt.Sprintf("build scenario: %v", err), http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)

	sink := &flushingSink{w: w, enc: json.NewEncoder(w), flusher: flusher}
	sim := chain.NewSimulator(c, chain.RSQControl{}, chain.FractionalRelease{}, sink)

	if err := sim.Run(r.Context(), periods); err != nil {
		fmt.Fprintf(w, `{"error":%q}`+"\n", err.Error())
		flusher.Flush()
	}
}

// flushingSink is a chain.Sink that flushes the HTTP response writer
// after every emitted event, so a streaming client sees each record as
// it happens rather than buffered until the run completes.
type flushingSink struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	enc     *json.Encoder
	flusher http.Flusher
}

func (f *flushingSink) Emit(e chain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enc.Encode(e); err != nil {
		return fmt.Errorf("encode event for stream: %w", err)
	}
	f.flusher.Flush()
	return nil
}

func (f *flushingSink) Close() error { return nil }
