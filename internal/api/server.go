// Package api exposes the design engine over HTTP
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/alexiusacademia/rcbeam/internal/engine"
	"github.com/alexiusacademia/rcbeam/internal/report"
)

// Options tune the HTTP surface
type Options struct {
	Rate     float64 // requests per second per client; zero disables limiting
	Burst    int
	MaxBatch int
	Logger   *slog.Logger
	Report   report.Meta // title block defaults for PDF reports
}

// Server routes HTTP requests to an engine
type Server struct {
	engine   *engine.Engine
	logger   *slog.Logger
	limiter  *IPRateLimiter
	maxBatch int
	meta     report.Meta
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// New builds a server. HTTP metrics are added to the engine's registry so
// /metrics exposes both.
func New(e *engine.Engine, opts Options) *Server {
	s := &Server{
		engine:   e,
		logger:   opts.Logger,
		maxBatch: opts.MaxBatch,
		meta:     opts.Report,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.maxBatch <= 0 {
		s.maxBatch = 500
	}
	if opts.Rate > 0 {
		s.limiter = NewIPRateLimiter(rate.Limit(opts.Rate), max(opts.Burst, 1))
	}

	f := promauto.With(e.Metrics().Registry)
	s.requests = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rcbeam",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route and status code",
	}, []string{"route", "code"})
	s.latency = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "rcbeam",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
	return s
}

// Router returns the route table
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.instrument)

	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.engine.Metrics().Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	if s.limiter != nil {
		api.Use(s.limiter.LimitMiddleware)
	}
	api.HandleFunc("/codes", s.listCodes).Methods(http.MethodGet)
	api.HandleFunc("/codes/{code}", s.getCode).Methods(http.MethodGet)
	api.HandleFunc("/clauses", s.searchClauses).Methods(http.MethodGet)
	api.HandleFunc("/clauses/{id}", s.getClause).Methods(http.MethodGet)
	api.HandleFunc("/design", s.design).Methods(http.MethodPost)
	api.HandleFunc("/trace", s.trace).Methods(http.MethodPost)
	api.HandleFunc("/batch", s.batch).Methods(http.MethodPost)
	api.HandleFunc("/batch/xlsx", s.batchXLSX).Methods(http.MethodPost)
	api.HandleFunc("/report/pdf", s.reportPDF).Methods(http.MethodPost)
	return r
}

// HTTPServer wraps the router with the given address and timeouts
func (s *Server) HTTPServer(addr string, read, write time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadTimeout:       read,
		ReadHeaderTimeout: read,
		WriteTimeout:      write,
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if cr := mux.CurrentRoute(r); cr != nil {
			if tpl, err := cr.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		elapsed := time.Since(start)
		s.requests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		s.latency.WithLabelValues(route).Observe(elapsed.Seconds())
		s.logger.Debug("http request",
			"method", r.Method,
			"route", route,
			"status", rec.status,
			"duration", elapsed)
	})
}

type errorBody struct {
	Error     string   `json:"error"`
	Available []string `json:"available,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Warn("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// decode reads one JSON value, rejecting unknown fields
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 8<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
