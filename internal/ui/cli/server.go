package cli

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tokenlint/internal/core/app"
	"tokenlint/internal/core/errors"
	"tokenlint/internal/core/ports"
	"tokenlint/internal/shared/util"
)

const (
	clientRate  = 2
	clientBurst = 5
	clientTTL   = 10 * time.Minute
)

// ObservabilityServer exposes metrics, health and the latest report over HTTP.
type ObservabilityServer struct {
	addr          string
	service       ports.LintService
	healthService *app.HealthService
	limiters      *util.LimiterRegistry
	metrics       bool
	server        *http.Server
}

// NewObservabilityServer serves /metrics only when metrics is set.
func NewObservabilityServer(ctx context.Context, addr string, service ports.LintService, healthService *app.HealthService, metrics bool) *ObservabilityServer {
	return &ObservabilityServer{
		addr:          addr,
		service:       service,
		healthService: healthService,
		limiters:      util.NewLimiterRegistry(ctx, clientRate, clientBurst, clientTTL),
		metrics:       metrics,
	}
}

// Handler builds the router.
func (s *ObservabilityServer) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	if s.metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		status := s.healthService.Check(r.Context())
		code := http.StatusOK
		if status.Status != "up" {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, status)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.rateLimit)

		r.Get("/report", func(w http.ResponseWriter, r *http.Request) {
			format := r.URL.Query().Get("format")
			out, err := s.service.Report(r.Context(), ports.ReportRequest{Format: format})
			if err != nil {
				writeError(w, err)
				return
			}
			if format == "sarif" {
				w.Header().Set("Content-Type", "application/sarif+json")
			} else {
				w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			}
			_, _ = w.Write([]byte(out))
		})

		r.Get("/scan", func(w http.ResponseWriter, r *http.Request) {
			latest, ok := s.service.Latest()
			if !ok {
				writeError(w, errors.New(errors.CodeNotFound, "no scan has completed yet"))
				return
			}
			writeJSON(w, http.StatusOK, latest)
		})

		r.Post("/scan", func(w http.ResponseWriter, r *http.Request) {
			summary, err := s.service.Scan(r.Context(), ports.ScanRequest{})
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, summary)
		})
	})

	return r
}

func (s *ObservabilityServer) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.RemoteAddr
		if host, _, err := net.SplitHostPort(key); err == nil {
			key = host
		}
		if !s.limiters.Get(key).Allow(1) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *ObservabilityServer) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	slog.Info("observability server starting", "addr", s.addr)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("observability server failed", "error", err)
		}
	}()

	return nil
}

func (s *ObservabilityServer) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

type errorBody struct {
	Error   string `json:"error"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	body := errorBody{Error: err.Error()}
	code := http.StatusInternalServerError
	if se, ok := errors.AsSelection(err); ok {
		code = http.StatusUnprocessableEntity
		body.Title, body.Message = se.Title, se.Message
	} else if errors.IsCode(err, errors.CodeNotFound) || errors.IsCode(err, errors.CodeReport) {
		code = http.StatusNotFound
	} else if errors.IsCode(err, errors.CodeValidationError) {
		code = http.StatusBadRequest
	}
	writeJSON(w, code, body)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}
