package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/climate-report/internal/domain"
	"github.com/couchcryptid/climate-report/internal/observability"
)

// DatasetSource provides the built dataset and reports whether it is ready.
type DatasetSource interface {
	sharedobs.ReadinessChecker
	Dataset() *domain.Dataset
}

// Renderer writes the report page for a dataset.
type Renderer interface {
	Render(w io.Writer, ds *domain.Dataset) error
}

// Server exposes the report page, its tables as JSON, and health, readiness,
// and metrics endpoints.
type Server struct {
	httpServer *http.Server
	source     DatasetSource
	page       Renderer
	metrics    *observability.Metrics
	topN       int
	logger     *slog.Logger
}

// NewServer creates an HTTP server for the report.
func NewServer(addr string, source DatasetSource, page Renderer, metrics *observability.Metrics, topN int, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	if topN <= 0 {
		topN = domain.DefaultTopN
	}
	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		source:  source,
		page:    page,
		metrics: metrics,
		topN:    topN,
		logger:  logger,
	}

	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /api/datasets/{name}", s.handleDataset)
	mux.HandleFunc("GET /api/top-emitters", s.handleTopEmitters)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(source))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handlePage(w http.ResponseWriter, _ *http.Request) {
	ds := s.source.Dataset()
	if ds == nil {
		http.Error(w, "report is not ready", http.StatusServiceUnavailable)
		return
	}

	// Render to a buffer so a template failure still yields a clean 500.
	var buf bytes.Buffer
	if err := s.page.Render(&buf, ds); err != nil {
		s.logger.Error("render page failed", "error", err)
		http.Error(w, "failed to render report", http.StatusInternalServerError)
		return
	}
	s.metrics.PageRenders.Inc()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes()) //nolint:errcheck // client went away
}

func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	ds := s.source.Dataset()
	if ds == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("dataset has not been built yet"))
		return
	}

	var table any
	switch name := r.PathValue("name"); name {
	case "co2":
		table = ds.CO2
	case "emissions":
		table = ds.Emissions
	case "sea_level":
		table = ds.SeaLevel
	case "coastlines":
		table = ds.Coastlines
	case "geo_coastlines":
		table = ds.GeoCoastlines
	default:
		writeError(w, http.StatusNotFound, errors.New("unknown dataset "+strconv.Quote(name)))
		return
	}
	writeJSON(w, http.StatusOK, table)
}

type topEmittersResponse struct {
	Year     int                     `json:"year"`
	N        int                     `json:"n"`
	Emitters []domain.EmissionRecord `json:"emitters"`
}

func (s *Server) handleTopEmitters(w http.ResponseWriter, r *http.Request) {
	ds := s.source.Dataset()
	if ds == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("dataset has not been built yet"))
		return
	}

	_, year := domain.YearRange(domain.ChartableEmissions(ds.Emissions))
	if v := r.URL.Query().Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("year must be an integer"))
			return
		}
		year = y
	}

	n := s.topN
	if v := r.URL.Query().Get("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, errors.New("n must be a positive integer"))
			return
		}
		n = parsed
	}

	top := domain.TopEmitters(ds.Emissions, year, n)
	if top == nil {
		top = []domain.EmissionRecord{}
	}
	writeJSON(w, http.StatusOK, topEmittersResponse{Year: year, N: n, Emitters: top})
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
