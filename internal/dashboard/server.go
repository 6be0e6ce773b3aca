package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/sizescope/sizescope/internal/compare"
	"github.com/sizescope/sizescope/internal/observability"
	"github.com/sizescope/sizescope/internal/plotpage"
)

// HTTP server timeouts.
const (
	readTimeout  = 30 * time.Second
	writeTimeout = 60 * time.Second
	idleTimeout  = 120 * time.Second
)

// Server serves the dashboard over HTTP.
type Server struct {
	service *Service
	logger  *slog.Logger
	tracer  trace.Tracer
	http    *http.Server
}

// NewServer wires the dashboard routes into an http.Server listening on addr.
func NewServer(service *Service, addr string, logger *slog.Logger, tracer trace.Tracer) (*Server, error) {
	s := &Server{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}

	metricsHandler, err := observability.PrometheusHandler()
	if err != nil {
		return nil, fmt.Errorf("building metrics handler: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/compare", s.handleCompare)
	mux.HandleFunc("/timeline", s.handleTimeline)
	mux.HandleFunc("/api/compare", s.handleAPICompare)
	mux.HandleFunc("/api/timeline", s.handleAPITimeline)
	mux.Handle("/healthz", observability.HealthHandler())
	mux.Handle("/readyz", observability.ReadyHandler(func(ctx context.Context) error {
		_, err := service.Loader().LoadIndex(ctx)

		return err
	}))
	mux.Handle("/metrics", metricsHandler)

	s.http = &http.Server{
		Addr:         addr,
		Handler:      observability.HTTPMiddleware(tracer, mux),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return s, nil
}

// Handler exposes the wired route handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.http.Handler }

// ListenAndServe blocks serving HTTP until Shutdown or a listener error.
func (s *Server) ListenAndServe() error {
	s.logger.Info("dashboard listening", slog.String("addr", s.http.Addr))

	return s.http.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// handleIndex lists the available platforms and versions.
func (s *Server) handleIndex(rw http.ResponseWriter, req *http.Request) {
	if req.URL.Path != "/" {
		http.NotFound(rw, req)

		return
	}

	idx, err := s.service.Loader().LoadIndex(req.Context())
	if err != nil {
		s.renderError(rw, req, "Index unavailable", err)

		return
	}

	page := plotpage.NewPage("Platforms", "Pick a platform and version pair to compare.").
		WithTheme(plotpage.Theme(s.service.cfg.Serve.Theme))

	table := plotpage.NewTable([]string{"Platform", "Versions", "Latest comparison"})
	pickers := make([]plotpage.Renderable, 0, len(idx))

	for _, name := range idx.Platforms() {
		versions := idx[name].Versions

		var latest any = ""

		if len(versions) >= 2 {
			v1 := versions[len(versions)-2]
			v2 := versions[len(versions)-1]

			q := url.Values{}
			q.Set("platform", name)
			q.Set("v1", v1)
			q.Set("v2", v2)

			latest = plotpage.NewLink("/compare?"+q.Encode(),
				fmt.Sprintf("%s vs %s", v1, v2)).Fragment()

			pickers = append(pickers, plotpage.NewForm("/compare", "Compare",
				plotpage.NewSelect("v1", "Before", versions, v1),
				plotpage.NewSelect("v2", "After", versions, v2),
			).WithTitle(name).WithHidden("platform", name))
		}

		table.AddRow(name, strings.Join(versions, ", "), latest)
	}

	page.Add(plotpage.Section{Title: "Available data", Chart: table})

	if len(pickers) > 0 {
		page.Add(plotpage.Section{
			Title: "Compare a version pair",
			Chart: plotpage.NewGrid(2, pickers...),
		})
	}

	s.renderPage(rw, page)
}

func (s *Server) handleCompare(rw http.ResponseWriter, req *http.Request) {
	sel, err := s.parseSelection(req)
	if err != nil {
		http.Error(rw, err.Error(), http.StatusBadRequest)

		return
	}

	view, err := s.service.BuildView(req.Context(), sel)
	if err != nil {
		s.renderError(rw, req, "Comparison unavailable", err)

		return
	}

	s.renderPage(rw, s.service.RenderPage(view))
}

func (s *Server) handleTimeline(rw http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()

	identity := q.Get("file")
	if identity == "" {
		http.Error(rw, "file parameter is required", http.StatusBadRequest)

		return
	}

	metric := q.Get("metric")
	if metric == "" {
		metric = s.service.cfg.Compare.Metric
	}

	view, err := s.service.BuildTimeline(req.Context(),
		q.Get("platform"), identity, q.Get("from"), q.Get("to"), metric)
	if err != nil {
		s.renderError(rw, req, "Timeline unavailable", err)

		return
	}

	s.renderPage(rw, s.service.RenderTimelinePage(view))
}

func (s *Server) handleAPICompare(rw http.ResponseWriter, req *http.Request) {
	sel, err := s.parseSelection(req)
	if err != nil {
		writeJSONError(rw, http.StatusBadRequest, err)

		return
	}

	view, err := s.service.BuildView(req.Context(), sel)
	if err != nil {
		writeJSONError(rw, http.StatusBadGateway, err)

		return
	}

	writeJSON(rw, http.StatusOK, compareResponse{
		Platform:    sel.Platform,
		Version1:    sel.Version1,
		Version2:    sel.Version2,
		Metric:      view.Selection.Metric,
		Threshold:   view.Selection.Threshold,
		Metrics:     view.Metrics,
		Range:       view.Range,
		Summary:     view.Summary,
		Total:       view.TotalUnfiltered,
		Comparisons: view.Comparisons,
	})
}

func (s *Server) handleAPITimeline(rw http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()

	identity := q.Get("file")
	if identity == "" {
		writeJSONError(rw, http.StatusBadRequest, errMissingFile)

		return
	}

	metric := q.Get("metric")
	if metric == "" {
		metric = s.service.cfg.Compare.Metric
	}

	view, err := s.service.BuildTimeline(req.Context(),
		q.Get("platform"), identity, q.Get("from"), q.Get("to"), metric)
	if err != nil {
		writeJSONError(rw, http.StatusBadGateway, err)

		return
	}

	writeJSON(rw, http.StatusOK, view)
}

type compareResponse struct {
	Platform    string                 `json:"platform"`
	Version1    string                 `json:"version1"`
	Version2    string                 `json:"version2"`
	Metric      string                 `json:"metric"`
	Threshold   int64                  `json:"threshold"`
	Metrics     []string               `json:"metrics"`
	Range       compare.ThresholdRange `json:"range"`
	Summary     compare.Summary        `json:"summary"`
	Total       int                    `json:"total"`
	Comparisons []compare.Comparison   `json:"comparisons"`
}

var errMissingFile = fmt.Errorf("file parameter is required")

// parseSelection builds a Selection from request query parameters. Metric,
// threshold, and the debug-section exclusion default from configuration;
// hidedebug=0 or hidedebug=1 overrides the exclusion per request.
func (s *Server) parseSelection(req *http.Request) (Selection, error) {
	q := req.URL.Query()
	cfg := s.service.cfg

	sel := Selection{
		Platform:  q.Get("platform"),
		Version1:  q.Get("v1"),
		Version2:  q.Get("v2"),
		Metric:    q.Get("metric"),
		Threshold: cfg.Compare.Threshold,
	}

	if sel.Platform == "" || sel.Version1 == "" || sel.Version2 == "" {
		return Selection{}, fmt.Errorf("platform, v1, and v2 parameters are required")
	}

	if sel.Metric == "" {
		sel.Metric = cfg.Compare.Metric
	}

	if raw := q.Get("threshold"); raw != "" {
		threshold, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || threshold < 0 {
			return Selection{}, fmt.Errorf("invalid threshold %q", raw)
		}

		sel.Threshold = threshold
	}

	sel.Filter = Filter{
		NameContains:         q.Get("contains"),
		ExcludeDebugSections: cfg.Sections.ExcludeDebug,
	}

	if raw := q.Get("hidedebug"); raw != "" {
		sel.Filter.ExcludeDebugSections = raw == "1"
	}

	for _, raw := range q["change"] {
		// Submitted forms include the parameter even when no change
		// type is chosen.
		if raw == "" {
			continue
		}

		switch compare.ChangeType(raw) {
		case compare.Increased, compare.Decreased, compare.Unchanged:
			sel.Filter.ChangeTypes = append(sel.Filter.ChangeTypes, compare.ChangeType(raw))
		default:
			return Selection{}, fmt.Errorf("invalid change type %q", raw)
		}
	}

	if raw := q.Get("mindelta"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 0 {
			return Selection{}, fmt.Errorf("invalid mindelta %q", raw)
		}

		sel.Filter.MinDelta = v
	}

	if raw := q.Get("maxdelta"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 0 {
			return Selection{}, fmt.Errorf("invalid maxdelta %q", raw)
		}

		sel.Filter.MaxDelta = v
	}

	return sel, nil
}

func (s *Server) renderPage(rw http.ResponseWriter, page *plotpage.Page) {
	rw.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := page.Render(rw); err != nil {
		s.logger.Error("rendering page", slog.Any("error", err))
	}
}

// renderError shows the load failure without discarding the page chrome, so
// a transient source outage reads as a condition rather than a blank screen.
func (s *Server) renderError(rw http.ResponseWriter, req *http.Request, title string, err error) {
	s.logger.Warn("request failed",
		slog.String("path", req.URL.Path),
		slog.Any("error", err))

	page := plotpage.NewPage(title, "").
		WithTheme(plotpage.Theme(s.service.cfg.Serve.Theme))

	page.Add(plotpage.Section{
		Title: title,
		Chart: plotpage.NewAlert("Load failed", err.Error(), plotpage.AlertError),
	})

	rw.WriteHeader(http.StatusBadGateway)
	s.renderPage(rw, page)
}

func writeJSON(rw http.ResponseWriter, code int, payload any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(code)

	_ = json.NewEncoder(rw).Encode(payload)
}

func writeJSONError(rw http.ResponseWriter, code int, err error) {
	writeJSON(rw, code, map[string]string{"error": err.Error()})
}
