package observability_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/sizescope/sizescope/internal/observability"
)

var errNotReady = errors.New("not ready")

func TestInit_NoEndpointUsesNoopProviders(t *testing.T) {
	providers, err := observability.Init(observability.DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, providers.Tracer)
	require.NotNil(t, providers.Meter)
	require.NotNil(t, providers.Logger)
	require.NoError(t, providers.Shutdown(context.Background()))
}

func TestTracingHandler_AttachesServiceAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	inner := slog.NewJSONHandler(&buf, nil)
	logger := slog.New(observability.NewTracingHandler(inner, "sizescope", "test"))

	logger.Info("hello")

	out := buf.String()
	require.Contains(t, out, `"service":"sizescope"`)
	require.Contains(t, out, `"env":"test"`)
}

func TestHTTPMiddleware_PassesThrough(t *testing.T) {
	t.Parallel()

	tracer := nooptrace.NewTracerProvider().Tracer("test")

	handler := observability.HTTPMiddleware(tracer, http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusTeapot)
		_, _ = io.WriteString(rw, "short and stout")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/compare", nil))

	require.Equal(t, http.StatusTeapot, rec.Code)
	require.Equal(t, "short and stout", rec.Body.String())
}

func TestHealthHandler(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	observability.HealthHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReadyHandler_FailingCheck(t *testing.T) {
	t.Parallel()

	failing := func(_ context.Context) error { return errNotReady }

	rec := httptest.NewRecorder()
	observability.ReadyHandler(failing).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestParseOTLPHeaders(t *testing.T) {
	t.Parallel()

	require.Nil(t, observability.ParseOTLPHeaders(""))
	require.Nil(t, observability.ParseOTLPHeaders("garbage"))
	require.Equal(t,
		map[string]string{"a": "1", "b": "2"},
		observability.ParseOTLPHeaders("a=1, b=2"),
	)
}

func TestPrometheusHandler(t *testing.T) {
	t.Parallel()

	handler, err := observability.PrometheusHandler()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
}
