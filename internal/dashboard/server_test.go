package dashboard_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/sizescope/sizescope/internal/dashboard"
)

func newTestServer(t *testing.T, src *tableSource) *httptest.Server {
	t.Helper()

	svc := newTestService(t, src)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracer := nooptrace.NewTracerProvider().Tracer("test")

	server, err := dashboard.NewServer(svc, ":0", logger, tracer)
	require.NoError(t, err)

	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)

	return ts
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	return resp, string(body)
}

func TestServer_Index(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, growthSource())

	resp, body := get(t, ts.URL+"/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "linux")
	require.Contains(t, body, "4.1")

	// The latest pair is a clickable link and each platform gets a
	// version picker form.
	require.Contains(t, body, `href="/compare?platform=linux&amp;v1=4.0&amp;v2=4.1"`)
	require.Contains(t, body, `<form class="controls" action="/compare" method="get">`)
	require.Contains(t, body, `<option value="4.0"`)
}

func TestServer_ComparePage(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, growthSource())

	resp, body := get(t, ts.URL+"/compare?platform=linux&v1=4.0&v2=4.1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "a.o")
	require.Contains(t, body, "<svg")
	require.Contains(t, body, "Summary")
}

func TestServer_ComparePageControls(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, growthSource())

	_, body := get(t, ts.URL+"/compare?platform=linux&v1=4.0&v2=4.1")

	require.Contains(t, body, `<form class="controls" action="/compare" method="get">`)
	require.Contains(t, body, `name="threshold"`)
	require.Contains(t, body, `name="contains"`)
	require.Contains(t, body, `class="link-tab active"`)
	require.Contains(t, body, "metric=vmsize")
	require.Contains(t, body, `href="/timeline?file=a.o`)
}

func TestServer_CompareEmptyChangeParamIgnored(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, growthSource())

	// A submitted form always includes change=, even when "any" is
	// chosen.
	resp, body := get(t, ts.URL+"/compare?platform=linux&v1=4.0&v2=4.1&change=")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "a.o")
}

func TestServer_CompareMissingParams(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, growthSource())

	resp, _ := get(t, ts.URL+"/compare?platform=linux")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_CompareLoadFailure(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, growthSource())

	resp, body := get(t, ts.URL+"/compare?platform=linux&v1=4.0&v2=9.9")
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	require.Contains(t, body, "Load failed")
}

func TestServer_APICompare(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, growthSource())

	resp, body := get(t, ts.URL+"/api/compare?platform=linux&v1=4.0&v2=4.1&threshold=100")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var payload struct {
		Metric      string `json:"metric"`
		Threshold   int64  `json:"threshold"`
		Total       int    `json:"total"`
		Comparisons []struct {
			CompileUnit string `json:"compileUnit"`
			Difference  int64  `json:"difference"`
			ChangeType  string `json:"changeType"`
		} `json:"comparisons"`
	}

	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	require.Equal(t, "filesize", payload.Metric)
	require.Equal(t, int64(100), payload.Threshold)
	require.Equal(t, 4, payload.Total)
	require.Len(t, payload.Comparisons, 4)

	// Sorted by absolute difference descending: d.o's +800 first.
	require.Equal(t, "d.o", payload.Comparisons[0].CompileUnit)
	require.Equal(t, int64(800), payload.Comparisons[0].Difference)
}

func TestServer_APICompareFilters(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, growthSource())

	_, body := get(t, ts.URL+"/api/compare?platform=linux&v1=4.0&v2=4.1&change=decreased")

	var payload struct {
		Comparisons []struct {
			CompileUnit string `json:"compileUnit"`
		} `json:"comparisons"`
	}

	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	require.Len(t, payload.Comparisons, 1)
	require.Equal(t, "c.o", payload.Comparisons[0].CompileUnit)
}

func TestServer_APITimeline(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, growthSource())

	resp, body := get(t, ts.URL+"/api/timeline?platform=linux&file=a.o")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		File   string `json:"file"`
		Points []struct {
			Version string `json:"version"`
			Size    int64  `json:"size"`
			Exists  bool   `json:"exists"`
		} `json:"points"`
	}

	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	require.Equal(t, "a.o", payload.File)
	require.Len(t, payload.Points, 2)
	require.Equal(t, int64(1500), payload.Points[1].Size)
}

func TestServer_TimelinePage(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, growthSource())

	resp, body := get(t, ts.URL+"/timeline?platform=linux&file=a.o")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "a.o")
}

func TestServer_TimelineRequiresFile(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, growthSource())

	resp, _ := get(t, ts.URL+"/timeline?platform=linux")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_Healthz(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, growthSource())

	resp, body := get(t, ts.URL+"/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "ok")
}

func TestServer_Readyz(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, growthSource())

	resp, _ := get(t, ts.URL+"/readyz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_Metrics(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, growthSource())

	resp, _ := get(t, ts.URL+"/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_NotFound(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, growthSource())

	resp, _ := get(t, ts.URL+"/nope")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
