package dashboard_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sizescope/sizescope/internal/dashboard"
	"github.com/sizescope/sizescope/internal/sizetable"
)

func renderToString(t *testing.T, svc *dashboard.Service, view *dashboard.View) string {
	t.Helper()

	var out strings.Builder

	require.NoError(t, svc.RenderPage(view).Render(&out))

	return out.String()
}

func TestRenderPage(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, growthSource())

	view, err := svc.BuildView(context.Background(), selection())
	require.NoError(t, err)

	html := renderToString(t, svc, view)

	require.Contains(t, html, "Summary")
	require.Contains(t, html, "Size flow")
	require.Contains(t, html, "Change magnitude distribution")
	require.Contains(t, html, "Changed files")
	require.Contains(t, html, "a.o")
	require.NotContains(t, html, "showing top")
}

func TestRenderPage_Controls(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, growthSource())

	view, err := svc.BuildView(context.Background(), selection())
	require.NoError(t, err)

	html := renderToString(t, svc, view)

	require.Contains(t, html, "Controls")
	require.Contains(t, html, `<form class="controls" action="/compare" method="get">`)
	require.Contains(t, html, `<input type="hidden" name="platform" value="linux">`)
	require.Contains(t, html, `<option value="4.0" selected>4.0</option>`)
	require.Contains(t, html, `<option value="4.1" selected>4.1</option>`)
	require.Contains(t, html, `name="contains"`)
	require.Contains(t, html, `name="mindelta"`)
	require.Contains(t, html, `name="maxdelta"`)
	require.Contains(t, html, `name="hidedebug"`)

	// d.o's +800 is the largest single change, so it bounds the
	// threshold input.
	require.Contains(t, html, `name="threshold" value="100" min="0" max="800"`)
}

func TestRenderPage_MetricTabs(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, growthSource())

	view, err := svc.BuildView(context.Background(), selection())
	require.NoError(t, err)

	html := renderToString(t, svc, view)

	require.Contains(t, html, `class="link-tab active"`)
	require.Contains(t, html, ">filesize</a>")
	require.Contains(t, html, "metric=vmsize")
}

func TestRenderPage_FileLinksToTimeline(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, growthSource())

	view, err := svc.BuildView(context.Background(), selection())
	require.NoError(t, err)

	html := renderToString(t, svc, view)
	require.Contains(t, html, `href="/timeline?file=a.o&amp;metric=filesize&amp;platform=linux"`)
}

func TestRenderPage_CapsTableWithNotice(t *testing.T) {
	t.Parallel()

	loader, err := sizetable.NewLoader(growthSource(), 0)
	require.NoError(t, err)

	cfg := testConfig()
	cfg.Compare.TableRows = 2

	svc := dashboard.NewService(loader, cfg)

	view, err := svc.BuildView(context.Background(), selection())
	require.NoError(t, err)

	html := renderToString(t, svc, view)
	require.Contains(t, html, "showing top 2 of 4 files")
}

func TestRenderPage_EmptyView(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, growthSource())

	view, err := svc.SetFilter(context.Background(), selection(), dashboard.Filter{
		NameContains: "no-such-file",
	})
	require.NoError(t, err)
	require.True(t, view.Empty())

	html := renderToString(t, svc, view)
	require.Contains(t, html, "Nothing to compare")

	// The controls stay available so the filter can be widened.
	require.Contains(t, html, `<form class="controls"`)
}

func TestRenderPage_NewFileShowsNewNotPercent(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, growthSource())

	view, err := svc.BuildView(context.Background(), selection())
	require.NoError(t, err)

	// d.o exists only in the newer version.
	html := renderToString(t, svc, view)
	require.Contains(t, html, "<td>new</td>")
}

func TestRenderReportPage_Static(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, growthSource())

	view, err := svc.BuildView(context.Background(), selection())
	require.NoError(t, err)

	var out strings.Builder

	require.NoError(t, svc.RenderReportPage(view).Render(&out))

	html := out.String()
	require.Contains(t, html, "Changed files")
	require.Contains(t, html, "<td>a.o</td>")

	// A standalone report has no server behind it.
	require.NotContains(t, html, "<form")
	require.NotContains(t, html, "/timeline?")
}

func TestRenderTimelinePage(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, growthSource())

	view, err := svc.BuildTimeline(context.Background(), "linux", "a.o", "", "", "filesize")
	require.NoError(t, err)

	var out strings.Builder

	require.NoError(t, svc.RenderTimelinePage(view).Render(&out))
	require.Contains(t, out.String(), "a.o")
	require.Contains(t, out.String(), "Size over versions")
}

func TestRenderTimelinePage_Empty(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, growthSource())

	view := &dashboard.TimelineView{Platform: "linux", Identity: "a.o", Metric: "filesize"}

	var out strings.Builder

	require.NoError(t, svc.RenderTimelinePage(view).Render(&out))
	require.Contains(t, out.String(), "Nothing to chart")
}
