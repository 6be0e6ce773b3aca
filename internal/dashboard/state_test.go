package dashboard_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sizescope/sizescope/internal/compare"
	"github.com/sizescope/sizescope/internal/config"
	"github.com/sizescope/sizescope/internal/dashboard"
	"github.com/sizescope/sizescope/internal/sizetable"
)

// tableSource serves canned CSV tables keyed platform/version.
type tableSource struct {
	tables map[string]string
	index  string
}

func (s *tableSource) Table(_ context.Context, platform, version string) ([]byte, error) {
	text, ok := s.tables[platform+"/"+version]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", sizetable.ErrStatus, platform, version)
	}

	return []byte(text), nil
}

func (s *tableSource) Index(_ context.Context) ([]byte, error) {
	return []byte(s.index), nil
}

func (s *tableSource) ID() string { return "test" }

func testConfig() *config.Config {
	return &config.Config{
		Compare: config.CompareConfig{
			Metric:    "filesize",
			Threshold: 100,
			TableRows: 100,
		},
		Flow: config.FlowConfig{
			MaxNodes: 30,
			MinSize:  1,
		},
		Serve: config.ServeConfig{
			Listen: ":0",
			Theme:  "dark",
		},
		Sections: config.SectionsConfig{
			PlatformPrefix: "linux",
			DebugSections:  []string{".debug_info", ".debug_str"},
		},
	}
}

func newTestService(t *testing.T, src *tableSource) *dashboard.Service {
	t.Helper()

	loader, err := sizetable.NewLoader(src, 0)
	require.NoError(t, err)

	return dashboard.NewService(loader, testConfig())
}

func growthSource() *tableSource {
	return &tableSource{
		tables: map[string]string{
			"linux/4.0": "file,filesize,vmsize\na.o,1000,900\nb.o,2000,1800\nc.o,500,400\n",
			"linux/4.1": "file,filesize,vmsize\na.o,1500,1300\nb.o,2000,1800\nd.o,800,700\n",
		},
		index: `{"linux": {"versions": ["4.0", "4.1"]}}`,
	}
}

func selection() dashboard.Selection {
	return dashboard.Selection{
		Platform:  "linux",
		Version1:  "4.0",
		Version2:  "4.1",
		Metric:    "filesize",
		Threshold: 100,
	}
}

func TestBuildView(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, growthSource())

	view, err := svc.BuildView(context.Background(), selection())
	require.NoError(t, err)

	// Full outer join: a.o, b.o, c.o, d.o.
	require.Len(t, view.Comparisons, 4)
	require.Equal(t, 4, view.TotalUnfiltered)
	require.Equal(t, []string{"filesize", "vmsize"}, view.Metrics)
	require.Equal(t, []string{"4.0", "4.1"}, view.Versions)

	require.Equal(t, 2, view.Summary.Increased) // a.o and d.o.
	require.Equal(t, 1, view.Summary.Decreased) // c.o removed.
	require.Equal(t, 1, view.Summary.Unchanged) // b.o.

	require.NotNil(t, view.Diagram)
	require.NotEmpty(t, view.Diagram.Links)
}

func TestBuildView_UnknownMetricFallsBack(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, growthSource())

	sel := selection()
	sel.Metric = "nonexistent"

	view, err := svc.BuildView(context.Background(), sel)
	require.NoError(t, err)
	require.Equal(t, "filesize", view.Selection.Metric)
}

func TestBuildView_LoadErrorPropagates(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, growthSource())

	sel := selection()
	sel.Version2 = "9.9"

	_, err := svc.BuildView(context.Background(), sel)
	require.ErrorIs(t, err, sizetable.ErrStatus)
}

func TestSetMetric_Recomputes(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, growthSource())

	view, err := svc.SetMetric(context.Background(), selection(), "vmsize")
	require.NoError(t, err)
	require.Equal(t, "vmsize", view.Selection.Metric)

	// a.o vmsize 900 -> 1300.
	var found bool

	for _, c := range view.Comparisons {
		if c.CompileUnit == "a.o" {
			found = true

			require.Equal(t, int64(400), c.Difference)
		}
	}

	require.True(t, found)
}

func TestSetThreshold_Reclassifies(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, growthSource())

	// At a 600-byte threshold, a.o's +500 drops below the line.
	view, err := svc.SetThreshold(context.Background(), selection(), 600)
	require.NoError(t, err)
	require.Equal(t, int64(600), view.Selection.Threshold)

	for _, c := range view.Comparisons {
		if c.CompileUnit == "a.o" {
			require.Equal(t, compare.Unchanged, c.ChangeType)
		}
	}
}

func TestSetVersions(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, growthSource())

	view, err := svc.SetVersions(context.Background(), selection(), "4.1", "4.0")
	require.NoError(t, err)
	require.Equal(t, "4.1", view.Selection.Version1)
	require.Equal(t, "4.0", view.Selection.Version2)

	// Swapped order negates the net difference.
	forward, err := svc.BuildView(context.Background(), selection())
	require.NoError(t, err)
	require.Equal(t, -forward.Summary.NetDifference, view.Summary.NetDifference)
}

func TestSetFilter_NameContains(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, growthSource())

	view, err := svc.SetFilter(context.Background(), selection(), dashboard.Filter{
		NameContains: "a.o",
	})
	require.NoError(t, err)
	require.Len(t, view.Comparisons, 1)
	require.Equal(t, "a.o", view.Comparisons[0].CompileUnit)
	require.Equal(t, 4, view.TotalUnfiltered)
}

func TestSetFilter_ChangeTypes(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, growthSource())

	view, err := svc.SetFilter(context.Background(), selection(), dashboard.Filter{
		ChangeTypes: []compare.ChangeType{compare.Decreased},
	})
	require.NoError(t, err)
	require.Len(t, view.Comparisons, 1)
	require.Equal(t, "c.o", view.Comparisons[0].CompileUnit)
}

func TestSetFilter_DeltaBounds(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, growthSource())

	view, err := svc.SetFilter(context.Background(), selection(), dashboard.Filter{
		MinDelta: 501,
	})
	require.NoError(t, err)

	// Only d.o's +800 clears the 501-byte floor.
	require.Len(t, view.Comparisons, 1)
	require.Equal(t, "d.o", view.Comparisons[0].CompileUnit)

	view, err = svc.SetFilter(context.Background(), selection(), dashboard.Filter{
		MaxDelta: 500,
	})
	require.NoError(t, err)

	// a.o +500, c.o -500, b.o 0 pass; d.o +800 is out.
	require.Len(t, view.Comparisons, 3)
}

func TestSetFilter_ExcludesDebugSections(t *testing.T) {
	t.Parallel()

	src := &tableSource{
		tables: map[string]string{
			"linux/4.0": "file,filesize\na.o,1000\n.debug_info,50000\n",
			"linux/4.1": "file,filesize\na.o,1200\n.debug_info,60000\n",
		},
		index: `{"linux": {"versions": ["4.0", "4.1"]}}`,
	}
	svc := newTestService(t, src)

	view, err := svc.SetFilter(context.Background(), selection(), dashboard.Filter{
		ExcludeDebugSections: true,
	})
	require.NoError(t, err)
	require.Len(t, view.Comparisons, 1)
	require.Equal(t, "a.o", view.Comparisons[0].CompileUnit)
}

func TestSetFilter_DebugExclusionOnlyOnConfiguredFamily(t *testing.T) {
	t.Parallel()

	src := &tableSource{
		tables: map[string]string{
			"windows/4.0": "file,filesize\na.o,1000\n.debug_info,50000\n",
			"windows/4.1": "file,filesize\na.o,1200\n.debug_info,60000\n",
		},
		index: `{"windows": {"versions": ["4.0", "4.1"]}}`,
	}
	svc := newTestService(t, src)

	sel := selection()
	sel.Platform = "windows"

	view, err := svc.SetFilter(context.Background(), sel, dashboard.Filter{
		ExcludeDebugSections: true,
	})
	require.NoError(t, err)

	// The exclusion list applies to the ELF family only.
	require.Len(t, view.Comparisons, 2)
}

func TestBuildTimeline(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, growthSource())

	view, err := svc.BuildTimeline(context.Background(), "linux", "a.o", "", "", "filesize")
	require.NoError(t, err)
	require.Len(t, view.Points, 2)
	require.Equal(t, int64(1000), view.Points[0].Size)
	require.Equal(t, int64(1500), view.Points[1].Size)
	require.True(t, view.Points[0].Exists)
}
