package timeline_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sizescope/sizescope/internal/sizetable"
	"github.com/sizescope/sizescope/internal/timeline"
)

func TestCompareVersions(t *testing.T) {
	t.Parallel()

	cases := []struct {
		a, b string
		want int
	}{
		{"4.0", "4.1", -1},
		{"4.1", "4.0", 1},
		{"4.0", "4.0", 0},
		{"4.0", "4.0.0", 0},
		{"4.0.1", "4.0", 1},
		{"4.10", "4.9", 1},
		{"3.9.9", "4.0", -1},
	}

	for _, tc := range cases {
		t.Run(tc.a+" vs "+tc.b, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.want, timeline.CompareVersions(tc.a, tc.b))
		})
	}
}

func TestVersionsInRange(t *testing.T) {
	t.Parallel()

	all := []string{"4.2", "4.0", "3.9", "4.1", "4.3"}

	got := timeline.VersionsInRange(all, "4.0", "4.2")

	require.Equal(t, []string{"4.0", "4.1", "4.2"}, got)
}

func TestVersionsInRange_Empty(t *testing.T) {
	t.Parallel()

	require.Empty(t, timeline.VersionsInRange([]string{"4.0"}, "5.0", "6.0"))
}

func TestVersionsInRange_UnboundedSides(t *testing.T) {
	t.Parallel()

	all := []string{"4.2", "4.0", "4.1"}

	require.Equal(t, []string{"4.0", "4.1", "4.2"}, timeline.VersionsInRange(all, "", ""))
	require.Equal(t, []string{"4.1", "4.2"}, timeline.VersionsInRange(all, "4.1", ""))
	require.Equal(t, []string{"4.0", "4.1"}, timeline.VersionsInRange(all, "", "4.1"))
}

// versionedSource serves a distinct table per version and fails for versions
// not present.
type versionedSource struct {
	tables map[string]string
}

func (s *versionedSource) Table(_ context.Context, _, version string) ([]byte, error) {
	text, ok := s.tables[version]
	if !ok {
		return nil, fmt.Errorf("%w: %s", sizetable.ErrStatus, version)
	}

	return []byte(text), nil
}

func (s *versionedSource) Index(_ context.Context) ([]byte, error) {
	return []byte("{}"), nil
}

func (s *versionedSource) ID() string { return "versioned" }

func TestExtract(t *testing.T) {
	t.Parallel()

	src := &versionedSource{tables: map[string]string{
		"4.0": "file,filesize\n./bin/editor,1000\n",
		"4.1": "file,filesize\nbin/editor,1500\n",
		"4.2": "file,filesize\nother.o,10\n",
	}}

	loader, err := sizetable.NewLoader(src, 0)
	require.NoError(t, err)

	points := timeline.Extract(
		context.Background(), loader,
		"/bin/editor", "linux",
		[]string{"4.0", "4.1", "4.2"},
		"filesize",
	)

	require.Equal(t, []timeline.Point{
		{Version: "4.0", Size: 1000, Exists: true},
		{Version: "4.1", Size: 1500, Exists: true},
		{Version: "4.2", Size: 0, Exists: false},
	}, points)
}

func TestExtract_PartialLoadFailure(t *testing.T) {
	t.Parallel()

	src := &versionedSource{tables: map[string]string{
		"4.0": "file,filesize\nbin/editor,1000\n",
		"4.2": "file,filesize\nbin/editor,1200\n",
	}}

	loader, err := sizetable.NewLoader(src, 0)
	require.NoError(t, err)

	points := timeline.Extract(
		context.Background(), loader,
		"bin/editor", "linux",
		[]string{"4.0", "4.1", "4.2"},
		"filesize",
	)

	// The missing middle version degrades to a zero point; the rest survive.
	require.Equal(t, []timeline.Point{
		{Version: "4.0", Size: 1000, Exists: true},
		{Version: "4.1", Size: 0, Exists: false},
		{Version: "4.2", Size: 1200, Exists: true},
	}, points)
}
