package flow_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sizescope/sizescope/internal/compare"
	"github.com/sizescope/sizescope/internal/flow"
)

func comparison(unit string, size1, size2 int64) compare.Comparison {
	return compare.Comparison{
		CompileUnit: unit,
		Size1:       size1,
		Size2:       size2,
		Difference:  size2 - size1,
		ChangeType:  compare.Classify(size2-size1, 0),
	}
}

func TestLayout_OneLinkPerKeptComparison(t *testing.T) {
	t.Parallel()

	comparisons := []compare.Comparison{
		comparison("a.o", 10_000, 12_000),
		comparison("b.o", 5_000, 4_000),
		comparison("tiny.o", 100, 200), // below the size floor, dropped
	}

	diagram := flow.Layout(comparisons, flow.Config{})

	require.Len(t, diagram.Links, 2)
	require.Len(t, diagram.Nodes, 4)

	nodeSet := make(map[*flow.Node]struct{}, len(diagram.Nodes))
	for _, n := range diagram.Nodes {
		nodeSet[n] = struct{}{}
	}

	for _, l := range diagram.Links {
		require.Contains(t, nodeSet, l.Source)
		require.Contains(t, nodeSet, l.Target)
		require.Equal(t, flow.ColumnBefore, l.Source.Column)
		require.Equal(t, flow.ColumnAfter, l.Target.Column)
	}
}

func TestLayout_PlaceholderForOneSidedFile(t *testing.T) {
	t.Parallel()

	diagram := flow.Layout([]compare.Comparison{
		comparison("removed.o", 200_000, 0),
	}, flow.Config{})

	require.Len(t, diagram.Links, 1)

	link := diagram.Links[0]
	require.False(t, link.Source.Placeholder)
	require.True(t, link.Target.Placeholder)
	require.Empty(t, link.Target.Name)
	require.Zero(t, link.Target.Size)
	require.Equal(t, int64(200_000), link.Value)
}

func TestLayout_ValueIsMaxOfSides(t *testing.T) {
	t.Parallel()

	diagram := flow.Layout([]compare.Comparison{
		comparison("grew.o", 10_000, 30_000),
		comparison("shrank.o", 40_000, 20_000),
	}, flow.Config{})

	require.Len(t, diagram.Links, 2)
	// Sorted by flow value descending: shrank.o (40k) first.
	require.Equal(t, int64(40_000), diagram.Links[0].Value)
	require.Equal(t, int64(30_000), diagram.Links[1].Value)
}

func TestLayout_CapsNodes(t *testing.T) {
	t.Parallel()

	var comparisons []compare.Comparison
	for i := range 50 {
		size := int64(10_000 + i)
		comparisons = append(comparisons, comparison("f"+strconv.Itoa(i)+".o", size, size+5_000))
	}

	diagram := flow.Layout(comparisons, flow.Config{MaxNodes: 10})

	require.Len(t, diagram.Links, 10)
	require.Len(t, diagram.Nodes, 20)
}

func TestLayout_Geometry(t *testing.T) {
	t.Parallel()

	diagram := flow.Layout([]compare.Comparison{
		comparison("big.o", 900_000, 900_000),
		comparison("small.o", 100_000, 100_000),
	}, flow.Config{Width: 1000, Height: 500})

	require.InDelta(t, 1000.0, diagram.Width, 0.001)

	var left []*flow.Node

	for _, n := range diagram.Nodes {
		require.GreaterOrEqual(t, n.Height, 0.0)
		require.Positive(t, n.Width)

		if n.Column == flow.ColumnBefore {
			left = append(left, n)
		} else {
			require.Greater(t, n.X, diagram.Width/2)
		}
	}

	require.Len(t, left, 2)
	// Stacked top to bottom, larger node first, no overlap.
	require.InDelta(t, 0.0, left[0].Y, 0.001)
	require.Greater(t, left[1].Y, left[0].Y+left[0].Height)
	require.Greater(t, left[0].Height, left[1].Height)
}

func TestLayout_LinkCenteredOnSource(t *testing.T) {
	t.Parallel()

	diagram := flow.Layout([]compare.Comparison{
		comparison("a.o", 50_000, 60_000),
		comparison("b.o", 30_000, 20_000),
	}, flow.Config{})

	for _, l := range diagram.Links {
		require.InDelta(t, l.Source.Y+l.Source.Height/2, l.Y, 0.001)
		require.GreaterOrEqual(t, l.Thickness, 1.5)
		require.LessOrEqual(t, l.Thickness, 42.0)
	}

	// The largest flow carries the maximum thickness.
	require.InDelta(t, 42.0, diagram.Links[0].Thickness, 0.001)
}

func TestLayout_Empty(t *testing.T) {
	t.Parallel()

	diagram := flow.Layout(nil, flow.Config{})

	require.Empty(t, diagram.Nodes)
	require.Empty(t, diagram.Links)
}

func TestLayout_LabelTruncation(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("dir/", 30) + "file.o"

	diagram := flow.Layout([]compare.Comparison{
		comparison(long, 10_000, 10_000),
	}, flow.Config{})

	require.Len(t, diagram.Nodes, 2)
	require.Equal(t, long, diagram.Nodes[0].FullName)
	require.Less(t, len([]rune(diagram.Nodes[0].Name)), len([]rune(long)))
	require.True(t, strings.HasSuffix(diagram.Nodes[0].Name, "file.o"))
}
