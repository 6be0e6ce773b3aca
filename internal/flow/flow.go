// Package flow computes a two-column flow diagram layout from per-file size
// comparisons: one column of nodes per version, one link per compared file,
// node heights proportional to file size. Column assignment is fixed at two
// time points, so no general Sankey relaxation is needed.
package flow

import (
	"sort"
	"strings"

	"github.com/sizescope/sizescope/internal/compare"
)

// Layout geometry defaults.
const (
	// DefaultMaxNodes caps how many comparisons become node pairs.
	DefaultMaxNodes = 30

	// DefaultMinSize is the noise floor: files smaller than this on both
	// sides are visually meaningless at diagram scale.
	DefaultMinSize = 1000

	// DefaultWidth and DefaultHeight are the default canvas dimensions.
	DefaultWidth  = 960.0
	DefaultHeight = 640.0

	// nodeThickness is the fixed horizontal width of a column node.
	nodeThickness = 18.0

	// columnMargin is the gap between a column and the canvas edge.
	columnMargin = 140.0

	// nodePadding is the fixed vertical gap between stacked nodes.
	nodePadding = 6.0

	// minNodeHeight keeps zero and near-zero nodes visible and hoverable.
	minNodeHeight = 3.0

	// maxLinkThickness and minLinkThickness bound link rendering.
	maxLinkThickness = 42.0
	minLinkThickness = 1.5

	// maxLabelRunes truncates node display labels.
	maxLabelRunes = 40
)

// Column indices.
const (
	ColumnBefore = 0
	ColumnAfter  = 1
)

// Node is one box in the diagram.
type Node struct {
	ID       string
	Name     string
	FullName string
	Column   int

	X      float64
	Y      float64
	Width  float64
	Height float64

	Size       int64
	ChangeType compare.ChangeType

	// Placeholder marks a synthetic zero-size endpoint for a file that
	// exists in only one version.
	Placeholder bool
}

// Link connects a file's before node to its after node.
type Link struct {
	Source *Node
	Target *Node

	// Value is the flow magnitude: max(size1, size2).
	Value int64

	ChangeType compare.ChangeType

	// Y is the link's vertical center, aligned to the source node's center.
	Y float64

	// Thickness is the rendered link height in pixels.
	Thickness float64
}

// Diagram is the computed layout.
type Diagram struct {
	Nodes  []*Node
	Links  []*Link
	Width  float64
	Height float64
}

// Config tunes the layout. Zero values fall back to the defaults above.
type Config struct {
	MaxNodes int
	MinSize  int64
	Width    float64
	Height   float64
}

func (c Config) withDefaults() Config {
	if c.MaxNodes <= 0 {
		c.MaxNodes = DefaultMaxNodes
	}

	if c.MinSize <= 0 {
		c.MinSize = DefaultMinSize
	}

	if c.Width <= 0 {
		c.Width = DefaultWidth
	}

	if c.Height <= 0 {
		c.Height = DefaultHeight
	}

	return c
}

// Layout computes the diagram for a comparison list. Every kept comparison
// produces exactly one link whose two endpoints are in the node list; a file
// present on only one side gets a placeholder endpoint on the other.
func Layout(comparisons []compare.Comparison, cfg Config) *Diagram {
	cfg = cfg.withDefaults()

	kept := keep(comparisons, cfg)

	diagram := &Diagram{Width: cfg.Width, Height: cfg.Height}

	for _, c := range kept {
		source := diagram.addNode(c, ColumnBefore, c.Size1)
		target := diagram.addNode(c, ColumnAfter, c.Size2)

		diagram.Links = append(diagram.Links, &Link{
			Source:     source,
			Target:     target,
			Value:      flowValue(c),
			ChangeType: c.ChangeType,
		})
	}

	diagram.position()

	return diagram
}

// keep filters out sub-floor comparisons, sorts by flow value descending, and
// caps the list.
func keep(comparisons []compare.Comparison, cfg Config) []compare.Comparison {
	kept := make([]compare.Comparison, 0, len(comparisons))

	for _, c := range comparisons {
		if flowValue(c) > cfg.MinSize {
			kept = append(kept, c)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return flowValue(kept[i]) > flowValue(kept[j])
	})

	if len(kept) > cfg.MaxNodes {
		kept = kept[:cfg.MaxNodes]
	}

	return kept
}

func flowValue(c compare.Comparison) int64 {
	if c.Size1 > c.Size2 {
		return c.Size1
	}

	return c.Size2
}

// addNode appends a real or placeholder node for one side of a comparison.
func (d *Diagram) addNode(c compare.Comparison, column int, size int64) *Node {
	side := "before"
	if column == ColumnAfter {
		side = "after"
	}

	node := &Node{
		ID:         side + ":" + c.CompileUnit,
		FullName:   c.CompileUnit,
		Column:     column,
		Size:       size,
		ChangeType: c.ChangeType,
		Width:      nodeThickness,
	}

	if size > 0 {
		node.Name = truncateLabel(c.CompileUnit)
	} else {
		// Placeholder endpoint: no label, zero size.
		node.Placeholder = true
	}

	d.Nodes = append(d.Nodes, node)

	return node
}

// position assigns x/y/height to every node and geometry to every link.
func (d *Diagram) position() {
	d.positionColumn(ColumnBefore, columnMargin)
	d.positionColumn(ColumnAfter, d.Width-columnMargin-nodeThickness)
	d.positionLinks()
}

func (d *Diagram) positionColumn(column int, x float64) {
	var (
		nodes []*Node
		total int64
	)

	for _, n := range d.Nodes {
		if n.Column == column {
			nodes = append(nodes, n)
			total += n.Size
		}
	}

	if len(nodes) == 0 {
		return
	}

	available := d.Height - nodePadding*float64(len(nodes)-1)
	if available < 0 {
		available = 0
	}

	y := 0.0

	for _, n := range nodes {
		height := minNodeHeight
		if total > 0 {
			h := float64(n.Size) / float64(total) * available
			if h > height {
				height = h
			}
		}

		n.X = x
		n.Y = y
		n.Height = height

		y += height + nodePadding
	}
}

func (d *Diagram) positionLinks() {
	var maxValue int64

	for _, l := range d.Links {
		if l.Value > maxValue {
			maxValue = l.Value
		}
	}

	for _, l := range d.Links {
		thickness := minLinkThickness
		if maxValue > 0 {
			t := float64(l.Value) / float64(maxValue) * maxLinkThickness
			if t > thickness {
				thickness = t
			}
		}

		l.Thickness = thickness
		l.Y = l.Source.Y + l.Source.Height/2
	}
}

// truncateLabel shortens a path label to its informative tail.
func truncateLabel(name string) string {
	runes := []rune(name)
	if len(runes) <= maxLabelRunes {
		return name
	}

	return "…" + strings.TrimLeft(string(runes[len(runes)-maxLabelRunes+1:]), "/")
}
