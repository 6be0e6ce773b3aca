package dashboard

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/sizescope/sizescope/internal/compare"
	"github.com/sizescope/sizescope/internal/flow"
	"github.com/sizescope/sizescope/internal/plotpage"
)

// SVG rendering constants.
const (
	labelOffset   = 8.0
	labelFontSize = 11
	linkOpacity   = 0.45
	nodeRadius    = 2
)

var flowSVGTemplate = template.Must(template.New("flowsvg").Parse(`<svg viewBox="0 0 {{.Width}} {{.Height}}" width="100%" role="img" aria-label="size flow diagram" xmlns="http://www.w3.org/2000/svg">
{{- range .Links}}
  <path d="{{.Path}}" fill="none" stroke="{{.Color}}" stroke-width="{{.Thickness}}" stroke-opacity="{{.Opacity}}"><title>{{.Tooltip}}</title></path>
{{- end}}
{{- range .Nodes}}
  <rect x="{{.X}}" y="{{.Y}}" width="{{.W}}" height="{{.H}}" rx="{{.Radius}}" fill="{{.Color}}"{{if .Dashed}} fill-opacity="0.25" stroke="{{.Color}}" stroke-dasharray="3 2"{{end}}><title>{{.Tooltip}}</title></rect>
  <text x="{{.LabelX}}" y="{{.LabelY}}" text-anchor="{{.Anchor}}" font-size="{{.FontSize}}" fill="{{.TextColor}}">{{.Label}}</text>
{{- end}}
</svg>`))

type svgLink struct {
	Path      string
	Color     string
	Thickness string
	Opacity   string
	Tooltip   string
}

type svgNode struct {
	X, Y, W, H string
	Radius     int
	Color      string
	Dashed     bool
	Tooltip    string
	Label      string
	LabelX     string
	LabelY     string
	Anchor     string
	FontSize   int
	TextColor  string
}

type svgData struct {
	Width  string
	Height string
	Links  []svgLink
	Nodes  []svgNode
}

// RenderFlowSVG renders a computed flow layout as an inline SVG fragment.
// The diagram's own geometry drives every coordinate; no charting library
// relayout is involved.
func RenderFlowSVG(d *flow.Diagram, theme plotpage.Theme) (string, error) {
	palette := plotpage.GetChartPalette(theme)
	themeCfg := plotpage.GetThemeConfig(theme)

	data := svgData{
		Width:  coord(d.Width),
		Height: coord(d.Height),
	}

	for _, link := range d.Links {
		data.Links = append(data.Links, svgLink{
			Path:      linkPath(link),
			Color:     changeColor(link.ChangeType, palette),
			Thickness: coord(link.Thickness),
			Opacity:   fmt.Sprintf("%.2f", linkOpacity),
			Tooltip: fmt.Sprintf("%s: %s", link.Source.FullName,
				humanize.IBytes(uint64(link.Value))),
		})
	}

	for _, node := range d.Nodes {
		data.Nodes = append(data.Nodes, buildSVGNode(node, d, palette, themeCfg))
	}

	var out strings.Builder
	if err := flowSVGTemplate.Execute(&out, data); err != nil {
		return "", fmt.Errorf("rendering flow svg: %w", err)
	}

	return out.String(), nil
}

func buildSVGNode(node *flow.Node, d *flow.Diagram, palette plotpage.ChartPalette, themeCfg plotpage.ThemeConfig) svgNode {
	// Before-column labels sit to the left of the node, after-column
	// labels to the right.
	labelX := node.X - labelOffset
	anchor := "end"

	if node.Column == flow.ColumnAfter {
		labelX = node.X + node.Width + labelOffset
		anchor = "start"
	}

	return svgNode{
		X:      coord(node.X),
		Y:      coord(node.Y),
		W:      coord(node.Width),
		H:      coord(node.Height),
		Radius: nodeRadius,
		Color:  changeColor(node.ChangeType, palette),
		Dashed: node.Placeholder,
		Tooltip: fmt.Sprintf("%s: %s", node.FullName,
			humanize.IBytes(uint64(node.Size))),
		Label:     node.Name,
		LabelX:    coord(labelX),
		LabelY:    coord(node.Y + node.Height/2 + float64(labelFontSize)/3),
		Anchor:    anchor,
		FontSize:  labelFontSize,
		TextColor: themeCfg.ChartText,
	}
}

// linkPath draws a cubic bezier from the source node's right edge to the
// target node's left edge, both ends vertically centered on their node.
func linkPath(link *flow.Link) string {
	x1 := link.Source.X + link.Source.Width
	y1 := link.Y
	x2 := link.Target.X
	y2 := link.Target.Y + link.Target.Height/2

	midX := (x1 + x2) / 2

	return fmt.Sprintf("M %s %s C %s %s, %s %s, %s %s",
		coord(x1), coord(y1),
		coord(midX), coord(y1),
		coord(midX), coord(y2),
		coord(x2), coord(y2))
}

func changeColor(t compare.ChangeType, palette plotpage.ChartPalette) string {
	switch t {
	case compare.Increased:
		return palette.Semantic.Grown
	case compare.Decreased:
		return palette.Semantic.Shrunk
	default:
		return palette.Semantic.Stable
	}
}

func coord(v float64) string {
	return strings.TrimSuffix(fmt.Sprintf("%.1f", v), ".0")
}
