package dashboard

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/sizescope/sizescope/internal/compare"
	"github.com/sizescope/sizescope/internal/plotpage"
)

// RenderPage assembles the comparison view into a dashboard page.
func (s *Service) RenderPage(view *View) *plotpage.Page {
	return s.renderComparison(view, true)
}

// RenderReportPage assembles the comparison view without the interactive
// controls, for standalone HTML reports with no server behind them.
func (s *Service) RenderReportPage(view *View) *plotpage.Page {
	return s.renderComparison(view, false)
}

func (s *Service) renderComparison(view *View, withControls bool) *plotpage.Page {
	theme := plotpage.Theme(s.cfg.Serve.Theme)

	page := plotpage.NewPage(
		fmt.Sprintf("%s: %s vs %s", view.Selection.Platform, view.Selection.Version1, view.Selection.Version2),
		fmt.Sprintf("Per-file %s changes at a %s threshold.",
			view.Selection.Metric, humanize.IBytes(uint64(view.Selection.Threshold))),
	).WithTheme(theme)

	// Controls render even for an empty view so the reader can widen
	// the selection that produced it.
	if withControls {
		page.Add(s.controlsSection(view))
	}

	if view.Empty() {
		page.Add(plotpage.Section{
			Title: "No data",
			Chart: plotpage.NewAlert("Nothing to compare",
				"No files matched the current metric, threshold, and filters.",
				plotpage.AlertInfo),
		})

		return page
	}

	page.Add(
		s.summarySection(view),
		s.flowSection(view, theme),
		s.histogramSection(view, theme),
		s.tableSection(view, withControls),
	)

	return page
}

// controlsSection renders the metric tabs and the selection form. Every
// control maps onto a /compare query parameter, so the page state lives
// entirely in the URL.
func (s *Service) controlsSection(view *View) plotpage.Section {
	sel := view.Selection

	versions := view.Versions
	if len(versions) == 0 {
		versions = []string{sel.Version1, sel.Version2}
	}

	form := plotpage.NewForm("/compare", "Apply",
		plotpage.NewSelect("v1", "Before", versions, sel.Version1),
		plotpage.NewSelect("v2", "After", versions, sel.Version2),
		plotpage.NewNumberInput("threshold", "Threshold (bytes)",
			strconv.FormatInt(sel.Threshold, 10), "0", strconv.FormatInt(view.Range.Max, 10)),
		plotpage.NewTextInput("contains", "Name contains", sel.Filter.NameContains),
		changeSelect(sel.Filter),
		plotpage.NewNumberInput("mindelta", "Min change (bytes)", deltaValue(sel.Filter.MinDelta), "0", ""),
		plotpage.NewNumberInput("maxdelta", "Max change (bytes)", deltaValue(sel.Filter.MaxDelta), "0", ""),
		debugSelect(sel.Filter),
	).WithHidden("platform", sel.Platform).
		WithHidden("metric", sel.Metric)

	return plotpage.Section{
		Title: "Controls",
		Subtitle: fmt.Sprintf("Largest single change is %s; thresholds above it classify everything as unchanged.",
			humanize.IBytes(uint64(view.Range.Max))),
		Chart: plotpage.NewGrid(1, s.metricTabs(view), form),
	}
}

// metricTabs links each discovered metric to the same selection with only
// the metric swapped.
func (s *Service) metricTabs(view *View) *plotpage.LinkGroup {
	links := make([]plotpage.Link, 0, len(view.Metrics))

	for _, m := range view.Metrics {
		q := selectionQuery(view.Selection)
		q.Set("metric", m)

		links = append(links, plotpage.Link{
			Href:   "/compare?" + q.Encode(),
			Label:  m,
			Active: m == view.Selection.Metric,
		})
	}

	return plotpage.NewLinkGroup(links...)
}

func changeSelect(filter Filter) *plotpage.Select {
	selected := ""
	if len(filter.ChangeTypes) == 1 {
		selected = string(filter.ChangeTypes[0])
	}

	return &plotpage.Select{
		Name:  "change",
		Label: "Change type",
		Options: []plotpage.Option{
			{Value: "", Label: "any"},
			{Value: string(compare.Increased), Label: "grown"},
			{Value: string(compare.Decreased), Label: "shrunk"},
			{Value: string(compare.Unchanged), Label: "unchanged"},
		},
		Selected: selected,
	}
}

func debugSelect(filter Filter) *plotpage.Select {
	selected := "0"
	if filter.ExcludeDebugSections {
		selected = "1"
	}

	return &plotpage.Select{
		Name:  "hidedebug",
		Label: "Debug sections",
		Options: []plotpage.Option{
			{Value: "0", Label: "shown"},
			{Value: "1", Label: "hidden"},
		},
		Selected: selected,
	}
}

// deltaValue renders a delta bound for its input; zero means unset.
func deltaValue(v int64) string {
	if v == 0 {
		return ""
	}

	return strconv.FormatInt(v, 10)
}

// selectionQuery encodes a selection as /compare query parameters, the
// inverse of the server's request parsing.
func selectionQuery(sel Selection) url.Values {
	q := url.Values{}
	q.Set("platform", sel.Platform)
	q.Set("v1", sel.Version1)
	q.Set("v2", sel.Version2)
	q.Set("metric", sel.Metric)
	q.Set("threshold", strconv.FormatInt(sel.Threshold, 10))

	if sel.Filter.NameContains != "" {
		q.Set("contains", sel.Filter.NameContains)
	}

	for _, t := range sel.Filter.ChangeTypes {
		q.Add("change", string(t))
	}

	if sel.Filter.MinDelta > 0 {
		q.Set("mindelta", strconv.FormatInt(sel.Filter.MinDelta, 10))
	}

	if sel.Filter.MaxDelta > 0 {
		q.Set("maxdelta", strconv.FormatInt(sel.Filter.MaxDelta, 10))
	}

	// Always explicit: omitting it would let the configured default
	// override what the user chose.
	if sel.Filter.ExcludeDebugSections {
		q.Set("hidedebug", "1")
	} else {
		q.Set("hidedebug", "0")
	}

	return q
}

func timelineURL(sel Selection, identity string) string {
	q := url.Values{}
	q.Set("platform", sel.Platform)
	q.Set("file", identity)
	q.Set("metric", sel.Metric)

	return "/timeline?" + q.Encode()
}

// RenderTimelinePage assembles a single file's trend into a dashboard page.
func (s *Service) RenderTimelinePage(view *TimelineView) *plotpage.Page {
	theme := plotpage.Theme(s.cfg.Serve.Theme)

	page := plotpage.NewPage(
		view.Identity,
		fmt.Sprintf("%s %s across %d versions.", view.Platform, view.Metric, len(view.Points)),
	).WithTheme(theme)

	if len(view.Points) == 0 {
		page.Add(plotpage.Section{
			Title: "No data",
			Chart: plotpage.NewAlert("Nothing to chart",
				"No versions are available in the requested range.",
				plotpage.AlertInfo),
		})

		return page
	}

	labels := make([]string, len(view.Points))
	data := make([]plotpage.SeriesData, len(view.Points))

	for i, p := range view.Points {
		labels[i] = p.Version
		data[i] = p.Size
	}

	cOpts := plotpage.NewChartOpts(theme)

	page.Add(plotpage.Section{
		Title:    "Size over versions",
		Subtitle: "Versions where the file does not exist chart as zero.",
		Chart: plotpage.BuildLineChart(cOpts, labels, []plotpage.LineSeries{
			{Name: view.Metric, Data: data},
		}, "bytes"),
	})

	return page
}

func (s *Service) summarySection(view *View) plotpage.Section {
	sum := view.Summary

	grid := plotpage.NewGrid(4,
		plotpage.NewStat("Files compared", fmt.Sprintf("%d", sum.Total)),
		plotpage.NewStat("Grown", fmt.Sprintf("%d", sum.Increased)).
			WithTrend(SignedBytes(sum.NetDifference)),
		plotpage.NewStat("Shrunk", fmt.Sprintf("%d", sum.Decreased)),
		plotpage.NewStat("Total size", humanize.IBytes(uint64(sum.TotalSize2))).
			WithTrend(fmt.Sprintf("was %s", humanize.IBytes(uint64(sum.TotalSize1)))),
	)

	return plotpage.Section{
		Title: "Summary",
		Chart: grid,
	}
}

func (s *Service) flowSection(view *View, theme plotpage.Theme) plotpage.Section {
	svg, err := RenderFlowSVG(view.Diagram, theme)
	if err != nil {
		return plotpage.Section{
			Title: "Size flow",
			Chart: plotpage.NewAlert("Diagram unavailable", err.Error(), plotpage.AlertWarning),
		}
	}

	return plotpage.Section{
		Title:    "Size flow",
		Subtitle: fmt.Sprintf("Largest %d files by size, before and after.", len(view.Diagram.Links)),
		Hint: plotpage.Hint{
			Title: "Reading the diagram",
			Items: []string{
				"Left column is the older version, right column the newer one.",
				"Dashed boxes mark files present in only one version.",
			},
		},
		Chart: plotpage.NewRawHTML(svg),
	}
}

func (s *Service) histogramSection(view *View, theme plotpage.Theme) plotpage.Section {
	labels := make([]string, len(view.Buckets))
	grown := make([]plotpage.SeriesData, len(view.Buckets))
	shrunk := make([]plotpage.SeriesData, len(view.Buckets))

	for i, b := range view.Buckets {
		labels[i] = b.Label
		grown[i] = b.Increased
		shrunk[i] = b.Decreased
	}

	cOpts := plotpage.NewChartOpts(theme)
	palette := cOpts.Palette()

	return plotpage.Section{
		Title: "Change magnitude distribution",
		Chart: plotpage.BuildBarChart(cOpts, labels, []plotpage.BarSeries{
			{Name: "grown", Data: grown, Color: palette.Semantic.Grown, Stack: "changes"},
			{Name: "shrunk", Data: shrunk, Color: palette.Semantic.Shrunk, Stack: "changes"},
		}, "files"),
	}
}

func (s *Service) tableSection(view *View, linked bool) plotpage.Section {
	grown := make([]compare.Comparison, 0, len(view.Comparisons))
	shrunk := make([]compare.Comparison, 0, len(view.Comparisons))

	for _, c := range view.Comparisons {
		switch c.ChangeType {
		case compare.Increased:
			grown = append(grown, c)
		case compare.Decreased:
			shrunk = append(shrunk, c)
		}
	}

	tabs := plotpage.NewTabs("changes",
		plotpage.TabItem{ID: "all", Label: "All", Content: s.comparisonTable(view.Selection, view.Comparisons, linked)},
		plotpage.TabItem{ID: "grown", Label: "Grown", Content: s.comparisonTable(view.Selection, grown, linked)},
		plotpage.TabItem{ID: "shrunk", Label: "Shrunk", Content: s.comparisonTable(view.Selection, shrunk, linked)},
	)

	return plotpage.Section{
		Title: "Changed files",
		Chart: tabs,
	}
}

func (s *Service) comparisonTable(sel Selection, comparisons []compare.Comparison, linked bool) *plotpage.Table {
	table := plotpage.NewTable([]string{"File", "Before", "After", "Change", "Percent", "Type"})

	limit := s.cfg.Compare.TableRows
	shown := comparisons

	if len(shown) > limit {
		shown = shown[:limit]
		table.WithNotice(fmt.Sprintf("showing top %d of %d files", limit, len(comparisons)))
	}

	for _, c := range shown {
		var name any = c.CompileUnit
		if linked {
			name = plotpage.NewLink(timelineURL(sel, c.CompileUnit), c.CompileUnit).Fragment()
		}

		table.AddRow(
			name,
			humanize.IBytes(uint64(c.Size1)),
			humanize.IBytes(uint64(c.Size2)),
			SignedBytes(c.Difference),
			PercentLabel(c),
			string(c.ChangeType),
		)
	}

	return table
}

// SignedBytes formats a signed byte delta with an explicit sign.
func SignedBytes(v int64) string {
	if v < 0 {
		return "-" + humanize.IBytes(uint64(-v))
	}

	return "+" + humanize.IBytes(uint64(v))
}

// PercentLabel formats a comparison's percent change; a growth from
// nothing displays as "new".
func PercentLabel(c compare.Comparison) string {
	if c.Size1 == 0 && c.Size2 > 0 {
		return "new"
	}

	return fmt.Sprintf("%+.1f%%", c.PercentChange)
}
