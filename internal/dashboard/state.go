// Package dashboard derives presentation state from raw size tables and
// serves the comparison dashboard. State transitions always recompute the
// full view from raw tables so classification stays consistent with the
// active metric and threshold.
package dashboard

import (
	"context"
	"strings"

	"github.com/sizescope/sizescope/internal/compare"
	"github.com/sizescope/sizescope/internal/config"
	"github.com/sizescope/sizescope/internal/flow"
	"github.com/sizescope/sizescope/internal/sizetable"
	"github.com/sizescope/sizescope/internal/timeline"
)

// Service computes dashboard views. It owns no mutable view state; every
// request derives a fresh View from the loader's tables.
type Service struct {
	loader *sizetable.Loader
	cfg    *config.Config
}

// NewService creates a dashboard service.
func NewService(loader *sizetable.Loader, cfg *config.Config) *Service {
	return &Service{loader: loader, cfg: cfg}
}

// Loader exposes the underlying table loader.
func (s *Service) Loader() *sizetable.Loader { return s.loader }

// Filter narrows the displayed comparison list. The zero value passes
// everything.
type Filter struct {
	// NameContains keeps files whose identity contains the substring.
	NameContains string

	// ChangeTypes keeps only the listed classifications when non-empty.
	ChangeTypes []compare.ChangeType

	// MinDelta and MaxDelta bound the absolute difference; MaxDelta 0
	// means unbounded.
	MinDelta int64
	MaxDelta int64

	// ExcludeDebugSections hides debug section rows on the configured
	// platform family.
	ExcludeDebugSections bool
}

// Selection is the user's current comparison choice.
type Selection struct {
	Platform  string
	Version1  string
	Version2  string
	Metric    string
	Threshold int64
	Filter    Filter
}

// View is a fully derived comparison view.
type View struct {
	Selection Selection

	// Metrics is the metric set discovered from the loaded table pair,
	// fixed for the lifetime of this view.
	Metrics []string

	// Versions lists the platform's known versions, for the version
	// selectors. Empty when the index read fails.
	Versions []string

	// Range bounds the threshold control, computed from the unfiltered
	// threshold-0 comparison.
	Range compare.ThresholdRange

	// Comparisons is the classified, filtered list, sorted by absolute
	// difference descending.
	Comparisons []compare.Comparison

	// TotalUnfiltered counts comparisons before filtering, for the
	// "showing top N of M" notice.
	TotalUnfiltered int

	Summary compare.Summary
	Buckets []compare.HistogramBucket
	Diagram *flow.Diagram
}

// Empty reports whether the view has nothing to display.
func (v *View) Empty() bool {
	return len(v.Comparisons) == 0
}

// BuildView loads both versions' tables and derives the complete view.
// The two loads run concurrently. A failed load aborts the view and
// propagates the loader's error; the caller keeps whatever it was showing.
func (s *Service) BuildView(ctx context.Context, sel Selection) (*View, error) {
	before, after, err := s.loadPair(ctx, sel)
	if err != nil {
		return nil, err
	}

	keyColumn := before.KeyColumn()
	if keyColumn == "" {
		keyColumn = after.KeyColumn()
	}

	metrics := discoverMetrics(before, after)

	if sel.Metric == "" || !contains(metrics, sel.Metric) {
		if len(metrics) > 0 {
			sel.Metric = metrics[0]
		}
	}

	// The full threshold-0 diff set drives the threshold range.
	full := compare.Compare(before.Rows, after.Rows, keyColumn, sel.Metric, 0)

	classified := compare.Compare(before.Rows, after.Rows, keyColumn, sel.Metric, sel.Threshold)
	filtered := s.applyFilter(classified, sel)

	// The version list only feeds the selectors; a failed index read
	// leaves them narrowed to the current pair rather than failing the
	// comparison both tables already loaded for.
	var versions []string
	if idx, idxErr := s.loader.LoadIndex(ctx); idxErr == nil {
		versions = idx[sel.Platform].Versions
	}

	return &View{
		Selection:       sel,
		Metrics:         metrics,
		Versions:        versions,
		Range:           compare.Range(full),
		Comparisons:     filtered,
		TotalUnfiltered: len(classified),
		Summary:         compare.Summarize(filtered),
		Buckets:         compare.Histogram(filtered),
		Diagram: flow.Layout(filtered, flow.Config{
			MaxNodes: s.cfg.Flow.MaxNodes,
			MinSize:  s.cfg.Flow.MinSize,
		}),
	}, nil
}

// SetMetric returns a new view with the active metric changed.
func (s *Service) SetMetric(ctx context.Context, sel Selection, metric string) (*View, error) {
	sel.Metric = metric

	return s.BuildView(ctx, sel)
}

// SetThreshold returns a new view with the classification threshold changed.
func (s *Service) SetThreshold(ctx context.Context, sel Selection, threshold int64) (*View, error) {
	sel.Threshold = threshold

	return s.BuildView(ctx, sel)
}

// SetVersions returns a new view comparing a different version pair.
func (s *Service) SetVersions(ctx context.Context, sel Selection, version1, version2 string) (*View, error) {
	sel.Version1 = version1
	sel.Version2 = version2

	return s.BuildView(ctx, sel)
}

// SetFilter returns a new view with a different display filter.
func (s *Service) SetFilter(ctx context.Context, sel Selection, filter Filter) (*View, error) {
	sel.Filter = filter

	return s.BuildView(ctx, sel)
}

// TimelineView holds one file's trend over a version range.
type TimelineView struct {
	Platform string           `json:"platform"`
	Identity string           `json:"file"`
	Metric   string           `json:"metric"`
	Points   []timeline.Point `json:"points"`
}

// BuildTimeline extracts one file's size trend across the index's versions
// within [from, to]. Versions whose tables fail to load appear as
// non-existent zero points.
func (s *Service) BuildTimeline(ctx context.Context, platform, identity, from, to, metric string) (*TimelineView, error) {
	idx, err := s.loader.LoadIndex(ctx)
	if err != nil {
		return nil, err
	}

	versions := timeline.VersionsInRange(idx[platform].Versions, from, to)

	return &TimelineView{
		Platform: platform,
		Identity: identity,
		Metric:   metric,
		Points:   timeline.Extract(ctx, s.loader, identity, platform, versions, metric),
	}, nil
}

// loadPair fetches both versions' tables concurrently.
func (s *Service) loadPair(ctx context.Context, sel Selection) (*sizetable.Table, *sizetable.Table, error) {
	type result struct {
		table *sizetable.Table
		err   error
	}

	beforeCh := make(chan result, 1)
	afterCh := make(chan result, 1)

	go func() {
		t, err := s.loader.Load(ctx, sel.Platform, sel.Version1)
		beforeCh <- result{table: t, err: err}
	}()

	go func() {
		t, err := s.loader.Load(ctx, sel.Platform, sel.Version2)
		afterCh <- result{table: t, err: err}
	}()

	before := <-beforeCh
	after := <-afterCh

	if before.err != nil {
		return nil, nil, before.err
	}

	if after.err != nil {
		return nil, nil, after.err
	}

	return before.table, after.table, nil
}

// discoverMetrics returns the metric columns present in both tables, fixed
// once per table-pair load. When the tables share nothing, the before
// table's metrics are used so a lopsided pair still renders.
func discoverMetrics(before, after *sizetable.Table) []string {
	afterSet := make(map[string]struct{}, len(after.Headers))
	for _, m := range after.MetricColumns() {
		afterSet[m] = struct{}{}
	}

	var shared []string

	for _, m := range before.MetricColumns() {
		if _, ok := afterSet[m]; ok {
			shared = append(shared, m)
		}
	}

	if len(shared) == 0 {
		return before.MetricColumns()
	}

	return shared
}

func (s *Service) applyFilter(comparisons []compare.Comparison, sel Selection) []compare.Comparison {
	filter := sel.Filter

	excludeDebug := filter.ExcludeDebugSections &&
		strings.HasPrefix(sel.Platform, s.cfg.Sections.PlatformPrefix)

	debugSet := make(map[string]struct{}, len(s.cfg.Sections.DebugSections))
	if excludeDebug {
		for _, section := range s.cfg.Sections.DebugSections {
			debugSet[section] = struct{}{}
		}
	}

	kept := make([]compare.Comparison, 0, len(comparisons))

	for _, c := range comparisons {
		if filter.NameContains != "" && !strings.Contains(c.CompileUnit, filter.NameContains) {
			continue
		}

		if len(filter.ChangeTypes) > 0 && !containsType(filter.ChangeTypes, c.ChangeType) {
			continue
		}

		magnitude := c.Difference
		if magnitude < 0 {
			magnitude = -magnitude
		}

		if magnitude < filter.MinDelta {
			continue
		}

		if filter.MaxDelta > 0 && magnitude > filter.MaxDelta {
			continue
		}

		if excludeDebug {
			if _, ok := debugSet[c.CompileUnit]; ok {
				continue
			}
		}

		kept = append(kept, c)
	}

	return kept
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}

	return false
}

func containsType(types []compare.ChangeType, want compare.ChangeType) bool {
	for _, t := range types {
		if t == want {
			return true
		}
	}

	return false
}
