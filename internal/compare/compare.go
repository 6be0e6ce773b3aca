// Package compare joins two versions' size tables by normalized file identity
// and classifies each file's size change against a byte threshold.
package compare

import (
	"sort"
	"strconv"

	"github.com/sizescope/sizescope/internal/pathnorm"
	"github.com/sizescope/sizescope/internal/sizetable"
)

// ChangeType classifies one file's size delta.
type ChangeType string

// Change classifications.
const (
	Unchanged ChangeType = "unchanged"
	Increased ChangeType = "increased"
	Decreased ChangeType = "decreased"
)

// percentFull is the percent change reported when a file appears from nothing.
// A growth from zero has no finite percentage; downstream displays rely on
// this exact convention.
const percentFull = 100.0

// Comparison is the per-file result of joining two versions' tables.
type Comparison struct {
	// CompileUnit is the normalized file identity.
	CompileUnit string `json:"compileUnit"`

	// Size1 and Size2 are the metric values in the older and newer version,
	// zero when the file is absent on that side.
	Size1 int64 `json:"size1"`
	Size2 int64 `json:"size2"`

	// Difference is Size2 - Size1.
	Difference int64 `json:"difference"`

	// PercentChange is Difference/Size1*100, or exactly 100 when Size1 is
	// zero and Size2 is not, or 0 when both are zero.
	PercentChange float64 `json:"percentChange"`

	// ChangeType classifies Difference against the caller's threshold.
	ChangeType ChangeType `json:"changeType"`
}

// Compare performs a full outer join of two row sets on normalized identity
// and returns one Comparison per distinct identity, sorted by absolute
// difference descending. Ties keep join-iteration order (first appearance in
// rowsA, then rowsB). Non-numeric or missing metric values count as zero.
// Threshold 0 is valid and classifies every non-zero delta as changed.
func Compare(rowsA, rowsB []sizetable.Row, keyColumn, metric string, threshold int64) []Comparison {
	sizesA := make(map[string]int64, len(rowsA))
	sizesB := make(map[string]int64, len(rowsB))

	// Union of identities in first-seen order, so tie order is deterministic.
	order := make([]string, 0, len(rowsA)+len(rowsB))
	seen := make(map[string]struct{}, len(rowsA)+len(rowsB))

	collect := func(rows []sizetable.Row, sizes map[string]int64) {
		for _, row := range rows {
			identity := pathnorm.Normalize(row.Fields[keyColumn])

			// Duplicate identities overwrite: last write wins.
			sizes[identity] = metricValue(row, metric)

			if _, ok := seen[identity]; !ok {
				seen[identity] = struct{}{}

				order = append(order, identity)
			}
		}
	}

	collect(rowsA, sizesA)
	collect(rowsB, sizesB)

	comparisons := make([]Comparison, 0, len(order))

	for _, identity := range order {
		size1 := sizesA[identity]
		size2 := sizesB[identity]
		difference := size2 - size1

		comparisons = append(comparisons, Comparison{
			CompileUnit:   identity,
			Size1:         size1,
			Size2:         size2,
			Difference:    difference,
			PercentChange: percentChange(size1, size2),
			ChangeType:    Classify(difference, threshold),
		})
	}

	sort.SliceStable(comparisons, func(i, j int) bool {
		return abs(comparisons[i].Difference) > abs(comparisons[j].Difference)
	})

	return comparisons
}

// Classify maps a signed difference to a change type. A delta within the
// threshold (inclusive) is unchanged.
func Classify(difference, threshold int64) ChangeType {
	switch {
	case abs(difference) <= threshold:
		return Unchanged
	case difference > 0:
		return Increased
	default:
		return Decreased
	}
}

// metricValue reads one metric field as an integer, coercing non-numeric or
// missing values to zero.
func metricValue(row sizetable.Row, metric string) int64 {
	value, err := strconv.ParseInt(row.Fields[metric], 10, 64)
	if err != nil {
		return 0
	}

	return value
}

func percentChange(size1, size2 int64) float64 {
	switch {
	case size1 > 0:
		return float64(size2-size1) / float64(size1) * 100
	case size2 > 0:
		return percentFull
	default:
		return 0
	}
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}

	return v
}
