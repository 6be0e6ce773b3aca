package compare

import "sort"

// thresholdOutliers is how many of the largest absolute differences are
// excluded from the range max, so a handful of huge deltas does not stretch
// the threshold control past usefulness.
const thresholdOutliers = 30

// ThresholdRange bounds the user-facing threshold control, derived from the
// non-zero absolute differences of a full (threshold 0) comparison.
type ThresholdRange struct {
	Min    int64 `json:"min"`
	Max    int64 `json:"max"`
	Median int64 `json:"median"`
}

// Range computes the threshold range for a comparison list. The max is taken
// after dropping the thresholdOutliers largest absolute differences; min and
// median use the full non-zero set. A list with no non-zero differences
// yields the zero range.
func Range(comparisons []Comparison) ThresholdRange {
	diffs := make([]int64, 0, len(comparisons))

	for _, c := range comparisons {
		if d := abs(c.Difference); d > 0 {
			diffs = append(diffs, d)
		}
	}

	if len(diffs) == 0 {
		return ThresholdRange{}
	}

	sort.Slice(diffs, func(i, j int) bool { return diffs[i] < diffs[j] })

	capped := diffs
	if len(capped) > thresholdOutliers {
		capped = capped[:len(capped)-thresholdOutliers]
	} else {
		// Fewer diffs than the outlier cut: keep the largest so max stays sane.
		capped = diffs[len(diffs)-1:]
	}

	return ThresholdRange{
		Min:    diffs[0],
		Max:    capped[len(capped)-1],
		Median: diffs[len(diffs)/2],
	}
}

// Summary aggregates a comparison list for display.
type Summary struct {
	Total     int `json:"total"`
	Increased int `json:"increased"`
	Decreased int `json:"decreased"`
	Unchanged int `json:"unchanged"`

	// NetDifference is the sum of all signed differences.
	NetDifference int64 `json:"netDifference"`

	// TotalSize1 and TotalSize2 are the summed metric values per side.
	TotalSize1 int64 `json:"totalSize1"`
	TotalSize2 int64 `json:"totalSize2"`
}

// Summarize tallies change classifications and net byte movement.
func Summarize(comparisons []Comparison) Summary {
	var s Summary

	s.Total = len(comparisons)

	for _, c := range comparisons {
		switch c.ChangeType {
		case Increased:
			s.Increased++
		case Decreased:
			s.Decreased++
		case Unchanged:
			s.Unchanged++
		}

		s.NetDifference += c.Difference
		s.TotalSize1 += c.Size1
		s.TotalSize2 += c.Size2
	}

	return s
}
