package compare

// histogram bucket boundaries in bytes, decade-spaced.
var bucketBounds = []int64{
	1 << 10,   // 1 KiB
	10 << 10,  // 10 KiB
	100 << 10, // 100 KiB
	1 << 20,   // 1 MiB
	10 << 20,  // 10 MiB
}

// bucketLabels name the magnitude buckets, one more than bucketBounds.
var bucketLabels = []string{
	"< 1 KiB",
	"1–10 KiB",
	"10–100 KiB",
	"100 KiB – 1 MiB",
	"1–10 MiB",
	"≥ 10 MiB",
}

// HistogramBucket counts grown and shrunk files within one magnitude band.
type HistogramBucket struct {
	Label     string
	Increased int
	Decreased int
}

// Histogram buckets comparisons by absolute difference magnitude, split by
// direction. Zero differences are not counted.
func Histogram(comparisons []Comparison) []HistogramBucket {
	buckets := make([]HistogramBucket, len(bucketLabels))
	for i, label := range bucketLabels {
		buckets[i].Label = label
	}

	for _, c := range comparisons {
		if c.Difference == 0 {
			continue
		}

		i := bucketIndex(abs(c.Difference))

		if c.Difference > 0 {
			buckets[i].Increased++
		} else {
			buckets[i].Decreased++
		}
	}

	return buckets
}

func bucketIndex(magnitude int64) int {
	for i, bound := range bucketBounds {
		if magnitude < bound {
			return i
		}
	}

	return len(bucketBounds)
}
