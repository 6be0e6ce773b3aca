package timeline

import (
	"context"
	"strconv"

	"github.com/sizescope/sizescope/internal/pathnorm"
	"github.com/sizescope/sizescope/internal/sizetable"
)

// Point is one version's measurement of a file. Exists is false when the
// file is missing from that version's table or the table failed to load.
type Point struct {
	Version string `json:"version"`
	Size    int64  `json:"size"`
	Exists  bool   `json:"exists"`
}

// Extract loads each version's table independently and returns the queried
// file's size per version, in the given version order. A version whose table
// fails to load yields a zero, non-existent point rather than aborting the
// timeline.
func Extract(ctx context.Context, loader *sizetable.Loader, identity, platform string, versions []string, metric string) []Point {
	wanted := pathnorm.Normalize(identity)

	points := make([]Point, 0, len(versions))

	for _, version := range versions {
		point := Point{Version: version}

		table, err := loader.Load(ctx, platform, version)
		if err == nil {
			if size, ok := lookup(table, wanted, metric); ok {
				point.Size = size
				point.Exists = true
			}
		}

		points = append(points, point)
	}

	return points
}

// lookup finds a row by normalized identity and reads its metric value,
// coercing non-numeric values to zero. Later duplicates win.
func lookup(table *sizetable.Table, wanted, metric string) (int64, bool) {
	key := table.KeyColumn()

	var (
		size  int64
		found bool
	)

	for _, row := range table.Rows {
		if pathnorm.Normalize(row.Fields[key]) != wanted {
			continue
		}

		found = true

		v, err := strconv.ParseInt(row.Fields[metric], 10, 64)
		if err != nil {
			v = 0
		}

		size = v
	}

	return size, found
}
