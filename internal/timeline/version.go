// Package timeline extracts one file's size trend across a range of released
// versions.
package timeline

import (
	"sort"
	"strconv"
	"strings"
)

// CompareVersions orders two dot-separated numeric versions component-wise.
// Missing trailing components count as zero, so "4.0" == "4.0.0". Non-numeric
// components compare as zero; such versions are unsupported and the result
// for them is unspecified. Returns -1, 0, or 1.
func CompareVersions(a, b string) int {
	partsA := strings.Split(a, ".")
	partsB := strings.Split(b, ".")

	n := len(partsA)
	if len(partsB) > n {
		n = len(partsB)
	}

	for i := range n {
		va := component(partsA, i)
		vb := component(partsB, i)

		if va != vb {
			if va < vb {
				return -1
			}

			return 1
		}
	}

	return 0
}

func component(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}

	v, err := strconv.Atoi(parts[i])
	if err != nil {
		return 0
	}

	return v
}

// VersionsInRange filters versions to the inclusive [start, end] range and
// returns them in ascending version order. An empty start or end leaves that
// side unbounded.
func VersionsInRange(versions []string, start, end string) []string {
	var kept []string

	for _, v := range versions {
		if start != "" && CompareVersions(v, start) < 0 {
			continue
		}

		if end != "" && CompareVersions(v, end) > 0 {
			continue
		}

		kept = append(kept, v)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return CompareVersions(kept[i], kept[j]) < 0
	})

	return kept
}
