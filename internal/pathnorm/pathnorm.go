// Package pathnorm canonicalizes file identity paths so the same logical file
// compares equal across versions despite relative-path prefix differences.
package pathnorm

import "strings"

// parentPrefix is the relative parent segment stripped from identities.
const parentPrefix = "../"

// currentPrefix is the relative current-dir segment stripped from identities.
const currentPrefix = "./"

// Normalize strips leading "../" segments, then one leading "./", then all
// leading "/" characters. Pure and idempotent: Normalize(Normalize(p)) == Normalize(p).
func Normalize(path string) string {
	for strings.HasPrefix(path, parentPrefix) {
		path = path[len(parentPrefix):]
	}

	path = strings.TrimPrefix(path, currentPrefix)

	return strings.TrimLeft(path, "/")
}
