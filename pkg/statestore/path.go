package statestore

import "strings"

// splitPath parses a dotted path into its segments, computed once per
// operation. An empty path or a path containing an empty segment (leading,
// trailing, or doubled dot) is malformed and returns nil; callers treat
// malformed paths as no-ops.
func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	segments := strings.Split(path, ".")
	for _, seg := range segments {
		if seg == "" {
			return nil
		}
	}
	return segments
}

// ancestors returns the strict ancestor paths of path, nearest first:
// "a.b.c" yields ["a.b", "a"].
func ancestors(path string) []string {
	var out []string
	for {
		i := strings.LastIndexByte(path, '.')
		if i < 0 {
			return out
		}
		path = path[:i]
		out = append(out, path)
	}
}
