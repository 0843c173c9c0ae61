package arraystore

import "strings"

// SplitPath splits a node path into its components. Leading, trailing and
// repeated slashes are ignored.
//
//   - "" -> []
//   - "genotype/data" -> ["genotype", "data"]
func SplitPath(path string) []string {
	parts := strings.Split(path, "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// CleanPath normalizes a node path to its canonical relative form.
func CleanPath(path string) string {
	return strings.Join(SplitPath(path), "/")
}

// Join builds a node path from components.
func Join(elem ...string) string {
	return CleanPath(strings.Join(elem, "/"))
}

// Base returns the last component of path.
func Base(path string) string {
	parts := SplitPath(path)
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

// Prefixed marks the last component of path with prefix, replacing a
// leading '~' on that component.
//
//   - ("annotation/info/DP", '@') -> "annotation/info/@DP"
//   - ("genotype/~data", '@') -> "genotype/@data"
func Prefixed(path string, prefix byte) string {
	i := strings.LastIndexByte(path, '/') + 1
	base := path[i:]
	if strings.HasPrefix(base, "~") {
		base = base[1:]
	}
	return path[:i] + string(prefix) + base
}
