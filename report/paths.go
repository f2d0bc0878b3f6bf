package report

import "strings"

// normalizePath rewrites a file identity to a canonical comparable form:
// URI scheme prefix stripped, separators unified, leading "./" or "/"
// removed, lower-cased.
func normalizePath(p string) string {
	p = strings.TrimPrefix(p, "file://")
	p = strings.TrimPrefix(p, "file:")
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimPrefix(p, "/")
	return strings.ToLower(p)
}

// SameFile resolves whether a report entry's file reference denotes the same
// file as a tree node's file. The report may use a workspace-relative path
// while the node holds an absolute one, so suffix matching is allowed, but
// only on whole path segments: a same-name file in a different directory, or
// a file whose name merely contains the other's name, must never be
// conflated.
func SameFile(candidate, reported string) bool {
	c := normalizePath(candidate)
	r := normalizePath(reported)

	if c == r {
		return true
	}
	if strings.HasSuffix(c, "/"+r) {
		return true
	}

	cParts := strings.Split(c, "/")
	rParts := strings.Split(r, "/")
	if cParts[len(cParts)-1] != rParts[len(rParts)-1] {
		return false
	}
	if len(cParts) < len(rParts) {
		return false
	}
	tail := strings.Join(cParts[len(cParts)-len(rParts):], "/")
	return tail == r
}
