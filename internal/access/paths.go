package access

import "strings"

// PublicPaths is the allow-list of path prefixes exempt from the guard.
type PublicPaths []string

// Allows reports whether path equals a prefix or continues it with "/".
func (p PublicPaths) Allows(path string) bool {
	for _, prefix := range p {
		prefix = strings.TrimRight(prefix, "/")
		if prefix == "" {
			continue
		}
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}
