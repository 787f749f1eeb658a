package helper

import (
	"path/filepath"
	"regexp"
	"strings"
)

var unsafeFilename = regexp.MustCompile(`[^a-zA-Z0-9_\-]`)

// NormalizeFilename ensures only safe characters remain
func NormalizeFilename(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))

	base = strings.ReplaceAll(base, " ", "_")
	base = unsafeFilename.ReplaceAllString(base, "")
	base = strings.ToLower(base)
	if base == "" {
		base = "file"
	}

	if ext = unsafeFilename.ReplaceAllString(strings.TrimPrefix(ext, "."), ""); ext != "" {
		ext = "." + ext
	}
	return base + ext
}

// Matches is a case-insensitive substring test of query against any of
// fields. A blank query matches everything.
func Matches(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
