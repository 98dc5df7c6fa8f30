// Package orghierarchy parses reporting-lineage strings such as
// "Alice^Bob=>Carol" into leader names.
package orghierarchy

import (
	"sort"
	"strings"
)

const separator = "^"

var delimiters = []string{"=>", "^"}

// Split returns the trimmed, non-empty segments of a single hierarchy string
// in lineage order.
func Split(hierarchy string) []string {
	normalized := hierarchy
	for _, d := range delimiters {
		normalized = strings.ReplaceAll(normalized, d, separator)
	}

	parts := strings.Split(normalized, separator)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

// ParseLeaders collects the distinct leader names across all hierarchies,
// sorted lexicographically. Empty inputs contribute nothing.
func ParseLeaders(hierarchies []string) []string {
	seen := make(map[string]struct{})
	for _, h := range hierarchies {
		for _, name := range Split(h) {
			seen[name] = struct{}{}
		}
	}

	leaders := make([]string, 0, len(seen))
	for name := range seen {
		leaders = append(leaders, name)
	}
	sort.Strings(leaders)
	return leaders
}

// Join renders leaders back into a hierarchy string.
func Join(leaders []string) string {
	return strings.Join(leaders, separator)
}

// Contains reports whether name occurs as a substring of hierarchy.
// An empty name never matches.
func Contains(hierarchy, name string) bool {
	if name == "" || hierarchy == "" {
		return false
	}
	return strings.Contains(hierarchy, name)
}
