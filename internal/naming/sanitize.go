// Package naming derives output filenames for renamed documents: segment
// sanitizing, metadata status, collision-free name plans and the export gate.
package naming

import (
	"regexp"
	"strings"
)

var (
	reservedChars = strings.NewReplacer(
		"/", "-", `\`, "-", ":", "-", "*", "-", "?", "-",
		`"`, "-", "<", "-", ">", "-", "|", "-",
	)
	hyphenRuns = regexp.MustCompile(`-{2,}`)
)

// Sanitize turns raw user input into a filename segment. Surrounding
// whitespace is dropped, inner whitespace runs and reserved path characters
// become hyphens, hyphen runs collapse to one and edge hyphens are stripped.
// Sanitize is idempotent.
func Sanitize(raw string) string {
	s := strings.Join(strings.Fields(raw), "-")
	s = reservedChars.Replace(s)
	s = hyphenRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// IsValidSegment reports whether a segment survives sanitizing.
func IsValidSegment(segment string) bool {
	return Sanitize(segment) != ""
}
