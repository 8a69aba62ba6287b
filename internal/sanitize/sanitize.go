// Package sanitize strips markup from caller-supplied text before it is
// stored. Output escaping still happens at render time.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text removes every HTML element, dropping script and style bodies, and
// returns plain unescaped text.
func Text(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
