package schema

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// Clean strips markup from admin or respondent supplied text and trims it. Entities
// the sanitizer escapes are decoded again since the result is stored as plain text.
//
// A "<" directly followed by a letter starts a tag, so "a<b" cleans to "a" while
// "a < b" and "x<5" are kept as written.
func Clean(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(trimmed)))
}
