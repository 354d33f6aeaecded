// Package htmlsanitize cleans the HTML admins may paste into product
// descriptions. The policy allows basic formatting, lists and links and
// strips everything else (scripts, styles, iframes, event handlers).
package htmlsanitize

import (
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

func descriptionPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowStandardURLs()
		p.AllowAttrs("href").OnElements("a")
		p.RequireNoFollowOnLinks(true)
		p.AllowElements("p", "br", "strong", "b", "em", "i", "u", "s",
			"ul", "ol", "li", "blockquote", "h3", "h4", "span")
		policy = p
	})
	return policy
}

// Sanitize returns s with disallowed markup removed.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return descriptionPolicy().Sanitize(s)
}

// SanitizeToHTML sanitizes s for direct output in a template.
func SanitizeToHTML(s string) template.HTML {
	return template.HTML(Sanitize(s))
}

// Clean prepares a description for storage. Plain text is kept verbatim
// (templates escape it on output); anything with markup is sanitized.
func Clean(s string) string {
	s = strings.TrimSpace(s)
	if IsPlainText(s) {
		return s
	}
	return Sanitize(s)
}

// IsPlainText reports whether s contains no tag-like sequences.
func IsPlainText(s string) bool {
	return !strings.Contains(s, "<")
}
