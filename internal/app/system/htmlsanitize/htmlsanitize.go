// Package htmlsanitize cleans user-authored HTML before it is handed to the
// presentation layer.
package htmlsanitize

import (
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// ugc allows the formatting a rich-text editor produces.
	ugc = newUGCPolicy()
	// strict removes every tag; used for previews.
	strict = bluemonday.StrictPolicy()
)

func newUGCPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").OnElements("table", "tr", "td", "th")
	p.AllowElements("u", "s", "mark")
	return p
}

// Sanitize returns s with unsafe markup (scripts, event handlers,
// javascript: URLs, iframes, style tags) removed.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return ugc.Sanitize(s)
}

// SanitizeToHTML is Sanitize typed for html/template.
func SanitizeToHTML(s string) template.HTML {
	return template.HTML(Sanitize(s))
}

// PlainText strips all markup and collapses whitespace, then cuts the result
// to at most max runes (max <= 0 means no limit).
func PlainText(s string, max int) string {
	if s == "" {
		return ""
	}
	out := strings.Join(strings.Fields(strict.Sanitize(s)), " ")
	if max > 0 {
		r := []rune(out)
		if len(r) > max {
			out = strings.TrimSpace(string(r[:max])) + "…"
		}
	}
	return out
}

// IsPlainText reports whether s contains no tags.
func IsPlainText(s string) bool {
	return !strings.ContainsAny(s, "<>")
}
