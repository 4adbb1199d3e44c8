// Package sanitize strips unsafe markup from rich-text note bodies.
//
// The policy is fixed: a small allow-list of block and inline elements, with
// anchors restricted to http/https targets. Everything else (scripts,
// frames, objects, event-handler attributes, javascript: URIs) is removed
// on every write. Content is stored already sanitized and never re-filtered
// on read.
package sanitize

import (
	"github.com/microcosm-cc/bluemonday"
)

// allowedElements is the safe subset of block/inline tags a note body may
// contain. Anchors are handled separately because they carry an attribute.
var allowedElements = []string{
	"p", "h1", "h2", "h3", "h4", "h5", "h6",
	"strong", "em", "u", "blockquote",
	"ul", "ol", "li", "pre", "code",
}

// skipContentElements are non-text-bearing tags whose entire subtree is
// dropped. Disallowed tags not listed here are unwrapped instead, keeping
// their text content.
var skipContentElements = []string{
	"script", "style", "iframe", "object", "embed", "title", "head",
}

// HTMLSanitizer sanitizes note content. Safe for concurrent use.
type HTMLSanitizer struct {
	policy *bluemonday.Policy
}

// NewHTMLSanitizer builds the sanitizer with the fixed note-content policy.
func NewHTMLSanitizer() *HTMLSanitizer {
	p := bluemonday.NewPolicy()

	p.AllowElements(allowedElements...)
	p.AllowAttrs("href").OnElements("a")
	p.AllowURLSchemes("http", "https")
	p.RequireParseableURLs(true)
	p.SkipElementsContent(skipContentElements...)

	return &HTMLSanitizer{policy: p}
}

// Sanitize returns raw with all disallowed markup removed. It is total
// (malformed input never fails, empty input yields empty output),
// deterministic, and idempotent. An anchor whose href uses a disallowed
// scheme loses the anchor but keeps its text.
func (s *HTMLSanitizer) Sanitize(raw string) string {
	if raw == "" {
		return ""
	}
	return s.policy.Sanitize(raw)
}
