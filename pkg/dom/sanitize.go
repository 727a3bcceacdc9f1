package dom

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

var (
	markupPolicyOnce sync.Once
	markupPolicy     *bluemonday.Policy
)

// Sanitize filters markup down to the elements and attributes widgets emit.
// Inline handlers (on*), scripts and unknown elements are stripped.
func Sanitize(markup string) string {
	trimmed := strings.TrimSpace(markup)
	if trimmed == "" {
		return ""
	}
	return markupSanitizer().Sanitize(trimmed)
}

// AllowsStyle reports whether an inline "property: value" declaration
// survives Sanitize. CSS functions such as var() do not.
func AllowsStyle(property, value string) bool {
	decl := html.EscapeString(property + ": " + value)
	out := markupSanitizer().Sanitize(`<span style="` + decl + `"></span>`)
	return strings.Contains(out, "style=")
}

func markupSanitizer() *bluemonday.Policy {
	markupPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements(
			"div", "span", "p", "h1", "h2", "h3", "ul", "ol", "li",
			"label", "button", "input", "form",
		)
		policy.AllowAttrs("id", "class", "title").Globally()
		policy.AllowDataAttributes()
		policy.AllowAttrs("type", "placeholder", "value", "checked", "name", "autocomplete").OnElements("input")
		policy.AllowAttrs("type", "name", "value").OnElements("button")
		policy.AllowAttrs("for").OnElements("label")
		policy.AllowStyles("color", "background-color", "text-decoration", "opacity").Globally()
		markupPolicy = policy
	})
	return markupPolicy
}
