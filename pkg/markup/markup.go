// Package markup renders the small markdown subset that AI replies use and
// turns it back into clipboard-friendly plain text.
package markup

import (
	"regexp"
	"strings"
)

const Bullet = "• "

var (
	boldPattern   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicPattern = regexp.MustCompile(`\*([a-zA-Z][^*]*?)\*`)
	h3Pattern     = regexp.MustCompile(`(?m)^### (.*?)$`)
	h2Pattern     = regexp.MustCompile(`(?m)^## (.*?)$`)
	h1Pattern     = regexp.MustCompile(`(?m)^# (.*?)$`)
	listPattern   = regexp.MustCompile(`(?m)^[ \t]*[-*][ \t]+(.+)$`)
	listRun       = regexp.MustCompile(`(<li>.*?</li>(?:<br>)*)+`)

	listMarker = regexp.MustCompile(`(?m)^[ \t]*[-*][ \t]+`)
	blankRun   = regexp.MustCompile(`\n\n+`)
	tierTag    = regexp.MustCompile(`^\[.*?\]\s*`)

	lineBreakTag = regexp.MustCompile(`<br\s*/?>`)
	listItemTag  = regexp.MustCompile(`<li>(.*?)</li>`)
	inlineTag    = regexp.MustCompile(`</?(?:strong|em|h[1-3]|ul)>`)
)

// RenderMarkup converts bold, italic, h1-h3 headers, list items and line
// breaks to HTML. Bold runs before italic so "**" is never read as two
// italic markers. Consecutive list items share one <ul>.
func RenderMarkup(text string) string {
	out := boldPattern.ReplaceAllString(text, "<strong>${1}</strong>")
	out = italicPattern.ReplaceAllString(out, "<em>${1}</em>")
	out = h3Pattern.ReplaceAllString(out, "<h3>${1}</h3>")
	out = h2Pattern.ReplaceAllString(out, "<h2>${1}</h2>")
	out = h1Pattern.ReplaceAllString(out, "<h1>${1}</h1>")
	out = listPattern.ReplaceAllString(out, "<li>${1}</li>")
	out = strings.ReplaceAll(out, "\n", "<br>")

	return listRun.ReplaceAllStringFunc(out, func(run string) string {
		return "<ul>" + strings.ReplaceAll(run, "<br>", "") + "</ul>"
	})
}

// ToPlainText strips formatting from markdown or from RenderMarkup output.
// List items become bullet lines and runs of blank lines collapse to one.
func ToPlainText(text string) string {
	out := lineBreakTag.ReplaceAllString(text, "\n")
	out = listItemTag.ReplaceAllString(out, Bullet+"${1}\n")
	out = inlineTag.ReplaceAllString(out, "")

	out = listMarker.ReplaceAllString(out, Bullet)
	out = boldPattern.ReplaceAllString(out, "${1}")
	out = italicPattern.ReplaceAllString(out, "${1}")
	out = h3Pattern.ReplaceAllString(out, "${1}")
	out = h2Pattern.ReplaceAllString(out, "${1}")
	out = h1Pattern.ReplaceAllString(out, "${1}")
	out = blankRun.ReplaceAllString(out, "\n\n")

	return strings.TrimSpace(out)
}

// StripTierTag removes a leading provenance tag such as "[Remote API] ".
func StripTierTag(text string) string {
	return tierTag.ReplaceAllString(text, "")
}
