package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// blockElements start and end a line in rendered text.
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"dd": true, "details": true, "dialog": true, "div": true, "dl": true,
	"dt": true, "fieldset": true, "figcaption": true, "figure": true,
	"footer": true, "form": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "header": true, "hr": true,
	"li": true, "main": true, "nav": true, "ol": true, "p": true,
	"pre": true, "section": true, "summary": true, "table": true,
	"tr": true, "ul": true,
}

// hiddenElements never contribute text.
var hiddenElements = map[string]bool{
	"head": true, "script": true, "style": true, "noscript": true,
	"template": true, "iframe": true, "svg": true,
}

// innerText approximates the browser's innerText: block elements break lines,
// whitespace inside text collapses, and non-rendered elements are skipped.
func innerText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		walk(&b, n)
	}

	var lines []string
	for _, line := range strings.Split(b.String(), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func walk(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if startsWithSpace(n.Data) {
			b.WriteByte(' ')
		}
		b.WriteString(strings.Join(strings.Fields(n.Data), " "))
		if endsWithSpace(n.Data) {
			b.WriteByte(' ')
		}
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		if hiddenElements[n.Data] {
			return
		}
		switch {
		case n.Data == "br":
			b.WriteByte('\n')
			return
		case n.Data == "td" || n.Data == "th":
			b.WriteByte(' ')
		}
	}

	block := n.Type == html.ElementNode && blockElements[n.Data]
	if block {
		b.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(b, c)
	}
	if block {
		b.WriteByte('\n')
	}
}

func startsWithSpace(s string) bool {
	return s != "" && strings.TrimLeft(s, " \t\r\n") != s
}

func endsWithSpace(s string) bool {
	return s != "" && strings.TrimRight(s, " \t\r\n") != s
}
