package extractor

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/pageclarity/models"
)

const (
	MaxContentChars    = 10000
	MaxTopContentChars = 2000
	TruncationMarker   = "..."

	minParagraphChars = 50
	maxParagraphs     = 3
)

// contentSelectors are tried in order when the page has no <article>.
var contentSelectors = []string{
	"main",
	`[role="main"]`,
	".content",
	".post-content",
	".entry-content",
	".article-content",
}

// editableSelectors are tried in order when no editable element has focus.
var editableSelectors = []string{
	"textarea",
	`input[type="text"]`,
	`[contenteditable="true"]`,
}

var (
	navigationLine = regexp.MustCompile(`(?im)^.*?(Navigation|Menu|Header).*$`)
	footerLine     = regexp.MustCompile(`(?im)^.*?(Footer|Copyright|©).*$`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
)

// ChangeEvent is emitted after ReplaceInInput writes to an element.
type ChangeEvent struct {
	Tag   string `json:"tag"`
	Value string `json:"value"`
}

// Page is the extraction peer's view of the active document. It is safe for
// concurrent use; ReplaceInInput is the only mutating operation.
type Page struct {
	mu        sync.RWMutex
	doc       *goquery.Document
	url       string
	selection string
	focus     string
	listeners []func(ChangeEvent)
}

// NewPage wraps an already parsed document.
func NewPage(doc *goquery.Document, rawURL string) *Page {
	return &Page{doc: doc, url: rawURL}
}

// ParseHTML parses r into a Page.
func ParseHTML(r io.Reader, rawURL string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return NewPage(doc, rawURL), nil
}

// SetSelection records the user's current selection.
func (p *Page) SetSelection(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selection = text
}

// SetFocus records a selector for the element that currently has focus.
func (p *Page) SetFocus(selector string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.focus = selector
}

// OnChange registers a listener for ReplaceInInput writes.
func (p *Page) OnChange(fn func(ChangeEvent)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
}

func (p *Page) URL() string {
	return p.url
}

// Title returns the document title with whitespace collapsed.
func (p *Page) Title() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return collapse(p.doc.Find("title").First().Text())
}

// Tab describes the page the way the surface sees it.
func (p *Page) Tab() models.Tab {
	return models.Tab{Title: p.Title(), URL: p.url}
}

// HTML renders the current document, including any ReplaceInInput writes.
func (p *Page) HTML() (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.doc.Html()
}

// ExtractSelection returns the trimmed selection, possibly empty.
func (p *Page) ExtractSelection() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return strings.TrimSpace(p.selection)
}

// ExtractPageContent returns the page's main text: the <article> when there is
// one, else the first content region, else the body minus navigation and
// footer lines. The result is whitespace-collapsed and truncated.
func (p *Page) ExtractPageContent() string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var content string
	if article := p.doc.Find("article").First(); article.Length() > 0 {
		content = innerText(article)
	} else {
		for _, selector := range contentSelectors {
			if el := p.doc.Find(selector).First(); el.Length() > 0 {
				content = innerText(el)
				break
			}
		}
		if content == "" {
			content = innerText(p.doc.Find("body"))
			content = navigationLine.ReplaceAllString(content, "")
			content = footerLine.ReplaceAllString(content, "")
		}
	}

	return truncate(collapse(content), MaxContentChars, TruncationMarker)
}

// ExtractPageContext captures title, URL, selection and the first paragraphs
// long enough to carry meaning.
func (p *Page) ExtractPageContext() models.PageContext {
	p.mu.RLock()
	var paragraphs []string
	p.doc.Find("p").EachWithBreak(func(i int, s *goquery.Selection) bool {
		text := strings.TrimSpace(innerText(s))
		if len([]rune(text)) > minParagraphChars {
			paragraphs = append(paragraphs, text)
		}
		return len(paragraphs) < maxParagraphs
	})
	selection := strings.TrimSpace(p.selection)
	p.mu.RUnlock()

	return models.PageContext{
		Title:      p.Title(),
		URL:        p.url,
		Selection:  selection,
		TopContent: truncate(strings.Join(paragraphs, "\n\n"), MaxTopContentChars, ""),
	}
}

// ReplaceInInput writes text into the focused editable element, or the first
// editable element when none has focus, and notifies listeners. It reports
// false when the page has nothing editable.
func (p *Page) ReplaceInInput(text string) bool {
	p.mu.Lock()
	el := p.focusedEditable()
	if el == nil {
		for _, selector := range editableSelectors {
			if found := p.doc.Find(selector).First(); found.Length() > 0 {
				el = found
				break
			}
		}
	}
	if el == nil {
		p.mu.Unlock()
		return false
	}

	tag := goquery.NodeName(el)
	if tag == "input" {
		el.SetAttr("value", text)
	} else {
		el.SetText(text)
	}
	listeners := append([]func(ChangeEvent){}, p.listeners...)
	p.mu.Unlock()

	event := ChangeEvent{Tag: tag, Value: text}
	for _, fn := range listeners {
		fn(event)
	}
	return true
}

// focusedEditable resolves the focus selector, then [autofocus]. Callers hold mu.
func (p *Page) focusedEditable() *goquery.Selection {
	candidates := []string{"[autofocus]"}
	if p.focus != "" {
		candidates = append([]string{p.focus}, candidates...)
	}
	for _, selector := range candidates {
		el := p.doc.Find(selector).First()
		if el.Length() > 0 && isEditable(el) {
			return el
		}
	}
	return nil
}

func isEditable(el *goquery.Selection) bool {
	switch goquery.NodeName(el) {
	case "textarea":
		return true
	case "input":
		t, ok := el.Attr("type")
		return !ok || strings.EqualFold(t, "text")
	}
	v, _ := el.Attr("contenteditable")
	return v == "true"
}

func collapse(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// truncate cuts s to max characters and appends marker when it had to cut.
func truncate(s string, max int, marker string) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + marker
}
