package parser

import (
	"bufio"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/pageclarity/models"
	"github.com/go-shiori/go-readability"
)

// readableBlocks are the tags whose text makes up the distilled article.
const readableBlocks = "h1,h2,h3,h4,p,li,pre,blockquote"

type Parser struct{}

// Readable uses go-readability to distil the main article of a page and
// flattens it to plain text, one block per line.
func (p *Parser) Readable(rawURL, html string) (*models.Article, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL %q: %w", rawURL, err)
	}

	readabilityParser := readability.NewParser()
	article, err := readabilityParser.Parse(strings.NewReader(html), parsedURL)
	if err != nil {
		return nil, fmt.Errorf("readability failed: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse distilled content: %w", err)
	}

	var lines []string
	doc.Find(readableBlocks).Each(func(i int, s *goquery.Selection) {
		// Nested matches (p inside li) would repeat text.
		if s.ParentsFiltered(readableBlocks).Length() > 0 {
			return
		}
		if text := normalizeText(s.Text()); text != "" {
			lines = append(lines, text)
		}
	})
	if len(lines) == 0 {
		if text := normalizeText(doc.Text()); text != "" {
			lines = append(lines, text)
		}
	}

	return &models.Article{
		Title:    normalizeText(article.Title),
		Byline:   normalizeText(article.Byline),
		SiteName: normalizeText(article.SiteName),
		Excerpt:  normalizeText(article.Excerpt),
		Text:     strings.Join(lines, "\n"),
	}, nil
}

// normalizeText cleans up a string by trimming space and removing excess newlines.
func normalizeText(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			b.WriteString(line)
			b.WriteString(" ")
		}
	}
	return strings.TrimSpace(b.String())
}
