package common

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/urfave/cli/v2"
)

var markdownLinkPattern = regexp.MustCompile(`^\[.*?\]\((https?://[^\)]+)\)$`)

// NewLogger builds the JSON stderr logger every command uses.
func NewLogger(c *cli.Context) *slog.Logger {
	logLevel := slog.LevelInfo
	switch {
	case c.Bool("quiet"):
		logLevel = slog.LevelError
	case c.Bool("verbose"):
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// SanitizeURL performs basic cleanup on URLs to handle common copy-paste issues.
// Removes whitespace, trailing punctuation and markdown link syntax.
func SanitizeURL(rawURL string) string {
	cleaned := strings.TrimSpace(rawURL)

	// "[click here](https://example.com)" -> "https://example.com"
	if matches := markdownLinkPattern.FindStringSubmatch(cleaned); len(matches) > 1 {
		cleaned = matches[1]
	}

	for _, char := range []string{",", ".", ")", "}", "]", "\"", "'", ">", ";"} {
		cleaned = strings.TrimSuffix(cleaned, char)
	}
	for _, char := range []string{"(", "[", "<", "\"", "'"} {
		cleaned = strings.TrimPrefix(cleaned, char)
	}

	return strings.TrimSpace(cleaned)
}

// IsPageURL reports whether ref names a web page rather than a local file.
func IsPageURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// ValidatePageURL sanitizes rawURL and checks it is an absolute http(s) URL.
func ValidatePageURL(rawURL string) (string, error) {
	cleaned := SanitizeURL(rawURL)
	if strings.Contains(cleaned, " ") {
		return "", fmt.Errorf("invalid page URL %q: contains spaces", rawURL)
	}

	parsed, err := url.Parse(cleaned)
	if err != nil {
		return "", fmt.Errorf("invalid page URL %q: %w", rawURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("invalid page URL %q: scheme must be http or https", rawURL)
	}
	if parsed.Host == "" || strings.ContainsAny(parsed.Host, "{}<>\"'") {
		return "", fmt.Errorf("invalid page URL %q: bad host", rawURL)
	}
	return cleaned, nil
}
