package markup

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

const (
	DefaultStyle = "dark"
	DefaultWidth = 80
)

// RenderTerminal renders a reply for an ANSI terminal with glamour. style is
// a glamour style name ("dark", "light", "notty") or a path to a style file.
func RenderTerminal(text, style string, width int) (string, error) {
	if style == "" {
		style = DefaultStyle
	}
	if width <= 0 {
		width = DefaultWidth
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create terminal renderer: %w", err)
	}

	out, err := r.Render(text)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
