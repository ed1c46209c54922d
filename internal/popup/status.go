package popup

import "github.com/charmbracelet/lipgloss"

var (
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#d93025"))
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

// Status is the one-line message under the result.
type Status struct {
	Message string
	Error   bool
}

func info(msg string) Status    { return Status{Message: msg} }
func failure(msg string) Status { return Status{Message: msg, Error: true} }

// Render styles the status for a terminal. Empty statuses render empty.
func (s Status) Render() string {
	if s.Message == "" {
		return ""
	}
	if s.Error {
		return errorStyle.Render(s.Message)
	}
	return infoStyle.Render(s.Message)
}
