package popup

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// LinePrompter prints the prompt and reads one line as the answer.
type LinePrompter struct {
	In  *bufio.Reader
	Out io.Writer
}

func (p *LinePrompter) Prompt(message string) (string, error) {
	fmt.Fprintf(p.Out, "%s\n> ", message)
	line, err := p.In.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Renderer turns a markdown display into what the REPL prints.
type Renderer func(display string) string

// ParseLine splits a REPL line into an action and its input. The argument
// after the action is the style, target or question depending on the action.
func ParseLine(line string) (Action, Input) {
	name, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	action := Action(strings.ToLower(name))
	arg = strings.TrimSpace(arg)

	var in Input
	switch action {
	case RewriteSelection:
		in.Style = arg
	case TranslateSelection:
		in.Target = arg
	case AskPage:
		in.Question = arg
	}
	return action, in
}

// Run reads actions line by line from in until EOF, "quit" or ctx is done.
func (s *Surface) Run(ctx context.Context, in *bufio.Reader, out io.Writer, render Renderer) error {
	if render == nil {
		render = func(d string) string { return d }
	}
	fmt.Fprintln(out, usage())

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprint(out, "pageclarity> ")

		line, err := in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read command: %w", err)
		}
		eof := err != nil

		switch trimmed := strings.TrimSpace(line); trimmed {
		case "":
		case "quit", "exit":
			return nil
		case "help", "?":
			fmt.Fprintln(out, usage())
		default:
			action, input := ParseLine(trimmed)
			result, doErr := s.Do(ctx, action, input)
			if doErr != nil {
				fmt.Fprintln(out, failure(doErr.Error()).Render())
				break
			}
			if result.Display != "" {
				fmt.Fprintln(out, render(result.Display))
			}
			if status := result.Status.Render(); status != "" {
				fmt.Fprintln(out, status)
			}
		}

		if eof {
			return nil
		}
	}
}

func usage() string {
	var b strings.Builder
	b.WriteString("Actions:\n")
	for _, a := range Actions {
		b.WriteString("  ")
		b.WriteString(string(a))
		switch a {
		case RewriteSelection:
			b.WriteString(" [plain|friendly|shorter]")
		case TranslateSelection:
			b.WriteString(" [es|fr|de|hi|zh|ja|<code>]")
		case AskPage:
			b.WriteString(" <question>")
		}
		b.WriteString("\n")
	}
	b.WriteString("  help, quit")
	return b.String()
}
