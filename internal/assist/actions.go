package assist

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dtnitsch/pageclarity/internal/common"
	"github.com/dtnitsch/pageclarity/internal/popup"
	"github.com/urfave/cli/v2"
)

func SummarizeAction(c *cli.Context) error {
	action := popup.SummarizePage
	if c.Bool("selection-only") {
		action = popup.SummarizeSelection
	}
	return runActions(c, popup.Input{}, action)
}

func RewriteAction(c *cli.Context) error {
	actions := []popup.Action{popup.RewriteSelection}
	if c.Bool("copy") {
		actions = append(actions, popup.CopyRewrite)
	}
	if c.Bool("replace") {
		actions = append(actions, popup.ReplaceRewrite)
	}
	return runActions(c, popup.Input{Style: c.String("style")}, actions...)
}

func TranslateAction(c *cli.Context) error {
	return runActions(c, popup.Input{Target: c.String("to")}, popup.TranslateSelection)
}

func ProofreadAction(c *cli.Context) error {
	actions := []popup.Action{popup.ProofreadSelection}
	if c.Bool("copy") {
		actions = append(actions, popup.CopyProofread)
	}
	return runActions(c, popup.Input{}, actions...)
}

func AskAction(c *cli.Context) error {
	question := strings.Join(c.Args().Slice(), " ")
	return runActions(c, popup.Input{Question: question}, popup.AskPage)
}

// PopupAction runs the interactive action loop on stdin.
func PopupAction(c *cli.Context) error {
	rt, err := common.NewRuntime(c)
	if err != nil {
		return err
	}
	in := bufio.NewReader(os.Stdin)
	surface := rt.Surface(in)

	return surface.Run(c.Context, in, os.Stdout, func(display string) string {
		out, err := rt.Render(display)
		if err != nil {
			rt.Logger.Error("failed to render result", "error", err)
			return display
		}
		return out
	})
}

// runActions runs the given surface actions in order, printing each result
// to stdout and each status to stderr. A failed action stops the chain.
func runActions(c *cli.Context, in popup.Input, actions ...popup.Action) error {
	rt, err := common.NewRuntime(c)
	if err != nil {
		return err
	}
	surface := rt.Surface(bufio.NewReader(os.Stdin))
	return execute(c.Context, surface, rt.Render, os.Stdout, os.Stderr, in, actions...)
}

func execute(ctx context.Context, surface *popup.Surface, render func(string) (string, error), stdout, stderr io.Writer, in popup.Input, actions ...popup.Action) error {
	for _, action := range actions {
		out, err := surface.Do(ctx, action, in)
		if err != nil {
			return err
		}
		if out.Display != "" {
			rendered, err := render(out.Display)
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, rendered)
		}
		if status := out.Status.Render(); status != "" {
			fmt.Fprintln(stderr, status)
		}
		if out.Status.Error {
			return cli.Exit("", 1)
		}
	}
	return nil
}
