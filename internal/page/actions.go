package page

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dtnitsch/pageclarity/internal/common"
	"github.com/dtnitsch/pageclarity/pkg/transport"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// ContextAction prints the page context the ask capability would receive.
func ContextAction(c *cli.Context) error {
	rt, err := common.NewRuntime(c)
	if err != nil {
		return err
	}
	resp, err := send(c.Context, rt, transport.NewRequest(transport.GetPageContext, ""))
	if err != nil {
		return err
	}
	return writeYAML(os.Stdout, resp.Context)
}

// ArticleAction prints the reader-mode distillation of the page.
func ArticleAction(c *cli.Context) error {
	rt, err := common.NewRuntime(c)
	if err != nil {
		return err
	}
	resp, err := send(c.Context, rt, transport.NewRequest(transport.GetArticle, ""))
	if err != nil {
		return err
	}
	return writeYAML(os.Stdout, resp.Article)
}

// ReplaceAction writes the arguments into the page's editable field.
func ReplaceAction(c *cli.Context) error {
	text := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if text == "" {
		return cli.Exit("replace needs the text to write", 2)
	}

	rt, err := common.NewRuntime(c)
	if err != nil {
		return err
	}
	return replace(c.Context, rt, text, c.Bool("print"), os.Stdout)
}

func replace(ctx context.Context, rt *common.Runtime, text string, printHTML bool, out io.Writer) error {
	resp, err := send(ctx, rt, transport.NewRequest(transport.ReplaceInInput, text))
	if err != nil {
		return err
	}
	if !resp.Success {
		return cli.Exit("no editable field found on the page", 1)
	}
	rt.Logger.Info("text replaced", "chars", len(text))

	if rt.Page != nil && printHTML {
		html, err := rt.Page.HTML()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, html)
	}
	return nil
}

func send(ctx context.Context, rt *common.Runtime, req transport.Request) (transport.Response, error) {
	resp := transport.Relay(ctx, rt.Logger, rt.Peer, req)
	if resp.Unavailable() {
		return resp, cli.Exit(fmt.Sprintf("%v: start `pageclarity serve` or pass --page", transport.ErrPeerUnreachable), 1)
	}
	return resp, nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return enc.Close()
}
