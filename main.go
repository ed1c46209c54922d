package main

import (
	"fmt"
	"os"

	"github.com/dtnitsch/pageclarity/internal/assist"
	"github.com/dtnitsch/pageclarity/internal/page"
	"github.com/dtnitsch/pageclarity/internal/serve"
	"github.com/dtnitsch/pageclarity/models"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	copyFlag := func(what string) *cli.BoolFlag {
		return &cli.BoolFlag{Name: "copy", Usage: "copy the " + what + " to the clipboard"}
	}

	return &cli.App{
		Name:  "pageclarity",
		Usage: "summarize, rewrite, translate, proofread and ask about the active page",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: models.DefaultConfigPath, Usage: "path to a YAML config file"},
			&cli.StringFlag{Name: "peer", Usage: "URL of the extraction peer started with `serve`", EnvVars: []string{"PAGECLARITY_PEER"}},
			&cli.StringFlag{Name: "page", Usage: "load this URL or HTML file in process instead of asking the peer"},
			&cli.StringFlag{Name: "selection", Usage: "text to treat as the current selection"},
			&cli.StringFlag{Name: "tab-title", Usage: "title of the active tab, for degraded context"},
			&cli.StringFlag{Name: "tab-url", Usage: "URL of the active tab, for degraded context"},
			&cli.StringFlag{Name: "format", Usage: "output format: text, html or terminal"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "only log errors"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log debug details"},
		},
		Commands: []*cli.Command{
			{
				Name:   "summarize",
				Usage:  "summarize the page, or the selection with --selection-only",
				Action: assist.SummarizeAction,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "selection-only", Aliases: []string{"s"}, Usage: "summarize the selection instead of the page"},
				},
			},
			{
				Name:   "rewrite",
				Usage:  "rewrite the selection in another style",
				Action: assist.RewriteAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "style", Value: "plain", Usage: "plain, friendly or shorter"},
					copyFlag("rewrite"),
					&cli.BoolFlag{Name: "replace", Usage: "write the rewrite back into the page's editable field"},
				},
			},
			{
				Name:   "translate",
				Usage:  "translate the selection",
				Action: assist.TranslateAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "to", Value: "es", Usage: "target language code"},
				},
			},
			{
				Name:   "proofread",
				Usage:  "correct grammar and spelling in the selection",
				Action: assist.ProofreadAction,
				Flags:  []cli.Flag{copyFlag("correction")},
			},
			{
				Name:      "ask",
				Usage:     "ask a question about the page",
				ArgsUsage: "<question>",
				Action:    assist.AskAction,
			},
			{
				Name:   "context",
				Usage:  "print the page context sent with questions",
				Action: page.ContextAction,
			},
			{
				Name:   "article",
				Usage:  "print the reader-mode article of the page",
				Action: page.ArticleAction,
			},
			{
				Name:      "replace",
				Usage:     "write text into the page's focused editable field",
				ArgsUsage: "<text>",
				Action:    page.ReplaceAction,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "print", Usage: "print the updated page HTML (with --page)"},
				},
			},
			{
				Name:   "providers",
				Usage:  "show which providers can serve each capability",
				Action: assist.ProvidersAction,
			},
			{
				Name:   "serve",
				Usage:  "host the extraction peer over HTTP",
				Action: serve.ServeAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "listen", Value: models.DefaultPeerListen, Usage: "address to listen on"},
				},
			},
			{
				Name:   "popup",
				Usage:  "interactive action loop",
				Action: assist.PopupAction,
			},
		},
	}
}
