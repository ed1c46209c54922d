package common

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dtnitsch/pageclarity/internal/popup"
	"github.com/dtnitsch/pageclarity/models"
	"github.com/dtnitsch/pageclarity/pkg/dispatcher"
	"github.com/dtnitsch/pageclarity/pkg/extractor"
	"github.com/dtnitsch/pageclarity/pkg/fetcher"
	"github.com/dtnitsch/pageclarity/pkg/langdetect"
	"github.com/dtnitsch/pageclarity/pkg/markup"
	"github.com/dtnitsch/pageclarity/pkg/provider"
	"github.com/dtnitsch/pageclarity/pkg/provider/ondevice"
	"github.com/dtnitsch/pageclarity/pkg/provider/remote"
	"github.com/dtnitsch/pageclarity/pkg/transport"
	"github.com/urfave/cli/v2"
)

// Runtime is everything a command needs, resolved once from flags and config.
type Runtime struct {
	Config     models.Config
	Logger     *slog.Logger
	Providers  []provider.AIProvider
	Dispatcher *dispatcher.Dispatcher
	Peer       transport.Peer
	// Page is set when --page loaded the document in process.
	Page *extractor.Page

	tab models.Tab
}

// NewRuntime loads the config and builds providers and the peer.
func NewRuntime(c *cli.Context) (*Runtime, error) {
	logger := NewLogger(c)

	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("peer") {
		cfg.Peer.URL = c.String("peer")
	}
	if c.IsSet("format") {
		cfg.Render.Format = c.String("format")
	}

	providers := []provider.AIProvider{
		ondevice.New(cfg.OnDevice, logger),
		remote.New(cfg.Remote),
	}

	rt := &Runtime{
		Config:     cfg,
		Logger:     logger,
		Providers:  providers,
		Dispatcher: dispatcher.New(logger, providers...).WithDetector(&langdetect.Detector{}),
		tab:        models.Tab{Title: c.String("tab-title"), URL: c.String("tab-url")},
	}

	if ref := c.String("page"); ref != "" {
		page, err := LoadPage(c.Context, ref)
		if err != nil {
			return nil, err
		}
		page.SetSelection(c.String("selection"))
		rt.Page = page
		rt.Peer = &transport.LocalPeer{Page: page}
		logger.Debug("page loaded in process", "url", page.URL(), "title", page.Title())
		return rt, nil
	}

	peer := transport.NewHTTPPeer(cfg.Peer.URL, 0)
	if c.IsSet("selection") {
		if _, err := peer.LoadPage(c.Context, transport.LoadRequest{Selection: c.String("selection")}); err != nil {
			logger.Warn("failed to set selection on peer", "peer", cfg.Peer.URL, "error", err)
		}
	}
	rt.Peer = peer
	return rt, nil
}

// LoadPage reads ref as a URL through the fetcher or as a local HTML file.
func LoadPage(ctx context.Context, ref string) (*extractor.Page, error) {
	if IsPageURL(SanitizeURL(ref)) {
		pageURL, err := ValidatePageURL(ref)
		if err != nil {
			return nil, err
		}
		doc, err := fetcher.NewFetcher().GetHtml(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("failed to load page: %w", err)
		}
		return extractor.NewPage(doc, pageURL), nil
	}

	f, err := os.Open(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to open page file: %w", err)
	}
	defer f.Close()
	return extractor.ParseHTML(f, "file://"+ref)
}

// Tab returns the active page as the surface knows it: flags first, then the
// in-process page, then whatever the peer reports.
func (rt *Runtime) Tab(ctx context.Context) models.Tab {
	tab := rt.tab
	if tab.Title != "" || tab.URL != "" {
		return tab
	}
	if rt.Page != nil {
		return rt.Page.Tab()
	}
	if hp, ok := rt.Peer.(*transport.HTTPPeer); ok {
		if t, err := hp.Tab(ctx); err == nil {
			return t
		}
	}
	return tab
}

// Surface builds the action table over this runtime. Paste prompts read from in.
func (rt *Runtime) Surface(in *bufio.Reader) *popup.Surface {
	return popup.New(popup.Options{
		Executor:  rt.Dispatcher,
		Peer:      rt.Peer,
		Prompter:  &popup.LinePrompter{In: in, Out: os.Stderr},
		Clipboard: markup.SystemClipboard{},
		Tab:       rt.Tab,
		Logger:    rt.Logger,
	})
}

// Render formats a markdown display for the configured output format.
func (rt *Runtime) Render(display string) (string, error) {
	switch strings.ToLower(rt.Config.Render.Format) {
	case "html":
		return markup.RenderMarkup(display), nil
	case "terminal":
		return markup.RenderTerminal(display, rt.Config.Render.Style, rt.Config.Render.Width)
	case "", "text":
		return markup.ToPlainText(display), nil
	default:
		return "", fmt.Errorf("unknown output format %q", rt.Config.Render.Format)
	}
}
