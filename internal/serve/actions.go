package serve

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/dtnitsch/pageclarity/internal/common"
	"github.com/dtnitsch/pageclarity/models"
	"github.com/dtnitsch/pageclarity/pkg/fetcher"
	"github.com/dtnitsch/pageclarity/pkg/transport"
	"github.com/urfave/cli/v2"
)

// ServeAction hosts the extraction peer until interrupted.
func ServeAction(c *cli.Context) error {
	logger := common.NewLogger(c)

	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}
	listen := cfg.Peer.Listen
	if c.IsSet("listen") {
		listen = c.String("listen")
	}

	server, err := newServer(c.Context, logger, c.String("page"), c.String("selection"))
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("peer listening", "addr", listen)
	return server.Start(ctx, listen)
}

// newServer builds the peer, preloading ref when one is given.
func newServer(ctx context.Context, logger *slog.Logger, ref, selection string) (*transport.Server, error) {
	server := transport.NewServer(fetcher.NewFetcher(), logger)
	if ref == "" {
		return server, nil
	}
	page, err := common.LoadPage(ctx, ref)
	if err != nil {
		return nil, err
	}
	page.SetSelection(selection)
	server.SetPage(page)
	logger.Info("page loaded", "url", page.URL(), "title", page.Title())
	return server, nil
}
