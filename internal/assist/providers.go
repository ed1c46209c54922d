package assist

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/dtnitsch/pageclarity/internal/common"
	"github.com/dtnitsch/pageclarity/models"
	"github.com/dtnitsch/pageclarity/pkg/dispatcher"
	"github.com/dtnitsch/pageclarity/pkg/provider"
	"github.com/urfave/cli/v2"
)

// ProvidersAction probes every provider for every capability. The fallback
// tier is always available and is listed last.
func ProvidersAction(c *cli.Context) error {
	rt, err := common.NewRuntime(c)
	if err != nil {
		return err
	}
	return writeProviders(c.Context, rt.Providers, os.Stdout)
}

func writeProviders(ctx context.Context, providers []provider.AIProvider, out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PROVIDER\tTIER\tCAPABILITY\tSTATUS")
	for _, p := range providers {
		for _, capability := range models.Capabilities {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Name(), p.Tier(), capability, providerStatus(ctx, p, capability))
		}
	}
	fmt.Fprintf(w, "fallback\t%s\t*\tavailable\n", models.TierFallback)
	return w.Flush()
}

// providerStatus opens and releases a session after a successful probe, so a
// provider that would fail at session creation is not listed as available.
func providerStatus(ctx context.Context, p provider.AIProvider, c models.Capability) string {
	if !p.Probe(ctx, c) {
		return "unavailable"
	}
	s, err := p.CreateSession(ctx, c, provider.SessionOptions{TargetLanguage: dispatcher.DefaultTargetLanguage})
	if err != nil {
		return "unavailable (" + provider.KindOf(err).String() + ")"
	}
	_ = s.Close()
	return "available"
}
