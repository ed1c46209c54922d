// Package dispatcher runs a capability request against an ordered list of
// providers and, when all of them fail, a deterministic placeholder.
//
// Every request completes with displayable text. Each tier is attempted at
// most once; a tier that fails for any reason is treated as unavailable and
// the next one is tried.
package dispatcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/dtnitsch/pageclarity/models"
	"github.com/dtnitsch/pageclarity/pkg/provider"
)

// LanguageDetector guesses the source language for translate requests.
type LanguageDetector interface {
	DetectOr(text, fallback string) string
}

// Dispatcher is stateless and safe for concurrent use.
type Dispatcher struct {
	providers []provider.AIProvider
	detector  LanguageDetector
	logger    *slog.Logger
}

// New creates a dispatcher that tries providers in the given order, normally
// the on-device runtime followed by the remote API.
func New(logger *slog.Logger, providers ...provider.AIProvider) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Dispatcher{
		providers: providers,
		logger:    logger,
	}
}

// WithDetector enables source-language detection for translate requests that
// do not name a source.
func (d *Dispatcher) WithDetector(det LanguageDetector) *Dispatcher {
	d.detector = det
	return d
}

// outcome is the explicit result of one tier.
type outcome struct {
	text string
	err  *provider.Error
}

// Execute never fails: total failure resolves to the fallback tier.
func (d *Dispatcher) Execute(ctx context.Context, req models.CapabilityRequest) models.CapabilityResult {
	pl := d.plan(req)

	for _, p := range d.providers {
		out := d.attempt(ctx, p, req.Capability, pl)
		if out.err == nil {
			d.logger.Info("dispatch complete", "capability", req.Capability, "tier", p.Tier().String(), "provider", p.Name())
			return models.CapabilityResult{
				Text: p.Tier().Tag() + " " + out.text,
				Tier: p.Tier(),
			}
		}
		d.logger.Debug("tier unavailable",
			"capability", req.Capability,
			"tier", p.Tier().String(),
			"provider", p.Name(),
			"kind", out.err.Kind.String(),
			"error", out.err.Error(),
		)
	}

	d.logger.Info("dispatch complete", "capability", req.Capability, "tier", models.TierFallback.String())
	return models.CapabilityResult{
		Text: fallbackText(req, pl),
		Tier: models.TierFallback,
	}
}

// attempt runs one tier. The session is released before returning on every
// path, including a panicking provider.
func (d *Dispatcher) attempt(ctx context.Context, p provider.AIProvider, c models.Capability, pl plan) (out outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = outcome{err: provider.Errorf(provider.KindSession, p.Name(), c, "provider panicked: %v", r)}
		}
	}()

	if !p.Probe(ctx, c) {
		return outcome{err: &provider.Error{Kind: provider.KindCapabilityUnavailable, Provider: p.Name(), Capability: c}}
	}

	s, err := p.CreateSession(ctx, c, pl.options)
	if err != nil {
		return outcome{err: provider.Classify(err, p.Name(), c)}
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			d.logger.Warn("failed to release session", "provider", p.Name(), "capability", c, "error", cerr)
		}
	}()

	text, err := s.Run(ctx, pl.inputFor(p.Tier()))
	if err != nil {
		return outcome{err: provider.Classify(err, p.Name(), c)}
	}
	if strings.TrimSpace(text) == "" {
		return outcome{err: provider.Errorf(emptyResponseKind(p.Tier()), p.Name(), c, "empty response")}
	}
	return outcome{text: text}
}

func emptyResponseKind(t models.Tier) provider.Kind {
	if t == models.TierRemote {
		return provider.KindRemoteRequest
	}
	return provider.KindSession
}

// plan holds everything the tiers need, derived once per request.
type plan struct {
	options       provider.SessionOptions
	onDeviceInput string
	remotePrompt  string

	style       string
	targetLabel string
}

func (p plan) inputFor(t models.Tier) string {
	if t == models.TierOnDevice {
		return p.onDeviceInput
	}
	return p.remotePrompt
}

func (d *Dispatcher) plan(req models.CapabilityRequest) plan {
	pl := plan{onDeviceInput: req.Input}

	switch req.Capability {
	case models.CapabilitySummarize:
		pl.options = provider.SessionOptions{Type: "tl;dr", Format: "markdown", Length: "medium"}
		pl.remotePrompt = summarizePrompt(req.Input)

	case models.CapabilityRewrite:
		name, style := ResolveStyle(req.Option(models.OptionStyle, DefaultStyle))
		pl.style = name
		pl.options = provider.SessionOptions{Tone: style.Tone, Format: "plain", Length: style.Length}
		pl.remotePrompt = style.Instruction + "\n\n" + req.Input

	case models.CapabilityTranslate:
		target := req.Option(models.OptionTarget, DefaultTargetLanguage)
		source := req.Option(models.OptionSource, "")
		if source == "" {
			source = d.detectSource(req.Input)
		}
		pl.targetLabel = LanguageLabel(target)
		pl.options = provider.SessionOptions{SourceLanguage: source, TargetLanguage: target}
		pl.remotePrompt = translatePrompt(pl.targetLabel, req.Input)

	case models.CapabilityProofread:
		pl.remotePrompt = proofreadPrompt(req.Input)

	case models.CapabilityAsk:
		pctx := contextOf(req)
		pl.options = provider.SessionOptions{Temperature: 0.7, TopK: 3}
		pl.onDeviceInput = askOnDevicePrompt(pctx, req.Input)
		pl.remotePrompt = askRemotePrompt(pctx, req.Input)

	default:
		// Unknown capabilities still get a prompt; providers reject them and
		// the request ends in the fallback tier.
		pl.remotePrompt = fmt.Sprintf("%s:\n\n%s", req.Capability, req.Input)
	}
	return pl
}

func (d *Dispatcher) detectSource(text string) string {
	if d.detector == nil {
		return DefaultSourceLanguage
	}
	return d.detector.DetectOr(text, DefaultSourceLanguage)
}

func contextOf(req models.CapabilityRequest) models.PageContext {
	if req.Context == nil {
		return models.PageContext{}
	}
	return *req.Context
}
