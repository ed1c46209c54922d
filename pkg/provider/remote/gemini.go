// Package remote adapts a generative-text HTTP endpoint (Gemini
// generateContent) to the provider interfaces.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dtnitsch/pageclarity/models"
	"github.com/dtnitsch/pageclarity/pkg/provider"
)

const Name = "remote"

// Gemini implements provider.AIProvider with one POST per session run.
type Gemini struct {
	cfg    models.RemoteConfig
	client *http.Client
}

// New creates a remote adapter from the injected configuration.
func New(cfg models.RemoteConfig) *Gemini {
	return &Gemini{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (g *Gemini) Name() string      { return Name }
func (g *Gemini) Tier() models.Tier { return models.TierRemote }

// Probe is always true: the endpoint serves every capability, and a missing
// key is reported by CreateSession as a configuration error.
func (g *Gemini) Probe(ctx context.Context, c models.Capability) bool {
	return true
}

// CreateSession fails fast when no usable API key is configured.
func (g *Gemini) CreateSession(ctx context.Context, c models.Capability, opts provider.SessionOptions) (provider.Session, error) {
	if !g.cfg.Configured() {
		return nil, provider.Errorf(provider.KindRemoteConfig, Name, c, "API key not configured")
	}
	if strings.TrimSpace(g.cfg.Endpoint) == "" {
		return nil, provider.Errorf(provider.KindRemoteConfig, Name, c, "endpoint not configured")
	}
	return &session{gemini: g, capability: c}, nil
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type apiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

type session struct {
	gemini     *Gemini
	capability models.Capability
}

// Run sends prompt as a single-turn request and returns the first candidate.
func (s *session) Run(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", s.fail("marshaling request: %w", err)
	}

	reqURL, err := s.gemini.requestURL()
	if err != nil {
		return "", provider.Errorf(provider.KindRemoteConfig, Name, s.capability, "invalid endpoint: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return "", s.fail("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.gemini.client.Do(req)
	if err != nil {
		return "", s.fail("API request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", s.fail("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", s.fail("API error (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return "", s.fail("API error (%d): Unknown error", resp.StatusCode)
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", s.fail("parsing response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", s.fail("response has no candidate text")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

// Close is a no-op; each run is a self-contained request.
func (s *session) Close() error { return nil }

func (s *session) fail(format string, args ...any) error {
	return provider.Errorf(provider.KindRemoteRequest, Name, s.capability, format, args...)
}

// requestURL appends the API key as the key query parameter.
func (g *Gemini) requestURL() (string, error) {
	u, err := url.Parse(g.cfg.Endpoint)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("key", strings.TrimSpace(g.cfg.APIKey))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
