// Package ondevice adapts a local Ollama-compatible runtime to the provider
// interfaces. A capability is exposed only when a model is configured for it
// and the runtime reports that model as installed.
package ondevice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/dtnitsch/pageclarity/models"
	"github.com/dtnitsch/pageclarity/pkg/provider"
)

const Name = "on-device"

// Runtime implements provider.AIProvider against a local model server.
type Runtime struct {
	cfg    models.OnDeviceConfig
	client *http.Client
	logger *slog.Logger
}

// New creates a runtime adapter. A nil logger discards output.
func New(cfg models.OnDeviceConfig, logger *slog.Logger) *Runtime {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runtime{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

func (r *Runtime) Name() string      { return Name }
func (r *Runtime) Tier() models.Tier { return models.TierOnDevice }

// Probe asks the runtime which models are installed. Any failure means the
// capability is not exposed.
func (r *Runtime) Probe(ctx context.Context, c models.Capability) bool {
	model := r.cfg.ModelFor(c)
	if model == "" {
		return false
	}
	installed, err := r.installedModels(ctx)
	if err != nil {
		r.logger.Debug("on-device probe failed", "capability", c, "error", err)
		return false
	}
	for _, name := range installed {
		if sameModel(name, model) {
			return true
		}
	}
	return false
}

// CreateSession returns a session bound to the capability's model and
// instruction.
func (r *Runtime) CreateSession(ctx context.Context, c models.Capability, opts provider.SessionOptions) (provider.Session, error) {
	model := r.cfg.ModelFor(c)
	if model == "" {
		return nil, provider.Errorf(provider.KindCapabilityUnavailable, Name, c, "no model configured")
	}
	system, err := systemInstruction(c, opts)
	if err != nil {
		return nil, &provider.Error{Kind: provider.KindSession, Provider: Name, Capability: c, Err: err}
	}
	return &session{
		runtime:    r,
		capability: c,
		model:      model,
		system:     system,
		options:    samplingOptions(opts),
	}, nil
}

type tagsResponse struct {
	Models []struct {
		Name  string `json:"name"`
		Model string `json:"model"`
	} `json:"models"`
}

func (r *Runtime) installedModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint("/api/tags"), nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("runtime unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("runtime returned status %d", resp.StatusCode)
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("failed to decode model list: %w", err)
	}
	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		if m.Name != "" {
			names = append(names, m.Name)
		} else if m.Model != "" {
			names = append(names, m.Model)
		}
	}
	return names, nil
}

func (r *Runtime) endpoint(path string) string {
	return strings.TrimRight(r.cfg.BaseURL, "/") + path
}

// sameModel treats "llama3.2" and "llama3.2:latest" as the same model.
func sameModel(installed, wanted string) bool {
	if installed == wanted {
		return true
	}
	return !strings.Contains(wanted, ":") && installed == wanted+":latest"
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string         `json:"model"`
	Messages []chatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  map[string]any `json:"options,omitempty"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Error   string      `json:"error,omitempty"`
}

type session struct {
	runtime    *Runtime
	capability models.Capability
	model      string
	system     string
	options    map[string]any

	mu     sync.Mutex
	closed bool
}

func (s *session) Run(ctx context.Context, input string) (string, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return "", provider.Errorf(provider.KindSession, Name, s.capability, "session already released")
	}

	var messages []chatMessage
	if s.system != "" {
		messages = append(messages, chatMessage{Role: "system", Content: s.system})
	}
	messages = append(messages, chatMessage{Role: "user", Content: input})

	body, err := json.Marshal(chatRequest{
		Model:    s.model,
		Messages: messages,
		Stream:   false,
		Options:  s.options,
	})
	if err != nil {
		return "", s.fail(fmt.Errorf("marshaling request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.runtime.endpoint("/api/chat"), bytes.NewReader(body))
	if err != nil {
		return "", s.fail(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.runtime.client.Do(req)
	if err != nil {
		return "", s.fail(fmt.Errorf("runtime request: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", s.fail(fmt.Errorf("reading response: %w", err))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", s.fail(fmt.Errorf("parsing response: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != "" {
			return "", s.fail(fmt.Errorf("runtime error (%d): %s", resp.StatusCode, parsed.Error))
		}
		return "", s.fail(fmt.Errorf("runtime error (%d)", resp.StatusCode))
	}

	content := strings.TrimSpace(parsed.Message.Content)
	if content == "" {
		return "", s.fail(fmt.Errorf("runtime returned an empty response"))
	}
	return content, nil
}

// Close releases the session. It is safe to call more than once.
func (s *session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if !s.runtime.cfg.UnloadOnRelease {
		return nil
	}
	return s.runtime.unload(s.model)
}

func (s *session) fail(err error) error {
	return &provider.Error{Kind: provider.KindSession, Provider: Name, Capability: s.capability, Err: err}
}

// unload asks the runtime to evict the model from memory. It runs on its own
// context so a cancelled request still releases the model.
func (r *Runtime) unload(model string) error {
	body, err := json.Marshal(map[string]any{"model": model, "keep_alive": 0})
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, r.endpoint("/api/generate"), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to unload model %s: %w", model, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to unload model %s: status %d", model, resp.StatusCode)
	}
	return nil
}
