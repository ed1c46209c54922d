package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dtnitsch/pageclarity/models"
)

const DefaultPeerTimeout = 10 * time.Second

// HTTPPeer talks to a Server over HTTP.
type HTTPPeer struct {
	baseURL string
	client  *http.Client
}

func NewHTTPPeer(baseURL string, timeout time.Duration) *HTTPPeer {
	if timeout <= 0 {
		timeout = DefaultPeerTimeout
	}
	return &HTTPPeer{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *HTTPPeer) Send(ctx context.Context, req Request) (Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Response{}, fmt.Errorf("failed to encode message: %w", err)
	}

	var resp Response
	if err := p.do(ctx, http.MethodPost, "/message", body, &resp); err != nil {
		return Response{}, err
	}
	return resp, nil
}

// Tab asks the peer which page it is hosting.
func (p *HTTPPeer) Tab(ctx context.Context) (models.Tab, error) {
	var tab models.Tab
	if err := p.do(ctx, http.MethodGet, "/tab", nil, &tab); err != nil {
		return models.Tab{}, err
	}
	return tab, nil
}

// LoadPage points the peer at a new page, by URL or by raw HTML.
func (p *HTTPPeer) LoadPage(ctx context.Context, load LoadRequest) (models.Tab, error) {
	body, err := json.Marshal(load)
	if err != nil {
		return models.Tab{}, fmt.Errorf("failed to encode page: %w", err)
	}
	var tab models.Tab
	if err := p.do(ctx, http.MethodPost, "/tab", body, &tab); err != nil {
		return models.Tab{}, err
	}
	return tab, nil
}

func (p *HTTPPeer) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build peer request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPeerUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusServiceUnavailable {
		return fmt.Errorf("%w: peer has no active page", ErrPeerUnreachable)
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Error == "" {
			apiErr.Error = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("peer returned %d: %s", resp.StatusCode, apiErr.Error)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode peer response: %w", err)
	}
	return nil
}
