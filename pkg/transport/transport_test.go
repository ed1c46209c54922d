package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/pageclarity/pkg/extractor"
	"github.com/dtnitsch/pageclarity/pkg/fetcher"
)

const testPage = `<html><head><title>Peer Page</title></head><body>
<article><h1>Peer Page</h1>
<p>This paragraph is long enough to be counted as real page context for questions.</p>
</article>
<textarea id="note">draft</textarea>
</body></html>`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPage(t *testing.T) *extractor.Page {
	t.Helper()
	p, err := extractor.ParseHTML(strings.NewReader(testPage), "https://example.com/peer")
	require.NoError(t, err)
	p.SetSelection(" chosen text ")
	return p
}

func newTestServer(t *testing.T, page *extractor.Page) (*Server, *httptest.Server) {
	t.Helper()
	s := NewServer(fetcher.NewFetcher(), discardLogger())
	if page != nil {
		s.SetPage(page)
	}
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return s, ts
}

func TestNewRequest(t *testing.T) {
	a := NewRequest(GetSelection, "")
	b := NewRequest(GetSelection, "")
	require.NotEmpty(t, a.ID)
	require.NotEqual(t, a.ID, b.ID)
	require.Equal(t, GetSelection, a.Type)
}

func TestLocalPeer(t *testing.T) {
	peer := &LocalPeer{Page: newTestPage(t)}
	ctx := context.Background()

	resp, err := peer.Send(ctx, NewRequest(GetSelection, ""))
	require.NoError(t, err)
	require.Equal(t, "chosen text", resp.Text)
	require.True(t, resp.Success)

	resp, err = peer.Send(ctx, NewRequest(GetPageContext, ""))
	require.NoError(t, err)
	require.NotNil(t, resp.Context)
	require.Equal(t, "Peer Page", resp.Context.Title)
	require.Equal(t, "https://example.com/peer", resp.Context.URL)

	resp, err = peer.Send(ctx, NewRequest(ReplaceInInput, "final"))
	require.NoError(t, err)
	require.True(t, resp.Success)

	_, err = peer.Send(ctx, Request{ID: "1", Type: "NOPE"})
	require.ErrorIs(t, err, ErrUnknownMessage)

	_, err = (&LocalPeer{}).Send(ctx, NewRequest(GetSelection, ""))
	require.ErrorIs(t, err, ErrPeerUnreachable)
}

type failingPeer struct{}

func (failingPeer) Send(ctx context.Context, req Request) (Response, error) {
	return Response{}, errors.New("connection refused")
}

func TestRelay(t *testing.T) {
	ctx := context.Background()
	logger := discardLogger()

	resp := Relay(ctx, logger, failingPeer{}, NewRequest(GetPageContent, ""))
	require.True(t, resp.Unavailable())
	require.Empty(t, resp.Text)

	resp = Relay(ctx, logger, nil, NewRequest(GetSelection, ""))
	require.True(t, resp.Unavailable())

	resp = Relay(ctx, logger, &LocalPeer{Page: newTestPage(t)}, NewRequest(GetSelection, ""))
	require.False(t, resp.Unavailable())
	require.Equal(t, "chosen text", resp.Text)
}

func TestServer_Health(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Equal(t, "ok", payload["status"])
	require.Equal(t, false, payload["page"])
}

func TestServer_NoPage(t *testing.T) {
	_, ts := newTestServer(t, nil)
	peer := NewHTTPPeer(ts.URL, 0)

	_, err := peer.Send(context.Background(), NewRequest(GetSelection, ""))
	require.ErrorIs(t, err, ErrPeerUnreachable)

	_, err = peer.Tab(context.Background())
	require.ErrorIs(t, err, ErrPeerUnreachable)

	resp := Relay(context.Background(), discardLogger(), peer, NewRequest(GetPageContent, ""))
	require.True(t, resp.Unavailable())
}

func TestHTTPPeer_Messages(t *testing.T) {
	page := newTestPage(t)
	_, ts := newTestServer(t, page)
	peer := NewHTTPPeer(ts.URL+"/", 0)
	ctx := context.Background()

	tab, err := peer.Tab(ctx)
	require.NoError(t, err)
	require.Equal(t, "Peer Page", tab.Title)

	req := NewRequest(GetPageContent, "")
	resp, err := peer.Send(ctx, req)
	require.NoError(t, err)
	require.Equal(t, req.ID, resp.ID)
	require.Contains(t, resp.Text, "long enough to be counted")
	require.False(t, resp.Unavailable())

	resp, err = peer.Send(ctx, NewRequest(ReplaceInInput, "replaced"))
	require.NoError(t, err)
	require.True(t, resp.Success)
	html, err := page.HTML()
	require.NoError(t, err)
	require.Contains(t, html, ">replaced</textarea>")

	_, err = peer.Send(ctx, Request{ID: "x", Type: "BOGUS"})
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrPeerUnreachable)
	require.Contains(t, err.Error(), "400")
}

func TestServer_LoadTab(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><head><title>Fetched Page</title></head><body><p>x</p></body></html>"))
	}))
	defer remote.Close()

	s, ts := newTestServer(t, nil)
	peer := NewHTTPPeer(ts.URL, 0)
	ctx := context.Background()

	tab, err := peer.LoadPage(ctx, LoadRequest{URL: remote.URL, Selection: "picked"})
	require.NoError(t, err)
	require.Equal(t, "Fetched Page", tab.Title)
	require.Equal(t, "picked", s.Page().ExtractSelection())

	tab, err = peer.LoadPage(ctx, LoadRequest{HTML: testPage, URL: "https://example.com/raw"})
	require.NoError(t, err)
	require.Equal(t, "https://example.com/raw", tab.URL)

	current := s.Page()
	_, err = peer.LoadPage(ctx, LoadRequest{Selection: "new selection"})
	require.NoError(t, err)
	require.Same(t, current, s.Page())
	require.Equal(t, "new selection", current.ExtractSelection())
}

func TestServer_LoadTabErrors(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Post(ts.URL+"/tab", "application/json", bytes.NewBufferString(`{}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Post(ts.URL+"/tab", "application/json", bytes.NewBufferString(`not json`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandle_Article(t *testing.T) {
	para := "<p>" + strings.Repeat("Readers want the article body without the chrome around it. ", 8) + "</p>"
	html := `<html><head><title>Reader</title></head><body><nav>Home About</nav><article>` +
		para + para + para + `</article><footer>Copyright</footer></body></html>`
	page, err := extractor.ParseHTML(strings.NewReader(html), "https://example.com/reader")
	require.NoError(t, err)

	resp, err := Handle(page, NewRequest(GetArticle, ""))
	require.NoError(t, err)
	require.NotNil(t, resp.Article)
	require.Contains(t, resp.Article.Text, "Readers want the article body")
	require.NotContains(t, resp.Article.Text, "Copyright")
}
