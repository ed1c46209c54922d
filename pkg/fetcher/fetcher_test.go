package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestGetHtml(t *testing.T) {
	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte("<html><head><title>Fetched</title></head><body><p>hi</p></body></html>"))
	}))
	defer server.Close()

	doc, err := NewFetcher().GetHtml(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("GetHtml() error = %v", err)
	}
	if got := doc.Find("title").Text(); got != "Fetched" {
		t.Errorf("title = %q", got)
	}
	if !strings.HasPrefix(gotAgent, "pageclarity/") {
		t.Errorf("User-Agent = %q", gotAgent)
	}
}

func TestGetHtmlBytes_Status(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := NewFetcher().GetHtmlBytes(context.Background(), server.URL)
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("GetHtmlBytes() error = %v, want status 404", err)
	}
}

func TestGetHtmlBytes_Canceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewFetcher().GetHtmlBytes(ctx, server.URL); err == nil {
		t.Error("GetHtmlBytes() expected error for canceled context")
	}
}

func TestNewFetcherWithClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	f := NewFetcherWithClient(&http.Client{Timeout: 20 * time.Millisecond})
	if _, err := f.GetHtmlBytes(context.Background(), server.URL); err == nil {
		t.Error("GetHtmlBytes() expected timeout from the supplied client")
	}

	f = NewFetcherWithClient(server.Client())
	body, err := f.GetHtmlBytes(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("GetHtmlBytes() error = %v", err)
	}
	if string(body) != "<html></html>" {
		t.Errorf("body = %q", body)
	}
}
