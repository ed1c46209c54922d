package common

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dtnitsch/pageclarity/models"
)

func TestSanitizeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "  https://example.com/a  ", want: "https://example.com/a"},
		{in: "[docs](https://example.com/docs)", want: "https://example.com/docs"},
		{in: "https://example.com/page,", want: "https://example.com/page"},
		{in: "<https://example.com>", want: "https://example.com"},
	}
	for _, tt := range tests {
		if got := SanitizeURL(tt.in); got != tt.want {
			t.Errorf("SanitizeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidatePageURL(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{in: "https://example.com/post", wantErr: false},
		{in: "http://localhost:8080/x", wantErr: false},
		{in: "ftp://example.com", wantErr: true},
		{in: "https://", wantErr: true},
		{in: "https://exa mple.com", wantErr: true},
	}
	for _, tt := range tests {
		_, err := ValidatePageURL(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePageURL(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}

func TestLoadPage_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	html := "<html><head><title>Local</title></head><body><article>Local body</article></body></html>"
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		t.Fatal(err)
	}

	page, err := LoadPage(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadPage() error = %v", err)
	}
	if page.Title() != "Local" || page.ExtractPageContent() != "Local body" {
		t.Errorf("page = %q / %q", page.Title(), page.ExtractPageContent())
	}
	if !strings.HasPrefix(page.URL(), "file://") {
		t.Errorf("URL = %q", page.URL())
	}

	if _, err := LoadPage(context.Background(), filepath.Join(t.TempDir(), "missing.html")); err == nil {
		t.Error("LoadPage() expected error for missing file")
	}
}

func TestRuntimeRender(t *testing.T) {
	tests := []struct {
		format  string
		want    string
		wantErr bool
	}{
		{format: "", want: "Done"},
		{format: "text", want: "Done"},
		{format: "html", want: "<strong>Done</strong>"},
		{format: "pdf", wantErr: true},
	}
	for _, tt := range tests {
		rt := &Runtime{Config: models.Config{Render: models.RenderConfig{Format: tt.format}}}
		got, err := rt.Render("**Done**")
		if (err != nil) != tt.wantErr {
			t.Errorf("Render(%q) error = %v", tt.format, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Render(%q) = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestRuntimeTab(t *testing.T) {
	rt := &Runtime{tab: models.Tab{Title: "From Flags"}}
	if got := rt.Tab(context.Background()); got.Title != "From Flags" {
		t.Errorf("Tab() = %+v", got)
	}
}
