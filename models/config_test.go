package models

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pageclarity.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Remote.Endpoint != DefaultRemoteEndpoint {
		t.Errorf("Endpoint = %q, want %q", cfg.Remote.Endpoint, DefaultRemoteEndpoint)
	}
	if cfg.OnDevice.BaseURL != DefaultOnDeviceURL {
		t.Errorf("BaseURL = %q, want %q", cfg.OnDevice.BaseURL, DefaultOnDeviceURL)
	}
	if cfg.Remote.Configured() {
		t.Error("Remote.Configured() = true with no key")
	}
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
remote:
  api_key: from-file
  timeout: 5s
on_device:
  default_model: llama3.2
  models:
    translate: aya
render:
  format: html
`)
	t.Setenv("GEMINI_API_KEY", "from-env")
	t.Setenv("PAGECLARITY_PEER", "http://peer:9000")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Remote.APIKey != "from-env" {
		t.Errorf("APIKey = %q, want env override", cfg.Remote.APIKey)
	}
	if cfg.Remote.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Remote.Timeout)
	}
	if cfg.Remote.Endpoint != DefaultRemoteEndpoint {
		t.Errorf("Endpoint = %q, want default", cfg.Remote.Endpoint)
	}
	if cfg.Peer.URL != "http://peer:9000" {
		t.Errorf("Peer.URL = %q", cfg.Peer.URL)
	}
	if cfg.Render.Format != "html" || cfg.Render.Width != 80 {
		t.Errorf("Render = %+v", cfg.Render)
	}
	if got := cfg.OnDevice.ModelFor(CapabilityTranslate); got != "aya" {
		t.Errorf("ModelFor(translate) = %q, want aya", got)
	}
	if got := cfg.OnDevice.ModelFor(CapabilitySummarize); got != "llama3.2" {
		t.Errorf("ModelFor(summarize) = %q, want llama3.2", got)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "remote: [unterminated")
	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() expected error for invalid YAML")
	}
}

func TestRemoteConfig_Configured(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want bool
	}{
		{name: "empty", key: "", want: false},
		{name: "whitespace", key: "   ", want: false},
		{name: "placeholder", key: PlaceholderAPIKey, want: false},
		{name: "real key", key: "AIza-test", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (RemoteConfig{APIKey: tt.key}).Configured(); got != tt.want {
				t.Errorf("Configured() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseCapability(t *testing.T) {
	tests := []struct {
		in      string
		want    Capability
		wantErr bool
	}{
		{in: "summarize", want: CapabilitySummarize},
		{in: " Rewrite ", want: CapabilityRewrite},
		{in: "ASK", want: CapabilityAsk},
		{in: "chat", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCapability(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCapability() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseCapability() = %q, want %q", got, tt.want)
			}
		})
	}
}
