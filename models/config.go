// Package models defines data structures for configuration, pages and capability requests.
package models

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// PlaceholderAPIKey is the value shipped in example configs. It counts as unset.
const PlaceholderAPIKey = "YOUR_GEMINI_API_KEY_HERE"

const (
	DefaultConfigPath     = "pageclarity.yaml"
	DefaultRemoteEndpoint = "https://generativelanguage.googleapis.com/v1/models/gemini-2.5-pro:generateContent"
	DefaultOnDeviceURL    = "http://localhost:11434"
	DefaultPeerURL        = "http://localhost:7777"
	DefaultPeerListen     = "localhost:7777"
)

// Config is resolved once at process start and passed explicitly to the
// components that need it.
type Config struct {
	Remote   RemoteConfig   `yaml:"remote"`
	OnDevice OnDeviceConfig `yaml:"on_device"`
	Peer     PeerConfig     `yaml:"peer"`
	Render   RenderConfig   `yaml:"render"`
}

type RemoteConfig struct {
	APIKey   string        `yaml:"api_key"`
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Configured reports whether a usable API key is present.
func (r RemoteConfig) Configured() bool {
	key := strings.TrimSpace(r.APIKey)
	return key != "" && key != PlaceholderAPIKey
}

type OnDeviceConfig struct {
	BaseURL      string `yaml:"base_url"`
	DefaultModel string `yaml:"default_model"`
	// Models maps capability names to a model; capabilities without an entry
	// use DefaultModel.
	Models          map[string]string `yaml:"models"`
	Timeout         time.Duration     `yaml:"timeout"`
	UnloadOnRelease bool              `yaml:"unload_on_release"`
}

// ModelFor returns the model configured for a capability, or "".
func (o OnDeviceConfig) ModelFor(c Capability) string {
	if m := strings.TrimSpace(o.Models[string(c)]); m != "" {
		return m
	}
	return strings.TrimSpace(o.DefaultModel)
}

type PeerConfig struct {
	URL    string `yaml:"url"`
	Listen string `yaml:"listen"`
}

type RenderConfig struct {
	Format string `yaml:"format"` // text | html | terminal
	Style  string `yaml:"style"`  // glamour style for terminal output
	Width  int    `yaml:"width"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Remote: RemoteConfig{
			Endpoint: DefaultRemoteEndpoint,
			Timeout:  60 * time.Second,
		},
		OnDevice: OnDeviceConfig{
			BaseURL: DefaultOnDeviceURL,
			Timeout: 120 * time.Second,
		},
		Peer: PeerConfig{
			URL:    DefaultPeerURL,
			Listen: DefaultPeerListen,
		},
		Render: RenderConfig{
			Format: "text",
			Style:  "dark",
			Width:  80,
		},
	}
}

// LoadConfig reads the YAML file at path over the defaults and applies
// environment overrides. A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg.applyEnv(os.Getenv)
	cfg.fillDefaults()
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("GEMINI_API_KEY"); v != "" {
		c.Remote.APIKey = v
	}
	if v := getenv("PAGECLARITY_REMOTE_ENDPOINT"); v != "" {
		c.Remote.Endpoint = v
	}
	if v := getenv("PAGECLARITY_ON_DEVICE_URL"); v != "" {
		c.OnDevice.BaseURL = v
	}
	if v := getenv("PAGECLARITY_PEER"); v != "" {
		c.Peer.URL = v
	}
}

// fillDefaults restores defaults the file blanked out.
func (c *Config) fillDefaults() {
	def := DefaultConfig()
	if c.Remote.Endpoint == "" {
		c.Remote.Endpoint = def.Remote.Endpoint
	}
	if c.Remote.Timeout <= 0 {
		c.Remote.Timeout = def.Remote.Timeout
	}
	if c.OnDevice.BaseURL == "" {
		c.OnDevice.BaseURL = def.OnDevice.BaseURL
	}
	if c.OnDevice.Timeout <= 0 {
		c.OnDevice.Timeout = def.OnDevice.Timeout
	}
	if c.Peer.URL == "" {
		c.Peer.URL = def.Peer.URL
	}
	if c.Peer.Listen == "" {
		c.Peer.Listen = def.Peer.Listen
	}
	if c.Render.Format == "" {
		c.Render.Format = def.Render.Format
	}
	if c.Render.Style == "" {
		c.Render.Style = def.Render.Style
	}
	if c.Render.Width <= 0 {
		c.Render.Width = def.Render.Width
	}
}
