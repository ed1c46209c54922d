package models

import (
	"fmt"
	"strings"
)

// Capability names one of the text-AI operations the dispatcher can run.
type Capability string

const (
	CapabilitySummarize Capability = "summarize"
	CapabilityRewrite   Capability = "rewrite"
	CapabilityTranslate Capability = "translate"
	CapabilityProofread Capability = "proofread"
	CapabilityAsk       Capability = "ask"
)

// Capabilities lists every capability in display order.
var Capabilities = []Capability{
	CapabilitySummarize,
	CapabilityRewrite,
	CapabilityTranslate,
	CapabilityProofread,
	CapabilityAsk,
}

// ParseCapability resolves a capability name, case-insensitively.
func ParseCapability(name string) (Capability, error) {
	c := Capability(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Capabilities {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown capability: %q", name)
}

// Option keys understood by the dispatcher.
const (
	OptionStyle  = "style"  // rewrite: plain | friendly | shorter
	OptionTarget = "target" // translate: target language code
	OptionSource = "source" // translate: source language code, detected when empty
)

// CapabilityRequest is built by the surface and consumed once by the dispatcher.
type CapabilityRequest struct {
	Capability Capability        `json:"capability"`
	Input      string            `json:"input"`
	Options    map[string]string `json:"options,omitempty"`

	// Context grounds the ask capability. Ignored by the others.
	Context *PageContext `json:"context,omitempty"`
}

// Option returns the named option, or fallback when it is unset or blank.
func (r CapabilityRequest) Option(key, fallback string) string {
	if v := strings.TrimSpace(r.Options[key]); v != "" {
		return v
	}
	return fallback
}

// Tier identifies which backend produced a result.
type Tier int

const (
	TierOnDevice Tier = iota
	TierRemote
	TierFallback
)

func (t Tier) String() string {
	switch t {
	case TierOnDevice:
		return "on-device"
	case TierRemote:
		return "remote"
	case TierFallback:
		return "fallback"
	}
	return fmt.Sprintf("tier(%d)", int(t))
}

// Tag is the provenance prefix embedded in result text.
func (t Tier) Tag() string {
	switch t {
	case TierOnDevice:
		return "[On-Device]"
	case TierRemote:
		return "[Remote API]"
	default:
		return "[DEMO MODE]"
	}
}

// CapabilityResult is the single displayable outcome of a dispatch.
// Text always starts with Tier.Tag().
type CapabilityResult struct {
	Text string `json:"text"`
	Tier Tier   `json:"tier"`
}
