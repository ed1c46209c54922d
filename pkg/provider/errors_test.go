package provider

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dtnitsch/pageclarity/models"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "kind only",
			err:      &Error{Kind: KindRemoteConfig},
			expected: "remote_config_error",
		},
		{
			name:     "provider and capability",
			err:      &Error{Kind: KindCapabilityUnavailable, Provider: "on-device", Capability: models.CapabilityRewrite},
			expected: "on-device: capability_unavailable (rewrite)",
		},
		{
			name:     "wrapped cause",
			err:      &Error{Kind: KindRemoteRequest, Provider: "gemini", Err: errors.New("status 500")},
			expected: "gemini: remote_request_error: status 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.expected {
				t.Errorf("expected error message '%s', got '%s'", tt.expected, tt.err.Error())
			}
		})
	}
}

func TestError_IsMatchesKind(t *testing.T) {
	err := fmt.Errorf("tier failed: %w", Errorf(KindRemoteConfig, "gemini", models.CapabilityAsk, "api key not configured"))

	if !errors.Is(err, ErrRemoteConfig) {
		t.Error("errors.Is(err, ErrRemoteConfig) = false")
	}
	if errors.Is(err, ErrRemoteRequest) {
		t.Error("errors.Is(err, ErrRemoteRequest) = true for a config error")
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "nil", err: nil, want: KindUnknown},
		{name: "classified", err: &Error{Kind: KindCapabilityUnavailable}, want: KindCapabilityUnavailable},
		{name: "wrapped classified", err: fmt.Errorf("x: %w", &Error{Kind: KindRemoteRequest}), want: KindRemoteRequest},
		{name: "plain error", err: errors.New("boom"), want: KindSession},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassify_WrapsPlainErrors(t *testing.T) {
	cause := errors.New("connection refused")
	pe := Classify(cause, "on-device", models.CapabilitySummarize)
	if pe.Kind != KindSession {
		t.Errorf("Kind = %v, want session_error", pe.Kind)
	}
	if !errors.Is(pe, cause) {
		t.Error("Classify() lost the cause")
	}
	if Classify(nil, "x", "") != nil {
		t.Error("Classify(nil) != nil")
	}
}
