// Package provider defines the backends a capability can run against.
//
// Both the on-device runtime and the remote API satisfy AIProvider, so the
// dispatcher can walk them in order without knowing which is which.
package provider

import (
	"context"

	"github.com/dtnitsch/pageclarity/models"
)

// Registry is a capability-gated session factory.
type Registry interface {
	// Probe reports whether the capability is currently exposed. It is
	// evaluated fresh on every call.
	Probe(ctx context.Context, c models.Capability) bool

	// CreateSession acquires a session configured for one capability.
	// Callers must Close it.
	CreateSession(ctx context.Context, c models.Capability, opts SessionOptions) (Session, error)
}

// AIProvider is a Registry that knows its name and the tier it serves.
type AIProvider interface {
	Registry
	Name() string
	Tier() models.Tier
}

// Session is a scoped resource with a single primary operation.
type Session interface {
	Run(ctx context.Context, input string) (string, error)
	Close() error
}

// SessionOptions carries capability-specific parameters. Zero values mean
// "not set".
type SessionOptions struct {
	// summarize
	Type   string // tl;dr
	Format string // markdown | plain
	Length string // medium | shorter

	// rewrite
	Tone string // neutral | casual

	// translate
	SourceLanguage string
	TargetLanguage string

	// ask
	Temperature float64
	TopK        int
}
