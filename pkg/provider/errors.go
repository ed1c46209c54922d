package provider

import (
	"errors"
	"fmt"

	"github.com/dtnitsch/pageclarity/models"
)

// Kind classifies a tier failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindCapabilityUnavailable
	KindSession
	KindRemoteConfig
	KindRemoteRequest
)

var kindNames = map[Kind]string{
	KindUnknown:               "unknown",
	KindCapabilityUnavailable: "capability_unavailable",
	KindSession:               "session_error",
	KindRemoteConfig:          "remote_config_error",
	KindRemoteRequest:         "remote_request_error",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Sentinels for errors.Is matching against an *Error of the same kind.
var (
	ErrCapabilityUnavailable = &Error{Kind: KindCapabilityUnavailable}
	ErrSession               = &Error{Kind: KindSession}
	ErrRemoteConfig          = &Error{Kind: KindRemoteConfig}
	ErrRemoteRequest         = &Error{Kind: KindRemoteRequest}
)

// Error is a classified provider failure.
type Error struct {
	Kind       Kind
	Provider   string
	Capability models.Capability
	Err        error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Provider != "" {
		msg = e.Provider + ": " + msg
	}
	if e.Capability != "" {
		msg += " (" + string(e.Capability) + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Errorf builds a classified error; %w in format is honoured.
func Errorf(kind Kind, providerName string, c models.Capability, format string, args ...any) *Error {
	return &Error{Kind: kind, Provider: providerName, Capability: c, Err: fmt.Errorf(format, args...)}
}

// KindOf classifies err. Unclassified errors are reported as session errors,
// since that is where unexpected failures surface.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindSession
}

// Classify returns err as an *Error, wrapping unclassified errors.
func Classify(err error, providerName string, c models.Capability) *Error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}
	return &Error{Kind: KindSession, Provider: providerName, Capability: c, Err: err}
}
