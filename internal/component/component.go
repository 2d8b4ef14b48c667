// Package component defines the shared model for cadenza's long-lived
// service components: the audio engine, backends, the core coordinator, and
// frontends.
package component

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Kind identifies a component layer.
type Kind string

const (
	KindAudio    Kind = "audio"
	KindBackend  Kind = "backend"
	KindCore     Kind = "core"
	KindFrontend Kind = "frontend"
)

// Sentinel errors per component layer. Start failures are wrapped with the
// matching sentinel so the orchestrator can classify them with errors.Is.
var (
	ErrAudio    = errors.New("audio error")
	ErrBackend  = errors.New("backend error")
	ErrCore     = errors.New("core error")
	ErrFrontend = errors.New("frontend error")
)

// Wrap tags a start failure with its layer sentinel and the failing class
// identity.
func Wrap(sentinel error, class string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", sentinel, class)
	}
	return fmt.Errorf("%w: %s: %w", sentinel, class, err)
}

// IsStartError reports whether err belongs to any component layer.
func IsStartError(err error) bool {
	return errors.Is(err, ErrAudio) ||
		errors.Is(err, ErrBackend) ||
		errors.Is(err, ErrCore) ||
		errors.Is(err, ErrFrontend)
}

// Handle is the opaque reference the orchestrator holds for a started
// component. The orchestrator never inspects component internals; it only
// passes handles forward and calls Stop during teardown.
type Handle struct {
	// ID uniquely identifies this live instance.
	ID string
	// Class is the component's registered class name, the identity used by
	// stop-by-class teardown.
	Class string
	Kind  Kind

	stop func() error
}

// NewHandle builds a handle for a started component. stop may be nil for
// components with no teardown work.
func NewHandle(kind Kind, class string, stop func() error) *Handle {
	return &Handle{
		ID:    uuid.NewString(),
		Class: class,
		Kind:  kind,
		stop:  stop,
	}
}

// Stop releases the component. It is safe to call on a handle with no stop
// behavior.
func (h *Handle) Stop() error {
	if h == nil || h.stop == nil {
		return nil
	}
	return h.stop()
}
