package component_test

import (
	"errors"
	"strings"
	"testing"

	"cadenza/internal/component"
)

func TestWrapClassifiesByLayer(t *testing.T) {
	cause := errors.New("bind failed")
	err := component.Wrap(component.ErrFrontend, "http", cause)

	if !errors.Is(err, component.ErrFrontend) {
		t.Fatalf("expected frontend sentinel, got %v", err)
	}
	if errors.Is(err, component.ErrBackend) {
		t.Fatal("should not match a different layer")
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause should survive wrapping")
	}
	if !strings.Contains(err.Error(), "http") {
		t.Fatalf("error should name the class, got %q", err)
	}
	if !component.IsStartError(err) {
		t.Fatal("wrapped error should classify as a start error")
	}
	if component.IsStartError(cause) {
		t.Fatal("bare cause should not classify as a start error")
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := component.Wrap(component.ErrAudio, "pulse", nil)
	if !errors.Is(err, component.ErrAudio) {
		t.Fatalf("expected audio sentinel, got %v", err)
	}
	if !strings.Contains(err.Error(), "pulse") {
		t.Fatalf("error should name the class, got %q", err)
	}
}

func TestHandleStop(t *testing.T) {
	stopped := false
	h := component.NewHandle(component.KindBackend, "local", func() error {
		stopped = true
		return nil
	})
	if h.ID == "" {
		t.Fatal("handle should carry an instance ID")
	}
	if err := h.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if !stopped {
		t.Fatal("stop func was not called")
	}

	var nilHandle *component.Handle
	if err := nilHandle.Stop(); err != nil {
		t.Fatalf("nil handle stop: %v", err)
	}
	if err := component.NewHandle(component.KindCore, "core", nil).Stop(); err != nil {
		t.Fatalf("stopless handle: %v", err)
	}
}
