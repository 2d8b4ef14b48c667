// Package audio implements the audio engine: sink selection and the mixer
// every other component plays through.
package audio

import (
	"fmt"
	"sync"
)

// State describes what the engine is currently doing.
type State string

const (
	StateStopped State = "stopped"
	StatePlaying State = "playing"
)

var supportedOutputs = map[string]struct{}{
	"auto":  {},
	"pulse": {},
	"alsa":  {},
	"null":  {},
}

// Engine is the audio component handle. It owns the mixer volume and the
// current output sink; backends and the core treat it as opaque.
type Engine struct {
	output string
	device string

	mu      sync.Mutex
	volume  int
	state   State
	current string
	closed  bool
}

// Settings configures engine startup.
type Settings struct {
	Output string
	Device string
	Volume int
}

// StartEngine brings up the audio engine with the given sink and initial
// mixer volume.
func StartEngine(settings Settings) (*Engine, error) {
	if _, ok := supportedOutputs[settings.Output]; !ok {
		return nil, fmt.Errorf("unsupported audio output %q", settings.Output)
	}
	if settings.Volume < 0 || settings.Volume > 100 {
		return nil, fmt.Errorf("mixer volume %d outside 0-100", settings.Volume)
	}
	return &Engine{
		output: settings.Output,
		device: settings.Device,
		volume: settings.Volume,
		state:  StateStopped,
	}, nil
}

// Output returns the active sink name.
func (e *Engine) Output() string {
	return e.output
}

// Volume returns the current mixer volume.
func (e *Engine) Volume() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume
}

// SetVolume adjusts the mixer volume.
func (e *Engine) SetVolume(volume int) error {
	if volume < 0 || volume > 100 {
		return fmt.Errorf("mixer volume %d outside 0-100", volume)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return fmt.Errorf("audio engine is stopped")
	}
	e.volume = volume
	return nil
}

// Play switches the engine to the given stream URI.
func (e *Engine) Play(uri string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return fmt.Errorf("audio engine is stopped")
	}
	e.current = uri
	e.state = StatePlaying
	return nil
}

// StopPlayback halts the current stream without shutting the engine down.
func (e *Engine) StopPlayback() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.current = ""
	e.state = StateStopped
}

// Current returns the engine state and the URI being played, if any.
func (e *Engine) Current() (State, string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state, e.current
}

// Close shuts the engine down. Further playback calls fail.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.current = ""
	e.state = StateStopped
	e.closed = true
	return nil
}
