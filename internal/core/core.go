// Package core implements the coordinator that sits between backends and
// frontends: a merged library view plus a playback facade over the audio
// engine.
package core

import (
	"context"
	"fmt"
	"sort"

	"cadenza/internal/audio"
)

// Track is one playable item contributed by a backend.
type Track struct {
	URI    string `json:"uri"`
	Title  string `json:"title"`
	Source string `json:"source"`
}

// Backend is the capability the core requires from every started backend.
type Backend interface {
	// Name is the backend's class identity.
	Name() string
	// Tracks lists the playable items the backend currently provides.
	Tracks(ctx context.Context) ([]Track, error)
	// Close releases the backend's resources.
	Close() error
}

// Coordinator aggregates backends over the audio engine. Frontends talk only
// to the coordinator, never to backends or the engine directly.
type Coordinator struct {
	engine   *audio.Engine
	backends []Backend
}

// StartCoordinator brings up the core over a live audio engine and the
// backends that started successfully.
func StartCoordinator(engine *audio.Engine, backends []Backend) (*Coordinator, error) {
	if engine == nil {
		return nil, fmt.Errorf("core requires a live audio engine")
	}
	return &Coordinator{engine: engine, backends: backends}, nil
}

// Library returns the merged track list across all backends, sorted by URI.
func (c *Coordinator) Library(ctx context.Context) ([]Track, error) {
	var merged []Track
	for _, backend := range c.backends {
		tracks, err := backend.Tracks(ctx)
		if err != nil {
			return nil, fmt.Errorf("backend %s: %w", backend.Name(), err)
		}
		merged = append(merged, tracks...)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].URI < merged[j].URI })
	return merged, nil
}

// Play resolves the URI against the library and starts playback.
func (c *Coordinator) Play(ctx context.Context, uri string) error {
	library, err := c.Library(ctx)
	if err != nil {
		return err
	}
	for _, track := range library {
		if track.URI == uri {
			return c.engine.Play(track.URI)
		}
	}
	return fmt.Errorf("unknown track %q", uri)
}

// StopPlayback halts the current stream.
func (c *Coordinator) StopPlayback() {
	c.engine.StopPlayback()
}

// Volume returns the mixer volume.
func (c *Coordinator) Volume() int {
	return c.engine.Volume()
}

// SetVolume adjusts the mixer volume.
func (c *Coordinator) SetVolume(volume int) error {
	return c.engine.SetVolume(volume)
}

// Status summarizes the coordinator for frontends.
type Status struct {
	State    string `json:"state"`
	Track    string `json:"track,omitempty"`
	Volume   int    `json:"volume"`
	Backends int    `json:"backends"`
	Output   string `json:"output"`
}

// Status reports the current playback state.
func (c *Coordinator) Status() Status {
	state, current := c.engine.Current()
	return Status{
		State:    string(state),
		Track:    current,
		Volume:   c.engine.Volume(),
		Backends: len(c.backends),
		Output:   c.engine.Output(),
	}
}

// Close releases the coordinator itself. Backends are stopped separately by
// class identity during orchestrated shutdown.
func (c *Coordinator) Close() error {
	return nil
}
