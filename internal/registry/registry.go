// Package registry holds the ordered sets of backend and frontend component
// classes the orchestrator starts.
//
// Registration order is startup order. Re-registering a class name replaces
// the class but keeps its original position, the same permissive contract the
// command tree uses for sub-command names.
package registry

import (
	"context"

	"cadenza/internal/audio"
	"cadenza/internal/config"
	"cadenza/internal/core"
)

// Frontend is a started frontend instance.
type Frontend interface {
	Close() error
}

// BackendClass describes a backend component: a named factory whose Start
// receives the active configuration and the live audio engine.
type BackendClass struct {
	Name  string
	Start func(ctx context.Context, cfg *config.Config, engine *audio.Engine) (core.Backend, error)
}

// FrontendClass describes a frontend component: a named factory whose Start
// receives the active configuration and the live core coordinator.
type FrontendClass struct {
	Name  string
	Start func(ctx context.Context, cfg *config.Config, coord *core.Coordinator) (Frontend, error)
}

// Registry is the ordered component-class catalog consumed by the
// orchestrator. It is assembled once at startup and read-only afterwards.
type Registry struct {
	backendNames  []string
	backends      map[string]BackendClass
	frontendNames []string
	frontends     map[string]FrontendClass
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		backends:  make(map[string]BackendClass),
		frontends: make(map[string]FrontendClass),
	}
}

// RegisterBackend appends a backend class in startup order.
func (r *Registry) RegisterBackend(class BackendClass) {
	if _, exists := r.backends[class.Name]; !exists {
		r.backendNames = append(r.backendNames, class.Name)
	}
	r.backends[class.Name] = class
}

// RegisterFrontend appends a frontend class in startup order.
func (r *Registry) RegisterFrontend(class FrontendClass) {
	if _, exists := r.frontends[class.Name]; !exists {
		r.frontendNames = append(r.frontendNames, class.Name)
	}
	r.frontends[class.Name] = class
}

// Backends returns the backend classes in registration order.
func (r *Registry) Backends() []BackendClass {
	out := make([]BackendClass, 0, len(r.backendNames))
	for _, name := range r.backendNames {
		out = append(out, r.backends[name])
	}
	return out
}

// Frontends returns the frontend classes in registration order.
func (r *Registry) Frontends() []FrontendClass {
	out := make([]FrontendClass, 0, len(r.frontendNames))
	for _, name := range r.frontendNames {
		out = append(out, r.frontends[name])
	}
	return out
}
