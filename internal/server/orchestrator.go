// Package server sequences the startup and shutdown of cadenza's long-lived
// components.
//
// Startup order is a correctness requirement, not a preference: backends are
// handed the live audio engine, the core is handed the engine plus every
// started backend, and frontends are handed the core. Shutdown is the exact
// reverse and is guaranteed to run on every exit path, including component
// start failures and external interruption.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"cadenza/internal/audio"
	"cadenza/internal/component"
	"cadenza/internal/config"
	"cadenza/internal/core"
	"cadenza/internal/logging"
	"cadenza/internal/process"
	"cadenza/internal/registry"
)

const (
	audioClass = "audio"
	coreClass  = "core"
)

// Stages supplies the audio and core stage factories. The default wiring
// starts the real engine and coordinator; tests substitute recorders.
type Stages struct {
	StartAudio func(cfg *config.Config) (*audio.Engine, func() error, error)
	StartCore  func(engine *audio.Engine, backends []core.Backend) (*core.Coordinator, func() error, error)
}

func defaultStages() Stages {
	return Stages{
		StartAudio: func(cfg *config.Config) (*audio.Engine, func() error, error) {
			engine, err := audio.StartEngine(audio.Settings{
				Output: cfg.Audio.Output,
				Device: cfg.Audio.Device,
				Volume: cfg.Playback.Volume,
			})
			if err != nil {
				return nil, nil, err
			}
			return engine, engine.Close, nil
		},
		StartCore: func(engine *audio.Engine, backends []core.Backend) (*core.Coordinator, func() error, error) {
			coord, err := core.StartCoordinator(engine, backends)
			if err != nil {
				return nil, nil, err
			}
			return coord, coord.Close, nil
		},
	}
}

// Orchestrator owns the staged component lifecycle for the root command.
type Orchestrator struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *registry.Registry
	tracker  *process.Tracker
	stages   Stages
}

// New constructs an orchestrator over the given component registry.
func New(cfg *config.Config, logger *slog.Logger, reg *registry.Registry) *Orchestrator {
	return NewWithStages(cfg, logger, reg, defaultStages())
}

// NewWithStages constructs an orchestrator with custom audio and core stage
// factories (used in tests).
func NewWithStages(cfg *config.Config, logger *slog.Logger, reg *registry.Registry, stages Stages) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	if stages.StartAudio == nil || stages.StartCore == nil {
		defaults := defaultStages()
		if stages.StartAudio == nil {
			stages.StartAudio = defaults.StartAudio
		}
		if stages.StartCore == nil {
			stages.StartCore = defaults.StartCore
		}
	}
	return &Orchestrator{
		cfg:      cfg,
		logger:   logger,
		registry: reg,
		tracker:  process.NewTracker(),
		stages:   stages,
	}
}

// Live returns the number of live component handles.
func (o *Orchestrator) Live() int {
	return o.tracker.Live()
}

// Run starts every component in dependency order, blocks until ctx is
// canceled, and tears everything down in reverse order. Component start
// failures are logged with the failing class identity and reported as the
// returned error; interruption returns nil. Teardown runs in full on every
// path.
func (o *Orchestrator) Run(ctx context.Context) error {
	if err := o.cfg.EnsureDirectories(); err != nil {
		return err
	}

	lock := flock.New(filepath.Join(o.cfg.Paths.LogDir, "cadenza.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return errors.New("another cadenza instance is already running")
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			o.logger.Warn("failed to release instance lock", logging.Error(err))
		}
	}()

	backendClasses := o.registry.Backends()
	frontendClasses := o.registry.Frontends()

	defer func() {
		o.stopFrontends(frontendClasses)
		o.stopCore()
		o.stopBackends(backendClasses)
		o.stopAudio()
		if err := o.tracker.StopRemaining(); err != nil {
			o.logger.Warn("residual component cleanup reported failures", logging.Error(err))
		}
	}()

	if err := o.up(ctx, backendClasses, frontendClasses); err != nil {
		o.logger.Error("component initialization failed", logging.Error(err))
		o.logger.Info("Initialization error. Exiting...")
		return err
	}

	o.logger.Info("cadenza running",
		logging.Int("backends", len(backendClasses)),
		logging.Int("frontends", len(frontendClasses)),
	)
	<-ctx.Done()
	o.logger.Info("Interrupted. Exiting...")
	return nil
}

// up walks the four startup stages. The first failure aborts the remaining
// stages; the caller's deferred shutdown releases whatever did start.
func (o *Orchestrator) up(ctx context.Context, backendClasses []registry.BackendClass, frontendClasses []registry.FrontendClass) error {
	engine, err := o.startAudio()
	if err != nil {
		return err
	}
	backends, err := o.startBackends(ctx, backendClasses, engine)
	if err != nil {
		return err
	}
	coord, err := o.startCore(engine, backends)
	if err != nil {
		return err
	}
	return o.startFrontends(ctx, frontendClasses, coord)
}

func (o *Orchestrator) startAudio() (*audio.Engine, error) {
	o.logger.Info("starting audio engine", logging.Component(audioClass))
	engine, stop, err := o.stages.StartAudio(o.cfg)
	if err != nil {
		o.logger.Error("audio initialization error",
			logging.Component(audioClass),
			logging.Error(err),
		)
		return nil, component.Wrap(component.ErrAudio, audioClass, err)
	}
	o.tracker.Track(component.NewHandle(component.KindAudio, audioClass, stop))
	return engine, nil
}

func (o *Orchestrator) startBackends(ctx context.Context, classes []registry.BackendClass, engine *audio.Engine) ([]core.Backend, error) {
	names := make([]string, 0, len(classes))
	for _, class := range classes {
		names = append(names, class.Name)
	}
	o.logger.Info("starting backends", logging.String("classes", joinNames(names)))

	backends := make([]core.Backend, 0, len(classes))
	for _, class := range classes {
		backend, err := class.Start(ctx, o.cfg, engine)
		if err != nil {
			o.logger.Error("backend initialization error",
				logging.Component(class.Name),
				logging.Error(err),
			)
			return nil, component.Wrap(component.ErrBackend, class.Name, err)
		}
		o.tracker.Track(component.NewHandle(component.KindBackend, class.Name, backend.Close))
		backends = append(backends, backend)
	}
	return backends, nil
}

func (o *Orchestrator) startCore(engine *audio.Engine, backends []core.Backend) (*core.Coordinator, error) {
	o.logger.Info("starting core", logging.Component(coreClass))
	coord, stop, err := o.stages.StartCore(engine, backends)
	if err != nil {
		o.logger.Error("core initialization error",
			logging.Component(coreClass),
			logging.Error(err),
		)
		return nil, component.Wrap(component.ErrCore, coreClass, err)
	}
	o.tracker.Track(component.NewHandle(component.KindCore, coreClass, stop))
	return coord, nil
}

func (o *Orchestrator) startFrontends(ctx context.Context, classes []registry.FrontendClass, coord *core.Coordinator) error {
	names := make([]string, 0, len(classes))
	for _, class := range classes {
		names = append(names, class.Name)
	}
	o.logger.Info("starting frontends", logging.String("classes", joinNames(names)))

	for _, class := range classes {
		frontend, err := class.Start(ctx, o.cfg, coord)
		if err != nil {
			o.logger.Error("frontend initialization error",
				logging.Component(class.Name),
				logging.Error(err),
			)
			return component.Wrap(component.ErrFrontend, class.Name, err)
		}
		o.tracker.Track(component.NewHandle(component.KindFrontend, class.Name, frontend.Close))
	}
	return nil
}

// Stop steps are each best-effort: a failing or absent component never
// prevents the remaining steps from running.

func (o *Orchestrator) stopFrontends(classes []registry.FrontendClass) {
	o.logger.Info("stopping frontends")
	for i := len(classes) - 1; i >= 0; i-- {
		class := classes[i]
		if err := o.tracker.StopByClass(class.Name); err != nil {
			o.logger.Warn("frontend stop reported failure",
				logging.Component(class.Name),
				logging.Error(err),
			)
		}
	}
}

func (o *Orchestrator) stopCore() {
	o.logger.Info("stopping core")
	if err := o.tracker.StopByClass(coreClass); err != nil {
		o.logger.Warn("core stop reported failure", logging.Error(err))
	}
}

func (o *Orchestrator) stopBackends(classes []registry.BackendClass) {
	o.logger.Info("stopping backends")
	for i := len(classes) - 1; i >= 0; i-- {
		class := classes[i]
		if err := o.tracker.StopByClass(class.Name); err != nil {
			o.logger.Warn("backend stop reported failure",
				logging.Component(class.Name),
				logging.Error(err),
			)
		}
	}
}

func (o *Orchestrator) stopAudio() {
	o.logger.Info("stopping audio engine")
	if err := o.tracker.StopByClass(audioClass); err != nil {
		o.logger.Warn("audio stop reported failure", logging.Error(err))
	}
}

func joinNames(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}
