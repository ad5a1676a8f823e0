// Package host drives the plugin the way the deployment tool does: install
// it into a hook registry, layer the configuration sources, fire the
// config-loaded action and run the worker command filters.
package host

import (
	"fmt"

	"github.com/fentz26/celery-worker-patch/internal/hooks"
	"github.com/fentz26/celery-worker-patch/internal/plugin"
	"github.com/fentz26/celery-worker-patch/internal/settings"
	"github.com/fentz26/celery-worker-patch/internal/worker"
	"github.com/sirupsen/logrus"
)

// Recorder keeps a history of loaded configurations and rendered commands.
type Recorder interface {
	ConfigLoaded(config map[string]any) error
	CommandRendered(role string, tokens []string, config map[string]any) error
}

// Options configure Boot.
type Options struct {
	// ConfigFile is a flat YAML config file; empty or missing means none.
	ConfigFile string
	// Assignments are KEY=VALUE overrides applied after the file.
	Assignments []string
	// Plugins are installed after the worker patch plugin.
	Plugins []hooks.Plugin
	Logger   logrus.FieldLogger
	Recorder Recorder
}

// Host owns the registry and the configuration dispatched through it.
type Host struct {
	registry  *hooks.Registry
	plugin    *plugin.Plugin
	defaults  settings.Values
	overrides settings.Values
	config    settings.Values
	recorder  Recorder
	log       logrus.FieldLogger
}

// Boot installs the plugins, loads configuration and dispatches it.
func Boot(opts Options) (*Host, error) {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	reg := hooks.NewRegistry(log)
	p := plugin.New(settings.NewStore(), log)
	if err := reg.Install(p); err != nil {
		return nil, err
	}
	for _, extra := range opts.Plugins {
		if err := reg.Install(extra); err != nil {
			return nil, err
		}
	}

	overrides := settings.Values{}
	if opts.ConfigFile != "" {
		fromFile, err := settings.LoadFile(opts.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		overrides.Merge(fromFile)
		log.WithFields(logrus.Fields{"path": opts.ConfigFile, "keys": len(fromFile)}).Debug("Loaded config file")
	}

	assigned, err := settings.ParseAssignments(opts.Assignments)
	if err != nil {
		return nil, err
	}
	overrides.Merge(assigned)

	defaults := settings.Values(reg.Defaults())
	config := defaults.Clone()
	config.Merge(overrides)

	h := &Host{
		registry:  reg,
		plugin:    p,
		defaults:  defaults,
		overrides: overrides,
		config:    config,
		recorder:  opts.Recorder,
		log:       log,
	}

	reg.Dispatch(hooks.ConfigLoaded, config.Clone())
	if h.recorder != nil {
		if err := h.recorder.ConfigLoaded(config); err != nil {
			log.WithError(err).Warn("Failed to record loaded configuration")
		}
	}
	return h, nil
}

// PointFor returns the filter point of a worker role.
func PointFor(r worker.Role) hooks.Point {
	if r == worker.RoleCMS {
		return hooks.CMSWorkerCommand
	}
	return hooks.LMSWorkerCommand
}

// WorkerCommand runs the role's filter chain over the host's stock command.
func (h *Host) WorkerCommand(r worker.Role) []string {
	tokens := h.registry.ApplyFilter(PointFor(r), worker.HostDefault(r))
	if h.recorder != nil {
		if err := h.recorder.CommandRendered(string(r), tokens, h.config); err != nil {
			h.log.WithError(err).WithField("role", r).Warn("Failed to record rendered command")
		}
	}
	return tokens
}

// Registry returns the hook registry.
func (h *Host) Registry() *hooks.Registry { return h.registry }

// Store returns the plugin's runtime configuration store.
func (h *Host) Store() *settings.Store { return h.plugin.Store() }

// Config returns a copy of the configuration that was dispatched.
func (h *Host) Config() settings.Values { return h.config.Clone() }

// Defaults returns a copy of the defaults contributed by plugins.
func (h *Host) Defaults() settings.Values { return h.defaults.Clone() }

// Overrides returns a copy of the values supplied by the config file and
// assignments.
func (h *Host) Overrides() settings.Values { return h.overrides.Clone() }
