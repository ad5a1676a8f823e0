// Package plugin wires the Celery worker overrides into a hook registry.
package plugin

import (
	"sort"

	"github.com/fentz26/celery-worker-patch/internal/hooks"
	"github.com/fentz26/celery-worker-patch/internal/settings"
	"github.com/fentz26/celery-worker-patch/internal/worker"
	"github.com/sirupsen/logrus"
)

// Name is the plugin's registration name.
const Name = "celery-worker-patch"

// Plugin contributes the configuration defaults, the config-loaded action
// and both worker command filters.
type Plugin struct {
	store *settings.Store
	log   logrus.FieldLogger
}

// New creates a plugin backed by store. A nil store gets a fresh one.
func New(store *settings.Store, log logrus.FieldLogger) *Plugin {
	if store == nil {
		store = settings.NewStore()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Plugin{store: store, log: log.WithField("plugin", Name)}
}

// Name implements hooks.Plugin.
func (p *Plugin) Name() string { return Name }

// Store returns the runtime configuration store the plugin reads from.
func (p *Plugin) Store() *settings.Store { return p.store }

// Install implements hooks.Plugin.
func (p *Plugin) Install(r *hooks.Registry) error {
	if err := r.AddDefaults(defaultItems()...); err != nil {
		return err
	}

	if err := r.AddAction(hooks.ConfigLoaded, Name, hooks.ActionFunc(p.onConfigLoaded)); err != nil {
		return err
	}

	filters := map[hooks.Point]worker.Role{
		hooks.LMSWorkerCommand: worker.RoleLMS,
		hooks.CMSWorkerCommand: worker.RoleCMS,
	}
	for point, role := range filters {
		f := &worker.CommandFilter{Role: role, Source: p.store, Log: p.log}
		if err := r.AddFilter(point, Name, f); err != nil {
			return err
		}
	}
	return nil
}

func (p *Plugin) onConfigLoaded(config map[string]any) {
	p.store.OnConfigLoaded(config)
	p.log.WithField("keys", len(config)).Debug("Stored loaded configuration")
}

func defaultItems() []hooks.Default {
	defaults := settings.Defaults()
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	items := make([]hooks.Default, 0, len(keys))
	for _, k := range keys {
		items = append(items, hooks.Default{Key: k, Value: defaults[k]})
	}
	return items
}
