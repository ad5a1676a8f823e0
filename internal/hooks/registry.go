package hooks

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

type namedFilter struct {
	name   string
	filter Filter
}

type namedAction struct {
	name   string
	action Action
}

// Registry holds the handlers registered against each extension point.
type Registry struct {
	mu       sync.RWMutex
	filters  map[Point][]namedFilter
	actions  map[Point][]namedAction
	defaults []Default
	log      logrus.FieldLogger
}

// NewRegistry creates an empty registry. A nil logger falls back to the
// logrus standard logger.
func NewRegistry(log logrus.FieldLogger) *Registry {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Registry{
		filters: make(map[Point][]namedFilter),
		actions: make(map[Point][]namedAction),
		log:     log,
	}
}

// Install lets a plugin register its handlers.
func (r *Registry) Install(p Plugin) error {
	r.log.WithField("plugin", p.Name()).Debug("Installing plugin")
	if err := p.Install(r); err != nil {
		return fmt.Errorf("installing plugin %s: %w", p.Name(), err)
	}
	return nil
}

// AddFilter appends a named filter to point.
func (r *Registry) AddFilter(point Point, name string, f Filter) error {
	if name == "" {
		return ErrEmptyName
	}
	if f == nil {
		return ErrNilHandler
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.filters[point] {
		if existing.name == name {
			return fmt.Errorf("filter %q on %s: %w", name, point, ErrDuplicateHandler)
		}
	}
	r.filters[point] = append(r.filters[point], namedFilter{name: name, filter: f})
	r.log.WithFields(logrus.Fields{"point": point, "name": name}).Debug("Registered filter")
	return nil
}

// AddAction appends a named action to point.
func (r *Registry) AddAction(point Point, name string, a Action) error {
	if name == "" {
		return ErrEmptyName
	}
	if a == nil {
		return ErrNilHandler
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.actions[point] {
		if existing.name == name {
			return fmt.Errorf("action %q on %s: %w", name, point, ErrDuplicateHandler)
		}
	}
	r.actions[point] = append(r.actions[point], namedAction{name: name, action: a})
	r.log.WithFields(logrus.Fields{"point": point, "name": name}).Debug("Registered action")
	return nil
}

// AddDefaults contributes configuration defaults. Keys must be unique across
// all plugins.
func (r *Registry) AddDefaults(items ...Default) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]bool, len(r.defaults)+len(items))
	for _, d := range r.defaults {
		seen[d.Key] = true
	}
	for _, item := range items {
		if item.Key == "" {
			return fmt.Errorf("default key: %w", ErrEmptyName)
		}
		if seen[item.Key] {
			return fmt.Errorf("%s: %w", item.Key, ErrDuplicateDefault)
		}
		seen[item.Key] = true
	}

	r.defaults = append(r.defaults, items...)
	r.log.WithFields(logrus.Fields{"point": ConfigDefaults, "count": len(items)}).Debug("Registered defaults")
	return nil
}

// Defaults returns the contributed defaults as a mapping.
func (r *Registry) Defaults() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]any, len(r.defaults))
	for _, d := range r.defaults {
		out[d.Key] = d.Value
	}
	return out
}

// ApplyFilter runs every filter on point in registration order, each one
// receiving the previous one's output. The caller's slice is never handed
// to a filter.
func (r *Registry) ApplyFilter(point Point, input []string) []string {
	r.mu.RLock()
	filters := append([]namedFilter(nil), r.filters[point]...)
	r.mu.RUnlock()

	out := append([]string(nil), input...)
	for _, f := range filters {
		out = f.filter.Transform(out)
		r.log.WithFields(logrus.Fields{"point": point, "name": f.name, "tokens": len(out)}).Debug("Applied filter")
	}
	return out
}

// Dispatch invokes every action on point in registration order.
func (r *Registry) Dispatch(point Point, config map[string]any) {
	r.mu.RLock()
	actions := append([]namedAction(nil), r.actions[point]...)
	r.mu.RUnlock()

	for _, a := range actions {
		a.action.Handle(config)
		r.log.WithFields(logrus.Fields{"point": point, "name": a.name}).Debug("Dispatched action")
	}
}

// Handlers returns the handlers registered on point in invocation order.
func (r *Registry) Handlers(point Point) []Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Handler
	for _, a := range r.actions[point] {
		out = append(out, Handler{Point: point, Name: a.name, Kind: "action"})
	}
	for _, f := range r.filters[point] {
		out = append(out, Handler{Point: point, Name: f.name, Kind: "filter"})
	}
	return out
}

// Points returns every point with at least one handler, sorted by name.
func (r *Registry) Points() []Point {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := make(map[Point]bool)
	for p, fs := range r.filters {
		if len(fs) > 0 {
			set[p] = true
		}
	}
	for p, as := range r.actions {
		if len(as) > 0 {
			set[p] = true
		}
	}

	points := make([]Point, 0, len(set))
	for p := range set {
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i] < points[j] })
	return points
}
