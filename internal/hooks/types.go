package hooks

// Point identifies an extension point.
type Point string

const (
	// ConfigDefaults collects configuration defaults contributed by plugins.
	ConfigDefaults Point = "config:defaults"
	// ConfigLoaded fires once with the fully-loaded configuration.
	ConfigLoaded Point = "config:loaded"
	// LMSWorkerCommand filters the LMS Celery worker command.
	LMSWorkerCommand Point = "lms:worker:command"
	// CMSWorkerCommand filters the CMS Celery worker command.
	CMSWorkerCommand Point = "cms:worker:command"
)

// Filter transforms a command token list.
type Filter interface {
	Transform(commands []string) []string
}

// FilterFunc adapts a plain function to Filter.
type FilterFunc func(commands []string) []string

// Transform calls f.
func (f FilterFunc) Transform(commands []string) []string { return f(commands) }

// Action observes the loaded configuration.
type Action interface {
	Handle(config map[string]any)
}

// ActionFunc adapts a plain function to Action.
type ActionFunc func(config map[string]any)

// Handle calls f.
func (f ActionFunc) Handle(config map[string]any) { f(config) }

// Default is a configuration default contributed by a plugin.
type Default struct {
	Key   string
	Value any
}

// Plugin is implemented by anything that registers handlers.
type Plugin interface {
	Name() string
	Install(r *Registry) error
}

// Handler describes a registered handler for introspection.
type Handler struct {
	Point Point
	Name  string
	Kind  string // "filter" or "action"
}
