package worker

import (
	"fmt"

	"github.com/fentz26/celery-worker-patch/internal/settings"
)

// TokenCount is the length of every command Build produces.
const TokenCount = 11

// Options are the tunable parts of a worker command. Values are kept as the
// configuration supplied them and formatted only when the command is built.
type Options struct {
	Concurrency        any
	MaxTasksPerChild   any
	PrefetchMultiplier any
	Queues             any
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions(r Role) Options {
	return Options{
		Concurrency:        settings.DefaultConcurrency,
		MaxTasksPerChild:   settings.DefaultMaxTasksPerChild,
		PrefetchMultiplier: settings.DefaultPrefetchMultiplier,
		Queues:             ProfileFor(r).DefaultQueues,
	}
}

// ResolveOptions reads the role's settings from src, falling back to the
// defaults for anything absent.
func ResolveOptions(r Role, src settings.Reader) Options {
	p := ProfileFor(r)
	d := DefaultOptions(r)
	return Options{
		Concurrency:        src.Lookup(p.ConcurrencyKey, d.Concurrency),
		MaxTasksPerChild:   src.Lookup(p.MaxTasksPerChildKey, d.MaxTasksPerChild),
		PrefetchMultiplier: src.Lookup(p.PrefetchMultiplierKey, d.PrefetchMultiplier),
		Queues:             src.Lookup(p.QueuesKey, d.Queues),
	}
}

// Build renders the worker command for r. Values are not validated; a bad
// value surfaces when the process supervisor runs the command.
func Build(r Role, opts Options) []string {
	p := ProfileFor(r)
	return []string{
		"celery",
		"--app=" + p.App,
		"worker",
		"--loglevel=info",
		fmt.Sprintf("--concurrency=%s", settings.FormatValue(opts.Concurrency)),
		"--hostname=" + p.Hostname,
		fmt.Sprintf("--queues=%s", settings.FormatValue(opts.Queues)),
		fmt.Sprintf("--max-tasks-per-child=%s", settings.FormatValue(opts.MaxTasksPerChild)),
		fmt.Sprintf("--prefetch-multiplier=%s", settings.FormatValue(opts.PrefetchMultiplier)),
		"--without-gossip",
		"--without-mingle",
	}
}

// HostDefault is the stock command the host would launch for r when no
// plugin overrides it.
func HostDefault(r Role) []string {
	p := ProfileFor(r)
	other := RoleCMS
	if r == RoleCMS {
		other = RoleLMS
	}
	return []string{
		"celery",
		"--app=" + p.App,
		"worker",
		"--loglevel=info",
		"--hostname=" + p.Hostname,
		"--max-tasks-per-child=100",
		"--exclude-queues=edx." + string(other) + ".core.default",
	}
}
