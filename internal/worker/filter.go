package worker

import (
	"github.com/fentz26/celery-worker-patch/internal/settings"
	"github.com/sirupsen/logrus"
)

// CommandFilter replaces a role's worker command with one built from the
// settings in Source. It implements hooks.Filter.
type CommandFilter struct {
	Role   Role
	Source settings.Reader
	Log    logrus.FieldLogger
}

// Transform discards commands and returns a freshly built command.
func (f *CommandFilter) Transform(commands []string) []string {
	opts := ResolveOptions(f.Role, f.Source)
	out := Build(f.Role, opts)
	if f.Log != nil {
		f.Log.WithFields(logrus.Fields{
			"role":     f.Role,
			"replaced": len(commands),
		}).Debug("Overrode worker command")
	}
	return out
}
