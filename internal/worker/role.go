// Package worker builds the Celery worker launch commands for the LMS and
// CMS roles.
package worker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fentz26/celery-worker-patch/internal/settings"
)

// ErrUnknownRole is returned by ParseRole for anything but lms or cms.
var ErrUnknownRole = errors.New("unknown worker role")

// Role is a worker flavour of the platform.
type Role string

const (
	RoleLMS Role = "lms"
	RoleCMS Role = "cms"
)

// Roles lists every role in display order.
func Roles() []Role {
	return []Role{RoleLMS, RoleCMS}
}

// ParseRole parses a role name case-insensitively.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleLMS:
		return RoleLMS, nil
	case RoleCMS:
		return RoleCMS, nil
	}
	return "", fmt.Errorf("%q: %w (want lms or cms)", s, ErrUnknownRole)
}

// Profile is the fixed, per-role part of a worker command together with the
// settings keys that parameterize the rest.
type Profile struct {
	App           string
	Hostname      string
	DefaultQueues string

	ConcurrencyKey        string
	MaxTasksPerChildKey   string
	PrefetchMultiplierKey string
	QueuesKey             string
}

var profiles = map[Role]Profile{
	RoleLMS: {
		App:                   "lms.celery",
		Hostname:              "edx.lms.core.default.%h",
		DefaultQueues:         settings.DefaultLMSQueues,
		ConcurrencyKey:        settings.KeyLMSConcurrency,
		MaxTasksPerChildKey:   settings.KeyLMSMaxTasksPerChild,
		PrefetchMultiplierKey: settings.KeyLMSPrefetchMultiplier,
		QueuesKey:             settings.KeyLMSQueues,
	},
	RoleCMS: {
		App:                   "cms.celery",
		Hostname:              "edx.cms.core.default.%h",
		DefaultQueues:         settings.DefaultCMSQueues,
		ConcurrencyKey:        settings.KeyCMSConcurrency,
		MaxTasksPerChildKey:   settings.KeyCMSMaxTasksPerChild,
		PrefetchMultiplierKey: settings.KeyCMSPrefetchMultiplier,
		QueuesKey:             settings.KeyCMSQueues,
	},
}

// ProfileFor returns the profile of r. Unknown roles get the LMS profile's
// zero value.
func ProfileFor(r Role) Profile {
	return profiles[r]
}
