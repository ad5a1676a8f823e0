// Package settings holds the configuration defaults contributed by the
// plugin and the runtime store the host fills once configuration is loaded.
package settings

// Prefix namespaces every setting the plugin contributes to the host config.
const Prefix = "CELERY_WORKER_PATCH_"

// Version is set at build time via -ldflags.
var Version = "0.1.0"

// Setting keys, fully prefixed as they appear in the host configuration.
const (
	KeyVersion = Prefix + "VERSION"

	KeyLMSConcurrency        = Prefix + "LMS_CONCURRENCY"
	KeyLMSMaxTasksPerChild   = Prefix + "LMS_MAX_TASKS_PER_CHILD"
	KeyLMSPrefetchMultiplier = Prefix + "LMS_PREFETCH_MULTIPLIER"
	KeyLMSQueues             = Prefix + "LMS_QUEUES"

	KeyCMSConcurrency        = Prefix + "CMS_CONCURRENCY"
	KeyCMSMaxTasksPerChild   = Prefix + "CMS_MAX_TASKS_PER_CHILD"
	KeyCMSPrefetchMultiplier = Prefix + "CMS_PREFETCH_MULTIPLIER"
	KeyCMSQueues             = Prefix + "CMS_QUEUES"
)

const (
	DefaultConcurrency        = 1
	DefaultMaxTasksPerChild   = 100
	DefaultPrefetchMultiplier = 1

	DefaultLMSQueues = "edx.lms.core.default,edx.lms.core.high,edx.lms.core.high_mem"
	DefaultCMSQueues = "edx.cms.core.default,edx.cms.core.high,edx.cms.core.low"
)

// Keys returns every known setting key in display order.
func Keys() []string {
	return []string{
		KeyVersion,
		KeyCMSConcurrency,
		KeyCMSMaxTasksPerChild,
		KeyCMSPrefetchMultiplier,
		KeyCMSQueues,
		KeyLMSConcurrency,
		KeyLMSMaxTasksPerChild,
		KeyLMSPrefetchMultiplier,
		KeyLMSQueues,
	}
}

// IsKnown reports whether key is one of the plugin's settings.
func IsKnown(key string) bool {
	for _, k := range Keys() {
		if k == key {
			return true
		}
	}
	return false
}

// Defaults returns a fresh copy of the configuration defaults.
func Defaults() Values {
	return Values{
		KeyVersion: Version,

		KeyCMSConcurrency:        DefaultConcurrency,
		KeyCMSMaxTasksPerChild:   DefaultMaxTasksPerChild,
		KeyCMSPrefetchMultiplier: DefaultPrefetchMultiplier,
		KeyCMSQueues:             DefaultCMSQueues,

		KeyLMSConcurrency:        DefaultConcurrency,
		KeyLMSMaxTasksPerChild:   DefaultMaxTasksPerChild,
		KeyLMSPrefetchMultiplier: DefaultPrefetchMultiplier,
		KeyLMSQueues:             DefaultLMSQueues,
	}
}
