package settings

import (
	"fmt"
	"sort"
	"strings"
)

// Warning describes a setting that will likely make the worker fail to
// start once the rendered command is executed.
type Warning struct {
	Key     string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Key, w.Message)
}

var positiveIntKeys = []string{
	KeyLMSConcurrency,
	KeyLMSMaxTasksPerChild,
	KeyLMSPrefetchMultiplier,
	KeyCMSConcurrency,
	KeyCMSMaxTasksPerChild,
	KeyCMSPrefetchMultiplier,
}

var queueKeys = []string{KeyLMSQueues, KeyCMSQueues}

// Check lints the plugin's settings in values. It is advisory only: command
// construction never consults it.
func Check(values Values) []Warning {
	var warnings []Warning

	for _, key := range positiveIntKeys {
		v, ok := values[key]
		if !ok || v == nil {
			continue
		}
		n, ok := AsInt(v)
		switch {
		case !ok:
			warnings = append(warnings, Warning{Key: key, Message: fmt.Sprintf("%q is not a whole number", FormatValue(v))})
		case n < 1:
			warnings = append(warnings, Warning{Key: key, Message: fmt.Sprintf("must be at least 1, got %d", n)})
		}
	}

	for _, key := range queueKeys {
		v, ok := values[key]
		if !ok || v == nil {
			continue
		}
		queues := FormatValue(v)
		if strings.TrimSpace(queues) == "" {
			warnings = append(warnings, Warning{Key: key, Message: "queue list is empty"})
			continue
		}
		for _, q := range strings.Split(queues, ",") {
			if strings.TrimSpace(q) == "" {
				warnings = append(warnings, Warning{Key: key, Message: fmt.Sprintf("queue list %q has an empty entry", queues)})
				break
			}
		}
	}

	for key := range values {
		if strings.HasPrefix(key, Prefix) && !IsKnown(key) {
			warnings = append(warnings, Warning{Key: key, Message: "unknown setting"})
		}
	}

	sort.SliceStable(warnings, func(i, j int) bool {
		return warnings[i].Key < warnings[j].Key
	})
	return warnings
}
