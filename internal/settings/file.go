package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a flat YAML configuration file. A missing file yields an
// empty mapping.
func LoadFile(path string) (Values, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Values{}, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if doc == nil {
		return Values{}, nil
	}

	m, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrNotAMapping)
	}
	return Values(m), nil
}

// SaveFile writes values as a YAML mapping, creating parent directories.
func SaveFile(path string, values Values) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yaml.Marshal(map[string]any(values))
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// ParseAssignment parses a KEY=VALUE override. The value is decoded as YAML,
// so "4" becomes an int while "a,b" stays a string.
func ParseAssignment(s string) (string, any, error) {
	key, raw, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", nil, fmt.Errorf("%q: %w", s, ErrInvalidAssignment)
	}

	if strings.TrimSpace(raw) == "" {
		return key, "", nil
	}

	var value any
	if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
		return key, raw, nil
	}
	return key, value, nil
}

// ParseAssignments parses a list of KEY=VALUE overrides in order; later
// assignments to the same key win.
func ParseAssignments(assignments []string) (Values, error) {
	values := make(Values, len(assignments))
	for _, a := range assignments {
		key, value, err := ParseAssignment(a)
		if err != nil {
			return nil, err
		}
		values[key] = value
	}
	return values, nil
}
