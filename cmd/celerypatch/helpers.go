package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fentz26/celery-worker-patch/internal/audit"
	"github.com/fentz26/celery-worker-patch/internal/host"
	"github.com/fentz26/celery-worker-patch/internal/store"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// withHost boots the host from the global flags. When record is set the
// render history database is opened and every render is recorded.
func withHost(record bool, fn func(h *host.Host) error) error {
	opts := host.Options{
		ConfigFile:  configPath,
		Assignments: assignments,
		Logger:      logger,
	}

	if record {
		s, err := store.New(dbPath)
		if err != nil {
			return fmt.Errorf("opening history: %w", err)
		}
		defer s.Close()
		opts.Recorder = audit.NewRecorder(s)
	}

	h, err := host.Boot(opts)
	if err != nil {
		return err
	}
	return fn(h)
}

// writeCommand prints tokens as a JSON array or as one shell-style line.
func writeCommand(w io.Writer, tokens []string, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		return enc.Encode(tokens)
	}
	_, err := fmt.Fprintln(w, strings.Join(tokens, " "))
	return err
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
