// Package localexec launches worker commands on the local machine, limited
// to an allowlist.
package localexec

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/fentz26/celery-worker-patch/internal/connectors"
)

// allowedCommands maps each executable to the subcommands it may run.
var allowedCommands = map[string][]string{
	"celery": {"worker"},
}

// LocalExec implements the Connector interface for local command execution.
type LocalExec struct {
	workDir string

	// Stdout and Stderr, when set, receive the output as it is produced in
	// addition to it being captured in the result.
	Stdout io.Writer
	Stderr io.Writer
}

// New creates a new LocalExec connector.
func New(workDir string) *LocalExec {
	return &LocalExec{workDir: workDir}
}

// Name returns the connector identifier.
func (l *LocalExec) Name() string {
	return "localexec"
}

// IsAllowed checks if a command is in the allowlist. The subcommand is the
// first argument that is not a flag, since celery takes global options such
// as --app before it.
func (l *LocalExec) IsAllowed(cmd string, args []string) bool {
	allowedSubcmds, ok := allowedCommands[cmd]
	if !ok {
		return false
	}

	subcmd := ""
	for _, a := range args {
		if !strings.HasPrefix(a, "-") {
			subcmd = a
			break
		}
	}
	if subcmd == "" {
		return false
	}

	for _, allowed := range allowedSubcmds {
		if subcmd == allowed {
			return true
		}
	}
	return false
}

// Execute runs a command if it's in the allowlist. A non-zero exit is
// reported through the result, not as an error.
func (l *LocalExec) Execute(ctx context.Context, cmd string, args []string) (*connectors.ExecResult, error) {
	if !l.IsAllowed(cmd, args) {
		return nil, fmt.Errorf("command not allowed: %s %s", cmd, strings.Join(args, " "))
	}

	execCmd := exec.CommandContext(ctx, cmd, args...)
	if l.workDir != "" {
		execCmd.Dir = l.workDir
	}

	var stdout, stderr bytes.Buffer
	execCmd.Stdout = teeTo(&stdout, l.Stdout)
	execCmd.Stderr = teeTo(&stderr, l.Stderr)

	err := execCmd.Run()

	exitCode := 0
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			exitCode = exitError.ExitCode()
		} else {
			return nil, fmt.Errorf("exec error: %w", err)
		}
	}

	return &connectors.ExecResult{
		Command:  cmd,
		Args:     args,
		ExitCode: exitCode,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}, nil
}

func teeTo(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}
