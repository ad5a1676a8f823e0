package main

import (
	"github.com/fentz26/celery-worker-patch/internal/host"
	"github.com/fentz26/celery-worker-patch/internal/worker"
	"github.com/spf13/cobra"
)

var commandCmd = &cobra.Command{
	Use:   "command <lms|cms>",
	Short: "Print the worker command for a role",
	Long: `Print the Celery worker command the deployment tool would launch for the
given role once the overrides are applied.`,
	Args: cobra.ExactArgs(1),
	RunE: runCommand,
}

var (
	commandJSON   bool
	commandRecord bool
)

func init() {
	commandCmd.Flags().BoolVar(&commandJSON, "json", false, "Print the command as a JSON array")
	commandCmd.Flags().BoolVar(&commandRecord, "record", false, "Record the rendered command in the history database")
}

func runCommand(cmd *cobra.Command, args []string) error {
	role, err := worker.ParseRole(args[0])
	if err != nil {
		return err
	}

	return withHost(commandRecord, func(h *host.Host) error {
		return writeCommand(cmd.OutOrStdout(), h.WorkerCommand(role), commandJSON)
	})
}
