package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fentz26/celery-worker-patch/internal/connectors/localexec"
	"github.com/fentz26/celery-worker-patch/internal/host"
	"github.com/fentz26/celery-worker-patch/internal/worker"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <lms|cms>",
	Short: "Launch the worker with the overridden command",
	Long: `Render the worker command for a role and execute it in the current
directory. Only celery worker invocations are allowed.`,
	Args: cobra.ExactArgs(1),
	RunE: runWorker,
}

var (
	runDryRun bool
	runRecord bool
)

func init() {
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Print the command instead of running it")
	runCmd.Flags().BoolVar(&runRecord, "record", false, "Record the rendered command in the history database")
}

func runWorker(cmd *cobra.Command, args []string) error {
	role, err := worker.ParseRole(args[0])
	if err != nil {
		return err
	}

	return withHost(runRecord, func(h *host.Host) error {
		tokens := h.WorkerCommand(role)
		if runDryRun {
			return writeCommand(cmd.OutOrStdout(), tokens, false)
		}

		workDir, _ := os.Getwd()
		conn := localexec.New(workDir)
		conn.Stdout = cmd.OutOrStdout()
		conn.Stderr = cmd.ErrOrStderr()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		logger.WithFields(logrus.Fields{"role": role, "connector": conn.Name()}).Info("Launching worker")
		result, err := conn.Execute(ctx, tokens[0], tokens[1:])
		if err != nil {
			return err
		}
		if result.ExitCode != 0 {
			return fmt.Errorf("%s worker exited with code %d", role, result.ExitCode)
		}
		return nil
	})
}
