package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "celerypatch",
	Short: "Override the LMS and CMS Celery worker commands",
	Long: `celerypatch renders the Celery worker launch commands of an Open edX
deployment with custom concurrency, queues, prefetch multiplier and
max-tasks-per-child, read from CELERY_WORKER_PATCH_* settings.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid --log-level: %w", err)
		}
		logger.SetLevel(level)
		return nil
	},
}

var (
	configPath  string
	assignments []string
	logLevel    string
	dbPath      string

	logger = newLogger()
)

func init() {
	homeDir, _ := os.UserHomeDir()
	defaultConfig := filepath.Join(homeDir, ".celerypatch", "config.yml")
	defaultDB := filepath.Join(homeDir, ".celerypatch", "history.db")

	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfig, "Path to the YAML config file")
	rootCmd.PersistentFlags().StringArrayVarP(&assignments, "set", "s", nil, "Override a setting (KEY=VALUE, repeatable)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDB, "Path to the render history database")

	rootCmd.AddCommand(commandCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(hooksCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.WarnLevel)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return l
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
