package main

import (
	"fmt"
	"runtime"

	"github.com/fentz26/celery-worker-patch/internal/settings"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of celerypatch",
	Run:   runVersion,
}

func runVersion(cmd *cobra.Command, args []string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "celerypatch version %s\n", settings.Version)
	fmt.Fprintf(out, "  OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(out, "  Go version: %s\n", runtime.Version())
}
