package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fentz26/celery-worker-patch/internal/hooks"
	"github.com/fentz26/celery-worker-patch/internal/host"
	"github.com/spf13/cobra"
)

var hooksCmd = &cobra.Command{
	Use:   "hooks",
	Short: "List extension points and the handlers registered on them",
	RunE:  runHooks,
}

func runHooks(cmd *cobra.Command, args []string) error {
	return withHost(false, func(h *host.Host) error {
		return printHooks(cmd.OutOrStdout(), h.Registry())
	})
}

func printHooks(w io.Writer, r *hooks.Registry) error {
	fmt.Fprintln(w, titleStyle.Render("Extension Points"))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "POINT\tKIND\tHANDLER")
	fmt.Fprintf(tw, "%s\tdefaults\t%d item(s)\n", hooks.ConfigDefaults, len(r.Defaults()))
	for _, p := range r.Points() {
		for _, handler := range r.Handlers(p) {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", handler.Point, handler.Kind, handler.Name)
		}
	}
	return tw.Flush()
}
