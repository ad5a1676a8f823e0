package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fentz26/celery-worker-patch/internal/host"
	"github.com/fentz26/celery-worker-patch/internal/settings"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and edit CELERY_WORKER_PATCH_* settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved settings and where each value came from",
	RunE:  runConfigShow,
}

var configDefaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Show the built-in defaults",
	RunE:  runConfigDefaults,
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Report settings that would make a worker fail to start",
	RunE:  runConfigCheck,
}

var configSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Persist --set overrides to the config file",
	RunE:  runConfigSave,
}

func init() {
	configCmd.AddCommand(configShowCmd, configDefaultsCmd, configCheckCmd, configSaveCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	return withHost(false, func(h *host.Host) error {
		return printSettings(cmd.OutOrStdout(), "Worker Settings", h.Config(), h.Overrides())
	})
}

func runConfigDefaults(cmd *cobra.Command, args []string) error {
	return printSettings(cmd.OutOrStdout(), "Default Settings", settings.Defaults(), nil)
}

func runConfigCheck(cmd *cobra.Command, args []string) error {
	return withHost(false, func(h *host.Host) error {
		if n := printWarnings(cmd.OutOrStdout(), settings.Check(h.Config())); n > 0 {
			return fmt.Errorf("%d setting(s) need attention", n)
		}
		return nil
	})
}

func runConfigSave(cmd *cobra.Command, args []string) error {
	if len(assignments) == 0 {
		return fmt.Errorf("nothing to save, pass at least one --set KEY=VALUE")
	}

	current, err := settings.LoadFile(configPath)
	if err != nil {
		return err
	}
	updates, err := settings.ParseAssignments(assignments)
	if err != nil {
		return err
	}
	current.Merge(updates)

	if err := settings.SaveFile(configPath, current); err != nil {
		return err
	}

	for _, w := range settings.Check(updates) {
		logger.Warn(w.String())
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Saved %d setting(s) to %s\n", okStyle.Render("✓"), len(updates), configPath)
	return nil
}

// printSettings lists the plugin's settings plus any unknown prefixed keys
// found in values. Keys present in overrides are marked as such.
func printSettings(w io.Writer, title string, values, overrides settings.Values) error {
	fmt.Fprintln(w, titleStyle.Render(title))
	fmt.Fprintln(w, strings.Repeat("=", len(title)))

	keys := settings.Keys()
	var extra []string
	for k := range values {
		if strings.HasPrefix(k, settings.Prefix) && !settings.IsKnown(k) {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	keys = append(keys, extra...)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tVALUE\tSOURCE")
	for _, k := range keys {
		source := "default"
		if _, ok := overrides[k]; ok {
			source = "override"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", k, settings.FormatValue(values.Lookup(k, "")), source)
	}
	return tw.Flush()
}

// printWarnings writes one line per warning and returns how many there were.
func printWarnings(w io.Writer, warnings []settings.Warning) int {
	if len(warnings) == 0 {
		fmt.Fprintf(w, "%s All worker settings look valid\n", okStyle.Render("✓"))
		return 0
	}
	for _, warning := range warnings {
		fmt.Fprintf(w, "%s %s\n", warnStyle.Render("!"), warning)
	}
	return len(warnings)
}
