package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fentz26/celery-worker-patch/internal/models"
	"github.com/fentz26/celery-worker-patch/internal/store"
	"github.com/fentz26/celery-worker-patch/internal/worker"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded worker commands",
	RunE:  runHistory,
}

var (
	historyRole  string
	historyLimit int
)

func init() {
	historyCmd.Flags().StringVar(&historyRole, "role", "", "Only show renders for this role (lms or cms)")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of renders to show (0 for all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	role := ""
	if historyRole != "" {
		r, err := worker.ParseRole(historyRole)
		if err != nil {
			return err
		}
		role = string(r)
	}

	s, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer s.Close()

	renders, err := s.ListRenders(role, historyLimit)
	if err != nil {
		return err
	}
	return printHistory(cmd.OutOrStdout(), renders)
}

func printHistory(w io.Writer, renders []models.Render) error {
	if len(renders) == 0 {
		fmt.Fprintln(w, "No recorded renders. Use --record with command or run.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CREATED\tROLE\tCONFIG\tCOMMAND")
	for _, r := range renders {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			r.CreatedAt.Local().Format(time.DateTime), r.Role, shortHash(r.ConfigHash), strings.Join(r.Tokens, " "))
	}
	return tw.Flush()
}
