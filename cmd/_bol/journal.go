package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ashwch/bol/internal/config"
	"github.com/ashwch/bol/internal/journal"
	"github.com/ashwch/bol/internal/prompt"
)

func newJournalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect the journal of resolved transcripts",
	}
	cmd.AddCommand(newJournalTailCmd(), newJournalClearCmd())
	return cmd
}

func newJournalTailCmd() *cobra.Command {
	var (
		limit  int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Print the most recent journal events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			j, err := journal.Default(journal.Options{})
			if err != nil {
				return err
			}
			events, err := j.Tail(limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, events)
			}
			if len(events) == 0 {
				fmt.Fprintln(out, "journal is empty")
				return nil
			}
			for _, ev := range events {
				fmt.Fprintf(out, "%s  %-7s %-20s %-8s %s\n", ev.Timestamp, ev.Source, ev.CurrentPath, ev.Kind, ev.Transcript)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of events (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output JSON")
	return cmd
}

func newJournalClearCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			j, err := journal.Default(journal.Options{})
			if err != nil {
				return err
			}
			backend := config.Default().UI.Backend
			if cfg, _, err := config.LoadOrCreate(); err == nil {
				backend = cfg.UI.Backend
			}

			approved, err := prompt.Confirm(backend, "Clear journal?", j.Path(), yes, os.Stdin, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if !approved {
				fmt.Fprintln(cmd.OutOrStdout(), "journal kept")
				return nil
			}
			if err := j.Clear(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", j.Path())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}
