package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ashwch/bol/internal/usage"
)

func newUsageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show which transcripts are spoken most",
	}

	var (
		limit  int
		asJSON bool
	)
	top := &cobra.Command{
		Use:   "top",
		Short: "Most frequent transcripts of any kind",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printUsage(cmd.OutOrStdout(), limit, asJSON, (*usage.Store).Top)
		},
	}
	unresolved := &cobra.Command{
		Use:   "unresolved",
		Short: "Most frequent transcripts no rule recognized",
		Long: `List transcripts that fell through every rule, most frequent first.
These are the candidates for new keywords in catalog.toml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printUsage(cmd.OutOrStdout(), limit, asJSON, (*usage.Store).Unresolved)
		},
	}
	cmd.PersistentFlags().IntVarP(&limit, "limit", "n", 10, "number of entries")
	cmd.PersistentFlags().BoolVar(&asJSON, "json", false, "output JSON")
	cmd.AddCommand(top, unresolved)
	return cmd
}

func printUsage(out io.Writer, limit int, asJSON bool, pick func(*usage.Store, int) []usage.Entry) error {
	tracker, err := usage.DefaultTracker()
	if err != nil {
		return err
	}
	store, err := tracker.Snapshot()
	if err != nil {
		return err
	}
	entries := pick(&store, limit)

	if asJSON {
		return writeJSON(out, entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "no usage recorded")
		return nil
	}
	for _, entry := range entries {
		fmt.Fprintf(out, "%5d  %-8s %s\n", entry.Hits, entry.Kind, entry.Transcript)
	}
	return nil
}
