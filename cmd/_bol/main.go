package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "_bol error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "_bol",
		Short: "Operator tools for the bol voice intent resolver",
		Long: `_bol runs the resolver service and inspects its local state.

The user-facing resolver is the bol binary; _bol serves it over HTTP and
WebSocket, reads the journal and usage store, and checks the catalog.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newServeCmd(),
		newJournalCmd(),
		newUsageCmd(),
		newCatalogCmd(),
		newConfigCmd(),
		newStatePathCmd(),
		newDoctorCmd(),
	)
	return root
}

func writeJSON(out io.Writer, v any) error {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(payload))
	return err
}
