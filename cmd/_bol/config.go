package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ashwch/bol/internal/appdirs"
	"github.com/ashwch/bol/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read and change config.toml",
	}

	get := &cobra.Command{
		Use:   "get [key]",
		Short: "Print one key, or the whole config as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := config.LoadOrCreate()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return writeJSON(cmd.OutOrStdout(), cfg)
			}
			val, err := cfg.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), val)
			return nil
		},
	}
	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Validate and save one key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := config.LoadOrCreate()
			if err != nil {
				return err
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			saved, _ := cfg.Get(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s=%s\n", args[0], saved)
			return nil
		},
	}
	keys := &cobra.Command{
		Use:   "keys",
		Short: "List settable keys",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, key := range config.Keys {
				fmt.Fprintln(cmd.OutOrStdout(), key)
			}
		},
	}
	path := &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := appdirs.ConfigFilePath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	}
	cmd.AddCommand(get, set, keys, path)
	return cmd
}

func newStatePathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state-path",
		Short: "Print the state directory holding the journal and usage store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := appdirs.StateDir()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
