package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ashwch/bol/internal/app"
	"github.com/ashwch/bol/internal/catalog"
)

func newCatalogCmd() *cobra.Command {
	var (
		file   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the route and field catalog",
		Long: `Inspect the merged catalog: the embedded routes and fields plus the
community overrides in catalog.toml (or --file).`,
	}
	cmd.PersistentFlags().StringVar(&file, "file", "", "catalog override file (default catalog.overrides)")
	cmd.PersistentFlags().BoolVar(&asJSON, "json", false, "output JSON")

	load := func() (catalog.Catalog, string, error) {
		path := file
		if path == "" {
			env, err := app.Load(app.Overrides{})
			if err != nil {
				return catalog.Catalog{}, "", err
			}
			return env.Catalog, env.CatalogPath, nil
		}
		cat, err := catalog.Load(catalog.Options{OverridePath: path})
		return cat, path, err
	}

	routes := &cobra.Command{
		Use:   "routes",
		Short: "List routes in match order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, _, err := load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, cat.Routes)
			}
			for _, route := range cat.Routes {
				fmt.Fprintf(out, "%-22s %-28s %s\n", route.Path, route.Description, strings.Join(route.Keywords, ", "))
			}
			return nil
		},
	}
	fields := &cobra.Command{
		Use:   "fields",
		Short: "List form fields in match order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, _, err := load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, cat.Fields)
			}
			for _, field := range cat.Fields {
				fmt.Fprintf(out, "%-14s %-20s %s\n", field.Key, field.Label, strings.Join(field.Synonyms, ", "))
			}
			return nil
		},
	}
	validate := &cobra.Command{
		Use:   "validate",
		Short: "Check the merged catalog for mistakes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, path, err := load()
			if err != nil {
				return err
			}
			problems := cat.Validate()
			out := cmd.OutOrStdout()
			for _, problem := range problems {
				fmt.Fprintf(out, "- %v\n", problem)
			}
			if len(problems) > 0 {
				return fmt.Errorf("%d catalog problem(s) in %s", len(problems), displayPath(path))
			}
			fmt.Fprintf(out, "catalog ok: %d routes, %d fields (%s)\n", len(cat.Routes), len(cat.Fields), displayPath(path))
			return nil
		},
	}
	cmd.AddCommand(routes, fields, validate)
	return cmd
}

func displayPath(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}
