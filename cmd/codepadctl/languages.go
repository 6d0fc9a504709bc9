package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"codepad/internal/language"
)

func newLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List built-in languages, default versions and aliases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := language.MustNewRegistry(language.Defaults())
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "LANGUAGE\tVERSION\tALIASES")
			for _, s := range registry.List() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, s.Version, strings.Join(s.Aliases, ", "))
			}
			return w.Flush()
		},
	}
}

func newResolveCmd() *cobra.Command {
	var version string

	cmd := &cobra.Command{
		Use:   "resolve <language>",
		Short: "Resolve a language name or alias to the upstream language and version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := language.MustNewRegistry(language.Defaults())
			resolved, err := registry.Resolve(args[0], version)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", resolved.Name, resolved.Version)
			return nil
		},
	}

	cmd.Flags().StringVar(&version, "version", "", "Explicit version (default: the language's default)")

	return cmd
}
