package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	clienv "github.com/wagiedev/claude-cli-env"
)

func newResolveCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the claude CLI and print its path, version and status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.newResolver(cmd)
			if err != nil {
				return err
			}

			opts, err := a.resolveOptions()
			if err != nil {
				return err
			}

			result := r.Resolve(cmd.Context(), opts)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")

				return enc.Encode(result)
			}

			printResolved(cmd.OutOrStdout(), result, r.MinimumVersion())

			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")

	return cmd
}

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Print the CLI health status; exits non-zero when unhealthy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.newResolver(cmd)
			if err != nil {
				return err
			}

			opts, err := a.resolveOptions()
			if err != nil {
				return err
			}

			result := r.Resolve(cmd.Context(), opts)
			fmt.Fprintln(cmd.OutOrStdout(), result.Status)

			if !result.Status.Healthy() {
				return fmt.Errorf("claude CLI is unhealthy: %s", result.Error)
			}

			return nil
		},
	}
}

func printResolved(w io.Writer, result clienv.ResolvedCLI, minimum string) {
	fmt.Fprintf(w, "status:   %s\n", result.Status)

	if result.Path != "" {
		fmt.Fprintf(w, "path:     %s\n", result.Path)
	}

	if result.Version != nil {
		fmt.Fprintf(w, "version:  %s (minimum %s)\n", result.Version, minimum)
	}

	if result.Error != "" {
		fmt.Fprintf(w, "error:    %s\n", result.Error)
	}

	fmt.Fprintf(w, "attempt:  %s\n", result.ID)
}
