package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newEnvCmd(a *app) *cobra.Command {
	var keysOnly bool

	cmd := &cobra.Command{
		Use:   "env",
		Short: "Print the derived shell environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.newResolver(cmd)
			if err != nil {
				return err
			}

			if a.skipCache {
				r.ClearEnvironmentCache()
			}

			env, err := r.Environment(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if keysOnly {
				for _, key := range env.Keys() {
					fmt.Fprintln(out, key)
				}
			} else {
				for _, entry := range env.List() {
					fmt.Fprintln(out, entry)
				}
			}

			if entry, ok := r.EnvironmentSnapshot(); ok && entry.Fallback {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: login shell unavailable, showing the process environment")
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&keysOnly, "keys", false, "print variable names only")

	return cmd
}
