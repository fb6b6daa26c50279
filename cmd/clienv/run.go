package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	clienv "github.com/wagiedev/claude-cli-env"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		withEnv bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run -- COMMAND [ARGS...]",
		Short: "Run a command, repairing PATH once if its executable is not found",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.newResolver(cmd)
			if err != nil {
				return err
			}

			command := clienv.Command{Name: args[0], Args: args[1:], Timeout: timeout}

			if withEnv {
				command.Env, err = r.Environment(cmd.Context())
				if err != nil {
					return err
				}
			}

			res, runErr := r.RunWithFallback(cmd.Context(), command)

			fmt.Fprint(cmd.OutOrStdout(), res.Stdout)
			fmt.Fprint(cmd.ErrOrStderr(), res.Stderr)

			return runErr
		},
	}

	cmd.Flags().BoolVar(&withEnv, "with-env", false, "run with the derived shell environment")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "command timeout (default 10s)")

	return cmd
}
