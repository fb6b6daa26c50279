package main

import (
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	clienv "github.com/wagiedev/claude-cli-env"
	"github.com/wagiedev/claude-cli-env/internal/config"
)

// maxParallelValidations bounds concurrent stat calls for `validate`.
const maxParallelValidations = 8

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate PATH...",
		Short: "Check candidate CLI paths; exits non-zero if any is rejected",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make([]error, len(args))

			g, _ := errgroup.WithContext(cmd.Context())
			g.SetLimit(maxParallelValidations)

			for i, path := range args {
				g.Go(func() error {
					results[i] = clienv.Validate(path)

					return nil
				})
			}

			if err := g.Wait(); err != nil {
				return err
			}

			rejected := 0

			for i, path := range args {
				err := results[i]
				if err == nil {
					fmt.Fprintf(cmd.OutOrStdout(), "ok       %s\n", path)

					continue
				}

				rejected++

				rule := "invalid"
				if verr, ok := stderrors.AsType[*clienv.ValidationError](err); ok {
					rule = string(verr.Rule)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s: %v\n", rule, path, err)
			}

			if rejected > 0 {
				return fmt.Errorf("%d of %d paths rejected", rejected, len(args))
			}

			return nil
		},
	}
}

func newUseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "use PATH",
		Short: "Validate PATH and save it as the configured CLI path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if err := clienv.Validate(path); err != nil {
				return err
			}

			settingsPath, err := a.resolvedSettingsPath()
			if err != nil {
				return err
			}

			settings, err := config.LoadSettings(settingsPath)
			if err != nil {
				return err
			}

			settings.CLIPath = path

			if err := config.SaveSettings(settingsPath, settings); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "saved cli_path %s to %s\n", path, settingsPath)

			return nil
		},
	}
}
