package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	clienv "github.com/wagiedev/claude-cli-env"
	"github.com/wagiedev/claude-cli-env/internal/config"
)

// app carries the global flags and the lazily built resolver.
type app struct {
	cliPath      string
	settingsPath string
	skipCache    bool
	shell        string
	minVersion   string
	verbose      bool

	// options are appended after the flag-derived ones; tests inject a runner here.
	options []clienv.Option

	resolver *clienv.Resolver
}

func newRootCmd(options ...clienv.Option) *cobra.Command {
	a := &app{options: options}

	cmd := &cobra.Command{
		Use:   "clienv",
		Short: "Locate the claude CLI and its shell environment",
		Long: `clienv derives the user's login shell environment, resolves the claude CLI
from the configured path or PATH, validates it and checks its version.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.SetVersionTemplate("{{.Version}}\n")

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.cliPath, "cli-path", "", "configured claude CLI path (overrides the settings file)")
	flags.StringVar(&a.settingsPath, "settings", "", "settings file (default: user config dir)")
	flags.BoolVar(&a.skipCache, "skip-cache", false, "ignore cached results")
	flags.StringVar(&a.shell, "shell", "", "login shell used to derive the environment")
	flags.StringVar(&a.minVersion, "min-version", "", "minimum supported CLI version")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log resolution steps to stderr")

	cmd.AddCommand(
		newResolveCmd(a),
		newHealthCmd(a),
		newValidateCmd(),
		newUseCmd(a),
		newEnvCmd(a),
		newRunCmd(a),
		newSchemaCmd(),
		newMCPCmd(a),
	)

	return cmd
}

// newResolver builds the resolver from the global flags once per invocation.
func (a *app) newResolver(cmd *cobra.Command) (*clienv.Resolver, error) {
	if a.resolver != nil {
		return a.resolver, nil
	}

	logger := clienv.NopLogger()
	if a.verbose {
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	opts := []clienv.Option{clienv.WithLogger(logger)}

	if a.shell != "" {
		opts = append(opts, clienv.WithShell(a.shell))
	}

	if a.minVersion != "" {
		opts = append(opts, clienv.WithMinimumVersion(a.minVersion))
	}

	r, err := clienv.New(append(opts, a.options...)...)
	if err != nil {
		return nil, err
	}

	a.resolver = r

	return r, nil
}

// resolvedSettingsPath returns --settings or the default location.
func (a *app) resolvedSettingsPath() (string, error) {
	if a.settingsPath != "" {
		return a.settingsPath, nil
	}

	return config.DefaultSettingsPath()
}

// resolveOptions combines --cli-path, the settings file and --skip-cache.
func (a *app) resolveOptions() (clienv.ResolveOptions, error) {
	opts := clienv.ResolveOptions{ConfiguredPath: a.cliPath, SkipCache: a.skipCache}
	if opts.ConfiguredPath != "" {
		return opts, nil
	}

	path, err := a.resolvedSettingsPath()
	if err != nil {
		if a.settingsPath == "" {
			// No config dir (e.g. HOME unset): behave as if nothing is configured.
			return opts, nil
		}

		return opts, err
	}

	settings, err := config.LoadSettings(path)
	if err != nil {
		return opts, err
	}

	opts.ConfiguredPath = settings.CLIPath

	return opts, nil
}
