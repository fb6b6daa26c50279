package clienv

import (
	"log/slog"
	"time"

	"github.com/wagiedev/claude-cli-env/internal/config"
)

// Options configures a Resolver.
type Options = config.Options

// Option configures Options using the functional options pattern.
type Option func(*Options)

// Timeouts groups the per-step time budgets. Zero fields keep their defaults.
type Timeouts struct {
	Shell   time.Duration
	Lookup  time.Duration
	Version time.Duration
	Command time.Duration
}

// applyOptions applies functional options and fills in defaults.
func applyOptions(opts []Option) Options {
	options := Options{}
	for _, opt := range opts {
		opt(&options)
	}

	return options.WithDefaults()
}

// WithLogger sets the logger for debug output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithRunner replaces the process runner used for every spawn.
func WithRunner(runner Runner) Option {
	return func(o *Options) {
		o.Runner = runner
	}
}

// WithGOOS overrides the platform. Aliases such as "macos" are accepted.
func WithGOOS(goos string) Option {
	return func(o *Options) {
		o.GOOS = goos
	}
}

// WithShell sets the login shell used for environment derivation.
// If not set, $SHELL and then the platform defaults are tried.
func WithShell(shell string) Option {
	return func(o *Options) {
		o.Shell = shell
	}
}

// WithMinimumVersion sets the oldest supported CLI version.
func WithMinimumVersion(v string) Option {
	return func(o *Options) {
		o.MinimumVersion = v
	}
}

// WithCacheTTL sets how long full and fallback environment derivations stay cached.
func WithCacheTTL(full, fallback time.Duration) Option {
	return func(o *Options) {
		o.FullTTL = full
		o.FallbackTTL = fallback
	}
}

// WithTimeouts sets the time budgets for shell, lookup, version probe and commands.
func WithTimeouts(t Timeouts) Option {
	return func(o *Options) {
		o.ShellTimeout = t.Shell
		o.LookupTimeout = t.Lookup
		o.VersionTimeout = t.Version
		o.CommandTimeout = t.Command
	}
}

// WithSelfHealPlatforms sets the platforms on which RunWithFallback may
// repair the host PATH. Pass no platforms to disable the repair.
func WithSelfHealPlatforms(platforms ...string) Option {
	return func(o *Options) {
		o.SelfHealPlatforms = append([]string{}, platforms...)
	}
}

// WithSensitiveKeys adds variables to strip from every derived environment.
// Credentials such as ANTHROPIC_API_KEY are always stripped.
func WithSensitiveKeys(keys ...string) Option {
	return func(o *Options) {
		o.SensitiveKeys = append([]string{}, keys...)
	}
}

// WithPathFixState gives the Resolver its own PATH repair flags instead of
// the process-wide ones.
func WithPathFixState(state *PathFixState) Option {
	return func(o *Options) {
		o.PathFix = state
	}
}
