package config

import (
	"log/slog"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/wagiedev/claude-cli-env/internal/cli"
	"github.com/wagiedev/claude-cli-env/internal/pathfix"
	"github.com/wagiedev/claude-cli-env/internal/process"
	"github.com/wagiedev/claude-cli-env/internal/shellenv"
)

// Options configures environment derivation, CLI resolution and the PATH repair.
type Options struct {
	// Logger is the slog logger for debug output.
	// If nil, logging is disabled (silent operation).
	Logger *slog.Logger

	// Runner runs every external command.
	// If nil, commands run as child processes of the host.
	Runner process.Runner `json:"-"`

	// GOOS selects platform behavior. Defaults to runtime.GOOS.
	GOOS string

	// Shell is the login shell used for derivation.
	// If empty, $SHELL and then the platform fallbacks are tried.
	Shell string

	// ShellTimeout bounds the login shell spawn.
	ShellTimeout time.Duration

	// LookupTimeout bounds each which/where invocation.
	LookupTimeout time.Duration

	// VersionTimeout bounds the --version probe.
	VersionTimeout time.Duration

	// CommandTimeout bounds commands run through RunWithFallback that carry no timeout.
	CommandTimeout time.Duration

	// FullTTL is how long a shell-derived environment stays cached.
	FullTTL time.Duration

	// FallbackTTL is how long a host-environment fallback stays cached.
	FallbackTTL time.Duration

	// MinimumVersion is the oldest supported CLI version.
	MinimumVersion string

	// SelfHealPlatforms lists the platforms eligible for the PATH repair.
	// Aliases such as "macos" and "win32" are accepted.
	SelfHealPlatforms []string

	// SensitiveKeys are stripped from every derived environment in addition
	// to shellenv.DefaultSensitiveKeys, which are always stripped.
	SensitiveKeys []string

	// PathFix holds the PATH repair flags. If nil, the process-wide state is used.
	PathFix *pathfix.State `json:"-"`
}

// WithDefaults returns a copy of o with every unset field filled in.
func (o Options) WithDefaults() Options {
	if o.GOOS == "" {
		o.GOOS = runtime.GOOS
	}

	o.GOOS = NormalizePlatform(o.GOOS)

	if o.ShellTimeout <= 0 {
		o.ShellTimeout = shellenv.DefaultShellTimeout
	}

	if o.LookupTimeout <= 0 {
		o.LookupTimeout = cli.DefaultLookupTimeout
	}

	if o.VersionTimeout <= 0 {
		o.VersionTimeout = cli.VersionCheckTimeout
	}

	if o.CommandTimeout <= 0 {
		o.CommandTimeout = pathfix.DefaultCommandTimeout
	}

	if o.FullTTL <= 0 {
		o.FullTTL = shellenv.DefaultFullTTL
	}

	if o.FallbackTTL <= 0 {
		o.FallbackTTL = shellenv.DefaultFallbackTTL
	}

	if o.MinimumVersion == "" {
		o.MinimumVersion = cli.MinimumVersion
	}

	if o.SelfHealPlatforms == nil {
		o.SelfHealPlatforms = slices.Clone(pathfix.DefaultPlatforms)
	} else {
		platforms := make([]string, 0, len(o.SelfHealPlatforms))
		for _, p := range o.SelfHealPlatforms {
			platforms = append(platforms, NormalizePlatform(p))
		}

		o.SelfHealPlatforms = platforms
	}

	o.SensitiveKeys = mergeKeys(shellenv.DefaultSensitiveKeys, o.SensitiveKeys)

	return o
}

// mergeKeys returns defaults followed by the extra keys not already present,
// compared case-insensitively.
func mergeKeys(defaults, extra []string) []string {
	out := slices.Clone(defaults)

	for _, key := range extra {
		if key == "" || slices.ContainsFunc(out, func(k string) bool { return strings.EqualFold(k, key) }) {
			continue
		}

		out = append(out, key)
	}

	return out
}
