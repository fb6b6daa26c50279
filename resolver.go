package clienv

import (
	"context"
	"os"
	"runtime"

	"github.com/wagiedev/claude-cli-env/internal/cli"
	"github.com/wagiedev/claude-cli-env/internal/pathfix"
	"github.com/wagiedev/claude-cli-env/internal/platform"
	"github.com/wagiedev/claude-cli-env/internal/shellenv"
)

// processPathFix is shared by every Resolver without WithPathFixState: the
// host PATH is process-wide, so is the record of repairing it.
var processPathFix = &PathFixState{}

// Resolver derives the shell environment, resolves the CLI and runs commands
// with the PATH repair. It is safe for concurrent use.
type Resolver struct {
	opts  Options
	env   *shellenv.Provider
	cli   *cli.Resolver
	fixer *pathfix.Fixer
}

// New creates a Resolver. It fails only for an invalid minimum version.
func New(opts ...Option) (*Resolver, error) {
	options := applyOptions(opts)

	logger := options.Logger
	if logger == nil {
		logger = NopLogger()
	}

	env := shellenv.NewProvider(&shellenv.Config{
		Logger:        logger,
		Runner:        options.Runner,
		GOOS:          options.GOOS,
		Shell:         options.Shell,
		Timeout:       options.ShellTimeout,
		FullTTL:       options.FullTTL,
		FallbackTTL:   options.FallbackTTL,
		SensitiveKeys: options.SensitiveKeys,
	})

	resolver, err := cli.NewResolver(&cli.Config{
		Env:            env,
		Runner:         options.Runner,
		GOOS:           options.GOOS,
		LookupTimeout:  options.LookupTimeout,
		VersionTimeout: options.VersionTimeout,
		MinimumVersion: options.MinimumVersion,
		Logger:         logger,
	})
	if err != nil {
		return nil, err
	}

	state := options.PathFix
	if state == nil {
		state = processPathFix
	}

	fixer := pathfix.NewFixer(&pathfix.Config{
		Runner:    options.Runner,
		Env:       env,
		GOOS:      options.GOOS,
		Platforms: options.SelfHealPlatforms,
		State:     state,
		Timeout:   options.CommandTimeout,
		Logger:    logger,
	})

	return &Resolver{opts: options, env: env, cli: resolver, fixer: fixer}, nil
}

// Resolve returns the cached resolution unless opts.SkipCache is set.
func (r *Resolver) Resolve(ctx context.Context, opts ResolveOptions) ResolvedCLI {
	return r.cli.Resolve(ctx, opts)
}

// HealthCheck resolves and returns only the status.
func (r *Resolver) HealthCheck(ctx context.Context, opts ResolveOptions) HealthStatus {
	return r.cli.HealthCheck(ctx, opts)
}

// Cached returns the last resolution without resolving.
func (r *Resolver) Cached() (ResolvedCLI, bool) {
	return r.cli.Cached()
}

// CLIPath returns the path of the last resolution, if one was found.
func (r *Resolver) CLIPath() (string, bool) {
	return r.cli.Path()
}

// CLIVersion returns the version of the last resolution, if one was read.
func (r *Resolver) CLIVersion() (*VersionInfo, bool) {
	return r.cli.Version()
}

// MinimumVersion returns the minimum supported CLI version.
func (r *Resolver) MinimumVersion() string {
	return r.cli.Minimum()
}

// ClearResolutionCache forces the next Resolve to run again.
func (r *Resolver) ClearResolutionCache() {
	r.cli.ClearCache()
}

// Environment returns a copy of the derived shell environment. Derivation
// failures degrade to the host environment; the error is non-nil only when
// ctx ends while waiting.
func (r *Resolver) Environment(ctx context.Context) (Env, error) {
	return r.env.Environment(ctx)
}

// EnvironmentSnapshot returns the cached derivation without deriving.
func (r *Resolver) EnvironmentSnapshot() (EnvironmentEntry, bool) {
	return r.env.Snapshot()
}

// ClearEnvironmentCache forces the next Environment call to derive again.
func (r *Resolver) ClearEnvironmentCache() {
	r.env.Clear()
}

// RunWithFallback runs cmd, repairing the host PATH once when the executable
// is not found on an eligible platform.
func (r *Resolver) RunWithFallback(ctx context.Context, cmd Command) (Result, error) {
	return r.fixer.RunWithFallback(ctx, cmd)
}

// PathFixState returns the PATH repair flags this Resolver uses.
func (r *Resolver) PathFixState() *PathFixState {
	return r.fixer.State()
}

// Validate checks path as a CLI location. See the package-level Validate.
func (r *Resolver) Validate(path string) error {
	return Validate(path)
}

// Options returns the effective options with defaults applied.
func (r *Resolver) Options() Options {
	return r.opts
}

// Validate checks that path is an absolute, canonical, existing regular file
// that the current user may execute. A failure is a *ValidationError.
func Validate(path string) error {
	return cli.ValidatePath(path)
}

// ParseVersion extracts the first MAJOR.MINOR.PATCH from CLI output and
// rates it against MinimumVersion. It returns nil when there is none.
func ParseVersion(output string) *VersionInfo {
	return cli.ParseVersion(output)
}

// BuildPath returns the host PATH extended with the usual CLI install
// directories, deduplicated.
func BuildPath() string {
	return platform.BuildPath(platform.InputsFromEnv(os.Getenv), runtime.GOOS)
}
