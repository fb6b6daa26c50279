package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/singleflight"

	"github.com/wagiedev/claude-cli-env/internal/errors"
	"github.com/wagiedev/claude-cli-env/internal/process"
)

// EnvironmentSource supplies the environment used for lookup and probing.
type EnvironmentSource interface {
	Environment(ctx context.Context) (process.Env, error)
}

// hostEnvironment is the EnvironmentSource used when none is configured.
type hostEnvironment struct{}

func (hostEnvironment) Environment(context.Context) (process.Env, error) {
	return process.EnvFromList(os.Environ()), nil
}

// Config holds configuration for a Resolver.
type Config struct {
	// Env supplies the derived shell environment. Defaults to the host environment.
	Env EnvironmentSource

	// Runner runs the lookup tool and the version probe. Defaults to process.OSRunner.
	Runner process.Runner

	// GOOS selects platform behavior. Defaults to runtime.GOOS.
	GOOS string

	// LookupTimeout bounds each PATH lookup attempt.
	LookupTimeout time.Duration

	// VersionTimeout bounds the version probe.
	VersionTimeout time.Duration

	// MinimumVersion overrides the compatibility threshold.
	MinimumVersion string

	// Validate checks candidate paths. Defaults to ValidatePath.
	Validate func(path string) error

	// Environ is used when Env fails. Defaults to os.Environ.
	Environ func() []string

	// Now timestamps results. Defaults to time.Now.
	Now func() time.Time

	// Logger is an optional logger for resolution. If nil, logging is disabled.
	Logger *slog.Logger
}

// ResolveOptions are the per-call inputs to Resolve.
type ResolveOptions struct {
	// ConfiguredPath is the user's chosen CLI location, if any.
	ConfiguredPath string

	// SkipCache forces a fresh resolution.
	SkipCache bool
}

// ResolvedCLI is the outcome of one resolution attempt.
type ResolvedCLI struct {
	// ID identifies the attempt; a cached result keeps the ID of the attempt that produced it.
	ID         string       `json:"id"`
	Path       string       `json:"path,omitempty"`
	Version    *VersionInfo `json:"version,omitempty"`
	Status     HealthStatus `json:"status"`
	Error      string       `json:"error,omitempty"`
	ResolvedAt time.Time    `json:"resolved_at"`
}

// Resolver turns a configured path and the user's environment into a
// ResolvedCLI. Results are cached until ClearCache is called; concurrent
// uncached calls share a single resolution.
type Resolver struct {
	env      EnvironmentSource
	validate func(string) error
	environ  func() []string
	now      func() time.Time
	lookup   *PathLookup
	prober   *Prober
	log      *slog.Logger

	mu     sync.RWMutex
	cached *ResolvedCLI
	group  singleflight.Group
}

// NewResolver creates a Resolver with the given configuration.
// An invalid MinimumVersion is an error.
func NewResolver(cfg *Config) (*Resolver, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	goos := cfg.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}

	prober, err := NewProber(&ProberConfig{
		Runner:         cfg.Runner,
		Timeout:        cfg.VersionTimeout,
		MinimumVersion: cfg.MinimumVersion,
		Logger:         log.With("component", "cli_version"),
	})
	if err != nil {
		return nil, err
	}

	r := &Resolver{
		env:      cfg.Env,
		validate: cfg.Validate,
		environ:  cfg.Environ,
		now:      cfg.Now,
		prober:   prober,
		log:      log.With("component", "cli_resolver"),
		lookup: NewPathLookup(&LookupConfig{
			Runner:  cfg.Runner,
			GOOS:    goos,
			Timeout: cfg.LookupTimeout,
			Logger:  log,
		}),
	}

	if r.env == nil {
		r.env = hostEnvironment{}
	}

	if r.validate == nil {
		r.validate = ValidatePath
	}

	if r.environ == nil {
		r.environ = os.Environ
	}

	if r.now == nil {
		r.now = time.Now
	}

	return r, nil
}

// Resolve returns the cached result unless opts.SkipCache is set, otherwise
// runs configured path, PATH lookup, validation and version probe in order.
// Every outcome, including failures, is cached before it is returned.
func (r *Resolver) Resolve(ctx context.Context, opts ResolveOptions) ResolvedCLI {
	if !opts.SkipCache {
		if cached, ok := r.Cached(); ok {
			r.log.Debug("Using cached resolution", "attempt_id", cached.ID, "status", cached.Status)

			return cached
		}
	}

	key := fmt.Sprintf("%t|%s", opts.SkipCache, opts.ConfiguredPath)

	v, _, _ := r.group.Do(key, func() (any, error) {
		// Detached so one caller giving up cannot cache a false failure; each step has its own timeout.
		result := r.resolve(context.WithoutCancel(ctx), opts)

		r.mu.Lock()
		r.cached = &result
		r.mu.Unlock()

		return result, nil
	})

	result, _ := v.(ResolvedCLI)

	return result
}

// HealthCheck resolves and returns only the status.
func (r *Resolver) HealthCheck(ctx context.Context, opts ResolveOptions) HealthStatus {
	return r.Resolve(ctx, opts).Status
}

// Cached returns the last result without resolving.
func (r *Resolver) Cached() (ResolvedCLI, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.cached == nil {
		return ResolvedCLI{}, false
	}

	return *r.cached, true
}

// Path returns the path from the last result, if one was found.
func (r *Resolver) Path() (string, bool) {
	cached, ok := r.Cached()
	if !ok || cached.Path == "" {
		return "", false
	}

	return cached.Path, true
}

// Version returns the version from the last result, if one was determined.
func (r *Resolver) Version() (*VersionInfo, bool) {
	cached, ok := r.Cached()
	if !ok || cached.Version == nil {
		return nil, false
	}

	return cached.Version, true
}

// ClearCache drops the cached result, typically after the configured path changed.
func (r *Resolver) ClearCache() {
	r.mu.Lock()
	r.cached = nil
	r.mu.Unlock()

	r.log.Debug("Cleared resolution cache")
}

// Minimum returns the minimum supported CLI version.
func (r *Resolver) Minimum() string {
	return r.prober.Minimum()
}

func (r *Resolver) resolve(ctx context.Context, opts ResolveOptions) ResolvedCLI {
	result := ResolvedCLI{ID: ulid.Make().String()}
	log := r.log.With("attempt_id", result.ID)

	log.Debug("Resolving Claude CLI", "configured_path", opts.ConfiguredPath)

	env, err := r.env.Environment(ctx)
	if err != nil || env == nil {
		log.Warn("Environment derivation failed, using process environment", "error", err)

		env = process.EnvFromList(r.environ())
	}

	var configuredReason string

	validated := false

	if opts.ConfiguredPath != "" {
		if err := r.validate(opts.ConfiguredPath); err != nil {
			log.Warn("Configured CLI path rejected", "path", opts.ConfiguredPath, "reason", err)

			configuredReason = err.Error()
		} else {
			result.Path = opts.ConfiguredPath
			validated = true
		}
	}

	if result.Path == "" {
		if found, ok := r.lookup.ResolveFromPath(ctx, env); ok {
			result.Path = found
		}
	}

	if result.Path == "" {
		notFound := &errors.CLINotFoundError{SearchedNames: r.lookup.Names()}
		if opts.ConfiguredPath != "" {
			notFound.ConfiguredPath = opts.ConfiguredPath
			notFound.ConfiguredReason = configuredReason
		}

		return r.finish(log, result, StatusMissing, notFound)
	}

	if !validated {
		if err := r.validate(result.Path); err != nil {
			status := StatusValidationError
			if IsPermissionFailure(err) {
				status = StatusPermissionError
			}

			return r.finish(log, result, status, err)
		}
	}

	result.Version = r.prober.Probe(ctx, result.Path, env)
	if result.Version == nil {
		return r.finish(log, result, StatusVersionIncompatible, errors.ErrVersionUndetermined)
	}

	if !result.Version.Compatible {
		return r.finish(log, result, StatusVersionIncompatible, &errors.VersionError{
			Found:   result.Version.Raw,
			Minimum: r.prober.Minimum(),
		})
	}

	return r.finish(log, result, StatusOK, nil)
}

func (r *Resolver) finish(log *slog.Logger, result ResolvedCLI, status HealthStatus, err error) ResolvedCLI {
	result.Status = status
	result.ResolvedAt = r.now()

	if err != nil {
		result.Error = err.Error()
		log.Warn("Claude CLI unusable", "status", status, "path", result.Path, "error", err)
	} else {
		log.Debug("Resolved Claude CLI", "path", result.Path, "version", result.Version.Raw)
	}

	return result
}
