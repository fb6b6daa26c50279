package pathfix

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"slices"
	"time"

	"github.com/wagiedev/claude-cli-env/internal/platform"
	"github.com/wagiedev/claude-cli-env/internal/process"
)

// DefaultCommandTimeout bounds a command run without its own timeout.
const DefaultCommandTimeout = 10 * time.Second

// DefaultPlatforms lists the platforms whose GUI launchers start apps with a
// minimal PATH.
var DefaultPlatforms = []string{platform.Darwin}

// EnvironmentSource supplies the user's shell environment.
type EnvironmentSource interface {
	Environment(ctx context.Context) (process.Env, error)
}

// Config holds configuration for a Fixer.
type Config struct {
	// Runner runs commands. Defaults to process.OSRunner.
	Runner process.Runner

	// Env derives the environment used for the repair. Required for any repair to happen.
	Env EnvironmentSource

	// GOOS is the host platform. Defaults to runtime.GOOS.
	GOOS string

	// Platforms overrides the platforms eligible for repair.
	Platforms []string

	// Setenv applies the repaired PATH to the host process. Defaults to os.Setenv.
	Setenv func(key, value string) error

	// State holds the repair flags. A fresh State is used when nil.
	State *State

	// Timeout applies to commands that carry no timeout.
	Timeout time.Duration

	// Logger is an optional logger. If nil, logging is disabled.
	Logger *slog.Logger
}

// Fixer runs commands with a one-time PATH repair on "not found" failures.
type Fixer struct {
	runner    process.Runner
	env       EnvironmentSource
	goos      string
	platforms []string
	setenv    func(key, value string) error
	state     *State
	timeout   time.Duration
	log       *slog.Logger
}

// NewFixer creates a Fixer with the given configuration.
func NewFixer(cfg *Config) *Fixer {
	if cfg == nil {
		cfg = &Config{}
	}

	f := &Fixer{
		runner:    cfg.Runner,
		env:       cfg.Env,
		goos:      cfg.GOOS,
		platforms: cfg.Platforms,
		setenv:    cfg.Setenv,
		state:     cfg.State,
		timeout:   cfg.Timeout,
		log:       cfg.Logger,
	}

	if f.runner == nil {
		f.runner = process.OSRunner{}
	}

	if f.goos == "" {
		f.goos = runtime.GOOS
	}

	if f.platforms == nil {
		f.platforms = DefaultPlatforms
	}

	if f.setenv == nil {
		f.setenv = os.Setenv
	}

	if f.state == nil {
		f.state = &State{}
	}

	if f.timeout <= 0 {
		f.timeout = DefaultCommandTimeout
	}

	if f.log == nil {
		f.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	f.log = f.log.With("component", "path_fix")

	return f
}

// State returns the repair flags used by f.
func (f *Fixer) State() *State {
	return f.state
}

// RunWithFallback runs cmd. If it fails because the executable was not found
// on an eligible platform and no repair has been made yet, the user's shell
// environment is derived, its PATH is applied to the host process and cmd is
// retried once with the derived environment under cmd.Env.
//
// When the repair cannot be derived the original error is returned. When the
// retry fails its error is returned and a later call may try again.
func (f *Fixer) RunWithFallback(ctx context.Context, cmd process.Command) (process.Result, error) {
	if cmd.Timeout <= 0 {
		cmd.Timeout = f.timeout
	}

	res, err := f.runner.Run(ctx, cmd)
	if err == nil {
		return res, nil
	}

	if !process.IsNotFound(err) || !slices.Contains(f.platforms, f.goos) {
		return res, err
	}

	if f.env == nil || !f.state.begin() {
		return res, err
	}

	log := f.log.With("command", cmd.Name)
	log.Info("Command not found, deriving shell environment to repair PATH")

	derived, derr := f.env.Environment(ctx)
	path := derived.Get("PATH")

	if derr != nil || path == "" {
		log.Warn("Could not derive a PATH for repair", "error", derr)
		f.state.finish(false)

		return res, err
	}

	if serr := f.setenv("PATH", path); serr != nil {
		log.Warn("Could not update process PATH", "error", serr)
		f.state.finish(false)

		return res, err
	}

	retry := cmd
	retry.Env = derived.Merge(cmd.Env)
	retry.Env["PATH"] = path

	res, err = f.runner.Run(ctx, retry)
	if err != nil {
		log.Warn("Command still failing after PATH repair", "error", err)
		f.state.finish(false)

		return res, err
	}

	log.Info("Repaired process PATH")
	f.state.finish(true)

	return res, nil
}
