package shellenv

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/user"
	"runtime"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/wagiedev/claude-cli-env/internal/errors"
	"github.com/wagiedev/claude-cli-env/internal/platform"
	"github.com/wagiedev/claude-cli-env/internal/process"
)

const (
	// DefaultShellTimeout bounds the login shell spawn.
	DefaultShellTimeout = 5 * time.Second

	// DefaultFullTTL is how long a login shell derivation stays cached.
	DefaultFullTTL = time.Minute

	// DefaultFallbackTTL is how long a degraded derivation stays cached.
	DefaultFallbackTTL = 10 * time.Second
)

// loginShellArgs start a login shell without -i: interactive profiles may
// prompt on a TTY or print banners into the dump.
var loginShellArgs = []string{"-l", "-c", "env"}

// Config holds configuration for a Provider. Zero fields take defaults.
type Config struct {
	// Logger receives debug and warning messages. If nil, logging is disabled.
	Logger *slog.Logger

	// Runner spawns the login shell. Defaults to process.OSRunner.
	Runner process.Runner

	// GOOS selects platform behavior. Defaults to runtime.GOOS.
	GOOS string

	// Shell overrides the login shell. When empty, SHELL is used if it exists,
	// then the platform shell candidates.
	Shell string

	// Timeout bounds the login shell spawn.
	Timeout time.Duration

	// FullTTL and FallbackTTL set cache lifetimes for full and degraded derivations.
	FullTTL     time.Duration
	FallbackTTL time.Duration

	// SensitiveKeys are removed from every returned environment in addition
	// to DefaultSensitiveKeys, which are always removed.
	SensitiveKeys []string

	// Cache holds derived environments. Pass a shared Cache to let several
	// providers reuse one derivation; defaults to a private cache.
	Cache *Cache

	// Environ, Now, FileExists, HomeDir and Username read host state.
	// They default to the os, time and os/user implementations.
	Environ    func() []string
	Now        func() time.Time
	FileExists func(path string) bool
	HomeDir    func() (string, error)
	Username   func() (string, error)
}

// Provider derives and caches the user's shell environment.
// It is safe for concurrent use; concurrent misses share one derivation.
type Provider struct {
	cfg   Config
	log   *slog.Logger
	cache *Cache
	group singleflight.Group
}

// NewProvider creates a Provider with the given configuration.
func NewProvider(cfg *Config) *Provider {
	var c Config
	if cfg != nil {
		c = *cfg
	}

	if c.Runner == nil {
		c.Runner = process.OSRunner{}
	}

	if c.GOOS == "" {
		c.GOOS = runtime.GOOS
	}

	if c.Timeout <= 0 {
		c.Timeout = DefaultShellTimeout
	}

	if c.FullTTL <= 0 {
		c.FullTTL = DefaultFullTTL
	}

	if c.FallbackTTL <= 0 {
		c.FallbackTTL = DefaultFallbackTTL
	}

	c.SensitiveKeys = append(slices.Clone(DefaultSensitiveKeys), c.SensitiveKeys...)

	if c.Cache == nil {
		c.Cache = &Cache{}
	}

	if c.Environ == nil {
		c.Environ = os.Environ
	}

	if c.Now == nil {
		c.Now = time.Now
	}

	if c.FileExists == nil {
		c.FileExists = fileExists
	}

	if c.HomeDir == nil {
		c.HomeDir = os.UserHomeDir
	}

	if c.Username == nil {
		c.Username = currentUsername
	}

	log := c.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Provider{
		cfg:   c,
		log:   log.With("component", "shell_env"),
		cache: c.Cache,
	}
}

// Environment returns the user's environment, deriving it when the cache is
// empty or stale. Derivation failures degrade to the host environment and are
// never returned; the only error is ctx ending while waiting for a derivation
// started by another caller.
//
// The returned map is a private copy.
func (p *Provider) Environment(ctx context.Context) (process.Env, error) {
	if entry, ok := p.fresh(); ok {
		p.log.Debug("Using cached environment", "fallback", entry.Fallback, "keys", len(entry.Env))

		return entry.Env, nil
	}

	ch := p.group.DoChan("environment", func() (any, error) {
		if entry, ok := p.fresh(); ok {
			return entry.Env, nil
		}

		// Detached so one caller giving up does not fail the others sharing this flight.
		entry := p.derive(context.WithoutCancel(ctx))
		p.cache.Store(entry)

		return entry.Env, nil
	})

	select {
	case res := <-ch:
		env, _ := res.Val.(process.Env)

		return env.Clone(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Snapshot returns the cached entry, fresh or not, without deriving.
func (p *Provider) Snapshot() (Entry, bool) {
	return p.cache.Load()
}

// Clear discards the cached environment.
func (p *Provider) Clear() {
	p.log.Debug("Clearing environment cache")
	p.cache.Clear()
}

func (p *Provider) fresh() (Entry, bool) {
	entry, ok := p.cache.Load()
	if !ok || !entry.Fresh(p.cfg.Now(), p.cfg.FullTTL, p.cfg.FallbackTTL) {
		return Entry{}, false
	}

	return entry, true
}

func (p *Provider) derive(ctx context.Context) Entry {
	if !platform.SpawnsLoginShell(p.cfg.GOOS) {
		env := p.synthesize()

		p.log.Debug("Synthesized environment without a shell", "keys", len(env))

		return Entry{Env: env, CapturedAt: p.cfg.Now()}
	}

	env, err := p.fromLoginShell(ctx)
	if err != nil {
		p.log.Warn("Login shell environment unavailable, using process environment", "error", err)

		return Entry{
			Env:        p.finish(p.hostEnv()),
			CapturedAt: p.cfg.Now(),
			Fallback:   true,
		}
	}

	p.log.Debug("Derived environment from login shell", "keys", len(env))

	return Entry{Env: p.finish(env), CapturedAt: p.cfg.Now()}
}

func (p *Provider) fromLoginShell(ctx context.Context) (process.Env, error) {
	shell := p.shell()

	p.log.Debug("Spawning login shell", "shell", shell)

	res, err := p.cfg.Runner.Run(ctx, process.Command{
		Name:    shell,
		Args:    loginShellArgs,
		Timeout: p.cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("run login shell %s: %w", shell, err)
	}

	env := ParseEnv(res.Stdout)
	if env.Get("PATH") == "" {
		return nil, fmt.Errorf("login shell %s: %w", shell, errors.ErrNoPath)
	}

	return env, nil
}

// shell picks the login shell: explicit override, then SHELL, then the
// first platform candidate present on disk.
func (p *Provider) shell() string {
	if p.cfg.Shell != "" {
		return p.cfg.Shell
	}

	if s := p.hostEnv().Get("SHELL"); s != "" && p.cfg.FileExists(s) {
		return s
	}

	candidates := platform.ShellCandidates(p.cfg.GOOS)
	for _, s := range candidates {
		if p.cfg.FileExists(s) {
			return s
		}
	}

	return candidates[len(candidates)-1]
}

// synthesize builds the Windows environment from the process environment.
func (p *Provider) synthesize() process.Env {
	env := p.hostEnv()
	getenv := foldGetenv(env)

	path := platform.BuildPath(platform.InputsFromEnv(getenv), p.cfg.GOOS)
	setFold(env, "PATH", path)

	if getenv("HOME") == "" {
		home := getenv("USERPROFILE")
		if home == "" {
			home, _ = p.cfg.HomeDir()
		}

		if home != "" {
			env["HOME"] = home
		}
	}

	if getenv("USER") == "" {
		name := getenv("USERNAME")
		if name == "" {
			name, _ = p.cfg.Username()
		}

		if name != "" {
			env["USER"] = name
		}
	}

	return p.finish(env)
}

// finish strips sensitive keys and guarantees a non-empty PATH.
func (p *Provider) finish(env process.Env) process.Env {
	stripSensitive(env, p.cfg.SensitiveKeys)

	getenv := foldGetenv(env)
	if getenv("PATH") == "" {
		setFold(env, "PATH", platform.BuildPath(platform.InputsFromEnv(getenv), p.cfg.GOOS))
	}

	return env
}

func (p *Provider) hostEnv() process.Env {
	return process.EnvFromList(p.cfg.Environ())
}

// foldGetenv looks keys up ignoring case, matching Windows semantics where
// PATH is commonly spelled "Path". Exact matches win.
func foldGetenv(env process.Env) func(string) string {
	return func(key string) string {
		if v, ok := env[key]; ok {
			return v
		}

		for k, v := range env {
			if strings.EqualFold(k, key) {
				return v
			}
		}

		return ""
	}
}

// setFold assigns key after removing any differently-cased duplicates.
func setFold(env process.Env, key, value string) {
	for k := range env {
		if strings.EqualFold(k, key) {
			delete(env, k)
		}
	}

	env[key] = value
}

func fileExists(path string) bool {
	info, err := os.Stat(path)

	return err == nil && !info.IsDir()
}

func currentUsername() (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", err
	}

	return u.Username, nil
}
