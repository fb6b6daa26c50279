package shellenv

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wagiedev/claude-cli-env/internal/process"
)

type fakeRunner struct {
	mu    sync.Mutex
	calls []process.Command
	run   func(cmd process.Command) (process.Result, error)
}

func (f *fakeRunner) Run(_ context.Context, cmd process.Command) (process.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	f.mu.Unlock()

	return f.run(cmd)
}

func (f *fakeRunner) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.calls)
}

func shellOutput(out string) *fakeRunner {
	return &fakeRunner{run: func(process.Command) (process.Result, error) {
		return process.Result{Stdout: out}, nil
	}}
}

func failingShell() *fakeRunner {
	return &fakeRunner{run: func(process.Command) (process.Result, error) {
		return process.Result{}, stderrors.New("exec: /bin/zsh: permission denied")
	}}
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestProvider(runner process.Runner, clock *fakeClock, host ...string) *Provider {
	return NewProvider(&Config{
		Runner:  runner,
		GOOS:    "darwin",
		Shell:   "/bin/zsh",
		Environ: func() []string { return host },
		Now:     clock.Now,
	})
}

func TestParseEnv(t *testing.T) {
	env := ParseEnv("PATH=/usr/bin:/bin\r\nHOME=/Users/ada\nOPTS=a=b\n=hidden\nbanner line\n\n")

	require.Equal(t, process.Env{
		"PATH": "/usr/bin:/bin",
		"HOME": "/Users/ada",
		"OPTS": "a=b",
	}, env)
}

func TestProvider_CustomSensitiveKeysKeepDefaults(t *testing.T) {
	runner := shellOutput(strings.Join([]string{
		"PATH=/usr/bin",
		"ANTHROPIC_API_KEY=sk-secret",
		"GITHUB_TOKEN=ghp-secret",
	}, "\n"))
	p := NewProvider(&Config{
		Runner:        runner,
		GOOS:          "darwin",
		Shell:         "/bin/zsh",
		Environ:       func() []string { return nil },
		Now:           newClock().Now,
		SensitiveKeys: []string{"GITHUB_TOKEN"},
	})

	env, err := p.Environment(context.Background())

	require.NoError(t, err)
	require.Equal(t, process.Env{"PATH": "/usr/bin"}, env)
}

func TestProvider_FullDerivation(t *testing.T) {
	runner := shellOutput(strings.Join([]string{
		"PATH=/opt/homebrew/bin:/usr/bin",
		"HOME=/Users/ada",
		"LANG=en_US.UTF-8",
		"ANTHROPIC_API_KEY=sk-secret",
		"CLAUDE_CODE_USE_BEDROCK=1",
		"anthropic_auth_token=lowercase",
	}, "\n"))
	p := newTestProvider(runner, newClock(), "PATH=/usr/bin:/bin")

	env, err := p.Environment(context.Background())

	require.NoError(t, err)
	require.Equal(t, process.Env{
		"PATH": "/opt/homebrew/bin:/usr/bin",
		"HOME": "/Users/ada",
		"LANG": "en_US.UTF-8",
	}, env)

	require.Len(t, runner.calls, 1)
	require.Equal(t, "/bin/zsh", runner.calls[0].Name)
	require.Equal(t, []string{"-l", "-c", "env"}, runner.calls[0].Args)
	require.Equal(t, DefaultShellTimeout, runner.calls[0].Timeout)

	snap, ok := p.Snapshot()
	require.True(t, ok)
	require.False(t, snap.Fallback)
}

func TestProvider_CopyOnRead(t *testing.T) {
	runner := shellOutput("PATH=/usr/bin\nHOME=/Users/ada\n")
	p := newTestProvider(runner, newClock())

	first, err := p.Environment(context.Background())
	require.NoError(t, err)

	second, err := p.Environment(context.Background())
	require.NoError(t, err)
	require.Equal(t, first, second)

	first["PATH"] = "/tampered"
	second["INJECTED"] = "1"

	third, err := p.Environment(context.Background())
	require.NoError(t, err)
	require.Equal(t, process.Env{"PATH": "/usr/bin", "HOME": "/Users/ada"}, third)
	require.Equal(t, 1, runner.count())
}

func TestProvider_FallbackOnShellFailure(t *testing.T) {
	clock := newClock()
	runner := failingShell()
	p := newTestProvider(runner, clock, "PATH=/usr/bin:/bin", "HOME=/Users/ada", "ANTHROPIC_API_KEY=sk-secret", "junk")

	env, err := p.Environment(context.Background())

	require.NoError(t, err)
	require.Equal(t, process.Env{"PATH": "/usr/bin:/bin", "HOME": "/Users/ada"}, env)

	snap, ok := p.Snapshot()
	require.True(t, ok)
	require.True(t, snap.Fallback)

	clock.Advance(DefaultFallbackTTL - time.Second)
	_, err = p.Environment(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, runner.count())

	clock.Advance(time.Second)
	_, err = p.Environment(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, runner.count(), "fallback entry should expire after its short TTL")
}

func TestProvider_FullTTL(t *testing.T) {
	clock := newClock()
	runner := shellOutput("PATH=/usr/bin\n")
	p := newTestProvider(runner, clock)

	_, err := p.Environment(context.Background())
	require.NoError(t, err)

	clock.Advance(DefaultFullTTL - time.Second)
	_, err = p.Environment(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, runner.count())

	clock.Advance(time.Second)
	_, err = p.Environment(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, runner.count())
}

func TestEntry_FallbackExpiresBeforeFull(t *testing.T) {
	captured := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	full := Entry{CapturedAt: captured}
	fallback := Entry{CapturedAt: captured, Fallback: true}

	for _, age := range []time.Duration{0, 5 * time.Second, 10 * time.Second, 59 * time.Second, time.Minute} {
		now := captured.Add(age)
		if full.Fresh(now, DefaultFullTTL, DefaultFallbackTTL) {
			continue
		}

		require.False(t, fallback.Fresh(now, DefaultFullTTL, DefaultFallbackTTL), "age %s", age)
	}

	now := captured.Add(30 * time.Second)
	require.True(t, full.Fresh(now, DefaultFullTTL, DefaultFallbackTTL))
	require.False(t, fallback.Fresh(now, DefaultFullTTL, DefaultFallbackTTL))
}

func TestProvider_ShellOutputWithoutPathFallsBack(t *testing.T) {
	runner := shellOutput("HOME=/Users/ada\nTERM=xterm\n")
	p := newTestProvider(runner, newClock(), "PATH=/usr/bin")

	env, err := p.Environment(context.Background())

	require.NoError(t, err)
	require.Equal(t, "/usr/bin", env["PATH"])

	snap, _ := p.Snapshot()
	require.True(t, snap.Fallback)
}

func TestProvider_FallbackAlwaysHasPath(t *testing.T) {
	p := newTestProvider(failingShell(), newClock(), "HOME=/Users/ada")

	env, err := p.Environment(context.Background())

	require.NoError(t, err)
	require.NotEmpty(t, env["PATH"])
	require.Contains(t, strings.Split(env["PATH"], ":"), "/Users/ada/.local/bin")
}

func TestProvider_WindowsSynthesizesWithoutShell(t *testing.T) {
	runner := &fakeRunner{run: func(cmd process.Command) (process.Result, error) {
		t.Errorf("unexpected spawn of %s on windows", cmd)

		return process.Result{}, nil
	}}

	p := NewProvider(&Config{
		Runner: runner,
		GOOS:   "windows",
		Environ: func() []string {
			return []string{
				`Path=C:\Tools`,
				`USERPROFILE=C:\Users\ada`,
				`USERNAME=ada`,
				`SystemRoot=C:\Windows`,
				`ANTHROPIC_API_KEY=sk-secret`,
				`=C:=C:\`,
			}
		},
		Now: newClock().Now,
	})

	env, err := p.Environment(context.Background())

	require.NoError(t, err)
	require.NotContains(t, env, "Path")
	require.NotContains(t, env, "ANTHROPIC_API_KEY")
	require.Equal(t, `C:\Users\ada`, env["HOME"])
	require.Equal(t, "ada", env["USER"])

	dirs := strings.Split(env["PATH"], ";")
	require.Equal(t, `C:\Tools`, dirs[0])
	require.Contains(t, dirs, `C:\Windows\System32`)
	require.Contains(t, dirs, `C:\Users\ada\.local\bin`)

	snap, ok := p.Snapshot()
	require.True(t, ok)
	require.False(t, snap.Fallback)
	require.Zero(t, runner.count())
}

func TestProvider_WindowsIdentityFromOS(t *testing.T) {
	p := NewProvider(&Config{
		GOOS:     "windows",
		Environ:  func() []string { return nil },
		HomeDir:  func() (string, error) { return `D:\home`, nil },
		Username: func() (string, error) { return "svc", nil },
	})

	env, err := p.Environment(context.Background())

	require.NoError(t, err)
	require.Equal(t, `D:\home`, env["HOME"])
	require.Equal(t, "svc", env["USER"])
}

func TestProvider_Clear(t *testing.T) {
	runner := shellOutput("PATH=/usr/bin\n")
	p := newTestProvider(runner, newClock())

	_, err := p.Environment(context.Background())
	require.NoError(t, err)

	p.Clear()

	_, ok := p.Snapshot()
	require.False(t, ok)

	_, err = p.Environment(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, runner.count())
}

func TestProvider_ShellSelection(t *testing.T) {
	tests := []struct {
		name     string
		host     []string
		existing []string
		want     string
	}{
		{"SHELL present", []string{"SHELL=/usr/local/bin/fish"}, []string{"/usr/local/bin/fish", "/bin/zsh"}, "/usr/local/bin/fish"},
		{"SHELL missing on disk", []string{"SHELL=/nix/bash"}, []string{"/bin/zsh"}, "/bin/zsh"},
		{"no SHELL", nil, []string{"/bin/bash"}, "/bin/bash"},
		{"nothing exists", nil, nil, "/bin/sh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := shellOutput("PATH=/usr/bin\n")
			p := NewProvider(&Config{
				Runner:  runner,
				GOOS:    "darwin",
				Environ: func() []string { return tt.host },
				FileExists: func(path string) bool {
					for _, e := range tt.existing {
						if e == path {
							return true
						}
					}

					return false
				},
			})

			_, err := p.Environment(context.Background())
			require.NoError(t, err)
			require.Equal(t, tt.want, runner.calls[0].Name)
		})
	}
}

func TestProvider_ConcurrentCallsShareOneDerivation(t *testing.T) {
	release := make(chan struct{})
	runner := &fakeRunner{run: func(process.Command) (process.Result, error) {
		<-release

		return process.Result{Stdout: "PATH=/usr/bin\n"}, nil
	}}
	p := newTestProvider(runner, newClock())

	var wg sync.WaitGroup

	results := make([]process.Env, 8)
	for i := range results {
		wg.Go(func() {
			env, err := p.Environment(context.Background())
			if err == nil {
				results[i] = env
			}
		})
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	require.Equal(t, 1, runner.count())

	for _, env := range results {
		require.Equal(t, "/usr/bin", env["PATH"])
	}
}

func TestProvider_CallerCancellation(t *testing.T) {
	release := make(chan struct{})
	runner := &fakeRunner{run: func(process.Command) (process.Result, error) {
		<-release

		return process.Result{Stdout: "PATH=/usr/bin\n"}, nil
	}}
	p := newTestProvider(runner, newClock())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Environment(ctx)
	require.ErrorIs(t, err, context.Canceled)

	close(release)

	env, err := p.Environment(context.Background())
	require.NoError(t, err)
	require.Equal(t, "/usr/bin", env["PATH"])
	require.Equal(t, 1, runner.count())
}
