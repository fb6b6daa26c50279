package cli

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wagiedev/claude-cli-env/internal/errors"
	"github.com/wagiedev/claude-cli-env/internal/process"
)

// scriptedRunner answers commands by their rendered command line. Unknown
// commands fail the way `which` does for a missing program.
type scriptedRunner struct {
	mu       sync.Mutex
	calls    []process.Command
	handlers map[string]func(process.Command) (process.Result, error)
}

func newScriptedRunner() *scriptedRunner {
	return &scriptedRunner{handlers: make(map[string]func(process.Command) (process.Result, error))}
}

func (s *scriptedRunner) on(cmdline, stdout string) *scriptedRunner {
	s.handlers[cmdline] = func(process.Command) (process.Result, error) {
		return process.Result{Stdout: stdout}, nil
	}

	return s
}

func (s *scriptedRunner) onErr(cmdline string, err error) *scriptedRunner {
	s.handlers[cmdline] = func(process.Command) (process.Result, error) {
		return process.Result{}, err
	}

	return s
}

func (s *scriptedRunner) Run(_ context.Context, cmd process.Command) (process.Result, error) {
	s.mu.Lock()
	s.calls = append(s.calls, cmd)
	handler, ok := s.handlers[cmd.String()]
	s.mu.Unlock()

	if !ok {
		return process.Result{}, &errors.ProcessError{
			Command:  cmd.Name,
			ExitCode: 1,
			Err:      stderrors.New("exit status 1"),
		}
	}

	return handler(cmd)
}

func (s *scriptedRunner) callsTo(name string) []process.Command {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []process.Command

	for _, c := range s.calls {
		if c.Name == name {
			out = append(out, c)
		}
	}

	return out
}

func skipOnWindows(t *testing.T) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("relies on POSIX permission bits and absolute paths")
	}
}

func writeExecutable(t *testing.T, dir, name string, mode os.FileMode) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\necho 2.1.5\n"), mode))
	require.NoError(t, os.Chmod(path, mode))

	return path
}
