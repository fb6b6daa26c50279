package process

import (
	"context"
	stderrors "errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wagiedev/claude-cli-env/internal/errors"
)

func skipOnWindows(t *testing.T) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("uses /bin/sh")
	}
}

func TestOSRunner_CapturesOutputWithExplicitEnv(t *testing.T) {
	skipOnWindows(t)

	res, err := OSRunner{}.Run(context.Background(), Command{
		Name: "/bin/sh",
		Args: []string{"-c", `printf '%s' "$GREETING"; printf 'warn' >&2`},
		Env:  Env{"GREETING": "hello"},
	})

	require.NoError(t, err)
	require.Equal(t, "hello", res.Stdout)
	require.Equal(t, "warn", res.Stderr)
}

func TestOSRunner_ExitError(t *testing.T) {
	skipOnWindows(t)

	_, err := OSRunner{}.Run(context.Background(), Command{
		Name: "/bin/sh",
		Args: []string{"-c", "echo boom >&2; exit 3"},
	})

	require.Error(t, err)

	procErr, ok := stderrors.AsType[*errors.ProcessError](err)
	require.True(t, ok)
	require.Equal(t, 3, procErr.ExitCode)
	require.Equal(t, "boom", procErr.Stderr)
	require.False(t, IsNotFound(err))
}

func TestOSRunner_Timeout(t *testing.T) {
	skipOnWindows(t)

	_, err := OSRunner{}.Run(context.Background(), Command{
		Name:    "/bin/sh",
		Args:    []string{"-c", "exec sleep 5"},
		Timeout: 50 * time.Millisecond,
	})

	require.ErrorIs(t, err, errors.ErrCommandTimeout)
	require.False(t, IsNotFound(err))
}

func TestOSRunner_EmptyCommand(t *testing.T) {
	_, err := OSRunner{}.Run(context.Background(), Command{})

	require.ErrorIs(t, err, errors.ErrEmptyCommand)
}

func TestOSRunner_NotFound(t *testing.T) {
	t.Run("bare name", func(t *testing.T) {
		_, err := OSRunner{}.Run(context.Background(), Command{Name: "definitely-not-a-real-binary-7f3a"})

		require.True(t, IsNotFound(err))
	})

	t.Run("absolute path", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "missing")

		_, err := OSRunner{}.Run(context.Background(), Command{Name: missing})

		require.True(t, IsNotFound(err))
	})

	t.Run("missing working directory", func(t *testing.T) {
		skipOnWindows(t)

		_, err := OSRunner{}.Run(context.Background(), Command{
			Name: "/bin/sh",
			Args: []string{"-c", "true"},
			Dir:  filepath.Join(t.TempDir(), "gone"),
		})

		require.Error(t, err)
		require.ErrorIs(t, err, os.ErrNotExist)
		require.False(t, IsNotFound(err))
	})
}

func TestIsNotFound(t *testing.T) {
	require.False(t, IsNotFound(nil))
	require.True(t, IsNotFound(&exec.Error{Name: "claude", Err: exec.ErrNotFound}))
	require.True(t, IsNotFound(&os.PathError{Op: "fork/exec", Path: "/x", Err: os.ErrNotExist}))
	require.True(t, IsNotFound(&errors.ProcessError{
		Command:  "/x",
		ExitCode: -1,
		Err:      &os.PathError{Op: "fork/exec", Path: "/x", Err: os.ErrNotExist},
	}))
	require.False(t, IsNotFound(&os.PathError{Op: "chdir", Path: "/gone", Err: os.ErrNotExist}))
	require.False(t, IsNotFound(&os.PathError{Op: "open", Path: "/x", Err: os.ErrNotExist}))
	require.False(t, IsNotFound(stderrors.New("exit status 1")))
}

func TestCommand_String(t *testing.T) {
	require.Equal(t, "claude --version", Command{Name: "claude", Args: []string{"--version"}}.String())
}
