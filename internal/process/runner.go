package process

import (
	"bytes"
	"context"
	stderrors "errors"
	"io/fs"
	"os/exec"
	"strings"
	"time"

	"github.com/wagiedev/claude-cli-env/internal/errors"
)

const (
	// DefaultTimeout bounds a command that did not set its own Timeout.
	DefaultTimeout = 10 * time.Second

	// waitDelay caps how long Run waits for grandchildren holding the output
	// pipes after the direct child was killed.
	waitDelay = 500 * time.Millisecond
)

// Command describes one invocation of an external program.
type Command struct {
	// Name is the executable, either a bare name resolved through the host
	// process PATH or an absolute path.
	Name string

	// Args are passed after Name.
	Args []string

	// Env is used verbatim as the child environment. When nil the child
	// inherits the host process environment.
	Env Env

	// Dir is the working directory; empty means the current one.
	Dir string

	// Timeout bounds the run. Zero means DefaultTimeout.
	Timeout time.Duration
}

// String renders the command line for logs and error messages.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Result holds the captured output of a finished command.
type Result struct {
	Stdout string
	Stderr string
}

// Runner executes commands. Implementations must honor ctx and Command.Timeout.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// OSRunner runs commands as child processes of the host.
type OSRunner struct{}

// Compile-time verification that OSRunner implements Runner.
var _ Runner = OSRunner{}

// Run executes cmd and waits for it. Failures are returned as *errors.ProcessError;
// a run that exceeds its timeout also matches errors.ErrCommandTimeout.
func (OSRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	if cmd.Name == "" {
		return Result{}, errors.ErrEmptyCommand
	}

	timeout := cmd.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	//nolint:gosec // G204: running caller-selected executables is the purpose of this package
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.WaitDelay = waitDelay

	if cmd.Env != nil {
		c.Env = cmd.Env.List()
	}

	var stdout, stderr bytes.Buffer

	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}

	if err == nil {
		return res, nil
	}

	if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = stderrors.Join(errors.ErrCommandTimeout, err)
	}

	exitCode := -1
	if exitErr, ok := stderrors.AsType[*exec.ExitError](err); ok {
		exitCode = exitErr.ExitCode()
	}

	return res, &errors.ProcessError{
		Command:  cmd.Name,
		ExitCode: exitCode,
		Stderr:   strings.TrimSpace(res.Stderr),
		Err:      err,
	}
}

// IsNotFound reports whether err means the executable itself could not be
// found, as opposed to the program running and failing. A missing working
// directory is not a missing executable.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}

	if stderrors.Is(err, exec.ErrNotFound) {
		return true
	}

	// Starting an absolute path that does not exist surfaces as *fs.PathError
	// from the spawn itself.
	pathErr, ok := stderrors.AsType[*fs.PathError](err)
	if !ok {
		return false
	}

	switch pathErr.Op {
	case "fork/exec", "exec":
		return stderrors.Is(pathErr.Err, fs.ErrNotExist)
	default:
		return false
	}
}
