package errors

import (
	"errors"
	"fmt"
	"strings"
)

// CLIEnvError is the base interface for all errors produced by this module.
type CLIEnvError interface {
	error
	IsCLIEnvError() bool
}

// Compile-time verification that all error types implement CLIEnvError.
var (
	_ CLIEnvError = (*CLINotFoundError)(nil)
	_ CLIEnvError = (*ValidationError)(nil)
	_ CLIEnvError = (*VersionError)(nil)
	_ CLIEnvError = (*ProcessError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrEmptyCommand indicates a command was run without an executable name.
	ErrEmptyCommand = errors.New("empty command")

	// ErrCommandTimeout indicates a spawned process exceeded its time budget.
	ErrCommandTimeout = errors.New("command timed out")

	// ErrVersionUndetermined indicates the CLI ran but no version could be read from it.
	ErrVersionUndetermined = errors.New(
		"could not determine claude CLI version; the executable may be corrupted or not the claude CLI",
	)

	// ErrNoPath indicates a derived environment carried no PATH.
	ErrNoPath = errors.New("environment has no PATH")
)

// CLINotFoundError indicates the Claude CLI binary was not found.
//
// ConfiguredPath is set when the caller supplied a path that failed validation;
// the message then reports both that failure and the failed PATH lookup.
type CLINotFoundError struct {
	ConfiguredPath   string
	ConfiguredReason string
	SearchedNames    []string
}

func (e *CLINotFoundError) Error() string {
	if e.ConfiguredPath != "" {
		return fmt.Sprintf(
			"configured CLI path %q is unusable (%s), and claude was not found on PATH either",
			e.ConfiguredPath, e.ConfiguredReason,
		)
	}

	if len(e.SearchedNames) > 0 {
		return fmt.Sprintf(
			"claude CLI not found on PATH (looked for %s). Install it or set its location in settings",
			strings.Join(e.SearchedNames, ", "),
		)
	}

	return "claude CLI not found on PATH. Install it or set its location in settings"
}

// IsCLIEnvError implements CLIEnvError.
func (e *CLINotFoundError) IsCLIEnvError() bool { return true }

// ValidationRule names the path check that rejected a candidate executable.
type ValidationRule string

const (
	// RuleNotAbsolute rejects relative paths.
	RuleNotAbsolute ValidationRule = "not_absolute"
	// RuleNotNormalized rejects paths that differ from their cleaned form.
	RuleNotNormalized ValidationRule = "not_normalized"
	// RuleTraversal rejects paths with "." or ".." segments.
	RuleTraversal ValidationRule = "traversal"
	// RuleNotExist rejects paths that do not exist.
	RuleNotExist ValidationRule = "not_exist"
	// RuleDirectory rejects directories.
	RuleDirectory ValidationRule = "directory"
	// RuleNotRegular rejects devices, sockets and other non-regular files.
	RuleNotRegular ValidationRule = "not_regular"
	// RuleNotExecutable rejects files without the owner execute bit.
	RuleNotExecutable ValidationRule = "not_executable"
	// RuleAccess covers any other filesystem error while inspecting the path.
	RuleAccess ValidationRule = "access"
)

// ValidationError indicates a candidate CLI path failed a security or type check.
type ValidationError struct {
	Path   string
	Rule   ValidationRule
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsCLIEnvError implements CLIEnvError.
func (e *ValidationError) IsCLIEnvError() bool { return true }

// VersionError indicates the CLI reported a version below the supported minimum.
type VersionError struct {
	Found   string
	Minimum string
}

func (e *VersionError) Error() string {
	return fmt.Sprintf(
		"claude CLI version %s is below the minimum supported version %s; please upgrade",
		e.Found, e.Minimum,
	)
}

// IsCLIEnvError implements CLIEnvError.
func (e *VersionError) IsCLIEnvError() bool { return true }

// ProcessError indicates a spawned process failed.
type ProcessError struct {
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed (exit %d): %v", e.Command, e.ExitCode, e.Err)
	}

	return fmt.Sprintf("%s failed (exit %d): %s", e.Command, e.ExitCode, e.Stderr)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// IsCLIEnvError implements CLIEnvError.
func (e *ProcessError) IsCLIEnvError() bool { return true }
