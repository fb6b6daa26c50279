package clienv

import "github.com/wagiedev/claude-cli-env/internal/errors"

// Re-export error types from internal package

// CLINotFoundError indicates neither the configured path nor PATH produced a CLI.
type CLINotFoundError = errors.CLINotFoundError

// ValidationError indicates a CLI path failed a security or type check.
type ValidationError = errors.ValidationError

// ValidationRule names the check a ValidationError failed.
type ValidationRule = errors.ValidationRule

// VersionError indicates the CLI is older than the supported minimum.
type VersionError = errors.VersionError

// ProcessError indicates a spawned process failed.
type ProcessError = errors.ProcessError

// CLIEnvError is the base interface for all errors of this package.
type CLIEnvError = errors.CLIEnvError

// Re-export validation rules from internal package.
const (
	RuleNotAbsolute   = errors.RuleNotAbsolute
	RuleNotNormalized = errors.RuleNotNormalized
	RuleTraversal     = errors.RuleTraversal
	RuleNotExist      = errors.RuleNotExist
	RuleDirectory     = errors.RuleDirectory
	RuleNotRegular    = errors.RuleNotRegular
	RuleNotExecutable = errors.RuleNotExecutable
	RuleAccess        = errors.RuleAccess
)

// Re-export sentinel errors from internal package.
var (
	// ErrEmptyCommand indicates a command without an executable name.
	ErrEmptyCommand = errors.ErrEmptyCommand

	// ErrCommandTimeout indicates a command exceeded its time budget.
	ErrCommandTimeout = errors.ErrCommandTimeout

	// ErrVersionUndetermined indicates the CLI version could not be read.
	ErrVersionUndetermined = errors.ErrVersionUndetermined

	// ErrNoPath indicates a derived environment carried no PATH.
	ErrNoPath = errors.ErrNoPath
)
