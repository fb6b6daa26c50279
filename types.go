package clienv

import (
	"github.com/wagiedev/claude-cli-env/internal/cli"
	"github.com/wagiedev/claude-cli-env/internal/pathfix"
	"github.com/wagiedev/claude-cli-env/internal/process"
	"github.com/wagiedev/claude-cli-env/internal/shellenv"
)

// Env is a set of environment variables keyed by name.
type Env = process.Env

// Command describes a process to run.
type Command = process.Command

// Result holds the captured output of a finished command.
type Result = process.Result

// Runner executes commands. Inject one with WithRunner to control every spawn.
type Runner = process.Runner

// ResolveOptions are the per-call inputs to Resolve.
type ResolveOptions = cli.ResolveOptions

// ResolvedCLI is the outcome of one resolution attempt.
type ResolvedCLI = cli.ResolvedCLI

// VersionInfo is a parsed CLI version.
type VersionInfo = cli.VersionInfo

// HealthStatus classifies a resolution outcome.
type HealthStatus = cli.HealthStatus

// EnvironmentEntry is a cached environment derivation.
type EnvironmentEntry = shellenv.Entry

// PathFixState records the process-wide PATH repair flags.
type PathFixState = pathfix.State

// Health statuses.
const (
	StatusOK                  = cli.StatusOK
	StatusMissing             = cli.StatusMissing
	StatusVersionIncompatible = cli.StatusVersionIncompatible
	StatusPermissionError     = cli.StatusPermissionError
	StatusValidationError     = cli.StatusValidationError
)

// MinimumVersion is the oldest CLI version supported by default.
const MinimumVersion = cli.MinimumVersion
