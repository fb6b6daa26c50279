// Package errors defines error types for CLI environment resolution.
//
// This package provides structured error types for the failure scenarios of
// locating, validating and running the Claude CLI. All error types support
// error unwrapping and can be checked using errors.Is, errors.As, and errors.AsType.
package errors
