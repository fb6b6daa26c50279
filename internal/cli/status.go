package cli

// HealthStatus classifies the outcome of one resolution attempt.
type HealthStatus string

const (
	// StatusOK means a validated, compatible CLI was found.
	StatusOK HealthStatus = "ok"
	// StatusMissing means neither the configured path nor PATH lookup produced a CLI.
	StatusMissing HealthStatus = "missing"
	// StatusVersionIncompatible means the CLI is too old or its version could not be read.
	StatusVersionIncompatible HealthStatus = "version_incompatible"
	// StatusPermissionError means the CLI exists but may not be executed or inspected.
	StatusPermissionError HealthStatus = "permission_error"
	// StatusValidationError means the CLI path failed a security or type check.
	StatusValidationError HealthStatus = "validation_error"
)

// Healthy reports whether the CLI is usable.
func (s HealthStatus) Healthy() bool {
	return s == StatusOK
}
