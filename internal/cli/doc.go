// Package cli locates, validates and version-checks the Claude CLI binary.
//
// This package provides four capabilities:
//
// # PATH Lookup
//
// PathLookup asks the platform's native lookup tool (which, or where on
// Windows) for each candidate executable name using a supplied environment.
// The first reported location that exists on disk wins; per-candidate
// failures are skipped.
//
// # Path Validation
//
// ValidatePath rejects relative, non-canonical and traversal paths, missing
// files, directories and, outside Windows, files without the owner execute bit.
//
// # Version Probing
//
// Prober runs the executable with --version and compares the first
// MAJOR.MINOR.PATCH found in its output against MinimumVersion (2.0.0).
//
// # Resolution
//
// Resolver sequences the steps into one cached ResolvedCLI:
//
//	resolver := cli.NewResolver(&cli.Config{
//	    Env:    provider,
//	    Logger: slog.Default(),
//	})
//	result := resolver.Resolve(ctx, cli.ResolveOptions{ConfiguredPath: userPath})
//	if result.Status != cli.StatusOK {
//	    fmt.Println(result.Error)
//	}
//
// Resolution order:
//  1. The configured path, if it passes validation
//  2. PATH lookup in the derived shell environment
//
// Results, including failures, are cached until ClearCache or SkipCache.
package cli
