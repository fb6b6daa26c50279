// Package platform holds the per-operating-system knowledge used to locate the
// Claude CLI: candidate install directories, executable names, the native
// "locate in PATH" tool and login shell fallbacks.
//
// Every function takes the target GOOS explicitly so the Windows rules can be
// exercised from any host.
package platform
