// Package shellenv reconstructs the user's login shell environment for
// processes started from an impoverished launcher, such as a GUI app opened
// from the macOS Dock.
//
// On Unix-like systems the Provider spawns the user's shell as a
// non-interactive login shell and captures its environment dump. If that
// fails, it degrades to a copy of the host process environment and caches the
// result for a shorter time so the shell is retried sooner. On Windows no shell
// is spawned; the environment is synthesized from the process environment and
// the platform PATH builder.
//
//	provider := shellenv.NewProvider(&shellenv.Config{Logger: slog.Default()})
//	env, err := provider.Environment(ctx)
//
// Credentials and cloud-auth toggles are removed from every environment the
// Provider hands out.
package shellenv
