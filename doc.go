// Package clienv locates the claude CLI and reconstructs the environment it
// needs when the host application was launched with an impoverished one.
//
// GUI applications on macOS inherit a minimal PATH from launchd, so a CLI
// installed through Homebrew, npm or the native installer is invisible to
// them. clienv derives the user's login shell environment, finds the CLI
// through the configured path or a PATH lookup, validates it and checks its
// version.
//
// # Basic Usage
//
//	r, err := clienv.New(clienv.WithLogger(slog.Default()))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result := r.Resolve(ctx, clienv.ResolveOptions{ConfiguredPath: settings.CLIPath})
//	if !result.Status.Healthy() {
//	    fmt.Println(result.Error)
//	}
//
// Results are cached until ClearResolutionCache is called, typically after
// the user changes the configured path. The derived environment is cached
// for a minute, or ten seconds when the login shell could not be spawned.
//
// # Running Commands
//
// Every process that runs the resolved CLI should receive the derived
// environment:
//
//	env, _ := r.Environment(ctx)
//	res, err := r.RunWithFallback(ctx, clienv.Command{Name: result.Path, Args: []string{"doctor"}, Env: env})
//
// RunWithFallback repairs the host PATH once per process when a command fails
// because its executable could not be found on a platform whose launcher
// strips PATH.
//
// # Validation
//
// Validate checks a candidate path for live feedback while a user types it:
//
//	if err := clienv.Validate(path); err != nil {
//	    if verr, ok := errors.AsType[*clienv.ValidationError](err); ok {
//	        fmt.Println(verr.Rule, verr.Reason)
//	    }
//	}
package clienv
