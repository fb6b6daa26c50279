package cli

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/wagiedev/claude-cli-env/internal/platform"
	"github.com/wagiedev/claude-cli-env/internal/process"
)

// DefaultLookupTimeout bounds each which/where invocation.
const DefaultLookupTimeout = 3 * time.Second

// LookupConfig holds configuration for a PathLookup.
type LookupConfig struct {
	// Runner runs the lookup tool. Defaults to process.OSRunner.
	Runner process.Runner

	// GOOS selects the lookup tool and candidate names. Defaults to runtime.GOOS.
	GOOS string

	// Names overrides the candidate executable names.
	Names []string

	// Timeout bounds each lookup attempt.
	Timeout time.Duration

	// Stat checks reported locations. Defaults to os.Stat.
	Stat func(path string) (os.FileInfo, error)

	// Logger is an optional logger. If nil, logging is disabled.
	Logger *slog.Logger
}

// PathLookup finds the CLI through the platform's "locate in PATH" tool.
type PathLookup struct {
	runner  process.Runner
	tool    string
	names   []string
	timeout time.Duration
	stat    func(path string) (os.FileInfo, error)
	log     *slog.Logger
}

// NewPathLookup creates a PathLookup with the given configuration.
func NewPathLookup(cfg *LookupConfig) *PathLookup {
	if cfg == nil {
		cfg = &LookupConfig{}
	}

	goos := cfg.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}

	l := &PathLookup{
		runner:  cfg.Runner,
		tool:    platform.LookupTool(goos),
		names:   cfg.Names,
		timeout: cfg.Timeout,
		stat:    cfg.Stat,
		log:     cfg.Logger,
	}

	if l.runner == nil {
		l.runner = process.OSRunner{}
	}

	if len(l.names) == 0 {
		l.names = platform.ExecutableNames(goos)
	}

	if l.timeout <= 0 {
		l.timeout = DefaultLookupTimeout
	}

	if l.stat == nil {
		l.stat = os.Stat
	}

	if l.log == nil {
		l.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	l.log = l.log.With("component", "cli_lookup")

	return l
}

// Names returns the candidate executable names in the order they are tried.
func (l *PathLookup) Names() []string {
	return append([]string(nil), l.names...)
}

// ResolveFromPath returns the first candidate that the lookup tool reports
// and that exists on disk. Not finding the CLI is not an error.
func (l *PathLookup) ResolveFromPath(ctx context.Context, env process.Env) (string, bool) {
	for _, name := range l.names {
		l.log.Debug("Looking up candidate in PATH", "tool", l.tool, "name", name)

		res, err := l.runner.Run(ctx, process.Command{
			Name:    l.tool,
			Args:    []string{name},
			Env:     env,
			Timeout: l.timeout,
		})
		if err != nil {
			l.log.Debug("Candidate not found in PATH", "name", name, "error", err)

			continue
		}

		location := firstLine(res.Stdout)
		if location == "" {
			continue
		}

		if _, err := l.stat(location); err != nil {
			l.log.Debug("Reported location does not exist", "name", name, "path", location, "error", err)

			continue
		}

		l.log.Debug("Found CLI in PATH", "name", name, "path", location)

		return location, true
	}

	return "", false
}

// firstLine returns the first non-blank line; where prints one match per line.
func firstLine(out string) string {
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			return line
		}
	}

	return ""
}
