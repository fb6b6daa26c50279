package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"time"

	"github.com/hashicorp/go-version"

	"github.com/wagiedev/claude-cli-env/internal/process"
)

const (
	// MinimumVersion is the minimum required Claude CLI version.
	MinimumVersion = "2.0.0"

	// VersionCheckTimeout is the timeout for the CLI version check command.
	VersionCheckTimeout = 5 * time.Second

	// versionFlag asks the CLI to print its version.
	versionFlag = "--version"
)

var (
	versionPattern = regexp.MustCompile(`(\d+)\.(\d+)\.(\d+)`)

	defaultMinimum = version.Must(version.NewVersion(MinimumVersion))
)

// VersionInfo is the CLI version found by a probe. It is immutable once built.
type VersionInfo struct {
	Raw        string `json:"raw"`
	Major      int    `json:"major"`
	Minor      int    `json:"minor"`
	Patch      int    `json:"patch"`
	Compatible bool   `json:"compatible"`
}

// String returns MAJOR.MINOR.PATCH.
func (v *VersionInfo) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// AtLeast reports whether v is greater than or equal to minimum, comparing
// major, then minor, then patch numerically.
func (v *VersionInfo) AtLeast(minimum *version.Version) bool {
	current, err := version.NewVersion(v.String())
	if err != nil {
		return false
	}

	return current.GreaterThanOrEqual(minimum)
}

// ParseVersion scans output for the first MAJOR.MINOR.PATCH run and checks it
// against MinimumVersion. It returns nil when no such run exists.
func ParseVersion(output string) *VersionInfo {
	return parseVersion(output, defaultMinimum)
}

func parseVersion(output string, minimum *version.Version) *VersionInfo {
	match := versionPattern.FindStringSubmatch(output)
	if match == nil {
		return nil
	}

	parts := make([]int, 3)
	for i := range parts {
		n, err := strconv.Atoi(match[i+1])
		if err != nil {
			return nil
		}

		parts[i] = n
	}

	info := &VersionInfo{
		Raw:   match[0],
		Major: parts[0],
		Minor: parts[1],
		Patch: parts[2],
	}
	info.Compatible = info.AtLeast(minimum)

	return info
}

// ProberConfig holds configuration for a Prober.
type ProberConfig struct {
	// Runner executes the CLI. Defaults to process.OSRunner.
	Runner process.Runner

	// Timeout bounds the version command. Defaults to VersionCheckTimeout.
	Timeout time.Duration

	// MinimumVersion overrides the compatibility threshold. Defaults to MinimumVersion.
	MinimumVersion string

	// Logger is an optional logger. If nil, logging is disabled.
	Logger *slog.Logger
}

// Prober runs the CLI to learn its version.
type Prober struct {
	runner     process.Runner
	timeout    time.Duration
	minimum    *version.Version
	minimumRaw string
	log        *slog.Logger
}

// NewProber creates a Prober. An unparseable MinimumVersion is an error.
func NewProber(cfg *ProberConfig) (*Prober, error) {
	if cfg == nil {
		cfg = &ProberConfig{}
	}

	p := &Prober{
		runner:     cfg.Runner,
		timeout:    cfg.Timeout,
		minimum:    defaultMinimum,
		minimumRaw: MinimumVersion,
		log:        cfg.Logger,
	}

	if cfg.MinimumVersion != "" {
		minimum, err := version.NewVersion(cfg.MinimumVersion)
		if err != nil {
			return nil, fmt.Errorf("parse minimum version %q: %w", cfg.MinimumVersion, err)
		}

		p.minimum = minimum
		p.minimumRaw = cfg.MinimumVersion
	}

	if p.runner == nil {
		p.runner = process.OSRunner{}
	}

	if p.timeout <= 0 {
		p.timeout = VersionCheckTimeout
	}

	if p.log == nil {
		p.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return p, nil
}

// Minimum returns the configured minimum version string.
func (p *Prober) Minimum() string {
	return p.minimumRaw
}

// Probe runs path --version with env. It returns nil when the command fails
// or prints no recognizable version; it never returns an error.
func (p *Prober) Probe(ctx context.Context, path string, env process.Env) *VersionInfo {
	res, err := p.runner.Run(ctx, process.Command{
		Name:    path,
		Args:    []string{versionFlag},
		Env:     env,
		Timeout: p.timeout,
	})
	if err != nil {
		p.log.Debug("CLI version check failed", "path", path, "error", err)

		return nil
	}

	info := parseVersion(res.Stdout, p.minimum)
	if info == nil {
		info = parseVersion(res.Stderr, p.minimum)
	}

	if info == nil {
		p.log.Debug("Could not parse CLI version", "path", path, "output", res.Stdout)

		return nil
	}

	p.log.Debug("CLI version check finished",
		"version", info.Raw,
		"minimum", p.minimumRaw,
		"compatible", info.Compatible,
	)

	return info
}
