package mcp

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/claude-cli-env/internal/cli"
	"github.com/wagiedev/claude-cli-env/internal/errors"
	"github.com/wagiedev/claude-cli-env/internal/platform"
	"github.com/wagiedev/claude-cli-env/internal/process"
)

// Tool names registered by RegisterTools.
const (
	ToolHealth      = "cli_health"
	ToolResolve     = "cli_resolve"
	ToolValidate    = "cli_validate"
	ToolEnvironment = "shell_environment"
)

// Backend is the resolution surface the tools call into.
type Backend interface {
	Resolve(ctx context.Context, opts cli.ResolveOptions) cli.ResolvedCLI
	Environment(ctx context.Context) (process.Env, error)
	Validate(path string) error
}

// HealthReport is the cli_health result.
type HealthReport struct {
	Status  cli.HealthStatus `json:"status"`
	Healthy bool             `json:"healthy"`
	Error   string           `json:"error,omitempty"`
}

// ValidationReport is the cli_validate result.
type ValidationReport struct {
	Path   string `json:"path"`
	Valid  bool   `json:"valid"`
	Rule   string `json:"rule,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// EnvironmentReport is the shell_environment result. Variable values other
// than PATH are never included.
type EnvironmentReport struct {
	Keys []string `json:"keys"`
	Path []string `json:"path"`
}

// RegisterTools installs the resolution tools on s.
func RegisterTools(s *Server, b Backend, goos string) {
	resolveSchema := ObjectSchema(map[string]string{
		"configured_path": "string",
		"skip_cache":      "bool",
	})

	s.AddTool(
		NewTool(ToolHealth, "Report whether the claude CLI is installed, valid and recent enough.", resolveSchema),
		func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			opts, err := resolveOptions(req)
			if err != nil {
				return nil, err
			}

			result := b.Resolve(ctx, opts)

			return JSONResult(HealthReport{
				Status:  result.Status,
				Healthy: result.Status.Healthy(),
				Error:   result.Error,
			})
		},
	)

	s.AddTool(
		NewTool(ToolResolve, "Resolve the claude CLI and return its path, version and status.", resolveSchema),
		func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			opts, err := resolveOptions(req)
			if err != nil {
				return nil, err
			}

			return JSONResult(b.Resolve(ctx, opts))
		},
	)

	s.AddTool(
		NewTool(ToolValidate, "Check whether a path is acceptable as the claude CLI location.",
			SimpleSchema(map[string]string{"path": "string"})),
		func(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, err := ParseArguments(req)
			if err != nil {
				return nil, err
			}

			path, _ := args["path"].(string)
			if path == "" {
				return ErrorResult("path is required"), nil
			}

			report := ValidationReport{Path: path, Valid: true}

			if verr := b.Validate(path); verr != nil {
				report.Valid = false
				report.Reason = verr.Error()

				if ve, ok := stderrors.AsType[*errors.ValidationError](verr); ok {
					report.Rule = string(ve.Rule)
				}
			}

			return JSONResult(report)
		},
	)

	s.AddTool(
		NewTool(ToolEnvironment, "List the variable names of the derived shell environment and its PATH entries.",
			ObjectSchema(map[string]string{})),
		func(ctx context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			env, err := b.Environment(ctx)
			if err != nil {
				return nil, err
			}

			report := EnvironmentReport{Keys: env.Keys(), Path: []string{}}

			for entry := range strings.SplitSeq(env.Get("PATH"), platform.ListSeparator(goos)) {
				if entry != "" {
					report.Path = append(report.Path, entry)
				}
			}

			return JSONResult(report)
		},
	)
}

func resolveOptions(req *mcp.CallToolRequest) (cli.ResolveOptions, error) {
	args, err := ParseArguments(req)
	if err != nil {
		return cli.ResolveOptions{}, err
	}

	var opts cli.ResolveOptions

	opts.ConfiguredPath, _ = args["configured_path"].(string)
	opts.SkipCache, _ = args["skip_cache"].(bool)

	return opts, nil
}
