package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wagiedev/claude-cli-env/internal/cli"
	clierrors "github.com/wagiedev/claude-cli-env/internal/errors"
	"github.com/wagiedev/claude-cli-env/internal/process"
)

type fakeBackend struct {
	result  cli.ResolvedCLI
	opts    []cli.ResolveOptions
	env     process.Env
	envErr  error
	invalid map[string]error
}

func (f *fakeBackend) Resolve(_ context.Context, opts cli.ResolveOptions) cli.ResolvedCLI {
	f.opts = append(f.opts, opts)

	return f.result
}

func (f *fakeBackend) Environment(context.Context) (process.Env, error) {
	return f.env, f.envErr
}

func (f *fakeBackend) Validate(path string) error {
	return f.invalid[path]
}

func newToolServer(b *fakeBackend) *Server {
	s := NewServer("clienv", "test", nil)
	RegisterTools(s, b, "linux")

	return s
}

func decode[T any](t *testing.T, text string) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal([]byte(text), &v))

	return v
}

func TestRegisterTools_Names(t *testing.T) {
	s := newToolServer(&fakeBackend{})

	var names []string
	for _, tool := range s.ListTools() {
		names = append(names, tool.Name)
		require.NotNil(t, tool.InputSchema)
	}

	require.Equal(t, []string{ToolHealth, ToolResolve, ToolValidate, ToolEnvironment}, names)
}

func TestHealthTool(t *testing.T) {
	b := &fakeBackend{result: cli.ResolvedCLI{
		Status: cli.StatusMissing,
		Error:  "claude CLI not found on PATH",
	}}
	s := newToolServer(b)

	result := s.CallTool(context.Background(), ToolHealth, map[string]any{
		"configured_path": "/opt/claude",
		"skip_cache":      true,
	})

	require.False(t, result.IsError)

	report := decode[HealthReport](t, textOf(t, result))
	require.Equal(t, cli.StatusMissing, report.Status)
	require.False(t, report.Healthy)
	require.Equal(t, "claude CLI not found on PATH", report.Error)
	require.Equal(t, []cli.ResolveOptions{{ConfiguredPath: "/opt/claude", SkipCache: true}}, b.opts)
}

func TestResolveTool(t *testing.T) {
	b := &fakeBackend{result: cli.ResolvedCLI{
		ID:      "01J0000000000000000000000",
		Path:    "/usr/local/bin/claude",
		Status:  cli.StatusOK,
		Version: &cli.VersionInfo{Raw: "2.1.5", Major: 2, Minor: 1, Patch: 5, Compatible: true},
	}}
	s := newToolServer(b)

	result := s.CallTool(context.Background(), ToolResolve, nil)

	got := decode[cli.ResolvedCLI](t, textOf(t, result))
	require.Equal(t, "/usr/local/bin/claude", got.Path)
	require.Equal(t, cli.StatusOK, got.Status)
	require.Equal(t, "2.1.5", got.Version.Raw)
	require.Equal(t, []cli.ResolveOptions{{}}, b.opts)
}

func TestValidateTool(t *testing.T) {
	b := &fakeBackend{invalid: map[string]error{
		"relative/claude": &clierrors.ValidationError{
			Path:   "relative/claude",
			Rule:   clierrors.RuleNotAbsolute,
			Reason: "CLI path must be absolute",
		},
	}}
	s := newToolServer(b)

	ok := decode[ValidationReport](t, textOf(t, s.CallTool(context.Background(), ToolValidate, map[string]any{"path": "/bin/claude"})))
	require.True(t, ok.Valid)
	require.Empty(t, ok.Rule)

	bad := decode[ValidationReport](t, textOf(t, s.CallTool(context.Background(), ToolValidate, map[string]any{"path": "relative/claude"})))
	require.False(t, bad.Valid)
	require.Equal(t, string(clierrors.RuleNotAbsolute), bad.Rule)
	require.Equal(t, "CLI path must be absolute", bad.Reason)

	missing := s.CallTool(context.Background(), ToolValidate, map[string]any{})
	require.True(t, missing.IsError)
}

func TestEnvironmentTool(t *testing.T) {
	b := &fakeBackend{env: process.Env{
		"PATH":             "/usr/local/bin::/usr/bin",
		"HOME":             "/home/ada",
		"SECRET_LOOKALIKE": "do-not-print",
	}}
	s := newToolServer(b)

	text := textOf(t, s.CallTool(context.Background(), ToolEnvironment, nil))

	report := decode[EnvironmentReport](t, text)
	require.Equal(t, []string{"HOME", "PATH", "SECRET_LOOKALIKE"}, report.Keys)
	require.Equal(t, []string{"/usr/local/bin", "/usr/bin"}, report.Path)
	require.NotContains(t, text, "do-not-print")
	require.NotContains(t, text, "/home/ada")

	b.envErr = errors.New("derivation failed")
	require.True(t, s.CallTool(context.Background(), ToolEnvironment, nil).IsError)
}
