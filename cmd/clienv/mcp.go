package main

import (
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/wagiedev/claude-cli-env/internal/mcp"
)

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve CLI health, resolution and validation as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.newResolver(cmd)
			if err != nil {
				return err
			}

			server := mcp.NewServer("clienv", version, r.Options().Logger)
			mcp.RegisterTools(server, r, r.Options().GOOS)

			return server.Serve(cmd.Context(), &mcpsdk.StdioTransport{})
		},
	}
}
