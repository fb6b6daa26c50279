// Package mcp exposes CLI resolution over the Model Context Protocol.
//
// A Server keeps its own thread-safe tool registry so tools can be invoked
// in-process with CallTool, and can also be served over any go-sdk transport
// with Serve. RegisterTools installs the cli_health, cli_resolve,
// cli_validate and shell_environment tools backed by a Backend.
package mcp
