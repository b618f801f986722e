// Package mcp exposes the intake machine over the Model Context Protocol.
// Sessions are snapshot-file based: fnol/start writes a fresh session
// snapshot, fnol/message advances it in place.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ormasoftchile/fnol/pkg/machine"
)

// NewServer creates an MCP server with the fnol tools registered.
func NewServer(version string) (*server.MCPServer, error) {
	m, err := machine.New(machine.Config{})
	if err != nil {
		return nil, err
	}
	h := &Handlers{machine: m}

	s := server.NewMCPServer(
		"fnol",
		version,
		server.WithToolCapabilities(true),
	)

	s.AddTool(
		mcp.NewTool("fnol/start",
			mcp.WithDescription("Start a new claim intake session and write its snapshot file"),
			mcp.WithString("snapshot", mcp.Required(), mcp.Description("Path to write the session snapshot JSON")),
			mcp.WithString("thread_id", mcp.Description("Conversation thread ID (generated when omitted)")),
			mcp.WithString("policy_id", mcp.Description("Known policy ID to skip identity questions")),
		),
		h.HandleStart,
	)

	s.AddTool(
		mcp.NewTool("fnol/message",
			mcp.WithDescription("Send a user message to an intake session snapshot and advance it"),
			mcp.WithString("snapshot", mcp.Required(), mcp.Description("Path to the session snapshot JSON")),
			mcp.WithString("text", mcp.Required(), mcp.Description("The user's message")),
		),
		h.HandleMessage,
	)

	s.AddTool(
		mcp.NewTool("fnol/triage",
			mcp.WithDescription("Run triage over a saved conversation state and print the routing decision"),
			mcp.WithString("snapshot", mcp.Required(), mcp.Description("Path to the state snapshot JSON")),
		),
		h.HandleTriage,
	)

	s.AddTool(
		mcp.NewTool("fnol/validate",
			mcp.WithDescription("Validate a triage rule table YAML file"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Path to the rule table YAML file")),
		),
		h.HandleValidate,
	)

	s.AddTool(
		mcp.NewTool("fnol/schema",
			mcp.WithDescription("Export the triage rule table JSON Schema"),
		),
		h.HandleSchema,
	)

	return s, nil
}
