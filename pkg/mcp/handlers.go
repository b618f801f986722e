package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ormasoftchile/fnol/pkg/fnol"
	"github.com/ormasoftchile/fnol/pkg/machine"
	"github.com/ormasoftchile/fnol/pkg/playbook"
	"github.com/ormasoftchile/fnol/pkg/triage"
)

// Handlers binds the MCP tool handlers to a shared machine.
type Handlers struct {
	machine *machine.Machine
}

// HandleStart implements the fnol/start MCP tool.
func (h *Handlers) HandleStart(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	path, _ := args["snapshot"].(string)
	if path == "" {
		return errorResult("snapshot argument is required"), nil
	}
	threadID, _ := args["thread_id"].(string)
	if threadID == "" {
		threadID = uuid.NewString()
	}
	policyID, _ := args["policy_id"].(string)

	s := h.machine.CreateSession(threadID, "", policyID)
	if err := fnol.SaveSnapshot(s, path); err != nil {
		return errorResult(err.Error()), nil
	}
	return sessionResult(s), nil
}

// HandleMessage implements the fnol/message MCP tool.
func (h *Handlers) HandleMessage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	path, _ := args["snapshot"].(string)
	if path == "" {
		return errorResult("snapshot argument is required"), nil
	}
	text, _ := args["text"].(string)
	if strings.TrimSpace(text) == "" {
		return errorResult("text argument is required"), nil
	}

	s, err := fnol.LoadSnapshot(path)
	if err != nil {
		return errorResult(err.Error()), nil
	}
	if s.IsComplete {
		return errorResult("session is already complete"), nil
	}
	if err := h.machine.ProcessMessage(s, text); err != nil {
		return errorResult(err.Error()), nil
	}
	if err := fnol.SaveSnapshot(s, path); err != nil {
		return errorResult(err.Error()), nil
	}
	return sessionResult(s), nil
}

// HandleTriage implements the fnol/triage MCP tool.
func (h *Handlers) HandleTriage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	path, _ := args["snapshot"].(string)
	if path == "" {
		return errorResult("snapshot argument is required"), nil
	}
	s, err := fnol.LoadSnapshot(path)
	if err != nil {
		return errorResult(err.Error()), nil
	}

	engine, err := triage.NewEngine(triage.DefaultRules())
	if err != nil {
		return errorResult(err.Error()), nil
	}
	registry := playbook.NewRegistry()
	result, err := engine.Evaluate(s, registry.AllTriageFlags(s))
	if err != nil {
		return errorResult(err.Error()), nil
	}
	data, _ := json.MarshalIndent(result, "", "  ")
	return textResult(string(data)), nil
}

// HandleValidate implements the fnol/validate MCP tool.
func (h *Handlers) HandleValidate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	path, _ := args["path"].(string)
	if path == "" {
		return errorResult("path argument is required"), nil
	}
	rs, errs := triage.ValidateFile(path)
	if len(errs) > 0 {
		var msgs []string
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		return errorResult(strings.Join(msgs, "; ")), nil
	}
	return textResult(fmt.Sprintf("✓ rule table %s is valid (%d scoring rules)", rs.Version, len(rs.ScoringRules))), nil
}

// HandleSchema implements the fnol/schema MCP tool.
func (h *Handlers) HandleSchema(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := triage.GenerateJSONSchema()
	if err != nil {
		return errorResult(err.Error()), nil
	}
	return textResult(string(data)), nil
}

func sessionResult(s *fnol.State) *mcp.CallToolResult {
	response := map[string]any{
		"thread_id":        s.ThreadID,
		"current_state":    s.CurrentState,
		"state_step":       s.StateStep,
		"ai_response":      s.AIResponse,
		"needs_user_input": s.NeedsUserInput,
		"is_complete":      s.IsComplete,
		"progress_percent": s.ProgressPercent,
	}
	if s.PendingQuestion != "" {
		response["pending_question"] = s.PendingQuestion
	}
	if s.ClaimNumber != "" {
		response["claim_number"] = s.ClaimNumber
	}
	if len(s.ValidationErrors) > 0 {
		response["validation_errors"] = s.ValidationErrors
	}
	data, _ := json.MarshalIndent(response, "", "  ")
	return textResult(string(data))
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(msg),
		},
		IsError: true,
	}
}
