package mcp

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ormasoftchile/fnol/pkg/machine"
)

func newHandlers(t *testing.T) *Handlers {
	t.Helper()
	m, err := machine.New(machine.Config{})
	if err != nil {
		t.Fatalf("machine.New: %v", err)
	}
	return &Handlers{machine: m}
}

func TestHandleStartMissingSnapshot(t *testing.T) {
	h := newHandlers(t)
	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{}

	result, err := h.HandleStart(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("expected error for missing snapshot path")
	}
}

func TestHandleStartThenMessage(t *testing.T) {
	h := newHandlers(t)
	path := filepath.Join(t.TempDir(), "session.json")

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"snapshot": path, "thread_id": "t-1"}
	result, err := h.HandleStart(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatalf("start failed: %+v", result.Content)
	}
	text := contentText(t, result)
	if !strings.Contains(text, "SAFETY_CHECK") || !strings.Contains(text, "safe location") {
		t.Fatalf("start response = %s", text)
	}

	req = mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"snapshot": path, "text": "yes"}
	result, err = h.HandleMessage(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatalf("message failed: %+v", result.Content)
	}
	text = contentText(t, result)
	if !strings.Contains(text, "anyone injured") {
		t.Fatalf("message response = %s", text)
	}
}

func TestHandleTriageOnFreshSession(t *testing.T) {
	h := newHandlers(t)
	path := filepath.Join(t.TempDir(), "session.json")

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"snapshot": path}
	if result, err := h.HandleStart(context.Background(), req); err != nil || result.IsError {
		t.Fatalf("start: err=%v result=%+v", err, result)
	}

	req = mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"snapshot": path}
	result, err := h.HandleTriage(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatalf("triage failed: %+v", result.Content)
	}
	if text := contentText(t, result); !strings.Contains(text, "\"route\"") {
		t.Fatalf("triage response = %s", text)
	}
}

func TestHandleSchema(t *testing.T) {
	h := newHandlers(t)
	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{}

	result, err := h.HandleSchema(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Error("expected success")
	}
	if text := contentText(t, result); !strings.Contains(text, "Triage Rule Table") {
		t.Fatalf("schema response = %s", text)
	}
}

func contentText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("empty result content")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type %T", result.Content[0])
	}
	return tc.Text
}
