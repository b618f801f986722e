package fnol

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

// TestCanTransition verifies the legality map for representative edges.
func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{StateSafetyCheck, StateIdentityMatch, true},
		{StateSafetyCheck, StateHandoffEscalation, true},
		{StateSafetyCheck, StateIncidentCore, false},
		{StateIncidentCore, StateLossModule, true},
		{StateIncidentCore, StateHandoffEscalation, false},
		{StateTriage, StateClaimCreate, true},
		{StateTriage, StateHandoffEscalation, true},
		{StateNextSteps, StateSafetyCheck, false},
		{StateHandoffEscalation, StateSafetyCheck, false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

// TestIsTerminal verifies that only the two final phases are terminal.
func TestIsTerminal(t *testing.T) {
	for state := range StateTransitions {
		terminal := state == StateNextSteps || state == StateHandoffEscalation
		if IsTerminal(state) != terminal {
			t.Errorf("IsTerminal(%s) = %v, want %v", state, IsTerminal(state), terminal)
		}
	}
}

// TestCalculateProgress checks progress at the start, middle and for an
// escalated conversation.
func TestCalculateProgress(t *testing.T) {
	s := NewState("t1", "u1", "", time.Now())
	if got := CalculateProgress(s); got != 0 {
		t.Errorf("initial progress = %d, want 0", got)
	}

	s.CurrentState = StateTriage
	if got := CalculateProgress(s); got != 8*100/11 {
		t.Errorf("triage progress = %d, want %d", got, 8*100/11)
	}

	s.CurrentState = StateHandoffEscalation
	s.CompletedStates = []string{StateSafetyCheck, StateIdentityMatch}
	if got := CalculateProgress(s); got != 2*100/11 {
		t.Errorf("escalated progress = %d, want %d", got, 2*100/11)
	}
}

// TestStateJSONRoundTrip verifies that a populated state survives a
// marshal/unmarshal cycle with message and history order preserved.
func TestStateJSONRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	s := NewState("thread-9", "user-4", "pol-1", now)
	s.Messages = append(s.Messages,
		Message{Role: "assistant", Content: "welcome", Timestamp: now},
		Message{Role: "user", Content: "yes", Timestamp: now.Add(time.Minute)},
		Message{Role: "assistant", Content: "next question", Timestamp: now.Add(2 * time.Minute)},
	)
	s.CompletedStates = []string{StateSafetyCheck}
	s.CurrentState = StateIdentityMatch
	s.Vehicles = append(s.Vehicles, VehicleData{VehicleID: "v1", Role: "insured", Drivable: "no"})
	s.Injuries = append(s.Injuries, InjuryData{InjuryID: "i1", Severity: "minor"})
	s.Triage = &TriageResult{Route: "stp", Score: 10, Reasons: []string{"+10 (x)"}, RuleVersion: "1.0.0"}
	s.AppendAudit(AuditEvent{Action: "field_captured", FieldChanged: "safety_confirmed"})
	s.AppendAudit(AuditEvent{Action: "transition_to_IDENTITY_MATCH"})

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}
	if _, ok := raw["state_history"]; !ok {
		t.Fatal("serialized state missing state_history key")
	}
	var back State
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(back.Messages) != 3 {
		t.Fatalf("messages round trip lost entries: %d", len(back.Messages))
	}
	for i := range s.Messages {
		if back.Messages[i].Content != s.Messages[i].Content {
			t.Errorf("message %d content = %q, want %q", i, back.Messages[i].Content, s.Messages[i].Content)
		}
	}
	if !reflect.DeepEqual(back.CompletedStates, s.CompletedStates) {
		t.Errorf("completed states = %v, want %v", back.CompletedStates, s.CompletedStates)
	}
	if back.Triage == nil || back.Triage.Route != "stp" {
		t.Errorf("triage result not preserved: %+v", back.Triage)
	}
	if len(back.StateHistory) != 2 {
		t.Fatalf("state history round trip lost entries: %d", len(back.StateHistory))
	}
	if back.StateHistory[0].Action != "field_captured" || back.StateHistory[1].Action != "transition_to_IDENTITY_MATCH" {
		t.Errorf("state history order not preserved: %+v", back.StateHistory)
	}
}

// TestSnapshotSaveLoad writes a snapshot to disk and reads it back.
func TestSnapshotSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := NewState("thread-1", "", "", time.Now().UTC())
	s.CurrentState = StateIncidentCore
	s.Incident.LossType = "collision"

	if err := SaveSnapshot(s, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	back, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if back.CurrentState != StateIncidentCore {
		t.Errorf("current state = %q, want %q", back.CurrentState, StateIncidentCore)
	}
	if back.Incident.LossType != "collision" {
		t.Errorf("loss type = %q, want collision", back.Incident.LossType)
	}
	if back.StateData == nil {
		t.Error("state data should be initialized after load")
	}
}

// TestTraceWriter appends two events and checks both lines decode.
func TestTraceWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.jsonl")
	tw, err := NewTraceWriter(path)
	if err != nil {
		t.Fatalf("new trace writer: %v", err)
	}
	ev1 := AuditEvent{EventID: "e1", Action: "transition_to_IDENTITY_MATCH", Timestamp: time.Now()}
	ev2 := AuditEvent{EventID: "e2", Action: "claim_created", Timestamp: time.Now()}
	if err := tw.Write("thread-1", &ev1); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := tw.Write("thread-1", &ev2); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read trace: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("trace lines = %d, want 2", len(lines))
	}
	for i, line := range lines {
		var ev TraceEvent
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			t.Fatalf("line %d decode: %v", i, err)
		}
		if ev.Type != "audit_event" || ev.ThreadID != "thread-1" {
			t.Errorf("line %d = %+v", i, ev)
		}
	}
}
