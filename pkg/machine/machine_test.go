package machine

import (
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/ormasoftchile/fnol/pkg/fnol"
)

func newTestMachine(t *testing.T) *Machine {
	t.Helper()
	m, err := New(Config{Now: func() time.Time {
		return time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func send(t *testing.T, m *Machine, s *fnol.State, input string) {
	t.Helper()
	if err := m.ProcessMessage(s, input); err != nil {
		t.Fatalf("ProcessMessage(%q): %v", input, err)
	}
}

func TestCreateSession(t *testing.T) {
	m := newTestMachine(t)
	s := m.CreateSession("thread-1", "user-1", "")
	if s.CurrentState != fnol.StateSafetyCheck || s.StateStep != "awaiting_safety" {
		t.Fatalf("state=%s step=%s", s.CurrentState, s.StateStep)
	}
	if !s.NeedsUserInput || s.PendingQuestion != "safety_confirmation" {
		t.Fatalf("pending=%q needs=%v", s.PendingQuestion, s.NeedsUserInput)
	}
	if len(s.Messages) != 1 || s.Messages[0].Role != "assistant" {
		t.Fatalf("messages = %+v", s.Messages)
	}
	if s.ClaimDraftID == "" {
		t.Fatal("no claim draft id")
	}
	if s.ProgressPercent != 0 {
		t.Fatalf("progress = %d", s.ProgressPercent)
	}
}

func TestProcessMessageAppendsTranscript(t *testing.T) {
	m := newTestMachine(t)
	s := m.CreateSession("thread-1", "", "")
	send(t, m, s, "yes")
	var roles []string
	for _, msg := range s.Messages {
		roles = append(roles, msg.Role)
	}
	want := []string{"assistant", "user", "assistant"}
	if !slices.Equal(roles, want) {
		t.Fatalf("roles = %v, want %v", roles, want)
	}
	if !s.NeedsUserInput {
		t.Fatal("expected a pending question")
	}
}

func TestProcessMessageAppendsBlankTurn(t *testing.T) {
	m := newTestMachine(t)
	s := m.CreateSession("thread-1", "", "")
	before := len(s.Messages)
	send(t, m, s, "   ")
	var blank *fnol.Message
	for i := before; i < len(s.Messages); i++ {
		if s.Messages[i].Role == "user" {
			blank = &s.Messages[i]
		}
	}
	if blank == nil || blank.Content != "   " {
		t.Fatalf("whitespace turn not recorded: %+v", s.Messages[before:])
	}
}

func TestUnboundStateIsConfigurationError(t *testing.T) {
	m := newTestMachine(t)
	s := m.CreateSession("thread-1", "", "")
	s.CurrentState = "NOT_A_STATE"
	err := m.ProcessMessage(s, "hello")
	if err == nil {
		t.Fatal("unbound state should surface a configuration error")
	}
	if !strings.Contains(err.Error(), "NOT_A_STATE") {
		t.Fatalf("error should name the unbound state: %v", err)
	}
	if s.NeedsUserInput {
		t.Fatal("unbound state should not ask a question")
	}
}

func TestPhaseMonotonicity(t *testing.T) {
	m := newTestMachine(t)
	s := m.CreateSession("thread-1", "user-1", "pol-demo-001")
	inputs := []string{
		"yes", "no",
		"collision", "yesterday", "5th and Main, Austin, Texas",
		"Another car rear-ended me at a stoplight while I was waiting", "2",
	}
	order := slices.Index(fnol.StateOrder, s.CurrentState)
	for _, input := range inputs {
		prev := s.CurrentState
		send(t, m, s, input)
		if s.CurrentState == prev {
			continue
		}
		next := slices.Index(fnol.StateOrder, s.CurrentState)
		if next < order {
			t.Fatalf("phase moved backwards: %s -> %s", prev, s.CurrentState)
		}
		order = next
	}
	if s.CurrentState != fnol.StateLossModule {
		t.Fatalf("state = %s, want LOSS_MODULE", s.CurrentState)
	}
	if !slices.Contains(s.ActivePlaybooks, "two_vehicle") {
		t.Fatalf("active playbooks = %v", s.ActivePlaybooks)
	}
	if s.ProgressPercent == 0 {
		t.Fatal("progress should have advanced")
	}
}

func TestProgressRecomputedEachTurn(t *testing.T) {
	m := newTestMachine(t)
	s := m.CreateSession("thread-1", "", "pol-demo-001")
	send(t, m, s, "yes")
	send(t, m, s, "no")
	if s.CurrentState != fnol.StateIncidentCore {
		t.Fatalf("state = %s", s.CurrentState)
	}
	want := slices.Index(fnol.StateOrder, fnol.StateIncidentCore) * 100 / len(fnol.StateOrder)
	if s.ProgressPercent != want {
		t.Fatalf("progress = %d, want %d", s.ProgressPercent, want)
	}
}

func TestDemoDirectoryLookups(t *testing.T) {
	d := NewDemoDirectory()
	if _, ok := d.LookupByID("pol-demo-001"); !ok {
		t.Fatal("primary policy missing")
	}
	rec, ok := d.LookupByNumber("auto-99999999")
	if !ok || rec.HolderName != "John Smith" {
		t.Fatalf("AUTO fallback = %+v, ok=%v", rec, ok)
	}
	if _, ok := d.LookupByNumber("HOME-1234"); ok {
		t.Fatal("non-auto number should not resolve")
	}
	rec, ok = d.LookupByPersonalInfo("5125550134", "Maria Garcia", "78701")
	if !ok || rec.PolicyNumber != "AUTO-DEMO-001" {
		t.Fatalf("personal info = %+v, ok=%v", rec, ok)
	}
	if _, ok := d.LookupByPersonalInfo("", "Maria Garcia", "78701"); ok {
		t.Fatal("incomplete triple should not resolve")
	}
}

func TestMemoryClaimStoreStableNumber(t *testing.T) {
	st := NewMemoryClaimStore()
	st.now = func() time.Time { return time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC) }
	s := &fnol.State{ClaimDraftID: "draft-a"}
	ref1, err := st.CreateClaimDraft(s)
	if err != nil {
		t.Fatalf("CreateClaimDraft: %v", err)
	}
	if !strings.HasPrefix(ref1.ClaimNumber, "FNOL-2025-") || len(ref1.ClaimNumber) != len("FNOL-2025-")+6 {
		t.Fatalf("claim number = %q", ref1.ClaimNumber)
	}
	ref2, err := st.CreateClaimDraft(s)
	if err != nil {
		t.Fatalf("CreateClaimDraft retry: %v", err)
	}
	if ref2.ClaimNumber != ref1.ClaimNumber {
		t.Fatalf("retry changed number: %q vs %q", ref2.ClaimNumber, ref1.ClaimNumber)
	}
}
