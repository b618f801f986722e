package states

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ormasoftchile/fnol/pkg/fnol"
	"github.com/ormasoftchile/fnol/pkg/playbook"
	"github.com/ormasoftchile/fnol/pkg/triage"
)

var testNow = time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

type fakeDirectory struct{}

func demoRecord() *PolicyRecord {
	eff := time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC)
	return &PolicyRecord{
		PolicyID:      "pol-demo-1",
		PolicyNumber:  "AUTO-12345678",
		HolderName:    "John Smith",
		State:         "TX",
		EffectiveDate: &eff,
		Vehicles: []fnol.PolicyVehicle{{
			VehicleID: "pv-1", Year: 2022, Make: "Honda", Model: "Accord",
			Color: "Blue", VIN: "1HGBH41JXMN109186", LicensePlate: "ABC1234", LicenseState: "TX",
		}},
		Drivers: []fnol.PolicyDriver{{DriverID: "pd-1", FirstName: "John", LastName: "Smith"}},
	}
}

func (fakeDirectory) LookupByID(string) (*PolicyRecord, bool) { return demoRecord(), true }

func (fakeDirectory) LookupByNumber(number string) (*PolicyRecord, bool) {
	if strings.HasPrefix(number, "AUTO") {
		return demoRecord(), true
	}
	return nil, false
}

func (fakeDirectory) LookupByPersonalInfo(phone, name, zip string) (*PolicyRecord, bool) {
	if phone != "" && name != "" && zip != "" {
		return demoRecord(), true
	}
	return nil, false
}

type fakeClaims struct{ fail bool }

func (f fakeClaims) CreateClaimDraft(*fnol.State) (ClaimRef, error) {
	if f.fail {
		return ClaimRef{}, errTest
	}
	return ClaimRef{ClaimDraftID: "draft-1", ClaimNumber: "FNOL-2025-AB12CD"}, nil
}

type testError string

func (e testError) Error() string { return string(e) }

const errTest = testError("store unavailable")

func newTestNodes(t *testing.T) *Nodes {
	t.Helper()
	engine, err := triage.NewEngine(triage.DefaultRules())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return New(Deps{
		Policies: fakeDirectory{},
		Claims:   fakeClaims{},
		Registry: playbook.NewRegistry(),
		Triage:   engine,
		Now:      func() time.Time { return testNow },
		Log:      zerolog.Nop(),
	})
}

func newSession(t *testing.T, n *Nodes, policyID string) *fnol.State {
	t.Helper()
	s := fnol.NewState("thread-1", "user-1", policyID, testNow)
	s.ClaimDraftID = "5f2b9c11-0000-0000-0000-000000000000"
	AskSafetyQuestion(s)
	return s
}

// step feeds one user message through the node loop, the way the session
// controller does.
func step(t *testing.T, n *Nodes, s *fnol.State, input string) {
	t.Helper()
	s.CurrentInput = input
	s.AIResponse = ""
	s.NeedsUserInput = false
	handlers := n.Handlers()
	for i := 0; i < 20; i++ {
		h, ok := handlers[s.CurrentState]
		if !ok {
			t.Fatalf("no handler for state %s", s.CurrentState)
		}
		if err := h(s); err != nil {
			t.Fatalf("handler %s: %v", s.CurrentState, err)
		}
		if s.NeedsUserInput || s.IsComplete {
			return
		}
	}
	t.Fatalf("node loop did not settle in state %s", s.CurrentState)
}

// drain answers the same thing until the conversation leaves the phase.
func drain(t *testing.T, n *Nodes, s *fnol.State, phase, answer string) {
	t.Helper()
	for i := 0; i < 15; i++ {
		if s.CurrentState != phase {
			return
		}
		step(t, n, s, answer)
	}
	t.Fatalf("conversation stuck in %s (step %s)", phase, s.StateStep)
}

func TestParseYesNo(t *testing.T) {
	cases := []struct {
		in        string
		want, rec bool
	}{
		{"yes", true, true},
		{"Yeah, we're fine", true, true},
		{"absolutely", true, true},
		{"no", false, true},
		{"nope", false, true},
		{"no, that's not right", false, true},
		{"banana", false, false},
		{"", false, false},
	}
	for _, c := range cases {
		got, rec := parseYesNo(c.in)
		if got != c.want || rec != c.rec {
			t.Errorf("parseYesNo(%q) = %v, %v, want %v, %v", c.in, got, rec, c.want, c.rec)
		}
	}
}

func TestParseInjuryResponse(t *testing.T) {
	cases := []struct {
		in       string
		injured  bool
		severity string
		rec      bool
	}{
		{"no", false, "", true},
		{"nobody was hurt", false, "", true},
		{"my neck hurts", true, "unknown", true},
		{"he's unconscious", true, "severe", true},
		{"we called an ambulance", true, "severe", true},
		{"maybe", true, "unknown", true},
		{"yes", true, "unknown", true},
		{"purple", false, "", false},
	}
	for _, c := range cases {
		injured, severity, rec := parseInjuryResponse(c.in)
		if injured != c.injured || severity != c.severity || rec != c.rec {
			t.Errorf("parseInjuryResponse(%q) = %v, %q, %v, want %v, %q, %v",
				c.in, injured, severity, rec, c.injured, c.severity, c.rec)
		}
	}
}

func TestExtractPolicyNumber(t *testing.T) {
	cases := []struct{ in, want string }{
		{"my number is AUTO-12345678", "AUTO-12345678"},
		{"auto12345", "AUTO12345"},
		{"it's ab-1234567", "AB-1234567"},
		{"policy 123456789", "123456789"},
		{"no idea", ""},
	}
	for _, c := range cases {
		if got := extractPolicyNumber(c.in); got != c.want {
			t.Errorf("extractPolicyNumber(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestExtractPhone(t *testing.T) {
	cases := []struct{ in, want string }{
		{"call me at (512) 555-0134", "5125550134"},
		{"+1 512 555 0134", "5125550134"},
		{"555-0134", ""},
	}
	for _, c := range cases {
		if got := extractPhone(c.in); got != c.want {
			t.Errorf("extractPhone(%q) = %q, want %q", c.in, got, c.want)
		}
	}
	if got := formatPhone("5125550134"); got != "(512) 555-0134" {
		t.Errorf("formatPhone = %q", got)
	}
}

func TestParseDate(t *testing.T) {
	now := testNow
	d, approx, ok := parseDate("yesterday", now)
	if !ok || approx {
		t.Fatalf("yesterday: ok=%v approx=%v", ok, approx)
	}
	if d.Format("2006-01-02") != "2025-06-14" {
		t.Errorf("yesterday = %s", d.Format("2006-01-02"))
	}
	d, _, ok = parseDate("it was about 6/10", now)
	if !ok || d.Format("2006-01-02") != "2025-06-10" {
		t.Errorf("6/10 = %v, ok=%v", d, ok)
	}
	_, approx, ok = parseDate("around june 10", now)
	if !ok || !approx {
		t.Errorf("june 10: ok=%v approx=%v", ok, approx)
	}
	if _, _, ok = parseDate("no idea", now); ok {
		t.Error("expected parse failure")
	}
}

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in, want string
		approx   bool
	}{
		{"2:30 pm", "14:30", false},
		{"around 2am", "02:00", false},
		{"in the morning", "09:00", true},
		{"last night", "21:00", true},
		{"no clue", "", false},
	}
	for _, c := range cases {
		got, approx, ok := parseTimeOfDay(c.in)
		if got != c.want || (ok && approx != c.approx) {
			t.Errorf("parseTimeOfDay(%q) = %q approx=%v, want %q approx=%v", c.in, got, approx, c.want, c.approx)
		}
	}
}

func TestExtractLossType(t *testing.T) {
	cases := []struct{ in, want string }{
		{"someone hit my car", "collision"},
		{"my car was stolen", "theft"},
		{"hail damage", "weather"},
		{"cracked windshield", "glass"},
		{"collision", "collision"},
		{"hmm", ""},
	}
	for _, c := range cases {
		if got := extractLossType(c.in); got != c.want {
			t.Errorf("extractLossType(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseDamageAreas(t *testing.T) {
	areas := parseDamageAreas("the front bumper and driver side door")
	want := map[string]bool{"front": true, "driver_side": true}
	if len(areas) != 2 || !want[areas[0]] || !want[areas[1]] {
		t.Errorf("parseDamageAreas = %v", areas)
	}
	if got := parseDamageAreas("dunno"); len(got) != 1 || got[0] != "other" {
		t.Errorf("fallback = %v", got)
	}
}

func TestParseVehicleDescription(t *testing.T) {
	v := parseVehicleDescription("a blue 2019 Toyota Camry, plate XYZ5678")
	if v.Year != 2019 || v.Make != "Toyota" || v.Model != "Camry" || v.Color != "Blue" {
		t.Errorf("parsed vehicle = %+v", v)
	}
	if v.LicensePlate != "XYZ5678" {
		t.Errorf("plate = %q", v.LicensePlate)
	}
}

func TestParseInsuranceInfo(t *testing.T) {
	carrier, number := parseInsuranceInfo("they have geico, policy GE123456")
	if carrier != "GEICO" || number != "GE123456" {
		t.Errorf("parseInsuranceInfo = %q, %q", carrier, number)
	}
}

func TestExtractUSState(t *testing.T) {
	if got := extractUSState("I-35 near Austin, Texas"); got != "TX" {
		t.Errorf("texas = %q", got)
	}
	if got := extractUSState("somewhere in west virginia"); got != "WV" {
		t.Errorf("west virginia = %q", got)
	}
	if got := extractUSState("main street downtown"); got != "" {
		t.Errorf("none = %q", got)
	}
}

func TestSafetyFlowNoInjuries(t *testing.T) {
	n := newTestNodes(t)
	s := newSession(t, n, "")
	step(t, n, s, "yes")
	if !s.SafetyConfirmed || s.StateStep != "awaiting_injury_check" {
		t.Fatalf("after yes: confirmed=%v step=%s", s.SafetyConfirmed, s.StateStep)
	}
	step(t, n, s, "no")
	if s.CurrentState != fnol.StateIdentityMatch {
		t.Fatalf("after no injuries: state=%s", s.CurrentState)
	}
	if len(s.Injuries) != 0 {
		t.Fatalf("unexpected injuries: %v", s.Injuries)
	}
}

func TestSafetyEmergencyEscalates(t *testing.T) {
	n := newTestNodes(t)
	s := newSession(t, n, "")
	step(t, n, s, "no")
	if s.StateStep != "unsafe_guidance" {
		t.Fatalf("step = %s", s.StateStep)
	}
	step(t, n, s, "help, we're stuck")
	if s.CurrentState != fnol.StateHandoffEscalation {
		t.Fatalf("state = %s", s.CurrentState)
	}
	if !s.IsComplete || s.Escalation == nil || s.Escalation.EscalationType != "emergency" {
		t.Fatalf("escalation = %+v complete=%v", s.Escalation, s.IsComplete)
	}
	if s.Escalation.Priority != "critical" || s.Escalation.Queue != "emergency" {
		t.Fatalf("queue config = %+v", s.Escalation)
	}
}

func TestIdentitySeededPolicySkipsLookup(t *testing.T) {
	n := newTestNodes(t)
	s := newSession(t, n, "pol-demo-1")
	step(t, n, s, "yes")
	step(t, n, s, "no")
	if s.CurrentState != fnol.StateIncidentCore {
		t.Fatalf("state = %s, want INCIDENT_CORE", s.CurrentState)
	}
	if s.PolicyMatch.Status != "matched" || s.PolicyMatch.HolderName != "John Smith" {
		t.Fatalf("policy match = %+v", s.PolicyMatch)
	}
}

func TestIdentityByPolicyNumber(t *testing.T) {
	n := newTestNodes(t)
	s := newSession(t, n, "")
	step(t, n, s, "yes")
	step(t, n, s, "no")
	if s.CurrentState != fnol.StateIdentityMatch {
		t.Fatalf("state = %s", s.CurrentState)
	}
	step(t, n, s, "I have my policy number")
	step(t, n, s, "it's AUTO-12345678")
	if s.StateStep != "awaiting_verification" {
		t.Fatalf("step = %s, response %q", s.StateStep, s.AIResponse)
	}
	if !strings.Contains(s.AIResponse, "John Smith") {
		t.Fatalf("verification response = %q", s.AIResponse)
	}
	step(t, n, s, "yes")
	if s.CurrentState != fnol.StateIncidentCore || s.PolicyMatch.Method != "policy_number" {
		t.Fatalf("state=%s match=%+v", s.CurrentState, s.PolicyMatch)
	}
}

func TestIdentityGuestMode(t *testing.T) {
	n := newTestNodes(t)
	s := newSession(t, n, "")
	step(t, n, s, "yes")
	step(t, n, s, "no")
	step(t, n, s, "I don't have it")
	step(t, n, s, "yes, continue")
	if s.CurrentState != fnol.StateIncidentCore || s.PolicyMatch.Status != "guest" {
		t.Fatalf("state=%s status=%s", s.CurrentState, s.PolicyMatch.Status)
	}
}

func TestIncidentCoreRejectsFutureDate(t *testing.T) {
	n := newTestNodes(t)
	s := newSession(t, n, "pol-demo-1")
	step(t, n, s, "yes")
	step(t, n, s, "no")
	step(t, n, s, "collision")
	step(t, n, s, "12/25/2030")
	if s.StateStep != "awaiting_date" || len(s.ValidationErrors) == 0 {
		t.Fatalf("step=%s errors=%v", s.StateStep, s.ValidationErrors)
	}
	step(t, n, s, "yesterday around 2:30 pm")
	if s.Incident.Date != "2025-06-14" || s.Incident.Time != "14:30" {
		t.Fatalf("date=%s time=%s", s.Incident.Date, s.Incident.Time)
	}
}

// advanceToLossModule walks a two-vehicle collision through the incident
// phase.
func advanceToLossModule(t *testing.T, n *Nodes, s *fnol.State) {
	t.Helper()
	step(t, n, s, "yes")
	step(t, n, s, "no")
	step(t, n, s, "collision")
	step(t, n, s, "yesterday")
	step(t, n, s, "5th and Main, Austin, Texas")
	step(t, n, s, "Another car rear-ended me at a stoplight while I was waiting")
	step(t, n, s, "2")
}

func TestScenarioDetectionOnConfirm(t *testing.T) {
	n := newTestNodes(t)
	s := newSession(t, n, "pol-demo-1")
	advanceToLossModule(t, n, s)
	if s.CurrentState != fnol.StateLossModule || s.StateStep != "confirm" {
		t.Fatalf("state=%s step=%s", s.CurrentState, s.StateStep)
	}
	if s.Incident.LossSubtype != "two_vehicle" {
		t.Fatalf("subtype = %s", s.Incident.LossSubtype)
	}
	found := false
	for _, id := range s.ActivePlaybooks {
		if id == "two_vehicle" {
			found = true
		}
	}
	if !found {
		t.Fatalf("active playbooks = %v", s.ActivePlaybooks)
	}
	if !strings.Contains(s.AIResponse, "vehicle collision") {
		t.Fatalf("summary = %q", s.AIResponse)
	}
}

func TestLossModuleRejectionReturnsToIncident(t *testing.T) {
	n := newTestNodes(t)
	s := newSession(t, n, "pol-demo-1")
	advanceToLossModule(t, n, s)
	step(t, n, s, "no")
	if s.CurrentState != fnol.StateIncidentCore || s.StateStep != "awaiting_loss_type" {
		t.Fatalf("state=%s step=%s", s.CurrentState, s.StateStep)
	}
}

func TestSevereInjuryEscalates(t *testing.T) {
	n := newTestNodes(t)
	s := newSession(t, n, "pol-demo-1")
	advanceToLossModule(t, n, s)
	step(t, n, s, "yes")
	drain(t, n, s, fnol.StateLossModule, "not sure")
	step(t, n, s, "1")
	step(t, n, s, "yes")
	step(t, n, s, "yes")
	drain(t, n, s, fnol.StateVehicleDriver, "yes")
	if s.CurrentState != fnol.StateThirdParties {
		t.Fatalf("state = %s", s.CurrentState)
	}
	step(t, n, s, "no")
	drain(t, n, s, fnol.StateThirdParties, "no")
	if s.CurrentState != fnol.StateInjuries {
		t.Fatalf("state = %s", s.CurrentState)
	}
	step(t, n, s, "yes")
	step(t, n, s, "me")
	step(t, n, s, "severe")
	if s.CurrentState != fnol.StateHandoffEscalation {
		t.Fatalf("state = %s", s.CurrentState)
	}
	if s.Escalation == nil || s.Escalation.EscalationType != "severe_injury" || s.Escalation.Queue != "injury_claims" {
		t.Fatalf("escalation = %+v", s.Escalation)
	}
}

func TestEndToEndTwoVehicleClaim(t *testing.T) {
	n := newTestNodes(t)
	s := newSession(t, n, "pol-demo-1")
	advanceToLossModule(t, n, s)
	step(t, n, s, "yes")
	drain(t, n, s, fnol.StateLossModule, "rear_end")

	if s.CurrentState != fnol.StateVehicleDriver {
		t.Fatalf("state = %s", s.CurrentState)
	}
	step(t, n, s, "1")
	step(t, n, s, "yes")
	step(t, n, s, "yes")
	drain(t, n, s, fnol.StateVehicleDriver, "yes")
	if v := insuredVehicle(s); v == nil || v.Make != "Honda" || v.Drivable != "yes" {
		t.Fatalf("insured vehicle = %+v", insuredVehicle(s))
	}

	if s.CurrentState != fnol.StateThirdParties {
		t.Fatalf("state = %s", s.CurrentState)
	}
	step(t, n, s, "yes, I have their info")
	step(t, n, s, "Jane Roe")
	step(t, n, s, "skip")
	step(t, n, s, "a blue 2019 Toyota Camry, plate XYZ5678")
	step(t, n, s, "no")
	step(t, n, s, "no")
	drain(t, n, s, fnol.StateThirdParties, "no")

	if s.CurrentState != fnol.StateInjuries {
		t.Fatalf("state = %s", s.CurrentState)
	}
	step(t, n, s, "no, everyone is fine")

	if s.CurrentState != fnol.StateDamageEvidence {
		t.Fatalf("state = %s", s.CurrentState)
	}
	step(t, n, s, "rear bumper")
	step(t, n, s, "the bumper is cracked and hanging loose")
	step(t, n, s, "minor")
	step(t, n, s, "no")
	step(t, n, s, "upload")
	step(t, n, s, "done")
	drain(t, n, s, fnol.StateDamageEvidence, "no")

	if s.Triage == nil {
		t.Fatal("no triage result")
	}
	if s.Triage.Route != "stp" && s.Triage.Route != "adjuster" {
		t.Fatalf("route = %s", s.Triage.Route)
	}
	if s.CurrentState != fnol.StateClaimCreate || s.StateStep != "confirm" {
		t.Fatalf("state=%s step=%s", s.CurrentState, s.StateStep)
	}
	if !strings.Contains(s.AIResponse, "Honda Accord") || !strings.Contains(s.AIResponse, "Jane Roe") {
		t.Fatalf("summary = %q", s.AIResponse)
	}

	step(t, n, s, "yes")
	if s.ClaimNumber != "FNOL-2025-AB12CD" || !s.FraudAcknowledgment {
		t.Fatalf("claim=%s ack=%v", s.ClaimNumber, s.FraudAcknowledgment)
	}
	if s.CurrentState != fnol.StateNextSteps {
		t.Fatalf("state = %s", s.CurrentState)
	}
	if !strings.Contains(s.AIResponse, "FNOL-2025-AB12CD") {
		t.Fatalf("next steps = %q", s.AIResponse)
	}

	step(t, n, s, "nothing else, thanks")
	if !s.IsComplete {
		t.Fatalf("expected completion, step=%s", s.StateStep)
	}

	for _, phase := range []string{fnol.StateSafetyCheck, fnol.StateIncidentCore, fnol.StateTriage} {
		found := false
		for _, c := range s.CompletedStates {
			if c == phase {
				found = true
			}
		}
		if !found {
			t.Errorf("phase %s not in completed states %v", phase, s.CompletedStates)
		}
	}
}

func TestClaimCreateEditReturnsToSummary(t *testing.T) {
	n := newTestNodes(t)
	s := newSession(t, n, "pol-demo-1")
	advanceToLossModule(t, n, s)
	step(t, n, s, "yes")
	drain(t, n, s, fnol.StateLossModule, "rear_end")
	step(t, n, s, "1")
	step(t, n, s, "yes")
	step(t, n, s, "yes")
	drain(t, n, s, fnol.StateVehicleDriver, "yes")
	step(t, n, s, "no")
	drain(t, n, s, fnol.StateThirdParties, "no")
	step(t, n, s, "no")
	step(t, n, s, "rear bumper")
	step(t, n, s, "cracked bumper, nothing structural")
	step(t, n, s, "minor")
	step(t, n, s, "no")
	step(t, n, s, "later")
	drain(t, n, s, fnol.StateDamageEvidence, "no")
	if s.CurrentState != fnol.StateClaimCreate {
		t.Fatalf("state = %s", s.CurrentState)
	}

	step(t, n, s, "no")
	step(t, n, s, "damage")
	if s.CurrentState != fnol.StateDamageEvidence {
		t.Fatalf("edit target = %s", s.CurrentState)
	}
	step(t, n, s, "rear bumper and trunk")
	step(t, n, s, "worse than I thought, trunk won't close")
	step(t, n, s, "moderate")
	step(t, n, s, "no")
	step(t, n, s, "later")
	drain(t, n, s, fnol.StateDamageEvidence, "no")
	if s.CurrentState != fnol.StateClaimCreate || s.StateStep != "confirm" {
		t.Fatalf("after edit: state=%s step=%s", s.CurrentState, s.StateStep)
	}
}

func TestHandoffCallback(t *testing.T) {
	n := newTestNodes(t)
	s := newSession(t, n, "pol-demo-1")
	s.ShouldEscalate = true
	s.EscalationReason = "User requested to start over"
	s.CurrentState = fnol.StateHandoffEscalation
	s.StateStep = "initial"
	step(t, n, s, "")
	if s.StateStep != "awaiting_contact_choice" {
		t.Fatalf("step = %s", s.StateStep)
	}
	step(t, n, s, "call me back")
	step(t, n, s, "512-555-0134")
	if !s.IsComplete || s.Escalation.CallbackNumber != "(512) 555-0134" {
		t.Fatalf("complete=%v escalation=%+v", s.IsComplete, s.Escalation)
	}
}

func TestDetermineEscalationType(t *testing.T) {
	s := fnol.NewState("t", "", "", testNow)
	s.EscalationReason = "Claim creation failed"
	if got := determineEscalationType(s); got != "technical_issue" {
		t.Errorf("technical = %q", got)
	}
	s.EscalationReason = "possible fraud indicators"
	if got := determineEscalationType(s); got != "fraud_suspected" {
		t.Errorf("fraud = %q", got)
	}
	s.EmergencyDetected = true
	if got := determineEscalationType(s); got != "emergency" {
		t.Errorf("emergency = %q", got)
	}
}

func TestTransitionClearsScratchData(t *testing.T) {
	n := newTestNodes(t)
	s := newSession(t, n, "pol-demo-1")
	step(t, n, s, "yes")
	s.StateData["leftover"] = true
	step(t, n, s, "no")
	if s.CurrentState != fnol.StateIncidentCore {
		t.Fatalf("state = %s", s.CurrentState)
	}
	if len(s.StateData) != 0 {
		t.Fatalf("scratch data survived transition: %v", s.StateData)
	}
	if s.PreviousState != fnol.StateIdentityMatch {
		t.Fatalf("previous state = %s", s.PreviousState)
	}
}
