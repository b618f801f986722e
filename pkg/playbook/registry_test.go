package playbook

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ormasoftchile/fnol/pkg/fnol"
)

func newTestState() *fnol.State {
	return fnol.NewState("thread-test", "", "", time.Now())
}

// TestRegistryHasFullScenarioSet verifies all 22 scenarios register.
func TestRegistryHasFullScenarioSet(t *testing.T) {
	r := NewRegistry()
	ids := r.IDs()
	if len(ids) != 22 {
		t.Fatalf("registered playbooks = %d, want 22", len(ids))
	}
	for _, id := range []string{"two_vehicle", "hit_and_run", "vehicle_theft", "glass_only", "police_dui"} {
		if _, ok := r.Get(id); !ok {
			t.Errorf("playbook %q not registered", id)
		}
	}
}

// TestRegisterDuplicate verifies duplicate IDs are rejected.
func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(NewTwoVehicle()); err == nil {
		t.Fatal("expected duplicate registration error")
	}
}

// TestDetectApplicableOrdering builds the canonical two-vehicle rear-end
// scenario and verifies two_vehicle ranks first with high confidence.
func TestDetectApplicableOrdering(t *testing.T) {
	r := NewRegistry()
	s := newTestState()
	s.Incident.LossType = "collision"
	s.Incident.Description = "the other car rear-ended me"
	s.Vehicles = []fnol.VehicleData{
		{VehicleID: "v1", Role: "insured"},
		{VehicleID: "v2", Role: "third_party"},
	}

	detected := r.DetectApplicable(s)
	if len(detected) == 0 {
		t.Fatal("no playbooks detected")
	}
	if detected[0].PlaybookID != "two_vehicle" {
		t.Errorf("top playbook = %q, want two_vehicle (all: %+v)", detected[0].PlaybookID, detected)
	}
	if detected[0].Confidence < 0.9 {
		t.Errorf("two_vehicle confidence = %.2f, want >= 0.9", detected[0].Confidence)
	}
	for i := 1; i < len(detected); i++ {
		if detected[i].Confidence > detected[i-1].Confidence {
			t.Errorf("detections not sorted by confidence: %+v", detected)
		}
	}
}

// TestDetectApplicableThreshold verifies that low-confidence scenarios are
// excluded.
func TestDetectApplicableThreshold(t *testing.T) {
	r := NewRegistry()
	s := newTestState()
	s.Incident.LossType = "glass"
	s.Incident.Description = "a rock chipped my windshield on the highway"

	detected := r.DetectApplicable(s)
	for _, d := range detected {
		if d.Confidence < DefaultDetectionThreshold {
			t.Errorf("playbook %q below threshold: %.2f", d.PlaybookID, d.Confidence)
		}
		if d.PlaybookID == "vehicle_theft" {
			t.Error("vehicle_theft should not trigger on a glass claim")
		}
	}
	found := false
	for _, d := range detected {
		if d.PlaybookID == "glass_only" {
			found = true
		}
	}
	if !found {
		t.Errorf("glass_only not detected: %+v", detected)
	}
}

// TestDetectApplicablePriorityTieBreak verifies equal confidences order by
// playbook priority ascending.
func TestDetectApplicablePriorityTieBreak(t *testing.T) {
	r := &Registry{playbooks: map[string]Playbook{}, threshold: DefaultDetectionThreshold, log: zerolog.Nop()}
	a := fixedConfidence{base: base{id: "later_priority", priority: 60}, conf: 0.5}
	b := fixedConfidence{base: base{id: "early_priority", priority: 10}, conf: 0.5}
	if err := r.Register(a); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(b); err != nil {
		t.Fatal(err)
	}

	detected := r.DetectApplicable(newTestState())
	if len(detected) != 2 {
		t.Fatalf("detected = %d, want 2", len(detected))
	}
	if detected[0].PlaybookID != "early_priority" {
		t.Errorf("tie break order = %+v, want early_priority first", detected)
	}
}

// TestDetectPanicSkipped verifies a faulty playbook does not halt detection.
func TestDetectPanicSkipped(t *testing.T) {
	r := &Registry{playbooks: map[string]Playbook{}, threshold: DefaultDetectionThreshold, log: zerolog.Nop()}
	if err := r.Register(panicky{base{id: "broken"}}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(fixedConfidence{base: base{id: "healthy"}, conf: 0.8}); err != nil {
		t.Fatal(err)
	}

	detected := r.DetectApplicable(newTestState())
	if len(detected) != 1 || detected[0].PlaybookID != "healthy" {
		t.Errorf("detected = %+v, want only healthy", detected)
	}
}

// TestQuestionsForState verifies questions are tagged and priority sorted.
func TestQuestionsForState(t *testing.T) {
	r := NewRegistry()
	s := newTestState()
	s.ActivePlaybooks = []string{"two_vehicle", "multi_vehicle"}

	questions := r.QuestionsForState(fnol.StateIncidentCore, s)
	if len(questions) == 0 {
		t.Fatal("no questions returned")
	}
	for i, q := range questions {
		if q.PlaybookID == "" {
			t.Errorf("question %q missing playbook tag", q.QuestionID)
		}
		if i > 0 && q.Priority < questions[i-1].Priority {
			t.Errorf("questions not sorted by priority: %s(%d) after %s(%d)",
				q.QuestionID, q.Priority, questions[i-1].QuestionID, questions[i-1].Priority)
		}
	}
	// multi_vehicle_count (priority 25) sorts ahead of two_vehicle_impact_type (30)
	if questions[0].QuestionID != "multi_vehicle_count" {
		t.Errorf("first question = %q, want multi_vehicle_count", questions[0].QuestionID)
	}
}

// TestValidateAllPrefixesMessages verifies errors and warnings carry the
// playbook ID prefix.
func TestValidateAllPrefixesMessages(t *testing.T) {
	r := NewRegistry()
	s := newTestState()
	s.ActivePlaybooks = []string{"vehicle_theft"}
	s.PlaybookData = map[string]any{"police_info.report_status": "no"}

	res := r.ValidateAll(s)
	if res.Valid {
		t.Fatal("expected invalid result when police report missing for theft")
	}
	if len(res.Errors) == 0 || !strings.HasPrefix(res.Errors[0], "[vehicle_theft] ") {
		t.Errorf("errors = %v, want [vehicle_theft] prefix", res.Errors)
	}
}

// TestAllTriageFlagsDeduplicates verifies the flag union drops repeats.
func TestAllTriageFlagsDeduplicates(t *testing.T) {
	r := NewRegistry()
	s := newTestState()
	// Both report comprehensive_claim
	s.ActivePlaybooks = []string{"hail", "flood"}

	flags := r.AllTriageFlags(s)
	count := 0
	for _, f := range flags {
		if f == "comprehensive_claim" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("comprehensive_claim appears %d times, want 1 (flags: %v)", count, flags)
	}
}

// TestRequiredEvidenceDeduplicates verifies evidence items deduplicate by
// type and description.
func TestRequiredEvidenceDeduplicates(t *testing.T) {
	r := NewRegistry()
	s := newTestState()
	// Both request "Photos of damage"
	s.ActivePlaybooks = []string{"rental", "out_of_state"}

	evidence := r.RequiredEvidence(s)
	seen := map[string]int{}
	for _, e := range evidence {
		seen[e.Type+":"+e.Description]++
	}
	for key, n := range seen {
		if n > 1 {
			t.Errorf("evidence %q appears %d times", key, n)
		}
	}
}

// fixedConfidence is a stub playbook returning a constant detection score.
type fixedConfidence struct {
	base
	conf float64
}

func (p fixedConfidence) Detect(s *fnol.State) float64 { return p.conf }

// panicky is a stub playbook whose detection always panics.
type panicky struct{ base }

func (p panicky) Detect(s *fnol.State) float64 { panic("boom") }
