package triage

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/ormasoftchile/fnol/pkg/fnol"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultRules())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	e.now = func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) }
	return e
}

func newTestState() *fnol.State {
	return fnol.NewState("thread-test", "", "", time.Now())
}

// TestDefaultRulesValid verifies the embedded table passes domain validation
// and compiles.
func TestDefaultRulesValid(t *testing.T) {
	rs := DefaultRules()
	if rs.Version != "1.0.0" {
		t.Errorf("version = %q, want 1.0.0", rs.Version)
	}
	if errs := ValidateDomain(rs); len(errs) > 0 {
		t.Errorf("domain validation errors: %v", errs)
	}
	if _, err := NewEngine(rs); err != nil {
		t.Errorf("NewEngine: %v", err)
	}
}

// TestValidateFilePipeline verifies the 3-phase pipeline accepts the default
// table and rejects unknown fields.
func TestValidateFilePipeline(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "rules.yaml")
	if err := os.WriteFile(good, defaultRulesYAML, 0644); err != nil {
		t.Fatal(err)
	}
	if _, errs := ValidateFile(good); len(errs) > 0 {
		t.Errorf("default table should validate, got: %v", errs)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("version: \"1.0.0\"\nbogus_section: []\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, errs := ValidateFile(bad); len(errs) == 0 {
		t.Error("unknown field should fail structural validation")
	}
}

// TestFatalInjuryAlwaysEmergency verifies the hard rule wins even when the
// scoring rules would produce a straight-through score.
func TestFatalInjuryAlwaysEmergency(t *testing.T) {
	e := newTestEngine(t)
	s := newTestState()
	s.Incident.LossType = "collision"
	s.ActivePlaybooks = []string{"glass_only"}
	s.Evidence = []fnol.EvidenceData{{EvidenceID: "e1", EvidenceType: "photo"}}
	s.Injuries = []fnol.InjuryData{{InjuryID: "i1", Severity: "fatal"}}

	res, err := e.Evaluate(s, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Route != RouteEmergency {
		t.Errorf("route = %q, want emergency", res.Route)
	}
	if res.Score != HardRuleScore {
		t.Errorf("score = %d, want %d", res.Score, HardRuleScore)
	}
	if res.RuleVersion != "1.0.0" {
		t.Errorf("rule_version = %q, want 1.0.0", res.RuleVersion)
	}
	if len(res.Reasons) != 1 || res.Reasons[0] != "Fatal injury reported" {
		t.Errorf("reasons = %v", res.Reasons)
	}
}

// TestHardRuleOrder verifies hospitalization outranks the severe-injury
// rule for a severe injury with hospital admission.
func TestHardRuleOrder(t *testing.T) {
	e := newTestEngine(t)
	s := newTestState()
	s.Injuries = []fnol.InjuryData{{InjuryID: "i1", Severity: "severe", TreatmentLevel: "admitted"}}

	res, err := e.Evaluate(s, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Route != RouteEmergency {
		t.Errorf("route = %q, want emergency (hospitalized outranks severe)", res.Route)
	}
	if len(res.Reasons) != 1 || res.Reasons[0] != "Hospitalization required" {
		t.Errorf("reasons = %v", res.Reasons)
	}
}

// TestAnyInjuryRoutesAdjuster verifies a minor injury still forces review.
func TestAnyInjuryRoutesAdjuster(t *testing.T) {
	e := newTestEngine(t)
	s := newTestState()
	s.Injuries = []fnol.InjuryData{{InjuryID: "i1", Severity: "minor"}}

	res, err := e.Evaluate(s, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Route != RouteAdjuster {
		t.Errorf("route = %q, want adjuster", res.Route)
	}
	if res.Score != HardRuleScore {
		t.Errorf("score = %d, want %d", res.Score, HardRuleScore)
	}
}

// TestDUIHardRule verifies DUI suspicion short-circuits to siu_review.
func TestDUIHardRule(t *testing.T) {
	e := newTestEngine(t)
	s := newTestState()
	s.Police.DUISuspected = true

	res, err := e.Evaluate(s, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Route != RouteSIUReview {
		t.Errorf("route = %q, want siu_review", res.Route)
	}
	if res.Score != HardRuleScore {
		t.Errorf("score = %d, want %d", res.Score, HardRuleScore)
	}
}

// TestSIUFlagThreshold verifies one flag keeps the scoring path and two
// force siu_review.
func TestSIUFlagThreshold(t *testing.T) {
	e := newTestEngine(t)

	recent := e.now().AddDate(0, 0, -10)
	s := newTestState()
	s.PolicyMatch.EffectiveDate = &recent

	res, err := e.Evaluate(s, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Route == RouteSIUReview {
		t.Errorf("single SIU flag should not force siu_review, got %+v", res)
	}
	if !slices.Contains(res.Flags, "siu_recent_policy") {
		t.Errorf("flags = %v, want siu_recent_policy recorded", res.Flags)
	}

	s.StateData["narrative_flags"] = []any{"timeline_mismatch"}
	res, err = e.Evaluate(s, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Route != RouteSIUReview {
		t.Errorf("route = %q, want siu_review with two flags", res.Route)
	}
	if res.Score != SIUReviewScore {
		t.Errorf("score = %d, want %d", res.Score, SIUReviewScore)
	}
	if !slices.Contains(res.Flags, "siu_inconsistent") {
		t.Errorf("flags = %v, want siu_inconsistent recorded", res.Flags)
	}
}

// TestScoringAccumulation verifies points, flags and reason strings.
func TestScoringAccumulation(t *testing.T) {
	e := newTestEngine(t)
	s := newTestState()
	s.Incident.LossType = "collision"
	s.Vehicles = []fnol.VehicleData{
		{VehicleID: "v1", Drivable: "no"},
		{VehicleID: "v2", Drivable: "yes"},
		{VehicleID: "v3", Drivable: "yes"},
	}

	// 60 (not drivable) + 80 (three vehicles) + 20 (no police report) = 160
	res, err := e.Evaluate(s, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Route != RouteSTP {
		t.Errorf("route = %q, want stp at score %d", res.Route, res.Score)
	}
	if res.Score != 160 {
		t.Errorf("score = %d, want 160", res.Score)
	}
	if !slices.Contains(res.Reasons, "+60 (vehicle_not_drivable)") {
		t.Errorf("reasons = %v, want +60 (vehicle_not_drivable)", res.Reasons)
	}
	if !slices.Contains(res.Flags, "multi_vehicle") {
		t.Errorf("flags = %v, want multi_vehicle", res.Flags)
	}
}

// TestAdjusterAboveThreshold verifies a high-complexity claim crosses into
// adjuster review.
func TestAdjusterAboveThreshold(t *testing.T) {
	e := newTestEngine(t)
	s := newTestState()
	s.Incident.LossType = "collision"
	s.ActivePlaybooks = []string{"hit_and_run"}
	s.Vehicles = []fnol.VehicleData{
		{VehicleID: "v1", Drivable: "no"},
		{VehicleID: "v2"},
		{VehicleID: "v3"},
	}
	s.Damages = []fnol.DamageData{{DamageID: "d1", EstimatedAmount: 18000}}

	// 60 + 80 + 50 + 70 + 20 = 280
	res, err := e.Evaluate(s, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Route != RouteAdjuster {
		t.Errorf("route = %q, want adjuster at score %d", res.Route, res.Score)
	}
	if res.Score != 280 {
		t.Errorf("score = %d, want 280", res.Score)
	}
}

// TestSTPBonuses verifies the negative bonuses and their reason format.
func TestSTPBonuses(t *testing.T) {
	e := newTestEngine(t)
	s := newTestState()
	s.Incident.LossType = "glass"
	s.ActivePlaybooks = []string{"glass_only"}
	s.Evidence = []fnol.EvidenceData{{EvidenceID: "e1", EvidenceType: "photo"}}
	s.Vehicles = []fnol.VehicleData{{VehicleID: "v1", Drivable: "yes"}}
	s.Damages = []fnol.DamageData{{DamageID: "d1", EstimatedAmount: 400}}

	// -50 (glass with photo) - 40 (drivable single vehicle, minor) = -90
	res, err := e.Evaluate(s, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Route != RouteSTP {
		t.Errorf("route = %q, want stp", res.Route)
	}
	if res.Score != -90 {
		t.Errorf("score = %d, want -90", res.Score)
	}
	if !slices.Contains(res.Reasons, "-50 (stp_candidate_glass)") {
		t.Errorf("reasons = %v, want -50 (stp_candidate_glass)", res.Reasons)
	}
}

// TestScoreBoundary verifies 200 routes stp and 201 routes adjuster using a
// minimal table around the threshold.
func TestScoreBoundary(t *testing.T) {
	rs := &RuleSet{
		Version: "test",
		ScoringRules: []ScoringRule{
			{ID: "base", Flag: "base", Points: 200, When: "true"},
			{ID: "extra", Flag: "extra", Points: 1, When: "vehicle_count == 1"},
		},
		Thresholds: Thresholds{AdjusterScore: 200, SIUFlagCount: 2},
	}
	e, err := NewEngine(rs)
	if err != nil {
		t.Fatal(err)
	}

	res, err := e.Evaluate(newTestState(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Score != 200 || res.Route != RouteSTP {
		t.Errorf("score 200 routed %q, want stp", res.Route)
	}

	s := newTestState()
	s.Vehicles = []fnol.VehicleData{{VehicleID: "v1"}}
	res, err = e.Evaluate(s, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Score != 201 || res.Route != RouteAdjuster {
		t.Errorf("score 201 routed %q, want adjuster", res.Route)
	}
}

// TestStagedIndicators exercises the staged-accident heuristics.
func TestStagedIndicators(t *testing.T) {
	s := newTestState()
	s.Incident.Time = "02:30"
	s.Injuries = []fnol.InjuryData{
		{InjuryID: "i1", Severity: "minor", Description: "Neck pain and whiplash"},
		{InjuryID: "i2", Severity: "minor", Description: "Lower back soreness"},
		{InjuryID: "i3", Severity: "minor", Description: "Neck strain"},
	}

	if got := stagedIndicators(s); got != 3 {
		t.Errorf("stagedIndicators = %d, want 3", got)
	}

	// A non-soft-tissue injury breaks the pattern indicator.
	s.Injuries[2].Description = "Broken arm"
	if got := stagedIndicators(s); got != 2 {
		t.Errorf("stagedIndicators = %d, want 2", got)
	}
}

// TestPolicyAgeDays verifies the age fact and its unknown sentinel.
func TestPolicyAgeDays(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	s := newTestState()
	if got := policyAgeDays(s, now); got != -1 {
		t.Errorf("policyAgeDays without effective date = %d, want -1", got)
	}

	eff := now.AddDate(0, 0, -45)
	s.PolicyMatch.EffectiveDate = &eff
	if got := policyAgeDays(s, now); got != 45 {
		t.Errorf("policyAgeDays = %d, want 45", got)
	}
}

// TestSummary verifies the user-facing route description.
func TestSummary(t *testing.T) {
	res := &fnol.TriageResult{
		Route: RouteSTP,
		Flags: []string{"stp_candidate_glass"},
	}
	got := Summary(res)
	if got != "This claim qualifies for expedited processing. Factors considered: stp candidate glass." {
		t.Errorf("summary = %q", got)
	}
}

// TestDomainValidationCatchesBadTable verifies duplicate IDs and broken
// conditions are reported.
func TestDomainValidationCatchesBadTable(t *testing.T) {
	rs := &RuleSet{
		Version: "bad",
		HardRules: []HardRule{
			{ID: "dup", When: "fatal_injury", Route: "emergency", Reason: "x"},
			{ID: "dup", When: "vehicle_count ==", Route: "sideways", Reason: "y"},
		},
		Thresholds: Thresholds{AdjusterScore: 200, SIUFlagCount: 2},
	}
	errs := ValidateDomain(rs)
	if len(errs) < 3 {
		t.Errorf("expected duplicate id, bad condition and bad route errors, got: %v", errs)
	}
}
