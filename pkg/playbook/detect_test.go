package playbook

import (
	"testing"

	"github.com/ormasoftchile/fnol/pkg/fnol"
)

// TestHitAndRunDetection verifies fled-scene language scores high.
func TestHitAndRunDetection(t *testing.T) {
	s := newTestState()
	s.Incident.LossType = "collision"
	s.Incident.Description = "someone hit my parked car and drove off"

	conf := NewHitAndRun().Detect(s)
	if conf < 0.9 {
		t.Errorf("hit_and_run confidence = %.2f, want >= 0.9", conf)
	}
}

// TestHitAndRunSubtype verifies the recorded loss subtype alone is enough.
func TestHitAndRunSubtype(t *testing.T) {
	s := newTestState()
	s.Incident.LossType = "collision"
	s.Incident.LossSubtype = "hit_and_run"

	conf := NewHitAndRun().Detect(s)
	if conf < 0.9 {
		t.Errorf("hit_and_run confidence = %.2f, want >= 0.9", conf)
	}
}

// TestTwoVehicleFledPenalty verifies hit-and-run language lowers the
// two-vehicle score.
func TestTwoVehicleFledPenalty(t *testing.T) {
	s := newTestState()
	s.Incident.LossType = "collision"
	s.Incident.Description = "a car hit me and fled the scene"

	plain := newTestState()
	plain.Incident.LossType = "collision"
	plain.Incident.Description = "a car hit me at the intersection"

	if NewTwoVehicle().Detect(s) >= NewTwoVehicle().Detect(plain) {
		t.Error("fled-scene language should lower the two_vehicle score")
	}
}

// TestSevereInjuryDetection verifies a fatal injury saturates confidence.
func TestSevereInjuryDetection(t *testing.T) {
	s := newTestState()
	s.Injuries = []fnol.InjuryData{{InjuryID: "i1", Severity: "fatal"}}

	if conf := NewSevereInjury().Detect(s); conf != 1.0 {
		t.Errorf("severe_injury confidence = %.2f, want 1.0", conf)
	}
}

// TestParkingLotKeywordScaling verifies the per-keyword scaling with cap.
func TestParkingLotKeywordScaling(t *testing.T) {
	s := newTestState()
	s.Incident.LossType = "collision"
	s.Incident.Description = "I was backing out of a parking space"
	s.Incident.LocationRaw = "grocery store parking lot"

	// Keywords: "backing out", "parking space", "grocery store", "parking lot"
	// score = 0.2 + min(0.7, 4*0.25) = 0.9
	conf := NewParkingLot().Detect(s)
	if conf < 0.85 || conf > 0.95 {
		t.Errorf("parking_lot confidence = %.2f, want 0.9", conf)
	}
}

// TestVehicleTheftDetection verifies a theft loss with theft language.
func TestVehicleTheftDetection(t *testing.T) {
	s := newTestState()
	s.Incident.LossType = "theft"
	s.Incident.Description = "my car was stolen overnight"

	if conf := NewVehicleTheft().Detect(s); conf != 1.0 {
		t.Errorf("vehicle_theft confidence = %.2f, want 1.0", conf)
	}
}

// TestDefaultDetectScoring exercises the shared condition/keyword scoring.
func TestDefaultDetectScoring(t *testing.T) {
	b := base{
		keywords:   []string{"alpha", "beta", "gamma", "delta"},
		conditions: map[string]string{"incident.loss_type": "collision"},
	}
	s := newTestState()
	s.Incident.LossType = "collision"
	s.Incident.Description = "alpha beta gamma delta"

	// 0.4 condition + keyword cap 0.6
	if got := b.Detect(s); got != 1.0 {
		t.Errorf("base detect = %.2f, want 1.0", got)
	}

	s.Incident.Description = "alpha only"
	if got := b.Detect(s); got < 0.59 || got > 0.61 {
		t.Errorf("base detect = %.2f, want 0.6", got)
	}
}
