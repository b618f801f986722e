package playbook

import (
	"fmt"
	"strings"

	"github.com/ormasoftchile/fnol/pkg/fnol"
)

// TwoVehicle covers the standard collision between two vehicles.
type TwoVehicle struct{ base }

// NewTwoVehicle returns the two-vehicle collision playbook.
func NewTwoVehicle() TwoVehicle {
	return TwoVehicle{base{
		id:          "two_vehicle",
		name:        "Two-Vehicle Collision",
		description: "Standard collision involving two vehicles",
		category:    "collision",
		priority:    50,
		keywords: []string{
			"hit", "collision", "crash", "accident", "rear-ended", "rear ended",
			"t-boned", "sideswiped", "sideswipe", "other car", "other vehicle",
			"their car", "another car", "other driver",
		},
		conditions: map[string]string{"incident.loss_type": "collision"},
		flags:      []string{"standard_collision"},
	}}
}

func (p TwoVehicle) Detect(s *fnol.State) float64 {
	score := 0.0
	if s.Incident.LossType == "collision" {
		score += 0.4
	}
	// Exactly two vehicles suggests a two-vehicle collision
	if len(s.Vehicles) == 2 || s.Incident.LossSubtype == "two_vehicle" {
		score += 0.5
	}
	desc := strings.ToLower(s.Incident.Description)
	for _, kw := range p.keywords {
		if strings.Contains(desc, kw) {
			score += 0.2
			break
		}
	}
	// Reduce score if hit-and-run indicators present
	for _, kw := range []string{"left", "fled", "ran", "unknown"} {
		if strings.Contains(desc, kw) {
			score -= 0.3
			break
		}
	}
	return clamp(score)
}

func (p TwoVehicle) Questions(phase string, s *fnol.State) []Question {
	var questions []Question
	if phase == fnol.StateIncidentCore {
		questions = append(questions, Question{
			QuestionID: "two_vehicle_impact_type",
			State:      fnol.StateIncidentCore,
			Priority:   30,
			Text:       "How did the vehicles collide?",
			InputType:  InputSelect,
			Options: []fnol.UIOption{
				{Value: "rear_end", Label: "Rear-end collision"},
				{Value: "t_bone", Label: "T-bone/Side impact"},
				{Value: "sideswipe", Label: "Sideswipe"},
				{Value: "head_on", Label: "Head-on collision"},
				{Value: "angle", Label: "Angle collision"},
				{Value: "other", Label: "Other"},
			},
			Field:    "incident.impact_type",
			Required: true,
		})
	}
	if phase == fnol.StateThirdParties {
		questions = append(questions, Question{
			QuestionID: "two_vehicle_fault",
			State:      fnol.StateThirdParties,
			Priority:   50,
			Text:       "In your opinion, who was at fault for this collision?",
			HelpText:   "This is just for our records - fault determination will be made during the claims process.",
			InputType:  InputSelect,
			Options: []fnol.UIOption{
				{Value: "other_driver", Label: "The other driver"},
				{Value: "me", Label: "I was at fault"},
				{Value: "shared", Label: "Shared responsibility"},
				{Value: "unsure", Label: "I'm not sure"},
			},
			Field: "incident.fault_opinion",
		})
	}
	return questions
}

func (p TwoVehicle) Validate(s *fnol.State) ValidationResult {
	res := ValidationResult{Valid: true}
	if len(s.Vehicles) < 2 {
		res.Warnings = append(res.Warnings, "Other vehicle information not yet collected")
	}
	hasThirdPartyDriver := false
	for _, party := range s.Parties {
		if party.Role == "tp_driver" {
			hasThirdPartyDriver = true
		}
	}
	if !hasThirdPartyDriver {
		res.Warnings = append(res.Warnings, "Other driver information not yet collected")
	}
	return res
}

func (p TwoVehicle) RequiredEvidence(s *fnol.State) []EvidenceRequirement {
	return []EvidenceRequirement{
		{Type: "photo", Description: "Photos of damage to your vehicle"},
		{Type: "photo", Description: "Photos of damage to the other vehicle"},
		{Type: "photo", Description: "Photos of the accident scene"},
		{Type: "photo", Description: "Photo of the other driver's license plate"},
		{Type: "document", Description: "Police report (if available)"},
	}
}

// SingleVehicle covers collisions involving only the insured vehicle.
type SingleVehicle struct{ base }

// NewSingleVehicle returns the single-vehicle collision playbook.
func NewSingleVehicle() SingleVehicle {
	return SingleVehicle{base{
		id:          "single_vehicle",
		name:        "Single-Vehicle Collision",
		description: "Collision involving only one vehicle",
		category:    "collision",
		priority:    50,
		keywords: []string{
			"hit a", "ran into", "crashed into", "slid", "lost control",
			"off the road", "off road", "ditch", "pole", "tree", "guardrail",
			"barrier", "fence", "wall", "curb", "pothole", "rolled",
			"flipped", "only my", "just my", "no other",
		},
		conditions: map[string]string{"incident.loss_type": "collision"},
		flags:      []string{"single_vehicle"},
	}}
}

func (p SingleVehicle) Detect(s *fnol.State) float64 {
	score := 0.0
	if s.Incident.LossType == "collision" {
		score += 0.3
	}
	if len(s.Vehicles) == 1 {
		score += 0.4
	}
	desc := strings.ToLower(s.Incident.Description)
	for _, kw := range p.keywords {
		if strings.Contains(desc, kw) {
			score += 0.4
			break
		}
	}
	if s.Incident.LossSubtype == "single_vehicle" {
		score += 0.3
	}
	return clamp(score)
}

func (p SingleVehicle) Questions(phase string, s *fnol.State) []Question {
	if phase != fnol.StateIncidentCore {
		return nil
	}
	return []Question{
		{
			QuestionID: "single_vehicle_object",
			State:      fnol.StateIncidentCore,
			Priority:   30,
			Text:       "What did you hit or collide with?",
			InputType:  InputSelect,
			Options: []fnol.UIOption{
				{Value: "tree", Label: "Tree"},
				{Value: "pole", Label: "Pole/Post"},
				{Value: "guardrail", Label: "Guardrail/Barrier"},
				{Value: "curb", Label: "Curb"},
				{Value: "ditch", Label: "Ditch/Embankment"},
				{Value: "building", Label: "Building/Structure"},
				{Value: "pothole", Label: "Pothole"},
				{Value: "rollover", Label: "Vehicle rolled over"},
				{Value: "other", Label: "Other"},
			},
			Field:    "incident.collision_object",
			Required: true,
		},
		{
			QuestionID: "single_vehicle_cause",
			State:      fnol.StateIncidentCore,
			Priority:   35,
			Text:       "What caused you to lose control or collide?",
			InputType:  InputSelect,
			Options: []fnol.UIOption{
				{Value: "weather", Label: "Weather conditions (ice, rain, snow)"},
				{Value: "road", Label: "Road conditions (debris, pothole)"},
				{Value: "avoidance", Label: "Swerved to avoid something"},
				{Value: "tire", Label: "Tire blowout"},
				{Value: "mechanical", Label: "Mechanical failure"},
				{Value: "distraction", Label: "Distraction"},
				{Value: "other", Label: "Other/Not sure"},
			},
			Field: "incident.collision_cause",
		},
	}
}

func (p SingleVehicle) Validate(s *fnol.State) ValidationResult {
	res := ValidationResult{Valid: true}
	if answer(s, "incident.collision_object") == "" {
		res.Warnings = append(res.Warnings, "Object of collision not specified")
	}
	return res
}

func (p SingleVehicle) RequiredEvidence(s *fnol.State) []EvidenceRequirement {
	return []EvidenceRequirement{
		{Type: "photo", Description: "Photos of vehicle damage"},
		{Type: "photo", Description: "Photos of the collision scene"},
		{Type: "photo", Description: "Photos of what was hit (tree, pole, etc.)"},
	}
}

// MultiVehicle covers collisions involving three or more vehicles.
type MultiVehicle struct{ base }

// NewMultiVehicle returns the multi-vehicle collision playbook.
func NewMultiVehicle() MultiVehicle {
	return MultiVehicle{base{
		id:          "multi_vehicle",
		name:        "Multi-Vehicle Collision",
		description: "Collision involving three or more vehicles",
		category:    "collision",
		priority:    30,
		keywords: []string{
			"pile up", "pileup", "pile-up", "chain reaction", "multiple",
			"several cars", "three cars", "four cars", "many vehicles",
			"multiple vehicles", "3 cars", "4 cars", "5 cars",
		},
		conditions: map[string]string{"incident.loss_type": "collision"},
		flags:      []string{"multi_vehicle", "complex_claim"},
	}}
}

func (p MultiVehicle) Detect(s *fnol.State) float64 {
	score := 0.0
	if s.Incident.LossType == "collision" {
		score += 0.2
	}
	if len(s.Vehicles) >= 3 {
		score += 0.7
	}
	desc := strings.ToLower(s.Incident.Description)
	for _, kw := range p.keywords {
		if strings.Contains(desc, kw) {
			score += 0.4
			break
		}
	}
	if s.Incident.LossSubtype == "multi_vehicle" {
		score += 0.5
	}
	return clamp(score)
}

func (p MultiVehicle) Questions(phase string, s *fnol.State) []Question {
	var questions []Question
	if phase == fnol.StateIncidentCore {
		questions = append(questions, Question{
			QuestionID: "multi_vehicle_count",
			State:      fnol.StateIncidentCore,
			Priority:   25,
			Text:       "How many vehicles were involved in this collision?",
			InputType:  InputSelect,
			Options: []fnol.UIOption{
				{Value: "3", Label: "3 vehicles"},
				{Value: "4", Label: "4 vehicles"},
				{Value: "5", Label: "5 vehicles"},
				{Value: "6+", Label: "6 or more vehicles"},
			},
			Field:    "incident.vehicle_count",
			Required: true,
		}, Question{
			QuestionID: "multi_vehicle_position",
			State:      fnol.StateIncidentCore,
			Priority:   28,
			Text:       "What position was your vehicle in the collision sequence?",
			HelpText:   "For example, if you were rear-ended then pushed into another car, you were in the middle.",
			InputType:  InputSelect,
			Options: []fnol.UIOption{
				{Value: "first", Label: "First in chain (front)"},
				{Value: "middle", Label: "Middle of chain"},
				{Value: "last", Label: "Last in chain (rear)"},
				{Value: "unsure", Label: "Not sure"},
			},
			Field: "incident.vehicle_position",
		})
	}
	if phase == fnol.StateThirdParties {
		questions = append(questions, Question{
			QuestionID: "multi_vehicle_info_count",
			State:      fnol.StateThirdParties,
			Priority:   10,
			Text:       "How many of the other drivers' information were you able to get?",
			InputType:  InputSelect,
			Options: []fnol.UIOption{
				{Value: "all", Label: "All of them"},
				{Value: "some", Label: "Some of them"},
				{Value: "none", Label: "None of them"},
			},
			Field:    "third_parties.info_collected",
			Required: true,
		})
	}
	return questions
}

func (p MultiVehicle) Validate(s *fnol.State) ValidationResult {
	res := ValidationResult{Valid: true}
	if answer(s, "incident.vehicle_count") == "" {
		res.Warnings = append(res.Warnings, "Number of vehicles not specified")
	}
	if len(s.Vehicles) < 3 {
		res.Warnings = append(res.Warnings, "Full vehicle information not yet collected")
	}
	return res
}

func (p MultiVehicle) TriageFlags(s *fnol.State) []string {
	flags := []string{"multi_vehicle", "complex_claim"}
	if countInjuries(s) > 0 {
		flags = append(flags, "multi_vehicle_with_injuries")
	}
	return flags
}

func (p MultiVehicle) RequiredEvidence(s *fnol.State) []EvidenceRequirement {
	evidence := []EvidenceRequirement{
		{Type: "photo", Description: "Photos of your vehicle damage"},
		{Type: "photo", Description: "Wide shots showing all vehicles"},
		{Type: "photo", Description: "Photos of the accident scene"},
		{Type: "document", Description: "Police report (highly recommended)"},
	}
	for i, v := range s.Vehicles {
		if v.Role != "insured" {
			evidence = append(evidence, EvidenceRequirement{
				Type:        "photo",
				Description: fmt.Sprintf("Photos of vehicle #%d damage and license plate", i+1),
			})
		}
	}
	return evidence
}

// HitAndRun covers collisions where the other driver fled the scene.
type HitAndRun struct{ base }

// NewHitAndRun returns the hit-and-run playbook.
func NewHitAndRun() HitAndRun {
	return HitAndRun{base{
		id:          "hit_and_run",
		name:        "Hit and Run",
		description: "Collision where the other driver fled the scene",
		category:    "collision",
		priority:    20,
		keywords: []string{
			"hit and run", "hit-and-run", "fled", "left the scene", "ran away",
			"drove off", "drove away", "didn't stop", "unknown driver",
			"never stopped", "took off", "sped away", "disappeared",
		},
		conditions: map[string]string{"incident.loss_type": "collision"},
		flags:      []string{"hit_and_run", "police_report_required"},
	}}
}

func (p HitAndRun) Detect(s *fnol.State) float64 {
	score := 0.0
	if s.Incident.LossType == "collision" {
		score += 0.2
	}
	if p.matchesKeyword(s) {
		score += 0.7
	}
	if s.Incident.LossSubtype == "hit_and_run" {
		score += 0.8
	}
	for _, party := range s.Parties {
		if party.IsUnknown {
			score += 0.5
		}
	}
	return clamp(score)
}

func (p HitAndRun) Questions(phase string, s *fnol.State) []Question {
	var questions []Question
	if phase == fnol.StateIncidentCore {
		questions = append(questions, Question{
			QuestionID: "hit_run_partial_info",
			State:      fnol.StateIncidentCore,
			Priority:   30,
			Text:       "Were you able to get any information about the other vehicle?",
			InputType:  InputYesNo,
			Field:      "incident.partial_info_obtained",
			Required:   true,
		})
	}
	if phase == fnol.StateThirdParties {
		questions = append(questions, Question{
			QuestionID: "hit_run_vehicle_desc",
			State:      fnol.StateThirdParties,
			Priority:   15,
			Text:       "Can you describe the vehicle that hit you? (Make, model, color, any part of license plate)",
			InputType:  InputText,
			Field:      "third_parties.fleeing_vehicle_description",
		}, Question{
			QuestionID: "hit_run_direction",
			State:      fnol.StateThirdParties,
			Priority:   20,
			Text:       "Which direction did the vehicle go after the collision?",
			InputType:  InputText,
			Field:      "third_parties.flee_direction",
		}, Question{
			QuestionID: "hit_run_witnesses",
			State:      fnol.StateThirdParties,
			Priority:   25,
			Text:       "Were there any witnesses who might have seen more?",
			InputType:  InputYesNo,
			Field:      "third_parties.has_witnesses",
			Required:   true,
		}, Question{
			QuestionID: "hit_run_police",
			State:      fnol.StateThirdParties,
			Priority:   30,
			Text:       "Have you filed a police report?",
			HelpText:   "A police report is strongly recommended for hit-and-run claims.",
			InputType:  InputSelect,
			Options: []fnol.UIOption{
				{Value: "yes", Label: "Yes, I filed a report"},
				{Value: "will", Label: "I will file one"},
				{Value: "no", Label: "No"},
			},
			Field:    "police_info.report_status",
			Required: true,
		})
	}
	return questions
}

func (p HitAndRun) Validate(s *fnol.State) ValidationResult {
	res := ValidationResult{Valid: true}
	if !s.Police.ReportFiled && answer(s, "police_info.report_status") != "yes" {
		res.Warnings = append(res.Warnings, "Police report strongly recommended for hit-and-run claims")
	}
	return res
}

func (p HitAndRun) TriageFlags(s *fnol.State) []string {
	flags := []string{"hit_and_run"}
	if s.Police.ReportFiled {
		flags = append(flags, "police_report_filed")
	} else {
		flags = append(flags, "police_report_pending")
	}
	return flags
}

func (p HitAndRun) RequiredEvidence(s *fnol.State) []EvidenceRequirement {
	return []EvidenceRequirement{
		{Type: "photo", Description: "Photos of all damage to your vehicle"},
		{Type: "photo", Description: "Photos of the accident scene"},
		{Type: "document", Description: "Police report (required)"},
		{Type: "photo", Description: "Photos of any debris left by other vehicle"},
		{Type: "document", Description: "Witness statements (if available)"},
	}
}

// Uninsured covers collisions with an uninsured or underinsured driver.
type Uninsured struct{ base }

// NewUninsured returns the uninsured-motorist playbook.
func NewUninsured() Uninsured {
	return Uninsured{base{
		id:          "uninsured",
		name:        "Uninsured Motorist",
		description: "Collision with an uninsured or underinsured driver",
		category:    "collision",
		priority:    25,
		keywords: []string{
			"no insurance", "uninsured", "not insured", "without insurance",
			"expired insurance", "underinsured", "fake insurance",
			"no coverage", "lapsed",
		},
		conditions: map[string]string{"incident.loss_type": "collision"},
		flags:      []string{"uninsured_motorist"},
	}}
}

func (p Uninsured) Detect(s *fnol.State) float64 {
	score := 0.0
	if s.Incident.LossType == "collision" {
		score += 0.2
	}
	if p.matchesKeyword(s) {
		score += 0.6
	}
	for _, party := range s.Parties {
		switch party.InsuranceStatus {
		case "none", "uninsured", "unknown", "expired":
			score += 0.5
		}
	}
	switch answer(s, "third_parties.other_insurance_status") {
	case "uninsured", "expired", "underinsured":
		score += 0.8
	}
	return clamp(score)
}

func (p Uninsured) Questions(phase string, s *fnol.State) []Question {
	if phase != fnol.StateThirdParties {
		return nil
	}
	return []Question{
		{
			QuestionID: "uninsured_status",
			State:      fnol.StateThirdParties,
			Priority:   40,
			Text:       "What is the insurance status of the other driver?",
			InputType:  InputSelect,
			Options: []fnol.UIOption{
				{Value: "uninsured", Label: "No insurance"},
				{Value: "expired", Label: "Expired insurance"},
				{Value: "underinsured", Label: "Minimum/insufficient coverage"},
				{Value: "unknown", Label: "Unknown - they didn't provide info"},
				{Value: "valid", Label: "They have valid insurance"},
			},
			Field:    "third_parties.other_insurance_status",
			Required: true,
		},
		{
			QuestionID: "uninsured_verification",
			State:      fnol.StateThirdParties,
			Priority:   45,
			Text:       "How did you find out about their insurance status?",
			InputType:  InputSelect,
			Options: []fnol.UIOption{
				{Value: "told_me", Label: "They told me"},
				{Value: "card", Label: "Their insurance card was expired/fake"},
				{Value: "police", Label: "Police verified"},
				{Value: "carrier", Label: "Their insurance company confirmed"},
				{Value: "assumed", Label: "I'm assuming based on the situation"},
			},
			Field: "third_parties.insurance_verification_method",
		},
	}
}

func (p Uninsured) Validate(s *fnol.State) ValidationResult {
	res := ValidationResult{Valid: true}
	hasThirdPartyDriver := false
	for _, party := range s.Parties {
		if party.Role == "tp_driver" {
			hasThirdPartyDriver = true
		}
	}
	if !hasThirdPartyDriver {
		res.Warnings = append(res.Warnings, "Other driver information not collected")
	}
	return res
}

func (p Uninsured) TriageFlags(s *fnol.State) []string {
	// UM/UIM coverage lookup is the adjuster's job; flag it for review.
	return []string{"uninsured_motorist", "um_coverage_check_needed"}
}

func (p Uninsured) RequiredEvidence(s *fnol.State) []EvidenceRequirement {
	return []EvidenceRequirement{
		{Type: "photo", Description: "Photos of all vehicle damage"},
		{Type: "photo", Description: "Photo of other driver's license"},
		{Type: "photo", Description: "Photo of other vehicle's license plate"},
		{Type: "document", Description: "Police report"},
		{Type: "document", Description: "Copy of other driver's invalid/expired insurance card (if available)"},
	}
}

// ParkingLot covers collisions in parking lots and garages.
type ParkingLot struct{ base }

// NewParkingLot returns the parking-lot incident playbook.
func NewParkingLot() ParkingLot {
	return ParkingLot{base{
		id:          "parking_lot",
		name:        "Parking Lot Incident",
		description: "Collision or damage in a parking lot or garage",
		category:    "collision",
		priority:    60,
		keywords: []string{
			"parking lot", "parking garage", "parked", "parking structure",
			"while parked", "backing out", "backing up", "pulled out",
			"shopping center", "mall", "store parking", "parking space",
			"grocery store", "retail", "backed into",
		},
		conditions: map[string]string{"incident.loss_type": "collision"},
		flags:      []string{"parking_lot"},
	}}
}

func (p ParkingLot) Detect(s *fnol.State) float64 {
	score := 0.0
	if s.Incident.LossType == "collision" {
		score += 0.2
	}
	text := strings.ToLower(s.Incident.Description + " " + s.Incident.LocationRaw)
	hits := 0
	for _, kw := range p.keywords {
		if strings.Contains(text, kw) {
			hits++
		}
	}
	if hits > 0 {
		score += min(0.7, float64(hits)*0.25)
	}
	return clamp(score)
}

func (p ParkingLot) Questions(phase string, s *fnol.State) []Question {
	if phase != fnol.StateIncidentCore {
		return nil
	}
	return []Question{
		{
			QuestionID: "parking_lot_type",
			State:      fnol.StateIncidentCore,
			Priority:   32,
			Text:       "What type of parking area was this?",
			InputType:  InputSelect,
			Options: []fnol.UIOption{
				{Value: "outdoor_lot", Label: "Outdoor parking lot"},
				{Value: "garage", Label: "Parking garage"},
				{Value: "street", Label: "Street parking"},
				{Value: "private", Label: "Private property/driveway"},
			},
			Field: "incident.parking_type",
		},
		{
			QuestionID: "parking_lot_situation",
			State:      fnol.StateIncidentCore,
			Priority:   35,
			Text:       "What was the situation when the collision occurred?",
			InputType:  InputSelect,
			Options: []fnol.UIOption{
				{Value: "parked_hit", Label: "My car was parked and was hit"},
				{Value: "backing_out", Label: "I was backing out of a space"},
				{Value: "other_backing", Label: "Another car backed into me"},
				{Value: "both_moving", Label: "Both vehicles were moving"},
				{Value: "door_ding", Label: "Door ding/shopping cart damage"},
			},
			Field:    "incident.parking_situation",
			Required: true,
		},
		{
			QuestionID: "parking_lot_other_party",
			State:      fnol.StateIncidentCore,
			Priority:   38,
			Text:       "Did you get the other party's information?",
			InputType:  InputSelect,
			Options: []fnol.UIOption{
				{Value: "yes", Label: "Yes, I have their info"},
				{Value: "note", Label: "They left a note"},
				{Value: "no", Label: "No, they left without leaving info"},
				{Value: "unknown", Label: "I don't know who did it"},
			},
			Field:    "incident.other_party_info_status",
			Required: true,
		},
	}
}

func (p ParkingLot) Validate(s *fnol.State) ValidationResult {
	res := ValidationResult{Valid: true}
	switch answer(s, "incident.other_party_info_status") {
	case "no", "unknown":
		res.Warnings = append(res.Warnings, "Consider filing police report for unknown other party")
	}
	return res
}

func (p ParkingLot) TriageFlags(s *fnol.State) []string {
	flags := []string{"parking_lot"}
	if totalDamageEstimate(s) < 2000 {
		flags = append(flags, "stp_candidate")
	}
	switch answer(s, "incident.other_party_info_status") {
	case "no", "unknown":
		flags = append(flags, "hit_and_run")
	}
	return flags
}

func (p ParkingLot) RequiredEvidence(s *fnol.State) []EvidenceRequirement {
	evidence := []EvidenceRequirement{
		{Type: "photo", Description: "Photos of your vehicle damage"},
		{Type: "photo", Description: "Wide shot of the parking area"},
	}
	switch answer(s, "incident.other_party_info_status") {
	case "note":
		evidence = append(evidence, EvidenceRequirement{Type: "photo", Description: "Photo of the note left by other party"})
	case "no", "unknown":
		evidence = append(evidence, EvidenceRequirement{Type: "document", Description: "Police report (recommended)"})
	}
	return evidence
}

// AnimalStrike covers collisions with animals.
type AnimalStrike struct{ base }

// NewAnimalStrike returns the animal-strike playbook.
func NewAnimalStrike() AnimalStrike {
	return AnimalStrike{base{
		id:          "animal_strike",
		name:        "Animal Strike",
		description: "Collision with an animal",
		category:    "collision",
		priority:    55,
		keywords: []string{
			"deer", "animal", "dog", "cat", "elk", "moose", "raccoon",
			"hit a deer", "hit an animal", "struck an animal", "wildlife",
			"ran out", "jumped out", "came out of nowhere",
		},
		conditions: map[string]string{"incident.loss_type": "collision"},
		flags:      []string{"animal_strike"},
	}}
}

func (p AnimalStrike) Detect(s *fnol.State) float64 {
	score := 0.0
	if s.Incident.LossType == "collision" {
		score += 0.2
	}
	if p.matchesKeyword(s) {
		score += 0.7
	}
	return clamp(score)
}

func (p AnimalStrike) Questions(phase string, s *fnol.State) []Question {
	if phase != fnol.StateIncidentCore {
		return nil
	}
	return []Question{
		{
			QuestionID: "animal_type",
			State:      fnol.StateIncidentCore,
			Priority:   30,
			Text:       "What type of animal did you hit?",
			InputType:  InputSelect,
			Options: []fnol.UIOption{
				{Value: "deer", Label: "Deer"},
				{Value: "moose", Label: "Moose/Elk"},
				{Value: "dog", Label: "Dog"},
				{Value: "cat", Label: "Cat"},
				{Value: "bird", Label: "Bird"},
				{Value: "small", Label: "Small animal (raccoon, possum, etc.)"},
				{Value: "livestock", Label: "Livestock (cow, horse, etc.)"},
				{Value: "other", Label: "Other/Unknown"},
			},
			Field:    "incident.animal_type",
			Required: true,
		},
		{
			QuestionID: "animal_outcome",
			State:      fnol.StateIncidentCore,
			Priority:   35,
			Text:       "What happened to the animal?",
			InputType:  InputSelect,
			Options: []fnol.UIOption{
				{Value: "fled", Label: "It ran away"},
				{Value: "on_scene", Label: "It's still at the scene"},
				{Value: "deceased", Label: "It didn't survive"},
				{Value: "unknown", Label: "I don't know"},
			},
			Field: "incident.animal_outcome",
		},
		{
			QuestionID: "animal_swerve",
			State:      fnol.StateIncidentCore,
			Priority:   38,
			Text:       "Did you swerve to avoid the animal?",
			HelpText:   "This can affect whether the damage is considered collision or comprehensive coverage.",
			InputType:  InputYesNo,
			Field:      "incident.swerved_to_avoid",
			Required:   true,
		},
	}
}

func (p AnimalStrike) Validate(s *fnol.State) ValidationResult {
	res := ValidationResult{Valid: true}
	if answer(s, "incident.animal_type") == "" {
		res.Warnings = append(res.Warnings, "Animal type not specified")
	}
	if answerBool(s, "incident.swerved_to_avoid") && answer(s, "incident.collision_object") != "" {
		res.Warnings = append(res.Warnings, "Review whether this is animal strike or single-vehicle collision")
	}
	return res
}

func (p AnimalStrike) TriageFlags(s *fnol.State) []string {
	flags := []string{"animal_strike"}
	switch answer(s, "incident.animal_type") {
	case "deer", "moose", "livestock":
		flags = append(flags, "large_animal")
	}
	if !answerBool(s, "incident.swerved_to_avoid") {
		flags = append(flags, "comprehensive_eligible")
	}
	if answer(s, "incident.animal_type") == "livestock" {
		flags = append(flags, "possible_third_party")
	}
	return flags
}

func (p AnimalStrike) RequiredEvidence(s *fnol.State) []EvidenceRequirement {
	evidence := []EvidenceRequirement{
		{Type: "photo", Description: "Photos of vehicle damage"},
		{Type: "photo", Description: "Photos of the accident scene"},
	}
	switch answer(s, "incident.animal_outcome") {
	case "on_scene", "deceased":
		evidence = append(evidence, EvidenceRequirement{Type: "photo", Description: "Photos showing the animal (for documentation)"})
	}
	if answer(s, "incident.animal_type") == "livestock" {
		evidence = append(evidence, EvidenceRequirement{Type: "document", Description: "Police report (recommended for livestock)"})
	}
	return evidence
}
