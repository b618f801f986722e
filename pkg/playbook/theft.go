package playbook

import (
	"strings"

	"github.com/ormasoftchile/fnol/pkg/fnol"
)

// VehicleTheft covers complete theft of the vehicle.
type VehicleTheft struct{ base }

// NewVehicleTheft returns the vehicle-theft playbook.
func NewVehicleTheft() VehicleTheft {
	return VehicleTheft{base{
		id:          "vehicle_theft",
		name:        "Vehicle Theft",
		description: "Complete theft of the vehicle",
		category:    "theft",
		priority:    20,
		keywords: []string{
			"stolen", "theft", "stole", "missing", "gone", "taken",
			"car was stolen", "vehicle stolen", "disappeared",
		},
		conditions: map[string]string{"incident.loss_type": "theft"},
		flags:      []string{"vehicle_theft", "comprehensive_claim", "police_report_required"},
	}}
}

func (p VehicleTheft) Detect(s *fnol.State) float64 {
	score := 0.0
	if s.Incident.LossType == "theft" {
		score += 0.5
	}
	if p.matchesKeyword(s) {
		score += 0.5
	}
	// Complete theft vs attempted
	text := searchText(s)
	if strings.Contains(text, "whole") || strings.Contains(text, "entire") || strings.Contains(text, "completely") {
		score += 0.2
	}
	return clamp(score)
}

func (p VehicleTheft) Questions(phase string, s *fnol.State) []Question {
	var questions []Question
	if phase == fnol.StateIncidentCore {
		questions = append(questions, Question{
			QuestionID: "theft_last_seen",
			State:      fnol.StateIncidentCore,
			Priority:   25,
			Text:       "When did you last see the vehicle?",
			HelpText:   "Approximate date and time",
			InputType:  InputText,
			Field:      "incident.theft_last_seen",
			Required:   true,
		}, Question{
			QuestionID: "theft_discovered",
			State:      fnol.StateIncidentCore,
			Priority:   28,
			Text:       "When did you discover it was missing?",
			HelpText:   "Approximate date and time",
			InputType:  InputText,
			Field:      "incident.theft_discovered",
			Required:   true,
		}, Question{
			QuestionID: "theft_location",
			State:      fnol.StateIncidentCore,
			Priority:   30,
			Text:       "Where was the vehicle when it was stolen?",
			InputType:  InputSelect,
			Options: []fnol.UIOption{
				{Value: "home", Label: "At home (driveway/garage)"},
				{Value: "work", Label: "At work"},
				{Value: "parking_lot", Label: "In a parking lot"},
				{Value: "street", Label: "On the street"},
				{Value: "other", Label: "Other location"},
			},
			Field:    "incident.theft_location_type",
			Required: true,
		}, Question{
			QuestionID: "theft_keys",
			State:      fnol.StateIncidentCore,
			Priority:   35,
			Text:       "Where were the keys at the time of theft?",
			InputType:  InputSelect,
			Options: []fnol.UIOption{
				{Value: "with_me", Label: "With me"},
				{Value: "in_vehicle", Label: "In the vehicle"},
				{Value: "at_home", Label: "At home"},
				{Value: "lost", Label: "Keys were lost/stolen too"},
				{Value: "other", Label: "Other"},
			},
			Field:    "incident.keys_location",
			Required: true,
		}, Question{
			QuestionID: "theft_police",
			State:      fnol.StateIncidentCore,
			Priority:   40,
			Text:       "Have you filed a police report?",
			HelpText:   "A police report is required for theft claims.",
			InputType:  InputSelect,
			Options: []fnol.UIOption{
				{Value: "yes", Label: "Yes, I have a report number"},
				{Value: "pending", Label: "I've reported it, waiting for number"},
				{Value: "no", Label: "Not yet"},
			},
			Field:    "police_info.report_status",
			Required: true,
		})
	}
	if phase == fnol.StateVehicleDriver {
		questions = append(questions, Question{
			QuestionID: "theft_contents",
			State:      fnol.StateVehicleDriver,
			Priority:   45,
			Text:       "Were there any valuable items in the vehicle?",
			HelpText:   "Personal belongings may be covered separately.",
			InputType:  InputYesNo,
			Field:      "vehicle.valuable_contents",
			Required:   true,
		}, Question{
			QuestionID: "theft_tracking",
			State:      fnol.StateVehicleDriver,
			Priority:   48,
			Text:       "Does the vehicle have any tracking devices (GPS, LoJack, OnStar)?",
			InputType:  InputSelect,
			Options: []fnol.UIOption{
				{Value: "yes", Label: "Yes"},
				{Value: "no", Label: "No"},
				{Value: "unknown", Label: "I'm not sure"},
			},
			Field:    "vehicle.has_tracking",
			Required: true,
		})
	}
	return questions
}

func (p VehicleTheft) Validate(s *fnol.State) ValidationResult {
	res := ValidationResult{Valid: true}
	if answer(s, "police_info.report_status") == "no" {
		res.Valid = false
		res.Errors = append(res.Errors, "Police report is required for theft claims")
	}
	if answer(s, "incident.keys_location") == "in_vehicle" {
		res.Warnings = append(res.Warnings, "Keys left in vehicle - coverage may be affected")
	}
	return res
}

func (p VehicleTheft) TriageFlags(s *fnol.State) []string {
	flags := []string{"vehicle_theft", "comprehensive_claim", "police_report_required"}
	keysInVehicle := answer(s, "incident.keys_location") == "in_vehicle"
	if keysInVehicle {
		flags = append(flags, "siu_review_keys")
	}
	if answer(s, "incident.theft_location_type") == "home" && keysInVehicle {
		flags = append(flags, "siu_review_indicator")
	}
	return flags
}

func (p VehicleTheft) RequiredEvidence(s *fnol.State) []EvidenceRequirement {
	return []EvidenceRequirement{
		{Type: "document", Description: "Police report (required)"},
		{Type: "document", Description: "Vehicle title or registration"},
		{Type: "document", Description: "Both sets of keys (if available)"},
		{Type: "photo", Description: "Photo of spare key (to prove possession)"},
	}
}

// AttemptedTheft covers break-ins where the vehicle was not taken.
type AttemptedTheft struct{ base }

// NewAttemptedTheft returns the attempted-theft playbook.
func NewAttemptedTheft() AttemptedTheft {
	return AttemptedTheft{base{
		id:          "attempted_theft",
		name:        "Attempted Theft",
		description: "Attempted theft - vehicle damaged but not taken",
		category:    "theft",
		priority:    30,
		keywords: []string{
			"attempted", "tried to steal", "break in", "break-in", "broken into",
			"forced entry", "damaged lock", "ignition damage", "hotwire",
			"window broken", "door pried", "steering column",
		},
		conditions: map[string]string{"incident.loss_type": "theft"},
		flags:      []string{"attempted_theft", "comprehensive_claim"},
	}}
}

func (p AttemptedTheft) Detect(s *fnol.State) float64 {
	score := 0.0
	if s.Incident.LossType == "theft" {
		score += 0.3
	}
	if p.matchesKeyword(s) {
		score += 0.6
	}
	if s.Incident.LossSubtype == "attempted_theft" {
		score += 0.7
	}
	// Vehicle details on file imply the vehicle is still present
	if len(s.Vehicles) > 0 && s.Incident.LossType == "theft" {
		score += 0.2
	}
	return clamp(score)
}

func (p AttemptedTheft) Questions(phase string, s *fnol.State) []Question {
	var questions []Question
	if phase == fnol.StateIncidentCore {
		questions = append(questions, Question{
			QuestionID: "attempted_entry_method",
			State:      fnol.StateIncidentCore,
			Priority:   30,
			Text:       "How did they try to get into or steal the vehicle?",
			InputType:  InputMultiSelect,
			Options: []fnol.UIOption{
				{Value: "window_broken", Label: "Broke a window"},
				{Value: "door_forced", Label: "Forced door open/lock damaged"},
				{Value: "ignition", Label: "Damaged ignition/steering column"},
				{Value: "hotwire", Label: "Tried to hotwire"},
				{Value: "key_fob", Label: "Electronic/key fob signal relay"},
				{Value: "unknown", Label: "Not sure"},
			},
			Field:    "incident.entry_method",
			Required: true,
		}, Question{
			QuestionID: "attempted_contents",
			State:      fnol.StateIncidentCore,
			Priority:   35,
			Text:       "Was anything stolen from inside the vehicle?",
			InputType:  InputYesNo,
			Field:      "incident.contents_stolen",
			Required:   true,
		}, Question{
			QuestionID: "attempted_police",
			State:      fnol.StateIncidentCore,
			Priority:   40,
			Text:       "Have you filed a police report?",
			HelpText:   "Recommended for attempted theft.",
			InputType:  InputSelect,
			Options: []fnol.UIOption{
				{Value: "yes", Label: "Yes"},
				{Value: "no", Label: "No"},
				{Value: "will", Label: "I will file one"},
			},
			Field:    "police_info.report_status",
			Required: true,
		})
	}
	if phase == fnol.StateDamageEvidence {
		questions = append(questions, Question{
			QuestionID: "attempted_drivable",
			State:      fnol.StateDamageEvidence,
			Priority:   25,
			Text:       "Is the vehicle drivable after the attempted theft?",
			InputType:  InputYesNo,
			Field:      "vehicle.drivable_after_attempt",
			Required:   true,
		}, Question{
			QuestionID: "attempted_secure",
			State:      fnol.StateDamageEvidence,
			Priority:   28,
			Text:       "Is the vehicle currently secure (can it be locked)?",
			InputType:  InputYesNo,
			Field:      "vehicle.currently_secure",
			Required:   true,
		})
	}
	return questions
}

func (p AttemptedTheft) Validate(s *fnol.State) ValidationResult {
	res := ValidationResult{Valid: true}
	if answer(s, "police_info.report_status") == "no" {
		res.Warnings = append(res.Warnings, "Police report recommended for attempted theft")
	}
	if answer(s, "vehicle.currently_secure") == "no" {
		res.Warnings = append(res.Warnings, "Vehicle may need to be secured to prevent further attempts")
	}
	return res
}

func (p AttemptedTheft) TriageFlags(s *fnol.State) []string {
	flags := []string{"attempted_theft", "comprehensive_claim"}
	if answerBool(s, "incident.contents_stolen") {
		flags = append(flags, "contents_stolen")
	}
	if answerContains(s, "incident.entry_method", "ignition") {
		flags = append(flags, "ignition_damage")
	}
	return flags
}

func (p AttemptedTheft) RequiredEvidence(s *fnol.State) []EvidenceRequirement {
	evidence := []EvidenceRequirement{
		{Type: "photo", Description: "Photos of forced entry damage"},
		{Type: "photo", Description: "Photos of interior damage"},
	}
	if answerContains(s, "incident.entry_method", "window_broken") {
		evidence = append(evidence, EvidenceRequirement{Type: "photo", Description: "Photos of broken window"})
	}
	if answerContains(s, "incident.entry_method", "ignition") {
		evidence = append(evidence, EvidenceRequirement{Type: "photo", Description: "Photos of ignition/steering column damage"})
	}
	return evidence
}
