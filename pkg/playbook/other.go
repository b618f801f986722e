package playbook

import (
	"strings"

	"github.com/ormasoftchile/fnol/pkg/fnol"
)

// Vandalism covers intentional damage to the vehicle.
type Vandalism struct{ base }

// NewVandalism returns the vandalism playbook.
func NewVandalism() Vandalism {
	return Vandalism{base{
		id:          "vandalism",
		name:        "Vandalism",
		description: "Intentional damage to vehicle",
		category:    "other",
		priority:    50,
		keywords: []string{
			"vandalized", "vandalism", "keyed", "scratched", "spray paint",
			"graffiti", "slashed", "tires slashed", "smashed", "broken into",
			"egged", "dented", "intentional", "someone damaged",
		},
		conditions: map[string]string{"incident.loss_type": "vandalism"},
		flags:      []string{"vandalism", "comprehensive_claim"},
	}}
}

func (p Vandalism) Detect(s *fnol.State) float64 {
	score := 0.0
	if s.Incident.LossType == "vandalism" {
		score += 0.6
	}
	desc := strings.ToLower(s.Incident.Description)
	for _, kw := range p.keywords {
		if strings.Contains(desc, kw) {
			score += 0.5
			break
		}
	}
	return clamp(score)
}

func (p Vandalism) Questions(phase string, s *fnol.State) []Question {
	if phase != fnol.StateIncidentCore {
		return nil
	}
	return []Question{
		{
			QuestionID: "vandalism_type",
			State:      fnol.StateIncidentCore,
			Priority:   30,
			Text:       "What type of vandalism occurred?",
			InputType:  InputMultiSelect,
			Options: []fnol.UIOption{
				{Value: "keyed", Label: "Keyed/scratched paint"},
				{Value: "broken_glass", Label: "Broken windows/glass"},
				{Value: "tires", Label: "Slashed tires"},
				{Value: "dents", Label: "Dents/body damage"},
				{Value: "spray_paint", Label: "Spray paint/graffiti"},
				{Value: "other", Label: "Other"},
			},
			Field:    "incident.vandalism_type",
			Required: true,
		},
		{
			QuestionID: "vandalism_suspect",
			State:      fnol.StateIncidentCore,
			Priority:   35,
			Text:       "Do you know or suspect who did this?",
			InputType:  InputSelect,
			Options: []fnol.UIOption{
				{Value: "unknown", Label: "No, completely unknown"},
				{Value: "suspect", Label: "Yes, I have a suspicion"},
				{Value: "known", Label: "Yes, I know who did it"},
			},
			Field:    "incident.suspect_status",
			Required: true,
		},
		{
			QuestionID: "vandalism_police",
			State:      fnol.StateIncidentCore,
			Priority:   40,
			Text:       "Have you filed a police report?",
			InputType:  InputYesNo,
			Field:      "police_info.report_filed",
			Required:   true,
		},
	}
}

func (p Vandalism) Validate(s *fnol.State) ValidationResult {
	res := ValidationResult{Valid: true}
	if !s.Police.ReportFiled {
		res.Warnings = append(res.Warnings, "Police report recommended for vandalism claims")
	}
	return res
}

func (p Vandalism) RequiredEvidence(s *fnol.State) []EvidenceRequirement {
	return []EvidenceRequirement{
		{Type: "photo", Description: "Photos of all vandalism damage"},
		{Type: "photo", Description: "Wide shot showing location"},
		{Type: "document", Description: "Police report (recommended)"},
	}
}

// GlassOnly covers windshield and window damage with no other damage.
// Prime straight-through-processing candidate.
type GlassOnly struct{ base }

// NewGlassOnly returns the glass-only playbook.
func NewGlassOnly() GlassOnly {
	return GlassOnly{base{
		id:          "glass_only",
		name:        "Glass Only",
		description: "Windshield or window damage only",
		category:    "other",
		priority:    70,
		keywords: []string{
			"windshield", "window", "glass", "crack", "chip", "rock hit",
			"stone chip", "cracked windshield", "broken window", "shattered",
		},
		conditions: map[string]string{"incident.loss_type": "glass"},
		flags:      []string{"glass_only", "comprehensive_claim", "stp_candidate"},
	}}
}

func (p GlassOnly) Detect(s *fnol.State) float64 {
	score := 0.0
	if s.Incident.LossType == "glass" {
		score += 0.7
	}
	desc := strings.ToLower(s.Incident.Description)
	for _, kw := range p.keywords {
		if strings.Contains(desc, kw) {
			score += 0.4
			break
		}
	}
	if len(s.Damages) > 0 {
		glassOnly := true
		for _, d := range s.Damages {
			switch d.DamageArea {
			case "windshield", "side_window", "glass":
			default:
				glassOnly = false
			}
		}
		if glassOnly {
			score += 0.3
		}
	}
	return clamp(score)
}

func (p GlassOnly) Questions(phase string, s *fnol.State) []Question {
	var questions []Question
	if phase == fnol.StateIncidentCore {
		questions = append(questions, Question{
			QuestionID: "glass_type",
			State:      fnol.StateIncidentCore,
			Priority:   30,
			Text:       "Which glass is damaged?",
			InputType:  InputSelect,
			Options: []fnol.UIOption{
				{Value: "windshield", Label: "Windshield"},
				{Value: "rear_window", Label: "Rear window"},
				{Value: "side_window", Label: "Side window"},
				{Value: "sunroof", Label: "Sunroof/moonroof"},
				{Value: "multiple", Label: "Multiple pieces of glass"},
			},
			Field:    "incident.glass_type",
			Required: true,
		}, Question{
			QuestionID: "glass_damage_type",
			State:      fnol.StateIncidentCore,
			Priority:   33,
			Text:       "What type of damage is it?",
			InputType:  InputSelect,
			Options: []fnol.UIOption{
				{Value: "chip", Label: "Small chip"},
				{Value: "crack", Label: "Crack"},
				{Value: "shattered", Label: "Shattered/broken"},
			},
			Field:    "incident.glass_damage_type",
			Required: true,
		}, Question{
			QuestionID: "glass_cause",
			State:      fnol.StateIncidentCore,
			Priority:   36,
			Text:       "What caused the glass damage?",
			InputType:  InputSelect,
			Options: []fnol.UIOption{
				{Value: "road_debris", Label: "Rock/debris from road"},
				{Value: "unknown", Label: "Unknown"},
				{Value: "weather", Label: "Weather (hail, etc.)"},
				{Value: "vandalism", Label: "Vandalism"},
				{Value: "collision", Label: "Collision/accident"},
			},
			Field:    "incident.glass_cause",
			Required: true,
		})
	}
	if phase == fnol.StateDamageEvidence {
		questions = append(questions, Question{
			QuestionID: "glass_other_damage",
			State:      fnol.StateDamageEvidence,
			Priority:   20,
			Text:       "Is there any other damage to the vehicle besides the glass?",
			InputType:  InputYesNo,
			Field:      "damage.other_damage_present",
			Required:   true,
		})
	}
	return questions
}

func (p GlassOnly) Validate(s *fnol.State) ValidationResult {
	res := ValidationResult{Valid: true}
	if answerBool(s, "damage.other_damage_present") {
		res.Warnings = append(res.Warnings, "Other damage present - may not qualify for glass-only claim")
	}
	return res
}

func (p GlassOnly) TriageFlags(s *fnol.State) []string {
	flags := []string{"glass_only", "comprehensive_claim"}
	for _, e := range s.Evidence {
		if e.EvidenceType == "photo" {
			flags = append(flags, "stp_candidate")
			break
		}
	}
	if answer(s, "incident.glass_damage_type") == "chip" {
		flags = append(flags, "repair_candidate")
	}
	if answer(s, "incident.glass_cause") == "vandalism" {
		flags = append(flags, "vandalism")
	}
	return flags
}

func (p GlassOnly) RequiredEvidence(s *fnol.State) []EvidenceRequirement {
	return []EvidenceRequirement{
		{Type: "photo", Description: "Photo of the damaged glass"},
		{Type: "photo", Description: "Close-up of the damage (chip/crack)"},
	}
}

// Fire covers vehicle fire damage.
type Fire struct{ base }

// NewFire returns the fire-damage playbook.
func NewFire() Fire {
	return Fire{base{
		id:          "fire",
		name:        "Fire Damage",
		description: "Vehicle fire damage",
		category:    "other",
		priority:    25,
		keywords: []string{
			"fire", "burned", "burning", "flames", "smoke", "caught fire",
			"on fire", "engine fire", "electrical fire", "arson",
		},
		conditions: map[string]string{"incident.loss_type": "fire"},
		flags:      []string{"fire_damage", "comprehensive_claim", "potential_total_loss"},
	}}
}

func (p Fire) Detect(s *fnol.State) float64 {
	score := 0.0
	if s.Incident.LossType == "fire" {
		score += 0.7
	}
	desc := strings.ToLower(s.Incident.Description)
	for _, kw := range p.keywords {
		if strings.Contains(desc, kw) {
			score += 0.5
			break
		}
	}
	return clamp(score)
}

func (p Fire) Questions(phase string, s *fnol.State) []Question {
	var questions []Question
	if phase == fnol.StateIncidentCore {
		questions = append(questions, Question{
			QuestionID: "fire_origin",
			State:      fnol.StateIncidentCore,
			Priority:   30,
			Text:       "Where did the fire start?",
			InputType:  InputSelect,
			Options: []fnol.UIOption{
				{Value: "engine", Label: "Engine compartment"},
				{Value: "interior", Label: "Interior/cabin"},
				{Value: "external", Label: "External fire (spread to vehicle)"},
				{Value: "unknown", Label: "Unknown"},
			},
			Field:    "incident.fire_origin",
			Required: true,
		}, Question{
			QuestionID: "fire_cause",
			State:      fnol.StateIncidentCore,
			Priority:   33,
			Text:       "Do you know what caused the fire?",
			InputType:  InputSelect,
			Options: []fnol.UIOption{
				{Value: "mechanical", Label: "Mechanical/electrical failure"},
				{Value: "accident", Label: "Result of collision"},
				{Value: "arson", Label: "Suspected arson"},
				{Value: "wildfire", Label: "Wildfire/brush fire"},
				{Value: "unknown", Label: "Unknown"},
			},
			Field:    "incident.fire_cause",
			Required: true,
		}, Question{
			QuestionID: "fire_department",
			State:      fnol.StateIncidentCore,
			Priority:   36,
			Text:       "Was the fire department called?",
			InputType:  InputYesNo,
			Field:      "incident.fire_department_called",
			Required:   true,
		})
	}
	if phase == fnol.StateVehicleDriver {
		questions = append(questions, Question{
			QuestionID: "fire_extent",
			State:      fnol.StateVehicleDriver,
			Priority:   40,
			Text:       "How much of the vehicle was damaged by fire?",
			InputType:  InputSelect,
			Options: []fnol.UIOption{
				{Value: "minor", Label: "Minor - small area"},
				{Value: "moderate", Label: "Moderate - one section (engine or interior)"},
				{Value: "severe", Label: "Severe - multiple areas"},
				{Value: "total", Label: "Total loss - entire vehicle"},
			},
			Field:    "vehicle.fire_extent",
			Required: true,
		})
	}
	return questions
}

func (p Fire) Validate(s *fnol.State) ValidationResult {
	res := ValidationResult{Valid: true}
	if answer(s, "incident.fire_cause") == "arson" {
		res.Warnings = append(res.Warnings, "Suspected arson - police report required")
	}
	return res
}

func (p Fire) TriageFlags(s *fnol.State) []string {
	flags := []string{"fire_damage", "comprehensive_claim"}
	switch answer(s, "vehicle.fire_extent") {
	case "severe", "total":
		flags = append(flags, "likely_total_loss")
	}
	if answer(s, "incident.fire_cause") == "arson" {
		flags = append(flags, "siu_review_arson")
	}
	return flags
}

func (p Fire) RequiredEvidence(s *fnol.State) []EvidenceRequirement {
	return []EvidenceRequirement{
		{Type: "photo", Description: "Photos of fire damage"},
		{Type: "document", Description: "Fire department report (if available)"},
		{Type: "document", Description: "Police report (if arson suspected)"},
	}
}

// Towing covers tow-related incidents: impound, unauthorized tow, damage
// during tow.
type Towing struct{ base }

// NewTowing returns the towing-incident playbook.
func NewTowing() Towing {
	return Towing{base{
		id:          "towing",
		name:        "Towing Incident",
		description: "Damage during towing or tow-related issues",
		category:    "other",
		priority:    60,
		keywords: []string{
			"tow", "towed", "towing", "impound", "impounded", "tow truck",
			"tow yard", "damaged during tow", "tow company",
		},
		flags: []string{"towing_incident"},
	}}
}

func (p Towing) Detect(s *fnol.State) float64 {
	score := 0.0
	desc := strings.ToLower(s.Incident.Description)
	for _, kw := range p.keywords {
		if strings.Contains(desc, kw) {
			score += 0.7
			break
		}
	}
	return clamp(score)
}

func (p Towing) Questions(phase string, s *fnol.State) []Question {
	if phase != fnol.StateIncidentCore {
		return nil
	}
	return []Question{
		{
			QuestionID: "tow_type",
			State:      fnol.StateIncidentCore,
			Priority:   30,
			Text:       "What type of towing incident is this?",
			InputType:  InputSelect,
			Options: []fnol.UIOption{
				{Value: "damage", Label: "Vehicle damaged during towing"},
				{Value: "impound", Label: "Vehicle impounded"},
				{Value: "unauthorized", Label: "Unauthorized tow"},
				{Value: "recovery", Label: "Breakdown/recovery tow"},
			},
			Field:    "incident.tow_type",
			Required: true,
		},
		{
			QuestionID: "tow_company",
			State:      fnol.StateIncidentCore,
			Priority:   35,
			Text:       "Do you know the tow company name?",
			InputType:  InputText,
			Field:      "incident.tow_company",
		},
	}
}

func (p Towing) TriageFlags(s *fnol.State) []string {
	flags := []string{"towing_incident"}
	if answer(s, "incident.tow_type") == "damage" {
		flags = append(flags, "subrogation_potential")
	}
	return flags
}

func (p Towing) RequiredEvidence(s *fnol.State) []EvidenceRequirement {
	return []EvidenceRequirement{
		{Type: "photo", Description: "Photos of any damage"},
		{Type: "document", Description: "Tow receipt/documentation"},
	}
}

// CommercialRideshare covers incidents during commercial or rideshare use.
type CommercialRideshare struct{ base }

// NewCommercialRideshare returns the commercial/rideshare playbook.
func NewCommercialRideshare() CommercialRideshare {
	return CommercialRideshare{base{
		id:          "commercial_rideshare",
		name:        "Commercial/Rideshare",
		description: "Incident during commercial or rideshare use",
		category:    "other",
		priority:    20,
		keywords: []string{
			"uber", "lyft", "rideshare", "ride share", "passenger", "delivery",
			"doordash", "grubhub", "instacart", "amazon", "commercial",
			"work", "business use", "for hire",
		},
		flags: []string{"commercial_use", "coverage_review_required"},
	}}
}

func (p CommercialRideshare) Detect(s *fnol.State) float64 {
	score := 0.0
	desc := strings.ToLower(s.Incident.Description)
	for _, kw := range p.keywords {
		if strings.Contains(desc, kw) {
			score += 0.7
			break
		}
	}
	switch answer(s, "vehicle.use_at_time") {
	case "rideshare", "delivery", "commercial":
		score += 0.8
	}
	return clamp(score)
}

func (p CommercialRideshare) Questions(phase string, s *fnol.State) []Question {
	if phase != fnol.StateIncidentCore {
		return nil
	}
	return []Question{
		{
			QuestionID: "commercial_type",
			State:      fnol.StateIncidentCore,
			Priority:   20,
			Text:       "What type of commercial/rideshare activity were you doing?",
			InputType:  InputSelect,
			Options: []fnol.UIOption{
				{Value: "uber", Label: "Uber/Lyft (with passenger)"},
				{Value: "uber_waiting", Label: "Uber/Lyft (waiting for ride)"},
				{Value: "delivery", Label: "Food delivery (DoorDash, etc.)"},
				{Value: "package", Label: "Package delivery (Amazon, etc.)"},
				{Value: "business", Label: "Business/work use"},
				{Value: "other", Label: "Other commercial use"},
			},
			Field:    "incident.commercial_type",
			Required: true,
		},
		{
			QuestionID: "commercial_passenger",
			State:      fnol.StateIncidentCore,
			Priority:   25,
			Text:       "Did you have a paying passenger at the time?",
			InputType:  InputYesNo,
			Field:      "incident.had_passenger",
			Required:   true,
		},
		{
			QuestionID: "commercial_app",
			State:      fnol.StateIncidentCore,
			Priority:   28,
			Text:       "Was the app active/logged in at the time of the incident?",
			InputType:  InputYesNo,
			Field:      "incident.app_active",
			Required:   true,
		},
	}
}

func (p CommercialRideshare) Validate(s *fnol.State) ValidationResult {
	return ValidationResult{
		Valid:    true,
		Warnings: []string{"Coverage may differ for commercial use - adjuster review required"},
	}
}

func (p CommercialRideshare) TriageFlags(s *fnol.State) []string {
	flags := []string{"commercial_use", "coverage_review_required"}
	if answerBool(s, "incident.had_passenger") {
		flags = append(flags, "rideshare_with_passenger")
	}
	if answerBool(s, "incident.app_active") {
		flags = append(flags, "app_active_at_time")
	}
	return flags
}

func (p CommercialRideshare) RequiredEvidence(s *fnol.State) []EvidenceRequirement {
	return []EvidenceRequirement{
		{Type: "photo", Description: "Photos of damage"},
		{Type: "document", Description: "Rideshare app trip history/screenshot"},
		{Type: "document", Description: "Rideshare company incident report (if filed)"},
	}
}

// Rental covers incidents involving a rental vehicle.
type Rental struct{ base }

// NewRental returns the rental-vehicle playbook.
func NewRental() Rental {
	return Rental{base{
		id:          "rental",
		name:        "Rental Vehicle",
		description: "Incident involving a rental vehicle",
		category:    "other",
		priority:    35,
		keywords: []string{
			"rental", "rented", "rental car", "hertz", "enterprise", "avis",
			"budget", "national", "alamo", "renting", "hired car",
		},
		flags: []string{"rental_vehicle"},
	}}
}

func (p Rental) Detect(s *fnol.State) float64 {
	score := 0.0
	desc := strings.ToLower(s.Incident.Description)
	for _, kw := range p.keywords {
		if strings.Contains(desc, kw) {
			score += 0.7
			break
		}
	}
	for _, v := range s.Vehicles {
		if v.IsRental {
			score += 0.8
		}
	}
	return clamp(score)
}

func (p Rental) Questions(phase string, s *fnol.State) []Question {
	if phase != fnol.StateIncidentCore {
		return nil
	}
	return []Question{
		{
			QuestionID: "rental_company",
			State:      fnol.StateIncidentCore,
			Priority:   30,
			Text:       "Which rental company did you rent from?",
			InputType:  InputSelect,
			Options: []fnol.UIOption{
				{Value: "enterprise", Label: "Enterprise"},
				{Value: "hertz", Label: "Hertz"},
				{Value: "avis", Label: "Avis"},
				{Value: "budget", Label: "Budget"},
				{Value: "national", Label: "National"},
				{Value: "alamo", Label: "Alamo"},
				{Value: "other", Label: "Other"},
			},
			Field:    "vehicle.rental_company",
			Required: true,
		},
		{
			QuestionID: "rental_insurance",
			State:      fnol.StateIncidentCore,
			Priority:   35,
			Text:       "Did you purchase insurance through the rental company?",
			InputType:  InputSelect,
			Options: []fnol.UIOption{
				{Value: "yes_full", Label: "Yes, full coverage"},
				{Value: "yes_partial", Label: "Yes, partial coverage"},
				{Value: "no", Label: "No, using my own insurance"},
				{Value: "unsure", Label: "Not sure"},
			},
			Field:    "vehicle.rental_insurance",
			Required: true,
		},
		{
			QuestionID: "rental_reported",
			State:      fnol.StateIncidentCore,
			Priority:   38,
			Text:       "Have you reported this to the rental company?",
			InputType:  InputYesNo,
			Field:      "vehicle.rental_notified",
			Required:   true,
		},
	}
}

func (p Rental) Validate(s *fnol.State) ValidationResult {
	res := ValidationResult{Valid: true}
	if !answerBool(s, "vehicle.rental_notified") {
		res.Warnings = append(res.Warnings, "Please notify the rental company of the incident")
	}
	return res
}

func (p Rental) TriageFlags(s *fnol.State) []string {
	flags := []string{"rental_vehicle"}
	switch answer(s, "vehicle.rental_insurance") {
	case "yes_full", "yes_partial":
		flags = append(flags, "rental_insurance_active")
	}
	return flags
}

func (p Rental) RequiredEvidence(s *fnol.State) []EvidenceRequirement {
	return []EvidenceRequirement{
		{Type: "photo", Description: "Photos of damage"},
		{Type: "document", Description: "Rental agreement"},
		{Type: "document", Description: "Rental company incident report"},
	}
}

// OutOfState covers incidents outside the policyholder's home state.
type OutOfState struct{ base }

// NewOutOfState returns the out-of-state playbook.
func NewOutOfState() OutOfState {
	return OutOfState{base{
		id:          "out_of_state",
		name:        "Out of State",
		description: "Incident occurred outside home state",
		category:    "other",
		priority:    55,
		keywords: []string{
			"out of state", "another state", "traveling", "vacation",
			"road trip", "visiting", "different state",
		},
		flags: []string{"out_of_state"},
	}}
}

func (p OutOfState) Detect(s *fnol.State) float64 {
	score := 0.0
	incidentState := strings.ToUpper(answer(s, "incident.location_state"))
	policyState := strings.ToUpper(s.PolicyMatch.State)
	if incidentState != "" && policyState != "" && incidentState != policyState {
		score += 0.8
	}
	desc := strings.ToLower(s.Incident.Description)
	for _, kw := range p.keywords {
		if strings.Contains(desc, kw) {
			score += 0.4
			break
		}
	}
	return clamp(score)
}

func (p OutOfState) Questions(phase string, s *fnol.State) []Question {
	if phase != fnol.StateIncidentCore {
		return nil
	}
	return []Question{
		{
			QuestionID: "out_state_reason",
			State:      fnol.StateIncidentCore,
			Priority:   40,
			Text:       "Why were you in this state?",
			InputType:  InputSelect,
			Options: []fnol.UIOption{
				{Value: "vacation", Label: "Vacation/Travel"},
				{Value: "business", Label: "Business trip"},
				{Value: "visiting", Label: "Visiting family/friends"},
				{Value: "moving", Label: "Moving/Relocating"},
				{Value: "other", Label: "Other"},
			},
			Field: "incident.out_of_state_reason",
		},
	}
}

func (p OutOfState) TriageFlags(s *fnol.State) []string {
	flags := []string{"out_of_state"}
	if answer(s, "incident.out_of_state_reason") == "moving" {
		flags = append(flags, "potential_address_change")
	}
	return flags
}

func (p OutOfState) RequiredEvidence(s *fnol.State) []EvidenceRequirement {
	return []EvidenceRequirement{
		{Type: "photo", Description: "Photos of damage"},
		{Type: "document", Description: "Police report (if applicable)"},
	}
}

// Injury covers claims with minor to moderate injuries.
type Injury struct{ base }

// NewInjury returns the injury-claim playbook.
func NewInjury() Injury {
	return Injury{base{
		id:          "injury",
		name:        "Injury Claim",
		description: "Claim involving injuries",
		category:    "other",
		priority:    25,
		keywords: []string{
			"hurt", "injured", "injury", "pain", "hospital", "doctor",
			"medical", "treatment", "sore", "ache", "whiplash",
		},
		flags: []string{"injury_claim", "adjuster_required"},
	}}
}

func (p Injury) Detect(s *fnol.State) float64 {
	score := 0.0
	if countInjuries(s) > 0 {
		score += 0.8
	}
	desc := strings.ToLower(s.Incident.Description)
	for _, kw := range p.keywords {
		if strings.Contains(desc, kw) {
			score += 0.3
			break
		}
	}
	return clamp(score)
}

func (p Injury) Questions(phase string, s *fnol.State) []Question {
	if phase != fnol.StateInjuries {
		return nil
	}
	return []Question{
		{
			QuestionID: "injury_treatment_sought",
			State:      fnol.StateInjuries,
			Priority:   30,
			Text:       "Has medical treatment been sought?",
			InputType:  InputSelect,
			Options: []fnol.UIOption{
				{Value: "yes_er", Label: "Yes, at emergency room"},
				{Value: "yes_urgent", Label: "Yes, at urgent care"},
				{Value: "yes_doctor", Label: "Yes, at doctor's office"},
				{Value: "planned", Label: "Planning to see a doctor"},
				{Value: "no", Label: "No treatment needed"},
			},
			Field:    "injuries.treatment_sought",
			Required: true,
		},
		{
			QuestionID: "injury_ongoing",
			State:      fnol.StateInjuries,
			Priority:   35,
			Text:       "Is treatment ongoing?",
			InputType:  InputYesNo,
			Field:      "injuries.treatment_ongoing",
			Required:   true,
		},
	}
}

func (p Injury) Validate(s *fnol.State) ValidationResult {
	res := ValidationResult{Valid: true}
	if len(s.Injuries) == 0 {
		res.Warnings = append(res.Warnings, "Injury details not fully captured")
	}
	return res
}

func (p Injury) TriageFlags(s *fnol.State) []string {
	flags := []string{"injury_claim", "adjuster_required"}
	if answerBool(s, "injuries.treatment_ongoing") {
		flags = append(flags, "treatment_ongoing")
	}
	return flags
}

func (p Injury) RequiredEvidence(s *fnol.State) []EvidenceRequirement {
	return []EvidenceRequirement{
		{Type: "document", Description: "Medical records/bills"},
		{Type: "document", Description: "Police report"},
	}
}

// SevereInjury covers claims with severe or fatal injuries.
type SevereInjury struct{ base }

// NewSevereInjury returns the severe-injury playbook.
func NewSevereInjury() SevereInjury {
	return SevereInjury{base{
		id:          "severe_injury",
		name:        "Severe Injury",
		description: "Claim involving severe or fatal injuries",
		category:    "other",
		priority:    5,
		keywords: []string{
			"fatal", "fatality", "death", "died", "dead", "critical",
			"hospitalized", "admitted", "icu", "intensive care", "surgery",
			"life-threatening", "serious injury", "severe",
		},
		flags: []string{"severe_injury", "emergency_priority", "immediate_escalation"},
	}}
}

func (p SevereInjury) Detect(s *fnol.State) float64 {
	score := 0.0
	for _, inj := range s.Injuries {
		switch {
		case inj.Severity == "fatal":
			score += 1.0
		case inj.Severity == "severe":
			score += 0.8
		case inj.TreatmentLevel == "admitted":
			score += 0.7
		}
	}
	desc := strings.ToLower(s.Incident.Description)
	for _, kw := range p.keywords {
		if strings.Contains(desc, kw) {
			score += 0.5
			break
		}
	}
	return clamp(score)
}

func (p SevereInjury) Questions(phase string, s *fnol.State) []Question {
	if phase != fnol.StateInjuries {
		return nil
	}
	return []Question{
		{
			QuestionID: "severe_hospital_name",
			State:      fnol.StateInjuries,
			Priority:   10,
			Text:       "Which hospital is the injured person at?",
			InputType:  InputText,
			Field:      "injuries.hospital_name",
			Required:   true,
		},
		{
			QuestionID: "severe_family_contact",
			State:      fnol.StateInjuries,
			Priority:   15,
			Text:       "Is there a family member or representative we should contact?",
			HelpText:   "Name and phone number",
			InputType:  InputText,
			Field:      "injuries.family_contact",
		},
	}
}

func (p SevereInjury) Validate(s *fnol.State) ValidationResult {
	res := ValidationResult{Valid: true}
	hasSevere := false
	for _, inj := range s.Injuries {
		if inj.Severity == "severe" || inj.Severity == "fatal" {
			hasSevere = true
		}
	}
	if hasSevere && answer(s, "injuries.hospital_name") == "" {
		res.Warnings = append(res.Warnings, "Hospital information recommended for severe injuries")
	}
	return res
}

func (p SevereInjury) TriageFlags(s *fnol.State) []string {
	flags := []string{"severe_injury", "emergency_priority", "immediate_escalation"}
	for _, inj := range s.Injuries {
		if inj.Severity == "fatal" {
			flags = append(flags, "fatality")
			break
		}
	}
	return flags
}

func (p SevereInjury) RequiredEvidence(s *fnol.State) []EvidenceRequirement {
	return []EvidenceRequirement{
		{Type: "document", Description: "Police report"},
		{Type: "document", Description: "Medical records"},
		{Type: "document", Description: "Hospital admission records"},
	}
}

// PoliceDUI covers incidents involving DUI, arrests or police action.
type PoliceDUI struct{ base }

// NewPoliceDUI returns the police/DUI playbook.
func NewPoliceDUI() PoliceDUI {
	return PoliceDUI{base{
		id:          "police_dui",
		name:        "Police/DUI Involvement",
		description: "Incident involving DUI, arrest, or police action",
		category:    "other",
		priority:    10,
		keywords: []string{
			"dui", "dwi", "drunk", "drinking", "intoxicated", "arrested",
			"arrest", "citation", "ticket", "police", "charged", "breathalyzer",
			"blood test", "impaired", "under the influence",
		},
		flags: []string{"dui_involvement", "siu_review_required", "coverage_issue"},
	}}
}

func (p PoliceDUI) Detect(s *fnol.State) float64 {
	score := 0.0
	if s.Police.DUISuspected {
		score += 0.9
	}
	if answerBool(s, "police_info.arrest_made") {
		score += 0.5
	}
	desc := strings.ToLower(s.Incident.Description)
	for _, kw := range p.keywords {
		if strings.Contains(desc, kw) {
			score += 0.6
			break
		}
	}
	return clamp(score)
}

func (p PoliceDUI) Questions(phase string, s *fnol.State) []Question {
	if phase != fnol.StateIncidentCore {
		return nil
	}
	return []Question{
		{
			QuestionID: "dui_arrest",
			State:      fnol.StateIncidentCore,
			Priority:   20,
			Text:       "Was anyone arrested at the scene?",
			InputType:  InputYesNo,
			Field:      "police_info.arrest_made",
			Required:   true,
		},
		{
			QuestionID: "dui_charges",
			State:      fnol.StateIncidentCore,
			Priority:   25,
			Text:       "What charges, if any, were filed?",
			InputType:  InputMultiSelect,
			Options: []fnol.UIOption{
				{Value: "dui", Label: "DUI/DWI"},
				{Value: "reckless", Label: "Reckless driving"},
				{Value: "hit_run", Label: "Hit and run"},
				{Value: "speeding", Label: "Speeding"},
				{Value: "other", Label: "Other"},
				{Value: "none", Label: "No charges filed"},
				{Value: "pending", Label: "Charges pending"},
			},
			Field:    "police_info.charges",
			Required: true,
		},
		{
			QuestionID: "dui_who",
			State:      fnol.StateIncidentCore,
			Priority:   28,
			Text:       "Who was involved in the arrest or citation?",
			InputType:  InputSelect,
			Options: []fnol.UIOption{
				{Value: "insured", Label: "The insured driver"},
				{Value: "other_driver", Label: "The other driver"},
				{Value: "both", Label: "Both drivers"},
				{Value: "passenger", Label: "A passenger"},
			},
			Field:    "police_info.charged_party",
			Required: true,
		},
	}
}

func (p PoliceDUI) Validate(s *fnol.State) ValidationResult {
	res := ValidationResult{Valid: true}
	if answerContains(s, "police_info.charges", "dui") && answer(s, "police_info.charged_party") == "insured" {
		res.Warnings = append(res.Warnings, "DUI by insured driver may affect coverage")
	}
	return res
}

func (p PoliceDUI) TriageFlags(s *fnol.State) []string {
	flags := []string{"police_involvement"}
	if s.Police.DUISuspected || answerContains(s, "police_info.charges", "dui") {
		flags = append(flags, "dui_involvement")
		if answer(s, "police_info.charged_party") == "insured" {
			flags = append(flags, "insured_dui", "siu_review_required", "coverage_issue")
		}
	}
	if answerBool(s, "police_info.arrest_made") {
		flags = append(flags, "arrest_made")
	}
	return flags
}

func (p PoliceDUI) RequiredEvidence(s *fnol.State) []EvidenceRequirement {
	return []EvidenceRequirement{
		{Type: "document", Description: "Police report (required)"},
		{Type: "document", Description: "Citation/arrest documents"},
		{Type: "document", Description: "Court documents (if applicable)"},
	}
}
