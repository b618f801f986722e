package playbook

import (
	"strings"

	"github.com/ormasoftchile/fnol/pkg/fnol"
)

// weatherText is the search text for weather detection: description plus the
// recorded weather subtype.
func weatherText(s *fnol.State) string {
	return strings.ToLower(s.Incident.Description + " " + s.Incident.LossSubtype)
}

// Hail covers hailstorm damage.
type Hail struct{ base }

// NewHail returns the hail-damage playbook.
func NewHail() Hail {
	return Hail{base{
		id:          "hail",
		name:        "Hail Damage",
		description: "Vehicle damage from a hailstorm",
		category:    "weather",
		priority:    50,
		keywords: []string{
			"hail", "hailstorm", "hail storm", "hail damage", "dents from hail",
			"storm damage", "hail dents", "pockmarks",
		},
		conditions: map[string]string{"incident.loss_type": "weather"},
		flags:      []string{"hail_damage", "comprehensive_claim"},
	}}
}

func (p Hail) Detect(s *fnol.State) float64 {
	score := 0.0
	if s.Incident.LossType == "weather" {
		score += 0.3
	}
	text := weatherText(s)
	for _, kw := range p.keywords {
		if strings.Contains(text, kw) {
			score += 0.7
			break
		}
	}
	if s.Incident.LossSubtype == "weather_hail" {
		score += 0.6
	}
	return clamp(score)
}

func (p Hail) Questions(phase string, s *fnol.State) []Question {
	var questions []Question
	if phase == fnol.StateIncidentCore {
		questions = append(questions, Question{
			QuestionID: "hail_size",
			State:      fnol.StateIncidentCore,
			Priority:   30,
			Text:       "Approximately how large was the hail?",
			InputType:  InputSelect,
			Options: []fnol.UIOption{
				{Value: "pea", Label: "Pea-sized (1/4 inch)"},
				{Value: "marble", Label: "Marble-sized (1/2 inch)"},
				{Value: "quarter", Label: "Quarter-sized (1 inch)"},
				{Value: "golf_ball", Label: "Golf ball-sized (1.75 inches)"},
				{Value: "larger", Label: "Larger than golf ball"},
				{Value: "unknown", Label: "I'm not sure"},
			},
			Field: "incident.hail_size",
		}, Question{
			QuestionID: "hail_location",
			State:      fnol.StateIncidentCore,
			Priority:   32,
			Text:       "Where was your vehicle when the hail hit?",
			InputType:  InputSelect,
			Options: []fnol.UIOption{
				{Value: "parked_outside", Label: "Parked outside"},
				{Value: "driving", Label: "I was driving"},
				{Value: "parking_lot", Label: "In a parking lot"},
				{Value: "other", Label: "Other"},
			},
			Field:    "incident.vehicle_location_during_hail",
			Required: true,
		})
	}
	if phase == fnol.StateDamageEvidence {
		questions = append(questions, Question{
			QuestionID: "hail_glass_damage",
			State:      fnol.StateDamageEvidence,
			Priority:   20,
			Text:       "Is there any glass damage (windshield, windows)?",
			InputType:  InputYesNo,
			Field:      "damage.glass_damage",
			Required:   true,
		})
	}
	return questions
}

func (p Hail) Validate(s *fnol.State) ValidationResult {
	res := ValidationResult{Valid: true}
	// Hail claims come in storm waves; the date anchors catastrophe matching.
	if s.Incident.Date == "" {
		res.Warnings = append(res.Warnings, "Incident date needed for hail storm verification")
	}
	return res
}

func (p Hail) TriageFlags(s *fnol.State) []string {
	flags := []string{"hail_damage", "comprehensive_claim"}
	switch answer(s, "incident.hail_size") {
	case "golf_ball", "larger":
		flags = append(flags, "severe_hail")
	}
	for _, d := range s.Damages {
		area := strings.ToLower(d.DamageArea)
		if strings.Contains(area, "glass") || strings.Contains(area, "windshield") {
			flags = append(flags, "glass_damage")
			break
		}
	}
	return flags
}

func (p Hail) RequiredEvidence(s *fnol.State) []EvidenceRequirement {
	return []EvidenceRequirement{
		{Type: "photo", Description: "Photos of hail damage on hood/roof"},
		{Type: "photo", Description: "Close-up photos of individual dents"},
		{Type: "photo", Description: "Photos of any glass damage"},
		{Type: "photo", Description: "Wide shot showing overall damage pattern"},
	}
}

// Flood covers vehicle flooding.
type Flood struct{ base }

// NewFlood returns the flood-damage playbook.
func NewFlood() Flood {
	return Flood{base{
		id:          "flood",
		name:        "Flood Damage",
		description: "Vehicle damage from flooding",
		category:    "weather",
		priority:    40,
		keywords: []string{
			"flood", "flooded", "flooding", "underwater", "submerged",
			"water damage", "flash flood", "rising water", "water level",
			"high water", "drove through water",
		},
		conditions: map[string]string{"incident.loss_type": "weather"},
		flags:      []string{"flood_damage", "comprehensive_claim", "potential_total_loss"},
	}}
}

func (p Flood) Detect(s *fnol.State) float64 {
	score := 0.0
	if s.Incident.LossType == "weather" {
		score += 0.3
	}
	text := weatherText(s)
	for _, kw := range p.keywords {
		if strings.Contains(text, kw) {
			score += 0.7
			break
		}
	}
	if s.Incident.LossSubtype == "weather_flood" {
		score += 0.6
	}
	return clamp(score)
}

func (p Flood) Questions(phase string, s *fnol.State) []Question {
	var questions []Question
	if phase == fnol.StateIncidentCore {
		questions = append(questions, Question{
			QuestionID: "flood_water_level",
			State:      fnol.StateIncidentCore,
			Priority:   30,
			Text:       "How high did the water get on your vehicle?",
			InputType:  InputSelect,
			Options: []fnol.UIOption{
				{Value: "tires", Label: "Up to the tires/wheels"},
				{Value: "doors", Label: "Up to the doors"},
				{Value: "windows", Label: "Up to or above the windows"},
				{Value: "submerged", Label: "Vehicle was fully submerged"},
				{Value: "unknown", Label: "I'm not sure"},
			},
			Field:    "incident.water_level",
			Required: true,
		}, Question{
			QuestionID: "flood_running",
			State:      fnol.StateIncidentCore,
			Priority:   33,
			Text:       "Was the vehicle running when it was flooded?",
			HelpText:   "This is important for assessing potential engine damage.",
			InputType:  InputSelect,
			Options: []fnol.UIOption{
				{Value: "running", Label: "Yes, engine was running"},
				{Value: "off", Label: "No, engine was off"},
				{Value: "stalled", Label: "Engine stalled in the water"},
				{Value: "unknown", Label: "I don't know"},
			},
			Field:    "incident.engine_status_during_flood",
			Required: true,
		})
	}
	if phase == fnol.StateVehicleDriver {
		questions = append(questions, Question{
			QuestionID: "flood_interior",
			State:      fnol.StateVehicleDriver,
			Priority:   40,
			Text:       "Did water get inside the vehicle?",
			InputType:  InputYesNo,
			Field:      "vehicle.water_inside",
			Required:   true,
		}, Question{
			QuestionID: "flood_start",
			State:      fnol.StateVehicleDriver,
			Priority:   45,
			Text:       "Have you tried to start the vehicle since the flooding?",
			HelpText:   "Important: Do NOT try to start a flooded vehicle - this can cause additional damage.",
			InputType:  InputSelect,
			Options: []fnol.UIOption{
				{Value: "no", Label: "No, I haven't tried"},
				{Value: "yes_worked", Label: "Yes, it started"},
				{Value: "yes_failed", Label: "Yes, but it won't start"},
			},
			Field:    "vehicle.attempted_start_after_flood",
			Required: true,
		})
	}
	return questions
}

func (p Flood) Validate(s *fnol.State) ValidationResult {
	res := ValidationResult{Valid: true}
	switch answer(s, "incident.water_level") {
	case "windows", "submerged":
		res.Warnings = append(res.Warnings, "Vehicle may be a total loss - do not attempt to start")
	}
	return res
}

func (p Flood) TriageFlags(s *fnol.State) []string {
	flags := []string{"flood_damage", "comprehensive_claim"}
	switch answer(s, "incident.water_level") {
	case "windows", "submerged":
		flags = append(flags, "likely_total_loss")
	case "doors":
		flags = append(flags, "potential_total_loss")
	}
	switch answer(s, "incident.engine_status_during_flood") {
	case "running", "stalled":
		flags = append(flags, "engine_damage_likely")
	}
	return flags
}

func (p Flood) RequiredEvidence(s *fnol.State) []EvidenceRequirement {
	return []EvidenceRequirement{
		{Type: "photo", Description: "Photos showing water damage exterior"},
		{Type: "photo", Description: "Photos of vehicle interior (water lines, mud)"},
		{Type: "photo", Description: "Photos of engine compartment"},
		{Type: "photo", Description: "Photos showing high water marks on vehicle"},
	}
}

// WindTree covers wind, fallen tree and debris damage.
type WindTree struct{ base }

// NewWindTree returns the wind/tree damage playbook.
func NewWindTree() WindTree {
	return WindTree{base{
		id:          "wind_tree",
		name:        "Wind/Tree Damage",
		description: "Damage from wind, fallen trees, or debris",
		category:    "weather",
		priority:    50,
		keywords: []string{
			"tree", "branch", "wind", "tornado", "hurricane", "storm",
			"fell on", "blown", "debris", "limb", "power line", "pole fell",
			"windstorm", "high winds",
		},
		conditions: map[string]string{"incident.loss_type": "weather"},
		flags:      []string{"wind_tree_damage", "comprehensive_claim"},
	}}
}

func (p WindTree) Detect(s *fnol.State) float64 {
	score := 0.0
	if s.Incident.LossType == "weather" {
		score += 0.3
	}
	text := weatherText(s)
	for _, kw := range p.keywords {
		if strings.Contains(text, kw) {
			score += 0.7
			break
		}
	}
	if s.Incident.LossSubtype == "weather_wind" || s.Incident.LossSubtype == "weather_tree" {
		score += 0.6
	}
	return clamp(score)
}

func (p WindTree) Questions(phase string, s *fnol.State) []Question {
	var questions []Question
	if phase == fnol.StateIncidentCore {
		questions = append(questions, Question{
			QuestionID: "wind_damage_source",
			State:      fnol.StateIncidentCore,
			Priority:   30,
			Text:       "What caused the damage?",
			InputType:  InputSelect,
			Options: []fnol.UIOption{
				{Value: "tree", Label: "Fallen tree"},
				{Value: "branch", Label: "Fallen branch/limb"},
				{Value: "debris", Label: "Flying debris"},
				{Value: "power_line", Label: "Power line/pole"},
				{Value: "wind_direct", Label: "Direct wind damage"},
				{Value: "other", Label: "Other"},
			},
			Field:    "incident.damage_source",
			Required: true,
		}, Question{
			QuestionID: "wind_tree_location",
			State:      fnol.StateIncidentCore,
			Priority:   33,
			Text:       "Where was your vehicle when this happened?",
			InputType:  InputSelect,
			Options: []fnol.UIOption{
				{Value: "home", Label: "At home (driveway/property)"},
				{Value: "parking_lot", Label: "In a parking lot"},
				{Value: "street", Label: "Parked on the street"},
				{Value: "driving", Label: "I was driving"},
				{Value: "other", Label: "Other location"},
			},
			Field:    "incident.vehicle_location",
			Required: true,
		}, Question{
			QuestionID: "wind_tree_removed",
			State:      fnol.StateIncidentCore,
			Priority:   36,
			Text:       "Has the tree/debris been removed from the vehicle?",
			InputType:  InputSelect,
			Options: []fnol.UIOption{
				{Value: "yes", Label: "Yes, it's been removed"},
				{Value: "no", Label: "No, it's still on the vehicle"},
				{Value: "partial", Label: "Partially removed"},
			},
			Field:    "incident.debris_status",
			Required: true,
		})
	}
	if phase == fnol.StateDamageEvidence {
		questions = append(questions, Question{
			QuestionID: "wind_property_owner",
			State:      fnol.StateDamageEvidence,
			Priority:   50,
			Text:       "Do you know who owns the property where the tree/debris came from?",
			HelpText:   "This may be relevant if the damage was from a neighbor's tree.",
			InputType:  InputSelect,
			Options: []fnol.UIOption{
				{Value: "my_property", Label: "It was on my property"},
				{Value: "neighbor", Label: "Neighbor's property"},
				{Value: "city", Label: "City/Public property"},
				{Value: "unknown", Label: "I don't know"},
			},
			Field: "incident.tree_owner",
		})
	}
	return questions
}

func (p WindTree) Validate(s *fnol.State) ValidationResult {
	res := ValidationResult{Valid: true}
	if answer(s, "incident.debris_status") == "no" {
		res.Warnings = append(res.Warnings, "Take photos before removing debris if possible")
	}
	return res
}

func (p WindTree) TriageFlags(s *fnol.State) []string {
	flags := []string{"wind_tree_damage", "comprehensive_claim"}
	if answer(s, "incident.damage_source") == "tree" {
		flags = append(flags, "full_tree")
	}
	if answer(s, "incident.tree_owner") == "neighbor" {
		flags = append(flags, "subrogation_potential")
	}
	return flags
}

func (p WindTree) RequiredEvidence(s *fnol.State) []EvidenceRequirement {
	evidence := []EvidenceRequirement{
		{Type: "photo", Description: "Photos of vehicle damage"},
		{Type: "photo", Description: "Photos showing the tree/debris (if still present)"},
		{Type: "photo", Description: "Wide shot showing vehicle and surroundings"},
	}
	switch answer(s, "incident.tree_owner") {
	case "neighbor", "city":
		evidence = append(evidence, EvidenceRequirement{Type: "photo", Description: "Photos showing where the tree/debris came from"})
	}
	return evidence
}
