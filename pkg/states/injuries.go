package states

import (
	"regexp"
	"strings"

	"github.com/ormasoftchile/fnol/pkg/fnol"
)

var selfPattern = regexp.MustCompile(`\b(me|myself|i)\b`)

func severityOptions() []fnol.UIOption {
	return []fnol.UIOption{
		{Value: "minor", Label: "Minor - bruises or soreness"},
		{Value: "moderate", Label: "Moderate - needs medical attention"},
		{Value: "severe", Label: "Severe - serious injury"},
		{Value: "fatal", Label: "Fatal"},
	}
}

func treatmentOptions() []fnol.UIOption {
	return []fnol.UIOption{
		{Value: "none", Label: "No treatment needed"},
		{Value: "onsite", Label: "Treated at the scene"},
		{Value: "urgent_care", Label: "Urgent care visit"},
		{Value: "er", Label: "Emergency room"},
		{Value: "admitted", Label: "Admitted to the hospital"},
	}
}

// extractSeverity maps an answer to an injury severity.
func extractSeverity(text string) string {
	t := strings.ToLower(text)
	switch {
	case containsAny(t, "fatal", "died", "death", "passed away"):
		return "fatal"
	case containsAny(t, "severe", "serious", "broken", "fracture", "critical", "unconscious"):
		return "severe"
	case containsAny(t, "moderate", "stitches", "sprain", "concussion"):
		return "moderate"
	case containsAny(t, "minor", "bruise", "sore", "scratch", "small", "whiplash", "stiff"):
		return "minor"
	}
	return ""
}

var erPattern = regexp.MustCompile(`\b(er|e\.r\.)\b`)

// extractTreatmentLevel maps an answer to a treatment level.
func extractTreatmentLevel(text string) string {
	t := strings.ToLower(text)
	switch {
	case containsAny(t, "admitted", "staying", "hospital stay", "overnight"):
		return "admitted"
	case erPattern.MatchString(t) || strings.Contains(t, "emergency room"):
		return "er"
	case strings.Contains(t, "urgent"):
		return "urgent_care"
	case containsAny(t, "scene", "onsite", "on-site", "paramedic", "ambulance"):
		return "onsite"
	case containsAny(t, "none", "no treatment", "nothing") || noPattern.MatchString(t):
		return "none"
	}
	return ""
}

// Injuries records who was hurt and how badly. Severe or fatal injuries
// escalate immediately; everything else feeds the triage hard rules.
func (n *Nodes) Injuries(s *fnol.State) error {
	input := strings.TrimSpace(s.CurrentInput)
	lower := strings.ToLower(input)

	switch s.StateStep {
	case "initial":
		if inj := pendingInjury(s); inj != nil {
			// Reported during the safety check; pick up the details here.
			s.StateData["injury_id"] = inj.InjuryID
			s.StateStep = "awaiting_who"
			respond(s, "Earlier you mentioned someone was injured. Who was hurt?", prompt{
				question: "injured_who",
				field:    "injury.party",
			})
			return nil
		}
		s.StateStep = "awaiting_any"
		respond(s, "Was anyone injured in the incident? Even minor aches or soreness count.", prompt{
			question:  "any_injuries",
			field:     "injuries.any",
			inputType: "yesno",
			options:   yesNoOptions(),
		})

	case "awaiting_any":
		injured, severity, ok := parseInjuryResponse(lower)
		if !ok {
			respond(s, "Was anyone injured? A yes or no is fine, and \"not sure\" works too.", prompt{
				question:  "any_injuries",
				field:     "injuries.any",
				inputType: "yesno",
				options:   yesNoOptions(),
				errors:    []string{"Please let me know if anyone was injured."},
			})
			return nil
		}
		if !injured {
			s.AppendAudit(fnol.AuditEvent{Action: "no_injuries_reported", Actor: "user", UserInput: s.CurrentInput})
			transition(s, fnol.StateDamageEvidence, "initial")
			return nil
		}
		inj := fnol.InjuryData{InjuryID: newID(), Severity: severity}
		s.Injuries = append(s.Injuries, inj)
		s.StateData["injury_id"] = inj.InjuryID
		s.AppendAudit(fnol.AuditEvent{Action: "injury_reported", Actor: "user", UserInput: s.CurrentInput})
		s.StateStep = "awaiting_who"
		respond(s, "I'm sorry to hear that. Who was injured?", prompt{
			question: "injured_who",
			field:    "injury.party",
		})

	case "awaiting_who":
		inj := currentInjury(s)
		if inj == nil {
			transition(s, fnol.StateDamageEvidence, "initial")
			return nil
		}
		inj.PartyID = n.resolveInjuredParty(s, input, lower)
		s.AppendAudit(fnol.AuditEvent{Action: "field_captured", Actor: "user", FieldChanged: "injury.party", UserInput: s.CurrentInput})
		s.StateStep = "awaiting_severity"
		respond(s, "How serious is the injury?", prompt{
			question:  "injury_severity",
			field:     "injury.severity",
			inputType: "select",
			options:   severityOptions(),
		})

	case "awaiting_severity":
		severity := extractSeverity(lower)
		if severity == "" {
			respond(s, "How serious is the injury?", prompt{
				question:  "injury_severity",
				field:     "injury.severity",
				inputType: "select",
				options:   severityOptions(),
				errors:    []string{"Please pick the closest option."},
			})
			return nil
		}
		inj := currentInjury(s)
		if inj == nil {
			transition(s, fnol.StateDamageEvidence, "initial")
			return nil
		}
		inj.Severity = severity
		if input != "" && !containsAny(lower, "minor", "moderate", "severe", "fatal") {
			inj.Description = input
		}
		s.AppendAudit(fnol.AuditEvent{Action: "field_captured", Actor: "user", FieldChanged: "injury.severity", DataAfter: severity, UserInput: s.CurrentInput})
		if severity == "severe" || severity == "fatal" {
			s.ShouldEscalate = true
			s.EscalationReason = titleWords(severity) + " injury reported"
			s.EmergencyType = "severe_injury"
			transition(s, fnol.StateHandoffEscalation, "severe_injury")
			return nil
		}
		s.StateStep = "awaiting_treatment"
		respond(s, "What level of medical treatment was needed?", prompt{
			question:  "injury_treatment",
			field:     "injury.treatment_level",
			inputType: "select",
			options:   treatmentOptions(),
		})

	case "awaiting_treatment":
		level := extractTreatmentLevel(lower)
		if level == "" {
			respond(s, "What level of medical treatment was needed?", prompt{
				question:  "injury_treatment",
				field:     "injury.treatment_level",
				inputType: "select",
				options:   treatmentOptions(),
				errors:    []string{"Please pick the closest option."},
			})
			return nil
		}
		inj := currentInjury(s)
		if inj != nil {
			inj.TreatmentLevel = level
			if level == "admitted" {
				inj.Hospitalized = true
			}
		}
		s.AppendAudit(fnol.AuditEvent{Action: "field_captured", Actor: "user", FieldChanged: "injury.treatment_level", DataAfter: level})
		s.StateStep = "awaiting_ambulance"
		respond(s, "Was an ambulance called?", prompt{
			question:  "injury_ambulance",
			field:     "injury.ambulance_called",
			inputType: "yesno",
			options:   yesNoOptions(),
		})

	case "awaiting_ambulance":
		val, ok := parseYesNo(lower)
		if !ok {
			respond(s, "Was an ambulance called?", prompt{
				question:  "injury_ambulance",
				field:     "injury.ambulance_called",
				inputType: "yesno",
				options:   yesNoOptions(),
				errors:    []string{"Please answer yes or no."},
			})
			return nil
		}
		if inj := currentInjury(s); inj != nil {
			inj.AmbulanceCalled = val
		}
		s.AppendAudit(fnol.AuditEvent{Action: "field_captured", Actor: "user", FieldChanged: "injury.ambulance_called", DataAfter: val})
		s.StateStep = "awaiting_more"
		respond(s, "Is anyone else injured?", prompt{
			question:  "more_injuries",
			field:     "injuries.more",
			inputType: "yesno",
			options:   yesNoOptions(),
		})

	case "awaiting_more":
		if val, ok := parseYesNo(lower); ok && val {
			inj := fnol.InjuryData{InjuryID: newID()}
			s.Injuries = append(s.Injuries, inj)
			s.StateData["injury_id"] = inj.InjuryID
			s.StateStep = "awaiting_who"
			respond(s, "Who else was injured?", prompt{
				question: "injured_who",
				field:    "injury.party",
			})
			return nil
		}
		transition(s, fnol.StateDamageEvidence, "initial")

	default:
		transition(s, fnol.StateDamageEvidence, "initial")
	}
	return nil
}

// pendingInjury returns an injury record that has no party attached yet.
func pendingInjury(s *fnol.State) *fnol.InjuryData {
	for i := range s.Injuries {
		if s.Injuries[i].PartyID == "" {
			return &s.Injuries[i]
		}
	}
	return nil
}

// currentInjury returns the injury the sub-flow is filling in.
func currentInjury(s *fnol.State) *fnol.InjuryData {
	if id, _ := s.StateData["injury_id"].(string); id != "" {
		for i := range s.Injuries {
			if s.Injuries[i].InjuryID == id {
				return &s.Injuries[i]
			}
		}
	}
	if len(s.Injuries) > 0 {
		return &s.Injuries[len(s.Injuries)-1]
	}
	return nil
}

// resolveInjuredParty matches the answer to an existing party or records a
// new injured person, and returns the party ID.
func (n *Nodes) resolveInjuredParty(s *fnol.State, input, lower string) string {
	if selfPattern.MatchString(lower) {
		if p := lastPartyOfRole(s, "insured_driver"); p != nil {
			return p.PartyID
		}
	}
	for i := range s.Parties {
		p := &s.Parties[i]
		first := strings.ToLower(p.FirstName)
		name := strings.ToLower(strings.TrimSpace(p.FirstName + " " + p.LastName))
		if name == "" {
			continue
		}
		if strings.Contains(lower, name) || (first != "" && strings.Contains(lower, first)) {
			return p.PartyID
		}
	}
	p := fnol.PartyData{PartyID: newID(), Role: "injured_party"}
	p.FirstName, p.LastName = splitName(titleWords(input))
	s.Parties = append(s.Parties, p)
	return p.PartyID
}
