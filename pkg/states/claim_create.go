package states

import (
	"fmt"
	"strings"

	"github.com/ormasoftchile/fnol/pkg/fnol"
)

func editSectionOptions() []fnol.UIOption {
	return []fnol.UIOption{
		{Value: "incident", Label: "Incident details"},
		{Value: "vehicle", Label: "Vehicle information"},
		{Value: "parties", Label: "People involved"},
		{Value: "injuries", Label: "Injury information"},
		{Value: "damage", Label: "Damage description"},
		{Value: "cancel", Label: "Start over"},
	}
}

// ClaimCreate shows the full claim summary, lets the caller correct any
// section, records the accuracy acknowledgment and files the claim draft.
func (n *Nodes) ClaimCreate(s *fnol.State) error {
	lower := strings.ToLower(strings.TrimSpace(s.CurrentInput))

	switch s.StateStep {
	case "initial":
		summary := n.claimSummary(s)
		s.StateStep = "confirm"
		respond(s, summary+"\n\nBy submitting, you confirm this information is true and accurate to the best of your knowledge.\n\nIs everything correct?", prompt{
			question:  "confirm_claim",
			field:     "claim_confirmed",
			inputType: "yesno",
			options: []fnol.UIOption{
				{Value: "yes", Label: "Yes, submit my claim"},
				{Value: "no", Label: "No, I need to change something"},
			},
		})

	case "confirm":
		val, ok := parseYesNo(lower)
		if !ok {
			respond(s, "Is everything in the summary correct?", prompt{
				question:  "confirm_claim",
				field:     "claim_confirmed",
				inputType: "yesno",
				options:   yesNoOptions(),
				errors:    []string{"Please answer yes or no."},
			})
			return nil
		}
		if !val {
			s.StateStep = "edit_select"
			respond(s, "No problem. What would you like to change?", prompt{
				question:  "edit_section",
				field:     "edit_section",
				inputType: "select",
				options:   editSectionOptions(),
			})
			return nil
		}
		s.FraudAcknowledgment = true
		s.AppendAudit(fnol.AuditEvent{Action: "fraud_acknowledgment_recorded", Actor: "user", UserInput: s.CurrentInput})
		n.createClaimDraft(s)

	case "edit_select":
		target := ""
		switch {
		case containsAny(lower, "cancel", "start over"):
			s.ShouldEscalate = true
			s.EscalationReason = "User requested to start over"
			transition(s, fnol.StateHandoffEscalation, "initial")
			return nil
		case containsAny(lower, "incident", "date", "location", "description", "what happened"):
			target = fnol.StateIncidentCore
		case containsAny(lower, "part", "people", "witness", "other driver"):
			target = fnol.StateThirdParties
		case containsAny(lower, "vehicle", "car", "driver"):
			target = fnol.StateVehicleDriver
		case strings.Contains(lower, "injur"):
			target = fnol.StateInjuries
		case containsAny(lower, "damage", "photo"):
			target = fnol.StateDamageEvidence
		default:
			respond(s, "What would you like to change?", prompt{
				question:  "edit_section",
				field:     "edit_section",
				inputType: "select",
				options:   editSectionOptions(),
				errors:    []string{"Please pick one of the sections, or \"cancel\" to start over."},
			})
			return nil
		}
		s.AppendAudit(fnol.AuditEvent{Action: "edit_requested", Actor: "user", DataAfter: target, UserInput: s.CurrentInput})
		transition(s, target, "initial")
		// The marker routes the edited section back to the summary.
		s.StateData["editing"] = true
		s.StateData["return_to_state"] = fnol.StateClaimCreate

	case "creation_failed":
		if containsAny(lower, "retry", "try", "again", "yes") {
			n.createClaimDraft(s)
			return nil
		}
		s.ShouldEscalate = true
		s.EscalationReason = "Claim creation failed"
		transition(s, fnol.StateHandoffEscalation, "technical_issue")

	default:
		transition(s, fnol.StateNextSteps, "initial")
	}
	return nil
}

// createClaimDraft files the draft and moves to next steps, or offers a
// retry when the store fails.
func (n *Nodes) createClaimDraft(s *fnol.State) {
	ref, err := n.deps.Claims.CreateClaimDraft(s)
	if err != nil {
		n.deps.Log.Error().Err(err).Str("thread_id", s.ThreadID).Msg("claim draft creation failed")
		s.StateStep = "creation_failed"
		respond(s, "I'm having trouble submitting your claim right now. Would you like me to try again, or connect you with an agent?", prompt{
			question:  "creation_retry",
			field:     "creation_retry",
			inputType: "select",
			options: []fnol.UIOption{
				{Value: "retry", Label: "Try again"},
				{Value: "agent", Label: "Connect me with an agent"},
			},
		})
		return
	}
	if ref.ClaimDraftID != "" {
		s.ClaimDraftID = ref.ClaimDraftID
	}
	s.ClaimNumber = ref.ClaimNumber
	s.AppendAudit(fnol.AuditEvent{Action: "claim_created", DataAfter: ref.ClaimNumber})
	n.deps.Log.Info().Str("thread_id", s.ThreadID).Str("claim_number", ref.ClaimNumber).Msg("claim draft created")
	transition(s, fnol.StateNextSteps, "initial")
}

// claimSummary renders the full intake as a reviewable markdown summary.
func (n *Nodes) claimSummary(s *fnol.State) string {
	var b strings.Builder
	b.WriteString("Here's a summary of your claim:\n")

	b.WriteString("\n**Incident Details**\n")
	fmt.Fprintf(&b, "- Type: %s\n", titleWords(formatLossType(s.Incident.LossType)))
	when := formatIncidentDate(s.Incident.Date)
	if s.Incident.Time != "" {
		when += " at " + s.Incident.Time
	}
	fmt.Fprintf(&b, "- Date: %s\n", when)
	fmt.Fprintf(&b, "- Location: %s\n", s.Incident.LocationRaw)
	desc := s.Incident.Description
	if len(desc) > 200 {
		desc = desc[:200] + "..."
	}
	fmt.Fprintf(&b, "- Description: %s\n", desc)

	if len(s.Vehicles) > 0 {
		b.WriteString("\n**Vehicles Involved**\n")
		for _, v := range s.Vehicles {
			line := "- " + formatVehicle(v)
			switch v.Drivable {
			case "yes":
				line += " - drivable"
			case "no":
				line += " - not drivable"
				if v.TowNeeded {
					line += ", tow requested"
				}
			}
			b.WriteString(line + "\n")
		}
	}

	if len(s.Parties) > 0 {
		b.WriteString("\n**People Involved**\n")
		for _, p := range s.Parties {
			fmt.Fprintf(&b, "- %s (%s)\n", formatParty(p), strings.ReplaceAll(p.Role, "_", " "))
		}
	}

	b.WriteString("\n**Injuries**\n")
	if len(s.Injuries) == 0 {
		b.WriteString("- None reported\n")
	} else {
		for _, inj := range s.Injuries {
			line := "- " + injuredPartyName(s, inj.PartyID) + ": " + inj.Severity
			if inj.TreatmentLevel != "" && inj.TreatmentLevel != "none" {
				line += ", " + strings.ReplaceAll(inj.TreatmentLevel, "_", " ")
			}
			b.WriteString(line + "\n")
		}
	}

	if len(s.Damages) > 0 {
		b.WriteString("\n**Damage**\n")
		var areas []string
		var estimate float64
		for _, d := range s.Damages {
			if d.DamageType == "vehicle" && d.DamageArea != "" {
				areas = append(areas, strings.ReplaceAll(d.DamageArea, "_", " "))
			}
			if d.EstimatedAmount > estimate {
				estimate = d.EstimatedAmount
			}
			if d.DamageType == "property" {
				fmt.Fprintf(&b, "- Property: %s\n", d.Description)
			}
		}
		if len(areas) > 0 {
			line := "- Vehicle: " + strings.Join(areas, ", ")
			if estimate > 0 {
				line += fmt.Sprintf(" (est. $%.0f)", estimate)
			}
			b.WriteString(line + "\n")
		}
	}

	if s.Triage != nil {
		b.WriteString("\n**Processing**\n")
		switch s.Triage.Route {
		case "stp":
			b.WriteString("- Your claim qualifies for expedited processing\n")
		default:
			b.WriteString("- Your claim will be reviewed by a claims adjuster\n")
		}
	}

	if n.deps.Registry != nil {
		res := n.deps.Registry.ValidateAll(s)
		notes := append(append([]string(nil), res.Errors...), res.Warnings...)
		if len(notes) > 0 {
			b.WriteString("\n**Please note**\n")
			for _, note := range notes {
				b.WriteString("- " + note + "\n")
			}
		}
	}
	return b.String()
}

func injuredPartyName(s *fnol.State, partyID string) string {
	for _, p := range s.Parties {
		if p.PartyID == partyID {
			return formatParty(p)
		}
	}
	return "Injured person"
}
