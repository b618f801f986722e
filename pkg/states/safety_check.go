package states

import (
	"fmt"
	"strings"

	"github.com/ormasoftchile/fnol/pkg/fnol"
)

// WelcomeMessage opens every new conversation.
const WelcomeMessage = "I'm here to help you report an auto insurance claim. Before we begin, I need to make sure everyone is safe.\n\nAre you and everyone involved currently in a safe location?"

func safetyOptions() []fnol.UIOption {
	return []fnol.UIOption{
		{Value: "yes", Label: "Yes, we're safe"},
		{Value: "no", Label: "No, I need help"},
	}
}

// AskSafetyQuestion sets the opening safety question on a fresh state.
func AskSafetyQuestion(s *fnol.State) {
	s.StateStep = "awaiting_safety"
	respond(s, WelcomeMessage, prompt{
		question:  "safety_confirmation",
		field:     "safety_confirmed",
		inputType: "yesno",
		options:   safetyOptions(),
	})
}

// SafetyCheck confirms the caller is safe and screens for injuries before
// any claim questions are asked. Emergencies escalate immediately.
func (n *Nodes) SafetyCheck(s *fnol.State) error {
	input := strings.ToLower(strings.TrimSpace(s.CurrentInput))

	switch s.StateStep {
	case "initial":
		AskSafetyQuestion(s)

	case "awaiting_safety":
		val, ok := parseYesNo(input)
		if !ok {
			respond(s, "I want to make sure I understand. Are you currently in a safe location, away from traffic and other hazards?", prompt{
				question:  "safety_confirmation",
				field:     "safety_confirmed",
				inputType: "yesno",
				options:   safetyOptions(),
				errors:    []string{"Please answer yes or no."},
			})
			return nil
		}
		if !val {
			s.StateStep = "unsafe_guidance"
			respond(s, "Your safety comes first. If you're in danger or anyone needs urgent medical help, please call 911 now.\n\nIf you can, move to a safe spot away from traffic. Let me know once you're safe, or tell me if you need emergency help.", prompt{
				question: "safety_followup",
				field:    "safety_status",
			})
			return nil
		}
		s.SafetyConfirmed = true
		s.AppendAudit(fnol.AuditEvent{Action: "safety_confirmed", Actor: "user", UserInput: s.CurrentInput})
		n.askInjuryCheck(s)

	case "unsafe_guidance":
		if containsAny(input, "help", "emergency", "ambulance", "911", "danger", "stuck") {
			s.EmergencyDetected = true
			s.EmergencyType = "caller_unsafe"
			s.ShouldEscalate = true
			s.EscalationReason = "Caller reports being unsafe"
			s.AppendAudit(fnol.AuditEvent{Action: "emergency_detected", Actor: "user", UserInput: s.CurrentInput})
			transition(s, fnol.StateHandoffEscalation, "emergency")
			return nil
		}
		if val, ok := parseYesNo(input); (ok && val) || strings.Contains(input, "safe") {
			s.SafetyConfirmed = true
			s.AppendAudit(fnol.AuditEvent{Action: "safety_confirmed", Actor: "user", UserInput: s.CurrentInput})
			n.askInjuryCheck(s)
			return nil
		}
		respond(s, "Take your time. When you're somewhere safe, just say \"safe\". If you need emergency services, say \"help\".", prompt{
			question: "safety_followup",
			field:    "safety_status",
		})

	case "awaiting_injury_check":
		injured, severity, ok := parseInjuryResponse(input)
		if !ok {
			respond(s, "Is anyone injured? A simple yes or no is fine, and if you're not sure, say so.", prompt{
				question:  "injury_check",
				field:     "has_injuries",
				inputType: "yesno",
				options:   yesNoOptions(),
				errors:    []string{"Please let me know if anyone is injured."},
			})
			return nil
		}
		if !injured {
			s.AppendAudit(fnol.AuditEvent{Action: "no_injuries_reported", Actor: "user", UserInput: s.CurrentInput})
			transition(s, fnol.StateIdentityMatch, "initial")
			return nil
		}
		if severity == "severe" {
			s.EmergencyDetected = true
			s.EmergencyType = "severe_injury"
			s.ShouldEscalate = true
			s.EscalationReason = "Severe injury reported"
			s.Injuries = append(s.Injuries, fnol.InjuryData{InjuryID: newID(), Severity: "severe"})
			s.AppendAudit(fnol.AuditEvent{Action: "emergency_detected", Actor: "user", UserInput: s.CurrentInput})
			transition(s, fnol.StateHandoffEscalation, "severe_injury")
			return nil
		}
		// Details are collected in the injury phase; the record carries the
		// report across the transition.
		s.Injuries = append(s.Injuries, fnol.InjuryData{InjuryID: newID(), Severity: severity})
		s.AppendAudit(fnol.AuditEvent{Action: "injury_reported", Actor: "user", UserInput: s.CurrentInput})
		s.StateStep = "awaiting_emergency_services"
		respond(s, "I'm sorry to hear that. Have emergency services been called, or is medical attention needed right now?", prompt{
			question:  "emergency_services",
			field:     "emergency_services_called",
			inputType: "select",
			options: []fnol.UIOption{
				{Value: "called", Label: "Yes, they've been called"},
				{Value: "not_needed", Label: "No, it's not that serious"},
				{Value: "need_help", Label: "We need help now"},
			},
		})

	case "awaiting_emergency_services":
		switch {
		case containsAny(input, "need help", "need_help", "right now", "send"):
			s.EmergencyDetected = true
			s.EmergencyType = "medical_emergency"
			s.ShouldEscalate = true
			s.EscalationReason = "Medical attention needed"
			transition(s, fnol.StateHandoffEscalation, "emergency")
		case containsAny(input, "called", "already", "on the way", "on their way", "yes"):
			if len(s.Injuries) > 0 {
				s.Injuries[len(s.Injuries)-1].AmbulanceCalled = true
			}
			s.AppendAudit(fnol.AuditEvent{Action: "emergency_services_confirmed", Actor: "user", UserInput: s.CurrentInput})
			transition(s, fnol.StateIdentityMatch, "initial")
		case containsAny(input, "not", "no"):
			s.AppendAudit(fnol.AuditEvent{Action: "emergency_services_not_needed", Actor: "user", UserInput: s.CurrentInput})
			transition(s, fnol.StateIdentityMatch, "initial")
		default:
			s.StateStep = "emergency_guidance"
			respond(s, "If anyone needs medical help, please call 911 now. I can stay with you and continue the claim, or you can come back later. Whenever you're ready, say \"continue\" or \"later\".", prompt{
				question: "continue_or_later",
				field:    "continue_choice",
			})
		}

	case "emergency_guidance":
		if strings.Contains(input, "later") {
			s.IsComplete = true
			respond(s, fmt.Sprintf("Of course. Your progress is saved under reference %s. Call us back anytime or continue this chat when you're ready. Please take care.", shortRef(s)), prompt{})
			return nil
		}
		transition(s, fnol.StateIdentityMatch, "initial")

	default:
		transition(s, fnol.StateIdentityMatch, "initial")
	}
	return nil
}

func (n *Nodes) askInjuryCheck(s *fnol.State) {
	s.StateStep = "awaiting_injury_check"
	respond(s, "Good to hear you're safe. Is anyone injured and in need of medical attention?", prompt{
		question:  "injury_check",
		field:     "has_injuries",
		inputType: "yesno",
		options:   yesNoOptions(),
	})
}
