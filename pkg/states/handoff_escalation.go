package states

import (
	"fmt"
	"strings"

	"github.com/ormasoftchile/fnol/pkg/fnol"
)

// escalationConfig describes one escalation queue: its priority, the SLA
// quoted to the caller and the handoff message.
type escalationConfig struct {
	Priority   string
	Queue      string
	SLAMinutes int
	Message    string
}

var escalationConfigs = map[string]escalationConfig{
	"emergency": {
		Priority: "critical", Queue: "emergency", SLAMinutes: 2,
		Message: "Your safety is the priority. If you haven't already, please call 911 now.\n\nI'm connecting you with an emergency specialist right away. Stay on the line, help is on the way.",
	},
	"severe_injury": {
		Priority: "high", Queue: "injury_claims", SLAMinutes: 5,
		Message: "I'm very sorry to hear about the injury. I'm connecting you with a specialist from our injury claims team who can give this the attention it needs.",
	},
	"siu_review": {
		Priority: "normal", Queue: "review", SLAMinutes: 15,
		Message: "Thank you for all the information you've provided. Your claim needs some additional review before it can proceed, and a specialist will take it from here.",
	},
	"user_request": {
		Priority: "normal", Queue: "general", SLAMinutes: 10,
		Message: "Of course. I'm connecting you with one of our agents who can help you directly.",
	},
	"technical_issue": {
		Priority: "normal", Queue: "general", SLAMinutes: 10,
		Message: "I'm sorry, I've run into a technical problem on my end. Let me connect you with an agent who can pick up right where we left off.",
	},
	"complex_scenario": {
		Priority: "normal", Queue: "complex_claims", SLAMinutes: 15,
		Message: "Your situation has a few details that are best handled by a specialist. I'm connecting you with our complex claims team.",
	},
	"fraud_suspected": {
		Priority: "high", Queue: "siu", SLAMinutes: 5,
		Message: "Thank you for the information. Your claim requires specialist review before it can proceed.",
	},
	"policy_issue": {
		Priority: "normal", Queue: "policy_services", SLAMinutes: 10,
		Message: "There's a policy question that needs to be sorted out first. I'm connecting you with our policy services team.",
	},
}

// HandoffEscalation routes the conversation to a human queue. Emergencies
// end the conversation immediately; everything else offers hold or
// callback.
func (n *Nodes) HandoffEscalation(s *fnol.State) error {
	input := strings.TrimSpace(s.CurrentInput)
	lower := strings.ToLower(input)

	switch s.StateStep {
	case "initial", "emergency", "severe_injury", "siu_review", "technical_issue":
		escalationType := s.StateStep
		if _, known := escalationConfigs[escalationType]; !known {
			escalationType = determineEscalationType(s)
		}
		cfg, ok := escalationConfigs[escalationType]
		if !ok {
			escalationType = "user_request"
			cfg = escalationConfigs[escalationType]
		}
		s.Escalation = &fnol.EscalationRecord{
			EscalationID:   newID(),
			EscalationType: escalationType,
			Queue:          cfg.Queue,
			Priority:       cfg.Priority,
			SLAMinutes:     cfg.SLAMinutes,
			Reason:         s.EscalationReason,
			CreatedAt:      n.deps.Now().UTC(),
			Context:        buildAgentContext(s),
		}
		s.ShouldEscalate = true
		s.AppendAudit(fnol.AuditEvent{Action: "escalation_initiated", DataAfter: map[string]any{
			"type": escalationType, "queue": cfg.Queue, "priority": cfg.Priority,
		}})
		n.deps.Log.Warn().
			Str("thread_id", s.ThreadID).
			Str("type", escalationType).
			Str("queue", cfg.Queue).
			Msg("escalation initiated")

		if escalationType == "emergency" {
			s.IsComplete = true
			respond(s, cfg.Message, prompt{})
			return nil
		}
		s.StateStep = "awaiting_contact_choice"
		respond(s, fmt.Sprintf("%s\n\nWould you like to hold for the next available agent (about %d minutes), or have us call you back?", cfg.Message, cfg.SLAMinutes), prompt{
			question:  "contact_choice",
			field:     "contact_choice",
			inputType: "select",
			options: []fnol.UIOption{
				{Value: "hold", Label: "I'll hold"},
				{Value: "callback", Label: "Call me back"},
			},
		})

	case "awaiting_contact_choice":
		switch {
		case containsAny(lower, "call", "back", "callback"):
			s.StateStep = "awaiting_callback_number"
			respond(s, "What's the best number to reach you?", prompt{
				question: "callback_number",
				field:    "callback_number",
			})
		case containsAny(lower, "hold", "wait", "stay"):
			s.StateStep = "holding"
			respond(s, fmt.Sprintf("Thanks for holding. An agent will be with you in about %d minutes, and I'll stay right here with you.", escalationSLA(s)), prompt{
				question: "holding",
				field:    "holding",
			})
		default:
			respond(s, "Would you like to hold for the next agent, or have us call you back?", prompt{
				question:  "contact_choice",
				field:     "contact_choice",
				inputType: "select",
				options: []fnol.UIOption{
					{Value: "hold", Label: "I'll hold"},
					{Value: "callback", Label: "Call me back"},
				},
				errors: []string{"Please say \"hold\" or \"call me back\"."},
			})
		}

	case "awaiting_callback_number":
		digits := extractPhone(input)
		if digits == "" {
			respond(s, "What's the best number to reach you?", prompt{
				question: "callback_number",
				field:    "callback_number",
				errors:   []string{"Please provide a 10-digit phone number."},
			})
			return nil
		}
		formatted := formatPhone(digits)
		if s.Escalation != nil {
			s.Escalation.CallbackNumber = formatted
		}
		s.AppendAudit(fnol.AuditEvent{Action: "callback_scheduled", Actor: "user", DataAfter: formatted})
		s.IsComplete = true
		respond(s, fmt.Sprintf("You're all set. An agent will call you at %s within about %d minutes. Your reference number is %s.", formatted, escalationSLA(s), shortRef(s)), prompt{})

	case "holding":
		if containsAny(lower, "call", "back") {
			s.StateStep = "awaiting_callback_number"
			respond(s, "Sure, we can call you instead. What's the best number to reach you?", prompt{
				question: "callback_number",
				field:    "callback_number",
			})
			return nil
		}
		respond(s, "Still here with you. An agent will join shortly, thanks for your patience.", prompt{
			question: "holding",
			field:    "holding",
		})

	default:
		s.IsComplete = true
		respond(s, fmt.Sprintf("An agent will follow up with you shortly. Your reference number is %s.", shortRef(s)), prompt{})
	}
	return nil
}

func escalationSLA(s *fnol.State) int {
	if s.Escalation != nil {
		return s.Escalation.SLAMinutes
	}
	return 10
}

// determineEscalationType classifies an escalation that arrived without an
// explicit type, from the emergency flags, the triage route and the reason
// text.
func determineEscalationType(s *fnol.State) string {
	if s.EmergencyDetected {
		return "emergency"
	}
	if s.EmergencyType == "severe_injury" {
		return "severe_injury"
	}
	if s.Triage != nil && s.Triage.Route == "siu_review" {
		return "siu_review"
	}
	reason := strings.ToLower(s.EscalationReason)
	switch {
	case strings.Contains(reason, "fraud"):
		return "fraud_suspected"
	case containsAny(reason, "technical", "failed"):
		return "technical_issue"
	case strings.Contains(reason, "policy"):
		return "policy_issue"
	case strings.Contains(reason, "complex"):
		return "complex_scenario"
	}
	return "user_request"
}

// buildAgentContext packages what the receiving agent needs at a glance.
func buildAgentContext(s *fnol.State) map[string]any {
	var flags []string
	seen := map[string]bool{}
	add := func(f string) {
		if f != "" && !seen[f] {
			seen[f] = true
			flags = append(flags, f)
		}
	}
	if s.EmergencyDetected {
		add("emergency_detected")
	}
	add(s.EmergencyType)
	if s.Triage != nil {
		top := s.Triage.Flags
		if len(top) > 5 {
			top = top[:5]
		}
		for _, f := range top {
			add(f)
		}
	}
	return map[string]any{
		"thread_id":        s.ThreadID,
		"escalated_from":   s.PreviousState,
		"completed_states": append([]string(nil), s.CompletedStates...),
		"loss_type":        s.Incident.LossType,
		"policy_status":    s.PolicyMatch.Status,
		"holder_name":      s.PolicyMatch.HolderName,
		"reason":           s.EscalationReason,
		"summary_flags":    flags,
	}
}
