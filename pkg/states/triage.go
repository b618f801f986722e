package states

import (
	"github.com/ormasoftchile/fnol/pkg/fnol"
)

// Triage runs the deterministic routing engine over the collected state and
// moves on without asking anything. Emergency and SIU routes escalate;
// everything else proceeds to claim creation.
func (n *Nodes) Triage(s *fnol.State) error {
	var flags []string
	if n.deps.Registry != nil {
		flags = n.deps.Registry.AllTriageFlags(s)
	}
	result, err := n.deps.Triage.Evaluate(s, flags)
	if err != nil {
		n.deps.Log.Error().Err(err).Str("thread_id", s.ThreadID).Msg("triage evaluation failed")
		s.ShouldEscalate = true
		s.EscalationReason = "Triage evaluation failed"
		transition(s, fnol.StateHandoffEscalation, "technical_issue")
		return nil
	}
	s.Triage = result
	s.AppendAudit(fnol.AuditEvent{Action: "triage_calculated", DataAfter: result})
	n.deps.Log.Info().
		Str("thread_id", s.ThreadID).
		Str("route", result.Route).
		Int("score", result.Score).
		Msg("triage decision")

	reason := ""
	if len(result.Reasons) > 0 {
		reason = result.Reasons[0]
	}
	switch result.Route {
	case "emergency":
		s.ShouldEscalate = true
		s.EscalationReason = reason
		transition(s, fnol.StateHandoffEscalation, "emergency")
	case "siu_review":
		s.ShouldEscalate = true
		s.EscalationReason = reason
		transition(s, fnol.StateHandoffEscalation, "siu_review")
	default:
		transition(s, fnol.StateClaimCreate, "initial")
	}
	return nil
}
