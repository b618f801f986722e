package fnol

import (
	"time"

	"github.com/google/uuid"
)

// AppendAudit records an event on the state's append-only audit trail and
// returns the stored event.
func (s *State) AppendAudit(ev AuditEvent) AuditEvent {
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	if ev.State == "" {
		ev.State = s.CurrentState
	}
	if ev.Step == "" {
		ev.Step = s.StateStep
	}
	if ev.Actor == "" {
		ev.Actor = "system"
	}
	s.StateHistory = append(s.StateHistory, ev)
	return ev
}
