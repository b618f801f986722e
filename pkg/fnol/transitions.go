package fnol

import (
	"slices"
	"time"
)

// StateOrder is the canonical phase sequence used for progress reporting.
// HANDOFF_ESCALATION sits outside the order; progress for an escalated
// conversation counts completed phases instead.
var StateOrder = []string{
	StateSafetyCheck,
	StateIdentityMatch,
	StateIncidentCore,
	StateLossModule,
	StateVehicleDriver,
	StateThirdParties,
	StateInjuries,
	StateDamageEvidence,
	StateTriage,
	StateClaimCreate,
	StateNextSteps,
}

// StateTransitions maps each phase to the phases it may legally move to in
// the forward flow. Terminal phases map to an empty list. The claim-summary
// edit loop additionally jumps back to earlier phases and returns; those
// detours are driven by the summary node, not this map.
var StateTransitions = map[string][]string{
	StateSafetyCheck:       {StateIdentityMatch, StateHandoffEscalation},
	StateIdentityMatch:     {StateIncidentCore, StateHandoffEscalation},
	StateIncidentCore:      {StateLossModule},
	StateLossModule:        {StateVehicleDriver, StateIncidentCore},
	StateVehicleDriver:     {StateThirdParties},
	StateThirdParties:      {StateInjuries},
	StateInjuries:          {StateDamageEvidence, StateHandoffEscalation},
	StateDamageEvidence:    {StateTriage},
	StateTriage:            {StateClaimCreate, StateHandoffEscalation},
	StateClaimCreate:       {StateNextSteps, StateHandoffEscalation},
	StateNextSteps:         {},
	StateHandoffEscalation: {},
}

// CanTransition reports whether moving from one phase to another is legal.
func CanTransition(from, to string) bool {
	return slices.Contains(StateTransitions[from], to)
}

// IsTerminal reports whether a phase has no outgoing transitions.
func IsTerminal(state string) bool {
	return len(StateTransitions[state]) == 0
}

// CalculateProgress returns the percent of the intake completed, based on
// the position of the current phase in StateOrder.
func CalculateProgress(s *State) int {
	if s.CurrentState == StateHandoffEscalation {
		return len(s.CompletedStates) * 100 / len(StateOrder)
	}
	idx := slices.Index(StateOrder, s.CurrentState)
	if idx < 0 {
		return 0
	}
	return idx * 100 / len(StateOrder)
}

// NewState builds the initial conversation state for a thread. An optional
// policy ID seeds the policy match so identity verification can skip the
// lookup questions.
func NewState(threadID, userID, policyID string, now time.Time) *State {
	return &State{
		ThreadID:        threadID,
		UserID:          userID,
		CurrentState:    StateSafetyCheck,
		StateStep:       "initial",
		StateData:       map[string]any{},
		CompletedStates: []string{},
		Messages:        []Message{},
		PolicyMatch:     PolicyMatchData{Status: "pending", PolicyID: policyID},
		Vehicles:        []VehicleData{},
		Parties:         []PartyData{},
		Injuries:        []InjuryData{},
		Damages:         []DamageData{},
		Evidence:        []EvidenceData{},
		StateHistory:    []AuditEvent{},
		UIHints:         UIHints{InputType: "text", ShowProgress: true},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
