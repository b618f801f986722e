// Package states implements the node handler for each intake phase. A node
// receives the conversation state, consumes the pending user input according
// to its current sub-step, mutates the state and either asks the next
// question or transitions to the following phase.
package states

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/ormasoftchile/fnol/pkg/fnol"
	"github.com/ormasoftchile/fnol/pkg/playbook"
	"github.com/ormasoftchile/fnol/pkg/triage"
)

// PolicyRecord is one policy as returned by the directory.
type PolicyRecord struct {
	PolicyID      string
	PolicyNumber  string
	HolderName    string
	State         string
	EffectiveDate *time.Time
	Vehicles      []fnol.PolicyVehicle
	Drivers       []fnol.PolicyDriver
}

// PolicyDirectory resolves policies during identity verification. Lookups
// return false when no policy matches.
type PolicyDirectory interface {
	LookupByID(policyID string) (*PolicyRecord, bool)
	LookupByNumber(policyNumber string) (*PolicyRecord, bool)
	LookupByPersonalInfo(phone, name, zip string) (*PolicyRecord, bool)
}

// ClaimRef identifies a created claim draft.
type ClaimRef struct {
	ClaimDraftID string
	ClaimNumber  string
}

// ClaimStore creates claim drafts from a completed intake state.
type ClaimStore interface {
	CreateClaimDraft(s *fnol.State) (ClaimRef, error)
}

// Deps carries the collaborators the node handlers need.
type Deps struct {
	Policies PolicyDirectory
	Claims   ClaimStore
	Registry *playbook.Registry
	Triage   *triage.Engine
	Now      func() time.Time
	Log      zerolog.Logger
}

// Handler processes one node invocation for a phase.
type Handler func(s *fnol.State) error

// Nodes binds the phase handlers to their dependencies.
type Nodes struct {
	deps Deps
}

// New returns the node set. A nil Now defaults to time.Now.
func New(deps Deps) *Nodes {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Nodes{deps: deps}
}

// Handlers maps each phase name to its node handler.
func (n *Nodes) Handlers() map[string]Handler {
	return map[string]Handler{
		fnol.StateSafetyCheck:       n.SafetyCheck,
		fnol.StateIdentityMatch:     n.IdentityMatch,
		fnol.StateIncidentCore:      n.IncidentCore,
		fnol.StateLossModule:        n.LossModule,
		fnol.StateVehicleDriver:     n.VehicleDriver,
		fnol.StateThirdParties:      n.ThirdParties,
		fnol.StateInjuries:          n.Injuries,
		fnol.StateDamageEvidence:    n.DamageEvidence,
		fnol.StateTriage:            n.Triage,
		fnol.StateClaimCreate:       n.ClaimCreate,
		fnol.StateNextSteps:         n.NextSteps,
		fnol.StateHandoffEscalation: n.HandoffEscalation,
	}
}
