// Package machine drives an intake conversation: it owns the node loop that
// advances the state machine on each user message, the session bootstrap,
// and the progress bookkeeping front-ends read.
package machine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ormasoftchile/fnol/pkg/fnol"
	"github.com/ormasoftchile/fnol/pkg/playbook"
	"github.com/ormasoftchile/fnol/pkg/states"
	"github.com/ormasoftchile/fnol/pkg/triage"
)

// maxIterations bounds the node loop for a single user message. A node that
// neither asks a question nor completes within the bound is a bug; the loop
// returns whatever response is set rather than spinning.
const maxIterations = 20

// Config wires the controller's collaborators. Zero-value fields get
// defaults: the built-in playbook registry, the default triage rules, the
// demo policy directory, an in-memory claim store and a nop logger.
type Config struct {
	Policies states.PolicyDirectory
	Claims   states.ClaimStore
	Registry *playbook.Registry
	Triage   *triage.Engine
	Now      func() time.Time
	Log      zerolog.Logger
}

// Machine processes intake sessions. Safe for sequential use per state; two
// goroutines must not process the same state concurrently.
type Machine struct {
	handlers map[string]states.Handler
	now      func() time.Time
	log      zerolog.Logger
}

// New builds a Machine from the config, filling in defaults.
func New(cfg Config) (*Machine, error) {
	if cfg.Registry == nil {
		cfg.Registry = playbook.NewRegistry()
	}
	if cfg.Triage == nil {
		engine, err := triage.NewEngine(triage.DefaultRules())
		if err != nil {
			return nil, fmt.Errorf("default triage rules: %w", err)
		}
		cfg.Triage = engine
	}
	if cfg.Policies == nil {
		cfg.Policies = NewDemoDirectory()
	}
	if cfg.Claims == nil {
		cfg.Claims = NewMemoryClaimStore()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	nodes := states.New(states.Deps{
		Policies: cfg.Policies,
		Claims:   cfg.Claims,
		Registry: cfg.Registry,
		Triage:   cfg.Triage,
		Now:      cfg.Now,
		Log:      cfg.Log,
	})
	return &Machine{
		handlers: nodes.Handlers(),
		now:      cfg.Now,
		log:      cfg.Log,
	}, nil
}

// CreateSession opens a new conversation. The policy ID is optional; when
// present, identity verification resolves it silently. The returned state
// already carries the welcome message and the opening safety question.
func (m *Machine) CreateSession(threadID, userID, policyID string) *fnol.State {
	now := m.now()
	s := fnol.NewState(threadID, userID, policyID, now)
	s.ClaimDraftID = uuid.NewString()
	states.AskSafetyQuestion(s)
	s.Messages = append(s.Messages, fnol.Message{Role: "assistant", Content: s.AIResponse, Timestamp: now})
	s.ProgressPercent = fnol.CalculateProgress(s)
	m.log.Info().Str("thread_id", threadID).Msg("session created")
	return s
}

// ProcessMessage feeds one user message through the node loop and leaves the
// state waiting on the next question, or complete. The transcript gains the
// user turn and, when a node produced one, the assistant turn.
func (m *Machine) ProcessMessage(s *fnol.State, input string) error {
	now := m.now()
	s.CurrentInput = input
	s.AIResponse = ""
	s.NeedsUserInput = false
	s.UpdatedAt = now
	s.Messages = append(s.Messages, fnol.Message{Role: "user", Content: input, Timestamp: now})

	for i := 0; i < maxIterations; i++ {
		h, ok := m.handlers[s.CurrentState]
		if !ok {
			m.log.Error().Str("thread_id", s.ThreadID).Str("state", s.CurrentState).Msg("no handler for state")
			return fmt.Errorf("configuration error: no handler bound for state %q", s.CurrentState)
		}
		m.log.Debug().
			Str("thread_id", s.ThreadID).
			Str("state", s.CurrentState).
			Str("step", s.StateStep).
			Int("iteration", i).
			Msg("node invoked")
		if err := h(s); err != nil {
			return fmt.Errorf("node %s: %w", s.CurrentState, err)
		}
		if s.NeedsUserInput || s.IsComplete {
			break
		}
	}

	if s.AIResponse != "" {
		s.Messages = append(s.Messages, fnol.Message{Role: "assistant", Content: s.AIResponse, Timestamp: m.now()})
	}
	s.ProgressPercent = fnol.CalculateProgress(s)
	s.UpdatedAt = m.now()
	return nil
}
