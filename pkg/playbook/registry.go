package playbook

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/ormasoftchile/fnol/pkg/fnol"
)

// DefaultDetectionThreshold is the minimum confidence for a playbook to be
// considered applicable.
const DefaultDetectionThreshold = 0.3

// Registry holds the registered playbooks. It is populated once at startup
// and read-only afterwards, so it needs no internal locking.
type Registry struct {
	playbooks map[string]Playbook
	order     []string
	threshold float64
	log       zerolog.Logger
}

// NewRegistry returns a registry pre-loaded with the full scenario set.
func NewRegistry() *Registry {
	r := &Registry{
		playbooks: map[string]Playbook{},
		threshold: DefaultDetectionThreshold,
		log:       zerolog.Nop(),
	}
	for _, p := range allPlaybooks() {
		// Registration happens at startup with a fixed set; a duplicate
		// ID is a programming error.
		if err := r.Register(p); err != nil {
			panic(err)
		}
	}
	return r
}

// SetLogger replaces the registry's logger. Call before first use.
func (r *Registry) SetLogger(log zerolog.Logger) { r.log = log }

// Register adds a playbook. IDs must be unique.
func (r *Registry) Register(p Playbook) error {
	if _, dup := r.playbooks[p.ID()]; dup {
		return fmt.Errorf("playbook %q already registered", p.ID())
	}
	r.playbooks[p.ID()] = p
	r.order = append(r.order, p.ID())
	return nil
}

// Get returns a playbook by ID.
func (r *Registry) Get(id string) (Playbook, bool) {
	p, ok := r.playbooks[id]
	return p, ok
}

// IDs returns the registered playbook IDs in registration order.
func (r *Registry) IDs() []string {
	return append([]string(nil), r.order...)
}

// DetectApplicable runs detection across all playbooks and returns those at
// or above the threshold, ordered by confidence descending and priority
// ascending for ties. A playbook whose Detect panics is skipped; detection
// is advisory and one faulty scenario must not halt intake.
func (r *Registry) DetectApplicable(s *fnol.State) []fnol.DetectedScenario {
	var detected []fnol.DetectedScenario
	for _, id := range r.order {
		p := r.playbooks[id]
		conf, err := r.safeDetect(p, s)
		if err != nil {
			r.log.Warn().Str("playbook", id).Err(err).Msg("playbook detection skipped")
			continue
		}
		if conf >= r.threshold {
			detected = append(detected, fnol.DetectedScenario{PlaybookID: id, Confidence: conf})
		}
	}
	sort.SliceStable(detected, func(i, j int) bool {
		if detected[i].Confidence != detected[j].Confidence {
			return detected[i].Confidence > detected[j].Confidence
		}
		return r.playbooks[detected[i].PlaybookID].Priority() < r.playbooks[detected[j].PlaybookID].Priority()
	})
	return detected
}

func (r *Registry) safeDetect(p Playbook, s *fnol.State) (conf float64, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("detect panic: %v", rec)
		}
	}()
	return p.Detect(s), nil
}

// QuestionsForState collects questions from the state's active playbooks for
// the given phase, tagged with their playbook ID and sorted by priority
// ascending.
func (r *Registry) QuestionsForState(phase string, s *fnol.State) []Question {
	var questions []Question
	for _, id := range s.ActivePlaybooks {
		p, ok := r.playbooks[id]
		if !ok {
			continue
		}
		for _, q := range p.Questions(phase, s) {
			q.PlaybookID = id
			if q.Priority == 0 {
				q.Priority = 100
			}
			questions = append(questions, q)
		}
	}
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].Priority < questions[j].Priority
	})
	return questions
}

// ValidateAll runs every active playbook's validation and merges the
// results, prefixing each message with the playbook ID.
func (r *Registry) ValidateAll(s *fnol.State) ValidationResult {
	out := ValidationResult{Valid: true}
	for _, id := range s.ActivePlaybooks {
		p, ok := r.playbooks[id]
		if !ok {
			continue
		}
		res := p.Validate(s)
		for _, e := range res.Errors {
			out.Errors = append(out.Errors, fmt.Sprintf("[%s] %s", id, e))
		}
		for _, w := range res.Warnings {
			out.Warnings = append(out.Warnings, fmt.Sprintf("[%s] %s", id, w))
		}
		if !res.Valid {
			out.Valid = false
		}
	}
	return out
}

// AllTriageFlags returns the deduplicated union of triage flags from the
// active playbooks, preserving first-seen order.
func (r *Registry) AllTriageFlags(s *fnol.State) []string {
	seen := map[string]bool{}
	var flags []string
	for _, id := range s.ActivePlaybooks {
		p, ok := r.playbooks[id]
		if !ok {
			continue
		}
		for _, f := range p.TriageFlags(s) {
			if !seen[f] {
				seen[f] = true
				flags = append(flags, f)
			}
		}
	}
	return flags
}

// RequiredEvidence returns the deduplicated evidence requirements from the
// active playbooks. Items are deduplicated by type and description.
func (r *Registry) RequiredEvidence(s *fnol.State) []EvidenceRequirement {
	seen := map[string]bool{}
	var evidence []EvidenceRequirement
	for _, id := range s.ActivePlaybooks {
		p, ok := r.playbooks[id]
		if !ok {
			continue
		}
		for _, e := range p.RequiredEvidence(s) {
			key := e.Type + ":" + e.Description
			if !seen[key] {
				seen[key] = true
				evidence = append(evidence, e)
			}
		}
	}
	return evidence
}

// allPlaybooks lists the full scenario set in registration order.
func allPlaybooks() []Playbook {
	return []Playbook{
		// Collision scenarios
		NewTwoVehicle(),
		NewSingleVehicle(),
		NewMultiVehicle(),
		NewHitAndRun(),
		NewUninsured(),
		NewParkingLot(),
		NewAnimalStrike(),
		// Weather scenarios
		NewHail(),
		NewFlood(),
		NewWindTree(),
		// Theft scenarios
		NewVehicleTheft(),
		NewAttemptedTheft(),
		// Other scenarios
		NewVandalism(),
		NewGlassOnly(),
		NewFire(),
		NewTowing(),
		NewCommercialRideshare(),
		NewRental(),
		NewOutOfState(),
		NewInjury(),
		NewSevereInjury(),
		NewPoliceDUI(),
	}
}
