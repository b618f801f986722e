// Package playbook implements the scenario playbook system: pluggable
// modules that recognize a loss scenario from the conversation state and
// contribute questions, validation, triage flags and evidence requirements
// to the intake flow.
package playbook

import (
	"strings"

	"github.com/ormasoftchile/fnol/pkg/fnol"
)

// Question input types.
const (
	InputText        = "text"
	InputSelect      = "select"
	InputMultiSelect = "multiselect"
	InputYesNo       = "yesno"
	InputDate        = "date"
	InputNumber      = "number"
)

// Question is one scenario-specific question a playbook injects into a phase.
type Question struct {
	QuestionID string          `json:"question_id"`
	PlaybookID string          `json:"playbook_id,omitempty"`
	State      string          `json:"state"`
	Priority   int             `json:"priority"`
	Text       string          `json:"question_text"`
	HelpText   string          `json:"help_text,omitempty"`
	InputType  string          `json:"input_type"`
	Options    []fnol.UIOption `json:"options,omitempty"`
	Field      string          `json:"field,omitempty"`
	Required   bool            `json:"required"`
}

// ValidationResult carries scenario validation output. Errors block claim
// creation; warnings are advisory.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// EvidenceRequirement names one document or photo a scenario needs.
type EvidenceRequirement struct {
	Type        string `json:"evidence_type"`
	Description string `json:"description"`
}

// Playbook is the capability set every scenario module implements.
// Detect returns a confidence in [0, 1]; the registry activates playbooks
// above its threshold. Lower Priority values are handled first when
// confidences tie.
type Playbook interface {
	ID() string
	Name() string
	Category() string
	Priority() int
	Detect(s *fnol.State) float64
	Questions(phase string, s *fnol.State) []Question
	Validate(s *fnol.State) ValidationResult
	TriageFlags(s *fnol.State) []string
	RequiredEvidence(s *fnol.State) []EvidenceRequirement
}

// base provides the shared identity fields and default behaviors for the
// concrete playbooks. Detection scoring: each matched condition adds 0.4,
// keyword hits in the description and current input add 0.2 each capped at
// 0.6, clamped to [0, 1]. Most playbooks override Detect with scenario
// specific scoring.
type base struct {
	id          string
	name        string
	description string
	category    string
	priority    int
	keywords    []string
	conditions  map[string]string
	flags       []string
}

func (b base) ID() string       { return b.id }
func (b base) Name() string     { return b.name }
func (b base) Category() string { return b.category }
func (b base) Priority() int    { return b.priority }

func (b base) Detect(s *fnol.State) float64 {
	score := 0.0
	for path, want := range b.conditions {
		if lookupPath(s, path) == want {
			score += 0.4
		}
	}
	score += min(0.6, float64(b.keywordHits(s))*0.2)
	return clamp(score)
}

func (b base) Questions(phase string, s *fnol.State) []Question { return nil }

func (b base) Validate(s *fnol.State) ValidationResult {
	return ValidationResult{Valid: true}
}

func (b base) TriageFlags(s *fnol.State) []string {
	return append([]string(nil), b.flags...)
}

func (b base) RequiredEvidence(s *fnol.State) []EvidenceRequirement { return nil }

// keywordHits counts keyword matches over the incident description and the
// current user input.
func (b base) keywordHits(s *fnol.State) int {
	text := searchText(s)
	hits := 0
	for _, kw := range b.keywords {
		if strings.Contains(text, kw) {
			hits++
		}
	}
	return hits
}

// matchesKeyword reports whether any configured keyword appears in the
// description or current input.
func (b base) matchesKeyword(s *fnol.State) bool {
	text := searchText(s)
	for _, kw := range b.keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func searchText(s *fnol.State) string {
	return strings.ToLower(s.Incident.Description + " " + s.CurrentInput)
}

// lookupPath resolves the dotted condition paths used by the playbooks.
func lookupPath(s *fnol.State, path string) string {
	switch path {
	case "incident.loss_type":
		return s.Incident.LossType
	case "incident.loss_subtype":
		return s.Incident.LossSubtype
	case "policy_match.status":
		return s.PolicyMatch.Status
	}
	return ""
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// answer returns a string answer previously collected for a playbook
// question field, e.g. "incident.parking_situation".
func answer(s *fnol.State, field string) string {
	if s.PlaybookData == nil {
		return ""
	}
	v, _ := s.PlaybookData[field].(string)
	return v
}

// answerBool returns a yes/no answer previously collected for a playbook
// question field.
func answerBool(s *fnol.State, field string) bool {
	if s.PlaybookData == nil {
		return false
	}
	switch v := s.PlaybookData[field].(type) {
	case bool:
		return v
	case string:
		return v == "yes" || v == "true"
	}
	return false
}

// answerContains reports whether a multiselect answer includes the value.
func answerContains(s *fnol.State, field, value string) bool {
	if s.PlaybookData == nil {
		return false
	}
	switch v := s.PlaybookData[field].(type) {
	case []string:
		for _, item := range v {
			if item == value {
				return true
			}
		}
	case []any:
		for _, item := range v {
			if str, ok := item.(string); ok && str == value {
				return true
			}
		}
	case string:
		for _, item := range strings.Split(v, ",") {
			if strings.TrimSpace(item) == value {
				return true
			}
		}
	}
	return false
}

// totalDamageEstimate sums the estimated amounts across reported damages.
func totalDamageEstimate(s *fnol.State) float64 {
	total := 0.0
	for _, d := range s.Damages {
		total += d.EstimatedAmount
	}
	return total
}

// countInjuries returns the number of injuries with a reported severity.
func countInjuries(s *fnol.State) int {
	n := 0
	for _, inj := range s.Injuries {
		if inj.Severity != "" && inj.Severity != "none" {
			n++
		}
	}
	return n
}

func yesNoOptions() []fnol.UIOption {
	return []fnol.UIOption{
		{Value: "yes", Label: "Yes"},
		{Value: "no", Label: "No"},
	}
}
