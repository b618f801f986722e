package triage

import (
	"fmt"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ormasoftchile/fnol/pkg/fnol"
)

// Engine evaluates a compiled rule table against conversation states.
// Compile once with NewEngine; Evaluate is safe for concurrent use.
type Engine struct {
	rules   *RuleSet
	hard    []*vm.Program
	siu     []*vm.Program
	scoring []*vm.Program
	bonus   []*vm.Program
	now     func() time.Time
}

// NewEngine compiles every rule condition in the table. A condition that
// fails to compile is a configuration error and aborts engine construction.
func NewEngine(rules *RuleSet) (*Engine, error) {
	e := &Engine{rules: rules, now: time.Now}

	var err error
	if e.hard, err = compileRules(hardConditions(rules.HardRules), "hard_rules"); err != nil {
		return nil, err
	}
	if e.siu, err = compileRules(siuConditions(rules.SIURules), "siu_rules"); err != nil {
		return nil, err
	}
	if e.scoring, err = compileRules(scoringConditions(rules.ScoringRules), "scoring_rules"); err != nil {
		return nil, err
	}
	if e.bonus, err = compileRules(scoringConditions(rules.BonusRules), "stp_bonus_rules"); err != nil {
		return nil, err
	}
	return e, nil
}

// Rules returns the table the engine was built from.
func (e *Engine) Rules() *RuleSet { return e.rules }

// Evaluate computes the triage decision for a state. playbookFlags is the
// aggregated flag union from the active playbooks; it is exposed to rule
// conditions but does not reach the result unless a rule fires on it.
//
// Hard rules are checked first in declaration order and short-circuit.
// Then the SIU flag count is compared against the threshold. Otherwise the
// scoring and bonus rules accumulate a signed score and the score decides
// between adjuster and stp.
func (e *Engine) Evaluate(s *fnol.State, playbookFlags []string) (*fnol.TriageResult, error) {
	env := BuildFacts(s, playbookFlags, e.now())

	for i, rule := range e.rules.HardRules {
		hit, err := e.run(e.hard[i], rule.When, env)
		if err != nil {
			return nil, err
		}
		if hit {
			return &fnol.TriageResult{
				Route:       rule.Route,
				Score:       HardRuleScore,
				Flags:       []string{rule.ID},
				Reasons:     []string{rule.Reason},
				RuleVersion: e.rules.Version,
			}, nil
		}
	}

	var flags, reasons []string
	siuCount := 0
	for i, rule := range e.rules.SIURules {
		hit, err := e.run(e.siu[i], rule.When, env)
		if err != nil {
			return nil, err
		}
		if hit {
			flags = append(flags, rule.Flag)
			siuCount++
		}
	}
	if siuCount >= e.rules.Thresholds.SIUFlagCount {
		return &fnol.TriageResult{
			Route:       RouteSIUReview,
			Score:       SIUReviewScore,
			Flags:       flags,
			Reasons:     []string{"Multiple SIU indicators detected"},
			RuleVersion: e.rules.Version,
		}, nil
	}

	score := 0
	apply := func(rules []ScoringRule, programs []*vm.Program) error {
		for i, rule := range rules {
			hit, err := e.run(programs[i], rule.When, env)
			if err != nil {
				return err
			}
			if hit {
				score += rule.Points
				flags = append(flags, rule.Flag)
				reasons = append(reasons, fmt.Sprintf("%+d (%s)", rule.Points, rule.Flag))
			}
		}
		return nil
	}
	if err := apply(e.rules.ScoringRules, e.scoring); err != nil {
		return nil, err
	}
	if err := apply(e.rules.BonusRules, e.bonus); err != nil {
		return nil, err
	}

	route := RouteSTP
	if score > e.rules.Thresholds.AdjusterScore {
		route = RouteAdjuster
	}
	return &fnol.TriageResult{
		Route:       route,
		Score:       score,
		Flags:       flags,
		Reasons:     reasons,
		RuleVersion: e.rules.Version,
	}, nil
}

func (e *Engine) run(program *vm.Program, cond string, env map[string]any) (bool, error) {
	result, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("evaluate condition %q: %w", cond, err)
	}
	hit, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("condition %q returned %T, want bool", cond, result)
	}
	return hit, nil
}

func compileRules(conditions []string, section string) ([]*vm.Program, error) {
	programs := make([]*vm.Program, len(conditions))
	for i, cond := range conditions {
		program, err := expr.Compile(cond, expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile %s[%d] condition %q: %w", section, i, cond, err)
		}
		programs[i] = program
	}
	return programs, nil
}

func hardConditions(rules []HardRule) []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.When
	}
	return out
}

func siuConditions(rules []SIURule) []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.When
	}
	return out
}

func scoringConditions(rules []ScoringRule) []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.When
	}
	return out
}

// Summary renders a short user-facing explanation of a triage decision.
func Summary(res *fnol.TriageResult) string {
	descriptions := map[string]string{
		RouteSTP:       "This claim qualifies for expedited processing.",
		RouteAdjuster:  "This claim will be reviewed by an adjuster.",
		RouteSIUReview: "This claim requires additional review.",
		RouteEmergency: "This claim requires immediate attention.",
	}

	summary, ok := descriptions[res.Route]
	if !ok {
		summary = "Claim routing determined."
	}
	if len(res.Flags) > 0 {
		shown := res.Flags
		if len(shown) > 3 {
			shown = shown[:3]
		}
		readable := make([]string, len(shown))
		for i, f := range shown {
			readable[i] = strings.ReplaceAll(f, "_", " ")
		}
		summary += " Factors considered: " + strings.Join(readable, ", ") + "."
	}
	return summary
}
