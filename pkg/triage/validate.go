package triage

import (
	"encoding/json"
	"fmt"

	"github.com/expr-lang/expr"
	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// ValidationError represents a single validation error with location context.
type ValidationError struct {
	Phase    string `json:"phase"` // structural, semantic, domain
	Path     string `json:"path"`  // JSON-path-like location (e.g., "scoring_rules[3].when")
	Message  string `json:"message"`
	Severity string `json:"severity"` // error, warning
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Phase, e.Path, e.Message)
}

// ValidateFile performs the full 3-phase validation pipeline on a rule
// table file.
// Phase 1: Structural (strict YAML decode)
// Phase 2: Semantic (JSON Schema validation)
// Phase 3: Domain (custom Go rules)
func ValidateFile(path string) (*RuleSet, []*ValidationError) {
	var allErrors []*ValidationError

	// Phase 1: Structural — strict YAML decode
	rs, err := LoadFile(path)
	if err != nil {
		allErrors = append(allErrors, &ValidationError{
			Phase:    "structural",
			Path:     "",
			Message:  err.Error(),
			Severity: "error",
		})
		return nil, allErrors
	}

	// Phase 2: Semantic — JSON Schema validation
	allErrors = append(allErrors, validateSemantic(rs)...)

	// Phase 3: Domain — custom Go rules
	allErrors = append(allErrors, ValidateDomain(rs)...)

	if len(allErrors) > 0 {
		return rs, allErrors
	}
	return rs, nil
}

// validateSemantic validates the rule table against the JSON Schema.
func validateSemantic(rs *RuleSet) []*ValidationError {
	semanticErr := func(msg string) []*ValidationError {
		return []*ValidationError{{
			Phase:    "semantic",
			Path:     "",
			Message:  msg,
			Severity: "error",
		}}
	}

	data, err := json.Marshal(rs)
	if err != nil {
		return semanticErr(fmt.Sprintf("marshal for schema validation: %v", err))
	}

	schemaJSON, err := GenerateJSONSchema()
	if err != nil {
		return semanticErr(fmt.Sprintf("generate schema: %v", err))
	}

	var schemaDoc interface{}
	if err := json.Unmarshal(schemaJSON, &schemaDoc); err != nil {
		return semanticErr(fmt.Sprintf("unmarshal schema: %v", err))
	}

	c := sjsonschema.NewCompiler()
	if err := c.AddResource("triage-rules-v1.json", schemaDoc); err != nil {
		return semanticErr(fmt.Sprintf("add schema resource: %v", err))
	}
	sch, err := c.Compile("triage-rules-v1.json")
	if err != nil {
		return semanticErr(fmt.Sprintf("compile schema: %v", err))
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return semanticErr(fmt.Sprintf("unmarshal rules: %v", err))
	}
	if err := sch.Validate(doc); err != nil {
		return semanticErr(err.Error())
	}
	return nil
}

// ValidateDomain applies the Go-level rules the schema cannot express:
// version presence, unique rule identifiers, compilable conditions and
// sane thresholds.
func ValidateDomain(rs *RuleSet) []*ValidationError {
	var errs []*ValidationError
	domainErr := func(path, msg string) {
		errs = append(errs, &ValidationError{
			Phase:    "domain",
			Path:     path,
			Message:  msg,
			Severity: "error",
		})
	}

	if rs.Version == "" {
		domainErr("version", "rule table version is required")
	}

	seen := map[string]string{}
	unique := func(path, id string) {
		if id == "" {
			domainErr(path, "identifier must not be empty")
			return
		}
		if prev, dup := seen[id]; dup {
			domainErr(path, fmt.Sprintf("identifier %q already used at %s", id, prev))
			return
		}
		seen[id] = path
	}
	compilable := func(path, cond string) {
		if _, err := expr.Compile(cond, expr.AsBool()); err != nil {
			domainErr(path, fmt.Sprintf("condition does not compile: %v", err))
		}
	}

	for i, r := range rs.HardRules {
		unique(fmt.Sprintf("hard_rules[%d].id", i), r.ID)
		compilable(fmt.Sprintf("hard_rules[%d].when", i), r.When)
		switch r.Route {
		case RouteEmergency, RouteAdjuster, RouteSIUReview:
		default:
			domainErr(fmt.Sprintf("hard_rules[%d].route", i),
				fmt.Sprintf("invalid hard-rule route %q", r.Route))
		}
	}
	for i, r := range rs.SIURules {
		unique(fmt.Sprintf("siu_rules[%d].flag", i), r.Flag)
		compilable(fmt.Sprintf("siu_rules[%d].when", i), r.When)
	}
	for i, r := range rs.ScoringRules {
		unique(fmt.Sprintf("scoring_rules[%d].id", i), r.ID)
		compilable(fmt.Sprintf("scoring_rules[%d].when", i), r.When)
		if r.Points <= 0 {
			domainErr(fmt.Sprintf("scoring_rules[%d].points", i),
				"scoring rule points must be positive")
		}
	}
	for i, r := range rs.BonusRules {
		unique(fmt.Sprintf("stp_bonus_rules[%d].id", i), r.ID)
		compilable(fmt.Sprintf("stp_bonus_rules[%d].when", i), r.When)
		if r.Points >= 0 {
			domainErr(fmt.Sprintf("stp_bonus_rules[%d].points", i),
				"bonus rule points must be negative")
		}
	}

	if rs.Thresholds.AdjusterScore <= 0 {
		domainErr("thresholds.adjuster_score", "adjuster score threshold must be positive")
	}
	if rs.Thresholds.SIUFlagCount < 1 {
		domainErr("thresholds.siu_flag_count", "SIU flag count threshold must be at least 1")
	}

	return errs
}
