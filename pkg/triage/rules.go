// Package triage implements the deterministic routing engine: a versioned,
// declarative rule table evaluated against the collected claim snapshot to
// pick one of four routes (stp, adjuster, siu_review, emergency).
package triage

// Routes a triage decision can produce.
const (
	RouteSTP       = "stp"
	RouteAdjuster  = "adjuster"
	RouteSIUReview = "siu_review"
	RouteEmergency = "emergency"
)

// Sentinel scores recorded when a short-circuit path decides the route.
const (
	HardRuleScore  = 1000
	SIUReviewScore = 500
)

// RuleSet is the versioned triage rule table. Rule conditions are
// expr-lang expressions evaluated against the fact environment built from
// the conversation state (see BuildFacts).
type RuleSet struct {
	Version      string        `yaml:"version" json:"version" jsonschema:"required"`
	HardRules    []HardRule    `yaml:"hard_rules" json:"hard_rules" jsonschema:"required"`
	SIURules     []SIURule     `yaml:"siu_rules" json:"siu_rules" jsonschema:"required"`
	ScoringRules []ScoringRule `yaml:"scoring_rules" json:"scoring_rules" jsonschema:"required"`
	BonusRules   []ScoringRule `yaml:"stp_bonus_rules" json:"stp_bonus_rules" jsonschema:"required"`
	Thresholds   Thresholds    `yaml:"thresholds" json:"thresholds" jsonschema:"required"`
}

// HardRule routes immediately when its condition holds. Hard rules are
// evaluated in declaration order and the first match wins.
type HardRule struct {
	ID     string `yaml:"id" json:"id" jsonschema:"required"`
	When   string `yaml:"when" json:"when" jsonschema:"required"`
	Route  string `yaml:"route" json:"route" jsonschema:"required,enum=emergency,enum=adjuster,enum=siu_review"`
	Reason string `yaml:"reason" json:"reason" jsonschema:"required"`
}

// SIURule contributes one fraud-indicator flag when its condition holds.
// The rules are independent; firing count is compared against
// Thresholds.SIUFlagCount.
type SIURule struct {
	Flag string `yaml:"flag" json:"flag" jsonschema:"required"`
	When string `yaml:"when" json:"when" jsonschema:"required"`
}

// ScoringRule adds its (signed) points to the claim score when its
// condition holds. Straight-through bonus rules use negative points.
type ScoringRule struct {
	ID     string `yaml:"id" json:"id" jsonschema:"required"`
	Flag   string `yaml:"flag" json:"flag" jsonschema:"required"`
	Points int    `yaml:"points" json:"points" jsonschema:"required"`
	When   string `yaml:"when" json:"when" jsonschema:"required"`
}

// Thresholds holds the route decision boundaries.
type Thresholds struct {
	// AdjusterScore is the inclusive STP ceiling: a total score above this
	// value routes to an adjuster, a score at or below it routes STP.
	AdjusterScore int `yaml:"adjuster_score" json:"adjuster_score" jsonschema:"required"`
	// SIUFlagCount is the number of fired SIU flags that forces the
	// siu_review route.
	SIUFlagCount int `yaml:"siu_flag_count" json:"siu_flag_count" jsonschema:"required"`
}
