package triage

import (
	"strconv"
	"strings"
	"time"

	"github.com/ormasoftchile/fnol/pkg/fnol"
)

// softTissueKeywords mark injury descriptions that, when they account for
// every described injury, contribute a staged-accident indicator.
var softTissueKeywords = []string{"neck", "back", "whiplash", "soreness", "strain"}

// BuildFacts derives the flat fact environment the rule conditions are
// evaluated against. playbookFlags is the aggregated flag union from the
// active playbooks; now anchors the policy-age calculation.
func BuildFacts(s *fnol.State, playbookFlags []string, now time.Time) map[string]any {
	return map[string]any{
		"fatal_injury":            anyInjury(s, func(i fnol.InjuryData) bool { return i.Severity == "fatal" }),
		"hospitalized":            anyInjury(s, func(i fnol.InjuryData) bool { return i.TreatmentLevel == "admitted" }),
		"severe_injury":           anyInjury(s, func(i fnol.InjuryData) bool { return i.Severity == "severe" }),
		"any_injury":              injuryCount(s) > 0,
		"dui_suspected":           s.Police.DUISuspected,
		"policy_age_days":         policyAgeDays(s, now),
		"prior_claims":            false, // claims-history lookup not wired yet
		"narrative_inconsistent":  len(narrativeFlags(s)) > 0,
		"staged_indicators":       stagedIndicators(s),
		"vehicle_count":           len(s.Vehicles),
		"any_not_drivable":        anyVehicle(s, func(v fnol.VehicleData) bool { return v.Drivable == "no" }),
		"all_drivable":            allVehicles(s, func(v fnol.VehicleData) bool { return v.Drivable == "yes" }),
		"active_playbooks":        append([]string(nil), s.ActivePlaybooks...),
		"playbook_flags":          append([]string(nil), playbookFlags...),
		"cross_border":            s.Incident.CrossBorder,
		"policy_status":           s.PolicyMatch.Status,
		"loss_type":               s.Incident.LossType,
		"max_damage":              maxDamage(s),
		"total_loss":              anyDamage(s, func(d fnol.DamageData) bool { return d.DamageArea == "total" }),
		"police_report_filed":     s.Police.ReportFiled,
		"photo_evidence":          anyEvidence(s, func(e fnol.EvidenceData) bool { return e.EvidenceType == "photo" }),
	}
}

func anyInjury(s *fnol.State, pred func(fnol.InjuryData) bool) bool {
	for _, i := range s.Injuries {
		if pred(i) {
			return true
		}
	}
	return false
}

func injuryCount(s *fnol.State) int {
	n := 0
	for _, i := range s.Injuries {
		if i.Severity != "" && i.Severity != "none" {
			n++
		}
	}
	return n
}

func anyVehicle(s *fnol.State, pred func(fnol.VehicleData) bool) bool {
	for _, v := range s.Vehicles {
		if pred(v) {
			return true
		}
	}
	return false
}

func allVehicles(s *fnol.State, pred func(fnol.VehicleData) bool) bool {
	for _, v := range s.Vehicles {
		if !pred(v) {
			return false
		}
	}
	return true
}

func anyDamage(s *fnol.State, pred func(fnol.DamageData) bool) bool {
	for _, d := range s.Damages {
		if pred(d) {
			return true
		}
	}
	return false
}

func anyEvidence(s *fnol.State, pred func(fnol.EvidenceData) bool) bool {
	for _, e := range s.Evidence {
		if pred(e) {
			return true
		}
	}
	return false
}

func maxDamage(s *fnol.State) float64 {
	max := 0.0
	for _, d := range s.Damages {
		if d.EstimatedAmount > max {
			max = d.EstimatedAmount
		}
	}
	return max
}

// policyAgeDays returns whole days since the policy effective date, or -1
// when the effective date is unknown.
func policyAgeDays(s *fnol.State, now time.Time) int {
	eff := s.PolicyMatch.EffectiveDate
	if eff == nil {
		return -1
	}
	return int(now.Sub(*eff).Hours() / 24)
}

func narrativeFlags(s *fnol.State) []any {
	if s.StateData == nil {
		return nil
	}
	flags, _ := s.StateData["narrative_flags"].([]any)
	return flags
}

// stagedIndicators counts staged-accident heuristics: a 1am-5am incident
// time, three or more reported injuries, and a soft-tissue-only injury
// pattern across at least two described injuries.
func stagedIndicators(s *fnol.State) int {
	indicators := 0

	if h, ok := incidentHour(s.Incident.Time); ok && h >= 1 && h <= 5 {
		indicators++
	}

	if injuryCount(s) >= 3 {
		indicators++
	}

	described := 0
	softOnly := true
	for _, i := range s.Injuries {
		desc := strings.ToLower(i.Description)
		if desc == "" {
			continue
		}
		described++
		matched := false
		for _, kw := range softTissueKeywords {
			if strings.Contains(desc, kw) {
				matched = true
				break
			}
		}
		if !matched {
			softOnly = false
		}
	}
	if described >= 2 && softOnly {
		indicators++
	}

	return indicators
}

func incidentHour(t string) (int, bool) {
	part, _, _ := strings.Cut(t, ":")
	h, err := strconv.Atoi(part)
	if err != nil {
		return 0, false
	}
	return h, true
}
