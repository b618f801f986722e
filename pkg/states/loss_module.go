package states

import (
	"fmt"
	"strings"
	"time"

	"github.com/ormasoftchile/fnol/pkg/fnol"
)

var lossTypeLabels = map[string]string{
	"collision": "vehicle collision",
	"weather":   "weather-related loss",
	"theft":     "theft",
	"vandalism": "vandalism incident",
	"fire":      "vehicle fire",
	"glass":     "glass damage",
	"other":     "loss",
}

func formatLossType(lossType string) string {
	if label, ok := lossTypeLabels[lossType]; ok {
		return label
	}
	return "loss"
}

func formatIncidentDate(iso string) string {
	d, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return d.Format("January 2, 2006")
}

// LossModule runs scenario detection over the collected facts, activates
// the matching playbooks, confirms the incident summary with the caller and
// asks the scenario-specific incident questions.
func (n *Nodes) LossModule(s *fnol.State) error {
	lower := strings.ToLower(strings.TrimSpace(s.CurrentInput))

	switch s.StateStep {
	case "initial":
		detected := n.deps.Registry.DetectApplicable(s)
		s.DetectedScenarios = detected
		ids := make([]string, len(detected))
		for i, d := range detected {
			ids[i] = d.PlaybookID
		}
		s.ActivePlaybooks = ids
		if s.Incident.LossSubtype == "" && len(ids) > 0 {
			s.Incident.LossSubtype = ids[0]
		}
		s.PlaybookQuestions = collectPlaybookQuestions(n, s)
		s.AppendAudit(fnol.AuditEvent{Action: "scenarios_detected", DataAfter: ids})
		n.deps.Log.Info().Str("thread_id", s.ThreadID).Strs("playbooks", ids).Msg("scenarios detected")

		summary := fmt.Sprintf("I understand you're reporting a **%s** that occurred on **%s** at **%s**.",
			formatLossType(s.Incident.LossType), formatIncidentDate(s.Incident.Date), s.Incident.LocationRaw)
		if names := scenarioNames(n, ids, 2); len(names) > 0 {
			summary += "\n\nThis looks like: " + strings.Join(names, ", ") + "."
		}
		s.StateStep = "confirm"
		respond(s, summary+"\n\nIs this correct?", prompt{
			question:  "confirm_incident",
			field:     "incident_confirmed",
			inputType: "yesno",
			options:   yesNoOptions(),
		})

	case "confirm":
		val, ok := parseYesNo(lower)
		if !ok {
			respond(s, "Is that summary correct?", prompt{
				question:  "confirm_incident",
				field:     "incident_confirmed",
				inputType: "yesno",
				options:   yesNoOptions(),
				errors:    []string{"Please answer yes or no."},
			})
			return nil
		}
		if !val {
			s.AppendAudit(fnol.AuditEvent{Action: "incident_details_rejected", Actor: "user", UserInput: s.CurrentInput})
			transition(s, fnol.StateIncidentCore, "initial")
			return nil
		}
		s.AppendAudit(fnol.AuditEvent{Action: "incident_confirmed", Actor: "user"})
		n.finishWithPlaybookQuestions(s, fnol.StateIncidentCore, fnol.StateVehicleDriver)

	case "playbook_questions":
		if n.askPlaybookQuestions(s, fnol.StateIncidentCore) {
			return nil
		}
		transition(s, fnol.StateVehicleDriver, "initial")

	default:
		transition(s, fnol.StateVehicleDriver, "initial")
	}
	return nil
}

func scenarioNames(n *Nodes, ids []string, limit int) []string {
	var names []string
	for _, id := range ids {
		if p, ok := n.deps.Registry.Get(id); ok {
			names = append(names, p.Name())
			if len(names) == limit {
				break
			}
		}
	}
	return names
}

// collectPlaybookQuestions snapshots the questions the active playbooks
// will inject into the later phases, for front-ends that preview them.
func collectPlaybookQuestions(n *Nodes, s *fnol.State) []map[string]any {
	var out []map[string]any
	for _, phase := range fnol.StateOrder {
		for _, q := range n.deps.Registry.QuestionsForState(phase, s) {
			out = append(out, map[string]any{
				"question_id": q.QuestionID,
				"playbook_id": q.PlaybookID,
				"state":       q.State,
				"text":        q.Text,
				"input_type":  q.InputType,
				"field":       q.Field,
				"required":    q.Required,
			})
		}
	}
	return out
}
