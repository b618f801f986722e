package states

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/ormasoftchile/fnol/pkg/fnol"
	"github.com/ormasoftchile/fnol/pkg/playbook"
)

var (
	yesPattern = regexp.MustCompile(`\b(yes|yeah|yep|yup|sure|correct|right|ok|okay|affirmative|definitely|absolutely)\b`)
	noPattern  = regexp.MustCompile(`\b(no|nope|nah|negative|incorrect|wrong|not)\b`)
)

// parseYesNo interprets a free-text answer to a yes/no question. The second
// return value is false when the answer is neither.
func parseYesNo(text string) (bool, bool) {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return false, false
	}
	no := noPattern.MatchString(t)
	yes := yesPattern.MatchString(t)
	switch {
	case no:
		// "no, that's not right" outranks an embedded "right".
		return false, true
	case yes:
		return true, true
	}
	return false, false
}

var (
	emergencyInjuryKeywords = []string{"unconscious", "not breathing", "bleeding badly", "severe", "serious", "critical", "ambulance", "hospital"}
	injuryKeywords          = []string{"hurt", "injur", "pain", "bleeding", "bruise", "sore", "whiplash", "broken"}
	unsureKeywords          = []string{"not sure", "unsure", "maybe", "i think", "possibly", "don't know"}
)

// parseInjuryResponse interprets an answer about injuries. Unsure answers
// count as injured with unknown severity so routing stays conservative.
func parseInjuryResponse(text string) (injured bool, severity string, ok bool) {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return false, "", false
	}
	for _, kw := range emergencyInjuryKeywords {
		if strings.Contains(t, kw) {
			return true, "severe", true
		}
	}
	if noPattern.MatchString(t) || containsAny(t, "nobody", "everyone is fine", "we're fine", "all good") {
		return false, "", true
	}
	for _, kw := range injuryKeywords {
		if strings.Contains(t, kw) {
			return true, "unknown", true
		}
	}
	if val, yn := parseYesNo(t); yn && val {
		return true, "unknown", true
	}
	for _, kw := range unsureKeywords {
		if strings.Contains(t, kw) {
			return true, "unknown", true
		}
	}
	return false, "", false
}

// transition moves the conversation to the next phase: the current phase is
// recorded as completed, the scratch data is cleared and the move is
// audited. When the scratch carries a return_to_state marker (set by the
// claim-summary edit flow) the move is redirected back there instead, so an
// edited section returns to the summary rather than replaying the phases in
// between. Escalations always win over the redirect.
func transition(s *fnol.State, next, step string) {
	if rt, ok := s.StateData["return_to_state"].(string); ok && rt != "" && next != fnol.StateHandoffEscalation {
		next, step = rt, "initial"
	}
	if !slices.Contains(s.CompletedStates, s.CurrentState) {
		s.CompletedStates = append(s.CompletedStates, s.CurrentState)
	}
	s.PreviousState = s.CurrentState
	s.CurrentState = next
	s.StateStep = step
	s.StateData = map[string]any{}
	s.AppendAudit(fnol.AuditEvent{Action: "transition_to_" + next})
}

// prompt describes the question attached to a response.
type prompt struct {
	question  string
	field     string
	inputType string
	options   []fnol.UIOption
	allowSkip bool
	errors    []string
}

// respond sets the assistant message and the pending question, and marks the
// state as waiting for user input. Summary and progress hints follow the
// phase: the early safety and identity phases hide the claim summary.
func respond(s *fnol.State, message string, p prompt) {
	s.AIResponse = message
	s.PendingQuestion = p.question
	s.PendingQuestionField = p.field
	s.NeedsUserInput = true
	s.ValidationErrors = p.errors
	inputType := p.inputType
	if inputType == "" {
		inputType = playbook.InputText
	}
	s.UIHints = fnol.UIHints{
		InputType:    inputType,
		Options:      p.options,
		ShowProgress: true,
		ShowSummary:  s.CurrentState != fnol.StateSafetyCheck && s.CurrentState != fnol.StateIdentityMatch,
		AllowSkip:    p.allowSkip,
	}
}

func yesNoOptions() []fnol.UIOption {
	return []fnol.UIOption{
		{Value: "yes", Label: "Yes"},
		{Value: "no", Label: "No"},
	}
}

func newID() string { return uuid.NewString() }

// shortRef renders the claim draft ID as a caller-friendly reference.
func shortRef(s *fnol.State) string {
	id := strings.ReplaceAll(s.ClaimDraftID, "-", "")
	if len(id) > 8 {
		id = id[:8]
	}
	return strings.ToUpper(id)
}

// formatVehicle renders a vehicle as "2022 Honda Accord (Blue)".
func formatVehicle(v fnol.VehicleData) string {
	var parts []string
	if v.Year != 0 {
		parts = append(parts, strconv.Itoa(v.Year))
	}
	if v.Make != "" {
		parts = append(parts, v.Make)
	}
	if v.Model != "" {
		parts = append(parts, v.Model)
	}
	desc := strings.Join(parts, " ")
	if desc == "" {
		desc = "vehicle"
	}
	if v.Color != "" {
		desc += " (" + v.Color + ")"
	}
	return desc
}

// formatParty renders a person as their name, falling back to a readable
// role for unknown parties.
func formatParty(p fnol.PartyData) string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name != "" {
		return name
	}
	if p.IsUnknown {
		return "Unknown " + strings.ReplaceAll(p.Role, "_", " ")
	}
	return strings.ReplaceAll(p.Role, "_", " ")
}

// titleWords upper-cases the first letter of each word.
func titleWords(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// splitName divides a full name into first and last parts.
func splitName(name string) (first, last string) {
	fields := strings.Fields(strings.TrimSpace(name))
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}

// insuredVehicle returns the insured vehicle record, or nil.
func insuredVehicle(s *fnol.State) *fnol.VehicleData {
	for i := range s.Vehicles {
		if s.Vehicles[i].Role == "insured" {
			return &s.Vehicles[i]
		}
	}
	return nil
}

// lastPartyOfRole returns the most recently added party with the role.
func lastPartyOfRole(s *fnol.State, role string) *fnol.PartyData {
	for i := len(s.Parties) - 1; i >= 0; i-- {
		if s.Parties[i].Role == role {
			return &s.Parties[i]
		}
	}
	return nil
}

// stateInt reads an int out of the phase scratch data. JSON snapshots
// round-trip numbers as float64, so both shapes are accepted.
func stateInt(s *fnol.State, key string) int {
	switch v := s.StateData[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

func containsAny(text string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// askPlaybookQuestions drives the scenario question sub-flow for a phase.
// It first records the answer to the question asked on the previous turn,
// then asks the next unanswered question. It returns true while a question
// is pending and false once every applicable question is answered.
func (n *Nodes) askPlaybookQuestions(s *fnol.State, phase string) bool {
	if n.deps.Registry == nil {
		return false
	}
	if field, _ := s.StateData["playbook_field"].(string); field != "" {
		n.recordPlaybookAnswer(s, field)
		delete(s.StateData, "playbook_field")
		delete(s.StateData, "playbook_input_type")
	}
	for _, q := range n.deps.Registry.QuestionsForState(phase, s) {
		if q.Field == "" {
			continue
		}
		if s.PlaybookData != nil {
			if _, answered := s.PlaybookData[q.Field]; answered {
				continue
			}
		}
		s.StateData["playbook_field"] = q.Field
		s.StateData["playbook_input_type"] = q.InputType
		text := q.Text
		if q.HelpText != "" {
			text += "\n\n" + q.HelpText
		}
		respond(s, text, prompt{
			question:  q.QuestionID,
			field:     q.Field,
			inputType: q.InputType,
			options:   q.Options,
			allowSkip: !q.Required,
		})
		return true
	}
	return false
}

// recordPlaybookAnswer stores the pending scenario answer and mirrors the
// handful of fields that feed typed state used by detection and triage.
func (n *Nodes) recordPlaybookAnswer(s *fnol.State, field string) {
	answer := strings.TrimSpace(s.CurrentInput)
	if answer == "" {
		return
	}
	inputType, _ := s.StateData["playbook_input_type"].(string)
	stored := answer
	if inputType == playbook.InputYesNo {
		if val, ok := parseYesNo(answer); ok {
			stored = "no"
			if val {
				stored = "yes"
			}
		}
	}
	if s.PlaybookData == nil {
		s.PlaybookData = map[string]any{}
	}
	s.PlaybookData[field] = stored
	s.AppendAudit(fnol.AuditEvent{
		Action:       "playbook_answer_recorded",
		Actor:        "user",
		FieldChanged: field,
		UserInput:    answer,
	})

	lower := strings.ToLower(stored)
	switch field {
	case "police_info.report_filed":
		s.Police.ReportFiled = stored == "yes"
		s.Police.Contacted = s.Police.Contacted || s.Police.ReportFiled
	case "police_info.report_status":
		filed := lower == "yes" || lower == "filed"
		s.Police.ReportFiled = s.Police.ReportFiled || filed
		s.Police.Contacted = s.Police.Contacted || filed || lower == "pending"
	case "police_info.charges":
		if containsAny(lower, "dui", "dwi", "drunk", "intoxicat") {
			s.Police.DUISuspected = true
		}
	case "vehicle.rental_company":
		if v := insuredVehicle(s); v != nil {
			v.IsRental = true
			v.RentalCompany = titleWords(stored)
		}
	case "injuries.hospital_name":
		for i := range s.Injuries {
			if s.Injuries[i].Hospitalized && s.Injuries[i].HospitalName == "" {
				s.Injuries[i].HospitalName = titleWords(stored)
			}
		}
	}
}

// finishWithPlaybookQuestions closes out a phase: any remaining scenario
// questions for the phase are asked first, then the conversation moves on.
func (n *Nodes) finishWithPlaybookQuestions(s *fnol.State, phase, next string) {
	s.StateStep = "playbook_questions"
	if n.askPlaybookQuestions(s, phase) {
		return
	}
	transition(s, next, "initial")
}
