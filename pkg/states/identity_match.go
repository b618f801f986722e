package states

import (
	"fmt"
	"strings"

	"github.com/ormasoftchile/fnol/pkg/fnol"
)

func idMethodOptions() []fnol.UIOption {
	return []fnol.UIOption{
		{Value: "policy_number", Label: "I have my policy number"},
		{Value: "personal_info", Label: "Look me up by my details"},
		{Value: "no_policy", Label: "I don't have it / not sure"},
	}
}

func wrongPolicyOptions() []fnol.UIOption {
	return []fnol.UIOption{
		{Value: "try_again", Label: "Re-enter my policy number"},
		{Value: "personal_info", Label: "Look me up by my details"},
		{Value: "guest", Label: "Continue as a guest"},
	}
}

// IdentityMatch resolves the caller to a policy, by policy number or
// personal details, falling back to guest mode. A session opened with a
// known policy ID verifies silently and moves straight on.
func (n *Nodes) IdentityMatch(s *fnol.State) error {
	input := strings.TrimSpace(s.CurrentInput)
	lower := strings.ToLower(input)

	switch s.StateStep {
	case "initial":
		if s.PolicyMatch.PolicyID != "" && n.deps.Policies != nil {
			if rec, ok := n.deps.Policies.LookupByID(s.PolicyMatch.PolicyID); ok {
				applyPolicyRecord(s, rec, "policy_id", 1.0)
				s.AppendAudit(fnol.AuditEvent{Action: "policy_matched", FieldChanged: "policy_match", Confidence: 1.0})
				transition(s, fnol.StateIncidentCore, "initial")
				return nil
			}
		}
		s.StateStep = "awaiting_id_method"
		respond(s, "Now let's find your policy. Do you have your policy number handy, or would you like me to look you up by your personal details?", prompt{
			question:  "id_method",
			field:     "id_method",
			inputType: "select",
			options:   idMethodOptions(),
		})

	case "awaiting_id_method":
		switch {
		case lower == "policy_number" || containsAny(lower, "policy number", "have it", "have my"):
			n.askPolicyNumber(s, nil)
		case lower == "personal_info" || containsAny(lower, "personal", "detail", "look me", "lookup", "look up"):
			n.askPhone(s)
		case lower == "no_policy" || containsAny(lower, "don't have", "dont have", "not sure", "no policy"):
			s.StateStep = "no_policy_found"
			respond(s, "That's okay. I can take your claim details as a guest, and our team will match the policy afterwards. Shall we continue?", prompt{
				question:  "guest_offer",
				field:     "guest_mode",
				inputType: "yesno",
				options:   yesNoOptions(),
			})
		default:
			respond(s, "Do you have your policy number, or should I look you up by your details?", prompt{
				question:  "id_method",
				field:     "id_method",
				inputType: "select",
				options:   idMethodOptions(),
				errors:    []string{"Please pick one of the options."},
			})
		}

	case "awaiting_policy_number":
		number := extractPolicyNumber(input)
		if number == "" {
			n.askPolicyNumber(s, []string{"I couldn't find a policy number in that. It usually looks like AUTO-12345678."})
			return nil
		}
		rec, ok := n.deps.Policies.LookupByNumber(number)
		if !ok {
			s.StateStep = "wrong_policy"
			respond(s, fmt.Sprintf("I couldn't find a policy matching **%s**. Would you like to try the number again, look up by your details, or continue as a guest?", number), prompt{
				question:  "policy_not_found",
				field:     "id_retry",
				inputType: "select",
				options:   wrongPolicyOptions(),
			})
			return nil
		}
		s.StateData["candidate_policy_number"] = number
		n.askVerification(s, rec.HolderName)

	case "awaiting_phone":
		phone := extractPhone(input)
		if phone == "" {
			respond(s, "What's the best phone number on the policy?", prompt{
				question: "lookup_phone",
				field:    "phone",
				errors:   []string{"Please provide a 10-digit phone number."},
			})
			return nil
		}
		s.StateData["lookup_phone"] = phone
		s.StateStep = "awaiting_name"
		respond(s, "Thanks. And the full name on the policy?", prompt{
			question: "lookup_name",
			field:    "name",
		})

	case "awaiting_name":
		if len(strings.Fields(input)) < 2 {
			respond(s, "And the full name on the policy?", prompt{
				question: "lookup_name",
				field:    "name",
				errors:   []string{"Please give both first and last name."},
			})
			return nil
		}
		s.StateData["lookup_name"] = titleWords(input)
		s.StateStep = "awaiting_zip"
		respond(s, "And the ZIP code on the policy?", prompt{
			question: "lookup_zip",
			field:    "zip",
		})

	case "awaiting_zip":
		zip := extractZIP(input)
		if zip == "" {
			respond(s, "And the ZIP code on the policy?", prompt{
				question: "lookup_zip",
				field:    "zip",
				errors:   []string{"Please provide a 5-digit ZIP code."},
			})
			return nil
		}
		phone, _ := s.StateData["lookup_phone"].(string)
		name, _ := s.StateData["lookup_name"].(string)
		rec, ok := n.deps.Policies.LookupByPersonalInfo(phone, name, zip)
		if !ok {
			s.StateStep = "no_policy_found"
			respond(s, "I couldn't find a policy with those details. I can take your claim as a guest, and our team will match the policy afterwards. Shall we continue?", prompt{
				question:  "guest_offer",
				field:     "guest_mode",
				inputType: "yesno",
				options:   yesNoOptions(),
			})
			return nil
		}
		s.StateData["lookup_zip"] = zip
		n.askVerification(s, rec.HolderName)

	case "awaiting_verification":
		val, ok := parseYesNo(lower)
		if !ok {
			holder, _ := s.StateData["candidate_holder"].(string)
			n.askVerification(s, holder)
			s.ValidationErrors = []string{"Please answer yes or no."}
			return nil
		}
		if !val {
			s.StateStep = "wrong_policy"
			respond(s, "Let's try again. Would you like to re-enter your policy number, look up by your details, or continue as a guest?", prompt{
				question:  "wrong_policy",
				field:     "id_retry",
				inputType: "select",
				options:   wrongPolicyOptions(),
			})
			return nil
		}
		n.confirmMatch(s)

	case "wrong_policy":
		switch {
		case lower == "try_again" || containsAny(lower, "number", "try", "again"):
			n.askPolicyNumber(s, nil)
		case containsAny(lower, "personal", "detail", "look"):
			n.askPhone(s)
		case containsAny(lower, "guest", "continue"):
			setupGuestMode(s)
		default:
			respond(s, "Would you like to re-enter your policy number, look up by your details, or continue as a guest?", prompt{
				question:  "wrong_policy",
				field:     "id_retry",
				inputType: "select",
				options:   wrongPolicyOptions(),
				errors:    []string{"Please pick one of the options."},
			})
		}

	case "no_policy_found":
		switch {
		case containsAny(lower, "guest", "continue"):
			setupGuestMode(s)
		case containsAny(lower, "number", "try", "again", "policy"):
			n.askPolicyNumber(s, nil)
		case containsAny(lower, "personal", "detail", "look"):
			n.askPhone(s)
		default:
			if val, ok := parseYesNo(lower); ok && val {
				setupGuestMode(s)
				return nil
			}
			respond(s, "I can continue once we've matched your policy, or take your claim as a guest. Would you like to continue as a guest?", prompt{
				question:  "guest_offer",
				field:     "guest_mode",
				inputType: "yesno",
				options:   yesNoOptions(),
				errors:    []string{"Please answer yes or no."},
			})
		}

	default:
		transition(s, fnol.StateIncidentCore, "initial")
	}
	return nil
}

func (n *Nodes) askPolicyNumber(s *fnol.State, errs []string) {
	s.StateStep = "awaiting_policy_number"
	respond(s, "Great. What's your policy number?", prompt{
		question: "policy_number",
		field:    "policy_number",
		errors:   errs,
	})
}

func (n *Nodes) askPhone(s *fnol.State) {
	s.StateStep = "awaiting_phone"
	respond(s, "No problem. What's the best phone number on the policy?", prompt{
		question: "lookup_phone",
		field:    "phone",
	})
}

func (n *Nodes) askVerification(s *fnol.State, holderName string) {
	s.StateData["candidate_holder"] = holderName
	s.StateStep = "awaiting_verification"
	respond(s, fmt.Sprintf("I found a policy for **%s**. Is this correct?", holderName), prompt{
		question:  "verify_policy",
		field:     "policy_verified",
		inputType: "yesno",
		options:   yesNoOptions(),
	})
}

// confirmMatch re-resolves the verified candidate and records the match.
func (n *Nodes) confirmMatch(s *fnol.State) {
	if number, _ := s.StateData["candidate_policy_number"].(string); number != "" {
		if rec, ok := n.deps.Policies.LookupByNumber(number); ok {
			applyPolicyRecord(s, rec, "policy_number", 1.0)
			s.AppendAudit(fnol.AuditEvent{Action: "policy_matched", FieldChanged: "policy_match", Confidence: 1.0, Actor: "user"})
			transition(s, fnol.StateIncidentCore, "initial")
			return
		}
	}
	phone, _ := s.StateData["lookup_phone"].(string)
	name, _ := s.StateData["lookup_name"].(string)
	zip, _ := s.StateData["lookup_zip"].(string)
	if rec, ok := n.deps.Policies.LookupByPersonalInfo(phone, name, zip); ok {
		applyPolicyRecord(s, rec, "personal_info", 0.9)
		s.AppendAudit(fnol.AuditEvent{Action: "policy_matched", FieldChanged: "policy_match", Confidence: 0.9, Actor: "user"})
		transition(s, fnol.StateIncidentCore, "initial")
		return
	}
	setupGuestMode(s)
}

func applyPolicyRecord(s *fnol.State, rec *PolicyRecord, method string, confidence float64) {
	s.PolicyMatch = fnol.PolicyMatchData{
		Status:        "matched",
		PolicyID:      rec.PolicyID,
		PolicyNumber:  rec.PolicyNumber,
		Method:        method,
		Confidence:    confidence,
		HolderName:    rec.HolderName,
		State:         rec.State,
		EffectiveDate: rec.EffectiveDate,
		Vehicles:      rec.Vehicles,
		Drivers:       rec.Drivers,
	}
}

// setupGuestMode records an unverified caller so intake can continue; the
// back office matches the policy later.
func setupGuestMode(s *fnol.State) {
	s.PolicyMatch = fnol.PolicyMatchData{Status: "guest", Confidence: 0}
	s.AppendAudit(fnol.AuditEvent{Action: "guest_mode_enabled", FieldChanged: "policy_match"})
	transition(s, fnol.StateIncidentCore, "initial")
}
