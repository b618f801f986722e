package states

import (
	"fmt"
	"strings"

	"github.com/ormasoftchile/fnol/pkg/fnol"
)

const claimsPhoneLine = "1-800-CLAIMS (1-800-252-4671)"

// NextSteps closes out a submitted claim: what happens next for the route,
// outstanding evidence, towing, and a short question-answering loop.
func (n *Nodes) NextSteps(s *fnol.State) error {
	lower := strings.ToLower(strings.TrimSpace(s.CurrentInput))

	switch s.StateStep {
	case "initial":
		s.StateStep = "awaiting_questions"
		respond(s, n.nextStepsMessage(s)+"\n\nIs there anything else I can help you with?", prompt{
			question: "final_questions",
			field:    "final_questions",
		})

	case "awaiting_questions":
		switch {
		case containsAny(lower, "document", "upload", "photo"):
			respond(s, n.documentInstructions(s)+"\n\nAnything else?", prompt{
				question: "final_questions",
				field:    "final_questions",
			})
		case containsAny(lower, "timeline", "how long", "when will", "how soon"):
			respond(s, n.timelineInfo(s)+"\n\nAnything else?", prompt{
				question: "final_questions",
				field:    "final_questions",
			})
		case strings.Contains(lower, "question"):
			s.StateStep = "specific_question"
			respond(s, "Sure, what's your question? For anything I can't answer, you can reach an agent at "+claimsPhoneLine+".", prompt{
				question: "specific_question",
				field:    "specific_question",
			})
		case noPattern.MatchString(lower) || containsAny(lower, "done", "nothing", "all set", "that's it", "thats it", "thank"):
			s.IsComplete = true
			s.AppendAudit(fnol.AuditEvent{Action: "intake_completed"})
			respond(s, fmt.Sprintf("You're all set. We'll be in touch soon about claim **%s**. Take care!", s.ClaimNumber), prompt{})
		default:
			n.answerSpecificQuestion(s, lower)
		}

	case "specific_question":
		n.answerSpecificQuestion(s, lower)

	default:
		s.IsComplete = true
		respond(s, fmt.Sprintf("We'll be in touch soon about claim **%s**. Take care!", s.ClaimNumber), prompt{})
	}
	return nil
}

func (n *Nodes) answerSpecificQuestion(s *fnol.State, lower string) {
	var answer string
	switch {
	case containsAny(lower, "rental", "car while", "loaner"):
		answer = "If your policy includes rental coverage, we'll set you up with a rental car while yours is in the shop. Your adjuster will confirm the coverage and daily limit when they reach out."
	case strings.Contains(lower, "tow"):
		answer = "If your vehicle isn't drivable, our towing partner will move it to a storage facility or a repair shop at no upfront cost to you."
	case containsAny(lower, "repair", "shop", "body"):
		answer = "You can use any licensed repair shop you like. We also have a network of approved shops where the work is guaranteed, and your adjuster can share nearby options."
	default:
		answer = "That's a good question for your adjuster, they'll have the specifics for your claim. You can also call " + claimsPhoneLine + " anytime."
	}
	s.StateStep = "awaiting_questions"
	respond(s, answer+"\n\nAnything else?", prompt{
		question: "final_questions",
		field:    "final_questions",
	})
}

// nextStepsMessage builds the post-submission wrap-up for the claim.
func (n *Nodes) nextStepsMessage(s *fnol.State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Your claim **%s** has been submitted successfully.\n", s.ClaimNumber)

	b.WriteString("\n**What happens next**\n")
	route := ""
	if s.Triage != nil {
		route = s.Triage.Route
	}
	switch route {
	case "stp":
		b.WriteString("- Your claim qualifies for expedited processing.\n")
		b.WriteString("- You'll receive a decision within 1-2 business days.\n")
		b.WriteString("- Payment is typically issued within 3-5 business days of approval.\n")
	default:
		b.WriteString("- A claims adjuster will be assigned to your claim.\n")
		b.WriteString("- They'll contact you within 1 business day to review the details.\n")
		b.WriteString("- Most claims like yours are resolved within 7-10 business days.\n")
	}

	var pending []string
	for _, e := range s.Evidence {
		if e.UploadStatus == "pending" {
			pending = append(pending, e.Description)
		}
	}
	if len(pending) > 0 {
		b.WriteString("\n**Still needed**\n")
		for _, item := range pending {
			b.WriteString("- " + item + "\n")
		}
	}

	if v := insuredVehicle(s); v != nil && v.Drivable == "no" {
		b.WriteString("\n**Towing**\nYour vehicle was marked not drivable. Our towing partner will reach out shortly to arrange pickup.\n")
	}

	fmt.Fprintf(&b, "\nYou can check on your claim anytime at %s, reference **%s**.", claimsPhoneLine, s.ClaimNumber)
	return b.String()
}

func (n *Nodes) documentInstructions(s *fnol.State) string {
	msg := "You can upload documents and photos anytime from the claim portal or by replying to the confirmation message we send you."
	var pending []string
	for _, e := range s.Evidence {
		if e.UploadStatus == "pending" {
			pending = append(pending, e.Description)
		}
	}
	if len(pending) > 0 {
		msg += " For your claim we're still waiting on:\n"
		for _, item := range pending {
			msg += "- " + item + "\n"
		}
		msg = strings.TrimRight(msg, "\n")
	}
	return msg
}

func (n *Nodes) timelineInfo(s *fnol.State) string {
	if s.Triage != nil && s.Triage.Route == "stp" {
		return "Your claim is on the expedited track: a decision within 1-2 business days, and payment typically 3-5 business days after approval."
	}
	if s.Incident.LossType == "theft" {
		return "Theft claims involve a short investigation period, typically 10-14 days, to give the vehicle a chance to be recovered. Your adjuster will keep you posted throughout."
	}
	return "An adjuster will contact you within 1 business day, and most claims like yours are resolved within 7-10 business days."
}
