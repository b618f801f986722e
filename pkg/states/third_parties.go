package states

import (
	"slices"
	"strings"

	"github.com/ormasoftchile/fnol/pkg/fnol"
)

// skipThirdParties reports whether the loss involves no other driver to
// collect: weather, theft, vandalism and glass losses, and single-vehicle
// collisions.
func skipThirdParties(s *fnol.State) bool {
	switch s.Incident.LossType {
	case "weather", "theft", "vandalism", "glass":
		return true
	}
	return s.Incident.LossSubtype == "single_vehicle"
}

// ThirdParties collects the other driver, their vehicle and insurance, and
// any witnesses. Hit-and-run losses record whatever partial description the
// caller has instead.
func (n *Nodes) ThirdParties(s *fnol.State) error {
	input := strings.TrimSpace(s.CurrentInput)
	lower := strings.ToLower(input)

	switch s.StateStep {
	case "initial":
		if skipThirdParties(s) {
			s.AppendAudit(fnol.AuditEvent{Action: "third_parties_skipped", DataAfter: s.Incident.LossSubtype})
			transition(s, fnol.StateInjuries, "initial")
			return nil
		}
		if slices.Contains(s.ActivePlaybooks, "hit_and_run") {
			s.StateStep = "awaiting_unknown_vehicle"
			respond(s, "Since the other driver left the scene, let's note whatever you saw. Can you describe the other vehicle, even partially? Color, make, or any part of the plate all help.", prompt{
				question: "unknown_vehicle",
				field:    "third_party.vehicle_description",
			})
			return nil
		}
		s.StateStep = "awaiting_other_driver"
		respond(s, "Were you able to exchange information with the other driver?", prompt{
			question:  "other_driver_info",
			field:     "third_party.info_status",
			inputType: "select",
			options: []fnol.UIOption{
				{Value: "yes", Label: "Yes, I have their info"},
				{Value: "partial", Label: "Some of it"},
				{Value: "no", Label: "No"},
			},
		})

	case "awaiting_unknown_vehicle":
		v := parseVehicleDescription(input)
		v.VehicleID = newID()
		v.Role = "unknown"
		s.Vehicles = append(s.Vehicles, v)
		p := fnol.PartyData{
			PartyID:            newID(),
			Role:               "tp_driver",
			VehicleID:          v.VehicleID,
			IsUnknown:          true,
			UnknownDescription: input,
		}
		s.Parties = append(s.Parties, p)
		s.AppendAudit(fnol.AuditEvent{Action: "hit_and_run_party_recorded", Actor: "user", UserInput: s.CurrentInput})
		n.askWitnesses(s)

	case "awaiting_other_driver":
		switch {
		case containsAny(lower, "yes", "partial", "some", "info"):
			s.StateStep = "awaiting_tp_name"
			respond(s, "What's the other driver's name?", prompt{
				question: "tp_name",
				field:    "third_party.name",
			})
		case containsAny(lower, "no", "none", "didn't", "didnt"):
			s.Parties = append(s.Parties, fnol.PartyData{
				PartyID:         newID(),
				Role:            "tp_driver",
				IsUnknown:       true,
				InsuranceStatus: "unknown",
			})
			s.AppendAudit(fnol.AuditEvent{Action: "third_party_unknown", Actor: "user"})
			n.askWitnesses(s)
		default:
			respond(s, "Were you able to exchange information with the other driver?", prompt{
				question: "other_driver_info",
				field:    "third_party.info_status",
				errors:   []string{"Please answer yes, some of it, or no."},
			})
		}

	case "awaiting_tp_name":
		if len(input) < 2 {
			respond(s, "What's the other driver's name?", prompt{
				question: "tp_name",
				field:    "third_party.name",
				errors:   []string{"Please give their name, or say \"skip\" if you don't have it."},
			})
			return nil
		}
		p := fnol.PartyData{PartyID: newID(), Role: "tp_driver"}
		if !containsAny(lower, "skip", "don't know", "dont know") {
			p.FirstName, p.LastName = splitName(titleWords(input))
		} else {
			p.IsUnknown = true
		}
		s.Parties = append(s.Parties, p)
		s.AppendAudit(fnol.AuditEvent{Action: "third_party_recorded", Actor: "user", DataAfter: formatParty(p)})
		s.StateStep = "awaiting_tp_phone"
		respond(s, "Do you have a phone number for them? You can say \"skip\".", prompt{
			question:  "tp_phone",
			field:     "third_party.phone",
			allowSkip: true,
		})

	case "awaiting_tp_phone":
		if phone := extractPhone(input); phone != "" {
			if p := lastPartyOfRole(s, "tp_driver"); p != nil {
				p.Phone = phone
			}
			s.AppendAudit(fnol.AuditEvent{Action: "field_captured", Actor: "user", FieldChanged: "third_party.phone"})
		}
		s.StateStep = "awaiting_tp_vehicle"
		respond(s, "What were they driving? Year, make, model, color, and the plate if you have it.", prompt{
			question: "tp_vehicle",
			field:    "third_party.vehicle",
		})

	case "awaiting_tp_vehicle":
		v := parseVehicleDescription(input)
		v.VehicleID = newID()
		v.Role = "third_party"
		s.Vehicles = append(s.Vehicles, v)
		if p := lastPartyOfRole(s, "tp_driver"); p != nil {
			p.VehicleID = v.VehicleID
		}
		s.AppendAudit(fnol.AuditEvent{Action: "vehicle_added", Actor: "user", DataAfter: formatVehicle(v), UserInput: s.CurrentInput})
		s.StateStep = "awaiting_tp_insurance"
		respond(s, "Do you have their insurance information?", prompt{
			question:  "tp_insurance",
			field:     "third_party.has_insurance",
			inputType: "yesno",
			options:   yesNoOptions(),
		})

	case "awaiting_tp_insurance":
		val, ok := parseYesNo(lower)
		if !ok {
			respond(s, "Do you have their insurance information?", prompt{
				question:  "tp_insurance",
				field:     "third_party.has_insurance",
				inputType: "yesno",
				options:   yesNoOptions(),
				errors:    []string{"Please answer yes or no."},
			})
			return nil
		}
		if !val {
			if p := lastPartyOfRole(s, "tp_driver"); p != nil {
				p.InsuranceStatus = "unknown"
			}
			n.askWitnesses(s)
			return nil
		}
		s.StateStep = "awaiting_tp_insurance_details"
		respond(s, "What's their insurance company, and the policy number if you have it?", prompt{
			question: "tp_insurance_details",
			field:    "third_party.insurance",
		})

	case "awaiting_tp_insurance_details":
		carrier, policyNumber := parseInsuranceInfo(input)
		if p := lastPartyOfRole(s, "tp_driver"); p != nil {
			if carrier == "" {
				carrier = titleWords(input)
			}
			p.InsuranceCarrier = carrier
			p.InsurancePolicyNumber = policyNumber
			p.InsuranceStatus = "insured"
		}
		s.AppendAudit(fnol.AuditEvent{Action: "field_captured", Actor: "user", FieldChanged: "third_party.insurance", UserInput: s.CurrentInput})
		n.askWitnesses(s)

	case "awaiting_witnesses":
		val, ok := parseYesNo(lower)
		if !ok {
			respond(s, "Did anyone witness the incident?", prompt{
				question:  "witnesses",
				field:     "witnesses.present",
				inputType: "yesno",
				options:   yesNoOptions(),
				errors:    []string{"Please answer yes or no."},
			})
			return nil
		}
		if !val {
			n.finishWithPlaybookQuestions(s, fnol.StateThirdParties, fnol.StateInjuries)
			return nil
		}
		s.StateStep = "awaiting_witness_info"
		respond(s, "Great, witness statements really help. What's their name and phone number?", prompt{
			question: "witness_info",
			field:    "witness.details",
		})

	case "awaiting_witness_info":
		phone := extractPhone(input)
		name := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return -1
			}
			return r
		}, input)
		name = strings.Trim(name, " -().,")
		p := fnol.PartyData{PartyID: newID(), Role: "witness", Phone: phone}
		p.FirstName, p.LastName = splitName(titleWords(name))
		s.Parties = append(s.Parties, p)
		s.AppendAudit(fnol.AuditEvent{Action: "witness_recorded", Actor: "user", DataAfter: formatParty(p)})
		s.StateStep = "awaiting_more_witnesses"
		respond(s, "Any other witnesses?", prompt{
			question:  "more_witnesses",
			field:     "witnesses.more",
			inputType: "yesno",
			options:   yesNoOptions(),
		})

	case "awaiting_more_witnesses":
		if val, ok := parseYesNo(lower); ok && val {
			s.StateStep = "awaiting_witness_info"
			respond(s, "What's their name and phone number?", prompt{
				question: "witness_info",
				field:    "witness.details",
			})
			return nil
		}
		n.finishWithPlaybookQuestions(s, fnol.StateThirdParties, fnol.StateInjuries)

	case "playbook_questions":
		if n.askPlaybookQuestions(s, fnol.StateThirdParties) {
			return nil
		}
		transition(s, fnol.StateInjuries, "initial")

	default:
		transition(s, fnol.StateInjuries, "initial")
	}
	return nil
}

func (n *Nodes) askWitnesses(s *fnol.State) {
	s.StateStep = "awaiting_witnesses"
	respond(s, "Did anyone witness the incident?", prompt{
		question:  "witnesses",
		field:     "witnesses.present",
		inputType: "yesno",
		options:   yesNoOptions(),
	})
}
