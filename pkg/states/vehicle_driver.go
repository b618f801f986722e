package states

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ormasoftchile/fnol/pkg/fnol"
)

// VehicleDriver identifies the insured vehicle, its condition and who was
// driving. Policy vehicles are offered as a pick list; anything else is
// collected year/make/model.
func (n *Nodes) VehicleDriver(s *fnol.State) error {
	input := strings.TrimSpace(s.CurrentInput)
	lower := strings.ToLower(input)

	switch s.StateStep {
	case "initial":
		if len(s.PolicyMatch.Vehicles) > 0 {
			options := make([]fnol.UIOption, 0, len(s.PolicyMatch.Vehicles)+1)
			var lines []string
			for i, pv := range s.PolicyMatch.Vehicles {
				desc := formatVehicle(fnol.VehicleData{Year: pv.Year, Make: pv.Make, Model: pv.Model, Color: pv.Color})
				options = append(options, fnol.UIOption{Value: strconv.Itoa(i + 1), Label: desc})
				lines = append(lines, fmt.Sprintf("%d. %s", i+1, desc))
			}
			options = append(options, fnol.UIOption{Value: "other", Label: "A different vehicle"})
			s.StateStep = "awaiting_vehicle_selection"
			respond(s, "Which vehicle was involved?\n\n"+strings.Join(lines, "\n")+"\n\nOr say \"other\" if it was a different vehicle.", prompt{
				question:  "vehicle_selection",
				field:     "vehicle.selection",
				inputType: "select",
				options:   options,
			})
			return nil
		}
		n.askVehicleYear(s, nil)

	case "awaiting_vehicle_selection":
		if strings.Contains(lower, "other") {
			n.askVehicleYear(s, nil)
			return nil
		}
		idx, ok := extractNumber(lower)
		if !ok || idx < 1 || idx > len(s.PolicyMatch.Vehicles) {
			respond(s, "Which vehicle was involved? Pick a number from the list, or say \"other\".", prompt{
				question: "vehicle_selection",
				field:    "vehicle.selection",
				errors:   []string{"I didn't catch that. Please pick a number from the list."},
			})
			return nil
		}
		pv := s.PolicyMatch.Vehicles[idx-1]
		v := fnol.VehicleData{
			VehicleID:       newID(),
			Role:            "insured",
			VIN:             pv.VIN,
			Year:            pv.Year,
			Make:            pv.Make,
			Model:           pv.Model,
			Color:           pv.Color,
			LicensePlate:    pv.LicensePlate,
			LicenseState:    pv.LicenseState,
			FromPolicy:      true,
			PolicyVehicleID: pv.VehicleID,
		}
		s.Vehicles = append(s.Vehicles, v)
		s.AppendAudit(fnol.AuditEvent{Action: "vehicle_added", Actor: "user", DataAfter: formatVehicle(v), UserInput: s.CurrentInput})
		n.askDrivable(s)

	case "awaiting_vehicle_year":
		year := extractVehicleYear(input)
		if year == 0 {
			n.askVehicleYear(s, []string{"Please give a four-digit year, like 2019."})
			return nil
		}
		s.StateData["vehicle_year"] = year
		s.StateStep = "awaiting_vehicle_make"
		respond(s, "What make is it? Toyota, Ford, and so on.", prompt{
			question: "vehicle_make",
			field:    "vehicle.make",
		})

	case "awaiting_vehicle_make":
		if len(input) < 2 {
			respond(s, "What make is the vehicle?", prompt{
				question: "vehicle_make",
				field:    "vehicle.make",
				errors:   []string{"Please give the vehicle make."},
			})
			return nil
		}
		s.StateData["vehicle_make"] = titleWords(input)
		s.StateStep = "awaiting_vehicle_model"
		respond(s, "And the model?", prompt{
			question: "vehicle_model",
			field:    "vehicle.model",
		})

	case "awaiting_vehicle_model":
		if input == "" {
			respond(s, "And the model?", prompt{
				question: "vehicle_model",
				field:    "vehicle.model",
				errors:   []string{"Please give the vehicle model."},
			})
			return nil
		}
		year := stateInt(s, "vehicle_year")
		mk, _ := s.StateData["vehicle_make"].(string)
		v := fnol.VehicleData{
			VehicleID: newID(),
			Role:      "insured",
			Year:      year,
			Make:      mk,
			Model:     titleWords(input),
		}
		s.Vehicles = append(s.Vehicles, v)
		s.AppendAudit(fnol.AuditEvent{Action: "vehicle_added", Actor: "user", DataAfter: formatVehicle(v)})
		n.askDrivable(s)

	case "awaiting_drivable":
		v := insuredVehicle(s)
		if v == nil {
			transition(s, fnol.StateThirdParties, "initial")
			return nil
		}
		var drivable string
		if containsAny(lower, "unknown", "not sure", "unsure", "don't know") {
			drivable = "unknown"
		} else if val, ok := parseYesNo(lower); ok {
			drivable = "no"
			if val {
				drivable = "yes"
			}
		}
		if drivable == "" {
			respond(s, fmt.Sprintf("Is the %s currently drivable?", formatVehicle(*v)), prompt{
				question:  "vehicle_drivable",
				field:     "vehicle.drivable",
				inputType: "select",
				options:   drivableOptions(),
				errors:    []string{"Please answer yes, no or not sure."},
			})
			return nil
		}
		v.Drivable = drivable
		s.AppendAudit(fnol.AuditEvent{Action: "field_captured", Actor: "user", FieldChanged: "vehicle.drivable", DataAfter: drivable, UserInput: s.CurrentInput})
		if drivable == "no" {
			v.TowNeeded = true
			s.StateStep = "awaiting_vehicle_location"
			respond(s, "Understood. Where is the vehicle now? We can help arrange towing.", prompt{
				question: "vehicle_location",
				field:    "vehicle.current_location",
			})
			return nil
		}
		n.askDriver(s)

	case "awaiting_vehicle_location":
		if v := insuredVehicle(s); v != nil && input != "" {
			v.CurrentLocation = input
			s.AppendAudit(fnol.AuditEvent{Action: "field_captured", Actor: "user", FieldChanged: "vehicle.current_location", DataAfter: input})
		}
		n.askDriver(s)

	case "awaiting_driver_confirm":
		val, ok := parseYesNo(lower)
		if !ok {
			n.askDriver(s)
			s.ValidationErrors = []string{"Please answer yes or no."}
			return nil
		}
		if !val {
			s.StateStep = "awaiting_driver_name"
			respond(s, "Who was driving? Please give their full name.", prompt{
				question: "driver_name",
				field:    "driver.name",
			})
			return nil
		}
		first, last := splitName(s.PolicyMatch.HolderName)
		p := fnol.PartyData{
			PartyID:       newID(),
			Role:          "insured_driver",
			FirstName:     first,
			LastName:      last,
			HasPermission: true,
		}
		if v := insuredVehicle(s); v != nil {
			p.VehicleID = v.VehicleID
		}
		s.Parties = append(s.Parties, p)
		s.AppendAudit(fnol.AuditEvent{Action: "driver_recorded", Actor: "user", DataAfter: formatParty(p)})
		n.finishWithPlaybookQuestions(s, fnol.StateVehicleDriver, fnol.StateThirdParties)

	case "awaiting_driver_name":
		if len(input) < 2 {
			respond(s, "Who was driving? Please give their full name.", prompt{
				question: "driver_name",
				field:    "driver.name",
				errors:   []string{"Please give the driver's name."},
			})
			return nil
		}
		first, last := splitName(titleWords(input))
		p := fnol.PartyData{
			PartyID:               newID(),
			Role:                  "insured_driver",
			FirstName:             first,
			LastName:              last,
			RelationshipToInsured: "other",
		}
		if v := insuredVehicle(s); v != nil {
			p.VehicleID = v.VehicleID
		}
		s.Parties = append(s.Parties, p)
		s.AppendAudit(fnol.AuditEvent{Action: "driver_recorded", Actor: "user", DataAfter: formatParty(p), UserInput: s.CurrentInput})
		s.StateStep = "awaiting_driver_permission"
		respond(s, "Did they have your permission to drive the vehicle?", prompt{
			question:  "driver_permission",
			field:     "driver.has_permission",
			inputType: "yesno",
			options:   yesNoOptions(),
		})

	case "awaiting_driver_permission":
		val, ok := parseYesNo(lower)
		if !ok {
			respond(s, "Did they have your permission to drive the vehicle?", prompt{
				question:  "driver_permission",
				field:     "driver.has_permission",
				inputType: "yesno",
				options:   yesNoOptions(),
				errors:    []string{"Please answer yes or no."},
			})
			return nil
		}
		if p := lastPartyOfRole(s, "insured_driver"); p != nil {
			p.HasPermission = val
		}
		s.AppendAudit(fnol.AuditEvent{Action: "field_captured", Actor: "user", FieldChanged: "driver.has_permission", DataAfter: val})
		n.finishWithPlaybookQuestions(s, fnol.StateVehicleDriver, fnol.StateThirdParties)

	case "playbook_questions":
		if n.askPlaybookQuestions(s, fnol.StateVehicleDriver) {
			return nil
		}
		transition(s, fnol.StateThirdParties, "initial")

	default:
		transition(s, fnol.StateThirdParties, "initial")
	}
	return nil
}

func drivableOptions() []fnol.UIOption {
	return []fnol.UIOption{
		{Value: "yes", Label: "Yes, it's drivable"},
		{Value: "no", Label: "No, it can't be driven"},
		{Value: "unknown", Label: "I'm not sure"},
	}
}

func (n *Nodes) askVehicleYear(s *fnol.State, errs []string) {
	s.StateStep = "awaiting_vehicle_year"
	respond(s, "Let's get the vehicle details. What year is the vehicle?", prompt{
		question: "vehicle_year",
		field:    "vehicle.year",
		errors:   errs,
	})
}

func (n *Nodes) askDrivable(s *fnol.State) {
	v := insuredVehicle(s)
	desc := "vehicle"
	if v != nil {
		desc = formatVehicle(*v)
	}
	s.StateStep = "awaiting_drivable"
	respond(s, fmt.Sprintf("Is the %s currently drivable?", desc), prompt{
		question:  "vehicle_drivable",
		field:     "vehicle.drivable",
		inputType: "select",
		options:   drivableOptions(),
	})
}

func (n *Nodes) askDriver(s *fnol.State) {
	who := "you"
	if s.PolicyMatch.HolderName != "" {
		who = "**" + s.PolicyMatch.HolderName + "**"
	}
	s.StateStep = "awaiting_driver_confirm"
	question := fmt.Sprintf("Was %s driving at the time?", who)
	if who == "you" {
		question = "Were you driving at the time?"
	}
	respond(s, question, prompt{
		question:  "driver_confirm",
		field:     "driver.confirmed",
		inputType: "yesno",
		options:   yesNoOptions(),
	})
}
