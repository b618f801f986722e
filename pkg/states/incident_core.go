package states

import (
	"strings"

	"github.com/ormasoftchile/fnol/pkg/fnol"
)

func lossTypeOptions() []fnol.UIOption {
	return []fnol.UIOption{
		{Value: "collision", Label: "Collision - accident with another vehicle or object"},
		{Value: "weather", Label: "Weather - hail, flood, wind or a fallen tree"},
		{Value: "theft", Label: "Theft - vehicle or items stolen"},
		{Value: "vandalism", Label: "Vandalism - intentional damage"},
		{Value: "fire", Label: "Fire - vehicle caught fire"},
		{Value: "glass", Label: "Glass - windshield or window damage only"},
		{Value: "other", Label: "Other - something else"},
	}
}

// IncidentCore collects the loss facts: type, date and time, location and a
// free-text description, plus the type-specific follow-up that pins down
// the loss subtype.
func (n *Nodes) IncidentCore(s *fnol.State) error {
	input := strings.TrimSpace(s.CurrentInput)
	lower := strings.ToLower(input)

	switch s.StateStep {
	case "initial":
		greeting := "Now let's get the details of what happened."
		if name := s.PolicyMatch.HolderName; name != "" {
			first, _ := splitName(name)
			greeting = "Thanks, " + first + ". Now let's get the details of what happened."
		}
		s.StateStep = "awaiting_loss_type"
		respond(s, greeting+" What type of incident are you reporting?", prompt{
			question:  "loss_type",
			field:     "incident.loss_type",
			inputType: "select",
			options:   lossTypeOptions(),
		})

	case "awaiting_loss_type":
		lossType := extractLossType(lower)
		if lossType == "" {
			respond(s, "What type of incident are you reporting?", prompt{
				question:  "loss_type",
				field:     "incident.loss_type",
				inputType: "select",
				options:   lossTypeOptions(),
				errors:    []string{"I didn't catch that. Please pick the closest option."},
			})
			return nil
		}
		s.Incident.LossType = lossType
		s.AppendAudit(fnol.AuditEvent{Action: "field_captured", Actor: "user", FieldChanged: "incident.loss_type", DataAfter: lossType, UserInput: s.CurrentInput})
		s.StateStep = "awaiting_date"
		respond(s, "When did this happen? A date like 03/15 works, or just say \"today\" or \"yesterday\". Include the time if you know it.", prompt{
			question: "incident_date",
			field:    "incident.date",
		})

	case "awaiting_date":
		now := n.deps.Now()
		date, approximate, ok := parseDate(lower, now)
		if !ok {
			respond(s, "When did this happen?", prompt{
				question: "incident_date",
				field:    "incident.date",
				errors:   []string{"I couldn't read that as a date. Try something like 03/15, \"March 15\" or \"yesterday\"."},
			})
			return nil
		}
		if date.After(now) {
			respond(s, "When did this happen?", prompt{
				question: "incident_date",
				field:    "incident.date",
				errors:   []string{"That date is in the future. When did the incident actually happen?"},
			})
			return nil
		}
		s.Incident.Date = date.Format("2006-01-02")
		if clock, timeApprox, hasTime := parseTimeOfDay(lower); hasTime {
			s.Incident.Time = clock
			s.Incident.TimeApproximate = timeApprox
		}
		s.Incident.TimeApproximate = s.Incident.TimeApproximate || approximate
		s.AppendAudit(fnol.AuditEvent{Action: "field_captured", Actor: "user", FieldChanged: "incident.date", DataAfter: s.Incident.Date, UserInput: s.CurrentInput})
		s.StateStep = "awaiting_location"
		respond(s, "Where did it happen? A street address, intersection or landmark works.", prompt{
			question: "incident_location",
			field:    "incident.location",
		})

	case "awaiting_location":
		if len(input) < 5 {
			respond(s, "Where did it happen?", prompt{
				question: "incident_location",
				field:    "incident.location",
				errors:   []string{"Could you give a bit more detail, like a street or a nearby landmark?"},
			})
			return nil
		}
		s.Incident.LocationRaw = input
		s.Incident.LocationNormalized = input
		if st := extractUSState(input); st != "" {
			if s.PlaybookData == nil {
				s.PlaybookData = map[string]any{}
			}
			s.PlaybookData["incident.location_state"] = st
			if home := s.PolicyMatch.State; home != "" && !strings.EqualFold(home, st) {
				s.Incident.CrossBorder = true
			}
		}
		s.AppendAudit(fnol.AuditEvent{Action: "field_captured", Actor: "user", FieldChanged: "incident.location", DataAfter: input, UserInput: s.CurrentInput})
		s.StateStep = "awaiting_description"
		respond(s, "Tell me what happened in your own words. A few sentences is perfect.", prompt{
			question: "incident_description",
			field:    "incident.description",
		})

	case "awaiting_description":
		if len(input) < 20 {
			respond(s, "Tell me what happened in your own words.", prompt{
				question: "incident_description",
				field:    "incident.description",
				errors:   []string{"A little more detail helps, a sentence or two is plenty."},
			})
			return nil
		}
		s.Incident.Description = input
		logged := input
		if len(logged) > 100 {
			logged = logged[:100] + "..."
		}
		s.AppendAudit(fnol.AuditEvent{Action: "field_captured", Actor: "user", FieldChanged: "incident.description", DataAfter: logged})
		switch s.Incident.LossType {
		case "collision":
			s.StateStep = "awaiting_vehicle_count"
			respond(s, "How many vehicles were involved, including yours?", prompt{
				question:  "vehicle_count",
				field:     "incident.vehicle_count",
				inputType: "select",
				options: []fnol.UIOption{
					{Value: "1", Label: "Just mine"},
					{Value: "2", Label: "Two vehicles"},
					{Value: "3", Label: "Three or more"},
				},
			})
		case "weather":
			s.StateStep = "awaiting_weather_type"
			respond(s, "What kind of weather caused the damage?", prompt{
				question:  "weather_type",
				field:     "incident.loss_subtype",
				inputType: "select",
				options: []fnol.UIOption{
					{Value: "hail", Label: "Hail"},
					{Value: "flood", Label: "Flood or standing water"},
					{Value: "wind", Label: "High winds"},
					{Value: "tree", Label: "Fallen tree or branch"},
				},
			})
		case "theft":
			s.StateStep = "awaiting_theft_type"
			respond(s, "Was the vehicle itself stolen, was it broken into, or was it an attempted theft?", prompt{
				question:  "theft_type",
				field:     "incident.loss_subtype",
				inputType: "select",
				options: []fnol.UIOption{
					{Value: "vehicle_stolen", Label: "The vehicle was stolen"},
					{Value: "items_stolen", Label: "Items were stolen from it"},
					{Value: "attempted_theft", Label: "Attempted theft"},
				},
			})
		default:
			transition(s, fnol.StateLossModule, "initial")
		}

	case "awaiting_vehicle_count":
		count, ok := extractNumber(lower)
		if !ok {
			if containsAny(lower, "just", "single", "mine", "my car", "only") {
				count, ok = 1, true
			} else if containsAny(lower, "more", "several", "pile") {
				count, ok = 3, true
			}
		}
		if !ok || count < 1 {
			respond(s, "How many vehicles were involved, including yours?", prompt{
				question: "vehicle_count",
				field:    "incident.vehicle_count",
				errors:   []string{"Please give a number, like 1, 2 or 3."},
			})
			return nil
		}
		switch {
		case count == 1:
			s.Incident.LossSubtype = "single_vehicle"
		case count == 2:
			s.Incident.LossSubtype = "two_vehicle"
		default:
			s.Incident.LossSubtype = "multi_vehicle"
		}
		s.AppendAudit(fnol.AuditEvent{Action: "field_captured", Actor: "user", FieldChanged: "incident.loss_subtype", DataAfter: s.Incident.LossSubtype, UserInput: s.CurrentInput})
		transition(s, fnol.StateLossModule, "initial")

	case "awaiting_weather_type":
		subtype := extractWeatherType(lower)
		if subtype == "" {
			respond(s, "What kind of weather caused the damage?", prompt{
				question: "weather_type",
				field:    "incident.loss_subtype",
				errors:   []string{"Was it hail, flooding, wind, or a fallen tree?"},
			})
			return nil
		}
		s.Incident.LossSubtype = subtype
		s.AppendAudit(fnol.AuditEvent{Action: "field_captured", Actor: "user", FieldChanged: "incident.loss_subtype", DataAfter: subtype, UserInput: s.CurrentInput})
		transition(s, fnol.StateLossModule, "initial")

	case "awaiting_theft_type":
		subtype := extractTheftType(lower)
		if subtype == "" {
			respond(s, "Was the vehicle itself stolen, was it broken into, or was it an attempted theft?", prompt{
				question: "theft_type",
				field:    "incident.loss_subtype",
				errors:   []string{"Please pick the closest option."},
			})
			return nil
		}
		s.Incident.LossSubtype = subtype
		s.AppendAudit(fnol.AuditEvent{Action: "field_captured", Actor: "user", FieldChanged: "incident.loss_subtype", DataAfter: subtype, UserInput: s.CurrentInput})
		transition(s, fnol.StateLossModule, "initial")

	default:
		transition(s, fnol.StateLossModule, "initial")
	}
	return nil
}
