package states

import (
	"strings"

	"github.com/ormasoftchile/fnol/pkg/fnol"
)

func damageAreaOptions() []fnol.UIOption {
	return []fnol.UIOption{
		{Value: "front", Label: "Front"},
		{Value: "rear", Label: "Rear"},
		{Value: "driver_side", Label: "Driver side"},
		{Value: "passenger_side", Label: "Passenger side"},
		{Value: "hood", Label: "Hood"},
		{Value: "roof", Label: "Roof"},
		{Value: "windshield", Label: "Windshield"},
		{Value: "windows", Label: "Windows"},
		{Value: "undercarriage", Label: "Undercarriage"},
		{Value: "interior", Label: "Interior"},
		{Value: "total", Label: "The whole vehicle"},
	}
}

// DamageEvidence documents the damage areas, a severity-based estimate,
// property damage and photo evidence requests.
func (n *Nodes) DamageEvidence(s *fnol.State) error {
	input := strings.TrimSpace(s.CurrentInput)
	lower := strings.ToLower(input)

	switch s.StateStep {
	case "initial":
		s.StateStep = "awaiting_areas"
		respond(s, "Let's document the damage. Which areas of the vehicle are damaged? You can list several.", prompt{
			question:  "damage_areas",
			field:     "damage.areas",
			inputType: "multiselect",
			options:   damageAreaOptions(),
		})

	case "awaiting_areas":
		areas := parseDamageAreas(lower)
		vehicleID := ""
		if v := insuredVehicle(s); v != nil {
			vehicleID = v.VehicleID
		}
		for _, area := range areas {
			s.Damages = append(s.Damages, fnol.DamageData{
				DamageID:   newID(),
				VehicleID:  vehicleID,
				DamageType: "vehicle",
				DamageArea: area,
			})
		}
		s.AppendAudit(fnol.AuditEvent{Action: "damage_areas_recorded", Actor: "user", DataAfter: areas, UserInput: s.CurrentInput})
		s.StateStep = "awaiting_damage_description"
		respond(s, "Can you describe the damage briefly?", prompt{
			question: "damage_description",
			field:    "damage.description",
		})

	case "awaiting_damage_description":
		for i := range s.Damages {
			if s.Damages[i].DamageType == "vehicle" && s.Damages[i].Description == "" {
				s.Damages[i].Description = input
			}
		}
		s.AppendAudit(fnol.AuditEvent{Action: "field_captured", Actor: "user", FieldChanged: "damage.description", UserInput: s.CurrentInput})
		s.StateStep = "awaiting_estimate"
		respond(s, "How severe would you say the damage is overall?", prompt{
			question:  "damage_estimate",
			field:     "damage.severity",
			inputType: "select",
			options: []fnol.UIOption{
				{Value: "minor", Label: "Minor - scratches and dings"},
				{Value: "moderate", Label: "Moderate - dents, needs repair"},
				{Value: "major", Label: "Major - significant damage"},
				{Value: "total", Label: "Total - the vehicle may be a total loss"},
			},
		})

	case "awaiting_estimate":
		severity := extractDamageSeverity(lower)
		if severity == "" {
			respond(s, "How severe would you say the damage is overall?", prompt{
				question: "damage_estimate",
				field:    "damage.severity",
				errors:   []string{"Please pick minor, moderate, major or total."},
			})
			return nil
		}
		amount := damageSeverityEstimates[severity]
		hasTotalArea := false
		for i := range s.Damages {
			if s.Damages[i].DamageType == "vehicle" && s.Damages[i].EstimatedAmount == 0 {
				s.Damages[i].EstimatedAmount = amount
			}
			if s.Damages[i].DamageArea == "total" {
				hasTotalArea = true
			}
		}
		if severity == "total" && !hasTotalArea {
			vehicleID := ""
			if v := insuredVehicle(s); v != nil {
				vehicleID = v.VehicleID
			}
			s.Damages = append(s.Damages, fnol.DamageData{
				DamageID:        newID(),
				VehicleID:       vehicleID,
				DamageType:      "vehicle",
				DamageArea:      "total",
				EstimatedAmount: amount,
			})
		}
		s.AppendAudit(fnol.AuditEvent{Action: "damage_estimate_recorded", Actor: "user", DataAfter: severity})
		s.StateStep = "awaiting_property"
		respond(s, "Was any property damaged besides the vehicles? Things like a fence, mailbox or guardrail.", prompt{
			question:  "property_damage",
			field:     "damage.property",
			inputType: "yesno",
			options:   yesNoOptions(),
		})

	case "awaiting_property":
		val, ok := parseYesNo(lower)
		if !ok {
			respond(s, "Was any property damaged besides the vehicles?", prompt{
				question:  "property_damage",
				field:     "damage.property",
				inputType: "yesno",
				options:   yesNoOptions(),
				errors:    []string{"Please answer yes or no."},
			})
			return nil
		}
		if val {
			s.StateStep = "awaiting_property_details"
			respond(s, "What property was damaged, and do you know who owns it?", prompt{
				question: "property_details",
				field:    "damage.property_details",
			})
			return nil
		}
		n.requestPhotos(s)

	case "awaiting_property_details":
		s.Damages = append(s.Damages, fnol.DamageData{
			DamageID:     newID(),
			DamageType:   "property",
			PropertyType: extractPropertyType(lower),
			Description:  input,
		})
		s.AppendAudit(fnol.AuditEvent{Action: "property_damage_recorded", Actor: "user", UserInput: s.CurrentInput})
		n.requestPhotos(s)

	case "awaiting_photos":
		switch {
		case containsAny(lower, "upload", "ready", "yes", "sure", "ok"):
			n.addPhotoRequests(s)
			s.AppendAudit(fnol.AuditEvent{Action: "photos_requested"})
			s.StateStep = "uploading_photos"
			respond(s, "Great. Upload the photos when you can. Say \"done\" once they're uploaded, or \"later\" to keep going and add them afterwards.", prompt{
				question:  "photo_upload",
				field:     "evidence.photos",
				inputType: "photo",
			})
		case containsAny(lower, "later", "skip", "no", "can't", "cant"):
			n.addPhotoRequests(s)
			s.AppendAudit(fnol.AuditEvent{Action: "photos_deferred", Actor: "user"})
			n.finishWithPlaybookQuestions(s, fnol.StateDamageEvidence, fnol.StateTriage)
		default:
			respond(s, "Photos speed up your claim quite a bit. Can you upload photos of the scene and the damage?", prompt{
				question:  "photo_request",
				field:     "evidence.photos",
				inputType: "select",
				options: []fnol.UIOption{
					{Value: "upload", Label: "I can upload them now"},
					{Value: "later", Label: "I'll add them later"},
				},
				errors: []string{"Say \"upload\" when you're ready, or \"later\" to skip for now."},
			})
		}

	case "uploading_photos":
		if containsAny(lower, "done", "uploaded", "finished", "yes") {
			for i := range s.Evidence {
				if s.Evidence[i].EvidenceType == "photo" && s.Evidence[i].UploadStatus == "pending" {
					s.Evidence[i].UploadStatus = "uploaded"
				}
			}
			s.AppendAudit(fnol.AuditEvent{Action: "photos_uploaded", Actor: "user"})
		}
		n.finishWithPlaybookQuestions(s, fnol.StateDamageEvidence, fnol.StateTriage)

	case "playbook_questions":
		if n.askPlaybookQuestions(s, fnol.StateDamageEvidence) {
			return nil
		}
		transition(s, fnol.StateTriage, "initial")

	default:
		transition(s, fnol.StateTriage, "initial")
	}
	return nil
}

func (n *Nodes) requestPhotos(s *fnol.State) {
	s.StateStep = "awaiting_photos"
	respond(s, "Photos speed up your claim quite a bit. Can you upload photos of the scene and the damage? Say \"upload\" when you're ready, or \"later\" to skip for now.", prompt{
		question:  "photo_request",
		field:     "evidence.photos",
		inputType: "select",
		options: []fnol.UIOption{
			{Value: "upload", Label: "I can upload them now"},
			{Value: "later", Label: "I'll add them later"},
		},
	})
}

// addPhotoRequests records the standard photo set plus whatever the active
// scenarios require, all pending until uploaded.
func (n *Nodes) addPhotoRequests(s *fnol.State) {
	base := []fnol.EvidenceData{
		{EvidenceID: newID(), EvidenceType: "photo", Subtype: "scene", Description: "Photo of the overall scene", UploadStatus: "pending"},
		{EvidenceID: newID(), EvidenceType: "photo", Subtype: "damage", Description: "Photo of the damage", UploadStatus: "pending"},
		{EvidenceID: newID(), EvidenceType: "photo", Subtype: "vehicle", Description: "Photo of the whole vehicle", UploadStatus: "pending"},
	}
	s.Evidence = append(s.Evidence, base...)
	if n.deps.Registry == nil {
		return
	}
	seen := map[string]bool{}
	for _, e := range s.Evidence {
		seen[e.EvidenceType+":"+e.Description] = true
	}
	for _, req := range n.deps.Registry.RequiredEvidence(s) {
		key := req.Type + ":" + req.Description
		if seen[key] {
			continue
		}
		seen[key] = true
		s.Evidence = append(s.Evidence, fnol.EvidenceData{
			EvidenceID:   newID(),
			EvidenceType: req.Type,
			Description:  req.Description,
			UploadStatus: "pending",
		})
	}
}
