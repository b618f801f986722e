// Package fnol defines the conversation state types for first-notice-of-loss
// claim intake, along with phase ordering, transition legality, audit events
// and snapshot persistence.
package fnol

import "time"

// Phase names for the intake conversation.
const (
	StateSafetyCheck       = "SAFETY_CHECK"
	StateIdentityMatch     = "IDENTITY_MATCH"
	StateIncidentCore      = "INCIDENT_CORE"
	StateLossModule        = "LOSS_MODULE"
	StateVehicleDriver     = "VEHICLE_DRIVER"
	StateThirdParties      = "THIRD_PARTIES"
	StateInjuries          = "INJURIES"
	StateDamageEvidence    = "DAMAGE_EVIDENCE"
	StateTriage            = "TRIAGE"
	StateClaimCreate       = "CLAIM_CREATE"
	StateNextSteps         = "NEXT_STEPS"
	StateHandoffEscalation = "HANDOFF_ESCALATION"
)

// Message is one turn in the conversation transcript.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// PolicyMatchData records the outcome of policy identification.
// Status is one of: pending, matched, guest, failed.
type PolicyMatchData struct {
	Status        string          `json:"status"`
	PolicyID      string          `json:"policy_id,omitempty"`
	PolicyNumber  string          `json:"policy_number,omitempty"`
	Method        string          `json:"method,omitempty"`
	Confidence    float64         `json:"confidence"`
	HolderName    string          `json:"holder_name,omitempty"`
	State         string          `json:"state,omitempty"`
	EffectiveDate *time.Time      `json:"effective_date,omitempty"`
	Vehicles      []PolicyVehicle `json:"vehicles,omitempty"`
	Drivers       []PolicyDriver  `json:"drivers,omitempty"`
}

// PolicyVehicle is a vehicle listed on the matched policy.
type PolicyVehicle struct {
	VehicleID    string `json:"vehicle_id"`
	Year         int    `json:"year,omitempty"`
	Make         string `json:"make,omitempty"`
	Model        string `json:"model,omitempty"`
	Color        string `json:"color,omitempty"`
	VIN          string `json:"vin,omitempty"`
	LicensePlate string `json:"license_plate,omitempty"`
	LicenseState string `json:"license_state,omitempty"`
}

// PolicyDriver is a driver listed on the matched policy.
type PolicyDriver struct {
	DriverID  string `json:"driver_id"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// IncidentData holds the core loss facts.
type IncidentData struct {
	LossType           string  `json:"loss_type,omitempty"`
	LossSubtype        string  `json:"loss_subtype,omitempty"`
	Date               string  `json:"date,omitempty"`
	Time               string  `json:"time,omitempty"`
	TimeApproximate    bool    `json:"time_approximate,omitempty"`
	LocationRaw        string  `json:"location_raw,omitempty"`
	LocationNormalized string  `json:"location_normalized,omitempty"`
	Lat                float64 `json:"lat,omitempty"`
	Lng                float64 `json:"lng,omitempty"`
	CrossBorder        bool    `json:"cross_border,omitempty"`
	Description        string  `json:"description,omitempty"`
}

// VehicleData is a vehicle involved in the incident.
// Role is insured, third_party or unknown; Drivable is yes, no or unknown.
type VehicleData struct {
	VehicleID       string `json:"vehicle_id"`
	Role            string `json:"role"`
	VIN             string `json:"vin,omitempty"`
	Year            int    `json:"year,omitempty"`
	Make            string `json:"make,omitempty"`
	Model           string `json:"model,omitempty"`
	Color           string `json:"color,omitempty"`
	LicensePlate    string `json:"license_plate,omitempty"`
	LicenseState    string `json:"license_state,omitempty"`
	FromPolicy      bool   `json:"from_policy,omitempty"`
	PolicyVehicleID string `json:"policy_vehicle_id,omitempty"`
	Drivable        string `json:"drivable,omitempty"`
	CurrentLocation string `json:"current_location,omitempty"`
	TowNeeded       bool   `json:"tow_needed,omitempty"`
	IsRental        bool   `json:"is_rental,omitempty"`
	RentalCompany   string `json:"rental_company,omitempty"`
}

// PartyData is a person involved in the incident.
// Role values include insured_driver, tp_driver, passenger, witness,
// injured_party and property_owner.
type PartyData struct {
	PartyID               string `json:"party_id"`
	Role                  string `json:"role"`
	VehicleID             string `json:"vehicle_id,omitempty"`
	FirstName             string `json:"first_name,omitempty"`
	LastName              string `json:"last_name,omitempty"`
	Phone                 string `json:"phone,omitempty"`
	Email                 string `json:"email,omitempty"`
	DOB                   string `json:"dob,omitempty"`
	DriversLicense        string `json:"drivers_license,omitempty"`
	LicenseState          string `json:"license_state,omitempty"`
	RelationshipToInsured string `json:"relationship_to_insured,omitempty"`
	HasPermission         bool   `json:"has_permission,omitempty"`
	InsuranceCarrier      string `json:"insurance_carrier,omitempty"`
	InsurancePolicyNumber string `json:"insurance_policy_number,omitempty"`
	InsuranceStatus       string `json:"insurance_status,omitempty"`
	IsUnknown             bool   `json:"is_unknown,omitempty"`
	UnknownDescription    string `json:"unknown_description,omitempty"`
}

// ImpactData describes a point of impact between vehicles or objects.
type ImpactData struct {
	ImpactID    string `json:"impact_id"`
	VehicleID   string `json:"vehicle_id,omitempty"`
	ImpactPoint string `json:"impact_point,omitempty"`
	Description string `json:"description,omitempty"`
}

// InjuryData records one reported injury.
// Severity: none, unknown, minor, moderate, severe, fatal.
// TreatmentLevel: none, onsite, urgent_care, er, admitted.
type InjuryData struct {
	InjuryID        string `json:"injury_id"`
	PartyID         string `json:"party_id,omitempty"`
	Severity        string `json:"severity,omitempty"`
	TreatmentLevel  string `json:"treatment_level,omitempty"`
	BodyPart        string `json:"body_part,omitempty"`
	Description     string `json:"description,omitempty"`
	AmbulanceCalled bool   `json:"ambulance_called,omitempty"`
	Hospitalized    bool   `json:"hospitalized,omitempty"`
	HospitalName    string `json:"hospital_name,omitempty"`
}

// DamageData records one reported damage item.
type DamageData struct {
	DamageID          string  `json:"damage_id"`
	VehicleID         string  `json:"vehicle_id,omitempty"`
	DamageType        string  `json:"damage_type,omitempty"`
	DamageArea        string  `json:"damage_area,omitempty"`
	Description       string  `json:"description,omitempty"`
	EstimatedAmount   float64 `json:"estimated_amount,omitempty"`
	PreExisting       bool    `json:"pre_existing,omitempty"`
	PropertyType      string  `json:"property_type,omitempty"`
	PropertyOwnerName string  `json:"property_owner_name,omitempty"`
}

// EvidenceData tracks one requested or uploaded piece of evidence.
// UploadStatus: pending, uploaded, verified, failed.
type EvidenceData struct {
	EvidenceID   string `json:"evidence_id"`
	EvidenceType string `json:"evidence_type"`
	Subtype      string `json:"subtype,omitempty"`
	Description  string `json:"description,omitempty"`
	UploadStatus string `json:"upload_status"`
	DocumentID   string `json:"document_id,omitempty"`
}

// PoliceData records law-enforcement involvement.
type PoliceData struct {
	Contacted      bool   `json:"contacted,omitempty"`
	ReportFiled    bool   `json:"report_filed,omitempty"`
	ReportNumber   string `json:"report_number,omitempty"`
	Agency         string `json:"agency,omitempty"`
	OfficerName    string `json:"officer_name,omitempty"`
	OfficerBadge   string `json:"officer_badge,omitempty"`
	CitationIssued bool   `json:"citation_issued,omitempty"`
	DUISuspected   bool   `json:"dui_suspected,omitempty"`
}

// TriageResult is the routing decision produced by the triage engine.
// Route is one of: stp, adjuster, siu_review, emergency.
type TriageResult struct {
	Route       string   `json:"route"`
	Score       int      `json:"score"`
	Reasons     []string `json:"reasons"`
	Flags       []string `json:"flags"`
	RuleVersion string   `json:"rule_version"`
}

// UIHints tells a rendering front-end how to present the pending question.
type UIHints struct {
	InputType    string     `json:"input_type,omitempty"`
	Options      []UIOption `json:"options,omitempty"`
	Placeholder  string     `json:"placeholder,omitempty"`
	Validation   string     `json:"validation,omitempty"`
	ShowProgress bool       `json:"show_progress"`
	ShowSummary  bool       `json:"show_summary"`
	AllowSkip    bool       `json:"allow_skip,omitempty"`
}

// UIOption is one selectable answer for a select or yes/no question.
type UIOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// AuditEvent is one append-only record of a state mutation or decision.
type AuditEvent struct {
	EventID      string    `json:"event_id"`
	Timestamp    time.Time `json:"timestamp"`
	State        string    `json:"state"`
	Step         string    `json:"step,omitempty"`
	Action       string    `json:"action"`
	Actor        string    `json:"actor"`
	FieldChanged string    `json:"field_changed,omitempty"`
	DataBefore   any       `json:"data_before,omitempty"`
	DataAfter    any       `json:"data_after,omitempty"`
	Confidence   float64   `json:"confidence,omitempty"`
	UserInput    string    `json:"user_input,omitempty"`
}

// EscalationRecord captures a handoff to a human queue.
type EscalationRecord struct {
	EscalationID   string         `json:"escalation_id"`
	EscalationType string         `json:"escalation_type"`
	Queue          string         `json:"queue"`
	Priority       string         `json:"priority"`
	SLAMinutes     int            `json:"sla_minutes"`
	Reason         string         `json:"reason,omitempty"`
	CallbackNumber string         `json:"callback_number,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	Context        map[string]any `json:"context,omitempty"`
}

// State is the complete serializable record of one intake conversation.
type State struct {
	ThreadID     string `json:"thread_id"`
	UserID       string `json:"user_id,omitempty"`
	ClaimDraftID string `json:"claim_draft_id,omitempty"`
	ClaimNumber  string `json:"claim_number,omitempty"`

	CurrentState    string         `json:"current_state"`
	PreviousState   string         `json:"previous_state,omitempty"`
	StateStep       string         `json:"state_step"`
	StateData       map[string]any `json:"state_data"`
	CompletedStates []string       `json:"completed_states"`

	Messages     []Message `json:"messages"`
	CurrentInput string    `json:"current_input,omitempty"`
	AIResponse   string    `json:"ai_response,omitempty"`

	DetectedScenarios []DetectedScenario `json:"detected_scenarios,omitempty"`
	ActivePlaybooks   []string           `json:"active_playbooks,omitempty"`
	PlaybookQuestions []map[string]any   `json:"playbook_questions,omitempty"`
	PlaybookData      map[string]any     `json:"playbook_data,omitempty"`

	PolicyMatch PolicyMatchData `json:"policy_match"`
	Incident    IncidentData    `json:"incident"`
	Vehicles    []VehicleData   `json:"vehicles"`
	Parties     []PartyData     `json:"parties"`
	Impacts     []ImpactData    `json:"impacts,omitempty"`
	Injuries    []InjuryData    `json:"injuries"`
	Damages     []DamageData    `json:"damages"`
	Evidence    []EvidenceData  `json:"evidence"`
	Police      PoliceData      `json:"police"`

	SafetyConfirmed   bool   `json:"safety_confirmed"`
	EmergencyDetected bool   `json:"emergency_detected"`
	EmergencyType     string `json:"emergency_type,omitempty"`

	Triage       *TriageResult     `json:"triage_result,omitempty"`
	Escalation   *EscalationRecord `json:"escalation,omitempty"`
	StateHistory []AuditEvent      `json:"state_history"`

	Consents            map[string]bool `json:"consents,omitempty"`
	FraudAcknowledgment bool            `json:"fraud_acknowledgment"`

	NeedsUserInput       bool     `json:"needs_user_input"`
	PendingQuestion      string   `json:"pending_question,omitempty"`
	PendingQuestionField string   `json:"pending_question_field,omitempty"`
	ValidationErrors     []string `json:"validation_errors,omitempty"`
	ShouldEscalate       bool     `json:"should_escalate"`
	EscalationReason     string   `json:"escalation_reason,omitempty"`
	IsComplete           bool     `json:"is_complete"`
	UIHints              UIHints  `json:"ui_hints"`

	ProgressPercent int       `json:"progress_percent"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DetectedScenario is one playbook detection hit with its confidence.
type DetectedScenario struct {
	PlaybookID string  `json:"playbook_id"`
	Confidence float64 `json:"confidence"`
}
