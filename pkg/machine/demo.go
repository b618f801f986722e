package machine

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ormasoftchile/fnol/pkg/fnol"
	"github.com/ormasoftchile/fnol/pkg/states"
)

// DemoDirectory is an in-memory policy directory for local development and
// the demo front-ends. Any AUTO-prefixed policy number resolves; a complete
// phone + name + ZIP triple resolves to a fallback record.
type DemoDirectory struct {
	records map[string]*states.PolicyRecord
}

// NewDemoDirectory builds the directory with its built-in sample policies.
func NewDemoDirectory() *DemoDirectory {
	eff := time.Date(2022, 3, 15, 0, 0, 0, 0, time.UTC)
	primary := &states.PolicyRecord{
		PolicyID:      "pol-demo-001",
		PolicyNumber:  "AUTO-12345678",
		HolderName:    "John Smith",
		State:         "TX",
		EffectiveDate: &eff,
		Vehicles: []fnol.PolicyVehicle{{
			VehicleID:    "pv-demo-001",
			Year:         2022,
			Make:         "Honda",
			Model:        "Accord",
			Color:        "Blue",
			VIN:          "1HGBH41JXMN109186",
			LicensePlate: "ABC1234",
			LicenseState: "TX",
		}},
		Drivers: []fnol.PolicyDriver{{DriverID: "pd-demo-001", FirstName: "John", LastName: "Smith"}},
	}
	effAlt := time.Date(2023, 8, 1, 0, 0, 0, 0, time.UTC)
	secondary := &states.PolicyRecord{
		PolicyID:      "pol-demo-002",
		PolicyNumber:  "AUTO-DEMO-001",
		HolderName:    "Maria Garcia",
		State:         "CA",
		EffectiveDate: &effAlt,
		Vehicles: []fnol.PolicyVehicle{{
			VehicleID:    "pv-demo-002",
			Year:         2021,
			Make:         "Toyota",
			Model:        "Camry",
			Color:        "Silver",
			VIN:          "4T1BF1FK5MU123456",
			LicensePlate: "7XYZ123",
			LicenseState: "CA",
		}},
		Drivers: []fnol.PolicyDriver{{DriverID: "pd-demo-002", FirstName: "Maria", LastName: "Garcia"}},
	}
	return &DemoDirectory{records: map[string]*states.PolicyRecord{
		primary.PolicyID:   primary,
		secondary.PolicyID: secondary,
	}}
}

// LookupByID resolves a policy ID seeded on the session.
func (d *DemoDirectory) LookupByID(policyID string) (*states.PolicyRecord, bool) {
	rec, ok := d.records[policyID]
	return rec, ok
}

// LookupByNumber resolves AUTO-prefixed numbers; the demo accepts any such
// number as the primary sample policy.
func (d *DemoDirectory) LookupByNumber(policyNumber string) (*states.PolicyRecord, bool) {
	upper := strings.ToUpper(strings.TrimSpace(policyNumber))
	for _, rec := range d.records {
		if rec.PolicyNumber == upper {
			return rec, true
		}
	}
	if strings.HasPrefix(upper, "AUTO") {
		return d.records["pol-demo-001"], true
	}
	return nil, false
}

// LookupByPersonalInfo resolves any complete phone + name + ZIP triple to
// the secondary sample policy.
func (d *DemoDirectory) LookupByPersonalInfo(phone, name, zip string) (*states.PolicyRecord, bool) {
	if phone == "" || name == "" || zip == "" {
		return nil, false
	}
	return d.records["pol-demo-002"], true
}

// MemoryClaimStore files claim drafts in memory and hands out claim numbers
// in the FNOL-YYYY-NNNNNN format.
type MemoryClaimStore struct {
	mu     sync.Mutex
	now    func() time.Time
	drafts map[string]string
}

// NewMemoryClaimStore returns an empty store.
func NewMemoryClaimStore() *MemoryClaimStore {
	return &MemoryClaimStore{now: time.Now, drafts: map[string]string{}}
}

// CreateClaimDraft records the draft and returns its reference. The session's
// existing draft ID is kept so the caller's reference number stays stable.
func (st *MemoryClaimStore) CreateClaimDraft(s *fnol.State) (states.ClaimRef, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	draftID := s.ClaimDraftID
	if draftID == "" {
		draftID = uuid.NewString()
	}
	number, ok := st.drafts[draftID]
	if !ok {
		number = newClaimNumber(st.now())
		st.drafts[draftID] = number
	}
	return states.ClaimRef{ClaimDraftID: draftID, ClaimNumber: number}, nil
}

func newClaimNumber(now time.Time) string {
	hex := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("FNOL-%d-%s", now.Year(), hex[:6])
}
