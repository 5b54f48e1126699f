package patient

import "time"

// Patient is a clinic patient record. Identifiers follow the P#### scheme.
type Patient struct {
	ID               string    `json:"id"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	DateOfBirth      time.Time `json:"date_of_birth"`
	Gender           string    `json:"gender,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	Email            string    `json:"email,omitempty"`
	Address          string    `json:"address,omitempty"`
	EmergencyContact string    `json:"emergency_contact,omitempty"`
	EmergencyPhone   string    `json:"emergency_phone,omitempty"`
	BloodGroup       string    `json:"blood_group,omitempty"`
	Allergies        []string  `json:"allergies,omitempty"`
	InsuranceNumber  string    `json:"insurance_number,omitempty"`
	RegisteredAt     time.Time `json:"registered_at"`
	Active           bool      `json:"active"`
}

func (p Patient) EntityID() string { return p.ID }

func (p Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}
