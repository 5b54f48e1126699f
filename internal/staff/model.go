package staff

import (
	"time"

	"github.com/shopspring/decimal"
)

// Doctor is a consulting practitioner. Identifiers follow the D#### scheme.
type Doctor struct {
	ID              string          `json:"id"`
	FirstName       string          `json:"first_name"`
	LastName        string          `json:"last_name"`
	Specialization  string          `json:"specialization,omitempty"`
	Qualification   string          `json:"qualification,omitempty"`
	Phone           string          `json:"phone,omitempty"`
	Email           string          `json:"email,omitempty"`
	Department      string          `json:"department,omitempty"`
	ConsultationFee decimal.Decimal `json:"consultation_fee"`
	WorkingDays     []string        `json:"working_days,omitempty"`
	ExperienceYears int             `json:"experience_years,omitempty"`
	LicenseNumber   string          `json:"license_number,omitempty"`
	Available       bool            `json:"available"`
	JoinedAt        time.Time       `json:"joined_at"`
}

func (d Doctor) EntityID() string { return d.ID }

func (d Doctor) FullName() string {
	return d.FirstName + " " + d.LastName
}

// Staff is a non-doctor employee. Identifiers follow the S#### scheme.
type Staff struct {
	ID            string          `json:"id"`
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	Role          string          `json:"role,omitempty"`
	Department    string          `json:"department,omitempty"`
	Phone         string          `json:"phone,omitempty"`
	Email         string          `json:"email,omitempty"`
	HiredAt       time.Time       `json:"hired_at"`
	Salary        decimal.Decimal `json:"salary"`
	Qualification string          `json:"qualification,omitempty"`
	LicenseNumber string          `json:"license_number,omitempty"`
	Active        bool            `json:"active"`
}

func (s Staff) EntityID() string { return s.ID }

func (s Staff) FullName() string {
	return s.FirstName + " " + s.LastName
}
