package scheduling

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no_show"
)

// Appointment is a patient-doctor booking. Identifiers follow the A####
// scheme. Appointments are never deleted, only status-transitioned.
type Appointment struct {
	ID              string          `json:"id"`
	PatientID       string          `json:"patient_id"`
	DoctorID        string          `json:"doctor_id"`
	StartTime       time.Time       `json:"start_time"`
	Reason          string          `json:"reason,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	Status          Status          `json:"status"`
	ConsultationFee decimal.Decimal `json:"consultation_fee"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (a Appointment) EntityID() string { return a.ID }

// Active reports whether the appointment still holds its doctor's time slot.
func (a Appointment) Active() bool {
	return a.Status == StatusScheduled || a.Status == StatusConfirmed
}

func (a Appointment) CanBeCancelled() bool {
	return a.Status == StatusScheduled || a.Status == StatusConfirmed
}

func (a Appointment) CanBeRescheduled() bool {
	return a.Status == StatusScheduled || a.Status == StatusConfirmed
}

// CanBeCompleted guards the Completed transition. InProgress is included so
// a visit that was checked in can still be closed out.
func (a Appointment) CanBeCompleted() bool {
	return a.Status == StatusScheduled || a.Status == StatusConfirmed || a.Status == StatusInProgress
}

// IsUpcoming reports whether the appointment is still active and starts
// strictly after now.
func (a Appointment) IsUpcoming(now time.Time) bool {
	return a.Active() && a.StartTime.After(now)
}
