package ehr

import "time"

// Prescription is one prescribed medication on a visit record.
type Prescription struct {
	Medication   string `json:"medication"`
	Dosage       string `json:"dosage,omitempty"`
	Frequency    string `json:"frequency,omitempty"`
	DurationDays int    `json:"duration_days,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

// Vitals captures the measurements taken during a visit.
type Vitals struct {
	TemperatureC  float64 `json:"temperature_c,omitempty"`
	BloodPressure string  `json:"blood_pressure,omitempty"`
	HeartRate     int     `json:"heart_rate,omitempty"`
	WeightKg      float64 `json:"weight_kg,omitempty"`
	HeightCm      float64 `json:"height_cm,omitempty"`
}

// HealthRecord documents a single patient visit. Identifiers follow the
// HR#### scheme.
type HealthRecord struct {
	ID             string         `json:"id"`
	PatientID      string         `json:"patient_id"`
	DoctorID       string         `json:"doctor_id"`
	VisitDate      time.Time      `json:"visit_date"`
	ChiefComplaint string         `json:"chief_complaint"`
	Symptoms       []string       `json:"symptoms,omitempty"`
	Diagnosis      string         `json:"diagnosis"`
	Treatment      string         `json:"treatment,omitempty"`
	Prescriptions  []Prescription `json:"prescriptions,omitempty"`
	Vitals         Vitals         `json:"vitals,omitempty"`
	LabResults     string         `json:"lab_results,omitempty"`
	Notes          string         `json:"notes,omitempty"`
	FollowUp       bool           `json:"follow_up"`
	NextVisitDate  *time.Time     `json:"next_visit_date,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	Active         bool           `json:"active"`
}

func (r HealthRecord) EntityID() string { return r.ID }

// NeedsFollowUp reports whether a follow-up visit is due: flagged records
// whose next visit date is unset or not in the future.
func (r HealthRecord) NeedsFollowUp(now time.Time) bool {
	if !r.FollowUp {
		return false
	}
	return r.NextVisitDate == nil || !r.NextVisitDate.After(now)
}
