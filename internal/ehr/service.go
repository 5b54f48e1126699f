package ehr

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/medidesk/clinic-records/internal/audit"
	"github.com/medidesk/clinic-records/internal/patient"
	"github.com/medidesk/clinic-records/internal/repo"
	"github.com/medidesk/clinic-records/internal/staff"
)

const (
	idPrefix = "HR"
	idWidth  = 4
)

const (
	EventRecordAdded   = "RECORD_ADDED"
	EventRecordUpdated = "RECORD_UPDATED"
)

var (
	ErrInvalidID        = errors.New("record id must be HR followed by four digits")
	ErrNotFound         = errors.New("health record not found")
	ErrPatientNotFound  = errors.New("patient not found")
	ErrDoctorNotFound   = errors.New("doctor not found")
	ErrMissingDiagnosis = errors.New("diagnosis is required")
	ErrMissingVisitDate = errors.New("visit date is required")
)

// PatientDirectory resolves patient references on visit records.
type PatientDirectory interface {
	FindPatient(id string) (patient.Patient, bool)
}

// DoctorDirectory resolves the attending doctor.
type DoctorDirectory interface {
	FindDoctor(id string) (staff.Doctor, bool)
}

type Service struct {
	records  *repo.Repository[HealthRecord]
	patients PatientDirectory
	doctors  DoctorDirectory
	rec      *audit.Recorder
	log      zerolog.Logger

	now func() time.Time
}

func NewService(records *repo.Repository[HealthRecord], patients PatientDirectory, doctors DoctorDirectory, rec *audit.Recorder, log zerolog.Logger) *Service {
	return &Service{
		records:  records,
		patients: patients,
		doctors:  doctors,
		rec:      rec,
		log:      log,
		now:      time.Now,
	}
}

// Add validates and stores a new visit record.
func (s *Service) Add(ctx context.Context, record HealthRecord) (HealthRecord, error) {
	if record.ID == "" {
		record.ID = s.records.NextID(idPrefix, idWidth)
	}
	if !repo.ValidID(record.ID, idPrefix, idWidth) {
		return HealthRecord{}, fmt.Errorf("%w: %q", ErrInvalidID, record.ID)
	}
	record.ID = repo.NormalizeID(record.ID)
	record.PatientID = repo.NormalizeID(record.PatientID)
	record.DoctorID = repo.NormalizeID(record.DoctorID)

	if err := s.validate(record); err != nil {
		return HealthRecord{}, err
	}

	now := s.now()
	record.CreatedAt = now
	record.UpdatedAt = now
	record.Active = true

	if err := s.records.Add(ctx, record); err != nil {
		return HealthRecord{}, err
	}

	s.log.Info().
		Str("record_id", record.ID).
		Str("patient_id", record.PatientID).
		Str("doctor_id", record.DoctorID).
		Msg("health record added")
	s.rec.Record(ctx, EventRecordAdded, record.ID, map[string]any{
		"patient_id": record.PatientID,
		"doctor_id":  record.DoctorID,
		"diagnosis":  record.Diagnosis,
	})
	return record, nil
}

// Update replaces an existing record. Creation time carries over.
func (s *Service) Update(ctx context.Context, record HealthRecord) (HealthRecord, error) {
	record.ID = repo.NormalizeID(record.ID)
	existing, ok := s.records.FindByID(record.ID)
	if !ok {
		return HealthRecord{}, fmt.Errorf("%w: %s", ErrNotFound, record.ID)
	}
	record.PatientID = repo.NormalizeID(record.PatientID)
	record.DoctorID = repo.NormalizeID(record.DoctorID)
	if err := s.validate(record); err != nil {
		return HealthRecord{}, err
	}

	record.CreatedAt = existing.CreatedAt
	record.UpdatedAt = s.now()
	record.Active = existing.Active

	if err := s.records.Replace(ctx, record.ID, record); err != nil {
		return HealthRecord{}, err
	}
	s.rec.Record(ctx, EventRecordUpdated, record.ID, nil)
	return record, nil
}

// Deactivate retires a record without deleting it.
func (s *Service) Deactivate(ctx context.Context, recordID string) error {
	record, ok := s.records.FindByID(recordID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, recordID)
	}
	record.Active = false
	record.UpdatedAt = s.now()
	return s.records.Replace(ctx, record.ID, record)
}

func (s *Service) FindRecord(id string) (HealthRecord, bool) {
	return s.records.FindByID(id)
}

// ByPatient returns a patient's visit records, most recent first.
func (s *Service) ByPatient(patientID string) []HealthRecord {
	want := repo.NormalizeID(patientID)
	var out []HealthRecord
	for _, r := range s.records.All() {
		if r.Active && r.PatientID == want {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VisitDate.After(out[j].VisitDate) })
	return out
}

func (s *Service) ByDoctor(doctorID string) []HealthRecord {
	want := repo.NormalizeID(doctorID)
	var out []HealthRecord
	for _, r := range s.records.All() {
		if r.Active && r.DoctorID == want {
			out = append(out, r)
		}
	}
	return out
}

// SearchByDiagnosis matches diagnoses case-insensitively on a substring.
func (s *Service) SearchByDiagnosis(query string) []HealthRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []HealthRecord
	for _, r := range s.records.All() {
		if r.Active && strings.Contains(strings.ToLower(r.Diagnosis), q) {
			out = append(out, r)
		}
	}
	return out
}

// FollowUpsDue returns records flagged for follow-up whose next visit date
// has arrived or was never set.
func (s *Service) FollowUpsDue() []HealthRecord {
	now := s.now()
	var out []HealthRecord
	for _, r := range s.records.All() {
		if r.Active && r.NeedsFollowUp(now) {
			out = append(out, r)
		}
	}
	return out
}

// HistorySummary renders a patient's visit history as plain text, most
// recent visit first.
func (s *Service) HistorySummary(patientID string) (string, error) {
	want := repo.NormalizeID(patientID)
	if _, ok := s.patients.FindPatient(want); !ok {
		return "", fmt.Errorf("%w: %s", ErrPatientNotFound, want)
	}

	records := s.ByPatient(want)
	var sb strings.Builder
	fmt.Fprintf(&sb, "Medical history for %s (%d visits)\n", want, len(records))
	for _, r := range records {
		fmt.Fprintf(&sb, "\n%s  %s  doctor %s\n", r.VisitDate.Format("2006-01-02"), r.ID, r.DoctorID)
		fmt.Fprintf(&sb, "  Complaint: %s\n", r.ChiefComplaint)
		fmt.Fprintf(&sb, "  Diagnosis: %s\n", r.Diagnosis)
		if r.Treatment != "" {
			fmt.Fprintf(&sb, "  Treatment: %s\n", r.Treatment)
		}
		for _, p := range r.Prescriptions {
			fmt.Fprintf(&sb, "  Rx: %s %s %s\n", p.Medication, p.Dosage, p.Frequency)
		}
		if r.FollowUp {
			if r.NextVisitDate != nil {
				fmt.Fprintf(&sb, "  Follow-up: %s\n", r.NextVisitDate.Format("2006-01-02"))
			} else {
				sb.WriteString("  Follow-up: to be scheduled\n")
			}
		}
	}
	return sb.String(), nil
}

func (s *Service) validate(record HealthRecord) error {
	if _, ok := s.patients.FindPatient(record.PatientID); !ok {
		return fmt.Errorf("%w: %s", ErrPatientNotFound, record.PatientID)
	}
	if _, ok := s.doctors.FindDoctor(record.DoctorID); !ok {
		return fmt.Errorf("%w: %s", ErrDoctorNotFound, record.DoctorID)
	}
	if strings.TrimSpace(record.Diagnosis) == "" {
		return ErrMissingDiagnosis
	}
	if record.VisitDate.IsZero() {
		return ErrMissingVisitDate
	}
	return nil
}
