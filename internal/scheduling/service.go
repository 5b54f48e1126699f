package scheduling

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
	idPrefix = "A"
	idWidth  = 4
)

const (
	EventAppointmentScheduled = "APPOINTMENT_SCHEDULED"
	EventAppointmentUpdated   = "APPOINTMENT_UPDATED"
	EventAppointmentConfirmed = "APPOINTMENT_CONFIRMED"
	EventAppointmentCancelled = "APPOINTMENT_CANCELLED"
	EventAppointmentCompleted = "APPOINTMENT_COMPLETED"
)

var (
	ErrInvalidID            = errors.New("appointment id must be A followed by four digits")
	ErrNotFound             = errors.New("appointment not found")
	ErrPatientNotFound      = errors.New("patient not found")
	ErrDoctorNotFound       = errors.New("doctor not found")
	ErrNotInFuture          = errors.New("appointment time must be in the future")
	ErrOutsideBusinessHours = errors.New("appointment time is outside business hours")
	ErrTimeSlotTaken        = errors.New("doctor already has an appointment in this time slot")
	ErrCannotCancel         = errors.New("appointment cannot be cancelled in its current status")
	ErrCannotConfirm        = errors.New("only scheduled appointments can be confirmed")
	ErrCannotComplete       = errors.New("appointment cannot be completed in its current status")
)

// PatientDirectory is the slice of the patient service the engine needs for
// referential checks.
type PatientDirectory interface {
	FindPatient(id string) (patient.Patient, bool)
}

// DoctorDirectory is the slice of the staff service the engine needs.
type DoctorDirectory interface {
	FindDoctor(id string) (staff.Doctor, bool)
}

// Config bounds the bookable window and fixes the slot length.
type Config struct {
	OpenHour  int
	CloseHour int
	Duration  time.Duration
}

// Service is the scheduling engine: identifier allocation, temporal and
// referential validation, conflict detection and the appointment lifecycle.
type Service struct {
	appointments *repo.Repository[Appointment]
	patients     PatientDirectory
	doctors      DoctorDirectory
	rec          *audit.Recorder
	log          zerolog.Logger
	cfg          Config

	now func() time.Time
}

func NewService(appointments *repo.Repository[Appointment], patients PatientDirectory, doctors DoctorDirectory, rec *audit.Recorder, log zerolog.Logger, cfg Config) *Service {
	if cfg.Duration <= 0 {
		cfg.Duration = 30 * time.Minute
	}
	if cfg.CloseHour == 0 {
		cfg.OpenHour, cfg.CloseHour = 8, 18
	}
	return &Service{
		appointments: appointments,
		patients:     patients,
		doctors:      doctors,
		rec:          rec,
		log:          log,
		cfg:          cfg,
		now:          time.Now,
	}
}

// Schedule validates and stores a new appointment. An empty ID is allocated
// from the collection. No mutation happens unless every check passes.
func (s *Service) Schedule(ctx context.Context, appt Appointment) (Appointment, error) {
	if appt.ID == "" {
		appt.ID = s.appointments.NextID(idPrefix, idWidth)
	}
	if !repo.ValidID(appt.ID, idPrefix, idWidth) {
		return Appointment{}, fmt.Errorf("%w: %q", ErrInvalidID, appt.ID)
	}
	appt.ID = repo.NormalizeID(appt.ID)

	if _, ok := s.appointments.FindByID(appt.ID); ok {
		return Appointment{}, fmt.Errorf("%w: %s", repo.ErrDuplicateID, appt.ID)
	}

	validated, err := s.validate(appt)
	if err != nil {
		return Appointment{}, err
	}

	if HasConflict(s.appointments.All(), validated.DoctorID, validated.StartTime, s.cfg.Duration, "") {
		return Appointment{}, fmt.Errorf("%w: doctor %s at %s", ErrTimeSlotTaken, validated.DoctorID, validated.StartTime.Format("2006-01-02 15:04"))
	}

	now := s.now()
	validated.Status = StatusScheduled
	validated.CreatedAt = now
	validated.UpdatedAt = now

	if err := s.appointments.Add(ctx, validated); err != nil {
		return Appointment{}, err
	}

	s.log.Info().Str("appointment_id", validated.ID).Str("doctor_id", validated.DoctorID).Time("start", validated.StartTime).Msg("appointment scheduled")
	s.rec.Record(ctx, EventAppointmentScheduled, validated.ID, map[string]any{
		"patient_id": validated.PatientID,
		"doctor_id":  validated.DoctorID,
		"start_time": validated.StartTime,
	})
	return validated, nil
}

// Update re-runs every schedule-time validation against the new values,
// checking conflicts with the appointment's own slot excluded.
func (s *Service) Update(ctx context.Context, appt Appointment) (Appointment, error) {
	appt.ID = repo.NormalizeID(appt.ID)
	existing, ok := s.appointments.FindByID(appt.ID)
	if !ok {
		return Appointment{}, fmt.Errorf("%w: %s", ErrNotFound, appt.ID)
	}

	validated, err := s.validate(appt)
	if err != nil {
		return Appointment{}, err
	}

	if HasConflict(s.appointments.All(), validated.DoctorID, validated.StartTime, s.cfg.Duration, validated.ID) {
		return Appointment{}, fmt.Errorf("%w: doctor %s at %s", ErrTimeSlotTaken, validated.DoctorID, validated.StartTime.Format("2006-01-02 15:04"))
	}

	validated.Status = existing.Status
	validated.CreatedAt = existing.CreatedAt
	validated.UpdatedAt = s.now()

	if err := s.appointments.Replace(ctx, validated.ID, validated); err != nil {
		return Appointment{}, err
	}

	s.rec.Record(ctx, EventAppointmentUpdated, validated.ID, map[string]any{
		"start_time": validated.StartTime,
		"doctor_id":  validated.DoctorID,
	})
	return validated, nil
}

// Confirm moves a scheduled appointment to confirmed.
func (s *Service) Confirm(ctx context.Context, id string) error {
	appt, ok := s.appointments.FindByID(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if appt.Status != StatusScheduled {
		return fmt.Errorf("%w: status is %s", ErrCannotConfirm, appt.Status)
	}

	appt.Status = StatusConfirmed
	appt.UpdatedAt = s.now()
	if err := s.appointments.Replace(ctx, appt.ID, appt); err != nil {
		return err
	}
	s.rec.Record(ctx, EventAppointmentConfirmed, appt.ID, nil)
	return nil
}

// Cancel releases the doctor's slot. Only scheduled or confirmed
// appointments can be cancelled.
func (s *Service) Cancel(ctx context.Context, id string) error {
	appt, ok := s.appointments.FindByID(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if !appt.CanBeCancelled() {
		return fmt.Errorf("%w: status is %s", ErrCannotCancel, appt.Status)
	}

	appt.Status = StatusCancelled
	appt.UpdatedAt = s.now()
	if err := s.appointments.Replace(ctx, appt.ID, appt); err != nil {
		return err
	}

	s.log.Info().Str("appointment_id", appt.ID).Msg("appointment cancelled")
	s.rec.Record(ctx, EventAppointmentCancelled, appt.ID, nil)
	return nil
}

// Complete closes out a visit, attaching notes when provided. Terminal
// statuses cannot be completed again.
func (s *Service) Complete(ctx context.Context, id, notes string) error {
	appt, ok := s.appointments.FindByID(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if !appt.CanBeCompleted() {
		return fmt.Errorf("%w: status is %s", ErrCannotComplete, appt.Status)
	}

	appt.Status = StatusCompleted
	if strings.TrimSpace(notes) != "" {
		appt.Notes = notes
	}
	appt.UpdatedAt = s.now()
	if err := s.appointments.Replace(ctx, appt.ID, appt); err != nil {
		return err
	}

	s.log.Info().Str("appointment_id", appt.ID).Msg("appointment completed")
	s.rec.Record(ctx, EventAppointmentCompleted, appt.ID, nil)
	return nil
}

// FindAppointment looks an appointment up by identifier.
func (s *Service) FindAppointment(id string) (Appointment, bool) {
	return s.appointments.FindByID(id)
}

// ByPatient returns all appointments for a patient, any status.
func (s *Service) ByPatient(patientID string) []Appointment {
	want := repo.NormalizeID(patientID)
	var out []Appointment
	for _, appt := range s.appointments.All() {
		if repo.NormalizeID(appt.PatientID) == want {
			out = append(out, appt)
		}
	}
	return out
}

// ByDoctor returns all appointments for a doctor, any status.
func (s *Service) ByDoctor(doctorID string) []Appointment {
	want := repo.NormalizeID(doctorID)
	var out []Appointment
	for _, appt := range s.appointments.All() {
		if repo.NormalizeID(appt.DoctorID) == want {
			out = append(out, appt)
		}
	}
	return out
}

// OnDate returns appointments whose start falls on the given calendar day.
func (s *Service) OnDate(date time.Time) []Appointment {
	y, m, d := date.Date()
	var out []Appointment
	for _, appt := range s.appointments.All() {
		ay, am, ad := appt.StartTime.Date()
		if ay == y && am == m && ad == d {
			out = append(out, appt)
		}
	}
	return out
}

// Upcoming returns active appointments starting strictly after now, soonest
// first.
func (s *Service) Upcoming() []Appointment {
	now := s.now()
	var out []Appointment
	for _, appt := range s.appointments.All() {
		if appt.IsUpcoming(now) {
			out = append(out, appt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

// Today returns all of today's appointments.
func (s *Service) Today() []Appointment {
	return s.OnDate(s.now())
}

// Counts tallies appointments by status.
func (s *Service) Counts() map[Status]int {
	counts := make(map[Status]int)
	for _, appt := range s.appointments.All() {
		counts[appt.Status]++
	}
	return counts
}

// validate runs the schedule-time checks shared by Schedule and Update and
// copies the doctor's consultation fee onto the appointment.
func (s *Service) validate(appt Appointment) (Appointment, error) {
	if !repo.ValidID(appt.PatientID, "P", idWidth) {
		return Appointment{}, fmt.Errorf("%w: invalid patient id %q", ErrPatientNotFound, appt.PatientID)
	}
	if !repo.ValidID(appt.DoctorID, "D", idWidth) {
		return Appointment{}, fmt.Errorf("%w: invalid doctor id %q", ErrDoctorNotFound, appt.DoctorID)
	}

	now := s.now()
	if !appt.StartTime.After(now) {
		return Appointment{}, fmt.Errorf("%w: %s", ErrNotInFuture, appt.StartTime.Format("2006-01-02 15:04"))
	}
	hour := appt.StartTime.Hour()
	if hour < s.cfg.OpenHour || hour >= s.cfg.CloseHour {
		return Appointment{}, fmt.Errorf("%w: hour %d not in [%d,%d)", ErrOutsideBusinessHours, hour, s.cfg.OpenHour, s.cfg.CloseHour)
	}

	appt.PatientID = repo.NormalizeID(appt.PatientID)
	appt.DoctorID = repo.NormalizeID(appt.DoctorID)

	if _, ok := s.patients.FindPatient(appt.PatientID); !ok {
		return Appointment{}, fmt.Errorf("%w: %s", ErrPatientNotFound, appt.PatientID)
	}
	doctor, ok := s.doctors.FindDoctor(appt.DoctorID)
	if !ok {
		return Appointment{}, fmt.Errorf("%w: %s", ErrDoctorNotFound, appt.DoctorID)
	}
	appt.ConsultationFee = doctor.ConsultationFee

	return appt, nil
}
