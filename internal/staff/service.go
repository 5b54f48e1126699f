package staff

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/medidesk/clinic-records/internal/repo"
)

const (
	doctorPrefix = "D"
	staffPrefix  = "S"
	idWidth      = 4
)

var (
	ErrInvalidDoctorID = errors.New("doctor id must be D followed by four digits")
	ErrInvalidStaffID  = errors.New("staff id must be S followed by four digits")
	ErrMissingName     = errors.New("first and last name are required")
	ErrNegativeFee     = errors.New("consultation fee cannot be negative")
	ErrDoctorNotFound  = errors.New("doctor not found")
	ErrStaffNotFound   = errors.New("staff member not found")
)

// Service owns both the doctor and the staff collections. The scheduling
// engine consumes only FindDoctor.
type Service struct {
	doctors *repo.Repository[Doctor]
	staff   *repo.Repository[Staff]
	log     zerolog.Logger
}

func NewService(doctors *repo.Repository[Doctor], staff *repo.Repository[Staff], log zerolog.Logger) *Service {
	return &Service{doctors: doctors, staff: staff, log: log}
}

func (s *Service) AddDoctor(ctx context.Context, d Doctor) (Doctor, error) {
	if d.ID == "" {
		d.ID = s.doctors.NextID(doctorPrefix, idWidth)
	}
	if !repo.ValidID(d.ID, doctorPrefix, idWidth) {
		return Doctor{}, fmt.Errorf("%w: %q", ErrInvalidDoctorID, d.ID)
	}
	if strings.TrimSpace(d.FirstName) == "" || strings.TrimSpace(d.LastName) == "" {
		return Doctor{}, ErrMissingName
	}
	if d.ConsultationFee.IsNegative() {
		return Doctor{}, ErrNegativeFee
	}

	d.ID = repo.NormalizeID(d.ID)
	if d.JoinedAt.IsZero() {
		d.JoinedAt = time.Now()
	}
	d.Available = true

	if err := s.doctors.Add(ctx, d); err != nil {
		return Doctor{}, err
	}
	s.log.Info().Str("doctor_id", d.ID).Str("specialization", d.Specialization).Msg("doctor added")
	return d, nil
}

func (s *Service) UpdateDoctor(ctx context.Context, d Doctor) error {
	if _, ok := s.doctors.FindByID(d.ID); !ok {
		return fmt.Errorf("%w: %s", ErrDoctorNotFound, d.ID)
	}
	if d.ConsultationFee.IsNegative() {
		return ErrNegativeFee
	}
	d.ID = repo.NormalizeID(d.ID)
	return s.doctors.Replace(ctx, d.ID, d)
}

// SetDoctorAvailability toggles whether a doctor accepts new appointments.
func (s *Service) SetDoctorAvailability(ctx context.Context, id string, available bool) error {
	d, ok := s.doctors.FindByID(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrDoctorNotFound, id)
	}
	d.Available = available
	return s.doctors.Replace(ctx, d.ID, d)
}

// FindDoctor looks a doctor up by identifier.
func (s *Service) FindDoctor(id string) (Doctor, bool) {
	return s.doctors.FindByID(id)
}

func (s *Service) ListDoctors() []Doctor {
	return s.doctors.All()
}

// DoctorsBySpecialization matches case-insensitively on the specialization
// field, available doctors only.
func (s *Service) DoctorsBySpecialization(specialization string) []Doctor {
	specialization = strings.ToLower(strings.TrimSpace(specialization))
	var out []Doctor
	for _, d := range s.doctors.All() {
		if d.Available && strings.Contains(strings.ToLower(d.Specialization), specialization) {
			out = append(out, d)
		}
	}
	return out
}

func (s *Service) AddStaff(ctx context.Context, m Staff) (Staff, error) {
	if m.ID == "" {
		m.ID = s.staff.NextID(staffPrefix, idWidth)
	}
	if !repo.ValidID(m.ID, staffPrefix, idWidth) {
		return Staff{}, fmt.Errorf("%w: %q", ErrInvalidStaffID, m.ID)
	}
	if strings.TrimSpace(m.FirstName) == "" || strings.TrimSpace(m.LastName) == "" {
		return Staff{}, ErrMissingName
	}

	m.ID = repo.NormalizeID(m.ID)
	if m.HiredAt.IsZero() {
		m.HiredAt = time.Now()
	}
	m.Active = true

	if err := s.staff.Add(ctx, m); err != nil {
		return Staff{}, err
	}
	s.log.Info().Str("staff_id", m.ID).Str("role", m.Role).Msg("staff member added")
	return m, nil
}

func (s *Service) FindStaff(id string) (Staff, bool) {
	return s.staff.FindByID(id)
}

func (s *Service) ListStaff() []Staff {
	var out []Staff
	for _, m := range s.staff.All() {
		if m.Active {
			out = append(out, m)
		}
	}
	return out
}

func (s *Service) DeactivateStaff(ctx context.Context, id string) error {
	m, ok := s.staff.FindByID(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrStaffNotFound, id)
	}
	m.Active = false
	return s.staff.Replace(ctx, m.ID, m)
}
