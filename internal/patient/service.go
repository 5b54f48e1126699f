package patient

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
	idPrefix = "P"
	idWidth  = 4
)

var (
	ErrInvalidID   = errors.New("patient id must be P followed by four digits")
	ErrMissingName = errors.New("patient first and last name are required")
	ErrNotFound    = errors.New("patient not found")
)

type Service struct {
	patients *repo.Repository[Patient]
	log      zerolog.Logger
}

func NewService(patients *repo.Repository[Patient], log zerolog.Logger) *Service {
	return &Service{patients: patients, log: log}
}

// Register stores a new patient. An empty ID is allocated from the
// collection; a provided one must match the P#### scheme.
func (s *Service) Register(ctx context.Context, p Patient) (Patient, error) {
	if p.ID == "" {
		p.ID = s.patients.NextID(idPrefix, idWidth)
	}
	if !repo.ValidID(p.ID, idPrefix, idWidth) {
		return Patient{}, fmt.Errorf("%w: %q", ErrInvalidID, p.ID)
	}
	if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" {
		return Patient{}, ErrMissingName
	}

	p.ID = repo.NormalizeID(p.ID)
	if p.RegisteredAt.IsZero() {
		p.RegisteredAt = time.Now()
	}
	p.Active = true

	if err := s.patients.Add(ctx, p); err != nil {
		return Patient{}, err
	}
	s.log.Info().Str("patient_id", p.ID).Msg("patient registered")
	return p, nil
}

// Update replaces an existing patient record.
func (s *Service) Update(ctx context.Context, p Patient) error {
	if _, ok := s.patients.FindByID(p.ID); !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, p.ID)
	}
	if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" {
		return ErrMissingName
	}
	p.ID = repo.NormalizeID(p.ID)
	return s.patients.Replace(ctx, p.ID, p)
}

// Deactivate marks a patient inactive; records are never deleted.
func (s *Service) Deactivate(ctx context.Context, id string) error {
	p, ok := s.patients.FindByID(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	p.Active = false
	return s.patients.Replace(ctx, p.ID, p)
}

// FindPatient looks a patient up by identifier.
func (s *Service) FindPatient(id string) (Patient, bool) {
	return s.patients.FindByID(id)
}

// SearchByName matches active patients whose full name contains the query,
// case-insensitive.
func (s *Service) SearchByName(query string) []Patient {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	var out []Patient
	for _, p := range s.patients.All() {
		if p.Active && strings.Contains(strings.ToLower(p.FullName()), query) {
			out = append(out, p)
		}
	}
	return out
}

// ListActive returns all active patients.
func (s *Service) ListActive() []Patient {
	var out []Patient
	for _, p := range s.patients.All() {
		if p.Active {
			out = append(out, p)
		}
	}
	return out
}

// NextID previews the next patient identifier.
func (s *Service) NextID() string {
	return s.patients.NextID(idPrefix, idWidth)
}
