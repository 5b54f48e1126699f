package patient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/medidesk/clinic-records/internal/repo"
	"github.com/medidesk/clinic-records/internal/storage"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	patients, err := repo.New[Patient](context.Background(), storage.NewMemStore(), "patients")
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	return NewService(patients, zerolog.Nop())
}

func TestRegisterAllocatesSequentialIDs(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.Register(ctx, Patient{FirstName: "Ada", LastName: "Lovelace", DateOfBirth: time.Date(1990, 3, 1, 0, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if first.ID != "P0001" {
		t.Errorf("first id = %q, want P0001", first.ID)
	}

	second, err := svc.Register(ctx, Patient{FirstName: "Grace", LastName: "Hopper"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if second.ID != "P0002" {
		t.Errorf("second id = %q, want P0002", second.ID)
	}
	if !second.Active {
		t.Error("registered patient must be active")
	}
}

func TestRegisterRejectsBadID(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Register(context.Background(), Patient{ID: "X123", FirstName: "Ada", LastName: "Lovelace"})
	if !errors.Is(err, ErrInvalidID) {
		t.Fatalf("err = %v, want ErrInvalidID", err)
	}
}

func TestRegisterRejectsMissingName(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Register(context.Background(), Patient{FirstName: "  "})
	if !errors.Is(err, ErrMissingName) {
		t.Fatalf("err = %v, want ErrMissingName", err)
	}
}

func TestDeactivateHidesFromActiveList(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, err := svc.Register(ctx, Patient{FirstName: "Ada", LastName: "Lovelace"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.Deactivate(ctx, p.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	if got := svc.ListActive(); len(got) != 0 {
		t.Errorf("active patients = %d, want 0", len(got))
	}
	// Still findable by ID: soft lifecycle.
	if _, ok := svc.FindPatient(p.ID); !ok {
		t.Error("deactivated patient must remain findable")
	}
}

func TestSearchByName(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, Patient{FirstName: "Ada", LastName: "Lovelace"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, Patient{FirstName: "Grace", LastName: "Hopper"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	got := svc.SearchByName("love")
	if len(got) != 1 || got[0].LastName != "Lovelace" {
		t.Errorf("search = %v, want only Lovelace", got)
	}
	if got := svc.SearchByName(""); got != nil {
		t.Errorf("empty query = %v, want nil", got)
	}
}
