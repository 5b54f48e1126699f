// Seeds the clinic with plausible demo data through the regular services so
// every invariant (identifier schemes, conflict checks, derived statuses)
// holds in the generated set.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/medidesk/clinic-records/internal/audit"
	"github.com/medidesk/clinic-records/internal/billing"
	"github.com/medidesk/clinic-records/internal/config"
	"github.com/medidesk/clinic-records/internal/ehr"
	"github.com/medidesk/clinic-records/internal/inventory"
	"github.com/medidesk/clinic-records/internal/patient"
	"github.com/medidesk/clinic-records/internal/repo"
	"github.com/medidesk/clinic-records/internal/scheduling"
	"github.com/medidesk/clinic-records/internal/staff"
	"github.com/medidesk/clinic-records/internal/storage"
)

var specialties = []string{
	"Dermatology",
	"Cardiology",
	"General Practice",
	"Orthopedics",
	"Endocrinology",
	"Neurology",
	"Pediatrics",
	"Psychiatry",
	"Ophthalmology",
	"ENT",
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Logger()
	log.Info().Str("store", cfg.Store).Msg("seed starting")

	ctx := context.Background()

	var store storage.Store
	var appender storage.Appender
	if cfg.Store == config.StoreSQLite {
		db, err := storage.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return fmt.Errorf("open sqlite store: %w", err)
		}
		defer db.Close()
		store, appender = db, db
	} else {
		fs, err := storage.NewFileStore(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("open file store: %w", err)
		}
		store, appender = fs, fs
	}

	patientsRepo, err := repo.New[patient.Patient](ctx, store, "patients")
	if err != nil {
		return err
	}
	doctorsRepo, err := repo.New[staff.Doctor](ctx, store, "doctors")
	if err != nil {
		return err
	}
	staffRepo, err := repo.New[staff.Staff](ctx, store, "staff")
	if err != nil {
		return err
	}
	apptRepo, err := repo.New[scheduling.Appointment](ctx, store, "appointments")
	if err != nil {
		return err
	}
	billsRepo, err := repo.New[billing.Bill](ctx, store, "bills")
	if err != nil {
		return err
	}
	recordsRepo, err := repo.New[ehr.HealthRecord](ctx, store, "healthrecords")
	if err != nil {
		return err
	}
	suppliesRepo, err := repo.New[inventory.Supply](ctx, store, "supplies")
	if err != nil {
		return err
	}

	rec := audit.NewRecorder(appender, log)
	patientSvc := patient.NewService(patientsRepo, log)
	staffSvc := staff.NewService(doctorsRepo, staffRepo, log)
	scheduleSvc := scheduling.NewService(apptRepo, patientSvc, staffSvc, rec, log, scheduling.Config{
		OpenHour:  cfg.BusinessOpenHour,
		CloseHour: cfg.BusinessCloseHour,
		Duration:  cfg.AppointmentDuration,
	})
	billingSvc := billing.NewService(billsRepo, patientSvc, scheduleSvc, rec, log, cfg.BillDueTerm)
	recordSvc := ehr.NewService(recordsRepo, patientSvc, staffSvc, rec, log)
	inventorySvc := inventory.NewService(suppliesRepo, rec, log, cfg.ExpirySoonWindow)

	gofakeit.Seed(time.Now().UnixNano())

	doctors, err := seedDoctors(ctx, staffSvc, 5)
	if err != nil {
		return fmt.Errorf("seed doctors: %w", err)
	}
	if err := seedStaff(ctx, staffSvc, 3); err != nil {
		return fmt.Errorf("seed staff: %w", err)
	}
	patients, err := seedPatients(ctx, patientSvc, 20)
	if err != nil {
		return fmt.Errorf("seed patients: %w", err)
	}
	if err := seedSupplies(ctx, inventorySvc); err != nil {
		return fmt.Errorf("seed supplies: %w", err)
	}
	if err := seedAppointments(ctx, scheduleSvc, cfg, patients, doctors); err != nil {
		return fmt.Errorf("seed appointments: %w", err)
	}
	if err := seedRecords(ctx, recordSvc, patients, doctors); err != nil {
		return fmt.Errorf("seed health records: %w", err)
	}
	if err := seedBills(ctx, billingSvc, patients); err != nil {
		return fmt.Errorf("seed bills: %w", err)
	}

	log.Info().Msg("seed complete")
	return nil
}

func seedDoctors(ctx context.Context, svc *staff.Service, count int) ([]staff.Doctor, error) {
	out := make([]staff.Doctor, 0, count)
	for i := 0; i < count; i++ {
		d, err := svc.AddDoctor(ctx, staff.Doctor{
			FirstName:       gofakeit.FirstName(),
			LastName:        gofakeit.LastName(),
			Specialization:  specialties[gofakeit.Number(0, len(specialties)-1)],
			Qualification:   "MD",
			Phone:           gofakeit.Phone(),
			Email:           gofakeit.Email(),
			ConsultationFee: decimal.NewFromInt(int64(gofakeit.Number(8, 40) * 10)),
			ExperienceYears: gofakeit.Number(2, 30),
		})
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func seedStaff(ctx context.Context, svc *staff.Service, count int) error {
	roles := []string{"Nurse", "Receptionist", "Lab Technician"}
	for i := 0; i < count; i++ {
		_, err := svc.AddStaff(ctx, staff.Staff{
			FirstName: gofakeit.FirstName(),
			LastName:  gofakeit.LastName(),
			Role:      roles[i%len(roles)],
			Phone:     gofakeit.Phone(),
			Email:     gofakeit.Email(),
			Salary:    decimal.NewFromInt(int64(gofakeit.Number(300, 600) * 10)),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func seedPatients(ctx context.Context, svc *patient.Service, count int) ([]patient.Patient, error) {
	bloodGroups := []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}
	out := make([]patient.Patient, 0, count)
	for i := 0; i < count; i++ {
		p, err := svc.Register(ctx, patient.Patient{
			FirstName:   gofakeit.FirstName(),
			LastName:    gofakeit.LastName(),
			DateOfBirth: gofakeit.DateRange(time.Now().AddDate(-80, 0, 0), time.Now().AddDate(-18, 0, 0)),
			Gender:      gofakeit.Gender(),
			Phone:       gofakeit.Phone(),
			Email:       gofakeit.Email(),
			Address:     gofakeit.Street(),
			BloodGroup:  bloodGroups[gofakeit.Number(0, len(bloodGroups)-1)],
		})
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func seedSupplies(ctx context.Context, svc *inventory.Service) error {
	soon := time.Now().Add(14 * 24 * time.Hour)
	nextYear := time.Now().AddDate(1, 0, 0)

	supplies := []inventory.Supply{
		{Name: "Surgical gloves", Category: inventory.CategoryConsumables, CurrentStock: 500, MinimumStock: 100, UnitPrice: decimal.NewFromFloat(0.35), ExpiryDate: &nextYear},
		{Name: "Paracetamol 500mg", Category: inventory.CategoryMedication, CurrentStock: 80, MinimumStock: 100, UnitPrice: decimal.NewFromFloat(0.10), ExpiryDate: &soon},
		{Name: "Syringes 5ml", Category: inventory.CategoryConsumables, CurrentStock: 0, MinimumStock: 50, UnitPrice: decimal.NewFromFloat(0.22)},
		{Name: "Stethoscope", Category: inventory.CategoryDiagnosticEquipment, CurrentStock: 12, MinimumStock: 2, UnitPrice: decimal.NewFromInt(85)},
		{Name: "Face masks", Category: inventory.CategoryProtectiveEquipment, CurrentStock: 1200, MinimumStock: 300, UnitPrice: decimal.NewFromFloat(0.15), ExpiryDate: &nextYear},
	}
	for _, s := range supplies {
		if _, err := svc.Add(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// seedAppointments books every patient into the next few working days, one
// doctor per slot so the conflict checks all pass.
func seedAppointments(ctx context.Context, svc *scheduling.Service, cfg config.Config, patients []patient.Patient, doctors []staff.Doctor) error {
	reasons := []string{"General check-up", "Follow-up visit", "Chest pain", "Skin rash", "Back pain", "Vaccination"}

	day := time.Now().AddDate(0, 0, 1)
	slot := time.Date(day.Year(), day.Month(), day.Day(), cfg.BusinessOpenHour, 0, 0, 0, time.Local)

	for i, p := range patients {
		doctor := doctors[i%len(doctors)]
		if i > 0 && i%len(doctors) == 0 {
			slot = slot.Add(cfg.AppointmentDuration)
			if slot.Hour() >= cfg.BusinessCloseHour-1 {
				day = day.AddDate(0, 0, 1)
				slot = time.Date(day.Year(), day.Month(), day.Day(), cfg.BusinessOpenHour, 0, 0, 0, time.Local)
			}
		}
		_, err := svc.Schedule(ctx, scheduling.Appointment{
			PatientID: p.ID,
			DoctorID:  doctor.ID,
			StartTime: slot,
			Reason:    reasons[gofakeit.Number(0, len(reasons)-1)],
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// seedBills invoices a handful of patients and settles some of them so the
// billing queries have every payment status represented.
func seedBills(ctx context.Context, svc *billing.Service, patients []patient.Patient) error {
	services := []struct {
		desc  string
		price decimal.Decimal
	}{
		{"Consultation fee", decimal.NewFromInt(150)},
		{"Blood panel", decimal.NewFromFloat(45.50)},
		{"X-ray", decimal.NewFromInt(120)},
		{"ECG", decimal.NewFromInt(90)},
	}

	for i, p := range patients {
		if i%4 != 0 {
			continue
		}
		item := services[gofakeit.Number(0, len(services)-1)]
		bill := billing.Bill{PatientID: p.ID}
		bill.AddItem(item.desc, 1, item.price)
		created, err := svc.Create(ctx, bill)
		if err != nil {
			return err
		}
		switch i % 3 {
		case 0:
			if _, err := svc.ProcessPayment(ctx, created.ID, created.Total, "card"); err != nil {
				return err
			}
		case 1:
			if _, err := svc.ProcessPayment(ctx, created.ID, created.Total.Div(decimal.NewFromInt(2)).Round(2), "cash"); err != nil {
				return err
			}
		}
	}
	return nil
}

func seedRecords(ctx context.Context, svc *ehr.Service, patients []patient.Patient, doctors []staff.Doctor) error {
	diagnoses := []string{"Migraine", "Hypertension", "Type 2 diabetes", "Seasonal allergies", "Bronchitis"}
	for i, p := range patients {
		if i%3 != 0 {
			continue
		}
		_, err := svc.Add(ctx, ehr.HealthRecord{
			PatientID:      p.ID,
			DoctorID:       doctors[i%len(doctors)].ID,
			VisitDate:      time.Now().AddDate(0, 0, -gofakeit.Number(7, 180)),
			ChiefComplaint: gofakeit.Sentence(4),
			Diagnosis:      diagnoses[gofakeit.Number(0, len(diagnoses)-1)],
			Treatment:      gofakeit.Sentence(6),
		})
		if err != nil {
			return err
		}
	}
	return nil
}
