package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/medidesk/clinic-records/internal/audit"
	"github.com/medidesk/clinic-records/internal/billing"
	"github.com/medidesk/clinic-records/internal/cli"
	"github.com/medidesk/clinic-records/internal/config"
	"github.com/medidesk/clinic-records/internal/ehr"
	"github.com/medidesk/clinic-records/internal/inventory"
	"github.com/medidesk/clinic-records/internal/patient"
	"github.com/medidesk/clinic-records/internal/repo"
	"github.com/medidesk/clinic-records/internal/scheduling"
	"github.com/medidesk/clinic-records/internal/staff"
	"github.com/medidesk/clinic-records/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "clinic: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	log.Info().Str("env", cfg.Env).Str("store", cfg.Store).Msg("clinic starting up")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, appender, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	patientsRepo, err := repo.New[patient.Patient](ctx, store, "patients")
	if err != nil {
		return fmt.Errorf("open patients: %w", err)
	}
	doctorsRepo, err := repo.New[staff.Doctor](ctx, store, "doctors")
	if err != nil {
		return fmt.Errorf("open doctors: %w", err)
	}
	staffRepo, err := repo.New[staff.Staff](ctx, store, "staff")
	if err != nil {
		return fmt.Errorf("open staff: %w", err)
	}
	apptRepo, err := repo.New[scheduling.Appointment](ctx, store, "appointments")
	if err != nil {
		return fmt.Errorf("open appointments: %w", err)
	}
	billsRepo, err := repo.New[billing.Bill](ctx, store, "bills")
	if err != nil {
		return fmt.Errorf("open bills: %w", err)
	}
	recordsRepo, err := repo.New[ehr.HealthRecord](ctx, store, "healthrecords")
	if err != nil {
		return fmt.Errorf("open health records: %w", err)
	}
	suppliesRepo, err := repo.New[inventory.Supply](ctx, store, "supplies")
	if err != nil {
		return fmt.Errorf("open supplies: %w", err)
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

	app := cli.New(patientSvc, staffSvc, scheduleSvc, billingSvc, recordSvc, inventorySvc, log, os.Stdin, os.Stdout)
	if err := app.Run(ctx); err != nil {
		return err
	}

	log.Info().Msg("clinic shutting down")
	return nil
}

func newLogger(cfg config.Config) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("parse LOG_LEVEL: %w", err)
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}

// openStore picks the configured backend. The returned close function is a
// no-op for the file store.
func openStore(cfg config.Config) (storage.Store, storage.Appender, func(), error) {
	switch cfg.Store {
	case config.StoreSQLite:
		db, err := storage.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return db, db, func() { _ = db.Close() }, nil
	default:
		fs, err := storage.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open file store: %w", err)
		}
		return fs, fs, func() {}, nil
	}
}
