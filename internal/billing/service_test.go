package billing

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/medidesk/clinic-records/internal/audit"
	"github.com/medidesk/clinic-records/internal/patient"
	"github.com/medidesk/clinic-records/internal/repo"
	"github.com/medidesk/clinic-records/internal/scheduling"
	"github.com/medidesk/clinic-records/internal/storage"
)

type fakePatients map[string]patient.Patient

func (f fakePatients) FindPatient(id string) (patient.Patient, bool) {
	p, ok := f[id]
	return p, ok
}

type fakeAppointments map[string]scheduling.Appointment

func (f fakeAppointments) FindAppointment(id string) (scheduling.Appointment, bool) {
	a, ok := f[id]
	return a, ok
}

var testNow = time.Date(2025, 1, 9, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) *Service {
	t.Helper()
	bills, err := repo.New[Bill](context.Background(), storage.NewMemStore(), "bills")
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}

	patients := fakePatients{
		"P0001": {ID: "P0001", FirstName: "Ada", LastName: "Lovelace", Active: true},
	}
	appointments := fakeAppointments{
		"A0001": {
			ID:              "A0001",
			PatientID:       "P0001",
			DoctorID:        "D0001",
			Status:          scheduling.StatusCompleted,
			ConsultationFee: decimal.NewFromInt(150),
		},
	}

	svc := NewService(bills, patients, appointments, audit.NewRecorder(storage.NewMemStore(), zerolog.Nop()), zerolog.Nop(), 30*24*time.Hour)
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestCreateAndPayLifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	bill := Bill{PatientID: "P0001", Tax: dec("10.00")}
	bill.AddItem("Lab work", 2, dec("50.00"))

	created, err := svc.Create(ctx, bill)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != "B0001" {
		t.Errorf("id = %q, want B0001", created.ID)
	}
	if !created.Subtotal.Equal(dec("100.00")) || !created.Total.Equal(dec("110.00")) || !created.Balance.Equal(dec("110.00")) {
		t.Errorf("amounts = %s/%s/%s, want 100/110/110", created.Subtotal, created.Total, created.Balance)
	}
	if created.Status != PaymentPending {
		t.Errorf("status = %q, want pending", created.Status)
	}
	if !created.DueAt.Equal(testNow.Add(30 * 24 * time.Hour)) {
		t.Errorf("due = %s, want issue date + 30 days", created.DueAt)
	}

	paid, err := svc.ProcessPayment(ctx, created.ID, dec("110.00"), "card")
	if err != nil {
		t.Fatalf("process payment: %v", err)
	}
	if paid.Status != PaymentPaid {
		t.Errorf("status = %q, want paid", paid.Status)
	}
	if !paid.Balance.IsZero() {
		t.Errorf("balance = %s, want 0", paid.Balance)
	}

	// Paying beyond the balance must be rejected.
	_, err = svc.ProcessPayment(ctx, created.ID, dec("0.01"), "")
	if !errors.Is(err, ErrPaymentExceedsBalance) {
		t.Fatalf("err = %v, want ErrPaymentExceedsBalance", err)
	}
}

func TestPartialPayment(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	bill := Bill{PatientID: "P0001"}
	bill.AddItem("Consultation fee", 1, dec("150.00"))
	created, err := svc.Create(ctx, bill)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.ProcessPayment(ctx, created.ID, dec("50.00"), "cash")
	if err != nil {
		t.Fatalf("process payment: %v", err)
	}
	if got.Status != PaymentPartial {
		t.Errorf("status = %q, want partial", got.Status)
	}
	if !got.Balance.Equal(dec("100.00")) {
		t.Errorf("balance = %s, want 100.00", got.Balance)
	}
}

func TestPaymentValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	bill := Bill{PatientID: "P0001"}
	bill.AddItem("x", 1, dec("10"))
	created, err := svc.Create(ctx, bill)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.ProcessPayment(ctx, created.ID, decimal.Zero, ""); !errors.Is(err, ErrInvalidPayment) {
		t.Errorf("zero payment err = %v, want ErrInvalidPayment", err)
	}
	if _, err := svc.ProcessPayment(ctx, created.ID, dec("-5"), ""); !errors.Is(err, ErrInvalidPayment) {
		t.Errorf("negative payment err = %v, want ErrInvalidPayment", err)
	}
	if _, err := svc.ProcessPayment(ctx, "B0099", dec("5"), ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing bill err = %v, want ErrNotFound", err)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, Bill{PatientID: "P0099", Items: []BillItem{{Description: "x", Quantity: 1, UnitPrice: dec("1")}}}); !errors.Is(err, ErrPatientNotFound) {
		t.Errorf("unknown patient err = %v, want ErrPatientNotFound", err)
	}
	if _, err := svc.Create(ctx, Bill{PatientID: "P0001"}); !errors.Is(err, ErrNoItems) {
		t.Errorf("no items err = %v, want ErrNoItems", err)
	}

	bad := Bill{PatientID: "P0001"}
	bad.AddItem("x", 0, dec("1"))
	if _, err := svc.Create(ctx, bad); !errors.Is(err, ErrInvalidItem) {
		t.Errorf("zero quantity err = %v, want ErrInvalidItem", err)
	}

	negTax := Bill{PatientID: "P0001", Tax: dec("-1")}
	negTax.AddItem("x", 1, dec("1"))
	if _, err := svc.Create(ctx, negTax); !errors.Is(err, ErrNegativeAmount) {
		t.Errorf("negative tax err = %v, want ErrNegativeAmount", err)
	}
}

func TestCreateFromAppointment(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	bill, err := svc.CreateFromAppointment(ctx, "a0001")
	if err != nil {
		t.Fatalf("create from appointment: %v", err)
	}
	if bill.AppointmentID != "A0001" || bill.PatientID != "P0001" {
		t.Errorf("references = %s/%s, want A0001/P0001", bill.AppointmentID, bill.PatientID)
	}
	if len(bill.Items) != 1 || !bill.Items[0].UnitPrice.Equal(decimal.NewFromInt(150)) {
		t.Errorf("items = %v, want one consultation fee line at 150", bill.Items)
	}

	// Second bill for the same appointment is rejected.
	if _, err := svc.CreateFromAppointment(ctx, "A0001"); !errors.Is(err, ErrBillExists) {
		t.Fatalf("err = %v, want ErrBillExists", err)
	}

	if _, err := svc.CreateFromAppointment(ctx, "A0099"); !errors.Is(err, ErrAppointmentNotFound) {
		t.Fatalf("err = %v, want ErrAppointmentNotFound", err)
	}
}

func TestCancelIsTerminal(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	bill := Bill{PatientID: "P0001"}
	bill.AddItem("x", 1, dec("10"))
	created, err := svc.Create(ctx, bill)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Cancel(ctx, created.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := svc.Cancel(ctx, created.ID); !errors.Is(err, ErrBillCancelled) {
		t.Errorf("double cancel err = %v, want ErrBillCancelled", err)
	}
	if _, err := svc.ProcessPayment(ctx, created.ID, dec("5"), ""); !errors.Is(err, ErrBillCancelled) {
		t.Errorf("pay cancelled err = %v, want ErrBillCancelled", err)
	}
	if got := svc.Unpaid(); len(got) != 0 {
		t.Errorf("unpaid = %d, want 0 after cancel", len(got))
	}
}

func TestUnpaidAndOverdueQueries(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	open := Bill{PatientID: "P0001"}
	open.AddItem("x", 1, dec("10"))
	if _, err := svc.Create(ctx, open); err != nil {
		t.Fatalf("create: %v", err)
	}

	late := Bill{PatientID: "P0001", DueAt: testNow.Add(-time.Hour)}
	late.AddItem("y", 1, dec("20"))
	lateStored, err := svc.Create(ctx, late)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if lateStored.Status != PaymentOverdue {
		t.Errorf("status = %q, want overdue on creation past due date", lateStored.Status)
	}

	if got := svc.Unpaid(); len(got) != 2 {
		t.Errorf("unpaid = %d, want 2", len(got))
	}
	got := svc.Overdue()
	if len(got) != 1 || got[0].ID != lateStored.ID {
		t.Errorf("overdue = %v, want only %s", got, lateStored.ID)
	}
}

func TestInvoiceRendering(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	bill := Bill{PatientID: "P0001", Tax: dec("10.00")}
	bill.AddItem("Lab work", 2, dec("50.00"))
	created, err := svc.Create(ctx, bill)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	text, err := svc.Invoice(created.ID)
	if err != nil {
		t.Fatalf("invoice: %v", err)
	}
	for _, want := range []string{"INVOICE B0001", "Lab work", "110.00", "pending"} {
		if !strings.Contains(text, want) {
			t.Errorf("invoice missing %q:\n%s", want, text)
		}
	}
}
