package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/medidesk/clinic-records/internal/audit"
	"github.com/medidesk/clinic-records/internal/patient"
	"github.com/medidesk/clinic-records/internal/repo"
	"github.com/medidesk/clinic-records/internal/scheduling"
)

const (
	idPrefix = "B"
	idWidth  = 4
)

const (
	EventBillCreated   = "BILL_CREATED"
	EventBillPaid      = "BILL_PAYMENT"
	EventBillCancelled = "BILL_CANCELLED"
)

var (
	ErrInvalidID             = errors.New("bill id must be B followed by four digits")
	ErrNotFound              = errors.New("bill not found")
	ErrPatientNotFound       = errors.New("patient not found")
	ErrAppointmentNotFound   = errors.New("appointment not found")
	ErrBillExists            = errors.New("a bill already exists for this appointment")
	ErrNoItems               = errors.New("bill needs at least one line item")
	ErrInvalidItem           = errors.New("line items need a positive quantity and a non-negative unit price")
	ErrNegativeAmount        = errors.New("tax and discount cannot be negative")
	ErrInvalidPayment        = errors.New("payment amount must be positive")
	ErrPaymentExceedsBalance = errors.New("payment amount cannot exceed the outstanding balance")
	ErrBillCancelled         = errors.New("bill is cancelled")
)

// PatientDirectory is the slice of the patient service billing needs.
type PatientDirectory interface {
	FindPatient(id string) (patient.Patient, bool)
}

// AppointmentDirectory resolves appointment references when billing a visit.
type AppointmentDirectory interface {
	FindAppointment(id string) (scheduling.Appointment, bool)
}

type Service struct {
	bills        *repo.Repository[Bill]
	patients     PatientDirectory
	appointments AppointmentDirectory
	rec          *audit.Recorder
	log          zerolog.Logger
	dueTerm      time.Duration

	now func() time.Time
}

func NewService(bills *repo.Repository[Bill], patients PatientDirectory, appointments AppointmentDirectory, rec *audit.Recorder, log zerolog.Logger, dueTerm time.Duration) *Service {
	if dueTerm <= 0 {
		dueTerm = 30 * 24 * time.Hour
	}
	return &Service{
		bills:        bills,
		patients:     patients,
		appointments: appointments,
		rec:          rec,
		log:          log,
		dueTerm:      dueTerm,
		now:          time.Now,
	}
}

// Create validates and stores a new bill. Amounts are derived before the
// write so the stored record always satisfies balance = total - paid.
func (s *Service) Create(ctx context.Context, bill Bill) (Bill, error) {
	if bill.ID == "" {
		bill.ID = s.bills.NextID(idPrefix, idWidth)
	}
	if !repo.ValidID(bill.ID, idPrefix, idWidth) {
		return Bill{}, fmt.Errorf("%w: %q", ErrInvalidID, bill.ID)
	}
	bill.ID = repo.NormalizeID(bill.ID)
	bill.PatientID = repo.NormalizeID(bill.PatientID)

	if _, ok := s.patients.FindPatient(bill.PatientID); !ok {
		return Bill{}, fmt.Errorf("%w: %s", ErrPatientNotFound, bill.PatientID)
	}
	if err := validateAmounts(bill); err != nil {
		return Bill{}, err
	}

	now := s.now()
	if bill.IssuedAt.IsZero() {
		bill.IssuedAt = now
	}
	if bill.DueAt.IsZero() {
		bill.DueAt = bill.IssuedAt.Add(s.dueTerm)
	}
	bill.Paid = decimal.Zero
	bill.Status = ""
	bill.Active = true
	bill.Recalculate(now)

	if err := s.bills.Add(ctx, bill); err != nil {
		return Bill{}, err
	}

	s.log.Info().Str("bill_id", bill.ID).Str("patient_id", bill.PatientID).Str("total", bill.Total.StringFixed(2)).Msg("bill created")
	s.rec.Record(ctx, EventBillCreated, bill.ID, map[string]any{
		"patient_id": bill.PatientID,
		"total":      bill.Total,
	})
	return bill, nil
}

// CreateFromAppointment opens a bill for a visit with the consultation fee
// as its first line item. One bill per appointment.
func (s *Service) CreateFromAppointment(ctx context.Context, appointmentID string) (Bill, error) {
	appointmentID = repo.NormalizeID(appointmentID)
	appt, ok := s.appointments.FindAppointment(appointmentID)
	if !ok {
		return Bill{}, fmt.Errorf("%w: %s", ErrAppointmentNotFound, appointmentID)
	}
	if _, ok := s.FindByAppointment(appointmentID); ok {
		return Bill{}, fmt.Errorf("%w: %s", ErrBillExists, appointmentID)
	}

	bill := Bill{
		PatientID:     appt.PatientID,
		AppointmentID: appt.ID,
	}
	bill.AddItem("Consultation fee", 1, appt.ConsultationFee)
	return s.Create(ctx, bill)
}

// Update replaces an existing bill after re-validating and re-deriving its
// amounts. The paid amount carries over from the stored record.
func (s *Service) Update(ctx context.Context, bill Bill) (Bill, error) {
	bill.ID = repo.NormalizeID(bill.ID)
	existing, ok := s.bills.FindByID(bill.ID)
	if !ok {
		return Bill{}, fmt.Errorf("%w: %s", ErrNotFound, bill.ID)
	}
	if err := validateAmounts(bill); err != nil {
		return Bill{}, err
	}

	bill.Paid = existing.Paid
	bill.IssuedAt = existing.IssuedAt
	if bill.DueAt.IsZero() {
		bill.DueAt = existing.DueAt
	}
	bill.Status = existing.Status
	bill.Active = existing.Active
	bill.Recalculate(s.now())

	if err := s.bills.Replace(ctx, bill.ID, bill); err != nil {
		return Bill{}, err
	}
	return bill, nil
}

// ProcessPayment applies a payment to a bill. The amount must be positive
// and must not exceed the outstanding balance.
func (s *Service) ProcessPayment(ctx context.Context, billID string, amount decimal.Decimal, method string) (Bill, error) {
	bill, ok := s.bills.FindByID(billID)
	if !ok {
		return Bill{}, fmt.Errorf("%w: %s", ErrNotFound, billID)
	}
	if bill.Status == PaymentCancelled {
		return Bill{}, fmt.Errorf("%w: %s", ErrBillCancelled, bill.ID)
	}
	if !amount.IsPositive() {
		return Bill{}, fmt.Errorf("%w: %s", ErrInvalidPayment, amount)
	}
	if amount.GreaterThan(bill.Balance) {
		return Bill{}, fmt.Errorf("%w: %s > %s", ErrPaymentExceedsBalance, amount.StringFixed(2), bill.Balance.StringFixed(2))
	}

	bill.Paid = bill.Paid.Add(amount)
	if strings.TrimSpace(method) != "" {
		bill.PaymentMethod = method
	}
	bill.Recalculate(s.now())

	if err := s.bills.Replace(ctx, bill.ID, bill); err != nil {
		return Bill{}, err
	}

	s.log.Info().Str("bill_id", bill.ID).Str("amount", amount.StringFixed(2)).Str("status", string(bill.Status)).Msg("payment processed")
	s.rec.Record(ctx, EventBillPaid, bill.ID, map[string]any{
		"amount":  amount,
		"balance": bill.Balance,
	})
	return bill, nil
}

// Cancel voids a bill. Cancelled is terminal; amounts stop being derived.
func (s *Service) Cancel(ctx context.Context, billID string) error {
	bill, ok := s.bills.FindByID(billID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, billID)
	}
	if bill.Status == PaymentCancelled {
		return fmt.Errorf("%w: %s", ErrBillCancelled, bill.ID)
	}

	bill.Status = PaymentCancelled
	bill.Active = false
	if err := s.bills.Replace(ctx, bill.ID, bill); err != nil {
		return err
	}
	s.rec.Record(ctx, EventBillCancelled, bill.ID, nil)
	return nil
}

func (s *Service) FindBill(id string) (Bill, bool) {
	return s.bills.FindByID(id)
}

// FindByAppointment returns the bill referencing an appointment, if any.
func (s *Service) FindByAppointment(appointmentID string) (Bill, bool) {
	want := repo.NormalizeID(appointmentID)
	for _, bill := range s.bills.All() {
		if repo.NormalizeID(bill.AppointmentID) == want {
			return bill, true
		}
	}
	return Bill{}, false
}

func (s *Service) ByPatient(patientID string) []Bill {
	want := repo.NormalizeID(patientID)
	var out []Bill
	for _, bill := range s.bills.All() {
		if repo.NormalizeID(bill.PatientID) == want {
			out = append(out, bill)
		}
	}
	return out
}

// Unpaid returns active bills with an outstanding balance.
func (s *Service) Unpaid() []Bill {
	var out []Bill
	for _, bill := range s.bills.All() {
		if bill.Active && bill.Status != PaymentCancelled && bill.Balance.IsPositive() {
			out = append(out, bill)
		}
	}
	return out
}

// Overdue returns active bills past their due date with a balance.
func (s *Service) Overdue() []Bill {
	now := s.now()
	var out []Bill
	for _, bill := range s.bills.All() {
		if bill.Active && bill.Status != PaymentCancelled && bill.IsOverdue(now) {
			out = append(out, bill)
		}
	}
	return out
}

func (s *Service) PaidBills() []Bill {
	var out []Bill
	for _, bill := range s.bills.All() {
		if bill.IsPaid() {
			out = append(out, bill)
		}
	}
	return out
}

// Invoice renders a plain-text invoice for the bill.
func (s *Service) Invoice(billID string) (string, error) {
	bill, ok := s.bills.FindByID(billID)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, billID)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "INVOICE %s\n", bill.ID)
	fmt.Fprintf(&sb, "Patient: %s\n", bill.PatientID)
	if bill.AppointmentID != "" {
		fmt.Fprintf(&sb, "Appointment: %s\n", bill.AppointmentID)
	}
	fmt.Fprintf(&sb, "Issued: %s  Due: %s\n\n", bill.IssuedAt.Format("2006-01-02"), bill.DueAt.Format("2006-01-02"))

	for _, item := range bill.Items {
		fmt.Fprintf(&sb, "%-32s %3d x %10s = %10s\n", item.Description, item.Quantity, item.UnitPrice.StringFixed(2), item.Total().StringFixed(2))
	}
	fmt.Fprintf(&sb, "\n%-20s %10s\n", "Subtotal", bill.Subtotal.StringFixed(2))
	fmt.Fprintf(&sb, "%-20s %10s\n", "Tax", bill.Tax.StringFixed(2))
	fmt.Fprintf(&sb, "%-20s %10s\n", "Discount", bill.Discount.StringFixed(2))
	fmt.Fprintf(&sb, "%-20s %10s\n", "Total", bill.Total.StringFixed(2))
	fmt.Fprintf(&sb, "%-20s %10s\n", "Paid", bill.Paid.StringFixed(2))
	fmt.Fprintf(&sb, "%-20s %10s\n", "Balance", bill.Balance.StringFixed(2))
	fmt.Fprintf(&sb, "Status: %s\n", bill.Status)
	return sb.String(), nil
}

func validateAmounts(bill Bill) error {
	if len(bill.Items) == 0 {
		return ErrNoItems
	}
	for _, item := range bill.Items {
		if item.Quantity <= 0 || item.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: %q", ErrInvalidItem, item.Description)
		}
	}
	if bill.Tax.IsNegative() || bill.Discount.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}
