package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPartial   PaymentStatus = "partial"
	PaymentPaid      PaymentStatus = "paid"
	PaymentOverdue   PaymentStatus = "overdue"
	PaymentCancelled PaymentStatus = "cancelled"
)

type BillItem struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

func (i BillItem) Total() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Bill is a patient invoice. Identifiers follow the B#### scheme. Subtotal,
// Total, Balance and Status are derived; callers mutate Items, Tax, Discount
// and Paid and call Recalculate.
type Bill struct {
	ID            string          `json:"id"`
	PatientID     string          `json:"patient_id"`
	AppointmentID string          `json:"appointment_id,omitempty"`
	IssuedAt      time.Time       `json:"issued_at"`
	Items         []BillItem      `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	Paid          decimal.Decimal `json:"paid"`
	Balance       decimal.Decimal `json:"balance"`
	Status        PaymentStatus   `json:"status"`
	DueAt         time.Time       `json:"due_at"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	Active        bool            `json:"active"`
}

func (b Bill) EntityID() string { return b.ID }

// AddItem appends a line item. The caller recalculates afterwards.
func (b *Bill) AddItem(description string, quantity int, unitPrice decimal.Decimal) {
	b.Items = append(b.Items, BillItem{Description: description, Quantity: quantity, UnitPrice: unitPrice})
}

// RemoveItem drops the line item at index; out-of-range indexes are ignored.
func (b *Bill) RemoveItem(index int) {
	if index < 0 || index >= len(b.Items) {
		return
	}
	b.Items = append(b.Items[:index], b.Items[index+1:]...)
}

// Recalculate re-derives every amount and the payment status:
// subtotal = Σ(quantity × unit price), total = subtotal + tax − discount,
// balance = total − paid. Cancelled is sticky.
func (b *Bill) Recalculate(now time.Time) {
	subtotal := decimal.Zero
	for _, item := range b.Items {
		subtotal = subtotal.Add(item.Total())
	}
	b.Subtotal = subtotal
	b.Total = subtotal.Add(b.Tax).Sub(b.Discount)
	b.Balance = b.Total.Sub(b.Paid)
	if b.Status != PaymentCancelled {
		b.Status = derivePaymentStatus(b.Paid, b.Total, now, b.DueAt)
	}
}

// derivePaymentStatus is a pure function of (paid, total, now vs due date).
func derivePaymentStatus(paid, total decimal.Decimal, now, dueAt time.Time) PaymentStatus {
	switch {
	case paid.GreaterThanOrEqual(total):
		return PaymentPaid
	case paid.IsPositive():
		return PaymentPartial
	case now.After(dueAt):
		return PaymentOverdue
	default:
		return PaymentPending
	}
}

func (b Bill) IsPaid() bool {
	return b.Status == PaymentPaid
}

func (b Bill) IsOverdue(now time.Time) bool {
	return now.After(b.DueAt) && b.Balance.IsPositive()
}
