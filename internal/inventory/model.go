package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryMedication          Category = "medication"
	CategorySurgicalInstruments Category = "surgical_instruments"
	CategoryDiagnosticEquipment Category = "diagnostic_equipment"
	CategoryConsumables         Category = "consumables"
	CategoryProtectiveEquipment Category = "protective_equipment"
	CategoryEmergencySupplies   Category = "emergency_supplies"
)

type SupplyStatus string

const (
	StatusAvailable  SupplyStatus = "available"
	StatusLowStock   SupplyStatus = "low_stock"
	StatusOutOfStock SupplyStatus = "out_of_stock"
	StatusExpired    SupplyStatus = "expired"
	StatusDamaged    SupplyStatus = "damaged"
	StatusRecalled   SupplyStatus = "recalled"
)

// Supply is a medical supply or equipment record. Identifiers follow the
// MS#### scheme. Status is derived from stock levels and the expiry date;
// Damaged and Recalled are set manually and stick until cleared.
type Supply struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	Category        Category        `json:"category"`
	Manufacturer    string          `json:"manufacturer,omitempty"`
	BatchNumber     string          `json:"batch_number,omitempty"`
	CurrentStock    int             `json:"current_stock"`
	MinimumStock    int             `json:"minimum_stock"`
	MaximumStock    int             `json:"maximum_stock,omitempty"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Unit            string          `json:"unit,omitempty"`
	ExpiryDate      *time.Time      `json:"expiry_date,omitempty"`
	LastRestockedAt time.Time       `json:"last_restocked_at"`
	Supplier        string          `json:"supplier,omitempty"`
	StorageLocation string          `json:"storage_location,omitempty"`
	Status          SupplyStatus    `json:"status"`
	Active          bool            `json:"active"`
}

func (s Supply) EntityID() string { return s.ID }

// DeriveStatus recomputes the stock/expiry status. Expired takes precedence
// over the stock-based states. Damaged and Recalled are manual states and
// are left untouched.
func (s *Supply) DeriveStatus(now time.Time) {
	if s.Status == StatusDamaged || s.Status == StatusRecalled {
		return
	}
	switch {
	case s.IsExpired(now):
		s.Status = StatusExpired
	case s.CurrentStock <= 0:
		s.Status = StatusOutOfStock
	case s.CurrentStock <= s.MinimumStock:
		s.Status = StatusLowStock
	default:
		s.Status = StatusAvailable
	}
}

func (s Supply) IsExpired(now time.Time) bool {
	return s.ExpiryDate != nil && s.ExpiryDate.Before(now)
}

func (s Supply) IsLowStock() bool {
	return s.CurrentStock <= s.MinimumStock
}

func (s Supply) IsOutOfStock() bool {
	return s.CurrentStock <= 0
}
