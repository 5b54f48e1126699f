package inventory

import (
	"testing"
	"time"
)

var modelNow = time.Date(2025, 1, 9, 12, 0, 0, 0, time.UTC)

func TestDeriveStatusPrecedence(t *testing.T) {
	past := modelNow.Add(-24 * time.Hour)
	future := modelNow.Add(90 * 24 * time.Hour)

	tests := []struct {
		name    string
		stock   int
		minimum int
		expiry  *time.Time
		want    SupplyStatus
	}{
		{"healthy", 100, 20, &future, StatusAvailable},
		{"no expiry date", 100, 20, nil, StatusAvailable},
		{"at minimum is low", 20, 20, &future, StatusLowStock},
		{"below minimum is low", 5, 20, &future, StatusLowStock},
		{"zero stock", 0, 20, &future, StatusOutOfStock},
		{"expired wins over stock states", 0, 20, &past, StatusExpired},
		{"expired with stock on hand", 100, 20, &past, StatusExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Supply{CurrentStock: tt.stock, MinimumStock: tt.minimum, ExpiryDate: tt.expiry}
			s.DeriveStatus(modelNow)
			if s.Status != tt.want {
				t.Errorf("status = %q, want %q", s.Status, tt.want)
			}
		})
	}
}

func TestDeriveStatusKeepsManualStates(t *testing.T) {
	future := modelNow.Add(time.Hour)
	for _, manual := range []SupplyStatus{StatusDamaged, StatusRecalled} {
		s := Supply{CurrentStock: 100, MinimumStock: 10, ExpiryDate: &future, Status: manual}
		s.DeriveStatus(modelNow)
		if s.Status != manual {
			t.Errorf("status = %q, want %q to stick", s.Status, manual)
		}
	}
}
