package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/medidesk/clinic-records/internal/audit"
	"github.com/medidesk/clinic-records/internal/repo"
)

const (
	idPrefix = "MS"
	idWidth  = 4
)

const (
	EventSupplyAdded   = "SUPPLY_ADDED"
	EventSupplyUpdated = "SUPPLY_UPDATED"
	EventStockAdded    = "STOCK_ADDED"
	EventStockRemoved  = "STOCK_REMOVED"
)

var (
	ErrInvalidID         = errors.New("supply id must be MS followed by four digits")
	ErrNotFound          = errors.New("supply not found")
	ErrMissingName       = errors.New("supply name is required")
	ErrNegativeStock     = errors.New("stock levels cannot be negative")
	ErrNegativePrice     = errors.New("unit price cannot be negative")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrInsufficientStock = errors.New("not enough stock on hand")
)

type Service struct {
	supplies     *repo.Repository[Supply]
	rec          *audit.Recorder
	log          zerolog.Logger
	expiryWindow time.Duration

	now func() time.Time
}

func NewService(supplies *repo.Repository[Supply], rec *audit.Recorder, log zerolog.Logger, expiryWindow time.Duration) *Service {
	if expiryWindow <= 0 {
		expiryWindow = 30 * 24 * time.Hour
	}
	return &Service{
		supplies:     supplies,
		rec:          rec,
		log:          log,
		expiryWindow: expiryWindow,
		now:          time.Now,
	}
}

// Add validates and stores a new supply record with a derived status.
func (s *Service) Add(ctx context.Context, sup Supply) (Supply, error) {
	if sup.ID == "" {
		sup.ID = s.supplies.NextID(idPrefix, idWidth)
	}
	if !repo.ValidID(sup.ID, idPrefix, idWidth) {
		return Supply{}, fmt.Errorf("%w: %q", ErrInvalidID, sup.ID)
	}
	sup.ID = repo.NormalizeID(sup.ID)
	if err := validate(sup); err != nil {
		return Supply{}, err
	}

	now := s.now()
	if sup.LastRestockedAt.IsZero() {
		sup.LastRestockedAt = now
	}
	sup.Active = true
	sup.DeriveStatus(now)

	if err := s.supplies.Add(ctx, sup); err != nil {
		return Supply{}, err
	}

	s.log.Info().Str("supply_id", sup.ID).Str("name", sup.Name).Str("status", string(sup.Status)).Msg("supply added")
	s.rec.Record(ctx, EventSupplyAdded, sup.ID, map[string]any{
		"name":  sup.Name,
		"stock": sup.CurrentStock,
	})
	return sup, nil
}

// Update replaces an existing supply record and re-derives its status.
func (s *Service) Update(ctx context.Context, sup Supply) (Supply, error) {
	sup.ID = repo.NormalizeID(sup.ID)
	existing, ok := s.supplies.FindByID(sup.ID)
	if !ok {
		return Supply{}, fmt.Errorf("%w: %s", ErrNotFound, sup.ID)
	}
	if err := validate(sup); err != nil {
		return Supply{}, err
	}

	sup.LastRestockedAt = existing.LastRestockedAt
	sup.Active = existing.Active
	sup.DeriveStatus(s.now())

	if err := s.supplies.Replace(ctx, sup.ID, sup); err != nil {
		return Supply{}, err
	}
	s.rec.Record(ctx, EventSupplyUpdated, sup.ID, nil)
	return sup, nil
}

// AddStock increases the stock level and refreshes the restock timestamp.
func (s *Service) AddStock(ctx context.Context, supplyID string, quantity int) (Supply, error) {
	if quantity <= 0 {
		return Supply{}, fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}
	sup, ok := s.supplies.FindByID(supplyID)
	if !ok {
		return Supply{}, fmt.Errorf("%w: %s", ErrNotFound, supplyID)
	}

	now := s.now()
	sup.CurrentStock += quantity
	sup.LastRestockedAt = now
	sup.DeriveStatus(now)

	if err := s.supplies.Replace(ctx, sup.ID, sup); err != nil {
		return Supply{}, err
	}

	s.log.Info().Str("supply_id", sup.ID).Int("quantity", quantity).Int("stock", sup.CurrentStock).Msg("stock added")
	s.rec.Record(ctx, EventStockAdded, sup.ID, map[string]any{
		"quantity": quantity,
		"stock":    sup.CurrentStock,
	})
	return sup, nil
}

// RemoveStock decreases the stock level; the level can reach zero but
// never goes negative.
func (s *Service) RemoveStock(ctx context.Context, supplyID string, quantity int) (Supply, error) {
	if quantity <= 0 {
		return Supply{}, fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}
	sup, ok := s.supplies.FindByID(supplyID)
	if !ok {
		return Supply{}, fmt.Errorf("%w: %s", ErrNotFound, supplyID)
	}
	if quantity > sup.CurrentStock {
		return Supply{}, fmt.Errorf("%w: have %d, want %d", ErrInsufficientStock, sup.CurrentStock, quantity)
	}

	sup.CurrentStock -= quantity
	sup.DeriveStatus(s.now())

	if err := s.supplies.Replace(ctx, sup.ID, sup); err != nil {
		return Supply{}, err
	}

	s.log.Info().Str("supply_id", sup.ID).Int("quantity", quantity).Int("stock", sup.CurrentStock).Msg("stock removed")
	s.rec.Record(ctx, EventStockRemoved, sup.ID, map[string]any{
		"quantity": quantity,
		"stock":    sup.CurrentStock,
	})
	return sup, nil
}

// SetStatus assigns a manual status such as damaged or recalled. Passing a
// derived status re-runs derivation instead.
func (s *Service) SetStatus(ctx context.Context, supplyID string, status SupplyStatus) (Supply, error) {
	sup, ok := s.supplies.FindByID(supplyID)
	if !ok {
		return Supply{}, fmt.Errorf("%w: %s", ErrNotFound, supplyID)
	}

	sup.Status = status
	if status != StatusDamaged && status != StatusRecalled {
		sup.DeriveStatus(s.now())
	}
	if err := s.supplies.Replace(ctx, sup.ID, sup); err != nil {
		return Supply{}, err
	}
	return sup, nil
}

// Deactivate retires a supply record without deleting it.
func (s *Service) Deactivate(ctx context.Context, supplyID string) error {
	sup, ok := s.supplies.FindByID(supplyID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, supplyID)
	}
	sup.Active = false
	return s.supplies.Replace(ctx, sup.ID, sup)
}

func (s *Service) FindSupply(id string) (Supply, bool) {
	return s.supplies.FindByID(id)
}

func (s *Service) ListActive() []Supply {
	var out []Supply
	for _, sup := range s.supplies.All() {
		if sup.Active {
			out = append(out, sup)
		}
	}
	return out
}

func (s *Service) ByCategory(category Category) []Supply {
	var out []Supply
	for _, sup := range s.supplies.All() {
		if sup.Active && sup.Category == category {
			out = append(out, sup)
		}
	}
	return out
}

// SearchByName matches supply names case-insensitively on a substring.
func (s *Service) SearchByName(query string) []Supply {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []Supply
	for _, sup := range s.supplies.All() {
		if sup.Active && strings.Contains(strings.ToLower(sup.Name), q) {
			out = append(out, sup)
		}
	}
	return out
}

// LowStock returns active supplies at or below their minimum, including the
// ones that have run out entirely.
func (s *Service) LowStock() []Supply {
	var out []Supply
	for _, sup := range s.supplies.All() {
		if sup.Active && sup.IsLowStock() {
			out = append(out, sup)
		}
	}
	return out
}

func (s *Service) OutOfStock() []Supply {
	var out []Supply
	for _, sup := range s.supplies.All() {
		if sup.Active && sup.IsOutOfStock() {
			out = append(out, sup)
		}
	}
	return out
}

func (s *Service) Expired() []Supply {
	now := s.now()
	var out []Supply
	for _, sup := range s.supplies.All() {
		if sup.Active && sup.IsExpired(now) {
			out = append(out, sup)
		}
	}
	return out
}

// ExpiringSoon returns unexpired supplies whose expiry date falls inside the
// configured warning window.
func (s *Service) ExpiringSoon() []Supply {
	now := s.now()
	cutoff := now.Add(s.expiryWindow)
	var out []Supply
	for _, sup := range s.supplies.All() {
		if !sup.Active || sup.ExpiryDate == nil {
			continue
		}
		if !sup.ExpiryDate.Before(now) && sup.ExpiryDate.Before(cutoff) {
			out = append(out, sup)
		}
	}
	return out
}

// StockValue totals unit price times stock across active supplies.
func (s *Service) StockValue() decimal.Decimal {
	total := decimal.Zero
	for _, sup := range s.supplies.All() {
		if sup.Active {
			total = total.Add(sup.UnitPrice.Mul(decimal.NewFromInt(int64(sup.CurrentStock))))
		}
	}
	return total
}

// Alerts summarises everything needing attention: low or exhausted stock,
// expired items, and items expiring inside the warning window.
func (s *Service) Alerts() []string {
	now := s.now()
	var out []string
	for _, sup := range s.supplies.All() {
		if !sup.Active {
			continue
		}
		switch {
		case sup.IsExpired(now):
			out = append(out, fmt.Sprintf("%s %s: expired on %s", sup.ID, sup.Name, sup.ExpiryDate.Format("2006-01-02")))
		case sup.IsOutOfStock():
			out = append(out, fmt.Sprintf("%s %s: out of stock", sup.ID, sup.Name))
		case sup.IsLowStock():
			out = append(out, fmt.Sprintf("%s %s: low stock (%d <= %d)", sup.ID, sup.Name, sup.CurrentStock, sup.MinimumStock))
		}
		if sup.ExpiryDate != nil && !sup.ExpiryDate.Before(now) && sup.ExpiryDate.Before(now.Add(s.expiryWindow)) {
			out = append(out, fmt.Sprintf("%s %s: expires %s", sup.ID, sup.Name, sup.ExpiryDate.Format("2006-01-02")))
		}
	}
	return out
}

func validate(sup Supply) error {
	if strings.TrimSpace(sup.Name) == "" {
		return ErrMissingName
	}
	if sup.CurrentStock < 0 || sup.MinimumStock < 0 {
		return ErrNegativeStock
	}
	if sup.UnitPrice.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}
