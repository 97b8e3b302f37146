// Package sip holds the systematic investment lifecycle: sip and lump-sum
// purchases grow units and invested capital, NAV updates reprice the holding,
// and every event lands in the append-only ledger. Current value and returns
// are derived from stored units and price on every read.
package sip

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack-backend/internal/domain"
	"github.com/fintrackhq/fintrack-backend/internal/valuation"
)

// Service handles systematic investment operations
type Service struct {
	SIPs   domain.SIPRepository
	Ledger domain.TransactionLedger
	Store  domain.Atomic
	Log    zerolog.Logger
}

// NewService creates a new sip Service instance
func NewService(sips domain.SIPRepository, ledger domain.TransactionLedger, store domain.Atomic, log zerolog.Logger) *Service {
	return &Service{SIPs: sips, Ledger: ledger, Store: store, Log: log}
}

// View is a systematic investment with its derived metrics computed fresh
type View struct {
	*domain.SystematicInvestment
	CurrentValue   decimal.Decimal
	ReturnsPercent decimal.Decimal
}

func view(inv *domain.SystematicInvestment) *View {
	current := valuation.MarketValue(inv.TotalUnits, inv.CurrentUnitPrice)
	return &View{
		SystematicInvestment: inv,
		CurrentValue:         current,
		ReturnsPercent:       valuation.ReturnsPercent(current, inv.TotalInvested),
	}
}

// CreateInput represents the input for creating a systematic investment
type CreateInput struct {
	OwnerID    uuid.UUID
	SchemeName string
	SchemeCode string
	UnitPrice  decimal.Decimal
}

// Create persists a new ongoing investment holding zero units; purchases are
// recorded through AddTransaction.
func (s *Service) Create(ctx context.Context, in CreateInput) (*View, error) {
	inv := &domain.SystematicInvestment{
		ID:               uuid.New(),
		OwnerID:          in.OwnerID,
		SchemeName:       in.SchemeName,
		SchemeCode:       in.SchemeCode,
		TotalUnits:       decimal.Zero,
		CurrentUnitPrice: in.UnitPrice,
		TotalInvested:    decimal.Zero,
		Status:           domain.SIPStatusOngoing,
		CreatedAt:        time.Now().UTC(),
	}
	if err := inv.Validate(); err != nil {
		return nil, err
	}
	if err := s.SIPs.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.Log.Info().Str("sip_id", inv.ID.String()).Str("scheme", inv.SchemeName).Msg("systematic investment created")
	return view(inv), nil
}

// Get retrieves an investment with derived metrics, scoped by owner
func (s *Service) Get(ctx context.Context, ownerID, id uuid.UUID) (*View, error) {
	inv, err := s.SIPs.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return view(inv), nil
}

// List retrieves all of the owner's investments with derived metrics
func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]*View, error) {
	invs, err := s.SIPs.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	views := make([]*View, 0, len(invs))
	for _, inv := range invs {
		views = append(views, view(inv))
	}
	return views, nil
}

// Update edits the scheme identity of a non-redeemed investment
func (s *Service) Update(ctx context.Context, ownerID, id uuid.UUID, schemeName, schemeCode string) (*View, error) {
	inv, err := s.SIPs.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if inv.Redeemed() {
		return nil, domain.Transitionf("investment %s is redeemed", inv.ID)
	}

	inv.SchemeName = schemeName
	inv.SchemeCode = schemeCode
	if err := inv.Validate(); err != nil {
		return nil, err
	}
	if err := s.SIPs.Update(ctx, inv); err != nil {
		return nil, err
	}
	return view(inv), nil
}

// TransactionInput represents a sip, lumpsum or nav_update event
type TransactionInput struct {
	OwnerID   uuid.UUID
	ID        uuid.UUID
	Kind      domain.EntryKind // SIP, LUMPSUM or NAV_UPDATE
	Amount    decimal.Decimal  // invested amount; ignored for NAV_UPDATE
	UnitPrice decimal.Decimal  // NAV at the transaction
	Date      time.Time
	Notes     string
}

// AddTransaction applies a purchase or NAV update and appends the event to
// the ledger atomically. Purchases increase units and invested capital; NAV
// updates only reprice. Redeemed investments accept no transactions.
// Repeating a NAV update with the same inputs is safe: it rewrites the same
// price and appends another dated entry.
func (s *Service) AddTransaction(ctx context.Context, in TransactionInput) (*View, error) {
	if in.UnitPrice.LessThanOrEqual(decimal.Zero) {
		return nil, domain.Validationf("unit price must be positive")
	}
	if in.Date.IsZero() {
		return nil, domain.Validationf("transaction date is required")
	}

	inv, err := s.SIPs.GetByID(ctx, in.OwnerID, in.ID)
	if err != nil {
		return nil, err
	}
	if inv.Redeemed() {
		return nil, domain.Transitionf("investment %s is redeemed", inv.ID)
	}

	entry := &domain.LedgerEntry{
		ID:           uuid.New(),
		InstrumentID: inv.ID,
		Date:         in.Date,
		Kind:         in.Kind,
		Price:        in.UnitPrice,
		Notes:        in.Notes,
	}

	switch in.Kind {
	case domain.EntryKindSIP, domain.EntryKindLumpSum:
		if in.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, domain.Validationf("transaction amount must be positive")
		}
		units := valuation.UnitsFor(in.Amount, in.UnitPrice)
		inv.TotalUnits = inv.TotalUnits.Add(units)
		inv.TotalInvested = inv.TotalInvested.Add(in.Amount)
		inv.CurrentUnitPrice = in.UnitPrice
		entry.Amount = in.Amount
		entry.Units = units
	case domain.EntryKindNAVUpdate:
		inv.CurrentUnitPrice = in.UnitPrice
	default:
		return nil, domain.Validationf("unsupported transaction kind %q", in.Kind)
	}

	err = s.Store.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.SIPs.Update(ctx, inv); err != nil {
			return err
		}
		return s.Ledger.Append(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.Log.Debug().Str("sip_id", inv.ID.String()).Str("kind", string(in.Kind)).Msg("sip transaction recorded")
	return view(inv), nil
}

// Pause transitions an ongoing investment to paused
func (s *Service) Pause(ctx context.Context, ownerID, id uuid.UUID) (*View, error) {
	return s.setStatus(ctx, ownerID, id, domain.SIPStatusOngoing, domain.SIPStatusPaused)
}

// Resume transitions a paused investment back to ongoing
func (s *Service) Resume(ctx context.Context, ownerID, id uuid.UUID) (*View, error) {
	return s.setStatus(ctx, ownerID, id, domain.SIPStatusPaused, domain.SIPStatusOngoing)
}

// Redeem transitions an ongoing or paused investment to its terminal state,
// recording the redeemed amount and appending the event atomically.
func (s *Service) Redeem(ctx context.Context, ownerID, id uuid.UUID, amount decimal.Decimal, redeemedAt time.Time) (*View, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.Validationf("redemption amount must be positive")
	}
	if redeemedAt.IsZero() {
		return nil, domain.Validationf("redemption date is required")
	}

	inv, err := s.SIPs.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if inv.Redeemed() {
		return nil, domain.Transitionf("investment %s is already redeemed", inv.ID)
	}

	inv.Status = domain.SIPStatusRedeemed
	inv.RedeemedAmount = amount
	inv.RedeemedAt = &redeemedAt

	err = s.Store.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.SIPs.Update(ctx, inv); err != nil {
			return err
		}
		return s.Ledger.Append(ctx, &domain.LedgerEntry{
			ID:           uuid.New(),
			InstrumentID: inv.ID,
			Date:         redeemedAt,
			Kind:         domain.EntryKindRedeem,
			Amount:       amount,
		})
	})
	if err != nil {
		return nil, err
	}

	s.Log.Info().Str("sip_id", inv.ID.String()).Msg("systematic investment redeemed")
	return view(inv), nil
}

// Delete removes the investment and cascades to its ledger
func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.SIPs.GetByID(ctx, ownerID, id); err != nil {
		return err
	}

	return s.Store.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Ledger.DeleteByInstrument(ctx, id); err != nil {
			return err
		}
		return s.SIPs.Delete(ctx, ownerID, id)
	})
}

// History returns the investment's ledger entries, most recent first
func (s *Service) History(ctx context.Context, ownerID, id uuid.UUID) ([]*domain.LedgerEntry, error) {
	if _, err := s.SIPs.GetByID(ctx, ownerID, id); err != nil {
		return nil, err
	}
	return s.Ledger.ListByInstrument(ctx, id)
}

// CorrectEntry edits one historical ledger entry. Units, invested capital and
// price on the investment are left untouched; historical edits are
// corrections, not replays.
func (s *Service) CorrectEntry(ctx context.Context, ownerID uuid.UUID, e *domain.LedgerEntry) error {
	if _, err := s.SIPs.GetByID(ctx, ownerID, e.InstrumentID); err != nil {
		return err
	}
	return s.Ledger.Update(ctx, e)
}

// DeleteEntry removes one historical ledger entry without touching the
// investment's current state.
func (s *Service) DeleteEntry(ctx context.Context, ownerID, id, entryID uuid.UUID) error {
	if _, err := s.SIPs.GetByID(ctx, ownerID, id); err != nil {
		return err
	}
	return s.Ledger.Delete(ctx, id, entryID)
}

func (s *Service) setStatus(ctx context.Context, ownerID, id uuid.UUID, from, to domain.SIPStatus) (*View, error) {
	inv, err := s.SIPs.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if inv.Status != from {
		return nil, domain.Transitionf("investment %s is %s, expected %s", inv.ID, inv.Status, from)
	}

	inv.Status = to
	if err := s.SIPs.Update(ctx, inv); err != nil {
		return nil, err
	}

	s.Log.Info().Str("sip_id", inv.ID.String()).Str("status", string(to)).Msg("sip status changed")
	return view(inv), nil
}
