// Package summary holds the read-only per-class rollups. Each summary folds
// the live status subset of one instrument class into counts and decimal
// totals; nothing here touches the ledgers.
package summary

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack-backend/internal/domain"
	"github.com/fintrackhq/fintrack-backend/internal/valuation"
)

// Summary is a per-class rollup over the live status subset
type Summary struct {
	ActiveCount   int
	TotalInvested decimal.Decimal
	TotalValue    decimal.Decimal // current or expected value, per class
}

// Service computes per-class summaries from the instrument store
type Service struct {
	Accounts domain.LiquidAccountRepository
	Assets   domain.ValuedAssetRepository
	Covers   domain.CoverPlanRepository
	Goals    domain.SavingsGoalRepository
	Fixed    domain.FixedDepositRepository
	Recurr   domain.RecurringDepositRepository
	SIPs     domain.SIPRepository
	Holdings domain.HoldingRepository
}

// NewService creates a new summary Service instance
func NewService(
	accounts domain.LiquidAccountRepository,
	assets domain.ValuedAssetRepository,
	covers domain.CoverPlanRepository,
	goals domain.SavingsGoalRepository,
	fixed domain.FixedDepositRepository,
	recurr domain.RecurringDepositRepository,
	sips domain.SIPRepository,
	holdings domain.HoldingRepository,
) *Service {
	return &Service{
		Accounts: accounts,
		Assets:   assets,
		Covers:   covers,
		Goals:    goals,
		Fixed:    fixed,
		Recurr:   recurr,
		SIPs:     sips,
		Holdings: holdings,
	}
}

func newSummary() Summary {
	return Summary{TotalInvested: decimal.Zero, TotalValue: decimal.Zero}
}

// AccountSummary sums balances over all liquid accounts
func (s *Service) AccountSummary(ctx context.Context, ownerID uuid.UUID) (Summary, error) {
	accounts, err := s.Accounts.List(ctx, ownerID)
	if err != nil {
		return Summary{}, err
	}

	sum := newSummary()
	for _, a := range accounts {
		sum.ActiveCount++
		sum.TotalInvested = sum.TotalInvested.Add(a.Balance)
		sum.TotalValue = sum.TotalValue.Add(a.Balance)
	}
	return sum, nil
}

// AssetSummary sums values over all valued assets
func (s *Service) AssetSummary(ctx context.Context, ownerID uuid.UUID) (Summary, error) {
	assets, err := s.Assets.List(ctx, ownerID, "")
	if err != nil {
		return Summary{}, err
	}

	sum := newSummary()
	for _, a := range assets {
		sum.ActiveCount++
		sum.TotalInvested = sum.TotalInvested.Add(a.Value)
		sum.TotalValue = sum.TotalValue.Add(a.Value)
	}
	return sum, nil
}

// CoverSummary sums premiums (invested) and cover amounts (value)
func (s *Service) CoverSummary(ctx context.Context, ownerID uuid.UUID) (Summary, error) {
	covers, err := s.Covers.List(ctx, ownerID)
	if err != nil {
		return Summary{}, err
	}

	sum := newSummary()
	for _, c := range covers {
		sum.ActiveCount++
		sum.TotalInvested = sum.TotalInvested.Add(c.PremiumAmount)
		sum.TotalValue = sum.TotalValue.Add(c.CoverAmount)
	}
	return sum, nil
}

// GoalSummary covers active and achieved goals, excluding archived:
// invested is the saved total, value is the target.
func (s *Service) GoalSummary(ctx context.Context, ownerID uuid.UUID) (Summary, error) {
	goals, err := s.Goals.List(ctx, ownerID)
	if err != nil {
		return Summary{}, err
	}

	sum := newSummary()
	for _, g := range goals {
		if g.Status == domain.GoalStatusArchived {
			continue
		}
		sum.ActiveCount++
		sum.TotalInvested = sum.TotalInvested.Add(g.SavedAmount)
		sum.TotalValue = sum.TotalValue.Add(g.TargetAmount)
	}
	return sum, nil
}

// FixedDepositSummary covers ongoing deposits: principal invested, expected
// payout as value.
func (s *Service) FixedDepositSummary(ctx context.Context, ownerID uuid.UUID) (Summary, error) {
	deposits, err := s.Fixed.List(ctx, ownerID)
	if err != nil {
		return Summary{}, err
	}

	sum := newSummary()
	for _, d := range deposits {
		if d.Status != domain.DepositStatusOngoing {
			continue
		}
		sum.ActiveCount++
		sum.TotalInvested = sum.TotalInvested.Add(d.Principal)
		sum.TotalValue = sum.TotalValue.Add(d.ExpectedPayout)
	}
	return sum, nil
}

// RecurringDepositSummary covers ongoing and completed deposits, excluding
// closed: installments paid so far as invested, maturity value as value.
func (s *Service) RecurringDepositSummary(ctx context.Context, ownerID uuid.UUID) (Summary, error) {
	deposits, err := s.Recurr.List(ctx, ownerID)
	if err != nil {
		return Summary{}, err
	}

	sum := newSummary()
	for _, d := range deposits {
		if d.Status == domain.RecurringStatusClosed {
			continue
		}
		sum.ActiveCount++
		paid := d.Installment.Mul(decimal.NewFromInt(int64(d.InstallmentsPaid)))
		sum.TotalInvested = sum.TotalInvested.Add(paid)
		sum.TotalValue = sum.TotalValue.Add(d.MaturityValue)
	}
	return sum, nil
}

// SIPSummary covers ongoing and paused investments, excluding redeemed:
// invested capital and current market value.
func (s *Service) SIPSummary(ctx context.Context, ownerID uuid.UUID) (Summary, error) {
	sips, err := s.SIPs.List(ctx, ownerID)
	if err != nil {
		return Summary{}, err
	}

	sum := newSummary()
	for _, inv := range sips {
		if inv.Status == domain.SIPStatusRedeemed {
			continue
		}
		sum.ActiveCount++
		sum.TotalInvested = sum.TotalInvested.Add(inv.TotalInvested)
		sum.TotalValue = sum.TotalValue.Add(valuation.MarketValue(inv.TotalUnits, inv.CurrentUnitPrice))
	}
	return sum, nil
}

// HoldingSummary covers open holdings, excluding sold: buy cost as invested,
// current market value as value.
func (s *Service) HoldingSummary(ctx context.Context, ownerID uuid.UUID) (Summary, error) {
	holdings, err := s.Holdings.List(ctx, ownerID, "")
	if err != nil {
		return Summary{}, err
	}

	sum := newSummary()
	for _, h := range holdings {
		if h.Status == domain.HoldingStatusSold {
			continue
		}
		sum.ActiveCount++
		sum.TotalInvested = sum.TotalInvested.Add(valuation.MarketValue(h.Quantity, h.BuyPrice))
		sum.TotalValue = sum.TotalValue.Add(valuation.MarketValue(h.Quantity, h.CurrentPrice))
	}
	return sum, nil
}
