// Package valuation holds the pure financial formulas of the engine: maturity
// values, realized rates, live valuation metrics and schedule roll-forward.
// Functions here are stateless and storage-free; they take numeric and date
// inputs and return decimals rounded per the engine's numeric policy
// (2 places for currency, 4 for unit counts).
package valuation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrackhq/fintrack-backend/internal/domain"
)

var (
	one        = decimal.NewFromInt(1)
	hundred    = decimal.NewFromInt(100)
	daysInYear = decimal.NewFromInt(365)
)

// Years returns the fractional number of years between two dates, counting
// whole days over a 365-day year.
func Years(start, end time.Time) decimal.Decimal {
	days := int64(end.Sub(start) / (24 * time.Hour))
	return decimal.NewFromInt(days).Div(daysInYear)
}

// FixedDepositMaturity computes the simple-interest payout
// principal * (1 + rate/100 * years) rounded to 2 places.
func FixedDepositMaturity(principal, annualRatePct decimal.Decimal, start, maturity time.Time) decimal.Decimal {
	years := Years(start, maturity)
	interest := annualRatePct.Div(hundred).Mul(years)
	return principal.Mul(one.Add(interest)).Round(2)
}

// RealizedRate back-solves the annual simple-interest rate implied by an
// actual payout: ((payout/principal) - 1) / years * 100. Returns zero when
// years <= 0 or principal <= 0, where the formula is undefined.
func RealizedRate(principal, payout decimal.Decimal, start, end time.Time) decimal.Decimal {
	years := Years(start, end)
	if years.LessThanOrEqual(decimal.Zero) || principal.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return payout.Div(principal).Sub(one).Div(years).Mul(hundred).Round(2)
}

// RecurringDepositMaturity computes the annuity-due maturity value of n
// periodic installments compounding at the periodic rate
// i = (annualRate/100) / installmentsPerYear:
//
//	maturity = installment * ((1+i)^n - 1) / i * (1+i)
//
// For a zero rate the formula degenerates to installment * n.
// Results are rounded to 2 places.
func RecurringDepositMaturity(installment, annualRatePct decimal.Decimal, freq domain.Frequency, customDays, installments int) decimal.Decimal {
	n := decimal.NewFromInt(int64(installments))
	i := periodicRate(annualRatePct, freq, customDays)
	if i.IsZero() {
		return installment.Mul(n).Round(2)
	}
	growth := one.Add(i).Pow(n)
	return installment.Mul(growth.Sub(one).Div(i)).Mul(one.Add(i)).Round(2)
}

// periodicRate converts an annual percentage rate into the per-installment
// rate for the given frequency. Custom frequencies compound 365/customDays
// times per year.
func periodicRate(annualRatePct decimal.Decimal, freq domain.Frequency, customDays int) decimal.Decimal {
	annual := annualRatePct.Div(hundred)
	switch freq {
	case domain.FrequencyMonthly:
		return annual.Div(decimal.NewFromInt(12))
	case domain.FrequencyYearly:
		return annual
	case domain.FrequencyCustom:
		if customDays <= 0 {
			return decimal.Zero
		}
		perYear := daysInYear.Div(decimal.NewFromInt(int64(customDays)))
		return annual.Div(perYear)
	}
	return decimal.Zero
}
