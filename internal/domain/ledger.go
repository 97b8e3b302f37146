package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ValueSnapshot is a dated value record in the upsert-by-date ledger
// discipline: at most one snapshot per (instrument, date), later writes for
// the same date overwrite the prior value.
type ValueSnapshot struct {
	ID           uuid.UUID
	InstrumentID uuid.UUID
	Date         time.Time // calendar date; time-of-day is ignored
	Value        decimal.Decimal
	Notes        string
}

// Validate ensures the snapshot adheres to domain rules
func (s *ValueSnapshot) Validate() error {
	if s.InstrumentID == uuid.Nil {
		return Validationf("snapshot instrument id is required")
	}
	if s.Date.IsZero() {
		return Validationf("snapshot date is required")
	}
	return nil
}

// EntryKind classifies an append-only ledger entry
type EntryKind string

const (
	EntryKindSIP         EntryKind = "SIP"
	EntryKindLumpSum     EntryKind = "LUMPSUM"
	EntryKindNAVUpdate   EntryKind = "NAV_UPDATE"
	EntryKindInstallment EntryKind = "INSTALLMENT"
	EntryKindBuy         EntryKind = "BUY"
	EntryKindSell        EntryKind = "SELL"
	EntryKindRedeem      EntryKind = "REDEEM"
	EntryKindClose       EntryKind = "CLOSE"
)

// LedgerEntry is a discrete, immutable transaction in the append-only ledger
// discipline. Duplicates for the same date are allowed and meaningful.
type LedgerEntry struct {
	ID           uuid.UUID
	InstrumentID uuid.UUID
	Date         time.Time
	Kind         EntryKind
	Amount       decimal.Decimal
	Price        decimal.Decimal
	Units        decimal.Decimal
	Notes        string
	CreatedAt    time.Time
}

// Validate ensures the entry adheres to domain rules
func (e *LedgerEntry) Validate() error {
	if e.InstrumentID == uuid.Nil {
		return Validationf("entry instrument id is required")
	}
	if e.Date.IsZero() {
		return Validationf("entry date is required")
	}
	if e.Kind == "" {
		return Validationf("entry kind is required")
	}
	return nil
}
