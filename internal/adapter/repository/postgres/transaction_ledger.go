package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fintrackhq/fintrack-backend/internal/domain"
)

// transactionLedger implements domain.TransactionLedger over one per-class
// table. Entries are append-only; duplicates per date are allowed, and the
// seq column breaks ties within a date.
type transactionLedger struct {
	db    *DB
	table string
}

// NewFixedDepositLedger creates the fixed deposit event ledger
func NewFixedDepositLedger(db *DB) domain.TransactionLedger {
	return &transactionLedger{db: db, table: "fixed_deposit_events"}
}

// NewRecurringDepositLedger creates the recurring deposit installment ledger
func NewRecurringDepositLedger(db *DB) domain.TransactionLedger {
	return &transactionLedger{db: db, table: "recurring_deposit_entries"}
}

// NewSIPLedger creates the systematic investment transaction ledger
func NewSIPLedger(db *DB) domain.TransactionLedger {
	return &transactionLedger{db: db, table: "sip_transactions"}
}

// NewHoldingLedger creates the traded holding buy/sell ledger
func NewHoldingLedger(db *DB) domain.TransactionLedger {
	return &transactionLedger{db: db, table: "holding_trades"}
}

// Append always inserts a new entry
func (l *transactionLedger) Append(ctx context.Context, e *domain.LedgerEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, instrument_id, entry_date, kind, amount, price, units, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, l.table)

	_, err := l.db.q(ctx).ExecContext(ctx, query,
		e.ID,
		e.InstrumentID,
		e.Date,
		string(e.Kind),
		e.Amount.String(),
		e.Price.String(),
		e.Units.String(),
		e.Notes,
	)
	if err != nil {
		return persistErr("append ledger entry", err)
	}
	return nil
}

// ListByInstrument returns all entries for the instrument, most recent first
func (l *transactionLedger) ListByInstrument(ctx context.Context, instrumentID uuid.UUID) ([]*domain.LedgerEntry, error) {
	query := fmt.Sprintf(`
		SELECT id, instrument_id, entry_date, kind, amount, price, units, notes, created_at
		FROM %s
		WHERE instrument_id = $1
		ORDER BY entry_date DESC, seq DESC
	`, l.table)

	rows, err := l.db.q(ctx).QueryContext(ctx, query, instrumentID)
	if err != nil {
		return nil, persistErr("list ledger entries", err)
	}
	defer rows.Close()

	var entries []*domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		var amountStr, priceStr, unitsStr string

		if err := rows.Scan(&e.ID, &e.InstrumentID, &e.Date, &e.Kind, &amountStr, &priceStr, &unitsStr, &e.Notes, &e.CreatedAt); err != nil {
			return nil, persistErr("scan ledger entry", err)
		}
		if e.Amount, err = parseDecimal(amountStr, "amount"); err != nil {
			return nil, err
		}
		if e.Price, err = parseDecimal(priceStr, "price"); err != nil {
			return nil, err
		}
		if e.Units, err = parseDecimal(unitsStr, "units"); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("iterate ledger entries", err)
	}
	return entries, nil
}

// Update corrects a single entry
func (l *transactionLedger) Update(ctx context.Context, e *domain.LedgerEntry) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET entry_date = $1, kind = $2, amount = $3, price = $4, units = $5, notes = $6
		WHERE id = $7 AND instrument_id = $8
	`, l.table)

	res, err := l.db.q(ctx).ExecContext(ctx, query,
		e.Date,
		string(e.Kind),
		e.Amount.String(),
		e.Price.String(),
		e.Units.String(),
		e.Notes,
		e.ID,
		e.InstrumentID,
	)
	if err != nil {
		return persistErr("update ledger entry", err)
	}
	return requireRow(res, "ledger entry %s", e.ID)
}

// Delete removes a single entry
func (l *transactionLedger) Delete(ctx context.Context, instrumentID, entryID uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND instrument_id = $2`, l.table)

	res, err := l.db.q(ctx).ExecContext(ctx, query, entryID, instrumentID)
	if err != nil {
		return persistErr("delete ledger entry", err)
	}
	return requireRow(res, "ledger entry %s", entryID)
}

// DeleteByInstrument removes all entries for the instrument
func (l *transactionLedger) DeleteByInstrument(ctx context.Context, instrumentID uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE instrument_id = $1`, l.table)

	if _, err := l.db.q(ctx).ExecContext(ctx, query, instrumentID); err != nil {
		return persistErr("delete ledger entries", err)
	}
	return nil
}
