package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fintrackhq/fintrack-backend/internal/domain"
)

// snapshotLedger implements domain.SnapshotLedger over one per-class table.
// All snapshot tables share the same shape, so the implementation is
// parameterized by table name instead of being written once per class.
type snapshotLedger struct {
	db    *DB
	table string
}

// NewAccountSnapshotLedger creates the liquid account snapshot ledger
func NewAccountSnapshotLedger(db *DB) domain.SnapshotLedger {
	return &snapshotLedger{db: db, table: "account_snapshots"}
}

// NewAssetSnapshotLedger creates the valued asset snapshot ledger
func NewAssetSnapshotLedger(db *DB) domain.SnapshotLedger {
	return &snapshotLedger{db: db, table: "asset_snapshots"}
}

// NewCoverSnapshotLedger creates the cover plan snapshot ledger
func NewCoverSnapshotLedger(db *DB) domain.SnapshotLedger {
	return &snapshotLedger{db: db, table: "cover_snapshots"}
}

// NewGoalSnapshotLedger creates the savings goal snapshot ledger
func NewGoalSnapshotLedger(db *DB) domain.SnapshotLedger {
	return &snapshotLedger{db: db, table: "goal_snapshots"}
}

// Upsert writes the snapshot, overwriting any prior value for the same
// (instrument, date). Overwrites are by design, not conflicts.
func (l *snapshotLedger) Upsert(ctx context.Context, s *domain.ValueSnapshot) error {
	if err := s.Validate(); err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, instrument_id, snapshot_date, value, notes)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (instrument_id, snapshot_date)
		DO UPDATE SET value = EXCLUDED.value, notes = EXCLUDED.notes
	`, l.table)

	_, err := l.db.q(ctx).ExecContext(ctx, query,
		s.ID,
		s.InstrumentID,
		s.Date,
		s.Value.String(),
		s.Notes,
	)
	if err != nil {
		return persistErr("upsert snapshot", err)
	}
	return nil
}

// ListByInstrument returns all snapshots for the instrument, date ascending
func (l *snapshotLedger) ListByInstrument(ctx context.Context, instrumentID uuid.UUID) ([]*domain.ValueSnapshot, error) {
	query := fmt.Sprintf(`
		SELECT id, instrument_id, snapshot_date, value, notes
		FROM %s
		WHERE instrument_id = $1
		ORDER BY snapshot_date ASC
	`, l.table)

	rows, err := l.db.q(ctx).QueryContext(ctx, query, instrumentID)
	if err != nil {
		return nil, persistErr("list snapshots", err)
	}
	defer rows.Close()

	var snapshots []*domain.ValueSnapshot
	for rows.Next() {
		var s domain.ValueSnapshot
		var valueStr string

		if err := rows.Scan(&s.ID, &s.InstrumentID, &s.Date, &valueStr, &s.Notes); err != nil {
			return nil, persistErr("scan snapshot", err)
		}
		if s.Value, err = parseDecimal(valueStr, "value"); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("iterate snapshots", err)
	}
	return snapshots, nil
}

// Update corrects a single snapshot's value or notes
func (l *snapshotLedger) Update(ctx context.Context, s *domain.ValueSnapshot) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET value = $1, notes = $2
		WHERE id = $3 AND instrument_id = $4
	`, l.table)

	res, err := l.db.q(ctx).ExecContext(ctx, query, s.Value.String(), s.Notes, s.ID, s.InstrumentID)
	if err != nil {
		return persistErr("update snapshot", err)
	}
	return requireRow(res, "snapshot %s", s.ID)
}

// Delete removes a single snapshot. The instrument's current value is left
// untouched: historical edits are corrections, not resynchronization
// triggers.
func (l *snapshotLedger) Delete(ctx context.Context, instrumentID, snapshotID uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND instrument_id = $2`, l.table)

	res, err := l.db.q(ctx).ExecContext(ctx, query, snapshotID, instrumentID)
	if err != nil {
		return persistErr("delete snapshot", err)
	}
	return requireRow(res, "snapshot %s", snapshotID)
}

// DeleteByInstrument removes all snapshots for the instrument
func (l *snapshotLedger) DeleteByInstrument(ctx context.Context, instrumentID uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE instrument_id = $1`, l.table)

	if _, err := l.db.q(ctx).ExecContext(ctx, query, instrumentID); err != nil {
		return persistErr("delete snapshots", err)
	}
	return nil
}
