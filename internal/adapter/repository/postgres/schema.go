package postgres

import (
	"context"
)

// schema bootstraps one table per instrument class plus one ledger table per
// class. Snapshot ledgers enforce at most one row per (instrument, date);
// transaction ledgers carry a sequence column to preserve insertion order
// within a date. Ledger rows follow their instrument on delete.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS liquid_accounts (
		id UUID PRIMARY KEY,
		owner_id UUID NOT NULL,
		name TEXT NOT NULL,
		balance NUMERIC(20,4) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS account_snapshots (
		id UUID PRIMARY KEY,
		instrument_id UUID NOT NULL REFERENCES liquid_accounts(id) ON DELETE CASCADE,
		snapshot_date DATE NOT NULL,
		value NUMERIC(20,4) NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		UNIQUE (instrument_id, snapshot_date)
	)`,
	`CREATE TABLE IF NOT EXISTS valued_assets (
		id UUID PRIMARY KEY,
		owner_id UUID NOT NULL,
		name TEXT NOT NULL,
		value NUMERIC(20,4) NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS asset_snapshots (
		id UUID PRIMARY KEY,
		instrument_id UUID NOT NULL REFERENCES valued_assets(id) ON DELETE CASCADE,
		snapshot_date DATE NOT NULL,
		value NUMERIC(20,4) NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		UNIQUE (instrument_id, snapshot_date)
	)`,
	`CREATE TABLE IF NOT EXISTS cover_plans (
		id UUID PRIMARY KEY,
		owner_id UUID NOT NULL,
		name TEXT NOT NULL,
		cover_amount NUMERIC(20,4) NOT NULL,
		premium_amount NUMERIC(20,4) NOT NULL,
		premium_frequency TEXT NOT NULL,
		premium_custom_days INT NOT NULL DEFAULT 0,
		next_premium_date DATE NOT NULL,
		expiry_date DATE NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS cover_snapshots (
		id UUID PRIMARY KEY,
		instrument_id UUID NOT NULL REFERENCES cover_plans(id) ON DELETE CASCADE,
		snapshot_date DATE NOT NULL,
		value NUMERIC(20,4) NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		UNIQUE (instrument_id, snapshot_date)
	)`,
	`CREATE TABLE IF NOT EXISTS savings_goals (
		id UUID PRIMARY KEY,
		owner_id UUID NOT NULL,
		name TEXT NOT NULL,
		target_amount NUMERIC(20,4) NOT NULL,
		saved_amount NUMERIC(20,4) NOT NULL,
		repetitive BOOLEAN NOT NULL DEFAULT FALSE,
		contribution_frequency TEXT NOT NULL DEFAULT 'MONTHLY',
		contribution_days INT NOT NULL DEFAULT 0,
		next_contribution_date DATE,
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS goal_snapshots (
		id UUID PRIMARY KEY,
		instrument_id UUID NOT NULL REFERENCES savings_goals(id) ON DELETE CASCADE,
		snapshot_date DATE NOT NULL,
		value NUMERIC(20,4) NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		UNIQUE (instrument_id, snapshot_date)
	)`,
	`CREATE TABLE IF NOT EXISTS fixed_deposits (
		id UUID PRIMARY KEY,
		owner_id UUID NOT NULL,
		name TEXT NOT NULL,
		principal NUMERIC(20,4) NOT NULL,
		stated_rate NUMERIC(10,4) NOT NULL,
		start_date DATE NOT NULL,
		maturity_date DATE NOT NULL,
		expected_payout NUMERIC(20,4) NOT NULL,
		realized_payout NUMERIC(20,4) NOT NULL DEFAULT 0,
		realized_rate NUMERIC(10,4) NOT NULL DEFAULT 0,
		closed_at DATE,
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS fixed_deposit_events (
		id UUID PRIMARY KEY,
		instrument_id UUID NOT NULL REFERENCES fixed_deposits(id) ON DELETE CASCADE,
		seq BIGSERIAL,
		entry_date DATE NOT NULL,
		kind TEXT NOT NULL,
		amount NUMERIC(20,4) NOT NULL DEFAULT 0,
		price NUMERIC(20,4) NOT NULL DEFAULT 0,
		units NUMERIC(20,4) NOT NULL DEFAULT 0,
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS recurring_deposits (
		id UUID PRIMARY KEY,
		owner_id UUID NOT NULL,
		name TEXT NOT NULL,
		installment NUMERIC(20,4) NOT NULL,
		frequency TEXT NOT NULL,
		custom_days INT NOT NULL DEFAULT 0,
		annual_rate NUMERIC(10,4) NOT NULL,
		start_date DATE NOT NULL,
		total_installments INT NOT NULL,
		installments_paid INT NOT NULL DEFAULT 0,
		next_due_date DATE,
		maturity_value NUMERIC(20,4) NOT NULL,
		realized_payout NUMERIC(20,4) NOT NULL DEFAULT 0,
		closed_at DATE,
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS recurring_deposit_entries (
		id UUID PRIMARY KEY,
		instrument_id UUID NOT NULL REFERENCES recurring_deposits(id) ON DELETE CASCADE,
		seq BIGSERIAL,
		entry_date DATE NOT NULL,
		kind TEXT NOT NULL,
		amount NUMERIC(20,4) NOT NULL DEFAULT 0,
		price NUMERIC(20,4) NOT NULL DEFAULT 0,
		units NUMERIC(20,4) NOT NULL DEFAULT 0,
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS systematic_investments (
		id UUID PRIMARY KEY,
		owner_id UUID NOT NULL,
		scheme_name TEXT NOT NULL,
		scheme_code TEXT NOT NULL DEFAULT '',
		total_units NUMERIC(20,4) NOT NULL DEFAULT 0,
		current_unit_price NUMERIC(20,4) NOT NULL DEFAULT 0,
		total_invested NUMERIC(20,4) NOT NULL DEFAULT 0,
		redeemed_amount NUMERIC(20,4) NOT NULL DEFAULT 0,
		redeemed_at DATE,
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sip_transactions (
		id UUID PRIMARY KEY,
		instrument_id UUID NOT NULL REFERENCES systematic_investments(id) ON DELETE CASCADE,
		seq BIGSERIAL,
		entry_date DATE NOT NULL,
		kind TEXT NOT NULL,
		amount NUMERIC(20,4) NOT NULL DEFAULT 0,
		price NUMERIC(20,4) NOT NULL DEFAULT 0,
		units NUMERIC(20,4) NOT NULL DEFAULT 0,
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS traded_holdings (
		id UUID PRIMARY KEY,
		owner_id UUID NOT NULL,
		symbol TEXT NOT NULL,
		quantity NUMERIC(20,4) NOT NULL,
		buy_price NUMERIC(20,4) NOT NULL,
		buy_date DATE NOT NULL,
		current_price NUMERIC(20,4) NOT NULL,
		grouping TEXT NOT NULL DEFAULT '',
		sell_price NUMERIC(20,4) NOT NULL DEFAULT 0,
		sold_at DATE,
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS holding_trades (
		id UUID PRIMARY KEY,
		instrument_id UUID NOT NULL REFERENCES traded_holdings(id) ON DELETE CASCADE,
		seq BIGSERIAL,
		entry_date DATE NOT NULL,
		kind TEXT NOT NULL,
		amount NUMERIC(20,4) NOT NULL DEFAULT 0,
		price NUMERIC(20,4) NOT NULL DEFAULT 0,
		units NUMERIC(20,4) NOT NULL DEFAULT 0,
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// Migrate bootstraps the schema on first run
func Migrate(ctx context.Context, db *DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return persistErr("apply schema", err)
		}
	}
	return nil
}
