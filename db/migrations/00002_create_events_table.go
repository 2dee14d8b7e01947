package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateEventsTable, downCreateEventsTable)
}

func upCreateEventsTable(ctx context.Context, tx *sql.Tx) error {
	// assigned_to 是对 staff 的软引用，不建外键：
	// 员工被删除后历史班次仍然保留原来的分配记录
	_, err := tx.ExecContext(ctx, `
		CREATE TABLE events (
			id BIGSERIAL PRIMARY KEY,
			kind TEXT NOT NULL,
			title TEXT NOT NULL,
			date DATE NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			color TEXT NOT NULL DEFAULT '',
			assigned_to BIGINT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			version INTEGER NOT NULL DEFAULT 1
		);

		CREATE INDEX events_kind_date_idx ON events (kind, date);
	`)
	if err != nil {
		return err
	}
	return nil
}

func downCreateEventsTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		DROP TABLE events;
	`)
	if err != nil {
		return err
	}
	return nil
}
