package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateStaffTable, downCreateStaffTable)
}

func upCreateStaffTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		CREATE TABLE staff (
			id BIGSERIAL PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			color TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT '员工',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			version INTEGER NOT NULL DEFAULT 1
		);
	`)
	if err != nil {
		return err
	}
	return nil
}

func downCreateStaffTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		DROP TABLE staff;
	`)
	if err != nil {
		return err
	}
	return nil
}
