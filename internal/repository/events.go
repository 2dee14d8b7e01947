package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/crm-planning/backend/internal/domain"
)

// ListShifts 返回所有排班类型的事件，按日期排序。
// 事件存储中还保存着其他类型的日历事件，排班核心只读写 planning 类型。
func (r *Repository) ListShifts() ([]*domain.Shift, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, kind, title, date, start_time, end_time, description, color, assigned_to, created_at, version
		FROM events
		WHERE kind = $1
		ORDER BY date, id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, domain.EventKindPlanning)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shifts := make([]*domain.Shift, 0)

	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shifts, nil
}

func (r *Repository) GetShiftByID(id int64) (*domain.Shift, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, kind, title, date, start_time, end_time, description, color, assigned_to, created_at, version
		FROM events
		WHERE id = $1 AND kind = $2
	`

	return scanShift(r.dbpool.QueryRowContext(ctx, query, id, domain.EventKindPlanning))
}

func (r *Repository) CreateShift(shift *domain.Shift) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO events (kind, title, date, start_time, end_time, description, color, assigned_to)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, version
	`

	params := []any{
		shift.Kind,
		shift.Title,
		shift.Date,
		shift.StartTime,
		shift.EndTime,
		shift.Description,
		shift.Color,
		assignedToParam(shift),
	}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&shift.ID, &shift.CreatedAt, &shift.Version); err != nil {
		return err
	}

	return nil
}

// CreateShifts 在单个事务中批量创建班次，要么全部成功要么全部失败
func (r *Repository) CreateShifts(shifts []*domain.Shift) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO events (kind, title, date, start_time, end_time, description, color, assigned_to)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, version
	`

	for _, shift := range shifts {
		params := []any{
			shift.Kind,
			shift.Title,
			shift.Date,
			shift.StartTime,
			shift.EndTime,
			shift.Description,
			shift.Color,
			assignedToParam(shift),
		}
		if err := tx.QueryRowContext(ctx, query, params...).Scan(&shift.ID, &shift.CreatedAt, &shift.Version); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateShift(shift *domain.Shift) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE events
		SET
			title = $1,
			date = $2,
			start_time = $3,
			end_time = $4,
			description = $5,
			color = $6,
			assigned_to = $7,
			version = version + 1
		WHERE id = $8 AND version = $9
		RETURNING version
	`

	params := []any{
		shift.Title,
		shift.Date,
		shift.StartTime,
		shift.EndTime,
		shift.Description,
		shift.Color,
		assignedToParam(shift),
		shift.ID,
		shift.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&shift.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteShift(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		DELETE FROM events WHERE id = $1
	`

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}

type rowScanner interface {
	Scan(dst ...any) error
}

func scanShift(row rowScanner) (*domain.Shift, error) {
	var shift domain.Shift
	var date time.Time
	var assignedTo sql.NullInt64

	dst := []any{
		&shift.ID,
		&shift.Kind,
		&shift.Title,
		&date,
		&shift.StartTime,
		&shift.EndTime,
		&shift.Description,
		&shift.Color,
		&assignedTo,
		&shift.CreatedAt,
		&shift.Version,
	}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}

	shift.Date = date.Format(domain.DateLayout)
	if assignedTo.Valid {
		shift.AssignedTo = &assignedTo.Int64
	}

	return &shift, nil
}

func assignedToParam(shift *domain.Shift) any {
	if shift.AssignedTo == nil {
		return nil
	}
	return *shift.AssignedTo
}
