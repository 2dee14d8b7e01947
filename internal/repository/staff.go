package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/crm-planning/backend/internal/domain"
)

// GetAllStaff 返回全部在职员工，按姓名排序
func (r *Repository) GetAllStaff() ([]*domain.StaffMember, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, first_name, last_name, email, color, role, is_active, created_at, version
		FROM staff
		WHERE is_active = TRUE
		ORDER BY last_name, first_name
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]*domain.StaffMember, 0)

	for rows.Next() {
		var member domain.StaffMember

		dst := []any{
			&member.ID,
			&member.FirstName,
			&member.LastName,
			&member.Email,
			&member.Color,
			&member.Role,
			&member.IsActive,
			&member.CreatedAt,
			&member.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		members = append(members, &member)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return members, nil
}

func (r *Repository) GetStaffMemberByID(id int64) (*domain.StaffMember, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, first_name, last_name, email, color, role, is_active, created_at, version
		FROM staff
		WHERE id = $1
	`

	var member domain.StaffMember
	dst := []any{
		&member.ID,
		&member.FirstName,
		&member.LastName,
		&member.Email,
		&member.Color,
		&member.Role,
		&member.IsActive,
		&member.CreatedAt,
		&member.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return &member, nil
}

func (r *Repository) CreateStaffMember(member *domain.StaffMember) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO staff (first_name, last_name, email, color, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, version
	`

	params := []any{member.FirstName, member.LastName, member.Email, member.Color, member.Role, member.IsActive}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&member.ID, &member.CreatedAt, &member.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateStaffMember(member *domain.StaffMember) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE staff
		SET
			first_name = $1,
			last_name = $2,
			email = $3,
			color = $4,
			role = $5,
			is_active = $6,
			version = version + 1
		WHERE id = $7 AND version = $8
		RETURNING version
	`

	params := []any{member.FirstName, member.LastName, member.Email, member.Color, member.Role, member.IsActive, member.ID, member.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&member.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteStaffMember(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		DELETE FROM staff WHERE id = $1
	`

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
