package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/crm-planning/backend/internal/domain"
)

const rosterCacheKey = "planning:roster"

// cachedRoster 优先从 redis 读取花名册，未命中时回源数据库并写入缓存。
// 每次渲染排班表都要用到花名册，因此值得缓存。
func (h *Handler) cachedRoster() ([]*domain.StaffMember, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.ConnectTimeout)*time.Second)
	defer cancel()

	cached, err := h.redisClient.Get(ctx, rosterCacheKey).Result()
	if err == nil {
		members := make([]*domain.StaffMember, 0)
		if err := json.Unmarshal([]byte(cached), &members); err == nil {
			return members, nil
		}
		// 缓存内容损坏时当作未命中处理
	} else if !errors.Is(err, redis.Nil) {
		return nil, err
	}

	members, err := h.repository.GetAllStaff()
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(members)
	if err != nil {
		return nil, err
	}

	ttl := time.Duration(h.config.Redis.RosterCacheTTL) * time.Second
	if err := h.redisClient.Set(ctx, rosterCacheKey, encoded, ttl).Err(); err != nil {
		return nil, err
	}

	return members, nil
}

func (h *Handler) invalidateRosterCache() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.ConnectTimeout)*time.Second)
	defer cancel()

	return h.redisClient.Del(ctx, rosterCacheKey).Err()
}

func (h *Handler) GetAllStaff(w http.ResponseWriter, r *http.Request) {
	members, err := h.cachedRoster()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取花名册成功", members)
}

func (h *Handler) GetStaffMember(w http.ResponseWriter, r *http.Request) {
	member := r.Context().Value(StaffMemberCtx).(*domain.StaffMember)

	h.successResponse(w, r, "获取员工信息成功", member)
}

func (h *Handler) CreateStaffMember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName string `json:"firstName" validate:"required"`
		LastName  string `json:"lastName" validate:"required"`
		Email     string `json:"email" validate:"required,email"`
		Color     string `json:"color" validate:"required,hexcolor"`
		Role      string `json:"role" validate:"required,oneof=员工 经理"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	member := &domain.StaffMember{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Color:     req.Color,
		Role:      domain.Role(req.Role),
		IsActive:  true,
	}

	if err := h.repository.CreateStaffMember(member); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "staff_email_key":
				h.badRequest(w, r, errors.New("邮箱已存在"))
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.invalidateRosterCache(); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建员工成功", member)
}

func (h *Handler) UpdateStaffMember(w http.ResponseWriter, r *http.Request) {
	member := r.Context().Value(StaffMemberCtx).(*domain.StaffMember)

	var req struct {
		FirstName *string `json:"firstName"`
		LastName  *string `json:"lastName"`
		Email     *string `json:"email" validate:"omitempty,email"`
		Color     *string `json:"color" validate:"omitempty,hexcolor"`
		Role      *string `json:"role" validate:"omitempty,oneof=员工 经理"`
		IsActive  *bool   `json:"isActive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.FirstName != nil {
		member.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		member.LastName = *req.LastName
	}
	if req.Email != nil {
		member.Email = *req.Email
	}
	if req.Color != nil {
		member.Color = *req.Color
	}
	if req.Role != nil {
		member.Role = domain.Role(*req.Role)
	}
	if req.IsActive != nil {
		member.IsActive = *req.IsActive
	}

	if err := h.repository.UpdateStaffMember(member); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "staff_email_key":
				h.badRequest(w, r, errors.New("邮箱已存在"))
			default:
				h.internalServerError(w, r, err)
			}
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.invalidateRosterCache(); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新员工信息成功", member)
}

func (h *Handler) DeleteStaffMember(w http.ResponseWriter, r *http.Request) {
	member := r.Context().Value(StaffMemberCtx).(*domain.StaffMember)

	if err := h.repository.DeleteStaffMember(member.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.invalidateRosterCache(); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除员工成功", nil)
}
