package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/crm-planning/backend/internal/domain"
	"github.com/sysu-ecnc-dev/crm-planning/backend/internal/planning"
	"github.com/sysu-ecnc-dev/crm-planning/backend/internal/utils"
)

// rosterSource 把带缓存的花名册读取适配成排班核心需要的 RosterProvider
type rosterSource struct {
	h *Handler
}

func (s rosterSource) ListStaff() ([]*domain.StaffMember, error) {
	return s.h.cachedRoster()
}

// newBoard 为当前请求构建一个排班编排核心；
// 每个请求都是一个独立的编排流，Board 不在请求之间共享
func (h *Handler) newBoard() *planning.Board {
	defaults := planning.Defaults{Color: h.config.Planning.FallbackColor}
	return planning.NewBoard(h.repository, rosterSource{h: h}, defaults, time.Now())
}

func (h *Handler) GetPlanningBoard(w http.ResponseWriter, r *http.Request) {
	filter, err := planning.ParseRowFilter(r.URL.Query().Get("staff"))
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	board := h.newBoard()
	board.SetFilter(filter)

	if weekParam := r.URL.Query().Get("week"); weekParam != "" {
		week, err := time.Parse(domain.DateLayout, weekParam)
		if err != nil {
			h.errorResponse(w, r, "周起始日期格式错误")
			return
		}
		board.SetWeek(week)
	}

	if err := board.Load(); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取排班表成功", board.Grid())
}

func (h *Handler) GetAllShifts(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.repository.ListShifts()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取班次列表成功", shifts)
}

func (h *Handler) GetShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	h.successResponse(w, r, "获取班次成功", shift)
}

func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title             string `json:"title" validate:"required"`
		Date              string `json:"date" validate:"required"`
		StartTime         string `json:"startTime" validate:"required"`
		EndTime           string `json:"endTime" validate:"required"`
		Description       string `json:"description"`
		Color             string `json:"color"`
		AssignedTo        *int64 `json:"assignedTo"`
		RecurrenceEndDate string `json:"recurrenceEndDate"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	shift := &domain.Shift{
		Kind:        domain.EventKindPlanning,
		Title:       req.Title,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Description: req.Description,
		Color:       req.Color,
		AssignedTo:  req.AssignedTo,
	}

	if err := utils.ValidateShift(shift); err != nil {
		h.badRequest(w, r, err)
		return
	}

	board := h.newBoard()
	if err := board.Load(); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 有重复结束日期时按周批量展开，否则创建单个班次
	count, err := board.CreateRecurring(shift, req.RecurrenceEndDate)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if shift.AssignedTo != nil {
		if err := h.notifyAssignment(shift, "shift_assigned"); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}

	h.successResponse(w, r, "创建班次成功", map[string]any{
		"count": count,
		"shift": shift,
	})
}

func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	var req struct {
		Title       *string `json:"title"`
		Date        *string `json:"date"`
		StartTime   *string `json:"startTime"`
		EndTime     *string `json:"endTime"`
		Description *string `json:"description"`
		Color       *string `json:"color"`
		AssignedTo  *int64  `json:"assignedTo"`
		Unassign    bool    `json:"unassign"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	board := h.newBoard()
	if err := board.Load(); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	patch := planning.ShiftPatch{
		Title:       req.Title,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Description: req.Description,
		Color:       req.Color,
		AssignedTo:  req.AssignedTo,
		Unassign:    req.Unassign,
	}

	updated, err := board.Update(shift.ID, patch)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "请重试")
		default:
			h.badRequest(w, r, err)
		}
		return
	}

	// 分配发生变化时通知新旧两边的员工
	if assignmentChanged(shift.AssignedTo, updated.AssignedTo) {
		if updated.AssignedTo != nil {
			if err := h.notifyAssignment(updated, "shift_assigned"); err != nil {
				h.internalServerError(w, r, err)
				return
			}
		}
		if shift.AssignedTo != nil {
			if err := h.notifyAssignment(shift, "shift_cancelled"); err != nil {
				h.internalServerError(w, r, err)
				return
			}
		}
	}

	h.successResponse(w, r, "更新班次成功", updated)
}

func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	board := h.newBoard()
	if err := board.Load(); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := board.Delete(shift.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if shift.AssignedTo != nil {
		if err := h.notifyAssignment(shift, "shift_cancelled"); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}

	h.successResponse(w, r, "删除班次成功", nil)
}

func (h *Handler) DuplicateWeek(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WeekStart string `json:"weekStart" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	week, err := time.Parse(domain.DateLayout, req.WeekStart)
	if err != nil {
		h.errorResponse(w, r, "周起始日期格式错误")
		return
	}

	board := h.newBoard()
	board.SetWeek(week)

	if err := board.Load(); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	count, err := board.DuplicatePreviousWeek()
	if err != nil {
		switch {
		case errors.Is(err, planning.ErrNothingToCopy):
			// 来源周为空不是错误，按无写入的成功处理
			h.successResponse(w, r, "上一周没有可复制的班次", map[string]any{"count": 0})
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "复制上一周班次成功", map[string]any{"count": count})
}

func assignmentChanged(before *int64, after *int64) bool {
	if before == nil && after == nil {
		return false
	}
	if before == nil || after == nil {
		return true
	}
	return *before != *after
}
