package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/care-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/care-planner/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/care-planner/backend/internal/utils"
)

// shiftWriteError 把排班写入时可能出现的各类错误翻译成响应。
// 排班冲突、状态冲突这类业务错误返回给客户端，其余算服务器内部错误。
func (h *Handler) shiftWriteError(w http.ResponseWriter, r *http.Request, err error) {
	var overlapErr *scheduler.OverlapError
	var pgErr *pgconn.PgError

	switch {
	case errors.As(err, &overlapErr):
		h.errorResponse(w, r, overlapErr.Error())
	case errors.Is(err, scheduler.ErrNotTakeable),
		errors.Is(err, scheduler.ErrTakeOverSelf),
		errors.Is(err, scheduler.ErrOutOfScope),
		errors.Is(err, scheduler.ErrNotOwner):
		h.errorResponse(w, r, err.Error())
	case errors.Is(err, sql.ErrNoRows):
		h.errorResponse(w, r, "排班已被其他人修改，请刷新后重试")
	case errors.As(err, &pgErr):
		switch pgErr.ConstraintName {
		case "shifts_employee_id_fkey":
			h.errorResponse(w, r, "员工不存在")
		case "shifts_region_id_fkey":
			h.errorResponse(w, r, "服务区不存在")
		default:
			h.internalServerError(w, r, err)
		}
	default:
		h.internalServerError(w, r, err)
	}
}

func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Profile)

	var req struct {
		EmployeeID *int64 `json:"employeeID"`
		ShiftDate  string `json:"shiftDate" validate:"required"`
		TimeFrom   string `json:"timeFrom" validate:"required"`
		TimeTo     string `json:"timeTo" validate:"required"`
		ClientName string `json:"clientName" validate:"required"`
		Notes      string `json:"notes"`
		RegionID   *int64 `json:"regionID"`
		OpenShift  bool   `json:"openShift"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	timeFrom, timeTo, err := utils.NormalizeShiftWindow(req.ShiftDate, req.TimeFrom, req.TimeTo)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 普通员工只能给自己创建班次，开放班次只有管理员能发布
	actor := &scheduler.ViewerScope{EmployeeID: myInfo.ID, Role: myInfo.Role}
	if err := scheduler.CanCreateShift(actor, req.EmployeeID, req.OpenShift); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}
	if !myInfo.IsAdmin() && req.EmployeeID == nil {
		req.EmployeeID = &myInfo.ID
	}

	// 开放班次挂在服务区下，普通班次必须有持有人
	if req.OpenShift && req.RegionID == nil {
		h.badRequest(w, r, errors.New("开放班次必须指定服务区"))
		return
	}
	if !req.OpenShift && req.EmployeeID == nil {
		h.badRequest(w, r, errors.New("班次必须指定员工"))
		return
	}

	shift := &domain.Shift{
		EmployeeID: req.EmployeeID,
		ShiftDate:  req.ShiftDate,
		TimeFrom:   timeFrom,
		TimeTo:     timeTo,
		ClientName: req.ClientName,
		Notes:      req.Notes,
		RegionID:   req.RegionID,
		OpenShift:  req.OpenShift,
		CreatedBy:  &myInfo.ID,
	}

	if req.OpenShift {
		shift.EmployeeID = nil
	}

	if err := h.repository.CreateShift(shift); err != nil {
		h.shiftWriteError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建排班成功", shift)
}

func (h *Handler) GetShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)
	h.successResponse(w, r, "获取排班成功", shift)
}

func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeID *int64  `json:"employeeID"`
		ShiftDate  *string `json:"shiftDate"`
		TimeFrom   *string `json:"timeFrom"`
		TimeTo     *string `json:"timeTo"`
		ClientName *string `json:"clientName"`
		Notes      *string `json:"notes"`
		RegionID   *int64  `json:"regionID"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	shift := r.Context().Value(ShiftCtx).(*domain.Shift)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Profile)

	// 普通员工只能编辑自己持有的班次，也不能把班次转给别人
	actor := &scheduler.ViewerScope{EmployeeID: myInfo.ID, Role: myInfo.Role}
	if err := scheduler.CanEditShift(shift, actor); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}
	if !myInfo.IsAdmin() && req.EmployeeID != nil && *req.EmployeeID != myInfo.ID {
		h.errorResponse(w, r, scheduler.ErrNotOwner.Error())
		return
	}

	if req.EmployeeID != nil {
		shift.EmployeeID = req.EmployeeID
	}
	if req.ShiftDate != nil {
		shift.ShiftDate = *req.ShiftDate
	}
	if req.TimeFrom != nil {
		shift.TimeFrom = *req.TimeFrom
	}
	if req.TimeTo != nil {
		shift.TimeTo = *req.TimeTo
	}
	if req.ClientName != nil {
		shift.ClientName = *req.ClientName
	}
	if req.Notes != nil {
		shift.Notes = *req.Notes
	}
	if req.RegionID != nil {
		shift.RegionID = req.RegionID
	}

	timeFrom, timeTo, err := utils.NormalizeShiftWindow(shift.ShiftDate, shift.TimeFrom, shift.TimeTo)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	shift.TimeFrom, shift.TimeTo = timeFrom, timeTo

	if err := h.repository.UpdateShift(shift); err != nil {
		h.shiftWriteError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新排班成功", shift)
}

func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Profile)

	// 删除和编辑同权：持有人自己或管理员
	actor := &scheduler.ViewerScope{EmployeeID: myInfo.ID, Role: myInfo.Role}
	if err := scheduler.CanEditShift(shift, actor); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	if err := h.repository.DeleteShift(shift.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除排班成功", nil)
}

// MoveShift 对应周视图里的拖拽移动：员工和日期一起改，要么都生效要么都不生效。
func (h *Handler) MoveShift(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeID int64  `json:"employeeID" validate:"required"`
		ShiftDate  string `json:"shiftDate" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateDate(req.ShiftDate); err != nil {
		h.badRequest(w, r, err)
		return
	}

	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	moved, err := h.repository.MoveShift(shift.ID, req.EmployeeID, req.ShiftDate)
	if err != nil {
		h.shiftWriteError(w, r, err)
		return
	}

	h.successResponse(w, r, "移动排班成功", moved)
}

func (h *Handler) SeekReplacement(w http.ResponseWriter, r *http.Request) {
	h.toggleSeekReplacement(w, r, true, "已标记为寻找替班")
}

func (h *Handler) CancelSeekReplacement(w http.ResponseWriter, r *http.Request) {
	h.toggleSeekReplacement(w, r, false, "已取消寻找替班")
}

func (h *Handler) toggleSeekReplacement(w http.ResponseWriter, r *http.Request, seeking bool, msg string) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Profile)

	scope, err := h.repository.GetViewerScope(myInfo)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 只有班次的持有人或管理员可以切换标记
	if err := scheduler.CanToggleReplacement(shift, scope); err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	if err := h.repository.SetSeekingReplacement(shift, seeking); err != nil {
		h.shiftWriteError(w, r, err)
		return
	}

	h.successResponse(w, r, msg, shift)
}

// TakeOverShift 接手一个开放班次或寻找替班的班次。
// 状态校验和范围校验都在仓储层的事务内完成，
// 这里只负责拿到查看者的可见范围并翻译错误。
func (h *Handler) TakeOverShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Profile)

	scope, err := h.repository.GetViewerScope(myInfo)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	taken, err := h.repository.TakeOverShift(shift.ID, scope)
	if err != nil {
		h.shiftWriteError(w, r, err)
		return
	}

	h.successResponse(w, r, "接手排班成功", taken)
}
