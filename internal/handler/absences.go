package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/care-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/care-planner/backend/internal/utils"
)

func (h *Handler) CreateAbsence(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Profile)

	var req struct {
		EmployeeID *int64 `json:"employeeID"`
		StartDate  string `json:"startDate" validate:"required"`
		StartTime  string `json:"startTime" validate:"required"`
		EndDate    string `json:"endDate" validate:"required"`
		EndTime    string `json:"endTime" validate:"required"`
		Reason     string `json:"reason"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 普通员工只能为自己请假，管理员可以为任何员工登记
	employeeID := myInfo.ID
	if req.EmployeeID != nil {
		if !myInfo.IsAdmin() && *req.EmployeeID != myInfo.ID {
			h.errorResponse(w, r, "权限不足")
			return
		}
		employeeID = *req.EmployeeID
	}

	absence := &domain.Absence{
		EmployeeID: employeeID,
		StartDate:  req.StartDate,
		StartTime:  req.StartTime,
		EndDate:    req.EndDate,
		EndTime:    req.EndTime,
		Reason:     req.Reason,
	}

	if err := utils.ValidateAbsenceSpan(absence); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateAbsence(absence); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "absences_employee_id_fkey":
			h.badRequest(w, r, errors.New("员工不存在"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建请假记录成功", absence)
}

// GetAbsences 列出请假记录：管理员看到全部，普通员工只看到自己的。
func (h *Handler) GetAbsences(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Profile)

	var absences []*domain.Absence
	var err error

	if myInfo.IsAdmin() {
		absences, err = h.repository.GetAllAbsences()
	} else {
		absences, err = h.repository.GetAbsencesByEmployee(myInfo.ID)
	}
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取请假记录成功", absences)
}

func (h *Handler) GetAbsence(w http.ResponseWriter, r *http.Request) {
	absence := r.Context().Value(AbsenceCtx).(*domain.Absence)
	h.successResponse(w, r, "获取请假记录成功", absence)
}

func (h *Handler) UpdateAbsence(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StartDate *string `json:"startDate"`
		StartTime *string `json:"startTime"`
		EndDate   *string `json:"endDate"`
		EndTime   *string `json:"endTime"`
		Reason    *string `json:"reason"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	absence := r.Context().Value(AbsenceCtx).(*domain.Absence)

	if req.StartDate != nil {
		absence.StartDate = *req.StartDate
	}
	if req.StartTime != nil {
		absence.StartTime = *req.StartTime
	}
	if req.EndDate != nil {
		absence.EndDate = *req.EndDate
	}
	if req.EndTime != nil {
		absence.EndTime = *req.EndTime
	}
	if req.Reason != nil {
		absence.Reason = *req.Reason
	}

	if err := utils.ValidateAbsenceSpan(absence); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpdateAbsence(absence); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新请假记录失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新请假记录成功", absence)
}

func (h *Handler) DeleteAbsence(w http.ResponseWriter, r *http.Request) {
	absence := r.Context().Value(AbsenceCtx).(*domain.Absence)

	if err := h.repository.DeleteAbsence(absence.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除请假记录成功", nil)
}
