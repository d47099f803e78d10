package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/care-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/care-planner/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/care-planner/backend/internal/utils"
)

func (h *Handler) CreateWeeklyTemplate(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Profile)

	var req struct {
		Name   string                 `json:"name" validate:"required"`
		Shifts []domain.TemplateShift `json:"shifts"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateTemplateShifts(req.Shifts); err != nil {
		h.badRequest(w, r, err)
		return
	}

	template := &domain.WeeklyTemplate{
		EmployeeID: myInfo.ID,
		Name:       req.Name,
		Shifts:     req.Shifts,
	}
	if template.Shifts == nil {
		template.Shifts = make([]domain.TemplateShift, 0)
	}

	if err := h.repository.CreateWeeklyTemplate(template); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建周模板成功", template)
}

func (h *Handler) GetMyWeeklyTemplates(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Profile)

	templates, err := h.repository.GetWeeklyTemplatesByEmployee(myInfo.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取周模板列表成功", templates)
}

func (h *Handler) GetWeeklyTemplate(w http.ResponseWriter, r *http.Request) {
	template := r.Context().Value(WeeklyTemplateCtx).(*domain.WeeklyTemplate)
	h.successResponse(w, r, "获取周模板成功", template)
}

func (h *Handler) UpdateWeeklyTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	template := r.Context().Value(WeeklyTemplateCtx).(*domain.WeeklyTemplate)
	template.Name = req.Name

	if err := h.repository.UpdateWeeklyTemplate(template); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新周模板失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新周模板成功", template)
}

func (h *Handler) DeleteWeeklyTemplate(w http.ResponseWriter, r *http.Request) {
	template := r.Context().Value(WeeklyTemplateCtx).(*domain.WeeklyTemplate)

	if err := h.repository.DeleteWeeklyTemplate(template.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除周模板成功", nil)
}

func (h *Handler) CreateTemplateShift(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DayOfWeek  int32  `json:"dayOfWeek" validate:"min=0,max=6"`
		TimeFrom   string `json:"timeFrom" validate:"required"`
		TimeTo     string `json:"timeTo" validate:"required"`
		ClientName string `json:"clientName" validate:"required"`
		Notes      string `json:"notes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	template := r.Context().Value(WeeklyTemplateCtx).(*domain.WeeklyTemplate)

	shift := domain.TemplateShift{
		DayOfWeek:  req.DayOfWeek,
		TimeFrom:   req.TimeFrom,
		TimeTo:     req.TimeTo,
		ClientName: req.ClientName,
		Notes:      req.Notes,
	}

	// 新班次和模板里已有的班次一起校验，保证模板自身无冲突；
	// 校验会把时间补齐成 HH:MM:SS，从补齐后的切片里取回这条班次
	combined := append(template.Shifts, shift)
	if err := utils.ValidateTemplateShifts(combined); err != nil {
		h.badRequest(w, r, err)
		return
	}
	shift = combined[len(combined)-1]

	if err := h.repository.CreateTemplateShift(template.ID, &shift); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建模板班次成功", shift)
}

func (h *Handler) UpdateTemplateShift(w http.ResponseWriter, r *http.Request) {
	shiftID, err := idParam(r, "shiftID")
	if err != nil {
		h.errorResponse(w, r, "模板班次ID无效")
		return
	}

	template := r.Context().Value(WeeklyTemplateCtx).(*domain.WeeklyTemplate)

	var shift *domain.TemplateShift
	rest := make([]domain.TemplateShift, 0, len(template.Shifts))
	for i := range template.Shifts {
		if template.Shifts[i].ID == shiftID {
			shift = &template.Shifts[i]
		} else {
			rest = append(rest, template.Shifts[i])
		}
	}
	if shift == nil {
		h.errorResponse(w, r, "模板班次不存在")
		return
	}

	var req struct {
		DayOfWeek  *int32  `json:"dayOfWeek" validate:"omitempty,min=0,max=6"`
		TimeFrom   *string `json:"timeFrom"`
		TimeTo     *string `json:"timeTo"`
		ClientName *string `json:"clientName"`
		Notes      *string `json:"notes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.DayOfWeek != nil {
		shift.DayOfWeek = *req.DayOfWeek
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

	combined := append(rest, *shift)
	if err := utils.ValidateTemplateShifts(combined); err != nil {
		h.badRequest(w, r, err)
		return
	}
	*shift = combined[len(combined)-1]

	if err := h.repository.UpdateTemplateShift(shift); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "模板班次不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新模板班次成功", shift)
}

func (h *Handler) DeleteTemplateShift(w http.ResponseWriter, r *http.Request) {
	shiftID, err := idParam(r, "shiftID")
	if err != nil {
		h.errorResponse(w, r, "模板班次ID无效")
		return
	}

	template := r.Context().Value(WeeklyTemplateCtx).(*domain.WeeklyTemplate)

	found := false
	for _, shift := range template.Shifts {
		if shift.ID == shiftID {
			found = true
			break
		}
	}
	if !found {
		h.errorResponse(w, r, "模板班次不存在")
		return
	}

	if err := h.repository.DeleteTemplateShift(shiftID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除模板班次成功", nil)
}

// ApplyWeeklyTemplate 把周模板套用到指定的一周。
// 套用是全有或全无的：任何一天发生冲突，整周都不会写入。
func (h *Handler) ApplyWeeklyTemplate(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Profile)
	template := r.Context().Value(WeeklyTemplateCtx).(*domain.WeeklyTemplate)

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

	anchor, err := time.Parse(scheduler.DateLayout, req.WeekStart)
	if err != nil {
		h.errorResponse(w, r, "无效的周参数")
		return
	}

	if len(template.Shifts) == 0 {
		h.errorResponse(w, r, "周模板中没有任何班次")
		return
	}

	created, err := h.repository.ApplyWeeklyTemplate(template, scheduler.WeekStart(anchor), myInfo.ID)
	if err != nil {
		h.shiftWriteError(w, r, err)
		return
	}

	h.successResponse(w, r, "套用周模板成功", created)
}
