package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/care-planner/backend/internal/domain"
)

func (h *Handler) GetAllFederalStates(w http.ResponseWriter, r *http.Request) {
	states, err := h.repository.GetAllFederalStates()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取联邦州列表成功", states)
}

func (h *Handler) CreateFederalState(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string `json:"name" validate:"required"`
		SortOrder *int32 `json:"sortOrder"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	state := &domain.FederalState{
		Name:      req.Name,
		SortOrder: req.SortOrder,
	}

	if err := h.repository.CreateFederalState(state); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "federal_states_name_key":
			h.badRequest(w, r, errors.New("联邦州已存在"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建联邦州成功", state)
}

func (h *Handler) GetFederalState(w http.ResponseWriter, r *http.Request) {
	state := r.Context().Value(FederalStateCtx).(*domain.FederalState)
	h.successResponse(w, r, "获取联邦州成功", state)
}

func (h *Handler) UpdateFederalState(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      *string `json:"name"`
		SortOrder *int32  `json:"sortOrder"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	state := r.Context().Value(FederalStateCtx).(*domain.FederalState)

	if req.Name != nil {
		state.Name = *req.Name
	}
	if req.SortOrder != nil {
		state.SortOrder = req.SortOrder
	}

	if err := h.repository.UpdateFederalState(state); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "federal_states_name_key":
			h.badRequest(w, r, errors.New("联邦州已存在"))
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新联邦州失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新联邦州成功", state)
}

func (h *Handler) DeleteFederalState(w http.ResponseWriter, r *http.Request) {
	state := r.Context().Value(FederalStateCtx).(*domain.FederalState)

	if err := h.repository.DeleteFederalState(state.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除联邦州成功", nil)
}

func (h *Handler) GetAllRegions(w http.ResponseWriter, r *http.Request) {
	regions, err := h.repository.GetAllRegions()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取服务区列表成功", regions)
}

func (h *Handler) CreateRegion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name           string `json:"name" validate:"required"`
		Description    string `json:"description"`
		FederalStateID *int64 `json:"federalStateID"`
		SortOrder      *int32 `json:"sortOrder"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	region := &domain.Region{
		Name:           req.Name,
		Description:    req.Description,
		FederalStateID: req.FederalStateID,
		SortOrder:      req.SortOrder,
	}

	if err := h.repository.CreateRegion(region); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "regions_federal_state_id_fkey":
			h.badRequest(w, r, errors.New("联邦州不存在"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建服务区成功", region)
}

func (h *Handler) GetRegion(w http.ResponseWriter, r *http.Request) {
	region := r.Context().Value(RegionCtx).(*domain.Region)
	h.successResponse(w, r, "获取服务区成功", region)
}

func (h *Handler) UpdateRegion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name           *string `json:"name"`
		Description    *string `json:"description"`
		FederalStateID *int64  `json:"federalStateID"`
		SortOrder      *int32  `json:"sortOrder"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	region := r.Context().Value(RegionCtx).(*domain.Region)

	if req.Name != nil {
		region.Name = *req.Name
	}
	if req.Description != nil {
		region.Description = *req.Description
	}
	if req.FederalStateID != nil {
		region.FederalStateID = req.FederalStateID
	}
	if req.SortOrder != nil {
		region.SortOrder = req.SortOrder
	}

	if err := h.repository.UpdateRegion(region); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "regions_federal_state_id_fkey":
			h.badRequest(w, r, errors.New("联邦州不存在"))
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新服务区失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新服务区成功", region)
}

func (h *Handler) DeleteRegion(w http.ResponseWriter, r *http.Request) {
	region := r.Context().Value(RegionCtx).(*domain.Region)

	if err := h.repository.DeleteRegion(region.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除服务区成功", nil)
}
