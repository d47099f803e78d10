package handler

import (
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/care-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/care-planner/backend/internal/scheduler"
)

// weekAnchor 解析 ?week=YYYY-MM-DD 参数并归一化到那一周的周一。
// 参数缺失时落在当前周。
func weekAnchor(r *http.Request) (time.Time, error) {
	week := r.URL.Query().Get("week")
	if week == "" {
		return scheduler.WeekStart(time.Now()), nil
	}

	t, err := time.Parse(scheduler.DateLayout, week)
	if err != nil {
		return time.Time{}, err
	}
	return scheduler.WeekStart(t), nil
}

// GetOverview 返回周视图：按 联邦州 -> 服务区 -> 员工 -> 天 分组的整周排班。
// 管理员看到全部联邦州，普通员工只看到自己所在的联邦州。
func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Profile)

	anchor, err := weekAnchor(r)
	if err != nil {
		h.errorResponse(w, r, "无效的周参数")
		return
	}
	startDate, endDate := scheduler.WeekRange(anchor)

	type overviewResponse struct {
		WeekStart string                         `json:"weekStart"`
		WeekEnd   string                         `json:"weekEnd"`
		PrevWeek  string                         `json:"prevWeek"`
		NextWeek  string                         `json:"nextWeek"`
		Groups    []*scheduler.FederalStateGroup `json:"groups"`
	}

	resp := &overviewResponse{
		WeekStart: startDate,
		WeekEnd:   endDate,
		PrevWeek:  scheduler.AddWeeks(anchor, -1).Format(scheduler.DateLayout),
		NextWeek:  scheduler.AddWeeks(anchor, 1).Format(scheduler.DateLayout),
		Groups:    make([]*scheduler.FederalStateGroup, 0),
	}

	scope, err := h.repository.GetViewerScope(myInfo)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	var stateID *int64
	var employees []*domain.Profile
	var regions []*domain.Region
	var states []*domain.FederalState

	if scope.IsAdmin() {
		if employees, err = h.repository.GetAllProfiles(); err != nil {
			h.internalServerError(w, r, err)
			return
		}
		if regions, err = h.repository.GetAllRegions(); err != nil {
			h.internalServerError(w, r, err)
			return
		}
		if states, err = h.repository.GetAllFederalStates(); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	} else {
		// 还没有被分配到任何联邦州的员工看不到任何分组
		if scope.FederalStateID == nil {
			dataResponse(h, w, r, "获取周视图成功", resp)
			return
		}
		stateID = scope.FederalStateID

		if employees, err = h.repository.GetProfilesByFederalState(*stateID); err != nil {
			h.internalServerError(w, r, err)
			return
		}
		if regions, err = h.repository.GetRegionsByFederalState(*stateID); err != nil {
			h.internalServerError(w, r, err)
			return
		}
		state, err := h.repository.GetFederalStateByID(*stateID)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		states = []*domain.FederalState{state}
	}

	shifts, err := h.repository.GetAssignedShiftsInRange(startDate, endDate, stateID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	openShifts, err := h.repository.GetOpenShiftsInRange(startDate, endDate, stateID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	absences, err := h.repository.GetAbsencesInRange(startDate, endDate, stateID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	resp.Groups = scheduler.BuildWeekGrid(&scheduler.GridInput{
		WeekStart:     anchor,
		Employees:     employees,
		Regions:       regions,
		FederalStates: states,
		Shifts:        shifts,
		OpenShifts:    openShifts,
		Absences:      absences,
	})

	dataResponse(h, w, r, "获取周视图成功", resp)
}

// GetMyShifts 返回当前员工某一周的个人视角：
// 自己的班次、联邦州内可接手的替班班次和开放班次。
func (h *Handler) GetMyShifts(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Profile)

	anchor, err := weekAnchor(r)
	if err != nil {
		h.errorResponse(w, r, "无效的周参数")
		return
	}
	startDate, endDate := scheduler.WeekRange(anchor)

	type myShiftsResponse struct {
		WeekStart         string          `json:"weekStart"`
		WeekEnd           string          `json:"weekEnd"`
		Shifts            []*domain.Shift `json:"shifts"`
		ReplacementShifts []*domain.Shift `json:"replacementShifts"`
		OpenShifts        []*domain.Shift `json:"openShifts"`
	}

	resp := &myShiftsResponse{
		WeekStart:         startDate,
		WeekEnd:           endDate,
		Shifts:            make([]*domain.Shift, 0),
		ReplacementShifts: make([]*domain.Shift, 0),
		OpenShifts:        make([]*domain.Shift, 0),
	}

	if resp.Shifts, err = h.repository.GetShiftsByEmployeeInRange(myInfo.ID, startDate, endDate); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	scope, err := h.repository.GetViewerScope(myInfo)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if scope.FederalStateID != nil {
		if resp.ReplacementShifts, err = h.repository.GetReplacementShiftsByFederalState(*scope.FederalStateID, myInfo.ID, startDate, endDate); err != nil {
			h.internalServerError(w, r, err)
			return
		}
		if resp.OpenShifts, err = h.repository.GetOpenShiftsInRange(startDate, endDate, scope.FederalStateID); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}

	dataResponse(h, w, r, "获取我的排班成功", resp)
}
