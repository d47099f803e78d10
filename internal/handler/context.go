package handler

type ContextKey string

var (
	RoleCtxKey        ContextKey = "role"
	SubCtxKey         ContextKey = "sub"
	MyInfoCtx         ContextKey = "myInfo"
	UserInfoCtx       ContextKey = "userInfo"
	FederalStateCtx   ContextKey = "federalState"
	RegionCtx         ContextKey = "region"
	ClientCtx         ContextKey = "client"
	ShiftCtx          ContextKey = "shift"
	AbsenceCtx        ContextKey = "absence"
	WeeklyTemplateCtx ContextKey = "weeklyTemplate"
)
