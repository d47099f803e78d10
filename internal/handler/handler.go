package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/care-planner/backend/internal/config"
	"github.com/sysu-ecnc-dev/care-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/care-planner/backend/internal/repository"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
			r.Route("/update-email", func(r chi.Router) {
				r.Post("/require", h.RequireUpdateEmail)
				r.Post("/confirm", h.ConfirmUpdateEmail)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateUser)
			r.Get("/", h.GetAllUserInfo)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUserInfo)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateUser)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteUser)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/password", h.UpdateUserPassword)
			})
		})

		r.Route("/federal-states", func(r chi.Router) {
			r.Get("/", h.GetAllFederalStates)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateFederalState)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.federalState)
				r.Get("/", h.GetFederalState)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateFederalState)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteFederalState)
			})
		})

		r.Route("/regions", func(r chi.Router) {
			r.Get("/", h.GetAllRegions)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateRegion)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.region)
				r.Get("/", h.GetRegion)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateRegion)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteRegion)
			})
		})

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", h.GetAllClients)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateClient)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.client)
				r.Get("/", h.GetClient)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateClient)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteClient)
			})
		})

		// 员工可以创建和维护自己的班次，持有人校验在各 handler 内完成；
		// 拖拽移动会改动别人的排班，只开放给管理员
		r.Route("/shifts", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Post("/", h.CreateShift)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.shift)
				r.Get("/", h.GetShift)
				r.Patch("/", h.UpdateShift)
				r.Delete("/", h.DeleteShift)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/move", h.MoveShift)
				r.Post("/seek-replacement", h.SeekReplacement)
				r.Delete("/seek-replacement", h.CancelSeekReplacement)
				r.Post("/take-over", h.TakeOverShift)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/overview", h.GetOverview)
			r.Get("/my-shifts", h.GetMyShifts)
		})

		r.Route("/absences", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Post("/", h.CreateAbsence)
			r.Get("/", h.GetAbsences)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.absence)
				r.Get("/", h.GetAbsence)
				r.Patch("/", h.UpdateAbsence)
				r.Delete("/", h.DeleteAbsence)
			})
		})

		r.Route("/weekly-templates", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Post("/", h.CreateWeeklyTemplate)
			r.Get("/", h.GetMyWeeklyTemplates)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.weeklyTemplate)
				r.Get("/", h.GetWeeklyTemplate)
				r.Patch("/", h.UpdateWeeklyTemplate)
				r.Delete("/", h.DeleteWeeklyTemplate)
				r.Post("/apply", h.ApplyWeeklyTemplate)
				r.Route("/shifts", func(r chi.Router) {
					r.Post("/", h.CreateTemplateShift)
					r.Patch("/{shiftID}", h.UpdateTemplateShift)
					r.Delete("/{shiftID}", h.DeleteTemplateShift)
				})
			})
		})
	})
}
