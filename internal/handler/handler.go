package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/crm-planning/backend/internal/config"
	"github.com/sysu-ecnc-dev/crm-planning/backend/internal/domain"
	"github.com/sysu-ecnc-dev/crm-planning/backend/internal/repository"
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

	// 以下 API 必须要在登录后才允许调用（登录由 CRM 的身份服务完成，这里只验证令牌）
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/staff", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/", h.CreateStaffMember)
			r.Get("/", h.GetAllStaff) // 花名册对所有员工可见
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.staffMember)
				r.Get("/", h.GetStaffMember)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Patch("/", h.UpdateStaffMember)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Delete("/", h.DeleteStaffMember)
			})
		})

		r.Route("/planning", func(r chi.Router) {
			r.Get("/board", h.GetPlanningBoard)
			r.Get("/calendar.ics", h.ExportCalendar)
			r.Route("/shifts", func(r chi.Router) {
				r.Get("/", h.GetAllShifts)
				r.Post("/", h.CreateShift)
				r.Route("/{id}", func(r chi.Router) {
					r.Use(h.shiftInfo)
					r.Get("/", h.GetShift)
					r.Patch("/", h.UpdateShift)
					r.Delete("/", h.DeleteShift)
				})
			})
			r.Post("/duplicate-week", h.DuplicateWeek)
		})
	})
}
