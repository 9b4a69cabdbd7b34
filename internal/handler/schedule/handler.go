package schedule

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/frontdesk-api/internal/handler"
	"github.com/jwalitptl/frontdesk-api/internal/model"
	apperrors "github.com/jwalitptl/frontdesk-api/pkg/errors"
)

type Service interface {
	List(ctx context.Context, filter model.ScheduleFilter) ([]*model.DoctorSchedule, error)
	Departments(ctx context.Context) ([]string, error)
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/schedules", h.List)
	r.GET("/departments", h.Departments)
}

func (h *Handler) List(c *gin.Context) {
	filter := model.ScheduleFilter{Department: c.Query("department")}
	if raw := c.Query("date"); raw != "" {
		date, err := time.ParseInLocation(model.DateLayout, raw, time.UTC)
		if err != nil {
			handler.RespondError(c, apperrors.NewBadRequest("date must be YYYY-MM-DD", err))
			return
		}
		filter.Date = date
	}

	schedules, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.OK(c, schedules)
}

func (h *Handler) Departments(c *gin.Context) {
	departments, err := h.svc.Departments(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.OK(c, departments)
}
