package catalog

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/frontdesk-api/internal/handler"
	"github.com/jwalitptl/frontdesk-api/internal/model"
)

type Service interface {
	List(ctx context.Context, filter model.CatalogFilter) ([]*model.AncillaryService, error)
	Get(ctx context.Context, id string) (*model.AncillaryService, error)
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	services := r.Group("/services")
	{
		services.GET("", h.List)
		services.GET("/:id", h.Get)
	}
}

func (h *Handler) List(c *gin.Context) {
	services, err := h.svc.List(c.Request.Context(), model.CatalogFilter{
		Category: c.Query("category"),
		Query:    c.Query("q"),
	})
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.OK(c, services)
}

func (h *Handler) Get(c *gin.Context) {
	service, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	handler.OK(c, service)
}
