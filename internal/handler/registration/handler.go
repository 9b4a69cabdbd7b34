package registration

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/frontdesk-api/internal/handler"
	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/internal/service/abbreviation"
)

type Submitter interface {
	Submit(ctx context.Context, in *model.RegistrationInput) (*model.RegistrationResult, error)
	State() model.RegistrationState
}

type Handler struct {
	controller Submitter
	expander   *abbreviation.Expander
}

// NewHandler wires the desk form endpoints. expander may be nil, in which
// case ?expand=true is ignored.
func NewHandler(controller Submitter, expander *abbreviation.Expander) *Handler {
	return &Handler{controller: controller, expander: expander}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	reg := r.Group("/registrations")
	{
		reg.POST("", h.Submit)
		reg.GET("/state", h.State)
	}
}

func (h *Handler) Submit(c *gin.Context) {
	var in model.RegistrationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		handler.RespondError(c, handler.BindError(err))
		return
	}

	if h.expander != nil && c.Query("expand") == "true" {
		h.expander.ExpandInput(&in)
	}

	result, err := h.controller.Submit(c.Request.Context(), &in)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(result))
}

func (h *Handler) State(c *gin.Context) {
	handler.OK(c, h.controller.State())
}
