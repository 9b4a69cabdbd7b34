package text

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/frontdesk-api/internal/handler"
	"github.com/jwalitptl/frontdesk-api/internal/service/abbreviation"
)

type expandRequest struct {
	Text string `json:"text"`
}

type expandResponse struct {
	Text string `json:"text"`
}

type Handler struct {
	expander *abbreviation.Expander
}

func NewHandler(expander *abbreviation.Expander) *Handler {
	return &Handler{expander: expander}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	text := r.Group("/text")
	{
		text.POST("/expand", h.Expand)
		text.GET("/abbreviations", h.Abbreviations)
	}
}

func (h *Handler) Expand(c *gin.Context) {
	var req expandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondError(c, handler.BindError(err))
		return
	}
	handler.OK(c, expandResponse{Text: h.expander.Expand(req.Text)})
}

func (h *Handler) Abbreviations(c *gin.Context) {
	handler.OK(c, h.expander.Entries())
}
