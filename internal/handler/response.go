package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/jwalitptl/frontdesk-api/pkg/errors"
)

type Response struct {
	Status  string `json:"status"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	// UpstreamStatus carries the registration backend's status on HTTP_ERROR.
	UpstreamStatus int         `json:"upstream_status,omitempty"`
	RequestID      string      `json:"request_id,omitempty"`
	Data           interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// NewAppErrorResponse maps err to an HTTP status and error body. Errors that
// are not *AppError are reported as a generic internal error.
func NewAppErrorResponse(err error) (int, *Response) {
	appErr, ok := apperrors.As(err)
	if !ok {
		appErr = apperrors.NewInternal(err)
	}

	resp := NewErrorResponse(appErr.Message)
	resp.Code = string(appErr.Code)
	if appErr.Code == apperrors.ErrHTTP {
		resp.UpstreamStatus = appErr.Status
	}
	return appErr.StatusCode(), resp
}

// RespondError writes err as the response and records it on the context so
// the request logger sees it.
func RespondError(c *gin.Context, err error) {
	_ = c.Error(err)
	status, resp := NewAppErrorResponse(err)
	resp.RequestID = c.GetString("request_id")
	c.AbortWithStatusJSON(status, resp)
}

// BindError turns a gin binding failure into a BAD_REQUEST error.
func BindError(err error) error {
	return apperrors.NewBadRequest("invalid request body", err)
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, NewSuccessResponse(data))
}
