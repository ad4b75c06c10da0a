package response

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/learning-planner/internal/platform/apierr"
)

const unparseableMessage = "The AI response could not be understood. Please try again."

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondServiceError maps a service error onto the envelope. Unparseable model output and
// internal failures get generic messages; the detail stays in the logs.
func RespondServiceError(c *gin.Context, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		RespondError(c, http.StatusGatewayTimeout, apierr.CodeEngine, errors.New("the request timed out"))
		return
	}
	status := apierr.StatusOf(err)
	code := apierr.CodeOf(err)
	switch {
	case code == apierr.CodeUnparseable:
		RespondError(c, status, code, errors.New(unparseableMessage))
	case status >= http.StatusInternalServerError && code == apierr.CodeInternal:
		RespondError(c, status, code, errors.New("internal server error"))
	default:
		RespondError(c, status, code, err)
	}
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
