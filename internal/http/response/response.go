package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fypms/backend/internal/pkg/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondServiceError maps a service error to its HTTP status via apierr;
// anything unrecognized becomes a 500 with the message hidden.
func RespondServiceError(c *gin.Context, err error) {
	apiErr := apierr.From(err)
	msg := apiErr.Error()
	if apiErr.Status >= http.StatusInternalServerError {
		msg = "internal server error"
	}
	c.JSON(apiErr.Status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    apiErr.Code,
		},
	})
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
