package handler

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/stmarysschool/points-backend/internal/authctx"
	"github.com/stmarysschool/points-backend/internal/model"
)

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error errorPayload `json:"error"`
}

func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: errorPayload{
			Code:    code,
			Message: message,
		},
	}
}

// redirectMessage sends the browser to the flash-message page. Validation
// failures surface this way rather than as HTTP errors.
func redirectMessage(c echo.Context, msg string) error {
	return c.Redirect(http.StatusFound, "/message?m="+url.QueryEscape(msg))
}

func currentUser(c echo.Context) (*model.User, bool) {
	return authctx.UserFrom(c.Request().Context())
}
