package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stmarysschool/points-backend/internal/model"
	"github.com/stmarysschool/points-backend/internal/service"
)

type AdminHandler struct {
	svc service.PointsService
}

func NewAdminHandler(svc service.PointsService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

type AdminFormResponse struct {
	Today      string   `json:"today"`
	EventTypes []string `json:"eventTypes"`
	Message    string   `json:"message,omitempty"`
}

func adminForm(c echo.Context, msg string) error {
	return c.JSON(http.StatusOK, AdminFormResponse{
		Today:      time.Now().Format("2006-01-02"),
		EventTypes: model.EventTypes,
		Message:    msg,
	})
}

// Points renders the award form, or processes it when the submit field is
// present (the original form posts back to the same path).
func (h *AdminHandler) Points(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Redirect(http.StatusFound, "/login")
	}
	if !user.CanAwardPoints() {
		return redirectMessage(c, "admin or teacher points required.")
	}

	if c.FormValue("submit") == "" {
		return adminForm(c, "")
	}

	in := service.AdminPointInput{
		Email:            c.FormValue("email"),
		NumPoints:        c.FormValue("num_points"),
		Color:            c.FormValue("color"),
		EventDate:        c.FormValue("event_date"),
		EventType:        c.FormValue("event_type"),
		EventDescription: c.FormValue("event_description"),
	}

	err := h.svc.SubmitAdmin(c.Request().Context(), user, in)
	if err != nil {
		var missing *service.MissingFieldsError
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			return adminForm(c, "Email not found.")
		case errors.Is(err, service.ErrInsufficientBudget):
			return redirectMessage(c, "not enough teacher points.")
		case errors.Is(err, service.ErrNotAllowed):
			return redirectMessage(c, "admin or teacher points required.")
		case errors.As(err, &missing),
			errors.Is(err, service.ErrInvalidPoints),
			errors.Is(err, service.ErrUnknownColor):
			return redirectMessage(c, err.Error())
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to record award"))
	}

	return c.Redirect(http.StatusFound, "/?message=Points+added%21")
}

// Download streams the whole ledger as a CSV attachment, oldest entry first.
func (h *AdminHandler) Download(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Redirect(http.StatusFound, "/login")
	}
	if !user.Admin {
		return redirectMessage(c, "admin account required.")
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv")
	res.Header().Set(echo.HeaderContentDisposition, "attachment; filename=points.csv")
	res.WriteHeader(http.StatusOK)
	return h.svc.ExportCSV(c.Request().Context(), res)
}
