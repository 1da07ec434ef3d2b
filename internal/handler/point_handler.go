package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/stmarysschool/points-backend/internal/model"
	"github.com/stmarysschool/points-backend/internal/service"
)

type PointHandler struct {
	svc service.PointsService
}

func NewPointHandler(svc service.PointsService) *PointHandler {
	return &PointHandler{svc: svc}
}

func (h *PointHandler) Submit(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Redirect(http.StatusFound, "/login")
	}

	in := service.OwnPointInput{
		EventDate:        c.FormValue("event_date"),
		EventType:        c.FormValue("event_type"),
		EventDescription: c.FormValue("event_description"),
		NumPoints:        c.FormValue("num_points"),
		Color:            model.TeamColor(c.FormValue("color")),
	}

	color, err := h.svc.SubmitOwn(c.Request().Context(), user, in)
	if err != nil {
		var missing *service.MissingFieldsError
		switch {
		case errors.As(err, &missing),
			errors.Is(err, service.ErrMissingColor),
			errors.Is(err, service.ErrInvalidPoints),
			errors.Is(err, service.ErrUnknownColor):
			return redirectMessage(c, err.Error())
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to record point"))
	}

	return c.Redirect(http.StatusFound, "/?point="+url.QueryEscape(string(color)))
}
