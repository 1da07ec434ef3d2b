package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stmarysschool/points-backend/internal/model"
	"github.com/stmarysschool/points-backend/internal/repository"
	"github.com/stmarysschool/points-backend/internal/service"
)

type DashboardHandler struct {
	svc service.PointsService
}

func NewDashboardHandler(svc service.PointsService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

type DashboardUser struct {
	ID            uint64           `json:"id"`
	Name          string           `json:"name"`
	Email         string           `json:"email"`
	Color         *model.TeamColor `json:"color"`
	Admin         bool             `json:"admin"`
	TeacherPoints int              `json:"teacherPoints"`
}

type DashboardResponse struct {
	BluePoints  int                         `json:"bluePoints"`
	WhitePoints int                         `json:"whitePoints"`
	Latest      []repository.RecentEntry    `json:"latest"`
	Leaderboard []repository.LeaderboardRow `json:"leaderboard"`
	EventTypes  []string                    `json:"eventTypes"`
	Today       string                      `json:"today"`
	User        DashboardUser               `json:"user"`
	Point       string                      `json:"point,omitempty"`   // echo of the just-submitted color
	Message     string                      `json:"message,omitempty"` // flash text carried through redirects
}

func (h *DashboardHandler) Index(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Redirect(http.StatusFound, "/login")
	}

	dash, err := h.svc.Dashboard(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", err.Error()))
	}

	return c.JSON(http.StatusOK, DashboardResponse{
		BluePoints:  dash.Totals.Blue,
		WhitePoints: dash.Totals.White,
		Latest:      dash.Latest,
		Leaderboard: dash.Leaderboard,
		EventTypes:  model.EventTypes,
		Today:       time.Now().Format("2006-01-02"),
		User: DashboardUser{
			ID:            user.ID,
			Name:          user.Name,
			Email:         user.Email,
			Color:         user.Color,
			Admin:         user.Admin,
			TeacherPoints: user.TeacherPoints,
		},
		Point:   c.QueryParam("point"),
		Message: c.QueryParam("message"),
	})
}
