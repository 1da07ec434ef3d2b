package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/stmarysschool/points-backend/internal/config"
	"github.com/stmarysschool/points-backend/internal/googleauth"
	"github.com/stmarysschool/points-backend/internal/handler"
	appmw "github.com/stmarysschool/points-backend/internal/middleware"
	"github.com/stmarysschool/points-backend/internal/repository"
	"github.com/stmarysschool/points-backend/internal/service"
	"gorm.io/gorm"
)

type Server struct {
	e *echo.Echo
}

func New(conn *gorm.DB, cfg *config.Config, provider googleauth.Provider) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	userRepo := repository.NewUserRepository(conn)
	pointRepo := repository.NewPointRepository(conn)

	identitySvc := service.NewIdentityService(userRepo)
	pointsSvc := service.NewPointsService(userRepo, pointRepo)

	sessions := appmw.NewSessionManager(cfg.SessionSecret, cfg.SessionLifetime)
	gate := appmw.NewAuthGate(sessions, userRepo, cfg.DevMode)

	dashboardHandler := handler.NewDashboardHandler(pointsSvc)
	pointHandler := handler.NewPointHandler(pointsSvc)
	adminHandler := handler.NewAdminHandler(pointsSvc)
	authHandler := handler.NewAuthHandler(provider, identitySvc, sessions, cfg.DevMode)
	messageHandler := handler.NewMessageHandler()

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"ok": "true"})
	})

	e.GET("/", dashboardHandler.Index, gate.RequireUser)
	e.POST("/point", pointHandler.Submit, gate.RequireUser)
	e.GET("/admin_points", adminHandler.Points, gate.RequireUser)
	e.POST("/admin_points", adminHandler.Points, gate.RequireUser)
	e.GET("/download_points", adminHandler.Download, gate.RequireUser)

	e.GET("/login", authHandler.Login)
	e.GET("/callback", authHandler.Callback)
	e.GET("/logout", authHandler.Logout, gate.RequireUser)
	e.GET("/message", messageHandler.Show)

	return &Server{e: e}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.e
}
