package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type MessageHandler struct{}

func NewMessageHandler() *MessageHandler {
	return &MessageHandler{}
}

type MessageResponse struct {
	Message string `json:"message"`
}

func (h *MessageHandler) Show(c echo.Context) error {
	return c.JSON(http.StatusOK, MessageResponse{Message: c.QueryParam("m")})
}
