package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stmarysschool/points-backend/internal/googleauth"
	"github.com/stmarysschool/points-backend/internal/middleware"
	"github.com/stmarysschool/points-backend/internal/service"
)

const stateCookieName = "oauth_state"

type AuthHandler struct {
	provider googleauth.Provider
	identity service.IdentityService
	sessions *middleware.SessionManager
	devMode  bool
}

func NewAuthHandler(provider googleauth.Provider, identity service.IdentityService, sessions *middleware.SessionManager, devMode bool) *AuthHandler {
	return &AuthHandler{provider: provider, identity: identity, sessions: sessions, devMode: devMode}
}

func (h *AuthHandler) Login(c echo.Context) error {
	if h.devMode {
		// The auth gate performs the actual dev login on the next request.
		return c.Redirect(http.StatusFound, "/")
	}
	state := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(10 * time.Minute),
	})
	return c.Redirect(http.StatusFound, h.provider.AuthCodeURL(state))
}

func (h *AuthHandler) Callback(c echo.Context) error {
	stateCookie, err := c.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != c.QueryParam("state") {
		return redirectMessage(c, "login state mismatch, please retry")
	}
	code := c.QueryParam("code")
	if code == "" {
		return redirectMessage(c, "login was cancelled")
	}

	ctx := c.Request().Context()
	info, err := h.provider.FetchUser(ctx, code)
	if err != nil {
		return redirectMessage(c, "Google sign-in failed, please retry")
	}

	user, err := h.identity.Resolve(ctx, info.Email, info.EmailVerified, info.GivenName)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailNotVerified):
			return redirectMessage(c, "User email not available or not verified by Google.")
		case errors.Is(err, service.ErrDomainRejected):
			return redirectMessage(c, "Google account must belong to SMS")
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to resolve user"))
	}

	cookie, err := h.sessions.IssueCookie(user.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to start session"))
	}
	c.SetCookie(cookie)
	return c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(h.sessions.ClearCookie())
	return c.Redirect(http.StatusFound, "/")
}
