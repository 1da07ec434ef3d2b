package middleware

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/stmarysschool/points-backend/internal/authctx"
	"github.com/stmarysschool/points-backend/internal/model"
	"github.com/stmarysschool/points-backend/internal/repository"
)

// AuthGate decides per request whether the caller is authenticated and
// attaches the resolved user to the request context. A users_id query
// parameter always forces re-authentication, so a session can never be
// redirected onto another user's identity by URL.
type AuthGate struct {
	sessions *SessionManager
	users    repository.UserRepository
	devMode  bool
}

func NewAuthGate(sessions *SessionManager, users repository.UserRepository, devMode bool) *AuthGate {
	return &AuthGate{sessions: sessions, users: users, devMode: devMode}
}

func (g *AuthGate) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := g.currentUser(c)
		if err != nil || c.QueryParams().Has("users_id") {
			if g.devMode {
				user, err = g.devLogin(c)
				if err != nil {
					return c.Redirect(http.StatusFound,
						"/message?m="+url.QueryEscape("no user available for dev login"))
				}
			} else {
				return c.Redirect(http.StatusFound, "/login")
			}
		}

		req := c.Request()
		c.SetRequest(req.WithContext(authctx.WithUser(req.Context(), user)))
		c.Set("user", user)
		return next(c)
	}
}

func (g *AuthGate) currentUser(c echo.Context) (*model.User, error) {
	id, err := g.sessions.UserID(c.Request())
	if err != nil {
		return nil, err
	}
	return g.users.FindByID(c.Request().Context(), id)
}

// devLogin signs in as the user named by the users_id query param, or the
// first admin when absent. Local testing only; never reachable in prod.
func (g *AuthGate) devLogin(c echo.Context) (*model.User, error) {
	ctx := c.Request().Context()

	var user *model.User
	var err error
	if raw := c.QueryParam("users_id"); raw != "" {
		id, perr := strconv.ParseUint(raw, 10, 64)
		if perr != nil {
			return nil, perr
		}
		user, err = g.users.FindByID(ctx, id)
	} else {
		user, err = g.users.FirstAdmin(ctx)
	}
	if err != nil {
		return nil, err
	}

	cookie, err := g.sessions.IssueCookie(user.ID)
	if err != nil {
		return nil, err
	}
	c.SetCookie(cookie)
	return user, nil
}
