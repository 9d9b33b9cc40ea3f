package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	httpHandlers "github.com/revijouer/core/internal/adapters/http"
	"github.com/revijouer/core/internal/adapters/session"
)

// sessionMiddleware attaches the browser session ID to the context, minting a
// new cookie when the request carries none or a malformed one
func (s *Server) sessionMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := ""
			if cookie, err := c.Cookie(s.config.Session.CookieName); err == nil && session.IsValidID(cookie.Value) {
				id = cookie.Value
			}

			if id == "" {
				id = session.NewID()
				cookie := &http.Cookie{
					Name:     s.config.Session.CookieName,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				}
				if s.config.Session.TTL > 0 {
					cookie.MaxAge = int(s.config.Session.TTL.Seconds())
				}
				c.SetCookie(cookie)
				s.logger.WithRequestID(requestID(c)).Debugw("New browser session", "session_id", id)
			}

			c.Set(httpHandlers.SessionKey, id)
			return next(c)
		}
	}
}

func requestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}
