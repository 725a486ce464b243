package middleware // middleware provides shared request processing for handlers

import (
    "net/http" // http package defines redirect status codes

    "github.com/labstack/echo/v4" // echo provides middleware chaining and context

    "github.com/iliyamo/quic/internal/session"
)

// LandingPath is where unauthenticated requests to protected routes go.
const LandingPath = "/welcome"

// RequireSession returns a middleware that only lets requests with an
// authenticated session through.  The identity is stored in the context
// under "user_id" (uint64) and "username" (string) for handlers and
// downstream middleware.  Anything else is redirected to the landing page
// and the handler is not invoked.  A failing session store surfaces as an
// error so the central error handler turns it into a 500.
func RequireSession(m *session.Manager) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            id, ok, err := m.Load(c)
            if err != nil {
                return err
            }
            if !ok {
                return c.Redirect(http.StatusFound, LandingPath)
            }
            c.Set(KeyUserID, id.UserID)
            c.Set(KeyUsername, id.Username)
            return next(c)
        }
    }
}
