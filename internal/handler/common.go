package handler // handler defines http handlers

import (
    "context"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/pkg/errors"

    "github.com/iliyamo/quic/internal/middleware"
    "github.com/iliyamo/quic/internal/queue"
    "github.com/iliyamo/quic/internal/service"
)

// dbTimeout bounds every request's database work.
const dbTimeout = 5 * time.Second

// publishTimeout bounds the best-effort event publish after a create.
const publishTimeout = 3 * time.Second

var errNoUser = errors.New("missing user_id in context")

// getUserID returns the id RequireSession stored on the context.  Handlers
// mounted behind the guard always have one; a missing id is a wiring bug
// and surfaces as a 500.
func getUserID(c echo.Context) (uint64, error) {
    id, ok := middleware.UserID(c)
    if !ok {
        return 0, errNoUser
    }
    return id, nil
}

func username(c echo.Context) string {
    s, _ := c.Get(middleware.KeyUsername).(string)
    return s
}

// dbContext derives the per-request database deadline.
func dbContext(c echo.Context) (context.Context, context.CancelFunc) {
    return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// wantsJSON reports whether the client asked for a JSON response.
func wantsJSON(c echo.Context) bool {
    return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}

// publish sends ev without failing the request.  The publish outlives a
// client disconnect so a committed create is still recorded.
func publish(c echo.Context, p service.Publisher, ev queue.ActivityEvent) {
    if p == nil {
        return
    }
    ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), publishTimeout)
    defer cancel()
    if err := p.Publish(ctx, ev); err != nil {
        middleware.Logger(c).WithError(err).WithField("event", ev.Type).Debug("activity event dropped")
    }
}
