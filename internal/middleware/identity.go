package middleware

// identity.go defines the context keys shared by the session guard, the
// request logger and the rate limiter, plus helpers to read them back.

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

const (
    KeyUserID    = "user_id"
    KeyUsername  = "username"
    KeyRequestID = "request_id"
)

// UserID returns the authenticated user id stored by RequireSession.
func UserID(c echo.Context) (uint64, bool) {
    v, ok := c.Get(KeyUserID).(uint64)
    return v, ok && v != 0
}

// userKey renders the user id for log fields and rate-limit keys.  It
// returns "guest" when no user is authenticated.
func userKey(c echo.Context) string {
    if id, ok := UserID(c); ok {
        return strconv.FormatUint(id, 10)
    }
    return "guest"
}
