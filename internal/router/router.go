package router // package router defines how HTTP routes are registered

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/quic/internal/handler"
    "github.com/iliyamo/quic/internal/middleware"
    "github.com/iliyamo/quic/internal/session"
)

// Handlers groups everything the routes dispatch to.
type Handlers struct {
    Auth    *handler.AuthHandler
    Profile *handler.ProfileHandler
    Library *handler.LibraryHandler
    Health  echo.HandlerFunc
}

// RegisterRoutes registers the public pages and the health check.
func RegisterRoutes(e *echo.Echo, h Handlers) {
    e.GET("/healthz", h.Health)
    e.GET("/", handler.Root)
    e.GET("/welcome", handler.Welcome)
    e.GET("/login", handler.LoginPage)
    e.GET("/register", handler.RegisterPage)
}

// RegisterAuth registers the credential endpoints.  The limiter guards
// only the POSTs, where passwords are checked or accounts created.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limiter echo.MiddlewareFunc) {
    e.POST("/login", a.Login, limiter)
    e.POST("/register", a.Register, limiter)
}

// RegisterProtected registers every route that needs a logged-in user.
// Requests without a session are redirected to the landing page before
// any handler runs.
func RegisterProtected(e *echo.Echo, h Handlers, sessions *session.Manager) {
    // Attached per route: an echo group with middleware also registers
    // catch-all routes, which would redirect unknown paths instead of 404.
    guard := middleware.RequireSession(sessions)

    e.GET("/home", handler.Home, guard)
    e.GET("/profile", h.Profile.Show, guard)
    e.GET("/logout", h.Auth.Logout, guard)

    // ---- Library ----
    e.GET("/folders", h.Library.ListFolders, guard)
    e.POST("/create_folder", h.Library.CreateFolder, guard)
    e.GET("/folders/:folder_id/sets", h.Library.ListSets, guard)
    e.POST("/create_set", h.Library.CreateSet, guard)
}
