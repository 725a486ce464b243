package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
    "github.com/pkg/errors"

    "github.com/iliyamo/quic/internal/middleware"
    "github.com/iliyamo/quic/internal/repository"
    "github.com/iliyamo/quic/internal/session"
    "github.com/iliyamo/quic/internal/view"
)

// ProfileHandler renders the current user's profile page.
type ProfileHandler struct {
    Profiles *repository.ProfileRepo
    Sessions *session.Manager
}

func NewProfileHandler(p *repository.ProfileRepo, s *session.Manager) *ProfileHandler {
    if p == nil || s == nil {
        panic("nil dependency passed to NewProfileHandler")
    }
    return &ProfileHandler{Profiles: p, Sessions: s}
}

// Show renders identity, counts and the folder list.  A session whose
// user no longer exists is destroyed and the browser is sent to the login
// form; any other failure goes to the error page.
func (h *ProfileHandler) Show(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return err
    }
    ctx, cancel := dbContext(c)
    defer cancel()

    p, err := h.Profiles.Load(ctx, uid)
    if errors.Is(err, repository.ErrNotFound) {
        middleware.Logger(c).WithField("user_id", uid).Warn("session refers to missing user")
        if derr := h.Sessions.Destroy(c); derr != nil {
            middleware.Logger(c).WithError(derr).Warn("destroy stale session")
        }
        return c.Redirect(http.StatusFound, "/login")
    }
    if err != nil {
        return errors.Wrap(err, "load profile")
    }
    return c.Render(http.StatusOK, view.PageProfile, view.Data{
        Title:    "Profile",
        Username: username(c),
        Payload:  p,
    })
}
