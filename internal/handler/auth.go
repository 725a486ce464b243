package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"
    "github.com/pkg/errors"

    "github.com/iliyamo/quic/internal/config"
    "github.com/iliyamo/quic/internal/middleware"
    "github.com/iliyamo/quic/internal/model"
    "github.com/iliyamo/quic/internal/queue"
    "github.com/iliyamo/quic/internal/repository"
    "github.com/iliyamo/quic/internal/service"
    "github.com/iliyamo/quic/internal/session"
    "github.com/iliyamo/quic/internal/utils"
    "github.com/iliyamo/quic/internal/view"
)

// Messages shown on the re-rendered auth forms.
const (
    MsgFieldsRequired  = "All fields are required"
    MsgUsernameExists  = "Username already exists"
    MsgUnknownUsername = "Username does not exist or incorrect, please either register or try again."
    MsgWrongPassword   = "Incorrect password, please try again."
    MsgPasswordTooLong = "Password must be at most 72 bytes"
)

// AuthHandler bundles dependencies for the register, login and logout
// endpoints.
type AuthHandler struct {
    Cfg      config.Config
    Users    *repository.UserRepo
    Sessions *session.Manager
    Events   service.Publisher
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, s *session.Manager, ev service.Publisher) *AuthHandler {
    if u == nil || s == nil {
        panic("nil dependency passed to NewAuthHandler")
    }
    return &AuthHandler{Cfg: cfg, Users: u, Sessions: s, Events: ev}
}

// ----- DTOs -----

type registerReq struct {
    FirstName string `json:"first_name" form:"first_name"`
    LastName  string `json:"last_name" form:"last_name"`
    Username  string `json:"username" form:"username"`
    Password  string `json:"password" form:"password"`
}

type loginReq struct {
    Username string `json:"username" form:"username"`
    Password string `json:"password" form:"password"`
}

// formError re-renders an auth form with the error flag set.  Input is not
// echoed back.
func formError(c echo.Context, code int, page, msg string) error {
    return c.Render(code, page, view.Data{Title: formTitles[page], Error: true, Message: msg})
}

var formTitles = map[string]string{
    view.PageLogin:    "Log in",
    view.PageRegister: "Register",
}

// Register creates the user and sends the browser to the login form.
func (h *AuthHandler) Register(c echo.Context) error {
    var req registerReq
    if err := c.Bind(&req); err != nil {
        return formError(c, http.StatusBadRequest, view.PageRegister, MsgFieldsRequired)
    }
    req.FirstName = strings.TrimSpace(req.FirstName)
    req.LastName = strings.TrimSpace(req.LastName)
    req.Username = strings.TrimSpace(req.Username)
    if req.FirstName == "" || req.LastName == "" || req.Username == "" || req.Password == "" {
        return formError(c, http.StatusBadRequest, view.PageRegister, MsgFieldsRequired)
    }

    ctx, cancel := dbContext(c)
    defer cancel()

    uid, err := h.Users.Create(ctx, repository.NewUser{
        FirstName: req.FirstName,
        LastName:  req.LastName,
        Username:  req.Username,
        Password:  req.Password,
    }, h.Cfg.BcryptCost)
    switch {
    case errors.Is(err, repository.ErrConflict):
        return formError(c, http.StatusConflict, view.PageRegister, MsgUsernameExists)
    case errors.Is(err, repository.ErrPasswordTooLong):
        return formError(c, http.StatusBadRequest, view.PageRegister, MsgPasswordTooLong)
    case errors.Is(err, repository.ErrInvalidInput):
        return formError(c, http.StatusBadRequest, view.PageRegister, MsgFieldsRequired)
    case err != nil:
        return errors.Wrap(err, "register")
    }

    middleware.Logger(c).WithField("user_id", uid).Info("user registered")
    ev := queue.NewActivityEvent(queue.EventUserRegistered, uid)
    ev.Username = req.Username
    publish(c, h.Events, ev)
    return c.Redirect(http.StatusFound, "/login")
}

// Login verifies the credentials, starts a fresh session and redirects to
// the home page.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return formError(c, http.StatusBadRequest, view.PageLogin, MsgUnknownUsername)
    }
    // Register stores the trimmed name.
    req.Username = strings.TrimSpace(req.Username)

    ctx, cancel := dbContext(c)
    defer cancel()

    u, err := h.Users.GetByUsername(ctx, req.Username)
    if errors.Is(err, repository.ErrNotFound) {
        return formError(c, http.StatusUnauthorized, view.PageLogin, MsgUnknownUsername)
    }
    if err != nil {
        return errors.Wrap(err, "login lookup")
    }
    if !utils.VerifyPassword(u.PasswordHash, req.Password) {
        return formError(c, http.StatusUnauthorized, view.PageLogin, MsgWrongPassword)
    }

    if err := h.Sessions.Start(c, model.Identity{UserID: u.ID, Username: u.Username}); err != nil {
        return errors.Wrap(err, "start session")
    }
    return c.Redirect(http.StatusFound, "/home")
}

// Logout destroys the session, clears the cookie and renders the logout
// confirmation.  A store failure is logged; the cookie is cleared either
// way.
func (h *AuthHandler) Logout(c echo.Context) error {
    if err := h.Sessions.Destroy(c); err != nil {
        middleware.Logger(c).WithError(err).Warn("destroy session")
    }
    return c.Render(http.StatusOK, view.PageLogout, view.Data{Title: "Logged out"})
}
