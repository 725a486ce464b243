package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/quic/internal/model"
	"github.com/iliyamo/quic/internal/utils"
)

// Options configures a Manager.
type Options struct {
	Secret     string        // HMAC key for the cookie token
	CookieName string        // defaults to "quic.sid"
	TTL        time.Duration // defaults to 24h
	Secure     bool          // set the Secure flag on the cookie
}

// Manager ties the session cookie to a Store.  Handlers never see session
// ids; they load, start and destroy sessions through the request context.
type Manager struct {
	store Store
	opts  Options
}

func NewManager(store Store, opts Options) *Manager {
	if store == nil {
		panic("nil store passed to session.NewManager")
	}
	if opts.CookieName == "" {
		opts.CookieName = "quic.sid"
	}
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	return &Manager{store: store, opts: opts}
}

// Load returns the identity for the request's session cookie.  ok is false
// when there is no cookie, the cookie is forged or expired, or the store
// has no entry for it.  err is only set for store failures.
func (m *Manager) Load(c echo.Context) (model.Identity, bool, error) {
	id, ok := m.sessionID(c)
	if !ok {
		return model.Identity{}, false, nil
	}
	data, err := m.store.Get(c.Request().Context(), id)
	if errors.Is(err, ErrNoSession) {
		return model.Identity{}, false, nil
	}
	if err != nil {
		return model.Identity{}, false, err
	}
	return data, data.UserID != 0, nil
}

// Start stores the identity under a fresh session id and sets the cookie.
// Any session the request already carried is destroyed first so a login
// never reuses a pre-authentication id.
func (m *Manager) Start(c echo.Context, data model.Identity) error {
	ctx := c.Request().Context()
	if old, ok := m.sessionID(c); ok {
		_ = m.store.Destroy(ctx, old)
	}
	id := utils.NewSessionID()
	tok, err := utils.NewSessionToken(m.opts.Secret, id, m.opts.TTL)
	if err != nil {
		return err
	}
	if err := m.store.Set(ctx, id, data, m.opts.TTL); err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     m.opts.CookieName,
		Value:    tok.Token,
		Path:     "/",
		Expires:  tok.Exp,
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Destroy removes the request's session from the store and expires the
// cookie.
func (m *Manager) Destroy(c echo.Context) error {
	var err error
	if id, ok := m.sessionID(c); ok {
		err = m.store.Destroy(c.Request().Context(), id)
	}
	c.SetCookie(&http.Cookie{
		Name:     m.opts.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return err
}

func (m *Manager) sessionID(c echo.Context) (string, bool) {
	ck, err := c.Cookie(m.opts.CookieName)
	if err != nil || ck.Value == "" {
		return "", false
	}
	id, err := utils.ParseSessionToken(m.opts.Secret, ck.Value)
	if err != nil {
		return "", false
	}
	return id, true
}
