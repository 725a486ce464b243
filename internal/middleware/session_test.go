package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/quic/internal/model"
    "github.com/iliyamo/quic/internal/session"
)

func TestRequireSession(t *testing.T) {
    m := session.NewManager(session.NewMemoryStore(), session.Options{Secret: "secret", TTL: time.Hour})

    e := echo.New()
    called := false
    e.GET("/login-as", func(c echo.Context) error {
        return m.Start(c, model.Identity{UserID: 5, Username: "eve"})
    })
    e.GET("/private", func(c echo.Context) error {
        called = true
        id, ok := UserID(c)
        if !ok || id != 5 {
            t.Errorf("Expected user id 5 in context, got %d", id)
        }
        if name := c.Get(KeyUsername); name != "eve" {
            t.Errorf("Expected username eve in context, got %v", name)
        }
        return c.String(http.StatusOK, "secret page")
    }, RequireSession(m))

    t.Run("no session redirects", func(t *testing.T) {
        rec := httptest.NewRecorder()
        e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/private", nil))
        if rec.Code != http.StatusFound {
            t.Fatalf("Expected 302, got %d", rec.Code)
        }
        if loc := rec.Header().Get("Location"); loc != LandingPath {
            t.Errorf("Expected redirect to %s, got %s", LandingPath, loc)
        }
        if called {
            t.Error("Expected handler not to run")
        }
    })

    t.Run("session passes", func(t *testing.T) {
        rec := httptest.NewRecorder()
        e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login-as", nil))
        cookies := rec.Result().Cookies()
        if len(cookies) == 0 {
            t.Fatal("Expected a session cookie")
        }

        req := httptest.NewRequest(http.MethodGet, "/private", nil)
        req.AddCookie(cookies[0])
        rec = httptest.NewRecorder()
        e.ServeHTTP(rec, req)
        if rec.Code != http.StatusOK {
            t.Fatalf("Expected 200, got %d", rec.Code)
        }
        if !called {
            t.Error("Expected handler to run")
        }
    })
}
