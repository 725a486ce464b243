package session

import (
    "context"
    "errors"
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/quic/internal/model"
)

func newContext(e *echo.Echo, cookies ...*http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    for _, ck := range cookies {
        req.AddCookie(ck)
    }
    rec := httptest.NewRecorder()
    return e.NewContext(req, rec), rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
    t.Helper()
    for _, ck := range rec.Result().Cookies() {
        if ck.Name == name {
            return ck
        }
    }
    t.Fatalf("Expected cookie %s to be set", name)
    return nil
}

func TestManagerLifecycle(t *testing.T) {
    e := echo.New()
    store := NewMemoryStore()
    m := NewManager(store, Options{Secret: "secret", TTL: time.Hour})
    who := model.Identity{UserID: 3, Username: "grace"}

    c, rec := newContext(e)
    if err := m.Start(c, who); err != nil {
        t.Fatalf("Start failed: %v", err)
    }
    ck := sessionCookie(t, rec, "quic.sid")
    if !ck.HttpOnly {
        t.Error("Expected HttpOnly session cookie")
    }
    if store.Len() != 1 {
        t.Fatalf("Expected one stored session, have %d", store.Len())
    }

    c, _ = newContext(e, ck)
    got, ok, err := m.Load(c)
    if err != nil || !ok {
        t.Fatalf("Load failed: ok=%v err=%v", ok, err)
    }
    if got != who {
        t.Errorf("Expected %+v, got %+v", who, got)
    }

    c, rec = newContext(e, ck)
    if err := m.Destroy(c); err != nil {
        t.Fatalf("Destroy failed: %v", err)
    }
    if cleared := sessionCookie(t, rec, "quic.sid"); cleared.MaxAge >= 0 {
        t.Errorf("Expected cookie to be expired, MaxAge=%d", cleared.MaxAge)
    }
    if store.Len() != 0 {
        t.Errorf("Expected store to be empty, have %d", store.Len())
    }

    c, _ = newContext(e, ck)
    if _, ok, _ := m.Load(c); ok {
        t.Error("Expected destroyed session to stay destroyed")
    }
}

func TestManagerStartRotatesSession(t *testing.T) {
    e := echo.New()
    store := NewMemoryStore()
    m := NewManager(store, Options{Secret: "secret"})

    c, rec := newContext(e)
    _ = m.Start(c, model.Identity{UserID: 1, Username: "a"})
    first := sessionCookie(t, rec, "quic.sid")

    c, rec = newContext(e, first)
    _ = m.Start(c, model.Identity{UserID: 2, Username: "b"})
    second := sessionCookie(t, rec, "quic.sid")

    if first.Value == second.Value {
        t.Error("Expected a new session id on every Start")
    }
    if store.Len() != 1 {
        t.Errorf("Expected the old session to be destroyed, have %d", store.Len())
    }
}

func TestManagerLoadRejects(t *testing.T) {
    e := echo.New()
    m := NewManager(NewMemoryStore(), Options{Secret: "secret"})
    other := NewManager(NewMemoryStore(), Options{Secret: "other"})

    c, rec := newContext(e)
    _ = other.Start(c, model.Identity{UserID: 1, Username: "a"})
    forged := sessionCookie(t, rec, "quic.sid")

    tests := []struct {
        name    string
        cookies []*http.Cookie
    }{
        {"no cookie", nil},
        {"garbage cookie", []*http.Cookie{{Name: "quic.sid", Value: "garbage"}}},
        {"other secret", []*http.Cookie{forged}},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            c, _ := newContext(e, tt.cookies...)
            _, ok, err := m.Load(c)
            if ok || err != nil {
                t.Errorf("Expected no session and no error, got ok=%v err=%v", ok, err)
            }
        })
    }
}

type failingStore struct{ err error }

func (f failingStore) Get(context.Context, string) (model.Identity, error) {
    return model.Identity{}, f.err
}
func (f failingStore) Set(context.Context, string, model.Identity, time.Duration) error { return f.err }
func (f failingStore) Destroy(context.Context, string) error                        { return f.err }

func TestManagerLoadStoreFailure(t *testing.T) {
    e := echo.New()
    boom := errors.New("store down")
    ok := NewManager(NewMemoryStore(), Options{Secret: "secret"})
    broken := NewManager(failingStore{err: boom}, Options{Secret: "secret"})

    c, rec := newContext(e)
    _ = ok.Start(c, model.Identity{UserID: 1, Username: "a"})
    ck := sessionCookie(t, rec, "quic.sid")

    c, _ = newContext(e, ck)
    if _, _, err := broken.Load(c); !errors.Is(err, boom) {
        t.Errorf("Expected store error, got %v", err)
    }
}
