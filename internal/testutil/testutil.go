// Package testutil holds helpers shared by the package tests: a migrated
// SQLite database per test, a test configuration, a recording event
// publisher and a cookie-keeping HTTP client for handler tests.
package testutil

import (
    "context"
    "database/sql"
    "net/http"
    "net/http/httptest"
    "net/url"
    "path/filepath"
    "strings"
    "sync"
    "testing"
    "time"

    "github.com/iliyamo/quic/internal/config"
    "github.com/iliyamo/quic/internal/database"
    "github.com/iliyamo/quic/internal/queue"
)

// SetupTestDB creates a fresh SQLite database in a temp dir with every
// migration applied.  It is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
    t.Helper()

    db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "quic_test.db"))
    if err != nil {
        t.Fatalf("Failed to open test database: %v", err)
    }
    t.Cleanup(func() { db.Close() })

    if _, err := database.RunMigrations(db, "sqlite3"); err != nil {
        t.Fatalf("Failed to run migrations: %v", err)
    }
    return db
}

// GetTestConfig returns a standard test configuration.  The bcrypt cost is
// the minimum so registration stays fast.
func GetTestConfig() config.Config {
    return config.Config{
        Env:           "test",
        Port:          "0",
        LogLevel:      "error",
        DBDriver:      "sqlite3",
        DBName:        ":memory:",
        SessionSecret: "test-session-secret",
        SessionCookie: "quic.sid",
        SessionTTL:    time.Hour,
        BcryptCost:    4,
    }
}

// RecordingPublisher keeps every published event in memory.
type RecordingPublisher struct {
    mu     sync.Mutex
    events []queue.ActivityEvent
}

func (p *RecordingPublisher) Publish(_ context.Context, ev queue.ActivityEvent) error {
    p.mu.Lock()
    defer p.mu.Unlock()
    p.events = append(p.events, ev)
    return nil
}

// Events returns a copy of the recorded events.
func (p *RecordingPublisher) Events() []queue.ActivityEvent {
    p.mu.Lock()
    defer p.mu.Unlock()
    return append([]queue.ActivityEvent(nil), p.events...)
}

// Client sends requests straight to a handler and keeps the cookies it
// is given, like a browser without redirects.
type Client struct {
    h       http.Handler
    cookies map[string]*http.Cookie
    // RemoteAddr is used as the client address; it defaults to a fixed IP.
    RemoteAddr string
}

func NewClient(h http.Handler) *Client {
    return &Client{h: h, cookies: make(map[string]*http.Cookie), RemoteAddr: "192.0.2.1:1234"}
}

// Get issues a GET.  accept may be empty.
func (c *Client) Get(path, accept string) *httptest.ResponseRecorder {
    req := httptest.NewRequest(http.MethodGet, path, nil)
    if accept != "" {
        req.Header.Set("Accept", accept)
    }
    return c.Do(req)
}

// PostForm issues a form-encoded POST.
func (c *Client) PostForm(path string, form url.Values) *httptest.ResponseRecorder {
    req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
    req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
    return c.Do(req)
}

// Do sends req with the stored cookies and records the response cookies.
func (c *Client) Do(req *http.Request) *httptest.ResponseRecorder {
    req.RemoteAddr = c.RemoteAddr
    for _, ck := range c.cookies {
        req.AddCookie(ck)
    }
    w := httptest.NewRecorder()
    c.h.ServeHTTP(w, req)
    for _, ck := range w.Result().Cookies() {
        if ck.MaxAge < 0 || ck.Value == "" {
            delete(c.cookies, ck.Name)
            continue
        }
        c.cookies[ck.Name] = ck
    }
    return w
}

// Cookie returns the stored cookie with the given name, or nil.
func (c *Client) Cookie(name string) *http.Cookie {
    return c.cookies[name]
}

// SetCookie stores a cookie to send with later requests.
func (c *Client) SetCookie(ck *http.Cookie) {
    c.cookies[ck.Name] = ck
}

// AssertStatus fails the test when the response code differs.
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
    t.Helper()
    if w.Code != want {
        t.Fatalf("Expected status %d, got %d: %s", want, w.Code, w.Body.String())
    }
}

// AssertRedirect fails the test unless the response is a 302 to location.
func AssertRedirect(t *testing.T, w *httptest.ResponseRecorder, location string) {
    t.Helper()
    AssertStatus(t, w, http.StatusFound)
    if got := w.Header().Get("Location"); got != location {
        t.Fatalf("Expected redirect to %s, got %s", location, got)
    }
}
