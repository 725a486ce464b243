package middleware

import (
    "errors"
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/sirupsen/logrus"
    "github.com/sirupsen/logrus/hooks/test"
)

func TestRequestLogger(t *testing.T) {
    log, hook := test.NewNullLogger()
    log.SetLevel(logrus.DebugLevel)

    e := echo.New()
    e.Use(RequestLogger(log))
    var requestID string
    e.GET("/ok", func(c echo.Context) error {
        requestID, _ = c.Get(KeyRequestID).(string)
        Logger(c).Info("inside handler")
        return c.NoContent(http.StatusNoContent)
    })
    e.GET("/fail", func(c echo.Context) error {
        return errors.New("boom")
    })

    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
    if requestID == "" {
        t.Fatal("Expected a request id in the context")
    }
    if rec.Header().Get(echo.HeaderXRequestID) != requestID {
        t.Errorf("Expected X-Request-Id %s, got %s", requestID, rec.Header().Get(echo.HeaderXRequestID))
    }

    entries := hook.AllEntries()
    if len(entries) != 2 {
        t.Fatalf("Expected 2 log entries, got %d", len(entries))
    }
    if entries[0].Data["http.req.id"] != requestID {
        t.Error("Expected handler log line to carry the request id")
    }
    if entries[1].Data["http.resp.status"] != http.StatusNoContent {
        t.Errorf("Expected logged status 204, got %v", entries[1].Data["http.resp.status"])
    }
    if entries[1].Data["user"] != "guest" {
        t.Errorf("Expected guest user, got %v", entries[1].Data["user"])
    }

    hook.Reset()
    rec = httptest.NewRecorder()
    e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))
    if rec.Code != http.StatusInternalServerError {
        t.Errorf("Expected 500, got %d", rec.Code)
    }
    last := hook.LastEntry()
    if last == nil || last.Level != logrus.WarnLevel || last.Data["http.resp.status"] != http.StatusInternalServerError {
        t.Errorf("Expected a warning with status 500, got %+v", last)
    }
}

func TestLoggerWithoutMiddleware(t *testing.T) {
    e := echo.New()
    c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
    if Logger(c) == nil {
        t.Fatal("Expected the standard logger as fallback")
    }
}
