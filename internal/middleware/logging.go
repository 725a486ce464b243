package middleware

import (
    "context"
    "time"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"
    "github.com/sirupsen/logrus"
)

type ctxKeyLog struct{}

// RequestLogger attaches a request-scoped logrus entry (with a fresh
// request id) to the request context and logs one line per completed
// request.  Handlers retrieve the entry with Logger.
func RequestLogger(log *logrus.Logger) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            req := c.Request()
            requestID := uuid.NewString()
            c.Set(KeyRequestID, requestID)
            c.Response().Header().Set(echo.HeaderXRequestID, requestID)

            entry := log.WithFields(logrus.Fields{
                "http.req.path":   req.URL.Path,
                "http.req.method": req.Method,
                "http.req.id":     requestID,
            })
            c.SetRequest(req.WithContext(context.WithValue(req.Context(), ctxKeyLog{}, entry)))

            err := next(c)
            if err != nil {
                // let the error handler write the response before logging the status
                c.Error(err)
            }
            fields := logrus.Fields{
                "http.resp.status":  c.Response().Status,
                "http.resp.bytes":   c.Response().Size,
                "http.resp.took_ms": time.Since(start).Milliseconds(),
                "user":              userKey(c),
            }
            if err != nil {
                entry.WithFields(fields).WithError(err).Warn("request failed")
            } else {
                entry.WithFields(fields).Debug("request complete")
            }
            return nil
        }
    }
}

// Logger returns the request-scoped entry installed by RequestLogger, or
// the standard logger when the middleware did not run.
func Logger(c echo.Context) logrus.FieldLogger {
    if entry, ok := c.Request().Context().Value(ctxKeyLog{}).(*logrus.Entry); ok {
        return entry
    }
    return logrus.StandardLogger()
}
