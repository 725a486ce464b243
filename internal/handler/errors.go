package handler

import (
    "fmt"
    "net/http"

    "github.com/labstack/echo/v4"
    "github.com/pkg/errors"

    "github.com/iliyamo/quic/internal/middleware"
    "github.com/iliyamo/quic/internal/repository"
    "github.com/iliyamo/quic/internal/view"
)

// StatusFor maps an error to its HTTP status.  The mapping depends only on
// the error, never on the handler that returned it: invalid input is 400,
// missing or foreign rows are 404, uniqueness conflicts are 409, echo
// errors keep their own code and everything else is 500.
func StatusFor(err error) int {
    switch {
    case err == nil:
        return http.StatusOK
    case errors.Is(err, repository.ErrInvalidInput):
        return http.StatusBadRequest
    case errors.Is(err, repository.ErrNotFound):
        return http.StatusNotFound
    case errors.Is(err, repository.ErrConflict):
        return http.StatusConflict
    }
    var he *echo.HTTPError
    if errors.As(err, &he) {
        return he.Code
    }
    return http.StatusInternalServerError
}

// publicMessage is what a client may see for err.  Server errors never
// leak their cause.
func publicMessage(err error, code int) string {
    if code >= http.StatusInternalServerError {
        return "Something went wrong, please try again later."
    }
    var he *echo.HTTPError
    if errors.As(err, &he) {
        if s, ok := he.Message.(string); ok {
            return s
        }
        return fmt.Sprint(he.Message)
    }
    return http.StatusText(code)
}

// ErrorHandler is installed as echo's HTTPErrorHandler.  JSON clients get
// the {success:false, message} envelope; browsers get the error page.
// Both carry the status from StatusFor.
func ErrorHandler(err error, c echo.Context) {
    if c.Response().Committed {
        return
    }
    code := StatusFor(err)
    msg := publicMessage(err, code)

    log := middleware.Logger(c).WithField("status", code)
    if code >= http.StatusInternalServerError {
        log.WithError(err).Error("request failed")
    }

    var werr error
    switch {
    case c.Request().Method == http.MethodHead:
        werr = c.NoContent(code)
    case wantsJSON(c):
        werr = c.JSON(code, echo.Map{"success": false, "message": msg})
    default:
        werr = c.Render(code, view.PageError, view.Data{
            Title:    http.StatusText(code),
            Username: username(c),
            Error:    true,
            Message:  msg,
            Status:   code,
        })
    }
    if werr != nil {
        log.WithError(werr).Warn("write error response")
    }
}
