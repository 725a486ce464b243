package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/quic/internal/view"
)

// WelcomeText is the landing page greeting.
const WelcomeText = "Welcome!"

// Root sends visitors to the landing page.
func Root(c echo.Context) error {
    return c.Redirect(http.StatusFound, "/welcome")
}

// Welcome renders the public landing page, or a small JSON greeting for
// clients that ask for JSON.
func Welcome(c echo.Context) error {
    if wantsJSON(c) {
        return c.JSON(http.StatusOK, echo.Map{"status": "success", "message": WelcomeText})
    }
    return c.Render(http.StatusOK, view.PageWelcome, view.Data{Title: "Welcome"})
}

func LoginPage(c echo.Context) error {
    return c.Render(http.StatusOK, view.PageLogin, view.Data{Title: "Log in"})
}

func RegisterPage(c echo.Context) error {
    return c.Render(http.StatusOK, view.PageRegister, view.Data{Title: "Register"})
}

// Home renders the authenticated landing page with the folder and set
// forms.
func Home(c echo.Context) error {
    return c.Render(http.StatusOK, view.PageHome, view.Data{Title: "Home", Username: username(c)})
}
