// Package view renders the server-side HTML pages.  Templates are embedded
// in the binary and parsed once; each page is a named template that pulls
// in the shared header and footer.
package view

import (
    "embed"
    "html/template"
    "io"

    "github.com/labstack/echo/v4"
    "github.com/pkg/errors"
)

//go:embed templates/*.html
var files embed.FS

// Page names understood by the renderer.
const (
    PageWelcome  = "welcome"
    PageLogin    = "login"
    PageRegister = "register"
    PageHome     = "home"
    PageProfile  = "profile"
    PageLogout   = "logout"
    PageError    = "error"
)

// Data is the record handed to every page.  Error and Message drive the
// alert shown on re-rendered forms.
type Data struct {
    Title    string
    Username string
    Error    bool
    Message  string
    Status   int
    Payload  any
}

// Renderer implements echo.Renderer over the embedded templates.
type Renderer struct {
    templates *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
    t, err := template.New("").ParseFS(files, "templates/*.html")
    if err != nil {
        return nil, errors.Wrap(err, "parse templates")
    }
    return &Renderer{templates: t}, nil
}

// MustNew is New for process start-up and tests.
func MustNew() *Renderer {
    r, err := New()
    if err != nil {
        panic(err)
    }
    return r
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
    if r.templates.Lookup(name) == nil {
        return errors.Errorf("unknown page %q", name)
    }
    return r.templates.ExecuteTemplate(w, name, data)
}
