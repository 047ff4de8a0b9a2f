package api

import (
	"alcyxob/fitness-admin/internal/domain"
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

//go:embed templates/*.html
var templateFS embed.FS

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

func renderMarkdown(md *string) template.HTML {
	if md == nil || *md == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(*md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(*md))
	}
	return template.HTML(buf.String())
}

var templateFuncs = template.FuncMap{
	"renderMarkdown": renderMarkdown,
	"str":            domain.StringValue,
	"intStr": func(n *int) string {
		if n == nil {
			return ""
		}
		return strconv.Itoa(*n)
	},
	"dateTime": func(t time.Time) string {
		return t.Format("2006-01-02 15:04")
	},
	"deleteArgs": deleteArgs,
}

// deleteForm feeds the shared "deleteButton" template.
type deleteForm struct {
	Action    string
	Noun      string
	CSRFField template.HTML
	FromEdit  bool
}

func deleteArgs(action, noun string, csrfField template.HTML, fromEdit bool) deleteForm {
	return deleteForm{Action: action, Noun: noun, CSRFField: csrfField, FromEdit: fromEdit}
}

// loadTemplates parses the embedded page templates.
func loadTemplates() *template.Template {
	return template.Must(template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html"))
}

// page is the data every template receives.
type page struct {
	Title     string
	Nav       []navLink
	CSRFField template.HTML
	Profile   *domain.Profile
	Error     string
	Notice    string
	Content   any
}

// render writes template name with the layout data filled in from the request.
func render(c *gin.Context, status int, name, title string, content any, errMsg string) {
	p := page{
		Title:     title,
		CSRFField: csrf.TemplateField(c.Request),
		Profile:   profileFromContext(c),
		Error:     errMsg,
		Notice:    c.Query("notice"),
		Content:   content,
	}
	if p.Profile != nil {
		p.Nav = navFor(c.Request.URL.Path)
	}
	c.HTML(status, name, p)
}

// internalError logs the real error and renders a generic page.
func internalError(c *gin.Context, err error) {
	slog.ErrorContext(c.Request.Context(), "internal_error", "path", c.Request.URL.Path, "error", err)
	render(c, http.StatusInternalServerError, "error.html", "Error", nil, "Something went wrong. Please try again.")
}

func notFound(c *gin.Context) {
	render(c, http.StatusNotFound, "error.html", "Not found", nil, "The requested item does not exist.")
}

// redirect sends a 303 so the browser follows up with GET.
func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}
