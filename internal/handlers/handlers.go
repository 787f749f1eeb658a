// Package handlers turns form posts into dashboard calls and re-renders
// the affected page.
package handlers

import (
	"net/http"
	"strings"
	"time"

	"coursehub/dashboard"
	"coursehub/internal/profile"
	"coursehub/internal/render"
	"coursehub/storage"
	"coursehub/templates"

	"github.com/a-h/templ"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

type Handlers struct {
	Log *zap.Logger
	// Uploader is nil when file uploads are not configured.
	Uploader storage.Uploader
	Now      func() time.Time
}

func New(log *zap.Logger, uploader storage.Uploader) *Handlers {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handlers{Log: log, Uploader: uploader, Now: time.Now}
}

func (h *Handlers) now() time.Time {
	if h.Now == nil {
		return time.Now()
	}
	return h.Now()
}

func (h *Handlers) layout(r *http.Request, c *profile.Client, title string) func(templ.Component) templ.Component {
	return templates.Layout(templates.LayoutData{
		Title:     title,
		Theme:     c.Theme.Current(),
		User:      c.Gate.Session(),
		CSRFToken: csrf.Token(r),
	})
}

func (h *Handlers) page(w http.ResponseWriter, r *http.Request, c *profile.Client, name, title string, view any) {
	data := templates.Data{
		View:    view,
		CSRF:    csrf.TemplateField(r),
		Now:     h.now(),
		Uploads: h.Uploader != nil,
	}
	h.render(w, r, templates.Page(name, data), h.layout(r, c, title))
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, content templ.Component, layout func(templ.Component) templ.Component) {
	if err := render.RenderWithLayout(w, r, content, layout); err != nil {
		h.Log.Error("render failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
}

// renderDashboard draws whichever role dashboard d is.
func (h *Handlers) renderDashboard(w http.ResponseWriter, r *http.Request, c *profile.Client, d profile.Dashboard) {
	switch d := d.(type) {
	case *dashboard.Student:
		h.page(w, r, c, "student", "Student Dashboard", d.View())
	case *dashboard.Instructor:
		h.page(w, r, c, "instructor", "Instructor Dashboard", d.View())
	case *dashboard.Admin:
		h.page(w, r, c, "admin", "Admin Dashboard", d.View())
	case *dashboard.Analyst:
		h.page(w, r, c, "analyst", "Data Analyst Dashboard", d.View())
	default:
		Redirect(w, r, "/login")
	}
}

// AfterPost is where a plain form post lands. It draws the dashboard as
// the action left it, without remounting.
const AfterPost = "/dashboard?view=current"

// done finishes an action. htmx gets the redrawn dashboard, a plain form
// post is sent to AfterPost so a reload does not repost.
func (h *Handlers) done(w http.ResponseWriter, r *http.Request, c *profile.Client, d profile.Dashboard) {
	if !render.IsHTMX(r) {
		http.Redirect(w, r, AfterPost, http.StatusSeeOther)
		return
	}
	h.renderDashboard(w, r, c, d)
}

// Redirect navigates the whole page, through HX-Redirect for htmx.
func Redirect(w http.ResponseWriter, r *http.Request, to string) {
	if render.IsHTMX(r) {
		w.Header().Set("HX-Redirect", to)
		w.WriteHeader(http.StatusOK)
		return
	}
	status := http.StatusFound
	if r.Method == http.MethodPost {
		status = http.StatusSeeOther
	}
	http.Redirect(w, r, to, status)
}

// current resolves the signed-in dashboard of the expected type. The
// router has already checked the role, so a mismatch means the session
// changed underneath and the browser is sent to its own dashboard.
func current[T profile.Dashboard](w http.ResponseWriter, r *http.Request) (*profile.Client, T, bool) {
	var zero T
	c := profile.FromContext(r.Context())
	if c == nil {
		Redirect(w, r, "/login")
		return nil, zero, false
	}
	d, ok := c.Dashboard(r.Context()).(T)
	if !ok {
		Redirect(w, r, "/dashboard")
		return nil, zero, false
	}
	return c, d, true
}

// logged records a refused action. The dashboard has already set the
// notice the user sees.
func (h *Handlers) logged(r *http.Request, action string, err error) {
	if err != nil {
		h.Log.Debug("action refused", zap.String("action", action), zap.String("path", r.URL.Path), zap.Error(err))
	}
}

func form(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}
