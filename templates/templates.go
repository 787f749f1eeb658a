// Package templates holds the embedded pages. Each page is an
// html/template exposed as a templ.Component.
package templates

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"
	"time"

	"coursehub/dashboard"
	"coursehub/dto"
	"coursehub/helper"
	"coursehub/state"

	"github.com/a-h/templ"
)

//go:embed html/*.html
var pages embed.FS

//go:embed static
var static embed.FS

var tmpl = template.Must(template.New("").Funcs(funcs).ParseFS(pages, "html/*.html"))

var funcs = template.FuncMap{
	"markdown":    helper.Markdown,
	"date":        helper.FormatDate,
	"deref":       helper.Deref,
	"fees":        dto.Fees,
	"university":  dto.University,
	"percent":     dto.Percent,
	"statusClass": dto.StatusClass,
	"cards":       dto.CourseCardsFromModels,
	"assignments": dto.AssignmentFromModels,
	"submissions": dto.SubmissionFromModels,
	"roster":      dto.RosterFromModels,
	"bars":        dto.Bars,
	"levels":      func() []string { return dashboard.Levels },
	"busy":        func(m map[string]bool, action string) bool { return m[action] },
	"upper":       strings.ToUpper,
	"roleName":    roleName,
	"nav":         nav,
	"totals": func(c *dashboard.StudentCourse) string {
		obtained, possible, percent := c.Totals()
		return fmt.Sprintf("%s (%d%%)", dto.Marks(obtained, possible), percent)
	},
}

func roleName(r state.Role) string {
	switch r {
	case state.RoleAdministrator:
		return "Administrator"
	case state.RoleAnalyst:
		return "Data Analyst"
	case state.RoleInstructor:
		return "Instructor"
	}
	return "Student"
}

type navTab struct {
	Value string
	Label string
}

type navData struct {
	Prefix  string
	Current dashboard.Tab
	Tabs    []navTab
}

// nav builds the sidebar from value/label pairs.
func nav(prefix string, current dashboard.Tab, pairs ...string) navData {
	d := navData{Prefix: prefix, Current: current}
	for i := 0; i+1 < len(pairs); i += 2 {
		d.Tabs = append(d.Tabs, navTab{Value: pairs[i], Label: pairs[i+1]})
	}
	return d
}

// Data is passed to every dashboard page.
type Data struct {
	View    any
	CSRF    template.HTML
	Now     time.Time
	Uploads bool
}

type LoginData struct {
	Mode    string
	Error   string
	Success string
	Name    string
	Email   string
	Role    state.Role
	Roles   []state.Role
	CSRF    template.HTML
}

// LayoutData fills the page shell around a view.
type LayoutData struct {
	Title     string
	Theme     state.Theme
	User      *state.Session
	CSRFToken string
	Body      template.HTML
}

var Roles = []state.Role{state.RoleStudent, state.RoleInstructor, state.RoleAdministrator, state.RoleAnalyst}

// Page returns the named page bound to data.
func Page(name string, data any) templ.Component {
	t := tmpl.Lookup(name)
	if t == nil {
		return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			return fmt.Errorf("template %q not found", name)
		})
	}
	return templ.FromGoHTML(t, data)
}

// Layout wraps content in the page shell.
func Layout(l LayoutData) func(templ.Component) templ.Component {
	return func(content templ.Component) templ.Component {
		return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			body, err := templ.ToGoHTML(ctx, content)
			if err != nil {
				return err
			}
			l.Body = body
			return tmpl.ExecuteTemplate(w, "layout", l)
		})
	}
}

// Static serves the stylesheet and scripts.
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
