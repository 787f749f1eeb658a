package handlers

import (
	"net/http"

	"coursehub/dashboard"
	"coursehub/gate"
	"coursehub/internal/profile"
	"coursehub/internal/render"
	"coursehub/state"
	"coursehub/templates"

	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

const (
	modeLogin  = "login"
	modeSignup = "signup"
)

func (h *Handlers) renderLogin(w http.ResponseWriter, r *http.Request, c *profile.Client, d templates.LoginData) {
	if d.Mode != modeSignup {
		d.Mode = modeLogin
	}
	if d.Role == "" {
		d.Role = state.RoleStudent
	}
	d.Roles = templates.Roles
	d.CSRF = csrf.TemplateField(r)
	h.render(w, r, templates.Page("login", d), h.layout(r, c, "Login"))
}

// HandleLoginPage shows the login or signup form. Signed-in users go
// straight to their dashboard.
func (h *Handlers) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	c := profile.FromContext(r.Context())
	if c.Gate.State() == gate.StateAuthenticated {
		Redirect(w, r, "/dashboard")
		return
	}
	h.renderLogin(w, r, c, templates.LoginData{Mode: r.URL.Query().Get("mode")})
}

func (h *Handlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	c := profile.FromContext(r.Context())
	email := form(r, "email")

	sess, err := c.Gate.Login(r.Context(), email, r.FormValue("password"))
	if err != nil {
		h.renderLogin(w, r, c, templates.LoginData{
			Mode:  modeLogin,
			Error: gate.Message(err, "Login failed"),
			Email: email,
		})
		return
	}

	c.Reset()
	h.Log.Info("login", zap.String("profile", c.ID), zap.String("user_id", sess.UserID))
	Redirect(w, r, "/dashboard")
}

func (h *Handlers) HandleSignup(w http.ResponseWriter, r *http.Request) {
	c := profile.FromContext(r.Context())
	f := gate.SignupForm{
		Name:     form(r, "name"),
		Email:    form(r, "email"),
		Password: r.FormValue("password"),
		Role:     state.Role(form(r, "role")),
	}

	res, err := c.Gate.Signup(r.Context(), f)
	if err != nil {
		h.renderLogin(w, r, c, templates.LoginData{
			Mode:  modeSignup,
			Error: gate.Message(err, "Signup failed"),
			Name:  f.Name,
			Email: f.Email,
			Role:  f.Role,
		})
		return
	}

	if res.Session == nil {
		h.renderLogin(w, r, c, templates.LoginData{Mode: modeLogin, Success: res.Notice, Email: f.Email})
		return
	}
	c.Reset()
	Redirect(w, r, "/dashboard")
}

func (h *Handlers) HandleLogout(w http.ResponseWriter, r *http.Request) {
	c := profile.FromContext(r.Context())
	if err := c.Gate.Logout(r.Context()); err != nil {
		h.Log.Warn("logout: session not cleared", zap.String("profile", c.ID), zap.Error(err))
	}
	c.Reset()
	Redirect(w, r, "/login")
}

// HandleTheme flips the theme. htmx reloads the page so the new
// data-theme applies everywhere.
func (h *Handlers) HandleTheme(w http.ResponseWriter, r *http.Request) {
	c := profile.FromContext(r.Context())
	theme, err := c.Theme.Toggle(r.Context())
	if err != nil {
		h.Log.Error("theme not saved", zap.String("profile", c.ID), zap.Error(err))
	}
	h.Log.Debug("theme", zap.String("profile", c.ID), zap.String("theme", string(theme)))

	if render.IsHTMX(r) {
		w.Header().Set("HX-Refresh", "true")
		w.WriteHeader(http.StatusOK)
		return
	}
	back := r.Referer()
	if back == "" {
		back = "/"
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// HandleDashboard is a full page load: it remounts the dashboard so the
// data is fresh. The landing page after a plain form post only redraws,
// since the action already re-fetched what it changed.
func (h *Handlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	c := profile.FromContext(r.Context())
	var d profile.Dashboard
	if r.URL.Query().Has("view") {
		d = c.Dashboard(r.Context())
	} else {
		d = c.Refresh(r.Context())
	}
	if d == nil {
		Redirect(w, r, "/login")
		return
	}
	h.renderDashboard(w, r, c, d)
}

func (h *Handlers) HandleDismiss(w http.ResponseWriter, r *http.Request) {
	c, d, ok := current[profile.Dashboard](w, r)
	if !ok {
		return
	}
	d.Dismiss()
	h.done(w, r, c, d)
}

func (h *Handlers) HandleTab(w http.ResponseWriter, r *http.Request) {
	c, d, ok := current[profile.Dashboard](w, r)
	if !ok {
		return
	}
	tab := dashboard.Tab(form(r, "tab"))
	if !d.SetTab(tab) {
		h.Log.Debug("unknown tab", zap.String("tab", string(tab)))
	}
	h.done(w, r, c, d)
}
