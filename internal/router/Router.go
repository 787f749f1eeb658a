package router

import (
	"encoding/json"
	"net/http"
	"time"

	"coursehub/database"
	"coursehub/gate"
	"coursehub/internal/handlers"
	"coursehub/internal/logging"
	"coursehub/internal/profile"
	"coursehub/state"
	"coursehub/templates"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// ProfileCookie names the browser profile whose stored session and
// theme a request uses.
const ProfileCookie = "coursehub_profile"

const profileMaxAge = 365 * 24 * time.Hour

type Options struct {
	Registry *profile.Registry
	Handlers *handlers.Handlers
	Log      *zap.Logger
	// Metrics serves /metrics. Nil uses the default prometheus registry.
	Metrics http.Handler
	// CSRFKey enables CSRF protection on form posts when set.
	CSRFKey      []byte
	CookieSecure bool
}

func Router(o Options) http.Handler {
	log := o.Log
	if log == nil {
		log = zap.NewNop()
	}
	metrics := o.Metrics
	if metrics == nil {
		metrics = promhttp.Handler()
	}
	h := o.Handlers

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, logging.Middleware(log), middleware.Recoverer)

	r.Get("/health", health)
	r.Handle("/metrics", metrics)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(templates.Static()))))

	r.Group(func(r chi.Router) {
		if len(o.CSRFKey) > 0 {
			r.Use(csrf.Protect(o.CSRFKey,
				csrf.Secure(o.CookieSecure),
				csrf.Path("/"),
				csrf.CookieName("coursehub_csrf"),
				csrf.ErrorHandler(http.HandlerFunc(csrfFailed(log))),
			))
		}
		r.Use(withProfile(o.Registry, o.CookieSecure, log))

		r.Get("/", root)
		r.Get("/login", h.HandleLoginPage)
		r.Post("/login", h.HandleLogin)
		r.Post("/signup", h.HandleSignup)
		r.Post("/logout", h.HandleLogout)
		r.Post("/theme", h.HandleTheme)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/dashboard", h.HandleDashboard)
			r.Post("/notice/dismiss", h.HandleDismiss)

			r.Route("/student", func(r chi.Router) {
				r.Use(requireRole(state.RoleStudent))
				r.Post("/tab", h.HandleTab)
				r.Get("/browse", h.HandleStudentBrowse)
				r.Post("/enroll", h.HandleStudentEnroll)
				r.Post("/courses/{courseID}", h.HandleStudentCourse)
				r.Post("/back", h.HandleStudentBack)
				r.Post("/assignments/cancel", h.HandleCancelSubmission)
				r.Post("/assignments/{assignmentID}/start", h.HandleStartSubmission)
				r.Post("/assignments/{assignmentID}/submit", h.HandleSubmitAssignment)
				r.Post("/profile", h.HandleStudentUpdateProfile)
				r.Post("/profile/edit", h.HandleStudentEditProfile)
				r.Post("/profile/cancel", h.HandleStudentCancelProfile)
			})

			r.Route("/instructor", func(r chi.Router) {
				r.Use(requireRole(state.RoleInstructor))
				r.Post("/tab", h.HandleTab)
				r.Post("/courses/close", h.HandleInstructorCloseCourse)
				r.Post("/courses/tab", h.HandleInstructorCourseTab)
				r.Post("/courses/{courseID}", h.HandleInstructorCourse)
				r.Post("/modules", h.HandleCreateModule)
				r.Post("/content", h.HandleAddContent)
				r.Post("/assignments", h.HandleCreateAssignment)
				r.Post("/assignments/{assignmentID}/submissions", h.HandleOpenSubmissions)
				r.Post("/submissions/close", h.HandleCloseSubmissions)
				r.Post("/submissions/{submissionID}/grade", h.HandleGradeSubmission)
				r.Post("/announcements", h.HandleCreateAnnouncement)
				r.Post("/students/grade", h.HandleGradeStudent)
				r.Post("/students/{studentID}/remove", h.HandleRemoveStudent)
				r.Post("/mail", h.HandleMailAll)
				r.Post("/profile", h.HandleInstructorUpdateProfile)
				r.Post("/profile/edit", h.HandleInstructorEditProfile)
				r.Post("/profile/cancel", h.HandleInstructorCancelProfile)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(requireRole(state.RoleAdministrator))
				r.Post("/tab", h.HandleTab)
				r.Post("/users/{userID}/approve", h.HandleApproveUser)
				r.Post("/users/{userID}/delete", h.HandleDeleteUser)
				r.Post("/courses", h.HandleCreateCourse)
				r.Post("/courses/new", h.HandleShowCreateCourse)
				r.Post("/courses/close", h.HandleCloseCourse)
				r.Post("/courses/update", h.HandleUpdateCourse)
				r.Post("/courses/{courseID}/edit", h.HandleEditCourse)
				r.Post("/courses/{courseID}/delete", h.HandleDeleteCourse)
				r.Post("/course-instructors/{instructorID}/remove", h.HandleRemoveCourseInstructor)
				r.Get("/assign/instructors", h.HandleFilterInstructors)
				r.Get("/assign/courses", h.HandleFilterCourses)
				r.Post("/assign/pick", h.HandlePick)
				r.Post("/assign", h.HandleAssignInstructor)
			})

			r.Route("/analyst", func(r chi.Router) {
				r.Use(requireRole(state.RoleAnalyst))
				r.Post("/tab", h.HandleTab)
				r.Post("/select", h.HandleSelectCourse)
				r.Post("/preview", h.HandlePreviewChart)
				r.Post("/insights", h.HandlePostInsight)
			})
		})
	})

	return r
}

func health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func root(w http.ResponseWriter, r *http.Request) {
	c := profile.FromContext(r.Context())
	if c.Gate.State() == gate.StateAuthenticated {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

// withProfile attaches the browser profile named by the cookie, minting a
// new one for first visits and for cookies that are not profile ids.
func withProfile(reg *profile.Registry, secure bool, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if cookie, err := r.Cookie(ProfileCookie); err == nil && database.ValidProfileID(cookie.Value) {
				id = cookie.Value
			}
			if id == "" {
				id = database.NewProfileID()
				http.SetCookie(w, &http.Cookie{
					Name:     ProfileCookie,
					Value:    id,
					Path:     "/",
					MaxAge:   int(profileMaxAge.Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			c, err := reg.Get(r.Context(), id)
			if err != nil {
				log.Error("profile not loaded", zap.String("profile", id), zap.Error(err))
				http.Error(w, "Internal error", http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r.WithContext(profile.WithClient(r.Context(), c)))
		})
	}
}

func requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := profile.FromContext(r.Context())
		if c == nil || c.Gate.State() != gate.StateAuthenticated {
			handlers.Redirect(w, r, "/login")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireRole keeps each dashboard's routes to its own role. Anyone else
// is sent to the dashboard their role does get.
func requireRole(role state.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := profile.FromContext(r.Context()).Gate.Session()
			if sess == nil || sess.Role != role {
				handlers.Redirect(w, r, "/dashboard")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func csrfFailed(log *zap.Logger) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Warn("csrf check failed", zap.String("path", r.URL.Path), zap.Error(csrf.FailureReason(r)))
		http.Error(w, "Forbidden", http.StatusForbidden)
	}
}
