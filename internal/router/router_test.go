package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"coursehub/api"
	"coursehub/database"
	"coursehub/internal/handlers"
	"coursehub/internal/profile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flask fakes the CourseHub API. Users sign in as <role>@example.com
// with password "pw".
type flask struct {
	mu     sync.Mutex
	calls  []string
	bodies map[string]map[string]any
	srv    *httptest.Server
}

func newFlask(t *testing.T) *flask {
	t.Helper()
	f := &flask{bodies: map[string]map[string]any{}}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (f *flask) serve(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&body)
	}
	f.mu.Lock()
	call := r.Method + " " + r.URL.Path
	f.calls = append(f.calls, call)
	f.bodies[call] = body
	f.mu.Unlock()

	switch r.URL.Path {
	case "/api/login":
		email, _ := body["email"].(string)
		if body["password"] != "pw" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "error": "Invalid email or password"})
			return
		}
		role := strings.TrimSuffix(email, "@example.com")
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"user":    map[string]string{"user_id": "u-" + role, "name": "Ann", "email": email, "role": role},
		})
	case "/api/dashboard":
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]int{"enrolled_count": 1}})
	case "/api/courses":
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "courses": []map[string]any{
			{"course_id": "c1", "title": "Go Basics", "level": "beginner", "university_name": "MIT"},
			{"course_id": "c2", "title": "Rust", "level": "advanced", "university_name": "ETH"},
		}})
	case "/api/courses/my-courses":
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "courses": []map[string]any{
			{"course_id": "c1", "title": "Go Basics", "level": "beginner", "status": "ongoing"},
		}})
	case "/api/student/profile":
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "profile": map[string]string{"name": "Ann"}})
	case "/api/student/courses/c1/assignments":
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "assignments": []map[string]any{
			{"assignment_id": "a1", "course_id": "c1", "title": "Essay", "max_marks": 20},
		}})
	case "/api/student/courses/c1/modules":
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "modules": []any{}})
	case "/api/student/courses/c1/announcements":
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "announcements": []any{}})
	case "/api/student/courses/c1/insights":
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "insights": []any{}})
	default:
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "ok"})
	}
}

func (f *flask) called(call string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == call {
			return true
		}
	}
	return false
}

func (f *flask) count(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *flask) body(call string) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[call]
}

type fakeUploader struct {
	key  string
	data string
}

func (u *fakeUploader) Upload(_ context.Context, key string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	u.key, u.data = key, string(b)
	return "https://files.example/" + key, nil
}

type env struct {
	t      *testing.T
	h      http.Handler
	api    *flask
	kv     database.KV
	cookie *http.Cookie
}

func newEnv(t *testing.T, opts ...func(*Options)) *env {
	t.Helper()
	e := &env{t: t, api: newFlask(t), kv: database.NewMemory()}
	e.h = e.router(opts...)
	return e
}

func (e *env) router(opts ...func(*Options)) http.Handler {
	client := api.New(e.api.srv.URL + "/api")
	o := Options{
		Registry: profile.NewRegistry(e.kv, client, nil, nil),
		Handlers: handlers.New(nil, nil),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return Router(o)
}

func (e *env) send(req *http.Request, htmx bool) *httptest.ResponseRecorder {
	if e.cookie != nil {
		req.AddCookie(e.cookie)
	}
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	rec := httptest.NewRecorder()
	e.h.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name == ProfileCookie {
			e.cookie = c
		}
	}
	return rec
}

func (e *env) get(path string, htmx bool) *httptest.ResponseRecorder {
	return e.send(httptest.NewRequest(http.MethodGet, path, nil), htmx)
}

func (e *env) post(path string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.send(req, htmx)
}

func (e *env) login(role string) {
	e.t.Helper()
	rec := e.post("/login", url.Values{"email": {role + "@example.com"}, "password": {"pw"}}, true)
	require.Equal(e.t, "/dashboard", rec.Header().Get("HX-Redirect"))
}

func TestHealth(t *testing.T) {
	e := newEnv(t)
	rec := e.get("/health", false)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Nil(t, e.cookie)
}

func TestMetricsAndStatic(t *testing.T) {
	e := newEnv(t)
	assert.Equal(t, http.StatusOK, e.get("/metrics", false).Code)

	rec := e.get("/static/app.css", false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `[data-theme="dark"]`)
}

func TestRootMintsProfileAndRedirectsToLogin(t *testing.T) {
	e := newEnv(t)
	rec := e.get("/", false)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	require.NotNil(t, e.cookie)
	assert.True(t, database.ValidProfileID(e.cookie.Value))
	assert.True(t, e.cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, e.cookie.SameSite)
}

func TestInvalidCookieGetsFreshProfile(t *testing.T) {
	e := newEnv(t)
	e.cookie = &http.Cookie{Name: ProfileCookie, Value: "../../etc"}
	e.get("/login", false)

	require.NotNil(t, e.cookie)
	assert.True(t, database.ValidProfileID(e.cookie.Value))
}

type countingKV struct {
	database.KV
	mu   sync.Mutex
	puts int
}

func (k *countingKV) Put(ctx context.Context, scope, key string, value []byte) error {
	k.mu.Lock()
	k.puts++
	k.mu.Unlock()
	return k.KV.Put(ctx, scope, key, value)
}

func TestCookielessVisitsStayBounded(t *testing.T) {
	kv := &countingKV{KV: database.NewMemory()}
	e := newEnv(t)
	reg := profile.NewRegistry(kv, api.New(e.api.srv.URL+"/api"), nil, nil, profile.WithLimits(4, time.Hour))
	e.h = e.router(func(o *Options) { o.Registry = reg })

	for i := 0; i < 25; i++ {
		e.cookie = nil
		require.Equal(t, http.StatusOK, e.get("/login", false).Code)
	}

	assert.Equal(t, 4, reg.Len())
	assert.Equal(t, 0, kv.puts)
}

func TestDashboardRequiresLogin(t *testing.T) {
	e := newEnv(t)

	rec := e.get("/dashboard", false)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = e.get("/dashboard", true)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("HX-Redirect"))
}

func TestLoginPageRendersLayout(t *testing.T) {
	e := newEnv(t)
	rec := e.get("/login?mode=signup", false)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<!DOCTYPE html>")
	assert.Contains(t, body, `data-theme="bright"`)
	assert.Contains(t, body, "Create your account")
	assert.Contains(t, body, "Data Analyst")
}

func TestLoginPartialForHTMX(t *testing.T) {
	e := newEnv(t)
	rec := e.get("/login", true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<!DOCTYPE html>")
	assert.Contains(t, rec.Body.String(), "Welcome back!")
}

func TestLoginThenDashboard(t *testing.T) {
	e := newEnv(t)
	e.login("student")

	rec := e.get("/dashboard", false)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Welcome, Ann!")
	assert.Contains(t, body, "student-dashboard")
	assert.True(t, e.api.called("GET /api/courses"))

	assert.Equal(t, "/dashboard", e.get("/", false).Header().Get("Location"))
	assert.Equal(t, "/dashboard", e.get("/login", false).Header().Get("Location"))
}

func TestLoginErrorShowsServerMessage(t *testing.T) {
	e := newEnv(t)
	rec := e.post("/login", url.Values{"email": {"student@example.com"}, "password": {"bad"}}, true)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("HX-Redirect"))
	assert.Contains(t, rec.Body.String(), "Invalid email or password")
	assert.Contains(t, rec.Body.String(), `value="student@example.com"`)
}

func TestLoginValidationSkipsAPI(t *testing.T) {
	e := newEnv(t)
	rec := e.post("/login", url.Values{}, true)

	assert.Contains(t, rec.Body.String(), "Email is required; Password is required")
	assert.False(t, e.api.called("POST /api/login"))
}

func TestSessionSurvivesRestart(t *testing.T) {
	e := newEnv(t)
	e.login("instructor")

	e.h = e.router()
	rec := e.get("/dashboard", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "instructor-dashboard")
}

func TestLogoutReturnsToLogin(t *testing.T) {
	e := newEnv(t)
	e.login("analyst")

	rec := e.post("/logout", nil, true)
	assert.Equal(t, "/login", rec.Header().Get("HX-Redirect"))
	assert.Equal(t, "/login", e.get("/dashboard", false).Header().Get("Location"))
}

func TestRoleGuardRedirects(t *testing.T) {
	e := newEnv(t)
	e.login("student")

	rec := e.post("/admin/tab", url.Values{"tab": {"users"}}, false)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	rec = e.post("/instructor/modules", nil, true)
	assert.Equal(t, "/dashboard", rec.Header().Get("HX-Redirect"))
	assert.False(t, e.api.called("POST /api/instructor/modules"))
}

func TestPlainPostRedirectsAfterAction(t *testing.T) {
	e := newEnv(t)
	e.login("student")

	rec := e.post("/student/tab", url.Values{"tab": {"browse"}}, false)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, handlers.AfterPost, rec.Header().Get("Location"))
}

func TestPlainEnrollRefetchesOnce(t *testing.T) {
	e := newEnv(t)
	e.login("student")
	require.Equal(t, http.StatusOK, e.get("/dashboard", false).Code)

	mine := e.api.count("GET /api/courses/my-courses")
	summary := e.api.count("GET /api/dashboard")
	catalog := e.api.count("GET /api/courses")

	rec := e.post("/student/enroll", url.Values{"course_id": {"c2"}}, false)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	page := e.get(rec.Header().Get("Location"), false)
	require.Equal(t, http.StatusOK, page.Code)

	assert.Equal(t, 1, e.api.count("POST /api/courses/enroll"))
	assert.Equal(t, mine+2, e.api.count("GET /api/courses/my-courses"))
	assert.Equal(t, summary+1, e.api.count("GET /api/dashboard"))
	assert.Equal(t, catalog, e.api.count("GET /api/courses"))
	assert.Contains(t, page.Body.String(), "Enrolled successfully!")

	e.get("/dashboard", false)
	assert.Equal(t, catalog+1, e.api.count("GET /api/courses"))
}

func TestStudentEnrollRendersNotice(t *testing.T) {
	e := newEnv(t)
	e.login("student")

	rec := e.post("/student/enroll", url.Values{"course_id": {"c2"}}, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, e.api.called("POST /api/courses/enroll"))
	assert.Contains(t, rec.Body.String(), "Enrolled successfully!")

	rec = e.post("/notice/dismiss", nil, true)
	assert.NotContains(t, rec.Body.String(), "Enrolled successfully!")
}

func TestStudentBrowseFilters(t *testing.T) {
	e := newEnv(t)
	e.login("student")

	rec := e.get("/student/browse?q=rust", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Rust")
	assert.NotContains(t, rec.Body.String(), "Go Basics")
}

func TestBrowseOffersNoEnrollForEnrolledCourse(t *testing.T) {
	e := newEnv(t)
	e.login("student")

	body := e.get("/student/browse", true).Body.String()
	assert.Contains(t, body, "Go Basics")
	assert.NotContains(t, body, `name="course_id" value="c1"`)
	assert.Contains(t, body, `name="course_id" value="c2"`)
}

func TestSubmitUploadsFile(t *testing.T) {
	up := &fakeUploader{}
	e := newEnv(t, func(o *Options) { o.Handlers = handlers.New(nil, up) })
	e.login("student")
	e.post("/student/courses/c1", nil, true)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "My Essay.pdf")
	require.NoError(t, err)
	part.Write([]byte("%PDF"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/student/assignments/a1/submit", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := e.send(req, true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "%PDF", up.data)
	assert.True(t, strings.HasPrefix(up.key, "submissions/a1/u-student/"))
	sent := e.api.body("POST /api/student/assignment/submit")
	require.NotNil(t, sent)
	assert.Equal(t, "https://files.example/"+up.key, sent["submission_url"])
	assert.Contains(t, rec.Body.String(), "Submission successful!")
}

func TestRefusedSubmissionSkipsUpload(t *testing.T) {
	up := &fakeUploader{}
	e := newEnv(t, func(o *Options) { o.Handlers = handlers.New(nil, up) })
	e.login("student")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "essay.pdf")
	require.NoError(t, err)
	part.Write([]byte("%PDF"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/student/assignments/a1/submit", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := e.send(req, true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Open the course before submitting")
	assert.Empty(t, up.key)
	assert.False(t, e.api.called("POST /api/student/assignment/submit"))
}

func TestThemeToggle(t *testing.T) {
	e := newEnv(t)

	rec := e.post("/theme", nil, true)
	assert.Equal(t, "true", rec.Header().Get("HX-Refresh"))
	assert.Contains(t, e.get("/login", false).Body.String(), `data-theme="dark"`)
}

func TestCSRFRejectsTokenlessPost(t *testing.T) {
	e := newEnv(t, func(o *Options) { o.CSRFKey = bytes.Repeat([]byte("k"), 32) })

	rec := e.post("/login", url.Values{"email": {"student@example.com"}, "password": {"pw"}}, true)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, e.api.called("POST /api/login"))

	page := e.get("/login", false).Body.String()
	assert.Contains(t, page, `name="gorilla.csrf.Token"`)
}
