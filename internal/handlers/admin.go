package handlers

import (
	"net/http"
	"strconv"

	"coursehub/dashboard"

	"github.com/go-chi/chi/v5"
)

func courseDraft(r *http.Request) dashboard.CourseDraft {
	return dashboard.CourseDraft{
		Title:             form(r, "title"),
		Duration:          form(r, "duration"),
		Level:             form(r, "level"),
		Description:       form(r, "description"),
		Fees:              form(r, "fees"),
		UniversityName:    form(r, "university_name"),
		UniversityRanking: form(r, "university_ranking"),
	}
}

func (h *Handlers) HandleApproveUser(w http.ResponseWriter, r *http.Request) {
	c, a, ok := current[*dashboard.Admin](w, r)
	if !ok {
		return
	}
	h.logged(r, dashboard.ActionApprove, a.ApproveUser(r.Context(), chi.URLParam(r, "userID")))
	h.done(w, r, c, a)
}

func (h *Handlers) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	c, a, ok := current[*dashboard.Admin](w, r)
	if !ok {
		return
	}
	h.logged(r, dashboard.ActionDeleteUser, a.DeleteUser(r.Context(), chi.URLParam(r, "userID")))
	h.done(w, r, c, a)
}

func (h *Handlers) HandleShowCreateCourse(w http.ResponseWriter, r *http.Request) {
	c, a, ok := current[*dashboard.Admin](w, r)
	if !ok {
		return
	}
	open, err := strconv.ParseBool(form(r, "open"))
	if err != nil {
		open = true
	}
	a.ShowCreate(open)
	h.done(w, r, c, a)
}

func (h *Handlers) HandleCreateCourse(w http.ResponseWriter, r *http.Request) {
	c, a, ok := current[*dashboard.Admin](w, r)
	if !ok {
		return
	}
	h.logged(r, dashboard.ActionCreateCourse, a.CreateCourse(r.Context(), courseDraft(r)))
	h.done(w, r, c, a)
}

func (h *Handlers) HandleEditCourse(w http.ResponseWriter, r *http.Request) {
	c, a, ok := current[*dashboard.Admin](w, r)
	if !ok {
		return
	}
	h.logged(r, "open-course", a.OpenCourse(r.Context(), chi.URLParam(r, "courseID")))
	h.done(w, r, c, a)
}

func (h *Handlers) HandleCloseCourse(w http.ResponseWriter, r *http.Request) {
	c, a, ok := current[*dashboard.Admin](w, r)
	if !ok {
		return
	}
	a.CloseCourse()
	h.done(w, r, c, a)
}

func (h *Handlers) HandleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	c, a, ok := current[*dashboard.Admin](w, r)
	if !ok {
		return
	}
	h.logged(r, dashboard.ActionUpdateCourse, a.UpdateCourse(r.Context(), courseDraft(r)))
	h.done(w, r, c, a)
}

func (h *Handlers) HandleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	c, a, ok := current[*dashboard.Admin](w, r)
	if !ok {
		return
	}
	h.logged(r, dashboard.ActionDeleteCourse, a.DeleteCourse(r.Context(), chi.URLParam(r, "courseID")))
	h.done(w, r, c, a)
}

func (h *Handlers) HandleRemoveCourseInstructor(w http.ResponseWriter, r *http.Request) {
	c, a, ok := current[*dashboard.Admin](w, r)
	if !ok {
		return
	}
	err := a.RemoveCourseInstructor(r.Context(), chi.URLParam(r, "instructorID"))
	h.logged(r, dashboard.ActionRemoveInstructor, err)
	h.done(w, r, c, a)
}

// HandleFilterInstructors and HandleFilterCourses narrow the assignment
// pickers as the admin types.
func (h *Handlers) HandleFilterInstructors(w http.ResponseWriter, r *http.Request) {
	c, a, ok := current[*dashboard.Admin](w, r)
	if !ok {
		return
	}
	a.SetTab(dashboard.TabAssign)
	a.FilterInstructors(r.URL.Query().Get("q"))
	h.renderDashboard(w, r, c, a)
}

func (h *Handlers) HandleFilterCourses(w http.ResponseWriter, r *http.Request) {
	c, a, ok := current[*dashboard.Admin](w, r)
	if !ok {
		return
	}
	a.SetTab(dashboard.TabAssign)
	a.FilterCourses(r.URL.Query().Get("q"))
	h.renderDashboard(w, r, c, a)
}

func (h *Handlers) HandlePick(w http.ResponseWriter, r *http.Request) {
	c, a, ok := current[*dashboard.Admin](w, r)
	if !ok {
		return
	}
	if id := form(r, "instructor_id"); id != "" {
		a.PickInstructor(id)
	}
	if id := form(r, "course_id"); id != "" {
		a.PickCourse(id)
	}
	h.done(w, r, c, a)
}

func (h *Handlers) HandleAssignInstructor(w http.ResponseWriter, r *http.Request) {
	c, a, ok := current[*dashboard.Admin](w, r)
	if !ok {
		return
	}
	err := a.AssignInstructor(r.Context(), form(r, "instructor_id"), form(r, "course_id"))
	h.logged(r, dashboard.ActionAssign, err)
	h.done(w, r, c, a)
}
