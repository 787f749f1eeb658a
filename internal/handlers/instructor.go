package handlers

import (
	"net/http"
	"strconv"

	"coursehub/dashboard"
	"coursehub/helper"
	"coursehub/internal/render"

	"github.com/go-chi/chi/v5"
)

func (h *Handlers) HandleInstructorCourse(w http.ResponseWriter, r *http.Request) {
	c, i, ok := current[*dashboard.Instructor](w, r)
	if !ok {
		return
	}
	h.logged(r, "open-course", i.OpenCourse(r.Context(), chi.URLParam(r, "courseID")))
	h.done(w, r, c, i)
}

func (h *Handlers) HandleInstructorCloseCourse(w http.ResponseWriter, r *http.Request) {
	c, i, ok := current[*dashboard.Instructor](w, r)
	if !ok {
		return
	}
	i.CloseCourse()
	h.done(w, r, c, i)
}

func (h *Handlers) HandleInstructorCourseTab(w http.ResponseWriter, r *http.Request) {
	c, i, ok := current[*dashboard.Instructor](w, r)
	if !ok {
		return
	}
	i.SetCourseTab(dashboard.CourseTab(form(r, "tab")))
	h.done(w, r, c, i)
}

func (h *Handlers) HandleCreateModule(w http.ResponseWriter, r *http.Request) {
	c, i, ok := current[*dashboard.Instructor](w, r)
	if !ok {
		return
	}
	err := i.CreateModule(r.Context(), dashboard.ModuleDraft{
		ModuleNumber: helper.IntOr(form(r, "module_number"), 0),
		Name:         form(r, "name"),
		Duration:     form(r, "duration"),
	})
	h.logged(r, dashboard.ActionCreateModule, err)
	h.done(w, r, c, i)
}

func (h *Handlers) HandleAddContent(w http.ResponseWriter, r *http.Request) {
	c, i, ok := current[*dashboard.Instructor](w, r)
	if !ok {
		return
	}
	err := i.AddContent(r.Context(), dashboard.ContentDraft{
		ModuleNumber: helper.IntOr(form(r, "module_number"), 0),
		Title:        form(r, "title"),
		Type:         form(r, "type"),
		URL:          form(r, "url"),
	})
	h.logged(r, dashboard.ActionAddContent, err)
	h.done(w, r, c, i)
}

func (h *Handlers) HandleCreateAssignment(w http.ResponseWriter, r *http.Request) {
	c, i, ok := current[*dashboard.Instructor](w, r)
	if !ok {
		return
	}
	module, err := helper.OptionalInt(form(r, "module_number"))
	if err != nil {
		module = nil
	}
	err = i.CreateAssignment(r.Context(), dashboard.AssignmentDraft{
		Title:         form(r, "title"),
		AssignmentURL: form(r, "assignment_url"),
		ModuleNumber:  module,
		Description:   form(r, "description"),
		DueDate:       form(r, "due_date"),
		MaxMarks:      helper.IntOr(form(r, "max_marks"), 0),
	})
	h.logged(r, dashboard.ActionCreateAssignment, err)
	h.done(w, r, c, i)
}

func (h *Handlers) HandleOpenSubmissions(w http.ResponseWriter, r *http.Request) {
	c, i, ok := current[*dashboard.Instructor](w, r)
	if !ok {
		return
	}
	h.logged(r, "open-submissions", i.OpenSubmissions(r.Context(), chi.URLParam(r, "assignmentID")))
	h.done(w, r, c, i)
}

func (h *Handlers) HandleCloseSubmissions(w http.ResponseWriter, r *http.Request) {
	c, i, ok := current[*dashboard.Instructor](w, r)
	if !ok {
		return
	}
	i.CloseSubmissions()
	h.done(w, r, c, i)
}

func (h *Handlers) HandleGradeSubmission(w http.ResponseWriter, r *http.Request) {
	c, i, ok := current[*dashboard.Instructor](w, r)
	if !ok {
		return
	}
	marks, err := strconv.ParseFloat(form(r, "marks"), 64)
	if err != nil {
		i.Alert("Marks must be a number")
		h.done(w, r, c, i)
		return
	}
	err = i.GradeSubmission(r.Context(), chi.URLParam(r, "submissionID"), marks, form(r, "feedback"))
	h.logged(r, dashboard.ActionGradeSubmission, err)
	h.done(w, r, c, i)
}

func (h *Handlers) HandleCreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	c, i, ok := current[*dashboard.Instructor](w, r)
	if !ok {
		return
	}
	err := i.CreateAnnouncement(r.Context(), dashboard.AnnouncementDraft{
		Title:   form(r, "title"),
		Content: form(r, "content"),
	})
	h.logged(r, dashboard.ActionAnnounce, err)
	h.done(w, r, c, i)
}

func (h *Handlers) HandleGradeStudent(w http.ResponseWriter, r *http.Request) {
	c, i, ok := current[*dashboard.Instructor](w, r)
	if !ok {
		return
	}
	err := i.GradeStudent(r.Context(), dashboard.GradeDraft{
		StudentID: form(r, "student_id"),
		Grade:     form(r, "grade"),
		Status:    form(r, "status"),
	})
	h.logged(r, dashboard.ActionGradeStudent, err)
	h.done(w, r, c, i)
}

func (h *Handlers) HandleRemoveStudent(w http.ResponseWriter, r *http.Request) {
	c, i, ok := current[*dashboard.Instructor](w, r)
	if !ok {
		return
	}
	h.logged(r, dashboard.ActionRemoveStudent, i.RemoveStudent(r.Context(), chi.URLParam(r, "studentID")))
	h.done(w, r, c, i)
}

// HandleMailAll sends the browser to a compose window addressed to the
// whole roster.
func (h *Handlers) HandleMailAll(w http.ResponseWriter, r *http.Request) {
	c, i, ok := current[*dashboard.Instructor](w, r)
	if !ok {
		return
	}
	link, err := i.MailAllLink()
	if err != nil {
		h.done(w, r, c, i)
		return
	}
	if render.IsHTMX(r) {
		w.Header().Set("HX-Redirect", link)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, link, http.StatusSeeOther)
}

func (h *Handlers) HandleInstructorEditProfile(w http.ResponseWriter, r *http.Request) {
	c, i, ok := current[*dashboard.Instructor](w, r)
	if !ok {
		return
	}
	i.EditProfile()
	h.done(w, r, c, i)
}

func (h *Handlers) HandleInstructorCancelProfile(w http.ResponseWriter, r *http.Request) {
	c, i, ok := current[*dashboard.Instructor](w, r)
	if !ok {
		return
	}
	i.CancelEdit()
	h.done(w, r, c, i)
}

func (h *Handlers) HandleInstructorUpdateProfile(w http.ResponseWriter, r *http.Request) {
	c, i, ok := current[*dashboard.Instructor](w, r)
	if !ok {
		return
	}
	err := i.UpdateProfile(r.Context(), dashboard.InstructorProfileDraft{
		Branch:         form(r, "branch"),
		Specialization: form(r, "specialization"),
		HireYear:       form(r, "hire_year"),
		PhoneNumber:    form(r, "phone_number"),
	})
	h.logged(r, dashboard.ActionInstructorProfile, err)
	h.done(w, r, c, i)
}
