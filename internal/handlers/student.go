package handlers

import (
	"errors"
	"net/http"

	"coursehub/dashboard"
	"coursehub/storage"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func (h *Handlers) HandleStudentBrowse(w http.ResponseWriter, r *http.Request) {
	c, s, ok := current[*dashboard.Student](w, r)
	if !ok {
		return
	}
	s.SetTab(dashboard.TabBrowse)
	s.Browse(r.URL.Query().Get("q"), r.URL.Query().Get("level"))
	h.renderDashboard(w, r, c, s)
}

func (h *Handlers) HandleStudentEnroll(w http.ResponseWriter, r *http.Request) {
	c, s, ok := current[*dashboard.Student](w, r)
	if !ok {
		return
	}
	h.logged(r, dashboard.ActionEnroll, s.Enroll(r.Context(), form(r, "course_id")))
	h.done(w, r, c, s)
}

func (h *Handlers) HandleStudentCourse(w http.ResponseWriter, r *http.Request) {
	c, s, ok := current[*dashboard.Student](w, r)
	if !ok {
		return
	}
	h.logged(r, "open-course", s.OpenCourse(r.Context(), chi.URLParam(r, "courseID")))
	h.done(w, r, c, s)
}

func (h *Handlers) HandleStudentBack(w http.ResponseWriter, r *http.Request) {
	c, s, ok := current[*dashboard.Student](w, r)
	if !ok {
		return
	}
	s.Back()
	h.done(w, r, c, s)
}

func (h *Handlers) HandleStartSubmission(w http.ResponseWriter, r *http.Request) {
	c, s, ok := current[*dashboard.Student](w, r)
	if !ok {
		return
	}
	s.StartSubmission(chi.URLParam(r, "assignmentID"))
	h.done(w, r, c, s)
}

func (h *Handlers) HandleCancelSubmission(w http.ResponseWriter, r *http.Request) {
	c, s, ok := current[*dashboard.Student](w, r)
	if !ok {
		return
	}
	s.CancelSubmission()
	h.done(w, r, c, s)
}

// HandleSubmitAssignment accepts a solution link, or a file when uploads
// are configured. An uploaded file's public URL becomes the link.
func (h *Handlers) HandleSubmitAssignment(w http.ResponseWriter, r *http.Request) {
	c, s, ok := current[*dashboard.Student](w, r)
	if !ok {
		return
	}
	assignmentID := chi.URLParam(r, "assignmentID")

	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxUploadSize+1<<20)
	if err := r.ParseMultipartForm(storage.MaxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.Log.Info("submission form rejected", zap.String("assignment_id", assignmentID), zap.Error(err))
		s.Alert("The file is too large or the form could not be read.")
		h.done(w, r, c, s)
		return
	}

	if err := s.CheckSubmission(assignmentID); err != nil {
		h.logged(r, dashboard.ActionSubmit, err)
		h.done(w, r, c, s)
		return
	}

	url := form(r, "submission_url")
	if h.Uploader != nil {
		uploaded, err := h.upload(r, c.Gate.Session().UserID, assignmentID)
		if err != nil {
			h.Log.Error("submission upload failed", zap.String("assignment_id", assignmentID), zap.Error(err))
			s.Alert("Failed to upload file")
			h.done(w, r, c, s)
			return
		}
		if uploaded != "" {
			url = uploaded
		}
	}

	h.logged(r, dashboard.ActionSubmit, s.SubmitAssignment(r.Context(), assignmentID, url))
	h.done(w, r, c, s)
}

// upload stores the optional "file" part. It returns "" when none was sent.
func (h *Handlers) upload(r *http.Request, studentID, assignmentID string) (string, error) {
	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer file.Close()
	if header.Size == 0 {
		return "", nil
	}

	key := storage.SubmissionKey(studentID, assignmentID, header.Filename, h.now())
	url, err := h.Uploader.Upload(r.Context(), key, file)
	if err != nil {
		return "", err
	}
	h.Log.Info("submission uploaded", zap.String("key", key), zap.Int64("bytes", header.Size))
	return url, nil
}

func (h *Handlers) HandleStudentEditProfile(w http.ResponseWriter, r *http.Request) {
	c, s, ok := current[*dashboard.Student](w, r)
	if !ok {
		return
	}
	s.EditProfile()
	h.done(w, r, c, s)
}

func (h *Handlers) HandleStudentCancelProfile(w http.ResponseWriter, r *http.Request) {
	c, s, ok := current[*dashboard.Student](w, r)
	if !ok {
		return
	}
	s.CancelEdit()
	h.done(w, r, c, s)
}

func (h *Handlers) HandleStudentUpdateProfile(w http.ResponseWriter, r *http.Request) {
	c, s, ok := current[*dashboard.Student](w, r)
	if !ok {
		return
	}
	err := s.UpdateProfile(r.Context(), dashboard.StudentProfileDraft{
		Name:        form(r, "name"),
		Branch:      form(r, "branch"),
		Country:     form(r, "country"),
		DOB:         form(r, "dob"),
		PhoneNumber: form(r, "phone_number"),
	})
	h.logged(r, dashboard.ActionUpdateProfile, err)
	h.done(w, r, c, s)
}
