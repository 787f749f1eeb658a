package dashboard

import (
	"context"
	"strings"

	"coursehub/api"
	"coursehub/helper"
	"coursehub/state"

	"go.uber.org/zap"
)

type StudentAPI interface {
	Summary(ctx context.Context, userID string, role state.Role) (api.Summary, error)
	Courses(ctx context.Context) ([]api.Course, error)
	Enroll(ctx context.Context, userID, courseID string) error
	MyCourses(ctx context.Context, userID, status string) ([]api.Enrollment, error)
	StudentProfile(ctx context.Context, userID string) (api.StudentProfile, error)
	UpdateStudentProfile(ctx context.Context, p api.StudentProfileUpdate) error
	StudentModules(ctx context.Context, userID, courseID string) ([]api.Module, error)
	StudentAssignments(ctx context.Context, userID, courseID string) ([]api.Assignment, error)
	StudentAnnouncements(ctx context.Context, userID, courseID string) ([]api.Announcement, error)
	StudentInsights(ctx context.Context, userID, courseID string) ([]api.Insight, error)
	SubmitAssignment(ctx context.Context, studentID, assignmentID, submissionURL string) error
}

const (
	ActionEnroll        = "enroll"
	ActionSubmit        = "submit"
	ActionUpdateProfile = "profile"
)

type StudentProfileDraft struct {
	Name        string `validate:"required" label:"Name"`
	Branch      string
	Country     string
	DOB         string
	PhoneNumber string
}

// CatalogEntry is a browsable course plus whether the student already
// holds it.
type CatalogEntry struct {
	api.Course
	Enrolled bool
}

// StudentCourse is the drill-down for one enrolled course.
type StudentCourse struct {
	Course        api.Enrollment
	Modules       []api.Module
	Assignments   []api.Assignment
	Announcements []api.Announcement
	Insights      []api.Insight
}

// Totals sums marks across the course's assignments.
func (c StudentCourse) Totals() (obtained, possible float64, percent int) {
	for _, a := range c.Assignments {
		if a.MarksObtained != nil {
			obtained += a.MarksObtained.Float()
		}
		possible += float64(a.MaxMarks)
	}
	if possible > 0 {
		percent = int(obtained/possible*100 + 0.5)
	}
	return obtained, possible, percent
}

type Student struct {
	base
	api  StudentAPI
	user state.Session

	summary   api.Summary
	catalog   []api.Course
	enrolled  []api.Enrollment
	active    []api.Enrollment
	completed []api.Enrollment

	profile *api.StudentProfile
	draft   StudentProfileDraft
	editing bool

	query string
	level string

	course        selection
	detail        *StudentCourse
	submittingFor string
}

func NewStudent(client StudentAPI, user state.Session, log *zap.Logger) *Student {
	s := &Student{api: client, user: user, level: LevelAll}
	s.init(log, "student", user, TabProfile, TabEnrolled, TabActive, TabCompleted, TabBrowse)
	return s
}

// Mount loads the summary and every list the student views need.
func (s *Student) Mount(ctx context.Context) {
	s.mount(ctx,
		s.loadSummary(),
		s.loadCatalog(),
		s.loadEnrolled(),
		s.loadActive(),
		s.loadCompleted(),
		s.loadProfile(),
	)
}

func (s *Student) loadSummary() fetch {
	return fetch{"summary", func(ctx context.Context) error {
		v, err := s.api.Summary(ctx, s.user.UserID, s.user.Role)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.summary = v
		s.mu.Unlock()
		return nil
	}}
}

func (s *Student) loadCatalog() fetch {
	return fetch{"catalog", func(ctx context.Context) error {
		v, err := s.api.Courses(ctx)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.catalog = v
		s.mu.Unlock()
		return nil
	}}
}

func (s *Student) loadEnrolled() fetch {
	return s.loadMine("enrolled", "", &s.enrolled)
}

func (s *Student) loadActive() fetch {
	return s.loadMine("active", api.StatusOngoing, &s.active)
}

func (s *Student) loadCompleted() fetch {
	return s.loadMine("completed", api.StatusCompleted, &s.completed)
}

func (s *Student) loadMine(name, status string, dst *[]api.Enrollment) fetch {
	return fetch{name, func(ctx context.Context) error {
		v, err := s.api.MyCourses(ctx, s.user.UserID, status)
		if err != nil {
			return err
		}
		s.mu.Lock()
		*dst = v
		s.mu.Unlock()
		return nil
	}}
}

func (s *Student) loadProfile() fetch {
	return fetch{"profile", func(ctx context.Context) error {
		v, err := s.api.StudentProfile(ctx, s.user.UserID)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.profile = &v
		s.draft = studentDraftFrom(v)
		s.mu.Unlock()
		return nil
	}}
}

func studentDraftFrom(p api.StudentProfile) StudentProfileDraft {
	return StudentProfileDraft{
		Name:        p.Name,
		Branch:      p.Branch,
		Country:     p.Country,
		DOB:         p.DOB,
		PhoneNumber: p.PhoneNumber,
	}
}

// SetTab switches tab. Entering the active list leaves any open course.
func (s *Student) SetTab(t Tab) bool {
	if !s.setTab(t) {
		return false
	}
	if t == TabActive {
		s.Back()
	}
	return true
}

// Browse sets the catalog filter. Unknown levels fall back to all.
func (s *Student) Browse(query, level string) {
	level = strings.ToLower(strings.TrimSpace(level))
	if !helper.Contains(Levels, level) {
		level = LevelAll
	}
	s.mu.Lock()
	s.query = query
	s.level = level
	s.mu.Unlock()
}

// IsEnrolled reports whether courseID is in the loaded enrollment list.
func (s *Student) IsEnrolled(courseID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isEnrolled(courseID)
}

func (s *Student) isEnrolled(courseID string) bool {
	return helper.ContainsFunc(s.enrolled, func(e api.Enrollment) bool { return e.CourseID == courseID })
}

// Catalog returns the filtered catalog, each entry flagged if enrolled.
func (s *Student) Catalog() []CatalogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filteredCatalog()
}

func (s *Student) filteredCatalog() []CatalogEntry {
	out := make([]CatalogEntry, 0, len(s.catalog))
	for _, c := range s.catalog {
		if s.level != LevelAll && strings.ToLower(c.Level) != s.level {
			continue
		}
		if !helper.Matches(s.query, c.Title, c.UniversityName, c.InstructorNames, c.Description) {
			continue
		}
		out = append(out, CatalogEntry{Course: c, Enrolled: s.isEnrolled(c.CourseID)})
	}
	return out
}

func (s *Student) Enroll(ctx context.Context, courseID string) error {
	if courseID == "" {
		return s.reject(invalid("Select a course to enroll in"))
	}
	if s.IsEnrolled(courseID) {
		return s.reject(invalid("You are already enrolled in this course"))
	}
	return s.mutate(ctx, mutation{
		action:   ActionEnroll,
		fallback: "Failed to enroll",
		success:  "Enrolled successfully!",
		call: func(ctx context.Context) error {
			return s.api.Enroll(ctx, s.user.UserID, courseID)
		},
		refetch: []fetch{s.loadEnrolled(), s.loadActive(), s.loadSummary()},
	})
}

// OpenCourse selects an enrolled course and loads its detail collections.
func (s *Student) OpenCourse(ctx context.Context, courseID string) error {
	s.mu.Lock()
	course, ok := helper.First(s.active, func(e api.Enrollment) bool { return e.CourseID == courseID })
	if !ok {
		course, ok = helper.First(s.enrolled, func(e api.Enrollment) bool { return e.CourseID == courseID })
	}
	if !ok {
		s.mu.Unlock()
		return s.reject(invalid("Course not found in your enrollments"))
	}
	gen := s.course.choose(courseID)
	s.detail = &StudentCourse{Course: course}
	s.submittingFor = ""
	s.tab = TabActive
	s.mu.Unlock()

	s.mount(ctx, s.courseFetches(gen, courseID)...)
	return nil
}

func (s *Student) courseFetches(gen uint64, courseID string) []fetch {
	return []fetch{
		s.loadModules(gen, courseID),
		s.loadAssignments(gen, courseID),
		{"announcements", func(ctx context.Context) error {
			v, err := s.api.StudentAnnouncements(ctx, s.user.UserID, courseID)
			return s.applyDetail(gen, err, func(d *StudentCourse) { d.Announcements = v })
		}},
		{"insights", func(ctx context.Context) error {
			v, err := s.api.StudentInsights(ctx, s.user.UserID, courseID)
			return s.applyDetail(gen, err, func(d *StudentCourse) { d.Insights = v })
		}},
	}
}

func (s *Student) loadModules(gen uint64, courseID string) fetch {
	return fetch{"modules", func(ctx context.Context) error {
		v, err := s.api.StudentModules(ctx, s.user.UserID, courseID)
		if err != nil && gen == s.generation() {
			s.fail(err, "Failed to load course content")
		}
		return s.applyDetail(gen, err, func(d *StudentCourse) { d.Modules = v })
	}}
}

func (s *Student) loadAssignments(gen uint64, courseID string) fetch {
	return fetch{"assignments", func(ctx context.Context) error {
		v, err := s.api.StudentAssignments(ctx, s.user.UserID, courseID)
		if err != nil && gen == s.generation() {
			s.fail(err, "Failed to load assignments")
		}
		return s.applyDetail(gen, err, func(d *StudentCourse) { d.Assignments = v })
	}}
}

func (s *Student) generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.course.gen
}

// applyDetail writes into the open course only if it is still the one the
// fetch was issued for.
func (s *Student) applyDetail(gen uint64, err error, apply func(*StudentCourse)) error {
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.course.current(gen) || s.detail == nil {
		s.log.Debug("discarding stale course response")
		return nil
	}
	apply(s.detail)
	return nil
}

// Back leaves the open course and drops all of its state.
func (s *Student) Back() {
	s.mu.Lock()
	s.course.clear()
	s.detail = nil
	s.submittingFor = ""
	s.mu.Unlock()
}

func (s *Student) StartSubmission(assignmentID string) {
	s.mu.Lock()
	s.submittingFor = assignmentID
	s.mu.Unlock()
}

func (s *Student) CancelSubmission() {
	s.mu.Lock()
	s.submittingFor = ""
	s.mu.Unlock()
}

// CheckSubmission refuses, with a notice, an assignment that is not in the
// open course or already has a submission. It lets an upload be skipped
// for a submission that would be refused anyway.
func (s *Student) CheckSubmission(assignmentID string) error {
	if _, _, err := s.submittable(assignmentID); err != nil {
		return s.reject(err)
	}
	return nil
}

func (s *Student) submittable(assignmentID string) (string, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.detail == nil {
		return "", 0, invalid("Open the course before submitting")
	}
	assignment, found := helper.First(s.detail.Assignments, func(a api.Assignment) bool { return a.AssignmentID == assignmentID })
	if !found {
		return "", 0, invalid("Open the course before submitting")
	}
	if assignment.Submitted() {
		return "", 0, invalid("A solution was already submitted for this assignment")
	}
	return s.detail.Course.CourseID, s.course.gen, nil
}

type submissionDraft struct {
	URL string `validate:"required,url" label:"Solution URL"`
}

// SubmitAssignment posts the one allowed submission for an assignment.
func (s *Student) SubmitAssignment(ctx context.Context, assignmentID, submissionURL string) error {
	submissionURL = strings.TrimSpace(submissionURL)
	if err := helper.ValidateStruct(submissionDraft{URL: submissionURL}); err != nil {
		return s.reject(validationError(err))
	}

	courseID, gen, err := s.submittable(assignmentID)
	if err != nil {
		return s.reject(err)
	}

	return s.mutate(ctx, mutation{
		action:   ActionSubmit,
		fallback: "Failed to submit",
		success:  "Submission successful!",
		call: func(ctx context.Context) error {
			return s.api.SubmitAssignment(ctx, s.user.UserID, assignmentID, submissionURL)
		},
		after:   func() { s.submittingFor = "" },
		refetch: []fetch{s.loadAssignments(gen, courseID)},
	})
}

func (s *Student) EditProfile() {
	s.mu.Lock()
	s.editing = true
	s.mu.Unlock()
}

// CancelEdit leaves edit mode and restores the draft from the last
// loaded profile.
func (s *Student) CancelEdit() {
	s.mu.Lock()
	s.editing = false
	if s.profile != nil {
		s.draft = studentDraftFrom(*s.profile)
	}
	s.mu.Unlock()
}

func (s *Student) UpdateProfile(ctx context.Context, d StudentProfileDraft) error {
	d.Name = strings.TrimSpace(d.Name)
	s.mu.Lock()
	s.draft = d
	s.mu.Unlock()

	if err := helper.ValidateStruct(d); err != nil {
		return s.reject(validationError(err))
	}
	return s.mutate(ctx, mutation{
		action:   ActionUpdateProfile,
		fallback: "Failed to update profile",
		success:  "Profile updated successfully!",
		call: func(ctx context.Context) error {
			return s.api.UpdateStudentProfile(ctx, api.StudentProfileUpdate{
				UserID:      s.user.UserID,
				Name:        d.Name,
				Branch:      d.Branch,
				Country:     d.Country,
				DOB:         d.DOB,
				PhoneNumber: d.PhoneNumber,
			})
		},
		after:   func() { s.editing = false },
		refetch: []fetch{s.loadProfile()},
	})
}

// StudentView is a point-in-time copy of the dashboard for rendering.
type StudentView struct {
	User          state.Session
	Tab           Tab
	Notice        *Notice
	Busy          map[string]bool
	Summary       api.Summary
	Catalog       []CatalogEntry
	Query         string
	Level         string
	Enrolled      []api.Enrollment
	Active        []api.Enrollment
	Completed     []api.Enrollment
	Profile       *api.StudentProfile
	Draft         StudentProfileDraft
	Editing       bool
	Course        *StudentCourse
	SubmittingFor string
}

// AnyGrade reports whether any enrolled course carries a grade.
func (v StudentView) AnyGrade() bool {
	return helper.ContainsFunc(v.Enrolled, func(e api.Enrollment) bool { return helper.Deref(e.Grade) != "" })
}

func (s *Student) View() StudentView {
	busy := s.busySnapshot()
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := StudentView{
		User:          s.user,
		Tab:           s.tab,
		Busy:          busy,
		Summary:       s.summary,
		Catalog:       s.filteredCatalog(),
		Query:         s.query,
		Level:         s.level,
		Enrolled:      append([]api.Enrollment(nil), s.enrolled...),
		Active:        append([]api.Enrollment(nil), s.active...),
		Completed:     append([]api.Enrollment(nil), s.completed...),
		Draft:         s.draft,
		Editing:       s.editing,
		SubmittingFor: s.submittingFor,
	}
	if s.notice != nil {
		n := *s.notice
		v.Notice = &n
	}
	if s.profile != nil {
		p := *s.profile
		v.Profile = &p
	}
	if s.detail != nil {
		d := *s.detail
		v.Course = &d
	}
	return v
}
