package dashboard

import (
	"context"
	"fmt"
	"strings"

	"coursehub/api"
	"coursehub/helper"
	"coursehub/state"

	"go.uber.org/zap"
)

type InstructorAPI interface {
	Summary(ctx context.Context, userID string, role state.Role) (api.Summary, error)
	InstructorCourses(ctx context.Context, instructorID string) ([]api.Course, error)
	InstructorProfile(ctx context.Context, userID string) (api.InstructorProfile, error)
	UpdateInstructorProfile(ctx context.Context, p api.InstructorProfileUpdate) error
	CourseStudents(ctx context.Context, instructorID, courseID string) ([]api.RosterEntry, error)
	GradeStudent(ctx context.Context, in api.GradeInput) error
	RemoveStudent(ctx context.Context, instructorID, courseID, studentID string) error
	InstructorModules(ctx context.Context, instructorID, courseID string) ([]api.Module, error)
	CreateModule(ctx context.Context, in api.ModuleInput) error
	AddModuleContent(ctx context.Context, in api.ContentInput) error
	InstructorAssignments(ctx context.Context, instructorID, courseID string) ([]api.Assignment, error)
	CreateAssignment(ctx context.Context, in api.AssignmentInput) error
	Submissions(ctx context.Context, instructorID, assignmentID string) ([]api.Submission, error)
	GradeSubmission(ctx context.Context, instructorID, submissionID string, marks float64, feedback string) error
	InstructorAnnouncements(ctx context.Context, instructorID, courseID string) ([]api.Announcement, error)
	CreateAnnouncement(ctx context.Context, in api.AnnouncementInput) error
}

const (
	ActionCreateModule      = "create-module"
	ActionAddContent        = "add-content"
	ActionCreateAssignment  = "create-assignment"
	ActionGradeSubmission   = "grade-submission"
	ActionAnnounce          = "announce"
	ActionGradeStudent      = "grade-student"
	ActionRemoveStudent     = "remove-student"
	ActionInstructorProfile = "instructor-profile"
)

type ModuleDraft struct {
	ModuleNumber int    `validate:"required,min=1" label:"Module number"`
	Name         string `validate:"required" label:"Module name"`
	Duration     string
}

type ContentDraft struct {
	ModuleNumber int    `validate:"required,min=1" label:"Module number"`
	Title        string `validate:"required" label:"Content title"`
	Type         string `validate:"oneof=video document quiz" label:"Content type"`
	URL          string `validate:"required,url" label:"Content URL"`
}

type AssignmentDraft struct {
	Title         string `validate:"required" label:"Assignment title"`
	AssignmentURL string `validate:"required,url" label:"Assignment URL"`
	ModuleNumber  *int
	Description   string
	DueDate       string
	MaxMarks      int `validate:"min=1,max=100" label:"Max marks"`
}

type AnnouncementDraft struct {
	Title   string `validate:"required" label:"Announcement title"`
	Content string
}

type GradeDraft struct {
	StudentID string `validate:"required" label:"Student"`
	Grade     string `validate:"required" label:"Grade"`
	Status    string `validate:"oneof=ongoing completed" label:"Status"`
}

type InstructorProfileDraft struct {
	Branch         string
	Specialization string
	HireYear       string
	PhoneNumber    string
}

func newAssignmentDraft() AssignmentDraft { return AssignmentDraft{MaxMarks: api.DefaultMaxMarks} }

func newContentDraft() ContentDraft { return ContentDraft{Type: "video"} }

func newGradeDraft() GradeDraft { return GradeDraft{Status: api.StatusCompleted} }

// InstructorCourse is the drill-down for one taught course.
type InstructorCourse struct {
	Course        api.Course
	Students      []api.RosterEntry
	Modules       []api.Module
	Announcements []api.Announcement
	Assignments   []api.Assignment
}

type Instructor struct {
	base
	api  InstructorAPI
	user state.Session

	summary api.Summary
	courses []api.Course
	profile *api.InstructorProfile
	draft   InstructorProfileDraft
	editing bool

	course    selection
	courseTab CourseTab
	detail    *InstructorCourse

	assignment  selection
	graded      *api.Assignment
	submissions []api.Submission

	moduleDraft       ModuleDraft
	contentDraft      ContentDraft
	assignmentDraft   AssignmentDraft
	announcementDraft AnnouncementDraft
	gradeDraft        GradeDraft
}

func NewInstructor(client InstructorAPI, user state.Session, log *zap.Logger) *Instructor {
	i := &Instructor{
		api:             client,
		user:            user,
		courseTab:       CourseTabModules,
		contentDraft:    newContentDraft(),
		assignmentDraft: newAssignmentDraft(),
		gradeDraft:      newGradeDraft(),
	}
	i.init(log, "instructor", user, TabProfile, TabCourses)
	return i
}

func (i *Instructor) Mount(ctx context.Context) {
	i.mount(ctx, i.loadSummary(), i.loadCourses(), i.loadProfile())
}

func (i *Instructor) loadSummary() fetch {
	return fetch{"summary", func(ctx context.Context) error {
		v, err := i.api.Summary(ctx, i.user.UserID, i.user.Role)
		if err != nil {
			return err
		}
		i.mu.Lock()
		i.summary = v
		i.mu.Unlock()
		return nil
	}}
}

func (i *Instructor) loadCourses() fetch {
	return fetch{"courses", func(ctx context.Context) error {
		v, err := i.api.InstructorCourses(ctx, i.user.UserID)
		if err != nil {
			return err
		}
		i.mu.Lock()
		i.courses = v
		i.mu.Unlock()
		return nil
	}}
}

func (i *Instructor) loadProfile() fetch {
	return fetch{"profile", func(ctx context.Context) error {
		v, err := i.api.InstructorProfile(ctx, i.user.UserID)
		if err != nil {
			return err
		}
		i.mu.Lock()
		i.profile = &v
		i.draft = instructorDraftFrom(v)
		i.mu.Unlock()
		return nil
	}}
}

func instructorDraftFrom(p api.InstructorProfile) InstructorProfileDraft {
	d := InstructorProfileDraft{
		Branch:         p.Branch,
		Specialization: p.Specialization,
		PhoneNumber:    p.PhoneNumber,
	}
	if p.HireYear != nil {
		d.HireYear = fmt.Sprint(*p.HireYear)
	}
	return d
}

func (i *Instructor) SetTab(t Tab) bool { return i.setTab(t) }

// TotalStudents sums enrollment across the instructor's courses.
func (i *Instructor) TotalStudents() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return totalStudents(i.courses)
}

func totalStudents(courses []api.Course) int {
	n := 0
	for _, c := range courses {
		n += c.EnrolledCount
	}
	return n
}

// OpenCourse selects a taught course and loads roster, modules,
// announcements and assignments.
func (i *Instructor) OpenCourse(ctx context.Context, courseID string) error {
	i.mu.Lock()
	course, ok := helper.First(i.courses, func(c api.Course) bool { return c.CourseID == courseID })
	if !ok {
		i.mu.Unlock()
		return i.reject(invalid("Course not found"))
	}
	gen := i.course.choose(courseID)
	i.detail = &InstructorCourse{Course: course}
	i.assignment.clear()
	i.graded = nil
	i.submissions = nil
	i.tab = TabCourses
	i.mu.Unlock()

	i.mount(ctx,
		i.loadStudents(gen, courseID),
		i.loadModules(gen, courseID),
		i.loadAnnouncements(gen, courseID),
		i.loadAssignments(gen, courseID),
	)
	return nil
}

// CloseCourse drops the selected course and everything loaded for it.
func (i *Instructor) CloseCourse() {
	i.mu.Lock()
	i.course.clear()
	i.detail = nil
	i.assignment.clear()
	i.graded = nil
	i.submissions = nil
	i.mu.Unlock()
}

func (i *Instructor) SetCourseTab(t CourseTab) {
	switch t {
	case CourseTabAnnouncements, CourseTabModules, CourseTabContent, CourseTabAssignments, CourseTabStudents:
	default:
		return
	}
	i.mu.Lock()
	i.courseTab = t
	i.mu.Unlock()
}

func (i *Instructor) applyCourse(gen uint64, err error, apply func(*InstructorCourse)) error {
	if err != nil {
		return err
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.course.current(gen) || i.detail == nil {
		i.log.Debug("discarding stale course response")
		return nil
	}
	apply(i.detail)
	return nil
}

func (i *Instructor) loadStudents(gen uint64, courseID string) fetch {
	return fetch{"students", func(ctx context.Context) error {
		v, err := i.api.CourseStudents(ctx, i.user.UserID, courseID)
		if err != nil && i.isCurrentCourse(gen) {
			i.fail(err, "Failed to load students")
		}
		return i.applyCourse(gen, err, func(c *InstructorCourse) { c.Students = v })
	}}
}

func (i *Instructor) loadModules(gen uint64, courseID string) fetch {
	return fetch{"modules", func(ctx context.Context) error {
		v, err := i.api.InstructorModules(ctx, i.user.UserID, courseID)
		return i.applyCourse(gen, err, func(c *InstructorCourse) { c.Modules = v })
	}}
}

func (i *Instructor) loadAnnouncements(gen uint64, courseID string) fetch {
	return fetch{"announcements", func(ctx context.Context) error {
		v, err := i.api.InstructorAnnouncements(ctx, i.user.UserID, courseID)
		return i.applyCourse(gen, err, func(c *InstructorCourse) { c.Announcements = v })
	}}
}

func (i *Instructor) loadAssignments(gen uint64, courseID string) fetch {
	return fetch{"assignments", func(ctx context.Context) error {
		v, err := i.api.InstructorAssignments(ctx, i.user.UserID, courseID)
		return i.applyCourse(gen, err, func(c *InstructorCourse) { c.Assignments = v })
	}}
}

func (i *Instructor) isCurrentCourse(gen uint64) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.course.current(gen)
}

// selected returns the open course id and its generation, or a
// validation error when no course is open.
func (i *Instructor) selected() (string, uint64, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.detail == nil || i.course.id == "" {
		return "", 0, invalid("Please select a course first")
	}
	return i.course.id, i.course.gen, nil
}

func (i *Instructor) CreateModule(ctx context.Context, d ModuleDraft) error {
	d.Name = strings.TrimSpace(d.Name)
	i.mu.Lock()
	i.moduleDraft = d
	i.mu.Unlock()

	courseID, gen, err := i.selected()
	if err != nil {
		return i.reject(err)
	}
	if err := helper.ValidateStruct(d); err != nil {
		return i.reject(validationError(err))
	}
	return i.mutate(ctx, mutation{
		action:   ActionCreateModule,
		fallback: "Failed to create module",
		success:  "Module created successfully!",
		call: func(ctx context.Context) error {
			return i.api.CreateModule(ctx, api.ModuleInput{
				InstructorID: i.user.UserID,
				CourseID:     courseID,
				ModuleNumber: d.ModuleNumber,
				Name:         d.Name,
				Duration:     strings.TrimSpace(d.Duration),
			})
		},
		after:   func() { i.moduleDraft = ModuleDraft{} },
		refetch: []fetch{i.loadModules(gen, courseID)},
	})
}

func (i *Instructor) AddContent(ctx context.Context, d ContentDraft) error {
	d.Title = strings.TrimSpace(d.Title)
	d.URL = strings.TrimSpace(d.URL)
	i.mu.Lock()
	i.contentDraft = d
	i.mu.Unlock()

	courseID, gen, err := i.selected()
	if err != nil {
		return i.reject(err)
	}
	if err := helper.ValidateStruct(d); err != nil {
		return i.reject(validationError(err))
	}
	return i.mutate(ctx, mutation{
		action:   ActionAddContent,
		fallback: "Failed to add content",
		success:  "Content added successfully!",
		call: func(ctx context.Context) error {
			return i.api.AddModuleContent(ctx, api.ContentInput{
				InstructorID: i.user.UserID,
				CourseID:     courseID,
				ModuleNumber: d.ModuleNumber,
				Title:        d.Title,
				Type:         d.Type,
				URL:          d.URL,
			})
		},
		after:   func() { i.contentDraft = newContentDraft() },
		refetch: []fetch{i.loadModules(gen, courseID)},
	})
}

func (i *Instructor) CreateAssignment(ctx context.Context, d AssignmentDraft) error {
	d.Title = strings.TrimSpace(d.Title)
	d.AssignmentURL = strings.TrimSpace(d.AssignmentURL)
	if d.MaxMarks == 0 {
		d.MaxMarks = api.DefaultMaxMarks
	}
	i.mu.Lock()
	i.assignmentDraft = d
	i.mu.Unlock()

	courseID, gen, err := i.selected()
	if err != nil {
		return i.reject(err)
	}
	if err := helper.ValidateStruct(d); err != nil {
		return i.reject(validationError(err))
	}
	return i.mutate(ctx, mutation{
		action:   ActionCreateAssignment,
		fallback: "Failed to create assignment",
		success:  "Assignment created successfully!",
		call: func(ctx context.Context) error {
			return i.api.CreateAssignment(ctx, api.AssignmentInput{
				InstructorID:  i.user.UserID,
				CourseID:      courseID,
				Title:         d.Title,
				AssignmentURL: d.AssignmentURL,
				ModuleNumber:  d.ModuleNumber,
				Description:   strings.TrimSpace(d.Description),
				DueDate:       d.DueDate,
				MaxMarks:      d.MaxMarks,
			})
		},
		after:   func() { i.assignmentDraft = newAssignmentDraft() },
		refetch: []fetch{i.loadAssignments(gen, courseID), i.loadSummary()},
	})
}

// OpenSubmissions drills into one assignment of the open course.
func (i *Instructor) OpenSubmissions(ctx context.Context, assignmentID string) error {
	i.mu.Lock()
	if i.detail == nil {
		i.mu.Unlock()
		return i.reject(invalid("Please select a course first"))
	}
	a, ok := helper.First(i.detail.Assignments, func(a api.Assignment) bool { return a.AssignmentID == assignmentID })
	if !ok {
		i.mu.Unlock()
		return i.reject(invalid("Assignment not found"))
	}
	gen := i.assignment.choose(assignmentID)
	i.graded = &a
	i.submissions = nil
	i.courseTab = CourseTabAssignments
	i.mu.Unlock()

	i.mount(ctx, i.loadSubmissions(gen, assignmentID))
	return nil
}

func (i *Instructor) loadSubmissions(gen uint64, assignmentID string) fetch {
	return fetch{"submissions", func(ctx context.Context) error {
		v, err := i.api.Submissions(ctx, i.user.UserID, assignmentID)
		i.mu.Lock()
		current := i.assignment.current(gen)
		if err == nil && current {
			i.submissions = v
		}
		i.mu.Unlock()
		if err != nil && current {
			i.fail(err, "Failed to load submissions")
		}
		return err
	}}
}

func (i *Instructor) CloseSubmissions() {
	i.mu.Lock()
	i.assignment.clear()
	i.graded = nil
	i.submissions = nil
	i.mu.Unlock()
}

// GradeSubmission rejects marks outside [0, max_marks] before any call.
func (i *Instructor) GradeSubmission(ctx context.Context, submissionID string, marks float64, feedback string) error {
	i.mu.RLock()
	gen := i.assignment.gen
	assignmentID := i.assignment.id
	sub, found := helper.First(i.submissions, func(s api.Submission) bool { return s.SubmissionID == submissionID })
	assignmentMax := 0
	if i.graded != nil {
		assignmentMax = i.graded.MaxMarks
	}
	i.mu.RUnlock()

	if !found {
		return i.reject(invalid("Submission not found"))
	}
	maxMarks := sub.MarksBound(assignmentMax)
	if err := helper.ValidateVar(marks, fmt.Sprintf("gte=0,lte=%d", maxMarks)); err != nil {
		return i.reject(invalid("Marks must be between 0 and %d", maxMarks))
	}

	return i.mutate(ctx, mutation{
		action:   ActionGradeSubmission,
		fallback: "Failed to grade submission",
		success:  "Submission graded successfully!",
		call: func(ctx context.Context) error {
			return i.api.GradeSubmission(ctx, i.user.UserID, submissionID, marks, strings.TrimSpace(feedback))
		},
		refetch: []fetch{i.loadSubmissions(gen, assignmentID)},
	})
}

func (i *Instructor) CreateAnnouncement(ctx context.Context, d AnnouncementDraft) error {
	d.Title = strings.TrimSpace(d.Title)
	d.Content = strings.TrimSpace(d.Content)
	i.mu.Lock()
	i.announcementDraft = d
	i.mu.Unlock()

	courseID, gen, err := i.selected()
	if err != nil {
		return i.reject(err)
	}
	if err := helper.ValidateStruct(d); err != nil {
		return i.reject(validationError(err))
	}
	return i.mutate(ctx, mutation{
		action:   ActionAnnounce,
		fallback: "Failed to create announcement",
		success:  "Announcement posted!",
		call: func(ctx context.Context) error {
			return i.api.CreateAnnouncement(ctx, api.AnnouncementInput{
				InstructorID: i.user.UserID,
				CourseID:     courseID,
				Title:        d.Title,
				Content:      d.Content,
			})
		},
		after:   func() { i.announcementDraft = AnnouncementDraft{} },
		refetch: []fetch{i.loadAnnouncements(gen, courseID)},
	})
}

func (i *Instructor) GradeStudent(ctx context.Context, d GradeDraft) error {
	d.Grade = strings.TrimSpace(d.Grade)
	if d.Status == "" {
		d.Status = api.StatusCompleted
	}
	i.mu.Lock()
	i.gradeDraft = d
	i.mu.Unlock()

	courseID, gen, err := i.selected()
	if err != nil {
		return i.reject(err)
	}
	if err := helper.ValidateStruct(d); err != nil {
		return i.reject(validationError(err))
	}
	return i.mutate(ctx, mutation{
		action:   ActionGradeStudent,
		fallback: "Failed to grade student",
		success:  "Student graded successfully!",
		call: func(ctx context.Context) error {
			return i.api.GradeStudent(ctx, api.GradeInput{
				InstructorID: i.user.UserID,
				CourseID:     courseID,
				StudentID:    d.StudentID,
				Grade:        d.Grade,
				Status:       d.Status,
			})
		},
		after:   func() { i.gradeDraft = newGradeDraft() },
		refetch: []fetch{i.loadStudents(gen, courseID), i.loadSummary()},
	})
}

func (i *Instructor) RemoveStudent(ctx context.Context, studentID string) error {
	courseID, gen, err := i.selected()
	if err != nil {
		return i.reject(err)
	}
	if studentID == "" {
		return i.reject(invalid("Select a student to remove"))
	}
	return i.mutate(ctx, mutation{
		action:   ActionRemoveStudent,
		fallback: "Failed to remove student",
		success:  "Student removed from course",
		call: func(ctx context.Context) error {
			return i.api.RemoveStudent(ctx, i.user.UserID, courseID, studentID)
		},
		refetch: []fetch{i.loadStudents(gen, courseID), i.loadSummary()},
	})
}

// MailAllLink builds the compose link for every enrolled student. No
// request is made.
func (i *Instructor) MailAllLink() (string, error) {
	i.mu.RLock()
	var students []api.RosterEntry
	title := "Course"
	if i.detail != nil {
		students = i.detail.Students
		if i.detail.Course.Title != "" {
			title = i.detail.Course.Title
		}
	}
	i.mu.RUnlock()

	if len(students) == 0 {
		err := invalid("No students enrolled in this course.")
		i.inform(err.Message)
		return "", err
	}
	link, ok := helper.MailAllLink(title, helper.Map(students, func(s api.RosterEntry) string { return s.Email }))
	if !ok {
		err := invalid("No student emails available.")
		i.inform(err.Message)
		return "", err
	}
	return link, nil
}

func (i *Instructor) EditProfile() {
	i.mu.Lock()
	i.editing = true
	i.mu.Unlock()
}

func (i *Instructor) CancelEdit() {
	i.mu.Lock()
	i.editing = false
	if i.profile != nil {
		i.draft = instructorDraftFrom(*i.profile)
	}
	i.mu.Unlock()
}

func (i *Instructor) UpdateProfile(ctx context.Context, d InstructorProfileDraft) error {
	i.mu.Lock()
	i.draft = d
	i.mu.Unlock()

	hireYear, err := helper.OptionalInt(d.HireYear)
	if err != nil {
		return i.reject(invalid("Hire year must be a year, got %q", d.HireYear))
	}
	return i.mutate(ctx, mutation{
		action:   ActionInstructorProfile,
		fallback: "Failed to update profile",
		success:  "Profile updated successfully",
		call: func(ctx context.Context) error {
			return i.api.UpdateInstructorProfile(ctx, api.InstructorProfileUpdate{
				UserID:         i.user.UserID,
				Branch:         strings.TrimSpace(d.Branch),
				Specialization: strings.TrimSpace(d.Specialization),
				HireYear:       hireYear,
				PhoneNumber:    strings.TrimSpace(d.PhoneNumber),
			})
		},
		after:   func() { i.editing = false },
		refetch: []fetch{i.loadProfile()},
	})
}

type InstructorView struct {
	User              state.Session
	Tab               Tab
	Notice            *Notice
	Busy              map[string]bool
	Summary           api.Summary
	Courses           []api.Course
	TotalStudents     int
	Profile           *api.InstructorProfile
	Draft             InstructorProfileDraft
	Editing           bool
	Course            *InstructorCourse
	CourseTab         CourseTab
	Assignment        *api.Assignment
	Submissions       []api.Submission
	ModuleDraft       ModuleDraft
	ContentDraft      ContentDraft
	AssignmentDraft   AssignmentDraft
	AnnouncementDraft AnnouncementDraft
	GradeDraft        GradeDraft
}

func (i *Instructor) View() InstructorView {
	busy := i.busySnapshot()
	i.mu.RLock()
	defer i.mu.RUnlock()

	v := InstructorView{
		User:              i.user,
		Tab:               i.tab,
		Busy:              busy,
		Summary:           i.summary,
		Courses:           append([]api.Course(nil), i.courses...),
		TotalStudents:     totalStudents(i.courses),
		Draft:             i.draft,
		Editing:           i.editing,
		CourseTab:         i.courseTab,
		Submissions:       append([]api.Submission(nil), i.submissions...),
		ModuleDraft:       i.moduleDraft,
		ContentDraft:      i.contentDraft,
		AssignmentDraft:   i.assignmentDraft,
		AnnouncementDraft: i.announcementDraft,
		GradeDraft:        i.gradeDraft,
	}
	if i.notice != nil {
		n := *i.notice
		v.Notice = &n
	}
	if i.profile != nil {
		p := *i.profile
		v.Profile = &p
	}
	if i.detail != nil {
		d := *i.detail
		v.Course = &d
	}
	if i.graded != nil {
		a := *i.graded
		v.Assignment = &a
	}
	return v
}
