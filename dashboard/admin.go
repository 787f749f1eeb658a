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

type AdminAPI interface {
	Summary(ctx context.Context, userID string, role state.Role) (api.Summary, error)
	Users(ctx context.Context) ([]api.AdminUser, error)
	ApproveUser(ctx context.Context, userID string) error
	DeleteUser(ctx context.Context, userID string) error
	AdminCourses(ctx context.Context) ([]api.Course, error)
	CreateCourse(ctx context.Context, in api.CourseInput) error
	UpdateCourse(ctx context.Context, courseID string, in api.CourseInput) error
	DeleteCourse(ctx context.Context, adminID, courseID string) error
	Instructors(ctx context.Context) ([]api.Instructor, error)
	AssignInstructor(ctx context.Context, instructorID, courseID string) error
	CourseInstructors(ctx context.Context, adminID, courseID string) ([]api.Instructor, error)
	RemoveCourseInstructor(ctx context.Context, adminID, courseID, instructorID string) error
}

const (
	ActionApprove          = "approve"
	ActionDeleteUser       = "delete-user"
	ActionCreateCourse     = "create-course"
	ActionUpdateCourse     = "update-course"
	ActionDeleteCourse     = "delete-course"
	ActionRemoveInstructor = "remove-instructor"
	ActionAssign           = "assign"
)

// CourseDraft is the course form. Fees and ranking stay text until
// submitted so a half-typed value survives a re-render.
type CourseDraft struct {
	Title             string `validate:"required" label:"Course title"`
	Duration          string
	Level             string `validate:"oneof=beginner intermediate advanced" label:"Level"`
	Description       string
	Fees              string
	UniversityName    string `validate:"required" label:"University name"`
	UniversityRanking string
}

func newCourseDraft() CourseDraft { return CourseDraft{Level: Levels[0]} }

func courseDraftFrom(c api.Course) CourseDraft {
	d := CourseDraft{
		Title:          c.Title,
		Duration:       c.Duration,
		Level:          strings.ToLower(c.Level),
		Description:    c.Description,
		UniversityName: c.UniversityName,
	}
	if !helper.Contains(Levels, d.Level) {
		d.Level = Levels[0]
	}
	if c.Fees != nil {
		d.Fees = fmt.Sprint(c.Fees.Float())
	}
	if c.UniversityRanking != nil {
		d.UniversityRanking = fmt.Sprint(*c.UniversityRanking)
	}
	return d
}

// input validates the draft and converts it to the request body.
func (d CourseDraft) input(adminID string) (api.CourseInput, error) {
	d.Title = strings.TrimSpace(d.Title)
	d.UniversityName = strings.TrimSpace(d.UniversityName)
	if err := helper.ValidateStruct(d); err != nil {
		return api.CourseInput{}, validationError(err)
	}
	fees, err := helper.OptionalFloat(d.Fees)
	if err != nil {
		return api.CourseInput{}, invalid("Fees must be a number")
	}
	ranking, err := helper.OptionalInt(d.UniversityRanking)
	if err != nil {
		return api.CourseInput{}, invalid("University ranking must be a whole number")
	}
	in := api.CourseInput{
		AdminUserID:       adminID,
		Title:             d.Title,
		Duration:          strings.TrimSpace(d.Duration),
		Level:             d.Level,
		Description:       strings.TrimSpace(d.Description),
		UniversityName:    d.UniversityName,
		UniversityRanking: ranking,
	}
	if fees != nil {
		in.Fees = api.NewNumber(*fees)
	}
	return in, nil
}

type Admin struct {
	base
	api  AdminAPI
	user state.Session

	summary     api.Summary
	users       []api.AdminUser
	courses     []api.Course
	instructors []api.Instructor

	draft    CourseDraft
	creating bool

	edit              selection
	editDraft         CourseDraft
	courseInstructors []api.Instructor

	instructorQuery    string
	courseQuery        string
	assignInstructorID string
	assignCourseID     string
}

func NewAdmin(client AdminAPI, user state.Session, log *zap.Logger) *Admin {
	a := &Admin{api: client, user: user, draft: newCourseDraft()}
	a.init(log, "admin", user, TabUsers, TabPending, TabCourses, TabAssign)
	return a
}

func (a *Admin) Mount(ctx context.Context) {
	a.mount(ctx, a.loadSummary(), a.loadUsers(), a.loadCourses(), a.loadInstructors())
}

func (a *Admin) loadSummary() fetch {
	return fetch{"summary", func(ctx context.Context) error {
		v, err := a.api.Summary(ctx, a.user.UserID, a.user.Role)
		if err != nil {
			return err
		}
		a.mu.Lock()
		a.summary = v
		a.mu.Unlock()
		return nil
	}}
}

func (a *Admin) loadUsers() fetch {
	return fetch{"users", func(ctx context.Context) error {
		v, err := a.api.Users(ctx)
		if err != nil {
			return err
		}
		a.mu.Lock()
		a.users = v
		a.mu.Unlock()
		return nil
	}}
}

func (a *Admin) loadCourses() fetch {
	return fetch{"courses", func(ctx context.Context) error {
		v, err := a.api.AdminCourses(ctx)
		if err != nil {
			return err
		}
		a.mu.Lock()
		a.courses = v
		a.mu.Unlock()
		return nil
	}}
}

func (a *Admin) loadInstructors() fetch {
	return fetch{"instructors", func(ctx context.Context) error {
		v, err := a.api.Instructors(ctx)
		if err != nil {
			return err
		}
		a.mu.Lock()
		a.instructors = v
		a.mu.Unlock()
		return nil
	}}
}

func (a *Admin) loadCourseInstructors(gen uint64, courseID string) fetch {
	return fetch{"course_instructors", func(ctx context.Context) error {
		v, err := a.api.CourseInstructors(ctx, a.user.UserID, courseID)
		if err != nil {
			return err
		}
		a.mu.Lock()
		defer a.mu.Unlock()
		if !a.edit.current(gen) {
			a.log.Debug("discarding stale course instructors")
			return nil
		}
		a.courseInstructors = v
		return nil
	}}
}

func (a *Admin) SetTab(t Tab) bool { return a.setTab(t) }

// Pending lists users still waiting for approval.
func (a *Admin) Pending() []api.AdminUser {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return pending(a.users)
}

func pending(users []api.AdminUser) []api.AdminUser {
	return helper.Filter(users, func(u api.AdminUser) bool { return !u.Approved })
}

func (a *Admin) ApproveUser(ctx context.Context, userID string) error {
	if userID == "" {
		return a.reject(invalid("Select a user to approve"))
	}
	return a.mutate(ctx, mutation{
		action:   ActionApprove,
		fallback: "Failed to approve user",
		success:  "User approved",
		call:     func(ctx context.Context) error { return a.api.ApproveUser(ctx, userID) },
		refetch:  []fetch{a.loadUsers()},
	})
}

func (a *Admin) DeleteUser(ctx context.Context, userID string) error {
	if userID == "" {
		return a.reject(invalid("Select a user to delete"))
	}
	if userID == a.user.UserID {
		return a.reject(invalid("You cannot delete your own account"))
	}
	return a.mutate(ctx, mutation{
		action:   ActionDeleteUser,
		fallback: "Failed to delete user",
		success:  "User deleted",
		call:     func(ctx context.Context) error { return a.api.DeleteUser(ctx, userID) },
		refetch:  []fetch{a.loadUsers(), a.loadSummary()},
	})
}

// ShowCreate toggles the new-course form.
func (a *Admin) ShowCreate(open bool) {
	a.mu.Lock()
	a.creating = open
	if !open {
		a.draft = newCourseDraft()
	}
	a.mu.Unlock()
}

func (a *Admin) CreateCourse(ctx context.Context, d CourseDraft) error {
	a.mu.Lock()
	a.draft = d
	a.mu.Unlock()

	in, err := d.input(a.user.UserID)
	if err != nil {
		return a.reject(err)
	}
	return a.mutate(ctx, mutation{
		action:   ActionCreateCourse,
		fallback: "Failed to create course",
		success:  "Course created successfully!",
		call:     func(ctx context.Context) error { return a.api.CreateCourse(ctx, in) },
		after: func() {
			a.draft = newCourseDraft()
			a.creating = false
		},
		refetch: []fetch{a.loadCourses(), a.loadSummary()},
	})
}

// OpenCourse starts editing a course: the draft is prefilled and its
// assigned instructors are loaded.
func (a *Admin) OpenCourse(ctx context.Context, courseID string) error {
	a.mu.Lock()
	c, ok := helper.First(a.courses, func(c api.Course) bool { return c.CourseID == courseID })
	if !ok {
		a.mu.Unlock()
		return a.reject(invalid("Course not found"))
	}
	gen := a.edit.choose(courseID)
	a.editDraft = courseDraftFrom(c)
	a.courseInstructors = nil
	a.tab = TabCourses
	a.mu.Unlock()

	a.mount(ctx, a.loadCourseInstructors(gen, courseID))
	return nil
}

func (a *Admin) CloseCourse() {
	a.mu.Lock()
	a.closeCourse()
	a.mu.Unlock()
}

func (a *Admin) closeCourse() {
	a.edit.clear()
	a.editDraft = CourseDraft{}
	a.courseInstructors = nil
}

func (a *Admin) editing() (string, uint64, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.edit.id == "" {
		return "", 0, invalid("Select a course to edit")
	}
	return a.edit.id, a.edit.gen, nil
}

func (a *Admin) UpdateCourse(ctx context.Context, d CourseDraft) error {
	courseID, _, err := a.editing()
	if err != nil {
		return a.reject(err)
	}
	a.mu.Lock()
	a.editDraft = d
	a.mu.Unlock()

	in, err := d.input(a.user.UserID)
	if err != nil {
		return a.reject(err)
	}
	return a.mutate(ctx, mutation{
		action:   ActionUpdateCourse,
		fallback: "Failed to update course",
		success:  "Course updated successfully!",
		call:     func(ctx context.Context) error { return a.api.UpdateCourse(ctx, courseID, in) },
		after:    a.closeCourse,
		refetch:  []fetch{a.loadCourses(), a.loadSummary()},
	})
}

func (a *Admin) DeleteCourse(ctx context.Context, courseID string) error {
	if courseID == "" {
		return a.reject(invalid("Select a course to delete"))
	}
	return a.mutate(ctx, mutation{
		action:   ActionDeleteCourse,
		fallback: "Failed to delete course",
		success:  "Course deleted",
		call:     func(ctx context.Context) error { return a.api.DeleteCourse(ctx, a.user.UserID, courseID) },
		after: func() {
			if a.edit.id == courseID {
				a.closeCourse()
			}
		},
		refetch: []fetch{a.loadCourses(), a.loadSummary()},
	})
}

func (a *Admin) RemoveCourseInstructor(ctx context.Context, instructorID string) error {
	courseID, gen, err := a.editing()
	if err != nil {
		return a.reject(err)
	}
	if instructorID == "" {
		return a.reject(invalid("Select an instructor to remove"))
	}
	return a.mutate(ctx, mutation{
		action:   ActionRemoveInstructor,
		fallback: "Failed to remove instructor",
		success:  "Instructor removed from course",
		call: func(ctx context.Context) error {
			return a.api.RemoveCourseInstructor(ctx, a.user.UserID, courseID, instructorID)
		},
		refetch: []fetch{a.loadCourseInstructors(gen, courseID), a.loadCourses()},
	})
}

// FilterInstructors sets the instructor picker query and returns matches
// on name, branch or phone.
func (a *Admin) FilterInstructors(query string) []api.Instructor {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.instructorQuery = query
	return filterInstructors(a.instructors, query)
}

func filterInstructors(v []api.Instructor, query string) []api.Instructor {
	return helper.Filter(v, func(i api.Instructor) bool {
		return helper.Matches(query, i.Name, i.Branch, i.PhoneNumber)
	})
}

// FilterCourses sets the course picker query and returns matches on
// title, university or instructor names.
func (a *Admin) FilterCourses(query string) []api.Course {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.courseQuery = query
	return filterCourses(a.courses, query)
}

func filterCourses(v []api.Course, query string) []api.Course {
	return helper.Filter(v, func(c api.Course) bool {
		return helper.Matches(query, c.Title, c.UniversityName, c.InstructorNames)
	})
}

// PickInstructor and PickCourse hold the picker selections between
// requests.
func (a *Admin) PickInstructor(id string) {
	a.mu.Lock()
	a.assignInstructorID = id
	a.mu.Unlock()
}

func (a *Admin) PickCourse(id string) {
	a.mu.Lock()
	a.assignCourseID = id
	a.mu.Unlock()
}

type assignDraft struct {
	InstructorID string `validate:"required" label:"Instructor"`
	CourseID     string `validate:"required" label:"Course"`
}

func (a *Admin) AssignInstructor(ctx context.Context, instructorID, courseID string) error {
	a.mu.Lock()
	a.assignInstructorID = instructorID
	a.assignCourseID = courseID
	a.mu.Unlock()

	if err := helper.ValidateStruct(assignDraft{instructorID, courseID}); err != nil {
		return a.reject(invalid("Please select both an instructor and a course"))
	}
	return a.mutate(ctx, mutation{
		action:   ActionAssign,
		fallback: "Failed to assign instructor",
		success:  "Instructor assigned successfully!",
		call:     func(ctx context.Context) error { return a.api.AssignInstructor(ctx, instructorID, courseID) },
		after: func() {
			a.assignInstructorID = ""
			a.assignCourseID = ""
		},
		refetch: []fetch{a.loadCourses()},
	})
}

type AdminView struct {
	User               state.Session
	Tab                Tab
	Notice             *Notice
	Busy               map[string]bool
	Summary            api.Summary
	Users              []api.AdminUser
	Pending            []api.AdminUser
	Courses            []api.Course
	Instructors        []api.Instructor
	Draft              CourseDraft
	Creating           bool
	EditingID          string
	EditDraft          CourseDraft
	CourseInstructors  []api.Instructor
	InstructorQuery    string
	CourseQuery        string
	PickerInstructors  []api.Instructor
	PickerCourses      []api.Course
	AssignInstructorID string
	AssignCourseID     string
}

func (a *Admin) View() AdminView {
	busy := a.busySnapshot()
	a.mu.RLock()
	defer a.mu.RUnlock()

	v := AdminView{
		User:               a.user,
		Tab:                a.tab,
		Busy:               busy,
		Summary:            a.summary,
		Users:              append([]api.AdminUser(nil), a.users...),
		Pending:            pending(a.users),
		Courses:            append([]api.Course(nil), a.courses...),
		Instructors:        append([]api.Instructor(nil), a.instructors...),
		Draft:              a.draft,
		Creating:           a.creating,
		EditingID:          a.edit.id,
		EditDraft:          a.editDraft,
		CourseInstructors:  append([]api.Instructor(nil), a.courseInstructors...),
		InstructorQuery:    a.instructorQuery,
		CourseQuery:        a.courseQuery,
		PickerInstructors:  filterInstructors(a.instructors, a.instructorQuery),
		PickerCourses:      filterCourses(a.courses, a.courseQuery),
		AssignInstructorID: a.assignInstructorID,
		AssignCourseID:     a.assignCourseID,
	}
	if a.notice != nil {
		n := *a.notice
		v.Notice = &n
	}
	return v
}
