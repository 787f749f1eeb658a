package dashboard

import (
	"context"
	"sync"

	"coursehub/api"
	"coursehub/state"
)

// fakeAPI serves canned data for every dashboard and counts calls by
// method name. errs forces a method to fail.
type fakeAPI struct {
	mu    sync.Mutex
	calls map[string]int
	errs  map[string]error
	hooks map[string]func(args ...string)

	summary     api.Summary
	catalog     []api.Course
	mine        map[string][]api.Enrollment
	modules     map[string][]api.Module
	assignments map[string][]api.Assignment
	courses     []api.Course
	roster      []api.RosterEntry
	submissions []api.Submission
	users       []api.AdminUser
	instructors []api.Instructor
	stats       map[string]api.CourseStats
	insights    map[string][]api.Insight

	lastModule   api.ModuleInput
	lastAssign   api.AssignmentInput
	lastGrade    api.GradeInput
	lastCourse   api.CourseInput
	lastInsight  api.InsightInput
	gradedMarks  float64
	enrolledWith string
}

func newFake() *fakeAPI {
	return &fakeAPI{
		calls:       map[string]int{},
		errs:        map[string]error{},
		hooks:       map[string]func(args ...string){},
		mine:        map[string][]api.Enrollment{},
		modules:     map[string][]api.Module{},
		assignments: map[string][]api.Assignment{},
		stats:       map[string]api.CourseStats{},
		insights:    map[string][]api.Insight{},
	}
}

func (f *fakeAPI) hit(name string, args ...string) error {
	f.mu.Lock()
	f.calls[name]++
	err := f.errs[name]
	hook := f.hooks[name]
	f.mu.Unlock()
	if hook != nil {
		hook(args...)
	}
	return err
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) fail(name string, err error) {
	f.mu.Lock()
	f.errs[name] = err
	f.mu.Unlock()
}

func (f *fakeAPI) Summary(ctx context.Context, userID string, role state.Role) (api.Summary, error) {
	return f.summary, f.hit("Summary")
}

func (f *fakeAPI) Courses(ctx context.Context) ([]api.Course, error) {
	return f.catalog, f.hit("Courses")
}

func (f *fakeAPI) Enroll(ctx context.Context, userID, courseID string) error {
	f.enrolledWith = courseID
	return f.hit("Enroll")
}

func (f *fakeAPI) MyCourses(ctx context.Context, userID, status string) ([]api.Enrollment, error) {
	err := f.hit("MyCourses:" + status)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mine[status], err
}

func (f *fakeAPI) StudentProfile(ctx context.Context, userID string) (api.StudentProfile, error) {
	return api.StudentProfile{Name: "Ada"}, f.hit("StudentProfile")
}

func (f *fakeAPI) UpdateStudentProfile(ctx context.Context, p api.StudentProfileUpdate) error {
	return f.hit("UpdateStudentProfile")
}

func (f *fakeAPI) StudentModules(ctx context.Context, userID, courseID string) ([]api.Module, error) {
	err := f.hit("StudentModules", courseID)
	return f.modules[courseID], err
}

func (f *fakeAPI) StudentAssignments(ctx context.Context, userID, courseID string) ([]api.Assignment, error) {
	err := f.hit("StudentAssignments", courseID)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.assignments[courseID], err
}

func (f *fakeAPI) StudentAnnouncements(ctx context.Context, userID, courseID string) ([]api.Announcement, error) {
	return nil, f.hit("StudentAnnouncements", courseID)
}

func (f *fakeAPI) StudentInsights(ctx context.Context, userID, courseID string) ([]api.Insight, error) {
	return nil, f.hit("StudentInsights", courseID)
}

func (f *fakeAPI) SubmitAssignment(ctx context.Context, studentID, assignmentID, submissionURL string) error {
	return f.hit("SubmitAssignment", assignmentID)
}

func (f *fakeAPI) InstructorCourses(ctx context.Context, instructorID string) ([]api.Course, error) {
	return f.courses, f.hit("InstructorCourses")
}

func (f *fakeAPI) InstructorProfile(ctx context.Context, userID string) (api.InstructorProfile, error) {
	return api.InstructorProfile{Name: "Grace"}, f.hit("InstructorProfile")
}

func (f *fakeAPI) UpdateInstructorProfile(ctx context.Context, p api.InstructorProfileUpdate) error {
	return f.hit("UpdateInstructorProfile")
}

func (f *fakeAPI) CourseStudents(ctx context.Context, instructorID, courseID string) ([]api.RosterEntry, error) {
	err := f.hit("CourseStudents", courseID)
	return f.roster, err
}

func (f *fakeAPI) GradeStudent(ctx context.Context, in api.GradeInput) error {
	f.lastGrade = in
	return f.hit("GradeStudent")
}

func (f *fakeAPI) RemoveStudent(ctx context.Context, instructorID, courseID, studentID string) error {
	return f.hit("RemoveStudent", studentID)
}

func (f *fakeAPI) InstructorModules(ctx context.Context, instructorID, courseID string) ([]api.Module, error) {
	err := f.hit("InstructorModules", courseID)
	return f.modules[courseID], err
}

func (f *fakeAPI) CreateModule(ctx context.Context, in api.ModuleInput) error {
	f.lastModule = in
	return f.hit("CreateModule")
}

func (f *fakeAPI) AddModuleContent(ctx context.Context, in api.ContentInput) error {
	return f.hit("AddModuleContent")
}

func (f *fakeAPI) InstructorAssignments(ctx context.Context, instructorID, courseID string) ([]api.Assignment, error) {
	err := f.hit("InstructorAssignments", courseID)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.assignments[courseID], err
}

func (f *fakeAPI) CreateAssignment(ctx context.Context, in api.AssignmentInput) error {
	f.lastAssign = in
	return f.hit("CreateAssignment")
}

func (f *fakeAPI) Submissions(ctx context.Context, instructorID, assignmentID string) ([]api.Submission, error) {
	err := f.hit("Submissions", assignmentID)
	return f.submissions, err
}

func (f *fakeAPI) GradeSubmission(ctx context.Context, instructorID, submissionID string, marks float64, feedback string) error {
	f.gradedMarks = marks
	return f.hit("GradeSubmission", submissionID)
}

func (f *fakeAPI) InstructorAnnouncements(ctx context.Context, instructorID, courseID string) ([]api.Announcement, error) {
	return nil, f.hit("InstructorAnnouncements", courseID)
}

func (f *fakeAPI) CreateAnnouncement(ctx context.Context, in api.AnnouncementInput) error {
	return f.hit("CreateAnnouncement")
}

func (f *fakeAPI) Users(ctx context.Context) ([]api.AdminUser, error) {
	return f.users, f.hit("Users")
}

func (f *fakeAPI) ApproveUser(ctx context.Context, userID string) error {
	return f.hit("ApproveUser", userID)
}

func (f *fakeAPI) DeleteUser(ctx context.Context, userID string) error {
	return f.hit("DeleteUser", userID)
}

func (f *fakeAPI) AdminCourses(ctx context.Context) ([]api.Course, error) {
	return f.courses, f.hit("AdminCourses")
}

func (f *fakeAPI) CreateCourse(ctx context.Context, in api.CourseInput) error {
	f.lastCourse = in
	return f.hit("CreateCourse")
}

func (f *fakeAPI) UpdateCourse(ctx context.Context, courseID string, in api.CourseInput) error {
	f.lastCourse = in
	return f.hit("UpdateCourse", courseID)
}

func (f *fakeAPI) DeleteCourse(ctx context.Context, adminID, courseID string) error {
	return f.hit("DeleteCourse", courseID)
}

func (f *fakeAPI) Instructors(ctx context.Context) ([]api.Instructor, error) {
	return f.instructors, f.hit("Instructors")
}

func (f *fakeAPI) AssignInstructor(ctx context.Context, instructorID, courseID string) error {
	return f.hit("AssignInstructor", instructorID, courseID)
}

func (f *fakeAPI) CourseInstructors(ctx context.Context, adminID, courseID string) ([]api.Instructor, error) {
	err := f.hit("CourseInstructors", courseID)
	return f.instructors, err
}

func (f *fakeAPI) RemoveCourseInstructor(ctx context.Context, adminID, courseID, instructorID string) error {
	return f.hit("RemoveCourseInstructor", instructorID)
}

func (f *fakeAPI) Overview(ctx context.Context) (api.Overview, error) {
	return api.Overview{TotalUsers: 3}, f.hit("Overview")
}

func (f *fakeAPI) CourseStatsTable(ctx context.Context) ([]api.CourseStatsRow, error) {
	return nil, f.hit("CourseStatsTable")
}

func (f *fakeAPI) Aggregates(ctx context.Context) (api.Aggregates, error) {
	return api.Aggregates{}, f.hit("Aggregates")
}

func (f *fakeAPI) GradeDistribution(ctx context.Context, courseID string) ([]api.GradeCount, error) {
	err := f.hit("GradeDistribution", courseID)
	return f.stats[courseID].GradeDistribution, err
}

func (f *fakeAPI) CourseStats(ctx context.Context, courseID string) (api.CourseStats, error) {
	err := f.hit("CourseStats", courseID)
	return f.stats[courseID], err
}

func (f *fakeAPI) PostInsight(ctx context.Context, in api.InsightInput) (api.PostedInsight, error) {
	f.lastInsight = in
	return api.PostedInsight{InsightID: "ins-1"}, f.hit("PostInsight")
}

func (f *fakeAPI) InsightsByCourse(ctx context.Context, courseID string) ([]api.Insight, error) {
	err := f.hit("InsightsByCourse", courseID)
	return f.insights[courseID], err
}
