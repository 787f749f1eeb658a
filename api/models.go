package api

import "coursehub/state"

// User is the identity returned by login and signup.
type User struct {
	UserID string     `json:"user_id"`
	Name   string     `json:"name"`
	Email  string     `json:"email"`
	Role   state.Role `json:"role"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupRequest struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     state.Role `json:"role"`
}

// LoginResult carries the user plus an optional bearer token.
type LoginResult struct {
	User  User   `json:"user"`
	Token string `json:"token,omitempty"`
}

// SignupResult has a nil User while the account awaits approval.
type SignupResult struct {
	Message string `json:"message"`
	User    *User  `json:"user"`
	Token   string `json:"token,omitempty"`
}

// Summary is the role-specific dashboard counters. Unused fields stay zero.
type Summary struct {
	EnrolledCount    int `json:"enrolled_count"`
	CompletedCount   int `json:"completed_count"`
	TotalCourses     int `json:"total_courses"`
	TotalUsers       int `json:"total_users"`
	TotalEnrollments int `json:"total_enrollments"`
}

type Course struct {
	CourseID          string  `json:"course_id"`
	Title             string  `json:"title"`
	Duration          string  `json:"duration"`
	Level             string  `json:"level"`
	Description       string  `json:"description"`
	Fees              *Number `json:"fees"`
	UniversityName    string  `json:"university_name"`
	UniversityRanking *int    `json:"university_ranking"`
	InstructorNames   string  `json:"instructor_names"`
	EnrolledCount     int     `json:"enrolled_count"`
}

// Enrollment is a course as seen from one student's enrolled list.
type Enrollment struct {
	Course
	Status         string  `json:"status"`
	EnrollDate     string  `json:"enroll_date"`
	Grade          *string `json:"grade"`
	CompletionDate string  `json:"completion_date"`
}

const (
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"
)

type StudentProfile struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Branch      string `json:"branch"`
	Country     string `json:"country"`
	DOB         string `json:"dob"`
	PhoneNumber string `json:"phone_number"`
}

type StudentProfileUpdate struct {
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	Branch      string `json:"branch"`
	Country     string `json:"country"`
	DOB         string `json:"dob"`
	PhoneNumber string `json:"phone_number"`
}

type InstructorProfile struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Branch         string `json:"branch"`
	Specialization string `json:"specialization"`
	HireYear       *int   `json:"hire_year"`
	PhoneNumber    string `json:"phone_number"`
}

type InstructorProfileUpdate struct {
	UserID         string `json:"user_id"`
	Branch         string `json:"branch"`
	Specialization string `json:"specialization"`
	HireYear       *int   `json:"hire_year"`
	PhoneNumber    string `json:"phone_number"`
}

type Content struct {
	ContentID string `json:"content_id"`
	Title     string `json:"title"`
	Type      string `json:"type"`
	URL       string `json:"url"`
}

type Module struct {
	ModuleNumber int       `json:"module_number"`
	Name         string    `json:"name"`
	Duration     string    `json:"duration"`
	Content      []Content `json:"content"`
}

type Assignment struct {
	AssignmentID  string `json:"assignment_id"`
	CourseID      string `json:"course_id"`
	ModuleNumber  *int   `json:"module_number"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	AssignmentURL string `json:"assignment_url"`
	DueDate       string `json:"due_date"`
	MaxMarks      int    `json:"max_marks"`
	CreatedAt     string `json:"created_at"`

	// set only on the student listing
	SubmissionID  string  `json:"submission_id"`
	SubmissionURL string  `json:"submission_url"`
	MarksObtained *Number `json:"marks_obtained"`
	Feedback      *string `json:"feedback"`
}

// Submitted reports whether the server holds a submission for the caller.
func (a Assignment) Submitted() bool {
	return a.SubmissionURL != ""
}

type Submission struct {
	SubmissionID        string  `json:"submission_id"`
	StudentID           string  `json:"student_id"`
	StudentName         string  `json:"student_name"`
	StudentEmail        string  `json:"student_email"`
	SubmissionURL       string  `json:"submission_url"`
	SubmittedAt         string  `json:"submitted_at"`
	MarksObtained       *Number `json:"marks_obtained"`
	Feedback            *string `json:"feedback"`
	MaxMarks            int     `json:"max_marks"`
	CourseTotalObtained Number  `json:"course_total_obtained"`
	CourseTotalPossible Number  `json:"course_total_possible"`
	CoursePercent       *Number `json:"course_percent"`
}

// MarksBound is the highest mark this submission accepts: its own
// max_marks, else the assignment's, else DefaultMaxMarks.
func (s Submission) MarksBound(assignmentMax int) int {
	switch {
	case s.MaxMarks > 0:
		return s.MaxMarks
	case assignmentMax > 0:
		return assignmentMax
	default:
		return DefaultMaxMarks
	}
}

type Announcement struct {
	AnnouncementID string `json:"announcement_id"`
	CourseID       string `json:"course_id"`
	InstructorID   string `json:"instructor_id"`
	Title          string `json:"title"`
	Content        string `json:"content"`
	CreatedAt      string `json:"created_at"`
}

// RosterEntry is one enrolled student as listed to the instructor.
type RosterEntry struct {
	UserID                  string  `json:"user_id"`
	Name                    string  `json:"name"`
	Email                   string  `json:"email"`
	Status                  string  `json:"status"`
	Grade                   *string `json:"grade"`
	EnrollDate              string  `json:"enroll_date"`
	CompletionDate          string  `json:"completion_date"`
	AssignmentTotalObtained Number  `json:"assignment_total_obtained"`
	AssignmentTotalPossible Number  `json:"assignment_total_possible"`
	AssignmentPercent       *Number `json:"assignment_percent"`
}

type AdminUser struct {
	UserID   string     `json:"user_id"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Role     state.Role `json:"role"`
	Approved bool       `json:"approved"`
}

type Instructor struct {
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Branch      string `json:"branch"`
	PhoneNumber string `json:"phone_number"`
}

// CourseInput is the body of course create and update.
type CourseInput struct {
	AdminUserID       string  `json:"admin_user_id"`
	Title             string  `json:"title"`
	Duration          string  `json:"duration"`
	Level             string  `json:"level"`
	Description       string  `json:"description"`
	Fees              *Number `json:"fees"`
	UniversityName    string  `json:"university_name"`
	UniversityRanking *int    `json:"university_ranking"`
}

type ModuleInput struct {
	InstructorID string `json:"instructor_id"`
	CourseID     string `json:"course_id"`
	ModuleNumber int    `json:"module_number"`
	Name         string `json:"name"`
	Duration     string `json:"duration"`
}

type ContentInput struct {
	InstructorID string `json:"instructor_id"`
	CourseID     string `json:"course_id"`
	ModuleNumber int    `json:"module_number"`
	Title        string `json:"title"`
	Type         string `json:"type"`
	URL          string `json:"url"`
}

type AssignmentInput struct {
	InstructorID  string `json:"instructor_id"`
	CourseID      string `json:"course_id"`
	Title         string `json:"title"`
	AssignmentURL string `json:"assignment_url"`
	ModuleNumber  *int   `json:"module_number"`
	Description   string `json:"description"`
	DueDate       string `json:"due_date,omitempty"`
	MaxMarks      int    `json:"max_marks"`
}

type GradeInput struct {
	InstructorID string `json:"instructor_id"`
	CourseID     string `json:"course_id"`
	StudentID    string `json:"student_id"`
	Grade        string `json:"grade"`
	Status       string `json:"status"`
}

type AnnouncementInput struct {
	InstructorID string `json:"instructor_id"`
	CourseID     string `json:"course_id"`
	Title        string `json:"title"`
	Content      string `json:"content"`
}

type Overview struct {
	TotalUsers           int     `json:"total_users"`
	TotalCourses         int     `json:"total_courses"`
	TotalEnrollments     int     `json:"total_enrollments"`
	CompletedEnrollments int     `json:"completed_enrollments"`
	CompletionRate       float64 `json:"completion_rate"`
	TotalAssignments     int     `json:"total_assignments"`
}

type CourseStatsRow struct {
	CourseID        string  `json:"course_id"`
	Title           string  `json:"title"`
	Level           string  `json:"level"`
	Duration        string  `json:"duration"`
	Enrolled        int     `json:"enrolled"`
	Completed       int     `json:"completed"`
	CompletionRate  float64 `json:"completion_rate"`
	AssignmentCount int     `json:"assignment_count"`
}

type LevelCount struct {
	Level string `json:"level"`
	Count int    `json:"count"`
}

type RoleCount struct {
	Role  string `json:"role"`
	Count int    `json:"count"`
}

type TopCourse struct {
	Title       string `json:"title"`
	Enrollments int    `json:"enrollments"`
}

type Aggregates struct {
	EnrollmentsByLevel []LevelCount `json:"enrollments_by_level"`
	UsersByRole        []RoleCount  `json:"users_by_role"`
	TopCourses         []TopCourse  `json:"top_courses_by_enrollment"`
}

type GradeCount struct {
	Grade string `json:"grade"`
	Count int    `json:"count"`
}

type CourseStats struct {
	Enrolled          int          `json:"enrolled"`
	Completed         int          `json:"completed"`
	Ongoing           int          `json:"ongoing"`
	GradeDistribution []GradeCount `json:"grade_distribution"`
}

// ChartPoint is one label/count pair. Grade charts label by grade,
// status charts by name.
type ChartPoint struct {
	Grade string `json:"grade,omitempty"`
	Name  string `json:"name,omitempty"`
	Count int    `json:"count"`
	Fill  string `json:"fill,omitempty"`
}

func (p ChartPoint) Label() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Grade
}

const (
	ChartGradeDistribution = "grade_distribution"
	ChartEnrollmentStatus  = "enrollment_status"
)

type Insight struct {
	InsightID string       `json:"insight_id"`
	CourseID  string       `json:"course_id"`
	PostedBy  string       `json:"posted_by"`
	Title     string       `json:"title"`
	ChartType string       `json:"chart_type"`
	ChartData []ChartPoint `json:"chart_data"`
	Summary   string       `json:"summary"`
	CreatedAt string       `json:"created_at"`
}

type InsightInput struct {
	PostedBy  string       `json:"posted_by"`
	CourseID  string       `json:"course_id"`
	Title     string       `json:"title"`
	ChartType string       `json:"chart_type"`
	ChartData []ChartPoint `json:"chart_data"`
	Summary   string       `json:"summary"`
}

type PostedInsight struct {
	InsightID string `json:"insight_id"`
	CreatedAt string `json:"created_at"`
}

const (
	DefaultMaxMarks = 20
	MaxMarksLimit   = 100
)
