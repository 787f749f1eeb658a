package api

import (
	"context"
	"net/http"
)

func (c *Client) InstructorProfile(ctx context.Context, userID string) (InstructorProfile, error) {
	var out InstructorProfile
	err := c.do(ctx, get("instructor.profile", "/instructor/profile", q("user_id", userID), "profile"), &out)
	return out, err
}

func (c *Client) UpdateInstructorProfile(ctx context.Context, p InstructorProfileUpdate) error {
	return c.do(ctx, send("instructor.profile.update", http.MethodPut, "/instructor/profile", p), nil)
}

func (c *Client) InstructorCourses(ctx context.Context, instructorID string) ([]Course, error) {
	var out []Course
	err := c.do(ctx, get("instructor.courses", "/instructor/courses", q("instructor_id", instructorID), "courses"), &out)
	return out, err
}

func (c *Client) CourseStudents(ctx context.Context, instructorID, courseID string) ([]RosterEntry, error) {
	var out []RosterEntry
	err := c.do(ctx, get("instructor.students", "/instructor/courses/"+seg(courseID)+"/students", q("instructor_id", instructorID), "students"), &out)
	return out, err
}

func (c *Client) GradeStudent(ctx context.Context, in GradeInput) error {
	if in.Status == "" {
		in.Status = StatusCompleted
	}
	return c.do(ctx, send("instructor.grade", http.MethodPost, "/instructor/grade", in), nil)
}

func (c *Client) RemoveStudent(ctx context.Context, instructorID, courseID, studentID string) error {
	body := map[string]string{
		"instructor_id": instructorID,
		"course_id":     courseID,
		"student_id":    studentID,
	}
	return c.do(ctx, send("instructor.remove_student", http.MethodPost, "/instructor/remove-student", body), nil)
}

func (c *Client) InstructorModules(ctx context.Context, instructorID, courseID string) ([]Module, error) {
	var out []Module
	err := c.do(ctx, get("instructor.modules", "/instructor/courses/"+seg(courseID)+"/modules", q("instructor_id", instructorID), "modules"), &out)
	return out, err
}

func (c *Client) CreateModule(ctx context.Context, in ModuleInput) error {
	return c.do(ctx, send("instructor.module.create", http.MethodPost, "/instructor/module", in), nil)
}

func (c *Client) AddModuleContent(ctx context.Context, in ContentInput) error {
	return c.do(ctx, send("instructor.module.content", http.MethodPost, "/instructor/module-content", in), nil)
}

func (c *Client) InstructorAssignments(ctx context.Context, instructorID, courseID string) ([]Assignment, error) {
	var out []Assignment
	err := c.do(ctx, get("instructor.assignments", "/instructor/courses/"+seg(courseID)+"/assignments", q("instructor_id", instructorID), "assignments"), &out)
	return out, err
}

func (c *Client) CreateAssignment(ctx context.Context, in AssignmentInput) error {
	if in.MaxMarks == 0 {
		in.MaxMarks = DefaultMaxMarks
	}
	return c.do(ctx, send("instructor.assignment.create", http.MethodPost, "/instructor/assignment", in), nil)
}

func (c *Client) Submissions(ctx context.Context, instructorID, assignmentID string) ([]Submission, error) {
	var out []Submission
	err := c.do(ctx, get("instructor.submissions", "/instructor/assignments/"+seg(assignmentID)+"/submissions", q("instructor_id", instructorID), "submissions"), &out)
	return out, err
}

func (c *Client) GradeSubmission(ctx context.Context, instructorID, submissionID string, marks float64, feedback string) error {
	body := map[string]any{
		"instructor_id":  instructorID,
		"submission_id":  submissionID,
		"marks_obtained": marks,
		"feedback":       feedback,
	}
	return c.do(ctx, send("instructor.submission.grade", http.MethodPost, "/instructor/submission/grade", body), nil)
}

func (c *Client) InstructorAnnouncements(ctx context.Context, instructorID, courseID string) ([]Announcement, error) {
	var out []Announcement
	err := c.do(ctx, get("instructor.announcements", "/instructor/courses/"+seg(courseID)+"/announcements", q("instructor_id", instructorID), "announcements"), &out)
	return out, err
}

func (c *Client) CreateAnnouncement(ctx context.Context, in AnnouncementInput) error {
	return c.do(ctx, send("instructor.announcement.create", http.MethodPost, "/instructor/announcement", in), nil)
}
