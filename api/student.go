package api

import (
	"context"
	"net/http"
)

func (c *Client) StudentProfile(ctx context.Context, userID string) (StudentProfile, error) {
	var out StudentProfile
	err := c.do(ctx, get("student.profile", "/student/profile", q("user_id", userID), "profile"), &out)
	return out, err
}

func (c *Client) UpdateStudentProfile(ctx context.Context, p StudentProfileUpdate) error {
	return c.do(ctx, send("student.profile.update", http.MethodPut, "/student/profile", p), nil)
}

func (c *Client) StudentModules(ctx context.Context, userID, courseID string) ([]Module, error) {
	var out []Module
	err := c.do(ctx, get("student.modules", "/student/courses/"+seg(courseID)+"/modules", q("user_id", userID), "modules"), &out)
	return out, err
}

func (c *Client) StudentAssignments(ctx context.Context, userID, courseID string) ([]Assignment, error) {
	var out []Assignment
	err := c.do(ctx, get("student.assignments", "/student/courses/"+seg(courseID)+"/assignments", q("user_id", userID), "assignments"), &out)
	return out, err
}

func (c *Client) StudentAnnouncements(ctx context.Context, userID, courseID string) ([]Announcement, error) {
	var out []Announcement
	err := c.do(ctx, get("student.announcements", "/student/courses/"+seg(courseID)+"/announcements", q("user_id", userID), "announcements"), &out)
	return out, err
}

func (c *Client) StudentInsights(ctx context.Context, userID, courseID string) ([]Insight, error) {
	var out []Insight
	err := c.do(ctx, get("student.insights", "/student/courses/"+seg(courseID)+"/insights", q("user_id", userID), "insights"), &out)
	return out, err
}

func (c *Client) SubmitAssignment(ctx context.Context, studentID, assignmentID, submissionURL string) error {
	body := map[string]string{
		"student_id":     studentID,
		"assignment_id":  assignmentID,
		"submission_url": submissionURL,
	}
	return c.do(ctx, send("student.submit", http.MethodPost, "/student/assignment/submit", body), nil)
}
