package api

import (
	"context"
	"net/http"

	"coursehub/state"
)

func (c *Client) Summary(ctx context.Context, userID string, role state.Role) (Summary, error) {
	var out Summary
	err := c.do(ctx, get("dashboard.summary", "/dashboard", q("user_id", userID, "role", string(role)), "data"), &out)
	return out, err
}

// Courses lists the public catalog.
func (c *Client) Courses(ctx context.Context) ([]Course, error) {
	var out []Course
	err := c.do(ctx, get("courses.list", "/courses", nil, "courses"), &out)
	return out, err
}

func (c *Client) Enroll(ctx context.Context, userID, courseID string) error {
	body := map[string]string{"user_id": userID, "course_id": courseID}
	return c.do(ctx, send("courses.enroll", http.MethodPost, "/courses/enroll", body), nil)
}

// MyCourses lists the student's enrollments; an empty status lists all.
func (c *Client) MyCourses(ctx context.Context, userID, status string) ([]Enrollment, error) {
	var out []Enrollment
	err := c.do(ctx, get("courses.mine", "/courses/my-courses", q("user_id", userID, "status", status), "courses"), &out)
	return out, err
}
