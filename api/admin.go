package api

import (
	"context"
	"net/http"
)

func (c *Client) Users(ctx context.Context) ([]AdminUser, error) {
	var out []AdminUser
	err := c.do(ctx, get("admin.users", "/admin/users", nil, "users"), &out)
	return out, err
}

func (c *Client) ApproveUser(ctx context.Context, userID string) error {
	body := map[string]string{"user_id": userID}
	return c.do(ctx, send("admin.approve", http.MethodPost, "/admin/approve", body), nil)
}

func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	return c.do(ctx, send("admin.users.delete", http.MethodDelete, "/admin/users/"+seg(userID), nil), nil)
}

func (c *Client) AdminCourses(ctx context.Context) ([]Course, error) {
	var out []Course
	err := c.do(ctx, get("admin.courses", "/admin/courses", nil, "courses"), &out)
	return out, err
}

func (c *Client) CreateCourse(ctx context.Context, in CourseInput) error {
	return c.do(ctx, send("admin.courses.create", http.MethodPost, "/admin/courses", in), nil)
}

func (c *Client) UpdateCourse(ctx context.Context, courseID string, in CourseInput) error {
	return c.do(ctx, send("admin.courses.update", http.MethodPut, "/admin/courses/"+seg(courseID), in), nil)
}

func (c *Client) DeleteCourse(ctx context.Context, adminID, courseID string) error {
	cl := send("admin.courses.delete", http.MethodDelete, "/admin/courses/"+seg(courseID), nil)
	cl.query = q("admin_user_id", adminID)
	return c.do(ctx, cl, nil)
}

func (c *Client) Instructors(ctx context.Context) ([]Instructor, error) {
	var out []Instructor
	err := c.do(ctx, get("admin.instructors", "/admin/instructors", nil, "instructors"), &out)
	return out, err
}

func (c *Client) AssignInstructor(ctx context.Context, instructorID, courseID string) error {
	body := map[string]string{"instructor_id": instructorID, "course_id": courseID}
	return c.do(ctx, send("admin.assign", http.MethodPost, "/admin/assign", body), nil)
}

func (c *Client) CourseInstructors(ctx context.Context, adminID, courseID string) ([]Instructor, error) {
	var out []Instructor
	err := c.do(ctx, get("admin.course_instructors", "/admin/courses/"+seg(courseID)+"/instructors", q("admin_user_id", adminID), "instructors"), &out)
	return out, err
}

func (c *Client) RemoveCourseInstructor(ctx context.Context, adminID, courseID, instructorID string) error {
	cl := send("admin.course_instructors.remove", http.MethodDelete, "/admin/courses/"+seg(courseID)+"/instructors/"+seg(instructorID), nil)
	cl.query = q("admin_user_id", adminID)
	return c.do(ctx, cl, nil)
}
