package dashboard

import (
	"context"
	"testing"

	"coursehub/api"
	"coursehub/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var adminUser = state.Session{UserID: "adm", Name: "Root", Role: state.RoleAdministrator}

func mountedAdmin(t *testing.T, f *fakeAPI) *Admin {
	t.Helper()
	a := NewAdmin(f, adminUser, nil)
	a.Mount(context.Background())
	return a
}

func TestAdminCreateCourseNeedsUniversity(t *testing.T) {
	f := newFake()
	a := mountedAdmin(t, f)

	err := a.CreateCourse(context.Background(), CourseDraft{Title: "Go", Level: "beginner"})
	require.Error(t, err)
	assert.Equal(t, "University name is required", a.Notice().Text)
	assert.Equal(t, 0, f.count("CreateCourse"))
	assert.Equal(t, "Go", a.View().Draft.Title, "draft survives a failed submit")
}

func TestAdminCreateCourseParsesNumbers(t *testing.T) {
	f := newFake()
	a := mountedAdmin(t, f)
	a.ShowCreate(true)
	ctx := context.Background()

	require.Error(t, a.CreateCourse(ctx, CourseDraft{Title: "Go", UniversityName: "MIT", Level: "beginner", Fees: "cheap"}))
	assert.Equal(t, "Fees must be a number", a.Notice().Text)

	require.Error(t, a.CreateCourse(ctx, CourseDraft{Title: "Go", UniversityName: "MIT", Level: "expert"}))
	assert.Equal(t, 0, f.count("CreateCourse"))

	require.NoError(t, a.CreateCourse(ctx, CourseDraft{
		Title: "Go", UniversityName: "MIT", Level: "advanced", Fees: "199.5", UniversityRanking: "12",
	}))
	require.NotNil(t, f.lastCourse.Fees)
	assert.InDelta(t, 199.5, f.lastCourse.Fees.Float(), 0.001)
	require.NotNil(t, f.lastCourse.UniversityRanking)
	assert.Equal(t, 12, *f.lastCourse.UniversityRanking)
	assert.Equal(t, "adm", f.lastCourse.AdminUserID)
	assert.Equal(t, 2, f.count("AdminCourses"))
	assert.Equal(t, 2, f.count("Summary"))

	v := a.View()
	assert.False(t, v.Creating)
	assert.Equal(t, newCourseDraft(), v.Draft)
}

func TestAdminUsersAndPending(t *testing.T) {
	f := newFake()
	f.users = []api.AdminUser{{UserID: "u1", Approved: true}, {UserID: "u2"}}
	a := mountedAdmin(t, f)
	ctx := context.Background()

	pending := a.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, "u2", pending[0].UserID)

	require.NoError(t, a.ApproveUser(ctx, "u2"))
	assert.Equal(t, 2, f.count("Users"))
	assert.Equal(t, 1, f.count("Summary"))

	require.NoError(t, a.DeleteUser(ctx, "u1"))
	assert.Equal(t, 3, f.count("Users"))
	assert.Equal(t, 2, f.count("Summary"))

	require.Error(t, a.DeleteUser(ctx, "adm"))
	assert.Equal(t, 1, f.count("DeleteUser"))
}

func TestAdminEditCourse(t *testing.T) {
	f := newFake()
	rank := 7
	f.courses = []api.Course{{CourseID: "c1", Title: "Go", Level: "Intermediate", UniversityName: "MIT", Fees: api.NewNumber(50), UniversityRanking: &rank}}
	f.instructors = []api.Instructor{{UserID: "i1", Name: "Grace"}}
	a := mountedAdmin(t, f)
	ctx := context.Background()

	require.NoError(t, a.OpenCourse(ctx, "c1"))
	v := a.View()
	assert.Equal(t, "c1", v.EditingID)
	assert.Equal(t, CourseDraft{Title: "Go", Level: "intermediate", Fees: "50", UniversityName: "MIT", UniversityRanking: "7"}, v.EditDraft)
	assert.Len(t, v.CourseInstructors, 1)

	require.NoError(t, a.RemoveCourseInstructor(ctx, "i1"))
	assert.Equal(t, 2, f.count("CourseInstructors"))
	assert.Equal(t, 2, f.count("AdminCourses"))

	d := v.EditDraft
	d.Title = "Go 2"
	require.NoError(t, a.UpdateCourse(ctx, d))
	assert.Equal(t, "Go 2", f.lastCourse.Title)
	assert.Empty(t, a.View().EditingID)
	assert.Equal(t, 3, f.count("AdminCourses"))
	assert.Equal(t, 2, f.count("Summary"))
}

func TestAdminDeleteCourseClosesEdit(t *testing.T) {
	f := newFake()
	f.courses = []api.Course{{CourseID: "c1", Title: "Go", UniversityName: "MIT"}}
	a := mountedAdmin(t, f)
	ctx := context.Background()
	require.NoError(t, a.OpenCourse(ctx, "c1"))

	require.NoError(t, a.DeleteCourse(ctx, "c1"))
	assert.Empty(t, a.View().EditingID)
	assert.Equal(t, 2, f.count("AdminCourses"))
	assert.Equal(t, 2, f.count("Summary"))
}

func TestAdminUpdateWithoutOpenCourse(t *testing.T) {
	f := newFake()
	a := mountedAdmin(t, f)
	require.Error(t, a.UpdateCourse(context.Background(), CourseDraft{Title: "x", UniversityName: "y", Level: "beginner"}))
	assert.Equal(t, 0, f.count("UpdateCourse"))
}

func TestAdminPickersAndAssign(t *testing.T) {
	f := newFake()
	f.instructors = []api.Instructor{
		{UserID: "i1", Name: "Grace", Branch: "CS", PhoneNumber: "555-0100"},
		{UserID: "i2", Name: "Linus", Branch: "EE"},
	}
	f.courses = []api.Course{
		{CourseID: "c1", Title: "Go", UniversityName: "MIT", InstructorNames: "Grace"},
		{CourseID: "c2", Title: "Rust", UniversityName: "ETH"},
	}
	a := mountedAdmin(t, f)
	ctx := context.Background()

	got := a.FilterInstructors("0100")
	require.Len(t, got, 1)
	assert.Equal(t, "i1", got[0].UserID)
	assert.Len(t, a.FilterCourses("eth"), 1)
	assert.Len(t, a.View().PickerCourses, 1)

	require.Error(t, a.AssignInstructor(ctx, "i2", ""))
	assert.Equal(t, "Please select both an instructor and a course", a.Notice().Text)
	assert.Equal(t, 0, f.count("AssignInstructor"))

	require.NoError(t, a.AssignInstructor(ctx, "i2", "c2"))
	assert.Equal(t, 2, f.count("AdminCourses"))
	assert.Empty(t, a.View().AssignCourseID)
}
