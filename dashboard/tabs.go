package dashboard

const (
	TabProfile   Tab = "profile"
	TabEnrolled  Tab = "enrolled"
	TabActive    Tab = "active"
	TabCompleted Tab = "completed"
	TabBrowse    Tab = "browse"
	TabCourses   Tab = "courses"
	TabUsers     Tab = "users"
	TabPending   Tab = "pending"
	TabAssign    Tab = "assign"
	TabInsights  Tab = "insights"
	TabPost      Tab = "post"
)

// CourseTab is a management pane inside an instructor's selected course.
type CourseTab string

const (
	CourseTabAnnouncements CourseTab = "announcements"
	CourseTabModules       CourseTab = "modules"
	CourseTabContent       CourseTab = "content"
	CourseTabAssignments   CourseTab = "assignments"
	CourseTabStudents      CourseTab = "students"
)

// Levels lists the course levels in display order.
var Levels = []string{"beginner", "intermediate", "advanced"}

const LevelAll = "all"
