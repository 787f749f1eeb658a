package dto

import (
	"testing"
	"time"

	"coursehub/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseCard(t *testing.T) {
	rank := 3
	card := CourseCardFromModel(api.Course{CourseID: "c1", Fees: api.NewNumber(499.5), UniversityName: "IIT", UniversityRanking: &rank})
	assert.Equal(t, "₹499.5", card.Fees)
	assert.Equal(t, "IIT (Rank #3)", card.OfferedBy)

	card = CourseCardFromModel(api.Course{})
	assert.Empty(t, card.Fees)
	assert.Equal(t, "—", card.OfferedBy)
}

func TestAssignmentDueLabels(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.Local)
	cases := map[string]string{
		"2025-03-09":          "Overdue",
		"2025-03-10T23:59":    "Due today",
		"2025-03-11":          "Due tomorrow",
		"2025-03-15 09:00:00": "5 days left",
	}
	for due, want := range cases {
		a := AssignmentFromModel(api.Assignment{DueDate: due}, now)
		assert.Equal(t, want, a.DueLabel, due)
		assert.Equal(t, want == "Overdue", a.Overdue, due)
	}
	assert.Empty(t, AssignmentFromModel(api.Assignment{}, now).DueLabel)
}

func TestAssignmentMarks(t *testing.T) {
	module := 2
	a := AssignmentFromModel(api.Assignment{MaxMarks: 20, MarksObtained: api.NewNumber(15), ModuleNumber: &module, SubmissionURL: "https://x.test"}, time.Now())
	assert.Equal(t, "15 / 20", a.Marks)
	assert.Equal(t, "Module 2", a.Module)
	assert.True(t, a.Submitted)
}

func TestSubmissionRows(t *testing.T) {
	rows := SubmissionFromModels([]api.Submission{
		{SubmissionID: "s1", MaxMarks: 20, CourseTotalObtained: 30, CourseTotalPossible: 40, CoursePercent: api.NewNumber(75)},
		{SubmissionID: "s2", MaxMarks: 20, MarksObtained: api.NewNumber(12.5)},
	}, 30)
	require.Len(t, rows, 2)
	assert.Equal(t, "Not graded", rows[0].Marks)
	assert.Equal(t, "30 / 40 (75%)", rows[0].CourseTotal)
	assert.True(t, rows[1].Graded)
	assert.Equal(t, "12.5 / 20", rows[1].Marks)
	assert.Equal(t, "12.5", rows[1].MarksValue)
	assert.Equal(t, 20, rows[1].MaxMarks)
}

func TestSubmissionMarksBound(t *testing.T) {
	rows := SubmissionFromModels([]api.Submission{
		{SubmissionID: "own", MaxMarks: 10, MarksObtained: api.NewNumber(4)},
		{SubmissionID: "inherited"},
	}, 30)
	assert.Equal(t, 10, rows[0].MaxMarks)
	assert.Equal(t, "4 / 10", rows[0].Marks)
	assert.Equal(t, 30, rows[1].MaxMarks)

	rows = SubmissionFromModels([]api.Submission{{SubmissionID: "none"}}, 0)
	assert.Equal(t, api.DefaultMaxMarks, rows[0].MaxMarks)
}

func TestRosterGradeDash(t *testing.T) {
	rows := RosterFromModels([]api.RosterEntry{{UserID: "u"}})
	assert.Equal(t, "—", rows[0].Grade)
	assert.Equal(t, "0 / 0 (—)", rows[0].Total)
}

func TestBars(t *testing.T) {
	bars := Bars([]api.ChartPoint{{Grade: "A", Count: 4}, {Name: "Ongoing", Count: 2, Fill: "#94a3b8"}})
	require.Len(t, bars, 2)
	assert.Equal(t, Bar{Label: "A", Count: 4, Fill: "#475569", Width: 100}, bars[0])
	assert.Equal(t, Bar{Label: "Ongoing", Count: 2, Fill: "#94a3b8", Width: 50}, bars[1])
	assert.Empty(t, Bars(nil))
}
