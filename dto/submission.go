package dto

import "coursehub/api"

type Submission struct {
	ID          string
	Student     string
	Email       string
	URL         string
	SubmittedAt string
	Graded      bool
	MaxMarks    int
	Marks       string
	MarksValue  string
	Feedback    string
	CourseTotal string
}

// SubmissionFromModel maps one row. assignmentMax is the bound used when
// the row carries no max_marks of its own.
func SubmissionFromModel(s api.Submission, assignmentMax int) Submission {
	bound := s.MarksBound(assignmentMax)
	out := Submission{
		ID:          s.SubmissionID,
		Student:     s.StudentName,
		Email:       s.StudentEmail,
		URL:         s.SubmissionURL,
		SubmittedAt: s.SubmittedAt,
		MaxMarks:    bound,
		Marks:       "Not graded",
		CourseTotal: Marks(s.CourseTotalObtained.Float(), s.CourseTotalPossible.Float()) + " (" + Percent(s.CoursePercent) + ")",
	}
	if s.Feedback != nil {
		out.Feedback = *s.Feedback
	}
	if s.MarksObtained != nil {
		out.Graded = true
		out.Marks = Marks(s.MarksObtained.Float(), float64(bound))
		out.MarksValue = trimFloat(s.MarksObtained.Float())
	}
	return out
}

func SubmissionFromModels(submissions []api.Submission, assignmentMax int) []Submission {
	result := make([]Submission, len(submissions))
	for i, s := range submissions {
		result[i] = SubmissionFromModel(s, assignmentMax)
	}
	return result
}

// Roster is one enrolled student row with running assignment totals.
type Roster struct {
	ID         string
	Name       string
	Email      string
	Status     string
	Grade      string
	EnrollDate string
	Total      string
}

func RosterFromModels(entries []api.RosterEntry) []Roster {
	result := make([]Roster, len(entries))
	for i, e := range entries {
		grade := "—"
		if e.Grade != nil && *e.Grade != "" {
			grade = *e.Grade
		}
		result[i] = Roster{
			ID:         e.UserID,
			Name:       e.Name,
			Email:      e.Email,
			Status:     e.Status,
			Grade:      grade,
			EnrollDate: e.EnrollDate,
			Total:      Marks(e.AssignmentTotalObtained.Float(), e.AssignmentTotalPossible.Float()) + " (" + Percent(e.AssignmentPercent) + ")",
		}
	}
	return result
}
