package dto

import (
	"fmt"
	"time"

	"coursehub/api"
	"coursehub/helper"
)

type Assignment struct {
	ID            string
	Title         string
	Description   string
	URL           string
	Module        string
	MaxMarks      int
	DueDate       string
	DueLabel      string
	Overdue       bool
	Submitted     bool
	SubmissionURL string
	Marks         string
	Feedback      string
}

func AssignmentFromModel(a api.Assignment, now time.Time) Assignment {
	out := Assignment{
		ID:            a.AssignmentID,
		Title:         a.Title,
		Description:   a.Description,
		URL:           a.AssignmentURL,
		MaxMarks:      a.MaxMarks,
		DueDate:       helper.FormatDate(a.DueDate),
		Submitted:     a.Submitted(),
		SubmissionURL: a.SubmissionURL,
		Feedback:      helper.Deref(a.Feedback),
	}
	if a.ModuleNumber != nil {
		out.Module = fmt.Sprintf("Module %d", *a.ModuleNumber)
	}
	if a.MarksObtained != nil {
		out.Marks = Marks(a.MarksObtained.Float(), float64(a.MaxMarks))
	}
	if status, ok := helper.GetDateStatus(a.DueDate, now); ok {
		out.DueLabel, out.Overdue = dueLabel(status)
	}
	return out
}

func AssignmentFromModels(list []api.Assignment, now time.Time) []Assignment {
	result := make([]Assignment, len(list))
	for i, a := range list {
		result[i] = AssignmentFromModel(a, now)
	}
	return result
}

func dueLabel(s helper.DateStatus) (string, bool) {
	switch {
	case s.Past:
		return "Overdue", true
	case s.DaysLeft == 0:
		return "Due today", false
	case s.DaysLeft == 1:
		return "Due tomorrow", false
	}
	return fmt.Sprintf("%d days left", s.DaysLeft), false
}
