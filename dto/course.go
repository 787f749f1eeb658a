package dto

import (
	"fmt"
	"strconv"

	"coursehub/api"
)

type CourseCard struct {
	ID          string
	Title       string
	Level       string
	Duration    string
	Description string
	Fees        string
	OfferedBy   string
	Instructors string
	Enrolled    int
}

func CourseCardFromModel(c api.Course) CourseCard {
	return CourseCard{
		ID:          c.CourseID,
		Title:       c.Title,
		Level:       c.Level,
		Duration:    c.Duration,
		Description: c.Description,
		Fees:        Fees(c.Fees),
		OfferedBy:   University(c.UniversityName, c.UniversityRanking),
		Instructors: c.InstructorNames,
		Enrolled:    c.EnrolledCount,
	}
}

func CourseCardsFromModels(courses []api.Course) []CourseCard {
	result := make([]CourseCard, len(courses))
	for i, c := range courses {
		result[i] = CourseCardFromModel(c)
	}
	return result
}

// Fees renders a course fee in rupees, or "" when the course has none.
func Fees(n *api.Number) string {
	if n == nil {
		return ""
	}
	return "₹" + strconv.FormatFloat(n.Float(), 'f', -1, 64)
}

// University renders "Name (Rank #N)", or "—" without a name.
func University(name string, rank *int) string {
	if name == "" {
		return "—"
	}
	if rank == nil {
		return name
	}
	return fmt.Sprintf("%s (Rank #%d)", name, *rank)
}

// Percent renders an optional percentage rounded to a whole number.
func Percent(n *api.Number) string {
	if n == nil {
		return "—"
	}
	return fmt.Sprintf("%.0f%%", n.Float())
}

// Marks renders "obtained / possible", trimming trailing zeros.
func Marks(obtained, possible float64) string {
	return strconv.FormatFloat(obtained, 'f', -1, 64) + " / " + strconv.FormatFloat(possible, 'f', -1, 64)
}

// StatusClass is the badge class for an enrollment or approval status.
func StatusClass(status string) string {
	switch status {
	case api.StatusCompleted, api.StatusOngoing:
		return "status-badge status-" + status
	}
	return "status-badge"
}
