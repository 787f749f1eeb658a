package dashboard

import (
	"context"
	"strings"

	"coursehub/api"
	"coursehub/helper"
	"coursehub/state"

	"go.uber.org/zap"
)

type AnalystAPI interface {
	Overview(ctx context.Context) (api.Overview, error)
	CourseStatsTable(ctx context.Context) ([]api.CourseStatsRow, error)
	Aggregates(ctx context.Context) (api.Aggregates, error)
	GradeDistribution(ctx context.Context, courseID string) ([]api.GradeCount, error)
	CourseStats(ctx context.Context, courseID string) (api.CourseStats, error)
	PostInsight(ctx context.Context, in api.InsightInput) (api.PostedInsight, error)
	InsightsByCourse(ctx context.Context, courseID string) ([]api.Insight, error)
}

const ActionPostInsight = "post-insight"

// Enrollment status bar colours, in bar order.
var statusFills = []string{"#475569", "#64748b", "#94a3b8"}

type InsightDraft struct {
	CourseID  string
	Title     string
	ChartType string
	Summary   string
}

func newInsightDraft() InsightDraft {
	return InsightDraft{ChartType: api.ChartGradeDistribution}
}

type insightRequired struct {
	CourseID string `validate:"required"`
	Title    string `validate:"required"`
}

// ChartData derives the points posted with an insight. It returns nil
// when the selected chart has nothing to show.
func ChartData(chartType string, stats *api.CourseStats, grades []api.GradeCount) []api.ChartPoint {
	if stats == nil {
		return nil
	}
	switch chartType {
	case api.ChartGradeDistribution:
		if len(grades) == 0 {
			grades = stats.GradeDistribution
		}
		if len(grades) == 0 {
			return nil
		}
		return helper.Map(grades, func(g api.GradeCount) api.ChartPoint {
			return api.ChartPoint{Grade: g.Grade, Count: g.Count}
		})
	case api.ChartEnrollmentStatus:
		return []api.ChartPoint{
			{Name: "Enrolled", Count: stats.Enrolled, Fill: statusFills[0]},
			{Name: "Completed", Count: stats.Completed, Fill: statusFills[1]},
			{Name: "Ongoing", Count: stats.Ongoing, Fill: statusFills[2]},
		}
	}
	return nil
}

type Analyst struct {
	base
	api  AnalystAPI
	user state.Session

	overview   *api.Overview
	courses    []api.CourseStatsRow
	aggregates *api.Aggregates

	course selection
	stats  *api.CourseStats
	grades []api.GradeCount
	draft  InsightDraft

	postedFor string
	posted    []api.Insight
}

func NewAnalyst(client AnalystAPI, user state.Session, log *zap.Logger) *Analyst {
	a := &Analyst{api: client, user: user, draft: newInsightDraft()}
	a.init(log, "analyst", user, TabCourses, TabInsights, TabPost)
	return a
}

func (a *Analyst) Mount(ctx context.Context) {
	a.mount(ctx, a.loadOverview(), a.loadCourses(), a.loadAggregates())
}

func (a *Analyst) loadOverview() fetch {
	return fetch{"overview", func(ctx context.Context) error {
		v, err := a.api.Overview(ctx)
		if err != nil {
			return err
		}
		a.mu.Lock()
		a.overview = &v
		a.mu.Unlock()
		return nil
	}}
}

func (a *Analyst) loadCourses() fetch {
	return fetch{"courses", func(ctx context.Context) error {
		v, err := a.api.CourseStatsTable(ctx)
		if err != nil {
			return err
		}
		a.mu.Lock()
		a.courses = v
		a.mu.Unlock()
		return nil
	}}
}

func (a *Analyst) loadAggregates() fetch {
	return fetch{"aggregates", func(ctx context.Context) error {
		v, err := a.api.Aggregates(ctx)
		if err != nil {
			return err
		}
		a.mu.Lock()
		a.aggregates = &v
		a.mu.Unlock()
		return nil
	}}
}

func (a *Analyst) loadPosted(courseID string) fetch {
	return fetch{"posted_insights", func(ctx context.Context) error {
		v, err := a.api.InsightsByCourse(ctx, courseID)
		a.mu.Lock()
		defer a.mu.Unlock()
		if a.postedFor != courseID {
			return err
		}
		if err != nil {
			a.posted = nil
			return err
		}
		a.posted = v
		return nil
	}}
}

func (a *Analyst) SetTab(t Tab) bool { return a.setTab(t) }

// SelectCourse picks the course an insight is drafted for and loads its
// stats preview and already posted insights. An empty id clears it.
func (a *Analyst) SelectCourse(ctx context.Context, courseID string) {
	a.mu.Lock()
	a.stats = nil
	a.grades = nil
	a.draft.CourseID = courseID
	if courseID == "" {
		a.course.clear()
		a.mu.Unlock()
		return
	}
	gen := a.course.choose(courseID)
	a.postedFor = courseID
	a.posted = nil
	a.mu.Unlock()

	a.mount(ctx,
		fetch{"course_stats", func(ctx context.Context) error {
			v, err := a.api.CourseStats(ctx, courseID)
			return a.applyCourse(gen, err, func() { a.stats = &v })
		}},
		fetch{"grade_distribution", func(ctx context.Context) error {
			v, err := a.api.GradeDistribution(ctx, courseID)
			return a.applyCourse(gen, err, func() { a.grades = v })
		}},
		a.loadPosted(courseID),
	)
}

func (a *Analyst) applyCourse(gen uint64, err error, apply func()) error {
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.course.current(gen) {
		a.log.Debug("discarding stale course stats")
		return nil
	}
	apply()
	return nil
}

// PreviewChart switches the draft chart type and returns its points.
func (a *Analyst) PreviewChart(chartType string) []api.ChartPoint {
	a.mu.Lock()
	defer a.mu.Unlock()
	if chartType == api.ChartGradeDistribution || chartType == api.ChartEnrollmentStatus {
		a.draft.ChartType = chartType
	}
	return ChartData(a.draft.ChartType, a.stats, a.grades)
}

func (a *Analyst) PostInsight(ctx context.Context, d InsightDraft) error {
	d.Title = strings.TrimSpace(d.Title)
	d.Summary = strings.TrimSpace(d.Summary)
	if d.ChartType == "" {
		d.ChartType = api.ChartGradeDistribution
	}

	a.mu.Lock()
	if d.CourseID != a.course.id {
		a.mu.Unlock()
		a.SelectCourse(ctx, d.CourseID)
		a.mu.Lock()
	}
	a.draft = d
	points := ChartData(d.ChartType, a.stats, a.grades)
	a.mu.Unlock()

	if err := helper.ValidateStruct(insightRequired{d.CourseID, d.Title}); err != nil {
		return a.reject(invalid("Select a course and enter a title."))
	}
	return a.mutate(ctx, mutation{
		action:   ActionPostInsight,
		fallback: "Failed to post insight",
		success:  "Insight posted! Students enrolled in this course can now see it.",
		call: func(ctx context.Context) error {
			posted, err := a.api.PostInsight(ctx, api.InsightInput{
				PostedBy:  a.user.UserID,
				CourseID:  d.CourseID,
				Title:     d.Title,
				ChartType: d.ChartType,
				ChartData: points,
				Summary:   d.Summary,
			})
			if err == nil {
				a.log.Info("insight posted", zap.String("insight_id", posted.InsightID), zap.String("course_id", d.CourseID))
			}
			return err
		},
		after: func() {
			a.draft = newInsightDraft()
			a.stats = nil
			a.grades = nil
			a.course.clear()
			a.postedFor = d.CourseID
		},
		refetch: []fetch{a.loadPosted(d.CourseID), a.loadOverview(), a.loadCourses(), a.loadAggregates()},
	})
}

type AnalystView struct {
	User       state.Session
	Tab        Tab
	Notice     *Notice
	Busy       map[string]bool
	Overview   *api.Overview
	Courses    []api.CourseStatsRow
	Aggregates *api.Aggregates
	Stats      *api.CourseStats
	Draft      InsightDraft
	Preview    []api.ChartPoint
	PostedFor  string
	Posted     []api.Insight
}

func (a *Analyst) View() AnalystView {
	busy := a.busySnapshot()
	a.mu.RLock()
	defer a.mu.RUnlock()

	v := AnalystView{
		User:      a.user,
		Tab:       a.tab,
		Busy:      busy,
		Courses:   append([]api.CourseStatsRow(nil), a.courses...),
		Draft:     a.draft,
		Preview:   ChartData(a.draft.ChartType, a.stats, a.grades),
		PostedFor: a.postedFor,
		Posted:    append([]api.Insight(nil), a.posted...),
	}
	if a.notice != nil {
		n := *a.notice
		v.Notice = &n
	}
	if a.overview != nil {
		o := *a.overview
		v.Overview = &o
	}
	if a.aggregates != nil {
		g := *a.aggregates
		v.Aggregates = &g
	}
	if a.stats != nil {
		s := *a.stats
		v.Stats = &s
	}
	return v
}
