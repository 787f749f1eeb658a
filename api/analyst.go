package api

import (
	"context"
	"net/http"
)

func (c *Client) Overview(ctx context.Context) (Overview, error) {
	var out Overview
	err := c.do(ctx, get("analyst.overview", "/analyst/overview", nil, "data"), &out)
	return out, err
}

func (c *Client) CourseStatsTable(ctx context.Context) ([]CourseStatsRow, error) {
	var out []CourseStatsRow
	err := c.do(ctx, get("analyst.courses", "/analyst/courses", nil, "courses"), &out)
	return out, err
}

func (c *Client) Aggregates(ctx context.Context) (Aggregates, error) {
	var out Aggregates
	err := c.do(ctx, get("analyst.insights", "/analyst/insights", nil, "insights"), &out)
	return out, err
}

func (c *Client) GradeDistribution(ctx context.Context, courseID string) ([]GradeCount, error) {
	var out []GradeCount
	err := c.do(ctx, get("analyst.grade_distribution", "/analyst/courses/"+seg(courseID)+"/grade-distribution", nil, "data"), &out)
	return out, err
}

func (c *Client) CourseStats(ctx context.Context, courseID string) (CourseStats, error) {
	var out CourseStats
	err := c.do(ctx, get("analyst.course_stats", "/analyst/courses/"+seg(courseID)+"/stats", nil, "data"), &out)
	return out, err
}

func (c *Client) PostInsight(ctx context.Context, in InsightInput) (PostedInsight, error) {
	var out PostedInsight
	err := c.do(ctx, send("analyst.insights.post", http.MethodPost, "/analyst/insights/post", in), &out)
	return out, err
}

func (c *Client) InsightsByCourse(ctx context.Context, courseID string) ([]Insight, error) {
	var out []Insight
	err := c.do(ctx, get("analyst.insights.by_course", "/analyst/insights/by-course", q("course_id", courseID), "insights"), &out)
	return out, err
}
