package handlers

import (
	"net/http"

	"coursehub/dashboard"
)

func (h *Handlers) HandleSelectCourse(w http.ResponseWriter, r *http.Request) {
	c, a, ok := current[*dashboard.Analyst](w, r)
	if !ok {
		return
	}
	a.SelectCourse(r.Context(), form(r, "course_id"))
	h.done(w, r, c, a)
}

func (h *Handlers) HandlePreviewChart(w http.ResponseWriter, r *http.Request) {
	c, a, ok := current[*dashboard.Analyst](w, r)
	if !ok {
		return
	}
	a.PreviewChart(form(r, "chart_type"))
	h.done(w, r, c, a)
}

func (h *Handlers) HandlePostInsight(w http.ResponseWriter, r *http.Request) {
	c, a, ok := current[*dashboard.Analyst](w, r)
	if !ok {
		return
	}
	err := a.PostInsight(r.Context(), dashboard.InsightDraft{
		CourseID:  form(r, "course_id"),
		Title:     form(r, "title"),
		ChartType: form(r, "chart_type"),
		Summary:   r.FormValue("summary"),
	})
	h.logged(r, dashboard.ActionPostInsight, err)
	h.done(w, r, c, a)
}
