package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedirect(t *testing.T) {
	cases := []struct {
		name   string
		method string
		htmx   bool
		status int
		header string
	}{
		{"get", http.MethodGet, false, http.StatusFound, "Location"},
		{"post", http.MethodPost, false, http.StatusSeeOther, "Location"},
		{"htmx", http.MethodPost, true, http.StatusOK, "HX-Redirect"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/x", nil)
			if tc.htmx {
				req.Header.Set("HX-Request", "true")
			}
			rec := httptest.NewRecorder()
			Redirect(rec, req, "/login")

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "/login", rec.Header().Get(tc.header))
		})
	}
}

func TestCurrentWithoutProfile(t *testing.T) {
	rec := httptest.NewRecorder()
	New(nil, nil).HandleDismiss(rec, httptest.NewRequest(http.MethodPost, "/notice/dismiss", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}
