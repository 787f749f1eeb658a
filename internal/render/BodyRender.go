package render

import (
	"net/http"

	"github.com/a-h/templ"
)

// IsHTMX reports whether the request came from an htmx swap.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// RenderWithLayout writes content alone for htmx swaps and wrapped by
// each wrapper, innermost first, for full page loads.
func RenderWithLayout(
	w http.ResponseWriter,
	r *http.Request,
	content templ.Component,
	wrappers ...func(templ.Component) templ.Component,
) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	wrapped := content
	if !IsHTMX(r) {
		for _, wrap := range wrappers {
			wrapped = wrap(wrapped)
		}
	}

	return wrapped.Render(r.Context(), w)
}
