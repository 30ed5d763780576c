package respond

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"postboard/internal/page"
)

// StatusFor maps page-level errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, page.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, page.ErrNotLoaded):
		return http.StatusConflict
	case errors.Is(err, page.ErrStopped):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as a plain-text response with the status from StatusFor.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		log.Printf("%s %s failed: %v", r.Method, r.URL.Path, err)
	}
	http.Error(w, http.StatusText(status), status)
}

func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode JSON response: %v", err)
	}
}

// HTMX reports whether the request was issued by htmx rather than a full
// page navigation.
func HTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
