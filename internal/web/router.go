package web

import (
	"net/http"

	"github.com/gorilla/mux"
)

// SetupRoutes builds the router. Middleware given here wraps every route,
// including the not-found handler.
func (h *WebHandler) SetupRoutes(middleware ...mux.MiddlewareFunc) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware...)

	// Web pages
	r.HandleFunc("/", h.Home).Methods("GET")

	// HTMX API endpoints
	api := r.PathPrefix("/api").Subrouter()
	h.posts.RegisterRoutes(r, api)
	h.users.RegisterRoutes(r, api)

	// 404 handler
	r.NotFoundHandler = applyMiddleware(http.HandlerFunc(h.NotFound), middleware)

	return r
}

// mux skips router middleware for NotFoundHandler, so it is applied by hand.
func applyMiddleware(handler http.Handler, middleware []mux.MiddlewareFunc) http.Handler {
	for i := len(middleware) - 1; i >= 0; i-- {
		handler = middleware[i](handler)
	}
	return handler
}
