package web

import (
	"net/http"

	"postboard/internal/post"
	"postboard/internal/user"
	"postboard/internal/view"
	"postboard/internal/web/respond"
)

type WebHandler struct {
	posts      *post.Handlers
	users      *user.Handlers
	renderer   *view.Renderer
	apiBaseURL string
}

type HomeData struct {
	Layout     view.Layout
	APIBaseURL string
}

type NotFoundData struct {
	Layout view.Layout
	Path   string
}

func NewWebHandler(posts *post.Handlers, users *user.Handlers, renderer *view.Renderer, apiBaseURL string) *WebHandler {
	return &WebHandler{
		posts:      posts,
		users:      users,
		renderer:   renderer,
		apiBaseURL: apiBaseURL,
	}
}

// Page Handlers
func (h *WebHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "home.html", HomeData{
		Layout:     view.NewLayout("Home", "home"),
		APIBaseURL: h.apiBaseURL,
	})
}

func (h *WebHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	// htmx requests only want the status, not a full page
	if respond.HTMX(r) {
		http.Error(w, "page not found", http.StatusNotFound)
		return
	}
	h.renderer.Render(w, http.StatusNotFound, "not-found.html", NotFoundData{
		Layout: view.NewLayout("Not Found", ""),
		Path:   r.URL.Path,
	})
}
