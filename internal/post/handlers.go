package post

import (
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"postboard/internal/form"
	"postboard/internal/page"
	"postboard/internal/session"
	"postboard/internal/view"
	"postboard/internal/web/respond"
	"postboard/models"
)

// PageView is the data for the full posts page.
type PageView struct {
	Layout view.Layout
	PageID string
	Grid   GridView
}

type Handlers struct {
	Service  *Service
	Renderer *view.Renderer
}

func NewHandlers(service *Service, renderer *view.Renderer) *Handlers {
	return &Handlers{Service: service, Renderer: renderer}
}

// RegisterRoutes mounts the posts page on r and its fragments on api.
func (h *Handlers) RegisterRoutes(r, api *mux.Router) {
	r.HandleFunc("/posts", h.Index).Methods("GET")

	posts := api.PathPrefix("/posts/{page:" + page.IDPattern + "}").Subrouter()
	posts.HandleFunc("/grid", h.Grid).Methods("GET")
	posts.HandleFunc("/records", h.Records).Methods("GET")
	posts.HandleFunc("/records", h.Submit).Methods("POST")
	posts.HandleFunc("/modal", h.OpenModal).Methods("GET")
	posts.HandleFunc("/modal", h.CloseModal).Methods("DELETE")
	posts.HandleFunc("/draft", h.UpdateDraft).Methods("PATCH")
}

func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	id, grid := h.Service.NewPage(session.VisitorID(r.Context()))

	h.Renderer.Render(w, http.StatusOK, "posts.html", PageView{
		Layout: view.NewLayout("Posts", "posts"),
		PageID: id,
		Grid:   grid,
	})
}

func (h *Handlers) Grid(w http.ResponseWriter, r *http.Request) {
	grid, err := h.Service.Grid(r.Context(), session.VisitorID(r.Context()), mux.Vars(r)["page"])
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	h.Renderer.Render(w, http.StatusOK, "post-grid", grid)
}

func (h *Handlers) Records(w http.ResponseWriter, r *http.Request) {
	posts, err := h.Service.Records(r.Context(), session.VisitorID(r.Context()), mux.Vars(r)["page"])
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, posts)
}

// OpenModal shows the creation form. Query parameters prefill the draft,
// e.g. ?title=Hello&userId=3.
func (h *Handlers) OpenModal(w http.ResponseWriter, r *http.Request) {
	modal, err := h.Service.OpenModal(r.Context(), session.VisitorID(r.Context()), mux.Vars(r)["page"], firstValues(r))
	if err != nil {
		if models.IsFieldError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		respond.Error(w, r, err)
		return
	}
	h.Renderer.Render(w, http.StatusOK, "post-modal", modal)
}

func (h *Handlers) CloseModal(w http.ResponseWriter, r *http.Request) {
	modal, err := h.Service.CloseModal(r.Context(), session.VisitorID(r.Context()), mux.Vars(r)["page"])
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	h.Renderer.Render(w, http.StatusOK, "post-modal", modal)
}

// UpdateDraft stores one field change and answers with the submit button,
// enabled only when the draft is complete.
func (h *Handlers) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	field := r.FormValue("field")
	modal, err := h.Service.SetField(r.Context(), session.VisitorID(r.Context()), mux.Vars(r)["page"], field, r.FormValue(field))
	switch {
	case err == nil:
		h.Renderer.Render(w, http.StatusOK, "post-submit", modal)
	case models.IsFieldError(err):
		h.Renderer.Render(w, http.StatusUnprocessableEntity, "post-submit", modal)
	case errors.Is(err, form.ErrClosed):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		respond.Error(w, r, err)
	}
}

func (h *Handlers) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.Service.Submit(r.Context(), session.VisitorID(r.Context()), mux.Vars(r)["page"], draftValues(r))
	var validationErr *form.ValidationError
	switch {
	case err == nil:
		log.Printf("Post added, page %s now holds %d posts", result.Grid.PageID, len(result.Grid.Posts))
		h.Renderer.Render(w, http.StatusOK, "post-submitted", result)
	case errors.As(err, &validationErr), models.IsFieldError(err):
		h.Renderer.Render(w, http.StatusUnprocessableEntity, "post-modal", result.Modal)
	case errors.Is(err, form.ErrRejected):
		h.Renderer.Render(w, http.StatusConflict, "post-modal", result.Modal)
	case errors.Is(err, form.ErrClosed):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		respond.Error(w, r, err)
	}
}

func firstValues(r *http.Request) map[string]string {
	query := r.URL.Query()
	values := make(map[string]string, len(query))
	for key := range query {
		values[key] = query.Get(key)
	}
	return values
}

// draftValues picks the post fields out of a submitted form.
func draftValues(r *http.Request) map[string]string {
	values := make(map[string]string)
	for _, field := range []string{"userId", "title", "body"} {
		if _, ok := r.PostForm[field]; ok {
			values[field] = r.PostForm.Get(field)
		}
	}
	return values
}
