package user

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

// FieldView is one input of the user form.
type FieldView struct {
	Label        string
	Name         string
	Type         string
	Placeholder  string
	AutoComplete string
	Value        string
}

type SortOption struct {
	Value    string
	Label    string
	Selected bool
}

// PageView is the data for the full users page.
type PageView struct {
	Layout view.Layout
	PageID string
	Grid   GridView
}

func (v PageView) SortOptions() []SortOption {
	options := make([]SortOption, len(sortFields))
	for i, f := range sortFields {
		options[i] = SortOption{Value: string(f), Label: f.Label(), Selected: f == v.Grid.Sort}
	}
	return options
}

// Fields lists the form inputs in display order with the draft's values.
func (v ModalView) Fields() []FieldView {
	d := v.Draft
	return []FieldView{
		{Label: "Full name", Name: "name", Type: "text", Placeholder: "e.g. Leanne Graham", AutoComplete: "name", Value: d.Name},
		{Label: "Username", Name: "username", Type: "text", Placeholder: "e.g. Bret", AutoComplete: "username", Value: d.Username},
		{Label: "Email", Name: "email", Type: "email", Placeholder: "you@example.com", AutoComplete: "email", Value: d.Email},
		{Label: "Phone", Name: "phone", Type: "text", Placeholder: "e.g. 1-770-736-8031", AutoComplete: "tel", Value: d.Phone},
		{Label: "Website", Name: "website", Type: "text", Placeholder: "e.g. hildegard.org", AutoComplete: "url", Value: d.Website},
		{Label: "Street", Name: "address.street", Type: "text", Placeholder: "e.g. Kulas Light", Value: d.Address.Street},
		{Label: "City", Name: "address.city", Type: "text", Placeholder: "e.g. Gwenborough", Value: d.Address.City},
		{Label: "Zipcode", Name: "address.zipcode", Type: "text", Placeholder: "e.g. 92998-3874", Value: d.Address.Zipcode},
		{Label: "Company", Name: "company.name", Type: "text", Placeholder: "e.g. Romaguera-Crona", Value: d.Company.Name},
	}
}

type Handlers struct {
	Service  *Service
	Renderer *view.Renderer
}

func NewHandlers(service *Service, renderer *view.Renderer) *Handlers {
	return &Handlers{Service: service, Renderer: renderer}
}

func (h *Handlers) RegisterRoutes(r, api *mux.Router) {
	r.HandleFunc("/users", h.Index).Methods("GET")

	users := api.PathPrefix("/users/{page:" + page.IDPattern + "}").Subrouter()
	users.HandleFunc("/grid", h.Grid).Methods("GET")
	users.HandleFunc("/records", h.Records).Methods("GET")
	users.HandleFunc("/records", h.Submit).Methods("POST")
	users.HandleFunc("/modal", h.OpenModal).Methods("GET")
	users.HandleFunc("/modal", h.CloseModal).Methods("DELETE")
	users.HandleFunc("/draft", h.UpdateDraft).Methods("PATCH")
}

func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	id, grid := h.Service.NewPage(session.VisitorID(r.Context()))

	h.Renderer.Render(w, http.StatusOK, "users.html", PageView{
		Layout: view.NewLayout("Users", "users"),
		PageID: id,
		Grid:   grid,
	})
}

// Grid renders the users grid. The optional q and sort parameters change the
// page's search term and sort field.
func (h *Handlers) Grid(w http.ResponseWriter, r *http.Request) {
	var change QueryChange
	query := r.URL.Query()
	if _, ok := query["q"]; ok {
		search := query.Get("q")
		change.Search = &search
	}
	if _, ok := query["sort"]; ok {
		field, err := ParseSortField(query.Get("sort"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		change.Sort = &field
	}

	grid, err := h.Service.Grid(r.Context(), session.VisitorID(r.Context()), mux.Vars(r)["page"], change)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	h.Renderer.Render(w, http.StatusOK, "user-grid", grid)
}

func (h *Handlers) Records(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.Records(r.Context(), session.VisitorID(r.Context()), mux.Vars(r)["page"])
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, users)
}

// OpenModal shows the creation form, prefilled from query parameters such as
// ?name=Ada&address.city=London.
func (h *Handlers) OpenModal(w http.ResponseWriter, r *http.Request) {
	initial := make(map[string]string)
	for key := range r.URL.Query() {
		initial[key] = r.URL.Query().Get(key)
	}

	modal, err := h.Service.OpenModal(r.Context(), session.VisitorID(r.Context()), mux.Vars(r)["page"], initial)
	if err != nil {
		if models.IsFieldError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		respond.Error(w, r, err)
		return
	}
	h.Renderer.Render(w, http.StatusOK, "user-modal", modal)
}

func (h *Handlers) CloseModal(w http.ResponseWriter, r *http.Request) {
	modal, err := h.Service.CloseModal(r.Context(), session.VisitorID(r.Context()), mux.Vars(r)["page"])
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	h.Renderer.Render(w, http.StatusOK, "user-modal", modal)
}

// UpdateDraft stores one field change. Nothing is re-rendered; the form only
// reports problems when it is submitted.
func (h *Handlers) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	field := r.FormValue("field")
	err := h.Service.SetField(r.Context(), session.VisitorID(r.Context()), mux.Vars(r)["page"], field, r.FormValue(field))
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case models.IsFieldError(err):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
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
		log.Printf("User added, page %s now holds %d users", result.Grid.PageID, result.Grid.Total)
		h.Renderer.Render(w, http.StatusOK, "user-submitted", result)
	case errors.As(err, &validationErr), models.IsFieldError(err):
		h.Renderer.Render(w, http.StatusUnprocessableEntity, "user-modal", result.Modal)
	case errors.Is(err, form.ErrRejected):
		h.Renderer.Render(w, http.StatusConflict, "user-modal", result.Modal)
	case errors.Is(err, form.ErrClosed):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		respond.Error(w, r, err)
	}
}

// draftValues picks the user form fields out of a submitted form.
func draftValues(r *http.Request) map[string]string {
	values := make(map[string]string)
	for _, f := range (ModalView{}).Fields() {
		if _, ok := r.PostForm[f.Name]; ok {
			values[f.Name] = r.PostForm.Get(f.Name)
		}
	}
	return values
}
